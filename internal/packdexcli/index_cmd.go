package packdexcli

import (
	"fmt"

	"github.com/spf13/cobra"

	"packdex/internal/packdexd"
)

func newIndexCommand(opts *Options) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Rebuild the creature index",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := opts.Handlers()
			if err != nil {
				return err
			}
			defer h.Close()

			res, err := h.Rebuild(cmd.Context(), packdexd.RebuildParams{Force: force})
			if err != nil {
				return err
			}

			if opts.JSON {
				out, err := RenderJSON(res)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "indexed %d profiles (persisted=%v)\n",
				res.Profiles, res.Persisted)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "rebuild even if a build is in flight")
	return cmd
}

func newStatusCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show index status",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := opts.Handlers()
			if err != nil {
				return err
			}
			defer h.Close()

			st := h.Status()
			if opts.JSON {
				out, err := RenderJSON(st)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(),
				"world=%s dialect=%s backend=%s loaded=%v profiles=%d\n",
				st.World, st.Dialect, st.Backend, st.Loaded, st.Profiles)
			return nil
		},
	}
}
