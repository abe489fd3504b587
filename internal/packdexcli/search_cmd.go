package packdexcli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"packdex/internal/packdexd"
)

func newSearchCommand(opts *Options) *cobra.Command {
	var collectionType string

	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Free-text creature search (heuristic, index-independent)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := opts.Handlers()
			if err != nil {
				return err
			}
			defer h.Close()

			hits, err := h.Search(cmd.Context(), packdexd.SearchParams{
				Text:           strings.Join(args, " "),
				CollectionType: collectionType,
			})
			if err != nil {
				return err
			}

			var out string
			if opts.JSON {
				out, err = RenderJSON(hits)
				if err != nil {
					return err
				}
			} else {
				out = RenderHits(hits)
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&collectionType, "pack-type", "", "collection type to scan (default Actor)")
	return cmd
}
