package packdexcli

import (
	"github.com/spf13/cobra"

	"packdex/internal/version"
)

func NewRootCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "packdex",
		Short: "Compendium creature index and query tool",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.Version = version.String()
	cmd.InitDefaultVersionFlag()
	if f := cmd.Flags().Lookup("version"); f != nil {
		f.Shorthand = "v"
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file (YAML)")
	pf.StringVarP(&opts.World, "world", "w", "", "world directory")
	pf.StringVar(&opts.Dialect, "dialect", "", "game-system dialect (dnd5e|pf2e)")
	pf.StringVar(&opts.Store, "store", "", "artifact store backend (file|sqlite|bolt)")
	pf.StringVar(&opts.StorePath, "store-path", "", "artifact store location")
	pf.BoolVar(&opts.JSON, "json", false, "JSON output")
	pf.BoolVar(&opts.Verbose, "verbose", false, "verbose logging")

	cmd.AddCommand(newQCommand(opts))
	cmd.AddCommand(newSearchCommand(opts))
	cmd.AddCommand(newIndexCommand(opts))
	cmd.AddCommand(newStatusCommand(opts))
	return cmd
}
