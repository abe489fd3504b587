package packdexcli

import (
	"fmt"

	"github.com/spf13/cobra"

	"packdex/internal/model"
)

func newQCommand(opts *Options) *cobra.Command {
	var (
		power     float64
		powerMin  float64
		powerMax  float64
		ctype     string
		size      string
		rarity    string
		alignment string
		spells    bool
		legendary bool
		traits    []string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "q",
		Short: "Query the creature index by criteria",
		RunE: func(cmd *cobra.Command, args []string) error {
			crit := model.Criteria{
				CreatureType: ctype,
				Size:         size,
				Rarity:       rarity,
				Alignment:    alignment,
				Traits:       traits,
				Limit:        limit,
			}
			// Only flags the user actually set become predicates.
			if cmd.Flags().Changed("power") {
				crit.PowerExact = &power
			}
			if cmd.Flags().Changed("min") {
				crit.PowerMin = &powerMin
			}
			if cmd.Flags().Changed("max") {
				crit.PowerMax = &powerMax
			}
			if cmd.Flags().Changed("spells") {
				crit.HasSpells = &spells
			}
			if cmd.Flags().Changed("legendary") {
				crit.HasLegendary = &legendary
			}

			h, err := opts.Handlers()
			if err != nil {
				return err
			}
			defer h.Close()

			res, err := h.Query(cmd.Context(), crit)
			if err != nil {
				return err
			}

			var out string
			if opts.JSON {
				out, err = RenderJSON(res)
				if err != nil {
					return err
				}
			} else {
				out = RenderProfiles(res.Profiles) + RenderSummary(res.Summary)
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&power, "power", 0, "exact power level (CR or level)")
	f.Float64Var(&powerMin, "min", 0, "minimum power level")
	f.Float64Var(&powerMax, "max", 0, "maximum power level")
	f.StringVar(&ctype, "type", "", "creature type")
	f.StringVar(&size, "size", "", "creature size")
	f.StringVar(&rarity, "rarity", "", "rarity (pf2e)")
	f.StringVar(&alignment, "alignment", "", "alignment")
	f.BoolVar(&spells, "spells", false, "has spellcasting")
	f.BoolVar(&legendary, "legendary", false, "has legendary actions (dnd5e)")
	f.StringSliceVar(&traits, "trait", nil, "required trait (pf2e, repeatable)")
	f.IntVar(&limit, "limit", 0, "result limit")
	return cmd
}
