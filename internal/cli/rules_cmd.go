package cli

import (
	"fmt"

	"github.com/Anton2181/partykajson/internal/cli/formatter"
	"github.com/Anton2181/partykajson/internal/penalty"
	"github.com/spf13/cobra"
)

func newRulesCmd(s *state) *cobra.Command {
	var ratio int

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the penalty ladder with the cost of each rule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := s.app.Solve.Config()
			if cmd.Flags().Changed("ratio") {
				cfg.PenaltyRatio = ratio
			}
			order := cfg.Ladder
			if len(order) == 0 {
				order = penalty.DefaultOrder
			}
			ladder, err := penalty.NewLadder(penalty.Active(order, cfg.DisabledRules), cfg.PenaltyRatio)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLadder(ladder, cfg.DisabledRules))
			return nil
		},
	}

	cmd.Flags().IntVar(&ratio, "ratio", 0, "Show costs for another ratio")

	return cmd
}
