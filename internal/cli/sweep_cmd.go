package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/Anton2181/partykajson/internal/cli/formatter"
	"github.com/Anton2181/partykajson/internal/domain"
	"github.com/Anton2181/partykajson/internal/importer"
	"github.com/Anton2181/partykajson/internal/penalty"
	"github.com/Anton2181/partykajson/internal/sweep"
	"github.com/spf13/cobra"
)

func newSweepCmd(s *state) *cobra.Command {
	var (
		paths      importer.Paths
		groupsPath string
		ratios     []int
		disable    []string
		timeLimit  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Solve under several ratios or with rules disabled, in parallel",
		Long: `Compares optimizer settings on the same groups. --ratios adds one variant
per ratio; --disable adds a baseline plus one variant per rule switched off.
Groups come from --groups, or are aggregated from the inputs.`,
		Example: `  partyka sweep --ratios 5,10,100
  partyka sweep --groups out/may_groups.json --roster roster.json --disable "Preferred Pair"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := s.app
			if len(ratios) == 0 && len(disable) == 0 {
				return errors.New("nothing to sweep: pass --ratios and/or --disable")
			}
			for _, rule := range disable {
				if !penalty.Known(rule) {
					return fmt.Errorf("unknown rule %q (see \"partyka rules\")", rule)
				}
			}

			groups, roster, err := sweepInputs(cmd, s.app, paths, groupsPath)
			if err != nil {
				return err
			}

			base := app.Solve.Config()
			if cmd.Flags().Changed("time-limit") {
				base.TimeLimit = timeLimit
			}
			variants := sweep.RatioVariants(base, ratios)
			if len(disable) > 0 {
				variants = append(variants, sweep.DisableVariants(base, disable)...)
			}

			stop := spin(cmd, app, fmt.Sprintf("Solving %d variants...", len(variants)))
			outcomes, err := app.Sweep.Sweep(cmd.Context(), groups, roster, variants)
			stop()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSweep(outcomes))
			return nil
		},
	}

	addInputFlags(cmd, &paths)
	cmd.Flags().StringVar(&groupsPath, "groups", "", "Groups file written by aggregate (skips aggregation)")
	cmd.Flags().IntSliceVar(&ratios, "ratios", nil, "Penalty ratios to compare, e.g. 5,10,100")
	cmd.Flags().StringArrayVar(&disable, "disable", nil, "Rule to switch off in its own variant (repeatable)")
	cmd.Flags().DurationVar(&timeLimit, "time-limit", 0, "Per-variant time limit (default optimizer.time_limit_seconds)")

	return cmd
}

func sweepInputs(cmd *cobra.Command, app *App, paths importer.Paths, groupsPath string) ([]domain.Group, []domain.TeamMember, error) {
	if groupsPath != "" {
		rosterPath := paths.Roster
		if rosterPath == "" && app.Config != nil {
			rosterPath = app.Config.Inputs.Roster
		}
		if rosterPath == "" {
			return nil, nil, errors.New("--roster (or inputs.roster) is required")
		}
		groups, err := importer.LoadGroups(groupsPath)
		if err != nil {
			return nil, nil, err
		}
		roster, err := importer.LoadMembers(rosterPath)
		if err != nil {
			return nil, nil, err
		}
		return groups, roster, nil
	}

	p, err := resolvePaths(app, paths)
	if err != nil {
		return nil, nil, err
	}
	in, err := importer.Load(p)
	if err != nil {
		return nil, nil, err
	}
	res, err := app.Aggregate.Aggregate(cmd.Context(), in)
	if err != nil {
		return nil, nil, err
	}
	return res.Groups, in.Members, nil
}
