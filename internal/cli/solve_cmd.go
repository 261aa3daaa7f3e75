package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Anton2181/partykajson/internal/cli/formatter"
	"github.com/Anton2181/partykajson/internal/importer"
	"github.com/Anton2181/partykajson/internal/progress"
	"github.com/Anton2181/partykajson/internal/report"
	"github.com/spf13/cobra"
)

func newSolveCmd(s *state) *cobra.Command {
	var (
		groupsPath string
		rosterPath string
		outDir     string
		prefix     string
		timeLimit  time.Duration
		ratio      int
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Assign an aggregated groups file without recording a run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := s.app
			if rosterPath == "" && app.Config != nil {
				rosterPath = app.Config.Inputs.Roster
			}
			if rosterPath == "" {
				return fmt.Errorf("--roster (or inputs.roster) is required")
			}
			groups, err := importer.LoadGroups(groupsPath)
			if err != nil {
				return err
			}
			roster, err := importer.LoadMembers(rosterPath)
			if err != nil {
				return err
			}

			solver := app.Solve
			if cmd.Flags().Changed("time-limit") || cmd.Flags().Changed("ratio") {
				cfg := app.Solve.Config()
				if cmd.Flags().Changed("time-limit") {
					cfg.TimeLimit = timeLimit
				}
				if cmd.Flags().Changed("ratio") {
					cfg.PenaltyRatio = ratio
				}
				if app.SolverFor == nil {
					return fmt.Errorf("overriding the optimizer configuration is not supported here")
				}
				if solver, err = app.SolverFor(cfg); err != nil {
					return err
				}
			}

			res, err := solver.Solve(cmd.Context(), groups, roster, progress.NewLineWriter(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}

			if prefix == "" {
				prefix = groupsPrefix(groupsPath)
			}
			rep := report.Build(groups, res.Assignments, res.Penalties)
			files, err := report.Save(outputDir(app, outDir), prefix, res.Assignments, res.Penalties, rep)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatResult(res))
			fmt.Fprintf(out, "\nAssignments saved to %s\n", files.Assignments)
			fmt.Fprintf(out, "Penalties saved to %s\n", files.Penalties)
			fmt.Fprintf(out, "Person report saved to %s\n", files.ByPerson)
			return nil
		},
	}

	cmd.Flags().StringVar(&groupsPath, "groups", "", "Groups file written by aggregate")
	cmd.Flags().StringVar(&rosterPath, "roster", "", "Roster file (JSON or YAML)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default output.dir)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Output file prefix (default derived from the groups file name)")
	cmd.Flags().DurationVar(&timeLimit, "time-limit", 0, "Search time limit, e.g. 30s (0 = unbounded)")
	cmd.Flags().IntVar(&ratio, "ratio", 0, "Cost ratio between adjacent ladder ranks")
	_ = cmd.MarkFlagRequired("groups")

	return cmd
}

// groupsPrefix turns "out/may_2026_groups.json" into "may_2026".
func groupsPrefix(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSuffix(base, "_groups")
}
