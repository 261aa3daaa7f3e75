package cli

import (
	"fmt"

	"github.com/Anton2181/partykajson/internal/cli/formatter"
	"github.com/Anton2181/partykajson/internal/importer"
	"github.com/Anton2181/partykajson/internal/progress"
	"github.com/Anton2181/partykajson/internal/report"
	"github.com/Anton2181/partykajson/internal/service"
	"github.com/spf13/cobra"
)

func newRunCmd(s *state) *cobra.Command {
	var (
		paths  importer.Paths
		label  string
		reuse  bool
		outDir string
		prefix string
		noSave bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Aggregate, solve and record a run",
		Long: `Runs the whole pipeline on the configured inputs and stores the result
in the run history. With --reuse, a stored run whose inputs and optimizer
settings hash to the same fingerprint is returned instead of solving again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := s.app
			p, err := resolvePaths(app, paths)
			if err != nil {
				return err
			}

			stderr := cmd.ErrOrStderr()
			res, err := app.Runs.Run(cmd.Context(), service.RunRequest{
				Paths: p,
				Label: label,
				Reuse: reuse,
				Progress: func(runID string) progress.Sink {
					sinks := progress.Multi{progress.NewLineWriter(stderr)}
					if app.Progress != nil {
						sinks = append(sinks, app.Progress(runID))
					}
					return sinks
				},
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(stderr, formatter.FormatAggregateStats(res.Aggregate))
			fmt.Fprint(out, formatter.FormatRunSummary(res.Detail.Run, res.Reused))
			if noSave {
				return nil
			}

			d := res.Detail
			if prefix == "" {
				prefix = runPrefix(d.Run.ID, label)
			}
			rep := report.Build(d.Groups, d.Assignments, d.Penalties)
			files, err := report.Save(outputDir(app, outDir), prefix, d.Assignments, d.Penalties, rep)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nAssignments saved to %s\n", files.Assignments)
			fmt.Fprintf(out, "Penalties saved to %s\n", files.Penalties)
			fmt.Fprintf(out, "Person report saved to %s\n", files.ByPerson)
			return nil
		},
	}

	addInputFlags(cmd, &paths)
	cmd.Flags().StringVar(&label, "label", "", "Free-form label stored with the run")
	cmd.Flags().BoolVar(&reuse, "reuse", false, "Return a stored run with identical inputs instead of solving")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default output.dir)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Output file prefix (default label or short run id)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Only record the run, write no output files")

	return cmd
}

func runPrefix(id, label string) string {
	if label != "" {
		return label
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
