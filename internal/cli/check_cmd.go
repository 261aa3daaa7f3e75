package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/Anton2181/partykajson/internal/aggregate"
	"github.com/Anton2181/partykajson/internal/cli/formatter"
	"github.com/Anton2181/partykajson/internal/importer"
	"github.com/spf13/cobra"
)

func newCheckCmd(s *state) *cobra.Command {
	var (
		paths importer.Paths
		fix   bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate input files",
		Long: `Validates whichever of tasks, families and roster are given (or
configured) and reports every problem. Exclusions listed on one side only
are reported too; --fix rewrites the families file with them made mutual.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := s.app
			if app.Config != nil {
				if paths.Tasks == "" {
					paths.Tasks = app.Config.Inputs.Tasks
				}
				if paths.Families == "" {
					paths.Families = app.Config.Inputs.Families
				}
				if paths.Roster == "" {
					paths.Roster = app.Config.Inputs.Roster
				}
			}
			if paths.Tasks == "" && paths.Families == "" && paths.Roster == "" {
				return errors.New("nothing to check: pass --tasks, --families or --roster")
			}

			out := cmd.OutOrStdout()
			var problems []error

			if paths.Tasks != "" {
				rows, err := importer.LoadTasks(paths.Tasks)
				if err != nil {
					return fmt.Errorf("loading tasks: %w", err)
				}
				problems = append(problems, printValidation(out, paths.Tasks, importer.ValidateTasks(rows))...)
			}

			if paths.Roster != "" {
				rows, err := importer.LoadRoster(paths.Roster)
				if err != nil {
					return fmt.Errorf("loading roster: %w", err)
				}
				problems = append(problems, printValidation(out, paths.Roster, importer.ValidateRoster(rows))...)
			}

			if paths.Families != "" {
				families, err := importer.LoadFamilies(paths.Families)
				if err != nil {
					return fmt.Errorf("loading families: %w", err)
				}
				errs := importer.ValidateFamilies(families)
				problems = append(problems, printValidation(out, paths.Families, errs)...)

				fixed, added := aggregate.NormalizeExclusions(families)
				for _, line := range added {
					fmt.Fprintf(out, "  %s %s\n", formatter.StyleYellow.Render("!"), line)
				}
				switch {
				case len(added) == 0:
				case !fix:
					fmt.Fprintln(out, formatter.Dim("  run with --fix to make these exclusions mutual"))
				case len(errs) > 0:
					fmt.Fprintln(out, formatter.Dim("  not rewriting families while they have errors"))
				default:
					if err := importer.WriteFamilies(paths.Families, fixed); err != nil {
						return err
					}
					fmt.Fprintf(out, "Rewrote %s with %d exclusions added\n", paths.Families, len(added))
				}
			}

			if len(problems) > 0 {
				return fmt.Errorf("%w: %d problems found", importer.ErrInvalidInput, len(problems))
			}
			return nil
		},
	}

	addInputFlags(cmd, &paths)
	cmd.Flags().BoolVar(&fix, "fix", false, "Rewrite the families file with mutual exclusions")

	return cmd
}

// printValidation prints a file's validation result and passes the errors through.
func printValidation(w io.Writer, path string, errs []error) []error {
	if len(errs) == 0 {
		fmt.Fprintf(w, "%s %s\n", formatter.StyleGreen.Render("✔"), path)
		return nil
	}
	fmt.Fprintf(w, "%s %s\n", formatter.StyleRed.Render("✖"), path)
	for _, err := range errs {
		fmt.Fprintf(w, "    %s\n", err)
	}
	return errs
}
