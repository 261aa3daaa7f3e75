package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Anton2181/partykajson/internal/cli/formatter"
	"github.com/Anton2181/partykajson/internal/report"
	"github.com/spf13/cobra"
)

func newReportCmd(s *state) *cobra.Command {
	var (
		byLoad bool
		person string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "report <run>",
		Short: "Per-person report of a recorded run with effort bars",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, rep, err := s.app.Reports.PersonReport(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if person != "" {
				p, ok := rep.Person(person)
				if !ok {
					return fmt.Errorf("%q has no assignments or penalties in run %s", person, run.ID)
				}
				if asJSON {
					return writeJSON(out, p)
				}
				fmt.Fprint(out, formatter.FormatPerson(p))
				return nil
			}

			if asJSON {
				byName := make(map[string]report.Person, len(rep.People))
				for _, p := range rep.People {
					byName[p.Name] = p
				}
				return writeJSON(out, byName)
			}
			fmt.Fprint(out, formatter.FormatReport(run, rep, byLoad))
			return nil
		},
	}

	cmd.Flags().BoolVar(&byLoad, "by-load", false, "Sort effort bars by total effort")
	cmd.Flags().StringVar(&person, "person", "", "Only show one person")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(v)
}
