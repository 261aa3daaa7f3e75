package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Anton2181/partykajson/internal/cli/formatter"
	"github.com/Anton2181/partykajson/internal/domain"
	"github.com/Anton2181/partykajson/internal/importer"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newAggregateCmd(s *state) *cobra.Command {
	var (
		paths  importer.Paths
		out    string
		format string
	)

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Group raw tasks into assignable groups",
		Long: `Reads tasks, families and roster, builds groups per (week, day) and
writes them as JSON or YAML. The groups file is the input of "solve".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := s.app
			format = strings.ToLower(format)
			if format != "json" && format != "yaml" {
				return fmt.Errorf("invalid --format %q: expected json or yaml", format)
			}
			p, err := resolvePaths(app, paths)
			if err != nil {
				return err
			}
			in, err := importer.Load(p)
			if err != nil {
				return err
			}
			res, err := app.Aggregate.Aggregate(cmd.Context(), in)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("creating %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			if err := writeGroups(w, res.Groups, format); err != nil {
				return err
			}

			fmt.Fprint(cmd.ErrOrStderr(), formatter.FormatAggregateStats(res.Stats))
			if out != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Groups written to %s\n", out)
			}
			return nil
		},
	}

	addInputFlags(cmd, &paths)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or yaml")

	return cmd
}

func writeGroups(w io.Writer, groups []domain.Group, format string) error {
	if groups == nil {
		groups = []domain.Group{}
	}
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(groups); err != nil {
			return fmt.Errorf("encoding groups: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(groups); err != nil {
		return fmt.Errorf("encoding groups: %w", err)
	}
	return nil
}
