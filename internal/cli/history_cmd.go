package cli

import (
	"fmt"

	"github.com/Anton2181/partykajson/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newHistoryCmd(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded runs",
	}

	cmd.AddCommand(
		newHistoryListCmd(s),
		newHistoryShowCmd(s),
		newHistoryDeleteCmd(s),
	)

	return cmd
}

func newHistoryListCmd(s *state) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recorded runs, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := s.app.History.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRunList(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs (0 = all)")

	return cmd
}

func newHistoryShowCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run>",
		Short: "Show a run with its assignments and penalties",
		Long:  "Shows one run. <run> is a full run id or an unambiguous prefix.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := s.app.History.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRunDetail(d))
			return nil
		},
	}
}

func newHistoryDeleteCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <run>",
		Aliases: []string{"rm"},
		Short:   "Delete a run and everything it produced",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := s.app.History.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", r.ID)
			return nil
		},
	}
}
