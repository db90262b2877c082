package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/phonerisk/phonerisk/internal/application/dto"
	"github.com/phonerisk/phonerisk/internal/application/usecase"
)

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var page, perPage int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored analyses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := usecase.NewListHistory(a.repo).Execute(cmd.Context(), dto.HistoryRequest{Page: page, PerPage: perPage})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if resp.Total == 0 {
				fmt.Fprintln(out, "No analyses stored.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNUMBER\tSCORE\tLEVEL\tANALYZED")
			for _, an := range resp.Analyses {
				fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\t%s\n",
					an.ID, an.PhoneNumber, an.RiskScore, an.RiskLevel,
					an.AnalysisDate.Format("2006-01-02 15:04"))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\npage %d of %d (%d total)\n", resp.CurrentPage, resp.Pages, resp.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", dto.DefaultPage, "Page number")
	cmd.Flags().IntVar(&perPage, "per-page", dto.DefaultPerPage, "Analyses per page (max 100)")
	return cmd
}
