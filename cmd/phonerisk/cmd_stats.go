package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phonerisk/phonerisk/internal/application/usecase"
	"github.com/phonerisk/phonerisk/internal/domain/valueobject"
)

func newStatsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize stored analyses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := usecase.NewGetStatistics(a.repo).Execute(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total analyses:     %d\n", stats.TotalAnalyses)
			fmt.Fprintf(out, "Average risk score: %.2f\n", stats.AverageRiskScore)
			fmt.Fprintln(out, "By level:")
			levels := valueobject.AllRiskLevels()
			for i := len(levels) - 1; i >= 0; i-- {
				name := levels[i].String()
				fmt.Fprintf(out, "  %-8s %d\n", name, stats.RiskDistribution[strings.ToLower(name)])
			}
			return nil
		},
	}
}
