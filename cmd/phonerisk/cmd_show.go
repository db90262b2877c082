package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/phonerisk/phonerisk/internal/application/dto"
	"github.com/phonerisk/phonerisk/internal/application/usecase"
	"github.com/phonerisk/phonerisk/internal/domain/service"
)

func newShowCmd(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <analysis-id>",
		Short: "Print the analyst report of a stored analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid analysis id %q", args[0])
			}

			a, err := openApp(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := usecase.NewGenerateReport(a.repo, nil).Execute(cmd.Context(), dto.GetAnalysisRequest{AnalysisID: id})
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), service.RenderText(report))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}
