package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phonerisk/phonerisk/internal/application/dto"
)

type analyzeOptions struct {
	providersFile string
	deep          bool
	asJSON        bool
	parallel      bool
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <phone-number>",
		Short: "Analyze a phone number for fraud risk",
		Long: `Analyze a phone number and store the result in the local history.

A stored analysis younger than 24 hours is reused unless --deep is given.

Usage:
  phonerisk analyze +16502530000
  phonerisk analyze "+44 20 7183 8750" --deep --json
  phonerisk analyze +16502530000 --providers providers.yaml

API keys are read from IPQS_API_KEY and NUMVERIFY_API_KEY, or from the
providers file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, root, opts, args[0])
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.deep, "deep", false, "Force a fresh analysis even if a recent one exists")
	f.BoolVar(&opts.asJSON, "json", false, "Print the full result as JSON")
	f.StringVar(&opts.providersFile, "providers", "", "Providers YAML file (default: $PROVIDERS_FILE)")
	f.BoolVar(&opts.parallel, "parallel", false, "Query providers concurrently")
	return cmd
}

func runAnalyze(cmd *cobra.Command, root *rootOptions, opts *analyzeOptions, number string) error {
	a, err := openApp(root, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	providersFile := opts.providersFile
	if providersFile == "" {
		providersFile = envOr("PROVIDERS_FILE", "")
	}
	uc, err := a.analyzer(providersFile, opts.parallel)
	if err != nil {
		return err
	}

	resp, err := uc.Execute(cmd.Context(), dto.AnalyzeRequest{PhoneNumber: number, DeepScan: opts.deep})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	printAnalysis(out, resp)
	return nil
}

func printAnalysis(w io.Writer, resp dto.AnalyzeResponse) {
	an := resp.Analysis
	fmt.Fprintf(w, "%s\n\n", resp.Message)
	fmt.Fprintf(w, "ID:          %s\n", an.ID)
	fmt.Fprintf(w, "Number:      %s\n", an.PhoneNumber)
	fmt.Fprintf(w, "Carrier:     %s\n", orDash(an.Carrier))
	fmt.Fprintf(w, "Line type:   %s\n", orDash(an.LineType))
	fmt.Fprintf(w, "Location:    %s\n", orDash(an.Location))
	fmt.Fprintf(w, "Risk:        %.2f/100 (%s)\n", an.RiskScore, an.RiskLevel)
	fmt.Fprintf(w, "Spam:        %d reports\n", an.SpamReportsCount)
	fmt.Fprintf(w, "Fraud:       %d mentions\n", an.FraudMentionsCount)
	fmt.Fprintf(w, "Sources:     %s\n", orDash(strings.Join(an.DataSourcesUsed, ", ")))

	if len(an.RiskFactors) > 0 {
		fmt.Fprintln(w, "\nRisk factors:")
		for _, f := range an.RiskFactors {
			fmt.Fprintf(w, "  [%s] %s: %s\n", f.Severity, f.FactorType, f.Description)
		}
	}

	if len(an.StepErrors) > 0 {
		fmt.Fprintln(w, "\nUnavailable evidence:")
		keys := make([]string, 0, len(an.StepErrors))
		for k := range an.StepErrors {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %s\n", k, an.StepErrors[k])
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
