package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

type rootOptions struct {
	storeDir  string
	logLevel  string
	logFormat string
}

func defaultStoreDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(dir, ".phonerisk", "store")
	}
	return filepath.Join(".phonerisk", "store")
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "phonerisk",
		Short: "Fraud-risk analysis for phone numbers",
		Long: "phonerisk gathers carrier, fraud-score, spam and messaging evidence for a\n" +
			"phone number, scores it, and keeps a local history of analyses.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.storeDir, "store", defaultStoreDir(), "Directory of the local analysis store")
	f.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	f.StringVar(&opts.logFormat, "log-format", "text", "Log format (text, json)")

	cmd.AddCommand(
		newAnalyzeCmd(opts),
		newHistoryCmd(opts),
		newShowCmd(opts),
		newStatsCmd(opts),
		newCertsCmd(),
	)
	return cmd
}
