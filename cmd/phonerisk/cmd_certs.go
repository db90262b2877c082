package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/phonerisk/phonerisk/pkg/tlsutil"
)

func newCertsCmd() *cobra.Command {
	var (
		hosts    []string
		outDir   string
		validity time.Duration
	)

	cmd := &cobra.Command{
		Use:   "certs",
		Short: "Generate a development CA and gRPC server certificate",
		Long: `Generate a throwaway CA and a server certificate signed by it.

Point TLS_CERT_FILE and TLS_KEY_FILE at server.pem and server-key.pem to
serve gRPC over TLS; clients trust ca.pem.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := tlsutil.GenerateDevCertificates(hosts, outDir, validity)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "CA certificate:     %s\n", paths.CACert)
			fmt.Fprintf(out, "Server certificate: %s\n", paths.ServerCert)
			fmt.Fprintf(out, "Server key:         %s\n", paths.ServerKey)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&hosts, "hosts", tlsutil.DefaultHosts, "DNS names and IPs the server certificate is valid for")
	f.StringVar(&outDir, "out", "certs", "Output directory")
	f.DurationVar(&validity, "validity", 365*24*time.Hour, "Server certificate lifetime")
	return cmd
}
