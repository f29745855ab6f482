// =============================================================================
// TSV to PDF Ticket Generator - Fetch Command
// =============================================================================
//
// This file defines the 'fetch' command, a thin front-end over the
// QuickBooks collaborator: exchange an authorization code for bearer tokens
// and list recent invoices. This is an alternative upstream data source and
// is not part of the export-to-ticket pipeline.
//
// COMMAND USAGE:
//   ticketgen fetch --code <auth-code> --realm <realm-id> [--max 10]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/TSV-to-PDF-conversion/internal/config"
	"github.com/ginjaninja78/TSV-to-PDF-conversion/internal/quickbooks"
)

var (
	fetchCode  string
	fetchRealm string
	fetchMax   int
)

// fetchCmd represents the 'fetch' command.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch invoices from QuickBooks",
	Long: `The fetch command exchanges a QuickBooks OAuth authorization code for
bearer tokens and lists recent invoices for the company realm. Credentials
(CLIENT_ID, CLIENT_SECRET, REDIRECT_URI) are read from the environment or
the --env file.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchCode, "code", "", "OAuth authorization code")
	fetchCmd.Flags().StringVar(&fetchRealm, "realm", "", "QuickBooks company realm ID")
	fetchCmd.Flags().IntVar(&fetchMax, "max", 10, "Maximum number of invoices to fetch")
	fetchCmd.MarkFlagRequired("code")
	fetchCmd.MarkFlagRequired("realm")
}

func runFetch(cmd *cobra.Command) error {
	if _, err := loadConfig(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	creds := config.LoadCredentials(envFile)
	if creds.QBClientID == "" || creds.QBClientSecret == "" {
		return fmt.Errorf("CLIENT_ID and CLIENT_SECRET must be set (see --env)")
	}

	client := quickbooks.NewClient(quickbooks.Credentials{
		ClientID:     creds.QBClientID,
		ClientSecret: creds.QBClientSecret,
		RedirectURI:  creds.QBRedirectURI,
	})

	ctx := cmd.Context()
	tokens, err := client.ExchangeCode(ctx, fetchCode, fetchRealm)
	if err != nil {
		return err
	}

	invoices, err := client.FetchInvoices(ctx, tokens, fetchMax)
	if err != nil {
		return err
	}

	fmt.Printf("Fetched %d invoice(s)\n", len(invoices))
	for _, inv := range invoices {
		fmt.Printf("  #%s  %s  %s  %.2f\n", inv.DocNumber, inv.TxnDate, inv.CustomerRef.Name, inv.TotalAmt)
	}
	return nil
}
