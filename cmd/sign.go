// =============================================================================
// TSV to PDF Ticket Generator - Sign Command
// =============================================================================
//
// This file defines the 'sign' command, a thin front-end over the e-signature
// collaborator: send one rendered ticket to a signer by email.
//
// COMMAND USAGE:
//   ticketgen sign --ticket out.pdf --name "Jane Doe" --email jane@example.com
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/TSV-to-PDF-conversion/internal/config"
	"github.com/ginjaninja78/TSV-to-PDF-conversion/internal/esign"
)

var (
	signTicket string
	signName   string
	signEmail  string
)

// signCmd represents the 'sign' command.
var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Send a rendered ticket out for e-signature",
	Long: `The sign command sends one rendered delivery ticket to a signer through
Dropbox Sign. The API key is read from DROPBOX_SIGN_API_KEY in the
environment or the --env file.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runSign(cmd)
	},
}

func init() {
	rootCmd.AddCommand(signCmd)

	signCmd.Flags().StringVar(&signTicket, "ticket", "", "Path to the rendered ticket PDF")
	signCmd.Flags().StringVar(&signName, "name", "", "Signer's full name")
	signCmd.Flags().StringVar(&signEmail, "email", "", "Signer's email address")
	signCmd.MarkFlagRequired("ticket")
	signCmd.MarkFlagRequired("name")
	signCmd.MarkFlagRequired("email")
}

func runSign(cmd *cobra.Command) error {
	if _, err := loadConfig(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	creds := config.LoadCredentials(envFile)

	client := esign.NewClient(creds.DropboxSignAPIKey)
	requestID, err := client.SendSignatureRequest(cmd.Context(), signName, signEmail, signTicket)
	if err != nil {
		return err
	}

	fmt.Printf("Signature request sent to %s\nRequest ID: %s\n", signEmail, requestID)
	return nil
}
