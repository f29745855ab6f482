// =============================================================================
// TSV to PDF Ticket Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// (process, validate, fetch, sign, version) are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (ticketgen)
//   ├── processCmd  (ticketgen process)
//   ├── validateCmd (ticketgen validate)
//   ├── fetchCmd    (ticketgen fetch)
//   ├── signCmd     (ticketgen sign)
//   └── versionCmd  (ticketgen version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/TSV-to-PDF-conversion/internal/config"
)

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// envFile holds the path to the .env file carrying collaborator credentials.
var envFile string

// verbose enables debug logging when set to true.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ticketgen",
	Short: "Delivery ticket generator - turn billing exports into filled PDF tickets",
	Long: `ticketgen converts a tabular billing export (QuickBooks TSV or spreadsheet)
into one filled, flattened PDF delivery ticket per patient order.

The pipeline repairs rows that the export broke across physical lines, splits
memo annotations from billable line items, merges line items that belong to
the same physical order, and fills the delivery ticket form template. Final
tickets are routed into "emailed" or "mailed" folders depending on whether
the order carries an email address.

Example Usage:
  ticketgen process --file export.tsv     # Generate tickets from one export
  ticketgen process                       # Process every export in the input directory
  ticketgen validate --file export.tsv    # Parse and group without rendering
  ticketgen sign --ticket out.pdf --name "Jane Doe" --email jane@example.com`,

	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print the help message.
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().StringVar(
		&envFile,
		"env",
		".env",
		"Path to the .env file carrying collaborator credentials",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// loadConfig reads the main configuration and wires up logging.
func loadConfig() (*config.MainConfig, error) {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	config.SetupLogging(level, cfg.LogFormat)
	return cfg, nil
}
