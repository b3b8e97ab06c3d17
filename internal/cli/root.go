package cli

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	serveAddr  string
)

var rootCmd = &cobra.Command{
	Use:   "faktur",
	Short: "Build Indonesian invoices in the terminal",
	Long: `Faktur is a single-screen invoice builder: fill in company and client
details, add line items, watch the preview update, then save the invoice as a
PDF or send it to the printer.

By default, running faktur without arguments launches the interactive TUI.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch TUI
		return launchTUI(cmd, args)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $FAKTUR_CONFIG or ~/.config/faktur/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serveAddr, "serve", "", "serve the live preview over HTTP on this address, e.g. 127.0.0.1:8088")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(configCmd)
}
