package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andy/faktur/internal/app"
	"github.com/andy/faktur/internal/tui"
)

var errNotTerminal = errors.New("faktur needs an interactive terminal")

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the terminal UI",
	Long:  `Launch the interactive invoice builder.`,
	RunE:  launchTUI,
}

func launchTUI(cmd *cobra.Command, args []string) error {
	if !app.IsTerminal() {
		return errNotTerminal
	}

	a, err := app.New(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer a.Close()

	if serveAddr != "" {
		a.EnablePreview(serveAddr)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.StartPreview(ctx)
	if a.Server != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Preview: http://%s/\n", a.PreviewAddr)
	}

	a.Logger.Info("tui started", zap.String("output_dir", a.Config.Invoice.OutputDir))
	return tui.Run(ctx, a)
}
