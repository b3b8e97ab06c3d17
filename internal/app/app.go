package app

import (
	"context"
	"fmt"
	"os"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/andy/faktur/internal/config"
	"github.com/andy/faktur/internal/domain"
	"github.com/andy/faktur/internal/export"
	"github.com/andy/faktur/internal/logging"
	"github.com/andy/faktur/internal/server"
)

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	Logger *zap.Logger

	// Export services
	Renderer export.Renderer
	Printer  export.Printer
	Options  export.Options

	// Controller inputs
	Numbers *domain.NumberGenerator
	IDs     *snowflake.Node

	// Browser preview; Server is nil unless PreviewAddr is set
	Previews    *server.Store
	Server      *server.Server
	PreviewAddr string
}

// New loads config from path (or the default location) and builds the App.
func New(path string) (*App, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, err
	}
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(cfg *config.Config) (*App, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	renderer, err := export.NewRenderer(cfg.PDF.Engine, export.ChromeConfig{
		ExecPath: cfg.PDF.ChromePath,
		Timeout:  cfg.PDF.Timeout,
	})
	if err != nil {
		return nil, err
	}

	node, err := snowflake.NewNode(int64(os.Getpid() % 1024))
	if err != nil {
		return nil, fmt.Errorf("failed to create id node: %w", err)
	}

	a := &App{
		Config:      cfg,
		Logger:      logger,
		Renderer:    renderer,
		Printer:     export.NewSpoolPrinter(cfg.Print.Command),
		Options:     export.DefaultOptions(),
		Numbers:     domain.NewNumberGenerator(cfg.Invoice.NumberPrefix),
		IDs:         node,
		Previews:    server.NewStore(),
		PreviewAddr: cfg.Preview.Addr,
	}
	if a.PreviewAddr != "" {
		a.Server = server.New(a.Previews, renderer, a.Options, logger)
	}
	return a, nil
}

// EnablePreview turns on the browser preview at addr, overriding config.
func (a *App) EnablePreview(addr string) {
	a.PreviewAddr = addr
	a.Server = server.New(a.Previews, a.Renderer, a.Options, a.Logger)
}

// StartPreview runs the preview server in the background until ctx ends.
// Errors are logged; the TUI keeps running without the browser preview.
func (a *App) StartPreview(ctx context.Context) {
	if a.Server == nil {
		return
	}
	go func() {
		if err := a.Server.Serve(ctx, a.PreviewAddr); err != nil {
			a.Logger.Error("preview server stopped", zap.String("addr", a.PreviewAddr), zap.Error(err))
		}
	}()
}

// Close flushes the logger
func (a *App) Close() error {
	if a.Logger != nil {
		a.Logger.Sync()
	}
	return nil
}

// IsTerminal reports whether stdin and stdout are both terminals.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
