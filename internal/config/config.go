package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "FAKTUR_CONFIG"

type Config struct {
	// Invoice settings
	Invoice InvoiceConfig `yaml:"invoice"`

	// Company details prefilled into a new form
	Company CompanyConfig `yaml:"company"`

	// PDF rendering
	PDF PDFConfig `yaml:"pdf"`

	// Print spooler
	Print PrintConfig `yaml:"print"`

	// Browser preview server
	Preview PreviewConfig `yaml:"preview"`

	// Log output
	Log LogConfig `yaml:"log"`
}

type InvoiceConfig struct {
	NumberPrefix   string  `yaml:"number_prefix"`    // Invoice number prefix (e.g., "INV")
	DefaultTaxRate float64 `yaml:"default_tax_rate"` // Tax rate in percent (11 = 11%)
	OutputDir      string  `yaml:"output_dir"`       // Directory for generated PDFs
}

type CompanyConfig struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Phone   string `yaml:"phone"`
	Email   string `yaml:"email"`
}

type PDFConfig struct {
	Engine     string        `yaml:"engine"`      // "chrome" or "native"
	ChromePath string        `yaml:"chrome_path"` // empty = look up on PATH
	Timeout    time.Duration `yaml:"timeout"`
}

type PrintConfig struct {
	Command []string `yaml:"command"` // PDF is piped to stdin
}

type PreviewConfig struct {
	Addr string `yaml:"addr"` // empty = disabled
}

type LogConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

func baseDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		homeDir = "."
	}
	return filepath.Join(homeDir, ".config", "faktur")
}

// DefaultConfigPath returns $FAKTUR_CONFIG or ~/.config/faktur/config.yaml
func DefaultConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(baseDir(), "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	dir := baseDir()
	return &Config{
		Invoice: InvoiceConfig{
			NumberPrefix:   "INV",
			DefaultTaxRate: 11,
			OutputDir:      filepath.Join(dir, "invoices"),
		},
		PDF: PDFConfig{
			Engine:  "chrome",
			Timeout: 30 * time.Second,
		},
		Print: PrintConfig{
			Command: []string{"lp"},
		},
		Log: LogConfig{
			Path:  filepath.Join(dir, "faktur.log"),
			Level: "info",
		},
	}
}

// LoadEnv reads a .env file from the working directory if there is one.
// Variables already set in the environment win.
func LoadEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Validate rejects settings the app cannot run with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.PDF.Engine) {
	case "", "chrome", "native":
	default:
		return fmt.Errorf("pdf.engine: unknown engine %q", c.PDF.Engine)
	}
	if c.Invoice.DefaultTaxRate < 0 || c.Invoice.DefaultTaxRate > 100 {
		return fmt.Errorf("invoice.default_tax_rate: %v is outside 0..100", c.Invoice.DefaultTaxRate)
	}
	if c.PDF.Timeout < 0 {
		return fmt.Errorf("pdf.timeout: must not be negative")
	}
	// The prefix ends up in the PDF filename under output_dir.
	if strings.ContainsAny(c.Invoice.NumberPrefix, `/\`) {
		return fmt.Errorf("invoice.number_prefix: %q must not contain path separators", c.Invoice.NumberPrefix)
	}
	return nil
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	// Create parent directories if they don't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := c.YAML()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// YAML returns the config as it would be saved.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// EnsureDirectories creates the invoice output and log directories
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Invoice.OutputDir, 0755); err != nil {
		return err
	}
	if c.Log.Path != "" {
		if err := os.MkdirAll(filepath.Dir(c.Log.Path), 0755); err != nil {
			return err
		}
	}
	return nil
}
