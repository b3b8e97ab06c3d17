// Package export turns a rendered invoice preview into a PDF file or a
// print job.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/andy/faktur/internal/render"
)

// Document is an immutable snapshot of the preview, safe to hand to another
// goroutine.
type Document struct {
	Number  string
	HTML    string
	Invoice render.Invoice
}

// Filename is the name a PDF of d is saved under.
func (d Document) Filename() string {
	return fmt.Sprintf("Faktur-%s.pdf", d.Number)
}

// Options controls page setup and the HTML-to-image step.
type Options struct {
	Unit         string  // "mm"
	Format       string  // "A4"
	Orientation  string  // "portrait" or "landscape"
	Margin       float64 // in Unit, all sides
	ImageType    string  // "jpeg"
	ImageQuality float64 // 0..1
	Scale        float64 // raster device scale factor
}

// DefaultOptions returns the fixed export settings.
func DefaultOptions() Options {
	return Options{
		Unit:         "mm",
		Format:       "A4",
		Orientation:  "portrait",
		Margin:       10,
		ImageType:    "jpeg",
		ImageQuality: 0.98,
		Scale:        2,
	}
}

func (o Options) orientationCode() string {
	if o.Orientation == "landscape" {
		return "L"
	}
	return "P"
}

// jpegQuality maps ImageQuality onto the 1..100 scale used by encoders.
func (o Options) jpegQuality() int {
	q := int(o.ImageQuality*100 + 0.5)
	if q < 1 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}

// Renderer produces PDF bytes for a document.
type Renderer interface {
	Render(ctx context.Context, doc Document, opts Options) ([]byte, error)
}

var (
	ErrEmptyDocument = errors.New("document has no line items")
	ErrUnknownEngine = errors.New("unknown pdf engine")
)

// Engine names accepted by NewRenderer.
const (
	EngineChrome = "chrome"
	EngineNative = "native"
)

// NewRenderer returns the renderer for engine. An empty name selects the
// chrome engine.
func NewRenderer(engine string, chrome ChromeConfig) (Renderer, error) {
	switch engine {
	case "", EngineChrome:
		return NewChromeRenderer(chrome), nil
	case EngineNative:
		return NativeRenderer{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
}

// SavePDF renders doc and writes it to dir. It returns the written path.
func SavePDF(ctx context.Context, r Renderer, doc Document, opts Options, dir string) (string, error) {
	if doc.Invoice.Empty {
		return "", ErrEmptyDocument
	}
	data, err := r.Render(ctx, doc, opts)
	if err != nil {
		return "", fmt.Errorf("render pdf: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, doc.Filename())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return path, nil
}
