package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andy/faktur/internal/domain"
	"github.com/andy/faktur/internal/render"
	"github.com/shopspring/decimal"
)

func testDocument(t *testing.T, n int) Document {
	t.Helper()
	var items []*domain.LineItem
	for i := 0; i < n; i++ {
		item := domain.NewLineItem(0)
		item.Set(domain.ItemDescription, "Jasa konsultasi")
		item.Set(domain.ItemPrice, "250000")
		items = append(items, item)
	}
	header := domain.Header{
		CompanyName:    "PT. Maju",
		CompanyAddress: "Jl. Sudirman 1\nJakarta",
		ClientName:     "ACME",
		InvoiceDate:    "2026-10-15",
		Notes:          "Pembayaran 14 hari",
	}
	inv := render.Build("INV-202610-0001", header, items, domain.CalculateTotals(items, decimal.NewFromInt(11)))
	html, err := render.HTML(inv, render.HTMLOptions{})
	if err != nil {
		t.Fatalf("render html: %v", err)
	}
	return Document{Number: inv.Number, HTML: html, Invoice: inv}
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	if o.Format != "A4" || o.Unit != "mm" || o.Orientation != "portrait" || o.Margin != 10 {
		t.Fatalf("unexpected page setup: %+v", o)
	}
	if o.ImageType != "jpeg" || o.ImageQuality != 0.98 || o.Scale != 2 {
		t.Fatalf("unexpected raster setup: %+v", o)
	}
	if o.jpegQuality() != 98 {
		t.Fatalf("expected jpeg quality 98, got %d", o.jpegQuality())
	}
}

func TestDocumentFilename(t *testing.T) {
	doc := Document{Number: "INV-202610-0042"}
	if got := doc.Filename(); got != "Faktur-INV-202610-0042.pdf" {
		t.Fatalf("unexpected filename %q", got)
	}
}

func TestNewRenderer(t *testing.T) {
	if _, ok := mustRenderer(t, "").(ChromeRenderer); !ok {
		t.Fatalf("empty engine should select chrome")
	}
	if _, ok := mustRenderer(t, EngineNative).(NativeRenderer); !ok {
		t.Fatalf("expected native renderer")
	}
	if _, err := NewRenderer("wkhtmltopdf", ChromeConfig{}); !errors.Is(err, ErrUnknownEngine) {
		t.Fatalf("expected ErrUnknownEngine, got %v", err)
	}
}

func mustRenderer(t *testing.T, engine string) Renderer {
	t.Helper()
	r, err := NewRenderer(engine, ChromeConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return r
}

func TestNativeRenderer_ProducesPDF(t *testing.T) {
	data, err := NativeRenderer{}.Render(context.Background(), testDocument(t, 3), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output is not a pdf")
	}
}

func TestNativeRenderer_RefusesEmpty(t *testing.T) {
	_, err := NativeRenderer{}.Render(context.Background(), testDocument(t, 0), DefaultOptions())
	if !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestLayoutRaster_SplitsTallImages(t *testing.T) {
	// 190mm content width at 4px/mm is 760px; 277mm of height is ~1108px,
	// so 2500px needs three pages.
	img := image.NewRGBA(image.Rect(0, 0, 760, 2500))
	for y := 0; y < 2500; y += 10 {
		for x := 0; x < 760; x++ {
			img.Set(x, y, color.Black)
		}
	}
	var raw bytes.Buffer
	if err := jpeg.Encode(&raw, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode: %v", err)
	}

	data, err := layoutRaster(raw.Bytes(), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := bytes.Count(data, []byte("/Type /Page\n")); got != 3 {
		t.Fatalf("expected 3 pages, got %d", got)
	}
}

func TestLayoutRaster_RejectsGarbage(t *testing.T) {
	if _, err := layoutRaster([]byte("not an image"), DefaultOptions()); err == nil {
		t.Fatalf("expected decode error")
	}
}

type fakeRenderer struct {
	data  []byte
	err   error
	calls int
}

func (f *fakeRenderer) Render(ctx context.Context, doc Document, opts Options) ([]byte, error) {
	f.calls++
	return f.data, f.err
}

func TestSavePDF(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	r := &fakeRenderer{data: []byte("%PDF-1.3 fake")}

	path, err := SavePDF(context.Background(), r, testDocument(t, 1), DefaultOptions(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "Faktur-INV-202610-0001.pdf" {
		t.Fatalf("unexpected path %q", path)
	}
	got, err := os.ReadFile(path)
	if err != nil || string(got) != "%PDF-1.3 fake" {
		t.Fatalf("unexpected file content %q (%v)", got, err)
	}
}

func TestSavePDF_Errors(t *testing.T) {
	r := &fakeRenderer{err: errors.New("chrome not found")}
	dir := t.TempDir()

	if _, err := SavePDF(context.Background(), r, testDocument(t, 0), DefaultOptions(), dir); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	if r.calls != 0 {
		t.Fatalf("renderer must not run for an empty document")
	}

	_, err := SavePDF(context.Background(), r, testDocument(t, 1), DefaultOptions(), dir)
	if err == nil || !strings.Contains(err.Error(), "chrome not found") {
		t.Fatalf("expected wrapped renderer error, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("no file should be written on failure")
	}
}

type fakePrinter struct {
	got   []byte
	title string
	err   error
}

func (p *fakePrinter) Print(ctx context.Context, pdf []byte, title string) error {
	p.got, p.title = pdf, title
	return p.err
}

func TestPrintDocument(t *testing.T) {
	r := &fakeRenderer{data: []byte("%PDF")}
	p := &fakePrinter{}

	if err := PrintDocument(context.Background(), r, p, testDocument(t, 2), DefaultOptions()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(p.got) != "%PDF" || p.title != "Faktur-INV-202610-0001.pdf" {
		t.Fatalf("unexpected print job %q %q", p.got, p.title)
	}

	p2 := &fakePrinter{}
	if err := PrintDocument(context.Background(), r, p2, testDocument(t, 0), DefaultOptions()); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	if p2.got != nil {
		t.Fatalf("nothing should be printed for an empty document")
	}
}

func TestSpoolPrinter(t *testing.T) {
	if got := NewSpoolPrinter(nil).Command; len(got) != 1 || got[0] != "lp" {
		t.Fatalf("expected lp fallback, got %v", got)
	}
	if err := (SpoolPrinter{}).Print(context.Background(), nil, ""); !errors.Is(err, ErrNoPrintCommand) {
		t.Fatalf("expected ErrNoPrintCommand, got %v", err)
	}

	// cat consumes stdin and exits cleanly.
	if _, err := os.Stat("/bin/cat"); err == nil {
		if err := NewSpoolPrinter([]string{"/bin/cat"}).Print(context.Background(), []byte("%PDF"), "x"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := os.Stat("/bin/false"); err == nil {
		if err := NewSpoolPrinter([]string{"/bin/false"}).Print(context.Background(), []byte("%PDF"), "x"); err == nil {
			t.Fatalf("expected failure from /bin/false")
		}
	}
}
