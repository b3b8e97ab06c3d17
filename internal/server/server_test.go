package server

import (
	"context"
	"errors"
	"io"
	"mime"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/andy/faktur/internal/builder"
	"github.com/andy/faktur/internal/export"
	"github.com/andy/faktur/internal/render"
)

type stubRenderer struct {
	err error
}

func (r stubRenderer) Render(ctx context.Context, doc export.Document, opts export.Options) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.3 " + doc.Number), nil
}

func sampleDoc() export.Document {
	inv := render.Invoice{
		Number:  "INV-202610-0042",
		Company: render.Party{Name: "PT. Maju"},
		Client:  render.Party{Name: "ACME"},
		Rows:    []render.Row{{Description: "Widget", Quantity: "2", UnitPrice: "Rp50.000", Total: "Rp100.000"}},
		Total:   "Rp111.000",
	}
	return export.Document{Number: inv.Number, Invoice: inv}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPreview(t *testing.T) {
	store := NewStore()
	h := New(store, stubRenderer{}, export.DefaultOptions(), nil).Handler()

	rec := get(t, h, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, render.EmptyPreviewBody) {
		t.Fatal("expected empty placeholder before anything is published")
	}
	if !strings.Contains(body, `http-equiv="refresh"`) {
		t.Fatal("preview should refresh itself")
	}

	store.Publish(sampleDoc())
	body = get(t, h, "/").Body.String()
	if !strings.Contains(body, "INV-202610-0042") || !strings.Contains(body, "Rp111.000") {
		t.Fatalf("published invoice not served:\n%s", body)
	}
}

func TestPrintPage(t *testing.T) {
	store := NewStore()
	store.Publish(sampleDoc())
	h := New(store, stubRenderer{}, export.DefaultOptions(), nil).Handler()

	body := get(t, h, "/print").Body.String()
	if !strings.Contains(body, "window.print()") {
		t.Fatal("print page should open the print dialog")
	}
	if strings.Contains(body, `http-equiv="refresh"`) {
		t.Fatal("print page must not reload itself")
	}
}

func TestPDF(t *testing.T) {
	store := NewStore()
	h := New(store, stubRenderer{}, export.DefaultOptions(), nil).Handler()

	rec := get(t, h, "/invoice.pdf")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 with no items, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), builder.NoticeEmptyPDF) {
		t.Fatalf("expected refusal notice, got %q", rec.Body.String())
	}

	store.Publish(sampleDoc())
	rec = get(t, h, "/invoice.pdf")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "Faktur-INV-202610-0042.pdf") {
		t.Fatalf("unexpected disposition %q", rec.Header().Get("Content-Disposition"))
	}
}

func TestPDF_DispositionQuoting(t *testing.T) {
	store := NewStore()
	h := New(store, stubRenderer{}, export.DefaultOptions(), nil).Handler()

	doc := sampleDoc()
	doc.Number = "INV 2026; 42"
	store.Publish(doc)

	rec := get(t, h, "/invoice.pdf")
	_, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	if err != nil {
		t.Fatalf("malformed disposition %q: %v", rec.Header().Get("Content-Disposition"), err)
	}
	if params["filename"] != "Faktur-INV 2026; 42.pdf" {
		t.Fatalf("unexpected filename %q", params["filename"])
	}
}

func TestPDF_RendererFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	store := NewStore()
	store.Publish(sampleDoc())
	h := New(store, stubRenderer{err: errors.New("no chrome")}, export.DefaultOptions(), zap.New(core)).Handler()

	rec := get(t, h, "/invoice.pdf")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected the failure to be logged, got %d entries", logs.Len())
	}
}

func TestHealthAndMethods(t *testing.T) {
	h := New(NewStore(), stubRenderer{}, export.DefaultOptions(), nil).Handler()

	rec := get(t, h, "/healthz")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected health response %d %q", rec.Code, rec.Body.String())
	}

	post := httptest.NewRecorder()
	h.ServeHTTP(post, httptest.NewRequest(http.MethodPost, "/", nil))
	if post.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", post.Code)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Publish(sampleDoc())
		}()
		go func() {
			defer wg.Done()
			store.Snapshot()
		}()
	}
	wg.Wait()
	if _, ok := store.Snapshot(); !ok {
		t.Fatal("expected a snapshot")
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	srv := New(NewStore(), stubRenderer{}, export.DefaultOptions(), nil)

	done := make(chan error, 1)
	go func() { done <- srv.serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Fatalf("unexpected body %q", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
