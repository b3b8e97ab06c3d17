// Package server serves the live invoice preview to a browser.
package server

import (
	"context"
	"errors"
	"mime"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/andy/faktur/internal/builder"
	"github.com/andy/faktur/internal/export"
	"github.com/andy/faktur/internal/render"
)

// RefreshSeconds is how often the browser preview reloads itself.
const RefreshSeconds = 2

type Server struct {
	store    *Store
	renderer export.Renderer
	opts     export.Options
	logger   *zap.Logger
}

func New(store *Store, renderer export.Renderer, opts export.Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{store: store, renderer: renderer, opts: opts, logger: logger}
}

// Handler returns the router with all preview routes.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.previewHandler).Methods(http.MethodGet)
	r.HandleFunc("/print", s.printHandler).Methods(http.MethodGet)
	r.HandleFunc("/invoice.pdf", s.pdfHandler).Methods(http.MethodGet)
	r.HandleFunc("/healthz", healthHandler).Methods(http.MethodGet)
	r.Use(s.logRequests)
	return r
}

// Serve listens on addr until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("preview server listening", zap.String("addr", ln.Addr().String()))
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) invoice() render.Invoice {
	doc, ok := s.store.Snapshot()
	if !ok {
		return render.Invoice{Empty: true}
	}
	return doc.Invoice
}

func (s *Server) previewHandler(w http.ResponseWriter, r *http.Request) {
	s.writeHTML(w, render.HTMLOptions{RefreshSeconds: RefreshSeconds})
}

func (s *Server) printHandler(w http.ResponseWriter, r *http.Request) {
	s.writeHTML(w, render.HTMLOptions{AutoPrint: true})
}

func (s *Server) writeHTML(w http.ResponseWriter, opts render.HTMLOptions) {
	html, err := render.HTML(s.invoice(), opts)
	if err != nil {
		s.logger.Error("render preview html", zap.Error(err))
		http.Error(w, "Error rendering preview", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(html))
}

func (s *Server) pdfHandler(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.store.Snapshot()
	if !ok || doc.Invoice.Empty {
		http.Error(w, builder.NoticeEmptyPDF, http.StatusConflict)
		return
	}

	data, err := s.renderer.Render(r.Context(), doc, s.opts)
	if err != nil {
		s.logger.Error("render pdf for browser", zap.String("invoice_number", doc.Number), zap.Error(err))
		http.Error(w, builder.NoticePDFFailed, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename()}))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("preview request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
