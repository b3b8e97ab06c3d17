package builder

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andy/faktur/internal/export"
)

var ErrBusy = errors.New("an export is already running")

// PDFJob is a download captured from the controller. Run touches only the
// job's own fields and may be called from any goroutine.
type PDFJob struct {
	ID       string
	Doc      export.Document
	renderer export.Renderer
	opts     export.Options
	dir      string
	started  time.Time
}

// Run renders the PDF and saves it, returning the written path.
func (j PDFJob) Run(ctx context.Context) (string, error) {
	return export.SavePDF(ctx, j.renderer, j.Doc, j.opts, j.dir)
}

// PrintJob is a print request captured from the controller.
type PrintJob struct {
	ID       string
	Doc      export.Document
	renderer export.Renderer
	printer  export.Printer
	opts     export.Options
	started  time.Time
}

// Run renders the PDF and hands it to the printer.
func (j PrintJob) Run(ctx context.Context) error {
	return export.PrintDocument(ctx, j.renderer, j.printer, j.Doc, j.opts)
}

// PreparePDF starts a download. With no items it notifies the user once and
// returns ErrNoItems. Otherwise the download control is marked busy until
// FinishPDF.
func (c *Controller) PreparePDF() (PDFJob, error) {
	if c.busy {
		return PDFJob{}, ErrBusy
	}
	if len(c.items) == 0 {
		c.cfg.Notifier.Notify(NoticeEmptyPDF)
		return PDFJob{}, ErrNoItems
	}
	doc, err := c.Document()
	if err != nil {
		c.cfg.Logger.Error("render pdf document", zap.Error(err))
		c.cfg.Notifier.Notify(NoticePDFFailed)
		return PDFJob{}, err
	}

	c.setBusy(true)
	job := PDFJob{
		ID:       uuid.NewString(),
		Doc:      doc,
		renderer: c.cfg.Renderer,
		opts:     c.cfg.Options,
		dir:      c.cfg.OutputDir,
		started:  c.cfg.Now(),
	}
	c.cfg.Logger.Info("pdf export started",
		zap.String("export_id", job.ID),
		zap.String("invoice_number", doc.Number),
	)
	return job, nil
}

// FinishPDF records the outcome of job and restores the download control.
// A failure is logged and shown to the user as a generic notice.
func (c *Controller) FinishPDF(job PDFJob, path string, err error) {
	c.setBusy(false)
	fields := []zap.Field{
		zap.String("export_id", job.ID),
		zap.String("invoice_number", job.Doc.Number),
		zap.Duration("elapsed", c.cfg.Now().Sub(job.started)),
	}
	if err != nil {
		c.cfg.Logger.Error("pdf export failed", append(fields, zap.Error(err))...)
		c.cfg.Notifier.Notify(NoticePDFFailed)
		return
	}
	c.cfg.Logger.Info("pdf export finished", append(fields, zap.String("path", path))...)
}

// DownloadPDF runs a whole download on the calling goroutine.
func (c *Controller) DownloadPDF(ctx context.Context) (string, error) {
	job, err := c.PreparePDF()
	if err != nil {
		return "", err
	}
	path, err := job.Run(ctx)
	c.FinishPDF(job, path, err)
	return path, err
}

// PreparePrint starts a print. With no items it notifies the user once and
// returns ErrNoItems.
func (c *Controller) PreparePrint() (PrintJob, error) {
	if c.busy {
		return PrintJob{}, ErrBusy
	}
	if len(c.items) == 0 {
		c.cfg.Notifier.Notify(NoticeEmptyPrint)
		return PrintJob{}, ErrNoItems
	}
	doc, err := c.Document()
	if err != nil {
		c.cfg.Logger.Error("render print document", zap.Error(err))
		c.cfg.Notifier.Notify(NoticePrintFail)
		return PrintJob{}, err
	}

	c.setBusy(true)
	job := PrintJob{
		ID:       uuid.NewString(),
		Doc:      doc,
		renderer: c.cfg.Renderer,
		printer:  c.cfg.Printer,
		opts:     c.cfg.Options,
		started:  c.cfg.Now(),
	}
	c.cfg.Logger.Info("print started",
		zap.String("export_id", job.ID),
		zap.String("invoice_number", doc.Number),
	)
	return job, nil
}

// FinishPrint records the outcome of job.
func (c *Controller) FinishPrint(job PrintJob, err error) {
	c.setBusy(false)
	fields := []zap.Field{
		zap.String("export_id", job.ID),
		zap.String("invoice_number", job.Doc.Number),
		zap.Duration("elapsed", c.cfg.Now().Sub(job.started)),
	}
	if err != nil {
		c.cfg.Logger.Error("print failed", append(fields, zap.Error(err))...)
		c.cfg.Notifier.Notify(NoticePrintFail)
		return
	}
	c.cfg.Logger.Info("print finished", fields...)
}

// Print runs a whole print on the calling goroutine.
func (c *Controller) Print(ctx context.Context) error {
	job, err := c.PreparePrint()
	if err != nil {
		return err
	}
	err = job.Run(ctx)
	c.FinishPrint(job, err)
	return err
}

// Busy reports whether an export or print is in flight.
func (c *Controller) Busy() bool {
	return c.busy
}

func (c *Controller) setBusy(busy bool) {
	c.busy = busy
	if b, ok := c.cfg.View.(BusyIndicator); ok {
		b.SetDownloadBusy(busy)
	}
}
