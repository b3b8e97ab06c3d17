package export

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/chromedp"
)

// ChromeConfig locates the headless browser used for rasterizing.
type ChromeConfig struct {
	ExecPath string
	Timeout  time.Duration
}

// ChromeRenderer renders the preview HTML in headless Chromium, captures it
// as a JPEG at the configured device scale and lays the image out on PDF
// pages.
type ChromeRenderer struct {
	cfg ChromeConfig
}

// viewportWidth is the CSS width the preview is laid out at.
const viewportWidth = 820

func NewChromeRenderer(cfg ChromeConfig) ChromeRenderer {
	return ChromeRenderer{cfg: cfg}
}

func (r ChromeRenderer) Render(ctx context.Context, doc Document, opts Options) ([]byte, error) {
	img, err := r.capture(ctx, doc.HTML, opts)
	if err != nil {
		return nil, err
	}
	return layoutRaster(img, opts)
}

func (r ChromeRenderer) capture(ctx context.Context, html string, opts Options) ([]byte, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	if r.cfg.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(r.cfg.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	runCtx, cancelRun := chromedp.NewContext(allocCtx)
	defer cancelRun()

	timeout := r.cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	runCtx, cancelTimeout := context.WithTimeout(runCtx, timeout)
	defer cancelTimeout()

	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}

	var buf []byte
	err := chromedp.Run(runCtx,
		chromedp.EmulateViewport(viewportWidth, 1200, chromedp.EmulateScale(scale)),
		chromedp.Navigate("data:text/html,"+url.PathEscape(html)),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.FullScreenshot(&buf, opts.jpegQuality()),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp capture: %w", err)
	}
	return buf, nil
}
