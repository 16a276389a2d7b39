package printing

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/config"
)

const defaultRenderTimeout = 30 * time.Second

// ChromedpRenderer prints HTML with a headless Chrome. Every render starts a
// browser from the shared allocator and closes it when done.
type ChromedpRenderer struct {
	timeout     time.Duration
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer prepares the allocator for the configured Chrome binary
func NewChromedpRenderer(cfg config.PrintingConfig, logger *zap.Logger) *ChromedpRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRenderTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoFirstRun,
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromedpRenderer{
		timeout:     timeout,
		logger:      logger,
		allocCtx:    allocCtx,
		allocCancel: cancel,
	}
}

// Render prints the request to PDF
func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) ([]byte, error) {
	if req == nil || strings.TrimSpace(req.HTML) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = r.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx)
	defer browserCancel()
	stop := context.AfterFunc(ctx, browserCancel)
	defer stop()

	params := buildPrintParams(req)
	doc := wrapDocument(req)
	start := time.Now()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, doc).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := params.Do(ctx)
			pdf = data
			return err
		}),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, NewRenderError(ErrCodeRenderTimeout, fmt.Sprintf("rendering timed out after %s", timeout), err)
		}
		r.logger.Error("chromedp render failed", zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chrome could not print the document", err)
	}
	if len(pdf) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	r.logger.Debug("pdf rendered",
		zap.String("title", req.Title),
		zap.Int("bytes", len(pdf)),
		zap.Duration("took", time.Since(start)))
	return pdf, nil
}

// Close releases the allocator
func (r *ChromedpRenderer) Close() error {
	r.allocCancel()
	return nil
}

func mmToInches(mm float64) float64 {
	return mm / 25.4
}

// printLayout is the page geometry in inches, as chrome expects it
type printLayout struct {
	width, height            float64
	top, right, bottom, left float64
	landscape                bool
	footer                   string
}

func layoutFor(req *RenderRequest) printLayout {
	margins := req.Margins
	if margins == (Margins{}) {
		margins = DefaultMargins
	}
	if req.FooterHTML != "" {
		// chrome draws the footer inside the bottom margin
		margins.Bottom = max(margins.Bottom, 12)
	}
	width, height := req.PaperSize.Dimensions()
	return printLayout{
		width:     mmToInches(width),
		height:    mmToInches(height),
		top:       mmToInches(margins.Top),
		right:     mmToInches(margins.Right),
		bottom:    mmToInches(margins.Bottom),
		left:      mmToInches(margins.Left),
		landscape: req.Landscape,
		footer:    req.FooterHTML,
	}
}

func buildPrintParams(req *RenderRequest) *page.PrintToPDFParams {
	l := layoutFor(req)
	params := page.PrintToPDF().
		WithPrintBackground(true).
		WithPaperWidth(l.width).
		WithPaperHeight(l.height).
		WithLandscape(l.landscape).
		WithMarginTop(l.top).
		WithMarginRight(l.right).
		WithMarginBottom(l.bottom).
		WithMarginLeft(l.left)
	if l.footer != "" {
		params = params.
			WithDisplayHeaderFooter(true).
			WithHeaderTemplate("<span></span>").
			WithFooterTemplate(l.footer)
	}
	return params
}

// wrapDocument adds the html skeleton to fragments
func wrapDocument(req *RenderRequest) string {
	lower := strings.ToLower(req.HTML)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return req.HTML
	}
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8">`)
	if req.Title != "" {
		b.WriteString("<title>" + html.EscapeString(req.Title) + "</title>")
	}
	b.WriteString("</head><body>")
	b.WriteString(req.HTML)
	b.WriteString("</body></html>")
	return b.String()
}

var _ PDFRenderer = (*ChromedpRenderer)(nil)
