package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const defaultChromeTimeout = 30 * time.Second

// ChromedpConfig contains configuration for the chromedp renderer
type ChromedpConfig struct {
	DefaultTimeout time.Duration
	// RemoteURL points at a running Chrome DevTools endpoint. When empty a local
	// browser is launched from ExecPath or the default lookup path.
	RemoteURL string
	ExecPath  string
	// NoSandbox is required when running as root inside containers
	NoSandbox bool
	Logger    *zap.Logger
}

// ChromedpRenderer renders HTML to PDF using the Chrome DevTools Protocol
type ChromedpRenderer struct {
	config      *ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates a renderer. The browser starts lazily on the first Render.
func NewChromedpRenderer(config *ChromedpConfig) (*ChromedpRenderer, error) {
	if config == nil {
		config = &ChromedpConfig{}
	}
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = defaultChromeTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &ChromedpRenderer{config: config, logger: logger}
	r.initAllocator()
	return r, nil
}

func (r *ChromedpRenderer) initAllocator() {
	if r.config.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), r.config.RemoteURL)
		return
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if r.config.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.config.ExecPath))
	}
	if r.config.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
}

// Render converts HTML content to PDF
func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	start := time.Now()
	timeout := req.Timeout
	if timeout == 0 {
		timeout = r.config.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	// the browser context outlives ctx, so cancel it when the caller gives up
	stop := context.AfterFunc(ctx, browserCancel)
	defer stop()

	doc := buildCompleteHTML(req)
	params := buildPrintParams(req)

	var pdfData []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, doc).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(params.paperWidth).
				WithPaperHeight(params.paperHeight).
				WithMarginTop(params.marginTop).
				WithMarginRight(params.marginRight).
				WithMarginBottom(params.marginBottom).
				WithMarginLeft(params.marginLeft).
				WithDisplayHeaderFooter(params.displayFooter).
				WithHeaderTemplate("<span></span>").
				WithFooterTemplate(params.footerTemplate).
				WithPreferCSSPageSize(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)
	if err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return nil, NewRenderError(ErrCodeRenderTimeout,
				fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
		case errors.Is(ctx.Err(), context.Canceled):
			return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
		}
		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", err)
	}
	if len(pdfData) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	result := &RenderResult{
		PDFData:        pdfData,
		PageCount:      estimatePageCount(pdfData),
		RenderDuration: time.Since(start),
	}
	r.logger.Debug("PDF rendered",
		zap.Int("bytes", len(pdfData)),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))
	return result, nil
}

func validateRequest(req *RenderRequest) error {
	if req == nil {
		return NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	if strings.TrimSpace(req.HTML) == "" {
		return NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}
	if !req.Paper.IsValid() {
		return NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(req.Paper), nil)
	}
	return nil
}

type printParams struct {
	paperWidth     float64
	paperHeight    float64
	marginTop      float64
	marginRight    float64
	marginBottom   float64
	marginLeft     float64
	displayFooter  bool
	footerTemplate string
}

// buildPrintParams converts the request into Chrome's inch-based print options
func buildPrintParams(req *RenderRequest) *printParams {
	width, height := req.Paper.Dimensions()
	p := &printParams{
		paperWidth:   mmToInches(float64(width)),
		paperHeight:  mmToInches(float64(height)),
		marginTop:    mmToInches(float64(req.Margins.Top)),
		marginRight:  mmToInches(float64(req.Margins.Right)),
		marginBottom: mmToInches(float64(req.Margins.Bottom)),
		marginLeft:   mmToInches(float64(req.Margins.Left)),
	}
	if req.FooterHTML != "" {
		p.displayFooter = true
		p.footerTemplate = req.FooterHTML
		if p.marginBottom < mmToInches(12) {
			p.marginBottom = mmToInches(12)
		}
	}
	return p
}

// buildCompleteHTML wraps a fragment in a full document
func buildCompleteHTML(req *RenderRequest) string {
	lower := strings.ToLower(req.HTML)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return req.HTML
	}

	var buf bytes.Buffer
	buf.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8">`)
	if req.Title != "" {
		buf.WriteString("<title>")
		buf.WriteString(html.EscapeString(req.Title))
		buf.WriteString("</title>")
	}
	buf.WriteString("</head><body>")
	buf.WriteString(req.HTML)
	buf.WriteString("</body></html>")
	return buf.String()
}

// Close stops the browser allocator
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

func mmToInches(mm float64) float64 {
	return mm / 25.4
}

var _ PDFRenderer = (*ChromedpRenderer)(nil)
