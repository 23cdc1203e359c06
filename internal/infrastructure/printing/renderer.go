package printing

import (
	"bytes"
	"context"
	"strings"
	"time"
)

// Paper is an output paper format
type Paper string

const (
	PaperA4 Paper = "A4" // 210mm x 297mm
	PaperF4 Paper = "F4" // 215mm x 330mm, common for Indonesian government letters
)

// ParsePaper maps a configured name onto a Paper, defaulting to A4
func ParsePaper(s string) Paper {
	if strings.EqualFold(strings.TrimSpace(s), string(PaperF4)) {
		return PaperF4
	}
	return PaperA4
}

// IsValid reports whether p is a supported format
func (p Paper) IsValid() bool {
	return p == PaperA4 || p == PaperF4
}

// Dimensions returns width and height in millimeters
func (p Paper) Dimensions() (width, height int) {
	if p == PaperF4 {
		return 215, 330
	}
	return 210, 297
}

// Margins in millimeters
type Margins struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// LetterMargins are the margins used for official letters
func LetterMargins() Margins {
	return Margins{Top: 15, Right: 20, Bottom: 20, Left: 25}
}

// RenderRequest contains the parameters for rendering HTML to PDF
type RenderRequest struct {
	HTML    string
	Paper   Paper
	Margins Margins
	// Title for the PDF document metadata
	Title string
	// FooterHTML is printed on every page when set
	FooterHTML string
	// Timeout overrides the default rendering timeout
	Timeout time.Duration
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// PDFRenderer renders HTML documents to PDF
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}

// RenderError represents an error during PDF rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
	ErrCodeTemplateFailed   = "TEMPLATE_FAILED"
	ErrCodeQRFailed         = "QR_FAILED"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

// estimatePageCount counts page objects in the PDF
func estimatePageCount(pdfData []byte) int {
	count := bytes.Count(pdfData, []byte("/Type /Page"))
	// "/Type /Pages" also matches the prefix
	count -= bytes.Count(pdfData, []byte("/Type /Pages"))
	return max(count, 1)
}
