package extract

import (
	"errors"
	"fmt"

	"github.com/hyperifyio/filingtext/internal/classify"
)

// ErrCapabilityMissing means this build or environment cannot extract text
// from PDF documents. It never wraps a MalformedError.
var ErrCapabilityMissing = errors.New("PDF text extraction capability is not available")

// MalformedError reports a payload that could not be parsed.
type MalformedError struct {
	// Format is "pdf" or "html".
	Format string
	Err    error
}

func (e *MalformedError) Error() string { return fmt.Sprintf("malformed %s: %v", e.Format, e.Err) }

func (e *MalformedError) Unwrap() error { return e.Err }

// PDFReader extracts plain text from a PDF document. Implementations return
// ErrCapabilityMissing when their backing engine is unavailable.
type PDFReader interface {
	ReadPDF(data []byte) (text string, pages int, err error)
}

// NoPDF is a PDFReader for environments without PDF support.
var NoPDF PDFReader = noPDF{}

type noPDF struct{}

func (noPDF) ReadPDF([]byte) (string, int, error) { return "", 0, ErrCapabilityMissing }

// Text is the outcome of a successful extraction.
type Text struct {
	Body string
	// Pages is the page count of a PDF, nil for markup or when unknown.
	Pages *int
}

// Extractor turns fetched payloads into normalized text. The zero value uses
// the built-in PDF reader and the MaxLines cap.
type Extractor struct {
	PDF      PDFReader
	MaxLines int
}

// Extract dispatches on class. Failures are ErrCapabilityMissing or
// *MalformedError.
func (e *Extractor) Extract(class classify.Class, raw []byte, contentType string) (Text, error) {
	if class == classify.Binary {
		return e.extractPDF(raw)
	}
	body, err := FromHTML(raw, contentType, e.MaxLines)
	if err != nil {
		return Text{}, err
	}
	return Text{Body: body}, nil
}

func (e *Extractor) extractPDF(raw []byte) (Text, error) {
	r := e.PDF
	if r == nil {
		r = BuiltinPDFReader()
	}
	text, pages, err := r.ReadPDF(raw)
	if err != nil {
		if errors.Is(err, ErrCapabilityMissing) {
			return Text{}, ErrCapabilityMissing
		}
		var me *MalformedError
		if errors.As(err, &me) {
			return Text{}, me
		}
		return Text{}, &MalformedError{Format: "pdf", Err: err}
	}
	t := Text{Body: normalizeLines(text, e.MaxLines)}
	if pages > 0 {
		t.Pages = &pages
	}
	return t, nil
}
