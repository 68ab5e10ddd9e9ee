//go:build !nopdf

package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// BuiltinPDFReader returns the PDF reader compiled into this binary.
func BuiltinPDFReader() PDFReader { return LedongthucReader{} }

// LedongthucReader extracts text page by page with github.com/ledongthuc/pdf.
type LedongthucReader struct{}

func (LedongthucReader) ReadPDF(data []byte) (text string, pages int, err error) {
	// The parser panics on some corrupt inputs.
	defer func() {
		if r := recover(); r != nil {
			text, pages = "", 0
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, err
	}
	pages = r.NumPage()
	var b strings.Builder
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		s, err := p.GetPlainText(nil)
		if err != nil {
			return "", pages, fmt.Errorf("page %d: %w", i, err)
		}
		b.WriteString(s)
		b.WriteByte('\n')
	}
	return b.String(), pages, nil
}
