package extract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PlainPDFReader reads PDF text layers with github.com/ledongthuc/pdf.
// Scanned PDFs without a text layer yield empty pages.
type PlainPDFReader struct{}

// PageCount opens the document and reads only its page tree.
func (PlainPDFReader) PageCount(data []byte) (n int, err error) {
	defer recoverPDF(&err)
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	return r.NumPage(), nil
}

// PageTexts returns the plain text of every page in order.
func (PlainPDFReader) PageTexts(data []byte) (pages []string, err error) {
	defer recoverPDF(&err)
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	n := r.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("read page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// The pdf package panics on some malformed inputs.
func recoverPDF(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("malformed pdf: %v", r)
	}
}
