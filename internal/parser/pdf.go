package parser

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// extractPDFPages returns the plain text of each page in order.
func extractPDFPages(data []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
