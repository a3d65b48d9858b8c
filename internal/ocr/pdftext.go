package ocr

import (
	"context"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
)

// PDFTextLayer reads embedded page text with a pure Go PDF parser.
type PDFTextLayer struct{}

// NewPDFTextLayer creates a PDFTextLayer.
func NewPDFTextLayer() *PDFTextLayer {
	return &PDFTextLayer{}
}

// PageTexts returns the plain text of the first maxPages pages. Unreadable
// pages come back empty so page numbering is preserved.
func (PDFTextLayer) PageTexts(ctx context.Context, pdfPath string, maxPages int) (texts []string, err error) {
	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			texts, err = nil, eris.Errorf("ocr: parse %s: %v", pdfPath, r)
		}
	}()

	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return nil, eris.Wrapf(err, "ocr: open %s", pdfPath)
	}
	defer f.Close() //nolint:errcheck

	n := r.NumPage()
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return texts, eris.Wrap(err, "ocr: read pages")
		}
		page := r.Page(i)
		if page.V.IsNull() {
			texts = append(texts, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			texts = append(texts, "")
			continue
		}
		texts = append(texts, strings.TrimRight(text, "\n"))
	}
	return texts, nil
}
