package ocr

import (
	"context"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// PdfToText reads embedded page text using the pdftotext CLI tool.
type PdfToText struct {
	binPath string
	runner  Runner
}

// NewPdfToText creates a PdfToText text layer. If binPath is empty, "pdftotext" is used.
func NewPdfToText(binPath string) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath, runner: execRunner{}}
}

// PageTexts runs pdftotext -layout over the first maxPages pages and splits
// stdout on form feeds.
func (p *PdfToText) PageTexts(ctx context.Context, pdfPath string, maxPages int) ([]string, error) {
	args := []string{"-layout"}
	if maxPages > 0 {
		args = append(args, "-f", "1", "-l", strconv.Itoa(maxPages))
	}
	args = append(args, pdfPath, "-")

	stdout, stderr, err := p.runner.Run(ctx, p.binPath, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "ocr: pdftotext failed for %s: %s", pdfPath, string(stderr))
	}

	pages := strings.Split(string(stdout), "\f")
	// pdftotext ends every page with a form feed.
	if len(pages) > 1 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	return pages, nil
}
