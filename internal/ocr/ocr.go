// Package ocr turns exam-paper PDFs into plain text. It reads the embedded
// text layer first and falls back to rendering pages and running Tesseract
// when the layer is too thin to be useful.
package ocr

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/paper-portal/paperctl/internal/config"
)

// Extractor extracts text content from PDF files.
type Extractor interface {
	ExtractText(ctx context.Context, pdfPath string) (string, error)
}

// TextLayer reads the text already embedded in a PDF, one entry per page,
// for at most maxPages pages.
type TextLayer interface {
	PageTexts(ctx context.Context, pdfPath string, maxPages int) ([]string, error)
}

// Recognizer produces text for a PDF's first maxPages pages by optical
// recognition, one entry per rendered page.
type Recognizer interface {
	Available(ctx context.Context) bool
	Recognize(ctx context.Context, pdfPath string, maxPages int) ([]string, error)
}

// NewExtractor creates an Extractor based on config.
func NewExtractor(cfg config.OCRConfig) (Extractor, error) {
	var layer TextLayer
	switch cfg.TextLayer {
	case "native", "":
		layer = NewPDFTextLayer()
	case "pdftotext":
		layer = NewPdfToText(cfg.PdfToTextPath)
	default:
		return nil, eris.Errorf("ocr: unknown text layer %q", cfg.TextLayer)
	}
	return NewPipeline(layer, NewTesseractRecognizer(cfg), cfg.MaxPages, cfg.MinTextLength), nil
}

// Pipeline is the two-stage Extractor: text layer first, optical
// recognition when the layer yields too little.
type Pipeline struct {
	layer         TextLayer
	recognizer    Recognizer
	maxPages      int
	minTextLength int
}

// NewPipeline creates a Pipeline. recognizer may be nil to disable the
// optical stage.
func NewPipeline(layer TextLayer, recognizer Recognizer, maxPages, minTextLength int) *Pipeline {
	if maxPages <= 0 {
		maxPages = 3
	}
	return &Pipeline{
		layer:         layer,
		recognizer:    recognizer,
		maxPages:      maxPages,
		minTextLength: minTextLength,
	}
}

// PageDelimiter is the block written before each recognised page.
func PageDelimiter(page int) string {
	rule := strings.Repeat("=", 50)
	return fmt.Sprintf("\n%s\n PAGE %d \n%s\n", rule, page, rule)
}

// ExtractText returns whatever text can be recovered from pdfPath. Failures
// of either stage are logged and swallowed; the only error returned is a
// cancelled context.
func (p *Pipeline) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	log := zap.L().With(zap.String("file", filepath.Base(pdfPath)))

	var direct strings.Builder
	pages, err := p.layer.PageTexts(ctx, pdfPath, p.maxPages)
	if err != nil {
		log.Warn("ocr: text layer failed", zap.Error(err))
	}
	for _, page := range pages {
		direct.WriteString(page)
		direct.WriteString("\n")
	}
	text := direct.String()

	if chars := utf8.RuneCountInString(strings.TrimSpace(text)); chars > p.minTextLength {
		log.Debug("ocr: text layer sufficient", zap.Int("chars", chars))
		return text, nil
	}

	if p.recognizer == nil || !p.recognizer.Available(ctx) {
		log.Warn("ocr: recognizer unavailable, using text layer only")
		return text, ctx.Err()
	}

	recognised, err := p.recognizer.Recognize(ctx, pdfPath, p.maxPages)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.Warn("ocr: recognition failed, using text layer only", zap.Error(err))
		return text, nil
	}

	var b strings.Builder
	for i, page := range recognised {
		b.WriteString(PageDelimiter(i + 1))
		b.WriteString(page)
	}
	if b.Len() > 0 {
		text = text + "\n" + b.String()
	}
	log.Debug("ocr: recognition done", zap.Int("pages", len(recognised)), zap.Int("chars", utf8.RuneCountInString(text)))
	return text, nil
}
