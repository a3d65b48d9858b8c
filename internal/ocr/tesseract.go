package ocr

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/paper-portal/paperctl/internal/config"
)

// TesseractRecognizer renders pages with pdftoppm and reads them with the
// tesseract CLI.
type TesseractRecognizer struct {
	runner    Runner
	pdftoppm  string
	tesseract string
	dpi       int
	psm       int
	oem       int
	lang      string

	probe     sync.Once
	available bool
}

// NewTesseractRecognizer creates a TesseractRecognizer, filling unset
// values with pdftoppm/tesseract on PATH, 300 DPI, PSM 6, OEM 3 and eng.
func NewTesseractRecognizer(cfg config.OCRConfig) *TesseractRecognizer {
	r := &TesseractRecognizer{
		runner:    execRunner{},
		pdftoppm:  cfg.PdftoppmPath,
		tesseract: cfg.TesseractPath,
		dpi:       cfg.DPI,
		psm:       cfg.PSM,
		oem:       cfg.OEM,
		lang:      cfg.Lang,
	}
	if r.pdftoppm == "" {
		r.pdftoppm = "pdftoppm"
	}
	if r.tesseract == "" {
		r.tesseract = "tesseract"
	}
	if r.dpi <= 0 {
		r.dpi = 300
	}
	if r.psm <= 0 {
		r.psm = 6
	}
	if r.oem < 0 {
		r.oem = 3
	}
	if r.lang == "" {
		r.lang = "eng"
	}
	return r
}

// Available probes tesseract --version once and caches the answer.
func (r *TesseractRecognizer) Available(ctx context.Context) bool {
	r.probe.Do(func() {
		_, _, err := r.runner.Run(ctx, r.tesseract, "--version")
		r.available = err == nil
		if err != nil {
			zap.L().Warn("ocr: tesseract not available", zap.String("path", r.tesseract), zap.Error(err))
		}
	})
	return r.available
}

// Recognize renders pages 1..maxPages to PNG and recognises each one. A page
// that fails recognition comes back empty; a render failure is an error.
func (r *TesseractRecognizer) Recognize(ctx context.Context, pdfPath string, maxPages int) ([]string, error) {
	tmpDir, err := os.MkdirTemp("", "paperctl-ocr-*")
	if err != nil {
		return nil, eris.Wrap(err, "ocr: create temp dir")
	}
	defer os.RemoveAll(tmpDir) //nolint:errcheck

	prefix := filepath.Join(tmpDir, "page")
	args := []string{"-r", strconv.Itoa(r.dpi)}
	if maxPages > 0 {
		args = append(args, "-f", "1", "-l", strconv.Itoa(maxPages))
	}
	args = append(args, "-png", pdfPath, prefix)

	if _, stderr, err := r.runner.Run(ctx, r.pdftoppm, args...); err != nil {
		return nil, eris.Wrapf(err, "ocr: pdftoppm failed for %s: %s", pdfPath, string(stderr))
	}

	// pdftoppm zero-pads page numbers, so a lexical sort is page order.
	images, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, eris.Wrap(err, "ocr: list rendered pages")
	}
	sort.Strings(images)
	if maxPages > 0 && len(images) > maxPages {
		images = images[:maxPages]
	}
	if len(images) == 0 {
		return nil, eris.Errorf("ocr: pdftoppm produced no images for %s", pdfPath)
	}

	texts := make([]string, 0, len(images))
	for i, img := range images {
		out, stderr, err := r.runner.Run(ctx, r.tesseract, img, "stdout",
			"--oem", strconv.Itoa(r.oem),
			"--psm", strconv.Itoa(r.psm),
			"-l", r.lang,
		)
		if err != nil {
			if ctx.Err() != nil {
				return nil, eris.Wrap(ctx.Err(), "ocr: recognise pages")
			}
			zap.L().Warn("ocr: tesseract failed on page",
				zap.String("file", filepath.Base(pdfPath)),
				zap.Int("page", i+1),
				zap.String("stderr", truncate(string(stderr), 1<<10)),
				zap.Error(err),
			)
			texts = append(texts, "")
			continue
		}
		texts = append(texts, string(out))
	}
	return texts, nil
}
