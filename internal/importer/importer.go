// Package importer runs the bulk import: it pushes each discovered PDF through
// extraction and merge, persists the outcome and collects a run report.
package importer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/paper-portal/paperctl/internal/extract"
	"github.com/paper-portal/paperctl/internal/merge"
	"github.com/paper-portal/paperctl/internal/model"
	"github.com/paper-portal/paperctl/internal/ocr"
	"github.com/paper-portal/paperctl/internal/store"
)

// Actions recorded on a DocumentResult.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionSkipped = "skipped"
)

// Importer processes exam-paper PDFs one at a time.
type Importer struct {
	store  store.Store
	fields *extract.Extractor
	text   ocr.Extractor
	root   string
	now    func() time.Time
}

// New creates an Importer. root is the archive root folder chains are read
// relative to; fields may be nil to use the default pattern library.
func New(st store.Store, text ocr.Extractor, fields *extract.Extractor, root string) *Importer {
	if fields == nil {
		fields = extract.New(nil)
	}
	return &Importer{
		store:  st,
		fields: fields,
		text:   text,
		root:   root,
		now:    time.Now,
	}
}

// ProcessDocument extracts and merges metadata for the PDF at path. It never
// panics and never returns an error: failures come back with Success false.
func (im *Importer) ProcessDocument(ctx context.Context, path string) (res model.DocumentResult) {
	res = model.DocumentResult{
		FileName:    filepath.Base(path),
		FilePath:    path,
		ProcessedAt: im.now().UTC(),
	}
	log := zap.L().With(zap.String("file", res.FileName))

	defer func() {
		if r := recover(); r != nil {
			log.Error("importer: panic while processing document", zap.Any("panic", r))
			res.Success = false
			res.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	fn := im.fields.FromFilename(path, extract.FolderChain(path, im.root))

	text, err := im.text.ExtractText(ctx, path)
	if err != nil {
		log.Warn("importer: text extraction failed", zap.Error(err))
		res.Error = err.Error()
		return res
	}
	res.TextLength = utf8.RuneCountInString(text)
	res.ExtractedTextPreview = preview(text, model.TextPreviewLength)

	fromText := im.fields.FromText(text)
	fromText.FileName, fromText.FilePath = fn.FileName, fn.FilePath

	merged := merge.Merge(fn, fromText)
	res.MergedResult = &merged
	res.Success = true
	log.Info("importer: document processed",
		zap.String("course_code", merged.CourseCode),
		zap.String("decision", string(merged.Decision)),
		zap.Int("overall_confidence", merged.OverallConfidence),
	)
	return res
}

// Run processes files in order, persisting every successfully merged
// document. A failing document is recorded and the run moves on. Cancelling
// ctx stops the run between documents; the partial report is returned along
// with the context error.
func (im *Importer) Run(ctx context.Context, files []string, opts Options) (*model.Report, error) {
	if opts.MaxFiles > 0 && len(files) > opts.MaxFiles {
		files = files[:opts.MaxFiles]
	}
	rep := &model.Report{
		RunID:     uuid.New().String(),
		Timestamp: im.now().UTC(),
		Results:   make([]model.DocumentResult, 0, len(files)),
	}
	log := zap.L().With(zap.String("run_id", rep.RunID))
	log.Info("importer: starting run", zap.Int("files", len(files)), zap.Bool("auto_approve", opts.AutoApprove))

	before, err := im.store.CountCourses(ctx)
	if err != nil {
		log.Warn("importer: count courses before run", zap.Error(err))
		before = -1
	}

	var runErr error
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			log.Warn("importer: run cancelled", zap.Int("processed", i), zap.Int("remaining", len(files)-i))
			runErr = err
			break
		}

		res := im.ProcessDocument(ctx, path)
		im.commit(ctx, &res, opts, &rep.Summary)
		rep.Results = append(rep.Results, res)
	}

	if before >= 0 {
		after, err := im.store.CountCourses(context.WithoutCancel(ctx))
		if err != nil {
			log.Warn("importer: count courses after run", zap.Error(err))
		} else if after > before {
			rep.Summary.CoursesCreated = after - before
		}
	}

	log.Info("importer: run finished",
		zap.Int("processed", rep.Summary.TotalProcessed),
		zap.Int("created", rep.Summary.PapersCreated),
		zap.Int("updated", rep.Summary.PapersUpdated),
		zap.Int("skipped", rep.Summary.PapersSkipped),
		zap.Int("errors", rep.Summary.Errors),
	)
	return rep, runErr
}

// commit persists one processed document and folds the outcome into sum.
func (im *Importer) commit(ctx context.Context, res *model.DocumentResult, opts Options, sum *model.Summary) {
	if !res.Success {
		sum.Errors++
		return
	}
	sum.TotalProcessed++
	if res.MergedResult == nil || res.CourseCode == "" {
		res.Action = ActionSkipped
		sum.PapersSkipped++
		return
	}

	out, err := im.persist(ctx, *res.MergedResult, opts)
	if out.course == courseRenamed {
		sum.CoursesUpdated++
	}
	if err != nil {
		zap.L().Error("importer: persist failed", zap.String("file", res.FileName), zap.Error(err))
		res.Success = false
		res.Error = err.Error()
		sum.Errors++
		return
	}

	p := out.paper
	res.DBPaperID = p.ID
	res.DBCourseID = p.CourseID
	res.DBStatus = p.Status
	if out.updated {
		res.Action = ActionUpdated
		sum.PapersUpdated++
	} else {
		res.Action = ActionCreated
		sum.PapersCreated++
	}
	switch p.Status {
	case model.PaperStatusApproved:
		sum.PapersApproved++
	case model.PaperStatusRejected:
		sum.PapersRejected++
	default:
		sum.PapersPending++
	}
}

// ResolveReviewer picks the user stamped on approved papers: explicit when
// positive, otherwise the first admin in the store. Nil means nobody.
func ResolveReviewer(ctx context.Context, st store.Store, explicit int64) (*int64, error) {
	if explicit > 0 {
		return &explicit, nil
	}
	id, err := st.FirstAdminUserID(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "importer: resolve reviewer")
	}
	if id == 0 {
		return nil, nil
	}
	return &id, nil
}

func preview(text string, limit int) string {
	if utf8.RuneCountInString(text) > limit {
		text = string([]rune(text)[:limit])
	}
	return strings.TrimSpace(text)
}
