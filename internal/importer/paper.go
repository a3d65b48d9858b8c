package importer

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/paper-portal/paperctl/internal/extract"
	"github.com/paper-portal/paperctl/internal/model"
)

// ReviewThreshold is the overall confidence a REVIEW decision needs to be
// auto-approved.
const ReviewThreshold = 70

// defaultDescription is stored when no descriptive field was extracted.
const defaultDescription = "Imported from past paper archive."

// Options controls how merged results are persisted.
type Options struct {
	// AutoApprove stores eligible papers as approved instead of pending.
	AutoApprove bool
	// AdminUserID is stamped as uploader and reviewer. Nil leaves both unset.
	AdminUserID *int64
	// MaxFiles caps how many discovered files a run processes. Zero is no cap.
	MaxFiles int
}

// persisted describes what one CreateOrUpdatePaper call did.
type persisted struct {
	paper   *model.Paper
	updated bool
	course  courseAction
}

// CreateOrUpdatePaper stores merged as a paper under its course, updating the
// existing row for the same file when there is one. The bool reports whether
// an existing paper was updated.
func (im *Importer) CreateOrUpdatePaper(ctx context.Context, merged model.MergedResult, opts Options) (*model.Paper, bool, error) {
	out, err := im.persist(ctx, merged, opts)
	if err != nil {
		return nil, false, err
	}
	return out.paper, out.updated, nil
}

func (im *Importer) persist(ctx context.Context, merged model.MergedResult, opts Options) (persisted, error) {
	if strings.TrimSpace(merged.CourseCode) == "" {
		return persisted{}, eris.Errorf("importer: no course code for %s", merged.FileName)
	}
	course, action, err := im.ensureCourse(ctx, merged.CourseCode, merged.CourseName)
	if err != nil {
		return persisted{}, err
	}
	out := persisted{course: action}

	fileName := merged.FileName
	if fileName == "" {
		fileName = filepath.Base(merged.FilePath)
	}
	log := zap.L().With(zap.String("file", fileName), zap.String("course_code", course.Code))

	existing, err := im.store.FindPaperByFileName(ctx, course.ID, fileName)
	if err != nil {
		return out, eris.Wrap(err, "importer: find paper by name")
	}
	if existing == nil && merged.FilePath != "" {
		existing, err = im.store.FindPaperByFilePath(ctx, course.ID, merged.FilePath)
		if err != nil {
			return out, eris.Wrap(err, "importer: find paper by path")
		}
	}

	data, err := os.ReadFile(merged.FilePath)
	if err != nil {
		log.Warn("importer: file unreadable, storing metadata only", zap.Error(err))
		data = nil
	}

	approve := opts.AutoApprove && Approvable(merged)
	now := im.now().UTC()

	if existing != nil {
		p := existing
		applyMetadata(p, merged)
		if data != nil {
			p.FileData = data
			p.FileSize = int64(len(data))
		}
		if approve && p.Status != model.PaperStatusApproved {
			p.Status = model.PaperStatusApproved
			p.ReviewedBy = opts.AdminUserID
			p.ReviewedAt = &now
		}
		if err := im.store.UpdatePaper(ctx, p); err != nil {
			return out, eris.Wrap(err, "importer: update paper")
		}
		log.Info("importer: updated paper", zap.Int64("paper_id", p.ID), zap.String("status", string(p.Status)))
		out.paper, out.updated = p, true
		return out, nil
	}

	p := &model.Paper{
		CourseID:   course.ID,
		UploadedBy: opts.AdminUserID,
		FilePath:   merged.FilePath,
		FileName:   fileName,
		FileData:   data,
		FileSize:   int64(len(data)),
		Status:     InitialStatus(merged, opts.AutoApprove),
	}
	applyMetadata(p, merged)
	if p.Status == model.PaperStatusApproved {
		p.ReviewedBy = opts.AdminUserID
		p.ReviewedAt = &now
	}
	if err := im.store.CreatePaper(ctx, p); err != nil {
		return out, eris.Wrap(err, "importer: create paper")
	}
	log.Info("importer: created paper", zap.Int64("paper_id", p.ID), zap.String("status", string(p.Status)))
	out.paper = p
	return out, nil
}

// Approvable reports whether merged may be approved without review: an
// ACCEPT decision, or REVIEW at or above ReviewThreshold.
func Approvable(merged model.MergedResult) bool {
	switch merged.Decision {
	case model.DecisionAccept:
		return true
	case model.DecisionReview:
		return merged.OverallConfidence >= ReviewThreshold
	}
	return false
}

// InitialStatus is the status a newly inserted paper gets.
func InitialStatus(merged model.MergedResult, autoApprove bool) model.PaperStatus {
	switch {
	case autoApprove && Approvable(merged):
		return model.PaperStatusApproved
	case merged.Decision == model.DecisionReject:
		return model.PaperStatusRejected
	default:
		return model.PaperStatusPending
	}
}

func applyMetadata(p *model.Paper, merged model.MergedResult) {
	p.Title = merged.Title
	if p.Title == "" {
		p.Title = strings.TrimSuffix(p.FileName, filepath.Ext(p.FileName))
	}
	p.Description = Describe(merged)
	p.PaperType = model.ParsePaperType(string(merged.PaperType))
	p.Year = nil
	if merged.Year != 0 {
		y := merged.Year
		p.Year = &y
	}
	p.Semester = extract.NormalizeSemester(merged.Semester)
	p.Department = merged.Department
	if p.Department == "" {
		p.Department = merged.Programme
	}
}

// Describe builds the paper description from the extracted context fields.
func Describe(merged model.MergedResult) string {
	var parts []string
	add := func(label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			parts = append(parts, label+": "+value)
		}
	}
	add("Department", merged.Department)
	add("Programme", merged.Programme)
	add("Branch", merged.Branch)
	add("Exam Type", merged.ExamType)
	if merged.Year != 0 {
		add("Year", strconv.Itoa(merged.Year))
	}
	add("Semester", merged.Semester)
	if len(parts) == 0 {
		return defaultDescription
	}
	return strings.Join(parts, " | ")
}
