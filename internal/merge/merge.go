// Package merge reconciles the filename and text candidates for a document,
// scores every field and decides whether the result can be stored unreviewed.
package merge

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/paper-portal/paperctl/internal/extract"
	"github.com/paper-portal/paperctl/internal/model"
)

// Field confidences assigned while reconciling.
const (
	ScoreMatch             = 100
	ScoreFilenamePreferred = 90
	ScoreFilenameOnlyName  = 85
	ScorePartial           = 80
	ScoreTextOnlyField     = 80
	ScoreSingleSource      = 70
	ScoreMismatch          = 60
	ScoreMissing           = 0
)

// reconciled lists the fields both sources can provide, in merge order.
var reconciled = []model.Field{
	model.FieldCourseCode,
	model.FieldCourseName,
	model.FieldSemester,
	model.FieldYear,
	model.FieldProgramme,
}

// invalidNameFragments mark a text-sourced course name as institutional
// boilerplate rather than a course title.
var invalidNameFragments = []string{
	"jk lakshmipat", "jklu", "university", "institute of",
	"department of", "examination", "end term", "mid term",
}

// Merge reconciles fn (filename candidate) with text (text candidate) and
// returns the scored, decided result. Neither input is modified.
func Merge(fn, text model.Candidate) model.MergedResult {
	r := model.MergedResult{
		FileName:   fn.FileName,
		FilePath:   fn.FilePath,
		PaperType:  fn.PaperType,
		Validation: map[model.Field]model.Validation{},
		Confidence: map[model.Field]int{},
	}
	if r.PaperType == "" {
		r.PaperType = model.PaperTypeOther
	}
	log := zap.L().With(zap.String("file", fn.FileName))

	for _, f := range reconciled {
		var value string
		var v model.Validation
		var score int
		if f == model.FieldCourseName {
			value, v, score = mergeName(fn.CourseName, text.CourseName)
		} else {
			value, v, score = mergeField(f, fn.Value(f), text.Value(f))
		}
		r.Validation[f] = v
		r.Confidence[f] = score
		set(&r, f, value)
		if v == model.ValidationMismatchFilename || v == model.ValidationMismatchOCR {
			log.Warn("merge: mismatch",
				zap.String("field", string(f)),
				zap.String("filename", fn.Value(f)),
				zap.String("text", text.Value(f)),
			)
		}
	}

	for _, f := range []model.Field{model.FieldBranch, model.FieldDepartment, model.FieldExamType} {
		if value := text.Value(f); value != "" {
			set(&r, f, value)
			r.Confidence[f] = ScoreTextOnlyField
		}
	}

	if r.ExamType != "" {
		lower := strings.ToLower(r.ExamType)
		switch {
		case strings.Contains(lower, "end"):
			r.PaperType = model.PaperTypeEndterm
		case strings.Contains(lower, "mid"):
			r.PaperType = model.PaperTypeMidterm
		}
	}

	r.Decision, r.OverallConfidence = Decide(r.Confidence)
	r.Title = Title(r, fn.FileName)

	log.Info("merge: decision",
		zap.String("decision", string(r.Decision)),
		zap.Int("confidence", r.OverallConfidence),
		zap.String("title", r.Title),
	)
	return r
}

func mergeName(fn, text string) (string, model.Validation, int) {
	switch {
	case fn != "" && text != "":
		if normalize(fn) == normalize(text) {
			return text, model.ValidationMatch, ScoreMatch
		}
		if !ValidCourseName(text) {
			return fn, model.ValidationFilenamePreferred, ScoreFilenamePreferred
		}
		return fn, model.ValidationPartial, ScorePartial
	case fn != "":
		return fn, model.ValidationFilenameOnly, ScoreFilenameOnlyName
	case text != "" && ValidCourseName(text):
		return text, model.ValidationOCROnly, ScoreSingleSource
	}
	return "", model.ValidationMissing, ScoreMissing
}

func mergeField(f model.Field, fn, text string) (string, model.Validation, int) {
	if f == model.FieldSemester {
		fn, text = extract.NormalizeSemester(fn), extract.NormalizeSemester(text)
	}
	switch {
	case fn != "" && text != "":
		if normalize(fn) == normalize(text) {
			return fn, model.ValidationMatch, ScoreMatch
		}
		if f == model.FieldCourseCode {
			return fn, model.ValidationMismatchFilename, ScoreMismatch
		}
		return text, model.ValidationMismatchOCR, ScoreMismatch
	case fn != "":
		return fn, model.ValidationFilenameOnly, ScoreSingleSource
	case text != "":
		return text, model.ValidationOCROnly, ScoreSingleSource
	}
	return "", model.ValidationMissing, ScoreMissing
}

// ValidCourseName reports whether a text-sourced name is free of the
// institutional phrases that headers tend to produce.
func ValidCourseName(name string) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	for _, frag := range invalidNameFragments {
		if strings.Contains(lower, frag) {
			return false
		}
	}
	return true
}

// normalize is the comparison form: uppercase without spaces, dashes or dots.
func normalize(s string) string {
	return strings.NewReplacer(" ", "", "-", "", ".", "").Replace(strings.ToUpper(strings.TrimSpace(s)))
}

func set(r *model.MergedResult, f model.Field, value string) {
	switch f {
	case model.FieldCourseCode:
		r.CourseCode = value
	case model.FieldCourseName:
		r.CourseName = value
	case model.FieldSemester:
		r.Semester = value
	case model.FieldYear:
		r.Year, _ = strconv.Atoi(value)
	case model.FieldProgramme:
		r.Programme = value
	case model.FieldBranch:
		r.Branch = value
	case model.FieldDepartment:
		r.Department = value
	case model.FieldExamType:
		r.ExamType = value
	}
}
