package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/paper-portal/paperctl/internal/model"
	"github.com/paper-portal/paperctl/internal/patterns"
)

var (
	reWhitespace    = regexp.MustCompile(`\s+`)
	reTrailingSep   = regexp.MustCompile(`[:\-]\s*$`)
	reNoLetters     = regexp.MustCompile(`^[^A-Za-z]+$`)
	nameBoilerplate = map[string]bool{
		"jk lakshmipat university": true,
		"university":               true,
		"institute":                true,
		"department":               true,
	}
)

// FromText builds the text-sourced candidate by running every field family
// over text. Each field takes the first match that survives validation.
func (e *Extractor) FromText(text string) model.Candidate {
	c := model.Candidate{
		Source:     model.SourceOCR,
		PaperType:  model.PaperTypeOther,
		Confidence: map[model.Field]int{},
	}
	if strings.TrimSpace(text) == "" {
		return c
	}

	for _, ff := range e.lib.TextFamilies() {
		value, matcher, ok := ff.Family.First(text, acceptorFor(ff.Field))
		if !ok {
			continue
		}
		switch ff.Field {
		case model.FieldCourseCode:
			c.CourseCode = value
		case model.FieldCourseName:
			c.CourseName = value
		case model.FieldSemester:
			c.Semester = value
		case model.FieldProgramme:
			c.Programme = value
		case model.FieldBranch:
			c.Branch = value
		case model.FieldDepartment:
			c.Department = value
		case model.FieldYear:
			c.Year, _ = strconv.Atoi(value)
		case model.FieldExamType:
			c.ExamType = value
		}
		c.Confidence[ff.Field] = model.ConfidenceHigh
		zap.L().Debug("text: field found",
			zap.String("field", string(ff.Field)),
			zap.String("value", value),
			zap.String("pattern", matcher),
		)
	}

	if c.ExamType != "" {
		c.PaperType = PaperTypeFromExam(c.ExamType, c.PaperType)
	}
	return c
}

// PaperTypeFromExam refines fallback using an exam-type label: "end" or
// "final" means endterm, "mid" means midterm.
func PaperTypeFromExam(examType string, fallback model.PaperType) model.PaperType {
	lower := strings.ToLower(examType)
	switch {
	case strings.Contains(lower, "end") || strings.Contains(lower, "final"):
		return model.PaperTypeEndterm
	case strings.Contains(lower, "mid"):
		return model.PaperTypeMidterm
	}
	return fallback
}

func acceptorFor(f model.Field) patterns.Accept {
	switch f {
	case model.FieldCourseCode:
		return NormalizeCode
	case model.FieldCourseName:
		return CleanCourseName
	case model.FieldYear:
		return acceptYear
	case model.FieldSemester:
		return acceptSemester
	case model.FieldProgramme:
		return normalizeProgramme
	}
	return patterns.NonEmpty
}

// CleanCourseName tidies a captured course name and rejects captures that are
// too short, too long, letter-free or institutional boilerplate.
func CleanCourseName(raw string) (string, bool) {
	name := strings.TrimSpace(raw)
	name = reWhitespace.ReplaceAllString(name, " ")
	name = strings.TrimSpace(reTrailingSep.ReplaceAllString(name, ""))
	n := utf8.RuneCountInString(name)
	if n < 5 || n > 100 {
		return "", false
	}
	if reNoLetters.MatchString(name) {
		return "", false
	}
	if nameBoilerplate[strings.ToLower(name)] {
		return "", false
	}
	return name, true
}

func acceptYear(raw string) (string, bool) {
	y, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || y < MinYear || y > MaxYear {
		return "", false
	}
	return strconv.Itoa(y), true
}

func acceptSemester(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", false
	}
	if IsRoman(v) {
		return RomanToNumber(v), true
	}
	return v, true
}

func normalizeProgramme(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	v = reWhitespace.ReplaceAllString(v, ".")
	v = strings.ReplaceAll(strings.ToUpper(v), ".", "")
	return v, v != ""
}
