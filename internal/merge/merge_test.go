package merge

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paper-portal/paperctl/internal/extract"
	"github.com/paper-portal/paperctl/internal/model"
)

const endTermHeader = `JK Lakshmipat University
End Term Examination, December 2023
CS1234: Data Structures
Time: 3 Hours    Max. Marks: 60
`

func candidate(src model.Source) model.Candidate {
	return model.Candidate{
		Source:     src,
		FileName:   "x.pdf",
		PaperType:  model.PaperTypeOther,
		Confidence: map[model.Field]int{},
	}
}

func TestMerge_EndToEnd(t *testing.T) {
	ex := extract.New(nil)
	path := filepath.Join("root", "SEM III", "CS1234-DataStructures.pdf")
	fn := ex.FromFilename(path, extract.FolderChain(path, "root"))
	text := ex.FromText(endTermHeader)

	r := Merge(fn, text)

	assert.Equal(t, "CS1234", r.CourseCode)
	assert.Equal(t, "Data Structures", r.CourseName)
	assert.Equal(t, "III", r.Semester)
	assert.Equal(t, 2023, r.Year)
	assert.Equal(t, model.PaperTypeEndterm, r.PaperType)
	assert.Equal(t, model.DecisionAccept, r.Decision)
	assert.Equal(t, 84, r.OverallConfidence)
	assert.Equal(t, "CS1234 - Data Structures - Endterm - Sem III - 2023", r.Title)

	assert.Equal(t, model.ValidationMatch, r.Validation[model.FieldCourseCode])
	assert.Equal(t, model.ValidationMatch, r.Validation[model.FieldCourseName])
	assert.Equal(t, model.ValidationFilenameOnly, r.Validation[model.FieldSemester])
	assert.Equal(t, model.ValidationOCROnly, r.Validation[model.FieldYear])
	assert.Equal(t, model.ValidationMissing, r.Validation[model.FieldProgramme])
	assert.Equal(t, ScoreTextOnlyField, r.Confidence[model.FieldExamType])
	assert.Equal(t, path, r.FilePath)
}

func TestMerge_NothingFound(t *testing.T) {
	ex := extract.New(nil)
	fn := ex.FromFilename("scan_001.pdf", nil)
	text := ex.FromText("")

	r := Merge(fn, text)

	assert.Empty(t, r.CourseCode)
	assert.Equal(t, model.DecisionReject, r.Decision)
	assert.Equal(t, 0, r.OverallConfidence)
	assert.Equal(t, "scan_001", r.Title)
	for _, f := range reconciled {
		assert.Equal(t, model.ValidationMissing, r.Validation[f], f)
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	fn := candidate(model.SourceFilename)
	fn.CourseCode = "CS1234"
	text := candidate(model.SourceOCR)
	text.Semester = "3"

	_ = Merge(fn, text)

	assert.Equal(t, "3", text.Semester)
	assert.Empty(t, fn.Confidence)
	assert.Empty(t, text.Confidence)
}

func TestMerge_CodeMismatchPrefersFilename(t *testing.T) {
	fn := candidate(model.SourceFilename)
	fn.CourseCode = "CS1234"
	text := candidate(model.SourceOCR)
	text.CourseCode = "CS1235"

	r := Merge(fn, text)
	assert.Equal(t, "CS1234", r.CourseCode)
	assert.Equal(t, model.ValidationMismatchFilename, r.Validation[model.FieldCourseCode])
	assert.Equal(t, ScoreMismatch, r.Confidence[model.FieldCourseCode])
	assert.Equal(t, model.DecisionReview, r.Decision)
	assert.Equal(t, 60, r.OverallConfidence)
}

func TestMerge_SemesterComparedAsRoman(t *testing.T) {
	fn := candidate(model.SourceFilename)
	fn.Semester = "III"
	text := candidate(model.SourceOCR)
	text.Semester = "3"

	r := Merge(fn, text)
	assert.Equal(t, "III", r.Semester)
	assert.Equal(t, model.ValidationMatch, r.Validation[model.FieldSemester])
}

func TestMerge_SemesterMismatchPrefersText(t *testing.T) {
	fn := candidate(model.SourceFilename)
	fn.Semester = "III"
	text := candidate(model.SourceOCR)
	text.Semester = "5"

	r := Merge(fn, text)
	assert.Equal(t, "V", r.Semester)
	assert.Equal(t, model.ValidationMismatchOCR, r.Validation[model.FieldSemester])
	assert.Equal(t, ScoreMismatch, r.Confidence[model.FieldSemester])
}

func TestMerge_ProgrammeNormalizedMatch(t *testing.T) {
	fn := candidate(model.SourceFilename)
	fn.Programme = "BTECH"
	text := candidate(model.SourceOCR)
	text.Programme = "B.Tech"

	r := Merge(fn, text)
	assert.Equal(t, "BTECH", r.Programme)
	assert.Equal(t, model.ValidationMatch, r.Validation[model.FieldProgramme])
}

func TestMergeName(t *testing.T) {
	tests := []struct {
		name      string
		fn, text  string
		want      string
		wantValid model.Validation
		wantScore int
	}{
		{"match keeps text spacing", "DataStructures", "Data Structures", "Data Structures", model.ValidationMatch, 100},
		{"agreeing names skip the validity check", "Examination Techniques", "Examination Techniques", "Examination Techniques", model.ValidationMatch, 100},
		{"boilerplate text", "Data Structures", "JK Lakshmipat University", "Data Structures", model.ValidationFilenamePreferred, 90},
		{"partial", "DS", "Data Structures", "DS", model.ValidationPartial, 80},
		{"filename only", "Data Structures", "", "Data Structures", model.ValidationFilenameOnly, 85},
		{"text only", "", "Operating Systems", "Operating Systems", model.ValidationOCROnly, 70},
		{"text only boilerplate", "", "Department of Physics", "", model.ValidationMissing, 0},
		{"none", "", "", "", model.ValidationMissing, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, valid, score := mergeName(tt.fn, tt.text)
			assert.Equal(t, tt.want, v)
			assert.Equal(t, tt.wantValid, valid)
			assert.Equal(t, tt.wantScore, score)
		})
	}
}

func TestMerge_ExamTypeSetsPaperType(t *testing.T) {
	fn := candidate(model.SourceFilename)
	text := candidate(model.SourceOCR)
	text.ExamType = "Mid Term"
	text.Branch = "CSE"
	text.Department = "Computer Science"

	r := Merge(fn, text)
	assert.Equal(t, model.PaperTypeMidterm, r.PaperType)
	assert.Equal(t, "CSE", r.Branch)
	assert.Equal(t, "Computer Science", r.Department)
	assert.Equal(t, ScoreTextOnlyField, r.Confidence[model.FieldBranch])
	assert.Equal(t, ScoreTextOnlyField, r.Confidence[model.FieldDepartment])
}

func TestValidCourseName(t *testing.T) {
	assert.True(t, ValidCourseName("Data Structures"))
	assert.False(t, ValidCourseName(""))
	assert.False(t, ValidCourseName("End Term Examination"))
	assert.False(t, ValidCourseName("JKLU Jaipur"))
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name        string
		conf        map[model.Field]int
		wantDec     model.Decision
		wantOverall int
	}{
		{
			name:        "all certain",
			conf:        map[model.Field]int{model.FieldCourseCode: 100, model.FieldCourseName: 100},
			wantDec:     model.DecisionAccept,
			wantOverall: 100,
		},
		{
			name:        "low code rejects",
			conf:        map[model.Field]int{model.FieldCourseCode: 50, model.FieldCourseName: 100},
			wantDec:     model.DecisionReject,
			wantOverall: 50,
		},
		{
			name:        "code 65 alone",
			conf:        map[model.Field]int{model.FieldCourseCode: 65},
			wantDec:     model.DecisionReview,
			wantOverall: 65,
		},
		{
			name:        "single source code always reviews",
			conf:        map[model.Field]int{model.FieldCourseCode: 75, model.FieldCourseName: 85},
			wantDec:     model.DecisionReview,
			wantOverall: 80,
		},
		{
			name:        "code 80 without name",
			conf:        map[model.Field]int{model.FieldCourseCode: 80, model.FieldCourseName: 0},
			wantDec:     model.DecisionAccept,
			wantOverall: 80,
		},
		{
			name:        "weak average reviews",
			conf:        map[model.Field]int{model.FieldCourseCode: 80, model.FieldYear: 30, model.FieldSemester: 30},
			wantDec:     model.DecisionReview,
			wantOverall: 46,
		},
		{
			name:        "nothing",
			conf:        map[model.Field]int{},
			wantDec:     model.DecisionReject,
			wantOverall: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, overall := Decide(tt.conf)
			assert.Equal(t, tt.wantDec, dec)
			assert.Equal(t, tt.wantOverall, overall)
		})
	}
}

func TestTitle(t *testing.T) {
	r := model.MergedResult{
		CourseCode: "CS1234",
		CourseName: "Data Structures",
		PaperType:  model.PaperTypeMidterm,
		Semester:   "III",
		Year:       2022,
	}
	assert.Equal(t, "CS1234 - Data Structures - Midterm - Sem III - 2022", Title(r, "f.pdf"))

	r.PaperType = model.PaperTypeOther
	r.Semester = ""
	assert.Equal(t, "CS1234 - Data Structures - 2022", Title(r, "f.pdf"))
}

func TestTitle_FallsBackToStem(t *testing.T) {
	got := Title(model.MergedResult{PaperType: model.PaperTypeOther}, "Old Scan.final.pdf")
	require.NotEmpty(t, got)
	assert.Equal(t, "Old Scan.final", got)
}
