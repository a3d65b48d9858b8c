package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaperType(t *testing.T) {
	tests := []struct {
		in   string
		want PaperType
	}{
		{"endterm", PaperTypeEndterm},
		{"End Term", PaperTypeEndterm},
		{" FINAL ", PaperTypeEndterm},
		{"mid_term", PaperTypeMidterm},
		{"MST", PaperTypeMidterm},
		{"test", PaperTypeQuiz},
		{"assignment", PaperTypeAssignment},
		{"project", PaperTypeProject},
		{"practice", PaperTypeOther},
		{"", PaperTypeOther},
		{"supplementary", PaperTypeOther},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePaperType(tt.in))
		})
	}
}

func TestCandidate_Value(t *testing.T) {
	c := Candidate{
		CourseCode: "CS1234",
		CourseName: "Data Structures",
		Semester:   "III",
		Year:       2023,
		Programme:  "BTECH",
		ExamType:   "End Term",
	}
	assert.Equal(t, "CS1234", c.Value(FieldCourseCode))
	assert.Equal(t, "Data Structures", c.Value(FieldCourseName))
	assert.Equal(t, "III", c.Value(FieldSemester))
	assert.Equal(t, "2023", c.Value(FieldYear))
	assert.Equal(t, "BTECH", c.Value(FieldProgramme))
	assert.Equal(t, "End Term", c.Value(FieldExamType))
	assert.Empty(t, c.Value(FieldBranch))
	assert.Empty(t, Candidate{}.Value(FieldYear))
	assert.Empty(t, c.Value(Field("nope")))
}
