package extract

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paper-portal/paperctl/internal/model"
	"github.com/paper-portal/paperctl/internal/patterns"
)

func TestFolderChain(t *testing.T) {
	root := filepath.Join("/archive")
	path := filepath.Join(root, "2023", "SEM III", "CS1234-DataStructures.pdf")
	assert.Equal(t, []string{"SEM III", "2023"}, FolderChain(path, root))
}

func TestFolderChain_NoRoot(t *testing.T) {
	path := filepath.Join("/a", "b", "c.pdf")
	assert.Equal(t, []string{"b", "a"}, FolderChain(path, ""))
}

func TestFolderChain_FileAtRoot(t *testing.T) {
	assert.Empty(t, FolderChain(filepath.Join("/archive", "x.pdf"), "/archive"))
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"cs-1234", "CS1234", true},
		{"cs 1234", "CS1234", true},
		{" CSE201 ", "CSE201", true},
		{"Ec-1201", "EC1201", true},
		{"C1234", "", false},
		{"CS12", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeCode(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			if ok {
				assert.Regexp(t, patterns.CourseCodeShape, got)
			}
		})
	}
}

func TestFromFilename_SemesterFolder(t *testing.T) {
	e := New(nil)
	path := filepath.Join("root", "SEM III", "CS1234-DataStructures.pdf")
	c := e.FromFilename(path, []string{"SEM III"})

	assert.Equal(t, model.SourceFilename, c.Source)
	assert.Equal(t, "CS1234-DataStructures.pdf", c.FileName)
	assert.Equal(t, path, c.FilePath)
	assert.Equal(t, "CS1234", c.CourseCode)
	assert.Equal(t, "DataStructures", c.CourseName)
	assert.Equal(t, "III", c.Semester)
	assert.Equal(t, model.ConfidenceHigh, c.Confidence[model.FieldSemester])
	assert.Equal(t, model.ConfidenceHigh, c.Confidence[model.FieldCourseCode])
	assert.Equal(t, model.PaperTypeOther, c.PaperType)
	assert.Zero(t, c.Year)
}

func TestFromFilename_StudyYearProgrammeAndTerm(t *testing.T) {
	e := New(nil)
	folders := []string{"2nd year", "B.Tech", "End Term 2022"}
	c := e.FromFilename("CSE201 Operating Systems.pdf", folders)

	assert.Equal(t, "CSE201", c.CourseCode)
	assert.Equal(t, "Operating Systems", c.CourseName)
	assert.Equal(t, "III", c.Semester)
	assert.Equal(t, model.ConfidenceMedium, c.Confidence[model.FieldSemester])
	assert.Equal(t, 2022, c.Year)
	assert.Equal(t, "BTECH", c.Programme)
	assert.Equal(t, model.PaperTypeEndterm, c.PaperType)
}

func TestFromFilename_SemesterInferredFromCode(t *testing.T) {
	c := New(nil).FromFilename("CS2201-Algorithms.pdf", []string{"misc"})
	assert.Equal(t, "V", c.Semester)
	assert.Equal(t, model.ConfidenceLow, c.Confidence[model.FieldSemester])
}

func TestFromFilename_DigitSemesterFolder(t *testing.T) {
	c := New(nil).FromFilename("CS1001-Programming.pdf", []string{"Sem 2", "Mid Term"})
	assert.Equal(t, "II", c.Semester)
	assert.Equal(t, model.PaperTypeMidterm, c.PaperType)
}

func TestFromFilename_MixedCaseCode(t *testing.T) {
	c := New(nil).FromFilename("Ec-1201 Signals.pdf", nil)
	assert.Equal(t, "EC1201", c.CourseCode)
	assert.Equal(t, "Signals", c.CourseName)
}

func TestFromFilename_YearOutOfRange(t *testing.T) {
	c := New(nil).FromFilename("CS1234-Data.pdf", []string{"2009 papers"})
	assert.Zero(t, c.Year)
	_, ok := c.Confidence[model.FieldYear]
	assert.False(t, ok)
}

func TestFromFilename_Unrecognised(t *testing.T) {
	c := New(nil).FromFilename("scan_001.pdf", nil)
	assert.Empty(t, c.CourseCode)
	assert.Empty(t, c.CourseName)
	assert.Empty(t, c.Semester)
	assert.Empty(t, c.Confidence)
	assert.Equal(t, model.PaperTypeOther, c.PaperType)
}

func TestNew_DefaultLibrary(t *testing.T) {
	e := New(nil)
	require.NotNil(t, e.lib)
	assert.Same(t, patterns.Default(), e.lib)
}
