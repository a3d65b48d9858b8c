// Package extract derives paper metadata candidates from a document's filename,
// its folder chain, and its extracted text.
package extract

import (
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/paper-portal/paperctl/internal/model"
	"github.com/paper-portal/paperctl/internal/patterns"
)

// Year bounds accepted from any source.
const (
	MinYear = 2010
	MaxYear = 2030
)

// Extractor turns filenames and text into candidates using a pattern library.
type Extractor struct {
	lib *patterns.Library
}

// New creates an Extractor. A nil library selects patterns.Default().
func New(lib *patterns.Library) *Extractor {
	if lib == nil {
		lib = patterns.Default()
	}
	return &Extractor{lib: lib}
}

// FolderChain returns the names of the directories enclosing filePath,
// nearest first, stopping before root. An empty root walks to the volume root.
func FolderChain(filePath, root string) []string {
	stop := ""
	if root != "" {
		stop = filepath.Clean(root)
	}
	var chain []string
	dir := filepath.Dir(filepath.Clean(filePath))
	for {
		if dir == stop || dir == "." || dir == string(filepath.Separator) || filepath.Dir(dir) == dir {
			break
		}
		if stop != "" && dir == filepath.Dir(stop) {
			break
		}
		chain = append(chain, filepath.Base(dir))
		dir = filepath.Dir(dir)
	}
	return chain
}

// NormalizeCode uppercases a course code and strips dashes and spaces.
// It returns false when the result does not have the course-code shape.
func NormalizeCode(raw string) (string, bool) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	code = strings.ReplaceAll(code, "-", "")
	code = strings.ReplaceAll(code, " ", "")
	if !patterns.CourseCodeShape.MatchString(code) {
		return "", false
	}
	return code, true
}

// FromFilename builds the filename-sourced candidate for filePath. folders is
// the enclosing directory chain, nearest first (see FolderChain).
func (e *Extractor) FromFilename(filePath string, folders []string) model.Candidate {
	fileName := filepath.Base(filePath)
	c := model.Candidate{
		Source:     model.SourceFilename,
		FileName:   fileName,
		FilePath:   filePath,
		PaperType:  model.PaperTypeOther,
		Confidence: map[model.Field]int{},
	}
	log := zap.L().With(zap.String("file", fileName))

	stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	for _, m := range e.lib.FilenameShapes {
		sub := m.Submatch(stem)
		if sub == nil {
			continue
		}
		code, ok := NormalizeCode(sub[1])
		if !ok {
			continue
		}
		c.CourseCode = code
		c.CourseName = strings.TrimSpace(strings.ReplaceAll(strings.TrimSpace(sub[2]), "-", " "))
		c.Confidence[model.FieldCourseCode] = model.ConfidenceHigh
		if c.CourseName != "" {
			c.Confidence[model.FieldCourseName] = model.ConfidenceHigh
		}
		log.Debug("filename: course", zap.String("code", c.CourseCode), zap.String("name", c.CourseName), zap.String("pattern", m.Name))
		break
	}

	e.semesterFromFolders(&c, folders)
	if c.Semester == "" && c.CourseCode != "" {
		if sem := InferSemesterFromCode(c.CourseCode); sem != "" {
			c.Semester = sem
			c.Confidence[model.FieldSemester] = model.ConfidenceLow
			log.Debug("filename: semester inferred from code", zap.String("semester", sem))
		}
	}

	for _, folder := range folders {
		raw, ok := e.lib.FolderYear.Match(folder)
		if !ok {
			continue
		}
		if y, err := strconv.Atoi(raw); err == nil && y >= MinYear && y <= MaxYear {
			c.Year = y
			c.Confidence[model.FieldYear] = model.ConfidenceHigh
			break
		}
	}

	for _, folder := range folders {
		if raw, ok := e.lib.FolderProgramme.Match(folder); ok {
			c.Programme = strings.ReplaceAll(strings.ToUpper(raw), ".", "")
			c.Confidence[model.FieldProgramme] = model.ConfidenceHigh
			break
		}
	}

	joined := strings.ToLower(strings.Join(folders, " "))
	switch {
	case strings.Contains(joined, "end term") || strings.Contains(joined, "endterm"):
		c.PaperType = model.PaperTypeEndterm
	case strings.Contains(joined, "mid term") || strings.Contains(joined, "midterm"):
		c.PaperType = model.PaperTypeMidterm
	}

	return c
}

// semesterFromFolders scans the chain nearest first and stops at the first
// folder carrying either an explicit SEM marker or an "Nth year" marker.
func (e *Extractor) semesterFromFolders(c *model.Candidate, folders []string) {
	for _, folder := range folders {
		if raw, ok := e.lib.FolderSemester.Match(folder); ok {
			c.Semester = NormalizeSemester(raw)
			c.Confidence[model.FieldSemester] = model.ConfidenceHigh
			return
		}
		if raw, ok := e.lib.FolderStudyYear.Match(folder); ok {
			n, _ := strconv.Atoi(raw)
			if sem, known := studyYearSemester[n]; known {
				c.Semester = sem
				c.Confidence[model.FieldSemester] = model.ConfidenceMedium
			}
			return
		}
	}
}
