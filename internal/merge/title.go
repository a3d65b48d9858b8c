package merge

import (
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/paper-portal/paperctl/internal/model"
)

// Title builds the display title "code - name - Type - Sem s - year" from
// whichever parts are present. With none present it falls back to the stem
// of fileName, so the result is never empty for a named file.
func Title(r model.MergedResult, fileName string) string {
	var parts []string
	if r.CourseCode != "" {
		parts = append(parts, r.CourseCode)
	}
	if r.CourseName != "" {
		parts = append(parts, r.CourseName)
	}
	if r.PaperType != "" && r.PaperType != model.PaperTypeOther {
		parts = append(parts, cases.Title(language.English).String(strings.ReplaceAll(string(r.PaperType), "_", " ")))
	}
	if r.Semester != "" {
		parts = append(parts, "Sem "+r.Semester)
	}
	if r.Year != 0 {
		parts = append(parts, strconv.Itoa(r.Year))
	}
	if len(parts) == 0 {
		return strings.TrimSuffix(fileName, filepath.Ext(fileName))
	}
	return strings.Join(parts, " - ")
}
