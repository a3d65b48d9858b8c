package report

import (
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/paper-portal/paperctl/internal/model"
)

// resultColumns are the Results sheet headers, in cell order.
var resultColumns = []string{
	"File Name", "File Path", "Success", "Decision", "Overall Confidence",
	"Course Code", "Course Name", "Semester", "Year", "Programme", "Paper Type",
	"Title", "Action", "DB Paper ID", "DB Status", "Error",
}

func writeXLSX(rep *model.Report, path string) error {
	f := xlsx.NewFile()

	summary, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "report: add summary sheet")
	}
	addStrings(summary, "Metric", "Value")
	addStrings(summary, "Run ID", rep.RunID)
	addStrings(summary, "Timestamp", rep.Timestamp.UTC().Format(time.RFC3339))
	for _, line := range summaryRows(rep.Summary) {
		row := summary.AddRow()
		row.AddCell().SetString(line.label)
		row.AddCell().SetInt(line.value)
	}

	results, err := f.AddSheet("Results")
	if err != nil {
		return eris.Wrap(err, "report: add results sheet")
	}
	addStrings(results, resultColumns...)
	for _, res := range rep.Results {
		addResult(results, res)
	}

	return eris.Wrap(f.Save(path), "report: save xlsx")
}

func addStrings(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func addResult(sheet *xlsx.Sheet, res model.DocumentResult) {
	var m model.MergedResult
	if res.MergedResult != nil {
		m = *res.MergedResult
	}
	row := sheet.AddRow()
	row.AddCell().SetString(res.FileName)
	row.AddCell().SetString(res.FilePath)
	row.AddCell().SetString(strconv.FormatBool(res.Success))
	row.AddCell().SetString(string(m.Decision))
	row.AddCell().SetInt(m.OverallConfidence)
	row.AddCell().SetString(m.CourseCode)
	row.AddCell().SetString(m.CourseName)
	row.AddCell().SetString(m.Semester)
	year := row.AddCell()
	if m.Year != 0 {
		year.SetInt(m.Year)
	}
	row.AddCell().SetString(m.Programme)
	row.AddCell().SetString(string(m.PaperType))
	row.AddCell().SetString(m.Title)
	row.AddCell().SetString(res.Action)
	paperID := row.AddCell()
	if res.DBPaperID != 0 {
		paperID.SetInt(int(res.DBPaperID))
	}
	row.AddCell().SetString(string(res.DBStatus))
	row.AddCell().SetString(res.Error)
}
