// Package report writes the end-of-run import report to disk and prints the
// summary block.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/paper-portal/paperctl/internal/model"
)

// Supported output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatXLSX = "xlsx"
)

// FileName returns the report file name for rep in the given format.
func FileName(rep *model.Report, format string) string {
	return fmt.Sprintf("bulk_import_results_%s.%s", rep.Timestamp.UTC().Format("20060102_150405"), format)
}

// Write stores rep under dir and returns the written path. An empty format
// means json.
func Write(rep *model.Report, dir, format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatJSON
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "report: create dir %s", dir)
	}
	path := filepath.Join(dir, FileName(rep, format))

	var err error
	switch format {
	case FormatJSON:
		err = writeJSON(rep, path)
	case FormatYAML:
		err = writeYAML(rep, path)
	case FormatXLSX:
		err = writeXLSX(rep, path)
	default:
		return "", eris.Errorf("report: unknown format %q", format)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

func writeJSON(rep *model.Report, path string) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return eris.Wrap(err, "report: marshal json")
	}
	return eris.Wrap(os.WriteFile(path, data, 0o644), "report: write json")
}

// writeYAML goes through JSON so the YAML keys match the JSON report.
func writeYAML(rep *model.Report, path string) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return eris.Wrap(err, "report: marshal json")
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return eris.Wrap(err, "report: decode json as yaml")
	}
	blockStyle(&node)

	out, err := yaml.Marshal(&node)
	if err != nil {
		return eris.Wrap(err, "report: marshal yaml")
	}
	return eris.Wrap(os.WriteFile(path, out, 0o644), "report: write yaml")
}

// blockStyle drops the flow and quoting styles JSON input carries.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// PrintSummary writes the human-readable summary block for s.
func PrintSummary(w io.Writer, s model.Summary) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "BULK IMPORT SUMMARY")
	fmt.Fprintln(w, rule)
	for _, line := range summaryRows(s) {
		fmt.Fprintf(w, "%-18s %d\n", line.label+":", line.value)
	}
	fmt.Fprintln(w, rule)
}

type summaryRow struct {
	label string
	value int
}

func summaryRows(s model.Summary) []summaryRow {
	return []summaryRow{
		{"Total processed", s.TotalProcessed},
		{"Courses created", s.CoursesCreated},
		{"Courses updated", s.CoursesUpdated},
		{"Papers created", s.PapersCreated},
		{"Papers updated", s.PapersUpdated},
		{"Papers skipped", s.PapersSkipped},
		{"Papers approved", s.PapersApproved},
		{"Papers pending", s.PapersPending},
		{"Papers rejected", s.PapersRejected},
		{"Errors", s.Errors},
	}
}
