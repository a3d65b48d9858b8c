package model

import "time"

// TextPreviewLength caps the extracted-text preview kept in a DocumentResult.
const TextPreviewLength = 500

// DocumentResult is the per-document record written to the import report.
type DocumentResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	*MergedResult

	FileName             string    `json:"file_name"`
	FilePath             string    `json:"file_path"`
	ExtractedTextPreview string    `json:"extracted_text_preview,omitempty"`
	TextLength           int       `json:"text_length"`
	ProcessedAt          time.Time `json:"processed_at"`

	Action     string      `json:"action,omitempty"`
	DBPaperID  int64       `json:"db_paper_id,omitempty"`
	DBCourseID int64       `json:"db_course_id,omitempty"`
	DBStatus   PaperStatus `json:"db_status,omitempty"`
}

// Summary counts batch outcomes. TotalProcessed counts documents that reached
// persistence; extraction failures only show up in Errors.
type Summary struct {
	TotalProcessed int `json:"total_processed"`
	CoursesCreated int `json:"courses_created"`
	CoursesUpdated int `json:"courses_updated"`
	PapersCreated  int `json:"papers_created"`
	PapersUpdated  int `json:"papers_updated"`
	PapersSkipped  int `json:"papers_skipped"`
	PapersApproved int `json:"papers_approved"`
	PapersPending  int `json:"papers_pending"`
	PapersRejected int `json:"papers_rejected"`
	Errors         int `json:"errors"`
}

// Report is the single document written at the end of an import run.
type Report struct {
	RunID     string           `json:"run_id"`
	Timestamp time.Time        `json:"timestamp"`
	Summary   Summary          `json:"summary"`
	Results   []DocumentResult `json:"results"`
}
