package model

import (
	"strings"
	"time"
)

// PaperType classifies an exam paper.
type PaperType string

const (
	PaperTypeQuiz       PaperType = "quiz"
	PaperTypeMidterm    PaperType = "midterm"
	PaperTypeEndterm    PaperType = "endterm"
	PaperTypeAssignment PaperType = "assignment"
	PaperTypeProject    PaperType = "project"
	PaperTypeOther      PaperType = "other"
)

// paperTypeAliases maps loose labels found in archives onto stored paper types.
var paperTypeAliases = map[string]PaperType{
	"endterm":    PaperTypeEndterm,
	"end_term":   PaperTypeEndterm,
	"end term":   PaperTypeEndterm,
	"final":      PaperTypeEndterm,
	"midterm":    PaperTypeMidterm,
	"mid_term":   PaperTypeMidterm,
	"mid term":   PaperTypeMidterm,
	"mst":        PaperTypeMidterm,
	"quiz":       PaperTypeQuiz,
	"test":       PaperTypeQuiz,
	"assignment": PaperTypeAssignment,
	"project":    PaperTypeProject,
	"practice":   PaperTypeOther,
	"other":      PaperTypeOther,
}

// ParsePaperType maps a free-form label to a PaperType, defaulting to other.
func ParsePaperType(s string) PaperType {
	if pt, ok := paperTypeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return pt
	}
	return PaperTypeOther
}

// PaperStatus is the review state of a paper.
type PaperStatus string

const (
	PaperStatusPending  PaperStatus = "pending"
	PaperStatusApproved PaperStatus = "approved"
	PaperStatusRejected PaperStatus = "rejected"
)

// Course is a persisted course row. Code is the natural key.
type Course struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Paper is a persisted exam paper belonging to exactly one course.
type Paper struct {
	ID          int64       `json:"id"`
	CourseID    int64       `json:"course_id"`
	UploadedBy  *int64      `json:"uploaded_by,omitempty"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	PaperType   PaperType   `json:"paper_type"`
	Year        *int        `json:"year,omitempty"`
	Semester    string      `json:"semester,omitempty"`
	Department  string      `json:"department,omitempty"`
	FilePath    string      `json:"file_path,omitempty"`
	FileName    string      `json:"file_name"`
	FileSize    int64       `json:"file_size"`
	FileData    []byte      `json:"-"`
	Status      PaperStatus `json:"status"`
	ReviewedBy  *int64      `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time  `json:"reviewed_at,omitempty"`
	UploadedAt  time.Time   `json:"uploaded_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
