package model

import "strconv"

// Field names a piece of paper metadata extracted by the import pipeline.
type Field string

const (
	FieldCourseCode Field = "course_code"
	FieldCourseName Field = "course_name"
	FieldSemester   Field = "semester"
	FieldYear       Field = "year"
	FieldProgramme  Field = "programme"
	FieldBranch     Field = "branch"
	FieldDepartment Field = "department"
	FieldExamType   Field = "exam_type"
)

// Confidence levels assigned at extraction time, on the same 0-100 scale the
// merge engine scores with.
const (
	ConfidenceHigh   = 100
	ConfidenceMedium = 70
	ConfidenceLow    = 40
)

// Source identifies where a candidate's values came from.
type Source string

const (
	SourceFilename Source = "filename"
	SourceOCR      Source = "ocr"
)

// Candidate is one source's guess at a document's metadata.
// Empty strings and a zero Year mean "not found".
type Candidate struct {
	Source     Source        `json:"source"`
	FileName   string        `json:"file_name,omitempty"`
	FilePath   string        `json:"file_path,omitempty"`
	CourseCode string        `json:"course_code,omitempty"`
	CourseName string        `json:"course_name,omitempty"`
	Semester   string        `json:"semester,omitempty"`
	Year       int           `json:"year,omitempty"`
	Programme  string        `json:"programme,omitempty"`
	Branch     string        `json:"branch,omitempty"`
	Department string        `json:"department,omitempty"`
	ExamType   string        `json:"exam_type,omitempty"`
	PaperType  PaperType     `json:"paper_type"`
	Confidence map[Field]int `json:"confidence"`
}

// Value returns the string form of a field, "" when absent.
func (c Candidate) Value(f Field) string {
	switch f {
	case FieldCourseCode:
		return c.CourseCode
	case FieldCourseName:
		return c.CourseName
	case FieldSemester:
		return c.Semester
	case FieldYear:
		if c.Year == 0 {
			return ""
		}
		return strconv.Itoa(c.Year)
	case FieldProgramme:
		return c.Programme
	case FieldBranch:
		return c.Branch
	case FieldDepartment:
		return c.Department
	case FieldExamType:
		return c.ExamType
	}
	return ""
}

// Decision gates the review status a merged document is stored with.
type Decision string

const (
	DecisionAccept Decision = "ACCEPT"
	DecisionReview Decision = "REVIEW"
	DecisionReject Decision = "REJECT"
)

// Validation records how a merged field was reconciled.
type Validation string

const (
	ValidationMatch             Validation = "match"
	ValidationPartial           Validation = "partial"
	ValidationFilenamePreferred Validation = "filename_preferred"
	ValidationFilenameOnly      Validation = "filename_only"
	ValidationOCROnly           Validation = "ocr_only"
	ValidationMismatchFilename  Validation = "mismatch_prefer_filename"
	ValidationMismatchOCR       Validation = "mismatch_prefer_ocr"
	ValidationMissing           Validation = "missing"
)

// MergedResult is the reconciled, scored outcome of two candidates.
type MergedResult struct {
	FileName          string               `json:"file_name"`
	FilePath          string               `json:"file_path"`
	CourseCode        string               `json:"course_code,omitempty"`
	CourseName        string               `json:"course_name,omitempty"`
	Semester          string               `json:"semester,omitempty"`
	Year              int                  `json:"year,omitempty"`
	Programme         string               `json:"programme,omitempty"`
	Branch            string               `json:"branch,omitempty"`
	Department        string               `json:"department,omitempty"`
	ExamType          string               `json:"exam_type,omitempty"`
	PaperType         PaperType            `json:"paper_type"`
	Title             string               `json:"title"`
	Validation        map[Field]Validation `json:"validation"`
	Confidence        map[Field]int        `json:"confidence"`
	Decision          Decision             `json:"decision"`
	OverallConfidence int                  `json:"overall_confidence"`
}
