package patterns

import (
	"regexp"

	"github.com/paper-portal/paperctl/internal/model"
)

// CourseCodeShape is the final shape every normalized course code must have.
var CourseCodeShape = regexp.MustCompile(`^[A-Z]{2,4}\d{3,4}[A-Z]?$`)

// ProgrammeTokens lists the degree programmes recognised in folder names and text.
const ProgrammeTokens = `B\.?Tech|BCA|BBA|M\.?Tech|MCA|MBA`

// FieldFamily pairs a text field with its alternatives.
type FieldFamily struct {
	Field  model.Field
	Family Family
}

// Library is the full set of pattern families used by the extractors.
type Library struct {
	// Text families, applied to extracted document text.
	CourseCode Family
	CourseName Family
	Semester   Family
	Programme  Family
	Branch     Family
	Department Family
	Year       Family
	ExamType   Family

	// FilenameShapes match a whole filename stem; group 1 is the course
	// code and group 2 the remainder (course name).
	FilenameShapes Family

	// Folder markers, applied to each ancestor directory name.
	FolderSemester  Matcher
	FolderStudyYear Matcher
	FolderYear      Matcher
	FolderProgramme Matcher
}

// TextFamilies returns the text families in extraction order.
func (l *Library) TextFamilies() []FieldFamily {
	return []FieldFamily{
		{model.FieldCourseCode, l.CourseCode},
		{model.FieldCourseName, l.CourseName},
		{model.FieldSemester, l.Semester},
		{model.FieldProgramme, l.Programme},
		{model.FieldBranch, l.Branch},
		{model.FieldDepartment, l.Department},
		{model.FieldYear, l.Year},
		{model.FieldExamType, l.ExamType},
	}
}

var defaultLibrary = build()

// Default returns the shared, precompiled library. Callers must not modify it.
func Default() *Library {
	return defaultLibrary
}

func build() *Library {
	return &Library{
		CourseCode: Family{
			New("code_colon", `\b([A-Z]{2}\d{4})\s*[:]`),
			New("code_2x4", `\b([A-Z]{2}\d{4})\b`),
			New("code_3x3", `\b([A-Z]{3}\d{3,4})\b`),
			New("course_code_label", `Course\s+Code\s*[:\-]?\s*([A-Z]{2,3}\d{3,4})`),
			New("subject_code_label", `Subject\s+Code\s*[:\-]?\s*([A-Z]{2,3}\d{3,4})`),
			New("code_paren_dash", `\(([A-Z]{2}-[0-9]{4})\)`),
			New("code_paren_wide", `\(([A-Z]{2,4}-\d{3,4})\)`),
			New("code_generic", `\b([A-Z]{2,4}[-\s]?\d{3,4}[A-Z]?)\b`),
		},
		CourseName: Family{
			New("name_after_code_colon", `\b[A-Z]{2}\d{4}\s*:\s*([A-Z][A-Za-z\s&,\-()]+?)(?:\n|Roll|Time:|Max\.|Marks|Semester)`),
			New("name_after_code_sep", `[A-Z]{2,4}\d{3,4}\s*[:\-]\s*([A-Z][A-Za-z\s&,\-()]+?)(?:\n|Time:|Max\.|Marks|Semester|Roll)`),
			New("name_label", `(?:Course|Subject)\s+Name\s*[:\-]?\s*([A-Z][A-Za-z\s&,\-()]+?)(?:\n|Course\s+Code|Subject\s+Code|Max|Time)`),
			New("paper_label", `Paper\s*[:\-]?\s*([A-Z][A-Za-z\s&,\-()]+?)(?:\n|Marks|Time|Semester)`),
			New("name_same_line", `[A-Z]{2,4}\d{3,4}\s+([A-Z][A-Za-z\s&,\-]{10,60}?)(?:\s*\n|Time:|Max\.|Marks|Semester)`),
		},
		Semester: Family{
			New("programme_semester", `(?:BBA|BCA|BTech|B\.?Tech)[,\s]+Semester\s+([IVX]+|\d+)`),
			New("semester_terminated", `Semester\s+([IVX]+|\d+)(?:\s*[,\n]|$)`),
			New("semester_ordinal_label", `Semester:\s*([0-9]+(?:st|nd|rd|th)?)`),
			New("semester_label", `Semester\s*[:\-]?\s*([IVX]+|\d+)`),
			New("sem_abbrev_label", `SEM[ESTER]\s[:-]?\s*([IVX]+|\d+)`),
			New("ordinal_semester", `(\d+)\s*(?:st|nd|rd|th)\s*SEMESTER`),
			New("sem_abbrev", `SEM\s*([IVX]+|\d+)`),
			New("semester_programme_branch", `Semester\s+([IVXLC]+)\s+[A-Za-z.]+\s+[A-Za-z]+`),
			New("semester_roman_terminated", `Semester\s+([IVXLC]+)\s*[,\n]`),
		},
		Programme: Family{
			New("programme_label", `Programme\s*[:\-]?\s*(` + ProgrammeTokens + `)`),
			New("program_label", `Program\s*[:\-]?\s*(` + ProgrammeTokens + `)`),
			New("programme_before_semester", `(` + ProgrammeTokens + `)\s+(?:Semester|SEM)`),
			New("programme_token", `\b(B\.?\s*B\.?\s*A\.?|B\.?\s*Tech\.?|M\.?\s*Tech\.?|B\.?\s*E\.?|BBA|B\.?Sc\.?)\b`),
			New("programme_after_semester", `Semester\s+[IVXLC]+\s+([A-Za-z.]+)\s+[A-Za-z]+`),
		},
		Branch: Family{
			New("branch_label", `Branch\s*[:\-]?\s*([A-Za-z\s]+)`),
			New("specialization_label", `Specialization\s*[:\-]?\s*([A-Za-z\s]+)`),
			New("branch_token", `\b(CSE|ECE|EEE|ME|CE|IT|CS)\b`),
			New("branch_after_programme", `Semester\s+[IVXLC]+\s+[A-Za-z.]+\s+([A-Za-z]+)`),
		},
		Department: Family{
			New("department_label", `Department\s*[:\-]?\s*([A-Za-z\s&]+)`),
			New("department_of", `Department\s+of\s+(.*?)\n`),
			New("department_of_upper", `DEPARTMENT\s+OF\s+(.*?)\n`),
			New("institute_of", `INSTITUTE\s+OF\s+([A-Z\s&]+?)(?:\n|End)`),
		},
		Year: Family{
			New("academic_year_range", `(20[12]\d)\s*-\s*20\d{2}`),
			New("year_token", `\b(20[12]\d)\b`),
			New("year_label", `YEAR\s*[:\-]?\s*(20\d{2})`),
			New("year_range", `(\d{4})\s*[-–]\s*(\d{2,4})`),
			New("dated", `(?:Date|December|October|November)\s+\d+,?\s+(20\d{2})`),
		},
		ExamType: Family{
			New("term_examination", `(End\s*Term|Mid\s*Term)\s+Examination`),
			New("term_upper", `(END\s*TERM|MID\s*TERM|FINAL|EXTERNAL)`),
			New("term_hyphen_examination", `(End-Term|Mid-Term)\s+Examination`),
			New("term_compact", `(Endterm|Midterm)`),
			New("term_word", `\b(End\s*Term|Mid\s*Term|Final)\b`),
		},
		FilenameShapes: Family{
			New("code_dash_rest", `^([A-Z]{2,3}\d{3,4})\s*[-–]\s*(.+)$`),
			New("code_space_rest", `^([A-Z]{2,3}\d{3,4})\s+(.+)$`),
			New("code_rest", `^([A-Z]{2,3}\d{3,4})(.+)$`),
			New("mixed_dash_rest", `^([A-Z]{1,2}[a-z]?[-]?\d{3,4})\s*[-–]\s*(.+)$`),
			New("mixed_space_rest", `^([A-Z]{1,2}[a-z]?[-]?\d{3,4})\s+(.+)$`),
			New("mixed_rest", `^([A-Z]{1,2}[a-z]?[-]?\d{3,4})(.+)$`),
		},
		FolderSemester:  New("folder_sem", `SEM\s*([IVX]+|\d+)`),
		FolderStudyYear: New("folder_study_year", `(\d+)(?:st|nd|rd|th)\s*year`),
		FolderYear:      New("folder_year", `(20\d{2})`),
		FolderProgramme: New("folder_programme", `(`+ProgrammeTokens+`)`),
	}
}
