package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paper-portal/paperctl/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS users`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FindCourseByCode_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, code, name, description, created_at, updated_at FROM courses WHERE code = \$1`).
		WithArgs("CS9999").
		WillReturnError(pgx.ErrNoRows)

	c, err := s.FindCourseByCode(context.Background(), "CS9999")
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FindCourseByCode_QueryError(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM courses WHERE code`).
		WithArgs("CS1234").
		WillReturnError(errors.New("connection reset"))

	_, err := s.FindCourseByCode(context.Background(), "CS1234")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "find course CS1234")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateCourse(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`INSERT INTO courses`).
		WithArgs("CS1234", "Data Structures", "Auto-created", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	c := &model.Course{Code: "CS1234", Name: "Data Structures", Description: "Auto-created"}
	require.NoError(t, s.CreateCourse(context.Background(), c))
	assert.Equal(t, int64(7), c.ID)
	assert.False(t, c.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateCourse_Duplicate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`INSERT INTO courses`).
		WithArgs("CS1234", "Course CS1234", "", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})

	err := s.CreateCourse(context.Background(), &model.Course{Code: "CS1234", Name: "Course CS1234"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicate))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateCourseName_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE courses SET name = \$1`).
		WithArgs("Signals", pgxmock.AnyArg(), int64(9)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateCourseName(context.Background(), 9, "Signals")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "course not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CountCourses(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM courses`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	n, err := s.CountCourses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FindPaperByFileName_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM papers WHERE course_id = \$1 AND file_name = \$2`).
		WithArgs(int64(1), "cs1234.pdf").
		WillReturnError(pgx.ErrNoRows)

	p, err := s.FindPaperByFileName(context.Background(), 1, "cs1234.pdf")
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var paperRowColumns = []string{
	"id", "course_id", "uploaded_by", "title", "description", "paper_type", "year", "semester", "department",
	"file_path", "file_name", "file_size", "status", "reviewed_by", "reviewed_at", "uploaded_at", "updated_at",
}

func TestPostgresStore_FindPaperByFilePath_NullColumns(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	uploaded := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM papers WHERE course_id = \$1 AND file_path = \$2`).
		WithArgs(int64(3), "pastpaper/cs1234.pdf").
		WillReturnRows(pgxmock.NewRows(paperRowColumns).AddRow(
			int64(11), int64(3), nil, "CS1234 - Data Structures", "desc", "endterm", nil, "III", "BTECH",
			"pastpaper/cs1234.pdf", "cs1234.pdf", int64(2048), "pending", nil, nil, uploaded, uploaded,
		))

	p, err := s.FindPaperByFilePath(context.Background(), 3, "pastpaper/cs1234.pdf")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, int64(11), p.ID)
	assert.Equal(t, model.PaperTypeEndterm, p.PaperType)
	assert.Equal(t, model.PaperStatusPending, p.Status)
	assert.Equal(t, int64(2048), p.FileSize)
	assert.Nil(t, p.UploadedBy)
	assert.Nil(t, p.Year)
	assert.Nil(t, p.ReviewedBy)
	assert.Nil(t, p.ReviewedAt)
	assert.Equal(t, uploaded, p.UploadedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreatePaper(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	p := &model.Paper{
		CourseID:   3,
		UploadedBy: int64Ptr(1),
		Title:      "CS1234 - Data Structures",
		PaperType:  model.PaperTypeMidterm,
		Year:       intPtr(2023),
		Semester:   "III",
		FilePath:   "pastpaper/cs1234.pdf",
		FileName:   "cs1234.pdf",
		FileSize:   3,
		FileData:   []byte("pdf"),
		Status:     model.PaperStatusPending,
	}

	mock.ExpectQuery(`INSERT INTO papers`).
		WithArgs(int64(3), p.UploadedBy, "CS1234 - Data Structures", "", "midterm", p.Year, "III", "",
			"pastpaper/cs1234.pdf", "cs1234.pdf", int64(3), []byte("pdf"), "pending",
			(*int64)(nil), (*time.Time)(nil), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(21)))

	require.NoError(t, s.CreatePaper(context.Background(), p))
	assert.Equal(t, int64(21), p.ID)
	assert.False(t, p.UploadedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreatePaper_Error(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`INSERT INTO papers`).
		WithArgs(anyArgs(17)...).
		WillReturnError(errors.New("foreign key violation"))

	err := s.CreatePaper(context.Background(), &model.Paper{CourseID: 99, FileName: "x.pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert paper x.pdf")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdatePaper(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	reviewedAt := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	p := &model.Paper{
		ID:         42,
		Title:      "CS1234 - Data Structures",
		PaperType:  model.PaperTypeEndterm,
		Year:       intPtr(2023),
		Semester:   "III",
		Department: "BTECH",
		Status:     model.PaperStatusApproved,
		ReviewedBy: int64Ptr(1),
		ReviewedAt: &reviewedAt,
		FileData:   []byte("pdf"),
		FileSize:   3,
	}

	mock.ExpectExec(`UPDATE papers SET title = \$1`).
		WithArgs("CS1234 - Data Structures", "", "endterm", p.Year, "III",
			"BTECH", "approved", p.ReviewedBy, p.ReviewedAt, pgxmock.AnyArg(),
			[]byte("pdf"), int64(3), int64(42)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, s.UpdatePaper(context.Background(), p))
	assert.False(t, p.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdatePaper_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE papers SET title = \$1`).
		WithArgs(anyArgs(13)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdatePaper(context.Background(), &model.Paper{ID: 42, Title: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paper not found: 42")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListCourses(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	ts := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM courses ORDER BY code`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "code", "name", "description", "created_at", "updated_at"}).
			AddRow(int64(2), "CS1234", "Data Structures", "", ts, ts).
			AddRow(int64(1), "MA1010", "Calculus", "Auto-created", ts, ts))

	courses, err := s.ListCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "CS1234", courses[0].Code)
	assert.Equal(t, "Calculus", courses[1].Name)
	assert.Equal(t, "Auto-created", courses[1].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListCourses_QueryError(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM courses ORDER BY code`).
		WillReturnError(errors.New("connection reset"))

	_, err := s.ListCourses(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list courses")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// anyArgs returns n wildcard argument matchers.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestPostgresStore_FirstAdminUserID(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id FROM users WHERE is_admin`).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(2)))

	id, err := s.FirstAdminUserID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FirstAdminUserID_None(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id FROM users WHERE is_admin`).
		WillReturnError(pgx.ErrNoRows)

	id, err := s.FirstAdminUserID(context.Background())
	require.NoError(t, err)
	assert.Zero(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Close(t *testing.T) {
	called := false
	s := &PostgresStore{closeFn: func() { called = true }}
	require.NoError(t, s.Close())
	assert.True(t, called)
}
