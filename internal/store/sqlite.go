package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/paper-portal/paperctl/internal/db"
	"github.com/paper-portal/paperctl/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: conn}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS users (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	email      TEXT NOT NULL UNIQUE,
	name       TEXT NOT NULL DEFAULT '',
	is_admin   INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS courses (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	code        TEXT NOT NULL UNIQUE,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS papers (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	course_id   INTEGER NOT NULL REFERENCES courses(id),
	uploaded_by INTEGER REFERENCES users(id),
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	paper_type  TEXT NOT NULL DEFAULT 'other',
	year        INTEGER,
	semester    TEXT NOT NULL DEFAULT '',
	department  TEXT NOT NULL DEFAULT '',
	file_path   TEXT NOT NULL DEFAULT '',
	file_name   TEXT NOT NULL,
	file_size   INTEGER NOT NULL DEFAULT 0,
	file_data   BLOB,
	status      TEXT NOT NULL DEFAULT 'pending',
	reviewed_by INTEGER REFERENCES users(id),
	reviewed_at DATETIME,
	uploaded_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_papers_course_file_name ON papers(course_id, file_name);
CREATE INDEX IF NOT EXISTS idx_papers_course_file_path ON papers(course_id, file_path);
CREATE INDEX IF NOT EXISTS idx_papers_status ON papers(status);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) FindCourseByCode(ctx context.Context, code string) (*model.Course, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, code, name, description, created_at, updated_at FROM courses WHERE code = ?`,
		code,
	)
	var c model.Course
	err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: find course %s", code)
	}
	return &c, nil
}

func (s *SQLiteStore) CreateCourse(ctx context.Context, c *model.Course) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO courses (code, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		c.Code, c.Name, c.Description, now, now,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return eris.Wrapf(err, "sqlite: insert course %s", c.Code)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return eris.Wrap(err, "sqlite: course id")
	}
	c.ID = id
	c.CreatedAt, c.UpdatedAt = now, now
	return nil
}

func (s *SQLiteStore) UpdateCourseName(ctx context.Context, id int64, name string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE courses SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update course %d", id)
	}
	return checkRowsAffected(res, "course", id)
}

func (s *SQLiteStore) CountCourses(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses`).Scan(&n)
	return n, eris.Wrap(err, "sqlite: count courses")
}

func (s *SQLiteStore) ListCourses(ctx context.Context) ([]model.Course, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, code, name, description, created_at, updated_at FROM courses ORDER BY code`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list courses")
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan course")
		}
		courses = append(courses, c)
	}
	return courses, eris.Wrap(rows.Err(), "sqlite: list courses iterate")
}

func (s *SQLiteStore) FindPaperByFileName(ctx context.Context, courseID int64, fileName string) (*model.Paper, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+paperColumns+` FROM papers WHERE course_id = ? AND file_name = ? ORDER BY id LIMIT 1`,
		courseID, fileName,
	)
	return scanPaper(row)
}

func (s *SQLiteStore) FindPaperByFilePath(ctx context.Context, courseID int64, filePath string) (*model.Paper, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+paperColumns+` FROM papers WHERE course_id = ? AND file_path = ? ORDER BY id LIMIT 1`,
		courseID, filePath,
	)
	return scanPaper(row)
}

func (s *SQLiteStore) CreatePaper(ctx context.Context, p *model.Paper) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO papers (course_id, uploaded_by, title, description, paper_type, year, semester, department,
			file_path, file_name, file_size, file_data, status, reviewed_by, reviewed_at, uploaded_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.CourseID, p.UploadedBy, p.Title, p.Description, string(p.PaperType), p.Year, p.Semester, p.Department,
		p.FilePath, p.FileName, p.FileSize, p.FileData, string(p.Status), p.ReviewedBy, p.ReviewedAt, now, now,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert paper %s", p.FileName)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return eris.Wrap(err, "sqlite: paper id")
	}
	p.ID = id
	p.UploadedAt, p.UpdatedAt = now, now
	return nil
}

// UpdatePaper rewrites the mutable columns of p. File bytes are replaced only
// when p.FileData is non-nil.
func (s *SQLiteStore) UpdatePaper(ctx context.Context, p *model.Paper) error {
	now := time.Now().UTC()
	query := `UPDATE papers SET title = ?, description = ?, paper_type = ?, year = ?, semester = ?,
		department = ?, status = ?, reviewed_by = ?, reviewed_at = ?, updated_at = ?`
	args := []any{
		p.Title, p.Description, string(p.PaperType), p.Year, p.Semester,
		p.Department, string(p.Status), p.ReviewedBy, p.ReviewedAt, now,
	}
	if p.FileData != nil {
		query += `, file_data = ?, file_size = ?`
		args = append(args, p.FileData, p.FileSize)
	}
	query += ` WHERE id = ?`
	args = append(args, p.ID)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update paper %d", p.ID)
	}
	if err := checkRowsAffected(res, "paper", p.ID); err != nil {
		return err
	}
	p.UpdatedAt = now
	return nil
}

func (s *SQLiteStore) FirstAdminUserID(ctx context.Context) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM users WHERE is_admin = 1 ORDER BY id LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return id, eris.Wrap(err, "sqlite: first admin user")
}

// CreateUser inserts a user row. The import never creates users; this exists
// for seeding local databases and tests.
func (s *SQLiteStore) CreateUser(ctx context.Context, email, name string, admin bool) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (email, name, is_admin, created_at) VALUES (?, ?, ?, ?)`,
		email, name, admin, time.Now().UTC(),
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, eris.Wrapf(err, "sqlite: insert user %s", email)
	}
	id, err := res.LastInsertId()
	return id, eris.Wrap(err, "sqlite: user id")
}

// helpers

func checkRowsAffected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %d", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanPaper(row scannable) (*model.Paper, error) {
	var p model.Paper
	var paperType, status string
	var uploadedBy, reviewedBy, year sql.NullInt64
	var reviewedAt sql.NullTime
	err := row.Scan(&p.ID, &p.CourseID, &uploadedBy, &p.Title, &p.Description, &paperType, &year,
		&p.Semester, &p.Department, &p.FilePath, &p.FileName, &p.FileSize, &status,
		&reviewedBy, &reviewedAt, &p.UploadedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan paper")
	}
	p.PaperType = model.PaperType(paperType)
	p.Status = model.PaperStatus(status)
	if uploadedBy.Valid {
		p.UploadedBy = &uploadedBy.Int64
	}
	if reviewedBy.Valid {
		p.ReviewedBy = &reviewedBy.Int64
	}
	if year.Valid {
		y := int(year.Int64)
		p.Year = &y
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		p.ReviewedAt = &t
	}
	return &p, nil
}
