package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/paper-portal/paperctl/internal/config"
	"github.com/paper-portal/paperctl/internal/db"
	"github.com/paper-portal/paperctl/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *config.PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS users (
	id         BIGSERIAL PRIMARY KEY,
	email      TEXT NOT NULL UNIQUE,
	name       TEXT NOT NULL DEFAULT '',
	is_admin   BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS courses (
	id          BIGSERIAL PRIMARY KEY,
	code        TEXT NOT NULL UNIQUE,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS papers (
	id          BIGSERIAL PRIMARY KEY,
	course_id   BIGINT NOT NULL REFERENCES courses(id),
	uploaded_by BIGINT REFERENCES users(id),
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	paper_type  TEXT NOT NULL DEFAULT 'other',
	year        INTEGER,
	semester    TEXT NOT NULL DEFAULT '',
	department  TEXT NOT NULL DEFAULT '',
	file_path   TEXT NOT NULL DEFAULT '',
	file_name   TEXT NOT NULL,
	file_size   BIGINT NOT NULL DEFAULT 0,
	file_data   BYTEA,
	status      TEXT NOT NULL DEFAULT 'pending',
	reviewed_by BIGINT REFERENCES users(id),
	reviewed_at TIMESTAMPTZ,
	uploaded_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_papers_course_file_name ON papers(course_id, file_name);
CREATE INDEX IF NOT EXISTS idx_papers_course_file_path ON papers(course_id, file_path);
CREATE INDEX IF NOT EXISTS idx_papers_status ON papers(status);
`

const paperColumns = `id, course_id, uploaded_by, title, description, paper_type, year, semester, department,
	file_path, file_name, file_size, status, reviewed_by, reviewed_at, uploaded_at, updated_at`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) FindCourseByCode(ctx context.Context, code string) (*model.Course, error) {
	var c model.Course
	err := s.pool.QueryRow(ctx,
		`SELECT id, code, name, description, created_at, updated_at FROM courses WHERE code = $1`,
		code,
	).Scan(&c.ID, &c.Code, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: find course %s", code)
	}
	return &c, nil
}

func (s *PostgresStore) CreateCourse(ctx context.Context, c *model.Course) error {
	now := time.Now().UTC()
	err := s.pool.QueryRow(ctx,
		`INSERT INTO courses (code, name, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		c.Code, c.Name, c.Description, now, now,
	).Scan(&c.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return eris.Wrapf(err, "postgres: insert course %s", c.Code)
	}
	c.CreatedAt, c.UpdatedAt = now, now
	return nil
}

func (s *PostgresStore) UpdateCourseName(ctx context.Context, id int64, name string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE courses SET name = $1, updated_at = $2 WHERE id = $3`,
		name, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update course %d", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: course not found: %d", id)
	}
	return nil
}

func (s *PostgresStore) CountCourses(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&n)
	return n, eris.Wrap(err, "postgres: count courses")
}

func (s *PostgresStore) ListCourses(ctx context.Context) ([]model.Course, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, code, name, description, created_at, updated_at FROM courses ORDER BY code`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list courses")
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan course")
		}
		courses = append(courses, c)
	}
	return courses, eris.Wrap(rows.Err(), "postgres: list courses")
}

func (s *PostgresStore) FindPaperByFileName(ctx context.Context, courseID int64, fileName string) (*model.Paper, error) {
	return s.findPaper(ctx, `file_name`, courseID, fileName)
}

func (s *PostgresStore) FindPaperByFilePath(ctx context.Context, courseID int64, filePath string) (*model.Paper, error) {
	return s.findPaper(ctx, `file_path`, courseID, filePath)
}

func (s *PostgresStore) findPaper(ctx context.Context, column string, courseID int64, value string) (*model.Paper, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+paperColumns+` FROM papers WHERE course_id = $1 AND `+column+` = $2 ORDER BY id LIMIT 1`,
		courseID, value,
	)
	var p model.Paper
	var paperType, status string
	err := row.Scan(&p.ID, &p.CourseID, &p.UploadedBy, &p.Title, &p.Description, &paperType, &p.Year,
		&p.Semester, &p.Department, &p.FilePath, &p.FileName, &p.FileSize, &status,
		&p.ReviewedBy, &p.ReviewedAt, &p.UploadedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: find paper by %s", column)
	}
	p.PaperType = model.PaperType(paperType)
	p.Status = model.PaperStatus(status)
	return &p, nil
}

func (s *PostgresStore) CreatePaper(ctx context.Context, p *model.Paper) error {
	now := time.Now().UTC()
	err := s.pool.QueryRow(ctx,
		`INSERT INTO papers (course_id, uploaded_by, title, description, paper_type, year, semester, department,
			file_path, file_name, file_size, file_data, status, reviewed_by, reviewed_at, uploaded_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id`,
		p.CourseID, p.UploadedBy, p.Title, p.Description, string(p.PaperType), p.Year, p.Semester, p.Department,
		p.FilePath, p.FileName, p.FileSize, p.FileData, string(p.Status), p.ReviewedBy, p.ReviewedAt, now, now,
	).Scan(&p.ID)
	if err != nil {
		return eris.Wrapf(err, "postgres: insert paper %s", p.FileName)
	}
	p.UploadedAt, p.UpdatedAt = now, now
	return nil
}

// UpdatePaper rewrites the mutable columns of p. File bytes are replaced only
// when p.FileData is non-nil.
func (s *PostgresStore) UpdatePaper(ctx context.Context, p *model.Paper) error {
	now := time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE papers SET title = $1, description = $2, paper_type = $3, year = $4, semester = $5,
			department = $6, status = $7, reviewed_by = $8, reviewed_at = $9, updated_at = $10,
			file_data = COALESCE($11, file_data),
			file_size = CASE WHEN $11::bytea IS NULL THEN file_size ELSE $12 END
		WHERE id = $13`,
		p.Title, p.Description, string(p.PaperType), p.Year, p.Semester,
		p.Department, string(p.Status), p.ReviewedBy, p.ReviewedAt, now,
		p.FileData, p.FileSize, p.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update paper %d", p.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: paper not found: %d", p.ID)
	}
	p.UpdatedAt = now
	return nil
}

func (s *PostgresStore) FirstAdminUserID(ctx context.Context) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `SELECT id FROM users WHERE is_admin ORDER BY id LIMIT 1`).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, eris.Wrap(err, "postgres: first admin user")
	}
	return id, nil
}
