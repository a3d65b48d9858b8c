package store

import (
	"context"
	"errors"

	"github.com/paper-portal/paperctl/internal/model"
)

// ErrDuplicate is returned when an insert collides with a unique key, such
// as a course code created concurrently by another importer.
var ErrDuplicate = errors.New("store: duplicate key")

// Store defines the persistence interface for the import pipeline.
// Lookups return nil, nil when nothing matches. Every write is a single
// statement and commits on its own.
type Store interface {
	// Courses
	FindCourseByCode(ctx context.Context, code string) (*model.Course, error)
	CreateCourse(ctx context.Context, c *model.Course) error
	UpdateCourseName(ctx context.Context, id int64, name string) error
	CountCourses(ctx context.Context) (int, error)
	ListCourses(ctx context.Context) ([]model.Course, error)

	// Papers
	FindPaperByFileName(ctx context.Context, courseID int64, fileName string) (*model.Paper, error)
	FindPaperByFilePath(ctx context.Context, courseID int64, filePath string) (*model.Paper, error)
	CreatePaper(ctx context.Context, p *model.Paper) error
	UpdatePaper(ctx context.Context, p *model.Paper) error

	// Users
	FirstAdminUserID(ctx context.Context) (int64, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*PostgresStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)
