package importer

import (
	"context"
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/paper-portal/paperctl/internal/model"
	"github.com/paper-portal/paperctl/internal/store"
)

type courseAction int

const (
	courseFound courseAction = iota
	courseCreated
	courseRenamed
)

// GetOrCreateCourse returns the course for code, creating it when absent.
// An existing course is renamed when name is non-empty and differs. The bool
// reports whether this call created the row.
func (im *Importer) GetOrCreateCourse(ctx context.Context, code, name string) (*model.Course, bool, error) {
	c, action, err := im.ensureCourse(ctx, code, name)
	return c, action == courseCreated, err
}

func (im *Importer) ensureCourse(ctx context.Context, code, name string) (*model.Course, courseAction, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, courseFound, eris.New("importer: empty course code")
	}
	log := zap.L().With(zap.String("course_code", code))

	existing, err := im.store.FindCourseByCode(ctx, code)
	if err != nil {
		return nil, courseFound, eris.Wrap(err, "importer: find course")
	}
	if existing != nil {
		if name == "" || name == existing.Name {
			return existing, courseFound, nil
		}
		if err := im.store.UpdateCourseName(ctx, existing.ID, name); err != nil {
			return nil, courseFound, eris.Wrap(err, "importer: rename course")
		}
		log.Info("importer: renamed course", zap.String("from", existing.Name), zap.String("to", name))
		existing.Name = name
		return existing, courseRenamed, nil
	}

	c := &model.Course{
		Code:        code,
		Name:        name,
		Description: "Auto-created from bulk import on " + im.now().Format("2006-01-02"),
	}
	if c.Name == "" {
		c.Name = "Course " + code
	}
	err = im.store.CreateCourse(ctx, c)
	if errors.Is(err, store.ErrDuplicate) {
		// Another importer created it between our lookup and insert.
		existing, err = im.store.FindCourseByCode(ctx, code)
		if err != nil {
			return nil, courseFound, eris.Wrap(err, "importer: re-read course")
		}
		if existing == nil {
			return nil, courseFound, eris.Errorf("importer: course %s vanished after duplicate insert", code)
		}
		return existing, courseFound, nil
	}
	if err != nil {
		return nil, courseFound, eris.Wrap(err, "importer: create course")
	}
	log.Info("importer: created course", zap.String("name", c.Name))
	return c, courseCreated, nil
}
