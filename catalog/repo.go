package catalog

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// ErrCourseNotFound is returned for ids that match no active course.
var ErrCourseNotFound = errors.New("course not found", errors.CategoryNotFound).
	WithTextCode("COURSE_NOT_FOUND").
	WithCode(errors.CodeNotFound)

// ErrLessonNotFound is returned for ids that match no active lesson.
var ErrLessonNotFound = errors.New("lesson not found", errors.CategoryNotFound).
	WithTextCode("LESSON_NOT_FOUND").
	WithCode(errors.CodeNotFound)

// Courses is the course persistence collaborator.
type Courses interface {
	List(ctx context.Context) ([]*Course, error)
	ByID(ctx context.Context, id int64) (*Course, error)
	Create(ctx context.Context, course *Course) (*Course, error)
	Update(ctx context.Context, course *Course) (*Course, error)
	Deactivate(ctx context.Context, id int64) error
}

// Lessons is the lesson persistence collaborator.
type Lessons interface {
	List(ctx context.Context, courseID int64) ([]*Lesson, error)
	ByID(ctx context.Context, id int64) (*Lesson, error)
	Create(ctx context.Context, lesson *Lesson) (*Lesson, error)
	Update(ctx context.Context, lesson *Lesson) (*Lesson, error)
	Deactivate(ctx context.Context, id int64) error
}

type courses struct {
	db *bun.DB
}

var _ Courses = (*courses)(nil)

// NewCoursesRepository returns a bun-backed Courses repository.
func NewCoursesRepository(db *bun.DB) Courses {
	return &courses{db: db}
}

func (r *courses) List(ctx context.Context) ([]*Course, error) {
	var records []*Course

	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.is_active = ?", true).
		Order("crs.id ASC").
		Scan(ctx)

	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not list courses")
	}

	return records, nil
}

func (r *courses) ByID(ctx context.Context, id int64) (*Course, error) {
	record := &Course{}

	err := r.db.NewSelect().
		Model(record).
		Relation("Lessons", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("lsn.is_active = ?", true).Order("lsn.lesson_order ASC")
		}).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.is_active = ?", true).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "course lookup failed")
	}

	return record, nil
}

func (r *courses) Create(ctx context.Context, course *Course) (*Course, error) {
	course.IsActive = true

	_, err := r.db.NewInsert().
		Model(course).
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not create course")
	}

	return course, nil
}

func (r *courses) Update(ctx context.Context, course *Course) (*Course, error) {
	now := time.Now()
	course.UpdatedAt = &now

	res, err := r.db.NewUpdate().
		Model(course).
		WherePK().
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not update course")
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return nil, ErrCourseNotFound
	}

	return course, nil
}

func (r *courses) Deactivate(ctx context.Context, id int64) error {
	res, err := r.db.NewUpdate().
		Model((*Course)(nil)).
		Set("is_active = ?", false).
		Set("updated_at = ?", time.Now()).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "could not deactivate course")
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrCourseNotFound
	}

	return nil
}

type lessons struct {
	db *bun.DB
}

var _ Lessons = (*lessons)(nil)

// NewLessonsRepository returns a bun-backed Lessons repository.
func NewLessonsRepository(db *bun.DB) Lessons {
	return &lessons{db: db}
}

// List returns active lessons, optionally scoped to one course, ordered
// by their position.
func (r *lessons) List(ctx context.Context, courseID int64) ([]*Lesson, error) {
	var records []*Lesson

	q := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.is_active = ?", true).
		Order("lsn.lesson_order ASC")

	if courseID > 0 {
		q = q.Where("?TableAlias.course_id = ?", courseID)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not list lessons")
	}

	return records, nil
}

func (r *lessons) ByID(ctx context.Context, id int64) (*Lesson, error) {
	record := &Lesson{}

	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.is_active = ?", true).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLessonNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "lesson lookup failed")
	}

	return record, nil
}

func (r *lessons) Create(ctx context.Context, lesson *Lesson) (*Lesson, error) {
	lesson.IsActive = true

	// The owning course must exist and be active.
	exists, err := r.db.NewSelect().
		Model((*Course)(nil)).
		Where("?TableAlias.id = ?", lesson.CourseID).
		Where("?TableAlias.is_active = ?", true).
		Exists(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "course lookup failed")
	}
	if !exists {
		return nil, ErrCourseNotFound
	}

	_, err = r.db.NewInsert().
		Model(lesson).
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not create lesson")
	}

	return lesson, nil
}

func (r *lessons) Update(ctx context.Context, lesson *Lesson) (*Lesson, error) {
	now := time.Now()
	lesson.UpdatedAt = &now

	res, err := r.db.NewUpdate().
		Model(lesson).
		WherePK().
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not update lesson")
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return nil, ErrLessonNotFound
	}

	return lesson, nil
}

func (r *lessons) Deactivate(ctx context.Context, id int64) error {
	res, err := r.db.NewUpdate().
		Model((*Lesson)(nil)).
		Set("is_active = ?", false).
		Set("updated_at = ?", time.Now()).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "could not deactivate lesson")
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrLessonNotFound
	}

	return nil
}

// EnsureSchema creates the catalog tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	for _, model := range []any{(*Course)(nil), (*Lesson)(nil)} {
		_, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to create catalog tables")
		}
	}
	return nil
}
