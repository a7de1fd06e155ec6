package catalog

import (
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/classware/catalog/auth"
)

// CreateCoursePayload is the body of POST /courses.
type CreateCoursePayload struct {
	Name   string   `json:"name" form:"name"`
	Rating *float64 `json:"rating,omitempty" form:"rating"`
}

// Validate will validate the payload
func (p CreateCoursePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Rating, validation.Min(0.0), validation.Max(5.0)),
	)
}

// UpdateCoursePayload is the body of PUT /courses/:id.
type UpdateCoursePayload struct {
	Name   string   `json:"name,omitempty" form:"name"`
	Rating *float64 `json:"rating,omitempty" form:"rating"`
}

// Validate will validate the payload
func (p UpdateCoursePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Length(1, 200)),
		validation.Field(&p.Rating, validation.Min(0.0), validation.Max(5.0)),
	)
}

// CreateLessonPayload is the body of POST /lessons.
type CreateLessonPayload struct {
	Name     string `json:"name" form:"name"`
	Order    int    `json:"order" form:"order"`
	VideoURL string `json:"videoUrl" form:"videoUrl"`
	CourseID int64  `json:"courseId" form:"courseId"`
}

// Validate will validate the payload
func (p CreateLessonPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Order, validation.Min(1)),
		validation.Field(&p.VideoURL, validation.Required, is.URL),
		validation.Field(&p.CourseID, validation.Required, validation.Min(1)),
	)
}

// UpdateLessonPayload is the body of PUT /lessons/:id.
type UpdateLessonPayload struct {
	Name     string `json:"name,omitempty" form:"name"`
	Order    int    `json:"order,omitempty" form:"order"`
	VideoURL string `json:"videoUrl,omitempty" form:"videoUrl"`
}

// Validate will validate the payload
func (p UpdateLessonPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Length(1, 200)),
		validation.Field(&p.Order, validation.Min(0)),
		validation.Field(&p.VideoURL, is.URL),
	)
}

// Controller exposes the course and lesson endpoints. Reads are open to
// anonymous callers; writes are admin-only.
type Controller struct {
	Courses    Courses
	Lessons    Lessons
	Strategies *auth.Strategies
}

// NewController returns the catalog HTTP controller.
func NewController(courses Courses, lessonsRepo Lessons, strategies *auth.Strategies) *Controller {
	return &Controller{
		Courses:    courses,
		Lessons:    lessonsRepo,
		Strategies: strategies,
	}
}

// RegisterRoutes mounts the catalog endpoints.
func (ct *Controller) RegisterRoutes(app fiber.Router) {
	anonymous := ct.Strategies.Anonymous()
	bearer := ct.Strategies.Bearer()
	public := auth.RequireRoles(auth.RoleAnonymous, auth.RoleUser, auth.RoleAdmin)
	adminOnly := auth.RequireRoles(auth.RoleAdmin)

	courses := app.Group("/courses")
	courses.Get("/", anonymous, public, ct.ListCourses)
	courses.Get("/:id", anonymous, public, ct.GetCourse)
	courses.Post("/", bearer, adminOnly, ct.CreateCourse)
	courses.Put("/:id", bearer, adminOnly, ct.UpdateCourse)
	courses.Delete("/:id", bearer, adminOnly, ct.DeleteCourse)

	lessonRoutes := app.Group("/lessons")
	lessonRoutes.Get("/", anonymous, public, ct.ListLessons)
	lessonRoutes.Get("/:id", anonymous, public, ct.GetLesson)
	lessonRoutes.Post("/", bearer, adminOnly, ct.CreateLesson)
	lessonRoutes.Put("/:id", bearer, adminOnly, ct.UpdateLesson)
	lessonRoutes.Delete("/:id", bearer, adminOnly, ct.DeleteLesson)
}

// ListCourses returns all active courses.
func (ct *Controller) ListCourses(c *fiber.Ctx) error {
	records, err := ct.Courses.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(records)
}

// GetCourse returns one course with its active lessons.
func (ct *Controller) GetCourse(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	record, err := ct.Courses.ByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(record)
}

// CreateCourse creates a course.
func (ct *Controller) CreateCourse(c *fiber.Ctx) error {
	payload := CreateCoursePayload{}
	if err := parseBody(c, &payload); err != nil {
		return err
	}
	if err := payload.Validate(); err != nil {
		return invalidPayload(err)
	}

	record, err := ct.Courses.Create(c.UserContext(), &Course{
		Name:   payload.Name,
		Rating: payload.Rating,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

// UpdateCourse updates a course's name or rating.
func (ct *Controller) UpdateCourse(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	payload := UpdateCoursePayload{}
	if err := parseBody(c, &payload); err != nil {
		return err
	}
	if err := payload.Validate(); err != nil {
		return invalidPayload(err)
	}

	record, err := ct.Courses.ByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	if payload.Name != "" {
		record.Name = payload.Name
	}
	if payload.Rating != nil {
		record.Rating = payload.Rating
	}
	record.Lessons = nil

	record, err = ct.Courses.Update(c.UserContext(), record)
	if err != nil {
		return err
	}

	return c.JSON(record)
}

// DeleteCourse deactivates a course.
func (ct *Controller) DeleteCourse(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := ct.Courses.Deactivate(c.UserContext(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ListLessons returns active lessons, filtered by ?courseId when given.
func (ct *Controller) ListLessons(c *fiber.Ctx) error {
	courseID := int64(c.QueryInt("courseId", 0))

	records, err := ct.Lessons.List(c.UserContext(), courseID)
	if err != nil {
		return err
	}

	return c.JSON(records)
}

// GetLesson returns one lesson.
func (ct *Controller) GetLesson(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	record, err := ct.Lessons.ByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(record)
}

// CreateLesson creates a lesson under an existing course.
func (ct *Controller) CreateLesson(c *fiber.Ctx) error {
	payload := CreateLessonPayload{}
	if err := parseBody(c, &payload); err != nil {
		return err
	}
	if err := payload.Validate(); err != nil {
		return invalidPayload(err)
	}

	record, err := ct.Lessons.Create(c.UserContext(), &Lesson{
		Name:     payload.Name,
		Order:    payload.Order,
		VideoURL: payload.VideoURL,
		CourseID: payload.CourseID,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

// UpdateLesson updates a lesson's name, order, or video URL.
func (ct *Controller) UpdateLesson(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	payload := UpdateLessonPayload{}
	if err := parseBody(c, &payload); err != nil {
		return err
	}
	if err := payload.Validate(); err != nil {
		return invalidPayload(err)
	}

	record, err := ct.Lessons.ByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	if payload.Name != "" {
		record.Name = payload.Name
	}
	if payload.Order > 0 {
		record.Order = payload.Order
	}
	if payload.VideoURL != "" {
		record.VideoURL = payload.VideoURL
	}

	record, err = ct.Lessons.Update(c.UserContext(), record)
	if err != nil {
		return err
	}

	return c.JSON(record)
}

// DeleteLesson deactivates a lesson.
func (ct *Controller) DeleteLesson(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := ct.Lessons.Deactivate(c.UserContext(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id parameter", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "invalid request payload").
			WithCode(errors.CodeBadRequest)
	}
	return nil
}

func invalidPayload(err error) error {
	return errors.Wrap(err, errors.CategoryValidation, "invalid request payload").
		WithCode(errors.CodeBadRequest)
}
