package services

import (
	"context"
	"encoding/json"
	"fmt"
	"learnhub/logger"
	"learnhub/models"
	"learnhub/models/course"
	"learnhub/repositories"
	"learnhub/utils"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// canManage reports whether the actor may modify the course.
func (a Actor) canManage(c *course.Course) bool {
	return a.IsAdmin() || (a.Role == models.RoleInstructor && c.InstructorID == a.UserID)
}

// CatalogService manages courses and their lessons.
type CatalogService struct {
	store repositories.Store
	log   *logger.Logger
	now   func() time.Time
}

func NewCatalogService(store repositories.Store, log *logger.Logger) *CatalogService {
	return &CatalogService{store: store, log: log.With("service", "CatalogService"), now: time.Now}
}

// CourseInput carries course fields. Nil fields are left unchanged on update.
type CourseInput struct {
	Title            *string
	Description      *string
	ShortDescription *string
	Category         *string
	Tags             []string
	LearningOutcomes []string
	Level            *string
	Language         *string
	Thumbnail        *string
	Price            *float64
	Currency         *string
}

func (in CourseInput) fields() (map[string]interface{}, error) {
	f := map[string]interface{}{}
	if in.Title != nil {
		f["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		f["description"] = *in.Description
	}
	if in.ShortDescription != nil {
		f["short_description"] = *in.ShortDescription
	}
	if in.Category != nil {
		f["category"] = *in.Category
	}
	if in.Level != nil {
		f["level"] = *in.Level
	}
	if in.Language != nil {
		f["language"] = *in.Language
	}
	if in.Thumbnail != nil {
		f["thumbnail"] = *in.Thumbnail
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, fmt.Errorf("price must not be negative: %w", ErrInvalidInput)
		}
		f["price"] = *in.Price
	}
	if in.Currency != nil {
		f["currency"] = strings.ToUpper(*in.Currency)
	}
	if in.Tags != nil {
		tags, err := jsonColumn(in.Tags)
		if err != nil {
			return nil, err
		}
		f["tags"] = tags
	}
	if in.LearningOutcomes != nil {
		outcomes, err := jsonColumn(in.LearningOutcomes)
		if err != nil {
			return nil, err
		}
		f["learning_outcomes"] = outcomes
	}
	return f, nil
}

func jsonColumn(v interface{}) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json column: %w", err)
	}
	return datatypes.JSON(b), nil
}

func (s *CatalogService) CreateCourse(ctx context.Context, actor Actor, in CourseInput) (*course.Course, error) {
	if actor.Role != models.RoleInstructor && !actor.IsAdmin() {
		return nil, fmt.Errorf("only instructors create courses: %w", ErrNotAuthorized)
	}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, fmt.Errorf("title required: %w", ErrInvalidInput)
	}

	slug, err := s.uniqueSlug(ctx, *in.Title)
	if err != nil {
		return nil, err
	}

	c := &course.Course{
		Slug:         slug,
		InstructorID: actor.UserID,
		Level:        course.LevelBeginner,
		Language:     "English",
		Currency:     "USD",
		Status:       course.CourseDraft,
	}
	fields, err := in.fields()
	if err != nil {
		return nil, err
	}
	applyCourseFields(c, fields)

	if err := s.store.Courses().Create(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info("Course created", "course_id", c.ID, "instructor_id", actor.UserID)
	return c, nil
}

func applyCourseFields(c *course.Course, f map[string]interface{}) {
	for k, v := range f {
		switch k {
		case "title":
			c.Title = v.(string)
		case "description":
			c.Description = v.(string)
		case "short_description":
			c.ShortDescription = v.(string)
		case "category":
			c.Category = v.(string)
		case "level":
			c.Level = v.(string)
		case "language":
			c.Language = v.(string)
		case "thumbnail":
			c.Thumbnail = v.(string)
		case "price":
			c.Price = v.(float64)
		case "currency":
			c.Currency = v.(string)
		case "tags":
			c.Tags = v.(datatypes.JSON)
		case "learning_outcomes":
			c.LearningOutcomes = v.(datatypes.JSON)
		}
	}
}

func (s *CatalogService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := utils.Slugify(title)
	slug := base
	for i := 0; i < 5; i++ {
		exists, err := s.store.Courses().SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = base + "-" + utils.ShortID(6)
	}
	return "", fmt.Errorf("could not allocate slug for %q: %w", title, ErrConflict)
}

// managedCourse loads a course the actor may modify.
func (s *CatalogService) managedCourse(ctx context.Context, tx repositories.Store, actor Actor, courseID uint) (*course.Course, error) {
	c, err := tx.Courses().GetByID(ctx, courseID)
	if err != nil {
		return nil, notFound(err, "course")
	}
	if !actor.canManage(c) {
		return nil, fmt.Errorf("course %d: %w", courseID, ErrNotAuthorized)
	}
	return c, nil
}

func (s *CatalogService) UpdateCourse(ctx context.Context, actor Actor, courseID uint, in CourseInput) (*course.Course, error) {
	if _, err := s.managedCourse(ctx, s.store, actor, courseID); err != nil {
		return nil, err
	}
	fields, err := in.fields()
	if err != nil {
		return nil, err
	}
	if t, ok := fields["title"]; ok && t.(string) == "" {
		return nil, fmt.Errorf("title required: %w", ErrInvalidInput)
	}
	if err := s.store.Courses().UpdateFields(ctx, courseID, fields); err != nil {
		return nil, notFound(err, "course")
	}
	return s.store.Courses().GetByID(ctx, courseID)
}

func (s *CatalogService) DeleteCourse(ctx context.Context, actor Actor, courseID uint) error {
	if _, err := s.managedCourse(ctx, s.store, actor, courseID); err != nil {
		return err
	}
	if err := s.store.Courses().SoftDelete(ctx, courseID); err != nil {
		return notFound(err, "course")
	}
	s.log.Info("Course deleted", "course_id", courseID, "by", actor.UserID)
	return nil
}

// PublishCourse makes a course with at least one lesson visible in the catalog.
func (s *CatalogService) PublishCourse(ctx context.Context, actor Actor, courseID uint) (*course.Course, error) {
	var out *course.Course
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		c, err := s.managedCourse(ctx, tx, actor, courseID)
		if err != nil {
			return err
		}
		n, err := tx.Lessons().CountByCourse(ctx, courseID)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("course %d has no lessons: %w", courseID, ErrInvalidInput)
		}
		if c.Status != course.CoursePublished {
			now := s.now()
			fields := map[string]interface{}{"status": course.CoursePublished}
			if c.PublishedAt == nil {
				fields["published_at"] = now
			}
			if err := tx.Courses().UpdateFields(ctx, courseID, fields); err != nil {
				return err
			}
		}
		out, err = tx.Courses().GetByID(ctx, courseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Course published", "course_id", courseID)
	return out, nil
}

// ListPublished returns the public catalog page.
func (s *CatalogService) ListPublished(ctx context.Context, f repositories.CourseFilter) ([]course.Course, int64, error) {
	f.Status = course.CoursePublished
	f.InstructorID = 0
	return s.store.Courses().List(ctx, f)
}

// ListManaged returns the actor's own courses in any status; admins see all.
func (s *CatalogService) ListManaged(ctx context.Context, actor Actor, f repositories.CourseFilter) ([]course.Course, int64, error) {
	if !actor.IsAdmin() {
		if actor.Role != models.RoleInstructor {
			return nil, 0, fmt.Errorf("instructor only: %w", ErrNotAuthorized)
		}
		f.InstructorID = actor.UserID
	}
	return s.store.Courses().List(ctx, f)
}

type CourseDetails struct {
	Course  *course.Course  `json:"course"`
	Lessons []course.Lesson `json:"lessons"`
}

// GetCourse returns a course with its ordered lessons. Unpublished courses
// are visible only to those who can manage them. actor may be nil.
func (s *CatalogService) GetCourse(ctx context.Context, actor *Actor, courseID uint) (*CourseDetails, error) {
	c, err := s.store.Courses().GetByID(ctx, courseID)
	if err != nil {
		return nil, notFound(err, "course")
	}
	return s.details(ctx, actor, c)
}

func (s *CatalogService) GetCourseBySlug(ctx context.Context, actor *Actor, slug string) (*CourseDetails, error) {
	c, err := s.store.Courses().GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "course")
	}
	return s.details(ctx, actor, c)
}

func (s *CatalogService) details(ctx context.Context, actor *Actor, c *course.Course) (*CourseDetails, error) {
	if c.Status != course.CoursePublished && (actor == nil || !actor.canManage(c)) {
		return nil, fmt.Errorf("course %d: %w", c.ID, ErrNotFound)
	}
	lessons, err := s.store.Lessons().ListByCourse(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &CourseDetails{Course: c, Lessons: lessons}, nil
}

type LessonInput struct {
	Section       *string
	Title         *string
	Type          *string
	Order         *int
	VideoURL      *string
	VideoDuration *float64
	Content       *string
	Attachments   []course.Attachment
	IsFree        *bool
	AllowNotes    *bool
}

func (in LessonInput) fields() (map[string]interface{}, error) {
	f := map[string]interface{}{}
	if in.Section != nil {
		f["section"] = *in.Section
	}
	if in.Title != nil {
		f["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Type != nil {
		f["type"] = *in.Type
	}
	if in.Order != nil {
		f["sort_order"] = *in.Order
	}
	if in.VideoURL != nil {
		f["video_url"] = *in.VideoURL
	}
	if in.VideoDuration != nil {
		if *in.VideoDuration < 0 {
			return nil, fmt.Errorf("video duration must not be negative: %w", ErrInvalidInput)
		}
		f["video_duration"] = *in.VideoDuration
	}
	if in.Content != nil {
		f["content"] = *in.Content
	}
	if in.IsFree != nil {
		f["is_free"] = *in.IsFree
	}
	if in.AllowNotes != nil {
		f["allow_notes"] = *in.AllowNotes
	}
	if in.Attachments != nil {
		att, err := jsonColumn(in.Attachments)
		if err != nil {
			return nil, err
		}
		f["attachments"] = att
	}
	return f, nil
}

// AddLesson appends a lesson and refreshes the course totals in one transaction.
func (s *CatalogService) AddLesson(ctx context.Context, actor Actor, courseID uint, in LessonInput) (*course.Lesson, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, fmt.Errorf("title required: %w", ErrInvalidInput)
	}
	fields, err := in.fields()
	if err != nil {
		return nil, err
	}

	lesson := &course.Lesson{CourseID: courseID, Type: course.LessonVideo, AllowNotes: true}
	err = s.store.Transaction(ctx, func(tx repositories.Store) error {
		if _, err := s.managedCourse(ctx, tx, actor, courseID); err != nil {
			return err
		}
		if in.Order == nil {
			next, err := tx.Lessons().NextOrder(ctx, courseID)
			if err != nil {
				return err
			}
			fields["sort_order"] = next
		}
		applyLessonFields(lesson, fields)
		if err := tx.Lessons().Create(ctx, lesson); err != nil {
			return err
		}
		// allow_notes defaults to true in the table, so a false value is not inserted.
		if !lesson.AllowNotes {
			if err := tx.Lessons().UpdateFields(ctx, lesson.ID, map[string]interface{}{"allow_notes": false}); err != nil {
				return err
			}
		}
		return tx.Courses().RecomputeContentTotals(ctx, courseID)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Lesson added", "course_id", courseID, "lesson_id", lesson.ID)
	return lesson, nil
}

func applyLessonFields(l *course.Lesson, f map[string]interface{}) {
	for k, v := range f {
		switch k {
		case "section":
			l.Section = v.(string)
		case "title":
			l.Title = v.(string)
		case "type":
			l.Type = v.(string)
		case "sort_order":
			l.Order = v.(int)
		case "video_url":
			l.VideoURL = v.(string)
		case "video_duration":
			l.VideoDuration = v.(float64)
		case "content":
			l.Content = v.(string)
		case "is_free":
			l.IsFree = v.(bool)
		case "allow_notes":
			l.AllowNotes = v.(bool)
		case "attachments":
			l.Attachments = v.(datatypes.JSON)
		}
	}
}

func (s *CatalogService) UpdateLesson(ctx context.Context, actor Actor, lessonID uint, in LessonInput) (*course.Lesson, error) {
	fields, err := in.fields()
	if err != nil {
		return nil, err
	}
	if t, ok := fields["title"]; ok && t.(string) == "" {
		return nil, fmt.Errorf("title required: %w", ErrInvalidInput)
	}

	var out *course.Lesson
	err = s.store.Transaction(ctx, func(tx repositories.Store) error {
		lesson, err := tx.Lessons().GetByID(ctx, lessonID)
		if err != nil {
			return notFound(err, "lesson")
		}
		if _, err := s.managedCourse(ctx, tx, actor, lesson.CourseID); err != nil {
			return err
		}
		if err := tx.Lessons().UpdateFields(ctx, lessonID, fields); err != nil {
			return err
		}
		if err := tx.Courses().RecomputeContentTotals(ctx, lesson.CourseID); err != nil {
			return err
		}
		out, err = tx.Lessons().GetByID(ctx, lessonID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteLesson removes a lesson. Existing enrollments keep their snapshot
// total so completed percentages never drop.
func (s *CatalogService) DeleteLesson(ctx context.Context, actor Actor, lessonID uint) error {
	return s.store.Transaction(ctx, func(tx repositories.Store) error {
		lesson, err := tx.Lessons().GetByID(ctx, lessonID)
		if err != nil {
			return notFound(err, "lesson")
		}
		if _, err := s.managedCourse(ctx, tx, actor, lesson.CourseID); err != nil {
			return err
		}
		if err := tx.Lessons().SoftDelete(ctx, lessonID); err != nil {
			return err
		}
		return tx.Courses().RecomputeContentTotals(ctx, lesson.CourseID)
	})
}
