package repositories

import (
	"context"
	"learnhub/models/course"
	"time"

	"gorm.io/gorm"
)

type CourseFilter struct {
	Status       string
	Category     string
	Level        string
	Search       string
	InstructorID uint
	Page
}

type CourseRepo interface {
	Create(ctx context.Context, c *course.Course) error
	GetByID(ctx context.Context, id uint) (*course.Course, error)
	GetBySlug(ctx context.Context, slug string) (*course.Course, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	SoftDelete(ctx context.Context, id uint) error
	List(ctx context.Context, f CourseFilter) ([]course.Course, int64, error)
	ListIDs(ctx context.Context) ([]uint, error)
	Count(ctx context.Context, status string) (int64, error)

	// RecomputeContentTotals refreshes lesson, video, quiz and duration totals
	// from the live lessons and quizzes of the course.
	RecomputeContentTotals(ctx context.Context, courseID uint) error
	SetRating(ctx context.Context, courseID uint, rating float64, reviewCount int64) error
	SetEnrollmentCounts(ctx context.Context, courseID uint, enrolled, completed int64) error
	IncrementCounter(ctx context.Context, courseID uint, column string) error
}

type courseRepo struct {
	db *gorm.DB
}

func (r *courseRepo) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&course.Course{}).Where("is_deleted = ?", false)
}

func (r *courseRepo) Create(ctx context.Context, c *course.Course) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id uint) (*course.Course, error) {
	var c course.Course
	if err := r.scoped(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *courseRepo) GetBySlug(ctx context.Context, slug string) (*course.Course, error) {
	var c course.Course
	if err := r.scoped(ctx).Where("slug = ?", slug).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// SlugExists also sees deleted courses since the unique index still holds their slug.
func (r *courseRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Unscoped().Model(&course.Course{}).Where("slug = ?", slug).Count(&n).Error
	return n > 0, err
}

func (r *courseRepo) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()
	res := r.scoped(ctx).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *courseRepo) SoftDelete(ctx context.Context, id uint) error {
	now := time.Now()
	res := r.scoped(ctx).Where("id = ?", id).Updates(map[string]interface{}{
		"is_deleted": true,
		"status":     course.CourseArchived,
		"deleted_at": now,
		"updated_at": now,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *courseRepo) List(ctx context.Context, f CourseFilter) ([]course.Course, int64, error) {
	q := r.scoped(ctx)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Level != "" {
		q = q.Where("level = ?", f.Level)
	}
	if f.InstructorID != 0 {
		q = q.Where("instructor_id = ?", f.InstructorID)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("title LIKE ? OR short_description LIKE ?", like, like)
	}

	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit := f.normalize()
	var courses []course.Course
	if err := q.Order("created_at desc").Offset(offset).Limit(limit).Find(&courses).Error; err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (r *courseRepo) ListIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.scoped(ctx).Order("id").Pluck("id", &ids).Error
	return ids, err
}

func (r *courseRepo) Count(ctx context.Context, status string) (int64, error) {
	q := r.scoped(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *courseRepo) RecomputeContentTotals(ctx context.Context, courseID uint) error {
	var totals struct {
		Lessons  int64
		Videos   int64
		Duration float64
	}
	err := r.db.WithContext(ctx).Model(&course.Lesson{}).
		Select("COUNT(*) AS lessons, "+
			"COALESCE(SUM(CASE WHEN type = ? THEN 1 ELSE 0 END), 0) AS videos, "+
			"COALESCE(SUM(video_duration), 0) AS duration", course.LessonVideo).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Scan(&totals).Error
	if err != nil {
		return err
	}

	var quizzes int64
	if err := r.db.WithContext(ctx).Model(&course.Quiz{}).Where("course_id = ?", courseID).Count(&quizzes).Error; err != nil {
		return err
	}

	return r.UpdateFields(ctx, courseID, map[string]interface{}{
		"total_lessons":  totals.Lessons,
		"total_videos":   totals.Videos,
		"total_duration": totals.Duration,
		"total_quizzes":  quizzes,
	})
}

func (r *courseRepo) SetRating(ctx context.Context, courseID uint, rating float64, reviewCount int64) error {
	return r.UpdateFields(ctx, courseID, map[string]interface{}{
		"rating":       rating,
		"review_count": reviewCount,
	})
}

func (r *courseRepo) SetEnrollmentCounts(ctx context.Context, courseID uint, enrolled, completed int64) error {
	return r.UpdateFields(ctx, courseID, map[string]interface{}{
		"enrolled_count":  enrolled,
		"completed_count": completed,
	})
}

// IncrementCounter bumps enrolled_count or completed_count by one.
func (r *courseRepo) IncrementCounter(ctx context.Context, courseID uint, column string) error {
	switch column {
	case "enrolled_count", "completed_count":
	default:
		return gorm.ErrInvalidField
	}
	return r.db.WithContext(ctx).Model(&course.Course{}).
		Where("id = ?", courseID).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1)).Error
}
