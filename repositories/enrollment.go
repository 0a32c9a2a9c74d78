package repositories

import (
	"context"
	"learnhub/models/course"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepo interface {
	// CreateIfAbsent inserts e unless the (user, course) pair is already
	// enrolled. It reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, e *course.Enrollment) (bool, error)
	Get(ctx context.Context, userID, courseID uint) (*course.Enrollment, error)
	// GetForUpdate locks the enrollment row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, userID, courseID uint) (*course.Enrollment, error)
	Exists(ctx context.Context, userID, courseID uint) (bool, error)
	ListByUser(ctx context.Context, userID uint, status string) ([]course.Enrollment, error)

	// AddCompletedLesson adds lessonID to the completed set. It reports false
	// when the lesson was already a member.
	AddCompletedLesson(ctx context.Context, enrollmentID, lessonID uint, at time.Time) (bool, error)
	CompletedLessonIDs(ctx context.Context, enrollmentID uint) ([]uint, error)
	CountCompletedLessons(ctx context.Context, enrollmentID uint) (int64, error)
	SaveProgress(ctx context.Context, e *course.Enrollment) error

	Count(ctx context.Context, status string, since *time.Time) (int64, error)
	CountByCourse(ctx context.Context, courseID uint, status string) (int64, error)
}

type enrollmentRepo struct {
	db *gorm.DB
}

func (r *enrollmentRepo) CreateIfAbsent(ctx context.Context, e *course.Enrollment) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).
		Create(e)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *enrollmentRepo) Get(ctx context.Context, userID, courseID uint) (*course.Enrollment, error) {
	var e course.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepo) GetForUpdate(ctx context.Context, userID, courseID uint) (*course.Enrollment, error) {
	var e course.Enrollment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepo) Exists(ctx context.Context, userID, courseID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&course.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&n).Error
	return n > 0, err
}

func (r *enrollmentRepo) ListByUser(ctx context.Context, userID uint, status string) ([]course.Enrollment, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var rows []course.Enrollment
	if err := q.Preload("Course").Order("enrolled_at desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *enrollmentRepo) AddCompletedLesson(ctx context.Context, enrollmentID, lessonID uint, at time.Time) (bool, error) {
	row := course.EnrollmentLesson{EnrollmentID: enrollmentID, LessonID: lessonID, CompletedAt: at}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "enrollment_id"}, {Name: "lesson_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CompletedLessonIDs returns the completed set in completion order.
func (r *enrollmentRepo) CompletedLessonIDs(ctx context.Context, enrollmentID uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).Model(&course.EnrollmentLesson{}).
		Where("enrollment_id = ?", enrollmentID).
		Order("id asc").
		Pluck("lesson_id", &ids).Error
	return ids, err
}

func (r *enrollmentRepo) CountCompletedLessons(ctx context.Context, enrollmentID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&course.EnrollmentLesson{}).
		Where("enrollment_id = ?", enrollmentID).
		Count(&n).Error
	return n, err
}

func (r *enrollmentRepo) SaveProgress(ctx context.Context, e *course.Enrollment) error {
	return r.db.WithContext(ctx).Model(&course.Enrollment{}).
		Where("id = ?", e.ID).
		Updates(map[string]interface{}{
			"status":                  e.Status,
			"completed_lessons":       e.CompletedLessons,
			"total_lessons":           e.TotalLessons,
			"percentage":              e.Percentage,
			"last_accessed_lesson_id": e.LastAccessedLessonID,
			"last_accessed_at":        e.LastAccessedAt,
			"completed_at":            e.CompletedAt,
			"updated_at":              time.Now(),
		}).Error
}

func (r *enrollmentRepo) Count(ctx context.Context, status string, since *time.Time) (int64, error) {
	q := r.db.WithContext(ctx).Model(&course.Enrollment{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if since != nil {
		q = q.Where("enrolled_at >= ?", *since)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *enrollmentRepo) CountByCourse(ctx context.Context, courseID uint, status string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&course.Enrollment{}).Where("course_id = ?", courseID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}
