package repositories

import (
	"context"
	"learnhub/models/course"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepo interface {
	// Upsert inserts or overwrites the record keyed by (user_id, lesson_id).
	Upsert(ctx context.Context, p *course.LessonProgress) error
	Get(ctx context.Context, userID, lessonID uint) (*course.LessonProgress, error)
	ListByCourse(ctx context.Context, userID, courseID uint) ([]course.LessonProgress, error)
}

type progressRepo struct {
	db *gorm.DB
}

func (r *progressRepo) Upsert(ctx context.Context, p *course.LessonProgress) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"course_id", "watched_duration", "total_duration", "percentage",
				"is_completed", "last_watched_at", "updated_at",
			}),
		}).
		Create(p).Error
}

func (r *progressRepo) Get(ctx context.Context, userID, lessonID uint) (*course.LessonProgress, error) {
	var p course.LessonProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *progressRepo) ListByCourse(ctx context.Context, userID, courseID uint) ([]course.LessonProgress, error) {
	var rows []course.LessonProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("lesson_id asc").
		Find(&rows).Error
	return rows, err
}
