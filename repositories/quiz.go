package repositories

import (
	"context"
	"learnhub/models/course"

	"gorm.io/gorm"
)

type QuizRepo interface {
	// Create stores the quiz together with its questions.
	Create(ctx context.Context, q *course.Quiz) error
	GetByID(ctx context.Context, id uint) (*course.Quiz, error)
	ListByCourse(ctx context.Context, courseID uint) ([]course.Quiz, error)
	CountAttempts(ctx context.Context, userID, quizID uint) (int64, error)
	CreateAttempt(ctx context.Context, a *course.QuizAttempt) error
	ListAttempts(ctx context.Context, userID, quizID uint) ([]course.QuizAttempt, error)
}

type quizRepo struct {
	db *gorm.DB
}

func (r *quizRepo) Create(ctx context.Context, q *course.Quiz) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *quizRepo) GetByID(ctx context.Context, id uint) (*course.Quiz, error) {
	var q course.Quiz
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc, id asc")
		}).
		First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *quizRepo) ListByCourse(ctx context.Context, courseID uint) ([]course.Quiz, error) {
	var rows []course.Quiz
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("id asc").
		Find(&rows).Error
	return rows, err
}

func (r *quizRepo) CountAttempts(ctx context.Context, userID, quizID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&course.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&n).Error
	return n, err
}

func (r *quizRepo) CreateAttempt(ctx context.Context, a *course.QuizAttempt) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *quizRepo) ListAttempts(ctx context.Context, userID, quizID uint) ([]course.QuizAttempt, error) {
	var rows []course.QuizAttempt
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("attempt_number asc").
		Find(&rows).Error
	return rows, err
}
