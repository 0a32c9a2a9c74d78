package repositories

import (
	"context"
	"learnhub/models/course"

	"gorm.io/gorm"
)

type NoteRepo interface {
	Create(ctx context.Context, n *course.Note) error
	GetByID(ctx context.Context, id uint) (*course.Note, error)
	// ListByLesson returns the user's notes on a lesson ordered by video timestamp.
	ListByLesson(ctx context.Context, userID, lessonID uint) ([]course.Note, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
}

type noteRepo struct {
	db *gorm.DB
}

func (r *noteRepo) Create(ctx context.Context, n *course.Note) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *noteRepo) GetByID(ctx context.Context, id uint) (*course.Note, error) {
	var n course.Note
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *noteRepo) ListByLesson(ctx context.Context, userID, lessonID uint) ([]course.Note, error) {
	var notes []course.Note
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Order("video_timestamp asc, id asc").
		Find(&notes).Error
	return notes, err
}

func (r *noteRepo) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&course.Note{}).Where("id = ?", id).Updates(fields).Error
}

func (r *noteRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&course.Note{}, id).Error
}
