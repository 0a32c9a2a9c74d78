package repositories

import (
	"context"
	"database/sql"
	"learnhub/models/course"
	"time"

	"gorm.io/gorm"
)

type LessonRepo interface {
	Create(ctx context.Context, l *course.Lesson) error
	GetByID(ctx context.Context, id uint) (*course.Lesson, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	SoftDelete(ctx context.Context, id uint) error
	ListByCourse(ctx context.Context, courseID uint) ([]course.Lesson, error)
	CountByCourse(ctx context.Context, courseID uint) (int64, error)
	NextOrder(ctx context.Context, courseID uint) (int, error)
}

type lessonRepo struct {
	db *gorm.DB
}

func (r *lessonRepo) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&course.Lesson{}).Where("is_deleted = ?", false)
}

func (r *lessonRepo) Create(ctx context.Context, l *course.Lesson) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *lessonRepo) GetByID(ctx context.Context, id uint) (*course.Lesson, error) {
	var l course.Lesson
	if err := r.scoped(ctx).Where("id = ?", id).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *lessonRepo) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
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

func (r *lessonRepo) SoftDelete(ctx context.Context, id uint) error {
	now := time.Now()
	res := r.scoped(ctx).Where("id = ?", id).Updates(map[string]interface{}{
		"is_deleted": true,
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

func (r *lessonRepo) ListByCourse(ctx context.Context, courseID uint) ([]course.Lesson, error) {
	var lessons []course.Lesson
	err := r.scoped(ctx).
		Where("course_id = ?", courseID).
		Order("sort_order asc, id asc").
		Find(&lessons).Error
	return lessons, err
}

func (r *lessonRepo) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var n int64
	err := r.scoped(ctx).Where("course_id = ?", courseID).Count(&n).Error
	return n, err
}

// NextOrder returns one past the highest sort order in the course.
func (r *lessonRepo) NextOrder(ctx context.Context, courseID uint) (int, error) {
	var max sql.NullInt64
	row := r.scoped(ctx).
		Where("course_id = ?", courseID).
		Select("MAX(sort_order)").
		Row()
	if err := row.Scan(&max); err != nil {
		return 0, err
	}
	if !max.Valid {
		return 1, nil
	}
	return int(max.Int64) + 1, nil
}
