package repositories

import (
	"context"
	"learnhub/models/course"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepo interface {
	CreateIfAbsent(ctx context.Context, rv *course.Review) (bool, error)
	ListByCourse(ctx context.Context, courseID uint, p Page) ([]course.Review, int64, error)
	// Aggregate returns the average rating and number of reviews of a course.
	Aggregate(ctx context.Context, courseID uint) (float64, int64, error)
}

type reviewRepo struct {
	db *gorm.DB
}

func (r *reviewRepo) CreateIfAbsent(ctx context.Context, rv *course.Review) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).
		Create(rv)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *reviewRepo) ListByCourse(ctx context.Context, courseID uint, p Page) ([]course.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&course.Review{}).Where("reviews.course_id = ?", courseID)

	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit := p.normalize()
	var rows []course.Review
	err := q.Select("reviews.*, users.name AS user_name").
		Joins("LEFT JOIN users ON users.id = reviews.user_id").
		Order("reviews.created_at desc").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *reviewRepo) Aggregate(ctx context.Context, courseID uint) (float64, int64, error) {
	var agg struct {
		Avg   float64
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&course.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("course_id = ?", courseID).
		Scan(&agg).Error
	return agg.Avg, agg.Count, err
}
