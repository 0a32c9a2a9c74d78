package repositories

import (
	"context"
	"learnhub/models/course"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CertificateRepo interface {
	// CreateIfAbsent inserts c unless a certificate for (user, course) exists.
	// It reports whether this call created the row.
	CreateIfAbsent(ctx context.Context, c *course.Certificate) (bool, error)
	Get(ctx context.Context, userID, courseID uint) (*course.Certificate, error)
	GetByID(ctx context.Context, id uint) (*course.Certificate, error)
	GetByNumber(ctx context.Context, number string) (*course.Certificate, error)
	ListByUser(ctx context.Context, userID uint) ([]course.Certificate, error)
	AttachDocument(ctx context.Context, id uint, url string, at time.Time) error
	RecordRenderFailure(ctx context.Context, id uint, reason string) error
	// ListPendingRender returns certificates without a document that have
	// been attempted fewer than maxAttempts times.
	ListPendingRender(ctx context.Context, maxAttempts, limit int) ([]course.Certificate, error)
	Count(ctx context.Context) (int64, error)
}

type certificateRepo struct {
	db *gorm.DB
}

func (r *certificateRepo) CreateIfAbsent(ctx context.Context, c *course.Certificate) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).
		Create(c)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *certificateRepo) Get(ctx context.Context, userID, courseID uint) (*course.Certificate, error) {
	var c course.Certificate
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *certificateRepo) GetByID(ctx context.Context, id uint) (*course.Certificate, error) {
	var c course.Certificate
	if err := r.db.WithContext(ctx).Preload("Course").First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *certificateRepo) GetByNumber(ctx context.Context, number string) (*course.Certificate, error) {
	var c course.Certificate
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("certificate_number = ?", number).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *certificateRepo) ListByUser(ctx context.Context, userID uint) ([]course.Certificate, error) {
	var rows []course.Certificate
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("issued_at desc").
		Find(&rows).Error
	return rows, err
}

func (r *certificateRepo) AttachDocument(ctx context.Context, id uint, url string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&course.Certificate{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"document_url":      url,
			"rendered_at":       at,
			"last_render_error": "",
			"render_attempts":   gorm.Expr("render_attempts + ?", 1),
			"updated_at":        time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *certificateRepo) RecordRenderFailure(ctx context.Context, id uint, reason string) error {
	if len(reason) > 500 {
		reason = reason[:500]
	}
	return r.db.WithContext(ctx).Model(&course.Certificate{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_render_error": reason,
			"render_attempts":   gorm.Expr("render_attempts + ?", 1),
			"updated_at":        time.Now(),
		}).Error
}

func (r *certificateRepo) ListPendingRender(ctx context.Context, maxAttempts, limit int) ([]course.Certificate, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []course.Certificate
	err := r.db.WithContext(ctx).
		Where("(document_url = '' OR document_url IS NULL) AND render_attempts < ?", maxAttempts).
		Order("id asc").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *certificateRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&course.Certificate{}).Count(&n).Error
	return n, err
}
