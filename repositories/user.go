package repositories

import (
	"context"
	"learnhub/models"
	"time"

	"gorm.io/gorm"
)

type UserFilter struct {
	Role   string
	Status string
	Search string
	Page
}

type UserRepo interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	List(ctx context.Context, f UserFilter) ([]models.User, int64, error)
	Count(ctx context.Context, role string) (int64, error)
}

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("is_deleted = ?", false)
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.scoped(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.scoped(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
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

func (r *userRepo) List(ctx context.Context, f UserFilter) ([]models.User, int64, error) {
	q := r.scoped(ctx)
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.Status != "" {
		q = q.Where("account_status = ?", f.Status)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name LIKE ? OR email LIKE ?", like, like)
	}

	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit := f.normalize()
	var users []models.User
	if err := q.Order("created_at desc").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepo) Count(ctx context.Context, role string) (int64, error) {
	q := r.scoped(ctx)
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

type LoginTrackingRepo interface {
	Create(ctx context.Context, entry *models.LoginTracking) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.LoginTracking, error)
}

type loginTrackingRepo struct {
	db *gorm.DB
}

func (r *loginTrackingRepo) Create(ctx context.Context, entry *models.LoginTracking) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *loginTrackingRepo) ListByUser(ctx context.Context, userID uint, limit int) ([]models.LoginTracking, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []models.LoginTracking
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("timestamp desc").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
