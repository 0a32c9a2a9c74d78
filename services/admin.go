package services

import (
	"context"
	"fmt"
	"learnhub/logger"
	"learnhub/models"
	"learnhub/models/course"
	"learnhub/repositories"
	"time"

	"github.com/jinzhu/now"
)

// AdminService serves the admin dashboard, user management and the
// enrollment counter reconciliation.
type AdminService struct {
	store repositories.Store
	log   *logger.Logger
	now   func() time.Time
}

func NewAdminService(store repositories.Store, log *logger.Logger) *AdminService {
	return &AdminService{store: store, log: log.With("service", "AdminService"), now: time.Now}
}

type DashboardStats struct {
	TotalUsers           int64 `json:"total_users"`
	TotalStudents        int64 `json:"total_students"`
	TotalInstructors     int64 `json:"total_instructors"`
	TotalCourses         int64 `json:"total_courses"`
	PublishedCourses     int64 `json:"published_courses"`
	TotalEnrollments     int64 `json:"total_enrollments"`
	CompletedEnrollments int64 `json:"completed_enrollments"`
	TotalCertificates    int64 `json:"total_certificates"`
	EnrollmentsThisWeek  int64 `json:"enrollments_this_week"`
	EnrollmentsThisMonth int64 `json:"enrollments_this_month"`
}

func (s *AdminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	var err error

	if stats.TotalUsers, err = s.store.Users().Count(ctx, ""); err != nil {
		return nil, err
	}
	if stats.TotalStudents, err = s.store.Users().Count(ctx, models.RoleStudent); err != nil {
		return nil, err
	}
	if stats.TotalInstructors, err = s.store.Users().Count(ctx, models.RoleInstructor); err != nil {
		return nil, err
	}
	if stats.TotalCourses, err = s.store.Courses().Count(ctx, ""); err != nil {
		return nil, err
	}
	if stats.PublishedCourses, err = s.store.Courses().Count(ctx, course.CoursePublished); err != nil {
		return nil, err
	}
	if stats.TotalEnrollments, err = s.store.Enrollments().Count(ctx, "", nil); err != nil {
		return nil, err
	}
	if stats.CompletedEnrollments, err = s.store.Enrollments().Count(ctx, course.EnrollmentCompleted, nil); err != nil {
		return nil, err
	}
	if stats.TotalCertificates, err = s.store.Certificates().Count(ctx); err != nil {
		return nil, err
	}

	t := now.With(s.now())
	weekStart := t.BeginningOfWeek()
	monthStart := t.BeginningOfMonth()
	if stats.EnrollmentsThisWeek, err = s.store.Enrollments().Count(ctx, "", &weekStart); err != nil {
		return nil, err
	}
	if stats.EnrollmentsThisMonth, err = s.store.Enrollments().Count(ctx, "", &monthStart); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *AdminService) ListUsers(ctx context.Context, f repositories.UserFilter) ([]models.User, int64, error) {
	return s.store.Users().List(ctx, f)
}

// SetUserStatus activates or suspends an account. Admins cannot suspend themselves.
func (s *AdminService) SetUserStatus(ctx context.Context, actor Actor, userID uint, status string) (*models.User, error) {
	switch status {
	case models.AccountActive, models.AccountSuspended, models.AccountPending:
	default:
		return nil, fmt.Errorf("unknown account status %q: %w", status, ErrInvalidInput)
	}
	if actor.UserID == userID && status != models.AccountActive {
		return nil, fmt.Errorf("cannot change own status: %w", ErrInvalidInput)
	}
	err := s.store.Users().UpdateFields(ctx, userID, map[string]interface{}{
		"account_status": status,
		"is_active":      status == models.AccountActive,
	})
	if err != nil {
		return nil, notFound(err, "user")
	}
	s.log.Info("User status changed", "user_id", userID, "status", status, "by", actor.UserID)
	return s.store.Users().GetByID(ctx, userID)
}

// Reconcile recomputes every course's enrolled_count and completed_count from
// its enrollments. It is idempotent and returns how many courses it visited.
func (s *AdminService) Reconcile(ctx context.Context) (int, error) {
	ids, err := s.store.Courses().ListIDs(ctx)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		err := s.store.Transaction(ctx, func(tx repositories.Store) error {
			enrolled, err := tx.Enrollments().CountByCourse(ctx, id, "")
			if err != nil {
				return err
			}
			completed, err := tx.Enrollments().CountByCourse(ctx, id, course.EnrollmentCompleted)
			if err != nil {
				return err
			}
			return tx.Courses().SetEnrollmentCounts(ctx, id, enrolled, completed)
		})
		if err != nil {
			return 0, fmt.Errorf("reconcile course %d: %w", id, err)
		}
	}
	s.log.Info("Course counters reconciled", "courses", len(ids))
	return len(ids), nil
}
