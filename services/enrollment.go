package services

import (
	"context"
	"fmt"
	"learnhub/logger"
	"learnhub/models/course"
	"learnhub/repositories"
	"learnhub/utils"
	"sync"
	"time"
)

type EnrollmentService struct {
	store    repositories.Store
	notifier Notifier
	log      *logger.Logger
	now      func() time.Time

	inflight sync.WaitGroup
}

func NewEnrollmentService(store repositories.Store, notifier Notifier, log *logger.Logger) *EnrollmentService {
	return &EnrollmentService{
		store:    store,
		notifier: notifier,
		log:      log.With("service", "EnrollmentService"),
		now:      time.Now,
	}
}

// Enroll creates the user's enrollment in a published course, snapshotting
// the course's current lesson count.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID uint) (*course.Enrollment, error) {
	var c *course.Course
	enrollment := &course.Enrollment{UserID: userID, CourseID: courseID, Status: course.EnrollmentActive}

	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		var err error
		c, err = tx.Courses().GetByID(ctx, courseID)
		if err != nil {
			return notFound(err, "course")
		}
		if c.Status != course.CoursePublished {
			return fmt.Errorf("course %d is not open for enrollment: %w", courseID, ErrNotFound)
		}

		total, err := tx.Lessons().CountByCourse(ctx, courseID)
		if err != nil {
			return err
		}
		enrollment.TotalLessons = int(total)
		enrollment.EnrolledAt = s.now()

		created, err := tx.Enrollments().CreateIfAbsent(ctx, enrollment)
		if err != nil {
			return err
		}
		if !created {
			return ErrAlreadyEnrolled
		}
		return tx.Courses().IncrementCounter(ctx, courseID, "enrolled_count")
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("User enrolled", "user_id", userID, "course_id", courseID, "total_lessons", enrollment.TotalLessons)
	s.notifyEnrollment(userID, c.Title)
	return enrollment, nil
}

func (s *EnrollmentService) notifyEnrollment(userID uint, courseTitle string) {
	if s.notifier == nil {
		return
	}
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		user, err := s.store.Users().GetByID(ctx, userID)
		if err != nil {
			s.log.Warn("Enrollment email skipped", "user_id", userID, "error", err)
			return
		}
		if err := s.notifier.Send(ctx, utils.EnrollmentEmail(user.Email, user.Name, courseTitle)); err != nil {
			s.log.Warn("Enrollment email failed", "user_id", userID, "error", err)
		}
	}()
}

// Wait blocks until every enrollment email started so far has finished.
func (s *EnrollmentService) Wait() {
	s.inflight.Wait()
}

// IsEnrolled reports whether the user holds an enrollment in the course.
func (s *EnrollmentService) IsEnrolled(ctx context.Context, userID, courseID uint) (bool, error) {
	return s.store.Enrollments().Exists(ctx, userID, courseID)
}

// ListMine returns the user's enrollments with course info, optionally by status.
func (s *EnrollmentService) ListMine(ctx context.Context, userID uint, status string) ([]course.Enrollment, error) {
	return s.store.Enrollments().ListByUser(ctx, userID, status)
}

// RequireLessonAccess fails with ErrNotAuthorized unless the user is enrolled
// in the course the lesson belongs to.
func (s *EnrollmentService) RequireLessonAccess(ctx context.Context, userID, lessonID uint) error {
	_, err := s.accessibleLesson(ctx, userID, lessonID)
	return err
}

func (s *EnrollmentService) accessibleLesson(ctx context.Context, userID, lessonID uint) (*course.Lesson, error) {
	lesson, err := s.store.Lessons().GetByID(ctx, lessonID)
	if err != nil {
		return nil, notFound(err, "lesson")
	}
	ok, err := s.store.Enrollments().Exists(ctx, userID, lesson.CourseID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("not enrolled in course %d: %w", lesson.CourseID, ErrNotAuthorized)
	}
	return lesson, nil
}
