package services

import (
	"context"
	"errors"
	"fmt"
	"learnhub/logger"
	"learnhub/models/course"
	"learnhub/repositories"
	"math"
	"time"

	"gorm.io/gorm"
)

// EnrollmentAggregator folds lesson completions into the enrollment's
// completed set and derives percentage and completion status from it.
type EnrollmentAggregator struct {
	store repositories.Store
	log   *logger.Logger
	now   func() time.Time
}

func NewEnrollmentAggregator(store repositories.Store, log *logger.Logger) *EnrollmentAggregator {
	return &EnrollmentAggregator{
		store: store,
		log:   log.With("service", "EnrollmentAggregator"),
		now:   time.Now,
	}
}

// OnLessonCompleted records lessonID as completed for the user's enrollment
// in courseID. Repeating a completion leaves the enrollment unchanged.
func (a *EnrollmentAggregator) OnLessonCompleted(ctx context.Context, userID, courseID, lessonID uint) (*course.Enrollment, error) {
	var out *course.Enrollment
	err := a.store.Transaction(ctx, func(tx repositories.Store) error {
		e, err := a.complete(ctx, tx, userID, courseID, lessonID)
		out = e
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// complete runs inside the caller's transaction.
func (a *EnrollmentAggregator) complete(ctx context.Context, tx repositories.Store, userID, courseID, lessonID uint) (*course.Enrollment, error) {
	lesson, err := tx.Lessons().GetByID(ctx, lessonID)
	if err != nil {
		return nil, notFound(err, "lesson")
	}
	if lesson.CourseID != courseID {
		return nil, fmt.Errorf("lesson %d does not belong to course %d: %w", lessonID, courseID, ErrInvalidInput)
	}

	e, err := tx.Enrollments().GetForUpdate(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			a.log.Error("Completion for unenrolled user",
				"user_id", userID, "course_id", courseID, "lesson_id", lessonID)
			return nil, ErrEnrollmentMissing
		}
		return nil, err
	}

	now := a.now()
	added, err := tx.Enrollments().AddCompletedLesson(ctx, e.ID, lessonID, now)
	if err != nil {
		return nil, err
	}

	ids, err := tx.Enrollments().CompletedLessonIDs(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	e.CompletedLessonIDs = ids
	if !added {
		return e, nil
	}

	completed := len(ids)
	if completed > e.TotalLessons {
		e.TotalLessons = completed
	}
	e.CompletedLessons = completed
	e.Percentage = completionPercentage(completed, e.TotalLessons)
	e.LastAccessedLessonID = &lessonID
	e.LastAccessedAt = &now

	becameComplete := false
	if e.TotalLessons > 0 && completed >= e.TotalLessons && e.Status != course.EnrollmentCompleted {
		e.Status = course.EnrollmentCompleted
		becameComplete = true
	}
	if e.Status == course.EnrollmentCompleted && e.CompletedAt == nil {
		e.CompletedAt = &now
	}

	if err := tx.Enrollments().SaveProgress(ctx, e); err != nil {
		return nil, err
	}

	if becameComplete {
		if err := tx.Courses().IncrementCounter(ctx, courseID, "completed_count"); err != nil {
			return nil, err
		}
		a.log.Info("Course completed", "user_id", userID, "course_id", courseID)
	}

	a.log.Debug("Lesson completion recorded",
		"user_id", userID,
		"course_id", courseID,
		"lesson_id", lessonID,
		"completed", completed,
		"total", e.TotalLessons,
		"percentage", e.Percentage,
	)
	return e, nil
}

// completionPercentage returns 100*done/total clamped to [0, 100] and
// rounded to two decimals.
func completionPercentage(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := 100 * float64(done) / float64(total)
	p = math.Max(0, math.Min(100, p))
	return math.Round(p*100) / 100
}
