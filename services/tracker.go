package services

import (
	"context"
	"fmt"
	"learnhub/logger"
	"learnhub/models/course"
	"learnhub/repositories"
	"math"
	"time"
)

// CompletionThreshold is the watch percentage at which a lesson counts as completed.
const CompletionThreshold = 90.0

// ProgressTracker records per-lesson watch progress and forwards completions
// to the EnrollmentAggregator.
type ProgressTracker struct {
	store      repositories.Store
	aggregator *EnrollmentAggregator
	log        *logger.Logger
	now        func() time.Time
}

func NewProgressTracker(store repositories.Store, aggregator *EnrollmentAggregator, log *logger.Logger) *ProgressTracker {
	return &ProgressTracker{
		store:      store,
		aggregator: aggregator,
		log:        log.With("service", "ProgressTracker"),
		now:        time.Now,
	}
}

// WatchReport is the result of a watch report: the stored lesson record and,
// when the lesson is completed, the enrollment after aggregation.
type WatchReport struct {
	Progress   *course.LessonProgress `json:"progress"`
	Enrollment *course.Enrollment     `json:"enrollment,omitempty"`
}

// ReportWatch stores the latest watch position for (userID, lessonID). The
// record and any resulting enrollment change commit together.
func (t *ProgressTracker) ReportWatch(ctx context.Context, userID, lessonID uint, watched, total float64) (*WatchReport, error) {
	if err := validateDurations(watched, total); err != nil {
		return nil, err
	}

	percentage := 100 * watched / total
	out := &WatchReport{}

	err := t.store.Transaction(ctx, func(tx repositories.Store) error {
		lesson, err := tx.Lessons().GetByID(ctx, lessonID)
		if err != nil {
			return notFound(err, "lesson")
		}

		now := t.now()
		record := &course.LessonProgress{
			UserID:          userID,
			LessonID:        lessonID,
			CourseID:        lesson.CourseID,
			WatchedDuration: watched,
			TotalDuration:   total,
			Percentage:      percentage,
			IsCompleted:     percentage >= CompletionThreshold,
			LastWatchedAt:   now,
		}
		if err := tx.Progress().Upsert(ctx, record); err != nil {
			return err
		}

		stored, err := tx.Progress().Get(ctx, userID, lessonID)
		if err != nil {
			return err
		}
		out.Progress = stored

		if !stored.IsCompleted {
			return nil
		}
		enrollment, err := t.aggregator.complete(ctx, tx, userID, lesson.CourseID, lessonID)
		if err != nil {
			return err
		}
		out.Enrollment = enrollment
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.log.Debug("Watch progress stored",
		"user_id", userID,
		"lesson_id", lessonID,
		"percentage", percentage,
		"completed", out.Progress.IsCompleted,
	)
	return out, nil
}

// CourseProgress is a user's enrollment together with their per-lesson records.
type CourseProgress struct {
	Enrollment *course.Enrollment      `json:"enrollment"`
	Lessons    []course.LessonProgress `json:"lessons"`
}

// GetCourseProgress returns the enrollment and lesson records of userID in courseID.
func (t *ProgressTracker) GetCourseProgress(ctx context.Context, userID, courseID uint) (*CourseProgress, error) {
	e, err := t.store.Enrollments().Get(ctx, userID, courseID)
	if err != nil {
		return nil, notFound(err, "enrollment")
	}
	ids, err := t.store.Enrollments().CompletedLessonIDs(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	e.CompletedLessonIDs = ids

	lessons, err := t.store.Progress().ListByCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	return &CourseProgress{Enrollment: e, Lessons: lessons}, nil
}

func validateDurations(watched, total float64) error {
	switch {
	case math.IsNaN(watched) || math.IsNaN(total),
		math.IsInf(watched, 0) || math.IsInf(total, 0):
		return fmt.Errorf("durations must be finite: %w", ErrInvalidInput)
	case total <= 0:
		return fmt.Errorf("total duration must be positive: %w", ErrInvalidInput)
	case watched < 0:
		return fmt.Errorf("watched duration must not be negative: %w", ErrInvalidInput)
	}
	return nil
}
