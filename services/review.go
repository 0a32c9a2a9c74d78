package services

import (
	"context"
	"fmt"
	"learnhub/logger"
	"learnhub/models/course"
	"learnhub/repositories"
	"math"
	"strings"
)

type ReviewService struct {
	store repositories.Store
	log   *logger.Logger
}

func NewReviewService(store repositories.Store, log *logger.Logger) *ReviewService {
	return &ReviewService{store: store, log: log.With("service", "ReviewService")}
}

// AddReview stores the user's single review of a course and refreshes the
// course rating in the same transaction. Only enrolled users may review.
func (s *ReviewService) AddReview(ctx context.Context, userID, courseID uint, rating int, comment string) (*course.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", ErrInvalidInput)
	}
	review := &course.Review{
		UserID:   userID,
		CourseID: courseID,
		Rating:   rating,
		Comment:  strings.TrimSpace(comment),
	}

	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if _, err := tx.Courses().GetByID(ctx, courseID); err != nil {
			return notFound(err, "course")
		}
		enrolled, err := tx.Enrollments().Exists(ctx, userID, courseID)
		if err != nil {
			return err
		}
		if !enrolled {
			return fmt.Errorf("only enrolled users can review course %d: %w", courseID, ErrNotAuthorized)
		}

		created, err := tx.Reviews().CreateIfAbsent(ctx, review)
		if err != nil {
			return err
		}
		if !created {
			return fmt.Errorf("course %d already reviewed: %w", courseID, ErrConflict)
		}

		avg, count, err := tx.Reviews().Aggregate(ctx, courseID)
		if err != nil {
			return err
		}
		return tx.Courses().SetRating(ctx, courseID, math.Round(avg*10)/10, count)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Review added", "course_id", courseID, "user_id", userID, "rating", rating)
	return review, nil
}

func (s *ReviewService) ListByCourse(ctx context.Context, courseID uint, p repositories.Page) ([]course.Review, int64, error) {
	return s.store.Reviews().ListByCourse(ctx, courseID, p)
}
