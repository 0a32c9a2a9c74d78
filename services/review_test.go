package services

import (
	"context"
	"testing"

	"learnhub/models"
	"learnhub/repositories"
	"learnhub/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddReviewUpdatesCourseRating(t *testing.T) {
	db := testutil.DB(t)
	store := repositories.NewStore(db)
	svc := NewReviewService(store, testutil.Logger(t))
	ctx := context.Background()

	instructor := testutil.SeedUser(t, db, models.RoleInstructor)
	c, _ := testutil.SeedCourse(t, db, instructor.ID, 1)

	ratings := []int{5, 4, 4}
	for _, r := range ratings {
		student := testutil.SeedUser(t, db, models.RoleStudent)
		testutil.SeedEnrollment(t, db, student.ID, c.ID, 1)
		review, err := svc.AddReview(ctx, student.ID, c.ID, r, "  good  ")
		require.NoError(t, err)
		assert.Equal(t, "good", review.Comment)
	}

	got, err := store.Courses().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.3, got.Rating, 1e-9)
	assert.Equal(t, int64(3), got.ReviewCount)

	list, total, err := svc.ListByCourse(ctx, c.ID, repositories.Page{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 2)
	assert.NotEmpty(t, list[0].UserName)
}

func TestAddReviewRules(t *testing.T) {
	db := testutil.DB(t)
	svc := NewReviewService(repositories.NewStore(db), testutil.Logger(t))
	ctx := context.Background()

	instructor := testutil.SeedUser(t, db, models.RoleInstructor)
	student := testutil.SeedUser(t, db, models.RoleStudent)
	c, _ := testutil.SeedCourse(t, db, instructor.ID, 1)

	_, err := svc.AddReview(ctx, student.ID, c.ID, 5, "")
	assert.ErrorIs(t, err, ErrNotAuthorized, "only enrolled users may review")

	testutil.SeedEnrollment(t, db, student.ID, c.ID, 1)
	for _, bad := range []int{0, 6, -1} {
		_, err = svc.AddReview(ctx, student.ID, c.ID, bad, "")
		assert.ErrorIs(t, err, ErrInvalidInput, "rating %d", bad)
	}

	_, err = svc.AddReview(ctx, student.ID, c.ID, 3, "")
	require.NoError(t, err)
	_, err = svc.AddReview(ctx, student.ID, c.ID, 4, "changed my mind")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.AddReview(ctx, student.ID, 9999, 4, "")
	assert.ErrorIs(t, err, ErrNotFound)
}
