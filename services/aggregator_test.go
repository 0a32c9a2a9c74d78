package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"learnhub/models"
	"learnhub/models/course"
	"learnhub/repositories"
	"learnhub/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnLessonCompletedProgression(t *testing.T) {
	db := testutil.DB(t)
	store := repositories.NewStore(db)
	agg := NewEnrollmentAggregator(store, testutil.Logger(t))
	ctx := context.Background()

	instructor := testutil.SeedUser(t, db, models.RoleInstructor)
	student := testutil.SeedUser(t, db, models.RoleStudent)
	c, lessons := testutil.SeedCourse(t, db, instructor.ID, 3)
	testutil.SeedEnrollment(t, db, student.ID, c.ID, 3)

	want := []float64{33.33, 66.67, 100}
	for i, l := range lessons {
		e, err := agg.OnLessonCompleted(ctx, student.ID, c.ID, l.ID)
		require.NoError(t, err)
		assert.InDelta(t, want[i], e.Percentage, 1e-9)
		assert.Equal(t, i+1, e.CompletedLessons)
		require.NotNil(t, e.LastAccessedLessonID)
		assert.Equal(t, l.ID, *e.LastAccessedLessonID)
		if i < 2 {
			assert.Equal(t, course.EnrollmentActive, e.Status)
			assert.Nil(t, e.CompletedAt)
		}
	}

	e, err := store.Enrollments().Get(ctx, student.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, course.EnrollmentCompleted, e.Status)
	require.NotNil(t, e.CompletedAt)
	completedAt := *e.CompletedAt

	// Re-completing after the course is done keeps the first completion time.
	agg.now = func() time.Time { return completedAt.Add(time.Hour) }
	again, err := agg.OnLessonCompleted(ctx, student.ID, c.ID, lessons[0].ID)
	require.NoError(t, err)
	require.NotNil(t, again.CompletedAt)
	assert.True(t, completedAt.Equal(*again.CompletedAt))

	updated, err := store.Courses().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.CompletedCount)
}

func TestOnLessonCompletedIsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	store := repositories.NewStore(db)
	agg := NewEnrollmentAggregator(store, testutil.Logger(t))
	ctx := context.Background()

	instructor := testutil.SeedUser(t, db, models.RoleInstructor)
	student := testutil.SeedUser(t, db, models.RoleStudent)
	c, lessons := testutil.SeedCourse(t, db, instructor.ID, 4)
	testutil.SeedEnrollment(t, db, student.ID, c.ID, 4)

	first, err := agg.OnLessonCompleted(ctx, student.ID, c.ID, lessons[2].ID)
	require.NoError(t, err)
	second, err := agg.OnLessonCompleted(ctx, student.ID, c.ID, lessons[2].ID)
	require.NoError(t, err)

	assert.Equal(t, first.CompletedLessonIDs, second.CompletedLessonIDs)
	assert.Equal(t, 1, second.CompletedLessons)
	assert.InDelta(t, 25.0, second.Percentage, 1e-9)

	n, err := store.Enrollments().CountCompletedLessons(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestOnLessonCompletedConcurrentDistinctLessons(t *testing.T) {
	const n = 12

	db := testutil.DB(t)
	store := repositories.NewStore(db)
	agg := NewEnrollmentAggregator(store, testutil.Logger(t))
	ctx := context.Background()

	instructor := testutil.SeedUser(t, db, models.RoleInstructor)
	student := testutil.SeedUser(t, db, models.RoleStudent)
	c, lessons := testutil.SeedCourse(t, db, instructor.ID, n)
	testutil.SeedEnrollment(t, db, student.ID, c.ID, n)

	var wg sync.WaitGroup
	errs := make(chan error, n*2)
	for _, l := range lessons {
		// Each lesson twice to mix duplicates into the race.
		for k := 0; k < 2; k++ {
			wg.Add(1)
			go func(lessonID uint) {
				defer wg.Done()
				_, err := agg.OnLessonCompleted(ctx, student.ID, c.ID, lessonID)
				errs <- err
			}(l.ID)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	e, err := store.Enrollments().Get(ctx, student.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, n, e.CompletedLessons)
	assert.InDelta(t, 100.0, e.Percentage, 1e-9)
	assert.Equal(t, course.EnrollmentCompleted, e.Status)

	ids, err := store.Enrollments().CompletedLessonIDs(ctx, e.ID)
	require.NoError(t, err)
	assert.Len(t, ids, n)

	updated, err := store.Courses().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.CompletedCount)
}

func TestOnLessonCompletedRejectsForeignLesson(t *testing.T) {
	db := testutil.DB(t)
	store := repositories.NewStore(db)
	agg := NewEnrollmentAggregator(store, testutil.Logger(t))

	instructor := testutil.SeedUser(t, db, models.RoleInstructor)
	student := testutil.SeedUser(t, db, models.RoleStudent)
	c, _ := testutil.SeedCourse(t, db, instructor.ID, 2)
	_, other := testutil.SeedCourse(t, db, instructor.ID, 1)
	testutil.SeedEnrollment(t, db, student.ID, c.ID, 2)

	_, err := agg.OnLessonCompleted(context.Background(), student.ID, c.ID, other[0].ID)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOnLessonCompletedWithoutEnrollment(t *testing.T) {
	db := testutil.DB(t)
	store := repositories.NewStore(db)
	agg := NewEnrollmentAggregator(store, testutil.Logger(t))

	instructor := testutil.SeedUser(t, db, models.RoleInstructor)
	student := testutil.SeedUser(t, db, models.RoleStudent)
	c, lessons := testutil.SeedCourse(t, db, instructor.ID, 2)

	_, err := agg.OnLessonCompleted(context.Background(), student.ID, c.ID, lessons[0].ID)
	assert.ErrorIs(t, err, ErrEnrollmentMissing)

	var n int64
	require.NoError(t, db.Model(&course.Enrollment{}).Count(&n).Error)
	assert.Zero(t, n, "no enrollment is created implicitly")
}

func TestOnLessonCompletedGrowsStaleTotal(t *testing.T) {
	db := testutil.DB(t)
	store := repositories.NewStore(db)
	agg := NewEnrollmentAggregator(store, testutil.Logger(t))
	ctx := context.Background()

	instructor := testutil.SeedUser(t, db, models.RoleInstructor)
	student := testutil.SeedUser(t, db, models.RoleStudent)
	c, lessons := testutil.SeedCourse(t, db, instructor.ID, 2)
	// Snapshot taken when the course only had one lesson.
	testutil.SeedEnrollment(t, db, student.ID, c.ID, 1)

	e, err := agg.OnLessonCompleted(ctx, student.ID, c.ID, lessons[0].ID)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, e.Percentage, 1e-9)

	e, err = agg.OnLessonCompleted(ctx, student.ID, c.ID, lessons[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, e.TotalLessons)
	assert.Equal(t, 2, e.CompletedLessons)
	assert.InDelta(t, 100.0, e.Percentage, 1e-9)
}

func TestCompletionPercentage(t *testing.T) {
	tests := []struct {
		done, total int
		want        float64
	}{
		{0, 0, 0},
		{0, 5, 0},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{3, 3, 100},
		{5, 3, 100},
		{1, 8, 12.5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, completionPercentage(tt.done, tt.total), 1e-9, "%d/%d", tt.done, tt.total)
	}
}
