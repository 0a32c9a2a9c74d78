package services

import (
	"context"
	"strings"
	"testing"

	"learnhub/models"
	"learnhub/models/course"
	"learnhub/repositories"
	"learnhub/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCreateCourseAssignsUniqueSlug(t *testing.T) {
	db := testutil.DB(t)
	svc := NewCatalogService(repositories.NewStore(db), testutil.Logger(t))
	ctx := context.Background()
	instructor := testutil.SeedUser(t, db, models.RoleInstructor)
	actor := Actor{UserID: instructor.ID, Role: models.RoleInstructor}

	first, err := svc.CreateCourse(ctx, actor, CourseInput{Title: ptr("Intro to Go!"), Tags: []string{"go"}})
	require.NoError(t, err)
	assert.Equal(t, "intro-to-go", first.Slug)
	assert.Equal(t, course.CourseDraft, first.Status)
	assert.Equal(t, instructor.ID, first.InstructorID)
	assert.JSONEq(t, `["go"]`, string(first.Tags))

	second, err := svc.CreateCourse(ctx, actor, CourseInput{Title: ptr("Intro to Go")})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(second.Slug, "intro-to-go-"), second.Slug)
	assert.NotEqual(t, first.Slug, second.Slug)
}

func TestCreateCourseValidation(t *testing.T) {
	db := testutil.DB(t)
	svc := NewCatalogService(repositories.NewStore(db), testutil.Logger(t))
	ctx := context.Background()
	student := testutil.SeedUser(t, db, models.RoleStudent)
	instructor := testutil.SeedUser(t, db, models.RoleInstructor)

	_, err := svc.CreateCourse(ctx, Actor{UserID: student.ID, Role: models.RoleStudent}, CourseInput{Title: ptr("Mine")})
	assert.ErrorIs(t, err, ErrNotAuthorized)

	actor := Actor{UserID: instructor.ID, Role: models.RoleInstructor}
	_, err = svc.CreateCourse(ctx, actor, CourseInput{Title: ptr("   ")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateCourse(ctx, actor, CourseInput{Title: ptr("Paid"), Price: ptr(-1.0)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLessonsMaintainCourseTotals(t *testing.T) {
	db := testutil.DB(t)
	store := repositories.NewStore(db)
	svc := NewCatalogService(store, testutil.Logger(t))
	ctx := context.Background()
	instructor := testutil.SeedUser(t, db, models.RoleInstructor)
	actor := Actor{UserID: instructor.ID, Role: models.RoleInstructor}

	c, err := svc.CreateCourse(ctx, actor, CourseInput{Title: ptr("Databases")})
	require.NoError(t, err)

	_, err = svc.PublishCourse(ctx, actor, c.ID)
	assert.ErrorIs(t, err, ErrInvalidInput, "a course without lessons cannot be published")

	video, err := svc.AddLesson(ctx, actor, c.ID, LessonInput{Title: ptr("Indexes"), VideoDuration: ptr(100.0)})
	require.NoError(t, err)
	text, err := svc.AddLesson(ctx, actor, c.ID, LessonInput{Title: ptr("Reading"), Type: ptr(course.LessonText)})
	require.NoError(t, err)
	_, err = svc.AddLesson(ctx, actor, c.ID, LessonInput{Title: ptr("Joins"), VideoDuration: ptr(50.0)})
	require.NoError(t, err)
	assert.Equal(t, 1, video.Order)
	assert.Equal(t, 2, text.Order)

	got, err := store.Courses().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalLessons)
	assert.Equal(t, 2, got.TotalVideos)
	assert.InDelta(t, 150.0, got.TotalDuration, 1e-9)

	updated, err := svc.UpdateLesson(ctx, actor, video.ID, LessonInput{VideoDuration: ptr(200.0)})
	require.NoError(t, err)
	assert.InDelta(t, 200.0, updated.VideoDuration, 1e-9)

	require.NoError(t, svc.DeleteLesson(ctx, actor, text.ID))
	got, err = store.Courses().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalLessons)
	assert.InDelta(t, 250.0, got.TotalDuration, 1e-9)

	details, err := svc.GetCourse(ctx, &actor, c.ID)
	require.NoError(t, err)
	require.Len(t, details.Lessons, 2)
	assert.Equal(t, "Indexes", details.Lessons[0].Title)
}

func TestPublishAndVisibility(t *testing.T) {
	db := testutil.DB(t)
	svc := NewCatalogService(repositories.NewStore(db), testutil.Logger(t))
	ctx := context.Background()
	owner := testutil.SeedUser(t, db, models.RoleInstructor)
	other := testutil.SeedUser(t, db, models.RoleInstructor)
	admin := testutil.SeedUser(t, db, models.RoleAdmin)
	actor := Actor{UserID: owner.ID, Role: models.RoleInstructor}
	stranger := Actor{UserID: other.ID, Role: models.RoleInstructor}

	c, err := svc.CreateCourse(ctx, actor, CourseInput{Title: ptr("Kubernetes")})
	require.NoError(t, err)
	_, err = svc.AddLesson(ctx, actor, c.ID, LessonInput{Title: ptr("Pods")})
	require.NoError(t, err)

	_, err = svc.GetCourse(ctx, nil, c.ID)
	assert.ErrorIs(t, err, ErrNotFound, "drafts are hidden from the public")
	_, err = svc.GetCourse(ctx, &stranger, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetCourse(ctx, &Actor{UserID: admin.ID, Role: models.RoleAdmin}, c.ID)
	assert.NoError(t, err)

	_, err = svc.PublishCourse(ctx, stranger, c.ID)
	assert.ErrorIs(t, err, ErrNotAuthorized)
	_, err = svc.UpdateCourse(ctx, stranger, c.ID, CourseInput{Title: ptr("Stolen")})
	assert.ErrorIs(t, err, ErrNotAuthorized)

	published, err := svc.PublishCourse(ctx, actor, c.ID)
	require.NoError(t, err)
	assert.Equal(t, course.CoursePublished, published.Status)
	require.NotNil(t, published.PublishedAt)

	bySlug, err := svc.GetCourseBySlug(ctx, nil, c.Slug)
	require.NoError(t, err)
	assert.Equal(t, c.ID, bySlug.Course.ID)

	list, total, err := svc.ListPublished(ctx, repositories.CourseFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)

	_, total, err = svc.ListManaged(ctx, stranger, repositories.CourseFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)

	require.NoError(t, svc.DeleteCourse(ctx, actor, c.ID))
	_, err = svc.GetCourse(ctx, &actor, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEnroll(t *testing.T) {
	db := testutil.DB(t)
	store := repositories.NewStore(db)
	svc := NewEnrollmentService(store, nil, testutil.Logger(t))
	ctx := context.Background()

	instructor := testutil.SeedUser(t, db, models.RoleInstructor)
	student := testutil.SeedUser(t, db, models.RoleStudent)
	c, lessons := testutil.SeedCourse(t, db, instructor.ID, 4)

	e, err := svc.Enroll(ctx, student.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, e.TotalLessons)
	assert.Equal(t, course.EnrollmentActive, e.Status)
	assert.Zero(t, e.Percentage)

	_, err = svc.Enroll(ctx, student.ID, c.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
	assert.ErrorIs(t, err, ErrConflict)

	got, err := store.Courses().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.EnrolledCount)

	ok, err := svc.IsEnrolled(ctx, student.ID, c.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	mine, err := svc.ListMine(ctx, student.ID, "")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Course)
	assert.Equal(t, c.Title, mine[0].Course.Title)

	assert.NoError(t, svc.RequireLessonAccess(ctx, student.ID, lessons[0].ID))
	assert.ErrorIs(t, svc.RequireLessonAccess(ctx, instructor.ID, lessons[0].ID), ErrNotAuthorized)
	assert.ErrorIs(t, svc.RequireLessonAccess(ctx, student.ID, 9999), ErrNotFound)
}

func TestEnrollRejectsUnpublishedCourse(t *testing.T) {
	db := testutil.DB(t)
	store := repositories.NewStore(db)
	svc := NewEnrollmentService(store, nil, testutil.Logger(t))
	ctx := context.Background()

	instructor := testutil.SeedUser(t, db, models.RoleInstructor)
	student := testutil.SeedUser(t, db, models.RoleStudent)
	c, _ := testutil.SeedCourse(t, db, instructor.ID, 1)
	require.NoError(t, db.Model(c).Update("status", course.CourseDraft).Error)

	_, err := svc.Enroll(ctx, student.ID, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Enroll(ctx, student.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddLessonNotesSetting(t *testing.T) {
	db := testutil.DB(t)
	store := repositories.NewStore(db)
	svc := NewCatalogService(store, testutil.Logger(t))
	ctx := context.Background()
	instructor := testutil.SeedUser(t, db, models.RoleInstructor)
	actor := Actor{UserID: instructor.ID, Role: models.RoleInstructor}

	c, err := svc.CreateCourse(ctx, actor, CourseInput{Title: ptr("Networking")})
	require.NoError(t, err)

	open, err := svc.AddLesson(ctx, actor, c.ID, LessonInput{Title: ptr("Sockets")})
	require.NoError(t, err)
	closed, err := svc.AddLesson(ctx, actor, c.ID, LessonInput{Title: ptr("Exam"), AllowNotes: ptr(false)})
	require.NoError(t, err)

	got, err := store.Lessons().GetByID(ctx, open.ID)
	require.NoError(t, err)
	assert.True(t, got.AllowNotes)
	got, err = store.Lessons().GetByID(ctx, closed.ID)
	require.NoError(t, err)
	assert.False(t, got.AllowNotes)
}
