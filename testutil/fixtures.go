package testutil

import (
	"fmt"
	"learnhub/models"
	"learnhub/models/course"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, db *gorm.DB, role string) *models.User {
	tb.Helper()
	u := &models.User{
		Name:          "User " + uuid.NewString()[:6],
		Email:         uuid.NewString()[:8] + "@example.com",
		Password:      "pw",
		Role:          role,
		IsActive:      true,
		AccountStatus: models.AccountActive,
	}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedCourse creates a published course with n video lessons and matching totals.
func SeedCourse(tb testing.TB, db *gorm.DB, instructorID uint, n int) (*course.Course, []course.Lesson) {
	tb.Helper()
	now := time.Now()
	c := &course.Course{
		Title:        "Course " + uuid.NewString()[:6],
		Slug:         "course-" + uuid.NewString()[:8],
		InstructorID: instructorID,
		Status:       course.CoursePublished,
		PublishedAt:  &now,
		TotalLessons: n,
		TotalVideos:  n,
	}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}

	lessons := make([]course.Lesson, 0, n)
	for i := 0; i < n; i++ {
		l := course.Lesson{
			CourseID:      c.ID,
			Title:         fmt.Sprintf("Lesson %d", i+1),
			Type:          course.LessonVideo,
			Order:         i + 1,
			VideoDuration: 100,
		}
		if err := db.Create(&l).Error; err != nil {
			tb.Fatalf("seed lesson: %v", err)
		}
		lessons = append(lessons, l)
	}
	return c, lessons
}

func SeedEnrollment(tb testing.TB, db *gorm.DB, userID, courseID uint, totalLessons int) *course.Enrollment {
	tb.Helper()
	e := &course.Enrollment{
		UserID:       userID,
		CourseID:     courseID,
		Status:       course.EnrollmentActive,
		TotalLessons: totalLessons,
		EnrolledAt:   time.Now(),
	}
	if err := db.Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

// SeedCompletedEnrollment creates an enrollment already at 100%.
func SeedCompletedEnrollment(tb testing.TB, db *gorm.DB, userID, courseID uint, totalLessons int) *course.Enrollment {
	tb.Helper()
	now := time.Now()
	e := &course.Enrollment{
		UserID:           userID,
		CourseID:         courseID,
		Status:           course.EnrollmentCompleted,
		TotalLessons:     totalLessons,
		CompletedLessons: totalLessons,
		Percentage:       100,
		EnrolledAt:       now,
		CompletedAt:      &now,
	}
	if err := db.Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}
