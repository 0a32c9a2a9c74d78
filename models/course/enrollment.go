package course

import (
	"time"

	"gorm.io/gorm"
)

const (
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"
	EnrollmentDropped   = "dropped"
)

// Enrollment tracks a user's enrollment in a course with progress
type Enrollment struct {
	gorm.Model
	UserID               uint       `json:"user_id" gorm:"uniqueIndex:idx_enrollment_user_course;not null"`
	CourseID             uint       `json:"course_id" gorm:"uniqueIndex:idx_enrollment_user_course;index;not null"`
	Status               string     `json:"status" gorm:"size:20;default:'active';index"` // active, completed, dropped
	CompletedLessons     int        `json:"completed_lessons_count" gorm:"default:0"`
	TotalLessons         int        `json:"total_lessons" gorm:"default:0"`
	Percentage           float64    `json:"percentage" gorm:"default:0"` // Completion percentage (0-100)
	LastAccessedLessonID *uint      `json:"last_accessed_lesson_id"`
	LastAccessedAt       *time.Time `json:"last_accessed_at"`
	EnrolledAt           time.Time  `json:"enrolled_at"`
	CompletedAt          *time.Time `json:"completed_at"`

	// CompletedLessonIDs is loaded from enrollment_lessons in completion order.
	CompletedLessonIDs []uint  `json:"completed_lessons" gorm:"-"`
	Course             *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

// EnrollmentLesson is one member of an enrollment's completed-lesson set.
type EnrollmentLesson struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	EnrollmentID uint      `json:"enrollment_id" gorm:"uniqueIndex:idx_enrollment_lesson;not null"`
	LessonID     uint      `json:"lesson_id" gorm:"uniqueIndex:idx_enrollment_lesson;not null"`
	CompletedAt  time.Time `json:"completed_at"`
}

// LessonProgress is a user's watch record for one lesson.
type LessonProgress struct {
	gorm.Model
	UserID          uint      `json:"user_id" gorm:"uniqueIndex:idx_progress_user_lesson;not null"`
	LessonID        uint      `json:"lesson_id" gorm:"uniqueIndex:idx_progress_user_lesson;not null"`
	CourseID        uint      `json:"course_id" gorm:"index;not null"`
	WatchedDuration float64   `json:"watched_duration"`
	TotalDuration   float64   `json:"total_duration"`
	Percentage      float64   `json:"percentage"`
	IsCompleted     bool      `json:"is_completed"`
	LastWatchedAt   time.Time `json:"last_watched_at"`
}

func (LessonProgress) TableName() string { return "lesson_progress" }
