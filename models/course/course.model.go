package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	CourseDraft     = "draft"
	CoursePublished = "published"
	CourseArchived  = "archived"
)

const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Course represents a learning course
type Course struct {
	gorm.Model
	Title            string         `json:"title" gorm:"size:100;not null"`
	Slug             string         `json:"slug" gorm:"uniqueIndex;size:150"`
	Description      string         `json:"description" gorm:"type:text"`
	ShortDescription string         `json:"short_description" gorm:"size:200"`
	InstructorID     uint           `json:"instructor_id" gorm:"index;not null"`
	Category         string         `json:"category" gorm:"size:50;index"`
	Tags             datatypes.JSON `json:"tags"`
	LearningOutcomes datatypes.JSON `json:"learning_outcomes"`
	Level            string         `json:"level" gorm:"size:20;default:'beginner'"`
	Language         string         `json:"language" gorm:"size:30;default:'English'"`
	Thumbnail        string         `json:"thumbnail"`
	Price            float64        `json:"price" gorm:"default:0"`
	Currency         string         `json:"currency" gorm:"size:3;default:'USD'"`
	TotalLessons     int            `json:"total_lessons" gorm:"default:0"`
	TotalVideos      int            `json:"total_videos" gorm:"default:0"`
	TotalQuizzes     int            `json:"total_quizzes" gorm:"default:0"`
	TotalDuration    float64        `json:"total_duration" gorm:"default:0"` // seconds
	EnrolledCount    int64          `json:"enrolled_count" gorm:"default:0"`
	CompletedCount   int64          `json:"completed_count" gorm:"default:0"`
	Rating           float64        `json:"rating" gorm:"default:0"`
	ReviewCount      int64          `json:"review_count" gorm:"default:0"`
	Status           string         `json:"status" gorm:"size:20;default:'draft';index"` // draft, published, archived
	PublishedAt      *time.Time     `json:"published_at"`
	IsDeleted        bool           `json:"-" gorm:"default:false"`
}

// Lessons are ordered by Order, ties broken by ID.
type Lesson struct {
	gorm.Model
	CourseID      uint           `json:"course_id" gorm:"index;not null"`
	Section       string         `json:"section"`
	Title         string         `json:"title" gorm:"not null"`
	Type          string         `json:"type" gorm:"size:20;default:'video'"` // video, text, quiz, assignment
	Order         int            `json:"order" gorm:"column:sort_order;default:0"`
	VideoURL      string         `json:"video_url"`
	VideoDuration float64        `json:"video_duration" gorm:"default:0"` // seconds
	Content       string         `json:"content" gorm:"type:text"`
	Attachments   datatypes.JSON `json:"attachments"`
	AllowNotes    bool           `json:"allow_notes" gorm:"default:true"`
	IsFree        bool           `json:"is_free" gorm:"default:false"`
	IsDeleted     bool           `json:"-" gorm:"default:false"`
}

const (
	LessonVideo      = "video"
	LessonText       = "text"
	LessonQuiz       = "quiz"
	LessonAssignment = "assignment"
)

// Attachment is one element of Lesson.Attachments.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}
