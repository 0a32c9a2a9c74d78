package course

import "gorm.io/gorm"

// Note is a private note a student pins to a point in a lesson's video.
type Note struct {
	gorm.Model
	UserID    uint    `json:"user_id" gorm:"index:idx_note_user_lesson;not null"`
	LessonID  uint    `json:"lesson_id" gorm:"index:idx_note_user_lesson;not null"`
	Content   string  `json:"content" gorm:"type:text;not null"`
	Timestamp float64 `json:"timestamp" gorm:"column:video_timestamp;not null;default:0"` // seconds into the video
}
