package course

import "gorm.io/gorm"

type Review struct {
	gorm.Model
	UserID       uint   `json:"user_id" gorm:"uniqueIndex:idx_review_user_course;not null"`
	CourseID     uint   `json:"course_id" gorm:"uniqueIndex:idx_review_user_course;index;not null"`
	Rating       int    `json:"rating" gorm:"not null"` // 1-5
	Comment      string `json:"comment" gorm:"size:500;default:''"`
	HelpfulCount int    `json:"helpful_count" gorm:"default:0"`
	UserName     string `json:"user_name,omitempty" gorm:"->;-:migration"`
}
