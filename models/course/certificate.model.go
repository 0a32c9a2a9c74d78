package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate represents an issued certificate for course completion
type Certificate struct {
	gorm.Model
	UserID            uint       `json:"user_id" gorm:"uniqueIndex:idx_certificate_user_course;not null"`
	CourseID          uint       `json:"course_id" gorm:"uniqueIndex:idx_certificate_user_course;not null"`
	CertificateNumber string     `json:"certificate_number" gorm:"uniqueIndex;size:64;not null"`
	IssuedAt          time.Time  `json:"issued_at"`
	DocumentURL       string     `json:"document_url"`
	RenderedAt        *time.Time `json:"rendered_at"`
	RenderAttempts    int        `json:"-" gorm:"default:0"`
	LastRenderError   string     `json:"-"`

	Course *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
