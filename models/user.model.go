package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

const (
	AccountActive    = "active"
	AccountSuspended = "suspended"
	AccountPending   = "pending"
)

type User struct {
	gorm.Model
	Name                string     `json:"name" gorm:"size:50;not null"`
	Email               string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password            string     `json:"-" gorm:"not null"`
	Role                string     `json:"role" gorm:"size:20;default:'student'"` // student, instructor, admin
	Avatar              string     `json:"avatar" gorm:"default:''"`
	Bio                 string     `json:"bio" gorm:"size:500;default:''"`
	IsActive            bool       `json:"is_active" gorm:"default:true"`
	AccountStatus       string     `json:"account_status" gorm:"size:20;default:'active'"`
	LastLogin           *time.Time `json:"last_login"`
	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	LastFailedLogin     *time.Time `json:"-"`
	BlockedUntil        *time.Time `json:"-"`
	IsDeleted           bool       `json:"-" gorm:"default:false"`
}

// IsBlocked reports whether login is temporarily locked at t.
func (u *User) IsBlocked(t time.Time) bool {
	return u.BlockedUntil != nil && u.BlockedUntil.After(t)
}
