package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles a user account can hold
const (
	RoleUser    = "user"
	RoleStudent = "student"
	RoleStaff   = "staff"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// User represents an account that can log in and submit or score artwork
type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Role      string    `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Avatar    string    `gorm:"type:varchar(255)" json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// IsStaff reports whether the user may score submissions
func (u *User) IsStaff() bool {
	return u.Role == RoleStaff || u.Role == RoleManager || u.Role == RoleAdmin
}

// IsManager reports whether the user may manage competitions and exhibitions
func (u *User) IsManager() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}
