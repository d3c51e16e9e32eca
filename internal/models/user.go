package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is hard-deleted on account removal, so it carries no DeletedAt;
// rows referencing a removed user keep a dangling soft reference.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName   string    `gorm:"size:20;not null" json:"first_name"`
	LastName    string    `gorm:"size:20" json:"last_name"`
	Email       string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone       string    `gorm:"size:15;not null;uniqueIndex" json:"phone"`
	Gender      string    `gorm:"size:10" json:"gender"`
	DateOfBirth string    `gorm:"size:10" json:"date_of_birth"`
	Occupation  string    `gorm:"size:100" json:"occupation"`
	IncomeCents int64     `json:"income_cents"`
	AvatarURL   string    `gorm:"size:512" json:"avatar_url"`
	Password    string    `gorm:"not null" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}
