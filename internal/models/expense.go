package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExpenseCategories is the closed category set. Anything else is rejected
// at validation time.
var ExpenseCategories = []string{
	"shopping",
	"Food & Dining",
	"Groceries",
	"Restaurants",
	"Education",
	"Travel",
	"Entertainment",
	"Health & Wellness",
	"Gifts & Donations",
	"Miscellaneous",
}

// ValidCategory reports whether c is in the closed category set.
func ValidCategory(c string) bool {
	for _, v := range ExpenseCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Expense amounts are integer cents. A non-personal expense always carries
// a group reference; the expense service enforces that before persistence.
type Expense struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AmountCents  int64          `gorm:"not null" json:"amount_cents"`
	Description  string         `gorm:"type:text;not null" json:"description"`
	Category     string         `gorm:"size:50;not null;default:'Miscellaneous'" json:"category"`
	Date         string         `gorm:"size:10;not null;index" json:"date"`
	CreatedBy    uuid.UUID      `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedFor   uuid.UUID      `gorm:"type:uuid;not null;index" json:"created_for"`
	IsPersonal   bool           `gorm:"not null;default:true;index" json:"is_personal"`
	GroupID      *uuid.UUID     `gorm:"type:uuid;index" json:"group_id"`
	ReceiptImage string         `gorm:"size:512" json:"receipt_image"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.ID)
	return nil
}
