package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SplitExpense is the one-to-one companion of a group expense. Its shares
// always sum to the parent expense's amount.
type SplitExpense struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ExpenseID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"expense_id"`
	Shares    []SplitShare   `gorm:"foreignKey:SplitExpenseID;constraint:OnDelete:CASCADE" json:"shares"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *SplitExpense) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

type SplitShare struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SplitExpenseID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	AmountCents    int64     `gorm:"not null" json:"amount_cents"`
}

func (s *SplitShare) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// MemberIDs returns the users this expense is split between, in share order.
func (s *SplitExpense) MemberIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(s.Shares))
	for i, sh := range s.Shares {
		ids[i] = sh.UserID
	}
	return ids
}
