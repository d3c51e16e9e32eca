package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog is append-only: rows are written by the audit writer and never
// mutated or deleted through the API.
type AuditLog struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Action      string         `gorm:"size:100;not null;index" json:"action"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Meta        datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"meta"`
	PerformedBy uuid.UUID      `gorm:"type:uuid;not null;index" json:"performed_by"`
	TargetUser  *uuid.UUID     `gorm:"type:uuid;index" json:"target_user"`
	GroupID     *uuid.UUID     `gorm:"type:uuid;index" json:"group_id"`
	ExpenseID   *uuid.UUID     `gorm:"type:uuid;index" json:"expense_id"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
