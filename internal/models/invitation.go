package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvitationStatus is a closed set. The only legal transitions are out of
// pending; accepted, rejected and cancelled are terminal.
type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationRejected  InvitationStatus = "rejected"
	InvitationCancelled InvitationStatus = "cancelled"
)

func (s InvitationStatus) Valid() bool {
	switch s {
	case InvitationPending, InvitationAccepted, InvitationRejected, InvitationCancelled:
		return true
	}
	return false
}

// CanTransition reports whether a status change is allowed.
func (s InvitationStatus) CanTransition(to InvitationStatus) bool {
	return s == InvitationPending && to.Valid() && to != InvitationPending
}

type Invitation struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"group_id"`
	InvitedBy uuid.UUID        `gorm:"type:uuid;not null;index" json:"invited_by"`
	InvitedTo uuid.UUID        `gorm:"type:uuid;not null;index" json:"invited_to"`
	Status    InvitationStatus `gorm:"size:10;not null;default:'pending'" json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (i *Invitation) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
