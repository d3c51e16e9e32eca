// Package audit persists the append-only event trail: who did what, to
// whom, and with what metadata.
package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/splitmint/backend/internal/metrics"
	"github.com/splitmint/backend/internal/models"
)

// Event describes one auditable action.
type Event struct {
	Action      string
	Description string
	Meta        map[string]any
	PerformedBy uuid.UUID
	TargetUser  *uuid.UUID
	Group       *uuid.UUID
	Expense     *uuid.UUID
}

// Validate checks field shapes before persistence.
func (e Event) Validate() error {
	if len(e.Action) < 3 {
		return errors.New("audit action must be at least 3 characters")
	}
	if len(e.Description) < 10 {
		return errors.New("audit description must be at least 10 characters")
	}
	if e.PerformedBy == uuid.Nil {
		return errors.New("audit event requires a performing user")
	}
	return nil
}

type Writer struct {
	db *gorm.DB
}

func NewWriter(db *gorm.DB) *Writer {
	return &Writer{db: db}
}

// Record validates and persists the event. It runs after the triggering
// mutation has already committed, so a failed write is logged and counted
// but never propagated back to the caller.
func (w *Writer) Record(e Event) {
	if err := w.write(e); err != nil {
		metrics.AuditWriteFailures.Inc()
		slog.Error("audit write failed",
			"action", e.Action,
			"user_id", e.PerformedBy.String(),
			"error", err.Error(),
		)
	}
}

func (w *Writer) write(e Event) error {
	if err := e.Validate(); err != nil {
		return err
	}

	meta := datatypes.JSON([]byte("{}"))
	if len(e.Meta) > 0 {
		b, err := json.Marshal(e.Meta)
		if err != nil {
			return fmt.Errorf("failed to marshal audit metadata: %w", err)
		}
		meta = datatypes.JSON(b)
	}

	row := models.AuditLog{
		Action:      e.Action,
		Description: e.Description,
		Meta:        meta,
		PerformedBy: e.PerformedBy,
		TargetUser:  e.TargetUser,
		GroupID:     e.Group,
		ExpenseID:   e.Expense,
	}
	if err := w.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to persist audit event: %w", err)
	}
	return nil
}
