package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/splitmint/backend/internal/audit"
	"github.com/splitmint/backend/internal/dto"
	"github.com/splitmint/backend/internal/models"
)

var (
	ErrMessageNotFound  = errors.New("message not found")
	ErrNotMessageAuthor = errors.New("only the author can delete a message")
)

type MessageService struct {
	db    *gorm.DB
	audit *audit.Writer
}

func NewMessageService(db *gorm.DB, auditWriter *audit.Writer) *MessageService {
	return &MessageService{db: db, audit: auditWriter}
}

func (s *MessageService) Send(userID uuid.UUID, req *dto.SendMessageRequest) (*models.Message, error) {
	if req.Title == "" || req.Body == "" {
		return nil, invalid(errors.New("title and body are required"))
	}

	message := models.Message{
		ID:     uuid.New(),
		UserID: userID,
		Title:  req.Title,
		Body:   req.Body,
	}
	if err := s.db.Create(&message).Error; err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	s.audit.Record(audit.Event{
		Action:      "MESSAGE_SENT",
		Description: "Message sent successfully",
		PerformedBy: userID,
		Meta:        map[string]any{"title": req.Title},
	})
	return &message, nil
}

func (s *MessageService) Delete(callerID, messageID uuid.UUID) (*models.Message, error) {
	var message models.Message
	if err := s.db.First(&message, "id = ?", messageID).Error; err != nil {
		return nil, ErrMessageNotFound
	}
	if message.UserID != callerID {
		return nil, ErrNotMessageAuthor
	}

	if err := s.db.Delete(&message).Error; err != nil {
		return nil, fmt.Errorf("failed to delete message: %w", err)
	}
	return &message, nil
}

func (s *MessageService) List(userID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}
