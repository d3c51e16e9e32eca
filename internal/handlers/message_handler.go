package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/splitmint/backend/internal/dto"
	"github.com/splitmint/backend/internal/middleware"
	"github.com/splitmint/backend/internal/services"
)

type MessageHandler struct {
	messageService *services.MessageService
}

func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	message, err := h.messageService.Send(user.ID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Message sent successfully",
		"note":    message,
	})
}

func (h *MessageHandler) Delete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	messageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid message ID")
	}

	message, err := h.messageService.Delete(user.ID, messageID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Message deleted successfully",
		"note":    message,
	})
}

func (h *MessageHandler) List(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	messages, err := h.messageService.List(user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("You have %d messages", len(messages)),
		"notes":   messages,
	})
}
