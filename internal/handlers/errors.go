package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/splitmint/backend/internal/dto"
	"github.com/splitmint/backend/internal/services"
)

// respondError maps service errors onto the response taxonomy. Every
// branch returns immediately and unknown errors never leak their details.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return reply(c, fiber.StatusBadRequest, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials):
		return reply(c, fiber.StatusUnauthorized, err.Error())

	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrGroupNotFound),
		errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrExpenseNotFound),
		errors.Is(err, services.ErrInvitationNotFound),
		errors.Is(err, services.ErrInviteeNotFound),
		errors.Is(err, services.ErrMessageNotFound):
		return reply(c, fiber.StatusNotFound, err.Error())

	case errors.Is(err, services.ErrNotGroupCreator),
		errors.Is(err, services.ErrNotGroupMember),
		errors.Is(err, services.ErrCreatorImmutable),
		errors.Is(err, services.ErrNotExpenseOwner),
		errors.Is(err, services.ErrNotInvitee),
		errors.Is(err, services.ErrNotInviter),
		errors.Is(err, services.ErrNotMessageAuthor):
		return reply(c, fiber.StatusForbidden, err.Error())

	case errors.Is(err, services.ErrAccountExists),
		errors.Is(err, services.ErrGroupNameTaken),
		errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrInvitePending),
		errors.Is(err, services.ErrInvitationDecided):
		return reply(c, fiber.StatusConflict, err.Error())
	}

	slog.Error("request failed",
		"method", c.Method(),
		"path", c.Path(),
		"error", err.Error(),
	)
	return reply(c, fiber.StatusInternalServerError, "Internal server error")
}

func reply(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return reply(c, fiber.StatusBadRequest, message)
}
