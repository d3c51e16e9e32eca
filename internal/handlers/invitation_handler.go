package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/splitmint/backend/internal/dto"
	"github.com/splitmint/backend/internal/middleware"
	"github.com/splitmint/backend/internal/models"
	"github.com/splitmint/backend/internal/services"
)

type InvitationHandler struct {
	invitationService *services.InvitationService
}

func NewInvitationHandler(invitationService *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationService: invitationService}
}

func (h *InvitationHandler) Send(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	groupID, err := uuid.Parse(c.Params("groupId"))
	if err != nil {
		return badRequest(c, "Invalid group ID")
	}

	var req dto.InviteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" {
		return badRequest(c, "Invitee email is required")
	}

	invitation, err := h.invitationService.Send(user.ID, groupID, req.Email)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "User invited successfully",
		"invitation": invitation,
	})
}

func (h *InvitationHandler) Review(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	invitationID, err := uuid.Parse(c.Params("invitationId"))
	if err != nil {
		return badRequest(c, "Invalid invitation ID")
	}

	var req dto.ReviewInvitationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	invitation, err := h.invitationService.Review(user.ID, invitationID, models.InvitationStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":    fmt.Sprintf("You have %s the invitation", invitation.Status),
		"invitation": invitation,
	})
}

func (h *InvitationHandler) Cancel(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	invitationID, err := uuid.Parse(c.Params("invitationId"))
	if err != nil {
		return badRequest(c, "Invalid invitation ID")
	}

	invitation, err := h.invitationService.Cancel(user.ID, invitationID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":    "Invitation cancelled",
		"invitation": invitation,
	})
}

func (h *InvitationHandler) ListReceived(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	invitations, err := h.invitationService.ListReceived(user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":     fmt.Sprintf("You have received %d invitations", len(invitations)),
		"invitations": invitations,
	})
}

func (h *InvitationHandler) ListSent(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	groupID, err := uuid.Parse(c.Params("groupId"))
	if err != nil {
		return badRequest(c, "Invalid group ID")
	}

	invitations, err := h.invitationService.ListSent(user.ID, groupID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":     fmt.Sprintf("This group has %d pending invitations", len(invitations)),
		"invitations": invitations,
	})
}
