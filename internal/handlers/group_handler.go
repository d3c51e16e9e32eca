package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/splitmint/backend/internal/dto"
	"github.com/splitmint/backend/internal/middleware"
	"github.com/splitmint/backend/internal/services"
)

type GroupHandler struct {
	groupService *services.GroupService
}

func NewGroupHandler(groupService *services.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

func (h *GroupHandler) Create(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req dto.CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	group, err := h.groupService.Create(user.ID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Group created successfully",
		"group":   group,
	})
}

func (h *GroupHandler) List(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	groups, err := h.groupService.ListForUser(user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("You are a member of %d groups", len(groups)),
		"groups":  groups,
	})
}

func (h *GroupHandler) Update(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	groupID, err := uuid.Parse(c.Params("groupId"))
	if err != nil {
		return badRequest(c, "Invalid group ID")
	}

	var req dto.UpdateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	group, err := h.groupService.Update(user.ID, groupID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Group updated successfully",
		"group":   group,
	})
}

func (h *GroupHandler) RemoveMember(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	groupID, err := uuid.Parse(c.Params("groupId"))
	if err != nil {
		return badRequest(c, "Invalid group ID")
	}
	targetID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	group, err := h.groupService.RemoveMember(user.ID, groupID, targetID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Member removed from group",
		"group":   group,
	})
}

func (h *GroupHandler) Delete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	groupID, err := uuid.Parse(c.Params("groupId"))
	if err != nil {
		return badRequest(c, "Invalid group ID")
	}

	deleted, err := h.groupService.DeleteOrLeave(user.ID, groupID)
	if err != nil {
		return respondError(c, err)
	}

	message := "You left the group"
	if deleted {
		message = "Group deleted successfully"
	}
	return c.JSON(fiber.Map{"message": message})
}
