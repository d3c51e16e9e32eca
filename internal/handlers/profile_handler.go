package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/splitmint/backend/internal/dto"
	"github.com/splitmint/backend/internal/middleware"
	"github.com/splitmint/backend/internal/services"
)

type ProfileHandler struct {
	profileService *services.ProfileService
	authService    *services.AuthService
}

func NewProfileHandler(profileService *services.ProfileService, authService *services.AuthService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, authService: authService}
}

func (h *ProfileHandler) View(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.JSON(fiber.Map{
		"message": "Here is your profile",
		"user":    user,
	})
}

func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updated, err := h.profileService.Update(c.Context(), user.ID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    updated,
	})
}

func (h *ProfileHandler) DeleteAccount(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req dto.DeleteAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.authService.DeleteAccount(user.ID, req.Password); err != nil {
		return respondError(c, err)
	}
	clearAuthCookie(c)

	return c.JSON(fiber.Map{"message": "Account deleted successfully"})
}
