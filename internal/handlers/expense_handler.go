package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/splitmint/backend/internal/dto"
	"github.com/splitmint/backend/internal/middleware"
	"github.com/splitmint/backend/internal/services"
)

type ExpenseHandler struct {
	expenseService *services.ExpenseService
}

func NewExpenseHandler(expenseService *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// Create handles both POST /expenses and POST /expenses/:groupId; the
// group variant fans the amount out into per-member shares.
func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var groupID *uuid.UUID
	if raw := c.Params("groupId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "Invalid group ID")
		}
		groupID = &id
	}

	var req dto.CreateExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.CreatedFor == uuid.Nil {
		req.CreatedFor = user.ID
	}

	expense, splitExpense, err := h.expenseService.Create(c.Context(), user.ID, groupID, &req)
	if err != nil {
		return respondError(c, err)
	}

	body := fiber.Map{
		"message": "Expense added successfully",
		"expense": expense,
	}
	if splitExpense != nil {
		body["split"] = splitExpense
	}
	return c.Status(fiber.StatusCreated).JSON(body)
}

// List serves personal expenses by default and a group's expenses when
// :groupId is present.
func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	if raw := c.Params("groupId"); raw != "" {
		groupID, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "Invalid group ID")
		}
		expenses, err := h.expenseService.ListGroup(user.ID, groupID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"message":  fmt.Sprintf("This group has %d expenses", len(expenses)),
			"expenses": expenses,
		})
	}

	expenses, err := h.expenseService.ListPersonal(user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":  fmt.Sprintf("You have %d expenses", len(expenses)),
		"expenses": expenses,
	})
}

func (h *ExpenseHandler) Update(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	expenseID, err := uuid.Parse(c.Params("expenseId"))
	if err != nil {
		return badRequest(c, "Invalid expense ID")
	}

	var req dto.UpdateExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	expense, err := h.expenseService.Update(c.Context(), user.ID, expenseID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Expense updated successfully",
		"expense": expense,
	})
}

func (h *ExpenseHandler) Delete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	expenseID, err := uuid.Parse(c.Params("expenseId"))
	if err != nil {
		return badRequest(c, "Invalid expense ID")
	}

	expense, err := h.expenseService.Delete(user.ID, expenseID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Expense deleted successfully",
		"expense": expense,
	})
}
