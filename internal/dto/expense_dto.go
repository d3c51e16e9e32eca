package dto

import (
	"github.com/google/uuid"

	"github.com/splitmint/backend/internal/models"
)

type CreateExpenseRequest struct {
	AmountCents  int64       `json:"amount_cents"`
	Description  string      `json:"description"`
	Category     string      `json:"category"`
	CreatedFor   uuid.UUID   `json:"created_for"`
	Date         string      `json:"date"`
	ReceiptImage string      `json:"receipt_image"`
	SplitWith    []uuid.UUID `json:"split_with"`
}

type UpdateExpenseRequest struct {
	AmountCents  *int64  `json:"amount_cents"`
	Description  *string `json:"description"`
	Category     *string `json:"category"`
	Date         *string `json:"date"`
	ReceiptImage *string `json:"receipt_image"`
}

// ExpenseWithSplit pairs an expense with its split record when one exists.
type ExpenseWithSplit struct {
	models.Expense
	Split *models.SplitExpense `json:"split,omitempty"`
}
