package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/splitmint/backend/internal/audit"
	"github.com/splitmint/backend/internal/dto"
	"github.com/splitmint/backend/internal/models"
	"github.com/splitmint/backend/internal/storage"
)

func newExpenseFixture(t *testing.T) (*gorm.DB, *ExpenseService, *models.User, *models.User) {
	t.Helper()

	db := newTestDB(t)
	groups := NewGroupService(db, audit.NewWriter(db))
	svc := NewExpenseService(db, groups, audit.NewWriter(db), storage.NewDisk(t.TempDir(), "/uploads"))

	alice := seedUser(t, db, "Alice", "alice@example.com", "15550000001")
	bob := seedUser(t, db, "Robert", "bob@example.com", "15550000002")
	return db, svc, alice, bob
}

func personalExpense(userID uuid.UUID) *dto.CreateExpenseRequest {
	return &dto.CreateExpenseRequest{
		AmountCents: 1250,
		Description: "Weekly groceries run",
		Category:    "Groceries",
		CreatedFor:  userID,
	}
}

func TestExpenseMutationByNonOwner(t *testing.T) {
	_, svc, alice, bob := newExpenseFixture(t)

	expense, _, err := svc.Create(context.Background(), alice.ID, nil, personalExpense(alice.ID))
	if err != nil {
		t.Fatalf("failed to create expense: %v", err)
	}

	newDesc := "Adjusted by someone else"
	if _, err := svc.Update(context.Background(), bob.ID, expense.ID, &dto.UpdateExpenseRequest{Description: &newDesc}); !errors.Is(err, ErrNotExpenseOwner) {
		t.Fatalf("expected ErrNotExpenseOwner on update, got %v", err)
	}
	if _, err := svc.Delete(bob.ID, expense.ID); !errors.Is(err, ErrNotExpenseOwner) {
		t.Fatalf("expected ErrNotExpenseOwner on delete, got %v", err)
	}

	// The refused mutations must not have touched the row.
	var stored models.Expense
	if err := svc.db.First(&stored, "id = ?", expense.ID).Error; err != nil {
		t.Fatalf("expense disappeared after refused mutations: %v", err)
	}
	if stored.Description != "Weekly groceries run" {
		t.Fatalf("description changed to %q", stored.Description)
	}
}

func TestGroupExpenseSplitLifecycle(t *testing.T) {
	db, svc, alice, bob := newExpenseFixture(t)

	group, err := svc.groups.Create(alice.ID, &dto.CreateGroupRequest{
		Name:      "Trip fund",
		MemberIDs: []uuid.UUID{bob.ID},
	})
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	req := personalExpense(alice.ID)
	req.AmountCents = 1001
	expense, splitExpense, err := svc.Create(context.Background(), alice.ID, &group.ID, req)
	if err != nil {
		t.Fatalf("failed to create group expense: %v", err)
	}
	if splitExpense == nil {
		t.Fatal("group expense created without a split record")
	}
	if len(splitExpense.Shares) != 2 {
		t.Fatalf("expected 2 shares, got %d", len(splitExpense.Shares))
	}
	var total int64
	for _, sh := range splitExpense.Shares {
		total += sh.AmountCents
	}
	if total != 1001 {
		t.Fatalf("shares sum to %d, want 1001", total)
	}

	if _, err := svc.Delete(alice.ID, expense.ID); err != nil {
		t.Fatalf("failed to delete group expense: %v", err)
	}
	if err := db.First(&models.Expense{}, "id = ?", expense.ID).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expense still live after delete: %v", err)
	}
	if err := db.First(&models.SplitExpense{}, "expense_id = ?", expense.ID).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("split record still live after expense delete: %v", err)
	}
}

func TestGroupExpenseSplitSubsetMustBeMembers(t *testing.T) {
	_, svc, alice, _ := newExpenseFixture(t)

	group, err := svc.groups.Create(alice.ID, &dto.CreateGroupRequest{Name: "Trip fund"})
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	req := personalExpense(alice.ID)
	req.SplitWith = []uuid.UUID{uuid.New()}
	if _, _, err := svc.Create(context.Background(), alice.ID, &group.ID, req); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected a validation error for a non-member split target, got %v", err)
	}
}
