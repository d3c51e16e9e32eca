package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/splitmint/backend/internal/audit"
	"github.com/splitmint/backend/internal/dto"
	"github.com/splitmint/backend/internal/metrics"
	"github.com/splitmint/backend/internal/models"
	"github.com/splitmint/backend/internal/split"
	"github.com/splitmint/backend/internal/storage"
	"github.com/splitmint/backend/internal/validation"
)

var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrNotExpenseOwner = errors.New("you are not allowed to modify this expense")
)

type ExpenseService struct {
	db       *gorm.DB
	groups   *GroupService
	audit    *audit.Writer
	uploader storage.Uploader
}

func NewExpenseService(db *gorm.DB, groups *GroupService, auditWriter *audit.Writer, uploader storage.Uploader) *ExpenseService {
	return &ExpenseService{db: db, groups: groups, audit: auditWriter, uploader: uploader}
}

// Create persists a personal or group expense. For group expenses the
// amount is fanned out into per-member shares over the caller-supplied
// subset of members, or the whole member set when none is given.
//
// The expense, split and audit writes are sequential, not transactional:
// a crash between them leaves a group expense without its split record.
func (s *ExpenseService) Create(ctx context.Context, callerID uuid.UUID, groupID *uuid.UUID, req *dto.CreateExpenseRequest) (*models.Expense, *models.SplitExpense, error) {
	if err := validateExpenseCreate(req); err != nil {
		return nil, nil, invalid(err)
	}

	var group *models.Group
	if groupID != nil {
		var err error
		group, err = s.groups.Get(*groupID)
		if err != nil {
			return nil, nil, err
		}
	}

	splitMembers, err := resolveSplitMembers(group, req.SplitWith)
	if err != nil {
		return nil, nil, err
	}

	receipt := req.ReceiptImage
	if validation.IsDataURL(receipt) {
		receipt, err = s.uploader.Upload(ctx, receipt)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to upload receipt: %w", err)
		}
	}

	date := req.Date
	if date == "" {
		date = validation.Today()
	}
	category := req.Category
	if category == "" {
		category = "Miscellaneous"
	}

	expense := models.Expense{
		ID:           uuid.New(),
		AmountCents:  req.AmountCents,
		Description:  req.Description,
		Category:     category,
		Date:         date,
		CreatedBy:    callerID,
		CreatedFor:   req.CreatedFor,
		IsPersonal:   group == nil,
		GroupID:      groupID,
		ReceiptImage: receipt,
	}
	if err := s.db.Create(&expense).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create expense: %w", err)
	}

	var splitExpense *models.SplitExpense
	if group != nil {
		splitExpense, err = s.writeSplit(expense.ID, expense.AmountCents, splitMembers)
		if err != nil {
			return nil, nil, err
		}
		metrics.SplitsComputed.Inc()
	}

	kind, action, description := "personal", "PERSONAL_EXPENSE_ADDED", "Personal expense added successfully"
	if group != nil {
		kind, action, description = "group", "GROUP_EXPENSE_ADDED", "Group expense added successfully"
	}
	metrics.ExpensesCreated.WithLabelValues(kind).Inc()

	event := audit.Event{
		Action:      action,
		Description: description,
		PerformedBy: callerID,
		TargetUser:  &expense.CreatedFor,
		Group:       groupID,
		Expense:     &expense.ID,
		Meta: map[string]any{
			"amount_cents": expense.AmountCents,
			"category":     expense.Category,
		},
	}
	if splitExpense != nil {
		event.Meta["split_between"] = uuidStrings(splitExpense.MemberIDs())
	}
	s.audit.Record(event)

	return &expense, splitExpense, nil
}

// Update applies the supplied fields. The caller must be both the creator
// and the beneficiary. A group expense gets its split recomputed over the
// same member set whenever anything changed.
func (s *ExpenseService) Update(ctx context.Context, callerID, expenseID uuid.UUID, req *dto.UpdateExpenseRequest) (*models.Expense, error) {
	expense, err := s.getOwned(callerID, expenseID)
	if err != nil {
		return nil, err
	}

	if err := validateExpenseUpdate(req); err != nil {
		return nil, invalid(err)
	}

	if req.ReceiptImage != nil && validation.IsDataURL(*req.ReceiptImage) {
		url, err := s.uploader.Upload(ctx, *req.ReceiptImage)
		if err != nil {
			return nil, fmt.Errorf("failed to upload receipt: %w", err)
		}
		req.ReceiptImage = &url
	}

	diff := make(map[string]any)
	if req.AmountCents != nil && *req.AmountCents != expense.AmountCents {
		diff["amount_cents"] = map[string]any{"old": expense.AmountCents, "new": *req.AmountCents}
		expense.AmountCents = *req.AmountCents
	}
	applyString(diff, "description", &expense.Description, req.Description)
	applyString(diff, "category", &expense.Category, req.Category)
	applyString(diff, "date", &expense.Date, req.Date)
	applyString(diff, "receipt_image", &expense.ReceiptImage, req.ReceiptImage)

	if len(diff) == 0 {
		return expense, nil
	}

	if err := s.db.Save(expense).Error; err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	if !expense.IsPersonal {
		if err := s.recomputeSplit(expense); err != nil {
			return nil, err
		}
		metrics.SplitsComputed.Inc()
	}

	s.audit.Record(audit.Event{
		Action:      "EXPENSE_UPDATED",
		Description: "Expense updated successfully",
		PerformedBy: callerID,
		TargetUser:  &expense.CreatedFor,
		Group:       expense.GroupID,
		Expense:     &expense.ID,
		Meta:        diff,
	})
	return expense, nil
}

// Delete soft-deletes an expense and, for group expenses, its companion
// split record. Same dual-ownership rule as Update.
func (s *ExpenseService) Delete(callerID, expenseID uuid.UUID) (*models.Expense, error) {
	expense, err := s.getOwned(callerID, expenseID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Delete(expense).Error; err != nil {
		return nil, fmt.Errorf("failed to delete expense: %w", err)
	}

	var splitMembers []string
	if !expense.IsPersonal {
		var splitExpense models.SplitExpense
		err := s.db.Preload("Shares").First(&splitExpense, "expense_id = ?", expense.ID).Error
		switch {
		case err == nil:
			splitMembers = uuidStrings(splitExpense.MemberIDs())
			if err := s.db.Delete(&splitExpense).Error; err != nil {
				return nil, fmt.Errorf("failed to delete split record: %w", err)
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("failed to load split record: %w", err)
		}
	}

	s.audit.Record(audit.Event{
		Action:      "EXPENSE_DELETED",
		Description: "Expense deleted successfully",
		PerformedBy: callerID,
		TargetUser:  &expense.CreatedFor,
		Group:       expense.GroupID,
		Expense:     &expense.ID,
		Meta: map[string]any{
			"is_personal":   expense.IsPersonal,
			"split_between": splitMembers,
		},
	})
	return expense, nil
}

// ListPersonal returns the caller's live personal expenses.
func (s *ExpenseService) ListPersonal(callerID uuid.UUID) ([]dto.ExpenseWithSplit, error) {
	var expenses []models.Expense
	err := s.db.Where("created_for = ? AND is_personal = true", callerID).
		Order("date DESC").Find(&expenses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list personal expenses: %w", err)
	}
	return s.withSplits(expenses)
}

// ListGroup returns a group's live expenses; the caller must be a member.
func (s *ExpenseService) ListGroup(callerID, groupID uuid.UUID) ([]dto.ExpenseWithSplit, error) {
	group, err := s.groups.Get(groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(callerID) {
		return nil, ErrGroupNotFound
	}

	var expenses []models.Expense
	err = s.db.Where("group_id = ? AND is_personal = false", groupID).
		Order("date DESC").Find(&expenses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list group expenses: %w", err)
	}
	return s.withSplits(expenses)
}

func (s *ExpenseService) getOwned(callerID, expenseID uuid.UUID) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.First(&expense, "id = ?", expenseID).Error; err != nil {
		return nil, ErrExpenseNotFound
	}
	if expense.CreatedBy != callerID || expense.CreatedFor != callerID {
		return nil, ErrNotExpenseOwner
	}
	return &expense, nil
}

func (s *ExpenseService) writeSplit(expenseID uuid.UUID, amountCents int64, members []uuid.UUID) (*models.SplitExpense, error) {
	shares, err := split.Even(amountCents, members)
	if err != nil {
		return nil, invalid(err)
	}

	splitExpense := models.SplitExpense{
		ID:        uuid.New(),
		ExpenseID: expenseID,
	}
	for _, sh := range shares {
		splitExpense.Shares = append(splitExpense.Shares, models.SplitShare{
			UserID:      sh.UserID,
			AmountCents: sh.AmountCents,
		})
	}
	if err := s.db.Create(&splitExpense).Error; err != nil {
		return nil, fmt.Errorf("failed to create split record: %w", err)
	}
	return &splitExpense, nil
}

// recomputeSplit overwrites the shares of an existing split record using
// its current member set and the expense's current amount.
func (s *ExpenseService) recomputeSplit(expense *models.Expense) error {
	var splitExpense models.SplitExpense
	if err := s.db.Preload("Shares").First(&splitExpense, "expense_id = ?", expense.ID).Error; err != nil {
		return fmt.Errorf("split record missing for expense %s: %w", expense.ID, err)
	}

	shares, err := split.Even(expense.AmountCents, splitExpense.MemberIDs())
	if err != nil {
		return invalid(err)
	}

	if err := s.db.Where("split_expense_id = ?", splitExpense.ID).Delete(&models.SplitShare{}).Error; err != nil {
		return fmt.Errorf("failed to clear split shares: %w", err)
	}
	rows := make([]models.SplitShare, len(shares))
	for i, sh := range shares {
		rows[i] = models.SplitShare{
			SplitExpenseID: splitExpense.ID,
			UserID:         sh.UserID,
			AmountCents:    sh.AmountCents,
		}
	}
	if err := s.db.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to write split shares: %w", err)
	}
	return nil
}

func (s *ExpenseService) withSplits(expenses []models.Expense) ([]dto.ExpenseWithSplit, error) {
	out := make([]dto.ExpenseWithSplit, len(expenses))
	if len(expenses) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, len(expenses))
	for i, e := range expenses {
		ids[i] = e.ID
		out[i] = dto.ExpenseWithSplit{Expense: e}
	}

	var splits []models.SplitExpense
	if err := s.db.Preload("Shares").Where("expense_id IN ?", ids).Find(&splits).Error; err != nil {
		return nil, fmt.Errorf("failed to load split records: %w", err)
	}
	byExpense := make(map[uuid.UUID]*models.SplitExpense, len(splits))
	for i := range splits {
		byExpense[splits[i].ExpenseID] = &splits[i]
	}
	for i := range out {
		out[i].Split = byExpense[out[i].Expense.ID]
	}
	return out, nil
}

// resolveSplitMembers picks the split member set for a group expense: the
// caller-supplied subset (validated against actual membership) or the
// whole member set. Personal expenses resolve to nil.
func resolveSplitMembers(group *models.Group, splitWith []uuid.UUID) ([]uuid.UUID, error) {
	if group == nil {
		return nil, nil
	}
	if len(splitWith) == 0 {
		return group.MemberIDs(), nil
	}

	seen := make(map[uuid.UUID]bool, len(splitWith))
	members := make([]uuid.UUID, 0, len(splitWith))
	for _, id := range splitWith {
		if seen[id] {
			continue
		}
		seen[id] = true
		if !group.HasMember(id) {
			return nil, invalid(fmt.Errorf("user %s is not a member of the group", id))
		}
		members = append(members, id)
	}
	return members, nil
}

func validateExpenseCreate(req *dto.CreateExpenseRequest) error {
	if err := validation.Amount(req.AmountCents); err != nil {
		return err
	}
	if err := validation.Description(req.Description); err != nil {
		return err
	}
	if req.Category != "" {
		if err := validation.Category(req.Category); err != nil {
			return err
		}
	}
	if req.CreatedFor == uuid.Nil {
		return errors.New("created_for user is required")
	}
	if req.Date != "" {
		if err := validation.Date(req.Date); err != nil {
			return err
		}
	}
	if req.ReceiptImage != "" {
		if err := validation.ImageRef(req.ReceiptImage); err != nil {
			return err
		}
	}
	return nil
}

func validateExpenseUpdate(req *dto.UpdateExpenseRequest) error {
	if req.AmountCents != nil {
		if err := validation.Amount(*req.AmountCents); err != nil {
			return err
		}
	}
	if req.Description != nil {
		if err := validation.Description(*req.Description); err != nil {
			return err
		}
	}
	if req.Category != nil {
		if err := validation.Category(*req.Category); err != nil {
			return err
		}
	}
	if req.Date != nil {
		if err := validation.Date(*req.Date); err != nil {
			return err
		}
	}
	if req.ReceiptImage != nil && *req.ReceiptImage != "" {
		if err := validation.ImageRef(*req.ReceiptImage); err != nil {
			return err
		}
	}
	return nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
