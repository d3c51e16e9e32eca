package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/splitmint/backend/internal/audit"
	"github.com/splitmint/backend/internal/metrics"
	"github.com/splitmint/backend/internal/models"
)

var (
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInviteeNotFound    = errors.New("invited user not found")
	ErrAlreadyMember      = errors.New("user is already a member of this group")
	ErrInvitePending      = errors.New("user already has a pending invitation for this group")
	ErrInvitationDecided  = errors.New("invitation has already been decided")
	ErrNotInvitee         = errors.New("only the invited user can review this invitation")
	ErrNotInviter         = errors.New("only the inviting user can cancel this invitation")
)

type InvitationService struct {
	db     *gorm.DB
	groups *GroupService
	audit  *audit.Writer
}

func NewInvitationService(db *gorm.DB, groups *GroupService, auditWriter *audit.Writer) *InvitationService {
	return &InvitationService{db: db, groups: groups, audit: auditWriter}
}

// Send creates a pending invitation. Only the group creator may invite;
// the invitee must exist, must not be a member yet, and must not already
// hold a live pending invitation for the group.
func (s *InvitationService) Send(inviterID, groupID uuid.UUID, inviteeEmail string) (*models.Invitation, error) {
	group, err := s.groups.Get(groupID)
	if err != nil {
		return nil, err
	}
	if group.CreatedBy != inviterID {
		return nil, ErrNotGroupCreator
	}

	var invitee models.User
	if err := s.db.Where("email = ?", inviteeEmail).First(&invitee).Error; err != nil {
		return nil, ErrInviteeNotFound
	}
	if group.HasMember(invitee.ID) {
		return nil, ErrAlreadyMember
	}

	var pending models.Invitation
	err = s.db.Where("group_id = ? AND invited_to = ? AND status = ?",
		groupID, invitee.ID, models.InvitationPending).First(&pending).Error
	if err == nil {
		return nil, ErrInvitePending
	}

	invitation := models.Invitation{
		ID:        uuid.New(),
		GroupID:   groupID,
		InvitedBy: inviterID,
		InvitedTo: invitee.ID,
		Status:    models.InvitationPending,
	}
	if err := s.db.Create(&invitation).Error; err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	s.audit.Record(audit.Event{
		Action:      "USER_INVITED_TO_GROUP",
		Description: "User invited to join the group",
		PerformedBy: inviterID,
		TargetUser:  &invitee.ID,
		Group:       &groupID,
		Meta:        map[string]any{"invitee_email": invitee.Email},
	})
	return &invitation, nil
}

// Review lets the invitee accept or reject their own pending invitation.
// Accepting also adds them to the group's member set.
func (s *InvitationService) Review(callerID, invitationID uuid.UUID, to models.InvitationStatus) (*models.Invitation, error) {
	if to != models.InvitationAccepted && to != models.InvitationRejected {
		return nil, invalid(fmt.Errorf("status must be %q or %q", models.InvitationAccepted, models.InvitationRejected))
	}

	var invitation models.Invitation
	if err := s.db.First(&invitation, "id = ?", invitationID).Error; err != nil {
		return nil, ErrInvitationNotFound
	}
	if invitation.InvitedTo != callerID {
		return nil, ErrNotInvitee
	}
	if !invitation.Status.CanTransition(to) {
		return nil, ErrInvitationDecided
	}

	group, err := s.groups.Get(invitation.GroupID)
	if err != nil {
		return nil, err
	}

	// Membership before status: a failed append leaves the invitation
	// pending and the accept retryable, while the idempotent append makes
	// a retried accept safe after the membership write succeeded.
	action := "USER_REJECTED_GROUP_INVITATION"
	description := "Group invitation rejected by the invited user"
	if to == models.InvitationAccepted {
		if err := s.groups.addMember(group, callerID); err != nil {
			return nil, err
		}
		action = "USER_ACCEPTED_GROUP_INVITATION"
		description = "Group invitation accepted by the invited user"
	}

	invitation.Status = to
	if err := s.db.Save(&invitation).Error; err != nil {
		return nil, fmt.Errorf("failed to update invitation: %w", err)
	}
	metrics.InvitationsDecided.WithLabelValues(string(to)).Inc()

	s.audit.Record(audit.Event{
		Action:      action,
		Description: description,
		PerformedBy: callerID,
		TargetUser:  &invitation.InvitedBy,
		Group:       &invitation.GroupID,
	})
	return &invitation, nil
}

// Cancel withdraws a pending invitation; only the inviter may do it.
func (s *InvitationService) Cancel(callerID, invitationID uuid.UUID) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := s.db.First(&invitation, "id = ?", invitationID).Error; err != nil {
		return nil, ErrInvitationNotFound
	}
	if invitation.InvitedBy != callerID {
		return nil, ErrNotInviter
	}
	if !invitation.Status.CanTransition(models.InvitationCancelled) {
		return nil, ErrInvitationDecided
	}

	invitation.Status = models.InvitationCancelled
	if err := s.db.Save(&invitation).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel invitation: %w", err)
	}
	metrics.InvitationsDecided.WithLabelValues(string(models.InvitationCancelled)).Inc()

	s.audit.Record(audit.Event{
		Action:      "INVITATION_CANCELLED",
		Description: "Group invitation cancelled by the inviter",
		PerformedBy: callerID,
		TargetUser:  &invitation.InvitedTo,
		Group:       &invitation.GroupID,
	})
	return &invitation, nil
}

// ListReceived returns every invitation addressed to the user. An empty
// result is a success, not an error.
func (s *InvitationService) ListReceived(userID uuid.UUID) ([]models.Invitation, error) {
	var invitations []models.Invitation
	if err := s.db.Where("invited_to = ?", userID).Order("created_at DESC").Find(&invitations).Error; err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	return invitations, nil
}

// ListSent returns the group's pending invitations; creator-only.
func (s *InvitationService) ListSent(callerID, groupID uuid.UUID) ([]models.Invitation, error) {
	group, err := s.groups.Get(groupID)
	if err != nil {
		return nil, err
	}
	if group.CreatedBy != callerID {
		return nil, ErrNotGroupCreator
	}

	var invitations []models.Invitation
	err = s.db.Where("group_id = ? AND status = ?", groupID, models.InvitationPending).
		Order("created_at DESC").Find(&invitations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	return invitations, nil
}
