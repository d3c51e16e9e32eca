package services

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/splitmint/backend/internal/audit"
	"github.com/splitmint/backend/internal/dto"
	"github.com/splitmint/backend/internal/models"
)

func newInvitationFixture(t *testing.T) (*gorm.DB, *InvitationService, *models.User, *models.User, *models.Group) {
	t.Helper()

	db := newTestDB(t)
	groups := NewGroupService(db, audit.NewWriter(db))
	svc := NewInvitationService(db, groups, audit.NewWriter(db))

	alice := seedUser(t, db, "Alice", "alice@example.com", "15550000001")
	bob := seedUser(t, db, "Robert", "bob@example.com", "15550000002")
	group, err := groups.Create(alice.ID, &dto.CreateGroupRequest{Name: "Trip fund"})
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}
	return db, svc, alice, bob, group
}

func TestReviewAcceptAddsMember(t *testing.T) {
	_, svc, alice, bob, group := newInvitationFixture(t)

	invitation, err := svc.Send(alice.ID, group.ID, bob.Email)
	if err != nil {
		t.Fatalf("failed to send invitation: %v", err)
	}

	reviewed, err := svc.Review(bob.ID, invitation.ID, models.InvitationAccepted)
	if err != nil {
		t.Fatalf("failed to accept invitation: %v", err)
	}
	if reviewed.Status != models.InvitationAccepted {
		t.Fatalf("expected accepted status, got %q", reviewed.Status)
	}

	fresh, err := svc.groups.Get(group.ID)
	if err != nil {
		t.Fatalf("failed to reload group: %v", err)
	}
	if !fresh.HasMember(bob.ID) {
		t.Fatal("accepted invitee is not a member")
	}
}

func TestReviewAcceptFailureLeavesInvitationPending(t *testing.T) {
	db, svc, alice, bob, group := newInvitationFixture(t)

	invitation, err := svc.Send(alice.ID, group.ID, bob.Email)
	if err != nil {
		t.Fatalf("failed to send invitation: %v", err)
	}

	// Make the membership write fail while everything else stays healthy.
	trigger := fmt.Sprintf(
		`CREATE TRIGGER refuse_member_insert BEFORE INSERT ON group_members
		 WHEN NEW.user_id = '%s'
		 BEGIN SELECT RAISE(ABORT, 'storage unavailable'); END`, bob.ID)
	if err := db.Exec(trigger).Error; err != nil {
		t.Fatalf("failed to install trigger: %v", err)
	}

	if _, err := svc.Review(bob.ID, invitation.ID, models.InvitationAccepted); err == nil {
		t.Fatal("expected the accept to fail")
	}

	var stored models.Invitation
	if err := db.First(&stored, "id = ?", invitation.ID).Error; err != nil {
		t.Fatalf("failed to reload invitation: %v", err)
	}
	if stored.Status != models.InvitationPending {
		t.Fatalf("invitation must stay pending after a failed accept, got %q", stored.Status)
	}

	// With storage back, the same accept goes through.
	if err := db.Exec("DROP TRIGGER refuse_member_insert").Error; err != nil {
		t.Fatalf("failed to drop trigger: %v", err)
	}
	reviewed, err := svc.Review(bob.ID, invitation.ID, models.InvitationAccepted)
	if err != nil {
		t.Fatalf("retried accept failed: %v", err)
	}
	if reviewed.Status != models.InvitationAccepted {
		t.Fatalf("expected accepted status after retry, got %q", reviewed.Status)
	}
	fresh, err := svc.groups.Get(group.ID)
	if err != nil {
		t.Fatalf("failed to reload group: %v", err)
	}
	if !fresh.HasMember(bob.ID) {
		t.Fatal("invitee is not a member after the retried accept")
	}
}

func TestReviewDecidedInvitationIsFinal(t *testing.T) {
	db, svc, alice, bob, group := newInvitationFixture(t)

	invitation, err := svc.Send(alice.ID, group.ID, bob.Email)
	if err != nil {
		t.Fatalf("failed to send invitation: %v", err)
	}
	if _, err := svc.Review(bob.ID, invitation.ID, models.InvitationAccepted); err != nil {
		t.Fatalf("failed to accept invitation: %v", err)
	}

	if _, err := svc.Review(bob.ID, invitation.ID, models.InvitationAccepted); !errors.Is(err, ErrInvitationDecided) {
		t.Fatalf("expected ErrInvitationDecided on a second accept, got %v", err)
	}
	if _, err := svc.Review(bob.ID, invitation.ID, models.InvitationRejected); !errors.Is(err, ErrInvitationDecided) {
		t.Fatalf("expected ErrInvitationDecided on a late reject, got %v", err)
	}

	var rows int64
	err = db.Table("group_members").
		Where("group_id = ? AND user_id = ?", group.ID, bob.ID).
		Count(&rows).Error
	if err != nil {
		t.Fatalf("failed to count memberships: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected one membership row, got %d", rows)
	}
}

func TestReviewOnlyInvitee(t *testing.T) {
	_, svc, alice, bob, group := newInvitationFixture(t)

	invitation, err := svc.Send(alice.ID, group.ID, bob.Email)
	if err != nil {
		t.Fatalf("failed to send invitation: %v", err)
	}
	if _, err := svc.Review(alice.ID, invitation.ID, models.InvitationAccepted); !errors.Is(err, ErrNotInvitee) {
		t.Fatalf("expected ErrNotInvitee, got %v", err)
	}
}
