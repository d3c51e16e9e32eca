package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/splitmint/backend/internal/audit"
	"github.com/splitmint/backend/internal/dto"
	"github.com/splitmint/backend/internal/models"
)

func newGroupFixture(t *testing.T) (*gorm.DB, *GroupService, *models.User, *models.User) {
	t.Helper()

	db := newTestDB(t)
	svc := NewGroupService(db, audit.NewWriter(db))
	alice := seedUser(t, db, "Alice", "alice@example.com", "15550000001")
	bob := seedUser(t, db, "Robert", "bob@example.com", "15550000002")
	return db, svc, alice, bob
}

func TestCreateGroupUnknownInitialMember(t *testing.T) {
	_, svc, alice, _ := newGroupFixture(t)

	_, err := svc.Create(alice.ID, &dto.CreateGroupRequest{
		Name:      "Trip fund",
		MemberIDs: []uuid.UUID{uuid.New()},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected a validation error for an unknown member, got %v", err)
	}
}

func TestRemoveMemberCreatorImmutable(t *testing.T) {
	_, svc, alice, bob := newGroupFixture(t)

	group, err := svc.Create(alice.ID, &dto.CreateGroupRequest{
		Name:      "Trip fund",
		MemberIDs: []uuid.UUID{bob.ID},
	})
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	if _, err := svc.RemoveMember(alice.ID, group.ID, alice.ID); !errors.Is(err, ErrCreatorImmutable) {
		t.Fatalf("expected ErrCreatorImmutable, got %v", err)
	}
	fresh, err := svc.Get(group.ID)
	if err != nil {
		t.Fatalf("failed to reload group: %v", err)
	}
	if !fresh.HasMember(alice.ID) {
		t.Fatal("creator lost membership after the refused removal")
	}

	updated, err := svc.RemoveMember(alice.ID, group.ID, bob.ID)
	if err != nil {
		t.Fatalf("failed to remove a regular member: %v", err)
	}
	if updated.HasMember(bob.ID) {
		t.Fatal("removed member still present")
	}

	if _, err := svc.RemoveMember(alice.ID, group.ID, bob.ID); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound for a non-member, got %v", err)
	}
}

func TestAddMemberIdempotent(t *testing.T) {
	db, svc, alice, bob := newGroupFixture(t)

	group, err := svc.Create(alice.ID, &dto.CreateGroupRequest{Name: "Trip fund"})
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	// Append twice through a stale snapshot that never sees bob; the join
	// table write itself must stay single.
	for i := 0; i < 2; i++ {
		stale, err := svc.Get(group.ID)
		if err != nil {
			t.Fatalf("failed to load group: %v", err)
		}
		stale.Members = []models.User{{ID: alice.ID}}
		if err := svc.addMember(stale, bob.ID); err != nil {
			t.Fatalf("append %d failed: %v", i+1, err)
		}
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

func TestDeleteOrLeave(t *testing.T) {
	_, svc, alice, bob := newGroupFixture(t)

	group, err := svc.Create(alice.ID, &dto.CreateGroupRequest{
		Name:      "Trip fund",
		MemberIDs: []uuid.UUID{bob.ID},
	})
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	deleted, err := svc.DeleteOrLeave(bob.ID, group.ID)
	if err != nil {
		t.Fatalf("member could not leave: %v", err)
	}
	if deleted {
		t.Fatal("a leaving member must not delete the group")
	}

	deleted, err = svc.DeleteOrLeave(alice.ID, group.ID)
	if err != nil {
		t.Fatalf("creator could not delete: %v", err)
	}
	if !deleted {
		t.Fatal("creator departure must delete the group")
	}
	if _, err := svc.Get(group.ID); !errors.Is(err, ErrGroupNotFound) {
		t.Fatalf("expected the deleted group to be gone, got %v", err)
	}
}
