package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/splitmint/backend/internal/audit"
	"github.com/splitmint/backend/internal/dto"
	"github.com/splitmint/backend/internal/models"
	"github.com/splitmint/backend/internal/validation"
)

var (
	ErrGroupNotFound    = errors.New("group not found")
	ErrGroupNameTaken   = errors.New("a group with this name already exists")
	ErrNotGroupMember   = errors.New("you are not a member of this group")
	ErrNotGroupCreator  = errors.New("only the group creator can do this")
	ErrCreatorImmutable = errors.New("the group creator cannot be removed")
	ErrMemberNotFound   = errors.New("user is not a member of this group")
)

type GroupService struct {
	db    *gorm.DB
	audit *audit.Writer
}

func NewGroupService(db *gorm.DB, auditWriter *audit.Writer) *GroupService {
	return &GroupService{db: db, audit: auditWriter}
}

// Get loads a live group with its member set.
func (s *GroupService) Get(groupID uuid.UUID) (*models.Group, error) {
	var group models.Group
	if err := s.db.Preload("Members").First(&group, "id = ?", groupID).Error; err != nil {
		return nil, ErrGroupNotFound
	}
	return &group, nil
}

func (s *GroupService) Create(creatorID uuid.UUID, req *dto.CreateGroupRequest) (*models.Group, error) {
	if err := validation.Name("group name", req.Name); err != nil {
		return nil, invalid(err)
	}

	var existing models.Group
	if err := s.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, ErrGroupNameTaken
	}

	memberIDs := map[uuid.UUID]bool{creatorID: true}
	for _, id := range req.MemberIDs {
		memberIDs[id] = true
	}
	var members []models.User
	ids := make([]uuid.UUID, 0, len(memberIDs))
	for id := range memberIDs {
		ids = append(ids, id)
	}
	if err := s.db.Find(&members, "id IN ?", ids).Error; err != nil {
		return nil, fmt.Errorf("failed to load initial members: %w", err)
	}
	if len(members) != len(ids) {
		return nil, invalid(errors.New("one or more initial members do not exist"))
	}

	group := models.Group{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   creatorID,
		Members:     members,
	}
	if err := s.db.Create(&group).Error; err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	s.audit.Record(audit.Event{
		Action:      "GROUP_CREATED",
		Description: "Group created successfully",
		PerformedBy: creatorID,
		Group:       &group.ID,
		Meta:        map[string]any{"name": group.Name, "member_count": len(members)},
	})
	return &group, nil
}

func (s *GroupService) ListForUser(userID uuid.UUID) ([]models.Group, error) {
	var groups []models.Group
	err := s.db.Preload("Members").
		Joins("JOIN group_members gm ON gm.group_id = groups.id").
		Where("gm.user_id = ?", userID).
		Find(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

func (s *GroupService) Update(callerID, groupID uuid.UUID, req *dto.UpdateGroupRequest) (*models.Group, error) {
	group, err := s.Get(groupID)
	if err != nil {
		return nil, err
	}
	if group.CreatedBy != callerID {
		return nil, ErrNotGroupCreator
	}

	diff := make(map[string]any)
	if req.Name != nil && *req.Name != group.Name {
		if err := validation.Name("group name", *req.Name); err != nil {
			return nil, invalid(err)
		}
		var existing models.Group
		if err := s.db.Where("name = ? AND id <> ?", *req.Name, group.ID).First(&existing).Error; err == nil {
			return nil, ErrGroupNameTaken
		}
		diff["name"] = map[string]any{"old": group.Name, "new": *req.Name}
		group.Name = *req.Name
	}
	if req.Description != nil && *req.Description != group.Description {
		diff["description"] = map[string]any{"old": group.Description, "new": *req.Description}
		group.Description = *req.Description
	}

	if len(diff) == 0 {
		return group, nil
	}

	if err := s.db.Save(group).Error; err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}

	s.audit.Record(audit.Event{
		Action:      "GROUP_UPDATED",
		Description: "Group details updated successfully",
		PerformedBy: callerID,
		Group:       &group.ID,
		Meta:        diff,
	})
	return group, nil
}

func (s *GroupService) RemoveMember(callerID, groupID, targetID uuid.UUID) (*models.Group, error) {
	group, err := s.Get(groupID)
	if err != nil {
		return nil, err
	}
	if group.CreatedBy != callerID {
		return nil, ErrNotGroupCreator
	}
	if !group.HasMember(targetID) {
		return nil, ErrMemberNotFound
	}
	if targetID == group.CreatedBy {
		return nil, ErrCreatorImmutable
	}

	if err := s.db.Model(group).Association("Members").Delete(&models.User{ID: targetID}); err != nil {
		return nil, fmt.Errorf("failed to remove member: %w", err)
	}

	s.audit.Record(audit.Event{
		Action:      "USER_REMOVED_FROM_GROUP",
		Description: "User removed from group by the creator",
		PerformedBy: callerID,
		TargetUser:  &targetID,
		Group:       &group.ID,
	})
	return s.Get(groupID)
}

// DeleteOrLeave soft-deletes the whole group when the caller is the
// creator, otherwise removes the caller from the member set. The returned
// flag reports whether the group itself was deleted.
func (s *GroupService) DeleteOrLeave(callerID, groupID uuid.UUID) (bool, error) {
	group, err := s.Get(groupID)
	if err != nil {
		return false, err
	}
	if !group.HasMember(callerID) {
		return false, ErrNotGroupMember
	}

	if callerID == group.CreatedBy {
		if err := s.db.Delete(group).Error; err != nil {
			return false, fmt.Errorf("failed to delete group: %w", err)
		}
		s.audit.Record(audit.Event{
			Action:      "GROUP_DELETED",
			Description: "Group deleted by its creator",
			PerformedBy: callerID,
			Group:       &group.ID,
			Meta:        map[string]any{"name": group.Name},
		})
		return true, nil
	}

	if err := s.db.Model(group).Association("Members").Delete(&models.User{ID: callerID}); err != nil {
		return false, fmt.Errorf("failed to leave group: %w", err)
	}
	s.audit.Record(audit.Event{
		Action:      "GROUP_LEFT",
		Description: "User left the group voluntarily",
		PerformedBy: callerID,
		Group:       &group.ID,
	})
	return false, nil
}

// addMember appends idempotently: the join table append is a no-op when
// the user is already a member, so accepting twice never duplicates.
func (s *GroupService) addMember(group *models.Group, userID uuid.UUID) error {
	if group.HasMember(userID) {
		return nil
	}
	if err := s.db.Model(group).Association("Members").Append(&models.User{ID: userID}); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}
