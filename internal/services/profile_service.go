package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/splitmint/backend/internal/audit"
	"github.com/splitmint/backend/internal/dto"
	"github.com/splitmint/backend/internal/models"
	"github.com/splitmint/backend/internal/storage"
	"github.com/splitmint/backend/internal/validation"
)

type ProfileService struct {
	db       *gorm.DB
	audit    *audit.Writer
	uploader storage.Uploader
}

func NewProfileService(db *gorm.DB, auditWriter *audit.Writer, uploader storage.Uploader) *ProfileService {
	return &ProfileService{db: db, audit: auditWriter, uploader: uploader}
}

func (s *ProfileService) Get(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// Update applies the supplied fields only, recording an {old,new} pair per
// changed field in the audit metadata. An inline base64 avatar is uploaded
// and replaced by its URL before anything is persisted.
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	if err := validateProfileUpdate(req); err != nil {
		return nil, invalid(err)
	}

	if req.Avatar != nil && validation.IsDataURL(*req.Avatar) {
		url, err := s.uploader.Upload(ctx, *req.Avatar)
		if err != nil {
			return nil, fmt.Errorf("failed to upload avatar: %w", err)
		}
		req.Avatar = &url
	}

	diff := make(map[string]any)
	applyString(diff, "first_name", &user.FirstName, req.FirstName)
	applyString(diff, "last_name", &user.LastName, req.LastName)
	if req.Gender != nil {
		lowered := strings.ToLower(*req.Gender)
		applyString(diff, "gender", &user.Gender, &lowered)
	}
	applyString(diff, "date_of_birth", &user.DateOfBirth, req.DateOfBirth)
	applyString(diff, "occupation", &user.Occupation, req.Occupation)
	applyString(diff, "avatar_url", &user.AvatarURL, req.Avatar)
	if req.IncomeCents != nil && *req.IncomeCents != user.IncomeCents {
		diff["income_cents"] = map[string]any{"old": user.IncomeCents, "new": *req.IncomeCents}
		user.IncomeCents = *req.IncomeCents
	}

	if len(diff) == 0 {
		return user, nil
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.audit.Record(audit.Event{
		Action:      "PROFILE_UPDATED",
		Description: "User profile updated successfully",
		PerformedBy: userID,
		Meta:        diff,
	})
	return user, nil
}

func applyString(diff map[string]any, field string, dst *string, src *string) {
	if src == nil || *src == *dst {
		return
	}
	diff[field] = map[string]any{"old": *dst, "new": *src}
	*dst = *src
}

func validateProfileUpdate(req *dto.UpdateProfileRequest) error {
	if req.FirstName != nil {
		if err := validation.Name("first name", *req.FirstName); err != nil {
			return err
		}
	}
	if req.LastName != nil {
		if err := validation.Name("last name", *req.LastName); err != nil {
			return err
		}
	}
	if req.Gender != nil {
		if err := validation.Gender(*req.Gender); err != nil {
			return err
		}
	}
	if req.DateOfBirth != nil {
		if err := validation.DateOfBirth(*req.DateOfBirth); err != nil {
			return err
		}
	}
	if req.IncomeCents != nil && *req.IncomeCents < 0 {
		return errors.New("income cannot be negative")
	}
	if req.Avatar != nil {
		if err := validation.ImageRef(*req.Avatar); err != nil {
			return err
		}
	}
	return nil
}
