package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/splitmint/backend/internal/audit"
	"github.com/splitmint/backend/internal/config"
	"github.com/splitmint/backend/internal/dto"
	"github.com/splitmint/backend/internal/models"
	"github.com/splitmint/backend/internal/validation"
)

var (
	ErrAccountExists      = errors.New("an account with this email or phone already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	db    *gorm.DB
	cfg   *config.Config
	audit *audit.Writer
}

func NewAuthService(db *gorm.DB, cfg *config.Config, auditWriter *audit.Writer) *AuthService {
	return &AuthService{db: db, cfg: cfg, audit: auditWriter}
}

func (s *AuthService) Signup(req *dto.SignupRequest) (*models.User, error) {
	if err := validateSignup(req); err != nil {
		return nil, invalid(err)
	}

	var existing models.User
	if err := s.db.Where("email = ? OR phone = ?", req.Email, req.Phone).First(&existing).Error; err == nil {
		return nil, ErrAccountExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:          uuid.New(),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		Gender:      strings.ToLower(req.Gender),
		DateOfBirth: req.DateOfBirth,
		Password:    string(hash),
	}

	if err := s.db.Create(&user).Error; err != nil {
		// The unique indexes on email/phone are the last line of defence
		// against a concurrent signup with the same identity.
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

func (s *AuthService) Login(req *dto.LoginRequest) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

func (s *AuthService) DeleteAccount(userID uuid.UUID, password string) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return ErrUserNotFound
	}

	if password == "" {
		return invalid(errors.New("password is required"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	// Hard delete; everything referencing this user keeps its soft reference.
	if err := s.db.Unscoped().Delete(&user).Error; err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	s.audit.Record(audit.Event{
		Action:      "ACCOUNT_DELETED",
		Description: "User account deleted and removed from storage",
		PerformedBy: userID,
		Meta: map[string]any{
			"name":  user.FirstName + " " + user.LastName,
			"email": user.Email,
		},
	})
	return nil
}

// GenerateToken issues the HS256 session token carried in the auth cookie.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(s.cfg.JWTExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func validateSignup(req *dto.SignupRequest) error {
	if err := validation.Name("first name", req.FirstName); err != nil {
		return err
	}
	if req.LastName != "" {
		if err := validation.Name("last name", req.LastName); err != nil {
			return err
		}
	}
	if err := validation.Email(req.Email); err != nil {
		return err
	}
	if err := validation.Phone(req.Phone); err != nil {
		return err
	}
	if err := validation.Gender(req.Gender); err != nil {
		return err
	}
	if err := validation.DateOfBirth(req.DateOfBirth); err != nil {
		return err
	}
	return validation.StrongPassword(req.Password)
}
