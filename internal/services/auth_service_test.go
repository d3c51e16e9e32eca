package services

import (
	"errors"
	"testing"
	"time"

	"github.com/splitmint/backend/internal/audit"
	"github.com/splitmint/backend/internal/config"
	"github.com/splitmint/backend/internal/dto"
	"github.com/splitmint/backend/internal/models"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()

	db := newTestDB(t)
	return NewAuthService(db, &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}, audit.NewWriter(db))
}

func signupRequest() *dto.SignupRequest {
	return &dto.SignupRequest{
		FirstName:   "Alice",
		LastName:    "Stone",
		Email:       "alice@example.com",
		Phone:       "15550000001",
		Gender:      "female",
		DateOfBirth: "1990-04-12",
		Password:    "Sup3r$ecretPass",
	}
}

func TestSignupAndLogin(t *testing.T) {
	svc := newAuthService(t)

	user, err := svc.Signup(signupRequest())
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if user.Password == "Sup3r$ecretPass" {
		t.Fatal("password stored in clear text")
	}

	if _, err := svc.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "Sup3r$ecretPass"}); err != nil {
		t.Fatalf("login with correct credentials failed: %v", err)
	}
	if _, err := svc.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "wrong-Pass1!"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignupEmailConflict(t *testing.T) {
	svc := newAuthService(t)

	if _, err := svc.Signup(signupRequest()); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	second := signupRequest()
	second.Phone = "15550000002"
	if _, err := svc.Signup(second); !errors.Is(err, ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
}

func TestSignupPhoneConflictCreatesNoRow(t *testing.T) {
	svc := newAuthService(t)

	if _, err := svc.Signup(signupRequest()); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}

	// Same phone, fresh email: the signup must be refused before any write.
	second := signupRequest()
	second.FirstName = "Amelia"
	second.Email = "amelia@example.com"
	if _, err := svc.Signup(second); !errors.Is(err, ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}

	var count int64
	if err := svc.db.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one user row after the refused signup, got %d", count)
	}
}
