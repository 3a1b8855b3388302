package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dajer93/lunchplanner-api/internal/repository"
	"github.com/dajer93/lunchplanner-api/internal/services"
	"github.com/dajer93/lunchplanner-api/internal/testutil"
)

func newTestAuthService(t *testing.T) (*services.AuthService, repository.UserRepository) {
	t.Helper()

	db := testutil.NewTestDatabase(t)
	userRepo := repository.NewUserRepository(db)
	return services.NewAuthService(userRepo, "test-secret", time.Hour), userRepo
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	authService, _ := newTestAuthService(t)
	ctx := context.Background()

	user, token, err := authService.Register(ctx, "alice@example.com", "hunter2hunter2", "Alice")
	if err != nil {
		t.Fatalf("registering: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token on registration")
	}
	if user.PasswordHash == "hunter2hunter2" {
		t.Error("expected the password to be hashed")
	}

	loggedIn, loginToken, err := authService.Login(ctx, "alice@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("logging in: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, loggedIn.ID)
	}
	if loginToken == "" {
		t.Error("expected a token on login")
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	authService, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, _, err := authService.Register(ctx, "alice@example.com", "hunter2hunter2", "Alice"); err != nil {
		t.Fatalf("registering: %v", err)
	}

	// Wrong password and unknown email are indistinguishable.
	if _, _, err := authService.Login(ctx, "alice@example.com", "wrong"); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, _, err := authService.Login(ctx, "nobody@example.com", "hunter2hunter2"); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	authService, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, _, err := authService.Register(ctx, "alice@example.com", "hunter2hunter2", "Alice"); err != nil {
		t.Fatalf("registering: %v", err)
	}

	_, _, err := authService.Register(ctx, "alice@example.com", "other-password", "Imposter")
	if !errors.Is(err, repository.ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}
}

func TestAuthService_VerifyToken(t *testing.T) {
	authService, _ := newTestAuthService(t)
	ctx := context.Background()

	user, token, err := authService.Register(ctx, "alice@example.com", "hunter2hunter2", "Alice")
	if err != nil {
		t.Fatalf("registering: %v", err)
	}

	identity, err := authService.VerifyToken(token)
	if err != nil {
		t.Fatalf("verifying token: %v", err)
	}
	if identity.UserID != user.ID {
		t.Errorf("expected user id %s, got %s", user.ID, identity.UserID)
	}
	if identity.Email != "alice@example.com" {
		t.Errorf("expected email claim, got '%s'", identity.Email)
	}

	if _, err := authService.VerifyToken("not-a-token"); err == nil {
		t.Error("expected garbage to be rejected")
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	authService, _ := newTestAuthService(t)
	ctx := context.Background()

	user, _, err := authService.Register(ctx, "alice@example.com", "hunter2hunter2", "Alice")
	if err != nil {
		t.Fatalf("registering: %v", err)
	}

	if err := authService.ChangePassword(ctx, user.ID, "wrong", "new-password-1"); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong current password, got %v", err)
	}

	if err := authService.ChangePassword(ctx, user.ID, "hunter2hunter2", "new-password-1"); err != nil {
		t.Fatalf("changing password: %v", err)
	}

	if _, _, err := authService.Login(ctx, "alice@example.com", "hunter2hunter2"); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Error("expected the old password to stop working")
	}
	if _, _, err := authService.Login(ctx, "alice@example.com", "new-password-1"); err != nil {
		t.Errorf("expected the new password to work, got %v", err)
	}
}
