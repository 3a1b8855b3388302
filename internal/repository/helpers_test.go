package repository_test

import (
	"context"
	"testing"

	"github.com/dajer93/lunchplanner-api/internal/models"
	"github.com/dajer93/lunchplanner-api/internal/repository"
	"github.com/google/uuid"
)

func createTestUser(t *testing.T, userRepo repository.UserRepository) models.User {
	t.Helper()

	user, err := userRepo.Create(context.Background(), uuid.New().String()+"@example.com", "Test User", "hash")
	if err != nil {
		t.Fatalf("creating test user: %v", err)
	}
	return user
}
