package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dajer93/lunchplanner-api/internal/models"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, email, name, passwordHash string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	UpdateName(ctx context.Context, id, name string) (models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
}

type SQLiteUserRepository struct {
	database *sql.DB
}

func NewUserRepository(database *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{database: database}
}

func (repository *SQLiteUserRepository) Create(ctx context.Context, email, name, passwordHash string) (models.User, error) {
	// Email uniqueness is enforced here before the insert; the UNIQUE
	// index on users.email is only a backstop.
	if _, err := repository.FindByEmail(ctx, email); err == nil {
		return models.User{}, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return models.User{}, err
	}

	now := time.Now()
	user := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO users (id, email, name, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		user.ID, user.Email, user.Name, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return models.User{}, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

func (repository *SQLiteUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := repository.database.QueryRowContext(ctx,
		"SELECT id, email, name, password_hash, created_at, updated_at FROM users WHERE id = ?", id,
	).Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("finding user by id: %w", err)
	}
	return user, nil
}

func (repository *SQLiteUserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := repository.database.QueryRowContext(ctx,
		"SELECT id, email, name, password_hash, created_at, updated_at FROM users WHERE email = ?", email,
	).Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("finding user by email: %w", err)
	}
	return user, nil
}

func (repository *SQLiteUserRepository) UpdateName(ctx context.Context, id, name string) (models.User, error) {
	user, err := repository.FindByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	user.Name = name
	user.UpdatedAt = time.Now()

	_, err = repository.database.ExecContext(ctx,
		"UPDATE users SET name = ?, updated_at = ? WHERE id = ?",
		user.Name, user.UpdatedAt, user.ID,
	)
	if err != nil {
		return models.User{}, fmt.Errorf("updating user name: %w", err)
	}
	return user, nil
}

func (repository *SQLiteUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if _, err := repository.FindByID(ctx, id); err != nil {
		return err
	}

	_, err := repository.database.ExecContext(ctx,
		"UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?",
		passwordHash, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}

func (repository *SQLiteUserRepository) Delete(ctx context.Context, id string) error {
	// Owned ingredients, meals and plan days are deliberately left in
	// place; nothing cascades.
	_, err := repository.database.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}
