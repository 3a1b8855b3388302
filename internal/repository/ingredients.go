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

type IngredientRepository interface {
	Create(ctx context.Context, userID, name string) (models.Ingredient, error)
	Find(ctx context.Context, id, userID string) (models.Ingredient, error)
	FindByOwner(ctx context.Context, userID string) ([]models.Ingredient, error)
	Update(ctx context.Context, id, userID, name string) (models.Ingredient, error)
	Delete(ctx context.Context, id, userID string) error
}

type SQLiteIngredientRepository struct {
	database *sql.DB
}

func NewIngredientRepository(database *sql.DB) *SQLiteIngredientRepository {
	return &SQLiteIngredientRepository{database: database}
}

func (repository *SQLiteIngredientRepository) Create(ctx context.Context, userID, name string) (models.Ingredient, error) {
	now := time.Now()
	ingredient := models.Ingredient{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO ingredients (id, user_id, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		ingredient.ID, ingredient.UserID, ingredient.Name, ingredient.CreatedAt, ingredient.UpdatedAt,
	)
	if err != nil {
		return models.Ingredient{}, fmt.Errorf("creating ingredient: %w", err)
	}
	return ingredient, nil
}

func (repository *SQLiteIngredientRepository) findByID(ctx context.Context, id string) (models.Ingredient, error) {
	var ingredient models.Ingredient
	err := repository.database.QueryRowContext(ctx,
		"SELECT id, user_id, name, created_at, updated_at FROM ingredients WHERE id = ?", id,
	).Scan(&ingredient.ID, &ingredient.UserID, &ingredient.Name, &ingredient.CreatedAt, &ingredient.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Ingredient{}, ErrNotFound
	}
	if err != nil {
		return models.Ingredient{}, fmt.Errorf("finding ingredient by id: %w", err)
	}
	return ingredient, nil
}

func (repository *SQLiteIngredientRepository) Find(ctx context.Context, id, userID string) (models.Ingredient, error) {
	ingredient, err := repository.findByID(ctx, id)
	if err != nil {
		return models.Ingredient{}, err
	}
	if err := authorizeOwner(ingredient.UserID, userID); err != nil {
		return models.Ingredient{}, err
	}
	return ingredient, nil
}

func (repository *SQLiteIngredientRepository) FindByOwner(ctx context.Context, userID string) ([]models.Ingredient, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT id, user_id, name, created_at, updated_at FROM ingredients WHERE user_id = ? ORDER BY created_at ASC", userID,
	)
	if err != nil {
		return nil, fmt.Errorf("finding ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []models.Ingredient
	for rows.Next() {
		var ingredient models.Ingredient
		if err := rows.Scan(&ingredient.ID, &ingredient.UserID, &ingredient.Name, &ingredient.CreatedAt, &ingredient.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning ingredient: %w", err)
		}
		ingredients = append(ingredients, ingredient)
	}
	return ingredients, rows.Err()
}

// Update replaces the name only. The id and owning user are not part of
// the update statement, so a payload can never move an ingredient to a
// different user.
func (repository *SQLiteIngredientRepository) Update(ctx context.Context, id, userID, name string) (models.Ingredient, error) {
	ingredient, err := repository.findByID(ctx, id)
	if err != nil {
		return models.Ingredient{}, err
	}
	if err := authorizeOwner(ingredient.UserID, userID); err != nil {
		return models.Ingredient{}, err
	}

	ingredient.Name = name
	ingredient.UpdatedAt = time.Now()

	_, err = repository.database.ExecContext(ctx,
		"UPDATE ingredients SET name = ?, updated_at = ? WHERE id = ?",
		ingredient.Name, ingredient.UpdatedAt, ingredient.ID,
	)
	if err != nil {
		return models.Ingredient{}, fmt.Errorf("updating ingredient: %w", err)
	}
	return ingredient, nil
}

func (repository *SQLiteIngredientRepository) Delete(ctx context.Context, id, userID string) error {
	ingredient, err := repository.findByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeOwner(ingredient.UserID, userID); err != nil {
		return err
	}

	// Meals referencing this ingredient keep their copy of the id and
	// name; the reference simply dangles.
	_, err = repository.database.ExecContext(ctx, "DELETE FROM ingredients WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting ingredient: %w", err)
	}
	return nil
}
