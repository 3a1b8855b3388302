package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dajer93/lunchplanner-api/internal/models"
	"github.com/google/uuid"
)

type MealRepository interface {
	Create(ctx context.Context, userID, title string, ingredients []models.MealIngredient) (models.Meal, error)
	Find(ctx context.Context, id, userID string) (models.Meal, error)
	FindByID(ctx context.Context, id string) (models.Meal, error)
	FindByOwner(ctx context.Context, userID string) ([]models.Meal, error)
	Update(ctx context.Context, id, userID, title string, ingredients []models.MealIngredient) (models.Meal, error)
	Delete(ctx context.Context, id, userID string) error
}

type SQLiteMealRepository struct {
	database *sql.DB
}

func NewMealRepository(database *sql.DB) *SQLiteMealRepository {
	return &SQLiteMealRepository{database: database}
}

func (repository *SQLiteMealRepository) Create(ctx context.Context, userID, title string, ingredients []models.MealIngredient) (models.Meal, error) {
	now := time.Now()
	meal := models.Meal{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Ingredients: ingredients,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ingredientsJSON, err := json.Marshal(meal.Ingredients)
	if err != nil {
		return models.Meal{}, fmt.Errorf("marshalling ingredients: %w", err)
	}

	_, err = repository.database.ExecContext(ctx,
		"INSERT INTO meals (id, user_id, title, ingredients, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		meal.ID, meal.UserID, meal.Title, string(ingredientsJSON), meal.CreatedAt, meal.UpdatedAt,
	)
	if err != nil {
		return models.Meal{}, fmt.Errorf("creating meal: %w", err)
	}
	return meal, nil
}

// FindByID skips the ownership guard. It exists for the shopping-list
// aggregator, which resolves meal ids recorded on the caller's own plan
// days; handler-facing reads go through Find.
func (repository *SQLiteMealRepository) FindByID(ctx context.Context, id string) (models.Meal, error) {
	var meal models.Meal
	var ingredientsJSON string
	err := repository.database.QueryRowContext(ctx,
		"SELECT id, user_id, title, ingredients, created_at, updated_at FROM meals WHERE id = ?", id,
	).Scan(&meal.ID, &meal.UserID, &meal.Title, &ingredientsJSON, &meal.CreatedAt, &meal.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Meal{}, ErrNotFound
	}
	if err != nil {
		return models.Meal{}, fmt.Errorf("finding meal by id: %w", err)
	}
	if err := json.Unmarshal([]byte(ingredientsJSON), &meal.Ingredients); err != nil {
		return models.Meal{}, fmt.Errorf("unmarshalling ingredients: %w", err)
	}
	return meal, nil
}

func (repository *SQLiteMealRepository) Find(ctx context.Context, id, userID string) (models.Meal, error) {
	meal, err := repository.FindByID(ctx, id)
	if err != nil {
		return models.Meal{}, err
	}
	if err := authorizeOwner(meal.UserID, userID); err != nil {
		return models.Meal{}, err
	}
	return meal, nil
}

func (repository *SQLiteMealRepository) FindByOwner(ctx context.Context, userID string) ([]models.Meal, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT id, user_id, title, ingredients, created_at, updated_at FROM meals WHERE user_id = ? ORDER BY created_at ASC", userID,
	)
	if err != nil {
		return nil, fmt.Errorf("finding meals: %w", err)
	}
	defer rows.Close()

	var meals []models.Meal
	for rows.Next() {
		var meal models.Meal
		var ingredientsJSON string
		if err := rows.Scan(&meal.ID, &meal.UserID, &meal.Title, &ingredientsJSON, &meal.CreatedAt, &meal.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning meal: %w", err)
		}
		if err := json.Unmarshal([]byte(ingredientsJSON), &meal.Ingredients); err != nil {
			return nil, fmt.Errorf("unmarshalling ingredients: %w", err)
		}
		meals = append(meals, meal)
	}
	return meals, rows.Err()
}

// Update full-replaces the two mutable fields, title and ingredients.
// The id and owning user never appear in the update statement.
func (repository *SQLiteMealRepository) Update(ctx context.Context, id, userID, title string, ingredients []models.MealIngredient) (models.Meal, error) {
	meal, err := repository.FindByID(ctx, id)
	if err != nil {
		return models.Meal{}, err
	}
	if err := authorizeOwner(meal.UserID, userID); err != nil {
		return models.Meal{}, err
	}

	meal.Title = title
	meal.Ingredients = ingredients
	meal.UpdatedAt = time.Now()

	ingredientsJSON, err := json.Marshal(meal.Ingredients)
	if err != nil {
		return models.Meal{}, fmt.Errorf("marshalling ingredients: %w", err)
	}

	_, err = repository.database.ExecContext(ctx,
		"UPDATE meals SET title = ?, ingredients = ?, updated_at = ? WHERE id = ?",
		meal.Title, string(ingredientsJSON), meal.UpdatedAt, meal.ID,
	)
	if err != nil {
		return models.Meal{}, fmt.Errorf("updating meal: %w", err)
	}
	return meal, nil
}

func (repository *SQLiteMealRepository) Delete(ctx context.Context, id, userID string) error {
	meal, err := repository.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeOwner(meal.UserID, userID); err != nil {
		return err
	}

	// Plan days referencing this meal are not touched; the aggregator
	// skips ids it cannot resolve.
	_, err = repository.database.ExecContext(ctx, "DELETE FROM meals WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting meal: %w", err)
	}
	return nil
}
