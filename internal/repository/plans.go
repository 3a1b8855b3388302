package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dajer93/lunchplanner-api/internal/models"
	"golang.org/x/sync/errgroup"
)

type PlanRepository interface {
	SetDay(ctx context.Context, userID, date string, mealIDs []string) (models.PlanDay, error)
	FindDay(ctx context.Context, userID, date string) (models.PlanDay, error)
	FindRange(ctx context.Context, userID, startDate, endDate string) ([]models.PlanDay, error)
	FindAll(ctx context.Context, userID string) ([]models.PlanDay, error)
	DeleteDay(ctx context.Context, userID, date string) error
	ClearAll(ctx context.Context, userID string) error
}

type SQLitePlanRepository struct {
	database *sql.DB
}

func NewPlanRepository(database *sql.DB) *SQLitePlanRepository {
	return &SQLitePlanRepository{database: database}
}

// SetDay upserts the row for (user, date), full-replacing the meal list.
func (repository *SQLitePlanRepository) SetDay(ctx context.Context, userID, date string, mealIDs []string) (models.PlanDay, error) {
	if mealIDs == nil {
		mealIDs = []string{}
	}
	day := models.PlanDay{
		UserID:    userID,
		Date:      date,
		Meals:     mealIDs,
		UpdatedAt: time.Now(),
	}

	mealsJSON, err := json.Marshal(day.Meals)
	if err != nil {
		return models.PlanDay{}, fmt.Errorf("marshalling meal ids: %w", err)
	}

	_, err = repository.database.ExecContext(ctx,
		`INSERT INTO plan_days (user_id, date, meals, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, date) DO UPDATE SET
			meals = excluded.meals,
			updated_at = excluded.updated_at`,
		day.UserID, day.Date, string(mealsJSON), day.UpdatedAt,
	)
	if err != nil {
		return models.PlanDay{}, fmt.Errorf("upserting plan day: %w", err)
	}
	return day, nil
}

func (repository *SQLitePlanRepository) FindDay(ctx context.Context, userID, date string) (models.PlanDay, error) {
	var day models.PlanDay
	var mealsJSON string
	err := repository.database.QueryRowContext(ctx,
		"SELECT user_id, date, meals, updated_at FROM plan_days WHERE user_id = ? AND date = ?", userID, date,
	).Scan(&day.UserID, &day.Date, &mealsJSON, &day.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PlanDay{}, ErrNotFound
	}
	if err != nil {
		return models.PlanDay{}, fmt.Errorf("finding plan day: %w", err)
	}
	if err := json.Unmarshal([]byte(mealsJSON), &day.Meals); err != nil {
		return models.PlanDay{}, fmt.Errorf("unmarshalling meal ids: %w", err)
	}
	return day, nil
}

// FindRange returns the user's plan days between startDate and endDate,
// both bounds inclusive. Dates compare lexicographically, which for the
// YYYY-MM-DD format is calendar order.
func (repository *SQLitePlanRepository) FindRange(ctx context.Context, userID, startDate, endDate string) ([]models.PlanDay, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT user_id, date, meals, updated_at FROM plan_days WHERE user_id = ? AND date BETWEEN ? AND ? ORDER BY date ASC",
		userID, startDate, endDate,
	)
	if err != nil {
		return nil, fmt.Errorf("finding plan days in range: %w", err)
	}
	return scanPlanDays(rows)
}

func (repository *SQLitePlanRepository) FindAll(ctx context.Context, userID string) ([]models.PlanDay, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT user_id, date, meals, updated_at FROM plan_days WHERE user_id = ? ORDER BY date ASC", userID,
	)
	if err != nil {
		return nil, fmt.Errorf("finding plan days: %w", err)
	}
	return scanPlanDays(rows)
}

func scanPlanDays(rows *sql.Rows) ([]models.PlanDay, error) {
	defer rows.Close()

	var days []models.PlanDay
	for rows.Next() {
		var day models.PlanDay
		var mealsJSON string
		if err := rows.Scan(&day.UserID, &day.Date, &mealsJSON, &day.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning plan day: %w", err)
		}
		if err := json.Unmarshal([]byte(mealsJSON), &day.Meals); err != nil {
			return nil, fmt.Errorf("unmarshalling meal ids: %w", err)
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// DeleteDay removes the row for (user, date). Deleting an absent day is
// a no-op.
func (repository *SQLitePlanRepository) DeleteDay(ctx context.Context, userID, date string) error {
	_, err := repository.database.ExecContext(ctx,
		"DELETE FROM plan_days WHERE user_id = ? AND date = ?", userID, date,
	)
	if err != nil {
		return fmt.Errorf("deleting plan day: %w", err)
	}
	return nil
}

// ClearAll fetches the user's plan days and deletes each one as an
// independent concurrent call. The operation is not atomic: a failure
// partway leaves already-deleted days gone and the rest in place. The
// first error is reported after all deletes have finished.
func (repository *SQLitePlanRepository) ClearAll(ctx context.Context, userID string) error {
	days, err := repository.FindAll(ctx, userID)
	if err != nil {
		return err
	}

	var group errgroup.Group
	for _, day := range days {
		day := day
		group.Go(func() error {
			return repository.DeleteDay(ctx, userID, day.Date)
		})
	}
	return group.Wait()
}
