package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dajer93/lunchplanner-api/internal/models"
	"github.com/dajer93/lunchplanner-api/internal/repository"
	"golang.org/x/sync/errgroup"
)

// ShoppingListService joins a range of plan days through their meals
// into one aggregated ingredient list.
type ShoppingListService struct {
	planRepo repository.PlanRepository
	mealRepo repository.MealRepository
}

func NewShoppingListService(planRepo repository.PlanRepository, mealRepo repository.MealRepository) *ShoppingListService {
	return &ShoppingListService{planRepo: planRepo, mealRepo: mealRepo}
}

// Build aggregates the ingredients of every meal planned between
// startDate and endDate (inclusive), or across the whole plan when the
// bounds are not both given.
//
// Meal ids referenced by more than one day are fetched once. A meal
// that no longer exists is skipped, not an error. Rows come out in
// insertion order of first sight, for both meals and ingredients; no
// stronger ordering is guaranteed. Each ingredient's quantity strings
// are collected verbatim and joined for display; no unit math happens
// here.
func (service *ShoppingListService) Build(ctx context.Context, userID, startDate, endDate string) ([]models.ShoppingListItem, error) {
	var days []models.PlanDay
	var err error
	if startDate != "" && endDate != "" {
		days, err = service.planRepo.FindRange(ctx, userID, startDate, endDate)
	} else {
		days, err = service.planRepo.FindAll(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	var mealIDs []string
	seen := make(map[string]bool)
	for _, day := range days {
		for _, mealID := range day.Meals {
			if !seen[mealID] {
				seen[mealID] = true
				mealIDs = append(mealIDs, mealID)
			}
		}
	}

	// Fan out one fetch per distinct meal and wait for all of them.
	meals := make([]*models.Meal, len(mealIDs))
	var group errgroup.Group
	for i, mealID := range mealIDs {
		i, mealID := i, mealID
		group.Go(func() error {
			meal, err := service.mealRepo.FindByID(ctx, mealID)
			if errors.Is(err, repository.ErrNotFound) {
				// Dangling reference to a deleted meal.
				return nil
			}
			if err != nil {
				return err
			}
			meals[i] = &meal
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	items := []models.ShoppingListItem{}
	positions := make(map[string]int)
	for _, meal := range meals {
		if meal == nil {
			continue
		}
		for _, entry := range meal.Ingredients {
			position, ok := positions[entry.IngredientID]
			if !ok {
				position = len(items)
				positions[entry.IngredientID] = position
				// First sight of this ingredient fixes its name.
				items = append(items, models.ShoppingListItem{
					IngredientID: entry.IngredientID,
					Name:         entry.Name,
				})
			}
			items[position].Quantities = append(items[position].Quantities, entry.Quantity)
		}
	}

	for i := range items {
		items[i].Quantity = strings.Join(items[i].Quantities, ", ")
	}
	return items, nil
}
