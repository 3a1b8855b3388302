package models

import "time"

type User struct {
	ID           string    `json:"userId"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Ingredient struct {
	ID        string    `json:"ingredientId"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MealIngredient is a soft reference: the ingredient may have been deleted
// since the meal was saved. Name is carried denormalized so the shopping
// list can be built without resolving the ingredient again.
type MealIngredient struct {
	IngredientID string `json:"ingredientId"`
	Name         string `json:"name,omitempty"`
	Quantity     string `json:"quantity"`
}

type Meal struct {
	ID          string           `json:"mealId"`
	UserID      string           `json:"userId"`
	Title       string           `json:"title"`
	Ingredients []MealIngredient `json:"ingredients"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// PlanDay holds the meals assigned to one user for one calendar date.
// Meal ids are soft references, same policy as MealIngredient.
type PlanDay struct {
	UserID    string    `json:"userId"`
	Date      string    `json:"date"`
	Meals     []string  `json:"meals"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ShoppingListItem struct {
	IngredientID string   `json:"ingredientId"`
	Name         string   `json:"name"`
	Quantities   []string `json:"quantities"`
	Quantity     string   `json:"quantity"`
}
