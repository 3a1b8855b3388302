package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dajer93/lunchplanner-api/internal/middleware"
	"github.com/dajer93/lunchplanner-api/internal/models"
	"github.com/dajer93/lunchplanner-api/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type MealHandler struct {
	mealRepo repository.MealRepository
	validate *validator.Validate
}

func NewMealHandler(mealRepo repository.MealRepository) *MealHandler {
	return &MealHandler{
		mealRepo: mealRepo,
		validate: validator.New(),
	}
}

type mealIngredientRequest struct {
	IngredientID string `json:"ingredientId" validate:"required"`
	Name         string `json:"name"`
	Quantity     string `json:"quantity" validate:"required"`
}

// mealRequest is validated as a whole before any write happens: an
// empty title, an empty ingredient list or one entry missing its
// ingredientId or quantity rejects the entire request.
type mealRequest struct {
	Title       string                  `json:"title" validate:"required"`
	Ingredients []mealIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
}

func (request mealRequest) toModel() []models.MealIngredient {
	ingredients := make([]models.MealIngredient, 0, len(request.Ingredients))
	for _, entry := range request.Ingredients {
		ingredients = append(ingredients, models.MealIngredient{
			IngredientID: entry.IngredientID,
			Name:         entry.Name,
			Quantity:     entry.Quantity,
		})
	}
	return ingredients
}

func (handler *MealHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	meals, err := handler.mealRepo.FindByOwner(r.Context(), identity.UserID)
	if err != nil {
		slog.Error("listing meals", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load meals")
		return
	}
	if meals == nil {
		meals = []models.Meal{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"meals": meals})
}

func (handler *MealHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	meal, err := handler.mealRepo.Find(r.Context(), chi.URLParam(r, "id"), identity.UserID)
	if err != nil {
		writeRepositoryError(w, err, "meal")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"meal": meal})
}

func (handler *MealHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var request mealRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := handler.validate.Struct(request); err != nil {
		writeError(w, http.StatusBadRequest, firstValidationError(err))
		return
	}

	meal, err := handler.mealRepo.Create(r.Context(), identity.UserID, request.Title, request.toModel())
	if err != nil {
		slog.Error("creating meal", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create meal")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"meal": meal})
}

func (handler *MealHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var request mealRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := handler.validate.Struct(request); err != nil {
		writeError(w, http.StatusBadRequest, firstValidationError(err))
		return
	}

	meal, err := handler.mealRepo.Update(r.Context(), chi.URLParam(r, "id"), identity.UserID, request.Title, request.toModel())
	if err != nil {
		writeRepositoryError(w, err, "meal")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"meal": meal})
}

func (handler *MealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	if err := handler.mealRepo.Delete(r.Context(), chi.URLParam(r, "id"), identity.UserID); err != nil {
		writeRepositoryError(w, err, "meal")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "meal deleted successfully"})
}
