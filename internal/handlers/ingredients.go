package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dajer93/lunchplanner-api/internal/middleware"
	"github.com/dajer93/lunchplanner-api/internal/models"
	"github.com/dajer93/lunchplanner-api/internal/repository"
	"github.com/go-chi/chi/v5"
)

type IngredientHandler struct {
	ingredientRepo repository.IngredientRepository
}

func NewIngredientHandler(ingredientRepo repository.IngredientRepository) *IngredientHandler {
	return &IngredientHandler{ingredientRepo: ingredientRepo}
}

func (handler *IngredientHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	ingredients, err := handler.ingredientRepo.FindByOwner(r.Context(), identity.UserID)
	if err != nil {
		slog.Error("listing ingredients", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load ingredients")
		return
	}
	if ingredients == nil {
		ingredients = []models.Ingredient{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ingredients": ingredients})
}

func (handler *IngredientHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	ingredient, err := handler.ingredientRepo.Find(r.Context(), chi.URLParam(r, "id"), identity.UserID)
	if err != nil {
		writeRepositoryError(w, err, "ingredient")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ingredient": ingredient})
}

type ingredientRequest struct {
	Name string `json:"name"`
}

func (handler *IngredientHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var request ingredientRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.Name == "" {
		writeError(w, http.StatusBadRequest, "ingredient name is required")
		return
	}

	ingredient, err := handler.ingredientRepo.Create(r.Context(), identity.UserID, request.Name)
	if err != nil {
		slog.Error("creating ingredient", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create ingredient")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"ingredient": ingredient})
}

func (handler *IngredientHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var request ingredientRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.Name == "" {
		writeError(w, http.StatusBadRequest, "ingredient name is required")
		return
	}

	ingredient, err := handler.ingredientRepo.Update(r.Context(), chi.URLParam(r, "id"), identity.UserID, request.Name)
	if err != nil {
		writeRepositoryError(w, err, "ingredient")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ingredient": ingredient})
}

func (handler *IngredientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	if err := handler.ingredientRepo.Delete(r.Context(), chi.URLParam(r, "id"), identity.UserID); err != nil {
		writeRepositoryError(w, err, "ingredient")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "ingredient deleted successfully"})
}
