package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dajer93/lunchplanner-api/internal/middleware"
	"github.com/dajer93/lunchplanner-api/internal/repository"
)

type UserHandler struct {
	userRepo repository.UserRepository
}

func NewUserHandler(userRepo repository.UserRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

func (handler *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	user, err := handler.userRepo.FindByID(r.Context(), identity.UserID)
	if err != nil {
		writeRepositoryError(w, err, "user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

type updateProfileRequest struct {
	Name string `json:"name"`
}

// UpdateProfile accepts the name only. Email, id and password hash are
// not mutable through this path.
func (handler *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var request updateProfileRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	user, err := handler.userRepo.UpdateName(r.Context(), identity.UserID, request.Name)
	if err != nil {
		slog.Error("updating profile", "error", err)
		writeRepositoryError(w, err, "user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (handler *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	if err := handler.userRepo.Delete(r.Context(), identity.UserID); err != nil {
		slog.Error("deleting account", "error", err)
		writeRepositoryError(w, err, "user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "account deleted successfully"})
}
