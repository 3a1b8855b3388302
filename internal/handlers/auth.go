package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dajer93/lunchplanner-api/internal/middleware"
	"github.com/dajer93/lunchplanner-api/internal/repository"
	"github.com/dajer93/lunchplanner-api/internal/services"
	"github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	authService *services.AuthService
	userRepo    repository.UserRepository
	validate    *validator.Validate
}

func NewAuthHandler(authService *services.AuthService, userRepo repository.UserRepository) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userRepo:    userRepo,
		validate:    validator.New(),
	}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name"`
}

func (handler *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var request registerRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := handler.validate.Struct(request); err != nil {
		writeError(w, http.StatusBadRequest, firstValidationError(err))
		return
	}

	user, token, err := handler.authService.Register(r.Context(), request.Email, request.Password, request.Name)
	if err != nil {
		slog.Error("registering user", "error", err)
		writeRepositoryError(w, err, "user")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (handler *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var request loginRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := handler.validate.Struct(request); err != nil {
		writeError(w, http.StatusBadRequest, firstValidationError(err))
		return
	}

	user, token, err := handler.authService.Login(r.Context(), request.Email, request.Password)
	if err != nil {
		writeRepositoryError(w, err, "user")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

func (handler *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	user, err := handler.userRepo.FindByID(r.Context(), identity.UserID)
	if err != nil {
		writeRepositoryError(w, err, "user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

func (handler *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var request changePasswordRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := handler.validate.Struct(request); err != nil {
		writeError(w, http.StatusBadRequest, firstValidationError(err))
		return
	}

	if err := handler.authService.ChangePassword(r.Context(), identity.UserID, request.CurrentPassword, request.NewPassword); err != nil {
		writeRepositoryError(w, err, "user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password changed successfully"})
}
