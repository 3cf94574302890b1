package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/username/homeledger/backend/src/config"
	"github.com/username/homeledger/backend/src/logger"
	"github.com/username/homeledger/backend/src/models"
	"github.com/username/homeledger/backend/src/security"
	"github.com/username/homeledger/backend/src/store"
)

type contextKey string

const userIDContextKey contextKey = "userID"

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
var passwordRegex = regexp.MustCompile(`^.{6,}$`)

type AuthHandler struct {
	authService *security.AuthService
	store       store.Store
}

func NewAuthHandler(authService *security.AuthService, st store.Store) *AuthHandler {
	return &AuthHandler{authService: authService, store: st}
}

func sendJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	logger.L.Warn("Sending JSON error to client", "message", message, "statusCode", statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.L.Error("Error encoding JSON response", "error", err)
	}
}

func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDContextKey).(int64)
	return userID, ok
}

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if !emailRegex.MatchString(email) {
		sendJSONError(w, "Invalid email address", http.StatusBadRequest)
		return
	}
	if !passwordRegex.MatchString(payload.Password) {
		sendJSONError(w, "Password must be at least 6 characters", http.StatusBadRequest)
		return
	}

	if _, err := h.store.GetUserByEmail(r.Context(), email); err == nil {
		sendJSONError(w, "An account with this email already exists", http.StatusConflict)
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		logger.L.Error("Failed to check for existing user", "email", email, "error", err)
		sendJSONError(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	user := &models.User{Email: email}
	if err := user.SetPassword(payload.Password); err != nil {
		logger.L.Error("Failed to hash password", "error", err)
		sendJSONError(w, "Failed to register user", http.StatusInternalServerError)
		return
	}
	if err := h.store.CreateUser(r.Context(), user); err != nil {
		logger.L.Error("Failed to create user", "email", email, "error", err)
		sendJSONError(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	logger.FromContext(r.Context()).Info("User registered", "userID", user.ID)
	writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	user, err := h.store.GetUserByEmail(r.Context(), email)
	if err != nil {
		logger.FromContext(r.Context()).Warn("Login failed: user lookup", "email", email, "error", err)
		sendJSONError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}
	if err := user.CheckPassword(payload.Password); err != nil {
		logger.FromContext(r.Context()).Warn("Login failed: bad password", "userID", user.ID)
		sendJSONError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	token, err := h.authService.GenerateToken(user.ID)
	if err != nil {
		logger.L.Error("Failed to generate access token", "userID", user.ID, "error", err)
		sendJSONError(w, "Failed to log in", http.StatusInternalServerError)
		return
	}

	logger.FromContext(r.Context()).Info("User logged in", "userID", user.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int(config.Cfg.AccessTokenExpiry.Seconds()),
		"user":         user,
	})
}
