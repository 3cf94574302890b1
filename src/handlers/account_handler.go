package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/username/homeledger/backend/src/config"
	"github.com/username/homeledger/backend/src/logger"
	"github.com/username/homeledger/backend/src/models"
	"github.com/username/homeledger/backend/src/security/validation"
	"github.com/username/homeledger/backend/src/store"
)

var allowedAccountTypes = map[string]bool{
	models.AccountTypeChecking:   true,
	models.AccountTypeSavings:    true,
	models.AccountTypeCredit:     true,
	models.AccountTypeCash:       true,
	models.AccountTypeInvestment: true,
}

type AccountHandler struct {
	store store.Store
}

func NewAccountHandler(st store.Store) *AccountHandler {
	return &AccountHandler{store: st}
}

func (h *AccountHandler) HandleListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	accounts, err := h.store.ListAccounts(r.Context(), userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list accounts", "error", err)
		sendJSONError(w, "Failed to list accounts", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"accounts": accounts})
}

type createAccountPayload struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

func (h *AccountHandler) HandleCreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	var payload createAccountPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(validation.SanitizeText(payload.Name))
	if name == "" {
		sendJSONError(w, "Account name is required", http.StatusBadRequest)
		return
	}
	accType := strings.ToLower(strings.TrimSpace(payload.Type))
	if accType == "" {
		accType = models.AccountTypeChecking
	}
	if !allowedAccountTypes[accType] {
		sendJSONError(w, "Invalid account type", http.StatusBadRequest)
		return
	}
	currency := strings.ToUpper(strings.TrimSpace(payload.Currency))
	if currency == "" {
		currency = config.Cfg.DefaultCurrency
	}

	account := &models.Account{
		UserID:   userID,
		Name:     name,
		Type:     accType,
		Balance:  payload.Balance.Round(2),
		Currency: currency,
		IsActive: true,
	}
	created, err := h.store.GetOrCreateAccount(r.Context(), account)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to create account", "name", name, "error", err)
		sendJSONError(w, "Failed to create account", http.StatusInternalServerError)
		return
	}
	if !created {
		sendJSONError(w, "An account with this name already exists", http.StatusConflict)
		return
	}

	logger.FromContext(r.Context()).Info("Account created", "accountID", account.ID, "name", name)
	writeJSON(w, http.StatusCreated, account)
}

func (h *AccountHandler) HandleGetAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	accountID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendJSONError(w, "Invalid account ID", http.StatusBadRequest)
		return
	}

	account, err := h.store.GetAccountByID(r.Context(), userID, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			sendJSONError(w, "Account not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to get account", "accountID", accountID, "error", err)
		sendJSONError(w, "Failed to get account", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, account)
}
