package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/username/homeledger/backend/src/logger"
	"github.com/username/homeledger/backend/src/store"
)

const defaultTransactionListLimit = 100

type TransactionHandler struct {
	store store.Store
}

func NewTransactionHandler(st store.Store) *TransactionHandler {
	return &TransactionHandler{store: st}
}

func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	limit := defaultTransactionListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			sendJSONError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	transactions, err := h.store.ListTransactions(r.Context(), userID, limit)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list transactions", "error", err)
		sendJSONError(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"transactions": transactions})
}

// HandleDeleteTransaction removes one transaction and reverses its effect
// on the account balance.
func (h *TransactionHandler) HandleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	txID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendJSONError(w, "Invalid transaction ID", http.StatusBadRequest)
		return
	}

	if err := h.store.DeleteTransactionWithBalance(r.Context(), userID, txID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			sendJSONError(w, "Transaction not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to delete transaction", "transactionID", txID, "error", err)
		sendJSONError(w, "Failed to delete transaction", http.StatusInternalServerError)
		return
	}

	logger.FromContext(r.Context()).Info("Transaction deleted", "transactionID", txID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted"})
}
