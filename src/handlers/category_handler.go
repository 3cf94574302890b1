package handlers

import (
	"net/http"
	"strings"

	"github.com/username/homeledger/backend/src/logger"
	"github.com/username/homeledger/backend/src/models"
	"github.com/username/homeledger/backend/src/store"
)

type CategoryHandler struct {
	store store.Store
}

func NewCategoryHandler(st store.Store) *CategoryHandler {
	return &CategoryHandler{store: st}
}

func (h *CategoryHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	catType := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type")))
	if catType != "" && catType != models.TransactionTypeIncome && catType != models.TransactionTypeExpense {
		sendJSONError(w, "type must be income or expense", http.StatusBadRequest)
		return
	}

	categories, err := h.store.ListCategories(r.Context(), userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list categories", "error", err)
		sendJSONError(w, "Failed to list categories", http.StatusInternalServerError)
		return
	}

	if catType != "" {
		filtered := categories[:0]
		for _, c := range categories {
			if c.Type == catType {
				filtered = append(filtered, c)
			}
		}
		categories = filtered
	}

	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}
