package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/username/homeledger/backend/src/config"
	"github.com/username/homeledger/backend/src/logger"
	"github.com/username/homeledger/backend/src/security/validation"
	"github.com/username/homeledger/backend/src/services"
)

type ImportHandler struct {
	importService services.ImportService
}

func NewImportHandler(service services.ImportService) *ImportHandler {
	return &ImportHandler{importService: service}
}

// HandleStatementImport accepts a multipart statement upload for the source
// named in the URL and runs it through the import engine.
func (h *ImportHandler) HandleStatementImport(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	source := chi.URLParam(r, "source")
	ctxLogger := logger.FromContext(r.Context())

	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		ctxLogger.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		sendJSONError(w, fmt.Sprintf("Failed to process upload or file too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		ctxLogger.Warn("Failed to retrieve file from request", "error", err)
		sendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		ctxLogger.Warn("Uploaded file too large", "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		sendJSONError(w, fmt.Sprintf("File too large, max %d MB", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		ctxLogger.Warn("Invalid client-declared file type", "contentType", clientContentType, "error", err)
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file)
	if err != nil {
		ctxLogger.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	ctxLogger.Info("File content validated", "filename", fileHeader.Filename, "clientType", clientContentType, "detectedType", detectedContentType)

	input := services.ImportInput{
		UserID:             userID,
		Source:             source,
		File:               file,
		AutoCreateAccounts: true,
	}
	if v := r.FormValue("auto_create_accounts"); v != "" {
		autoCreate, err := strconv.ParseBool(v)
		if err != nil {
			sendJSONError(w, "auto_create_accounts must be a boolean", http.StatusBadRequest)
			return
		}
		input.AutoCreateAccounts = autoCreate
	}
	if v := r.FormValue("account_id"); v != "" {
		accountID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			sendJSONError(w, "account_id must be an integer", http.StatusBadRequest)
			return
		}
		input.DefaultAccountID = &accountID
	}

	summary, err := h.importService.ImportStatement(r.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrParsingFailed) {
			ctxLogger.Warn("Statement decoding failed", "source", source, "filename", fileHeader.Filename, "error", err)
			sendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		ctxLogger.Error("Import failed", "source", source, "error", err)
		sendJSONError(w, "Failed to import statement", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// HandleListIntegrations returns the available import sources with the
// user's sync history.
func (h *ImportHandler) HandleListIntegrations(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	integrations, err := h.importService.ListIntegrations(r.Context(), userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list integrations", "error", err)
		sendJSONError(w, "Failed to list integrations", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"integrations": integrations})
}

// HandleLastImport returns the cached summary of the user's most recent
// batch for a source, or 404 when none is cached.
func (h *ImportHandler) HandleLastImport(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	source := chi.URLParam(r, "source")

	summary, found := h.importService.LatestImportSummary(userID, source)
	if !found {
		sendJSONError(w, "No recent import found for this source", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
