package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/username/homeledger/backend/src/config"
	"github.com/username/homeledger/backend/src/logger"
	"github.com/username/homeledger/backend/src/services"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	config.Cfg = &config.AppConfig{MaxUploadSizeBytes: 10 * 1024 * 1024, DefaultCurrency: "GBP"}
	m.Run()
}

// mockImportService is a mock implementation of services.ImportService.
type mockImportService struct {
	ImportStatementFunc     func(ctx context.Context, input services.ImportInput) (*services.ImportSummary, error)
	LatestImportSummaryFunc func(userID int64, source string) (*services.ImportSummary, bool)
	ListIntegrationsFunc    func(ctx context.Context, userID int64) ([]services.Integration, error)
}

func (m *mockImportService) ImportStatement(ctx context.Context, input services.ImportInput) (*services.ImportSummary, error) {
	if m.ImportStatementFunc != nil {
		return m.ImportStatementFunc(ctx, input)
	}
	return &services.ImportSummary{}, nil
}

func (m *mockImportService) LatestImportSummary(userID int64, source string) (*services.ImportSummary, bool) {
	if m.LatestImportSummaryFunc != nil {
		return m.LatestImportSummaryFunc(userID, source)
	}
	return nil, false
}

func (m *mockImportService) ListIntegrations(ctx context.Context, userID int64) ([]services.Integration, error) {
	if m.ListIntegrationsFunc != nil {
		return m.ListIntegrationsFunc(ctx, userID)
	}
	return nil, nil
}

func multipartBody(t *testing.T, fields map[string]string, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("writing field %s: %v", k, err)
		}
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", "text/csv")
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("creating file part: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("writing file content: %v", err)
	}
	writer.Close()
	return &body, writer.FormDataContentType()
}

func importRequest(t *testing.T, source string, body *bytes.Buffer, contentType string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/integrations/"+source+"/import", body)
	req.Header.Set("Content-Type", contentType)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("source", source)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, userIDContextKey, int64(1))
	return req.WithContext(ctx)
}

func TestHandleStatementImport(t *testing.T) {
	var gotInput services.ImportInput
	mock := &mockImportService{
		ImportStatementFunc: func(ctx context.Context, input services.ImportInput) (*services.ImportSummary, error) {
			gotInput = input
			return &services.ImportSummary{TransactionsCreated: 2}, nil
		},
	}
	handler := NewImportHandler(mock)

	body, contentType := multipartBody(t,
		map[string]string{"account_id": "7"},
		"export.csv", "Date,Amount\n2024-01-15,-45.20\n")
	rec := httptest.NewRecorder()
	handler.HandleStatementImport(rec, importRequest(t, "snoop", body, contentType))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if gotInput.UserID != 1 || gotInput.Source != "snoop" {
		t.Errorf("unexpected input: userID=%d source=%q", gotInput.UserID, gotInput.Source)
	}
	if !gotInput.AutoCreateAccounts {
		t.Error("auto-create should default to true")
	}
	if gotInput.DefaultAccountID == nil || *gotInput.DefaultAccountID != 7 {
		t.Errorf("expected default account 7, got %v", gotInput.DefaultAccountID)
	}

	var summary services.ImportSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if summary.TransactionsCreated != 2 {
		t.Errorf("expected 2 created in response, got %d", summary.TransactionsCreated)
	}
}

func TestHandleStatementImportDisableAutoCreate(t *testing.T) {
	var gotInput services.ImportInput
	mock := &mockImportService{
		ImportStatementFunc: func(ctx context.Context, input services.ImportInput) (*services.ImportSummary, error) {
			gotInput = input
			return &services.ImportSummary{}, nil
		},
	}
	handler := NewImportHandler(mock)

	body, contentType := multipartBody(t,
		map[string]string{"auto_create_accounts": "false"},
		"export.csv", "Date,Amount\n")
	rec := httptest.NewRecorder()
	handler.HandleStatementImport(rec, importRequest(t, "snoop", body, contentType))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if gotInput.AutoCreateAccounts {
		t.Error("expected auto-create disabled")
	}
}

func TestHandleStatementImportRejectsBinaryFile(t *testing.T) {
	called := false
	mock := &mockImportService{
		ImportStatementFunc: func(ctx context.Context, input services.ImportInput) (*services.ImportSummary, error) {
			called = true
			return &services.ImportSummary{}, nil
		},
	}
	handler := NewImportHandler(mock)

	body, contentType := multipartBody(t, nil, "export.csv", "Date,Amount\n\x00\x01\x02")
	rec := httptest.NewRecorder()
	handler.HandleStatementImport(rec, importRequest(t, "snoop", body, contentType))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for binary content, got %d", rec.Code)
	}
	if called {
		t.Error("import service must not run for rejected files")
	}
}

func TestHandleStatementImportMissingFile(t *testing.T) {
	handler := NewImportHandler(&mockImportService{})

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("auto_create_accounts", "true")
	writer.Close()

	rec := httptest.NewRecorder()
	handler.HandleStatementImport(rec, importRequest(t, "snoop", &body, writer.FormDataContentType()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when file is missing, got %d", rec.Code)
	}
}

func TestHandleStatementImportUnauthenticated(t *testing.T) {
	handler := NewImportHandler(&mockImportService{})

	body, contentType := multipartBody(t, nil, "export.csv", "Date,Amount\n")
	req := httptest.NewRequest(http.MethodPost, "/api/integrations/snoop/import", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	handler.HandleStatementImport(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user in context, got %d", rec.Code)
	}
}

func TestHandleLastImport(t *testing.T) {
	mock := &mockImportService{
		LatestImportSummaryFunc: func(userID int64, source string) (*services.ImportSummary, bool) {
			if userID == 1 && source == "snoop" {
				return &services.ImportSummary{TransactionsCreated: 5}, true
			}
			return nil, false
		},
	}
	handler := NewImportHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/integrations/snoop/last-import", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("source", "snoop")
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, userIDContextKey, int64(1))

	rec := httptest.NewRecorder()
	handler.HandleLastImport(rec, req.WithContext(ctx))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rctx2 := chi.NewRouteContext()
	rctx2.URLParams.Add("source", "manual")
	ctx2 := context.WithValue(req.Context(), chi.RouteCtxKey, rctx2)
	ctx2 = context.WithValue(ctx2, userIDContextKey, int64(1))

	rec = httptest.NewRecorder()
	handler.HandleLastImport(rec, req.WithContext(ctx2))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for uncached source, got %d", rec.Code)
	}
}
