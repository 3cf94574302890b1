package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/homeledger/backend/src/logger"
	"github.com/username/homeledger/backend/src/models"
	"github.com/username/homeledger/backend/src/parsers"
	"github.com/username/homeledger/backend/src/processors"
	"github.com/username/homeledger/backend/src/store"
)

const (
	ckLatestImportSummary  = "imp_latest_summary_user_%d_src_%s"
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute

	// At most this many row error messages appear in the summary; the
	// total error count keeps counting past it.
	maxReportedErrors = 10
)

type importServiceImpl struct {
	store        store.Store
	summaryCache *cache.Cache
	currency     string
}

func NewImportService(st store.Store, summaryCache *cache.Cache, currency string) ImportService {
	return &importServiceImpl{
		store:        st,
		summaryCache: summaryCache,
		currency:     currency,
	}
}

// ImportStatement runs one batch: decode the file, prime the account cache,
// bootstrap the taxonomy, then process rows strictly in order. A row
// failure never aborts the batch and never unwinds earlier rows; provenance
// is committed exactly once at the end.
func (s *importServiceImpl) ImportStatement(ctx context.Context, input ImportInput) (*ImportSummary, error) {
	startTime := time.Now()
	logger.L.Info("ImportStatement START", "userID", input.UserID, "source", input.Source)

	parser, err := parsers.GetParser(input.Source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	rows, err := parser.Parse(input.File)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	var defaultAcct *models.Account
	if input.DefaultAccountID != nil {
		acct, err := s.store.GetAccountByID(ctx, input.UserID, *input.DefaultAccountID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("loading default account %d: %w", *input.DefaultAccountID, err)
		}
		// An unknown default account id is ignored, not an error.
		defaultAcct = acct
	}

	resolver := processors.NewAccountResolver(s.store, input.UserID, input.AutoCreateAccounts, defaultAcct, s.currency)
	if err := resolver.Prime(ctx, rows); err != nil {
		return nil, err
	}

	classifier, err := processors.NewCategoryClassifier(ctx, s.store, input.UserID)
	if err != nil {
		return nil, err
	}

	normalizer := processors.NewRowNormalizer()
	writer := NewLedgerWriter(s.store, input.UserID)

	summary := &ImportSummary{AccountsCreated: []string{}, Errors: []string{}}
	for _, row := range rows {
		rec, reject := normalizer.Normalize(row)
		if reject != "" {
			summary.TransactionsSkipped++
			logger.L.Debug("Skipping statement row", "userID", input.UserID, "line", row.Line, "reason", string(reject))
			continue
		}

		acct := resolver.Resolve(rec.Provider, rec.AccountName)
		if acct == nil {
			summary.TransactionsSkipped++
			logger.L.Debug("Skipping statement row: no account", "userID", input.UserID, "line", rec.Line)
			continue
		}

		category := classifier.Classify(rec.RawCategory, models.TransactionTypeForAmount(rec.Amount))
		if _, err := writer.Write(ctx, rec, acct, category); err != nil {
			summary.TotalErrors++
			if len(summary.Errors) < maxReportedErrors {
				summary.Errors = append(summary.Errors, fmt.Sprintf("Row %d: %v", rec.Line, err))
			}
			logger.L.Error("Statement row failed", "userID", input.UserID, "line", rec.Line, "error", err)
			continue
		}
		summary.TransactionsCreated++
	}

	if created := resolver.CreatedAccounts(); created != nil {
		summary.AccountsCreated = created
	}

	// Provenance is best-effort: rows already written stand even if this
	// upsert fails.
	if err := s.store.RecordImportBatch(ctx, input.UserID, input.Source, summary.TransactionsCreated, time.Now()); err != nil {
		summary.Warning = "import completed, but provenance update failed"
		logger.L.Warn("Failed to record import provenance", "userID", input.UserID, "source", input.Source, "error", err)
	}

	s.summaryCache.Set(s.summaryKey(input.UserID, input.Source), summary, DefaultCacheExpiration)

	logger.L.Info("ImportStatement END", "userID", input.UserID, "source", input.Source,
		"created", summary.TransactionsCreated, "skipped", summary.TransactionsSkipped,
		"errors", summary.TotalErrors, "duration", time.Since(startTime))
	return summary, nil
}

func (s *importServiceImpl) LatestImportSummary(userID int64, source string) (*ImportSummary, bool) {
	if cached, found := s.summaryCache.Get(s.summaryKey(userID, source)); found {
		return cached.(*ImportSummary), true
	}
	return nil, false
}

func (s *importServiceImpl) ListIntegrations(ctx context.Context, userID int64) ([]Integration, error) {
	snoop := Integration{
		Provider:    "snoop",
		Name:        "Snoop",
		Description: "Import your transactions from Snoop app export (CSV)",
		Logo:        "/integrations/snoop.png",
		Features:    []string{"Monthly CSV import", "UK bank transactions", "Easy export from Snoop app"},
		Type:        "file_upload",
	}

	prov, err := s.store.GetProvenance(ctx, userID, "snoop")
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("reading snoop provenance: %w", err)
	}
	if prov != nil {
		snoop.LastImport = prov.LastSyncAt
		snoop.ImportCount = prov.TotalImported
	}

	manual := Integration{
		Provider:    "manual",
		Name:        "Manual CSV Import",
		Description: "Import transactions from any CSV file",
		Logo:        "/integrations/csv.png",
		Features:    []string{"CSV import", "Custom column mapping", "Any bank format"},
		Type:        "file_upload",
	}

	return []Integration{snoop, manual}, nil
}

func (s *importServiceImpl) summaryKey(userID int64, source string) string {
	return fmt.Sprintf(ckLatestImportSummary, userID, source)
}
