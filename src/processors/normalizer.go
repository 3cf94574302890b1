package processors

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/homeledger/backend/src/models"
	"github.com/username/homeledger/backend/src/security/validation"
)

// statementDateFormats is tried in order; the first format that parses
// wins. Ambiguous dates like 03/04/2024 therefore resolve day-first. That
// trade-off is deliberate and matches the source exports we ingest.
var statementDateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"01/02/2006",
}

// currencyGlyphs are stripped before amount parsing. The mojibake pound
// ("Â£") appears in real Snoop exports read as latin-1; it must be removed
// before the plain pound sign, which is its suffix.
var currencyGlyphs = []string{"Â£", "£", "$", ","}

// RejectReason explains why the normalizer refused a row. Rejections are
// expected outcomes, not errors.
type RejectReason string

const (
	RejectMissingDate   RejectReason = "missing date"
	RejectBadDate       RejectReason = "unparseable date"
	RejectMissingAmount RejectReason = "missing amount"
	RejectBadAmount     RejectReason = "unparseable amount"
)

// RowNormalizer turns raw statement rows into canonical import records. It
// is a pure function of the row and the static format tables above.
type RowNormalizer struct{}

func NewRowNormalizer() *RowNormalizer { return &RowNormalizer{} }

// Normalize produces an ImportRecord, or a non-empty RejectReason when the
// row is missing or fails to parse a required field. The signed amount is
// preserved as-is: income/expense is the ledger writer's decision.
func (n *RowNormalizer) Normalize(row models.StatementRow) (*models.ImportRecord, RejectReason) {
	dateStr := row.Get(models.ColDate)
	amountStr := row.Get(models.ColAmount)

	if dateStr == "" {
		return nil, RejectMissingDate
	}
	if amountStr == "" {
		return nil, RejectMissingAmount
	}

	var date time.Time
	var parsed bool
	for _, format := range statementDateFormats {
		if d, err := time.Parse(format, dateStr); err == nil {
			date = d
			parsed = true
			break
		}
	}
	if !parsed {
		return nil, RejectBadDate
	}

	clean := amountStr
	for _, glyph := range currencyGlyphs {
		clean = strings.ReplaceAll(clean, glyph, "")
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(clean))
	if err != nil {
		return nil, RejectBadAmount
	}

	return &models.ImportRecord{
		Line:        row.Line,
		Date:        date,
		Amount:      amount.Round(2),
		Merchant:    cleanText(row.Get(models.ColMerchantName)),
		Description: cleanText(row.Get(models.ColDescription)),
		RawCategory: cleanText(row.Get(models.ColCategory)),
		Provider:    cleanText(row.Get(models.ColAccountProvider)),
		AccountName: cleanText(row.Get(models.ColAccountName)),
		Notes:       cleanText(row.Get(models.ColNotes)),
	}, ""
}

// cleanText strips HTML and unprintable characters from free-text fields
// before they can reach storage, and neutralizes spreadsheet formula
// prefixes since the data may be exported back to CSV.
func cleanText(s string) string {
	cleaned := strings.TrimSpace(validation.StripUnprintable(validation.SanitizeText(s)))
	return validation.SanitizeForFormulaInjection(cleaned)
}
