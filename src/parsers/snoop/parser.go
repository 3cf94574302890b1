package snoop

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/username/homeledger/backend/src/models"
)

// recognizedColumns are the Snoop export headers the importer understands.
// Matching is exact; unknown columns are ignored.
var recognizedColumns = map[string]bool{
	models.ColDate:            true,
	models.ColMerchantName:    true,
	models.ColDescription:     true,
	models.ColAmount:          true,
	models.ColCategory:        true,
	models.ColNotes:           true,
	models.ColAccountProvider: true,
	models.ColAccountName:     true,
}

// SnoopParser decodes Snoop app CSV exports into statement rows.
type SnoopParser struct{}

// NewParser creates a new instance of the SnoopParser.
func NewParser() *SnoopParser {
	return &SnoopParser{}
}

// Parse reads a Snoop CSV file into raw statement rows. Each row keeps its
// 1-based file line number (the header is line 1). Any CSV decode failure
// is a whole-batch error; no rows are returned with it.
func (p *SnoopParser) Parse(file io.Reader) ([]models.StatementRow, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields per record

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("snoop parser: failed to read CSV header: %w", err)
	}

	// Column position -> recognized column name.
	columnAt := make(map[int]string, len(header))
	for i, name := range header {
		if recognizedColumns[name] {
			columnAt[i] = name
		}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("snoop parser: failed to read CSV records: %w", err)
	}

	rows := make([]models.StatementRow, 0, len(records))
	for i, record := range records {
		fields := make(map[string]string, len(columnAt))
		for pos, name := range columnAt {
			if pos < len(record) {
				fields[name] = record[pos]
			}
		}
		rows = append(rows, models.StatementRow{
			Line:   i + 2,
			Fields: fields,
		})
	}

	return rows, nil
}
