package parsers

import (
	"fmt"
	"io"
	"strings"

	"github.com/username/homeledger/backend/src/models"
	"github.com/username/homeledger/backend/src/parsers/snoop"
)

// Parser decodes one complete statement file into raw rows. A Parse error
// means the whole batch fails; per-row problems are left to the normalizer.
type Parser interface {
	Parse(file io.Reader) ([]models.StatementRow, error)
}

// GetParser returns the parser for a statement source identifier.
func GetParser(source string) (Parser, error) {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case "snoop", "manual":
		// Manual CSV uploads use the Snoop column layout.
		return snoop.NewParser(), nil
	default:
		return nil, fmt.Errorf("unsupported statement source: %q", source)
	}
}
