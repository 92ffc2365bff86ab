// Package ingest loads heterogeneous bank export files into ordered
// record sets. Each bank profile selects one of three strategies:
// delimited text with a dynamically located header row, structured-table
// extraction from markup, or a native spreadsheet.
package ingest

import (
	"errors"
	"fmt"

	"github.com/ledgerworks/cardledger/internal/models"
)

// ErrNoRecords marks an ingestion that produced an empty record set. The
// caller skips the file and continues the run.
var ErrNoRecords = errors.New("no records")

// Load reads one export file using the strategy declared by its profile.
func Load(path string, profile *models.BankProfile) (*Table, error) {
	var (
		t   *Table
		err error
	)
	switch profile.FileType {
	case models.FileTypeDelimited:
		t, err = loadDelimited(path, profile)
	case models.FileTypeMarkup:
		t, err = loadMarkup(path, profile)
	case models.FileTypeSpreadsheet:
		t, err = loadSpreadsheet(path, profile)
	default:
		return nil, fmt.Errorf("bank %s: unsupported file type %q", profile.ID, profile.FileType)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if t.Empty() {
		return nil, fmt.Errorf("%s: %w", path, ErrNoRecords)
	}
	return t, nil
}
