package normalize

import (
	"github.com/ledgerworks/cardledger/internal/ingest"
	"github.com/ledgerworks/cardledger/internal/models"
)

// MapColumns projects a bank's native columns onto the canonical field
// set using the profile's column mapping. Unmapped columns are dropped;
// mapped columns missing from the file are simply absent from the records.
func MapColumns(t *ingest.Table, profile *models.BankProfile) []models.RawRecord {
	type binding struct {
		index     int
		canonical string
	}

	var bindings []binding
	for i, col := range t.Columns {
		if canonical, ok := profile.ColumnMapping[col]; ok {
			bindings = append(bindings, binding{index: i, canonical: canonical})
		}
	}

	records := make([]models.RawRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(models.RawRecord, len(bindings))
		for _, b := range bindings {
			if b.index < len(row) {
				rec[b.canonical] = row[b.index]
			}
		}
		records = append(records, rec)
	}
	return records
}
