package ingest

import (
	"fmt"
	"strings"

	"github.com/extrame/xls"

	"github.com/ledgerworks/cardledger/internal/models"
)

// loadSpreadsheet reads the first sheet of a native XLS workbook. The
// first populated row is the header; no anchor search is needed for
// spreadsheet exports.
func loadSpreadsheet(path string, profile *models.BankProfile) (*Table, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("workbook sheet 0 unavailable")
	}

	var t *Table
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, strings.TrimSpace(row.Col(c)))
		}
		if allEmpty(cells) {
			continue
		}
		if t == nil {
			t = &Table{Columns: cells}
			continue
		}
		for len(cells) < len(t.Columns) {
			cells = append(cells, "")
		}
		t.Rows = append(t.Rows, cells[:len(t.Columns)])
	}
	if t == nil {
		return nil, fmt.Errorf("workbook sheet 0 is empty")
	}
	return t, nil
}

func allEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
