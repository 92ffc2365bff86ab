package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledgerworks/cardledger/internal/models"
)

// headerScanLimit bounds the anchor search. Export files lead with a
// variable amount of promotional and summary noise, but never this much.
const headerScanLimit = 50

// loadDelimited reads a delimited export whose true header row must be
// located by anchor keyword. When the keyword is not present within the
// scan window, parsing falls back to the first line.
func loadDelimited(path string, profile *models.BankProfile) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	decoded, err := decodeBytes(raw, profile.Encoding)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(strings.ReplaceAll(string(decoded), "\r\n", "\n"), "\n")

	start := 0
	if profile.HeaderKeyword != "" {
		for i, line := range lines {
			if i >= headerScanLimit {
				break
			}
			if strings.Contains(line, profile.HeaderKeyword) {
				start = i
				break
			}
		}
	}

	return parseDelimited(strings.Join(lines[start:], "\n"))
}

// parseDelimited parses a delimited block whose first line is the header.
// Malformed lines are skipped, not fatal: a statement export regularly
// carries footer summary lines that do not fit the table.
func parseDelimited(content string) (*Table, error) {
	r := csv.NewReader(strings.NewReader(content))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := &Table{Columns: header}
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Malformed line; keep going.
			continue
		}
		if len(row) > len(header) {
			continue
		}
		for len(row) < len(header) {
			row = append(row, "")
		}
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
