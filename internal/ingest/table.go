package ingest

import "strings"

// Table is an ordered record set produced by one of the ingestion
// strategies, before any column mapping.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Empty reports whether the table carries no data rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// squeeze collapses internal whitespace and line breaks to single spaces.
// Markup headers in particular arrive with embedded newlines.
func squeeze(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
