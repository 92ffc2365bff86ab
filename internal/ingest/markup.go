package ingest

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/ledgerworks/cardledger/internal/models"
)

// loadMarkup parses an HTML export, finds the text node containing the
// header keyword, walks up to its enclosing table and extracts that table
// as the record set. Header cells are whitespace-squeezed because portal
// markup breaks column names across lines.
func loadMarkup(path string, profile *models.BankProfile) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	decoded, err := decodeBytes(raw, profile.Encoding)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	anchor := findText(doc, profile.HeaderKeyword)
	if anchor == nil {
		return nil, fmt.Errorf("header keyword %q not found in document", profile.HeaderKeyword)
	}
	table := enclosingTable(anchor)
	if table == nil {
		return nil, fmt.Errorf("header keyword %q is not inside a table", profile.HeaderKeyword)
	}

	rows := extractRows(table)
	if len(rows) == 0 {
		return nil, fmt.Errorf("table for %q has no rows", profile.HeaderKeyword)
	}

	header := rows[0]
	for i := range header {
		header[i] = squeeze(header[i])
	}

	t := &Table{Columns: header}
	for _, row := range rows[1:] {
		for len(row) < len(header) {
			row = append(row, "")
		}
		t.Rows = append(t.Rows, row[:len(header)])
	}
	return t, nil
}

// findText locates the first text node whose content contains keyword.
func findText(n *html.Node, keyword string) *html.Node {
	if keyword == "" {
		return nil
	}
	if n.Type == html.TextNode && strings.Contains(n.Data, keyword) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findText(c, keyword); found != nil {
			return found
		}
	}
	return nil
}

// enclosingTable walks ancestors until it reaches a <table>.
func enclosingTable(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == "table" {
			return p
		}
	}
	return nil
}

// extractRows flattens a table node into cell text, one slice per <tr>.
// Nested tables are not descended into; the anchor table is the record set.
func extractRows(table *html.Node) [][]string {
	var rows [][]string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					cells = append(cells, strings.TrimSpace(nodeText(c)))
				}
			}
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == "table" {
				continue
			}
			walk(c)
		}
	}
	walk(table)
	return rows
}

// nodeText concatenates all text beneath a node.
func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
	}
	return b.String()
}
