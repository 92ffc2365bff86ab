package config

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ledgerworks/cardledger/internal/models"
)

// fallbackPriority is assigned to rules whose priority cell is missing or
// not numeric, pushing them behind every explicitly ranked rule.
const fallbackPriority = 999

// readRuleCSV reads a rule file into header-keyed rows. Cells are trimmed;
// short rows are padded so lookups by header never panic.
func readRuleCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rows) < 1 {
		return nil, nil
	}

	header := rows[0]
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var out []map[string]string
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				rec[name] = strings.TrimSpace(row[i])
			} else {
				rec[name] = ""
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func parsePriority(s string) int {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallbackPriority
	}
	return p
}

// loadCardRules reads the account-consolidation table. Order is preserved:
// card rules are applied as declared, never re-sorted, because account
// consolidation depends on last-write-wins over overlapping matches.
func loadCardRules(path string) ([]models.CardMappingRule, error) {
	rows, err := readRuleCSV(path)
	if err != nil {
		return nil, err
	}

	var rules []models.CardMappingRule
	for _, row := range rows {
		cardNo := strings.ReplaceAll(row["Card_No"], " ", "")
		if cardNo == "" {
			continue
		}
		rules = append(rules, models.CardMappingRule{
			CardType:      row["Card_Type"],
			CardNo:        cardNo,
			MobilePayment: row["Mobile_Payment"],
			PrefixLabel:   row["Prefix_Label"],
			ReplacementNo: row["Replacement_No"],
		})
	}
	return rules, nil
}

// loadChannelRules reads the third-party payment rules and sorts them
// descending by priority. The sort is stable so equal priorities keep their
// declared order.
func loadChannelRules(path string, log zerolog.Logger) ([]models.ChannelRule, error) {
	rows, err := readRuleCSV(path)
	if err != nil {
		return nil, err
	}

	var rules []models.ChannelRule
	for _, row := range rows {
		pattern := row["Pattern"]
		if pattern == "" {
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			log.Warn().Str("pattern", pattern).Err(err).Msg("skipping invalid channel rule")
			continue
		}
		rules = append(rules, models.ChannelRule{
			Pattern:     pattern,
			Category:    row["Category"],
			PrefixLabel: row["Prefix_Label"],
			Priority:    parsePriority(row["Priority"]),
			Regexp:      re,
		})
	}

	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}

// loadMerchantRules reads the merchant table and returns both the
// priority-ordered regex list and the exact-name lookup keyed by
// Replacement. The first rule to claim a replacement name wins the lookup
// slot.
func loadMerchantRules(path string, log zerolog.Logger) ([]models.MerchantRule, map[string]models.MerchantRule, error) {
	rows, err := readRuleCSV(path)
	if err != nil {
		return nil, nil, err
	}

	var rules []models.MerchantRule
	for _, row := range rows {
		pattern := row["Pattern"]
		if pattern == "" {
			continue
		}
		rules = append(rules, models.MerchantRule{
			Pattern:     pattern,
			Replacement: row["Replacement"],
			Priority:    parsePriority(row["Priority"]),
			Category:    row["Category"],
			SubCategory: row["Sub_Category"],
			Exclusion:   parseBool(row["Exclusion"]),
		})
	}

	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})

	compiled := rules[:0]
	lookup := make(map[string]models.MerchantRule)
	for _, rule := range rules {
		cleanRe, err := regexp.Compile(rule.Pattern)
		if err != nil {
			log.Warn().Str("pattern", rule.Pattern).Err(err).Msg("skipping invalid merchant rule")
			continue
		}
		rule.CleanRegexp = cleanRe
		// A case-folded variant of a pattern that just compiled cannot fail.
		rule.Regexp = regexp.MustCompile("(?i)" + rule.Pattern)
		compiled = append(compiled, rule)
		key := strings.TrimSpace(rule.Replacement)
		if key != "" {
			if _, ok := lookup[key]; !ok {
				lookup[key] = rule
			}
		}
	}
	return compiled, lookup, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
