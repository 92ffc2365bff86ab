// Package merchant classifies merchant names with a hybrid strategy:
// exact lookup against canonical names first, priority-ordered regex scan
// as the fallback. This is the categorizing variant used by downstream
// analytics, independent of the pipeline's destructive text cleanup.
package merchant

import (
	"sort"
	"strings"

	"github.com/ledgerworks/cardledger/internal/models"
)

// Uncategorized is the category assigned when neither the lookup table
// nor any rule pattern claims a merchant.
const Uncategorized = "Unknown"

// Classification is the result of resolving one merchant name.
type Classification struct {
	Name        string
	Category    string
	SubCategory string
	Excluded    bool
}

// Resolver resolves raw merchant strings to canonical classifications.
type Resolver struct {
	rules    []models.MerchantRule
	lookup   map[string]models.MerchantRule
	prefixes []string
}

// NewResolver builds a resolver from the merchant rule set and the
// channel rules whose prefix labels may be glued onto merchant text.
// Prefixes are tried longest-first so a short prefix never shadows a
// longer one it happens to lead.
func NewResolver(rules []models.MerchantRule, lookup map[string]models.MerchantRule, channels []models.ChannelRule) *Resolver {
	seen := make(map[string]bool)
	var prefixes []string
	for _, ch := range channels {
		p := strings.TrimSpace(ch.PrefixLabel)
		if p != "" && !seen[p] {
			seen[p] = true
			prefixes = append(prefixes, p)
		}
	}
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })

	return &Resolver{rules: rules, lookup: lookup, prefixes: prefixes}
}

// Resolve classifies one merchant name: strip a channel prefix, try the
// exact lookup, fall back to the regex scan, finally give up and return
// the stripped name uncategorized.
func (r *Resolver) Resolve(raw string) Classification {
	name := strings.TrimSpace(raw)

	for _, prefix := range r.prefixes {
		if strings.HasPrefix(name, prefix) {
			name = strings.TrimSpace(name[len(prefix):])
			break
		}
	}

	if rule, ok := r.lookup[name]; ok {
		return Classification{
			Name:        name,
			Category:    rule.Category,
			SubCategory: rule.SubCategory,
			Excluded:    rule.Exclusion,
		}
	}

	for _, rule := range r.rules {
		if rule.Regexp != nil && rule.Regexp.MatchString(name) {
			return Classification{
				Name:        rule.Replacement,
				Category:    rule.Category,
				SubCategory: rule.SubCategory,
				Excluded:    rule.Exclusion,
			}
		}
	}

	if name == "" {
		name = strings.TrimSpace(raw)
	}
	return Classification{Name: name, Category: Uncategorized}
}
