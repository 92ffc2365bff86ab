package models

import "regexp"

// CardMappingRule consolidates fragmentary card numbers into a canonical
// card identity. Rules apply strictly in declaration order and later
// matching rules overwrite earlier ones on overlapping rows.
type CardMappingRule struct {
	CardType      string
	CardNo        string
	MobilePayment string
	PrefixLabel   string
	ReplacementNo string
}

// DualNumber reports whether the rule targets a linked "aaaa/bbbb" pair.
func (r *CardMappingRule) DualNumber() bool {
	for i := 0; i < len(r.CardNo); i++ {
		if r.CardNo[i] == '/' {
			return true
		}
	}
	return false
}

// ChannelRule tags transactions with a third-party payment channel.
// The active set is sorted descending by Priority before use.
type ChannelRule struct {
	Pattern     string
	Category    string
	PrefixLabel string
	Priority    int

	Regexp *regexp.Regexp
}

// MerchantRule canonicalizes and categorizes merchant names. Used both as
// a priority-ordered regex list and, keyed by Replacement, as a direct
// lookup table for already-canonicalized names.
type MerchantRule struct {
	Pattern     string
	Replacement string
	Priority    int
	Category    string
	SubCategory string
	Exclusion   bool

	// Regexp folds case; the categorizing resolver matches with it.
	Regexp *regexp.Regexp
	// CleanRegexp is case-sensitive; the destructive text-normalization
	// pass matches with it.
	CleanRegexp *regexp.Regexp
}

// Keywords holds the configured keyword lists driving transaction-type
// classification.
type Keywords struct {
	Payment           []string `yaml:"payment_keywords"`
	Credit            []string `yaml:"credit_keywords"`
	Fee               []string `yaml:"fee_keywords"`
	PaymentExclusions []string `yaml:"payment_exclusions"`
}
