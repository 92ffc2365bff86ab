// Package refine applies the cross-bank business rules to the
// concatenated ledger: card-account consolidation, payment-channel
// tagging, merchant cleanup and transaction-type classification.
package refine

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/ledgerworks/cardledger/internal/models"
)

// ApplyCardRules consolidates fragmentary card numbers into canonical
// card identities. Rules run strictly in declaration order; when two
// rules match the same row the later one's fields win. This is the point
// of leaving the rule set unsorted, so it must not be unified with the
// priority-sorted rule strategies. Every rule matches against the values
// as they stood before any rule ran: a replacement number or channel tag
// written by one rule is never matched by a later one.
func ApplyCardRules(txns []models.Transaction, rules []models.CardMappingRule, log zerolog.Logger) {
	cardNos := make([]string, len(txns))
	mobileTags := make([]string, len(txns))
	for i := range txns {
		cardNos[i] = strings.ReplaceAll(strings.TrimSpace(txns[i].CardNo), " ", "")
		mobileTags[i] = strings.TrimSpace(txns[i].MobilePayment)
	}

	matched := 0
	for _, rule := range rules {
		for i := range txns {
			t := &txns[i]
			if cardNos[i] != rule.CardNo {
				continue
			}
			if !rule.DualNumber() && rule.MobilePayment != "" &&
				mobileTags[i] != rule.MobilePayment {
				continue
			}

			matched++
			if rule.CardType != "" {
				t.CardType = rule.CardType
			}
			if rule.MobilePayment != "" {
				t.MobilePayment = rule.MobilePayment
			}
			if rule.PrefixLabel != "" {
				t.PendingPrefix = rule.PrefixLabel
			}
			if rule.ReplacementNo != "" {
				t.CardNo = rule.ReplacementNo
			}
		}
	}
	log.Info().Int("rows", matched).Msg("card mapping applied")
}

// RepairDualNumbers truncates leftover "aaaa/bbbb" card numbers to their
// first segment. Only the bank that natively emits dual numbers is
// touched; this is the best-effort fallback for pairs no mapping rule
// claimed.
func RepairDualNumbers(txns []models.Transaction, dualBanks map[models.BankID]bool, log zerolog.Logger) {
	repaired := 0
	for i := range txns {
		t := &txns[i]
		if !dualBanks[t.BankID] {
			continue
		}
		if a, _, found := strings.Cut(t.CardNo, "/"); found {
			t.CardNo = strings.TrimSpace(a)
			repaired++
		}
	}
	if repaired > 0 {
		log.Info().Int("rows", repaired).Msg("repaired unmapped dual card numbers")
	}
}
