package refine

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ledgerworks/cardledger/internal/models"
)

// epointPattern recovers the redeemed cash value from reward-point
// redemption rows, e.g "使用e point 1,200 點折現金 100 元".
var epointPattern = regexp.MustCompile(`(?i)使用e point\s*([\d,]+)\s*點折現金\s*([\d,]+)\s*元`)

// CleanMerchants normalizes merchant display text against the merchant
// rule set in priority order. A match replaces the entire field with the
// rule's replacement, not a substring; later rules may replace again.
// This is the pipeline's destructive text-normalization pass, distinct
// from the categorizing lookup used by analytics, and unlike that lookup
// it matches case-sensitively.
func CleanMerchants(txns []models.Transaction, rules []models.MerchantRule, log zerolog.Logger) {
	applied := 0
	for _, rule := range rules {
		if rule.CleanRegexp == nil || rule.Replacement == "" {
			continue
		}
		for i := range txns {
			if rule.CleanRegexp.MatchString(txns[i].Merchant) {
				txns[i].Merchant = rule.Replacement
				applied++
			}
		}
	}
	log.Info().Int("rows", applied).Msg("merchant names normalized")
}

// ApplyEPointCredit fills in the settlement amount for reward-point
// redemption rows of the banks that emit the e.Point marker. The redeemed
// cash value posts as a negative settlement in the home currency.
func ApplyEPointCredit(txns []models.Transaction, epointBanks map[models.BankID]bool, homeCurrency string, log zerolog.Logger) {
	repaired := 0
	for i := range txns {
		t := &txns[i]
		if !epointBanks[t.BankID] {
			continue
		}
		m := epointPattern.FindStringSubmatch(t.Merchant)
		if m == nil {
			continue
		}
		amount, err := decimal.NewFromString(strings.ReplaceAll(m[2], ",", ""))
		if err != nil {
			continue
		}
		t.PaymentAmount = decimal.NullDecimal{Decimal: amount.Neg(), Valid: true}
		t.PaymentCurrency = homeCurrency
		repaired++
	}
	if repaired > 0 {
		log.Info().Int("rows", repaired).Msg("recovered e.Point redemption amounts")
	}
}

// ApplyPrefixes merges the pending channel label into the merchant text.
// Runs last: classification may have cleared the prefix on payment and
// fee rows.
func ApplyPrefixes(txns []models.Transaction) {
	for i := range txns {
		t := &txns[i]
		if t.PendingPrefix != "" {
			t.Merchant = t.PendingPrefix + t.Merchant
			t.PendingPrefix = ""
		}
	}
}
