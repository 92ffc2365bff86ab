package refine

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ledgerworks/cardledger/internal/models"
)

// keywordPattern builds one case-insensitive alternation from a keyword
// list. Nil means "never matches".
func keywordPattern(keywords []string) *regexp.Regexp {
	var quoted []string
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			quoted = append(quoted, regexp.QuoteMeta(kw))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)` + strings.Join(quoted, "|"))
}

func matches(re *regexp.Regexp, s string) bool {
	return re != nil && re.MatchString(s)
}

// ClassifyTypes assigns each transaction exactly one category. The cascade
// is mutually exclusive: every stage only touches rows whose type is still
// unset, so stage order is load-bearing. Rows matching no stage stay
// unclassified.
func ClassifyTypes(txns []models.Transaction, kw models.Keywords, homeCountry, homeCurrency string, log zerolog.Logger) {
	payment := keywordPattern(kw.Payment)
	credit := keywordPattern(kw.Credit)
	fee := keywordPattern(kw.Fee)
	exclusion := keywordPattern(kw.PaymentExclusions)

	counts := make(map[string]int)
	for i := range txns {
		t := &txns[i]

		// 1. Bill payment. A settlement row carries no card or channel
		// context, so those fields are cleared.
		if t.TransactionType == "" && matches(payment, t.Merchant) && !matches(exclusion, t.Merchant) {
			t.TransactionType = models.TypePayment
			t.CardType = ""
			t.MobilePayment = ""
			t.ConsumptionPlace = ""
			t.PendingPrefix = ""
		}

		// 2. Credit / offset.
		if t.TransactionType == "" && matches(credit, t.Merchant) {
			t.TransactionType = models.TypeCredit
			t.MobilePayment = ""
			t.PendingPrefix = ""
		}

		// 3. Refund: negative settlement amount.
		if t.TransactionType == "" && t.PaymentAmount.Valid && t.PaymentAmount.Decimal.Sign() < 0 {
			t.TransactionType = models.TypeRefund
		}

		// 4. Fee.
		if t.TransactionType == "" && matches(fee, t.Merchant) {
			t.TransactionType = models.TypeFee
			t.MobilePayment = ""
			t.PendingPrefix = ""
		}

		// 5. Zero-value verification.
		if t.TransactionType == "" && t.PaymentAmount.Valid && t.PaymentAmount.Decimal.Sign() == 0 {
			t.TransactionType = models.TypeZeroValue
		}

		// 6. General transaction, with foreign-exchange sub-classification.
		if t.TransactionType == "" && t.PaymentAmount.Valid && t.PaymentAmount.Decimal.Sign() > 0 {
			t.TransactionType = models.TypeTransaction
			if !t.Domestic(homeCountry) {
				switch {
				case t.CurrencyType != t.PaymentCurrency:
					t.TransactionType = models.TypeForeign
				case t.CurrencyType == homeCurrency:
					// Same home currency on both sides: no conversion
					// happened, so the amounts must agree.
					t.TransactionType = models.TypeCrossBorderHome
					t.CurrencyAmount = t.PaymentAmount
				default:
					t.TransactionType = models.TypeDualCurrency
				}
			}
		}

		counts[t.TransactionType]++
	}

	ev := log.Info()
	for typ, n := range counts {
		if typ == "" {
			typ = "unclassified"
		}
		ev = ev.Int(typ, n)
	}
	ev.Msg("transaction types classified")
}
