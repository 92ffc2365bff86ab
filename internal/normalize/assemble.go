// Package normalize turns mapped statement records into canonical
// transactions: partial-date resolution, country and amount
// normalization, and the bank-specific extraction quirks.
package normalize

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ledgerworks/cardledger/internal/models"
)

// Options carries the run-level context the assembler needs.
type Options struct {
	BillYear     int
	BillMonth    int
	HomeCountry  string
	HomeCurrency string
}

// Assemble performs the generic cross-bank cleanup and produces canonical
// transactions. Rows whose primary transaction date cannot be resolved
// are dropped with a logged reason; every other per-row failure degrades
// to a missing value.
func Assemble(records []models.RawRecord, profile *models.BankProfile, opts Options, log zerolog.Logger) []models.Transaction {
	txns := make([]models.Transaction, 0, len(records))
	dropped := 0

	for _, rec := range records {
		txnDate, ok := ResolveDate(rec[models.FieldTransactionDate], opts.BillYear, opts.BillMonth)
		if !ok {
			dropped++
			log.Debug().
				Str("bank", string(profile.ID)).
				Str("token", rec[models.FieldTransactionDate]).
				Msg("dropping row with unresolvable transaction date")
			continue
		}

		t := models.Transaction{
			TransactionDate:  txnDate,
			BankID:           profile.ID,
			Merchant:         strings.TrimSpace(rec[models.FieldMerchant]),
			ConsumptionPlace: strings.TrimSpace(rec[models.FieldConsumptionPlace]),
			CardType:         strings.TrimSpace(rec[models.FieldCardType]),
			CardNo:           cleanCardNo(rec[models.FieldCardNo]),
			CurrencyType:     strings.TrimSpace(rec[models.FieldCurrencyType]),
		}

		if d, ok := ResolveDate(rec[models.FieldPostingDate], opts.BillYear, opts.BillMonth); ok {
			t.PostingDate = d
		}
		if d, ok := ResolveDate(rec[models.FieldConversionDate], opts.BillYear, opts.BillMonth); ok {
			t.ConversionDate = d
		}

		amount := parseAmount(rec[models.FieldAmount])
		t.CurrencyAmount = parseAmount(rec[models.FieldCurrencyAmount])
		t.PaymentAmount = parseAmount(rec[models.FieldPaymentAmount])
		if !t.PaymentAmount.Valid {
			t.PaymentAmount = amount
		}

		t.PaymentCurrency = strings.TrimSpace(rec[models.FieldPaymentCurrency])
		if t.PaymentCurrency == "" {
			t.PaymentCurrency = opts.HomeCurrency
		}

		location := rec[models.FieldLocation]
		if location == "" && profile.HasFeature(models.FeatureDefaultDomestic) {
			location = opts.HomeCountry
		}
		t.MerchantLocation = Country(location, opts.HomeCountry)
		if len(t.MerchantLocation) > 2 {
			log.Debug().
				Str("bank", string(profile.ID)).
				Str("token", location).
				Msg("location token not in country table, passing through")
		}

		if t.Domestic(opts.HomeCountry) {
			// Domestic transactions carry no FX fields.
			t.CurrencyType = ""
			t.CurrencyAmount = decimal.NullDecimal{}
		} else if t.CurrencyType == "" {
			t.CurrencyType = opts.HomeCurrency
		}

		txns = append(txns, t)
	}

	if dropped > 0 {
		log.Info().Str("bank", string(profile.ID)).Int("rows", dropped).Msg("dropped rows without a transaction date")
	}
	return txns
}

// cleanCardNo strips numeric-coercion artifacts ("1234.0") and collapses
// placeholder strings to empty.
func cleanCardNo(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".0")
	if isPlaceholder(s) {
		return ""
	}
	return s
}

// parseAmount coerces a raw amount cell to a decimal. Thousands
// separators are stripped; anything unparseable is a missing value, not
// zero.
func parseAmount(s string) decimal.NullDecimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if isPlaceholder(s) {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
