package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankID identifies a configured bank profile.
type BankID string

// Canonical field names shared between column mapping and assembly.
// A RawRecord is keyed by these after mapping.
const (
	FieldTransactionDate    = "transaction_date"
	FieldPostingDate        = "posting_date"
	FieldConversionDate     = "conversion_date"
	FieldMerchant           = "merchant"
	FieldLocation           = "merchant_location"
	FieldConsumptionPlace   = "consumption_place"
	FieldCurrencyType       = "currency_type"
	FieldAmount             = "amount"
	FieldCurrencyAmount     = "currency_amount"
	FieldPaymentAmount      = "payment_amount"
	FieldPaymentCurrency    = "payment_currency"
	FieldCardNo             = "card_no"
	FieldCardType           = "card_type"
	FieldRawCountryCurrency = "raw_country_currency"
)

// RawRecord is one statement line after column mapping: canonical field
// name to raw cell text. It only exists inside normalization.
type RawRecord map[string]string

// Transaction type vocabulary. The classifier assigns each row at most one
// of these, exactly once; an empty string means unclassified.
const (
	TypePayment         = "payment"
	TypeCredit          = "credit"
	TypeRefund          = "refund"
	TypeFee             = "fee"
	TypeZeroValue       = "zero_value"
	TypeTransaction     = "transaction"
	TypeForeign         = "foreign_transaction"
	TypeCrossBorderHome = "home_currency_cross_border"
	TypeDualCurrency    = "dual_currency"
)

// Transaction is the canonical unit of record every bank export is
// normalized into. Date fields use the zero time.Time as "unset";
// amount fields use an invalid NullDecimal, never zero.
type Transaction struct {
	TransactionDate  time.Time           `json:"transaction_date"`
	PostingDate      time.Time           `json:"posting_date"`
	ConversionDate   time.Time           `json:"conversion_date"`
	BankID           BankID              `json:"bank_id"`
	CardType         string              `json:"card_type"`
	CardNo           string              `json:"card_no"`
	Merchant         string              `json:"merchant"`
	MerchantLocation string              `json:"merchant_location"`
	ConsumptionPlace string              `json:"consumption_place"`
	TransactionType  string              `json:"transaction_type"`
	MobilePayment    string              `json:"mobile_payment"`
	CurrencyType     string              `json:"currency_type"`
	CurrencyAmount   decimal.NullDecimal `json:"currency_amount"`
	PaymentCurrency  string              `json:"payment_currency"`
	PaymentAmount    decimal.NullDecimal `json:"payment_amount"`

	// PendingPrefix is a channel label waiting to be merged into Merchant
	// at the end of refinement. It never reaches the output file.
	PendingPrefix string `json:"-"`
}

// Domestic reports whether the transaction happened in the given home country.
func (t *Transaction) Domestic(homeCountry string) bool {
	return t.MerchantLocation == homeCountry
}
