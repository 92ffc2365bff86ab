package models

// File types an export can arrive in.
const (
	FileTypeDelimited   = "delimited"
	FileTypeMarkup      = "markup"
	FileTypeSpreadsheet = "spreadsheet"
)

// Per-bank quirks a profile can opt into.
const (
	// FeatureGroupedCardHeader marks exports that announce the card identity
	// in periodic master rows instead of a column.
	FeatureGroupedCardHeader = "grouped_card_header"
	// FeatureForeignDetail marks exports that pack merchant, consumption
	// location and an optional settlement date into one merchant string.
	FeatureForeignDetail = "foreign_detail"
	// FeatureCountryCurrencySplit marks exports reporting "<country> / <currency>"
	// in a single field.
	FeatureCountryCurrencySplit = "country_currency_split"
	// FeatureDefaultDomestic marks exports that leave the location blank for
	// domestic rows.
	FeatureDefaultDomestic = "default_domestic"
	// FeatureDualCardNo marks the bank that natively emits "aaaa/bbbb" card
	// numbers, enabling the post-mapping repair step.
	FeatureDualCardNo = "dual_card_no"
	// FeatureEPointCredit marks the bank whose reward-point redemptions need
	// their settlement amount recovered from the merchant text.
	FeatureEPointCredit = "epoint_credit"
)

// CardExtract holds the bank-specific patterns used to pull a card number
// and card type out of a grouped master row.
type CardExtract struct {
	Trigger  string `yaml:"trigger"`
	CardNo   string `yaml:"card_no"`
	CardType string `yaml:"card_type"`
}

// BankProfile is the per-bank ingestion configuration. Loaded once per run
// and immutable afterwards.
type BankProfile struct {
	ID            BankID            `yaml:"-"`
	Encoding      string            `yaml:"encoding"`
	HeaderKeyword string            `yaml:"header_keyword"`
	FileType      string            `yaml:"file_type"`
	ColumnMapping map[string]string `yaml:"columns"`
	Keywords      []string          `yaml:"keywords"`
	Features      []string          `yaml:"features"`
	CardExtract   *CardExtract      `yaml:"card_extract"`
}

// HasFeature reports whether the profile opted into the named quirk.
func (p *BankProfile) HasFeature(name string) bool {
	for _, f := range p.Features {
		if f == name {
			return true
		}
	}
	return false
}
