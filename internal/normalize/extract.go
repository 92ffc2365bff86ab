package normalize

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ledgerworks/cardledger/internal/models"
)

// foreignDetail splits a packed merchant string into merchant name,
// consumption location and an optional MM/DD settlement date. The
// separator between name and location is a run of two or more spaces or
// a tab.
var foreignDetail = regexp.MustCompile(`^(.*?)(?:\s{2,}|\t)(.*?)(?:\s+(\d{2}/\d{2}))?$`)

// ExtractCardInfo handles exports that announce the card identity in
// periodic master rows. Each master row's text is carried forward to the
// detail rows beneath it, the card number and type are extracted with the
// profile's patterns, and the master rows themselves are dropped.
func ExtractCardInfo(records []models.RawRecord, profile *models.BankProfile, log zerolog.Logger) []models.RawRecord {
	if !profile.HasFeature(models.FeatureGroupedCardHeader) || profile.CardExtract == nil {
		return records
	}

	trigger, err := regexp.Compile(profile.CardExtract.Trigger)
	if err != nil {
		log.Warn().Str("bank", string(profile.ID)).Err(err).Msg("invalid card trigger pattern, extraction skipped")
		return records
	}
	cardNoRe, err := regexp.Compile(profile.CardExtract.CardNo)
	if err != nil {
		log.Warn().Str("bank", string(profile.ID)).Err(err).Msg("invalid card number pattern, extraction skipped")
		return records
	}
	var cardTypeRe *regexp.Regexp
	if profile.CardExtract.CardType != "" {
		cardTypeRe, err = regexp.Compile(profile.CardExtract.CardType)
		if err != nil {
			log.Warn().Str("bank", string(profile.ID)).Err(err).Msg("invalid card type pattern, card type skipped")
		}
	}

	var (
		out        []models.RawRecord
		cardNo     string
		cardType   string
		sawMaster  bool
		masterRows int
	)
	for _, rec := range records {
		merchant := rec[models.FieldMerchant]
		if trigger.MatchString(merchant) {
			sawMaster = true
			masterRows++
			cardNo, cardType = "", ""
			if m := cardNoRe.FindStringSubmatch(merchant); len(m) > 1 {
				cardNo = m[1]
			}
			if cardTypeRe != nil {
				if m := cardTypeRe.FindStringSubmatch(merchant); len(m) > 1 {
					cardType = m[1]
				}
			}
			continue
		}
		if sawMaster {
			rec[models.FieldCardNo] = cardNo
			rec[models.FieldCardType] = cardType
		}
		out = append(out, rec)
	}

	if masterRows > 0 {
		log.Debug().Str("bank", string(profile.ID)).Int("master_rows", masterRows).Msg("propagated grouped card headers")
	}
	return out
}

// SplitForeignDetail unpacks composite foreign-transaction strings. Rows
// where the structural pattern captures no location are left untouched.
// The captured location also primes the merchant location field; final
// country normalization happens during assembly.
func SplitForeignDetail(records []models.RawRecord, profile *models.BankProfile) []models.RawRecord {
	if !profile.HasFeature(models.FeatureForeignDetail) {
		return records
	}

	for _, rec := range records {
		merchant := strings.TrimSpace(rec[models.FieldMerchant])
		rec[models.FieldMerchant] = merchant

		m := foreignDetail.FindStringSubmatch(merchant)
		if m == nil || strings.TrimSpace(m[2]) == "" {
			continue
		}
		if name := strings.TrimSpace(m[1]); name != "" {
			rec[models.FieldMerchant] = name
		}
		place := strings.TrimSpace(m[2])
		rec[models.FieldConsumptionPlace] = place
		rec[models.FieldLocation] = place
		if m[3] != "" {
			rec[models.FieldConversionDate] = m[3]
		}
	}
	return records
}

// SplitCountryCurrency unpacks a combined "<country> / <currency>" field
// into the location and currency fields, removing the source field.
func SplitCountryCurrency(records []models.RawRecord, profile *models.BankProfile, homeCountry string) []models.RawRecord {
	if !profile.HasFeature(models.FeatureCountryCurrencySplit) {
		return records
	}

	for _, rec := range records {
		raw, ok := rec[models.FieldRawCountryCurrency]
		if !ok {
			continue
		}
		parts := strings.SplitN(raw, " / ", 2)
		rec[models.FieldLocation] = Country(parts[0], homeCountry)
		if len(parts) == 2 {
			rec[models.FieldCurrencyType] = strings.TrimSpace(parts[1])
		}
		delete(rec, models.FieldRawCountryCurrency)
	}
	return records
}
