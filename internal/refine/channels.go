package refine

import (
	"github.com/rs/zerolog"

	"github.com/ledgerworks/cardledger/internal/models"
)

// IdentifyChannels tags transactions with a third-party payment channel.
// Rules arrive already sorted descending by priority. A rule only applies
// to rows whose mobile-payment tag is still empty: a channel resolved by
// a card-identity rule is never overridden, even when that leaves some
// third-party transactions untagged.
func IdentifyChannels(txns []models.Transaction, rules []models.ChannelRule, log zerolog.Logger) {
	matched := 0
	for _, rule := range rules {
		if rule.Regexp == nil {
			continue
		}
		for i := range txns {
			t := &txns[i]
			if t.MobilePayment != "" || !rule.Regexp.MatchString(t.Merchant) {
				continue
			}
			t.PendingPrefix = rule.PrefixLabel
			t.MobilePayment = rule.Category
			matched++
		}
	}
	log.Info().Int("rows", matched).Msg("payment channels identified")
}
