// Package config loads the hand-maintained rule files into one immutable
// bundle that is constructed at startup and passed into every pipeline
// stage. Nothing reads configuration through ambient state.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/ledgerworks/cardledger/internal/models"
)

// Well-known file names inside the config directory.
const (
	BanksFile     = "banks.yaml"
	KeywordsFile  = "keywords.yaml"
	CardRulesFile = "card_mapping.csv"
	ChannelFile   = "payment_rules.csv"
	MerchantFile  = "merchant_rules.csv"
)

// Bundle is the full run configuration. It is immutable after Load.
type Bundle struct {
	HomeCountry  string
	HomeCurrency string

	Banks map[models.BankID]*models.BankProfile

	CardRules      []models.CardMappingRule
	ChannelRules   []models.ChannelRule
	MerchantRules  []models.MerchantRule
	MerchantLookup map[string]models.MerchantRule
	Keywords       models.Keywords
}

// Load reads every rule file under dir. The merchant rule set is required
// (classification cannot proceed without it); the optional rule sets
// degrade to a warning and an empty set when their file is missing.
func Load(dir string, log zerolog.Logger) (*Bundle, error) {
	banks, err := loadBanks(filepath.Join(dir, BanksFile))
	if err != nil {
		return nil, err
	}

	b := &Bundle{
		HomeCountry:  banks.HomeCountry,
		HomeCurrency: banks.HomeCurrency,
		Banks:        banks.Banks,
	}

	merchantPath := filepath.Join(dir, MerchantFile)
	b.MerchantRules, b.MerchantLookup, err = loadMerchantRules(merchantPath, log)
	if err != nil {
		return nil, fmt.Errorf("merchant rules: %w", err)
	}

	b.CardRules, err = loadCardRules(filepath.Join(dir, CardRulesFile))
	if err != nil {
		log.Warn().Err(err).Msg("card mapping unavailable, account consolidation disabled")
		b.CardRules = nil
	}

	b.ChannelRules, err = loadChannelRules(filepath.Join(dir, ChannelFile), log)
	if err != nil {
		log.Warn().Err(err).Msg("payment channel rules unavailable, channel tagging disabled")
		b.ChannelRules = nil
	}

	if err := b.loadKeywords(filepath.Join(dir, KeywordsFile)); err != nil {
		log.Warn().Err(err).Msg("keyword config unavailable, keyword classification disabled")
	}

	log.Info().
		Int("banks", len(b.Banks)).
		Int("card_rules", len(b.CardRules)).
		Int("channel_rules", len(b.ChannelRules)).
		Int("merchant_rules", len(b.MerchantRules)).
		Msg("configuration loaded")
	return b, nil
}

// Profile returns the profile for a bank ID, or nil when unconfigured.
func (b *Bundle) Profile(id models.BankID) *models.BankProfile {
	return b.Banks[id]
}

func (b *Bundle) loadKeywords(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, &b.Keywords); err != nil {
		return fmt.Errorf("parse keywords: %w", err)
	}
	return nil
}
