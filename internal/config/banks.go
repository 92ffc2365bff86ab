package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ledgerworks/cardledger/internal/models"
)

// banksFile mirrors the layout of configs/banks.yaml.
type banksFile struct {
	HomeCountry  string                                `yaml:"home_country"`
	HomeCurrency string                                `yaml:"home_currency"`
	Banks        map[models.BankID]*models.BankProfile `yaml:"banks"`
}

// loadBanks reads the bank profile registry. Every profile gets its map key
// stamped as its ID.
func loadBanks(path string) (*banksFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank profiles: %w", err)
	}

	var bf banksFile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return nil, fmt.Errorf("parse bank profiles: %w", err)
	}
	if len(bf.Banks) == 0 {
		return nil, fmt.Errorf("bank profiles %q: no banks defined", path)
	}

	if bf.HomeCountry == "" {
		bf.HomeCountry = "TW"
	}
	if bf.HomeCurrency == "" {
		bf.HomeCurrency = "TWD"
	}

	for id, p := range bf.Banks {
		p.ID = id
		if p.Encoding == "" {
			p.Encoding = "utf-8"
		}
		if p.FileType == "" {
			p.FileType = models.FileTypeDelimited
		}
		switch p.FileType {
		case models.FileTypeDelimited, models.FileTypeMarkup, models.FileTypeSpreadsheet:
		default:
			return nil, fmt.Errorf("bank %s: unknown file_type %q", id, p.FileType)
		}
	}
	return &bf, nil
}
