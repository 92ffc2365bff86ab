// Package pipeline orchestrates the batch run: scan a directory of
// heterogeneous exports, normalize each file independently, concatenate
// deterministically and refine the combined ledger.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/ledgerworks/cardledger/internal/config"
	"github.com/ledgerworks/cardledger/internal/ingest"
	"github.com/ledgerworks/cardledger/internal/models"
	"github.com/ledgerworks/cardledger/internal/normalize"
	"github.com/ledgerworks/cardledger/internal/refine"
)

// Result summarizes one batch run.
type Result struct {
	Transactions   []models.Transaction
	FilesProcessed int
	FilesSkipped   int
	FilesUnmatched int
}

// Run processes every recognizable export under dataDir. Files are
// visited in name order so the concatenated ledger is reproducible for
// downstream hashing. One file's failure skips that file, never the run.
func Run(cfg *config.Bundle, dataDir string, log zerolog.Logger) (*Result, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("scan %q: %w", dataDir, err)
	}

	res := &Result{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()

		bankID, ok := ingest.DetectBank(name, cfg.Banks)
		if !ok {
			res.FilesUnmatched++
			log.Warn().Str("file", name).Msg("no bank keyword matched, skipping")
			continue
		}

		txns, err := ProcessFile(cfg, filepath.Join(dataDir, name), bankID, log)
		if err != nil {
			res.FilesSkipped++
			log.Warn().Str("file", name).Str("bank", string(bankID)).Err(err).Msg("file skipped")
			continue
		}

		res.FilesProcessed++
		res.Transactions = append(res.Transactions, txns...)
	}

	Refine(cfg, res.Transactions, log)

	log.Info().
		Int("processed", res.FilesProcessed).
		Int("skipped", res.FilesSkipped).
		Int("unmatched", res.FilesUnmatched).
		Int("transactions", len(res.Transactions)).
		Msg("run complete")
	return res, nil
}

// ProcessFile normalizes a single export file into canonical transactions:
// ingest, column mapping, bank-specific extraction, assembly. The refine
// stages run separately over the concatenated ledger.
func ProcessFile(cfg *config.Bundle, path string, bankID models.BankID, log zerolog.Logger) ([]models.Transaction, error) {
	profile := cfg.Profile(bankID)
	if profile == nil {
		return nil, fmt.Errorf("no profile configured for bank %s", bankID)
	}

	flog := log.With().Str("file", filepath.Base(path)).Str("bank", string(bankID)).Logger()

	billYear, billMonth, ok := ingest.BillingPeriod(path)
	if !ok {
		flog.Warn().Int("year", billYear).Int("month", billMonth).Msg("filename carries no billing period, using default")
	}

	table, err := ingest.Load(path, profile)
	if err != nil {
		return nil, err
	}
	flog.Debug().Int("rows", len(table.Rows)).Int("columns", len(table.Columns)).Msg("ingested")

	records := normalize.MapColumns(table, profile)
	records = normalize.ExtractCardInfo(records, profile, flog)
	records = normalize.SplitForeignDetail(records, profile)
	records = normalize.SplitCountryCurrency(records, profile, cfg.HomeCountry)

	txns := normalize.Assemble(records, profile, normalize.Options{
		BillYear:     billYear,
		BillMonth:    billMonth,
		HomeCountry:  cfg.HomeCountry,
		HomeCurrency: cfg.HomeCurrency,
	}, flog)

	flog.Info().Int("transactions", len(txns)).Msg("file normalized")
	return txns, nil
}

// Refine applies the cross-bank rule stages to the concatenated ledger,
// in the documented order. Later stages assume fields populated by
// earlier ones.
func Refine(cfg *config.Bundle, txns []models.Transaction, log zerolog.Logger) {
	refine.ApplyCardRules(txns, cfg.CardRules, log)
	refine.RepairDualNumbers(txns, banksWithFeature(cfg, models.FeatureDualCardNo), log)
	refine.IdentifyChannels(txns, cfg.ChannelRules, log)
	refine.ApplyEPointCredit(txns, banksWithFeature(cfg, models.FeatureEPointCredit), cfg.HomeCurrency, log)
	refine.CleanMerchants(txns, cfg.MerchantRules, log)
	refine.ClassifyTypes(txns, cfg.Keywords, cfg.HomeCountry, cfg.HomeCurrency, log)
	refine.ApplyPrefixes(txns)
}

func banksWithFeature(cfg *config.Bundle, feature string) map[models.BankID]bool {
	out := make(map[models.BankID]bool)
	for id, p := range cfg.Banks {
		if p.HasFeature(feature) {
			out[id] = true
		}
	}
	return out
}
