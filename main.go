package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"

	"github.com/ledgerworks/cardledger/internal/api"
	"github.com/ledgerworks/cardledger/internal/config"
	"github.com/ledgerworks/cardledger/internal/logger"
	"github.com/ledgerworks/cardledger/internal/pipeline"
	"github.com/ledgerworks/cardledger/internal/writer"
)

func main() {
	configFlag := flag.String("config", "", "Config directory holding rule files (default: ./configs)")
	dataFlag := flag.String("data", "", "Directory of bank export files (default: ./data)")
	outputFlag := flag.String("output", "", "Output CSV path (default: <data>/result_all_banks.csv)")
	serveFlag := flag.String("serve", "", "Listen address for the HTTP API (e.g. :8080); omit for batch mode")
	levelFlag := flag.String("log-level", "", "Log level: debug, info, warn, error")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `cardledger — multi-bank credit-card statement normalizer

Reads monthly statement exports (delimited text, HTML tables, XLS
workbooks) from a directory, normalizes them into one canonical
transaction ledger, and writes the result as CSV.

Usage:
  cardledger [flags]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Batch: normalize ./data using ./configs rules
  cardledger

  # Custom locations
  cardledger -config etc/rules -data exports -output ledger.csv

  # Serve the upload-and-convert API
  cardledger -serve :8080
`)
	}
	flag.Parse()

	if *versionFlag {
		fmt.Printf("cardledger v%s\n", api.Version)
		os.Exit(0)
	}

	v := viper.New()
	v.SetConfigName("cardledger")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("cardledger")
	v.AutomaticEnv()
	v.SetDefault("config_dir", "configs")
	v.SetDefault("data_dir", "data")
	v.SetDefault("output", "")
	v.SetDefault("log_level", "info")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "reading cardledger.yaml: %v\n", err)
			os.Exit(1)
		}
	}

	configDir := override(*configFlag, v.GetString("config_dir"))
	dataDir := override(*dataFlag, v.GetString("data_dir"))
	output := override(*outputFlag, v.GetString("output"))
	if output == "" {
		output = dataDir + "/result_all_banks.csv"
	}
	level := override(*levelFlag, v.GetString("log_level"))

	log := logger.New(level)

	cfg, err := config.Load(configDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("configuration failed")
	}

	if *serveFlag != "" {
		app := fiber.New()
		api.New(cfg, log).Register(app)
		log.Info().Str("addr", *serveFlag).Msg("serving API")
		if err := app.Listen(*serveFlag); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
		return
	}

	result, err := pipeline.Run(cfg, dataDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}
	if len(result.Transactions) == 0 {
		log.Warn().Msg("no transactions produced, nothing written")
		return
	}

	w := &writer.CSVWriter{IncludeBOM: true}
	if err := w.WriteToFile(output, result.Transactions); err != nil {
		log.Fatal().Err(err).Msg("writing ledger failed")
	}
	log.Info().Str("output", output).Int("transactions", len(result.Transactions)).Msg("ledger written")
}

// override prefers an explicitly set flag over the viper value.
func override(flagValue, viperValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return viperValue
}
