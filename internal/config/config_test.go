package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ledgerworks/cardledger/internal/models"
)

const testBanksYAML = `home_country: TW
home_currency: TWD
banks:
  esun_bank:
    header_keyword: 消費日
    keywords: [玉山, esun]
    features: [grouped_card_header, foreign_detail]
    columns:
      消費日: transaction_date
      消費明細: merchant
      金額: amount
  hncb_bank:
    file_type: markup
    encoding: cp950
    header_keyword: 消費日
    keywords: [華南]
`

const testMerchantCSV = `Pattern,Replacement,Priority,Category,Sub_Category,Exclusion
uber\s*eats,UberEats,100,餐飲,外送,
全聯,全聯福利中心,50,日常,超市,
中華電信,中華電信,40,固定支出,,true
(broken,壞規則,30,,,
悠遊卡,悠遊卡加值,200,交通,,
`

func writeConfigDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeConfigDir(t, map[string]string{
		BanksFile:    testBanksYAML,
		MerchantFile: testMerchantCSV,
		CardRulesFile: "Card_Type,Card_No,Mobile_Payment,Prefix_Label,Replacement_No\n" +
			"Ubear卡,34 56,,,\n" +
			",,,,\n" + // no card number, skipped
			"世界卡,9012,ApplePay,AP_,0002\n",
		ChannelFile: "Pattern,Category,Prefix_Label,Priority\n" +
			"連加,LinePay,LP_,100\n" +
			"連加.*一卡通,LinePay一卡通,LP1_,110\n" +
			"街口,街口支付,JK_,notanumber\n",
		KeywordsFile: "payment_keywords: [繳款]\ncredit_keywords: [回饋]\nfee_keywords: [年費]\npayment_exclusions: [代收]\n",
	})

	b, err := Load(dir, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	if b.HomeCountry != "TW" || b.HomeCurrency != "TWD" {
		t.Errorf("home locale: got (%q, %q)", b.HomeCountry, b.HomeCurrency)
	}

	esun := b.Profile("esun_bank")
	if esun == nil {
		t.Fatal("esun_bank profile missing")
	}
	if esun.ID != "esun_bank" {
		t.Errorf("profile ID not backfilled: got %q", esun.ID)
	}
	if esun.FileType != models.FileTypeDelimited {
		t.Errorf("default file type: got %q", esun.FileType)
	}
	if esun.Encoding != "utf-8" {
		t.Errorf("default encoding: got %q", esun.Encoding)
	}
	if !esun.HasFeature(models.FeatureForeignDetail) {
		t.Error("features not loaded")
	}
	if b.Profile("hncb_bank").FileType != models.FileTypeMarkup {
		t.Errorf("explicit file type: got %q", b.Profile("hncb_bank").FileType)
	}
	if b.Profile("nonexistent") != nil {
		t.Error("unknown bank must resolve to nil")
	}

	// Card rules keep declaration order, drop the empty row, strip spaces.
	if len(b.CardRules) != 2 {
		t.Fatalf("card rules: got %d, want 2", len(b.CardRules))
	}
	if b.CardRules[0].CardNo != "3456" {
		t.Errorf("card no: got %q, want 3456", b.CardRules[0].CardNo)
	}

	// Channel rules sorted descending by priority; non-numeric priority
	// sinks to the bottom.
	if len(b.ChannelRules) != 3 {
		t.Fatalf("channel rules: got %d, want 3", len(b.ChannelRules))
	}
	if b.ChannelRules[0].Category != "LinePay一卡通" || b.ChannelRules[2].Category != "街口支付" {
		t.Errorf("channel order: got %q .. %q", b.ChannelRules[0].Category, b.ChannelRules[2].Category)
	}

	// The broken merchant pattern is skipped, the rest sorted by priority.
	if len(b.MerchantRules) != 4 {
		t.Fatalf("merchant rules: got %d, want 4", len(b.MerchantRules))
	}
	if b.MerchantRules[0].Replacement != "悠遊卡加值" {
		t.Errorf("merchant order: got %q first", b.MerchantRules[0].Replacement)
	}
	uber, ok := b.MerchantLookup["UberEats"]
	if !ok {
		t.Fatal("merchant lookup missing UberEats")
	}
	if !uber.Regexp.MatchString("UBER EATS") {
		t.Error("categorizer regex must fold case")
	}
	if uber.CleanRegexp == nil || uber.CleanRegexp.MatchString("UBER EATS") {
		t.Error("cleanup regex must be case-sensitive")
	}
	if !b.MerchantLookup["中華電信"].Exclusion {
		t.Error("exclusion flag not parsed")
	}

	if len(b.Keywords.Payment) != 1 || b.Keywords.Payment[0] != "繳款" {
		t.Errorf("keywords: got %+v", b.Keywords)
	}
}

func TestLoad_MerchantRulesRequired(t *testing.T) {
	dir := writeConfigDir(t, map[string]string{BanksFile: testBanksYAML})

	if _, err := Load(dir, zerolog.Nop()); err == nil {
		t.Fatal("want error when merchant rules are missing")
	}
}

func TestLoad_OptionalFilesDegrade(t *testing.T) {
	dir := writeConfigDir(t, map[string]string{
		BanksFile:    testBanksYAML,
		MerchantFile: testMerchantCSV,
	})

	b, err := Load(dir, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if len(b.CardRules) != 0 || len(b.ChannelRules) != 0 {
		t.Errorf("optional rule sets must be empty: %d card, %d channel",
			len(b.CardRules), len(b.ChannelRules))
	}
	if len(b.Keywords.Payment) != 0 {
		t.Errorf("keywords must be empty: %+v", b.Keywords)
	}
}

func TestLoad_InvalidFileType(t *testing.T) {
	dir := writeConfigDir(t, map[string]string{
		BanksFile: "banks:\n  bad_bank:\n    file_type: parquet\n    keywords: [x]\n",
		MerchantFile: "Pattern,Replacement,Priority,Category,Sub_Category,Exclusion\n" +
			"a,b,1,,,\n",
	})

	if _, err := Load(dir, zerolog.Nop()); err == nil {
		t.Fatal("want error for unknown file type")
	}
}
