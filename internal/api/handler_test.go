package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ledgerworks/cardledger/internal/config"
)

const testBanksYAML = `home_country: TW
home_currency: TWD
banks:
  esun_bank:
    header_keyword: 消費日
    keywords: [esun]
    columns:
      消費日: transaction_date
      消費明細: merchant
      金額: amount
`

func testApp(t *testing.T) *fiber.App {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		config.BanksFile: testBanksYAML,
		config.MerchantFile: "Pattern,Replacement,Priority,Category,Sub_Category,Exclusion\n" +
			"全聯,全聯福利中心,50,日常,超市,\n",
		config.KeywordsFile: "payment_keywords: [繳款]\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cfg, err := config.Load(dir, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	app := fiber.New()
	New(cfg, zerolog.Nop()).Register(app)
	return app
}

func multipartUpload(t *testing.T, fields map[string]string, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(fw, content); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/convert", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	app := testApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["engine"] != "fiber" || body["version"] != Version {
		t.Errorf("health body: got %v", body)
	}
}

func TestCategorize(t *testing.T) {
	app := testApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet,
		"/api/categorize?merchant="+url.QueryEscape("全聯門市-信義店"), nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}

	var body struct {
		Merchant string `json:"merchant"`
		Category string `json:"category"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Merchant != "全聯福利中心" || body.Category != "日常" {
		t.Errorf("classification: got %+v", body)
	}
}

func TestCategorize_MissingParameter(t *testing.T) {
	app := testApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/categorize", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", resp.StatusCode)
	}
}

func TestConvert(t *testing.T) {
	app := testApp(t)

	statement := "玉山銀行信用卡電子帳單\n" +
		"消費日,消費明細,金額\n" +
		"05/15,全聯門市,820\n"
	req := multipartUpload(t, nil, "esun_202405.csv", statement)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("status: got %d, body %s", resp.StatusCode, raw)
	}

	var out ConvertResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Bank != "esun_bank" {
		t.Errorf("bank: got %q", out.Bank)
	}
	if out.BillingYear != 2024 || out.BillingMonth != 5 {
		t.Errorf("billing period: got %d-%d", out.BillingYear, out.BillingMonth)
	}
	if out.Count != 1 || len(out.Transactions) != 1 {
		t.Fatalf("count: got %d (%d rows)", out.Count, len(out.Transactions))
	}
	if out.Transactions[0].Merchant != "全聯福利中心" {
		t.Errorf("merchant: got %q", out.Transactions[0].Merchant)
	}
	if out.RunID == "" {
		t.Error("run id missing")
	}
	if !strings.HasPrefix(out.CSV, "Transaction_Date,") {
		t.Errorf("csv payload: got %q", out.CSV[:min(len(out.CSV), 40)])
	}
}

func TestConvert_ExplicitBankOverridesDetection(t *testing.T) {
	app := testApp(t)

	statement := "消費日,消費明細,金額\n05/15,路邊攤,100\n"
	req := multipartUpload(t, map[string]string{"bank": "esun_bank", "filename": "renamed_202405.csv"},
		"upload.csv", statement)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
}

func TestConvert_UndetectableBank(t *testing.T) {
	app := testApp(t)

	req := multipartUpload(t, nil, "mystery.csv", "a,b\n1,2\n")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d, want 422", resp.StatusCode)
	}
}

func TestConvert_MissingFile(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader(""))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", resp.StatusCode)
	}
}
