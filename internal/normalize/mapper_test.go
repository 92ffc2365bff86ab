package normalize

import (
	"testing"

	"github.com/ledgerworks/cardledger/internal/ingest"
	"github.com/ledgerworks/cardledger/internal/models"
)

func TestMapColumns(t *testing.T) {
	profile := &models.BankProfile{
		ID: "ctbc_bank",
		ColumnMapping: map[string]string{
			"消費日":  models.FieldTransactionDate,
			"交易說明": models.FieldMerchant,
			"金額":   models.FieldAmount,
		},
	}
	table := &ingest.Table{
		Columns: []string{"消費日", "入帳日", "交易說明", "金額"},
		Rows: [][]string{
			{"05/15", "05/16", "全聯福利中心", "820"},
			{"05/18", "05/19", "台灣大車隊"}, // short row, unmapped tail
		},
	}

	records := MapColumns(table, profile)
	if len(records) != 2 {
		t.Fatalf("records: got %d, want 2", len(records))
	}
	if records[0][models.FieldMerchant] != "全聯福利中心" {
		t.Errorf("merchant: got %q", records[0][models.FieldMerchant])
	}
	if _, ok := records[0]["入帳日"]; ok {
		t.Error("unmapped column leaked into record")
	}
	if _, ok := records[1][models.FieldAmount]; ok {
		t.Error("missing cell should be absent, not empty")
	}
}
