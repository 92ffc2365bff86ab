package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/traditionalchinese"

	"github.com/ledgerworks/cardledger/internal/models"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDelimited_AnchorScan(t *testing.T) {
	content := "玉山銀行信用卡電子帳單\n" +
		"帳單月份,2024/05\n" +
		"\n" +
		"消費日,入帳日,消費明細,金額\n" +
		"05/15,05/16,全聯福利中心,820\n" +
		"05/18,05/19,台灣大車隊,250\n" +
		"本期應繳總額,,,1070\n"
	path := writeFile(t, "esun_202405.csv", []byte(content))

	profile := &models.BankProfile{ID: "esun_bank", Encoding: "utf-8", HeaderKeyword: "消費日"}
	table, err := loadDelimited(path, profile)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"消費日", "入帳日", "消費明細", "金額"}
	if len(table.Columns) != len(want) {
		t.Fatalf("columns: got %v, want %v", table.Columns, want)
	}
	for i, col := range want {
		if table.Columns[i] != col {
			t.Errorf("column %d: got %q, want %q", i, table.Columns[i], col)
		}
	}
	// The footer row has the header's width, so it survives ingestion;
	// later stages drop it by its unresolvable date.
	if len(table.Rows) != 3 {
		t.Fatalf("rows: got %d, want 3", len(table.Rows))
	}
	if table.Rows[0][2] != "全聯福利中心" {
		t.Errorf("first data cell: got %q", table.Rows[0][2])
	}
}

func TestLoadDelimited_NoAnchorFallsBackToFirstLine(t *testing.T) {
	content := "消費日,金額\n05/15,820\n"
	path := writeFile(t, "plain.csv", []byte(content))

	profile := &models.BankProfile{ID: "ctbc_bank", Encoding: "utf-8", HeaderKeyword: "不存在的錨點"}
	table, err := loadDelimited(path, profile)
	if err != nil {
		t.Fatal(err)
	}
	if table.Columns[0] != "消費日" || len(table.Rows) != 1 {
		t.Errorf("fallback parse: columns %v, %d rows", table.Columns, len(table.Rows))
	}
}

func TestLoadDelimited_SkipsOverlongRows(t *testing.T) {
	content := "消費日,金額\n05/15,820\n05/16,250,extra,cells\n05/17\n"
	path := writeFile(t, "ragged.csv", []byte(content))

	profile := &models.BankProfile{ID: "ctbc_bank", Encoding: "utf-8"}
	table, err := loadDelimited(path, profile)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows: got %d, want 2 (overlong row dropped)", len(table.Rows))
	}
	// Short rows are padded to header width.
	if got := table.Rows[1][1]; got != "" {
		t.Errorf("padded cell: got %q, want empty", got)
	}
}

func TestLoadDelimited_Big5(t *testing.T) {
	utf8Content := "消費日,金額\n05/15,820\n"
	encoded, err := traditionalchinese.Big5.NewEncoder().Bytes([]byte(utf8Content))
	if err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, "big5.csv", encoded)

	profile := &models.BankProfile{ID: "hncb_bank", Encoding: "cp950"}
	table, err := loadDelimited(path, profile)
	if err != nil {
		t.Fatal(err)
	}
	if table.Columns[0] != "消費日" {
		t.Errorf("decoded header: got %q, want 消費日", table.Columns[0])
	}
}
