package ingest

import (
	"testing"

	"github.com/ledgerworks/cardledger/internal/models"
)

func TestBillingPeriod(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		year  int
		month int
		ok    bool
	}{
		{"western token", "estatement_202405.csv", 2024, 5, true},
		{"era token", "信用卡113年5月帳單.html", 2024, 5, true},
		{"era wins over western", "113年5月_202312.csv", 2024, 5, true},
		{"three digit era year", "102年12月.csv", 2013, 12, true},
		{"month out of range ignored", "file_202499.csv", 2024, 1, false},
		{"no token", "statement.csv", 2024, 1, false},
		{"full path", "/data/in/cube_202311.csv", 2023, 11, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, month, ok := BillingPeriod(tt.file)
			if year != tt.year || month != tt.month || ok != tt.ok {
				t.Errorf("BillingPeriod(%q) = (%d, %d, %v), want (%d, %d, %v)",
					tt.file, year, month, ok, tt.year, tt.month, tt.ok)
			}
		})
	}
}

func TestDetectBank(t *testing.T) {
	banks := map[models.BankID]*models.BankProfile{
		"esun_bank":    {ID: "esun_bank", Keywords: []string{"玉山", "esun"}},
		"cube_bank":    {ID: "cube_bank", Keywords: []string{"cube", "國泰"}},
		"sinopac_bank": {ID: "sinopac_bank", Keywords: []string{"永豐", "DAWAY"}},
	}

	tests := []struct {
		file string
		want models.BankID
		ok   bool
	}{
		{"esun_202405.csv", "esun_bank", true},
		{"國泰cube卡_202405.csv", "cube_bank", true},
		{"DAWAY帳單113年5月.xls", "sinopac_bank", true},
		{"unknown_bank.csv", "", false},
		{".esun_202405.csv", "", false},   // hidden file
		{"esun_202405.pdf", "", false},    // unsupported extension
		{"esun_202405.xlsx", "esun_bank", true},
		{"/in/esun_202405.TXT", "esun_bank", true},
	}
	for _, tt := range tests {
		got, ok := DetectBank(tt.file, banks)
		if got != tt.want || ok != tt.ok {
			t.Errorf("DetectBank(%q) = (%q, %v), want (%q, %v)", tt.file, got, ok, tt.want, tt.ok)
		}
	}
}
