// Package writer serializes the canonical ledger to a portable delimited
// file with a fixed column order for downstream persistence and
// analytics.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerworks/cardledger/internal/models"
)

// Columns is the canonical output order. Downstream consumers hash and
// aggregate by position, so this never changes silently.
var Columns = []string{
	"Transaction_Date", "Posting_Date",
	"Bank_Name", "Card_Type", "Card_No",
	"Merchant", "Merchant_Location", "Consumption_Place", "Conversion_Date",
	"Transaction_Type", "Mobile_Payment",
	"Currency_Type", "Currency_Amount",
	"Payment_Currency", "Payment_Amount",
}

const dateLayout = "2006-01-02"

// CSVWriter writes canonical transactions as CSV.
type CSVWriter struct {
	// IncludeBOM prepends a UTF-8 byte-order mark so spreadsheet tools
	// open the CJK merchant text correctly.
	IncludeBOM bool
}

// WriteToFile writes the ledger to a file at path.
func (w *CSVWriter) WriteToFile(path string, txns []models.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, txns)
}

// Write writes the ledger in CSV format to out.
func (w *CSVWriter) Write(out io.Writer, txns []models.Transaction) error {
	if w.IncludeBOM {
		if _, err := out.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(out)
	defer cw.Flush()

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range txns {
		if err := cw.Write(Row(&txns[i])); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Row renders one transaction in the canonical column order.
func Row(t *models.Transaction) []string {
	return []string{
		formatDate(t.TransactionDate),
		formatDate(t.PostingDate),
		string(t.BankID),
		t.CardType,
		t.CardNo,
		t.Merchant,
		t.MerchantLocation,
		t.ConsumptionPlace,
		formatDate(t.ConversionDate),
		t.TransactionType,
		t.MobilePayment,
		t.CurrencyType,
		formatAmount(t.CurrencyAmount),
		t.PaymentCurrency,
		formatAmount(t.PaymentAmount),
	}
}

func formatDate(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func formatAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
