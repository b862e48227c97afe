// Package export renders ledger snapshots as downloadable files in the
// active display currency.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"wallettrack/internal/core"
	"wallettrack/internal/currency"
)

// CSVFilename is the attachment name suggested to download clients.
const CSVFilename = "wallet-track.csv"

var csvHeader = []string{"Date", "Category", "Amount", "Kind"}

// WriteCSV writes the transactions as CSV rows, with amounts formatted in
// the display currency. Ledger order is preserved.
func WriteCSV(w io.Writer, txs []core.Transaction, conv *currency.Converter, display string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, tx := range txs {
		row, err := exportRow(tx, conv, display)
		if err != nil {
			return err
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row for transaction %s: %w", tx.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func exportRow(tx core.Transaction, conv *currency.Converter, display string) ([]string, error) {
	converted, err := conv.Convert(tx.Amount, display)
	if err != nil {
		return nil, fmt.Errorf("convert transaction %s: %w", tx.ID, err)
	}
	formatted, err := conv.Format(converted, display)
	if err != nil {
		return nil, fmt.Errorf("format transaction %s: %w", tx.ID, err)
	}
	return []string{
		tx.OccurredAt.Format("2006-01-02"),
		tx.Category,
		formatted,
		string(tx.Kind),
	}, nil
}
