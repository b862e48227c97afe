package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"wallettrack/internal/core"
	"wallettrack/internal/currency"
)

// XLSXFilename is the attachment name suggested to download clients.
const XLSXFilename = "wallet-track.xlsx"

const sheetName = "Transactions"

// WriteXLSX writes the transactions as a single-sheet workbook with the
// same columns as the CSV export.
func WriteXLSX(w io.Writer, txs []core.Transaction, conv *currency.Converter, display string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("remove default sheet: %w", err)
	}

	header := make([]interface{}, len(csvHeader))
	for i, h := range csvHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, tx := range txs {
		row, err := exportRow(tx, conv, display)
		if err != nil {
			return err
		}
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("compute cell for row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return fmt.Errorf("write row for transaction %s: %w", tx.ID, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
