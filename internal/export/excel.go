package export

import (
	"fmt"
	"time"

	"github.com/complicopilot/ccp-cli/internal/receipt"
	"github.com/xuri/excelize/v2"
)

const excelSheet = "Receipts"

// Excel builds a spreadsheet with the same columns as the CSV export.
// The caller owns the returned file and is responsible for closing it.
func Excel(records []receipt.Record, now time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", excelSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for col, title := range csvHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(excelSheet, cell, title); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, rec := range records {
		values := []any{
			stringOr(rec.ID, "N/A"),
			rec.Date,
			rec.Vendor,
			rec.Amount,
			stringOr(rec.Currency, receipt.DefaultCurrency),
			stringOr(rec.Category, receipt.CategoryUncategorized.String()),
			rec.GSTIN,
			rec.TaxAmount,
			stringOr(rec.Status, string(receipt.StatusApproved)),
			stringOr(rec.CreatedAt, now.Format(time.RFC3339)),
			rec.Filename,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(excelSheet, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
			}
		}
	}

	return f, nil
}

// ExcelName names a spreadsheet export
func ExcelName(now time.Time) string {
	return "receipts_batch_" + now.Format("2006-01-02") + ".xlsx"
}
