package export

import (
	"strconv"
	"strings"
	"time"

	"github.com/complicopilot/ccp-cli/internal/receipt"
)

// CSVContentType is the MIME type the browser build served downloads with.
const CSVContentType = "text/csv;charset=utf-8;"

// csvHeader is the fixed column set of receipt exports.
var csvHeader = []string{
	"Receipt ID", "Date", "Vendor Name", "Total Amount", "Currency",
	"Category", "GST Number", "Tax Amount", "Status", "Created At", "Filename",
}

// CSV serializes records into the download CSV. Missing numeric fields
// default to 0, missing strings to empty, missing currency to INR,
// missing status to approved and a missing created-at to the generation
// time. A pure function of the records and the clock value.
func CSV(records []receipt.Record, now time.Time) []byte {
	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))

	for _, rec := range records {
		row := []string{
			stringOr(rec.ID, "N/A"),
			rec.Date,
			rec.Vendor,
			formatAmount(rec.Amount),
			stringOr(rec.Currency, receipt.DefaultCurrency),
			stringOr(rec.Category, receipt.CategoryUncategorized.String()),
			rec.GSTIN,
			formatAmount(rec.TaxAmount),
			stringOr(rec.Status, string(receipt.StatusApproved)),
			stringOr(rec.CreatedAt, now.Format(time.RFC3339)),
			rec.Filename,
		}
		b.WriteByte('\n')
		for i, field := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(csvField(field))
		}
	}

	return []byte(b.String())
}

// csvField quotes a value only when it contains a comma or a double
// quote, doubling inner quotes. Matches the download format exactly, so
// unremarkable values stay unquoted.
func csvField(v string) string {
	if !strings.ContainsAny(v, `,"`) {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func stringOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// BatchCSVName names a whole-batch export
func BatchCSVName(now time.Time) string {
	return "receipts_batch_" + now.Format("2006-01-02") + ".csv"
}

// SingleCSVName names a single-receipt export
func SingleCSVName(id string, now time.Time) string {
	return "receipt_" + id + "_" + now.Format("2006-01-02") + ".csv"
}
