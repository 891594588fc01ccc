package export

import (
	"strconv"
	"strings"

	"github.com/complicopilot/ccp-cli/internal/receipt"
)

const (
	// ReportFilename is the fixed name of the expense report download
	ReportFilename = "CompliCopilot-Report.doc"

	// ReportContentType makes the browser offer the HTML as a Word
	// document.
	ReportContentType = "application/msword"
)

// htmlEscaper covers the five characters that may not be interpolated
// raw into the report table.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Report renders the expense report document: one table row per record,
// every cell escaped. Vendors and categories come from OCR and user
// input, so nothing is trusted.
func Report(records []receipt.Record) []byte {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><title>CompliCopilot Report</title>
<style>
    body{font-family:Arial,Helvetica,sans-serif;line-height:1.5;color:#111}
    h1{font-size:22px;margin:16px 0}
    table{border-collapse:collapse;width:100%;font-size:14px}
    th,td{border:1px solid #ccc;padding:8px;text-align:left}
    th{background:#f2f2f2}
</style></head><body>
<h1>CompliCopilot Expense Report</h1>
<table><thead><tr>
    <th>Vendor</th><th>Date</th><th>Amount (&#8377;)</th><th>Category</th><th>Status</th><th>GSTIN</th>
</tr></thead><tbody>
`)

	for _, rec := range records {
		b.WriteString("<tr>")
		writeCell(&b, rec.Vendor)
		writeCell(&b, rec.Date)
		writeCell(&b, strconv.FormatFloat(rec.Amount, 'f', -1, 64))
		writeCell(&b, rec.Category)
		writeCell(&b, rec.Status)
		writeCell(&b, rec.GSTIN)
		b.WriteString("</tr>\n")
	}

	b.WriteString("</tbody></table>\n</body></html>\n")
	return []byte(b.String())
}

func writeCell(b *strings.Builder, v string) {
	b.WriteString("<td>")
	b.WriteString(htmlEscaper.Replace(v))
	b.WriteString("</td>")
}
