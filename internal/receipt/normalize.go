package receipt

import (
	"regexp"
	"strings"
)

// Extraction output is noisy: vendors arrive with trailing OCR artifacts
// and dates in slash formats. These helpers normalize a record for the
// review form without ever inventing data.

// noDateSentinel is what the backend returns when no date was extracted.
const noDateSentinel = "1970-01-01"

// emptyVendorSentinel is a known OCR artifact meaning "nothing read".
const emptyVendorSentinel = "a |"

// GSTINHint is shown as a placeholder when no GSTIN was extracted.
const GSTINHint = "Not found on receipt"

var trailingOCRNoise = regexp.MustCompile(`[|'"_\-~]+$`)

// CleanVendor strips trailing OCR-noise characters from a vendor name.
// Returns an empty string when nothing meaningful remains. The sentinel
// is matched against the raw input: stripping runs afterwards and would
// eat the sentinel's trailing pipe.
func CleanVendor(vendor string) string {
	if vendor == emptyVendorSentinel {
		return ""
	}
	cleaned := strings.TrimSpace(trailingOCRNoise.ReplaceAllString(vendor, ""))
	if cleaned == "" {
		return ""
	}
	return cleaned
}

// NormalizeDate converts a slash-separated date with a 4-digit last
// segment to YYYY-MM-DD, and maps the no-date sentinel to empty.
//
// The first slash segment is always taken as the month, as the
// extraction service assumes. MM/DD and DD/MM cannot be told apart when
// both parts are <= 12; that ambiguity is preserved on purpose, since
// resolving it would change observable output.
func NormalizeDate(date string) string {
	if date == "" || date == noDateSentinel {
		return ""
	}
	if !strings.Contains(date, "/") {
		return date
	}
	parts := strings.Split(date, "/")
	if len(parts) != 3 || len(parts[2]) != 4 {
		return date
	}
	return parts[2] + "-" + pad2(parts[0]) + "-" + pad2(parts[1])
}

func pad2(s string) string {
	if len(s) < 2 {
		return strings.Repeat("0", 2-len(s)) + s
	}
	return s
}

// FormValues is what the review form displays for one record.
type FormValues struct {
	Vendor    string
	Date      string
	Amount    float64
	HasAmount bool
	Category  string
	GSTIN     string
	// GSTINMissing marks the field for the warning style and hint text
	// instead of leaving it silently blank.
	GSTINMissing bool
	GSTINHint    string
	TaxAmount    float64
	HasTaxAmount bool
}

// Populate maps a server-returned record onto review form values.
// It is a pure function of the record, so calling it twice with the
// same record yields identical values.
func Populate(rec Record) FormValues {
	v := FormValues{
		Vendor:   CleanVendor(rec.Vendor),
		Date:     NormalizeDate(rec.Date),
		Category: rec.Category,
		GSTIN:    rec.GSTIN,
	}

	// Amount is populated only when extraction produced a real value;
	// zero means manual entry.
	if rec.Amount > 0 {
		v.Amount = rec.Amount
		v.HasAmount = true
	}

	if rec.GSTIN == "" {
		v.GSTINMissing = true
		v.GSTINHint = GSTINHint
	}

	if rec.TaxAmount > 0 {
		v.TaxAmount = rec.TaxAmount
		v.HasTaxAmount = true
	}

	return v
}
