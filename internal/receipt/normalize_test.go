package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCleanVendor tests OCR noise stripping on vendor names
func TestCleanVendor(t *testing.T) {
	tests := []struct {
		name     string
		vendor   string
		expected string
	}{
		{name: "clean name untouched", vendor: "Acme Corp", expected: "Acme Corp"},
		{name: "trailing pipes stripped", vendor: "Staples---", expected: "Staples"},
		{name: "mixed trailing noise", vendor: `Big Bazaar |'"_~`, expected: "Big Bazaar"},
		{name: "empty sentinel becomes empty", vendor: "a |", expected: ""},
		{name: "only noise becomes empty", vendor: `|||"`, expected: ""},
		{name: "empty stays empty", vendor: "", expected: ""},
		{name: "interior punctuation kept", vendor: "O'Reilly - Books", expected: "O'Reilly - Books"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanVendor(tt.vendor))
		})
	}
}

// TestNormalizeDate tests slash-date conversion and the no-date sentinel
func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		expected string
	}{
		{name: "iso date untouched", date: "2024-04-15", expected: "2024-04-15"},
		{name: "slash date reordered", date: "04/15/2024", expected: "2024-04-15"},
		{name: "single digit parts padded", date: "3/4/2024", expected: "2024-03-04"},
		{name: "sentinel becomes empty", date: "1970-01-01", expected: ""},
		{name: "empty stays empty", date: "", expected: ""},
		{name: "two part slash date untouched", date: "04/2024", expected: "04/2024"},
		{name: "two digit year untouched", date: "04/15/24", expected: "04/15/24"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeDate(tt.date))
		})
	}
}

// TestPopulate tests mapping a server record onto review form values
func TestPopulate(t *testing.T) {
	rec := Record{
		ID:       "r-1",
		Vendor:   "Acme Corp",
		Date:     "04/15/2024",
		Amount:   1200,
		Category: "software",
		GSTIN:    "",
	}

	v := Populate(rec)

	assert.Equal(t, "Acme Corp", v.Vendor)
	assert.Equal(t, "2024-04-15", v.Date)
	assert.True(t, v.HasAmount)
	assert.Equal(t, 1200.0, v.Amount)
	assert.Equal(t, "software", v.Category)
	assert.True(t, v.GSTINMissing)
	assert.Equal(t, GSTINHint, v.GSTINHint)
	assert.False(t, v.HasTaxAmount)
}

// TestPopulateSentinelVendor tests that the nothing-read vendor sentinel
// leaves the field blank instead of showing a stripped fragment
func TestPopulateSentinelVendor(t *testing.T) {
	v := Populate(Record{Vendor: "a |", Amount: 10})
	assert.Empty(t, v.Vendor)
}

// TestPopulateZeroAmount tests that a zero amount means manual entry
func TestPopulateZeroAmount(t *testing.T) {
	v := Populate(Record{Vendor: "Acme", Amount: 0})
	assert.False(t, v.HasAmount)
	assert.Equal(t, 0.0, v.Amount)
}

// TestPopulatePresentGSTIN tests that an extracted GSTIN carries no warning
func TestPopulatePresentGSTIN(t *testing.T) {
	v := Populate(Record{GSTIN: "29ABCDE1234F1Z5"})
	assert.False(t, v.GSTINMissing)
	assert.Empty(t, v.GSTINHint)
	assert.Equal(t, "29ABCDE1234F1Z5", v.GSTIN)
}

// TestPopulateIsPure tests that repeated calls yield identical values
func TestPopulateIsPure(t *testing.T) {
	rec := Record{
		Vendor:    "Cafe~~",
		Date:      "1970-01-01",
		Amount:    42.5,
		GSTIN:     "29ABCDE1234F1Z5",
		TaxAmount: 2.5,
	}
	first := Populate(rec)
	second := Populate(rec)
	assert.Equal(t, first, second)
	assert.Equal(t, "Cafe", first.Vendor)
	assert.Empty(t, first.Date)
	assert.True(t, first.HasTaxAmount)
}
