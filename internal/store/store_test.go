package store

import (
	"path/filepath"
	"testing"

	"github.com/complicopilot/ccp-cli/internal/receipt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "receipts.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// TestPutAndList tests caching and listing receipts
func TestPutAndList(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Put(receipt.Record{
		ID: "r-1", Vendor: "Acme", Amount: 100, CreatedAt: "2024-04-15T10:00:00Z",
	}))
	require.NoError(t, s.Put(receipt.Record{
		ID: "r-2", Vendor: "Chai Point", Amount: 50, CreatedAt: "2024-04-16T10:00:00Z",
	}))

	records, err := s.List(Filter{})
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, "r-2", records[0].ID)
	assert.Equal(t, "r-1", records[1].ID)
}

// TestPutUpsertsByID tests that a re-put replaces the cached record
func TestPutUpsertsByID(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Put(receipt.Record{ID: "r-1", Vendor: "Acme", Status: "pending"}))
	require.NoError(t, s.Put(receipt.Record{ID: "r-1", Vendor: "Acme Corp", Status: "approved"}))

	records, err := s.List(Filter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Acme Corp", records[0].Vendor)
	assert.Equal(t, "approved", records[0].Status)
}

// TestPutRefusesEmptyID tests the id guard
func TestPutRefusesEmptyID(t *testing.T) {
	s := openTestStore(t)
	assert.Error(t, s.Put(receipt.Record{Vendor: "no id"}))
}

// TestListGSTINFilter tests whitespace- and case-insensitive substring matching
func TestListGSTINFilter(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Put(receipt.Record{ID: "r-1", GSTIN: "29ABCDE1234F1Z5"}))
	require.NoError(t, s.Put(receipt.Record{ID: "r-2", GSTIN: "07XYZZZ9876A1B2"}))
	require.NoError(t, s.Put(receipt.Record{ID: "r-3", GSTIN: ""}))

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{name: "empty query matches all", query: "", expected: []string{"r-1", "r-2", "r-3"}},
		{name: "exact match", query: "29ABCDE1234F1Z5", expected: []string{"r-1"}},
		{name: "substring match", query: "XYZ", expected: []string{"r-2"}},
		{name: "case insensitive", query: "29abcde", expected: []string{"r-1"}},
		{name: "whitespace ignored", query: " 29 ABCDE ", expected: []string{"r-1"}},
		{name: "no match", query: "ZZZZZZZZ", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := s.List(Filter{GSTIN: tt.query})
			require.NoError(t, err)

			ids := make([]string, 0, len(records))
			for _, rec := range records {
				ids = append(ids, rec.ID)
			}
			assert.ElementsMatch(t, tt.expected, ids)
		})
	}
}

// TestRoundTripPreservesFields tests that all columns survive the cache
func TestRoundTripPreservesFields(t *testing.T) {
	s := openTestStore(t)

	rec := receipt.Record{
		ID:        "r-1",
		Vendor:    "Acme Corp",
		Date:      "2024-04-15",
		Amount:    1200.5,
		Currency:  "INR",
		Category:  "software",
		GSTIN:     "29ABCDE1234F1Z5",
		TaxAmount: 216.09,
		Status:    "approved",
		CreatedAt: "2024-04-15T10:00:00Z",
		Filename:  "invoice.pdf",
	}
	require.NoError(t, s.Put(rec))

	records, err := s.List(Filter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec, records[0])
}
