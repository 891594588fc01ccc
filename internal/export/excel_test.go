package export

import (
	"testing"

	"github.com/complicopilot/ccp-cli/internal/receipt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExcelLayout tests sheet name, header row and record rows
func TestExcelLayout(t *testing.T) {
	records := []receipt.Record{
		{ID: "r-1", Vendor: "Acme Corp", Date: "2024-04-15", Amount: 1200, Category: "software", Status: "approved"},
		{Vendor: "Chai Point"},
	}

	f, err := Excel(records, testNow)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Receipts"}, f.GetSheetList())

	rows, err := f.GetRows("Receipts")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Receipt ID", rows[0][0])
	assert.Equal(t, "Filename", rows[0][10])

	assert.Equal(t, "r-1", rows[1][0])
	assert.Equal(t, "Acme Corp", rows[1][2])
	assert.Equal(t, "1200", rows[1][3])

	// Defaults match the CSV export.
	assert.Equal(t, "N/A", rows[2][0])
	assert.Equal(t, "INR", rows[2][4])
	assert.Equal(t, "uncategorized", rows[2][5])
	assert.Equal(t, "approved", rows[2][8])
}

// TestExcelWritesBuffer tests that the workbook serializes
func TestExcelWritesBuffer(t *testing.T) {
	f, err := Excel([]receipt.Record{{ID: "r-1"}}, testNow)
	require.NoError(t, err)
	defer f.Close()

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	assert.Greater(t, buf.Len(), 0)
}
