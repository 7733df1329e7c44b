package exporter

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/pkg/contracts/domain"
)

func exportTable() domain.Table {
	ts := time.Date(2024, 3, 1, 14, 30, 5, 0, time.UTC)
	due := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	return domain.Table{
		Columns: []string{
			domain.ColTimestamp,
			domain.ColBDEName,
			domain.ColClosedAmount,
			domain.ColExpectedClosure,
		},
		Records: []domain.Record{
			{
				Cells: map[string]string{
					domain.ColTimestamp:       "3/1/2024 14:30:05",
					domain.ColBDEName:         "Asha",
					domain.ColClosedAmount:    "1,200.50",
					domain.ColExpectedClosure: "3/10/2024",
				},
				Timestamp:           &ts,
				ClosedAmount:        1200.50,
				ExpectedClosureDate: &due,
			},
			{
				Cells: map[string]string{domain.ColBDEName: "Ravi"},
			},
		},
	}
}

func TestWriteCSVRendersTypedCells(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, exportTable(), CSVOptions{}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Timestamp", "BDE NAME", "CLOSED AMOUNT", "Expected Closure Date"}, rows[0])
	// Typed cells render canonically, not as the raw source strings.
	assert.Equal(t, []string{"2024-03-01 14:30:05", "Asha", "1200.5", "2024-03-10"}, rows[1])
	// Absent typed values render empty, amounts as their zero default.
	assert.Equal(t, []string{"", "Ravi", "0", ""}, rows[2])
}

func TestWriteCSVBOMPrefix(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, exportTable(), CSVOptions{BOMPrefix: true}))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF}))
}

func TestWriteCSVEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, domain.Table{}, CSVOptions{}))

	assert.Zero(t, buf.Len())
}
