package exporter

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deliverypulse/pkg/contracts/domain"
)

func floatPtr(f float64) *float64 { return &f }

func sampleBuckets() []domain.AggregateBucket {
	return []domain.AggregateBucket{
		{
			PeriodStart:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Symbol:           "RELIANCE",
			TradedQtyMn:      2.5,
			DeliverableQtyMn: 1.5,
			DeliveryPct:      floatPtr(60.0),
			NetValueCrore:    3.5,
			TradedQtyChgPct:  floatPtr(50.0),
			NetValueSpike:    true,
		},
		{
			PeriodStart:      time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
			Symbol:           "TCS",
			TradedQtyMn:      0.8,
			DeliverableQtyMn: 0.2,
			NetValueCrore:    1.25,
		},
	}
}

func TestTableWriter_WriteTable(t *testing.T) {
	var buf bytes.Buffer
	writer := NewTableWriter()

	err := writer.WriteTable(&buf, domain.GranularityDaily, sampleBuckets(), WriteOptions{})
	require.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, tableHeader, rows[0])
	assert.Equal(t, []string{"2024-03-01", "RELIANCE", "2.50", "1.50", "60.00", "3.50", "50.00", ""}, rows[1])
	assert.Equal(t, []string{"2024-03-02", "TCS", "0.80", "0.20", "", "1.25", "", ""}, rows[2])
}

func TestTableWriter_WriteTable_BOM(t *testing.T) {
	var buf bytes.Buffer
	writer := NewTableWriter()

	err := writer.WriteTable(&buf, domain.GranularityDaily, nil, WriteOptions{BOMPrefix: true})
	require.NoError(t, err)

	data := buf.Bytes()
	require.GreaterOrEqual(t, len(data), 3)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
}

func TestTableWriter_WriteTable_EmptyTable(t *testing.T) {
	var buf bytes.Buffer
	writer := NewTableWriter()

	err := writer.WriteTable(&buf, domain.GranularityYearly, nil, WriteOptions{})
	require.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, tableHeader, rows[0])
}

func TestFormatOptFloat(t *testing.T) {
	assert.Equal(t, "", formatOptFloat(nil))
	assert.Equal(t, "13.40", formatOptFloat(floatPtr(13.4)))
	assert.Equal(t, "-50.00", formatOptFloat(floatPtr(-50.0)))
}
