package dataprocessing

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "deliverypulse/internal/errors"
)

func TestNormalizer_Normalize_HeaderAliases(t *testing.T) {
	ctx := context.Background()
	normalizer := NewNormalizer(slog.Default())

	tests := []struct {
		name string
		csv  string
	}{
		{
			name: "canonical headers",
			csv: "symbol,date,traded_qty,deliverable_qty,delivery_pct,open\n" +
				"TCS,2024-01-15,1000,600,60.0,3500\n",
		},
		{
			name: "bhavcopy style headers",
			csv: "Symbol,Date,Qty Traded,Deliverable Qty,Delivery Percentage,Open Price\n" +
				"TCS,2024-01-15,1000,600,60.0,3500\n",
		},
		{
			name: "security wise delivery headers",
			csv: "SYMBOL,DATE,TOTAL TRADED QUANTITY,DELIVERED QTY,% DLY QT TO TRADED QTY,OPEN\n" +
				"TCS,2024-01-15,1000,600,60.0,3500\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := normalizer.Normalize(ctx, "test.csv", []byte(tt.csv))
			require.NoError(t, err)
			require.Len(t, records, 1)

			record := records[0]
			assert.Equal(t, "TCS", record.Symbol)
			assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), record.Date)
			assert.Equal(t, int64(1000), record.TradedQty)
			assert.Equal(t, int64(600), record.DeliverableQty)
			assert.Equal(t, 60.0, record.DeliveryPct)
			require.NotNil(t, record.Open)
			assert.Equal(t, 3500.0, *record.Open)
		})
	}
}

func TestNormalizer_Normalize_SchemaError(t *testing.T) {
	ctx := context.Background()
	normalizer := NewNormalizer(slog.Default())

	tests := []struct {
		name        string
		csv         string
		wantMissing []string
	}{
		{
			name:        "missing deliverable qty",
			csv:         "Symbol,Date,Qty Traded,Delivery Percentage\nTCS,2024-01-15,1000,60.0\n",
			wantMissing: []string{"deliverable_qty"},
		},
		{
			name:        "missing several columns",
			csv:         "Symbol,Date\nTCS,2024-01-15\n",
			wantMissing: []string{"traded_qty", "deliverable_qty", "delivery_pct"},
		},
		{
			name:        "unknown columns only",
			csv:         "Foo,Bar\n1,2\n",
			wantMissing: []string{"symbol", "date", "traded_qty", "deliverable_qty", "delivery_pct"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := normalizer.Normalize(ctx, "broken.csv", []byte(tt.csv))
			require.Error(t, err)
			assert.Nil(t, records)

			se, ok := apperrors.AsSchemaError(err)
			require.True(t, ok, "expected a SchemaError, got %T", err)
			assert.Equal(t, "broken.csv", se.File)
			assert.Equal(t, tt.wantMissing, se.Missing)
		})
	}
}

func TestNormalizer_Normalize_RowFilters(t *testing.T) {
	ctx := context.Background()
	normalizer := NewNormalizer(slog.Default())

	header := "symbol,date,traded_qty,deliverable_qty,delivery_pct,open\n"

	tests := []struct {
		name     string
		rows     string
		wantKept int
	}{
		{
			name:     "unparseable date dropped silently",
			rows:     "TCS,not-a-date,1000,600,60.0,3500\nTCS,2024-01-16,1000,600,60.0,3500\n",
			wantKept: 1,
		},
		{
			name:     "sentinel traded qty dropped",
			rows:     "TCS,2024-01-15,-,600,60.0,3500\n",
			wantKept: 0,
		},
		{
			name:     "NA deliverable qty dropped",
			rows:     "TCS,2024-01-15,1000,NA,60.0,3500\n",
			wantKept: 0,
		},
		{
			name:     "unparseable delivery pct dropped",
			rows:     "TCS,2024-01-15,1000,600,abc,3500\n",
			wantKept: 0,
		},
		{
			name:     "empty symbol dropped",
			rows:     ",2024-01-15,1000,600,60.0,3500\n",
			wantKept: 0,
		},
		{
			name:     "sentinel open price keeps the row",
			rows:     "TCS,2024-01-15,1000,600,60.0,N/A\n",
			wantKept: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := normalizer.Normalize(ctx, "rows.csv", []byte(header+tt.rows))
			require.NoError(t, err)
			assert.Len(t, records, tt.wantKept)
		})
	}
}

func TestNormalizer_Normalize_NumericCoercion(t *testing.T) {
	ctx := context.Background()
	normalizer := NewNormalizer(slog.Default())

	csv := "symbol,date,traded_qty,deliverable_qty,delivery_pct,open,close\n" +
		"TCS,2024-01-15,\"1,000,000\",\"600,000.75\",60.5%,\"3,500.50\",3510\n"

	records, err := normalizer.Normalize(ctx, "coerce.csv", []byte(csv))
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, int64(1000000), record.TradedQty)
	// Fractional quantities are truncated, not rounded.
	assert.Equal(t, int64(600000), record.DeliverableQty)
	assert.Equal(t, 60.5, record.DeliveryPct)
	require.NotNil(t, record.Open)
	assert.Equal(t, 3500.50, *record.Open)
	require.NotNil(t, record.Close)
	assert.Equal(t, 3510.0, *record.Close)
}

func TestNormalizer_Normalize_NetValue(t *testing.T) {
	ctx := context.Background()
	normalizer := NewNormalizer(slog.Default())

	csv := "symbol,date,traded_qty,deliverable_qty,delivery_pct,open\n" +
		"TCS,2024-01-15,1000000,600000,60.0,3500\n" +
		"INFY,2024-01-15,500000,200000,40.0,-\n"

	records, err := normalizer.Normalize(ctx, "netvalue.csv", []byte(csv))
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Net value is present iff the open price was present and numeric.
	require.True(t, records[0].HasNetValue())
	assert.Equal(t, 600000.0*3500, *records[0].NetValue)

	assert.False(t, records[1].HasNetValue())
	assert.Nil(t, records[1].Open)
}

func TestNormalizer_Normalize_NoOpenColumn(t *testing.T) {
	ctx := context.Background()
	normalizer := NewNormalizer(slog.Default())

	csv := "symbol,date,traded_qty,deliverable_qty,delivery_pct\n" +
		"TCS,2024-01-15,1000000,600000,60.0\n"

	records, err := normalizer.Normalize(ctx, "noopen.csv", []byte(csv))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].HasNetValue())
}

func TestNormalizer_Normalize_DateFormats(t *testing.T) {
	ctx := context.Background()
	normalizer := NewNormalizer(slog.Default())

	header := "symbol,date,traded_qty,deliverable_qty,delivery_pct\n"
	want := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		date string
	}{
		{"iso", "2024-07-01"},
		{"nse day-month-year", "01-Jul-2024"},
		{"slash day first", "01/07/2024"},
		{"dash day first", "01-07-2024"},
		{"iso with time", "2024-07-01 00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			csv := header + "TCS," + tt.date + ",1000,600,60.0\n"
			records, err := normalizer.Normalize(ctx, "dates.csv", []byte(csv))
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, want, records[0].Date)
		})
	}
}

func TestNormalizer_Normalize_EmptyFile(t *testing.T) {
	ctx := context.Background()
	normalizer := NewNormalizer(nil)

	_, err := normalizer.Normalize(ctx, "empty.csv", []byte(""))
	require.Error(t, err)

	_, ok := apperrors.AsSchemaError(err)
	assert.False(t, ok, "an unreadable header is a parsing error, not a schema error")
}

func TestNormalizer_Normalize_InvalidUTF8(t *testing.T) {
	ctx := context.Background()
	normalizer := NewNormalizer(slog.Default())

	raw := append([]byte("symbol,date,traded_qty,deliverable_qty,delivery_pct\nTCS"), 0xff, 0xfe)
	raw = append(raw, []byte(",2024-01-15,1000,600,60.0\n")...)

	records, err := normalizer.Normalize(ctx, "binary.csv", raw)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Contains(t, records[0].Symbol, "TCS")
}
