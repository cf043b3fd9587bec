package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deliverypulse/pkg/contracts/domain"
)

func TestDeliverySpikes(t *testing.T) {
	records := []domain.TradeRecord{
		{Symbol: "TCS", Date: day(2024, 1, 15), DeliveryPct: 80.0},
		{Symbol: "INFY", Date: day(2024, 1, 15), DeliveryPct: 74.9},
		{Symbol: "HDFC", Date: day(2024, 1, 16), DeliveryPct: 75.0},
	}

	alerts := DeliverySpikes(records, 75.0)

	// Threshold is inclusive.
	require.Len(t, alerts, 2)
	assert.Equal(t, "TCS", alerts[0].Symbol)
	assert.Equal(t, "HDFC", alerts[1].Symbol)
	assert.Equal(t, 75.0, alerts[1].DeliveryPct)
}

func TestDeliverySpikes_Empty(t *testing.T) {
	assert.Empty(t, DeliverySpikes(nil, 75.0))
	assert.Empty(t, DeliverySpikes([]domain.TradeRecord{{DeliveryPct: 10}}, 75.0))
}

func TestSummarize(t *testing.T) {
	records := []domain.TradeRecord{
		{Symbol: "TCS", Date: day(2024, 1, 15), DeliveryPct: 60.0},
		{Symbol: "INFY", Date: day(2024, 1, 15), DeliveryPct: 40.0},
		{Symbol: "TCS", Date: day(2024, 1, 16), DeliveryPct: 80.0},
	}

	summary := Summarize(records)

	assert.InDelta(t, 60.0, summary.AvgDeliveryPct, 1e-9)
	assert.Equal(t, 80.0, summary.MaxDeliveryPct)
	assert.Equal(t, 2, summary.TradingDays)
	assert.Equal(t, 2, summary.Symbols)
	assert.Equal(t, 3, summary.Records)
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)

	assert.Zero(t, summary.AvgDeliveryPct)
	assert.Zero(t, summary.MaxDeliveryPct)
	assert.Zero(t, summary.TradingDays)
	assert.Zero(t, summary.Symbols)
	assert.Zero(t, summary.Records)
}
