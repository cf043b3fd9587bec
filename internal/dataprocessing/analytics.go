package dataprocessing

import (
	"deliverypulse/pkg/contracts/domain"
)

// DeliverySpikes returns the alert listing of raw records whose reported
// delivery percentage meets or exceeds threshold, in dataset order.
func DeliverySpikes(records []domain.TradeRecord, threshold float64) []domain.SpikeAlert {
	alerts := make([]domain.SpikeAlert, 0)
	for _, record := range records {
		if record.DeliveryPct >= threshold {
			alerts = append(alerts, domain.SpikeAlert{
				Date:        record.Date,
				Symbol:      record.Symbol,
				DeliveryPct: record.DeliveryPct,
			})
		}
	}
	return alerts
}

// Summarize computes the dataset-wide headline metrics shown above the
// tables: overall average and maximum delivery percentage, distinct trading
// days and distinct symbols.
func Summarize(records []domain.TradeRecord) domain.SummaryMetrics {
	summary := domain.SummaryMetrics{Records: len(records)}
	if len(records) == 0 {
		return summary
	}

	days := make(map[string]struct{})
	symbols := make(map[string]struct{})
	var pctSum float64

	for _, record := range records {
		pctSum += record.DeliveryPct
		if record.DeliveryPct > summary.MaxDeliveryPct {
			summary.MaxDeliveryPct = record.DeliveryPct
		}
		days[record.Date.Format("2006-01-02")] = struct{}{}
		symbols[record.Symbol] = struct{}{}
	}

	summary.AvgDeliveryPct = pctSum / float64(len(records))
	summary.TradingDays = len(days)
	summary.Symbols = len(symbols)
	return summary
}
