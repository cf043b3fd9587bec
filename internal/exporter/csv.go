package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"deliverypulse/pkg/contracts/domain"
)

// TableWriter streams aggregate tables as CSV.
type TableWriter struct{}

// NewTableWriter creates a new CSV table writer instance
func NewTableWriter() *TableWriter {
	return &TableWriter{}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteTable writes one granularity's aggregate table to w. The period column
// format follows the granularity: dates for daily and weekly tables, the
// period start date for everything coarser.
func (t *TableWriter) WriteTable(w io.Writer, granularity domain.Granularity, buckets []domain.AggregateBucket, options WriteOptions) error {
	// Write BOM if requested (helps Excel recognize UTF-8)
	if options.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)

	if err := writer.Write(tableHeader); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, bucket := range buckets {
		if err := writer.Write(tableRow(bucket)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// tableRow renders one bucket in display column order.
func tableRow(b domain.AggregateBucket) []string {
	return []string{
		b.PeriodStart.Format("2006-01-02"),
		b.Symbol,
		formatFloat(b.TradedQtyMn),
		formatFloat(b.DeliverableQtyMn),
		formatOptFloat(b.DeliveryPct),
		formatFloat(b.NetValueCrore),
		formatOptFloat(b.TradedQtyChgPct),
		formatOptFloat(b.DeliverableQtyChgPct),
	}
}
