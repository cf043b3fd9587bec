package domain

import (
	"strings"
	"time"
)

// TradeRecord represents one cleaned symbol-day row of trading/delivery data
// produced by the normalizer. Records are immutable once produced; every
// aggregate table is recomputed from the full record set on each render pass.
type TradeRecord struct {
	Symbol    string    `json:"symbol" validate:"required"`
	Date      time.Time `json:"date"`
	TradedQty int64     `json:"traded_qty" validate:"min=0"`
	// DeliverableQty is expected to be at most TradedQty but that is not
	// enforced; source exports occasionally disagree.
	DeliverableQty int64 `json:"deliverable_qty" validate:"min=0"`
	// DeliveryPct is the delivery percentage as reported by the source,
	// not recomputed at row level.
	DeliveryPct float64 `json:"delivery_pct"`

	// Open and Close are optional price columns. A nil Open means the source
	// row carried no usable opening price.
	Open  *float64 `json:"open,omitempty"`
	Close *float64 `json:"close,omitempty"`

	// NetValue is DeliverableQty * Open. It is nil whenever Open is nil:
	// "no open price" means "no net value", never "net value equals
	// deliverable quantity".
	NetValue *float64 `json:"net_value,omitempty"`
}

// Key returns the dedup key for the record. The tuple (symbol, date) is
// unique across a merged dataset.
func (r TradeRecord) Key() string {
	return strings.ToUpper(strings.TrimSpace(r.Symbol)) + "|" + r.Date.Format("2006-01-02")
}

// HasNetValue reports whether the record carries a derived net value.
func (r TradeRecord) HasNetValue() bool {
	return r.NetValue != nil
}

// SpikeAlert represents a raw trade record whose reported delivery percentage
// met or exceeded the configured spike threshold.
type SpikeAlert struct {
	Date        time.Time `json:"date"`
	Symbol      string    `json:"symbol"`
	DeliveryPct float64   `json:"delivery_pct"`
}
