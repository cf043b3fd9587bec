package domain

import (
	"fmt"
	"strings"
	"time"
)

// Granularity identifies a calendar bucketing scheme for aggregate tables.
type Granularity string

const (
	GranularityDaily      Granularity = "daily"
	GranularityWeekly     Granularity = "weekly"
	GranularityMonthly    Granularity = "monthly"
	GranularityQuarterly  Granularity = "quarterly"
	GranularityHalfYearly Granularity = "half_yearly"
	GranularityYearly     Granularity = "yearly"
)

// Granularities lists all supported bucketing schemes in display order.
var Granularities = []Granularity{
	GranularityDaily,
	GranularityWeekly,
	GranularityMonthly,
	GranularityQuarterly,
	GranularityHalfYearly,
	GranularityYearly,
}

// ParseGranularity converts user-supplied text into a Granularity.
func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Granularities {
		if g == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown granularity: %q", s)
}

// TracksChange reports whether percent-change columns are computed for this
// granularity. Only daily, weekly and monthly tables carry period-over-period
// changes; coarser tables never do.
func (g Granularity) TracksChange() bool {
	switch g {
	case GranularityDaily, GranularityWeekly, GranularityMonthly:
		return true
	}
	return false
}

// Label returns the human-readable table heading for the granularity.
func (g Granularity) Label() string {
	switch g {
	case GranularityDaily:
		return "Daily"
	case GranularityWeekly:
		return "Weekly"
	case GranularityMonthly:
		return "Monthly"
	case GranularityQuarterly:
		return "Quarterly"
	case GranularityHalfYearly:
		return "Half-Yearly"
	case GranularityYearly:
		return "Yearly"
	}
	return string(g)
}

// AggregateBucket represents one symbol's totals for one calendar period of a
// given granularity, together with the scaled display columns the dashboard
// renders. Quantities are displayed in millions and net value in crores
// (10,000,000), both rounded to two decimal places.
type AggregateBucket struct {
	PeriodStart time.Time `json:"period_start"`
	Symbol      string    `json:"symbol"`

	TradedQtySum      int64   `json:"traded_qty_sum"`
	DeliverableQtySum int64   `json:"deliverable_qty_sum"`
	NetValueSum       float64 `json:"net_value_sum"`

	// DeliveryPct is recomputed at aggregate level as
	// 100 * deliverable_qty_sum / traded_qty_sum. It is nil when the
	// traded quantity sum is zero.
	DeliveryPct *float64 `json:"delivery_pct,omitempty"`

	// Percent change versus the immediately preceding period for the same
	// symbol. Nil for the first period per symbol, when the previous value
	// is zero, and always nil for quarterly and coarser granularities.
	TradedQtyChgPct      *float64 `json:"traded_qty_chg_pct,omitempty"`
	DeliverableQtyChgPct *float64 `json:"deliverable_qty_chg_pct,omitempty"`

	// Scaled display columns.
	TradedQtyMn      float64 `json:"traded_qty_mn"`
	DeliverableQtyMn float64 `json:"deliverable_qty_mn"`
	NetValueCrore    float64 `json:"net_value_crore"`

	// NetValueSpike marks rows whose net value in crores exceeds the
	// configured highlight threshold. It is a per-row flag, not a filter.
	NetValueSpike bool `json:"net_value_spike"`
}

// SummaryMetrics holds the dataset-wide headline numbers shown above the
// tables.
type SummaryMetrics struct {
	AvgDeliveryPct float64 `json:"avg_delivery_pct"`
	MaxDeliveryPct float64 `json:"max_delivery_pct"`
	TradingDays    int     `json:"trading_days"`
	Symbols        int     `json:"symbols"`
	Records        int     `json:"records"`
}
