package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"deliverypulse/pkg/contracts/domain"
)

// Scaling constants for the display columns. The unit contract is exact:
// quantities in millions, net value in crores (10,000,000).
const (
	millionDivisor = 1e6
	croreDivisor   = 1e7
)

// Aggregator buckets a merged dataset by symbol and calendar period and
// computes sums, delivery ratios and period-over-period changes. Every call
// recomputes from the full record set; there is no incremental state.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an aggregator. A nil logger falls back to the default
// slog logger.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// Aggregate produces one table of aggregate buckets for the given
// granularity, ordered ascending by period start with symbol as the
// secondary key.
//
// Records with no net value contribute zero to net_value_sum: a deliberate
// zero-fill for summation, distinct from the per-record "missing" semantics.
// Degenerate ratios (zero traded quantity, zero previous period value) yield
// nil fields, never errors.
func (a *Aggregator) Aggregate(ctx context.Context, records []domain.TradeRecord, granularity domain.Granularity, thresholds domain.Thresholds) ([]domain.AggregateBucket, error) {
	if _, err := domain.ParseGranularity(string(granularity)); err != nil {
		return nil, err
	}

	type groupKey struct {
		period time.Time
		symbol string
	}

	groups := make(map[groupKey]*domain.AggregateBucket)
	for _, record := range records {
		key := groupKey{period: PeriodStart(granularity, record.Date), symbol: record.Symbol}
		bucket, ok := groups[key]
		if !ok {
			bucket = &domain.AggregateBucket{PeriodStart: key.period, Symbol: key.symbol}
			groups[key] = bucket
		}
		bucket.TradedQtySum += record.TradedQty
		bucket.DeliverableQtySum += record.DeliverableQty
		if record.NetValue != nil {
			bucket.NetValueSum += *record.NetValue
		}
	}

	buckets := make([]domain.AggregateBucket, 0, len(groups))
	for _, bucket := range groups {
		if bucket.TradedQtySum != 0 {
			pct := 100 * float64(bucket.DeliverableQtySum) / float64(bucket.TradedQtySum)
			bucket.DeliveryPct = &pct
		}
		buckets = append(buckets, *bucket)
	}

	sort.Slice(buckets, func(i, j int) bool {
		if !buckets[i].PeriodStart.Equal(buckets[j].PeriodStart) {
			return buckets[i].PeriodStart.Before(buckets[j].PeriodStart)
		}
		return buckets[i].Symbol < buckets[j].Symbol
	})

	if granularity.TracksChange() {
		applyPeriodChanges(buckets)
	}

	for i := range buckets {
		buckets[i].TradedQtyMn = round2(float64(buckets[i].TradedQtySum) / millionDivisor)
		buckets[i].DeliverableQtyMn = round2(float64(buckets[i].DeliverableQtySum) / millionDivisor)
		buckets[i].NetValueCrore = round2(buckets[i].NetValueSum / croreDivisor)
		buckets[i].NetValueSpike = buckets[i].NetValueCrore > thresholds.NetValueThreshold
	}

	a.logger.DebugContext(ctx, "aggregated delivery table",
		slog.String("granularity", string(granularity)),
		slog.Int("records", len(records)),
		slog.Int("buckets", len(buckets)))

	return buckets, nil
}

// PeriodStart computes the canonical start date of the calendar bucket
// containing date for the given granularity.
//
// The half-year rule is hand-rolled: Jan 1 of the date's year for months
// January through June, Jul 1 otherwise. No calendar library is guaranteed
// to follow that exact split.
func PeriodStart(granularity domain.Granularity, date time.Time) time.Time {
	year, month, day := date.Date()
	switch granularity {
	case domain.GranularityDaily:
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	case domain.GranularityWeekly:
		// ISO week start: the Monday on or before the date.
		d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, -offset)
	case domain.GranularityMonthly:
		return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	case domain.GranularityQuarterly:
		quarterMonth := time.Month(((int(month)-1)/3)*3 + 1)
		return time.Date(year, quarterMonth, 1, 0, 0, 0, 0, time.UTC)
	case domain.GranularityHalfYearly:
		if month <= time.June {
			return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		}
		return time.Date(year, time.July, 1, 0, 0, 0, 0, time.UTC)
	case domain.GranularityYearly:
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	panic(fmt.Sprintf("unknown granularity: %q", granularity))
}

// applyPeriodChanges fills the percent-change columns for each symbol's
// bucket series. Buckets must already be sorted ascending by period start.
// The first bucket per symbol and buckets whose previous value is zero keep
// nil change fields.
func applyPeriodChanges(buckets []domain.AggregateBucket) {
	previous := make(map[string]int, len(buckets))
	for i := range buckets {
		symbol := buckets[i].Symbol
		if j, ok := previous[symbol]; ok {
			buckets[i].TradedQtyChgPct = percentChange(buckets[j].TradedQtySum, buckets[i].TradedQtySum)
			buckets[i].DeliverableQtyChgPct = percentChange(buckets[j].DeliverableQtySum, buckets[i].DeliverableQtySum)
		}
		previous[symbol] = i
	}
}

// percentChange returns 100*(current-prev)/prev, or nil when prev is zero.
func percentChange(prev, current int64) *float64 {
	if prev == 0 {
		return nil
	}
	chg := 100 * float64(current-prev) / float64(prev)
	return &chg
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
