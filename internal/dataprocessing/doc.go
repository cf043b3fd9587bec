// Package dataprocessing provides the computational core of the delivery
// dashboard: CSV normalization, multi-file merging, calendar-bucket
// aggregation and spike detection.
//
// # Architecture
//
// The package is organized as a straight pipeline:
//
// 1. Normalizer: parses one raw CSV payload into cleaned TradeRecords,
// reconciling heterogeneous column naming through a fixed alias table
// 2. Merge: concatenates per-file outputs and deduplicates by (symbol, date)
// 3. Aggregator: buckets the merged dataset by symbol and calendar period and
// computes sums, delivery ratios and period-over-period changes
//
// # Usage
//
// Normalizing an upload:
//
//	normalizer := dataprocessing.NewNormalizer(logger)
//	records, err := normalizer.Normalize(ctx, "bhavcopy.csv", raw)
//	if err != nil {
//	    // a *errors.SchemaError means the whole file was rejected
//	}
//
// Merging and aggregating:
//
//	dataset := dataprocessing.Merge(batchA, batchB)
//	aggregator := dataprocessing.NewAggregator(logger)
//	table, err := aggregator.Aggregate(ctx, dataset, domain.GranularityMonthly, thresholds)
//
// Per-file normalization results are memoizable through Cache, keyed by the
// SHA-256 of the raw payload, so byte-identical re-uploads skip re-parsing.
package dataprocessing
