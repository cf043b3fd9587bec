package dataprocessing

import (
	"sort"

	"deliverypulse/pkg/contracts/domain"
)

// Merge concatenates per-file record batches into a single dataset ordered
// ascending by date, with symbol as the secondary key for deterministic table
// rendering, and deduplicates by (symbol, date).
//
// When the same (symbol, date) pair appears in several files, the record from
// the earliest-uploaded file wins. The tie-break is deliberate and stable:
// batches are ranked by upload order, not by incidental sort behavior.
func Merge(batches ...[]domain.TradeRecord) []domain.TradeRecord {
	type sourced struct {
		record domain.TradeRecord
		batch  int
	}

	total := 0
	for _, batch := range batches {
		total += len(batch)
	}

	all := make([]sourced, 0, total)
	for i, batch := range batches {
		for _, record := range batch {
			all = append(all, sourced{record: record, batch: i})
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].record.Date.Equal(all[j].record.Date) {
			return all[i].record.Date.Before(all[j].record.Date)
		}
		if all[i].record.Symbol != all[j].record.Symbol {
			return all[i].record.Symbol < all[j].record.Symbol
		}
		return all[i].batch < all[j].batch
	})

	seen := make(map[string]struct{}, len(all))
	merged := make([]domain.TradeRecord, 0, len(all))
	for _, item := range all {
		key := item.record.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, item.record)
	}

	return merged
}
