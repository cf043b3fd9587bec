package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "deliverypulse/internal/errors"
	"deliverypulse/pkg/contracts/domain"
)

// columnAliases maps folded header text (trimmed, lowercased, spaces replaced
// with underscores) to canonical field names. Headers that resolve to no
// canonical name pass through unmapped and are ignored downstream.
var columnAliases = map[string]string{
	"symbol":                 "symbol",
	"date":                   "date",
	"qty_traded":             "traded_qty",
	"total_traded_quantity":  "traded_qty",
	"traded_qty":             "traded_qty",
	"deliverable_qty":        "deliverable_qty",
	"delivered_qty":          "deliverable_qty",
	"delivery_percentage":    "delivery_pct",
	"delivery_percent":       "delivery_pct",
	"delivery_pct":           "delivery_pct",
	"%_dly_qt_to_traded_qty": "delivery_pct",
	"open":                   "open",
	"open_price":             "open",
	"close":                  "close",
	"close_price":            "close",
	"closing_price":          "close",
	"closeprice":             "close",
}

// requiredColumns are the canonical fields every file must resolve after
// aliasing. A file missing any of them is rejected whole with a SchemaError.
var requiredColumns = []string{"symbol", "date", "traded_qty", "deliverable_qty", "delivery_pct"}

// sentinelTokens are literal values treated as missing across all columns,
// uniformly, before any type coercion.
var sentinelTokens = map[string]struct{}{
	"-":   {},
	"NA":  {},
	"N/A": {},
	"na":  {},
	"":    {},
}

// dateLayouts are tried in order when parsing the date column. Day-first
// layouts come before month-first ones because the source exchanges publish
// day-first dates.
var dateLayouts = []string{
	"2006-01-02",
	"02-Jan-2006",
	"2-Jan-2006",
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
	"2006-01-02 15:04:05",
}

// Normalizer turns one raw CSV payload into a cleaned, schema-unified slice
// of trade records. It is stateless and safe for reuse across files.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a normalizer. A nil logger falls back to the default
// slog logger.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Normalize parses raw CSV bytes into trade records.
//
// The whole file is rejected with a *errors.SchemaError when a required
// canonical column is missing after alias resolution. Row-level problems
// (unparseable dates, unparseable or missing required numerics) are silent
// data-quality drops, counted and logged but never surfaced as errors.
func (n *Normalizer) Normalize(ctx context.Context, filename string, raw []byte) ([]domain.TradeRecord, error) {
	text := strings.ToValidUTF8(string(raw), string(utf8.RuneError))

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("file %q: reading CSV header", filename), err)
	}

	columns := resolveColumns(header)

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewSchemaError(filename, missing)
	}

	var (
		records          []domain.TradeRecord
		rowsParsed       int
		droppedMalformed int
		droppedDate      int
		droppedNumeric   int
	)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed CSV rows are a data-quality drop, not a failure.
			droppedMalformed++
			continue
		}
		rowsParsed++

		field := func(canonical string) (string, bool) {
			idx, ok := columns[canonical]
			if !ok || idx >= len(row) {
				return "", false
			}
			v := strings.TrimSpace(row[idx])
			if _, sentinel := sentinelTokens[v]; sentinel {
				return "", false
			}
			return v, true
		}

		symbol, ok := field("symbol")
		if !ok {
			droppedNumeric++
			continue
		}

		dateText, ok := field("date")
		if !ok {
			droppedDate++
			continue
		}
		date, ok := parseDate(dateText)
		if !ok {
			droppedDate++
			continue
		}

		tradedText, okTraded := field("traded_qty")
		delivText, okDeliv := field("deliverable_qty")
		pctText, okPct := field("delivery_pct")
		if !okTraded || !okDeliv || !okPct {
			droppedNumeric++
			continue
		}

		traded, okTraded := parseNumber(tradedText)
		deliv, okDeliv := parseNumber(delivText)
		pct, okPct := parseNumber(pctText)
		if !okTraded || !okDeliv || !okPct {
			droppedNumeric++
			continue
		}

		// Fractional quantities are an accepted quirk of upstream exports;
		// they are truncated, not rejected.
		record := domain.TradeRecord{
			Symbol:         symbol,
			Date:           date,
			TradedQty:      int64(traded),
			DeliverableQty: int64(deliv),
			DeliveryPct:    pct,
		}

		if openText, ok := field("open"); ok {
			if open, ok := parseNumber(openText); ok {
				record.Open = &open
				netValue := float64(record.DeliverableQty) * open
				record.NetValue = &netValue
			}
		}
		if closeText, ok := field("close"); ok {
			if closePrice, ok := parseNumber(closeText); ok {
				record.Close = &closePrice
			}
		}

		records = append(records, record)
	}

	n.logger.InfoContext(ctx, "normalized CSV file",
		slog.String("file", filename),
		slog.Int("rows_parsed", rowsParsed),
		slog.Int("rows_kept", len(records)),
		slog.Int("dropped_malformed", droppedMalformed),
		slog.Int("dropped_bad_date", droppedDate),
		slog.Int("dropped_bad_numeric", droppedNumeric))

	if len(records) == 0 {
		// Surfaced loudly so silent total data loss does not go unnoticed.
		n.logger.WarnContext(ctx, "file contributed zero records",
			slog.String("file", filename),
			slog.Int("rows_parsed", rowsParsed))
	}

	return records, nil
}

// resolveColumns maps canonical field names to their column index in the
// header. The first matching column wins when a file repeats a header.
func resolveColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, h := range header {
		folded := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
		canonical, ok := columnAliases[folded]
		if !ok {
			continue
		}
		if _, exists := columns[canonical]; !exists {
			columns[canonical] = i
		}
	}
	return columns
}

// parseDate parses a calendar date, discarding any time-of-day component.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// parseNumber coerces textual numerics, stripping thousands separators and
// percent signs first. Unparseable values report ok=false.
func parseNumber(s string) (float64, bool) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(s, ",", ""), "%", ""))
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
