package exporter

import (
	"fmt"
)

// tableHeader is the display column order shared by the CSV and Excel
// exports.
var tableHeader = []string{
	"Period",
	"Symbol",
	"Traded Qty (mn)",
	"Deliverable Qty (mn)",
	"Delivery %",
	"Net Value (cr)",
	"Traded Qty Chg %",
	"Deliverable Qty Chg %",
}

// formatFloat formats a float64 value for export with exactly 2 decimal places
func formatFloat(f float64) string {
	// Values like 13.4 must appear as 13.40 for column consistency
	return fmt.Sprintf("%.2f", f)
}

// formatOptFloat formats an optional float, rendering undefined values as an
// empty cell rather than zero.
func formatOptFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}
