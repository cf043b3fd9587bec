// Package exporter renders aggregate delivery tables to downloadable
// formats.
//
// This package contains two main components:
//
// TableWriter: streams one aggregate table as CSV, with an optional UTF-8
// BOM for Excel compatibility.
//
// WorkbookBuilder: builds an Excel workbook with one sheet per granularity
// and a highlight style on net-value spike rows.
package exporter
