package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"deliverypulse/pkg/contracts/domain"
)

// WorkbookBuilder renders aggregate tables into an Excel workbook with one
// sheet per granularity. Rows flagged as net-value spikes get a highlight
// fill so they stand out the same way the dashboard paints them.
type WorkbookBuilder struct{}

// NewWorkbookBuilder creates a new workbook builder instance
func NewWorkbookBuilder() *WorkbookBuilder {
	return &WorkbookBuilder{}
}

// WriteWorkbook writes the given tables to w as an xlsx workbook. Sheet order
// follows the order of tables; each entry produces one sheet named after its
// granularity label.
func (b *WorkbookBuilder) WriteWorkbook(w io.Writer, tables map[domain.Granularity][]domain.AggregateBucket) error {
	f := excelize.NewFile()
	defer f.Close()

	spikeStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFF3CD"}},
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create spike style: %w", err)
	}

	first := true
	for _, granularity := range domain.Granularities {
		buckets, ok := tables[granularity]
		if !ok {
			continue
		}

		sheet := granularity.Label()
		if first {
			// Rename the default sheet instead of leaving it empty.
			f.SetSheetName(f.GetSheetName(0), sheet)
			first = false
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
			}
		}

		if err := b.writeSheet(f, sheet, buckets, spikeStyle); err != nil {
			return err
		}
	}

	if first {
		// No tables at all. Keep the default sheet so the workbook stays valid.
		f.SetSheetName(f.GetSheetName(0), "Empty")
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteTable writes a single granularity table as a one-sheet workbook.
func (b *WorkbookBuilder) WriteTable(w io.Writer, granularity domain.Granularity, buckets []domain.AggregateBucket) error {
	return b.WriteWorkbook(w, map[domain.Granularity][]domain.AggregateBucket{
		granularity: buckets,
	})
}

func (b *WorkbookBuilder) writeSheet(f *excelize.File, sheet string, buckets []domain.AggregateBucket, spikeStyle int) error {
	for colIdx, name := range tableHeader {
		cell, err := excelize.CoordinatesToCellName(colIdx+1, 1)
		if err != nil {
			return fmt.Errorf("failed to resolve header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("failed to write header %s: %w", name, err)
		}
	}

	for rowIdx, bucket := range buckets {
		rowNum := rowIdx + 2
		for colIdx, value := range tableRow(bucket) {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowNum)
			if err != nil {
				return fmt.Errorf("failed to resolve cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write row %d: %w", rowNum, err)
			}
		}

		if bucket.NetValueSpike {
			start, _ := excelize.CoordinatesToCellName(1, rowNum)
			end, _ := excelize.CoordinatesToCellName(len(tableHeader), rowNum)
			if err := f.SetCellStyle(sheet, start, end, spikeStyle); err != nil {
				return fmt.Errorf("failed to style row %d: %w", rowNum, err)
			}
		}
	}

	return nil
}
