// Package export renders a forecast timeline as a downloadable xlsx workbook.
package export

import (
	"fmt"
	"io"

	"fintrack/internal/core"

	"github.com/xuri/excelize/v2"
)

// SheetName is the single worksheet the export writes.
const SheetName = "Predictions"

// WriteTimeline writes the timeline as an xlsx workbook: a header row with
// Date, every registry field in order, and Event, then one row per day.
// Amounts are written as numbers so the sheet stays sortable.
func WriteTimeline(w io.Writer, reg core.Registry, rows []core.TimelineRow) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	header := make([]any, 0, len(reg.Fields())+2)
	header = append(header, "Date")
	for _, field := range reg.Fields() {
		header = append(header, field.Name)
	}
	header = append(header, "Event")
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		cells := make([]any, 0, len(header))
		cells = append(cells, row.Date.String())
		for _, field := range reg.Fields() {
			cells = append(cells, row.Values.Get(field.Name).InexactFloat64())
		}
		cells = append(cells, row.Event)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
