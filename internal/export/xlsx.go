package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXWriter implements ReportWriter by writing an .xlsx file to disk.
// Unlike the Sheets writer it produces a fresh file on every run.
type XLSXWriter struct {
	path string
}

// NewXLSXWriter creates a writer that saves reports to the given path.
func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path}
}

// Write creates the workbook with ASSETS and OVERVIEW sheets and saves it.
func (w *XLSXWriter) Write(ctx context.Context, report Report) error {
	f := excelize.NewFile()
	defer f.Close()

	assetsIdx, err := f.NewSheet("ASSETS")
	if err != nil {
		return fmt.Errorf("creating ASSETS sheet: %w", err)
	}
	if _, err := f.NewSheet("OVERVIEW"); err != nil {
		return fmt.Errorf("creating OVERVIEW sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	for i, row := range report.AssetRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("resolving ASSETS cell: %w", err)
		}
		if err := f.SetSheetRow("ASSETS", cell, &row); err != nil {
			return fmt.Errorf("writing ASSETS row %d: %w", i+1, err)
		}
	}

	if err := f.SetSheetRow("OVERVIEW", "A1", &overviewHeaders); err != nil {
		return fmt.Errorf("writing OVERVIEW headers: %w", err)
	}
	if err := f.SetSheetRow("OVERVIEW", "A2", &report.OverviewRow); err != nil {
		return fmt.Errorf("writing OVERVIEW row: %w", err)
	}

	f.SetActiveSheet(assetsIdx)

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}
