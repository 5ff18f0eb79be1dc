package export

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

// SheetsWriter implements ReportWriter using the Google Sheets API.
// The ASSETS sheet is rewritten on every run; the OVERVIEW sheet is
// append-only so it accumulates a daily history.
type SheetsWriter struct {
	spreadsheetID string
	svc           *sheets.Service
}

// NewSheetsWriter creates a SheetsWriter authenticated with a service account JSON.
func NewSheetsWriter(ctx context.Context, spreadsheetID, credentialsJSON string) (*SheetsWriter, error) {
	creds, err := google.CredentialsFromJSON(
		ctx,
		[]byte(credentialsJSON),
		sheets.SpreadsheetsScope,
	)
	if err != nil {
		return nil, fmt.Errorf("parsing google credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &SheetsWriter{spreadsheetID: spreadsheetID, svc: svc}, nil
}

// Write ensures the required sheets exist, rewrites ASSETS and appends
// one OVERVIEW row for this run.
func (w *SheetsWriter) Write(ctx context.Context, report Report) error {
	if err := w.ensureSheets(ctx, "ASSETS", "OVERVIEW"); err != nil {
		return err
	}

	_, err := w.svc.Spreadsheets.Values.BatchClear(
		w.spreadsheetID,
		&sheets.BatchClearValuesRequest{
			Ranges: []string{"ASSETS!A:K"},
		},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clearing ASSETS sheet: %w", err)
	}

	_, err = w.svc.Spreadsheets.Values.Update(
		w.spreadsheetID,
		"ASSETS!A1",
		&sheets.ValueRange{Values: report.AssetRows},
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("writing ASSETS sheet: %w", err)
	}

	if err := w.appendOverview(ctx, report); err != nil {
		return err
	}

	return nil
}

// appendOverview writes OVERVIEW headers when the sheet is empty, then
// appends the run's summary row.
func (w *SheetsWriter) appendOverview(ctx context.Context, report Report) error {
	existing, err := w.svc.Spreadsheets.Values.Get(
		w.spreadsheetID, "OVERVIEW!A1:A1",
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("reading OVERVIEW headers: %w", err)
	}

	if len(existing.Values) == 0 {
		_, err = w.svc.Spreadsheets.Values.Update(
			w.spreadsheetID,
			"OVERVIEW!A1",
			&sheets.ValueRange{Values: [][]any{overviewHeaders}},
		).ValueInputOption("USER_ENTERED").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("writing OVERVIEW headers: %w", err)
		}
	}

	_, err = w.svc.Spreadsheets.Values.Append(
		w.spreadsheetID,
		"OVERVIEW!A:E",
		&sheets.ValueRange{Values: [][]any{report.OverviewRow}},
	).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending OVERVIEW row: %w", err)
	}

	return nil
}

// ensureSheets creates any of the named sheets that do not already exist.
func (w *SheetsWriter) ensureSheets(ctx context.Context, names ...string) error {
	spreadsheet, err := w.svc.Spreadsheets.Get(w.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("getting spreadsheet metadata: %w", err)
	}

	existing := make(map[string]bool, len(spreadsheet.Sheets))
	for _, s := range spreadsheet.Sheets {
		existing[s.Properties.Title] = true
	}

	var requests []*sheets.Request
	for _, name := range names {
		if !existing[name] {
			requests = append(requests, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: name},
				},
			})
		}
	}

	if len(requests) == 0 {
		return nil
	}

	_, err = w.svc.Spreadsheets.BatchUpdate(
		w.spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: requests},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("creating sheets: %w", err)
	}

	return nil
}
