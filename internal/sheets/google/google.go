package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"fintrack/internal/core"
	ports "fintrack/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	reg           core.Registry
}

var _ ports.TimelineWriter = (*Client)(nil)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID plus service account credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional: FORECAST_SHEET_NAME (default "Predictions").
func NewFromEnv(ctx context.Context, reg core.Registry) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("FORECAST_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Predictions"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		reg:           reg,
	}, nil
}

// newSheetsService initializes a Sheets Service using service account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// WriteTimeline clears the forecast sheet and writes the full timeline,
// one row per displayed day with a header row on top.
func (c *Client) WriteTimeline(ctx context.Context, rows []core.TimelineRow) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	clearRng := fmt.Sprintf("%s!A:Z", c.sheetName)
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", clearRng, err)
	}

	values := buildRows(c.reg, rows)
	writeRng := fmt.Sprintf("%s!A1", c.sheetName)
	vr := &gsheet.ValueRange{Values: values}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write %s: %w", writeRng, err)
	}
	return nil
}

// buildRows converts timeline rows into the sheet cell grid:
// Date, one column per registry field in order, then the event description.
func buildRows(reg core.Registry, rows []core.TimelineRow) [][]any {
	header := make([]any, 0, len(reg.Fields())+2)
	header = append(header, "Date")
	for _, f := range reg.Fields() {
		header = append(header, f.Name)
	}
	header = append(header, "Event")

	out := make([][]any, 0, len(rows)+1)
	out = append(out, header)
	for _, row := range rows {
		cells := make([]any, 0, len(header))
		cells = append(cells, row.Date.String())
		for _, f := range reg.Fields() {
			cells = append(cells, row.Values.Get(f.Name).InexactFloat64())
		}
		cells = append(cells, row.Event)
		out = append(out, cells)
	}
	return out
}
