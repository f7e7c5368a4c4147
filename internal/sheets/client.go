package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

// NotFoundError is returned when the named destination sheet does not
// exist in the spreadsheet.
type NotFoundError struct {
	Sheet string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("sheet %q not found in spreadsheet", e.Sheet)
}

// IsNotFoundError checks whether an error indicates a missing sheet,
// directly or anywhere in its chain.
func IsNotFoundError(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

type spreadsheetService interface {
	GetSpreadsheet(ctx context.Context) (*sheets.Spreadsheet, error)
	ClearValues(ctx context.Context, rangeA1 string) error
	UpdateValues(ctx context.Context, rangeA1 string, values *sheets.ValueRange) error
}

// Client implements spreadsheet operations for one spreadsheet.
type Client struct {
	svc           spreadsheetService
	spreadsheetID string
}

// NewClient creates a Sheets API client from service-account credentials.
func NewClient(ctx context.Context, credentialsJSON []byte, spreadsheetID string) (*Client, error) {
	if len(credentialsJSON) == 0 {
		return nil, fmt.Errorf("credentials JSON is required")
	}
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID is required")
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, err
	}

	svc, err := sheets.NewService(ctx, option.WithTokenSource(config.TokenSource(ctx)))
	if err != nil {
		return nil, err
	}

	return &Client{
		svc:           &sheetsService{svc: svc, spreadsheetID: spreadsheetID},
		spreadsheetID: spreadsheetID,
	}, nil
}

// SheetTitles returns the titles of every sheet in the spreadsheet.
func (c *Client) SheetTitles(ctx context.Context) ([]string, error) {
	spreadsheet, err := c.svc.GetSpreadsheet(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching spreadsheet metadata: %w", err)
	}
	titles := make([]string, 0, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil {
			titles = append(titles, sheet.Properties.Title)
		}
	}
	return titles, nil
}

// ClearSheet erases every cell in the named sheet. The bare quoted
// title addresses the sheet's full range.
func (c *Client) ClearSheet(ctx context.Context, sheetName string) error {
	if err := c.requireSheet(ctx, sheetName); err != nil {
		return err
	}
	if err := c.svc.ClearValues(ctx, quoteSheet(sheetName)); err != nil {
		return fmt.Errorf("clearing sheet %q: %w", sheetName, err)
	}
	logrus.WithField("sheet", sheetName).Debug("cleared sheet")
	return nil
}

// UpdateSheet writes the grid starting at A1 with raw input semantics:
// values land verbatim, no formula evaluation or type coercion.
func (c *Client) UpdateSheet(ctx context.Context, sheetName string, values [][]interface{}) error {
	rangeA1 := quoteSheet(sheetName) + "!A1"
	body := &sheets.ValueRange{Values: values}
	if err := c.svc.UpdateValues(ctx, rangeA1, body); err != nil {
		return fmt.Errorf("writing sheet %q: %w", sheetName, err)
	}
	return nil
}

// LogSpreadsheetInfo logs the spreadsheet title and per-sheet
// dimensions. Used as a startup probe; failures are reported, not fatal.
func (c *Client) LogSpreadsheetInfo(ctx context.Context) {
	spreadsheet, err := c.svc.GetSpreadsheet(ctx)
	if err != nil {
		logrus.WithError(err).Warn("could not fetch spreadsheet info")
		return
	}
	title := ""
	if spreadsheet.Properties != nil {
		title = spreadsheet.Properties.Title
	}
	logrus.WithFields(logrus.Fields{
		"spreadsheet": title,
		"id":          c.spreadsheetID,
		"sheets":      len(spreadsheet.Sheets),
	}).Info("connected to spreadsheet")
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties == nil {
			continue
		}
		fields := logrus.Fields{"sheet": sheet.Properties.Title}
		if grid := sheet.Properties.GridProperties; grid != nil {
			fields["rows"] = grid.RowCount
			fields["columns"] = grid.ColumnCount
		}
		logrus.WithFields(fields).Debug("  sheet")
	}
}

func (c *Client) requireSheet(ctx context.Context, sheetName string) error {
	titles, err := c.SheetTitles(ctx)
	if err != nil {
		return err
	}
	for _, title := range titles {
		if title == sheetName {
			return nil
		}
	}
	return &NotFoundError{Sheet: sheetName}
}

func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

type sheetsService struct {
	svc           *sheets.Service
	spreadsheetID string
}

func (s *sheetsService) GetSpreadsheet(ctx context.Context) (*sheets.Spreadsheet, error) {
	return s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
}

func (s *sheetsService) ClearValues(ctx context.Context, rangeA1 string) error {
	_, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, rangeA1, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (s *sheetsService) UpdateValues(ctx context.Context, rangeA1 string, values *sheets.ValueRange) error {
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rangeA1, values).ValueInputOption("RAW").Context(ctx).Do()
	return err
}
