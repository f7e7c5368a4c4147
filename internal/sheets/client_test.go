package sheets

import (
	"context"
	"errors"
	"fmt"
	"testing"

	sheets "google.golang.org/api/sheets/v4"
)

type fakeService struct {
	spreadsheet *sheets.Spreadsheet
	getErr      error

	clearedRanges []string
	clearErr      error

	updatedRange  string
	updatedValues *sheets.ValueRange
	updateErr     error
}

func (f *fakeService) GetSpreadsheet(ctx context.Context) (*sheets.Spreadsheet, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.spreadsheet, nil
}

func (f *fakeService) ClearValues(ctx context.Context, rangeA1 string) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.clearedRanges = append(f.clearedRanges, rangeA1)
	return nil
}

func (f *fakeService) UpdateValues(ctx context.Context, rangeA1 string, values *sheets.ValueRange) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedRange = rangeA1
	f.updatedValues = values
	return nil
}

func spreadsheetWith(titles ...string) *sheets.Spreadsheet {
	s := &sheets.Spreadsheet{Properties: &sheets.SpreadsheetProperties{Title: "Roster"}}
	for _, title := range titles {
		s.Sheets = append(s.Sheets, &sheets.Sheet{
			Properties: &sheets.SheetProperties{Title: title},
		})
	}
	return s
}

func TestSheetTitles(t *testing.T) {
	fake := &fakeService{spreadsheet: spreadsheetWith("Benji", "Archive")}
	client := &Client{svc: fake, spreadsheetID: "abc"}

	titles, err := client.SheetTitles(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(titles) != 2 || titles[0] != "Benji" || titles[1] != "Archive" {
		t.Fatalf("unexpected titles: %v", titles)
	}
}

func TestClearSheet(t *testing.T) {
	fake := &fakeService{spreadsheet: spreadsheetWith("Benji")}
	client := &Client{svc: fake, spreadsheetID: "abc"}

	if err := client.ClearSheet(context.Background(), "Benji"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(fake.clearedRanges) != 1 || fake.clearedRanges[0] != "'Benji'" {
		t.Fatalf("expected full-sheet clear range, got %v", fake.clearedRanges)
	}
}

func TestClearSheetMissingSheet(t *testing.T) {
	fake := &fakeService{spreadsheet: spreadsheetWith("Benji")}
	client := &Client{svc: fake, spreadsheetID: "abc"}

	err := client.ClearSheet(context.Background(), "Missing")
	if !IsNotFoundError(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if len(fake.clearedRanges) != 0 {
		t.Fatalf("no clear may run when the sheet does not exist, got %v", fake.clearedRanges)
	}
}

func TestIsNotFoundErrorUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("sync failed: %w", &NotFoundError{Sheet: "Missing"})
	if !IsNotFoundError(wrapped) {
		t.Fatal("expected wrapped NotFoundError to be detected")
	}
	if IsNotFoundError(errors.New("other")) {
		t.Fatal("unrelated errors must not match")
	}
}

func TestUpdateSheet(t *testing.T) {
	fake := &fakeService{spreadsheet: spreadsheetWith("Benji")}
	client := &Client{svc: fake, spreadsheetID: "abc"}

	grid := [][]interface{}{{"Username"}, {"alice"}}
	if err := client.UpdateSheet(context.Background(), "Benji", grid); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if fake.updatedRange != "'Benji'!A1" {
		t.Fatalf("expected write anchored at A1, got %q", fake.updatedRange)
	}
	if len(fake.updatedValues.Values) != 2 {
		t.Fatalf("unexpected values: %v", fake.updatedValues.Values)
	}
}

func TestQuoteSheet(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Benji", "'Benji'"},
		{"Member List", "'Member List'"},
		{"Bob's Sheet", "'Bob''s Sheet'"},
	}
	for _, tc := range cases {
		if got := quoteSheet(tc.name); got != tc.want {
			t.Errorf("quoteSheet(%q): expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(context.Background(), nil, "abc"); err == nil {
		t.Fatal("expected error for missing credentials")
	}
	if _, err := NewClient(context.Background(), []byte("{}"), ""); err == nil {
		t.Fatal("expected error for missing spreadsheet ID")
	}
}
