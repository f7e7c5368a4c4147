package sheets

import "context"

// MockClient is a simple mock implementation of the sheets client.
type MockClient struct {
	SheetTitlesFunc func(ctx context.Context) ([]string, error)
	ClearSheetFunc  func(ctx context.Context, sheetName string) error
	UpdateSheetFunc func(ctx context.Context, sheetName string, values [][]interface{}) error
}

func (m *MockClient) SheetTitles(ctx context.Context) ([]string, error) {
	if m.SheetTitlesFunc == nil {
		return nil, nil
	}
	return m.SheetTitlesFunc(ctx)
}

func (m *MockClient) ClearSheet(ctx context.Context, sheetName string) error {
	if m.ClearSheetFunc == nil {
		return nil
	}
	return m.ClearSheetFunc(ctx, sheetName)
}

func (m *MockClient) UpdateSheet(ctx context.Context, sheetName string, values [][]interface{}) error {
	if m.UpdateSheetFunc == nil {
		return nil
	}
	return m.UpdateSheetFunc(ctx, sheetName, values)
}
