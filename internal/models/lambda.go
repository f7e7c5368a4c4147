package models

import "fmt"

// LambdaEvent is the input event for Lambda invocation. Scheduled
// EventBridge events trigger a one-shot roster export.
type LambdaEvent struct {
	SheetName  string `json:"sheet_name,omitempty"`
	Source     string `json:"source,omitempty"`
	DetailType string `json:"detail-type,omitempty"`
}

// Sheet returns the effective destination sheet name.
func (e *LambdaEvent) Sheet(defaultValue string) string {
	if e != nil && e.SheetName != "" {
		return e.SheetName
	}
	return defaultValue
}

// LambdaResponse is the output from Lambda invocation.
type LambdaResponse struct {
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Result     *SyncResult `json:"result,omitempty"`
}

// NewSuccessResponse creates a success response.
func NewSuccessResponse(result *SyncResult) *LambdaResponse {
	return &LambdaResponse{
		StatusCode: 200,
		Message:    fmt.Sprintf("Sync completed: %d members, %d role columns", result.MembersSynced, result.RoleColumns),
		Result:     result,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(err error) *LambdaResponse {
	return &LambdaResponse{
		StatusCode: 500,
		Message:    err.Error(),
	}
}
