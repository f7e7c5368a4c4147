package sync

import (
	"errors"
	"fmt"

	"github.com/dmhcommunity/beanbot/internal/models"
)

// ErrSyncInProgress is returned when a sync is already running against
// the requested sheet.
var ErrSyncInProgress = errors.New("sync already in progress for this sheet")

// PhaseError tags a failure with the phase it occurred in. All pipeline
// failures cross the engine boundary as PhaseErrors.
type PhaseError struct {
	Phase models.SyncPhase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("sync failed during %s: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// FailedPhase returns the phase an error occurred in, or PhaseFailed if
// the error carries no phase information.
func FailedPhase(err error) models.SyncPhase {
	var phaseErr *PhaseError
	if errors.As(err, &phaseErr) {
		return phaseErr.Phase
	}
	return models.PhaseFailed
}
