package models

import (
	"fmt"
	"time"
)

// SyncPhase identifies the active stage of a sync run.
type SyncPhase string

const (
	PhaseCollecting SyncPhase = "collecting"
	PhaseProjecting SyncPhase = "projecting"
	PhaseWriting    SyncPhase = "writing"
	PhaseDone       SyncPhase = "done"
	PhaseFailed     SyncPhase = "failed"
)

// SyncResult contains the outcome of a member export run.
type SyncResult struct {
	RunID         string    `json:"run_id"`
	GuildID       string    `json:"guild_id"`
	SheetName     string    `json:"sheet_name"`
	MembersSynced int       `json:"members_synced"`
	RoleColumns   int       `json:"role_columns"`
	Roles         []string  `json:"roles,omitempty"`
	NothingToSync bool      `json:"nothing_to_sync,omitempty"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	DurationMs    int64     `json:"duration_ms"`
}

// String returns a human-readable summary of the run.
func (r *SyncResult) String() string {
	if r.NothingToSync {
		return fmt.Sprintf("sync completed: no human members to write to %q", r.SheetName)
	}
	return fmt.Sprintf(
		"sync completed: wrote %d members and %d role columns to %q",
		r.MembersSynced, r.RoleColumns, r.SheetName,
	)
}
