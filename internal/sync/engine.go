package sync

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dmhcommunity/beanbot/internal/config"
	"github.com/dmhcommunity/beanbot/internal/interfaces"
	"github.com/dmhcommunity/beanbot/internal/models"
)

// ProgressFunc observes phase transitions during a sync run. It belongs
// to one invocation: concurrent runs each carry their own observer.
type ProgressFunc func(phase models.SyncPhase)

// Engine orchestrates a member export run: Collecting → Projecting →
// Writing → Done, with Failed as the terminal state from any phase.
type Engine struct {
	chat   interfaces.ChatClient
	sheets interfaces.SheetsClient
	cfg    *config.Config

	mu     sync.Mutex
	active map[string]bool
}

// NewEngine creates a sync engine.
func NewEngine(chat interfaces.ChatClient, sheetsClient interfaces.SheetsClient, cfg *config.Config) *Engine {
	return &Engine{
		chat:   chat,
		sheets: sheetsClient,
		cfg:    cfg,
		active: make(map[string]bool),
	}
}

// Sync performs one export run. Two runs against the same sheet cannot
// overlap; runs against different sheets may. progress may be nil, in
// which case transitions are only logged. Phases are not individually
// retryable — on failure the caller re-invokes the whole pipeline.
func (e *Engine) Sync(ctx context.Context, guildID string, sheetName string, progress func(models.SyncPhase)) (*models.SyncResult, error) {
	if sheetName == "" {
		sheetName = e.cfg.Sync.DefaultSheet
	}

	if !e.acquire(sheetName) {
		return nil, ErrSyncInProgress
	}
	defer e.release(sheetName)

	runID := uuid.NewString()
	log := logrus.WithFields(logrus.Fields{"run_id": runID, "guild_id": guildID, "sheet": sheetName})
	start := time.Now()

	result := &models.SyncResult{
		RunID:     runID,
		GuildID:   guildID,
		SheetName: sheetName,
		StartTime: start,
	}

	report(progress, models.PhaseCollecting)
	log.Info("[1/3] collecting guild data")

	roles, err := e.chat.GuildRoles(ctx, guildID)
	if err != nil {
		return nil, fail(log, progress, models.PhaseCollecting, err)
	}
	catalog := BuildRoleCatalog(roles)
	log.WithField("roles", len(catalog)).Debug("role catalog built")

	members, err := e.chat.GuildMembers(ctx, guildID)
	if err != nil {
		return nil, fail(log, progress, models.PhaseCollecting, err)
	}

	records := ExtractRecords(members, catalog, start)
	if len(records) == 0 {
		// All members are automated accounts: a successful no-op, not a
		// failure. The sheet is left untouched.
		result.NothingToSync = true
		result.Roles = catalog
		result.RoleColumns = len(catalog)
		finish(result, log, progress)
		return result, nil
	}

	report(progress, models.PhaseProjecting)
	log.WithField("records", len(records)).Info("[2/3] projecting records")
	grid := ProjectGrid(records, catalog)

	report(progress, models.PhaseWriting)
	log.WithFields(logrus.Fields{"rows": len(grid), "columns": len(grid[0])}).Info("[3/3] writing sheet")
	if err := e.sheets.ClearSheet(ctx, sheetName); err != nil {
		return nil, fail(log, progress, models.PhaseWriting, err)
	}
	if err := e.sheets.UpdateSheet(ctx, sheetName, grid); err != nil {
		// The clear already ran: the sheet is now empty. Visible, not
		// silently retried.
		log.Warn("write failed after clear, destination sheet left empty")
		return nil, fail(log, progress, models.PhaseWriting, err)
	}

	result.MembersSynced = len(records)
	result.RoleColumns = len(catalog)
	result.Roles = catalog
	finish(result, log, progress)
	return result, nil
}

func (e *Engine) acquire(sheetName string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active[sheetName] {
		return false
	}
	e.active[sheetName] = true
	return true
}

func (e *Engine) release(sheetName string) {
	e.mu.Lock()
	delete(e.active, sheetName)
	e.mu.Unlock()
}

func report(progress ProgressFunc, phase models.SyncPhase) {
	if progress != nil {
		progress(phase)
	}
}

func fail(log *logrus.Entry, progress ProgressFunc, phase models.SyncPhase, err error) error {
	report(progress, models.PhaseFailed)
	wrapped := &PhaseError{Phase: phase, Err: err}
	log.WithError(err).WithField("phase", phase).Error("sync failed")
	return wrapped
}

func finish(result *models.SyncResult, log *logrus.Entry, progress ProgressFunc) {
	result.EndTime = time.Now()
	result.DurationMs = result.EndTime.Sub(result.StartTime).Milliseconds()
	report(progress, models.PhaseDone)
	log.WithFields(logrus.Fields{
		"members":      result.MembersSynced,
		"role_columns": result.RoleColumns,
		"duration_ms":  result.DurationMs,
	}).Info(result.String())
}
