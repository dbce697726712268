package auditlog

import (
	"sync"

	"github.com/cjsachs/Management-Inventory-System/pkg/models"

	"go.uber.org/zap"
)

// disableThreshold is the number of consecutive write failures after which
// the recorder stops trying until an administrator re-enables it.
const disableThreshold = 3

// LogStore is the persistence the recorder writes through.
type LogStore interface {
	Insert(entry models.ActivityLog) error
}

// Recorder writes audit entries best-effort. A failing audit backend must
// never fail or block the mutation it describes, so Record swallows errors,
// counts consecutive failures and disables itself at the threshold.
type Recorder struct {
	store  LogStore
	logger *zap.Logger

	mu       sync.Mutex
	failures int
	disabled bool
}

func NewRecorder(store LogStore, logger *zap.Logger) *Recorder {
	return &Recorder{
		store:  store,
		logger: logger,
	}
}

// Record writes one audit entry for a mutation. Never returns an error.
func (r *Recorder) Record(action string, equipment models.Equipment, actorID int, actorName string, changes map[string]models.FieldChange, details string) {
	r.mu.Lock()
	if r.disabled {
		r.mu.Unlock()
		r.logger.Warn("activity logging disabled, entry dropped",
			zap.String("action", action),
			zap.String("entity", equipment.AssetTag))
		return
	}
	r.mu.Unlock()

	entry := equipment.CreateLogView()
	entry.Action = action
	entry.PerformedBy = actorID
	entry.PerformedByName = actorName
	entry.Changes = changes
	entry.Details = details

	if err := r.store.Insert(entry); err != nil {
		r.recordFailure(action, err)
		return
	}

	r.mu.Lock()
	r.failures = 0
	r.mu.Unlock()
}

func (r *Recorder) recordFailure(action string, err error) {
	r.mu.Lock()
	r.failures++
	failures := r.failures
	if r.failures >= disableThreshold {
		r.disabled = true
	}
	disabled := r.disabled
	r.mu.Unlock()

	if disabled {
		r.logger.Error("activity logging disabled after repeated failures",
			zap.Int("consecutive_failures", failures),
			zap.Error(err))
		return
	}

	r.logger.Warn("failed to write activity log entry",
		zap.String("action", action),
		zap.Int("consecutive_failures", failures),
		zap.Error(err))
}

// Enable clears the failure state so the next Record writes again. Exposed
// as an administrative action.
func (r *Recorder) Enable() {
	r.mu.Lock()
	r.failures = 0
	r.disabled = false
	r.mu.Unlock()

	r.logger.Info("activity logging re-enabled")
}

func (r *Recorder) Disabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disabled
}
