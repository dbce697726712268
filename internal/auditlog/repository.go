package auditlog

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cjsachs/Management-Inventory-System/internal/repository"
	"github.com/cjsachs/Management-Inventory-System/internal/store"
	custom_error "github.com/cjsachs/Management-Inventory-System/pkg/errors"
	"github.com/cjsachs/Management-Inventory-System/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

const (
	table = "activity_logs"

	defaultQueryLimit     = 100
	defaultSubscribeLimit = 50
)

// Filters narrow a log query. All fields are optional; a nil *Filters means
// the caller built no query at all and gets an empty result, not an error.
type Filters struct {
	EntityType string
	EntityID   int
	UserID     int
	Action     string
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
}

type LogRepository struct {
	repository *repository.Repository
	notifier   *store.Notifier
}

func NewRepository(r *repository.Repository, notifier *store.Notifier) *LogRepository {
	return &LogRepository{
		repository: r,
		notifier:   notifier,
	}
}

func (r *LogRepository) Insert(entry models.ActivityLog) error {
	record := goqu.Record{
		"action":            entry.Action,
		"entity_type":       entry.EntityType,
		"entity_id":         entry.EntityID,
		"entity_name":       entry.EntityName,
		"performed_by":      entry.PerformedBy,
		"performed_by_name": entry.PerformedByName,
		"details":           entry.Details,
	}

	if entry.Changes != nil {
		changesJSON, err := json.Marshal(entry.Changes)
		if err != nil {
			return fmt.Errorf("failed to marshal activity log changes: %w", err)
		}
		record["changes"] = changesJSON
	}

	query := r.repository.GoquDBWrapper.Insert(table).Rows(record)
	if _, err := query.Executor().Exec(); err != nil {
		return &custom_error.WriteError{Entity: "activity log", Op: "create", Err: err}
	}

	return nil
}

// Query returns matching logs newest first, capped at Filters.Limit or the
// default of 100.
func (r *LogRepository) Query(filters *Filters) ([]models.ActivityLog, error) {
	if filters == nil {
		return []models.ActivityLog{}, nil
	}

	query := r.selectQuery().Order(goqu.I("timestamp").Desc())

	if filters.EntityType != "" {
		query = query.Where(goqu.Ex{"entity_type": filters.EntityType})
	}
	if filters.EntityID != 0 {
		query = query.Where(goqu.Ex{"entity_id": filters.EntityID})
	}
	if filters.UserID != 0 {
		query = query.Where(goqu.Ex{"performed_by": filters.UserID})
	}
	if filters.Action != "" {
		query = query.Where(goqu.Ex{"action": filters.Action})
	}
	if filters.StartDate != nil {
		query = query.Where(goqu.C("timestamp").Gte(*filters.StartDate))
	}
	if filters.EndDate != nil {
		query = query.Where(goqu.C("timestamp").Lte(*filters.EndDate))
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	query = query.Limit(uint(limit))

	return r.scanList(query)
}

// Subscribe delivers the most recent limit entries on every new log write.
func (r *LogRepository) Subscribe(onChange func([]models.ActivityLog), limit int) func() {
	if limit <= 0 {
		limit = defaultSubscribeLimit
	}

	ticks, cancelTicks := r.notifier.Subscribe(table)
	done := make(chan struct{})

	deliver := func() {
		logs, err := r.scanList(r.selectQuery().
			Order(goqu.I("timestamp").Desc()).
			Limit(uint(limit)))
		if err != nil {
			return
		}
		onChange(logs)
	}

	go func() {
		deliver()
		for {
			select {
			case <-done:
				return
			case <-ticks:
				deliver()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancelTicks()
			close(done)
		})
	}
}

func (r *LogRepository) scanList(query *goqu.SelectDataset) ([]models.ActivityLog, error) {
	var logs []models.ActivityLog
	if err := query.Executor().ScanStructs(&logs); err != nil {
		return nil, &custom_error.QueryError{Entity: "activity log", Err: err}
	}

	for i := range logs {
		logs[i].LoadFromDB()
	}

	return logs, nil
}

func (r *LogRepository) selectQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.Select(
		"id",
		"action",
		"entity_type",
		"entity_id",
		"entity_name",
		"performed_by",
		"performed_by_name",
		"timestamp",
		"changes",
		"details",
	).From(table)
}
