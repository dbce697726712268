package models

import (
	"encoding/json"
	"time"
)

type FieldChange struct {
	From interface{} `json:"from"`
	To   interface{} `json:"to"`
}

type ActivityLog struct {
	ID              int                    `json:"id" db:"id"`
	Action          string                 `json:"action" db:"action"` // added, updated, deleted, assigned, returned
	EntityType      string                 `json:"entityType" db:"entity_type"`
	EntityID        int                    `json:"entityId" db:"entity_id"`
	EntityName      string                 `json:"entityName" db:"entity_name"`
	PerformedBy     int                    `json:"performedBy" db:"performed_by"`
	PerformedByName string                 `json:"performedByName" db:"performed_by_name"`
	Timestamp       time.Time              `json:"timestamp" db:"timestamp"`
	ChangesRaw      []byte                 `json:"-" db:"changes"`
	Changes         map[string]FieldChange `json:"changes,omitempty" db:"-"`
	Details         string                 `json:"details,omitempty" db:"details"`
}

func (a *ActivityLog) LoadFromDB() {
	if len(a.ChangesRaw) > 0 {
		_ = json.Unmarshal(a.ChangesRaw, &a.Changes)
	}
}
