package auditlog

import (
	"errors"
	"testing"

	"github.com/cjsachs/Management-Inventory-System/pkg/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubLogStore struct {
	inserts []models.ActivityLog
	err     error
}

func (s *stubLogStore) Insert(entry models.ActivityLog) error {
	s.inserts = append(s.inserts, entry)
	return s.err
}

func testEquipment() models.Equipment {
	return models.Equipment{ID: 7, AssetTag: "IT-2025-001"}
}

func TestRecorderWritesEntry(t *testing.T) {
	store := &stubLogStore{}
	recorder := NewRecorder(store, zap.NewNop())

	recorder.Record("added", testEquipment(), 1, "Admin One", nil, "")

	assert.Len(t, store.inserts, 1)
	entry := store.inserts[0]
	assert.Equal(t, "added", entry.Action)
	assert.Equal(t, "equipment", entry.EntityType)
	assert.Equal(t, 7, entry.EntityID)
	assert.Equal(t, "IT-2025-001", entry.EntityName)
	assert.Equal(t, 1, entry.PerformedBy)
	assert.Equal(t, "Admin One", entry.PerformedByName)
}

func TestRecorderDisablesAfterThreeConsecutiveFailures(t *testing.T) {
	store := &stubLogStore{err: errors.New("permission denied")}
	recorder := NewRecorder(store, zap.NewNop())

	recorder.Record("added", testEquipment(), 1, "Admin One", nil, "")
	recorder.Record("updated", testEquipment(), 1, "Admin One", nil, "")
	assert.False(t, recorder.Disabled())

	recorder.Record("deleted", testEquipment(), 1, "Admin One", nil, "")
	assert.True(t, recorder.Disabled())

	// fourth call must be a no-op, no write attempted
	recorder.Record("added", testEquipment(), 1, "Admin One", nil, "")
	assert.Len(t, store.inserts, 3)
}

func TestRecorderSuccessResetsFailureCounter(t *testing.T) {
	store := &stubLogStore{err: errors.New("unavailable")}
	recorder := NewRecorder(store, zap.NewNop())

	recorder.Record("added", testEquipment(), 1, "Admin One", nil, "")
	recorder.Record("added", testEquipment(), 1, "Admin One", nil, "")

	store.err = nil
	recorder.Record("added", testEquipment(), 1, "Admin One", nil, "")
	assert.False(t, recorder.Disabled())

	// two more failures stay below the threshold again
	store.err = errors.New("unavailable")
	recorder.Record("added", testEquipment(), 1, "Admin One", nil, "")
	recorder.Record("added", testEquipment(), 1, "Admin One", nil, "")
	assert.False(t, recorder.Disabled())
}

func TestRecorderEnableResetsDisabledState(t *testing.T) {
	store := &stubLogStore{err: errors.New("permission denied")}
	recorder := NewRecorder(store, zap.NewNop())

	for i := 0; i < 3; i++ {
		recorder.Record("added", testEquipment(), 1, "Admin One", nil, "")
	}
	assert.True(t, recorder.Disabled())

	recorder.Enable()
	assert.False(t, recorder.Disabled())

	store.err = nil
	recorder.Record("added", testEquipment(), 1, "Admin One", nil, "")
	assert.Len(t, store.inserts, 4, "the call after re-enable writes normally")
}
