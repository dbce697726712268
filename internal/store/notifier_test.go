package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNotifierDispatchReachesSubscribers(t *testing.T) {
	n := NewNotifier(zap.NewNop())

	equipment, cancelEquipment := n.Subscribe("equipment")
	assignments, cancelAssignments := n.Subscribe("assignments")
	defer cancelEquipment()
	defer cancelAssignments()

	n.Dispatch("equipment")

	select {
	case <-equipment:
	default:
		t.Fatal("expected a tick on the equipment subscription")
	}

	select {
	case <-assignments:
		t.Fatal("assignments subscriber must not see equipment changes")
	default:
	}
}

func TestNotifierCoalescesPendingTicks(t *testing.T) {
	n := NewNotifier(zap.NewNop())

	ticks, cancel := n.Subscribe("equipment")
	defer cancel()

	// A burst of changes while the subscriber is busy collapses into one
	// pending tick; the snapshot re-read covers all of them.
	n.Dispatch("equipment")
	n.Dispatch("equipment")
	n.Dispatch("equipment")

	<-ticks
	select {
	case <-ticks:
		t.Fatal("expected the burst to coalesce into a single tick")
	default:
	}
}

func TestNotifierCancelIsIdempotent(t *testing.T) {
	n := NewNotifier(zap.NewNop())

	ticks, cancel := n.Subscribe("equipment")

	cancel()
	assert.NotPanics(t, func() { cancel() })

	n.Dispatch("equipment")
	select {
	case <-ticks:
		t.Fatal("cancelled subscription must not receive ticks")
	default:
	}
}
