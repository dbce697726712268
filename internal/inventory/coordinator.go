package inventory

import (
	"fmt"
	"sync"
	"time"

	custom_error "github.com/cjsachs/Management-Inventory-System/pkg/errors"
	"github.com/cjsachs/Management-Inventory-System/pkg/metadata"
	"github.com/cjsachs/Management-Inventory-System/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

// EquipmentStore is the slice of the equipment repository the coordinator
// drives.
type EquipmentStore interface {
	Subscribe(onChange func([]models.Equipment), onError func(error)) func()
	Add(eq models.Equipment, actorID int) (int, error)
	Update(id int, eq models.Equipment, actorID int) error
	Delete(id int) error
	AssetTagExists(tag string, excludeID int) (bool, error)
	SetHolder(tx *goqu.TxDatabase, id int, holder models.Holder, actorID int) error
	ClearHolder(tx *goqu.TxDatabase, id int, actorID int) error
}

type AssignmentStore interface {
	SubscribeActive(onChange func([]models.Assignment), onError func(error)) func()
	Insert(tx *goqu.TxDatabase, a models.Assignment) (int, error)
	MarkReturned(tx *goqu.TxDatabase, id int, returnedBy string, notes string) error
	HasActive(equipmentID int) (bool, error)
}

type AuditRecorder interface {
	Record(action string, equipment models.Equipment, actorID int, actorName string, changes map[string]models.FieldChange, details string)
}

// TxRunner executes fn atomically. The production runner wraps
// repository.WithTransaction over the shared goqu handle.
type TxRunner func(fn func(tx *goqu.TxDatabase) error) error

// Actor is the authenticated staff member performing a use-case.
type Actor struct {
	ID   int
	Name string
}

// Snapshot is the derived view pushed to the presentation layer whenever
// the synced state changes.
type Snapshot struct {
	Equipment   []models.Equipment    `json:"equipment"`
	Assignments []models.Assignment   `json:"assignments"`
	Stats       models.EquipmentStats `json:"stats"`
}

// Coordinator owns the authoritative in-memory equipment and active
// assignment lists for the lifetime of its subscriptions and exposes the
// inventory use-cases. It is the only writer of assigned/available status
// transitions; every snapshot from the store replaces local state wholesale.
type Coordinator struct {
	equipmentStore  EquipmentStore
	assignmentStore AssignmentStore
	audit           AuditRecorder
	inTx            TxRunner
	logger          *zap.Logger

	mu         sync.RWMutex
	equipment  []models.Equipment
	active     []models.Assignment
	onSnapshot func(Snapshot)
}

func NewCoordinator(equipmentStore EquipmentStore, assignmentStore AssignmentStore, audit AuditRecorder, inTx TxRunner, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		equipmentStore:  equipmentStore,
		assignmentStore: assignmentStore,
		audit:           audit,
		inTx:            inTx,
		logger:          logger,
	}
}

// OnSnapshot registers the hook invoked after every state replacement.
// Must be set before Start.
func (c *Coordinator) OnSnapshot(fn func(Snapshot)) {
	c.onSnapshot = fn
}

// Start opens the live subscriptions. The returned stop func cancels both
// and is idempotent.
func (c *Coordinator) Start() func() {
	cancelEquipment := c.equipmentStore.Subscribe(c.replaceEquipment, c.subscriptionError)
	cancelAssignments := c.assignmentStore.SubscribeActive(c.replaceAssignments, c.subscriptionError)

	var once sync.Once
	return func() {
		once.Do(func() {
			cancelEquipment()
			cancelAssignments()
		})
	}
}

func (c *Coordinator) replaceEquipment(equipment []models.Equipment) {
	c.mu.Lock()
	c.equipment = equipment
	c.mu.Unlock()
	c.publishSnapshot()
}

func (c *Coordinator) replaceAssignments(assignments []models.Assignment) {
	c.mu.Lock()
	c.active = assignments
	c.mu.Unlock()
	c.publishSnapshot()
}

func (c *Coordinator) subscriptionError(err error) {
	c.logger.Error("inventory subscription error", zap.Error(err))
}

func (c *Coordinator) publishSnapshot() {
	if c.onSnapshot == nil {
		return
	}
	c.onSnapshot(c.CurrentSnapshot())
}

func (c *Coordinator) CurrentSnapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	equipment := make([]models.Equipment, len(c.equipment))
	copy(equipment, c.equipment)
	assignments := make([]models.Assignment, len(c.active))
	copy(assignments, c.active)

	return Snapshot{
		Equipment:   equipment,
		Assignments: assignments,
		Stats:       DeriveStats(equipment),
	}
}

// Equipment returns a copy of the current synced equipment list.
func (c *Coordinator) Equipment() []models.Equipment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list := make([]models.Equipment, len(c.equipment))
	copy(list, c.equipment)
	return list
}

// ActiveAssignments returns a copy of the current active assignment list.
func (c *Coordinator) ActiveAssignments() []models.Assignment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list := make([]models.Assignment, len(c.active))
	copy(list, c.active)
	return list
}

func (c *Coordinator) Stats() models.EquipmentStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return DeriveStats(c.equipment)
}

// Filtered derives the searched, filtered, sorted view of the synced list.
func (c *Coordinator) Filtered(searchTerm string, statusFilter string) []models.Equipment {
	return FilterAndSort(c.Equipment(), searchTerm, statusFilter)
}

// AddEquipment validates the draft, checks asset tag uniqueness and
// persists the new record. Validation and uniqueness failures happen
// before any write. The new item becomes visible through the subscription,
// not synchronously.
func (c *Coordinator) AddEquipment(draft models.Equipment, actor Actor) (int, error) {
	if draft.Status == "" {
		draft.Status = metadata.StatusAvailable
	}
	if draft.Status == metadata.StatusAssigned {
		return 0, custom_error.NewValidationError(map[string]string{
			"status": "New equipment cannot start out assigned; use the assign operation",
		})
	}
	if err := validateDraft(draft); err != nil {
		return 0, err
	}

	exists, err := c.equipmentStore.AssetTagExists(draft.AssetTag, 0)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, &custom_error.DuplicateAssetTagError{Tag: draft.AssetTag}
	}

	id, err := c.equipmentStore.Add(draft, actor.ID)
	if err != nil {
		return 0, err
	}

	draft.ID = id
	c.audit.Record("added", draft, actor.ID, actor.Name, nil, "")

	return id, nil
}

// EditEquipment diffs the update against the synced original, persists the
// full record and audits the field-level changes. Editing an item that has
// concurrently disappeared fails without writing.
func (c *Coordinator) EditEquipment(updated models.Equipment, actor Actor) error {
	original, ok := c.findEquipment(updated.ID)
	if !ok {
		return &custom_error.StaleReferenceError{ID: updated.ID}
	}

	if err := validateDraft(updated); err != nil {
		return err
	}

	// only the assign/return use-cases may move an item into assigned
	if updated.Status == metadata.StatusAssigned && original.Status != metadata.StatusAssigned {
		hasActive, err := c.assignmentStore.HasActive(updated.ID)
		if err != nil {
			return err
		}
		if !hasActive {
			return custom_error.NewValidationError(map[string]string{
				"status": "Status 'assigned' requires an active assignment; use the assign operation",
			})
		}
	}

	if updated.AssetTag != original.AssetTag {
		exists, err := c.equipmentStore.AssetTagExists(updated.AssetTag, updated.ID)
		if err != nil {
			return err
		}
		if exists {
			return &custom_error.DuplicateAssetTagError{Tag: updated.AssetTag}
		}
	}

	changes := DiffEquipment(original, updated)

	if err := c.equipmentStore.Update(updated.ID, updated, actor.ID); err != nil {
		return err
	}

	c.audit.Record("updated", updated, actor.ID, actor.Name, changes, "")

	return nil
}

// DeleteEquipment removes the record permanently. There is no existence
// re-check; deleting an id the backend no longer has surfaces as the
// repository's delete error.
func (c *Coordinator) DeleteEquipment(id int, actor Actor) error {
	target, ok := c.findEquipment(id)
	if !ok {
		target = models.Equipment{ID: id}
	}

	if err := c.equipmentStore.Delete(id); err != nil {
		return err
	}

	details := fmt.Sprintf("%s: %s %s", target.Type, target.Brand, target.Model)
	c.audit.Record("deleted", target, actor.ID, actor.Name, nil, details)

	return nil
}

// AssignEquipment creates the active assignment and moves the equipment to
// assigned in a single transaction, then audits best-effort.
func (c *Coordinator) AssignEquipment(equipmentID int, form AssignmentForm, actor Actor) (int, error) {
	eq, ok := c.findEquipment(equipmentID)
	if !ok {
		return 0, &custom_error.StaleReferenceError{ID: equipmentID}
	}

	if err := validateAssignmentForm(form, time.Now()); err != nil {
		return 0, err
	}

	hasActive, err := c.assignmentStore.HasActive(equipmentID)
	if err != nil {
		return 0, err
	}
	if hasActive || eq.Status == metadata.StatusAssigned {
		return 0, custom_error.NewValidationError(map[string]string{
			"equipmentId": "Equipment already has an active assignment",
		})
	}

	holder := models.Holder{
		UserName:   form.UserName,
		EmployeeID: form.EmployeeID,
		Department: form.Department,
	}

	var assignmentID int
	err = c.inTx(func(tx *goqu.TxDatabase) error {
		var txErr error
		assignmentID, txErr = c.assignmentStore.Insert(tx, models.Assignment{
			EquipmentID:        equipmentID,
			EquipmentAssetTag:  eq.AssetTag,
			UserID:             form.UserID,
			UserName:           form.UserName,
			EmployeeID:         form.EmployeeID,
			Department:         form.Department,
			ExpectedReturnDate: form.ExpectedReturnDate,
			Notes:              form.Notes,
			AssignedBy:         actor.ID,
			AssignedByName:     actor.Name,
		})
		if txErr != nil {
			return txErr
		}

		return c.equipmentStore.SetHolder(tx, equipmentID, holder, actor.ID)
	})
	if err != nil {
		return 0, err
	}

	eq.Status = metadata.StatusAssigned
	eq.AssignedTo = holder.UserName
	eq.EmployeeID = holder.EmployeeID
	eq.Department = holder.Department
	details := fmt.Sprintf("Assigned to %s (%s)", form.UserName, form.EmployeeID)
	c.audit.Record("assigned", eq, actor.ID, actor.Name, nil, details)

	return assignmentID, nil
}

// ReturnAssignment closes the active assignment and reverts the equipment
// to available with the holder fields cleared, in a single transaction.
// The returned assignment row keeps the holder identity as history.
func (c *Coordinator) ReturnAssignment(assignmentID int, notes string, actor Actor) error {
	assignment, ok := c.findActiveAssignment(assignmentID)
	if !ok {
		return &custom_error.StaleReferenceError{ID: assignmentID}
	}

	err := c.inTx(func(tx *goqu.TxDatabase) error {
		if err := c.assignmentStore.MarkReturned(tx, assignmentID, actor.Name, notes); err != nil {
			return err
		}
		return c.equipmentStore.ClearHolder(tx, assignment.EquipmentID, actor.ID)
	})
	if err != nil {
		return err
	}

	eq, ok := c.findEquipment(assignment.EquipmentID)
	if !ok {
		eq = models.Equipment{ID: assignment.EquipmentID, AssetTag: assignment.EquipmentAssetTag}
	}
	eq.Status = metadata.StatusAvailable
	eq.AssignedTo = ""
	eq.EmployeeID = ""
	eq.Department = ""
	details := fmt.Sprintf("Returned by %s", assignment.UserName)
	c.audit.Record("returned", eq, actor.ID, actor.Name, nil, details)

	return nil
}

func (c *Coordinator) findEquipment(id int) (models.Equipment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.equipment {
		if item.ID == id {
			return item, true
		}
	}
	return models.Equipment{}, false
}

func (c *Coordinator) findActiveAssignment(id int) (models.Assignment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.active {
		if item.ID == id {
			return item, true
		}
	}
	return models.Assignment{}, false
}
