package equipment

import (
	"fmt"
	"sync"

	"github.com/cjsachs/Management-Inventory-System/internal/repository"
	"github.com/cjsachs/Management-Inventory-System/internal/store"
	custom_error "github.com/cjsachs/Management-Inventory-System/pkg/errors"
	"github.com/cjsachs/Management-Inventory-System/pkg/metadata"
	"github.com/cjsachs/Management-Inventory-System/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

const table = "equipment"

type EquipmentRepository struct {
	repository *repository.Repository
	notifier   *store.Notifier
}

func NewRepository(r *repository.Repository, notifier *store.Notifier) *EquipmentRepository {
	return &EquipmentRepository{
		repository: r,
		notifier:   notifier,
	}
}

// Subscribe opens a live view over the equipment collection. The full current
// result set is delivered on every change, newest first. The returned cancel
// func is idempotent.
func (r *EquipmentRepository) Subscribe(onChange func([]models.Equipment), onError func(error)) func() {
	ticks, cancelTicks := r.notifier.Subscribe(table)
	done := make(chan struct{})

	go func() {
		r.deliver(onChange, onError)
		for {
			select {
			case <-done:
				return
			case <-ticks:
				r.deliver(onChange, onError)
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

func (r *EquipmentRepository) deliver(onChange func([]models.Equipment), onError func(error)) {
	list, err := r.GetAll()
	if err != nil {
		onError(err)
		return
	}
	onChange(list)
}

func (r *EquipmentRepository) GetAll() ([]models.Equipment, error) {
	query := r.selectQuery().Order(goqu.I("created_at").Desc())

	var equipment []models.Equipment
	if err := query.Executor().ScanStructs(&equipment); err != nil {
		return nil, &custom_error.ReadError{Entity: "equipment", Err: err}
	}

	return equipment, nil
}

func (r *EquipmentRepository) GetByID(id int) (*models.Equipment, error) {
	var eq models.Equipment
	found, err := r.selectQuery().Where(goqu.Ex{"id": id}).Executor().ScanStruct(&eq)
	if err != nil {
		return nil, &custom_error.ReadError{Entity: "equipment", Err: err}
	}
	if !found {
		return nil, nil
	}

	return &eq, nil
}

func (r *EquipmentRepository) GetByStatus(status metadata.Status) ([]models.Equipment, error) {
	query := r.selectQuery().
		Where(goqu.Ex{"status": status.String()}).
		Order(goqu.I("created_at").Desc())

	var equipment []models.Equipment
	if err := query.Executor().ScanStructs(&equipment); err != nil {
		return nil, &custom_error.QueryError{Entity: "equipment", Err: err}
	}

	return equipment, nil
}

// GetByEmployee returns the equipment an employee currently holds.
func (r *EquipmentRepository) GetByEmployee(employeeID string) ([]models.Equipment, error) {
	query := r.selectQuery().
		Where(goqu.Ex{
			"employee_id": employeeID,
			"status":      metadata.StatusAssigned.String(),
		}).
		Order(goqu.I("created_at").Desc())

	var equipment []models.Equipment
	if err := query.Executor().ScanStructs(&equipment); err != nil {
		return nil, &custom_error.QueryError{Entity: "equipment", Err: err}
	}

	return equipment, nil
}

// Add persists a new equipment record and returns the store-assigned id.
// Creation and update metadata are stamped here; uniqueness of the asset tag
// is the caller's pre-check, the constraint is only the last line of defense.
func (r *EquipmentRepository) Add(eq models.Equipment, actorID int) (int, error) {
	record := r.fieldRecord(eq)
	record["created_by"] = actorID
	record["updated_by"] = actorID

	var id int
	query := r.repository.GoquDBWrapper.Insert(table).
		Rows(record).
		Returning("id")

	if _, err := query.Executor().ScanVal(&id); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return 0, custom_error.WrapDBError("duplicate value for equipment", string(pqErr.Code))
		}
		return 0, &custom_error.WriteError{Entity: "equipment", Op: "create", Err: err}
	}

	return id, nil
}

// Update merges the full field set of eq into the stored record. The id is
// never part of the update payload.
func (r *EquipmentRepository) Update(id int, eq models.Equipment, actorID int) error {
	record := r.fieldRecord(eq)
	record["updated_by"] = actorID
	record["updated_at"] = goqu.L("now()")

	result, err := r.repository.GoquDBWrapper.Update(table).
		Set(record).
		Where(goqu.Ex{"id": id}).
		Executor().
		Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("duplicate value for equipment", string(pqErr.Code))
		}
		return &custom_error.WriteError{Entity: "equipment", Op: "update", Err: err}
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return &custom_error.WriteError{Entity: "equipment", Op: "update", Err: err}
	}
	if rowsAffected == 0 {
		return &custom_error.WriteError{Entity: "equipment", Op: "update", Err: fmt.Errorf("no equipment found with id %d", id)}
	}

	return nil
}

// Delete removes the record permanently. There is no tombstone.
func (r *EquipmentRepository) Delete(id int) error {
	result, err := r.repository.GoquDBWrapper.Delete(table).
		Where(goqu.Ex{"id": id}).
		Executor().
		Exec()
	if err != nil {
		return &custom_error.WriteError{Entity: "equipment", Op: "delete", Err: err}
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return &custom_error.WriteError{Entity: "equipment", Op: "delete", Err: err}
	}
	if rowsAffected == 0 {
		return &custom_error.WriteError{Entity: "equipment", Op: "delete", Err: fmt.Errorf("no equipment found with id %d", id)}
	}

	return nil
}

// AssetTagExists reports whether the tag is taken. excludeID skips one record
// so an edit does not collide with the item itself; pass 0 to check all.
func (r *EquipmentRepository) AssetTagExists(tag string, excludeID int) (bool, error) {
	conditions := goqu.Ex{"asset_tag": tag}
	query := r.repository.GoquDBWrapper.Select(goqu.COUNT("id")).
		From(table).
		Where(conditions)
	if excludeID != 0 {
		query = query.Where(goqu.C("id").Neq(excludeID))
	}

	var count int
	if _, err := query.Executor().ScanVal(&count); err != nil {
		return false, &custom_error.QueryError{Entity: "equipment", Err: err}
	}

	return count > 0, nil
}

// SetHolder marks the equipment assigned to the given holder. Runs inside the
// assign transaction; tx is required.
func (r *EquipmentRepository) SetHolder(tx *goqu.TxDatabase, id int, holder models.Holder, actorID int) error {
	if tx == nil {
		return fmt.Errorf("transaction is required for SetHolder")
	}

	return r.applyStatusUpdate(tx, id, goqu.Record{
		"status":      metadata.StatusAssigned.String(),
		"assigned_to": holder.UserName,
		"employee_id": holder.EmployeeID,
		"department":  holder.Department,
		"updated_by":  actorID,
		"updated_at":  goqu.L("now()"),
	})
}

// ClearHolder reverts the equipment to available and drops the holder
// fields; the assignment history keeps the holder identity. Runs inside the
// return transaction; tx is required.
func (r *EquipmentRepository) ClearHolder(tx *goqu.TxDatabase, id int, actorID int) error {
	if tx == nil {
		return fmt.Errorf("transaction is required for ClearHolder")
	}

	return r.applyStatusUpdate(tx, id, goqu.Record{
		"status":      metadata.StatusAvailable.String(),
		"assigned_to": "",
		"employee_id": "",
		"department":  "",
		"updated_by":  actorID,
		"updated_at":  goqu.L("now()"),
	})
}

func (r *EquipmentRepository) applyStatusUpdate(tx *goqu.TxDatabase, id int, record goqu.Record) error {
	result, err := tx.Update(table).
		Set(record).
		Where(goqu.Ex{"id": id}).
		Executor().
		Exec()
	if err != nil {
		return &custom_error.WriteError{Entity: "equipment", Op: "update", Err: err}
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return &custom_error.WriteError{Entity: "equipment", Op: "update", Err: err}
	}
	if rowsAffected == 0 {
		return &custom_error.WriteError{Entity: "equipment", Op: "update", Err: fmt.Errorf("no equipment found with id %d", id)}
	}

	return nil
}

func (r *EquipmentRepository) fieldRecord(eq models.Equipment) goqu.Record {
	return goqu.Record{
		"asset_tag":     eq.AssetTag,
		"type":          eq.Type.String(),
		"brand":         eq.Brand,
		"model":         eq.Model,
		"processor":     eq.Processor,
		"serial_number": eq.SerialNumber,
		"status":        eq.Status.String(),
		"assigned_to":   eq.AssignedTo,
		"employee_id":   eq.EmployeeID,
		"department":    eq.Department,
		"location":      eq.Location,
		"purchase_cost": eq.PurchaseCost,
		"notes":         eq.Notes,
	}
}

func (r *EquipmentRepository) selectQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.Select(
		"id",
		"asset_tag",
		"type",
		"brand",
		"model",
		"processor",
		"serial_number",
		"status",
		"assigned_to",
		"employee_id",
		"department",
		"location",
		"purchase_cost",
		"notes",
		"created_at",
		"updated_at",
	).From(table)
}
