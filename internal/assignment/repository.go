package assignment

import (
	"fmt"
	"sync"

	"github.com/cjsachs/Management-Inventory-System/internal/repository"
	"github.com/cjsachs/Management-Inventory-System/internal/store"
	custom_error "github.com/cjsachs/Management-Inventory-System/pkg/errors"
	"github.com/cjsachs/Management-Inventory-System/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

const table = "assignments"

type AssignmentRepository struct {
	repository *repository.Repository
	notifier   *store.Notifier
}

func NewRepository(r *repository.Repository, notifier *store.Notifier) *AssignmentRepository {
	return &AssignmentRepository{
		repository: r,
		notifier:   notifier,
	}
}

// Insert persists a new assignment. Status is forced to active and the
// assigned date to server-now regardless of caller input. Optional fields
// are only written when present. Runs inside the assign transaction when tx
// is given.
func (r *AssignmentRepository) Insert(tx *goqu.TxDatabase, a models.Assignment) (int, error) {
	record := goqu.Record{
		"equipment_id":        a.EquipmentID,
		"equipment_asset_tag": a.EquipmentAssetTag,
		"user_id":             a.UserID,
		"user_name":           a.UserName,
		"employee_id":         a.EmployeeID,
		"department":          a.Department,
		"assigned_date":       goqu.L("now()"),
		"status":              string(models.AssignmentActive),
		"assigned_by":         a.AssignedBy,
		"assigned_by_name":    a.AssignedByName,
	}
	if a.ExpectedReturnDate != nil {
		record["expected_return_date"] = *a.ExpectedReturnDate
	}
	if a.Notes != "" {
		record["notes"] = a.Notes
	}

	var id int
	var err error
	if tx != nil {
		_, err = tx.Insert(table).Rows(record).Returning("id").Executor().ScanVal(&id)
	} else {
		_, err = r.repository.GoquDBWrapper.Insert(table).Rows(record).Returning("id").Executor().ScanVal(&id)
	}
	if err != nil {
		return 0, &custom_error.WriteError{Entity: "assignment", Op: "create", Err: err}
	}

	return id, nil
}

// MarkReturned transitions an active assignment to returned.
func (r *AssignmentRepository) MarkReturned(tx *goqu.TxDatabase, id int, returnedBy string, notes string) error {
	record := goqu.Record{
		"status":             string(models.AssignmentReturned),
		"actual_return_date": goqu.L("now()"),
		"returned_by":        returnedBy,
	}
	if notes != "" {
		record["notes"] = notes
	}

	query := r.repository.GoquDBWrapper.Update(table)
	if tx != nil {
		query = tx.Update(table)
	}

	result, err := query.Set(record).
		Where(goqu.Ex{
			"id":     id,
			"status": string(models.AssignmentActive),
		}).
		Executor().
		Exec()
	if err != nil {
		return &custom_error.WriteError{Entity: "assignment", Op: "return", Err: err}
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return &custom_error.WriteError{Entity: "assignment", Op: "return", Err: err}
	}
	if rowsAffected == 0 {
		return &custom_error.WriteError{Entity: "assignment", Op: "return", Err: fmt.Errorf("no active assignment with id %d", id)}
	}

	return nil
}

// SubscribeActive delivers the full active set, newest assignment first, on
// every change.
func (r *AssignmentRepository) SubscribeActive(onChange func([]models.Assignment), onError func(error)) func() {
	return r.subscribe(onChange, onError, true)
}

// SubscribeAll delivers the complete assignment history on every change.
func (r *AssignmentRepository) SubscribeAll(onChange func([]models.Assignment), onError func(error)) func() {
	return r.subscribe(onChange, onError, false)
}

func (r *AssignmentRepository) subscribe(onChange func([]models.Assignment), onError func(error), activeOnly bool) func() {
	ticks, cancelTicks := r.notifier.Subscribe(table)
	done := make(chan struct{})

	deliver := func() {
		var list []models.Assignment
		var err error
		if activeOnly {
			list, err = r.getActive()
		} else {
			list, err = r.getAll()
		}
		if err != nil {
			onError(err)
			return
		}
		onChange(list)
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

func (r *AssignmentRepository) getActive() ([]models.Assignment, error) {
	return r.scanList(r.selectQuery().
		Where(goqu.Ex{"status": string(models.AssignmentActive)}).
		Order(goqu.I("assigned_date").Desc()))
}

func (r *AssignmentRepository) getAll() ([]models.Assignment, error) {
	return r.scanList(r.selectQuery().Order(goqu.I("assigned_date").Desc()))
}

func (r *AssignmentRepository) GetByEquipment(equipmentID int) ([]models.Assignment, error) {
	return r.scanList(r.selectQuery().
		Where(goqu.Ex{"equipment_id": equipmentID}).
		Order(goqu.I("assigned_date").Desc()))
}

func (r *AssignmentRepository) GetByUser(userID string) ([]models.Assignment, error) {
	return r.scanList(r.selectQuery().
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("assigned_date").Desc()))
}

// HasActive reports whether the equipment currently has an active
// assignment. Policy on what to do with the answer stays with the caller.
func (r *AssignmentRepository) HasActive(equipmentID int) (bool, error) {
	var count int
	query := r.repository.GoquDBWrapper.Select(goqu.COUNT("id")).
		From(table).
		Where(goqu.Ex{
			"equipment_id": equipmentID,
			"status":       string(models.AssignmentActive),
		})

	if _, err := query.Executor().ScanVal(&count); err != nil {
		return false, &custom_error.QueryError{Entity: "assignment", Err: err}
	}

	return count > 0, nil
}

func (r *AssignmentRepository) scanList(query *goqu.SelectDataset) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := query.Executor().ScanStructs(&assignments); err != nil {
		return nil, &custom_error.QueryError{Entity: "assignment", Err: err}
	}
	return assignments, nil
}

func (r *AssignmentRepository) selectQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.Select(
		"id",
		"equipment_id",
		"equipment_asset_tag",
		"user_id",
		"user_name",
		"employee_id",
		"department",
		"assigned_date",
		"expected_return_date",
		"actual_return_date",
		"status",
		"notes",
		"assigned_by",
		"assigned_by_name",
		"returned_by",
	).From(table)
}
