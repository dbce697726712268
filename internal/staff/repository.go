package staff

import (
	"fmt"

	"github.com/cjsachs/Management-Inventory-System/internal/repository"
	"github.com/cjsachs/Management-Inventory-System/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type StaffRepository interface {
	PersistStaff(req models.CreateStaffRequest, hashedPassword []byte) error
	GetStaff(id int) (*models.StaffUser, error)
	GetStaffList() ([]models.StaffUser, error)
	StampLastLogin(id int) error
}

type staffRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) StaffRepository {
	return &staffRepositoryImpl{repository: r}
}

func (r *staffRepositoryImpl) PersistStaff(req models.CreateStaffRequest, hashedPassword []byte) error {
	role := req.Role
	if role == "" {
		role = "staff"
	}

	query := r.repository.GoquDBWrapper.Insert("it_staff").
		Rows(goqu.Record{
			"email":         req.Email,
			"name":          req.Name,
			"password_hash": string(hashedPassword),
			"role":          role,
			"permissions":   pq.StringArray(req.Permissions),
		})

	_, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to insert staff member: %w", err)
	}

	return nil
}

func (r *staffRepositoryImpl) GetStaff(id int) (*models.StaffUser, error) {
	var staff models.StaffUser
	query := r.repository.GoquDBWrapper.
		Select("id", "email", "name", "role", "permissions", "created_at", "last_login").
		From("it_staff").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&staff)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("staff member %d not found", id)
	}

	return &staff, nil
}

func (r *staffRepositoryImpl) GetStaffList() ([]models.StaffUser, error) {
	var staff []models.StaffUser
	query := r.repository.GoquDBWrapper.
		Select("id", "email", "name", "role", "permissions", "created_at", "last_login").
		From("it_staff").
		Order(goqu.I("name").Asc())

	if err := query.Executor().ScanStructs(&staff); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return staff, nil
}

func (r *staffRepositoryImpl) StampLastLogin(id int) error {
	query := r.repository.GoquDBWrapper.Update("it_staff").
		Set(goqu.Record{"last_login": goqu.L("now()")}).
		Where(goqu.Ex{"id": id})

	_, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to stamp last login: %w", err)
	}

	return nil
}
