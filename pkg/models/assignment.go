package models

import "time"

type AssignmentStatus string

const (
	AssignmentActive   AssignmentStatus = "active"
	AssignmentReturned AssignmentStatus = "returned"
)

type Assignment struct {
	ID                 int              `json:"id" db:"id"`
	EquipmentID        int              `json:"equipmentId" db:"equipment_id"`
	EquipmentAssetTag  string           `json:"equipmentAssetTag" db:"equipment_asset_tag"`
	UserID             string           `json:"userId" db:"user_id"`
	UserName           string           `json:"userName" db:"user_name"`
	EmployeeID         string           `json:"employeeId" db:"employee_id"`
	Department         string           `json:"department" db:"department"`
	AssignedDate       time.Time        `json:"assignedDate" db:"assigned_date"`
	ExpectedReturnDate *time.Time       `json:"expectedReturnDate,omitempty" db:"expected_return_date"`
	ActualReturnDate   *time.Time       `json:"actualReturnDate,omitempty" db:"actual_return_date"`
	Status             AssignmentStatus `json:"status" db:"status"`
	Notes              string           `json:"notes,omitempty" db:"notes"`
	AssignedBy         int              `json:"assignedBy" db:"assigned_by"`
	AssignedByName     string           `json:"assignedByName" db:"assigned_by_name"`
	ReturnedBy         string           `json:"returnedBy,omitempty" db:"returned_by"`
}

func (a *Assignment) CreateLogView() ActivityLog {
	return ActivityLog{
		EntityType: "assignment",
		EntityID:   a.ID,
		EntityName: a.EquipmentAssetTag,
	}
}
