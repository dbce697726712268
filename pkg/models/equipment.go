package models

import (
	"time"

	"github.com/cjsachs/Management-Inventory-System/pkg/metadata"
)

type Equipment struct {
	ID           int                    `json:"id" db:"id"`
	AssetTag     string                 `json:"assetTag" db:"asset_tag"`
	Type         metadata.EquipmentType `json:"type" db:"type"`
	Brand        string                 `json:"brand" db:"brand"`
	Model        string                 `json:"model" db:"model"`
	Processor    string                 `json:"processor" db:"processor"`
	SerialNumber string                 `json:"serialNumber" db:"serial_number"`
	Status       metadata.Status        `json:"status" db:"status"`
	AssignedTo   string                 `json:"assignedTo" db:"assigned_to"`
	EmployeeID   string                 `json:"employeeId" db:"employee_id"`
	Department   string                 `json:"department" db:"department"`
	Location     string                 `json:"location" db:"location"`
	PurchaseCost float64                `json:"purchaseCost" db:"purchase_cost"`
	Notes        string                 `json:"notes" db:"notes"`
	CreatedAt    time.Time              `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time              `json:"updatedAt" db:"updated_at"`
	CreatedBy    int                    `json:"-" db:"created_by"`
	UpdatedBy    int                    `json:"-" db:"updated_by"`
}

type EquipmentStats struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	Assigned    int `json:"assigned"`
	Maintenance int `json:"maintenance"`
}

// Holder identifies the employee receiving a piece of equipment.
type Holder struct {
	UserName   string `json:"userName"`
	EmployeeID string `json:"employeeId"`
	Department string `json:"department"`
}

func (e *Equipment) CreateLogView() ActivityLog {
	return ActivityLog{
		EntityType: "equipment",
		EntityID:   e.ID,
		EntityName: e.AssetTag,
	}
}
