package inventory

import (
	"regexp"
	"time"

	custom_error "github.com/cjsachs/Management-Inventory-System/pkg/errors"
	"github.com/cjsachs/Management-Inventory-System/pkg/metadata"
	"github.com/cjsachs/Management-Inventory-System/pkg/models"
)

var assetTagPattern = regexp.MustCompile(`^[A-Z]+-\d{4}-\w{3}$`)

const assetTagFormatMessage = "Asset Tag format should be PREFIX-YYYY-XXX (ex: IT-2025-001)"

// AssignmentForm carries the user intent for assigning one equipment item.
type AssignmentForm struct {
	UserID             string     `json:"userId"`
	UserName           string     `json:"userName"`
	EmployeeID         string     `json:"employeeId"`
	Department         string     `json:"department"`
	ExpectedReturnDate *time.Time `json:"expectedReturnDate,omitempty"`
	Notes              string     `json:"notes,omitempty"`
}

// validateDraft runs the pre-write field checks. It never touches the store.
func validateDraft(eq models.Equipment) error {
	fields := make(map[string]string)

	if eq.AssetTag == "" {
		fields["assetTag"] = "Asset Tag is required"
	} else if !assetTagPattern.MatchString(eq.AssetTag) {
		fields["assetTag"] = assetTagFormatMessage
	}

	if eq.SerialNumber == "" {
		fields["serialNumber"] = "Serial Number is required"
	}
	if eq.Brand == "" {
		fields["brand"] = "Brand is required"
	}

	if _, err := metadata.NewEquipmentType(eq.Type.String()); err != nil {
		fields["type"] = "Unknown equipment type"
	}
	if _, err := metadata.NewStatus(eq.Status.String()); err != nil {
		fields["status"] = "Unknown status"
	}

	if eq.PurchaseCost < 0 {
		fields["purchaseCost"] = "Purchase Cost must be a positive number"
	}

	if len(fields) > 0 {
		return custom_error.NewValidationError(fields)
	}
	return nil
}

func validateAssignmentForm(form AssignmentForm, now time.Time) error {
	fields := make(map[string]string)

	if form.UserName == "" {
		fields["userName"] = "Employee name is required"
	}
	if form.EmployeeID == "" {
		fields["employeeId"] = "Employee ID is required"
	}
	if form.ExpectedReturnDate != nil && form.ExpectedReturnDate.Before(now) {
		fields["expectedReturnDate"] = "Expected return date cannot be in the past"
	}

	if len(fields) > 0 {
		return custom_error.NewValidationError(fields)
	}
	return nil
}
