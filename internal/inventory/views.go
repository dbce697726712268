package inventory

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cjsachs/Management-Inventory-System/pkg/metadata"
	"github.com/cjsachs/Management-Inventory-System/pkg/models"
)

// DeriveStats counts equipment by status. Retired items count toward the
// total but have no dedicated counter.
func DeriveStats(equipment []models.Equipment) models.EquipmentStats {
	stats := models.EquipmentStats{Total: len(equipment)}
	for _, item := range equipment {
		switch item.Status {
		case metadata.StatusAvailable:
			stats.Available++
		case metadata.StatusAssigned:
			stats.Assigned++
		case metadata.StatusMaintenance:
			stats.Maintenance++
		}
	}
	return stats
}

// FilterAndSort applies the search term and status filter, then orders by
// the numeric suffix of the asset tag, highest first. The search is a
// case-insensitive substring match over every searchable field; the filters
// combine with AND. statusFilter accepts the "all" sentinel (or empty).
func FilterAndSort(equipment []models.Equipment, searchTerm string, statusFilter string) []models.Equipment {
	term := strings.ToLower(strings.TrimSpace(searchTerm))

	filtered := make([]models.Equipment, 0, len(equipment))
	for _, item := range equipment {
		if !matchesSearch(item, term) {
			continue
		}
		if statusFilter != "" && statusFilter != metadata.StatusFilterAll && item.Status.String() != statusFilter {
			continue
		}
		filtered = append(filtered, item)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		left, right := tagSuffix(filtered[i].AssetTag), tagSuffix(filtered[j].AssetTag)
		if left != right {
			return left > right
		}
		return filtered[i].AssetTag > filtered[j].AssetTag
	})

	return filtered
}

func matchesSearch(item models.Equipment, term string) bool {
	if term == "" {
		return true
	}
	for _, field := range []string{
		item.AssetTag,
		item.SerialNumber,
		item.Brand,
		item.Model,
		item.Processor,
		item.AssignedTo,
		item.Department,
		item.Location,
	} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// tagSuffix parses the integer after the final '-' of an asset tag. Tags
// without a numeric suffix sort below every numeric one.
func tagSuffix(tag string) int {
	idx := strings.LastIndex(tag, "-")
	if idx < 0 || idx == len(tag)-1 {
		return -1
	}
	n, err := strconv.Atoi(tag[idx+1:])
	if err != nil {
		return -1
	}
	return n
}

const costTolerance = 1e-9

// DiffEquipment compares an enumerated list of trackable fields and returns
// the before/after map for those that differ.
func DiffEquipment(before, after models.Equipment) map[string]models.FieldChange {
	changes := make(map[string]models.FieldChange)

	stringFields := []struct {
		name     string
		from, to string
	}{
		{"assetTag", before.AssetTag, after.AssetTag},
		{"type", before.Type.String(), after.Type.String()},
		{"brand", before.Brand, after.Brand},
		{"model", before.Model, after.Model},
		{"processor", before.Processor, after.Processor},
		{"serialNumber", before.SerialNumber, after.SerialNumber},
		{"status", before.Status.String(), after.Status.String()},
		{"assignedTo", before.AssignedTo, after.AssignedTo},
		{"employeeId", before.EmployeeID, after.EmployeeID},
		{"department", before.Department, after.Department},
		{"location", before.Location, after.Location},
		{"notes", before.Notes, after.Notes},
	}
	for _, field := range stringFields {
		if field.from != field.to {
			changes[field.name] = models.FieldChange{From: field.from, To: field.to}
		}
	}

	if math.Abs(before.PurchaseCost-after.PurchaseCost) > costTolerance {
		changes["purchaseCost"] = models.FieldChange{From: before.PurchaseCost, To: after.PurchaseCost}
	}

	return changes
}
