package auditlog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cjsachs/Management-Inventory-System/pkg/models"
)

// fieldLabels maps trackable equipment fields to their display names.
// Unknown fields fall back to the raw field name.
var fieldLabels = map[string]string{
	"assetTag":     "Asset Tag",
	"type":         "Type",
	"brand":        "Brand",
	"model":        "Model",
	"processor":    "Processor",
	"serialNumber": "Serial Number",
	"status":       "Status",
	"assignedTo":   "Assigned To",
	"employeeId":   "Employee ID",
	"department":   "Department",
	"location":     "Location",
	"purchaseCost": "Purchase Cost",
	"notes":        "Notes",
}

// SummarizeChanges renders a multi-line, human-readable diff.
func SummarizeChanges(changes map[string]models.FieldChange) string {
	if changes == nil {
		return "No changes detected"
	}

	fields := make([]string, 0, len(changes))
	for field := range changes {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	lines := make([]string, 0, len(fields))
	for _, field := range fields {
		label, ok := fieldLabels[field]
		if !ok {
			label = field
		}
		change := changes[field]
		lines = append(lines, fmt.Sprintf("%s changed from %q to %q", label, renderValue(change.From), renderValue(change.To)))
	}

	return strings.Join(lines, "\n")
}

// FormatLogMessage renders a one-line description of a log entry.
func FormatLogMessage(log models.ActivityLog) string {
	actionMessages := map[string]string{
		"added":    "Added equipment " + log.EntityName,
		"updated":  "Updated equipment " + log.EntityName,
		"deleted":  "Deleted equipment " + log.EntityName,
		"assigned": "Assigned equipment " + log.EntityName,
		"returned": "Returned equipment " + log.EntityName,
	}

	message, ok := actionMessages[log.Action]
	if !ok {
		message = log.Action
	}

	return log.PerformedByName + " " + message
}

func renderValue(v interface{}) string {
	if v == nil {
		return "N/A"
	}
	s := fmt.Sprintf("%v", v)
	if s == "" {
		return "N/A"
	}
	return s
}
