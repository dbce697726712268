package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStatus(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    Status
		wantErr bool
	}{
		{"available", "available", StatusAvailable, false},
		{"assigned", "assigned", StatusAssigned, false},
		{"maintenance", "maintenance", StatusMaintenance, false},
		{"retired", "retired", StatusRetired, false},
		{"filter sentinel is not a status", "all", "", true},
		{"unknown", "in_stock", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewStatus(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewEquipmentType(t *testing.T) {
	for _, valid := range []string{"Laptop", "Desktop", "Tablet", "Phone", "Keyboard", "Mouse", "Printer"} {
		got, err := NewEquipmentType(valid)
		assert.NoError(t, err)
		assert.Equal(t, valid, got.String())
	}

	_, err := NewEquipmentType("laptop")
	assert.Error(t, err, "types are case sensitive")

	_, err = NewEquipmentType("Server")
	assert.Error(t, err)
}
