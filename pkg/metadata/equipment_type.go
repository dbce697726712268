package metadata

import "fmt"

type EquipmentType string

const (
	TypeLaptop   EquipmentType = "Laptop"
	TypeDesktop  EquipmentType = "Desktop"
	TypeTablet   EquipmentType = "Tablet"
	TypePhone    EquipmentType = "Phone"
	TypeKeyboard EquipmentType = "Keyboard"
	TypeMouse    EquipmentType = "Mouse"
	TypePrinter  EquipmentType = "Printer"
)

func NewEquipmentType(value string) (EquipmentType, error) {
	t := EquipmentType(value)
	if !t.isValid() {
		return "", fmt.Errorf("invalid equipment type: %s", value)
	}
	return t, nil
}

func (t EquipmentType) isValid() bool {
	switch t {
	case TypeLaptop, TypeDesktop, TypeTablet, TypePhone, TypeKeyboard, TypeMouse, TypePrinter:
		return true
	default:
		return false
	}
}

func (t EquipmentType) String() string {
	return string(t)
}
