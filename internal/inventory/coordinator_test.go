package inventory

import (
	"errors"
	"testing"
	"time"

	custom_error "github.com/cjsachs/Management-Inventory-System/pkg/errors"
	"github.com/cjsachs/Management-Inventory-System/pkg/metadata"
	"github.com/cjsachs/Management-Inventory-System/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockEquipmentStore struct {
	mock.Mock
}

func (m *MockEquipmentStore) Subscribe(onChange func([]models.Equipment), onError func(error)) func() {
	return func() {}
}

func (m *MockEquipmentStore) Add(eq models.Equipment, actorID int) (int, error) {
	args := m.Called(eq, actorID)
	return args.Int(0), args.Error(1)
}

func (m *MockEquipmentStore) Update(id int, eq models.Equipment, actorID int) error {
	args := m.Called(id, eq, actorID)
	return args.Error(0)
}

func (m *MockEquipmentStore) Delete(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockEquipmentStore) AssetTagExists(tag string, excludeID int) (bool, error) {
	args := m.Called(tag, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEquipmentStore) SetHolder(tx *goqu.TxDatabase, id int, holder models.Holder, actorID int) error {
	args := m.Called(tx, id, holder, actorID)
	return args.Error(0)
}

func (m *MockEquipmentStore) ClearHolder(tx *goqu.TxDatabase, id int, actorID int) error {
	args := m.Called(tx, id, actorID)
	return args.Error(0)
}

type MockAssignmentStore struct {
	mock.Mock
}

func (m *MockAssignmentStore) SubscribeActive(onChange func([]models.Assignment), onError func(error)) func() {
	return func() {}
}

func (m *MockAssignmentStore) Insert(tx *goqu.TxDatabase, a models.Assignment) (int, error) {
	args := m.Called(tx, a)
	return args.Int(0), args.Error(1)
}

func (m *MockAssignmentStore) MarkReturned(tx *goqu.TxDatabase, id int, returnedBy string, notes string) error {
	args := m.Called(tx, id, returnedBy, notes)
	return args.Error(0)
}

func (m *MockAssignmentStore) HasActive(equipmentID int) (bool, error) {
	args := m.Called(equipmentID)
	return args.Bool(0), args.Error(1)
}

type auditCall struct {
	Action    string
	Equipment models.Equipment
	ActorID   int
	ActorName string
	Changes   map[string]models.FieldChange
	Details   string
}

type recordingAudit struct {
	calls []auditCall
}

func (r *recordingAudit) Record(action string, equipment models.Equipment, actorID int, actorName string, changes map[string]models.FieldChange, details string) {
	r.calls = append(r.calls, auditCall{action, equipment, actorID, actorName, changes, details})
}

func newTestCoordinator(equipmentStore *MockEquipmentStore, assignmentStore *MockAssignmentStore, audit *recordingAudit) *Coordinator {
	inTx := func(fn func(tx *goqu.TxDatabase) error) error {
		return fn(nil)
	}
	return NewCoordinator(equipmentStore, assignmentStore, audit, inTx, zap.NewNop())
}

func validDraft() models.Equipment {
	return models.Equipment{
		AssetTag:     "IT-2025-001",
		Type:         metadata.TypeLaptop,
		Brand:        "Dell",
		Model:        "XPS 13",
		SerialNumber: "SN-001",
		PurchaseCost: 1200,
	}
}

var testActor = Actor{ID: 7, Name: "Admin User"}

func TestAddEquipmentDefaultsToAvailable(t *testing.T) {
	equipmentStore := new(MockEquipmentStore)
	assignmentStore := new(MockAssignmentStore)
	audit := &recordingAudit{}
	coordinator := newTestCoordinator(equipmentStore, assignmentStore, audit)

	draft := validDraft()
	persisted := draft
	persisted.Status = metadata.StatusAvailable

	equipmentStore.On("AssetTagExists", "IT-2025-001", 0).Return(false, nil).Once()
	equipmentStore.On("Add", persisted, testActor.ID).Return(42, nil).Once()

	id, err := coordinator.AddEquipment(draft, testActor)

	assert.NoError(t, err)
	assert.Equal(t, 42, id)
	equipmentStore.AssertExpectations(t)

	assert.Len(t, audit.calls, 1)
	assert.Equal(t, "added", audit.calls[0].Action)
	assert.Equal(t, 42, audit.calls[0].Equipment.ID)
	assert.Equal(t, "Admin User", audit.calls[0].ActorName)
}

func TestAddEquipmentDuplicateTagWritesNothing(t *testing.T) {
	equipmentStore := new(MockEquipmentStore)
	assignmentStore := new(MockAssignmentStore)
	audit := &recordingAudit{}
	coordinator := newTestCoordinator(equipmentStore, assignmentStore, audit)

	equipmentStore.On("AssetTagExists", "IT-2025-001", 0).Return(true, nil).Once()

	_, err := coordinator.AddEquipment(validDraft(), testActor)

	var duplicateErr *custom_error.DuplicateAssetTagError
	assert.ErrorAs(t, err, &duplicateErr)
	assert.Equal(t, "IT-2025-001", duplicateErr.Tag)
	equipmentStore.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	assert.Empty(t, audit.calls)
}

func TestAddEquipmentMalformedTag(t *testing.T) {
	equipmentStore := new(MockEquipmentStore)
	assignmentStore := new(MockAssignmentStore)
	audit := &recordingAudit{}
	coordinator := newTestCoordinator(equipmentStore, assignmentStore, audit)

	draft := validDraft()
	draft.AssetTag = "it-25-1"

	_, err := coordinator.AddEquipment(draft, testActor)

	var validationErr *custom_error.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Asset Tag format should be PREFIX-YYYY-XXX (ex: IT-2025-001)", validationErr.Fields["assetTag"])
	equipmentStore.AssertNotCalled(t, "AssetTagExists", mock.Anything, mock.Anything)
	equipmentStore.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestAddEquipmentRejectsAssignedStatus(t *testing.T) {
	equipmentStore := new(MockEquipmentStore)
	assignmentStore := new(MockAssignmentStore)
	audit := &recordingAudit{}
	coordinator := newTestCoordinator(equipmentStore, assignmentStore, audit)

	draft := validDraft()
	draft.Status = metadata.StatusAssigned

	_, err := coordinator.AddEquipment(draft, testActor)

	var validationErr *custom_error.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	equipmentStore.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestEditEquipmentStaleReference(t *testing.T) {
	equipmentStore := new(MockEquipmentStore)
	assignmentStore := new(MockAssignmentStore)
	audit := &recordingAudit{}
	coordinator := newTestCoordinator(equipmentStore, assignmentStore, audit)

	updated := validDraft()
	updated.ID = 99
	updated.Status = metadata.StatusAvailable

	err := coordinator.EditEquipment(updated, testActor)

	var staleErr *custom_error.StaleReferenceError
	assert.ErrorAs(t, err, &staleErr)
	assert.Equal(t, 99, staleErr.ID)
	equipmentStore.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestEditEquipmentAuditsFieldDiff(t *testing.T) {
	equipmentStore := new(MockEquipmentStore)
	assignmentStore := new(MockAssignmentStore)
	audit := &recordingAudit{}
	coordinator := newTestCoordinator(equipmentStore, assignmentStore, audit)

	original := validDraft()
	original.ID = 5
	original.Status = metadata.StatusAvailable
	coordinator.replaceEquipment([]models.Equipment{original})

	updated := original
	updated.Status = metadata.StatusMaintenance

	equipmentStore.On("Update", 5, updated, testActor.ID).Return(nil).Once()

	err := coordinator.EditEquipment(updated, testActor)

	assert.NoError(t, err)
	equipmentStore.AssertExpectations(t)

	assert.Len(t, audit.calls, 1)
	assert.Equal(t, "updated", audit.calls[0].Action)
	assert.Equal(t, map[string]models.FieldChange{
		"status": {From: "available", To: "maintenance"},
	}, audit.calls[0].Changes)
}

func TestEditEquipmentRejectsManualAssignedStatus(t *testing.T) {
	equipmentStore := new(MockEquipmentStore)
	assignmentStore := new(MockAssignmentStore)
	audit := &recordingAudit{}
	coordinator := newTestCoordinator(equipmentStore, assignmentStore, audit)

	original := validDraft()
	original.ID = 5
	original.Status = metadata.StatusAvailable
	coordinator.replaceEquipment([]models.Equipment{original})

	updated := original
	updated.Status = metadata.StatusAssigned

	assignmentStore.On("HasActive", 5).Return(false, nil).Once()

	err := coordinator.EditEquipment(updated, testActor)

	var validationErr *custom_error.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "status")
	equipmentStore.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestEditEquipmentDuplicateTagOnRename(t *testing.T) {
	equipmentStore := new(MockEquipmentStore)
	assignmentStore := new(MockAssignmentStore)
	audit := &recordingAudit{}
	coordinator := newTestCoordinator(equipmentStore, assignmentStore, audit)

	original := validDraft()
	original.ID = 5
	original.Status = metadata.StatusAvailable
	coordinator.replaceEquipment([]models.Equipment{original})

	updated := original
	updated.AssetTag = "IT-2025-099"

	equipmentStore.On("AssetTagExists", "IT-2025-099", 5).Return(true, nil).Once()

	err := coordinator.EditEquipment(updated, testActor)

	var duplicateErr *custom_error.DuplicateAssetTagError
	assert.ErrorAs(t, err, &duplicateErr)
	equipmentStore.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteEquipmentAuditsDescription(t *testing.T) {
	equipmentStore := new(MockEquipmentStore)
	assignmentStore := new(MockAssignmentStore)
	audit := &recordingAudit{}
	coordinator := newTestCoordinator(equipmentStore, assignmentStore, audit)

	original := validDraft()
	original.ID = 5
	original.Status = metadata.StatusAvailable
	coordinator.replaceEquipment([]models.Equipment{original})

	equipmentStore.On("Delete", 5).Return(nil).Once()

	err := coordinator.DeleteEquipment(5, testActor)

	assert.NoError(t, err)
	assert.Len(t, audit.calls, 1)
	assert.Equal(t, "deleted", audit.calls[0].Action)
	assert.Equal(t, "Laptop: Dell XPS 13", audit.calls[0].Details)
}

func TestAssignEquipment(t *testing.T) {
	equipmentStore := new(MockEquipmentStore)
	assignmentStore := new(MockAssignmentStore)
	audit := &recordingAudit{}
	coordinator := newTestCoordinator(equipmentStore, assignmentStore, audit)

	eq := validDraft()
	eq.ID = 50
	eq.AssetTag = "IT-2025-050"
	eq.Status = metadata.StatusAvailable
	coordinator.replaceEquipment([]models.Equipment{eq})

	form := AssignmentForm{
		UserID:     "u-104",
		UserName:   "Jane Doe",
		EmployeeID: "E-104",
		Department: "Finance",
	}
	expectedRecord := models.Assignment{
		EquipmentID:       50,
		EquipmentAssetTag: "IT-2025-050",
		UserID:            "u-104",
		UserName:          "Jane Doe",
		EmployeeID:        "E-104",
		Department:        "Finance",
		AssignedBy:        testActor.ID,
		AssignedByName:    testActor.Name,
	}
	holder := models.Holder{UserName: "Jane Doe", EmployeeID: "E-104", Department: "Finance"}

	assignmentStore.On("HasActive", 50).Return(false, nil).Once()
	assignmentStore.On("Insert", (*goqu.TxDatabase)(nil), expectedRecord).Return(301, nil).Once()
	equipmentStore.On("SetHolder", (*goqu.TxDatabase)(nil), 50, holder, testActor.ID).Return(nil).Once()

	assignmentID, err := coordinator.AssignEquipment(50, form, testActor)

	assert.NoError(t, err)
	assert.Equal(t, 301, assignmentID)
	assignmentStore.AssertExpectations(t)
	equipmentStore.AssertExpectations(t)

	assert.Len(t, audit.calls, 1)
	assert.Equal(t, "assigned", audit.calls[0].Action)
	assert.Equal(t, "Assigned to Jane Doe (E-104)", audit.calls[0].Details)
	assert.Equal(t, metadata.StatusAssigned, audit.calls[0].Equipment.Status)
}

func TestAssignEquipmentAlreadyAssigned(t *testing.T) {
	equipmentStore := new(MockEquipmentStore)
	assignmentStore := new(MockAssignmentStore)
	audit := &recordingAudit{}
	coordinator := newTestCoordinator(equipmentStore, assignmentStore, audit)

	eq := validDraft()
	eq.ID = 50
	eq.Status = metadata.StatusAvailable
	coordinator.replaceEquipment([]models.Equipment{eq})

	assignmentStore.On("HasActive", 50).Return(true, nil).Once()

	_, err := coordinator.AssignEquipment(50, AssignmentForm{UserName: "Jane Doe", EmployeeID: "E-104"}, testActor)

	var validationErr *custom_error.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assignmentStore.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	equipmentStore.AssertNotCalled(t, "SetHolder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAssignEquipmentPastReturnDate(t *testing.T) {
	equipmentStore := new(MockEquipmentStore)
	assignmentStore := new(MockAssignmentStore)
	audit := &recordingAudit{}
	coordinator := newTestCoordinator(equipmentStore, assignmentStore, audit)

	eq := validDraft()
	eq.ID = 50
	eq.Status = metadata.StatusAvailable
	coordinator.replaceEquipment([]models.Equipment{eq})

	past := time.Now().Add(-24 * time.Hour)
	form := AssignmentForm{UserName: "Jane Doe", EmployeeID: "E-104", ExpectedReturnDate: &past}

	_, err := coordinator.AssignEquipment(50, form, testActor)

	var validationErr *custom_error.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "expectedReturnDate")
}

func TestAssignEquipmentRollsBackOnHolderUpdateError(t *testing.T) {
	equipmentStore := new(MockEquipmentStore)
	assignmentStore := new(MockAssignmentStore)
	audit := &recordingAudit{}
	coordinator := newTestCoordinator(equipmentStore, assignmentStore, audit)

	eq := validDraft()
	eq.ID = 50
	eq.Status = metadata.StatusAvailable
	coordinator.replaceEquipment([]models.Equipment{eq})

	assignmentStore.On("HasActive", 50).Return(false, nil).Once()
	assignmentStore.On("Insert", mock.Anything, mock.Anything).Return(301, nil).Once()
	equipmentStore.On("SetHolder", mock.Anything, 50, mock.Anything, testActor.ID).
		Return(errors.New("connection reset")).Once()

	_, err := coordinator.AssignEquipment(50, AssignmentForm{UserName: "Jane Doe", EmployeeID: "E-104"}, testActor)

	assert.Error(t, err)
	assert.Empty(t, audit.calls)
}

func TestReturnAssignment(t *testing.T) {
	equipmentStore := new(MockEquipmentStore)
	assignmentStore := new(MockAssignmentStore)
	audit := &recordingAudit{}
	coordinator := newTestCoordinator(equipmentStore, assignmentStore, audit)

	eq := validDraft()
	eq.ID = 50
	eq.Status = metadata.StatusAssigned
	eq.AssignedTo = "Jane Doe"
	eq.EmployeeID = "E-104"
	eq.Department = "Finance"
	coordinator.replaceEquipment([]models.Equipment{eq})
	coordinator.replaceAssignments([]models.Assignment{
		{ID: 301, EquipmentID: 50, EquipmentAssetTag: "IT-2025-001", UserName: "Jane Doe", Status: models.AssignmentActive},
	})

	assignmentStore.On("MarkReturned", (*goqu.TxDatabase)(nil), 301, testActor.Name, "minor scratches").Return(nil).Once()
	equipmentStore.On("ClearHolder", (*goqu.TxDatabase)(nil), 50, testActor.ID).Return(nil).Once()

	err := coordinator.ReturnAssignment(301, "minor scratches", testActor)

	assert.NoError(t, err)
	assignmentStore.AssertExpectations(t)
	equipmentStore.AssertExpectations(t)

	assert.Len(t, audit.calls, 1)
	assert.Equal(t, "returned", audit.calls[0].Action)
	assert.Equal(t, "Returned by Jane Doe", audit.calls[0].Details)
	assert.Equal(t, metadata.StatusAvailable, audit.calls[0].Equipment.Status)
	assert.Empty(t, audit.calls[0].Equipment.AssignedTo)
}

func TestReturnAssignmentStaleReference(t *testing.T) {
	equipmentStore := new(MockEquipmentStore)
	assignmentStore := new(MockAssignmentStore)
	audit := &recordingAudit{}
	coordinator := newTestCoordinator(equipmentStore, assignmentStore, audit)

	err := coordinator.ReturnAssignment(301, "", testActor)

	var staleErr *custom_error.StaleReferenceError
	assert.ErrorAs(t, err, &staleErr)
	assignmentStore.AssertNotCalled(t, "MarkReturned", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteEquipmentAfterReturn(t *testing.T) {
	equipmentStore := new(MockEquipmentStore)
	assignmentStore := new(MockAssignmentStore)
	audit := &recordingAudit{}
	coordinator := newTestCoordinator(equipmentStore, assignmentStore, audit)

	eq := validDraft()
	eq.ID = 50
	eq.Status = metadata.StatusAssigned
	eq.AssignedTo = "Jane Doe"
	coordinator.replaceEquipment([]models.Equipment{eq})
	coordinator.replaceAssignments([]models.Assignment{
		{ID: 301, EquipmentID: 50, UserName: "Jane Doe", Status: models.AssignmentActive},
	})

	assignmentStore.On("MarkReturned", (*goqu.TxDatabase)(nil), 301, testActor.Name, "").Return(nil).Once()
	equipmentStore.On("ClearHolder", (*goqu.TxDatabase)(nil), 50, testActor.ID).Return(nil).Once()
	equipmentStore.On("Delete", 50).Return(nil).Once()

	assert.NoError(t, coordinator.ReturnAssignment(301, "", testActor))

	// assignment history must not block a later hard delete
	assert.NoError(t, coordinator.DeleteEquipment(50, testActor))

	equipmentStore.AssertExpectations(t)
	assert.Len(t, audit.calls, 2)
	assert.Equal(t, "returned", audit.calls[0].Action)
	assert.Equal(t, "deleted", audit.calls[1].Action)
}

func TestSnapshotDerivesStats(t *testing.T) {
	equipmentStore := new(MockEquipmentStore)
	assignmentStore := new(MockAssignmentStore)
	audit := &recordingAudit{}
	coordinator := newTestCoordinator(equipmentStore, assignmentStore, audit)

	var published []Snapshot
	coordinator.OnSnapshot(func(s Snapshot) {
		published = append(published, s)
	})

	coordinator.replaceEquipment(sampleInventory())

	assert.Len(t, published, 1)
	assert.Equal(t, models.EquipmentStats{Total: 4, Available: 1, Assigned: 1, Maintenance: 1}, published[0].Stats)
	assert.Equal(t, models.EquipmentStats{Total: 4, Available: 1, Assigned: 1, Maintenance: 1}, coordinator.Stats())
}
