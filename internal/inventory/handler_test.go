package inventory

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cjsachs/Management-Inventory-System/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupTestRouter(coordinator *Coordinator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userID", float64(7))
		c.Set("userName", "Admin User")
		c.Next()
	})
	NewHandler(coordinator).RegisterRoutes(router.Group(""))
	return router
}

func TestAddEquipmentEndpoint(t *testing.T) {
	equipmentStore := new(MockEquipmentStore)
	assignmentStore := new(MockAssignmentStore)
	coordinator := newTestCoordinator(equipmentStore, assignmentStore, &recordingAudit{})
	router := setupTestRouter(coordinator)

	tests := []struct {
		name           string
		payload        models.Equipment
		setupMock      func()
		expectedStatus int
	}{
		{
			name:    "successful add",
			payload: validDraft(),
			setupMock: func() {
				equipmentStore.On("AssetTagExists", "IT-2025-001", 0).Return(false, nil).Once()
				equipmentStore.On("Add", mock.Anything, 7).Return(42, nil).Once()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:    "duplicate asset tag",
			payload: validDraft(),
			setupMock: func() {
				equipmentStore.On("AssetTagExists", "IT-2025-001", 0).Return(true, nil).Once()
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "malformed asset tag",
			payload: func() models.Equipment {
				draft := validDraft()
				draft.AssetTag = "bad-tag"
				return draft
			}(),
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			body, _ := json.Marshal(tt.payload)
			req := httptest.NewRequest(http.MethodPost, "/inventory", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}

	equipmentStore.AssertExpectations(t)
}

func TestListEquipmentEndpoint(t *testing.T) {
	equipmentStore := new(MockEquipmentStore)
	assignmentStore := new(MockAssignmentStore)
	coordinator := newTestCoordinator(equipmentStore, assignmentStore, &recordingAudit{})
	coordinator.replaceEquipment(sampleInventory())
	router := setupTestRouter(coordinator)

	req := httptest.NewRequest(http.MethodGet, "/inventory?status=assigned", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result []models.Equipment
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Len(t, result, 1)
	assert.Equal(t, "IT-2025-010", result[0].AssetTag)
}

func TestStatsEndpoint(t *testing.T) {
	equipmentStore := new(MockEquipmentStore)
	assignmentStore := new(MockAssignmentStore)
	coordinator := newTestCoordinator(equipmentStore, assignmentStore, &recordingAudit{})
	coordinator.replaceEquipment(sampleInventory())
	router := setupTestRouter(coordinator)

	req := httptest.NewRequest(http.MethodGet, "/inventory/stats", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var stats models.EquipmentStats
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, models.EquipmentStats{Total: 4, Available: 1, Assigned: 1, Maintenance: 1}, stats)
}

func TestReturnAssignmentEndpointEmptyBody(t *testing.T) {
	equipmentStore := new(MockEquipmentStore)
	assignmentStore := new(MockAssignmentStore)
	coordinator := newTestCoordinator(equipmentStore, assignmentStore, &recordingAudit{})

	eq := validDraft()
	eq.ID = 50
	coordinator.replaceEquipment([]models.Equipment{eq})
	coordinator.replaceAssignments([]models.Assignment{
		{ID: 301, EquipmentID: 50, UserName: "Jane Doe"},
	})

	assignmentStore.On("MarkReturned", mock.Anything, 301, "Admin User", "").Return(nil).Once()
	equipmentStore.On("ClearHolder", mock.Anything, 50, 7).Return(nil).Once()

	router := setupTestRouter(coordinator)

	// notes are optional; a request without a body must not 400
	req := httptest.NewRequest(http.MethodPost, "/assignments/301/return", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assignmentStore.AssertExpectations(t)
}

func TestReturnAssignmentEndpointStaleReference(t *testing.T) {
	equipmentStore := new(MockEquipmentStore)
	assignmentStore := new(MockAssignmentStore)
	coordinator := newTestCoordinator(equipmentStore, assignmentStore, &recordingAudit{})
	router := setupTestRouter(coordinator)

	req := httptest.NewRequest(http.MethodPost, "/assignments/999/return", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}
