package inventory

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	custom_error "github.com/cjsachs/Management-Inventory-System/pkg/errors"
	"github.com/cjsachs/Management-Inventory-System/pkg/models"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	coordinator *Coordinator
}

func NewHandler(coordinator *Coordinator) *Handler {
	return &Handler{coordinator: coordinator}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/inventory", h.ListEquipment)
	router.GET("/inventory/stats", h.GetStats)
	router.GET("/inventory/snapshot", h.GetSnapshot)
	router.POST("/inventory", h.AddEquipment)
	router.PUT("/inventory/:id", h.EditEquipment)
	router.DELETE("/inventory/:id", h.DeleteEquipment)
	router.POST("/inventory/:id/assign", h.AssignEquipment)
	router.POST("/assignments/:id/return", h.ReturnAssignment)
}

// ListEquipment serves the synced list, optionally searched via ?search=
// and filtered via ?status= (the "all" sentinel disables the filter).
func (h *Handler) ListEquipment(c *gin.Context) {
	search := c.Query("search")
	status := c.Query("status")
	c.JSON(http.StatusOK, h.coordinator.Filtered(search, status))
}

func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.coordinator.Stats())
}

func (h *Handler) GetSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.coordinator.CurrentSnapshot())
}

func (h *Handler) AddEquipment(c *gin.Context) {
	var draft models.Equipment
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	id, err := h.coordinator.AddEquipment(draft, actorFromContext(c))
	if err != nil {
		respondUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) EditEquipment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid equipment ID"})
		return
	}

	var updated models.Equipment
	if err := c.ShouldBindJSON(&updated); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	updated.ID = id

	if err := h.coordinator.EditEquipment(updated, actorFromContext(c)); err != nil {
		respondUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Equipment updated"})
}

func (h *Handler) DeleteEquipment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid equipment ID"})
		return
	}

	if err := h.coordinator.DeleteEquipment(id, actorFromContext(c)); err != nil {
		respondUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Equipment deleted"})
}

func (h *Handler) AssignEquipment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid equipment ID"})
		return
	}

	var form AssignmentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	assignmentID, err := h.coordinator.AssignEquipment(id, form, actorFromContext(c))
	if err != nil {
		respondUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"assignmentId": assignmentID})
}

func (h *Handler) ReturnAssignment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment ID"})
		return
	}

	var body struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	if err := h.coordinator.ReturnAssignment(id, body.Notes, actorFromContext(c)); err != nil {
		respondUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Assignment returned"})
}

func actorFromContext(c *gin.Context) Actor {
	actor := Actor{Name: c.GetString("userName")}
	if raw, exists := c.Get("userID"); exists {
		switch v := raw.(type) {
		case float64:
			actor.ID = int(v)
		case int:
			actor.ID = v
		}
	}
	return actor
}

func respondUseCaseError(c *gin.Context, err error) {
	var validationErr *custom_error.ValidationError
	var duplicateErr *custom_error.DuplicateAssetTagError
	var staleErr *custom_error.StaleReferenceError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "fields": validationErr.Fields})
	case errors.As(err, &duplicateErr):
		c.JSON(http.StatusConflict, gin.H{"error": duplicateErr.Error()})
	case errors.As(err, &staleErr):
		c.JSON(http.StatusConflict, gin.H{"error": staleErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
