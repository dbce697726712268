package equipment

import (
	"net/http"
	"strconv"

	"github.com/cjsachs/Management-Inventory-System/pkg/metadata"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo *EquipmentRepository
}

func NewHandler(repo *EquipmentRepository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/equipment/:id", h.GetEquipment)
	router.GET("/equipment", h.ListEquipment)
}

func (h *Handler) GetEquipment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid equipment id"})
		return
	}

	eq, err := h.repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get equipment", "details": err.Error()})
		return
	}
	if eq == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Equipment not found"})
		return
	}

	c.JSON(http.StatusOK, eq)
}

// ListEquipment supports one-time reads filtered by status or holder; the
// live list comes from the coordinator surface.
func (h *Handler) ListEquipment(c *gin.Context) {
	if employeeID := c.Query("employee"); employeeID != "" {
		list, err := h.repo.GetByEmployee(employeeID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list equipment", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, list)
		return
	}

	if rawStatus := c.Query("status"); rawStatus != "" {
		status, err := metadata.NewStatus(rawStatus)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter", "details": err.Error()})
			return
		}
		list, err := h.repo.GetByStatus(status)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list equipment", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, list)
		return
	}

	list, err := h.repo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list equipment", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, list)
}
