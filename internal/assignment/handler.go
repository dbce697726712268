package assignment

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo *AssignmentRepository
}

func NewHandler(repo *AssignmentRepository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/assignments/equipment/:id", h.GetByEquipment)
	router.GET("/assignments/user/:id", h.GetByUser)
}

// GetByEquipment returns the assignment history of one equipment item,
// newest first.
func (h *Handler) GetByEquipment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid equipment id"})
		return
	}

	assignments, err := h.repo.GetByEquipment(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get assignments", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assignments)
}

func (h *Handler) GetByUser(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	assignments, err := h.repo.GetByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get assignments", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assignments)
}
