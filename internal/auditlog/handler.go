package auditlog

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo     *LogRepository
	recorder *Recorder
}

func NewHandler(repo *LogRepository, recorder *Recorder) *Handler {
	return &Handler{
		repo:     repo,
		recorder: recorder,
	}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/activity-logs", h.QueryLogs)
	router.POST("/activity-logs/recorder/enable", h.EnableRecorder)
}

func (h *Handler) QueryLogs(c *gin.Context) {
	filters := &Filters{
		EntityType: c.Query("entityType"),
		Action:     c.Query("action"),
	}

	if raw := c.Query("entityId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entityId"})
			return
		}
		filters.EntityID = id
	}
	if raw := c.Query("userId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId"})
			return
		}
		filters.UserID = id
	}
	if raw := c.Query("startDate"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startDate, expected RFC3339"})
			return
		}
		filters.StartDate = &t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endDate, expected RFC3339"})
			return
		}
		filters.EndDate = &t
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		filters.Limit = limit
	}

	logs, err := h.repo.Query(filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to query activity logs", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, logs)
}

// EnableRecorder resets the recorder after it disabled itself.
func (h *Handler) EnableRecorder(c *gin.Context) {
	h.recorder.Enable()
	c.JSON(http.StatusOK, gin.H{"message": "Activity logging re-enabled"})
}
