package staff

import (
	"net/http"
	"strconv"

	"github.com/cjsachs/Management-Inventory-System/pkg/models"
	"github.com/cjsachs/Management-Inventory-System/pkg/security"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type StaffHandler struct {
	Repository StaffRepository
}

func NewHandler(r StaffRepository) *StaffHandler {
	return &StaffHandler{Repository: r}
}

func (h *StaffHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/staff", security.Authorize("admin"), h.RegisterStaff)
	router.GET("/staff/:id", security.Authorize("staff"), h.GetStaff)
	router.GET("/staff", security.Authorize("admin"), h.GetStaffList)
}

func (h *StaffHandler) RegisterStaff(c *gin.Context) {
	var req models.CreateStaffRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	if err := h.Repository.PersistStaff(req, hashedPassword); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create staff member",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Staff member registered successfully"})
}

func (h *StaffHandler) GetStaff(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid staff ID", "details": err.Error()})
		return
	}

	staff, err := h.Repository.GetStaff(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to find staff member", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, staff)
}

func (h *StaffHandler) GetStaffList(c *gin.Context) {
	staff, err := h.Repository.GetStaffList()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list staff", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, staff)
}
