package routes

import (
	"github.com/cjsachs/Management-Inventory-System/internal/core/container"
	"github.com/cjsachs/Management-Inventory-System/internal/middleware"
	"github.com/cjsachs/Management-Inventory-System/pkg/security"

	"github.com/gin-gonic/gin"
)

func RegisterPublicRoutes(router *gin.Engine, container *container.Container) {
	container.LoginHandler.RegisterRoutes(router)
}

func RegisterProtectedRoutes(router *gin.Engine, container *container.Container) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())

	container.InventoryHandler.RegisterRoutes(protectedRoutes)
	container.EquipmentHandler.RegisterRoutes(protectedRoutes)
	container.AssignmentHandler.RegisterRoutes(protectedRoutes)
	container.AuditHandler.RegisterRoutes(protectedRoutes)
	container.RealtimeHandler.RegisterRoutes(protectedRoutes)
	container.StaffHandler.RegisterRoutes(protectedRoutes)
}

func RegisterUtilityRoutes(router *gin.Engine) {
	router.GET("/health", middleware.HealthCheckMiddleware())
}
