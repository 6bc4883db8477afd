package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gla-learning/enrollment-service/internal/config"
	"github.com/gla-learning/enrollment-service/internal/models"
	"github.com/gla-learning/enrollment-service/internal/repositories"
	"github.com/gla-learning/enrollment-service/internal/services"
	"github.com/gla-learning/enrollment-service/internal/utils"
	"github.com/gla-learning/enrollment-service/internal/validator"
)

type HandlerManager struct {
	sessionHandler *SessionHandler
	studentHandler *StudentHandler
	adminHandler   *AdminHandler
	authMiddleware *CasdoorAuthMiddleware
	serviceManager services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	userRepo repositories.UserRecordRepository,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, userRepo)

	return &HandlerManager{
		sessionHandler: NewSessionHandler(serviceManager.Session(), validator, logger),
		studentHandler: NewStudentHandler(serviceManager.Student(), logger),
		adminHandler:   NewAdminHandler(serviceManager.Admin(), serviceManager.Export(), logger),
		authMiddleware: authMiddleware,
		serviceManager: serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.HealthCheck)

	v1 := router.Group("/api/v1")

	// Session routes answer for anonymous visitors too, so the token
	// is optional here.
	session := v1.Group("/session")
	session.Use(hm.authMiddleware.OptionalAuthMiddleware())
	{
		session.POST("/resolve", hm.sessionHandler.ResolveRoute)
		session.POST("/sign-out", hm.sessionHandler.SignOut)
	}

	// Student routes - authenticated students only
	students := v1.Group("/students")
	students.Use(hm.authMiddleware.AuthMiddleware())
	students.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent))
	{
		students.GET("/me/course", hm.studentHandler.GetCourseView)
		students.POST("/me/apply", hm.studentHandler.ApplyCourse)
	}

	// Admin routes - authenticated admins only
	admin := v1.Group("/admin")
	admin.Use(hm.authMiddleware.AuthMiddleware())
	admin.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
	{
		admin.GET("/roster", hm.adminHandler.GetRoster)
		admin.GET("/roster/export", hm.adminHandler.ExportRoster)
		admin.POST("/students/:id/approve", hm.adminHandler.ApproveCourse)
		admin.DELETE("/students/:id", hm.adminHandler.DeleteStudent)
	}
}

// HealthCheck reports service and collaborator health.
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	status := http.StatusOK
	health := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "enrollment-service",
	}

	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		status = http.StatusServiceUnavailable
		health["status"] = "unhealthy"
		health["error"] = err.Error()
	}

	c.JSON(status, health)
}
