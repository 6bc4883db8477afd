package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gla-learning/enrollment-service/internal/services"
	"github.com/gla-learning/enrollment-service/internal/utils"
	"github.com/gla-learning/enrollment-service/internal/validator"
)

type StudentHandler struct {
	BaseHandler
	service services.StudentService
}

func NewStudentHandler(service services.StudentService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== STUDENT ENDPOINTS =====

// GetCourseView returns the current student's derived dashboard state:
// enrollment form or course content, unlocked sections, progress
// indicators and score presentation.
// @Summary Get the student course view
// @Tags students
// @Produce json
// @Success 200 {object} services.CourseViewResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /students/me/course [get]
func (h *StudentHandler) GetCourseView(c *gin.Context) {
	h.LogRequest(c, "Getting course view")

	uid, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	view, err := h.service.GetCourseView(c.Request.Context(), uid)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// ApplyCourse records the student's enrollment application.
// @Summary Apply for a course
// @Tags students
// @Accept json
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse "Bad request - unknown course"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /students/me/apply [post]
func (h *StudentHandler) ApplyCourse(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	var req validator.ApplyCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Applying for course", "course", req.Course)

	notice, err := h.service.ApplyCourse(c.Request.Context(), uid, req.Course)
	if err != nil {
		h.handleServiceErrorWithNotice(c, err, notice)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Application submitted",
		"notice":  notice,
	})
}

func currentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	uid, ok := userID.(string)
	return uid, ok && uid != ""
}

func (h *StudentHandler) handleServiceError(c *gin.Context, err error) {
	h.handleServiceErrorWithNotice(c, err, nil)
}

func (h *StudentHandler) handleServiceErrorWithNotice(c *gin.Context, err error, notice *services.Notification) {
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation failed",
			"notice":  notice,
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"message": "User profile not found",
			"notice":  notice,
		})
	case errors.Is(err, services.ErrAccessDenied), errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"message": "Access denied",
			"notice":  notice,
		})
	default:
		h.LogError(c, err, "Student operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Internal server error",
			"notice":  notice,
		})
	}
}
