package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gla-learning/enrollment-service/internal/services"
	"github.com/gla-learning/enrollment-service/internal/utils"
	"github.com/gla-learning/enrollment-service/internal/validator"
)

type AdminHandler struct {
	BaseHandler
	service services.AdminService
	export  services.ExportService
}

func NewAdminHandler(service services.AdminService, export services.ExportService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		export:      export,
	}
}

// ===== ADMIN ENDPOINTS =====

// GetRoster returns the full student roster with aggregate stats.
// @Summary Get the student roster
// @Tags admin
// @Produce json
// @Success 200 {object} models.RosterResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /admin/roster [get]
func (h *AdminHandler) GetRoster(c *gin.Context) {
	h.LogRequest(c, "Getting roster")

	roster, err := h.service.GetRoster(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, roster)
}

// ExportRoster streams the roster as an xlsx download.
// @Summary Export the roster as a spreadsheet
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /admin/roster/export [get]
func (h *AdminHandler) ExportRoster(c *gin.Context) {
	h.LogRequest(c, "Exporting roster")

	result, err := h.export.ExportRoster(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, nil)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		result.Content.Bytes())
}

// ApproveCourse approves a student's course, clearing the pending
// application and resetting progress.
// @Summary Approve a course for a student
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse "Bad request - no course selected"
// @Failure 404 {object} ErrorResponse "Student not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /admin/students/{id}/approve [post]
func (h *AdminHandler) ApproveCourse(c *gin.Context) {
	uid := c.Param("id")

	var req validator.ApproveCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Approving course", "student_id", uid, "course", req.Course)

	notice, err := h.service.ApproveCourse(c.Request.Context(), uid, req.Course, adminID(c))
	if err != nil {
		h.handleServiceError(c, err, notice)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Course approved",
		"notice":  notice,
	})
}

// DeleteStudent removes a student record. The interactive confirmation
// travels in the body; an unconfirmed request writes nothing.
// @Summary Delete a student
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse "Bad request - not confirmed"
// @Failure 404 {object} ErrorResponse "Student not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /admin/students/{id} [delete]
func (h *AdminHandler) DeleteStudent(c *gin.Context) {
	uid := c.Param("id")

	var req validator.DeleteStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Deleting student", "student_id", uid, "confirm", req.Confirm)

	notice, err := h.service.DeleteStudent(c.Request.Context(), uid, req.Confirm, adminID(c))
	if err != nil {
		h.handleServiceError(c, err, notice)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Student deleted",
		"notice":  notice,
	})
}

func adminID(c *gin.Context) string {
	uid, _ := currentUserID(c)
	return uid
}

func (h *AdminHandler) handleServiceError(c *gin.Context, err error, notice *services.Notification) {
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation failed",
			"notice":  notice,
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"message": "Student not found",
			"notice":  notice,
		})
	case errors.Is(err, services.ErrAccessDenied), errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"message": "Access denied",
			"notice":  notice,
		})
	default:
		h.LogError(c, err, "Admin operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Internal server error",
			"notice":  notice,
		})
	}
}
