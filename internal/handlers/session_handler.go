package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gla-learning/enrollment-service/internal/services"
	"github.com/gla-learning/enrollment-service/internal/utils"
	"github.com/gla-learning/enrollment-service/internal/validator"
)

type SessionHandler struct {
	BaseHandler
	service   services.SessionService
	validator *validator.Validator
}

func NewSessionHandler(service services.SessionService, v *validator.Validator, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		validator:   v,
	}
}

// ===== SESSION ENDPOINTS =====

// ResolveRoute answers whether the current identity may render the
// named route, and where to send it otherwise. Works for anonymous
// visitors too, so it sits behind optional authentication.
// @Summary Resolve a navigation attempt
// @Tags session
// @Accept json
// @Produce json
// @Success 200 {object} services.RouteDecision
// @Failure 400 {object} ErrorResponse "Bad request"
// @Router /session/resolve [post]
func (h *SessionHandler) ResolveRoute(c *gin.Context) {
	var req validator.ResolveRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	if errs := h.validator.Validate(&req); errs != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: errs,
		})
		return
	}

	identity := identityFromContext(c)
	h.LogRequest(c, "Resolving route", "route", req.Route, "anonymous", identity == nil)

	decision := h.service.Resolve(c.Request.Context(), identity, services.Route(req.Route))
	c.JSON(http.StatusOK, decision)
}

// SignOut ends the current session and returns the post-logout
// navigation decision.
// @Summary Sign out
// @Tags session
// @Produce json
// @Success 200 {object} services.RouteDecision
// @Router /session/sign-out [post]
func (h *SessionHandler) SignOut(c *gin.Context) {
	identity := identityFromContext(c)
	h.LogRequest(c, "Signing out", "anonymous", identity == nil)

	decision := h.service.SignOut(c.Request.Context(), identity)
	c.JSON(http.StatusOK, decision)
}

// identityFromContext reads the identity set by the auth middleware.
// Absent or malformed context values mean anonymous.
func identityFromContext(c *gin.Context) *services.Identity {
	userID, exists := c.Get("user_id")
	if !exists {
		return nil
	}

	uid, ok := userID.(string)
	if !ok || uid == "" {
		return nil
	}

	return &services.Identity{UID: uid}
}
