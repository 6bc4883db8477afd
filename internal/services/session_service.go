package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gla-learning/enrollment-service/internal/models"
	"github.com/gla-learning/enrollment-service/internal/repositories"
)

// ===== ROUTES =====

// Route is a logical navigation target, not a literal path; the
// rendering surface owns the mapping to URLs.
type Route string

const (
	RouteLogin            Route = "login"
	RouteAdminDashboard   Route = "admin-dashboard"
	RouteStudentDashboard Route = "student-dashboard"
)

// routeRoles maps each route to the role it requires. The zero value
// means the route is anonymous (the login page).
var routeRoles = map[Route]models.UserRole{
	RouteLogin:            "",
	RouteAdminDashboard:   models.RoleAdmin,
	RouteStudentDashboard: models.RoleStudent,
}

// LandingRoute returns the dashboard a role lands on after sign-in.
// Unrecognized roles get the login route; they are never granted a
// dashboard by default.
func LandingRoute(role models.UserRole) Route {
	switch role {
	case models.RoleAdmin:
		return RouteAdminDashboard
	case models.RoleStudent:
		return RouteStudentDashboard
	default:
		return RouteLogin
	}
}

// ===== DTOs =====

// Identity is what the identity provider asserts about the current
// session. A nil Identity means no one is signed in.
type Identity struct {
	UID string `json:"uid"`
}

// RouteDecision tells the rendering surface what to do with the
// current navigation attempt.
type RouteDecision struct {
	Allow      bool          `json:"allow"`
	RedirectTo Route         `json:"redirect_to,omitempty"`
	SignOut    bool          `json:"sign_out"`
	Notice     *Notification `json:"notice,omitempty"`
}

// ===== SERVICE INTERFACE =====

// SessionService is the role-gated routing guard. It is consulted on
// every identity-state transition and on initial load.
type SessionService interface {
	Resolve(ctx context.Context, identity *Identity, route Route) *RouteDecision
	SignOut(ctx context.Context, identity *Identity) *RouteDecision
}

// ===== SERVICE IMPLEMENTATION =====

type sessionService struct {
	repo     repositories.Repository
	logger   *slog.Logger
	notifier *Notifier
}

func NewSessionService(repo repositories.Repository, logger *slog.Logger, notifier *Notifier) SessionService {
	return &sessionService{
		repo:     repo,
		logger:   logger,
		notifier: notifier,
	}
}

// Resolve applies the guard contract. Every failure path is
// fail-closed: a fetch error or a missing profile forces sign-out, and
// no role mismatch ever grants access.
func (s *sessionService) Resolve(ctx context.Context, identity *Identity, route Route) *RouteDecision {
	requiredRole, known := routeRoles[route]
	if !known {
		// Unknown route identifiers are gated like the strictest page.
		s.logger.Warn("Unknown route requested", "route", route)
		return &RouteDecision{RedirectTo: RouteLogin}
	}

	// No identity: anonymous users may only see the login page.
	if identity == nil || identity.UID == "" {
		if requiredRole == "" {
			return &RouteDecision{Allow: true}
		}
		return &RouteDecision{RedirectTo: RouteLogin}
	}

	record, err := s.repo.User().GetByUID(ctx, identity.UID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.logger.Warn("Profile missing for signed-in identity", "uid", identity.UID)
			return s.failClosed("User profile not found")
		}
		s.logger.Error("Failed to resolve user record", "error", err, "uid", identity.UID)
		return s.failClosed("Error verifying permissions")
	}

	if !record.Role.IsValid() {
		s.logger.Warn("Unrecognized role on record", "uid", identity.UID, "role", record.Role)
		return s.failClosed("Access denied - insufficient permissions")
	}

	// Signed-in user on the login page: send them to their dashboard.
	if requiredRole == "" {
		return &RouteDecision{RedirectTo: LandingRoute(record.Role)}
	}

	// Role mismatch redirects to the user's own landing route rather
	// than failing hard.
	if record.Role != requiredRole {
		notice := s.notifier.Show("Access denied - redirecting...", LevelError, DefaultDuration)
		return &RouteDecision{
			RedirectTo: LandingRoute(record.Role),
			Notice:     notice,
		}
	}

	return &RouteDecision{Allow: true}
}

// SignOut produces the post-logout decision.
func (s *sessionService) SignOut(ctx context.Context, identity *Identity) *RouteDecision {
	if identity != nil {
		s.logger.Info("User signed out", "uid", identity.UID)
	}

	notice := s.notifier.Show("Logged out successfully", LevelSuccess, DefaultDuration)
	return &RouteDecision{
		RedirectTo: RouteLogin,
		SignOut:    true,
		Notice:     notice,
	}
}

func (s *sessionService) failClosed(message string) *RouteDecision {
	notice := s.notifier.Show(message, LevelError, DefaultDuration)
	return &RouteDecision{
		RedirectTo: RouteLogin,
		SignOut:    true,
		Notice:     notice,
	}
}
