package services

import (
	"context"
	"errors"
)

// ===== SERVICE ERRORS =====

// Error taxonomy of the enrollment domain. Every failure a handler can
// see is one of these, wrapped with context; handlers map them to HTTP
// statuses and user-visible notifications at the component boundary.
var (
	// ErrNotFound: the profile document is missing for a known
	// identity. The session policy treats this as an invalid session.
	ErrNotFound = errors.New("record not found")

	// ErrStoreError: any collaborator-reported failure on read, write
	// or query. Never retried; the caller re-triggers the action.
	ErrStoreError = errors.New("store error")

	// ErrAccessDenied: role mismatch or unrecognized role.
	ErrAccessDenied = errors.New("access denied")

	// ErrValidationFailed: rejected input, e.g. approving with an
	// empty course selection.
	ErrValidationFailed = errors.New("validation failed")

	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// ===== SERVICE MANAGER =====

// ServiceManager provides access to all services of the enrollment
// backend.
type ServiceManager interface {
	Session() SessionService
	Student() StudentService
	Admin() AdminService
	Export() ExportService
	Notifier() *Notifier

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
