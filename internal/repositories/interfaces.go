package repositories

import (
	"context"
	"errors"

	"github.com/gla-learning/enrollment-service/internal/models"
)

// Repository errors. ErrNotFound is distinct from store failures so the
// session guard can tell an invalid session from a flaky store.
var (
	ErrNotFound = errors.New("user record not found")
)

// UserRecordRepository wraps the document store's per-record
// operations on user profile documents.
type UserRecordRepository interface {
	// GetByUID returns the record for one identity, or ErrNotFound.
	GetByUID(ctx context.Context, uid string) (*models.UserRecord, error)

	// UpdateFields applies a partial update; unset patch fields are
	// untouched, and the patch's clear flags remove fields entirely.
	UpdateFields(ctx context.Context, uid string, patch models.UserRecordPatch) error

	// Delete removes the record. Irreversible, no soft-delete.
	Delete(ctx context.Context, uid string) error

	// ListByRole returns all records with the given role, ascending by
	// GLA number. An empty slice is a valid result, not an error.
	ListByRole(ctx context.Context, role models.UserRole) ([]*models.UserRecord, error)

	// Create inserts a record. Used by provisioning and tests; the
	// registration path proper is owned elsewhere.
	Create(ctx context.Context, record *models.UserRecord) error
}

// Repository aggregates the repositories this service owns.
type Repository interface {
	User() UserRecordRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
