package services

import (
	"context"
	"errors"
	"sort"

	"gorm.io/datatypes"

	"github.com/gla-learning/enrollment-service/internal/models"
	"github.com/gla-learning/enrollment-service/internal/repositories"
)

// mockUserRepo is an in-memory UserRecordRepository for service tests.
type mockUserRepo struct {
	records map[string]*models.UserRecord

	// failWith, when set, makes every call fail with this error.
	failWith error

	updateCalls int
	deleteCalls int
}

func newMockUserRepo(records ...*models.UserRecord) *mockUserRepo {
	repo := &mockUserRepo{records: make(map[string]*models.UserRecord)}
	for _, r := range records {
		repo.records[r.UID] = r
	}
	return repo
}

func (m *mockUserRepo) GetByUID(ctx context.Context, uid string) (*models.UserRecord, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	record, ok := m.records[uid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return record, nil
}

func (m *mockUserRepo) UpdateFields(ctx context.Context, uid string, patch models.UserRecordPatch) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.updateCalls++
	record, ok := m.records[uid]
	if !ok {
		return repositories.ErrNotFound
	}

	if patch.Name != nil {
		record.Name = patch.Name
	}
	if patch.AppliedCourse != nil {
		record.AppliedCourse = patch.AppliedCourse
	}
	if patch.ClearAppliedCourse {
		record.AppliedCourse = nil
	}
	if patch.ApprovedCourse != nil {
		record.ApprovedCourse = patch.ApprovedCourse
	}
	if patch.ClearApprovedCourse {
		record.ApprovedCourse = nil
	}
	if patch.Progress != nil {
		record.Progress = datatypes.NewJSONType(*patch.Progress)
	}
	if patch.Score != nil {
		record.Score = patch.Score
	}
	if patch.ClearScore {
		record.Score = nil
	}
	if patch.LastLogin != nil {
		record.LastLogin = patch.LastLogin
	}
	if patch.ApplicationDate != nil {
		record.ApplicationDate = patch.ApplicationDate
	}
	if patch.ApprovalDate != nil {
		record.ApprovalDate = patch.ApprovalDate
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, uid string) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.deleteCalls++
	if _, ok := m.records[uid]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.records, uid)
	return nil
}

func (m *mockUserRepo) ListByRole(ctx context.Context, role models.UserRole) ([]*models.UserRecord, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	matched := make([]*models.UserRecord, 0)
	for _, record := range m.records {
		if record.Role == role {
			matched = append(matched, record)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].GLANumber < matched[j].GLANumber
	})
	return matched, nil
}

func (m *mockUserRepo) Create(ctx context.Context, record *models.UserRecord) error {
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.records[record.UID]; ok {
		return errors.New("duplicate uid")
	}
	m.records[record.UID] = record
	return nil
}

// mockRepository bundles the mock user repo behind the aggregate
// Repository interface.
type mockRepository struct {
	user *mockUserRepo
}

func newMockRepository(records ...*models.UserRecord) *mockRepository {
	return &mockRepository{user: newMockUserRepo(records...)}
}

func (m *mockRepository) User() repositories.UserRecordRepository { return m.user }
func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// Test fixtures.

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func progressOf(videos, tutorials, test bool) datatypes.JSONType[models.Progress] {
	return datatypes.NewJSONType(models.Progress{
		VideosDone:    videos,
		TutorialsDone: tutorials,
		TestDone:      test,
	})
}

func studentRecord(uid, glaNumber string) *models.UserRecord {
	return &models.UserRecord{
		UID:       uid,
		Role:      models.RoleStudent,
		GLANumber: glaNumber,
	}
}
