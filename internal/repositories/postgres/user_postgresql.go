package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/gla-learning/enrollment-service/internal/cache"
	"github.com/gla-learning/enrollment-service/internal/models"
	"github.com/gla-learning/enrollment-service/internal/repositories"
)

type userRecordRepository struct {
	db    *gorm.DB
	cache *cache.CacheManager
}

func NewUserRecordRepository(db *gorm.DB, cacheManager *cache.CacheManager) repositories.UserRecordRepository {
	return &userRecordRepository{
		db:    db,
		cache: cacheManager,
	}
}

// ===== READ OPERATIONS =====

func (r *userRecordRepository) GetByUID(ctx context.Context, uid string) (*models.UserRecord, error) {
	cacheKey := fmt.Sprintf("uid:%s", uid)

	var cached models.UserRecord
	if err := r.cache.User.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	var record models.UserRecord
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user record: %w", err)
	}

	if err := r.cache.User.Set(ctx, cacheKey, &record, cache.UserCacheConfig.TTL); err != nil {
		// Cache write failures never fail the read.
		_ = err
	}

	return &record, nil
}

func (r *userRecordRepository) ListByRole(ctx context.Context, role models.UserRole) ([]*models.UserRecord, error) {
	cacheKey := fmt.Sprintf("role:%s", role)

	var cached []*models.UserRecord
	if err := r.cache.Roster.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	var records []*models.UserRecord
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("gla_number ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user records by role: %w", err)
	}

	if records == nil {
		records = []*models.UserRecord{}
	}

	if err := r.cache.Roster.Set(ctx, cacheKey, records, cache.RosterCacheConfig.TTL); err != nil {
		_ = err
	}

	return records, nil
}

// ===== WRITE OPERATIONS =====

func (r *userRecordRepository) Create(ctx context.Context, record *models.UserRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create user record: %w", err)
	}

	cache.InvalidateUserCache(ctx, r.cache, record.UID)
	return nil
}

func (r *userRecordRepository) UpdateFields(ctx context.Context, uid string, patch models.UserRecordPatch) error {
	updates := buildUpdateMap(patch)
	if len(updates) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.UserRecord{}).
		Where("uid = ?", uid).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update user record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}

	cache.InvalidateUserCache(ctx, r.cache, uid)
	return nil
}

func (r *userRecordRepository) Delete(ctx context.Context, uid string) error {
	result := r.db.WithContext(ctx).
		Where("uid = ?", uid).
		Delete(&models.UserRecord{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete user record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}

	cache.InvalidateUserCache(ctx, r.cache, uid)
	return nil
}

// buildUpdateMap translates a patch into a GORM column update map. The
// clear flags write NULL, which is this store's delete sentinel.
func buildUpdateMap(patch models.UserRecordPatch) map[string]interface{} {
	updates := make(map[string]interface{})

	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.AppliedCourse != nil {
		updates["applied_course"] = *patch.AppliedCourse
	}
	if patch.ApprovedCourse != nil {
		updates["approved_course"] = *patch.ApprovedCourse
	}
	if patch.Progress != nil {
		updates["progress"] = datatypes.NewJSONType(*patch.Progress)
	}
	if patch.Score != nil {
		updates["score"] = *patch.Score
	}
	if patch.LastLogin != nil {
		updates["last_login"] = *patch.LastLogin
	}
	if patch.ApplicationDate != nil {
		updates["application_date"] = *patch.ApplicationDate
	}
	if patch.ApprovalDate != nil {
		updates["approval_date"] = *patch.ApprovalDate
	}

	if patch.ClearAppliedCourse {
		updates["applied_course"] = nil
	}
	if patch.ClearApprovedCourse {
		updates["approved_course"] = nil
	}
	if patch.ClearScore {
		updates["score"] = nil
	}

	return updates
}
