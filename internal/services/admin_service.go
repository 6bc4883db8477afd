package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/gla-learning/enrollment-service/internal/cache"
	"github.com/gla-learning/enrollment-service/internal/events"
	"github.com/gla-learning/enrollment-service/internal/models"
	"github.com/gla-learning/enrollment-service/internal/repositories"
	"github.com/gla-learning/enrollment-service/internal/validator"
)

const rosterCacheKey = "roster:summary"

// ===== SERVICE INTERFACE =====

type AdminService interface {
	// GetRoster returns every student record ordered by GLA number,
	// plus the aggregate counters for the dashboard header.
	GetRoster(ctx context.Context) (*models.RosterResponse, error)

	// ApproveCourse enrolls a student: sets the approved course, clears
	// any pending application and resets progress.
	ApproveCourse(ctx context.Context, uid, course, approvedBy string) (*Notification, error)

	// DeleteStudent removes a student record. Confirm must be true.
	DeleteStudent(ctx context.Context, uid string, confirm bool, deletedBy string) (*Notification, error)
}

// ===== SERVICE IMPLEMENTATION =====

type adminService struct {
	repo      repositories.Repository
	cache     *cache.CacheManager
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	notifier  *Notifier
}

func NewAdminService(repo repositories.Repository, cm *cache.CacheManager, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher, notifier *Notifier) AdminService {
	return &adminService{
		repo:      repo,
		cache:     cm,
		logger:    logger,
		validator: v,
		publisher: publisher,
		notifier:  notifier,
	}
}

func (s *adminService) GetRoster(ctx context.Context) (*models.RosterResponse, error) {
	var cached models.RosterResponse
	if err := s.cache.Stats.Get(ctx, rosterCacheKey, &cached); err == nil {
		s.logger.Debug("Roster served from cache")
		return &cached, nil
	}

	students, err := s.repo.User().ListByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w: %v", ErrStoreError, err)
	}

	response := buildRoster(students)

	if err := s.cache.Stats.Set(ctx, rosterCacheKey, response, cache.StatsCacheConfig.TTL); err != nil && !errors.Is(err, cache.ErrCacheNotAvailable) {
		s.logger.Warn("Failed to cache roster", "error", err)
	}

	return response, nil
}

// buildRoster turns the raw student records into table rows and header
// counters. An empty roster is a valid state, not an error.
func buildRoster(students []*models.UserRecord) *models.RosterResponse {
	rows := make([]models.RosterRow, 0, len(students))
	stats := models.RosterStats{Total: len(students)}

	var scoreSum float64
	var scoreCount int

	for _, student := range students {
		progress := student.GetProgress()

		row := models.RosterRow{
			UID:       student.UID,
			GLANumber: student.GLANumber,
			Name:      student.DisplayName(),
			Progress:  progress,
			ProgressBadges: []string{
				progressBadge(progress.VideosDone),
				progressBadge(progress.TutorialsDone),
				progressBadge(progress.TestDone),
			},
			Score:      student.Score,
			ScoreBand:  ScoreBand(student.Score),
			ScoreBadge: ScoreBadgeClass(student.Score),
			LastLogin:  formatLastLogin(student.LastLogin),
		}

		if student.ApprovedCourse != nil && *student.ApprovedCourse != "" {
			row.ApprovedCourse = *student.ApprovedCourse
			row.Enrolled = true
			stats.Enrolled++
		}
		if progress.TestDone {
			stats.Completed++
		}
		if student.Score != nil {
			scoreSum += *student.Score
			scoreCount++
		}

		rows = append(rows, row)
	}

	// Average only the graded students; the ungraded still count in
	// the total.
	if scoreCount > 0 {
		stats.AvgScore = int(math.Round(scoreSum / float64(scoreCount)))
	}

	return &models.RosterResponse{
		Students: rows,
		Stats:    stats,
		Empty:    len(rows) == 0,
	}
}

func formatLastLogin(t *time.Time) string {
	if t == nil {
		return "Never"
	}
	return t.Format("2006-01-02 15:04")
}

func (s *adminService) ApproveCourse(ctx context.Context, uid, course, approvedBy string) (*Notification, error) {
	s.logger.Info("Course approval", "uid", uid, "course", course, "approved_by", approvedBy)

	req := validator.ApproveCourseRequest{Course: course}
	if errs := s.validator.Validate(&req); errs != nil {
		// Approving without a course selected is a warning, nothing
		// is written.
		return s.notifier.Show("Please select a course to approve", LevelWarning, DefaultDuration),
			fmt.Errorf("approve course: %w: %v", ErrValidationFailed, errs)
	}

	now := time.Now()
	patch := models.UserRecordPatch{
		ApprovedCourse:     &course,
		ClearAppliedCourse: true,
		Progress:           &models.Progress{},
		ApprovalDate:       &now,
	}

	if err := s.repo.User().UpdateFields(ctx, uid, patch); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return s.notifier.Show("Student not found", LevelError, DefaultDuration),
				fmt.Errorf("approve course for %s: %w", uid, ErrNotFound)
		}
		return s.notifier.Show("Error approving course", LevelError, DefaultDuration),
			fmt.Errorf("approve course for %s: %w: %v", uid, ErrStoreError, err)
	}

	s.publishEvent(ctx, events.EventCourseApproved, events.CourseApprovedEvent{
		UID:        uid,
		Course:     course,
		ApprovedBy: approvedBy,
	})

	return s.notifier.Show(
		fmt.Sprintf("Approved %s for student", course),
		LevelSuccess, DefaultDuration), nil
}

func (s *adminService) DeleteStudent(ctx context.Context, uid string, confirm bool, deletedBy string) (*Notification, error) {
	s.logger.Info("Student deletion", "uid", uid, "deleted_by", deletedBy)

	if !confirm {
		return nil, fmt.Errorf("delete student: confirmation required: %w", ErrValidationFailed)
	}

	if err := s.repo.User().Delete(ctx, uid); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return s.notifier.Show("Student not found", LevelError, DefaultDuration),
				fmt.Errorf("delete student %s: %w", uid, ErrNotFound)
		}
		return s.notifier.Show("Error deleting student", LevelError, DefaultDuration),
			fmt.Errorf("delete student %s: %w: %v", uid, ErrStoreError, err)
	}

	s.publishEvent(ctx, events.EventStudentDeleted, events.StudentDeletedEvent{
		UID:       uid,
		DeletedBy: deletedBy,
	})

	return s.notifier.Show("Student deleted successfully", LevelSuccess, DefaultDuration), nil
}

func (s *adminService) publishEvent(ctx context.Context, eventType string, data interface{}) {
	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.Error("Failed to publish event", "error", err, "event_type", eventType)
	}
}
