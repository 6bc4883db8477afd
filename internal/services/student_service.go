package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gla-learning/enrollment-service/internal/events"
	"github.com/gla-learning/enrollment-service/internal/models"
	"github.com/gla-learning/enrollment-service/internal/repositories"
	"github.com/gla-learning/enrollment-service/internal/validator"
)

// ===== RESPONSE DTOs =====

// CourseViewResponse is the student dashboard payload: the derived
// view state plus the transient notice that goes with it.
type CourseViewResponse struct {
	Student string          `json:"student"`
	View    CourseViewState `json:"view"`
	Notice  *Notification   `json:"notice,omitempty"`
}

// ===== SERVICE INTERFACE =====

type StudentService interface {
	// GetCourseView fetches the student's record and derives the full
	// rendering state from it.
	GetCourseView(ctx context.Context, uid string) (*CourseViewResponse, error)

	// ApplyCourse records an enrollment application for the signed-in
	// student.
	ApplyCourse(ctx context.Context, uid, course string) (*Notification, error)
}

// ===== SERVICE IMPLEMENTATION =====

type studentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	notifier  *Notifier
}

func NewStudentService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher, notifier *Notifier) StudentService {
	return &studentService{
		repo:      repo,
		logger:    logger,
		validator: v,
		publisher: publisher,
		notifier:  notifier,
	}
}

func (s *studentService) GetCourseView(ctx context.Context, uid string) (*CourseViewResponse, error) {
	s.logger.Info("Loading course view", "uid", uid)

	record, err := s.repo.User().GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("course view for %s: %w", uid, ErrNotFound)
		}
		return nil, fmt.Errorf("course view for %s: %w: %v", uid, ErrStoreError, err)
	}

	response := &CourseViewResponse{
		Student: record.DisplayName(),
		View:    DeriveCourseView(record),
	}

	// A pending application flashes an info notice, no course at all
	// flashes a warning.
	switch {
	case response.View.ShowCourseContent:
		// Nothing to flash; the course content speaks for itself.
	case response.View.PendingCourse != "":
		response.Notice = s.notifier.Show(
			fmt.Sprintf("Your application for %s is pending approval", response.View.PendingCourse),
			LevelInfo, DefaultDuration)
	default:
		response.Notice = s.notifier.Show(
			"No course assigned. Please contact your administrator.",
			LevelWarning, DefaultDuration)
	}

	return response, nil
}

func (s *studentService) ApplyCourse(ctx context.Context, uid, course string) (*Notification, error) {
	s.logger.Info("Course application", "uid", uid, "course", course)

	req := validator.ApplyCourseRequest{Course: course}
	if errs := s.validator.Validate(&req); errs != nil {
		return s.notifier.Show("Please select a course", LevelWarning, DefaultDuration),
			fmt.Errorf("apply course: %w: %v", ErrValidationFailed, errs)
	}

	now := time.Now()
	patch := models.UserRecordPatch{
		AppliedCourse:   &course,
		ApplicationDate: &now,
	}

	if err := s.repo.User().UpdateFields(ctx, uid, patch); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return s.notifier.Show("User profile not found", LevelError, DefaultDuration),
				fmt.Errorf("apply course for %s: %w", uid, ErrNotFound)
		}
		return s.notifier.Show("Error submitting application", LevelError, DefaultDuration),
			fmt.Errorf("apply course for %s: %w: %v", uid, ErrStoreError, err)
	}

	s.publishEvent(ctx, events.EventCourseApplied, events.CourseAppliedEvent{
		UID:    uid,
		Course: course,
	})

	return s.notifier.Show(
		fmt.Sprintf("Applied for %s. Waiting for approval.", course),
		LevelSuccess, DefaultDuration), nil
}

func (s *studentService) publishEvent(ctx context.Context, eventType string, data interface{}) {
	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		// Event delivery is best-effort; the write already succeeded.
		s.logger.Error("Failed to publish event", "error", err, "event_type", eventType)
	}
}
