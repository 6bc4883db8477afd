package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the enrollment service.
const (
	EventCourseApplied  = "enrollment.course_applied"
	EventCourseApproved = "enrollment.course_approved"
	EventStudentDeleted = "enrollment.student_deleted"
)

// Event is the envelope published for every admin or student action
// that mutates a user record.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// CourseAppliedEvent is emitted when a student submits an application.
type CourseAppliedEvent struct {
	UID    string `json:"uid"`
	Course string `json:"course"`
}

// CourseApprovedEvent is emitted when an admin approves a course.
type CourseApprovedEvent struct {
	UID        string `json:"uid"`
	Course     string `json:"course"`
	ApprovedBy string `json:"approved_by"`
}

// StudentDeletedEvent is emitted when an admin deletes a student.
type StudentDeletedEvent struct {
	UID       string `json:"uid"`
	DeletedBy string `json:"deleted_by"`
}

// EventPublisher publishes enrollment events to whatever transport the
// deployment is wired with.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

const (
	eventSource  = "enrollment-service"
	eventVersion = "1.0"
)

// NewEvent wraps an event payload in the standard envelope.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    eventSource,
		Version:   eventVersion,
		Timestamp: time.Now(),
		Data:      data,
	}
}
