package events

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func TestNewEvent(t *testing.T) {
	payload := CourseAppliedEvent{UID: "s1", Course: "Coding with Python"}
	event := NewEvent(EventCourseApplied, payload)

	if event.ID == "" {
		t.Error("event ID must be set")
	}
	if event.Type != EventCourseApplied {
		t.Errorf("Type = %q", event.Type)
	}
	if event.Source != eventSource || event.Version != eventVersion {
		t.Errorf("envelope = %q/%q", event.Source, event.Version)
	}
	if event.Timestamp.IsZero() {
		t.Error("timestamp must be set")
	}
	if event.Data.(CourseAppliedEvent) != payload {
		t.Error("payload must round-trip unchanged")
	}

	// Envelope IDs must be unique per event.
	if other := NewEvent(EventCourseApplied, payload); other.ID == event.ID {
		t.Error("two events share an ID")
	}
}

func TestMockEventPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := NewMockEventPublisher(logger)
	ctx := context.Background()

	if err := publisher.Publish(ctx, NewEvent(EventCourseApproved, CourseApprovedEvent{UID: "s1"})); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	if err := publisher.Publish(ctx, NewEvent(EventStudentDeleted, StudentDeletedEvent{UID: "s1"})); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 2 {
		t.Fatalf("expected 2 events, got %d", len(published))
	}
	if published[0].Type != EventCourseApproved || published[1].Type != EventStudentDeleted {
		t.Errorf("event order wrong: %s, %s", published[0].Type, published[1].Type)
	}

	publisher.ClearEvents()
	if len(publisher.GetPublishedEvents()) != 0 {
		t.Error("ClearEvents must drop recorded events")
	}

	if err := publisher.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}
