package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/gla-learning/enrollment-service/internal/cache"
	"github.com/gla-learning/enrollment-service/internal/events"
	"github.com/gla-learning/enrollment-service/internal/models"
	"github.com/gla-learning/enrollment-service/internal/validator"
)

func newAdminServiceForTest(repo *mockRepository) (AdminService, *events.MockEventPublisher) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := events.NewMockEventPublisher(logger)
	service := NewAdminService(repo, cache.NewCacheManager(nil), logger, validator.New(), publisher, NewNotifier())
	return service, publisher
}

func TestGetRoster_Stats(t *testing.T) {
	graded1 := studentRecord("s1", "GLA001")
	graded1.ApprovedCourse = strPtr("Coding with Python")
	graded1.Progress = progressOf(true, true, true)
	graded1.Score = floatPtr(80)

	graded2 := studentRecord("s2", "GLA002")
	graded2.ApprovedCourse = strPtr("Coding with Python")
	graded2.Score = floatPtr(60)

	graded3 := studentRecord("s3", "GLA003")
	graded3.Score = floatPtr(40)

	ungraded := studentRecord("s4", "GLA004")

	admin := &models.UserRecord{UID: "adm", Role: models.RoleAdmin}

	service, _ := newAdminServiceForTest(newMockRepository(graded1, graded2, graded3, ungraded, admin))

	roster, err := service.GetRoster(context.Background())
	if err != nil {
		t.Fatalf("GetRoster() error: %v", err)
	}

	if roster.Empty {
		t.Error("roster with students must not be flagged empty")
	}
	if roster.Stats.Total != 4 {
		t.Errorf("Total = %d, want 4 (admins excluded, ungraded included)", roster.Stats.Total)
	}
	if roster.Stats.Enrolled != 2 {
		t.Errorf("Enrolled = %d, want 2", roster.Stats.Enrolled)
	}
	if roster.Stats.Completed != 1 {
		t.Errorf("Completed = %d, want 1", roster.Stats.Completed)
	}
	// Mean of 80, 60 and 40; the scoreless student is left out of the
	// average but still counted above.
	if roster.Stats.AvgScore != 60 {
		t.Errorf("AvgScore = %d, want 60", roster.Stats.AvgScore)
	}
}

func TestGetRoster_OrderingAndRows(t *testing.T) {
	second := studentRecord("s2", "GLA200")
	first := studentRecord("s1", "GLA100")
	first.Name = strPtr("Ada")
	first.ApprovedCourse = strPtr("Using AI to Code")
	first.Score = floatPtr(91)

	service, _ := newAdminServiceForTest(newMockRepository(second, first))

	roster, err := service.GetRoster(context.Background())
	if err != nil {
		t.Fatalf("GetRoster() error: %v", err)
	}

	if len(roster.Students) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(roster.Students))
	}
	if roster.Students[0].GLANumber != "GLA100" {
		t.Errorf("rows must be ordered by GLA number, got %s first", roster.Students[0].GLANumber)
	}

	row := roster.Students[0]
	if row.Name != "Ada" {
		t.Errorf("Name = %q", row.Name)
	}
	if !row.Enrolled || row.ApprovedCourse != "Using AI to Code" {
		t.Errorf("enrollment columns wrong: %+v", row)
	}
	if row.ScoreBand != BandHigh || row.ScoreBadge != "bg-success" {
		t.Errorf("score columns wrong: band=%s badge=%s", row.ScoreBand, row.ScoreBadge)
	}
	if roster.Students[1].LastLogin != "Never" {
		t.Errorf("LastLogin = %q, want Never", roster.Students[1].LastLogin)
	}
}

func TestGetRoster_Empty(t *testing.T) {
	service, _ := newAdminServiceForTest(newMockRepository())

	roster, err := service.GetRoster(context.Background())
	if err != nil {
		t.Fatalf("an empty roster is a valid state, got error: %v", err)
	}
	if !roster.Empty {
		t.Error("expected the empty flag on a roster with no students")
	}
	if len(roster.Students) != 0 {
		t.Errorf("expected no rows, got %d", len(roster.Students))
	}
	if roster.Stats.AvgScore != 0 {
		t.Errorf("AvgScore = %d, want 0", roster.Stats.AvgScore)
	}
}

func TestApproveCourse(t *testing.T) {
	t.Run("success clears application and resets progress", func(t *testing.T) {
		student := studentRecord("s1", "GLA001")
		student.AppliedCourse = strPtr("Coding with Python")
		student.Progress = progressOf(true, true, false)
		repo := newMockRepository(student)
		service, publisher := newAdminServiceForTest(repo)

		notice, err := service.ApproveCourse(context.Background(), "s1", "Coding with Python", "adm")
		if err != nil {
			t.Fatalf("ApproveCourse() error: %v", err)
		}
		if notice == nil || notice.Level != LevelSuccess {
			t.Error("expected a success notice")
		}

		record := repo.user.records["s1"]
		if record.ApprovedCourse == nil || *record.ApprovedCourse != "Coding with Python" {
			t.Error("approved course not written")
		}
		if record.AppliedCourse != nil {
			t.Error("pending application must be cleared on approval")
		}
		if record.GetProgress() != (models.Progress{}) {
			t.Errorf("progress must reset to all-false, got %+v", record.GetProgress())
		}
		if record.ApprovalDate == nil {
			t.Error("approval date not stamped")
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventCourseApproved {
			t.Errorf("expected one course_approved event, got %+v", published)
		}
	})

	t.Run("empty course writes nothing", func(t *testing.T) {
		student := studentRecord("s1", "GLA001")
		student.AppliedCourse = strPtr("Coding with Python")
		repo := newMockRepository(student)
		service, publisher := newAdminServiceForTest(repo)

		notice, err := service.ApproveCourse(context.Background(), "s1", "", "adm")
		if !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("expected ErrValidationFailed, got %v", err)
		}
		if notice == nil || notice.Level != LevelWarning {
			t.Error("expected a warning notice")
		}
		if repo.user.updateCalls != 0 {
			t.Error("no store write may happen for an empty selection")
		}
		if len(publisher.GetPublishedEvents()) != 0 {
			t.Error("no event may be published for an empty selection")
		}
	})

	t.Run("unknown student", func(t *testing.T) {
		service, _ := newAdminServiceForTest(newMockRepository())

		_, err := service.ApproveCourse(context.Background(), "ghost", "Coding with Python", "adm")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDeleteStudent(t *testing.T) {
	t.Run("confirmed delete removes the record", func(t *testing.T) {
		repo := newMockRepository(studentRecord("s1", "GLA001"))
		service, publisher := newAdminServiceForTest(repo)

		notice, err := service.DeleteStudent(context.Background(), "s1", true, "adm")
		if err != nil {
			t.Fatalf("DeleteStudent() error: %v", err)
		}
		if notice == nil || notice.Level != LevelSuccess {
			t.Error("expected a success notice")
		}
		if _, ok := repo.user.records["s1"]; ok {
			t.Error("record must be gone after a confirmed delete")
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventStudentDeleted {
			t.Errorf("expected one student_deleted event, got %+v", published)
		}
	})

	t.Run("unconfirmed delete is a no-op", func(t *testing.T) {
		repo := newMockRepository(studentRecord("s1", "GLA001"))
		service, publisher := newAdminServiceForTest(repo)

		_, err := service.DeleteStudent(context.Background(), "s1", false, "adm")
		if !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("expected ErrValidationFailed, got %v", err)
		}
		if repo.user.deleteCalls != 0 {
			t.Error("no delete may reach the store without confirmation")
		}
		if len(publisher.GetPublishedEvents()) != 0 {
			t.Error("no event may be published without confirmation")
		}
	})

	t.Run("store failure", func(t *testing.T) {
		repo := newMockRepository(studentRecord("s1", "GLA001"))
		repo.user.failWith = errors.New("connection refused")
		service, _ := newAdminServiceForTest(repo)

		_, err := service.DeleteStudent(context.Background(), "s1", true, "adm")
		if !errors.Is(err, ErrStoreError) {
			t.Fatalf("expected ErrStoreError, got %v", err)
		}
	})
}
