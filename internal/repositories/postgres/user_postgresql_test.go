package postgres

import (
	"testing"
	"time"

	"github.com/gla-learning/enrollment-service/internal/models"
)

func TestBuildUpdateMap(t *testing.T) {
	t.Run("empty patch writes nothing", func(t *testing.T) {
		updates := buildUpdateMap(models.UserRecordPatch{})
		if len(updates) != 0 {
			t.Errorf("expected no updates, got %v", updates)
		}
	})

	t.Run("approval patch", func(t *testing.T) {
		course := "Coding with Python"
		now := time.Now()
		patch := models.UserRecordPatch{
			ApprovedCourse:     &course,
			ClearAppliedCourse: true,
			Progress:           &models.Progress{},
			ApprovalDate:       &now,
		}

		updates := buildUpdateMap(patch)

		if updates["approved_course"] != course {
			t.Errorf("approved_course = %v", updates["approved_course"])
		}
		// Clearing writes NULL; the column is removed, not blanked.
		if v, ok := updates["applied_course"]; !ok || v != nil {
			t.Errorf("applied_course = %v, want explicit nil", v)
		}
		if _, ok := updates["progress"]; !ok {
			t.Error("progress reset missing")
		}
		if updates["approval_date"] != now {
			t.Errorf("approval_date = %v", updates["approval_date"])
		}
		if len(updates) != 4 {
			t.Errorf("unexpected extra columns: %v", updates)
		}
	})

	t.Run("clear flags win over values", func(t *testing.T) {
		score := 50.0
		patch := models.UserRecordPatch{
			Score:      &score,
			ClearScore: true,
		}

		updates := buildUpdateMap(patch)
		if v, ok := updates["score"]; !ok || v != nil {
			t.Errorf("score = %v, want explicit nil", v)
		}
	})
}

func TestNewPostgreSQLRepository(t *testing.T) {
	repo := NewPostgreSQLRepository(RepositoryConfig{})

	if repo.User() == nil {
		t.Error("User() returned nil")
	}
}
