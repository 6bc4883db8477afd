package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/gla-learning/enrollment-service/internal/models"
)

// stubAdminService serves a canned roster to the exporter.
type stubAdminService struct {
	roster *models.RosterResponse
}

func (s *stubAdminService) GetRoster(ctx context.Context) (*models.RosterResponse, error) {
	return s.roster, nil
}

func (s *stubAdminService) ApproveCourse(ctx context.Context, uid, course, approvedBy string) (*Notification, error) {
	return nil, nil
}

func (s *stubAdminService) DeleteStudent(ctx context.Context, uid string, confirm bool, deletedBy string) (*Notification, error) {
	return nil, nil
}

func TestExportRoster(t *testing.T) {
	roster := &models.RosterResponse{
		Students: []models.RosterRow{
			{
				GLANumber:      "GLA001",
				Name:           "Ada",
				ApprovedCourse: "Coding with Python",
				Progress:       models.Progress{VideosDone: true},
				Score:          floatPtr(88),
				LastLogin:      "2026-03-01 12:00",
			},
			{
				GLANumber: "GLA002",
				Name:      "GLA002",
				LastLogin: "Never",
			},
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewExportService(&stubAdminService{roster: roster}, logger)

	result, err := service.ExportRoster(context.Background())
	if err != nil {
		t.Fatalf("ExportRoster() error: %v", err)
	}
	if !strings.HasPrefix(result.Filename, "roster-") || !strings.HasSuffix(result.Filename, ".xlsx") {
		t.Errorf("Filename = %q", result.Filename)
	}

	f, err := excelize.OpenReader(result.Content)
	if err != nil {
		t.Fatalf("exported file does not open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(rosterSheetName)
	if err != nil {
		t.Fatalf("GetRows() error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "GLA Number" {
		t.Errorf("header = %q", rows[0][0])
	}
	if rows[1][0] != "GLA001" || rows[1][3] != "Yes" {
		t.Errorf("first data row wrong: %v", rows[1])
	}
	if rows[2][6] != "Not taken" {
		t.Errorf("scoreless cell = %q, want Not taken", rows[2][6])
	}
}
