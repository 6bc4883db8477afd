package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
)

const rosterSheetName = "Roster"

// ===== SERVICE INTERFACE =====

// ExportService renders the admin roster as a downloadable spreadsheet.
type ExportService interface {
	ExportRoster(ctx context.Context) (*ExportResult, error)
}

// ExportResult carries the rendered file and the suggested filename.
type ExportResult struct {
	Filename string
	Content  *bytes.Buffer
}

// ===== SERVICE IMPLEMENTATION =====

type exportService struct {
	admin  AdminService
	logger *slog.Logger
}

func NewExportService(admin AdminService, logger *slog.Logger) ExportService {
	return &exportService{
		admin:  admin,
		logger: logger,
	}
}

var rosterHeaders = []string{
	"GLA Number", "Name", "Approved Course", "Videos", "Tutorials", "Test", "Score", "Last Login",
}

func (s *exportService) ExportRoster(ctx context.Context) (*ExportResult, error) {
	roster, err := s.admin.GetRoster(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Exporting roster", "students", len(roster.Students))

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(rosterSheetName)
	if err != nil {
		return nil, fmt.Errorf("export roster: %w: %v", ErrStoreError, err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, header := range rosterHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(rosterSheetName, cell, header); err != nil {
			return nil, fmt.Errorf("export roster: %w: %v", ErrStoreError, err)
		}
	}

	for i, row := range roster.Students {
		values := []interface{}{
			row.GLANumber,
			row.Name,
			row.ApprovedCourse,
			yesNo(row.Progress.VideosDone),
			yesNo(row.Progress.TutorialsDone),
			yesNo(row.Progress.TestDone),
			scoreCell(row.Score),
			row.LastLogin,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(rosterSheetName, cell, value); err != nil {
				return nil, fmt.Errorf("export roster: %w: %v", ErrStoreError, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export roster: %w: %v", ErrStoreError, err)
	}

	return &ExportResult{
		Filename: fmt.Sprintf("roster-%s.xlsx", time.Now().Format("2006-01-02")),
		Content:  buf,
	}, nil
}

func yesNo(done bool) string {
	if done {
		return "Yes"
	}
	return "No"
}

func scoreCell(score *float64) interface{} {
	if score == nil {
		return "Not taken"
	}
	return *score
}
