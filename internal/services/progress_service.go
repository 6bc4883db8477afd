package services

import (
	"fmt"

	"github.com/gla-learning/enrollment-service/internal/models"
)

// ===== VIEW-STATE DTOs =====

// Course sections in unlock order.
const (
	SectionVideos    = "videos"
	SectionTutorials = "tutorials"
	SectionTest      = "test"
)

// Score bands and the alert/badge classes the rendering surface maps
// them to.
const (
	BandHigh     = "high"
	BandMid      = "mid"
	BandLow      = "low"
	BandUngraded = "ungraded"
)

// ProgressIndicator is one completion badge of the course view.
type ProgressIndicator struct {
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
	Badge     string `json:"badge"`
}

// CourseViewState is the full derived rendering state for one student.
// It is recomputed from the user record on every request; nothing is
// retained between calls.
type CourseViewState struct {
	ShowEnrollment    bool                `json:"show_enrollment"`
	ShowCourseContent bool                `json:"show_course_content"`
	CourseTitle       string              `json:"course_title"`
	PendingCourse     string              `json:"pending_course"`
	UnlockedSections  []string            `json:"unlocked_sections"`
	Indicators        []ProgressIndicator `json:"indicators"`
	ScoreBand         string              `json:"score_band"`
	ScoreClass        string              `json:"score_class"`
	ScoreText         string              `json:"score_text"`
}

// HasSection reports whether the named section is unlocked.
func (s CourseViewState) HasSection(name string) bool {
	for _, section := range s.UnlockedSections {
		if section == name {
			return true
		}
	}
	return false
}

// ===== PROGRESS DERIVATION =====

// DeriveCourseView maps a user record to its rendering state. The
// unlock chain is strictly monotonic: videos are available with the
// approved course, tutorials unlock once videos are done, the test
// unlocks once tutorials are done.
func DeriveCourseView(record *models.UserRecord) CourseViewState {
	state := CourseViewState{
		ScoreBand:  BandUngraded,
		ScoreClass: "badge bg-secondary",
		ScoreText:  "Test Score: Not taken",
	}

	if record.ApprovedCourse == nil || *record.ApprovedCourse == "" {
		// No approved course: the enrollment section stays visible,
		// including while an application is pending.
		state.ShowEnrollment = true
		if record.AppliedCourse != nil {
			state.PendingCourse = *record.AppliedCourse
		}
		return state
	}

	progress := record.GetProgress()

	state.ShowCourseContent = true
	state.CourseTitle = *record.ApprovedCourse
	state.UnlockedSections = []string{SectionVideos}

	// The tutorials gate checks videosDone and the test gate checks
	// tutorialsDone; each section's own flag only feeds its badge.
	if progress.VideosDone {
		state.UnlockedSections = append(state.UnlockedSections, SectionTutorials)
	}
	if progress.TutorialsDone {
		state.UnlockedSections = append(state.UnlockedSections, SectionTest)
	}

	state.Indicators = []ProgressIndicator{
		{Label: "Videos", Completed: progress.VideosDone, Badge: progressBadge(progress.VideosDone)},
		{Label: "Tutorials", Completed: progress.TutorialsDone, Badge: progressBadge(progress.TutorialsDone)},
		{Label: "Assessment", Completed: progress.TestDone, Badge: progressBadge(progress.TestDone)},
	}

	state.ScoreBand = ScoreBand(record.Score)
	state.ScoreClass = ScoreAlertClass(record.Score)
	if record.Score != nil {
		state.ScoreText = fmt.Sprintf("Test Score: %.0f%%", *record.Score)
	}

	return state
}

func progressBadge(completed bool) string {
	if completed {
		return "bg-success"
	}
	return "bg-secondary"
}

// ScoreBand classifies a percentage score: >= 80 high, 60-79 mid,
// below 60 low; no score means ungraded.
func ScoreBand(score *float64) string {
	switch {
	case score == nil:
		return BandUngraded
	case *score >= 80:
		return BandHigh
	case *score >= 60:
		return BandMid
	default:
		return BandLow
	}
}

// ScoreAlertClass returns the alert class for the single-student score
// display.
func ScoreAlertClass(score *float64) string {
	switch ScoreBand(score) {
	case BandHigh:
		return "alert alert-success"
	case BandMid:
		return "alert alert-warning"
	case BandLow:
		return "alert alert-danger"
	default:
		return "badge bg-secondary"
	}
}

// ScoreBadgeClass returns the badge class for the admin roster rows.
// Same banding, different widget.
func ScoreBadgeClass(score *float64) string {
	switch ScoreBand(score) {
	case BandHigh:
		return "bg-success"
	case BandMid:
		return "bg-warning"
	case BandLow:
		return "bg-danger"
	default:
		return "bg-secondary"
	}
}
