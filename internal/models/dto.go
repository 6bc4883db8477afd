package models

import "time"

// ===== COURSE CATALOGUE =====

// Courses offered for enrollment. The student apply flow and the admin
// approval flow both validate against this list.
var KnownCourses = []string{
	"Coding with Python",
	"Using AI to Code",
	"Web Development Fundamentals",
}

// ===== ROSTER DTOs =====

// RosterRow is one student line of the admin roster table.
type RosterRow struct {
	UID            string   `json:"uid"`
	GLANumber      string   `json:"gla_number"`
	Name           string   `json:"name"`
	ApprovedCourse string   `json:"approved_course"`
	Enrolled       bool     `json:"enrolled"`
	Progress       Progress `json:"progress"`
	ProgressBadges []string `json:"progress_badges"`
	Score          *float64 `json:"score"`
	ScoreBand      string   `json:"score_band"`
	ScoreBadge     string   `json:"score_badge"`
	LastLogin      string   `json:"last_login"`
}

// RosterStats are the aggregate counters above the roster table.
// AvgScore averages only students with a score set; the scoreless are
// still counted in Total.
type RosterStats struct {
	Total     int `json:"total"`
	Enrolled  int `json:"enrolled"`
	Completed int `json:"completed"`
	AvgScore  int `json:"avg_score"`
}

type RosterResponse struct {
	Students []RosterRow `json:"students"`
	Stats    RosterStats `json:"stats"`
	Empty    bool        `json:"empty"`
}

// ===== ERROR RESPONSES =====

type ErrorResponse struct {
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
