package models

import (
	"time"

	"gorm.io/datatypes"
)

type UserRole string
type Role = UserRole // Alias for compatibility

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

// IsValid reports whether the role is one of the known enum values.
// Anything else is treated as access-denied by the session guard.
func (r UserRole) IsValid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// Progress tracks the per-course completion flags. All flags default to
// false when a course is approved.
type Progress struct {
	VideosDone    bool `json:"videosDone"`
	TutorialsDone bool `json:"tutorialsDone"`
	TestDone      bool `json:"testDone"`
}

// UserRecord is the per-identity profile and progress document. One
// record per identity, keyed by the identity provider's opaque user id.
type UserRecord struct {
	UID       string   `json:"uid" gorm:"primaryKey;size:255"`
	Role      UserRole `json:"role" gorm:"not null;size:20;index"`
	GLANumber string   `json:"gla_number" gorm:"column:gla_number;size:50;index"`
	Name      *string  `json:"name" gorm:"size:100"`

	// Active course state: at most one of applied/approved is set in
	// steady state (approval clears the pending application).
	AppliedCourse  *string `json:"applied_course" gorm:"size:200"`
	ApprovedCourse *string `json:"approved_course" gorm:"size:200"`

	Progress datatypes.JSONType[Progress] `json:"progress"`

	// Score is a percentage (0-100) written by the grading path, which
	// this service does not own.
	Score *float64 `json:"score"`

	LastLogin       *time.Time `json:"last_login"`
	ApplicationDate *time.Time `json:"application_date"`
	ApprovalDate    *time.Time `json:"approval_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserRecord) TableName() string {
	return "users"
}

// GetProgress unwraps the JSONB progress column.
func (u *UserRecord) GetProgress() Progress {
	return u.Progress.Data()
}

// DisplayName returns the best student-facing label: name first, then
// GLA number.
func (u *UserRecord) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	if u.GLANumber != "" {
		return u.GLANumber
	}
	return "User"
}

// UserRecordPatch is a partial update to a UserRecord. Nil fields are
// left untouched. The Clear flags remove a field entirely by writing
// NULL (approval clears a pending application this way).
type UserRecordPatch struct {
	Name           *string
	AppliedCourse  *string
	ApprovedCourse *string
	Progress       *Progress
	Score          *float64

	LastLogin       *time.Time
	ApplicationDate *time.Time
	ApprovalDate    *time.Time

	ClearAppliedCourse  bool
	ClearApprovedCourse bool
	ClearScore          bool
}

// IsEmpty reports whether the patch would write nothing.
func (p UserRecordPatch) IsEmpty() bool {
	return p.Name == nil &&
		p.AppliedCourse == nil &&
		p.ApprovedCourse == nil &&
		p.Progress == nil &&
		p.Score == nil &&
		p.LastLogin == nil &&
		p.ApplicationDate == nil &&
		p.ApprovalDate == nil &&
		!p.ClearAppliedCourse &&
		!p.ClearApprovedCourse &&
		!p.ClearScore
}
