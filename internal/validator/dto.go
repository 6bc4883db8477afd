package validator

// ApplyCourseRequest is the student enrollment application payload.
type ApplyCourseRequest struct {
	Course string `json:"course" validate:"required,known_course"`
}

// ApproveCourseRequest is the admin approval payload. Course is
// validated as non-empty before any store write happens; an empty
// selection is a warning-level no-op.
type ApproveCourseRequest struct {
	Course string `json:"course" validate:"required,known_course"`
}

// DeleteStudentRequest carries the interactive confirmation collected
// before an irreversible delete.
type DeleteStudentRequest struct {
	Confirm bool `json:"confirm" validate:"required,eq=true"`
}

// ResolveRouteRequest asks the session guard for a navigation decision
// for the named logical route.
type ResolveRouteRequest struct {
	Route string `json:"route" validate:"required,oneof=login admin-dashboard student-dashboard"`
}
