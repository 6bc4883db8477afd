package validator

import (
	"testing"
)

func TestValidate_ApplyCourseRequest(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		course  string
		wantErr bool
	}{
		{name: "offered course", course: "Coding with Python", wantErr: false},
		{name: "another offered course", course: "Web Development Fundamentals", wantErr: false},
		{name: "empty course", course: "", wantErr: true},
		{name: "unknown course", course: "Quantum Knitting", wantErr: true},
		{name: "case mismatch", course: "coding with python", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.Validate(&ApplyCourseRequest{Course: tt.course})
			if (errs != nil) != tt.wantErr {
				t.Errorf("Validate() errors = %v, wantErr %v", errs, tt.wantErr)
			}
		})
	}
}

func TestValidate_DeleteStudentRequest(t *testing.T) {
	v := New()

	if errs := v.Validate(&DeleteStudentRequest{Confirm: true}); errs != nil {
		t.Errorf("confirmed request must pass, got %v", errs)
	}
	if errs := v.Validate(&DeleteStudentRequest{Confirm: false}); errs == nil {
		t.Error("unconfirmed request must fail")
	}
}

func TestValidate_ResolveRouteRequest(t *testing.T) {
	v := New()

	for _, route := range []string{"login", "admin-dashboard", "student-dashboard"} {
		if errs := v.Validate(&ResolveRouteRequest{Route: route}); errs != nil {
			t.Errorf("route %q must pass, got %v", route, errs)
		}
	}
	if errs := v.Validate(&ResolveRouteRequest{Route: "reports"}); errs == nil {
		t.Error("unknown route must fail")
	}
}

func TestCustomRules(t *testing.T) {
	v := New()

	type glaProbe struct {
		Number string `validate:"gla_number"`
	}
	type roleProbe struct {
		Role string `validate:"user_role"`
	}

	t.Run("gla_number", func(t *testing.T) {
		valid := []string{"GLA001", "AB123", "GLAX12345678"}
		for _, n := range valid {
			if errs := v.Validate(&glaProbe{Number: n}); errs != nil {
				t.Errorf("%q must pass, got %v", n, errs)
			}
		}
		invalid := []string{"", "001", "G1", "GLAAA001", "GLA-001"}
		for _, n := range invalid {
			if errs := v.Validate(&glaProbe{Number: n}); errs == nil {
				t.Errorf("%q must fail", n)
			}
		}
	})

	t.Run("user_role", func(t *testing.T) {
		for _, r := range []string{"student", "admin"} {
			if errs := v.Validate(&roleProbe{Role: r}); errs != nil {
				t.Errorf("%q must pass, got %v", r, errs)
			}
		}
		for _, r := range []string{"teacher", "superuser", ""} {
			if errs := v.Validate(&roleProbe{Role: r}); errs == nil {
				t.Errorf("%q must fail", r)
			}
		}
	})
}

func TestValidationErrors_Error(t *testing.T) {
	v := New()

	errs := v.Validate(&ApplyCourseRequest{Course: "nope"})
	if errs == nil {
		t.Fatal("expected validation errors")
	}
	if errs.Error() == "" {
		t.Error("Error() must describe the failure")
	}
	if errs[0].Rule != "known_course" {
		t.Errorf("Rule = %q, want known_course", errs[0].Rule)
	}
}
