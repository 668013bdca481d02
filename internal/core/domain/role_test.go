package domain

import (
	"strings"
	"testing"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"ADMIN":        RoleAdmin,
		"doctor":       RoleDoctor,
		"ROLE_PATIENT": RolePatient,
		" Guest ":      RoleGuest,
	}
	for in, want := range cases {
		got, ok := ParseRole(in)
		if !ok || got != want {
			t.Errorf("%q: expected %s, got %s (ok=%v)", in, want, got, ok)
		}
	}
	if _, ok := ParseRole("NURSE"); ok {
		t.Error("unknown role must not parse")
	}
}

func TestUser_PrimaryRole(t *testing.T) {
	u := &User{Roles: []Role{RoleDoctor, RoleAdmin}}
	if r, ok := u.PrimaryRole(); !ok || r != RoleDoctor {
		t.Errorf("expected first role, got %s", r)
	}
	var nilUser *User
	if _, ok := nilUser.PrimaryRole(); ok {
		t.Error("nil user has no role")
	}
	if nilUser.ProfileID() != "" {
		t.Error("nil user has no profile")
	}
}

func TestValidVisitReason(t *testing.T) {
	if ValidVisitReason(strings.Repeat("x", 9)) == nil {
		t.Error("9 characters must be rejected")
	}
	if ValidVisitReason(strings.Repeat("x", 10)) != nil {
		t.Error("10 characters must be accepted")
	}
	if ValidVisitReason(strings.Repeat("x", 501)) == nil {
		t.Error("501 characters must be rejected")
	}
}
