package domain

import "strings"

// Role is one of the closed set of account roles issued by the auth service.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleDoctor  Role = "DOCTOR"
	RolePatient Role = "PATIENT"
	RoleGuest   Role = "GUEST"
)

// AllRoles is the default allow-list of a protected route.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleDoctor, RolePatient, RoleGuest}
}

// ParseRole normalises s case-insensitively. The auth service may prefix
// authorities with "ROLE_".
func ParseRole(s string) (Role, bool) {
	r := strings.ToUpper(strings.TrimSpace(s))
	r = strings.TrimPrefix(r, "ROLE_")
	switch Role(r) {
	case RoleAdmin, RoleDoctor, RolePatient, RoleGuest:
		return Role(r), true
	}
	return "", false
}

func (r Role) String() string { return string(r) }

// Key is the lowercase form used in dashboard lookups and metric labels.
func (r Role) Key() string { return strings.ToLower(string(r)) }
