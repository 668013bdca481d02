package domain

// Profile links an account to its doctor or patient record.
type Profile struct {
	UserID string `json:"id"`
	RoleID string `json:"role_id"`
}

// User is the signed-in account as reported by the auth service session check.
type User struct {
	ID      string   `json:"id,omitempty"`
	Email   string   `json:"email"`
	Name    string   `json:"name,omitempty"`
	Roles   []Role   `json:"roles"`
	Profile *Profile `json:"profile,omitempty"`
}

// PrimaryRole returns the first role, which is authoritative for routing and
// dashboard dispatch. Later roles are ignored.
func (u *User) PrimaryRole() (Role, bool) {
	if u == nil || len(u.Roles) == 0 {
		return "", false
	}
	return u.Roles[0], true
}

// ProfileID is the doctor or patient record id, empty when unlinked.
func (u *User) ProfileID() string {
	if u == nil || u.Profile == nil {
		return ""
	}
	return u.Profile.RoleID
}

// Credentials are the sign-in form values.
type Credentials struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// Registration is the sign-up form. It is only accepted by the auth service
// after a successful identity verification in the same session.
type Registration struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
}

// IdentityCheck proves a visitor is a known patient (health number) or
// doctor (licence number) before registration.
type IdentityCheck struct {
	Name                 string `json:"name"`
	PersonalHealthNumber string `json:"personalHealthNumber,omitempty"`
	LicenseNumber        string `json:"licenseNumber,omitempty"`
}
