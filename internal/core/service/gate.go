package service

import "github.com/dbmshealthcare/clinic-portal/internal/core/domain"

const (
	SignInPath       = "/signin"
	UnauthorizedPath = "/unauthorized"
)

// GateDecision is the outcome of a protected-route check.
type GateDecision int

const (
	// GatePending means the session check has not resolved yet. Nothing may
	// redirect in this state.
	GatePending GateDecision = iota
	GateAuthorized
	GateSignIn
	GateUnauthorized
)

func (d GateDecision) String() string {
	switch d {
	case GateAuthorized:
		return "authorized"
	case GateSignIn:
		return "signin"
	case GateUnauthorized:
		return "unauthorized"
	default:
		return "pending"
	}
}

// RedirectTo is the target path of a redirecting decision, "" otherwise.
func (d GateDecision) RedirectTo() string {
	switch d {
	case GateSignIn:
		return SignInPath
	case GateUnauthorized:
		return UnauthorizedPath
	default:
		return ""
	}
}

// EvaluateGate decides whether the visitor may see a protected route. Only
// the first role counts. An empty allow-list admits every known role.
func EvaluateGate(state domain.AuthState, user *domain.User, allowed []domain.Role) GateDecision {
	if state == domain.AuthUnknown {
		return GatePending
	}
	if user == nil {
		return GateSignIn
	}
	if len(allowed) == 0 {
		allowed = domain.AllRoles()
	}
	role, ok := user.PrimaryRole()
	if !ok {
		return GateUnauthorized
	}
	for _, r := range allowed {
		if r == role {
			return GateAuthorized
		}
	}
	return GateUnauthorized
}
