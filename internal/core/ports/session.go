package ports

import (
	"context"
	"time"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
)

// SessionStore persists visitor sessions between requests. Once a session is
// deleted, Save refuses it with domain.ErrSessionEnded.
type SessionStore interface {
	Load(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, s *domain.Session) error
	Delete(ctx context.Context, id string) error
	Ended(ctx context.Context, id string) (bool, error)
}

// SubmitGuard rejects a second booking submission for the same slot while the
// first is still in flight.
type SubmitGuard interface {
	Acquire(ctx context.Context, sessionID, slotID string) (bool, error)
	Release(ctx context.Context, sessionID, slotID string) error
}

// AuthProvider owns the auth state of one visitor session. All auth state
// changes go through it.
type AuthProvider interface {
	State() domain.AuthState
	User() *domain.User
	// Init runs the session check once while the state is unknown, or again
	// when the last check is older than maxAge.
	Init(ctx context.Context, maxAge time.Duration)
	GetSession(ctx context.Context) *domain.User
	Login(ctx context.Context, creds domain.Credentials) error
	Logout(ctx context.Context) error
	Register(ctx context.Context, reg domain.Registration) error
	VerifyIdentity(ctx context.Context, check domain.IdentityCheck) error
}
