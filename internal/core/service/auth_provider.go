package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dbmshealthcare/clinic-portal/internal/api/metrics"
	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
	"github.com/dbmshealthcare/clinic-portal/internal/core/ports"
)

// AuthProvider owns the auth state of one visitor session. It is built per
// request around the visitor's session and is the only component that
// changes that session's auth state.
type AuthProvider struct {
	sess    *domain.Session
	gateway ports.AuthGateway
	audit   *AuditService
	log     zerolog.Logger
	now     func() time.Time
}

// NewAuthProvider binds a provider to sess.
func NewAuthProvider(sess *domain.Session, gateway ports.AuthGateway, audit *AuditService, log zerolog.Logger) *AuthProvider {
	return &AuthProvider{
		sess:    sess,
		gateway: gateway,
		audit:   audit,
		log:     log.With().Str("session_id", sess.ID).Logger(),
		now:     time.Now,
	}
}

func (p *AuthProvider) State() domain.AuthState {
	state, _ := p.sess.Snapshot()
	return state
}

func (p *AuthProvider) User() *domain.User {
	_, user := p.sess.Snapshot()
	return user
}

// Init runs the session check while the state is unknown, and again once the
// previous check is older than maxAge (0 disables revalidation).
func (p *AuthProvider) Init(ctx context.Context, maxAge time.Duration) {
	if p.sess.NeedsCheck(p.now(), maxAge) {
		p.GetSession(ctx)
	}
}

// GetSession asks the auth service who the visitor is. An expired access
// token is refreshed once and the check retried once; every other failure
// resolves to no user. It never returns an error.
func (p *AuthProvider) GetSession(ctx context.Context) *domain.User {
	user, err := p.gateway.Me(ctx)
	if err != nil && errors.Is(err, domain.ErrRefreshRequired) {
		if rerr := p.gateway.Refresh(ctx); rerr != nil {
			metrics.TokenRefreshesTotal.WithLabelValues("failed").Inc()
			err = rerr
		} else {
			metrics.TokenRefreshesTotal.WithLabelValues("ok").Inc()
			user, err = p.gateway.Me(ctx)
		}
	}

	if err != nil {
		// An abandoned request says nothing about the visitor; keep the
		// current state for the next request to settle.
		if ctx.Err() != nil {
			return p.User()
		}
		p.log.Debug().Err(err).Str("kind", string(domain.KindOf(err))).Msg("session check resolved to no user")
		user = nil
	}

	p.sess.Resolve(user, p.now())
	state, _ := p.sess.Snapshot()
	metrics.SessionChecksTotal.WithLabelValues(state.String()).Inc()
	return user
}

// Login signs in and, on success, runs the session check. A rejected sign-in
// wraps domain.ErrInvalidCredentials.
func (p *AuthProvider) Login(ctx context.Context, creds domain.Credentials) error {
	if err := p.gateway.Login(ctx, creds); err != nil {
		p.audit.Record(p.sess, domain.AuditLoginFailed, creds.Email, "", err)
		switch domain.KindOf(err) {
		case domain.KindUnauthorized, domain.KindInvalid, domain.KindNotFound:
			return fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, err)
		}
		return fmt.Errorf("login: %w", err)
	}

	user := p.GetSession(ctx)
	if user == nil {
		err := fmt.Errorf("login: session check after sign-in: %w", domain.ErrUnavailable)
		p.audit.Record(p.sess, domain.AuditLoginFailed, creds.Email, "", err)
		return err
	}

	p.audit.Record(p.sess, domain.AuditLogin, "", "", nil)
	p.log.Info().Str("role", firstRole(user)).Msg("signed in")
	return nil
}

// Logout signs out upstream and, only on success, clears the local user.
func (p *AuthProvider) Logout(ctx context.Context) error {
	if err := p.gateway.Logout(ctx); err != nil {
		p.audit.Record(p.sess, domain.AuditLogout, "", "", err)
		return fmt.Errorf("logout: %w", err)
	}
	p.audit.Record(p.sess, domain.AuditLogout, "", "", nil)
	p.sess.SignOut(p.now())
	return nil
}

// Register creates an account. It does not sign the visitor in.
func (p *AuthProvider) Register(ctx context.Context, reg domain.Registration) error {
	err := p.gateway.Register(ctx, reg)
	p.audit.Record(p.sess, domain.AuditRegister, reg.Email, "", err)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// VerifyIdentity proves the visitor is a known patient or doctor. The auth
// service answers with a verification cookie that registration requires.
func (p *AuthProvider) VerifyIdentity(ctx context.Context, check domain.IdentityCheck) error {
	err := p.gateway.VerifyIdentity(ctx, check)
	p.audit.Record(p.sess, domain.AuditVerifyIdentity, "", "", err)
	if err != nil {
		return fmt.Errorf("verify identity: %w", err)
	}
	return nil
}

func firstRole(u *domain.User) string {
	r, _ := u.PrimaryRole()
	return r.String()
}
