package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
)

func refreshRequired() error {
	return &domain.APIError{Kind: domain.KindUnauthorized, Op: "POST /me", Status: 401, Err: domain.ErrRefreshRequired}
}

func newProvider(t *testing.T, sess *domain.Session, gw *stubGateway, rec *stubRecorder) *AuthProvider {
	t.Helper()
	p := NewAuthProvider(sess, gw, newAudit(t, rec), discardLogger)
	p.now = func() time.Time { return fixedNow }
	return p
}

// ---------------------------------------------------------------------------
// GetSession tests
// ---------------------------------------------------------------------------

func TestAuthProvider_GetSession_Authenticated(t *testing.T) {
	patient := userWith(domain.RolePatient, "pat-1")
	gw := &stubGateway{meResults: []meResult{{user: patient}}}
	sess := domain.NewSession("s", fixedNow)
	p := newProvider(t, sess, gw, &stubRecorder{})

	got := p.GetSession(context.Background())
	if got == nil || got.Email != patient.Email {
		t.Fatalf("expected patient user, got %+v", got)
	}
	if p.State() != domain.AuthAuthenticated {
		t.Errorf("expected authenticated, got %s", p.State())
	}
	if gw.refreshes != 0 {
		t.Errorf("expected no refresh, got %d", gw.refreshes)
	}
}

func TestAuthProvider_GetSession_RefreshThenRetry(t *testing.T) {
	doctor := userWith(domain.RoleDoctor, "doc-1")
	gw := &stubGateway{meResults: []meResult{{err: refreshRequired()}, {user: doctor}}}
	p := newProvider(t, domain.NewSession("s", fixedNow), gw, &stubRecorder{})

	got := p.GetSession(context.Background())
	if got == nil {
		t.Fatal("expected user after refresh, got nil")
	}
	if gw.refreshes != 1 {
		t.Errorf("expected exactly one refresh, got %d", gw.refreshes)
	}
	if gw.meCalls != 2 {
		t.Errorf("expected two session checks, got %d", gw.meCalls)
	}
	if p.State() != domain.AuthAuthenticated {
		t.Errorf("expected authenticated, got %s", p.State())
	}
}

func TestAuthProvider_GetSession_RetriesOnlyOnce(t *testing.T) {
	gw := &stubGateway{meResults: []meResult{{err: refreshRequired()}}}
	p := newProvider(t, domain.NewSession("s", fixedNow), gw, &stubRecorder{})

	if got := p.GetSession(context.Background()); got != nil {
		t.Fatalf("expected nil user, got %+v", got)
	}
	if gw.refreshes != 1 || gw.meCalls != 2 {
		t.Errorf("expected 1 refresh and 2 checks, got %d and %d", gw.refreshes, gw.meCalls)
	}
	if p.State() != domain.AuthUnauthenticated {
		t.Errorf("expected unauthenticated, got %s", p.State())
	}
}

func TestAuthProvider_GetSession_RefreshFails(t *testing.T) {
	gw := &stubGateway{
		meResults:  []meResult{{err: refreshRequired()}},
		refreshErr: apiErr(domain.KindUnauthorized),
	}
	p := newProvider(t, domain.NewSession("s", fixedNow), gw, &stubRecorder{})

	if got := p.GetSession(context.Background()); got != nil {
		t.Fatalf("expected nil user, got %+v", got)
	}
	if gw.meCalls != 1 {
		t.Errorf("session check must not be retried after a failed refresh, got %d calls", gw.meCalls)
	}
	if p.State() != domain.AuthUnauthenticated {
		t.Errorf("expected unauthenticated, got %s", p.State())
	}
}

func TestAuthProvider_GetSession_PlainUnauthorizedDoesNotRefresh(t *testing.T) {
	gw := &stubGateway{meResults: []meResult{{err: apiErr(domain.KindUnauthorized)}}}
	p := newProvider(t, domain.NewSession("s", fixedNow), gw, &stubRecorder{})

	p.GetSession(context.Background())
	if gw.refreshes != 0 {
		t.Errorf("expected no refresh, got %d", gw.refreshes)
	}
	if p.State() != domain.AuthUnauthenticated {
		t.Errorf("expected unauthenticated, got %s", p.State())
	}
}

func TestAuthProvider_GetSession_AnyFailureIsUnauthenticated(t *testing.T) {
	for _, kind := range []domain.ErrorKind{domain.KindUnavailable, domain.KindUpstream, domain.KindMalformed} {
		t.Run(string(kind), func(t *testing.T) {
			gw := &stubGateway{meResults: []meResult{{err: apiErr(kind)}}}
			p := newProvider(t, domain.NewSession("s", fixedNow), gw, &stubRecorder{})

			if got := p.GetSession(context.Background()); got != nil {
				t.Fatalf("expected nil user, got %+v", got)
			}
			if p.State() != domain.AuthUnauthenticated {
				t.Errorf("expected unauthenticated, got %s", p.State())
			}
		})
	}
}

func TestAuthProvider_GetSession_CancelledKeepsState(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gw := &stubGateway{meResults: []meResult{{err: context.Canceled}}}
	p := newProvider(t, domain.NewSession("s", fixedNow), gw, &stubRecorder{})

	p.GetSession(ctx)
	if p.State() != domain.AuthUnknown {
		t.Errorf("cancelled check must not resolve the session, got %s", p.State())
	}
}

func TestAuthProvider_Init_SkipsResolvedSession(t *testing.T) {
	gw := &stubGateway{meResults: []meResult{{user: userWith(domain.RoleAdmin, "")}}}
	p := newProvider(t, domain.NewSession("s", fixedNow), gw, &stubRecorder{})

	p.Init(context.Background(), 0)
	p.Init(context.Background(), 0)
	if gw.meCalls != 1 {
		t.Errorf("expected one session check, got %d", gw.meCalls)
	}

	p.now = func() time.Time { return fixedNow.Add(10 * time.Minute) }
	p.Init(context.Background(), 5*time.Minute)
	if gw.meCalls != 2 {
		t.Errorf("expected revalidation after maxAge, got %d checks", gw.meCalls)
	}
}

// ---------------------------------------------------------------------------
// Login / Logout / Register tests
// ---------------------------------------------------------------------------

func TestAuthProvider_Login_Success(t *testing.T) {
	rec := &stubRecorder{}
	gw := &stubGateway{meResults: []meResult{{user: userWith(domain.RolePatient, "pat-1")}}}
	p := newProvider(t, domain.NewSession("s", fixedNow), gw, rec)

	if err := p.Login(context.Background(), domain.Credentials{Email: "a@b.c", Password: "secret"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.State() != domain.AuthAuthenticated {
		t.Errorf("expected authenticated, got %s", p.State())
	}
	if got := rec.actions(); len(got) != 1 || got[0] != domain.AuditLogin {
		t.Errorf("expected one login audit event, got %v", got)
	}
}

func TestAuthProvider_Login_InvalidCredentials(t *testing.T) {
	rec := &stubRecorder{}
	gw := &stubGateway{loginErr: apiErr(domain.KindUnauthorized)}
	sess := domain.NewSession("s", fixedNow)
	p := newProvider(t, sess, gw, rec)

	err := p.Login(context.Background(), domain.Credentials{Email: "a@b.c", Password: "bad"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if gw.meCalls != 0 {
		t.Errorf("session check must not run after a rejected sign-in")
	}
	if p.State() != domain.AuthUnknown {
		t.Errorf("state must not change on failed sign-in, got %s", p.State())
	}
	if got := rec.actions(); len(got) != 1 || got[0] != domain.AuditLoginFailed {
		t.Errorf("expected login_failed audit event, got %v", got)
	}
}

func TestAuthProvider_Login_ServiceDown(t *testing.T) {
	gw := &stubGateway{loginErr: apiErr(domain.KindUnavailable)}
	p := newProvider(t, domain.NewSession("s", fixedNow), gw, &stubRecorder{})

	err := p.Login(context.Background(), domain.Credentials{Email: "a@b.c", Password: "x"})
	if errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatal("an outage must not be reported as bad credentials")
	}
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestAuthProvider_Logout(t *testing.T) {
	sess := signedIn(userWith(domain.RoleDoctor, "doc-1"))
	sess.StoreUpstreamCookies([]domain.UpstreamCookie{{Name: "access_token", Value: "x"}})

	gw := &stubGateway{logoutErr: apiErr(domain.KindUnavailable)}
	p := newProvider(t, sess, gw, &stubRecorder{})
	if err := p.Logout(context.Background()); err == nil {
		t.Fatal("expected error from failed logout")
	}
	if p.User() == nil {
		t.Fatal("failed logout must keep the user")
	}

	gw.logoutErr = nil
	if err := p.Logout(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.User() != nil || p.State() != domain.AuthUnauthenticated {
		t.Errorf("expected signed out session, got state %s", p.State())
	}
	if len(sess.UpstreamCookies(fixedNow)) != 0 {
		t.Error("upstream cookies must be dropped on logout")
	}
}

func TestAuthProvider_Register_DoesNotSignIn(t *testing.T) {
	rec := &stubRecorder{}
	gw := &stubGateway{}
	sess := domain.NewSession("s", fixedNow)
	sess.Resolve(nil, fixedNow)
	p := newProvider(t, sess, gw, rec)

	if err := p.Register(context.Background(), domain.Registration{Email: "new@b.c", Password: "pw"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.State() != domain.AuthUnauthenticated {
		t.Errorf("registration must not sign in, got %s", p.State())
	}
	if got := rec.actions(); len(got) != 1 || got[0] != domain.AuditRegister {
		t.Errorf("expected register audit event, got %v", got)
	}
}
