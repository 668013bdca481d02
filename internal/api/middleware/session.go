package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
	"github.com/dbmshealthcare/clinic-portal/internal/core/ports"
	"github.com/dbmshealthcare/clinic-portal/internal/infrastructure/clinicapi"
)

// Context keys set by Session.
const (
	SessionKey      = "session"
	AuthProviderKey = "auth"
	sessionEndedKey = "session_ended"
	cookieSecureKey = "session_cookie_secure"
)

// SessionCookie carries the signed visitor session id.
const SessionCookie = "portal_session"

// ProviderFactory builds the auth provider bound to one visitor session.
type ProviderFactory func(sess *domain.Session) ports.AuthProvider

type SessionConfig struct {
	Secret       []byte
	TTL          time.Duration
	CookieSecure bool
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

// Session loads the visitor session named by the portal cookie, or starts a
// new one, and binds it to the request: the session and its auth provider
// are set on the echo context and the upstream cookie jar on the request
// context. The session is saved once the handler returns. A new session is
// neither stored nor given a cookie until something happens to it.
func Session(store ports.SessionStore, newProvider ProviderFactory, cfg SessionConfig, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			sess, fresh := loadSession(ctx, c, store, cfg, log)

			c.SetRequest(c.Request().WithContext(clinicapi.WithJar(ctx, sess)))
			c.Set(SessionKey, sess)
			c.Set(AuthProviderKey, newProvider(sess))
			c.Set(cookieSecureKey, cfg.CookieSecure)
			c.Response().Before(func() {
				issueCookie(c, store, sess, fresh, cfg, log)
			})

			err := next(c)

			// The visitor may have gone away; the session must still be stored.
			saveCtx := context.WithoutCancel(ctx)
			if sessionEnded(c) {
				if derr := store.Delete(saveCtx, sess.ID); derr != nil {
					log.Warn().Err(derr).Str("session_id", sess.ID).Msg("session delete failed")
				}
				return err
			}
			if fresh && sess.Untouched() {
				return err
			}
			switch serr := store.Save(saveCtx, sess); {
			case errors.Is(serr, domain.ErrSessionEnded):
				log.Debug().Str("session_id", sess.ID).Msg("session ended during request, changes dropped")
			case serr != nil:
				log.Warn().Err(serr).Str("session_id", sess.ID).Msg("session save failed")
			}
			return err
		}
	}
}

// EndSession expires the portal cookie and marks the request's session for
// deletion once the handler returns. Call it before writing the response.
func EndSession(c echo.Context) {
	c.Set(sessionEndedKey, true)
	secure, _ := c.Get(cookieSecureKey).(bool)
	expireCookie(c, secure)
}

func sessionEnded(c echo.Context) bool {
	ended, _ := c.Get(sessionEndedKey).(bool)
	return ended
}

// loadSession reports fresh when no stored session matched the cookie.
func loadSession(ctx context.Context, c echo.Context, store ports.SessionStore, cfg SessionConfig, log zerolog.Logger) (*domain.Session, bool) {
	if ck, err := c.Cookie(SessionCookie); err == nil {
		if sid, ok := parseSessionID(ck.Value, cfg.Secret); ok {
			sess, err := store.Load(ctx, sid)
			if err == nil {
				return sess, false
			}
			if !errors.Is(err, domain.ErrSessionNotFound) {
				log.Warn().Err(err).Str("session_id", sid).Msg("session load failed, starting a new one")
			}
		}
	}
	return domain.NewSession(uuid.NewString(), time.Now()), true
}

// issueCookie runs right before the response is written. A session ended by
// another request since it was loaded gets an expired cookie instead of a
// renewed one.
func issueCookie(c echo.Context, store ports.SessionStore, sess *domain.Session, fresh bool, cfg SessionConfig, log zerolog.Logger) {
	if sessionEnded(c) {
		return
	}
	if fresh {
		if sess.Untouched() {
			return
		}
		writeCookie(c, sess.ID, cfg)
		return
	}
	ended, err := store.Ended(context.WithoutCancel(c.Request().Context()), sess.ID)
	if err != nil {
		log.Warn().Err(err).Str("session_id", sess.ID).Msg("session end check failed")
	}
	if ended {
		expireCookie(c, cfg.CookieSecure)
		return
	}
	writeCookie(c, sess.ID, cfg)
}

func parseSessionID(raw string, secret []byte) (string, bool) {
	claims := &sessionClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !tkn.Valid || claims.ID == "" {
		return "", false
	}
	return claims.ID, true
}

func signSessionID(sid string, cfg SessionConfig) (string, error) {
	now := time.Now()
	claims := sessionClaims{jwt.RegisteredClaims{
		ID:        sid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
	}}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Secret)
}

// writeCookie re-signs the cookie on every response so an active visitor
// keeps a sliding expiry.
func writeCookie(c echo.Context, sid string, cfg SessionConfig) {
	token, err := signSessionID(sid, cfg)
	if err != nil {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func expireCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
