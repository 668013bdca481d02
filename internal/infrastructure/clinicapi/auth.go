package clinicapi

import (
	"context"
	"net/http"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
)

// Me runs the session check and decodes the claim set into a user.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var cl claims
	if err := c.auth(ctx, http.MethodPost, "/me", nil, &cl); err != nil {
		return nil, err
	}
	if cl.Sub == "" && cl.Email == "" {
		return nil, &domain.APIError{Kind: domain.KindMalformed, Op: "POST /me", Status: http.StatusOK, Message: "session check returned no subject"}
	}
	return cl.toUser(), nil
}

func (c *Client) Refresh(ctx context.Context) error {
	return c.auth(ctx, http.MethodPost, "/refresh", nil, nil)
}

func (c *Client) Login(ctx context.Context, creds domain.Credentials) error {
	return c.auth(ctx, http.MethodPost, "/login", creds, nil)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.auth(ctx, http.MethodPost, "/logout", nil, nil)
}

func (c *Client) Register(ctx context.Context, reg domain.Registration) error {
	return c.auth(ctx, http.MethodPost, "/register", reg, nil)
}

// VerifyIdentity stores the short-lived verification cookie in the jar so the
// following Register call carries it.
func (c *Client) VerifyIdentity(ctx context.Context, check domain.IdentityCheck) error {
	return c.auth(ctx, http.MethodPost, "/identity", check, nil)
}
