// Package clinicapi is the data-access layer for the clinic REST API and the
// auth service. Each exported method issues exactly one HTTP request carrying
// the visitor's upstream cookies; failures come back as *domain.APIError.
package clinicapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dbmshealthcare/clinic-portal/internal/api/metrics"
	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
)

const (
	defaultAPIBaseURL  = "http://localhost:8080/api"
	defaultAuthBaseURL = "http://localhost:8080/auth"
	maxResponseBytes   = 4 << 20

	serviceAPI  = "api"
	serviceAuth = "auth"
)

// Config controls how the client reaches the backend.
type Config struct {
	APIBaseURL  string
	AuthBaseURL string
	// Location is the clinic time zone used for zone-less timestamps.
	Location   *time.Location
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client is safe for concurrent use. Credentials are not held by the client;
// they travel with the request context (see WithJar).
type Client struct {
	apiBase    string
	authBase   string
	loc        *time.Location
	httpClient *http.Client
	log        zerolog.Logger
	now        func() time.Time
}

// New creates a Client. The HTTP client has no overall timeout: calls are
// bounded by the caller's context.
func New(cfg Config) (*Client, error) {
	apiBase, err := normaliseBase(cfg.APIBaseURL, defaultAPIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("clinicapi: api base url: %w", err)
	}
	authBase, err := normaliseBase(cfg.AuthBaseURL, defaultAuthBaseURL)
	if err != nil {
		return nil, fmt.Errorf("clinicapi: auth base url: %w", err)
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		apiBase:    apiBase,
		authBase:   authBase,
		loc:        loc,
		httpClient: httpClient,
		log:        cfg.Logger,
		now:        time.Now,
	}, nil
}

func normaliseBase(raw, fallback string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = fallback
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%q is not an absolute url", raw)
	}
	return strings.TrimRight(raw, "/"), nil
}

// CookieJar holds the upstream cookies of one visitor. *domain.Session
// satisfies it.
type CookieJar interface {
	UpstreamCookies(now time.Time) []domain.UpstreamCookie
	StoreUpstreamCookies(cookies []domain.UpstreamCookie)
}

type jarKey struct{}

// WithJar binds a visitor's cookie jar to ctx. Calls made with a context
// carrying no jar are sent anonymously.
func WithJar(ctx context.Context, jar CookieJar) context.Context {
	return context.WithValue(ctx, jarKey{}, jar)
}

func jarFrom(ctx context.Context) CookieJar {
	jar, _ := ctx.Value(jarKey{}).(CookieJar)
	return jar
}

type call struct {
	service string
	method  string
	path    string
	query   url.Values
	in      any
	out     any
}

func (c *Client) api(ctx context.Context, method, path string, query url.Values, in, out any) error {
	return c.invoke(ctx, call{service: serviceAPI, method: method, path: path, query: query, in: in, out: out})
}

func (c *Client) auth(ctx context.Context, method, path string, in, out any) error {
	return c.invoke(ctx, call{service: serviceAuth, method: method, path: path, in: in, out: out})
}

func (c *Client) invoke(ctx context.Context, cl call) error {
	op := cl.method + " " + cl.path
	start := c.now()

	var body io.Reader
	if cl.in != nil {
		payload, err := json.Marshal(cl.in)
		if err != nil {
			return c.fail(cl, start, &domain.APIError{Kind: domain.KindInvalid, Op: op, Err: err})
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.buildURL(cl), body)
	if err != nil {
		return c.fail(cl, start, &domain.APIError{Kind: domain.KindInvalid, Op: op, Err: err})
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	jar := jarFrom(ctx)
	if jar != nil {
		for _, ck := range jar.UpstreamCookies(c.now()) {
			req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(cl, start, &domain.APIError{Kind: domain.KindUnavailable, Op: op, Err: err})
	}
	defer resp.Body.Close()

	if jar != nil {
		jar.StoreUpstreamCookies(c.fromHTTPCookies(resp.Cookies()))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return c.fail(cl, start, &domain.APIError{Kind: domain.KindUnavailable, Op: op, Status: resp.StatusCode, Err: err})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(cl, start, decodeAPIError(op, resp.StatusCode, data))
	}

	if cl.out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, cl.out); err != nil {
			return c.fail(cl, start, &domain.APIError{Kind: domain.KindMalformed, Op: op, Status: resp.StatusCode, Err: err})
		}
	}

	c.observe(cl, start, "ok")
	return nil
}

func (c *Client) buildURL(cl call) string {
	base := c.apiBase
	if cl.service == serviceAuth {
		base = c.authBase
	}
	full := base + "/" + strings.TrimLeft(cl.path, "/")
	if len(cl.query) > 0 {
		full += "?" + cl.query.Encode()
	}
	return full
}

func (c *Client) fail(cl call, start time.Time, apiErr *domain.APIError) error {
	c.observe(cl, start, string(apiErr.Kind))

	// Cancelled requests are the caller walking away, not a backend fault.
	if errors.Is(apiErr, context.Canceled) {
		return apiErr
	}

	evt := c.log.Warn()
	if apiErr.Kind == domain.KindUpstream || apiErr.Kind == domain.KindMalformed || apiErr.Kind == domain.KindUnavailable {
		evt = c.log.Error()
	}
	evt.Err(apiErr).
		Str("service", cl.service).
		Str("method", cl.method).
		Str("path", cl.path).
		Int("status", apiErr.Status).
		Str("kind", string(apiErr.Kind)).
		Msg("upstream call failed")
	return apiErr
}

func (c *Client) observe(cl call, start time.Time, outcome string) {
	metrics.UpstreamRequestsTotal.WithLabelValues(cl.service, cl.method, outcome).Inc()
	metrics.UpstreamRequestDuration.WithLabelValues(cl.service, cl.method).Observe(c.now().Sub(start).Seconds())
}

func (c *Client) fromHTTPCookies(cookies []*http.Cookie) []domain.UpstreamCookie {
	if len(cookies) == 0 {
		return nil
	}
	now := c.now()
	out := make([]domain.UpstreamCookie, 0, len(cookies))
	for _, hc := range cookies {
		uc := domain.UpstreamCookie{Name: hc.Name, Value: hc.Value}
		switch {
		case hc.MaxAge < 0:
			uc.Value = ""
		case hc.MaxAge > 0:
			uc.Expires = now.Add(time.Duration(hc.MaxAge) * time.Second)
		case !hc.Expires.IsZero():
			uc.Expires = hc.Expires
		}
		out = append(out, uc)
	}
	return out
}

// decodeAPIError turns a non-2xx response into a typed error. The auth
// service signals "expired access token, refresh token present" with
// {"status":"unauthorized","code":1}.
func decodeAPIError(op string, status int, body []byte) *domain.APIError {
	apiErr := &domain.APIError{Kind: domain.KindFromStatus(status), Op: op, Status: status}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		if text := strings.TrimSpace(string(body)); text != "" && len(text) < 200 {
			apiErr.Message = text
		}
		return apiErr
	}
	if msg, ok := payload["message"].(string); ok && msg != "" {
		apiErr.Message = msg
	} else if msg, ok := payload["error"].(string); ok && msg != "" {
		apiErr.Message = msg
	}
	if code, ok := payload["code"].(float64); ok && code == 1 && status == http.StatusUnauthorized {
		apiErr.Err = domain.ErrRefreshRequired
	}
	return apiErr
}
