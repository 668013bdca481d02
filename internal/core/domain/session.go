package domain

import (
	"sync"
	"time"
)

// AuthState is the tri-state of a visitor session. A session starts Unknown
// and, once the first check resolves, moves only between Authenticated and
// Unauthenticated.
type AuthState int

const (
	AuthUnknown AuthState = iota
	AuthAuthenticated
	AuthUnauthenticated
)

func (s AuthState) String() string {
	switch s {
	case AuthAuthenticated:
		return "authenticated"
	case AuthUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// UpstreamCookie is a cookie issued by the auth service and replayed on every
// clinic API call made on behalf of the visitor.
type UpstreamCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitempty"`
}

// NotificationLevel mirrors toast severities.
type NotificationLevel string

const (
	NotifySuccess NotificationLevel = "success"
	NotifyError   NotificationLevel = "error"
	NotifyInfo    NotificationLevel = "info"
)

// Notification is a one-shot message shown on the next rendered view.
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
}

// Session is the per-visitor state owned by the portal. It is constructed
// once per visitor, persisted between requests and passed explicitly to the
// components that need it.
type Session struct {
	mu sync.Mutex

	ID           string           `json:"id"`
	State        AuthState        `json:"state"`
	User         *User            `json:"user,omitempty"`
	Cookies      []UpstreamCookie `json:"cookies,omitempty"`
	Flash        []Notification   `json:"flash,omitempty"`
	Appointments []Appointment    `json:"appointments,omitempty"`
	CheckedAt    time.Time        `json:"checked_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// NewSession returns a session in the Unknown state.
func NewSession(id string, now time.Time) *Session {
	return &Session{ID: id, State: AuthUnknown, CreatedAt: now}
}

// Snapshot returns the state and user under lock.
func (s *Session) Snapshot() (AuthState, *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.State, s.User
}

// Resolve records the outcome of a session check. A nil user means
// unauthenticated; there is no way back to Unknown.
func (s *Session) Resolve(user *User, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.User = user
	s.CheckedAt = now
	if user == nil {
		s.State = AuthUnauthenticated
		s.Appointments = nil
		return
	}
	s.State = AuthAuthenticated
}

// SignOut drops the user and every credential held for the auth service.
func (s *Session) SignOut(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.State = AuthUnauthenticated
	s.User = nil
	s.Cookies = nil
	s.Appointments = nil
	s.CheckedAt = now
}

// Untouched reports whether nothing has happened to a new session yet: the
// check has not run and it holds no cookies, notifications or appointments.
func (s *Session) Untouched() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.State == AuthUnknown && len(s.Cookies) == 0 && len(s.Flash) == 0 && len(s.Appointments) == 0
}

// NeedsCheck reports whether the session check must run: always while
// Unknown, and again once the last check is older than maxAge.
func (s *Session) NeedsCheck(now time.Time, maxAge time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.State == AuthUnknown {
		return true
	}
	return maxAge > 0 && now.Sub(s.CheckedAt) > maxAge
}

// UpstreamCookies returns the cookies still valid at now.
func (s *Session) UpstreamCookies(now time.Time) []UpstreamCookie {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]UpstreamCookie, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		if !c.Expires.IsZero() && now.After(c.Expires) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// StoreUpstreamCookies merges cookies by name. An empty value deletes.
func (s *Session) StoreUpstreamCookies(cookies []UpstreamCookie) {
	if len(cookies) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, nc := range cookies {
		replaced := false
		for i := range s.Cookies {
			if s.Cookies[i].Name == nc.Name {
				s.Cookies[i] = nc
				replaced = true
				break
			}
		}
		if !replaced {
			s.Cookies = append(s.Cookies, nc)
		}
	}
	kept := s.Cookies[:0]
	for _, c := range s.Cookies {
		if c.Value != "" {
			kept = append(kept, c)
		}
	}
	s.Cookies = kept
}

// Notify queues a notification for the next view.
func (s *Session) Notify(level NotificationLevel, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Flash = append(s.Flash, Notification{Level: level, Message: msg})
}

// DrainNotifications returns and clears the pending notifications.
func (s *Session) DrainNotifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.Flash
	s.Flash = nil
	return out
}

// RememberAppointments stores the last fetched appointment list.
func (s *Session) RememberAppointments(list []Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Appointments = append([]Appointment(nil), list...)
}

// PatchAppointment applies fn to one cached appointment in place. It reports
// false when the id is not in the cached list.
func (s *Session) PatchAppointment(id string, fn func(*Appointment)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Appointments {
		if s.Appointments[i].ID == id {
			fn(&s.Appointments[i])
			return true
		}
	}
	return false
}

// KnownAppointments returns a copy of the cached appointment list.
func (s *Session) KnownAppointments() []Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Appointment(nil), s.Appointments...)
}
