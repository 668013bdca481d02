package service

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
	"github.com/dbmshealthcare/clinic-portal/internal/core/ports"
)

// AuditService turns visitor actions into audit events. Emails are stored as
// keyed BLAKE2b-256 digests so the trail can be correlated without holding
// addresses. A nil *AuditService records nothing.
type AuditService struct {
	rec ports.AuditRecorder
	key []byte
	now func() time.Time
}

// NewAuditService validates the digest key (at most 64 bytes).
func NewAuditService(rec ports.AuditRecorder, key string) (*AuditService, error) {
	if len(key) > blake2b.Size {
		return nil, fmt.Errorf("audit: hash key longer than %d bytes", blake2b.Size)
	}
	return &AuditService{rec: rec, key: []byte(key), now: time.Now}, nil
}

// Record emits one event. subject defaults to the session user's email.
func (a *AuditService) Record(sess *domain.Session, action domain.AuditAction, subject, target string, err error) {
	if a == nil || a.rec == nil || sess == nil {
		return
	}
	_, user := sess.Snapshot()
	if subject == "" && user != nil {
		subject = user.Email
	}
	var role domain.Role
	if user != nil {
		role, _ = user.PrimaryRole()
	}

	outcome := "ok"
	if err != nil {
		outcome = string(domain.KindOf(err))
		if outcome == "" {
			outcome = "error"
		}
	}

	a.rec.Record(domain.AuditEvent{
		ID:         uuid.NewString(),
		SessionID:  sess.ID,
		Action:     action,
		Subject:    a.digest(subject),
		Role:       role,
		Target:     target,
		Outcome:    outcome,
		OccurredAt: a.now().UTC(),
	})
}

func (a *AuditService) digest(subject string) string {
	subject = strings.ToLower(strings.TrimSpace(subject))
	if subject == "" {
		return ""
	}
	h, err := blake2b.New256(a.key)
	if err != nil {
		return ""
	}
	_, _ = h.Write([]byte(subject))
	return hex.EncodeToString(h.Sum(nil))
}
