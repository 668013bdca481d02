package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
)

func TestNewAuditService_KeyTooLong(t *testing.T) {
	if _, err := NewAuditService(&stubRecorder{}, strings.Repeat("k", 65)); err == nil {
		t.Fatal("expected error for 65-byte key")
	}
}

func TestAuditService_Record(t *testing.T) {
	rec := &stubRecorder{}
	a := newAudit(t, rec)
	sess := signedIn(userWith(domain.RoleDoctor, "doc-1"))

	a.Record(sess, domain.AuditApprove, "", "appt-1", nil)
	a.Record(sess, domain.AuditReject, "", "appt-2", apiErr(domain.KindConflict))
	a.Record(sess, domain.AuditReject, "", "appt-3", errors.New("boom"))

	if len(rec.events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(rec.events))
	}
	e := rec.events[0]
	if e.SessionID != "sess-1" || e.Role != domain.RoleDoctor || e.Target != "appt-1" || e.Outcome != "ok" {
		t.Errorf("unexpected event %+v", e)
	}
	if e.ID == "" || e.OccurredAt.IsZero() {
		t.Error("event id and time must be set")
	}
	if strings.Contains(e.Subject, "@") || len(e.Subject) != 64 {
		t.Errorf("subject must be a hex digest, got %q", e.Subject)
	}
	if rec.events[1].Outcome != "conflict" || rec.events[2].Outcome != "error" {
		t.Errorf("unexpected outcomes %q %q", rec.events[1].Outcome, rec.events[2].Outcome)
	}
}

func TestAuditService_DigestIsStableAndKeyed(t *testing.T) {
	a1, _ := NewAuditService(&stubRecorder{}, "key-one")
	a2, _ := NewAuditService(&stubRecorder{}, "key-two")

	if a1.digest("Visitor@Example.com ") != a1.digest("visitor@example.com") {
		t.Error("digest must ignore case and surrounding space")
	}
	if a1.digest("visitor@example.com") == a2.digest("visitor@example.com") {
		t.Error("different keys must give different digests")
	}
	if a1.digest("") != "" {
		t.Error("empty subject must stay empty")
	}
}

func TestAuditService_NilIsNoop(t *testing.T) {
	var a *AuditService
	a.Record(signedIn(userWith(domain.RoleAdmin, "")), domain.AuditLogin, "", "", nil)
}
