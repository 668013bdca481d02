package domain

import "time"

// AuditAction names a visitor action recorded in the audit trail.
type AuditAction string

const (
	AuditLogin          AuditAction = "login"
	AuditLoginFailed    AuditAction = "login_failed"
	AuditLogout         AuditAction = "logout"
	AuditRegister       AuditAction = "register"
	AuditVerifyIdentity AuditAction = "verify_identity"
	AuditBook           AuditAction = "book"
	AuditCancel         AuditAction = "cancel"
	AuditApprove        AuditAction = "approve"
	AuditReject         AuditAction = "reject"
	AuditEditReason     AuditAction = "edit_reason"
)

// AuditEvent is one entry of the portal audit trail. Subject is a keyed
// digest of the acting email, never the address itself.
type AuditEvent struct {
	ID         string      `bson:"_id"`
	SessionID  string      `bson:"session_id"`
	Action     AuditAction `bson:"action"`
	Subject    string      `bson:"subject,omitempty"`
	Role       Role        `bson:"role,omitempty"`
	Target     string      `bson:"target,omitempty"`
	Outcome    string      `bson:"outcome"`
	OccurredAt time.Time   `bson:"occurred_at"`
}
