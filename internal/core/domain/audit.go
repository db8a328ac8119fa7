package domain

import "time"

// AuditAction tags a security-relevant event. The vocabulary is closed.
type AuditAction string

const (
	AuditLogin                  AuditAction = "LOGIN"
	AuditLoginFailed            AuditAction = "LOGIN_FAILED"
	AuditLoginLocked            AuditAction = "LOGIN_LOCKED"
	AuditAccountLocked          AuditAction = "ACCOUNT_LOCKED"
	AuditPasswordResetRequested AuditAction = "PASSWORD_RESET_REQUESTED"
	AuditPasswordReset          AuditAction = "PASSWORD_RESET"
	AuditPasswordChanged        AuditAction = "PASSWORD_CHANGED"
	AuditAccountCreated         AuditAction = "ACCOUNT_CREATED"
)

// AuditEvent is one immutable entry in the security audit trail. Actor is the
// username string rather than the internal id so the trail stays readable
// after an account is deleted.
type AuditEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	Action    AuditAction    `json:"action"`
	Actor     string         `json:"actor"`
	Detail    map[string]any `json:"detail,omitempty"`
}
