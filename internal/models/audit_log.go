package models

import "time"

// Audit event types recorded by the engine.
const (
	EventKeyIssued    = "license.key_issued"
	EventKeyRedeemed  = "license.key_redeemed"
	EventKeyRevoked   = "license.key_revoked"
	EventKeysCleared  = "license.keys_cleared"
	EventGrantApplied = "authz.grant_applied"
	EventGrantRevoked = "authz.grant_revoked"
)

// AuditLog is one recorded privileged operation.
type AuditLog struct {
	ID        string `gorm:"primaryKey"`
	EventType string `gorm:"not null;index"`
	ActorID   string `gorm:"index"` // admin subject or chat user id
	ActorIP   string
	ScopeID   string `gorm:"index"`
	Detail    string // free-form JSON payload
	Success   bool   `gorm:"not null"`
	CreatedAt time.Time
}
