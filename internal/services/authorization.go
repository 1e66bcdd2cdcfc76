package services

import (
	"github.com/go-mkbot/mkcore/internal/clock"
	"github.com/go-mkbot/mkcore/internal/models"
	"github.com/go-mkbot/mkcore/internal/store"
)

// Authorization status values.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

// Grant application modes.
const (
	GrantModeReset  = "reset"
	GrantModeExtend = "extend"
)

const (
	keyGrantedAt = "granted_at"
	keyDuration  = "duration_seconds"
)

// GrantReport describes the outcome of applying a duration to a scope.
type GrantReport struct {
	ScopeID         string `json:"scope_id"`
	Mode            string `json:"mode"`
	AddedSeconds    int64  `json:"added_seconds"`
	DurationSeconds int64  `json:"duration_seconds"`
	GrantedAt       int64  `json:"granted_at"`
	ExpiryEpoch     int64  `json:"expiry_epoch"`
}

// AuthStatusReport is the read-only status card for a scope.
type AuthStatusReport struct {
	ScopeID          string `json:"scope_id"`
	Status           Status `json:"status"`
	GrantedAt        int64  `json:"granted_at"`
	DurationSeconds  int64  `json:"duration_seconds"`
	ExpiryEpoch      int64  `json:"expiry_epoch"`
	RemainingSeconds int64  `json:"remaining_seconds"`
}

// AuthorizationService manages per-scope expiring access windows.
// Status is always computed from the stored grant and the clock at call
// time; nothing is cached across calls.
type AuthorizationService struct {
	store store.Store
	clock clock.Clock
	audit *AuditService
}

func NewAuthorizationService(s store.Store, c clock.Clock, audit *AuditService) *AuthorizationService {
	return &AuthorizationService{store: s, clock: c, audit: audit}
}

func (s *AuthorizationService) grant(scopeID string) models.Grant {
	sc := scopeAuthz(scopeID)
	return models.Grant{
		GrantedAt:       store.Get(s.store, sc, keyGrantedAt, int64(0)),
		DurationSeconds: store.Get(s.store, sc, keyDuration, int64(0)),
	}
}

// Status reports whether the scope's window covers the current instant.
func (s *AuthorizationService) Status(scopeID string) Status {
	if s.grant(scopeID).ActiveAt(s.clock.Now()) {
		return StatusActive
	}
	return StatusExpired
}

// Describe returns the status card for a scope without mutating state.
func (s *AuthorizationService) Describe(scopeID string) *AuthStatusReport {
	now := s.clock.Now()
	g := s.grant(scopeID)

	report := &AuthStatusReport{
		ScopeID:          scopeID,
		Status:           StatusExpired,
		GrantedAt:        g.GrantedAt,
		DurationSeconds:  g.DurationSeconds,
		RemainingSeconds: g.RemainingAt(now),
	}
	if g.ActiveAt(now) {
		report.Status = StatusActive
		report.ExpiryEpoch = g.ExpiryEpoch()
	}
	return report
}

// Grant applies durationSeconds to a scope. An expired (or never
// granted) scope is reset: granted_at moves to now and the duration
// starts over. An active scope is extended: granted_at stays anchored
// and the durations accumulate, so back-to-back grants sum regardless
// of grouping. The reported expiry is always granted_at + duration.
func (s *AuthorizationService) Grant(scopeID string, durationSeconds int64) (*GrantReport, error) {
	if durationSeconds <= 0 {
		return nil, ErrInvalidAmount
	}

	now := s.clock.Now()
	report := &GrantReport{ScopeID: scopeID, AddedSeconds: durationSeconds}

	err := s.store.Update(scopeAuthz(scopeID), func(doc store.Doc) error {
		g := models.Grant{
			GrantedAt:       store.ValueOr(doc, keyGrantedAt, int64(0)),
			DurationSeconds: store.ValueOr(doc, keyDuration, int64(0)),
		}

		if g.ActiveAt(now) {
			report.Mode = GrantModeExtend
			g.DurationSeconds += durationSeconds
		} else {
			report.Mode = GrantModeReset
			g.GrantedAt = now
			g.DurationSeconds = durationSeconds
		}

		doc.SetValue(keyGrantedAt, g.GrantedAt)
		doc.SetValue(keyDuration, g.DurationSeconds)

		report.GrantedAt = g.GrantedAt
		report.DurationSeconds = g.DurationSeconds
		report.ExpiryEpoch = g.ExpiryEpoch()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(&AuditEntry{
		EventType: models.EventGrantApplied,
		ScopeID:   scopeID,
		Detail:    report,
		Success:   true,
	})
	return report, nil
}

// Revoke zeroes the scope's grant. The record stays behind with both
// fields zero rather than being removed.
func (s *AuthorizationService) Revoke(scopeID string) error {
	err := s.store.Update(scopeAuthz(scopeID), func(doc store.Doc) error {
		doc.SetValue(keyGrantedAt, int64(0))
		doc.SetValue(keyDuration, int64(0))
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(&AuditEntry{
		EventType: models.EventGrantRevoked,
		ScopeID:   scopeID,
		Success:   true,
	})
	return nil
}
