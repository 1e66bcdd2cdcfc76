package services

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/go-mkbot/mkcore/internal/clock"
	"github.com/go-mkbot/mkcore/internal/models"
	"github.com/go-mkbot/mkcore/internal/store"
)

// Issue batch bounds.
const (
	minIssueCount = 1
	maxIssueCount = 100
)

// IssueReport lists the keys produced by one Issue call.
type IssueReport struct {
	Tier            models.Tier `json:"tier"`
	DurationSeconds int64       `json:"duration_seconds"`
	Keys            []string    `json:"keys"`
}

// RedeemReport combines the consumed key with the grant it produced.
type RedeemReport struct {
	KeyID string       `json:"key_id"`
	Tier  models.Tier  `json:"tier"`
	Grant *GrantReport `json:"grant"`
}

// KeyListing is one unconsumed key in a List result.
type KeyListing struct {
	KeyID           string      `json:"key_id"`
	Tier            models.Tier `json:"tier"`
	DurationSeconds int64       `json:"duration_seconds"`
}

// ListReport is the full registry inventory with per-tier counts.
type ListReport struct {
	Keys         []KeyListing        `json:"keys"`
	CountsByTier map[models.Tier]int `json:"counts_by_tier"`
	Total        int                 `json:"total"`
}

// LicenseService issues and consumes one-time redemption keys. A key
// carries a tier and the authorization duration that tier grants;
// redeeming it applies the duration to a scope and removes the key.
type LicenseService struct {
	authz *AuthorizationService
	store store.Store
	clock clock.Clock
	audit *AuditService
}

func NewLicenseService(
	authz *AuthorizationService,
	s store.Store,
	c clock.Clock,
	audit *AuditService,
) *LicenseService {
	return &LicenseService{authz: authz, store: s, clock: c, audit: audit}
}

// newKeyID builds "MK" + 6 random digits + epoch seconds. The random
// block comes from crypto/rand; collisions with existing keys are
// re-rolled by the caller.
func (s *LicenseService) newKeyID() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	var digits int64
	if err == nil {
		digits = 100000 + n.Int64()
	} else {
		// crypto/rand failing is effectively fatal elsewhere; fall back
		// to the clock so issuance still terminates.
		digits = 100000 + s.clock.Now()%900000
	}
	return fmt.Sprintf("MK%d%d", digits, s.clock.Now())
}

// Issue creates count fresh keys of the given tier. count outside
// 1..100 is rejected with ErrInvalidAmount.
func (s *LicenseService) Issue(tier models.Tier, count int, actorID string) (*IssueReport, error) {
	if !tier.Valid() {
		return nil, fmt.Errorf("%w: unknown tier %q", ErrInvalidAmount, tier)
	}
	if count < minIssueCount || count > maxIssueCount {
		return nil, ErrInvalidAmount
	}

	duration := tier.DurationSeconds()
	report := &IssueReport{Tier: tier, DurationSeconds: duration}

	err := s.store.Update(scopeLicenseKeys, func(doc store.Doc) error {
		for i := 0; i < count; i++ {
			id := s.newKeyID()
			for doc.Has(id) {
				id = s.newKeyID()
			}
			doc.SetValue(id, models.LicenseKey{Tier: tier, DurationSeconds: duration})
			report.Keys = append(report.Keys, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(&AuditEntry{
		EventType: models.EventKeyIssued,
		ActorID:   actorID,
		Detail:    report,
		Success:   true,
	})
	return report, nil
}

// Redeem consumes keyID and applies its duration to scopeID. An unknown
// key fails with ErrInvalidKey and changes nothing. A known key is
// claimed atomically (so it can only ever be consumed once) and then
// granted; the grant itself cannot fail.
func (s *LicenseService) Redeem(keyID, scopeID, actorID string) (*RedeemReport, error) {
	var key models.LicenseKey

	err := s.store.Update(scopeLicenseKeys, func(doc store.Doc) error {
		if !store.Value(doc, keyID, &key) {
			return ErrInvalidKey
		}
		doc.Delete(keyID)
		return nil
	})
	if err != nil {
		s.audit.Record(&AuditEntry{
			EventType: models.EventKeyRedeemed,
			ActorID:   actorID,
			ScopeID:   scopeID,
			Detail:    map[string]string{"key_id": keyID},
			Success:   false,
		})
		return nil, err
	}

	grant, err := s.authz.Grant(scopeID, key.DurationSeconds)
	if err != nil {
		return nil, err
	}

	report := &RedeemReport{KeyID: keyID, Tier: key.Tier, Grant: grant}
	s.audit.Record(&AuditEntry{
		EventType: models.EventKeyRedeemed,
		ActorID:   actorID,
		ScopeID:   scopeID,
		Detail:    report,
		Success:   true,
	})
	return report, nil
}

// List returns every unconsumed key with per-tier counts.
func (s *LicenseService) List() *ListReport {
	report := &ListReport{CountsByTier: make(map[models.Tier]int)}

	for _, id := range s.store.Keys(scopeLicenseKeys) {
		key := store.Get(s.store, scopeLicenseKeys, id, models.LicenseKey{})
		if !key.Tier.Valid() {
			continue
		}
		report.Keys = append(report.Keys, KeyListing{
			KeyID:           id,
			Tier:            key.Tier,
			DurationSeconds: key.DurationSeconds,
		})
		report.CountsByTier[key.Tier]++
	}
	report.Total = len(report.Keys)
	return report
}

// Revoke removes one unconsumed key without granting anything.
func (s *LicenseService) Revoke(keyID, actorID string) error {
	err := s.store.Update(scopeLicenseKeys, func(doc store.Doc) error {
		if !doc.Has(keyID) {
			return ErrInvalidKey
		}
		doc.Delete(keyID)
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(&AuditEntry{
		EventType: models.EventKeyRevoked,
		ActorID:   actorID,
		Detail:    map[string]string{"key_id": keyID},
		Success:   true,
	})
	return nil
}

// Clear removes every unconsumed key and returns how many were removed.
func (s *LicenseService) Clear(actorID string) (int, error) {
	removed := 0
	err := s.store.Update(scopeLicenseKeys, func(doc store.Doc) error {
		for _, id := range doc.Keys() {
			doc.Delete(id)
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.audit.Record(&AuditEntry{
		EventType: models.EventKeysCleared,
		ActorID:   actorID,
		Detail:    map[string]int{"removed": removed},
		Success:   true,
	})
	return removed, nil
}
