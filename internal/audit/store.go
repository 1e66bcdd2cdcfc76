// Package audit persists the trail of privileged engine operations
// (key issuance, redemptions, grants) in a relational store, separate
// from the JSON scope documents the engine itself lives in.
package audit

import (
	"fmt"
	"time"

	"github.com/go-mkbot/mkcore/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Store struct {
	db *gorm.DB
}

// Open opens (and migrates) the audit database at the given sqlite DSN.
// Use ":memory:" in tests.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	if err := db.AutoMigrate(&models.AuditLog{}); err != nil {
		return nil, fmt.Errorf("migrate audit db: %w", err)
	}
	return &Store{db: db}, nil
}

// InsertBatch writes a batch of audit logs in one statement.
func (s *Store) InsertBatch(logs []*models.AuditLog) error {
	if len(logs) == 0 {
		return nil
	}
	return s.db.Create(logs).Error
}

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	EventType string
	ScopeID   string
	ActorID   string
	Limit     int
}

// List returns matching logs, newest first.
func (s *Store) List(filter ListFilter) ([]models.AuditLog, error) {
	q := s.db.Model(&models.AuditLog{}).Order("created_at DESC")
	if filter.EventType != "" {
		q = q.Where("event_type = ?", filter.EventType)
	}
	if filter.ScopeID != "" {
		q = q.Where("scope_id = ?", filter.ScopeID)
	}
	if filter.ActorID != "" {
		q = q.Where("actor_id = ?", filter.ActorID)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var logs []models.AuditLog
	err := q.Limit(limit).Find(&logs).Error
	return logs, err
}

// DeleteOlderThan removes logs created before the retention cutoff and
// returns the number deleted.
func (s *Store) DeleteOlderThan(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	res := s.db.Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	return res.RowsAffected, res.Error
}

// Health checks the underlying connection.
func (s *Store) Health() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
