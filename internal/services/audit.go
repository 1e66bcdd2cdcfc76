package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/go-mkbot/mkcore/internal/audit"
	"github.com/go-mkbot/mkcore/internal/metrics"
	"github.com/go-mkbot/mkcore/internal/models"

	"github.com/google/uuid"
)

// AuditEntry is the data a caller supplies for one audit record.
type AuditEntry struct {
	EventType string
	ActorID   string
	ActorIP   string
	ScopeID   string
	Detail    any // marshaled to JSON; nil for none
	Success   bool
}

// AuditService batches audit records and writes them asynchronously so
// engine operations never block on the audit database. A nil
// *AuditService is valid and drops every record, which keeps the engine
// usable as a plain library.
type AuditService struct {
	store   *audit.Store
	metrics metrics.Recorder

	logChan    chan *models.AuditLog
	batch      []*models.AuditLog
	batchMu    sync.Mutex
	ticker     *time.Ticker
	wg         sync.WaitGroup
	shutdownCh chan struct{}
}

const auditBatchSize = 100

// NewAuditService starts the background writer.
func NewAuditService(s *audit.Store, bufferSize int, rec metrics.Recorder) *AuditService {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	if rec == nil {
		rec = metrics.NewNoopMetrics()
	}
	svc := &AuditService{
		store:      s,
		metrics:    rec,
		logChan:    make(chan *models.AuditLog, bufferSize),
		batch:      make([]*models.AuditLog, 0, auditBatchSize),
		ticker:     time.NewTicker(1 * time.Second),
		shutdownCh: make(chan struct{}),
	}
	svc.wg.Add(1)
	go svc.worker()
	return svc
}

// Record queues one audit entry. Records are dropped when the buffer is
// full or the service is nil; auditing never blocks the caller.
func (s *AuditService) Record(entry *AuditEntry) {
	if s == nil {
		return
	}

	detail := ""
	if entry.Detail != nil {
		if raw, err := json.Marshal(entry.Detail); err == nil {
			detail = string(raw)
		}
	}

	rec := &models.AuditLog{
		ID:        uuid.New().String(),
		EventType: entry.EventType,
		ActorID:   entry.ActorID,
		ActorIP:   entry.ActorIP,
		ScopeID:   entry.ScopeID,
		Detail:    detail,
		Success:   entry.Success,
		CreatedAt: time.Now(),
	}

	select {
	case s.logChan <- rec:
	default:
		s.metrics.RecordAuditDropped()
		log.Printf("audit buffer full, dropping event %s", entry.EventType)
	}
}

// List queries stored audit logs.
func (s *AuditService) List(filter audit.ListFilter) ([]models.AuditLog, error) {
	return s.store.List(filter)
}

// CleanupOldLogs removes logs outside the retention window.
func (s *AuditService) CleanupOldLogs(retention time.Duration) (int64, error) {
	return s.store.DeleteOlderThan(retention)
}

// Shutdown flushes pending records and stops the worker.
func (s *AuditService) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	close(s.shutdownCh)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *AuditService) worker() {
	defer s.wg.Done()

	for {
		select {
		case rec := <-s.logChan:
			s.addToBatch(rec)

		case <-s.ticker.C:
			s.flush()

		case <-s.shutdownCh:
			s.ticker.Stop()
			// Drain whatever is still queued, then flush once more.
			for {
				select {
				case rec := <-s.logChan:
					s.addToBatch(rec)
				default:
					s.flush()
					return
				}
			}
		}
	}
}

func (s *AuditService) addToBatch(rec *models.AuditLog) {
	s.batchMu.Lock()
	s.batch = append(s.batch, rec)
	full := len(s.batch) >= auditBatchSize
	s.batchMu.Unlock()

	if full {
		s.flush()
	}
}

func (s *AuditService) flush() {
	s.batchMu.Lock()
	if len(s.batch) == 0 {
		s.batchMu.Unlock()
		return
	}
	toWrite := s.batch
	s.batch = make([]*models.AuditLog, 0, auditBatchSize)
	s.batchMu.Unlock()

	start := time.Now()
	if err := s.store.InsertBatch(toWrite); err != nil {
		log.Printf("failed to write %d audit logs: %v", len(toWrite), err)
		return
	}
	s.metrics.RecordAuditFlush(len(toWrite), time.Since(start))
}
