package metrics

import "time"

// NoopMetrics is a no-operation implementation of Recorder.
// All methods are empty, providing zero overhead when metrics are disabled.
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

// License keys - noop implementations
func (n *NoopMetrics) RecordKeyIssued(tier string, count int) {}
func (n *NoopMetrics) RecordKeyRedeemed(success bool)         {}
func (n *NoopMetrics) RecordKeyRevoked()                      {}

// Authorization windows - noop implementations
func (n *NoopMetrics) RecordGrant(mode string, durationSeconds int64) {}
func (n *NoopMetrics) RecordGrantRevoked()                            {}

// Check-in ledger - noop implementations
func (n *NoopMetrics) RecordCheckin(rank int, reward int64) {}

// Currency ledger - noop implementations
func (n *NoopMetrics) RecordDeposit(amount int64)              {}
func (n *NoopMetrics) RecordWithdrawal(amount, interest int64) {}

// Audit trail - noop implementations
func (n *NoopMetrics) RecordAuditDropped()                                    {}
func (n *NoopMetrics) RecordAuditFlush(batchSize int, duration time.Duration) {}
