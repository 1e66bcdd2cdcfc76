package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is implemented by Metrics and NoopMetrics. Services record
// through this interface so metrics can be disabled with zero overhead.
type Recorder interface {
	// License keys
	RecordKeyIssued(tier string, count int)
	RecordKeyRedeemed(success bool)
	RecordKeyRevoked()

	// Authorization windows
	RecordGrant(mode string, durationSeconds int64)
	RecordGrantRevoked()

	// Check-in ledger
	RecordCheckin(rank int, reward int64)

	// Currency ledger
	RecordDeposit(amount int64)
	RecordWithdrawal(amount, interest int64)

	// Audit trail
	RecordAuditDropped()
	RecordAuditFlush(batchSize int, duration time.Duration)
}

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the engine
type Metrics struct {
	// License Key Metrics
	KeysIssuedTotal   *prometheus.CounterVec
	KeysRedeemedTotal *prometheus.CounterVec
	KeysRevokedTotal  prometheus.Counter

	// Authorization Window Metrics
	GrantsTotal        *prometheus.CounterVec
	GrantSecondsTotal  prometheus.Counter
	GrantsRevokedTotal prometheus.Counter

	// Check-in Metrics
	CheckinsTotal      *prometheus.CounterVec
	CheckinRewardTotal prometheus.Counter

	// Currency Metrics
	DepositsTotal       prometheus.Counter
	DepositAmountTotal  prometheus.Counter
	WithdrawalsTotal    prometheus.Counter
	WithdrawAmountTotal prometheus.Counter
	InterestPaidTotal   prometheus.Counter

	// Audit Metrics
	AuditDroppedTotal  prometheus.Counter
	AuditFlushSize     prometheus.Histogram
	AuditFlushDuration prometheus.Histogram

	// HTTP Request Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init initializes metrics based on enabled flag.
// If enabled=true, returns Prometheus-based Metrics.
// If enabled=false, returns NoopMetrics (zero overhead).
// Uses sync.Once to ensure Prometheus metrics are only registered once.
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

// initMetrics creates and registers all Prometheus metrics
func initMetrics() *Metrics {
	return &Metrics{
		// License Key Metrics
		KeysIssuedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "license_keys_issued_total",
				Help: "Total number of license keys issued",
			},
			[]string{"tier"},
		),
		KeysRedeemedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "license_keys_redeemed_total",
				Help: "Total number of license key redemption attempts",
			},
			[]string{"result"}, // success, invalid
		),
		KeysRevokedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "license_keys_revoked_total",
				Help: "Total number of license keys revoked before redemption",
			},
		),

		// Authorization Window Metrics
		GrantsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authz_grants_total",
				Help: "Total number of authorization grants applied",
			},
			[]string{"mode"}, // reset, extend
		),
		GrantSecondsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "authz_grant_seconds_total",
				Help: "Total authorization time granted, in seconds",
			},
		),
		GrantsRevokedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "authz_grants_revoked_total",
				Help: "Total number of authorization windows revoked",
			},
		),

		// Check-in Metrics
		CheckinsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkin_total",
				Help: "Total number of successful daily check-ins",
			},
			[]string{"rank_band"}, // first, second, third, rest
		),
		CheckinRewardTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "checkin_reward_total",
				Help: "Total check-in reward paid out, in base units",
			},
		),

		// Currency Metrics
		DepositsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "currency_deposits_total",
				Help: "Total number of deposits into reserve",
			},
		),
		DepositAmountTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "currency_deposit_amount_total",
				Help: "Total amount moved into reserve, in base units",
			},
		),
		WithdrawalsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "currency_withdrawals_total",
				Help: "Total number of withdrawals from reserve",
			},
		),
		WithdrawAmountTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "currency_withdraw_amount_total",
				Help: "Total amount moved out of reserve, in base units",
			},
		),
		InterestPaidTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "currency_interest_paid_total",
				Help: "Total interest paid on withdrawals, in base units",
			},
		),

		// Audit Metrics
		AuditDroppedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "audit_entries_dropped_total",
				Help: "Total number of audit entries dropped due to a full queue",
			},
		),
		AuditFlushSize: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "audit_flush_batch_size",
				Help:    "Number of audit entries written per flush",
				Buckets: []float64{1, 5, 10, 25, 50, 100},
			},
		),
		AuditFlushDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "audit_flush_duration_seconds",
				Help:    "Time taken to flush an audit batch",
				Buckets: prometheus.DefBuckets,
			},
		),

		// HTTP Request Metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request latency in seconds",
				Buckets: []float64{
					0.001,
					0.005,
					0.010,
					0.025,
					0.050,
					0.100,
					0.250,
					0.500,
					1.0,
					2.5,
					5.0,
				},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
		),
	}
}

// RecordKeyIssued records a batch of issued keys for a tier
func (m *Metrics) RecordKeyIssued(tier string, count int) {
	m.KeysIssuedTotal.WithLabelValues(tier).Add(float64(count))
}

// RecordKeyRedeemed records a redemption attempt
func (m *Metrics) RecordKeyRedeemed(success bool) {
	result := "success"
	if !success {
		result = "invalid"
	}
	m.KeysRedeemedTotal.WithLabelValues(result).Inc()
}

// RecordKeyRevoked records an administrative key revocation
func (m *Metrics) RecordKeyRevoked() {
	m.KeysRevokedTotal.Inc()
}

// RecordGrant records an applied authorization grant
func (m *Metrics) RecordGrant(mode string, durationSeconds int64) {
	m.GrantsTotal.WithLabelValues(mode).Inc()
	m.GrantSecondsTotal.Add(float64(durationSeconds))
}

// RecordGrantRevoked records a revoked authorization window
func (m *Metrics) RecordGrantRevoked() {
	m.GrantsRevokedTotal.Inc()
}

// RecordCheckin records a successful daily check-in
func (m *Metrics) RecordCheckin(rank int, reward int64) {
	var band string
	switch rank {
	case 1:
		band = "first"
	case 2:
		band = "second"
	case 3:
		band = "third"
	default:
		band = "rest"
	}
	m.CheckinsTotal.WithLabelValues(band).Inc()
	m.CheckinRewardTotal.Add(float64(reward))
}

// RecordDeposit records a deposit into reserve
func (m *Metrics) RecordDeposit(amount int64) {
	m.DepositsTotal.Inc()
	m.DepositAmountTotal.Add(float64(amount))
}

// RecordWithdrawal records a withdrawal and its interest payout
func (m *Metrics) RecordWithdrawal(amount, interest int64) {
	m.WithdrawalsTotal.Inc()
	m.WithdrawAmountTotal.Add(float64(amount))
	m.InterestPaidTotal.Add(float64(interest))
}

// RecordAuditDropped records an audit entry lost to backpressure
func (m *Metrics) RecordAuditDropped() {
	m.AuditDroppedTotal.Inc()
}

// RecordAuditFlush records a completed audit batch write
func (m *Metrics) RecordAuditFlush(batchSize int, duration time.Duration) {
	m.AuditFlushSize.Observe(float64(batchSize))
	m.AuditFlushDuration.Observe(duration.Seconds())
}
