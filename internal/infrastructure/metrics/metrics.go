package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Balance resolution metrics
	BalanceResolutions *prometheus.CounterVec
	ResolutionDuration prometheus.Histogram

	// Reconciliation session metrics
	ReconcileTriggers *prometheus.CounterVec
	ReconcileAlerts   *prometheus.CounterVec

	// Withdrawal metrics
	WithdrawalsSubmitted prometheus.Counter
	WithdrawalsApproved  prometheus.Counter
	WithdrawalsFailed    prometheus.Counter
	WithdrawalAmount     prometheus.Histogram

	// Top-up metrics
	TopUpsStarted  prometheus.Counter
	TopUpsCaptured prometheus.Counter
	TopUpAmount    prometheus.Histogram

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisDuration   *prometheus.HistogramVec
	RedisErrors     *prometheus.CounterVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec

	// Change feed metrics
	EventsPublished *prometheus.CounterVec
	EventsDelivered *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Balance resolution metrics
		BalanceResolutions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_balance_resolutions_total",
				Help: "Total available-amount resolutions by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		ResolutionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "wallet_resolution_duration_seconds",
			Help:    "Duration of available-amount resolutions",
			Buckets: prometheus.DefBuckets,
		}),

		// Reconciliation session metrics
		ReconcileTriggers: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_reconcile_triggers_total",
				Help: "Total reconciliation triggers by kind",
			},
			[]string{"kind"},
		),
		ReconcileAlerts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_reconcile_alerts_total",
				Help: "Total reconciliation alerts by kind",
			},
			[]string{"kind"},
		),

		// Withdrawal metrics
		WithdrawalsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wallet_withdrawals_submitted_total",
			Help: "Total withdrawal requests submitted",
		}),
		WithdrawalsApproved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wallet_withdrawals_approved_total",
			Help: "Total withdrawal requests approved",
		}),
		WithdrawalsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wallet_withdrawals_failed_total",
			Help: "Total withdrawal requests marked failed",
		}),
		WithdrawalAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "wallet_withdrawal_amount",
			Help:    "Withdrawal request amounts",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000, 100000},
		}),

		// Top-up metrics
		TopUpsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wallet_topups_started_total",
			Help: "Total top-up orders created",
		}),
		TopUpsCaptured: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wallet_topups_captured_total",
			Help: "Total top-up captures credited to wallets",
		}),
		TopUpAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "wallet_topup_amount",
			Help:    "Top-up amounts",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000, 100000},
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wallet_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wallet_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "wallet_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wallet_redis_duration_seconds",
				Help:    "Redis operation duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Authentication metrics
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"result"},
		),
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_auth_failures_total",
				Help: "Total authentication failures by reason",
			},
			[]string{"reason"},
		),

		// Change feed metrics
		EventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_events_published_total",
				Help: "Total outbox events published to the change feed",
			},
			[]string{"event_type"},
		),
		EventsDelivered: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_events_delivered_total",
				Help: "Total change events delivered to subscribers",
			},
			[]string{"table"},
		),

		// Audit metrics
		AuditLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_audit_logs_created_total",
				Help: "Total audit log entries created",
			},
			[]string{"action", "status"},
		),
	}
}
