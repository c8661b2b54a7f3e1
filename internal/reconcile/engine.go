// Package reconcile keeps a per-session "available for withdrawal" figure
// current against a ledger that other actors mutate at any time. It is a
// debounced re-fetcher: every trigger means "something may have changed,
// re-verify", never "the state is now exactly X".
package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/starclip/wallet/internal/domain"
	"github.com/starclip/wallet/internal/infrastructure/metrics"
	"github.com/starclip/wallet/internal/usecase"
)

// TriggerKind identifies what prompted a re-verification.
type TriggerKind string

const (
	TriggerInitialLoad        TriggerKind = "initial_load"
	TriggerEarningsChanged    TriggerKind = "earnings_changed"
	TriggerManualRefresh      TriggerKind = "manual_refresh"
	TriggerWalletPush         TriggerKind = "wallet_push"
	TriggerWithdrawalPush     TriggerKind = "withdrawal_push"
	TriggerWithdrawalApproved TriggerKind = "withdrawal_approved"
)

// Resolver resolves the available amount for a user.
type Resolver interface {
	AvailableForWithdrawal(ctx context.Context, userID string) (decimal.Decimal, usecase.ResolutionSource, error)
}

// Alerter receives the user-facing signals the session decides to emit.
// Ordinary decreases are deliberately silent.
type Alerter interface {
	AmountIncreased(ctx context.Context, userID string, amount decimal.Decimal)
	AmountCleared(ctx context.Context, userID string)
}

// Delays configures the settle delays between a trigger and its fetch.
type Delays struct {
	// EarningsSettle runs after an earnings change, long enough for the
	// ledger's own write path to finish the follow-up writes an immediate
	// read would race against.
	EarningsSettle time.Duration
	// PushSettle runs after a push-driven trigger. Shorter than the
	// earnings delay because pushes arrive after the write already landed.
	PushSettle time.Duration
	// ApprovalConfirm runs after the optimistic zero on a withdrawal
	// approval, correcting it if other earnings arrived in the interim.
	ApprovalConfirm time.Duration
}

func (d Delays) withDefaults() Delays {
	if d.EarningsSettle == 0 {
		d.EarningsSettle = 800 * time.Millisecond
	}
	if d.PushSettle == 0 {
		d.PushSettle = 500 * time.Millisecond
	}
	if d.ApprovalConfirm == 0 {
		d.ApprovalConfirm = time.Second
	}
	return d
}

// epsilon below which two amounts are considered equal for alerting.
var epsilon = decimal.RequireFromString("0.01")

// State is a point-in-time view of a session.
type State struct {
	Available  decimal.Decimal
	Resolved   bool
	Loading    bool
	LastUpdate time.Time
	Trigger    uint64
}

// SessionConfig configures a Session.
type SessionConfig struct {
	UserID   string
	Resolver Resolver
	Alerter  Alerter // optional
	Delays   Delays
	Metrics  *metrics.Metrics // optional
	Logger   *slog.Logger
}

// Session owns the reconciliation state for one user for the lifetime of
// one view. It is safe for concurrent use; Close releases its timers and
// every subscription bound to it.
type Session struct {
	userID   string
	resolver Resolver
	alerter  Alerter
	delays   Delays
	metrics  *metrics.Metrics
	logger   *slog.Logger

	mu         sync.Mutex
	available  decimal.Decimal
	resolved   bool
	loading    bool
	lastUpdate time.Time
	trigger    uint64
	generation uint64
	appliedGen uint64
	timers     map[TriggerKind]*time.Timer
	subs       []usecase.ChangeSubscription
	closed     bool
}

// NewSession creates a session for one user. Call Trigger with
// TriggerInitialLoad to populate it.
func NewSession(cfg SessionConfig) *Session {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Session{
		userID:   cfg.UserID,
		resolver: cfg.Resolver,
		alerter:  cfg.Alerter,
		delays:   cfg.Delays.withDefaults(),
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		timers:   make(map[TriggerKind]*time.Timer),
	}
}

// Trigger tells the session that something may have changed. Each kind has
// its own settle policy; concurrent in-flight resolutions are allowed and a
// stale result never overwrites a fresher one.
func (s *Session) Trigger(ctx context.Context, kind TriggerKind) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	s.trigger++
	s.countTrigger(kind)

	switch kind {
	case TriggerInitialLoad:
		gen := s.nextGenLocked()
		s.mu.Unlock()
		go s.resolve(ctx, gen)

	case TriggerManualRefresh:
		s.loading = true
		gen := s.nextGenLocked()
		s.mu.Unlock()
		go s.resolve(ctx, gen)

	case TriggerEarningsChanged:
		s.scheduleLocked(ctx, kind, s.delays.EarningsSettle)
		s.mu.Unlock()

	case TriggerWalletPush, TriggerWithdrawalPush:
		s.scheduleLocked(ctx, kind, s.delays.PushSettle)
		s.mu.Unlock()

	case TriggerWithdrawalApproved:
		// The one trigger with a guaranteed post-condition: money has
		// left the available pool. Assert it immediately, then confirm.
		hadFunds := s.resolved && s.available.GreaterThan(epsilon)
		s.available = decimal.Zero
		s.resolved = true
		s.lastUpdate = time.Now().UTC()
		s.scheduleLocked(ctx, kind, s.delays.ApprovalConfirm)
		s.mu.Unlock()

		if hadFunds && s.alerter != nil {
			s.countAlert("cleared")
			s.alerter.AmountCleared(ctx, s.userID)
		}

	default:
		s.mu.Unlock()
	}
}

// Refresh is shorthand for a manual, loading-visible refresh.
func (s *Session) Refresh(ctx context.Context) {
	s.Trigger(ctx, TriggerManualRefresh)
}

// State returns the current reconciliation state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return State{
		Available:  s.available,
		Resolved:   s.resolved,
		Loading:    s.loading,
		LastUpdate: s.lastUpdate,
		Trigger:    s.trigger,
	}
}

// Close tears the session down: pending timers are cleared so nothing
// updates state after disposal, and bound subscriptions are released.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	for _, sub := range subs {
		if err := sub.Close(); err != nil {
			s.logger.Warn("failed to close change subscription",
				slog.String("user_id", s.userID),
				slog.String("error", err.Error()))
		}
	}

	return nil
}

// scheduleLocked arms the settle timer for one trigger kind, replacing any
// timer already pending for that kind. The generation is taken when the
// timer fires, so the deferred fetch still outranks resolutions that landed
// during the delay. Caller holds s.mu.
func (s *Session) scheduleLocked(ctx context.Context, kind TriggerKind, delay time.Duration) {
	if pending, ok := s.timers[kind]; ok {
		pending.Stop()
	}

	s.timers[kind] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		delete(s.timers, kind)
		gen := s.nextGenLocked()
		s.mu.Unlock()

		s.resolve(ctx, gen)
	})
}

// nextGenLocked allocates a generation for a resolution attempt. Caller
// holds s.mu.
func (s *Session) nextGenLocked() uint64 {
	s.generation++
	return s.generation
}

// resolve runs one resolution attempt and applies its result unless a newer
// attempt has already been applied.
func (s *Session) resolve(ctx context.Context, gen uint64) {
	amount, source, err := s.resolver.AvailableForWithdrawal(ctx, s.userID)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	s.loading = false

	if err != nil {
		// The previous amount stays. The next trigger retries; no
		// internal backoff loop.
		s.mu.Unlock()
		s.logResolveFailure(ctx, err)
		return
	}

	if gen <= s.appliedGen {
		s.mu.Unlock()
		s.logger.DebugContext(ctx, "discarding stale resolution",
			slog.String("user_id", s.userID),
			slog.Uint64("generation", gen))
		return
	}
	s.appliedGen = gen

	old := s.available
	hadValue := s.resolved
	s.available = amount
	s.resolved = true
	s.lastUpdate = time.Now().UTC()
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "available amount resolved",
		slog.String("user_id", s.userID),
		slog.String("amount", amount.String()),
		slog.String("source", string(source)))

	s.maybeAlert(ctx, old, amount, hadValue)
}

// maybeAlert applies the notification policy: increases and drops to zero
// are worth a signal, ordinary decreases are not. The first resolution of a
// session only establishes the baseline.
func (s *Session) maybeAlert(ctx context.Context, old, new decimal.Decimal, hadValue bool) {
	if s.alerter == nil || !hadValue {
		return
	}

	if new.Sub(old).Abs().LessThanOrEqual(epsilon) {
		return
	}

	switch {
	case new.GreaterThan(old):
		s.countAlert("increased")
		s.alerter.AmountIncreased(ctx, s.userID, new)
	case new.LessThanOrEqual(epsilon) && old.GreaterThan(epsilon):
		s.countAlert("cleared")
		s.alerter.AmountCleared(ctx, s.userID)
	}
}

func (s *Session) logResolveFailure(ctx context.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		s.logger.WarnContext(ctx, "account not resolvable, amount unknown",
			slog.String("user_id", s.userID))
	case errors.Is(err, domain.ErrReconciliationUnavailable):
		s.logger.WarnContext(ctx, "both resolution paths failed, keeping previous amount",
			slog.String("user_id", s.userID),
			slog.String("error", err.Error()))
	default:
		s.logger.WarnContext(ctx, "resolution failed, keeping previous amount",
			slog.String("user_id", s.userID),
			slog.String("error", err.Error()))
	}
}

func (s *Session) countTrigger(kind TriggerKind) {
	if s.metrics != nil {
		s.metrics.ReconcileTriggers.WithLabelValues(string(kind)).Inc()
	}
}

func (s *Session) countAlert(kind string) {
	if s.metrics != nil {
		s.metrics.ReconcileAlerts.WithLabelValues(kind).Inc()
	}
}
