package reconcile

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/starclip/wallet/internal/domain"
	"github.com/starclip/wallet/internal/usecase"
)

type stubResolver struct {
	mu    sync.Mutex
	fn    func(ctx context.Context, userID string) (decimal.Decimal, usecase.ResolutionSource, error)
	calls atomic.Int64
}

func (r *stubResolver) set(fn func(ctx context.Context, userID string) (decimal.Decimal, usecase.ResolutionSource, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fn = fn
}

func (r *stubResolver) setValue(amount decimal.Decimal) {
	r.set(func(ctx context.Context, userID string) (decimal.Decimal, usecase.ResolutionSource, error) {
		return amount, usecase.SourceLedger, nil
	})
}

func (r *stubResolver) AvailableForWithdrawal(ctx context.Context, userID string) (decimal.Decimal, usecase.ResolutionSource, error) {
	r.calls.Add(1)
	r.mu.Lock()
	fn := r.fn
	r.mu.Unlock()
	if fn == nil {
		return decimal.Zero, usecase.SourceLedger, nil
	}
	return fn(ctx, userID)
}

type recordingAlerter struct {
	mu        sync.Mutex
	increased []decimal.Decimal
	cleared   int
}

func (a *recordingAlerter) AmountIncreased(ctx context.Context, userID string, amount decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.increased = append(a.increased, amount)
}

func (a *recordingAlerter) AmountCleared(ctx context.Context, userID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cleared++
}

func (a *recordingAlerter) snapshot() ([]decimal.Decimal, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]decimal.Decimal(nil), a.increased...), a.cleared
}

func fastDelays() Delays {
	return Delays{
		EarningsSettle:  10 * time.Millisecond,
		PushSettle:      5 * time.Millisecond,
		ApprovalConfirm: 15 * time.Millisecond,
	}
}

func newTestSession(t *testing.T, resolver *stubResolver, alerter *recordingAlerter) *Session {
	t.Helper()
	cfg := SessionConfig{
		UserID:   "creator-1",
		Resolver: resolver,
		Delays:   fastDelays(),
	}
	if alerter != nil {
		cfg.Alerter = alerter
	}
	s := NewSession(cfg)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition never satisfied")
}

func seed(t *testing.T, s *Session, resolver *stubResolver, amount decimal.Decimal) {
	t.Helper()
	resolver.setValue(amount)
	s.Trigger(context.Background(), TriggerInitialLoad)
	waitFor(t, func() bool {
		st := s.State()
		return st.Resolved && st.Available.Equal(amount)
	})
}

func TestSession_InitialLoad(t *testing.T) {
	resolver := &stubResolver{}
	alerter := &recordingAlerter{}
	s := newTestSession(t, resolver, alerter)

	seed(t, s, resolver, decimal.NewFromInt(200))

	st := s.State()
	if st.Loading {
		t.Error("initial load should be silent, loading=true")
	}
	if st.LastUpdate.IsZero() {
		t.Error("LastUpdate not set")
	}

	// The first resolution establishes the baseline; no alert.
	increased, cleared := alerter.snapshot()
	if len(increased) != 0 || cleared != 0 {
		t.Errorf("unexpected alerts on initial load: %v, %d", increased, cleared)
	}
}

func TestSession_OptimisticZeroOnApproval(t *testing.T) {
	resolver := &stubResolver{}
	alerter := &recordingAlerter{}
	s := newTestSession(t, resolver, alerter)

	seed(t, s, resolver, decimal.RequireFromString("120.00"))

	// The confirming fetch will agree with the optimistic value.
	resolver.setValue(decimal.Zero)
	s.Trigger(context.Background(), TriggerWithdrawalApproved)

	// Observed immediately, before the confirming fetch resolves.
	if st := s.State(); !st.Available.Equal(decimal.Zero) {
		t.Errorf("expected optimistic 0.00, got %s", st.Available)
	}

	_, cleared := alerter.snapshot()
	if cleared != 1 {
		t.Errorf("expected cleared alert, got %d", cleared)
	}

	// Confirming fetch leaves it at zero without a second alert.
	waitFor(t, func() bool { return resolver.calls.Load() >= 2 })
	time.Sleep(10 * time.Millisecond)
	if st := s.State(); !st.Available.Equal(decimal.Zero) {
		t.Errorf("expected 0 after confirm, got %s", st.Available)
	}
	if _, cleared := alerter.snapshot(); cleared != 1 {
		t.Errorf("confirming fetch re-alerted: %d", cleared)
	}
}

func TestSession_ApprovalConfirmCorrectsOptimism(t *testing.T) {
	resolver := &stubResolver{}
	alerter := &recordingAlerter{}
	s := newTestSession(t, resolver, alerter)

	seed(t, s, resolver, decimal.NewFromInt(120))

	// Other earnings arrived in the interim; the confirm fetch sees 30.
	resolver.setValue(decimal.NewFromInt(30))
	s.Trigger(context.Background(), TriggerWithdrawalApproved)

	waitFor(t, func() bool { return s.State().Available.Equal(decimal.NewFromInt(30)) })

	increased, _ := alerter.snapshot()
	if len(increased) != 1 || !increased[0].Equal(decimal.NewFromInt(30)) {
		t.Errorf("expected increased alert with 30, got %v", increased)
	}
}

func TestSession_NoAlertOnOrdinaryDecrease(t *testing.T) {
	resolver := &stubResolver{}
	alerter := &recordingAlerter{}
	s := newTestSession(t, resolver, alerter)

	seed(t, s, resolver, decimal.RequireFromString("100.00"))

	resolver.setValue(decimal.RequireFromString("80.00"))
	s.Trigger(context.Background(), TriggerManualRefresh)

	waitFor(t, func() bool { return s.State().Available.Equal(decimal.RequireFromString("80.00")) })

	increased, cleared := alerter.snapshot()
	if len(increased) != 0 || cleared != 0 {
		t.Errorf("decrease to nonzero value must be silent, got %v, %d", increased, cleared)
	}
}

func TestSession_EarningsSettleThenIncreaseAlert(t *testing.T) {
	resolver := &stubResolver{}
	alerter := &recordingAlerter{}
	s := newTestSession(t, resolver, alerter)

	seed(t, s, resolver, decimal.Zero)

	// The earning credit lands during the settle delay; the deferred
	// fetch must observe it.
	s.Trigger(context.Background(), TriggerEarningsChanged)
	resolver.setValue(decimal.RequireFromString("30.00"))

	waitFor(t, func() bool { return s.State().Available.Equal(decimal.RequireFromString("30.00")) })

	increased, _ := alerter.snapshot()
	if len(increased) != 1 || !increased[0].Equal(decimal.RequireFromString("30.00")) {
		t.Errorf("expected increased alert with 30.00, got %v", increased)
	}
}

func TestSession_EpsilonSuppressesNoise(t *testing.T) {
	resolver := &stubResolver{}
	alerter := &recordingAlerter{}
	s := newTestSession(t, resolver, alerter)

	seed(t, s, resolver, decimal.RequireFromString("100.00"))

	resolver.setValue(decimal.RequireFromString("100.005"))
	s.Trigger(context.Background(), TriggerManualRefresh)

	waitFor(t, func() bool { return resolver.calls.Load() >= 2 && !s.State().Loading })

	increased, cleared := alerter.snapshot()
	if len(increased) != 0 || cleared != 0 {
		t.Errorf("sub-epsilon change alerted: %v, %d", increased, cleared)
	}
}

func TestSession_RapidTriggersDebounceToOneFetch(t *testing.T) {
	resolver := &stubResolver{}
	s := newTestSession(t, resolver, nil)

	// A burst of earnings events within the settle window collapses into a
	// single deferred fetch.
	for i := 0; i < 5; i++ {
		s.Trigger(context.Background(), TriggerEarningsChanged)
	}

	waitFor(t, func() bool { return resolver.calls.Load() >= 1 })
	time.Sleep(30 * time.Millisecond)

	if calls := resolver.calls.Load(); calls != 1 {
		t.Errorf("expected 1 debounced fetch, got %d", calls)
	}
}

func TestSession_FailurePreservesState(t *testing.T) {
	resolver := &stubResolver{}
	alerter := &recordingAlerter{}
	s := newTestSession(t, resolver, alerter)

	seed(t, s, resolver, decimal.NewFromInt(50))

	resolver.set(func(ctx context.Context, userID string) (decimal.Decimal, usecase.ResolutionSource, error) {
		return decimal.Zero, "", domain.ErrReconciliationUnavailable
	})
	s.Trigger(context.Background(), TriggerManualRefresh)

	waitFor(t, func() bool { return resolver.calls.Load() >= 2 && !s.State().Loading })

	if st := s.State(); !st.Available.Equal(decimal.NewFromInt(50)) {
		t.Errorf("failure reset the amount: %s", st.Available)
	}
}

func TestSession_ManualRefreshShowsLoading(t *testing.T) {
	resolver := &stubResolver{}
	release := make(chan struct{})
	resolver.set(func(ctx context.Context, userID string) (decimal.Decimal, usecase.ResolutionSource, error) {
		<-release
		return decimal.NewFromInt(10), usecase.SourceLedger, nil
	})
	s := newTestSession(t, resolver, nil)

	s.Trigger(context.Background(), TriggerManualRefresh)
	if !s.State().Loading {
		t.Error("manual refresh did not set loading")
	}

	close(release)
	waitFor(t, func() bool { return !s.State().Loading })
}

func TestSession_StaleResolutionDiscarded(t *testing.T) {
	resolver := &stubResolver{}
	s := newTestSession(t, resolver, nil)

	slowStarted := make(chan struct{})
	release := make(chan struct{})
	resolver.set(func(ctx context.Context, userID string) (decimal.Decimal, usecase.ResolutionSource, error) {
		close(slowStarted)
		<-release
		return decimal.NewFromInt(999), usecase.SourceLedger, nil
	})

	// First attempt hangs with a stale value.
	s.Trigger(context.Background(), TriggerManualRefresh)
	<-slowStarted

	// Second, newer attempt completes first.
	resolver.setValue(decimal.NewFromInt(10))
	s.Trigger(context.Background(), TriggerManualRefresh)
	waitFor(t, func() bool { return s.State().Available.Equal(decimal.NewFromInt(10)) })

	// The stale first attempt settles and must be discarded.
	close(release)
	time.Sleep(20 * time.Millisecond)

	if st := s.State(); !st.Available.Equal(decimal.NewFromInt(10)) {
		t.Errorf("stale resolution overwrote fresher value: %s", st.Available)
	}
}

func TestSession_CloseClearsTimers(t *testing.T) {
	resolver := &stubResolver{}
	s := NewSession(SessionConfig{
		UserID:   "creator-1",
		Resolver: resolver,
		Delays:   fastDelays(),
	})

	s.Trigger(context.Background(), TriggerEarningsChanged)
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	time.Sleep(30 * time.Millisecond)
	if calls := resolver.calls.Load(); calls != 0 {
		t.Errorf("timer fired after close: %d calls", calls)
	}

	// Triggers after close are ignored.
	s.Trigger(context.Background(), TriggerManualRefresh)
	time.Sleep(10 * time.Millisecond)
	if calls := resolver.calls.Load(); calls != 0 {
		t.Errorf("trigger after close resolved: %d calls", calls)
	}
}

func TestSession_TriggerCounterIncrements(t *testing.T) {
	resolver := &stubResolver{}
	s := newTestSession(t, resolver, nil)

	before := s.State().Trigger
	s.Trigger(context.Background(), TriggerEarningsChanged)
	s.Trigger(context.Background(), TriggerWalletPush)

	if got := s.State().Trigger; got != before+2 {
		t.Errorf("trigger counter = %d, want %d", got, before+2)
	}
}
