package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/starclip/wallet/internal/domain"
	"github.com/starclip/wallet/internal/usecase"
	"github.com/starclip/wallet/internal/usecase/mocks"
)

func TestBind_WalletChangeTriggersRefetch(t *testing.T) {
	resolver := &stubResolver{}
	s := newTestSession(t, resolver, nil)
	notifier := mocks.NewMockChangeNotifier()

	if err := Bind(context.Background(), s, notifier); err != nil {
		t.Fatalf("bind: %v", err)
	}

	resolver.setValue(decimal.NewFromInt(75))
	notifier.Emit(domain.TableUsers, domain.ChangeEvent{
		Table:  domain.TableUsers,
		Kind:   domain.ChangeKindUpdate,
		UserID: "creator-1",
	})

	waitFor(t, func() bool { return s.State().Available.Equal(decimal.NewFromInt(75)) })
}

func TestBind_WithdrawalCompletionIsApproval(t *testing.T) {
	resolver := &stubResolver{}
	s := newTestSession(t, resolver, nil)
	notifier := mocks.NewMockChangeNotifier()

	if err := Bind(context.Background(), s, notifier); err != nil {
		t.Fatalf("bind: %v", err)
	}

	seed(t, s, resolver, decimal.NewFromInt(120))

	notifier.Emit(domain.TableWithdrawalRequests, domain.ChangeEvent{
		Table:  domain.TableWithdrawalRequests,
		Kind:   domain.ChangeKindUpdate,
		UserID: "creator-1",
		Row:    map[string]any{"status": "completed"},
	})

	// Optimistic zero applies before any fetch settles.
	waitFor(t, func() bool { return s.State().Available.Equal(decimal.Zero) })
}

func TestBind_OtherWithdrawalChangesAreOrdinaryPushes(t *testing.T) {
	resolver := &stubResolver{}
	s := newTestSession(t, resolver, nil)
	notifier := mocks.NewMockChangeNotifier()

	if err := Bind(context.Background(), s, notifier); err != nil {
		t.Fatalf("bind: %v", err)
	}

	seed(t, s, resolver, decimal.NewFromInt(120))

	resolver.setValue(decimal.NewFromInt(40))
	notifier.Emit(domain.TableWithdrawalRequests, domain.ChangeEvent{
		Table:  domain.TableWithdrawalRequests,
		Kind:   domain.ChangeKindInsert,
		UserID: "creator-1",
		Row:    map[string]any{"status": "pending"},
	})

	// No optimistic zero; the deferred fetch lands the new value.
	waitFor(t, func() bool { return s.State().Available.Equal(decimal.NewFromInt(40)) })
}

func TestBind_SubscribeFailureDegrades(t *testing.T) {
	resolver := &stubResolver{}
	s := newTestSession(t, resolver, nil)
	notifier := mocks.NewMockChangeNotifier()
	notifier.SubscribeFunc = func(ctx context.Context, table, userID string) (usecase.ChangeSubscription, error) {
		return nil, errors.New("channel refused")
	}

	err := Bind(context.Background(), s, notifier)
	if !errors.Is(err, domain.ErrSubscriptionFailed) {
		t.Fatalf("expected ErrSubscriptionFailed, got %v", err)
	}

	// The session still answers manual refreshes.
	resolver.setValue(decimal.NewFromInt(60))
	s.Trigger(context.Background(), TriggerManualRefresh)
	waitFor(t, func() bool { return s.State().Available.Equal(decimal.NewFromInt(60)) })
}

func TestBind_CloseReleasesSubscriptions(t *testing.T) {
	resolver := &stubResolver{}
	s := NewSession(SessionConfig{
		UserID:   "creator-1",
		Resolver: resolver,
		Delays:   fastDelays(),
	})
	notifier := mocks.NewMockChangeNotifier()

	if err := Bind(context.Background(), s, notifier); err != nil {
		t.Fatalf("bind: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Events after teardown must not resolve.
	notifier.Emit(domain.TableUsers, domain.ChangeEvent{
		Table: domain.TableUsers,
		Kind:  domain.ChangeKindUpdate,
	})
	time.Sleep(20 * time.Millisecond)

	if calls := resolver.calls.Load(); calls != 0 {
		t.Errorf("resolved after close: %d calls", calls)
	}
}
