package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starclip/wallet/internal/domain"
	"github.com/starclip/wallet/internal/usecase"
)

// Bind subscribes the session to the change feed for the user's wallet,
// withdrawal and earning rows and pumps each event through the session's
// trigger policy. A failed subscribe returns an error wrapping
// domain.ErrSubscriptionFailed; the session stays usable and degrades to
// manual and timer-driven refresh only.
func Bind(ctx context.Context, s *Session, notifier usecase.ChangeNotifier) error {
	tables := []string{
		domain.TableUsers,
		domain.TableWithdrawalRequests,
		domain.TableEarnings,
	}

	for _, table := range tables {
		sub, err := notifier.Subscribe(ctx, table, s.userID)
		if err != nil {
			return fmt.Errorf("%w: table %s: %v", domain.ErrSubscriptionFailed, table, err)
		}

		s.addSubscription(sub)
		go s.pump(ctx, sub)
	}

	return nil
}

func (s *Session) addSubscription(sub usecase.ChangeSubscription) {
	s.mu.Lock()
	closed := s.closed
	if !closed {
		s.subs = append(s.subs, sub)
	}
	s.mu.Unlock()

	if closed {
		_ = sub.Close()
	}
}

// pump drains one subscription until it closes or the context ends.
func (s *Session) pump(ctx context.Context, sub usecase.ChangeSubscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			s.dispatch(ctx, event)
		}
	}
}

// dispatch maps a change event to a trigger. Events carry no ordering
// guarantee, so every mapping is a re-verify, never a state assignment.
func (s *Session) dispatch(ctx context.Context, event domain.ChangeEvent) {
	s.logger.DebugContext(ctx, "change event received",
		slog.String("user_id", s.userID),
		slog.String("table", event.Table),
		slog.String("kind", string(event.Kind)))

	switch event.Table {
	case domain.TableUsers:
		s.Trigger(ctx, TriggerWalletPush)

	case domain.TableWithdrawalRequests:
		if event.Kind == domain.ChangeKindUpdate && event.Status() == string(domain.WithdrawalStatusCompleted) {
			s.Trigger(ctx, TriggerWithdrawalApproved)
			return
		}
		s.Trigger(ctx, TriggerWithdrawalPush)

	case domain.TableEarnings:
		s.Trigger(ctx, TriggerEarningsChanged)
	}
}
