package redis

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/starclip/wallet/internal/domain"
	"github.com/starclip/wallet/internal/usecase"
)

// ChangeNotifier fans out row-change events over Redis pub/sub. It is both
// the producer side used by the outbox publisher and the consumer side
// behind usecase.ChangeNotifier. Channels are scoped per table, with a
// narrower per-user channel when the event carries a user ID, so a
// subscriber for one user's wallet does not receive the whole table's
// traffic.
type ChangeNotifier struct {
	client *redis.Client
	logger *slog.Logger
}

// NewChangeNotifier creates a new ChangeNotifier.
func NewChangeNotifier(client *redis.Client, logger *slog.Logger) *ChangeNotifier {
	if logger == nil {
		logger = slog.Default()
	}

	return &ChangeNotifier{
		client: client,
		logger: logger,
	}
}

// Publish broadcasts a change event to its table channel and, when the
// event is user-scoped, to the per-user channel as well. Pub/sub is fire
// and forget: subscribers that are not connected miss the event, which is
// acceptable because consumers re-verify state rather than replay events.
func (n *ChangeNotifier) Publish(ctx context.Context, event domain.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := n.client.Publish(ctx, changeChannel(event.Table, ""), payload).Err(); err != nil {
		return err
	}

	if event.UserID != "" {
		if err := n.client.Publish(ctx, changeChannel(event.Table, event.UserID), payload).Err(); err != nil {
			return err
		}
	}

	return nil
}

// Subscribe opens a change-event stream for a table. A non-empty userID
// narrows the stream to that user's rows.
func (n *ChangeNotifier) Subscribe(ctx context.Context, table, userID string) (usecase.ChangeSubscription, error) {
	channel := changeChannel(table, userID)

	pubsub := n.client.Subscribe(ctx, channel)

	// Confirm the subscription before returning so a broken connection
	// surfaces here instead of as a silently dead stream.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()

		return nil, err
	}

	sub := &Subscription{
		pubsub: pubsub,
		events: make(chan domain.ChangeEvent, 16),
	}

	go sub.pump(n.logger)

	return sub, nil
}

func changeChannel(table, userID string) string {
	if userID == "" {
		return "changes:" + table
	}

	return "changes:" + table + ":" + userID
}

// Subscription is a live pub/sub stream of change events.
type Subscription struct {
	pubsub *redis.PubSub
	events chan domain.ChangeEvent
}

// Events returns the event stream. The channel is closed when the
// subscription is closed or the connection drops.
func (s *Subscription) Events() <-chan domain.ChangeEvent {
	return s.events
}

// Close tears down the subscription and closes the event channel.
func (s *Subscription) Close() error {
	return s.pubsub.Close()
}

func (s *Subscription) pump(logger *slog.Logger) {
	defer close(s.events)

	for msg := range s.pubsub.Channel() {
		var event domain.ChangeEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			logger.Warn("dropping malformed change event",
				slog.String("channel", msg.Channel),
				slog.String("error", err.Error()))

			continue
		}

		select {
		case s.events <- event:
		default:
			// A consumer that cannot keep up loses events; it will
			// re-verify on the next one it does receive.
			logger.Warn("dropping change event for slow subscriber",
				slog.String("channel", msg.Channel))
		}
	}
}
