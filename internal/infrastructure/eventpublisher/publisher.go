// Package eventpublisher drains the transactional outbox into the change
// feed. Mutations write their events in the same transaction as the data;
// this worker is what makes them visible to subscribed reconciliation
// sessions.
package eventpublisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/starclip/wallet/internal/domain"
	"github.com/starclip/wallet/internal/infrastructure/metrics"
	"github.com/starclip/wallet/internal/usecase"
)

// Publisher delivers a change event to subscribers.
type Publisher interface {
	Publish(ctx context.Context, event domain.ChangeEvent) error
}

// EventPublisher polls the outbox and publishes unpublished events.
type EventPublisher struct {
	outboxRepo usecase.OutboxRepository
	publisher  Publisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
	batchSize  int
	interval   time.Duration
}

// Config for EventPublisher.
type Config struct {
	OutboxRepo usecase.OutboxRepository
	Publisher  Publisher
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	BatchSize  int           // Number of events to fetch per batch
	Interval   time.Duration // Polling interval
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(cfg Config) *EventPublisher {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval == 0 {
		cfg.Interval = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &EventPublisher{
		outboxRepo: cfg.OutboxRepo,
		publisher:  cfg.Publisher,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		batchSize:  cfg.BatchSize,
		interval:   cfg.Interval,
	}
}

// Start begins the publishing worker. It runs until the context is
// cancelled.
func (ep *EventPublisher) Start(ctx context.Context) error {
	ep.logger.Info("event publisher started",
		slog.Int("batch_size", ep.batchSize),
		slog.Duration("interval", ep.interval))

	ticker := time.NewTicker(ep.interval)
	defer ticker.Stop()

	// Process immediately on start
	if err := ep.processEvents(ctx); err != nil {
		ep.logger.Error("error processing events on start", slog.String("error", err.Error()))
	}

	for {
		select {
		case <-ctx.Done():
			ep.logger.Info("event publisher shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := ep.processEvents(ctx); err != nil {
				ep.logger.Error("error processing events", slog.String("error", err.Error()))
			}
		}
	}
}

// processEvents fetches and publishes a batch of unpublished events.
func (ep *EventPublisher) processEvents(ctx context.Context) error {
	events, err := ep.outboxRepo.GetUnpublished(ctx, ep.batchSize)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	ep.logger.Debug("processing events", slog.Int("count", len(events)))

	for _, event := range events {
		if err := ep.publishEvent(ctx, event); err != nil {
			ep.logger.Error("failed to publish event",
				slog.String("event_id", event.ID),
				slog.String("event_type", event.EventType),
				slog.String("error", err.Error()))
			// Continue processing other events even if one fails
			continue
		}

		if err := ep.outboxRepo.MarkPublished(ctx, event.ID, time.Now().UTC()); err != nil {
			ep.logger.Error("failed to mark event as published",
				slog.String("event_id", event.ID),
				slog.String("error", err.Error()))
			// Don't continue - we don't want to re-publish this event
		}
	}

	return nil
}

func (ep *EventPublisher) publishEvent(ctx context.Context, event *domain.OutboxEvent) error {
	change := toChangeEvent(event)

	if err := ep.publisher.Publish(ctx, change); err != nil {
		return err
	}

	if ep.metrics != nil {
		ep.metrics.EventsPublished.WithLabelValues(event.EventType).Inc()
	}

	ep.logger.Debug("event published",
		slog.String("event_id", event.ID),
		slog.String("event_type", event.EventType),
		slog.String("table", change.Table),
		slog.String("user_id", change.UserID))

	return nil
}

// toChangeEvent projects an outbox row onto the wire shape subscribers see.
// The payload was written by the same usecase that performed the mutation,
// so missing fields mean an older writer; defaults keep those deliverable.
func toChangeEvent(event *domain.OutboxEvent) domain.ChangeEvent {
	change := domain.ChangeEvent{
		Kind:       domain.ChangeKindUpdate,
		OccurredAt: event.CreatedAt,
	}

	if table, ok := event.Payload["table"].(string); ok {
		change.Table = table
	}
	if kind, ok := event.Payload["kind"].(string); ok && kind != "" {
		change.Kind = domain.ChangeKind(kind)
	}
	if userID, ok := event.Payload["user_id"].(string); ok {
		change.UserID = userID
	}
	if row, ok := event.Payload["row"].(map[string]any); ok {
		change.Row = row
	}

	return change
}

// LogPublisher is a publisher that only logs events. Used when Redis is
// not configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(ctx context.Context, event domain.ChangeEvent) error {
	row, err := json.Marshal(event.Row)
	if err != nil {
		return err
	}

	p.logger.Info("EVENT PUBLISHED",
		slog.String("table", event.Table),
		slog.String("kind", string(event.Kind)),
		slog.String("user_id", event.UserID),
		slog.String("row", string(row)))

	return nil
}
