package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/starclip/wallet/internal/domain"
)

// NotificationRepository implements usecase.NotificationRepository.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Create inserts a notification row.
func (r *NotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, title, message, type, entity_id, entity_type, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		notification.ID,
		notification.UserID,
		notification.Title,
		notification.Message,
		notification.Type,
		notification.EntityID,
		notification.EntityType,
		notification.Read,
		timeToPgTimestamptz(notification.CreatedAt),
	)

	return err
}
