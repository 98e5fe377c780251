package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"aecom-checkout/internal/model"
)

type WebhookEventRepository interface {
	// Seen reports whether a delivery with the same provider event id has
	// already been recorded.
	Seen(ctx context.Context, eventID string) (bool, error)

	// Record inserts a ledger row for a verified delivery and returns the
	// row id.
	Record(ctx context.Context, eventID, eventType, sessionID string) (string, error)

	MarkProcessed(ctx context.Context, id string, orderID int) error
	MarkFailed(ctx context.Context, id string, processingError string) error
}

type webhookEventRepositoryImpl struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepositoryImpl{db: db}
}

func (r *webhookEventRepositoryImpl) Seen(ctx context.Context, eventID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.WebhookEvent{}).
		Where("event_id = ?", eventID).
		Count(&count).Error

	return count > 0, err
}

func (r *webhookEventRepositoryImpl) Record(ctx context.Context, eventID, eventType, sessionID string) (string, error) {
	event := &model.WebhookEvent{
		ID:        uuid.NewString(),
		EventID:   eventID,
		EventType: eventType,
		SessionID: sessionID,
	}

	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return "", err
	}

	return event.ID, nil
}

func (r *webhookEventRepositoryImpl) MarkProcessed(ctx context.Context, id string, orderID int) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.WebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"order_id":     orderID,
			"processed_at": &now,
		}).Error
}

func (r *webhookEventRepositoryImpl) MarkFailed(ctx context.Context, id string, processingError string) error {
	return r.db.WithContext(ctx).Model(&model.WebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processing_error": processingError,
		}).Error
}
