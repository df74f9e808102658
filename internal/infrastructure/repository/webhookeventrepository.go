package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"payhook/internal/domain/event"
)

// WebhookEventModel is the persistence shape of a handled event. The unique
// index on event_id makes duplicate inserts impossible at the storage level,
// a second line of defense behind the dedupe store.
type WebhookEventModel struct {
	ID         uint           `gorm:"primaryKey"`
	EventID    string         `gorm:"size:255;uniqueIndex:uk_webhook_events_event_id;not null"`
	EventType  string         `gorm:"size:128;index:idx_webhook_events_event_type;not null"`
	ObjectID   string         `gorm:"size:255;not null;default:''"`
	Amount     int64          `gorm:"not null;default:0"`
	Currency   string         `gorm:"size:8;not null;default:''"`
	Payload    datatypes.JSON `gorm:""`
	ReceivedAt time.Time      `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (WebhookEventModel) TableName() string {
	return "webhook_events"
}

type WebhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) *WebhookEventRepository {
	return &WebhookEventRepository{db: db}
}

// RecordCompletion inserts the record, silently skipping rows whose event id
// is already archived.
func (r *WebhookEventRepository) RecordCompletion(ctx context.Context, rec *event.CompletionRecord) error {
	model := &WebhookEventModel{
		EventID:    rec.EventID,
		EventType:  rec.EventType,
		ObjectID:   rec.ObjectID,
		Amount:     rec.Amount,
		Currency:   rec.Currency,
		Payload:    datatypes.JSON(rec.Payload),
		ReceivedAt: rec.ReceivedAt,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to archive webhook event: %w", err)
	}

	return nil
}

func (r *WebhookEventRepository) GetByEventID(ctx context.Context, eventID string) (*event.CompletionRecord, error) {
	var model WebhookEventModel

	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("webhook event not found: %s", eventID)
		}
		return nil, fmt.Errorf("failed to get webhook event: %w", err)
	}

	return &event.CompletionRecord{
		EventID:    model.EventID,
		EventType:  model.EventType,
		ObjectID:   model.ObjectID,
		Amount:     model.Amount,
		Currency:   model.Currency,
		Payload:    []byte(model.Payload),
		ReceivedAt: model.ReceivedAt,
	}, nil
}

func (r *WebhookEventRepository) CountByEventID(ctx context.Context, eventID string) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&WebhookEventModel{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count webhook events: %w", err)
	}

	return count, nil
}
