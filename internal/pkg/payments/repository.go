package payments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/LukasDorner/StreamGate/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides the DB operations used by the purchase ledger. All
// writes that must be atomic run through Transaction, which hands the callback
// a Repository view bound to the transaction. Entry points take a context; the
// in-transaction methods inherit the one Transaction was started with.
type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	ClaimEvent(eventID, eventType, payloadJSON string) (*models.WebhookEventLog, error)
	MarkEventApplied(id uint) error
	MarkEventFailed(ctx context.Context, eventID, eventType, payloadJSON, detail string) error
	GetEventByProviderID(eventID string) (*models.WebhookEventLog, error)

	FindActiveSplitConfigurations(scopeKey string) ([]models.RevenueSplitConfiguration, error)
	GetContentByUUID(uuid string) (*models.Content, error)
	GetCustomerIdentity(providerCustomerID string) (*models.CustomerIdentity, error)

	CreatePurchase(rec *models.PurchaseRecord) error
	UpsertAccessGrant(grant *models.ContentAccessGrant) error
	ListPurchasesByCustomer(ctx context.Context, providerCustomerID string, offset, limit int) ([]models.PurchaseRecord, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a payments repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

// ClaimEvent inserts the event log row with status received, relying on the
// unique index on provider_event_id to lose gracefully against concurrent
// deliveries. A pre-existing applied row is ErrDuplicateEvent; a pre-existing
// non-applied row is ErrEventInFlight.
func (r *gormRepository) ClaimEvent(eventID, eventType, payloadJSON string) (*models.WebhookEventLog, error) {
	event := &models.WebhookEventLog{
		ProviderEventID: eventID,
		EventType:       eventType,
		Status:          models.WebhookEventStatusReceived,
		PayloadJSON:     payloadJSON,
	}
	tx := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_event_id"}},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected > 0 {
		return event, nil
	}

	var stored models.WebhookEventLog
	if err := r.db.Where("provider_event_id = ?", eventID).First(&stored).Error; err != nil {
		return nil, err
	}
	if stored.Status == models.WebhookEventStatusApplied {
		return &stored, ErrDuplicateEvent
	}
	if stored.Status == models.WebhookEventStatusFailed {
		// Failed rows are retryable: take over the claim.
		res := r.db.Model(&models.WebhookEventLog{}).
			Where("id = ? AND status = ?", stored.ID, models.WebhookEventStatusFailed).
			Updates(map[string]interface{}{"status": models.WebhookEventStatusReceived, "error_detail": ""})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return &stored, ErrEventInFlight
		}
		stored.Status = models.WebhookEventStatusReceived
		return &stored, nil
	}
	return &stored, ErrEventInFlight
}

func (r *gormRepository) MarkEventApplied(id uint) error {
	now := time.Now()
	return r.db.Model(&models.WebhookEventLog{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     models.WebhookEventStatusApplied,
		"applied_at": &now,
	}).Error
}

// MarkEventFailed records a terminal-for-now failure outside any transaction
// so the detail survives the rollback of the purchase write.
func (r *gormRepository) MarkEventFailed(ctx context.Context, eventID, eventType, payloadJSON, detail string) error {
	event := &models.WebhookEventLog{
		ProviderEventID: eventID,
		EventType:       eventType,
		Status:          models.WebhookEventStatusFailed,
		PayloadJSON:     payloadJSON,
		ErrorDetail:     detail,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_event_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "error_detail", "updated_at"}),
	}).Create(event).Error
}

func (r *gormRepository) GetEventByProviderID(eventID string) (*models.WebhookEventLog, error) {
	var event models.WebhookEventLog
	if err := r.db.Where("provider_event_id = ?", eventID).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *gormRepository) FindActiveSplitConfigurations(scopeKey string) ([]models.RevenueSplitConfiguration, error) {
	var cfgs []models.RevenueSplitConfiguration
	err := r.db.
		Where("scope_key = ? AND is_active = ?", scopeKey, true).
		Find(&cfgs).Error
	return cfgs, err
}

func (r *gormRepository) GetContentByUUID(uuid string) (*models.Content, error) {
	var content models.Content
	if err := r.db.Where("uuid = ?", uuid).First(&content).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *gormRepository) GetCustomerIdentity(providerCustomerID string) (*models.CustomerIdentity, error) {
	var identity models.CustomerIdentity
	if err := r.db.Where("provider_customer_id = ?", providerCustomerID).First(&identity).Error; err != nil {
		return nil, err
	}
	return &identity, nil
}

// CreatePurchase inserts a completed ledger row. The partial-unique trick on
// (customer_id, content_id, active_key) turns a semantically duplicate
// purchase into a constraint violation, surfaced as ErrPurchaseConflict so the
// caller rolls back the whole transaction.
func (r *gormRepository) CreatePurchase(rec *models.PurchaseRecord) error {
	if err := r.db.Create(rec).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return ErrPurchaseConflict
		}
		return err
	}
	return nil
}

func (r *gormRepository) UpsertAccessGrant(grant *models.ContentAccessGrant) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "content_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"access_type",
			"expires_at",
			"updated_at",
		}),
	}).Create(grant).Error
}

func (r *gormRepository) ListPurchasesByCustomer(ctx context.Context, providerCustomerID string, offset, limit int) ([]models.PurchaseRecord, error) {
	var recs []models.PurchaseRecord
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", providerCustomerID).
		Order("purchased_at DESC").
		Offset(offset).Limit(limit).
		Find(&recs).Error
	return recs, err
}

func isDuplicateKeyErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// MySQL 1062 without gorm error translation enabled.
	return strings.Contains(err.Error(), "Duplicate entry")
}
