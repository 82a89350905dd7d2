package models

import "time"

const (
	PurchaseStatusCompleted = "completed"
	PurchaseStatusRefunded  = "refunded"
	PurchaseStatusFailed    = "failed"
)

// PurchaseRecord is one row of the append-mostly ledger: a completed purchase
// with its revenue split recorded verbatim so later configuration changes never
// rewrite history. CustomerID is the processor's opaque customer identity, not
// a platform user id and not a UUID.
//
// ActiveKey is "1" while the record is completed-and-not-refunded and NULL
// otherwise; the unique index (customer_id, content_id, active_key) therefore
// permits at most one live purchase per customer and content while still
// allowing refunded history rows. This constraint is an independent safety net
// under the webhook event log's own uniqueness.
type PurchaseRecord struct {
	ID                   uint          `gorm:"primaryKey" json:"id"`
	CustomerID           string        `gorm:"type:varchar(191);not null;index:ux_purchase_records_active,unique,priority:1" json:"customer_id"`
	ContentID            uint          `gorm:"not null;index:ux_purchase_records_active,unique,priority:2;index" json:"content_id"`
	Content              Content       `gorm:"foreignKey:ContentID" json:"content,omitempty"`
	UserID               *uint         `gorm:"index" json:"user_id,omitempty"`
	OrganizationID       *uint         `gorm:"index" json:"organization_id,omitempty"`
	TotalCents           int64         `gorm:"not null" json:"total_cents"`
	Currency             string        `gorm:"type:varchar(3);not null;default:'usd'" json:"currency"`
	SplitConfigurationID uint          `gorm:"not null" json:"split_configuration_id"`
	PlatformFeeCents     int64         `gorm:"not null" json:"platform_fee_cents"`
	OrgFeeCents          int64         `gorm:"not null" json:"organization_fee_cents"`
	CreatorPayoutCents   int64         `gorm:"not null" json:"creator_payout_cents"`
	Status               string        `gorm:"type:varchar(20);not null;default:'completed';index" json:"status"`
	ActiveKey            *string       `gorm:"type:char(1);index:ux_purchase_records_active,unique,priority:3" json:"-"`
	ProviderPaymentRef   string        `gorm:"type:varchar(191);not null;index" json:"provider_payment_ref"`
	PurchasedAt          time.Time     `gorm:"autoCreateTime;index" json:"purchased_at"`
	UpdatedAt            time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// SumsExactly reports whether the recorded split adds up to the total. The
// ledger never writes a row for which this is false.
func (p *PurchaseRecord) SumsExactly() bool {
	return p.TotalCents == p.PlatformFeeCents+p.OrgFeeCents+p.CreatorPayoutCents
}
