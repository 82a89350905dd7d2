package models

import "time"

// CustomerIdentity links the payment processor's opaque customer id to a
// platform user. Rows are written when checkout sessions are created (outside
// this core); the purchase ledger reads them to attach access grants to the
// right account.
type CustomerIdentity struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"not null;index" json:"user_id"`
	User               User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ProviderCustomerID string    `gorm:"type:varchar(191);not null;uniqueIndex:ux_customer_identities_provider_id" json:"provider_customer_id"`
	Email              string    `gorm:"type:varchar(200);default:''" json:"email"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
