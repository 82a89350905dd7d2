package models

import "time"

const (
	AccessTypePurchased     = "purchased"
	AccessTypeSubscription  = "subscription"
	AccessTypeComplimentary = "complimentary"
	AccessTypeStaff         = "staff"
)

// ContentAccessGrant entitles one user to one piece of content. A NULL
// expires_at means permanent. Expired grants are evaluated lazily and never
// deleted by the access path. Rows are written by the purchase ledger and by
// external collaborators (subscription activation) sharing this table's
// contract.
type ContentAccessGrant struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;index:ux_content_access_grants_user_content,unique,priority:1" json:"user_id"`
	ContentID      uint       `gorm:"not null;index:ux_content_access_grants_user_content,unique,priority:2;index" json:"content_id"`
	AccessType     string     `gorm:"type:varchar(20);not null" json:"access_type" validate:"oneof=purchased subscription complimentary staff"`
	GrantedAt      time.Time  `gorm:"autoCreateTime" json:"granted_at"`
	ExpiresAt      *time.Time `gorm:"type:timestamp;default:null" json:"expires_at,omitempty"`
	LastAccessedAt *time.Time `gorm:"type:timestamp;default:null" json:"last_accessed_at,omitempty"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsExpired reports whether the grant has lapsed at the given instant.
func (g *ContentAccessGrant) IsExpired(now time.Time) bool {
	return g.ExpiresAt != nil && !g.ExpiresAt.After(now)
}
