package models

import (
	"fmt"
	"time"
)

const (
	SplitModelPercentage = "percentage"
	SplitModelFlatFee    = "flat_fee"
	SplitModelHybrid     = "hybrid"
)

// SplitScopeKeyPlatform is the scope_key value for the platform-default
// configuration (the one with no organization). MySQL unique indexes ignore
// NULLs, so the nullable organization column alone cannot enforce "at most one
// active default"; scope_key materializes the scope into a non-NULL string.
const SplitScopeKeyPlatform = "platform"

// RevenueSplitConfiguration is a versioned split policy. Configurations are
// written by platform/organization admin tooling and are strictly read-only
// here. ActiveKey is NULL for inactive rows and "1" for the active one, so the
// unique index (scope_key, active_key) allows any number of inactive versions
// but at most one active configuration per scope.
type RevenueSplitConfiguration struct {
	ID                    uint          `gorm:"primaryKey" json:"id"`
	OrganizationID        *uint         `gorm:"index" json:"organization_id,omitempty"`
	Organization          *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	ScopeKey              string        `gorm:"type:varchar(40);not null;index:ux_revenue_split_scope_active,unique,priority:1" json:"scope_key"`
	Model                 string        `gorm:"type:varchar(20);not null" json:"model" validate:"oneof=percentage flat_fee hybrid"`
	PlatformPercentage    int           `gorm:"not null;default:0" json:"platform_percentage" validate:"gte=0,lte=100"`
	PlatformFlatCents     int64         `gorm:"not null;default:0" json:"platform_flat_cents" validate:"gte=0"`
	OrgPercentage         int           `gorm:"not null;default:0" json:"organization_percentage" validate:"gte=0,lte=100"`
	OrgFlatCents          int64         `gorm:"not null;default:0" json:"organization_flat_cents" validate:"gte=0"`
	IsActive              bool          `gorm:"not null;default:false;index" json:"is_active"`
	ActiveKey             *string       `gorm:"type:char(1);index:ux_revenue_split_scope_active,unique,priority:2" json:"-"`
	EffectiveFrom         *time.Time    `gorm:"type:timestamp;default:null" json:"effective_from,omitempty"`
	EffectiveUntil        *time.Time    `gorm:"type:timestamp;default:null" json:"effective_until,omitempty"`
	CreatedAt             time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// ScopeKeyFor renders the scope key for an organization id (nil = platform default).
func ScopeKeyFor(organizationID *uint) string {
	if organizationID == nil {
		return SplitScopeKeyPlatform
	}
	return fmt.Sprintf("org:%d", *organizationID)
}

// Validate checks the tagged-variant shape at construction time so calculation
// never has to interpret an inconsistent policy.
func (c *RevenueSplitConfiguration) Validate() error {
	switch c.Model {
	case SplitModelPercentage:
		if c.PlatformFlatCents != 0 || c.OrgFlatCents != 0 {
			return fmt.Errorf("percentage model must not carry flat fees")
		}
	case SplitModelFlatFee:
		if c.PlatformPercentage != 0 || c.OrgPercentage != 0 {
			return fmt.Errorf("flat_fee model must not carry percentages")
		}
	case SplitModelHybrid:
		// both parts allowed
	default:
		return fmt.Errorf("unknown split model %q", c.Model)
	}
	if c.PlatformPercentage < 0 || c.PlatformPercentage > 100 ||
		c.OrgPercentage < 0 || c.OrgPercentage > 100 {
		return fmt.Errorf("percentages must be within [0,100]")
	}
	if c.PlatformPercentage+c.OrgPercentage > 100 {
		return fmt.Errorf("platform and organization percentages must not exceed 100 combined")
	}
	if c.PlatformFlatCents < 0 || c.OrgFlatCents < 0 {
		return fmt.Errorf("flat fees must not be negative")
	}
	return nil
}
