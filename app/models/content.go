package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ContentStatusDraft      = "draft"
	ContentStatusProcessing = "processing"
	ContentStatusPublished  = "published"
	ContentStatusBlocked    = "blocked"

	ContentVisibilityPublic   = "public"
	ContentVisibilityUnlisted = "unlisted"
	ContentVisibilityPrivate  = "private"
)

// Content is a piece of creator media (a video). Upload, transcoding and
// metadata editing are owned by the media service; the monetization core reads
// price, visibility and publication state and never mutates them.
type Content struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UUID           string         `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;uniqueIndex;not null" json:"uuid"`
	CreatorID      uint           `gorm:"not null;index" json:"creator_id"`
	Creator        User           `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	OrganizationID *uint          `gorm:"index" json:"organization_id,omitempty"`
	Organization   *Organization  `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Title          string         `gorm:"type:varchar(255)" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	PriceCents     int64          `gorm:"not null;default:0" json:"price_cents" validate:"gte=0"`
	Currency       string         `gorm:"type:varchar(3);not null;default:'usd'" json:"currency"`
	Visibility     string         `gorm:"type:varchar(20);not null;default:'private';index" json:"visibility" validate:"oneof=public unlisted private"`
	Status         string         `gorm:"type:varchar(20);not null;default:'draft';index" json:"status" validate:"oneof=draft processing published blocked"`
	StorageKey     string         `gorm:"type:varchar(512)" json:"-"`
	DurationSecs   int            `gorm:"default:0" json:"duration_secs"`
	PublishedAt    *time.Time     `gorm:"type:timestamp;default:null" json:"published_at,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsPublished reports whether the content is viewable at all.
func (c *Content) IsPublished() bool {
	return c.Status == ContentStatusPublished
}

// IsFreePublic reports whether the content is world-viewable without an account.
func (c *Content) IsFreePublic() bool {
	return c.Visibility == ContentVisibilityPublic && c.PriceCents == 0
}
