package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	MembershipRoleOwner   = "owner"
	MembershipRoleAdmin   = "admin"
	MembershipRoleManager = "manager"
	MembershipRoleMember  = "member"

	MembershipStatusActive   = "active"
	MembershipStatusInactive = "inactive"
)

// Organization groups creators and their content. Management (invites, roles,
// billing contacts) is owned by a separate service; this core only reads the
// rows to scope revenue splits and staff access.
type Organization struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UUID      string         `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;uniqueIndex;not null" json:"uuid"`
	Name      string         `gorm:"type:varchar(200);not null" json:"name"`
	Slug      string         `gorm:"type:varchar(200);uniqueIndex" json:"slug"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// OrganizationMembership links a user to an organization with a role.
type OrganizationMembership struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	UserID         uint         `gorm:"not null;index:ux_org_memberships_user_org,unique,priority:1" json:"user_id"`
	OrganizationID uint         `gorm:"not null;index:ux_org_memberships_user_org,unique,priority:2;index" json:"organization_id"`
	Organization   Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Role           string       `gorm:"type:varchar(20);not null;default:'member'" json:"role" validate:"oneof=owner admin manager member"`
	Status         string       `gorm:"type:varchar(20);not null;default:'active';index" json:"status" validate:"oneof=active inactive"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsManagement reports whether the membership carries a content-management role.
func (m *OrganizationMembership) IsManagement() bool {
	switch m.Role {
	case MembershipRoleOwner, MembershipRoleAdmin, MembershipRoleManager:
		return true
	default:
		return false
	}
}

// IsActive reports whether the membership currently entitles the user to anything.
func (m *OrganizationMembership) IsActive() bool {
	return m.Status == MembershipStatusActive
}
