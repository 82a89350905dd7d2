package repository

import (
	"context"

	"github.com/LukasDorner/StreamGate/app/models"
	"gorm.io/gorm"
)

// membershipRepository implements the MembershipRepository interface
type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new membership repository instance
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

// GetActiveByUserAndOrganization retrieves a user's active membership in one organization
func (r *membershipRepository) GetActiveByUserAndOrganization(ctx context.Context, userID, organizationID uint) (*models.OrganizationMembership, error) {
	var m models.OrganizationMembership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ? AND status = ?", userID, organizationID, models.MembershipStatusActive).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListActiveByUser returns all active memberships for a user
func (r *membershipRepository) ListActiveByUser(ctx context.Context, userID uint) ([]models.OrganizationMembership, error) {
	var ms []models.OrganizationMembership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.MembershipStatusActive).
		Find(&ms).Error
	return ms, err
}
