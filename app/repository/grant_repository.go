package repository

import (
	"context"
	"time"

	"github.com/LukasDorner/StreamGate/app/models"
	"gorm.io/gorm"
)

// grantRepository implements the GrantRepository interface
type grantRepository struct {
	db *gorm.DB
}

// NewGrantRepository creates a new grant repository instance
func NewGrantRepository(db *gorm.DB) GrantRepository {
	return &grantRepository{db: db}
}

// GetByUserAndContent retrieves the grant a user holds on one content item
func (r *grantRepository) GetByUserAndContent(ctx context.Context, userID, contentID uint) (*models.ContentAccessGrant, error) {
	var grant models.ContentAccessGrant
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ?", userID, contentID).
		First(&grant).Error
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// TouchLastAccessed updates the advisory last-accessed timestamp on a grant
func (r *grantRepository) TouchLastAccessed(ctx context.Context, grantID uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.ContentAccessGrant{}).
		Where("id = ?", grantID).
		Update("last_accessed_at", &now).Error
}
