package repository

import (
	"context"

	"github.com/LukasDorner/StreamGate/app/models"
	"gorm.io/gorm"
)

// contentRepository implements the ContentRepository interface
type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a new content repository instance
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

// GetByUUID retrieves content by its public UUID
func (r *contentRepository) GetByUUID(ctx context.Context, uuid string) (*models.Content, error) {
	var content models.Content
	err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&content).Error
	if err != nil {
		return nil, err
	}
	return &content, nil
}

// ListPublishedByOrganization returns a page of an organization's published content
func (r *contentRepository) ListPublishedByOrganization(ctx context.Context, organizationID uint, offset, limit int) ([]models.Content, error) {
	var contents []models.Content
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND status = ?", organizationID, models.ContentStatusPublished).
		Order("published_at DESC").
		Offset(offset).Limit(limit).
		Find(&contents).Error
	return contents, err
}
