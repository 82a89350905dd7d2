package repository

import (
	"context"

	"github.com/LukasDorner/StreamGate/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByAPIKeyHash(ctx context.Context, hash string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// ContentRepository defines the interface for content-related database operations
type ContentRepository interface {
	GetByUUID(ctx context.Context, uuid string) (*models.Content, error)
	ListPublishedByOrganization(ctx context.Context, organizationID uint, offset, limit int) ([]models.Content, error)
}

// MembershipRepository defines the interface for organization membership reads
type MembershipRepository interface {
	GetActiveByUserAndOrganization(ctx context.Context, userID, organizationID uint) (*models.OrganizationMembership, error)
	ListActiveByUser(ctx context.Context, userID uint) ([]models.OrganizationMembership, error)
}

// GrantRepository defines the interface for content access grant reads and the
// advisory last-accessed touch
type GrantRepository interface {
	GetByUserAndContent(ctx context.Context, userID, contentID uint) (*models.ContentAccessGrant, error)
	TouchLastAccessed(ctx context.Context, grantID uint) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User       UserRepository
	Content    ContentRepository
	Membership MembershipRepository
	Grant      GrantRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Content:    NewContentRepository(db),
		Membership: NewMembershipRepository(db),
		Grant:      NewGrantRepository(db),
	}
}
