package access

import (
	"context"

	"github.com/LukasDorner/StreamGate/app/models"
	"github.com/LukasDorner/StreamGate/app/repository"
)

// appRepository backs the verifier with the shared app repositories, the same
// layer the API key middleware resolves users through.
type appRepository struct {
	repos *repository.Repositories
}

// NewRepository creates an access repository on top of the app repositories.
func NewRepository(repos *repository.Repositories) Repository {
	return &appRepository{repos: repos}
}

func (r *appRepository) GetContentByUUID(ctx context.Context, uuid string) (*models.Content, error) {
	return r.repos.Content.GetByUUID(ctx, uuid)
}

func (r *appRepository) GetGrant(ctx context.Context, userID, contentID uint) (*models.ContentAccessGrant, error) {
	return r.repos.Grant.GetByUserAndContent(ctx, userID, contentID)
}

func (r *appRepository) GetActiveMembership(ctx context.Context, userID, organizationID uint) (*models.OrganizationMembership, error) {
	return r.repos.Membership.GetActiveByUserAndOrganization(ctx, userID, organizationID)
}

func (r *appRepository) TouchGrantLastAccessed(ctx context.Context, grantID uint) error {
	return r.repos.Grant.TouchLastAccessed(ctx, grantID)
}
