package access

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/LukasDorner/StreamGate/app/models"
	"github.com/LukasDorner/StreamGate/app/repository"
)

// Denial and allowance reasons, in the order the verifier evaluates them.
// Grant-based allowances reuse the grant's access type as the reason.
const (
	ReasonNotPublished    = "not_published"
	ReasonPublic          = "public"
	ReasonUnauthenticated = "unauthenticated"
	ReasonStaff           = "staff"
	ReasonNotAuthorized   = "not_authorized"
)

// Decision is the outcome of one access check. It is a normal result either
// way; denial is never an error.
type Decision struct {
	Allowed    bool       `json:"can_watch"`
	Reason     string     `json:"reason"`
	AccessType string     `json:"access_type,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// Repository provides the reads the verifier needs. Everything is committed
// state; the verifier itself never writes except the advisory last-accessed
// touch.
type Repository interface {
	GetContentByUUID(ctx context.Context, uuid string) (*models.Content, error)
	GetGrant(ctx context.Context, userID, contentID uint) (*models.ContentAccessGrant, error)
	GetActiveMembership(ctx context.Context, userID, organizationID uint) (*models.OrganizationMembership, error)
	TouchGrantLastAccessed(ctx context.Context, grantID uint) error
}

// Verifier decides, for every content view request, whether the requester may
// watch. It tolerates unlimited concurrent readers and holds no locks.
type Verifier struct {
	repo Repository
}

// NewVerifier creates a verifier from an injected repository.
func NewVerifier(repo Repository) *Verifier {
	return &Verifier{repo: repo}
}

// NewVerifierFromRepositories creates a verifier on the shared app repositories.
func NewVerifierFromRepositories(repos *repository.Repositories) *Verifier {
	return NewVerifier(NewRepository(repos))
}

// CanWatch evaluates the fixed-order decision procedure. userID is nil for
// unauthenticated requests. The returned content is the row the decision was
// made against, for callers that follow up with delivery URL issuance.
func (v *Verifier) CanWatch(ctx context.Context, userID *uint, contentUUID string) (*Decision, *models.Content, error) {
	content, err := v.repo.GetContentByUUID(ctx, contentUUID)
	if err != nil {
		return nil, nil, err
	}

	// 1. Unpublished content is invisible here; staff/management overrides are
	// an external authorization concern.
	if !content.IsPublished() {
		return &Decision{Allowed: false, Reason: ReasonNotPublished}, content, nil
	}

	// 2. Free public content needs no identity at all.
	if content.IsFreePublic() {
		return &Decision{Allowed: true, Reason: ReasonPublic}, content, nil
	}

	// 3. Everything past here requires a user.
	if userID == nil {
		return &Decision{Allowed: false, Reason: ReasonUnauthenticated}, content, nil
	}

	// 4. Direct grant. Expiry is evaluated lazily: an expired grant is treated
	// as absent, never deleted here.
	grant, err := v.repo.GetGrant(ctx, *userID, content.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}
	if grant != nil && !grant.IsExpired(time.Now()) && isConsumableGrant(grant.AccessType) {
		// Advisory telemetry only; a failed touch never flips the decision.
		if touchErr := v.repo.TouchGrantLastAccessed(ctx, grant.ID); touchErr != nil {
			log.Warnf("failed to touch grant %d: %v", grant.ID, touchErr)
		}
		return &Decision{
			Allowed:    true,
			Reason:     grant.AccessType,
			AccessType: grant.AccessType,
			ExpiresAt:  grant.ExpiresAt,
		}, content, nil
	}

	// 5. Management membership in the content's organization.
	if content.OrganizationID != nil {
		membership, err := v.repo.GetActiveMembership(ctx, *userID, *content.OrganizationID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}
		if membership != nil && membership.IsManagement() {
			return &Decision{Allowed: true, Reason: ReasonStaff, AccessType: models.AccessTypeStaff}, content, nil
		}
	}

	// 6. Default deny.
	return &Decision{Allowed: false, Reason: ReasonNotAuthorized}, content, nil
}

func isConsumableGrant(accessType string) bool {
	switch accessType {
	case models.AccessTypePurchased, models.AccessTypeSubscription, models.AccessTypeComplimentary:
		return true
	default:
		return false
	}
}
