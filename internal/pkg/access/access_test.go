package access

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/LukasDorner/StreamGate/app/models"
)

type stubRepository struct {
	contents    map[string]*models.Content
	grants      map[[2]uint]*models.ContentAccessGrant
	memberships map[[2]uint]*models.OrganizationMembership

	touched  []uint
	touchErr error
	seenCtx  []context.Context
}

func newStubRepository() *stubRepository {
	return &stubRepository{
		contents:    map[string]*models.Content{},
		grants:      map[[2]uint]*models.ContentAccessGrant{},
		memberships: map[[2]uint]*models.OrganizationMembership{},
	}
}

func (s *stubRepository) GetContentByUUID(ctx context.Context, uuid string) (*models.Content, error) {
	s.seenCtx = append(s.seenCtx, ctx)
	if c, ok := s.contents[uuid]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepository) GetGrant(ctx context.Context, userID, contentID uint) (*models.ContentAccessGrant, error) {
	s.seenCtx = append(s.seenCtx, ctx)
	if g, ok := s.grants[[2]uint{userID, contentID}]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepository) GetActiveMembership(ctx context.Context, userID, organizationID uint) (*models.OrganizationMembership, error) {
	s.seenCtx = append(s.seenCtx, ctx)
	if m, ok := s.memberships[[2]uint{userID, organizationID}]; ok {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepository) TouchGrantLastAccessed(ctx context.Context, grantID uint) error {
	s.seenCtx = append(s.seenCtx, ctx)
	s.touched = append(s.touched, grantID)
	return s.touchErr
}

const paidUUID = "0d4db78b-59a5-4be8-b298-1b0bbdf7d21e"
const freeUUID = "4f6a2fd3-0808-4aa4-9b58-e581e9eaf2ac"
const draftUUID = "11bd02c4-95bd-4b25-a50b-6eb5be7422a1"

func seededStub() *stubRepository {
	repo := newStubRepository()
	orgID := uint(7)
	repo.contents[paidUUID] = &models.Content{
		ID: 31, UUID: paidUUID, CreatorID: 5, OrganizationID: &orgID,
		PriceCents: 999,
		Visibility: models.ContentVisibilityUnlisted,
		Status:     models.ContentStatusPublished,
	}
	repo.contents[freeUUID] = &models.Content{
		ID: 32, UUID: freeUUID, CreatorID: 5,
		PriceCents: 0,
		Visibility: models.ContentVisibilityPublic,
		Status:     models.ContentStatusPublished,
	}
	repo.contents[draftUUID] = &models.Content{
		ID: 33, UUID: draftUUID, CreatorID: 5,
		Visibility: models.ContentVisibilityPublic,
		Status:     models.ContentStatusDraft,
	}
	return repo
}

func uintPtr(v uint) *uint { return &v }

func TestCanWatch_UnknownContent(t *testing.T) {
	v := NewVerifier(seededStub())
	_, _, err := v.CanWatch(context.Background(), nil, "ba97412d-96c6-4f32-96b0-0ea1a0ca57ae")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCanWatch_UnpublishedDeniedForEveryone(t *testing.T) {
	repo := seededStub()
	// Even a valid grant on the draft must not matter; publication is checked first.
	repo.grants[[2]uint{42, 33}] = &models.ContentAccessGrant{
		ID: 1, UserID: 42, ContentID: 33, AccessType: models.AccessTypePurchased,
	}
	v := NewVerifier(repo)

	d, _, err := v.CanWatch(context.Background(), uintPtr(42), draftUUID)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotPublished, d.Reason)
}

func TestCanWatch_FreePublicAllowsAnonymous(t *testing.T) {
	v := NewVerifier(seededStub())

	d, content, err := v.CanWatch(context.Background(), nil, freeUUID)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, ReasonPublic, d.Reason)
	assert.Equal(t, uint(32), content.ID)
}

func TestCanWatch_PaidContentNeedsIdentity(t *testing.T) {
	v := NewVerifier(seededStub())

	d, _, err := v.CanWatch(context.Background(), nil, paidUUID)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonUnauthenticated, d.Reason)
}

func TestCanWatch_PurchasedGrantAllows(t *testing.T) {
	repo := seededStub()
	repo.grants[[2]uint{42, 31}] = &models.ContentAccessGrant{
		ID: 9, UserID: 42, ContentID: 31, AccessType: models.AccessTypePurchased,
	}
	v := NewVerifier(repo)

	d, _, err := v.CanWatch(context.Background(), uintPtr(42), paidUUID)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, models.AccessTypePurchased, d.Reason)
	assert.Equal(t, models.AccessTypePurchased, d.AccessType)
	assert.Nil(t, d.ExpiresAt)
	assert.Equal(t, []uint{9}, repo.touched, "allowed view touches last_accessed_at")
}

func TestCanWatch_ExpiredGrantIsAbsent(t *testing.T) {
	repo := seededStub()
	expired := time.Now().Add(-1 * time.Hour)
	repo.grants[[2]uint{42, 31}] = &models.ContentAccessGrant{
		ID: 9, UserID: 42, ContentID: 31,
		AccessType: models.AccessTypeSubscription, ExpiresAt: &expired,
	}
	v := NewVerifier(repo)

	d, _, err := v.CanWatch(context.Background(), uintPtr(42), paidUUID)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotAuthorized, d.Reason)
	assert.Empty(t, repo.touched, "expired grants are never touched")
}

func TestCanWatch_FutureExpiryStillConsumable(t *testing.T) {
	repo := seededStub()
	until := time.Now().Add(24 * time.Hour)
	repo.grants[[2]uint{42, 31}] = &models.ContentAccessGrant{
		ID: 9, UserID: 42, ContentID: 31,
		AccessType: models.AccessTypeSubscription, ExpiresAt: &until,
	}
	v := NewVerifier(repo)

	d, _, err := v.CanWatch(context.Background(), uintPtr(42), paidUUID)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, models.AccessTypeSubscription, d.AccessType)
	require.NotNil(t, d.ExpiresAt)
	assert.WithinDuration(t, until, *d.ExpiresAt, time.Second)
}

func TestCanWatch_TouchFailureDoesNotFlipDecision(t *testing.T) {
	repo := seededStub()
	repo.grants[[2]uint{42, 31}] = &models.ContentAccessGrant{
		ID: 9, UserID: 42, ContentID: 31, AccessType: models.AccessTypePurchased,
	}
	repo.touchErr = gorm.ErrInvalidTransaction
	v := NewVerifier(repo)

	d, _, err := v.CanWatch(context.Background(), uintPtr(42), paidUUID)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestCanWatch_ManagementMembershipAllows(t *testing.T) {
	repo := seededStub()
	repo.memberships[[2]uint{50, 7}] = &models.OrganizationMembership{
		ID: 1, UserID: 50, OrganizationID: 7,
		Role: models.MembershipRoleManager, Status: models.MembershipStatusActive,
	}
	v := NewVerifier(repo)

	d, _, err := v.CanWatch(context.Background(), uintPtr(50), paidUUID)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, ReasonStaff, d.Reason)
	assert.Equal(t, models.AccessTypeStaff, d.AccessType)
}

func TestCanWatch_PlainMembershipDenied(t *testing.T) {
	repo := seededStub()
	repo.memberships[[2]uint{50, 7}] = &models.OrganizationMembership{
		ID: 1, UserID: 50, OrganizationID: 7,
		Role: models.MembershipRoleMember, Status: models.MembershipStatusActive,
	}
	v := NewVerifier(repo)

	d, _, err := v.CanWatch(context.Background(), uintPtr(50), paidUUID)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotAuthorized, d.Reason)
}

func TestCanWatch_DefaultDeny(t *testing.T) {
	v := NewVerifier(seededStub())

	d, _, err := v.CanWatch(context.Background(), uintPtr(99), paidUUID)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotAuthorized, d.Reason)
}

type ctxMarkerKey struct{}

func TestCanWatch_RequestContextReachesEveryRead(t *testing.T) {
	repo := seededStub()
	repo.grants[[2]uint{42, 31}] = &models.ContentAccessGrant{
		ID: 9, UserID: 42, ContentID: 31, AccessType: models.AccessTypePurchased,
	}
	v := NewVerifier(repo)

	ctx := context.WithValue(context.Background(), ctxMarkerKey{}, "req-7")
	_, _, err := v.CanWatch(ctx, uintPtr(42), paidUUID)
	require.NoError(t, err)

	require.NotEmpty(t, repo.seenCtx)
	for _, seen := range repo.seenCtx {
		assert.Equal(t, "req-7", seen.Value(ctxMarkerKey{}),
			"every repository call carries the request context, so handler deadlines apply")
	}
}
