package payments

import (
	"fmt"

	"github.com/LukasDorner/StreamGate/app/models"
	"github.com/LukasDorner/StreamGate/internal/pkg/money"
)

// SplitResult is the exact integer-cent three-way split for one purchase.
// Creator is always computed as the remainder, so the three shares sum to the
// total by construction; the values are persisted verbatim on the purchase
// record and never recomputed.
type SplitResult struct {
	ConfigurationID uint
	Platform        money.Cents
	Organization    money.Cents
	Creator         money.Cents
}

// Total returns the reassembled total, used by invariant checks.
func (r SplitResult) Total() money.Cents {
	return r.Platform.Add(r.Organization).Add(r.Creator)
}

// ComputeSplit applies one active configuration to a total:
//
//	platform = floor(total * platformPct / 100) + platformFlat
//	org      = floor((total - platform) * orgPct / 100) + orgFlat   (0 without an org)
//	creator  = total - platform - org
//
// A configuration that would drive any share negative is rejected as
// ErrNegativeShare instead of producing a negative payout.
func ComputeSplit(cfg *models.RevenueSplitConfiguration, total money.Cents, hasOrganization bool) (SplitResult, error) {
	if err := cfg.Validate(); err != nil {
		return SplitResult{}, fmt.Errorf("%w: %v", ErrNegativeShare, err)
	}

	platform := total.PercentFloor(cfg.PlatformPercentage).Add(money.Cents(cfg.PlatformFlatCents))
	remainder, err := total.Sub(platform)
	if err != nil {
		return SplitResult{}, fmt.Errorf("%w: platform share %s exceeds total %s (config %d)",
			ErrNegativeShare, platform, total, cfg.ID)
	}

	var org money.Cents
	if hasOrganization {
		org = remainder.PercentFloor(cfg.OrgPercentage).Add(money.Cents(cfg.OrgFlatCents))
	}
	creator, err := remainder.Sub(org)
	if err != nil {
		return SplitResult{}, fmt.Errorf("%w: organization share %s exceeds remainder %s (config %d)",
			ErrNegativeShare, org, remainder, cfg.ID)
	}

	return SplitResult{
		ConfigurationID: cfg.ID,
		Platform:        platform,
		Organization:    org,
		Creator:         creator,
	}, nil
}

// SplitConfigSource yields the active configurations for a scope key. Backed
// by the payments repository in production and by fixtures in tests.
type SplitConfigSource interface {
	FindActiveSplitConfigurations(scopeKey string) ([]models.RevenueSplitConfiguration, error)
}

// ResolveSplit finds the single active configuration for the organization
// scope, falling back to the platform-default scope when the organization has
// none, and computes the split. Zero active configurations after fallback, or
// more than one in the consulted scope, is an operational invariant violation
// and aborts the purchase rather than picking a row arbitrarily.
func ResolveSplit(src SplitConfigSource, organizationID *uint, total money.Cents) (SplitResult, error) {
	scope := models.ScopeKeyFor(organizationID)

	cfgs, err := src.FindActiveSplitConfigurations(scope)
	if err != nil {
		return SplitResult{}, err
	}
	if len(cfgs) == 0 && organizationID != nil {
		scope = models.SplitScopeKeyPlatform
		cfgs, err = src.FindActiveSplitConfigurations(scope)
		if err != nil {
			return SplitResult{}, err
		}
	}
	switch len(cfgs) {
	case 0:
		return SplitResult{}, fmt.Errorf("%w: scope %q", ErrNoActiveSplitConfig, scope)
	case 1:
		return ComputeSplit(&cfgs[0], total, organizationID != nil)
	default:
		return SplitResult{}, fmt.Errorf("%w: scope %q has %d", ErrAmbiguousSplitConfig, scope, len(cfgs))
	}
}
