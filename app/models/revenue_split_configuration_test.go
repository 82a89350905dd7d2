package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScopeKeyFor(t *testing.T) {
	assert.Equal(t, "platform", ScopeKeyFor(nil))

	orgID := uint(7)
	assert.Equal(t, "org:7", ScopeKeyFor(&orgID))
}

func TestRevenueSplitConfiguration_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     RevenueSplitConfiguration
		wantErr bool
	}{
		{
			name: "valid percentage",
			cfg:  RevenueSplitConfiguration{Model: SplitModelPercentage, PlatformPercentage: 10, OrgPercentage: 20},
		},
		{
			name: "valid flat fee",
			cfg:  RevenueSplitConfiguration{Model: SplitModelFlatFee, PlatformFlatCents: 50, OrgFlatCents: 25},
		},
		{
			name: "valid hybrid",
			cfg:  RevenueSplitConfiguration{Model: SplitModelHybrid, PlatformPercentage: 5, PlatformFlatCents: 50, OrgPercentage: 20},
		},
		{
			name:    "percentage model with flat fee",
			cfg:     RevenueSplitConfiguration{Model: SplitModelPercentage, PlatformPercentage: 10, PlatformFlatCents: 50},
			wantErr: true,
		},
		{
			name:    "flat fee model with percentage",
			cfg:     RevenueSplitConfiguration{Model: SplitModelFlatFee, PlatformFlatCents: 50, OrgPercentage: 5},
			wantErr: true,
		},
		{
			name:    "unknown model",
			cfg:     RevenueSplitConfiguration{Model: "tiered", PlatformPercentage: 10},
			wantErr: true,
		},
		{
			name:    "percentages exceed 100 combined",
			cfg:     RevenueSplitConfiguration{Model: SplitModelPercentage, PlatformPercentage: 60, OrgPercentage: 50},
			wantErr: true,
		},
		{
			name:    "negative flat fee",
			cfg:     RevenueSplitConfiguration{Model: SplitModelFlatFee, PlatformFlatCents: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPurchaseRecord_SumsExactly(t *testing.T) {
	rec := PurchaseRecord{TotalCents: 999, PlatformFeeCents: 99, OrgFeeCents: 180, CreatorPayoutCents: 720}
	assert.True(t, rec.SumsExactly())

	rec.CreatorPayoutCents = 719
	assert.False(t, rec.SumsExactly())
}

func TestContentAccessGrant_IsExpired(t *testing.T) {
	now := time.Now()

	permanent := ContentAccessGrant{}
	assert.False(t, permanent.IsExpired(now), "nil expires_at means permanent")

	past := now.Add(-time.Minute)
	assert.True(t, (&ContentAccessGrant{ExpiresAt: &past}).IsExpired(now))

	future := now.Add(time.Minute)
	assert.False(t, (&ContentAccessGrant{ExpiresAt: &future}).IsExpired(now))

	exact := now
	assert.True(t, (&ContentAccessGrant{ExpiresAt: &exact}).IsExpired(now), "expiry instant itself is expired")
}
