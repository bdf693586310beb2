// AngelaMos | 2026
// tier_test.go

package subscription

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/spendledger/internal/core"
)

func TestCheckLimit(t *testing.T) {
	cases := []struct {
		name     string
		tier     string
		resource string
		current  int
		allowed  bool
	}{
		{"free below group ceiling", TierFree, ResourceGroups, 0, true},
		{"free at group ceiling", TierFree, ResourceGroups, 1, false},
		{"personal below expense ceiling", TierPersonal, ResourceExpensesMonthly, 999, true},
		{"personal at expense ceiling", TierPersonal, ResourceExpensesMonthly, 1000, false},
		{"family below member ceiling", TierFamily, ResourceMembersPerGroup, 9, true},
		{"family at member ceiling", TierFamily, ResourceMembersPerGroup, 10, false},
		{"enterprise is unlimited", TierEnterprise, ResourceGroups, 1000000, true},
		{"unknown tier falls back to free", "platinum", ResourceGroups, 1, false},
		{"unknown tier below free ceiling", "platinum", ResourceGroups, 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckLimit(tc.tier, tc.resource, tc.current)
			if tc.allowed {
				assert.NoError(t, err)
				return
			}
			var limitErr *LimitExceededError
			require.ErrorAs(t, err, &limitErr)
			assert.Equal(t, tc.resource, limitErr.Resource)
			assert.Equal(t, tc.current, limitErr.Current)
		})
	}
}

func TestCheckLimitUnknownResourceAllows(t *testing.T) {
	for _, tier := range tierOrder {
		assert.NoError(t, CheckLimit(tier, "recurring_payments", 999999))
	}
}

func TestCheckFeatureAccess(t *testing.T) {
	cases := []struct {
		name    string
		tier    string
		feature string
		allowed bool
		minTier string
	}{
		{"free denied export", TierFree, FeatureExportData, false, TierPersonal},
		{"personal granted export", TierPersonal, FeatureExportData, true, ""},
		{"personal denied reports", TierPersonal, FeatureAdvancedReports, false, TierFamily},
		{"family granted reports", TierFamily, FeatureAdvancedReports, true, ""},
		{"family denied support", TierFamily, FeaturePrioritySupport, false, TierTeam},
		{"team granted support", TierTeam, FeaturePrioritySupport, true, ""},
		{"free denied custom categories", TierFree, FeatureCustomCategories, false, TierPersonal},
		{"unknown tier treated as free", "platinum", FeatureExportData, false, TierPersonal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckFeatureAccess(tc.tier, tc.feature)
			if tc.allowed {
				assert.NoError(t, err)
				return
			}
			var featureErr *FeatureDeniedError
			require.ErrorAs(t, err, &featureErr)
			assert.Equal(t, tc.feature, featureErr.Feature)
			assert.Equal(t, tc.minTier, featureErr.MinTier)
		})
	}
}

func TestCheckFeatureAccessUnknownFeatureAllows(t *testing.T) {
	assert.NoError(t, CheckFeatureAccess(TierFree, "ai_insights"))
}

func TestUpgradeMessage(t *testing.T) {
	t.Run("group ceiling points at family", func(t *testing.T) {
		s := UpgradeMessage(TierFree, ResourceGroups, 1, 1)
		assert.Equal(t, TierFamily, s.SuggestedTier)
		assert.Equal(t, TierFree, s.CurrentTier)
		assert.Equal(t, 100, s.UsagePercent)
		assert.InDelta(t, 9.99, s.MonthlyPrice, 0.001)
	})

	t.Run("member ceiling points at family", func(t *testing.T) {
		s := UpgradeMessage(TierFree, ResourceMembersPerGroup, 1, 1)
		assert.Equal(t, TierFamily, s.SuggestedTier)
	})

	t.Run("budget ceiling points at personal", func(t *testing.T) {
		s := UpgradeMessage(TierFree, ResourceBudgets, 3, 3)
		assert.Equal(t, TierPersonal, s.SuggestedTier)
		assert.InDelta(t, 4.99, s.MonthlyPrice, 0.001)
	})

	t.Run("partial usage", func(t *testing.T) {
		s := UpgradeMessage(TierPersonal, ResourceExpensesMonthly, 250, 1000)
		assert.Equal(t, 25, s.UsagePercent)
	})

	t.Run("unlimited limit yields zero percent", func(t *testing.T) {
		s := UpgradeMessage(TierEnterprise, ResourceGroups, 50, Unlimited)
		assert.Equal(t, 0, s.UsagePercent)
	})
}

func TestLimitError(t *testing.T) {
	t.Run("limit exceeded maps to 402", func(t *testing.T) {
		err := CheckLimit(TierFree, ResourceGroups, 1)
		require.Error(t, err)

		appErr := LimitError(TierFree, err)
		var ae *core.AppError
		require.ErrorAs(t, appErr, &ae)
		assert.Equal(t, http.StatusPaymentRequired, ae.Status)
		assert.Equal(t, "LIMIT_EXCEEDED", ae.Code)
		assert.Contains(t, ae.Message, "Family")
	})

	t.Run("feature denial maps to 402", func(t *testing.T) {
		err := CheckFeatureAccess(TierFree, FeatureExportData)
		require.Error(t, err)

		appErr := LimitError(TierFree, err)
		var ae *core.AppError
		require.ErrorAs(t, appErr, &ae)
		assert.Equal(t, http.StatusPaymentRequired, ae.Status)
		assert.Equal(t, "TIER_REQUIRED", ae.Code)
		assert.Contains(t, ae.Message, "Personal")
	})

	t.Run("unrelated errors pass through", func(t *testing.T) {
		sentinel := errors.New("store offline")
		assert.Equal(t, sentinel, LimitError(TierFree, sentinel))
	})
}

func TestCatalogCoversEveryTier(t *testing.T) {
	resources := []string{
		ResourceGroups,
		ResourceMembersPerGroup,
		ResourceCategories,
		ResourceBudgets,
		ResourceExpensesMonthly,
	}
	features := []string{
		FeatureAdvancedReports,
		FeatureExportData,
		FeaturePrioritySupport,
		FeatureCustomCategories,
	}

	for _, tier := range tierOrder {
		info, ok := Catalog[tier]
		require.True(t, ok, "tier %s missing from catalog", tier)
		assert.Positive(t, info.RetentionDays, "tier %s", tier)
		for _, res := range resources {
			_, ok := info.Limits[res]
			assert.True(t, ok, "tier %s missing limit %s", tier, res)
		}
		for _, feat := range features {
			_, ok := info.Features[feat]
			assert.True(t, ok, "tier %s missing feature %s", tier, feat)
		}
	}
}
