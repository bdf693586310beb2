// AngelaMos | 2026
// tier.go

package subscription

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/carterperez-dev/spendledger/internal/core"
)

const (
	TierFree       = "free"
	TierPersonal   = "personal"
	TierFamily     = "family"
	TierTeam       = "team"
	TierEnterprise = "enterprise"
)

const (
	ResourceGroups          = "groups"
	ResourceMembersPerGroup = "members_per_group"
	ResourceCategories      = "categories_per_group"
	ResourceBudgets         = "budgets_per_group"
	ResourceExpensesMonthly = "expenses_per_month"
)

const (
	FeatureAdvancedReports  = "advanced_reports"
	FeatureExportData       = "export_data"
	FeaturePrioritySupport  = "priority_support"
	FeatureCustomCategories = "custom_categories"
)

// Unlimited marks a quota with no ceiling.
const Unlimited = -1

type TierInfo struct {
	Name          string
	DisplayName   string
	MonthlyPrice  float64
	Limits        map[string]int
	Features      map[string]bool
	RetentionDays int
}

// Catalog is the static tier table. It is immutable after init and read
// concurrently without locks.
var Catalog = map[string]TierInfo{
	TierFree: {
		Name:         TierFree,
		DisplayName:  "Free",
		MonthlyPrice: 0,
		Limits: map[string]int{
			ResourceGroups:          1,
			ResourceMembersPerGroup: 1,
			ResourceCategories:      5,
			ResourceBudgets:         3,
			ResourceExpensesMonthly: 100,
		},
		Features: map[string]bool{
			FeatureAdvancedReports:  false,
			FeatureExportData:       false,
			FeaturePrioritySupport:  false,
			FeatureCustomCategories: false,
		},
		RetentionDays: 90,
	},
	TierPersonal: {
		Name:         TierPersonal,
		DisplayName:  "Personal",
		MonthlyPrice: 4.99,
		Limits: map[string]int{
			ResourceGroups:          1,
			ResourceMembersPerGroup: 2,
			ResourceCategories:      20,
			ResourceBudgets:         10,
			ResourceExpensesMonthly: 1000,
		},
		Features: map[string]bool{
			FeatureAdvancedReports:  false,
			FeatureExportData:       true,
			FeaturePrioritySupport:  false,
			FeatureCustomCategories: true,
		},
		RetentionDays: 365,
	},
	TierFamily: {
		Name:         TierFamily,
		DisplayName:  "Family",
		MonthlyPrice: 9.99,
		Limits: map[string]int{
			ResourceGroups:          3,
			ResourceMembersPerGroup: 10,
			ResourceCategories:      50,
			ResourceBudgets:         25,
			ResourceExpensesMonthly: 5000,
		},
		Features: map[string]bool{
			FeatureAdvancedReports:  true,
			FeatureExportData:       true,
			FeaturePrioritySupport:  false,
			FeatureCustomCategories: true,
		},
		RetentionDays: 365,
	},
	TierTeam: {
		Name:         TierTeam,
		DisplayName:  "Team",
		MonthlyPrice: 19.99,
		Limits: map[string]int{
			ResourceGroups:          10,
			ResourceMembersPerGroup: 50,
			ResourceCategories:      100,
			ResourceBudgets:         50,
			ResourceExpensesMonthly: 25000,
		},
		Features: map[string]bool{
			FeatureAdvancedReports:  true,
			FeatureExportData:       true,
			FeaturePrioritySupport:  true,
			FeatureCustomCategories: true,
		},
		RetentionDays: 730,
	},
	TierEnterprise: {
		Name:         TierEnterprise,
		DisplayName:  "Enterprise",
		MonthlyPrice: 49.99,
		Limits: map[string]int{
			ResourceGroups:          Unlimited,
			ResourceMembersPerGroup: Unlimited,
			ResourceCategories:      Unlimited,
			ResourceBudgets:         Unlimited,
			ResourceExpensesMonthly: Unlimited,
		},
		Features: map[string]bool{
			FeatureAdvancedReports:  true,
			FeatureExportData:       true,
			FeaturePrioritySupport:  true,
			FeatureCustomCategories: true,
		},
		RetentionDays: 2555,
	},
}

// tierOrder ranks tiers for minimum-tier feature lookups.
var tierOrder = []string{
	TierFree,
	TierPersonal,
	TierFamily,
	TierTeam,
	TierEnterprise,
}

type LimitExceededError struct {
	Resource string
	Current  int
	Limit    int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf(
		"limit exceeded for %s: %d of %d",
		e.Resource, e.Current, e.Limit,
	)
}

type FeatureDeniedError struct {
	Feature string
	MinTier string
}

func (e *FeatureDeniedError) Error() string {
	return fmt.Sprintf(
		"feature %s requires at least the %s tier",
		e.Feature, e.MinTier,
	)
}

// CheckLimit allows the operation iff current is below the tier's ceiling
// for resource. Unknown tiers fall back to Free. Unrecognized resource keys
// allow unconditionally so newly introduced resource kinds never block
// clients running against an older catalog; the warning keeps a mistyped
// key observable.
func CheckLimit(tier, resource string, current int) error {
	info, ok := Catalog[tier]
	if !ok {
		info = Catalog[TierFree]
	}

	limit, ok := info.Limits[resource]
	if !ok {
		slog.Warn("unknown resource key in limit check, allowing",
			"resource", resource,
			"tier", tier,
		)
		return nil
	}

	if limit == Unlimited || current < limit {
		return nil
	}

	return &LimitExceededError{
		Resource: resource,
		Current:  current,
		Limit:    limit,
	}
}

// CheckFeatureAccess allows iff the tier grants the feature. Unrecognized
// feature keys fail open, same rationale as CheckLimit.
func CheckFeatureAccess(tier, feature string) error {
	info, ok := Catalog[tier]
	if !ok {
		info = Catalog[TierFree]
	}

	granted, ok := info.Features[feature]
	if !ok {
		slog.Warn("unknown feature key in access check, allowing",
			"feature", feature,
			"tier", tier,
		)
		return nil
	}

	if granted {
		return nil
	}

	return &FeatureDeniedError{
		Feature: feature,
		MinTier: minTierForFeature(feature),
	}
}

func minTierForFeature(feature string) string {
	for _, tier := range tierOrder {
		if Catalog[tier].Features[feature] {
			return tier
		}
	}
	return TierEnterprise
}

type UpgradeSuggestion struct {
	Resource      string  `json:"resource"`
	Current       int     `json:"current"`
	Limit         int     `json:"limit"`
	UsagePercent  int     `json:"usage_percent"`
	CurrentTier   string  `json:"current_tier"`
	SuggestedTier string  `json:"suggested_tier"`
	MonthlyPrice  float64 `json:"monthly_price"`
}

// UpgradeMessage is a presentation helper: it never gates anything, it only
// describes how close the caller is to the ceiling and which tier would
// accommodate more.
func UpgradeMessage(
	tier, resource string,
	current, limit int,
) UpgradeSuggestion {
	usagePercent := 0
	if limit > 0 {
		usagePercent = current * 100 / limit
	}

	suggested := suggestedTierFor(resource)

	return UpgradeSuggestion{
		Resource:      resource,
		Current:       current,
		Limit:         limit,
		UsagePercent:  usagePercent,
		CurrentTier:   tier,
		SuggestedTier: suggested,
		MonthlyPrice:  Catalog[suggested].MonthlyPrice,
	}
}

// Group and member ceilings only open up at Family; everything else is
// satisfied by Personal.
func suggestedTierFor(resource string) string {
	switch resource {
	case ResourceGroups, ResourceMembersPerGroup:
		return TierFamily
	default:
		return TierPersonal
	}
}

// LimitError converts a catalog denial into the transport error the
// handlers return: payment-required with an upgrade suggestion in the
// message, so clients can route to a billing flow rather than a login flow.
func LimitError(tier string, err error) error {
	var limitErr *LimitExceededError
	if errors.As(err, &limitErr) {
		suggestion := UpgradeMessage(
			tier,
			limitErr.Resource,
			limitErr.Current,
			limitErr.Limit,
		)
		return core.NewAppError(
			core.ErrPaymentRequired,
			fmt.Sprintf(
				"%s limit reached (%d of %d). Upgrade to %s ($%.2f/mo) for more.",
				limitErr.Resource,
				limitErr.Current,
				limitErr.Limit,
				Catalog[suggestion.SuggestedTier].DisplayName,
				suggestion.MonthlyPrice,
			),
			http.StatusPaymentRequired,
			"LIMIT_EXCEEDED",
		)
	}

	var featureErr *FeatureDeniedError
	if errors.As(err, &featureErr) {
		return core.NewAppError(
			core.ErrPaymentRequired,
			fmt.Sprintf(
				"%s requires the %s tier or above",
				featureErr.Feature,
				Catalog[featureErr.MinTier].DisplayName,
			),
			http.StatusPaymentRequired,
			"TIER_REQUIRED",
		)
	}

	return err
}
