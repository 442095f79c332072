package core

import (
	"sort"
	"strings"
)

// Tier is the capability level assigned to a user. Tiers are mutually
// exclusive and assigned by precedence, never combined.
type Tier string

const (
	TierAdmin   Tier = "admin"
	TierTrial   Tier = "trial"
	TierPremium Tier = "premium"
	TierGuest   Tier = "guest"
	TierFree    Tier = "free"
)

// Feature identifies a gated unit of functionality.
type Feature string

const (
	FeatureDashboard      Feature = "dashboard"
	FeatureTransactions   Feature = "transactions"
	FeatureBudgetManager  Feature = "budget_manager"
	FeatureCategorySearch Feature = "category_search"
	FeatureTrends         Feature = "trends"
	FeatureSummary        Feature = "summary"

	FeatureAIAssistant       Feature = "ai_assistant"
	FeatureVoiceInput        Feature = "voice_input"
	FeaturePortfolio         Feature = "investment_portfolio"
	FeatureBudgetEnvelopes   Feature = "budget_envelopes"
	FeatureRecurring         Feature = "recurring_transactions"
	FeatureMultiCurrency     Feature = "multi_currency"
	FeatureAdvancedAnalytics Feature = "advanced_analytics"
	FeatureDataExport        Feature = "data_export"
	FeatureQuoteRefresh      Feature = "quote_refresh"
)

// featureClass is the static feature classification. It is process-wide
// constant configuration: loaded once, never mutated at runtime. A feature
// missing from this table is treated as premium — gating fails closed,
// a typo in a feature key denies access instead of granting it.
var featureClass = map[Feature]Tier{
	FeatureDashboard:      TierFree,
	FeatureTransactions:   TierFree,
	FeatureBudgetManager:  TierFree,
	FeatureCategorySearch: TierFree,
	FeatureTrends:         TierFree,
	FeatureSummary:        TierFree,

	FeatureAIAssistant:       TierPremium,
	FeatureVoiceInput:        TierPremium,
	FeaturePortfolio:         TierPremium,
	FeatureBudgetEnvelopes:   TierPremium,
	FeatureRecurring:         TierPremium,
	FeatureMultiCurrency:     TierPremium,
	FeatureAdvancedAnalytics: TierPremium,
	FeatureDataExport:        TierPremium,
	FeatureQuoteRefresh:      TierPremium,
}

// defaultAdminAllowlist is the built-in administrator allow-list.
var defaultAdminAllowlist = []string{"admin@financehub.com"}

// UserAttributes is the authentication/subscription snapshot supplied by
// the auth collaborator.
type UserAttributes struct {
	IsAuthenticated bool
	Email           string
	Role            string
	IsPremium       bool
	IsOnTrial       bool
}

// AccessState is the resolved capability set for one user snapshot. It is
// recomputed whenever the underlying attributes change and passed to
// consumers explicitly; nothing looks it up ambiently.
type AccessState struct {
	Tier             Tier
	HasPremiumAccess bool

	locked map[Feature]struct{}
}

// Resolver maps user attributes to access states. The zero value uses the
// built-in admin allow-list.
type Resolver struct {
	adminEmails []string
}

// NewResolver builds a resolver with extra admin emails on top of the
// built-in allow-list.
func NewResolver(extraAdmins ...string) *Resolver {
	return &Resolver{adminEmails: extraAdmins}
}

// Resolve assigns a tier by precedence and derives the capability set.
// The order is a business rule, evaluated exactly as listed:
//
//  1. email on the admin allow-list -> admin
//  2. premium or trial subscription -> premium/trial (same capabilities)
//  3. unauthenticated or role "guest" -> guest
//  4. otherwise -> free
func (r *Resolver) Resolve(u UserAttributes) AccessState {
	tier := TierFree
	switch {
	case r.isAdmin(u.Email):
		tier = TierAdmin
	case u.IsPremium:
		tier = TierPremium
	case u.IsOnTrial:
		tier = TierTrial
	case !u.IsAuthenticated || u.Role == "guest":
		tier = TierGuest
	}

	state := AccessState{
		Tier:             tier,
		HasPremiumAccess: tier == TierAdmin || tier == TierPremium || tier == TierTrial,
	}

	if !state.HasPremiumAccess {
		state.locked = make(map[Feature]struct{})
		for f, class := range featureClass {
			if class == TierPremium {
				state.locked[f] = struct{}{}
			}
		}
	}

	return state
}

func (r *Resolver) isAdmin(email string) bool {
	if email == "" {
		return false
	}
	for _, a := range defaultAdminAllowlist {
		if strings.EqualFold(email, a) {
			return true
		}
	}
	for _, a := range r.adminEmails {
		if strings.EqualFold(email, a) {
			return true
		}
	}
	return false
}

// CanAccess is a total function over the feature space: premium access
// grants everything, otherwise only features classified free. Unknown
// features deny (fail closed), never error — a typo must not crash the UI.
func (s AccessState) CanAccess(f Feature) bool {
	if s.HasPremiumAccess {
		return true
	}
	return featureClass[f] == TierFree
}

// LockedFeatures returns the features the current tier cannot reach,
// sorted for stable output. Empty for premium access.
func (s AccessState) LockedFeatures() []Feature {
	out := make([]Feature, 0, len(s.locked))
	for f := range s.locked {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
