package billing

import (
	"strings"

	"github.com/factura/backend/internal/domain/shared"
)

// Plan represents a subscription plan
type Plan string

const (
	PlanFree    Plan = "FREE"
	PlanStarter Plan = "STARTER"
	PlanPro     Plan = "PRO"
)

// Unlimited marks a quota with no ceiling
const Unlimited int64 = -1

// Client count ceilings per plan. The ceiling applies to the total number of
// clients a tenant holds, not to the size of a single import.
const (
	freeClientLimit    int64 = 3
	starterClientLimit int64 = 50
)

// ParsePlan parses a plan from its string form, case-insensitively
func ParsePlan(s string) (Plan, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FREE":
		return PlanFree, nil
	case "STARTER":
		return PlanStarter, nil
	case "PRO":
		return PlanPro, nil
	default:
		return "", shared.NewDomainError("INVALID_PLAN", "Plan must be one of FREE, STARTER, PRO")
	}
}

// String returns the string representation of Plan
func (p Plan) String() string {
	return string(p)
}

// IsValid reports whether the plan is a known plan
func (p Plan) IsValid() bool {
	switch p {
	case PlanFree, PlanStarter, PlanPro:
		return true
	default:
		return false
	}
}

// ClientLimit returns the maximum total number of clients for the plan,
// or Unlimited for plans without a ceiling. Unknown plans get the FREE
// ceiling so a malformed plan claim cannot bypass the quota.
func (p Plan) ClientLimit() int64 {
	switch p {
	case PlanStarter:
		return starterClientLimit
	case PlanPro:
		return Unlimited
	default:
		return freeClientLimit
	}
}

// AllowsLogoUpload reports whether the plan includes custom PDF branding
func (p Plan) AllowsLogoUpload() bool {
	return p == PlanPro
}

// DisplayName returns a human-readable plan name
func (p Plan) DisplayName() string {
	switch p {
	case PlanFree:
		return "Free"
	case PlanStarter:
		return "Starter"
	case PlanPro:
		return "Pro"
	default:
		return string(p)
	}
}
