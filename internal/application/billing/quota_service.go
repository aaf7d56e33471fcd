package billing

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/factura/backend/internal/domain/billing"
	"github.com/factura/backend/internal/domain/partner"
)

// QuotaExceededError is returned when an operation would push a tenant past
// its plan's client ceiling. The whole operation is rejected; nothing is
// partially applied.
type QuotaExceededError struct {
	Plan           billing.Plan
	CurrentCount   int64
	CandidateCount int64
	Limit          int64
	Message        string
}

// Error implements the error interface
func (e *QuotaExceededError) Error() string {
	return e.Message
}

// HTTPStatusCode returns the HTTP status code for this error
func (e *QuotaExceededError) HTTPStatusCode() int {
	return http.StatusForbidden
}

// NewQuotaExceededError creates a new QuotaExceededError
func NewQuotaExceededError(plan billing.Plan, currentCount, candidateCount, limit int64) *QuotaExceededError {
	return &QuotaExceededError{
		Plan:           plan,
		CurrentCount:   currentCount,
		CandidateCount: candidateCount,
		Limit:          limit,
		Message: fmt.Sprintf(
			"%s plan allows at most %d clients: you have %d and tried to add %d",
			plan.DisplayName(), limit, currentCount, candidateCount,
		),
	}
}

// PlanRequiredError is returned when a feature is gated behind a higher plan
type PlanRequiredError struct {
	Feature      string
	RequiredPlan billing.Plan
	Message      string
}

// Error implements the error interface
func (e *PlanRequiredError) Error() string {
	return e.Message
}

// HTTPStatusCode returns the HTTP status code for this error
func (e *PlanRequiredError) HTTPStatusCode() int {
	return http.StatusForbidden
}

// NewPlanRequiredError creates a new PlanRequiredError
func NewPlanRequiredError(feature string, required billing.Plan) *PlanRequiredError {
	return &PlanRequiredError{
		Feature:      feature,
		RequiredPlan: required,
		Message:      fmt.Sprintf("%s requires the %s plan", feature, required.DisplayName()),
	}
}

// QuotaService enforces per-plan limits
type QuotaService struct {
	clientRepo partner.ClientRepository
	logger     *zap.Logger
}

// NewQuotaService creates a new QuotaService
func NewQuotaService(clientRepo partner.ClientRepository, logger *zap.Logger) *QuotaService {
	return &QuotaService{
		clientRepo: clientRepo,
		logger:     logger,
	}
}

// CheckClientQuota verifies that adding candidateCount clients keeps the
// tenant within its plan ceiling. The check compares the total after the
// operation against the limit, never capping partially.
func (s *QuotaService) CheckClientQuota(ctx context.Context, tenantID uuid.UUID, plan billing.Plan, candidateCount int64) error {
	limit := plan.ClientLimit()
	if limit == billing.Unlimited {
		return nil
	}

	currentCount, err := s.clientRepo.CountForTenant(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("count clients for quota check: %w", err)
	}

	if currentCount+candidateCount > limit {
		s.logger.Info("client quota exceeded",
			zap.String("tenant_id", tenantID.String()),
			zap.String("plan", plan.String()),
			zap.Int64("current_count", currentCount),
			zap.Int64("candidate_count", candidateCount),
			zap.Int64("limit", limit))
		return NewQuotaExceededError(plan, currentCount, candidateCount, limit)
	}

	return nil
}

// EnsureLogoUploadAllowed gates logo upload behind the PRO plan
func (s *QuotaService) EnsureLogoUploadAllowed(plan billing.Plan) error {
	if !plan.AllowsLogoUpload() {
		return NewPlanRequiredError("Logo upload", billing.PlanPro)
	}
	return nil
}
