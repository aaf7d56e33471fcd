package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appbilling "github.com/factura/backend/internal/application/billing"
	"github.com/factura/backend/internal/domain/billing"
	"github.com/factura/backend/internal/domain/identity"
	"github.com/factura/backend/internal/domain/partner"
	"github.com/factura/backend/internal/domain/shared"
)

// TenantResponse is the API representation of a tenant
type TenantResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Plan            string    `json:"plan"`
	PlanDisplayName string    `json:"plan_display_name"`
	Status          string    `json:"status"`
	HasLogo         bool      `json:"has_logo"`
	RemindersPaused bool      `json:"reminders_paused"`
}

// ToTenantResponse converts a tenant aggregate to its API representation
func ToTenantResponse(t *identity.Tenant) TenantResponse {
	return TenantResponse{
		ID:              t.ID,
		Name:            t.Name,
		Email:           t.Email,
		Plan:            t.Plan.String(),
		PlanDisplayName: t.Plan.DisplayName(),
		Status:          string(t.Status),
		HasLogo:         t.LogoKey != "",
		RemindersPaused: t.RemindersPaused,
	}
}

// RegisterTenantRequest carries the fields needed to register a tenant
type RegisterTenantRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Email string `json:"email" binding:"required,email"`
}

// ChangePlanRequest carries a plan change
type ChangePlanRequest struct {
	Plan string `json:"plan" binding:"required,plan"`
}

// TenantService handles tenant account operations
type TenantService struct {
	tenantRepo identity.TenantRepository
	clientRepo partner.ClientRepository
	logger     *zap.Logger
}

// NewTenantService creates a new TenantService
func NewTenantService(tenantRepo identity.TenantRepository, clientRepo partner.ClientRepository, logger *zap.Logger) *TenantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TenantService{
		tenantRepo: tenantRepo,
		clientRepo: clientRepo,
		logger:     logger,
	}
}

// Register creates a new tenant on the free plan
func (s *TenantService) Register(ctx context.Context, req RegisterTenantRequest) (*TenantResponse, error) {
	existing, err := s.tenantRepo.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ERR_EMAIL_TAKEN", "A tenant with this email already exists")
	}

	tenant, err := identity.NewTenant(req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	s.logger.Info("tenant registered",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("plan", tenant.Plan.String()),
	)

	resp := ToTenantResponse(tenant)
	return &resp, nil
}

// Get returns a tenant by ID
func (s *TenantService) Get(ctx context.Context, tenantID uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := ToTenantResponse(tenant)
	return &resp, nil
}

// ChangePlan switches a tenant's plan. Downgrades are refused while the
// tenant holds more clients than the target plan allows.
func (s *TenantService) ChangePlan(ctx context.Context, tenantID uuid.UUID, req ChangePlanRequest) (*TenantResponse, error) {
	plan, err := billing.ParsePlan(req.Plan)
	if err != nil {
		return nil, err
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if limit := plan.ClientLimit(); limit != billing.Unlimited {
		count, err := s.clientRepo.CountForTenant(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if count > limit {
			return nil, appbilling.NewQuotaExceededError(plan, count, 0, limit)
		}
	}

	if err := tenant.ChangePlan(plan); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	s.logger.Info("tenant plan changed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("plan", plan.String()),
	)

	resp := ToTenantResponse(tenant)
	return &resp, nil
}

// SetRemindersPaused pauses or resumes automatic payment reminders
func (s *TenantService) SetRemindersPaused(ctx context.Context, tenantID uuid.UUID, paused bool) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if paused {
		tenant.PauseReminders()
	} else {
		tenant.ResumeReminders()
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	resp := ToTenantResponse(tenant)
	return &resp, nil
}
