package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appbilling "github.com/factura/backend/internal/application/billing"
	"github.com/factura/backend/internal/domain/billing"
	"github.com/factura/backend/internal/domain/identity"
	"github.com/factura/backend/internal/domain/partner"
	"github.com/factura/backend/internal/domain/shared"
)

type mockClientRepo struct {
	mock.Mock
}

func (m *mockClientRepo) Save(ctx context.Context, client *partner.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *mockClientRepo) SaveBatch(ctx context.Context, clients []*partner.Client) error {
	args := m.Called(ctx, clients)
	return args.Error(0)
}

func (m *mockClientRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Client, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *mockClientRepo) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Client, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Client), args.Error(1)
}

func (m *mockClientRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockClientRepo) CountAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockClientRepo) ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	args := m.Called(ctx, tenantID, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockClientRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func TestTenantService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("registers on free plan", func(t *testing.T) {
		repo := new(mockTenantRepo)
		repo.On("FindByEmail", ctx, "owner@acme.ro").Return(nil, shared.ErrNotFound)
		repo.On("Save", ctx, mock.AnythingOfType("*identity.Tenant")).Return(nil)

		svc := NewTenantService(repo, new(mockClientRepo), zap.NewNop())
		resp, err := svc.Register(ctx, RegisterTenantRequest{Name: "Acme SRL", Email: "owner@acme.ro"})
		require.NoError(t, err)

		assert.Equal(t, "Acme SRL", resp.Name)
		assert.Equal(t, "FREE", resp.Plan)
		assert.False(t, resp.HasLogo)
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		existing, err := identity.NewTenant("Acme SRL", "owner@acme.ro")
		require.NoError(t, err)

		repo := new(mockTenantRepo)
		repo.On("FindByEmail", ctx, "owner@acme.ro").Return(existing, nil)

		svc := NewTenantService(repo, new(mockClientRepo), zap.NewNop())
		_, err = svc.Register(ctx, RegisterTenantRequest{Name: "Other SRL", Email: "owner@acme.ro"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ERR_EMAIL_TAKEN", domainErr.Code)
	})
}

func TestTenantService_ChangePlan(t *testing.T) {
	ctx := context.Background()

	newTenant := func(t *testing.T, plan billing.Plan) *identity.Tenant {
		tenant, err := identity.NewTenant("Acme SRL", "owner@acme.ro")
		require.NoError(t, err)
		if plan != billing.PlanFree {
			require.NoError(t, tenant.ChangePlan(plan))
		}
		return tenant
	}

	t.Run("upgrade to pro skips the count", func(t *testing.T) {
		tenant := newTenant(t, billing.PlanFree)
		tenantRepo := new(mockTenantRepo)
		clientRepo := new(mockClientRepo)
		tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
		tenantRepo.On("Save", ctx, tenant).Return(nil)

		svc := NewTenantService(tenantRepo, clientRepo, zap.NewNop())
		resp, err := svc.ChangePlan(ctx, tenant.ID, ChangePlanRequest{Plan: "PRO"})
		require.NoError(t, err)

		assert.Equal(t, "PRO", resp.Plan)
		clientRepo.AssertNotCalled(t, "CountForTenant", mock.Anything, mock.Anything)
	})

	t.Run("downgrade refused over target limit", func(t *testing.T) {
		tenant := newTenant(t, billing.PlanPro)
		tenantRepo := new(mockTenantRepo)
		clientRepo := new(mockClientRepo)
		tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
		clientRepo.On("CountForTenant", ctx, tenant.ID).Return(int64(4), nil)

		svc := NewTenantService(tenantRepo, clientRepo, zap.NewNop())
		_, err := svc.ChangePlan(ctx, tenant.ID, ChangePlanRequest{Plan: "FREE"})
		require.Error(t, err)

		var quotaErr *appbilling.QuotaExceededError
		require.ErrorAs(t, err, &quotaErr)
		assert.Equal(t, billing.PlanFree, quotaErr.Plan)
		assert.Equal(t, billing.PlanPro, tenant.Plan, "plan must stay unchanged")
	})

	t.Run("downgrade allowed at the limit", func(t *testing.T) {
		tenant := newTenant(t, billing.PlanPro)
		tenantRepo := new(mockTenantRepo)
		clientRepo := new(mockClientRepo)
		tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
		tenantRepo.On("Save", ctx, tenant).Return(nil)
		clientRepo.On("CountForTenant", ctx, tenant.ID).Return(int64(3), nil)

		svc := NewTenantService(tenantRepo, clientRepo, zap.NewNop())
		resp, err := svc.ChangePlan(ctx, tenant.ID, ChangePlanRequest{Plan: "FREE"})
		require.NoError(t, err)
		assert.Equal(t, "FREE", resp.Plan)
	})

	t.Run("unknown plan rejected", func(t *testing.T) {
		svc := NewTenantService(new(mockTenantRepo), new(mockClientRepo), zap.NewNop())
		_, err := svc.ChangePlan(ctx, uuid.New(), ChangePlanRequest{Plan: "PLATINUM"})
		assert.Error(t, err)
	})
}

func TestTenantService_SetRemindersPaused(t *testing.T) {
	ctx := context.Background()
	tenant, err := identity.NewTenant("Acme SRL", "owner@acme.ro")
	require.NoError(t, err)

	tenantRepo := new(mockTenantRepo)
	tenantRepo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	tenantRepo.On("Save", ctx, tenant).Return(nil)

	svc := NewTenantService(tenantRepo, new(mockClientRepo), zap.NewNop())

	resp, err := svc.SetRemindersPaused(ctx, tenant.ID, true)
	require.NoError(t, err)
	assert.True(t, resp.RemindersPaused)

	resp, err = svc.SetRemindersPaused(ctx, tenant.ID, false)
	require.NoError(t, err)
	assert.False(t, resp.RemindersPaused)
}
