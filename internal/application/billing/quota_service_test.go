package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/factura/backend/internal/domain/billing"
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

func TestQuotaService_CheckClientQuota(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("allows within free limit", func(t *testing.T) {
		repo := new(mockClientRepo)
		repo.On("CountForTenant", ctx, tenantID).Return(int64(1), nil)
		svc := NewQuotaService(repo, zap.NewNop())

		err := svc.CheckClientQuota(ctx, tenantID, billing.PlanFree, 2)
		assert.NoError(t, err)
	})

	t.Run("rejects when total would exceed ceiling", func(t *testing.T) {
		repo := new(mockClientRepo)
		repo.On("CountForTenant", ctx, tenantID).Return(int64(2), nil)
		svc := NewQuotaService(repo, zap.NewNop())

		err := svc.CheckClientQuota(ctx, tenantID, billing.PlanFree, 5)
		require.Error(t, err)

		var quotaErr *QuotaExceededError
		require.ErrorAs(t, err, &quotaErr)
		assert.Equal(t, int64(3), quotaErr.Limit)
		assert.Equal(t, int64(2), quotaErr.CurrentCount)
		assert.Equal(t, int64(5), quotaErr.CandidateCount)
	})

	t.Run("boundary import filling the limit exactly is allowed", func(t *testing.T) {
		repo := new(mockClientRepo)
		repo.On("CountForTenant", ctx, tenantID).Return(int64(48), nil)
		svc := NewQuotaService(repo, zap.NewNop())

		assert.NoError(t, svc.CheckClientQuota(ctx, tenantID, billing.PlanStarter, 2))
	})

	t.Run("pro plan skips the count entirely", func(t *testing.T) {
		repo := new(mockClientRepo)
		svc := NewQuotaService(repo, zap.NewNop())

		assert.NoError(t, svc.CheckClientQuota(ctx, tenantID, billing.PlanPro, 100000))
		repo.AssertNotCalled(t, "CountForTenant", mock.Anything, mock.Anything)
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		repo := new(mockClientRepo)
		repo.On("CountForTenant", ctx, tenantID).Return(int64(0), errors.New("db down"))
		svc := NewQuotaService(repo, zap.NewNop())

		err := svc.CheckClientQuota(ctx, tenantID, billing.PlanFree, 1)
		assert.Error(t, err)
	})
}

func TestQuotaService_EnsureLogoUploadAllowed(t *testing.T) {
	svc := NewQuotaService(new(mockClientRepo), zap.NewNop())

	assert.NoError(t, svc.EnsureLogoUploadAllowed(billing.PlanPro))

	var planErr *PlanRequiredError
	err := svc.EnsureLogoUploadAllowed(billing.PlanFree)
	require.ErrorAs(t, err, &planErr)
	assert.Equal(t, billing.PlanPro, planErr.RequiredPlan)

	assert.Error(t, svc.EnsureLogoUploadAllowed(billing.PlanStarter))
}
