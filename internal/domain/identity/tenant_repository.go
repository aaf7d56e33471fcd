package identity

import (
	"context"

	"github.com/google/uuid"
)

// TenantRepository defines the persistence interface for tenants
type TenantRepository interface {
	Save(ctx context.Context, tenant *Tenant) error
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByEmail(ctx context.Context, email string) (*Tenant, error)
	// FindAllActive returns every active tenant. Used by the reminder
	// scheduler to iterate tenants once per daily run.
	FindAllActive(ctx context.Context) ([]*Tenant, error)
}
