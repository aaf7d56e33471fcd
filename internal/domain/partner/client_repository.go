package partner

import (
	"context"

	"github.com/factura/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientRepository defines the persistence interface for clients
type ClientRepository interface {
	// Save persists a client (insert or update)
	Save(ctx context.Context, client *Client) error

	// SaveBatch persists a batch of new clients in a single operation.
	// All-or-nothing: a failure inserts none of the batch.
	SaveBatch(ctx context.Context, clients []*Client) error

	// FindByIDForTenant finds a client by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Client, error)

	// FindAllForTenant finds all clients for a tenant matching the filter
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Client, error)

	// CountForTenant returns the number of clients a tenant currently has
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// CountAllForTenant returns the number of clients matching the filter
	CountAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByEmail checks whether a client with the email exists for the tenant
	ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error)

	// Delete removes a client within a tenant
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
