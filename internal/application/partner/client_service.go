package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/factura/backend/internal/domain/partner"
	"github.com/factura/backend/internal/domain/shared"
)

// ClientService handles client-related business operations
type ClientService struct {
	clientRepo partner.ClientRepository
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo partner.ClientRepository) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
	}
}

// Create creates a new client
func (s *ClientService) Create(ctx context.Context, tenantID uuid.UUID, req CreateClientRequest) (*ClientResponse, error) {
	// Duplicate emails are allowed across imports, but manual creation warns
	// the user early.
	if req.Email != "" {
		exists, err := s.clientRepo.ExistsByEmail(ctx, tenantID, req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Client with this email already exists")
		}
	}

	client, err := partner.NewClient(tenantID, req.Name)
	if err != nil {
		return nil, err
	}
	client.CreatedBy = req.CreatedBy

	if req.ContactPerson != "" {
		if err := client.Update(req.Name, req.ContactPerson); err != nil {
			return nil, err
		}
	}
	if req.Email != "" || req.Phone != "" {
		if err := client.SetContact(req.Email, req.Phone); err != nil {
			return nil, err
		}
	}
	if req.CUI != "" || req.RegCom != "" {
		if err := client.SetFiscalIdentity(req.CUI, req.RegCom); err != nil {
			return nil, err
		}
	}
	if req.Address != "" || req.City != "" || req.County != "" || req.Country != "" || req.ZipCode != "" {
		if err := client.SetAddress(req.Address, req.City, req.County, req.Country, req.ZipCode); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		client.SetNotes(req.Notes)
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// GetByID retrieves a client by ID
func (s *ClientService) GetByID(ctx context.Context, tenantID, clientID uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// List retrieves clients with filtering and pagination
func (s *ClientService) List(ctx context.Context, tenantID uuid.UUID, filter ClientListFilter) ([]ClientResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.City != "" {
		domainFilter.Filters["city"] = filter.City
	}
	if filter.County != "" {
		domainFilter.Filters["county"] = filter.County
	}

	clients, err := s.clientRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.clientRepo.CountAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ClientResponse, len(clients))
	for i := range clients {
		responses[i] = ToClientResponse(&clients[i])
	}

	return responses, total, nil
}

// Update updates an existing client
func (s *ClientService) Update(ctx context.Context, tenantID, clientID uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}

	name := client.Name
	if req.Name != nil {
		name = *req.Name
	}
	contactPerson := client.ContactPerson
	if req.ContactPerson != nil {
		contactPerson = *req.ContactPerson
	}
	if err := client.Update(name, contactPerson); err != nil {
		return nil, err
	}

	if req.Email != nil || req.Phone != nil {
		email := client.Email
		if req.Email != nil {
			email = *req.Email
		}
		phone := client.Phone
		if req.Phone != nil {
			phone = *req.Phone
		}
		if err := client.SetContact(email, phone); err != nil {
			return nil, err
		}
	}

	if req.CUI != nil || req.RegCom != nil {
		cui := client.CUI
		if req.CUI != nil {
			cui = *req.CUI
		}
		regCom := client.RegCom
		if req.RegCom != nil {
			regCom = *req.RegCom
		}
		if err := client.SetFiscalIdentity(cui, regCom); err != nil {
			return nil, err
		}
	}

	if req.Address != nil || req.City != nil || req.County != nil || req.Country != nil || req.ZipCode != nil {
		address := valueOr(req.Address, client.Address)
		city := valueOr(req.City, client.City)
		county := valueOr(req.County, client.County)
		country := valueOr(req.Country, client.Country)
		zipCode := valueOr(req.ZipCode, client.ZipCode)
		if err := client.SetAddress(address, city, county, country, zipCode); err != nil {
			return nil, err
		}
	}

	if req.Notes != nil {
		client.SetNotes(*req.Notes)
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// Archive archives a client
func (s *ClientService) Archive(ctx context.Context, tenantID, clientID uuid.UUID) error {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return err
	}
	if err := client.Archive(); err != nil {
		return err
	}
	return s.clientRepo.Save(ctx, client)
}

// Restore restores an archived client
func (s *ClientService) Restore(ctx context.Context, tenantID, clientID uuid.UUID) error {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return err
	}
	if err := client.Restore(); err != nil {
		return err
	}
	return s.clientRepo.Save(ctx, client)
}

// Delete permanently removes a client
func (s *ClientService) Delete(ctx context.Context, tenantID, clientID uuid.UUID) error {
	return s.clientRepo.Delete(ctx, tenantID, clientID)
}

func valueOr(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}
