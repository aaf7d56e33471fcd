package partner

import (
	"time"

	"github.com/google/uuid"

	"github.com/factura/backend/internal/domain/partner"
)

// CreateClientRequest represents a request to create a new client
type CreateClientRequest struct {
	Name          string     `json:"name" binding:"required,min=1,max=200"`
	ContactPerson string     `json:"contact_person" binding:"max=200"`
	Email         string     `json:"email" binding:"omitempty,email,max=200"`
	Phone         string     `json:"phone" binding:"max=50"`
	CUI           string     `json:"cui" binding:"max=50,cui"`
	RegCom        string     `json:"reg_com" binding:"max=50"`
	Address       string     `json:"address" binding:"max=500"`
	City          string     `json:"city" binding:"max=100"`
	County        string     `json:"county" binding:"max=100"`
	Country       string     `json:"country" binding:"max=100"`
	ZipCode       string     `json:"zip_code" binding:"max=20"`
	Notes         string     `json:"notes"`
	CreatedBy     *uuid.UUID `json:"-"` // Set from JWT context, not from request body
}

// UpdateClientRequest represents a request to update a client
type UpdateClientRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=1,max=200"`
	ContactPerson *string `json:"contact_person" binding:"omitempty,max=200"`
	Email         *string `json:"email" binding:"omitempty,email,max=200"`
	Phone         *string `json:"phone" binding:"omitempty,max=50"`
	CUI           *string `json:"cui" binding:"omitempty,max=50,cui"`
	RegCom        *string `json:"reg_com" binding:"omitempty,max=50"`
	Address       *string `json:"address" binding:"omitempty,max=500"`
	City          *string `json:"city" binding:"omitempty,max=100"`
	County        *string `json:"county" binding:"omitempty,max=100"`
	Country       *string `json:"country" binding:"omitempty,max=100"`
	ZipCode       *string `json:"zip_code" binding:"omitempty,max=20"`
	Notes         *string `json:"notes"`
}

// ClientListFilter represents filtering options for listing clients
type ClientListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name created_at updated_at city"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search" binding:"max=200"`
	Status   string `form:"status" binding:"omitempty,oneof=active archived"`
	City     string `form:"city" binding:"omitempty,max=100"`
	County   string `form:"county" binding:"omitempty,max=100"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID            uuid.UUID `json:"id"`
	TenantID      uuid.UUID `json:"tenant_id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	CUI           string    `json:"cui"`
	RegCom        string    `json:"reg_com"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	County        string    `json:"county"`
	Country       string    `json:"country"`
	ZipCode       string    `json:"zip_code"`
	FullAddress   string    `json:"full_address"`
	Status        string    `json:"status"`
	IsCompany     bool      `json:"is_company"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToClientResponse converts a domain client to a response DTO
func ToClientResponse(c *partner.Client) ClientResponse {
	return ClientResponse{
		ID:            c.ID,
		TenantID:      c.TenantID,
		Name:          c.Name,
		ContactPerson: c.ContactPerson,
		Email:         c.Email,
		Phone:         c.Phone,
		CUI:           c.CUI,
		RegCom:        c.RegCom,
		Address:       c.Address,
		City:          c.City,
		County:        c.County,
		Country:       c.Country,
		ZipCode:       c.ZipCode,
		FullAddress:   c.GetFullAddress(),
		Status:        string(c.Status),
		IsCompany:     c.IsCompany(),
		Notes:         c.Notes,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
