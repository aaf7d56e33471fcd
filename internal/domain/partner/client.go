package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/factura/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientStatus represents the status of a client
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusArchived ClientStatus = "archived"
)

// Client represents a vendor's client (the party an invoice is issued to).
// It is the aggregate root for client-related operations.
type Client struct {
	shared.TenantAggregateRoot
	Name          string       `gorm:"type:varchar(200);not null"`
	ContactPerson string       `gorm:"type:varchar(200)"` // Natural person behind a company client
	Email         string       `gorm:"type:varchar(200);index"`
	Phone         string       `gorm:"type:varchar(50);index"`
	CUI           string       `gorm:"column:cui;type:varchar(50)"` // Fiscal identification code (CUI / VAT number)
	RegCom        string       `gorm:"type:varchar(50)"` // Trade registry number (J40/1234/2020)
	Address       string       `gorm:"type:text"`
	City          string       `gorm:"type:varchar(100)"`
	County        string       `gorm:"type:varchar(100)"`
	Country       string       `gorm:"type:varchar(100)"`
	ZipCode       string       `gorm:"type:varchar(20)"`
	Status        ClientStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Notes         string       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// NewClient creates a new client with the required name
func NewClient(tenantID uuid.UUID, name string) (*Client, error) {
	if err := validateClientName(name); err != nil {
		return nil, err
	}

	return &Client{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Status:              ClientStatusActive,
	}, nil
}

// ImportedClientData carries the fields a spreadsheet row resolved to
type ImportedClientData struct {
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	CUI           string
	RegCom        string
	Address       string
	City          string
	County        string
	Country       string
	ZipCode       string
}

// NewImportedClient builds a client from spreadsheet data. Only the name is
// mandatory; optional fields that fail validation are dropped rather than
// failing the whole row.
func NewImportedClient(tenantID uuid.UUID, data ImportedClientData) (*Client, error) {
	c, err := NewClient(tenantID, data.Name)
	if err != nil {
		return nil, err
	}

	if cp := strings.TrimSpace(data.ContactPerson); len(cp) <= 200 {
		c.ContactPerson = cp
	}
	if data.Email != "" && validateEmail(data.Email) == nil {
		c.Email = data.Email
	}
	if data.Phone != "" && validatePhone(data.Phone) == nil {
		c.Phone = data.Phone
	}
	if len(data.CUI) <= 50 {
		c.CUI = strings.TrimSpace(data.CUI)
	}
	if len(data.RegCom) <= 50 {
		c.RegCom = strings.TrimSpace(data.RegCom)
	}
	if len(data.Address) <= 500 {
		c.Address = data.Address
	}
	if len(data.City) <= 100 {
		c.City = data.City
	}
	if len(data.County) <= 100 {
		c.County = data.County
	}
	if len(data.Country) <= 100 {
		c.Country = data.Country
	}
	if len(data.ZipCode) <= 20 {
		c.ZipCode = data.ZipCode
	}

	return c, nil
}

// Update updates the client's name and contact person
func (c *Client) Update(name, contactPerson string) error {
	if err := validateClientName(name); err != nil {
		return err
	}
	if len(contactPerson) > 200 {
		return shared.NewDomainError("INVALID_CONTACT_PERSON", "Contact person cannot exceed 200 characters")
	}

	c.Name = strings.TrimSpace(name)
	c.ContactPerson = strings.TrimSpace(contactPerson)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetContact sets the client's contact information
func (c *Client) SetContact(email, phone string) error {
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}

	c.Email = email
	c.Phone = phone
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetFiscalIdentity sets the client's fiscal identifiers
func (c *Client) SetFiscalIdentity(cui, regCom string) error {
	if len(cui) > 50 {
		return shared.NewDomainError("INVALID_CUI", "CUI cannot exceed 50 characters")
	}
	if len(regCom) > 50 {
		return shared.NewDomainError("INVALID_REG_COM", "Trade registry number cannot exceed 50 characters")
	}

	c.CUI = strings.TrimSpace(cui)
	c.RegCom = strings.TrimSpace(regCom)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetAddress sets the client's address information
func (c *Client) SetAddress(address, city, county, country, zipCode string) error {
	if len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	if len(city) > 100 {
		return shared.NewDomainError("INVALID_CITY", "City cannot exceed 100 characters")
	}
	if len(county) > 100 {
		return shared.NewDomainError("INVALID_COUNTY", "County cannot exceed 100 characters")
	}
	if len(country) > 100 {
		return shared.NewDomainError("INVALID_COUNTRY", "Country cannot exceed 100 characters")
	}
	if len(zipCode) > 20 {
		return shared.NewDomainError("INVALID_ZIP_CODE", "Zip code cannot exceed 20 characters")
	}

	c.Address = address
	c.City = city
	c.County = county
	c.Country = country
	c.ZipCode = zipCode
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetNotes sets the client's notes
func (c *Client) SetNotes(notes string) {
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Archive archives the client; archived clients are hidden from pickers
func (c *Client) Archive() error {
	if c.Status == ClientStatusArchived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Client is already archived")
	}

	c.Status = ClientStatusArchived
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Restore returns an archived client to the active state
func (c *Client) Restore() error {
	if c.Status == ClientStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Client is already active")
	}

	c.Status = ClientStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// IsActive returns true if the client is active
func (c *Client) IsActive() bool {
	return c.Status == ClientStatusActive
}

// IsCompany reports whether the client carries a separate contact person,
// which is how imported company rows are distinguished from persons.
func (c *Client) IsCompany() bool {
	return c.ContactPerson != "" && c.ContactPerson != c.Name
}

// GetFullAddress returns the formatted full address
func (c *Client) GetFullAddress() string {
	parts := []string{}
	if c.Address != "" {
		parts = append(parts, c.Address)
	}
	if c.City != "" {
		parts = append(parts, c.City)
	}
	if c.County != "" {
		parts = append(parts, c.County)
	}
	if c.ZipCode != "" {
		parts = append(parts, c.ZipCode)
	}
	if c.Country != "" {
		parts = append(parts, c.Country)
	}
	return strings.Join(parts, ", ")
}

// Validation functions

func validateClientName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot exceed 200 characters")
	}
	return nil
}

func validatePhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	validPhone := regexp.MustCompile(`^[\d\s\-\(\)\+\.]+$`)
	if !validPhone.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
