package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/factura/backend/internal/domain/billing"
	"github.com/factura/backend/internal/domain/shared"
)

// TenantStatus represents the status of a tenant account
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
)

// Tenant represents one vendor account. All clients and invoices are scoped
// to a tenant; the plan on the tenant drives quota enforcement.
type Tenant struct {
	shared.BaseAggregateRoot
	Name            string       `gorm:"type:varchar(200);not null"`
	Email           string       `gorm:"type:varchar(200);not null;uniqueIndex"`
	Plan            billing.Plan `gorm:"type:varchar(20);not null;default:'FREE'"`
	Status          TenantStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LogoKey         string       `gorm:"type:varchar(500)"` // Object storage key of the uploaded logo
	RemindersPaused bool         `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a new tenant on the free plan
func NewTenant(name, email string) (*Tenant, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Tenant name cannot be empty")
	}
	if !tenantEmailRegex.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid tenant email")
	}

	return &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Email:             strings.ToLower(email),
		Plan:              billing.PlanFree,
		Status:            TenantStatusActive,
	}, nil
}

var tenantEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ChangePlan switches the tenant to a different plan
func (t *Tenant) ChangePlan(plan billing.Plan) error {
	if !plan.IsValid() {
		return shared.NewDomainError("INVALID_PLAN", "Unknown plan")
	}

	t.Plan = plan
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// SetLogoKey records the storage key of the tenant's uploaded logo
func (t *Tenant) SetLogoKey(key string) {
	t.LogoKey = key
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// PauseReminders stops the daily reminder run for this tenant
func (t *Tenant) PauseReminders() {
	t.RemindersPaused = true
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// ResumeReminders re-enables the daily reminder run for this tenant
func (t *Tenant) ResumeReminders() {
	t.RemindersPaused = false
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// IsActive returns true if the tenant account is active
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}
