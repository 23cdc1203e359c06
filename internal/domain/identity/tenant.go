package identity

import (
	"regexp"
	"strings"

	"github.com/pulosarok/desa/internal/domain/shared"
)

// TenantStatus represents whether a village can sign in and serve public pages
type TenantStatus string

const (
	TenantStatusActive   TenantStatus = "active"
	TenantStatusInactive TenantStatus = "inactive"
)

var tenantCodePattern = regexp.MustCompile(`^[A-Z0-9_-]{2,50}$`)

// Tenant is one village (desa). Every other aggregate carries its ID.
type Tenant struct {
	shared.BaseAggregateRoot
	Code   string       `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name   string       `gorm:"type:varchar(200);not null"`
	Status TenantStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Domain string       `gorm:"type:varchar(200);index"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates an active tenant
func NewTenant(code, name string) (*Tenant, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !tenantCodePattern.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_CODE", "Tenant code must be 2-50 characters of A-Z, 0-9, _ or -")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Tenant name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Tenant name cannot exceed 200 characters")
	}
	return &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Status:            TenantStatusActive,
	}, nil
}

// SetDomain assigns the host name public pages are served from
func (t *Tenant) SetDomain(domain string) {
	t.Domain = strings.ToLower(strings.TrimSpace(domain))
	t.Touch()
	t.IncrementVersion()
}

// Activate enables the tenant
func (t *Tenant) Activate() error {
	if t.Status == TenantStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Tenant is already active")
	}
	t.Status = TenantStatusActive
	t.Touch()
	t.IncrementVersion()
	return nil
}

// Deactivate disables sign in and public pages for the tenant
func (t *Tenant) Deactivate() error {
	if t.Status == TenantStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Tenant is already inactive")
	}
	t.Status = TenantStatusInactive
	t.Touch()
	t.IncrementVersion()
	return nil
}

// IsActive reports whether the tenant is active
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}
