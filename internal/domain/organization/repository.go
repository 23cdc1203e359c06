package organization

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
)

// TypeRepository defines persistence for organization types
type TypeRepository interface {
	shared.TenantStore[Type]
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
}

// OrganizationRepository defines persistence for organizations
type OrganizationRepository interface {
	shared.TenantStore[Organization]
	CountByType(ctx context.Context, tenantID, typeID uuid.UUID) (int64, error)
}

// PeriodRepository defines persistence for board periods
type PeriodRepository interface {
	shared.TenantStore[Period]
	// FindActive returns the active period of an organization
	FindActive(ctx context.Context, tenantID, organizationID uuid.UUID) (*Period, error)
	// DeactivateOthers clears is_active on every other period of the organization
	DeactivateOthers(ctx context.Context, tenantID, organizationID, keepID uuid.UUID) error
}

// MemberRepository defines persistence for members
type MemberRepository interface {
	shared.TenantStore[Member]
	// ExistsPosition reports whether the resident already holds the position in the organization
	ExistsPosition(ctx context.Context, tenantID, organizationID, pendudukID uuid.UUID, position Position, excludeID uuid.UUID) (bool, error)
	CountByPosition(ctx context.Context, tenantID, organizationID uuid.UUID) (map[Position]int64, error)
}

// ActivityRepository defines persistence for activities
type ActivityRepository interface {
	shared.TenantStore[Activity]
}
