package identity

import (
	"context"

	"github.com/google/uuid"
)

// TenantRepository defines persistence for villages
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	// FindByCode matches the code case-insensitively
	FindByCode(ctx context.Context, code string) (*Tenant, error)
	FindByDomain(ctx context.Context, domain string) (*Tenant, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, t *Tenant) error
}
