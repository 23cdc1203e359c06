package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
)

// StaffRepository defines persistence for staff accounts
type StaffRepository interface {
	shared.TenantStore[Staff]
	// FindByUsername finds an account by username within the tenant
	FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*Staff, error)
	// ExistsByUsername checks if a username is already taken in the tenant
	ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error)
}
