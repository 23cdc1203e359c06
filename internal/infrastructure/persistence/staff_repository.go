package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/identity"
	"gorm.io/gorm"
)

// GormStaffRepository implements identity.StaffRepository using GORM
type GormStaffRepository struct {
	gormTenantStore[identity.Staff]
}

// NewGormStaffRepository creates a new GormStaffRepository
func NewGormStaffRepository(db *gorm.DB) *GormStaffRepository {
	return &GormStaffRepository{newTenantStore[identity.Staff](db, listSpec{
		searchColumns: []string{"username", "display_name", "email"},
		sortFields:    sortFields("username", "display_name", "role", "status", "last_login_at"),
		filterColumns: columns("role", "status"),
		defaultOrder:  "username ASC",
	})}
}

// FindByUsername finds an account by username within the tenant
func (r *GormStaffRepository) FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*identity.Staff, error) {
	var s identity.Staff
	if err := r.scoped(ctx, tenantID).
		Where("username = ?", strings.ToLower(strings.TrimSpace(username))).
		First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// ExistsByUsername checks if a username is already taken in the tenant
func (r *GormStaffRepository) ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error) {
	return r.exists(ctx, tenantID, "username = ?", strings.ToLower(strings.TrimSpace(username)))
}

var _ identity.StaffRepository = (*GormStaffRepository)(nil)
