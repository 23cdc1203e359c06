package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/identity"
	"github.com/pulosarok/desa/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTenantRepository implements identity.TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds a tenant by its ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	var t identity.Tenant
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// FindByCode finds a tenant by its unique code
func (r *GormTenantRepository) FindByCode(ctx context.Context, code string) (*identity.Tenant, error) {
	var t identity.Tenant
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// FindByDomain finds a tenant by the host its public pages are served from
func (r *GormTenantRepository) FindByDomain(ctx context.Context, domain string) (*identity.Tenant, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return nil, shared.ErrNotFound
	}
	var t identity.Tenant
	if err := r.db.WithContext(ctx).Where("domain = ?", domain).First(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// ExistsByCode checks if a tenant code is taken
func (r *GormTenantRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&identity.Tenant{}).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a tenant
func (r *GormTenantRepository) Save(ctx context.Context, t *identity.Tenant) error {
	return translate(r.db.WithContext(ctx).Save(t).Error)
}

var _ identity.TenantRepository = (*GormTenantRepository)(nil)
