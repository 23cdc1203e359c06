package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/identity"
	"github.com/pulosarok/desa/internal/domain/shared"
)

// TenantService resolves the village a request belongs to
type TenantService struct {
	repo identity.TenantRepository
}

// NewTenantService creates a new TenantService
func NewTenantService(repo identity.TenantRepository) *TenantService {
	return &TenantService{repo: repo}
}

// Resolve looks a village up by ID, code or domain, in that order.
// Only active villages resolve.
func (s *TenantService) Resolve(ctx context.Context, key string) (*TenantResponse, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, shared.ErrNotFound
	}

	var (
		tenant *identity.Tenant
		err    error
	)
	if id, parseErr := uuid.Parse(key); parseErr == nil {
		tenant, err = s.repo.FindByID(ctx, id)
	} else {
		tenant, err = s.repo.FindByCode(ctx, key)
		if errors.Is(err, shared.ErrNotFound) {
			tenant, err = s.repo.FindByDomain(ctx, key)
		}
	}
	if err != nil {
		return nil, err
	}
	if !tenant.IsActive() {
		return nil, shared.ErrNotFound
	}
	resp := ToTenantResponse(tenant)
	return &resp, nil
}

// GetByID returns a village regardless of its status
func (s *TenantService) GetByID(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTenantResponse(tenant)
	return &resp, nil
}
