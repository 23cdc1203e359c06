package business

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/application/registry"
	"github.com/pulosarok/desa/internal/domain/business"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Repositories groups the business registry stores
type Repositories struct {
	Categories  business.CategoryRepository
	Koperasi    business.KoperasiRepository
	BUMG        business.BUMGRepository
	UKM         business.UKMRepository
	Aset        business.AsetRepository
	LayananJasa business.LayananJasaRepository
}

// Service manages the UMKM registries. Each registry is exposed as a
// registry.Registry with the same CRUD surface.
type Service struct {
	repos  Repositories
	logger *zap.Logger
	now    func() time.Time

	Koperasi    *registry.Registry[business.Koperasi, *business.Koperasi, KoperasiRequest, KoperasiResponse]
	BUMG        *registry.Registry[business.BUMG, *business.BUMG, BUMGRequest, BUMGResponse]
	UKM         *registry.Registry[business.UKM, *business.UKM, UKMRequest, UKMResponse]
	Aset        *registry.Registry[business.Aset, *business.Aset, AsetRequest, AsetResponse]
	LayananJasa *registry.Registry[business.LayananJasa, *business.LayananJasa, LayananJasaRequest, LayananJasaResponse]
}

// NewService creates a new business Service
func NewService(repos Repositories, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{repos: repos, logger: logger, now: time.Now}

	s.Koperasi = &registry.Registry[business.Koperasi, *business.Koperasi, KoperasiRequest, KoperasiResponse]{
		Store:    repos.Koperasi,
		NotFound: shared.NewDomainError("NOT_FOUND", "Koperasi not found"),
		New: func(tenantID uuid.UUID) *business.Koperasi {
			return &business.Koperasi{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
		},
		Apply:   func(k *business.Koperasi, r KoperasiRequest) { r.applyTo(k) },
		Respond: ToKoperasiResponse,
		Check: func(ctx context.Context, k *business.Koperasi) error {
			return s.checkCategory(ctx, k.TenantID, k.CategoryID)
		},
		Unique: func(ctx context.Context, k *business.Koperasi) (bool, error) {
			return repos.Koperasi.ExistsByBadanHukum(ctx, k.TenantID, k.NomorBadanHukum, k.ID)
		},
		Conflict: shared.NewDomainError("ALREADY_EXISTS", "Legal entity number already registered"),
	}
	s.BUMG = &registry.Registry[business.BUMG, *business.BUMG, BUMGRequest, BUMGResponse]{
		Store:    repos.BUMG,
		NotFound: shared.NewDomainError("NOT_FOUND", "BUMG not found"),
		New: func(tenantID uuid.UUID) *business.BUMG {
			return &business.BUMG{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
		},
		Apply:   func(b *business.BUMG, r BUMGRequest) { r.applyTo(b) },
		Respond: ToBUMGResponse,
		Unique: func(ctx context.Context, b *business.BUMG) (bool, error) {
			return repos.BUMG.ExistsByNomorSK(ctx, b.TenantID, b.NomorSK, b.ID)
		},
		Conflict: shared.NewDomainError("ALREADY_EXISTS", "Decree number already registered"),
	}
	s.UKM = &registry.Registry[business.UKM, *business.UKM, UKMRequest, UKMResponse]{
		Store:    repos.UKM,
		NotFound: shared.NewDomainError("NOT_FOUND", "UKM not found"),
		New: func(tenantID uuid.UUID) *business.UKM {
			return &business.UKM{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
		},
		Apply:   func(u *business.UKM, r UKMRequest) { r.applyTo(u) },
		Respond: ToUKMResponse,
		Check: func(ctx context.Context, u *business.UKM) error {
			return s.checkCategory(ctx, u.TenantID, u.CategoryID)
		},
	}
	s.Aset = &registry.Registry[business.Aset, *business.Aset, AsetRequest, AsetResponse]{
		Store:    repos.Aset,
		NotFound: shared.NewDomainError("NOT_FOUND", "Asset not found"),
		New: func(tenantID uuid.UUID) *business.Aset {
			return &business.Aset{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
		},
		Apply:   func(a *business.Aset, r AsetRequest) { r.applyTo(a) },
		Respond: func(a *business.Aset) AsetResponse { return ToAsetResponse(a, s.now()) },
		Unique: func(ctx context.Context, a *business.Aset) (bool, error) {
			return repos.Aset.ExistsByKode(ctx, a.TenantID, a.KodeAset, a.ID)
		},
		Conflict: shared.NewDomainError("ALREADY_EXISTS", "Asset code already registered"),
	}
	s.LayananJasa = &registry.Registry[business.LayananJasa, *business.LayananJasa, LayananJasaRequest, LayananJasaResponse]{
		Store:    repos.LayananJasa,
		NotFound: shared.NewDomainError("NOT_FOUND", "Service listing not found"),
		New: func(tenantID uuid.UUID) *business.LayananJasa {
			return &business.LayananJasa{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
		},
		Apply:   func(l *business.LayananJasa, r LayananJasaRequest) { r.applyTo(l) },
		Respond: ToLayananJasaResponse,
	}
	return s
}

// checkCategory verifies an optional category reference
func (s *Service) checkCategory(ctx context.Context, tenantID uuid.UUID, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := s.repos.Categories.FindByIDForTenant(ctx, tenantID, *id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_CATEGORY", "Business category not found")
		}
		return err
	}
	return nil
}

// CreateCategory adds a business category
func (s *Service) CreateCategory(ctx context.Context, tenantID uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	c, err := business.NewCategory(tenantID, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	return s.saveCategory(ctx, c, req)
}

// UpdateCategory replaces a business category
func (s *Service) UpdateCategory(ctx context.Context, tenantID, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	c, err := s.findCategory(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := c.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	return s.saveCategory(ctx, c, req)
}

func (s *Service) saveCategory(ctx context.Context, c *business.Category, req CategoryRequest) (*CategoryResponse, error) {
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	taken, err := s.repos.Categories.ExistsByName(ctx, c.TenantID, c.Name, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category name already exists")
	}
	if err := s.repos.Categories.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// ListCategories returns one page of business categories
func (s *Service) ListCategories(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CategoryResponse, int64, error) {
	rows, err := s.repos.Categories.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repos.Categories.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]CategoryResponse, len(rows))
	for i := range rows {
		out[i] = ToCategoryResponse(&rows[i])
	}
	return out, total, nil
}

// DeleteCategory removes a business category
func (s *Service) DeleteCategory(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.findCategory(ctx, tenantID, id); err != nil {
		return err
	}
	return s.repos.Categories.DeleteForTenant(ctx, tenantID, id)
}

func (s *Service) findCategory(ctx context.Context, tenantID, id uuid.UUID) (*business.Category, error) {
	c, err := s.repos.Categories.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Business category not found")
		}
		return nil, err
	}
	return c, nil
}

// Summary counts each registry by status and values the assets today
func (s *Service) Summary(ctx context.Context, tenantID uuid.UUID) (*SummaryResponse, error) {
	koperasi, err := s.repos.Koperasi.CountByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	bumg, err := s.repos.BUMG.CountByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	ukm, err := s.repos.UKM.CountByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	jasa, err := s.repos.LayananJasa.CountByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	assets, err := s.repos.Aset.ListAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	book := decimal.Zero
	for i := range assets {
		book = book.Add(assets[i].BookValue(now))
	}
	return &SummaryResponse{
		Koperasi:      statusMap(koperasi),
		BUMG:          statusMap(bumg),
		UKM:           statusMap(ukm),
		LayananJasa:   statusMap(jasa),
		AsetCount:     int64(len(assets)),
		AsetBookValue: book,
	}, nil
}

// Totals counts the entries of each registry regardless of status
func (s *Service) Totals(ctx context.Context, tenantID uuid.UUID) (map[string]int64, error) {
	counters := map[string]business.StatusCounter{
		"koperasi":     s.repos.Koperasi,
		"bumg":         s.repos.BUMG,
		"ukm":          s.repos.UKM,
		"layanan_jasa": s.repos.LayananJasa,
	}
	out := make(map[string]int64, len(counters)+1)
	for name, c := range counters {
		byStatus, err := c.CountByStatus(ctx, tenantID)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", name, err)
		}
		for _, n := range byStatus {
			out[name] += n
		}
	}
	assets, err := s.repos.Aset.CountForTenant(ctx, tenantID, shared.Filter{})
	if err != nil {
		return nil, fmt.Errorf("failed to count aset: %w", err)
	}
	out["aset"] = assets
	return out, nil
}
