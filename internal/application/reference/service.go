package reference

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/reference"
	"github.com/pulosarok/desa/internal/domain/shared"
	"go.uber.org/zap"
)

var (
	errDusunNotFound    = shared.NewDomainError("NOT_FOUND", "Dusun not found")
	errLorongNotFound   = shared.NewDomainError("NOT_FOUND", "Lorong not found")
	errPendudukNotFound = shared.NewDomainError("NOT_FOUND", "Resident not found")
)

// Service manages the village population master data: dusun, lorong and residents
type Service struct {
	dusun    reference.DusunRepository
	lorong   reference.LorongRepository
	penduduk reference.PendudukRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new reference Service
func NewService(dusun reference.DusunRepository, lorong reference.LorongRepository, penduduk reference.PendudukRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{dusun: dusun, lorong: lorong, penduduk: penduduk, logger: logger, now: time.Now}
}

// =============================================================================
// Dusun
// =============================================================================

// CreateDusun adds a dusun
func (s *Service) CreateDusun(ctx context.Context, tenantID uuid.UUID, req DusunRequest) (*DusunResponse, error) {
	d, err := reference.NewDusun(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	return s.saveDusun(ctx, d, req)
}

// UpdateDusun replaces a dusun
func (s *Service) UpdateDusun(ctx context.Context, tenantID, id uuid.UUID, req DusunRequest) (*DusunResponse, error) {
	d, err := s.findDusun(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return s.saveDusun(ctx, d, req)
}

func (s *Service) saveDusun(ctx context.Context, d *reference.Dusun, req DusunRequest) (*DusunResponse, error) {
	if err := d.Update(req.Code, req.Name, req.Description, req.AreaSize); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		d.SetActive(*req.IsActive)
	}
	taken, err := s.dusun.ExistsByCode(ctx, d.TenantID, d.Code, d.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check dusun code: %w", err)
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Dusun code already exists")
	}
	if err := s.dusun.Save(ctx, d); err != nil {
		return nil, err
	}
	resp := ToDusunResponse(d)
	return &resp, nil
}

// GetDusun returns one dusun
func (s *Service) GetDusun(ctx context.Context, tenantID, id uuid.UUID) (*DusunResponse, error) {
	d, err := s.findDusun(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToDusunResponse(d)
	return &resp, nil
}

// ListDusun returns one page of dusun
func (s *Service) ListDusun(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]DusunResponse, int64, error) {
	rows, err := s.dusun.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.dusun.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]DusunResponse, len(rows))
	for i := range rows {
		out[i] = ToDusunResponse(&rows[i])
	}
	return out, total, nil
}

// DeleteDusun removes a dusun that has no registered residents
func (s *Service) DeleteDusun(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.findDusun(ctx, tenantID, id); err != nil {
		return err
	}
	n, err := s.penduduk.CountByDusun(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return shared.NewDomainError("HAS_RESIDENTS", "Dusun still has registered residents")
	}
	return s.dusun.DeleteForTenant(ctx, tenantID, id)
}

func (s *Service) findDusun(ctx context.Context, tenantID, id uuid.UUID) (*reference.Dusun, error) {
	d, err := s.dusun.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errDusunNotFound
		}
		return nil, err
	}
	return d, nil
}

// =============================================================================
// Lorong
// =============================================================================

// CreateLorong adds a lorong to a dusun
func (s *Service) CreateLorong(ctx context.Context, tenantID uuid.UUID, req LorongRequest) (*LorongResponse, error) {
	if _, err := s.findDusun(ctx, tenantID, req.DusunID); err != nil {
		return nil, err
	}
	l, err := reference.NewLorong(tenantID, req.DusunID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	return s.saveLorong(ctx, l, req)
}

// UpdateLorong replaces a lorong. The dusun cannot change.
func (s *Service) UpdateLorong(ctx context.Context, tenantID, id uuid.UUID, req LorongRequest) (*LorongResponse, error) {
	l, err := s.findLorong(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if req.DusunID != uuid.Nil && req.DusunID != l.DusunID {
		return nil, shared.NewDomainError("INVALID_DUSUN", "A lorong cannot move to another dusun")
	}
	return s.saveLorong(ctx, l, req)
}

func (s *Service) saveLorong(ctx context.Context, l *reference.Lorong, req LorongRequest) (*LorongResponse, error) {
	if err := l.Update(req.Code, req.Name, req.Length, req.HouseCount); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		l.IsActive = *req.IsActive
	}
	taken, err := s.lorong.ExistsByCode(ctx, l.TenantID, l.DusunID, l.Code, l.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check lorong code: %w", err)
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Lorong code already exists in this dusun")
	}
	if err := s.lorong.Save(ctx, l); err != nil {
		return nil, err
	}
	resp := ToLorongResponse(l)
	return &resp, nil
}

// GetLorong returns one lorong
func (s *Service) GetLorong(ctx context.Context, tenantID, id uuid.UUID) (*LorongResponse, error) {
	l, err := s.findLorong(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToLorongResponse(l)
	return &resp, nil
}

// ListLorong returns one page of lorong
func (s *Service) ListLorong(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]LorongResponse, int64, error) {
	rows, err := s.lorong.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.lorong.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]LorongResponse, len(rows))
	for i := range rows {
		out[i] = ToLorongResponse(&rows[i])
	}
	return out, total, nil
}

// DeleteLorong removes a lorong
func (s *Service) DeleteLorong(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.findLorong(ctx, tenantID, id); err != nil {
		return err
	}
	return s.lorong.DeleteForTenant(ctx, tenantID, id)
}

func (s *Service) findLorong(ctx context.Context, tenantID, id uuid.UUID) (*reference.Lorong, error) {
	l, err := s.lorong.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errLorongNotFound
		}
		return nil, err
	}
	return l, nil
}

// =============================================================================
// Penduduk
// =============================================================================

// CreatePenduduk registers a resident
func (s *Service) CreatePenduduk(ctx context.Context, tenantID uuid.UUID, req PendudukRequest) (*PendudukResponse, error) {
	p, err := reference.NewPenduduk(tenantID, req.NIK, req.Name, reference.Gender(req.Gender), req.DusunID)
	if err != nil {
		return nil, err
	}
	return s.savePenduduk(ctx, p, req, uuid.Nil)
}

// UpdatePenduduk replaces a resident
func (s *Service) UpdatePenduduk(ctx context.Context, tenantID, id uuid.UUID, req PendudukRequest) (*PendudukResponse, error) {
	p, err := s.findPenduduk(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	previous := p.DusunID
	if err := p.SetIdentity(req.NIK, req.Name, reference.Gender(req.Gender)); err != nil {
		return nil, err
	}
	return s.savePenduduk(ctx, p, req, previous)
}

func (s *Service) savePenduduk(ctx context.Context, p *reference.Penduduk, req PendudukRequest, previousDusun uuid.UUID) (*PendudukResponse, error) {
	if err := p.SetDetails(reference.PendudukDetails{
		BirthPlace:    req.BirthPlace,
		BirthDate:     req.BirthDate,
		Religion:      req.Religion,
		Education:     req.Education,
		Occupation:    req.Occupation,
		MaritalStatus: reference.MaritalStatus(req.MaritalStatus),
		Address:       req.Address,
	}); err != nil {
		return nil, err
	}
	if _, err := s.findDusun(ctx, p.TenantID, req.DusunID); err != nil {
		return nil, err
	}
	var lorong *reference.Lorong
	if req.LorongID != nil {
		l, err := s.findLorong(ctx, p.TenantID, *req.LorongID)
		if err != nil {
			return nil, err
		}
		lorong = l
	}
	if err := p.PlaceIn(req.DusunID, lorong); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		p.SetActive(*req.IsActive)
	}

	taken, err := s.penduduk.ExistsByNIK(ctx, p.TenantID, p.NIK, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check nik: %w", err)
	}
	if taken {
		return nil, shared.NewDomainError("NIK_EXISTS", "A resident with this NIK is already registered")
	}
	if err := s.penduduk.Save(ctx, p); err != nil {
		return nil, err
	}

	s.refreshPopulation(ctx, p.TenantID, p.DusunID)
	if previousDusun != uuid.Nil && previousDusun != p.DusunID {
		s.refreshPopulation(ctx, p.TenantID, previousDusun)
	}
	resp := ToPendudukResponse(p, s.now())
	return &resp, nil
}

// GetPenduduk returns one resident
func (s *Service) GetPenduduk(ctx context.Context, tenantID, id uuid.UUID) (*PendudukResponse, error) {
	p, err := s.findPenduduk(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPendudukResponse(p, s.now())
	return &resp, nil
}

// FindByNIK returns the resident with a NIK
func (s *Service) FindByNIK(ctx context.Context, tenantID uuid.UUID, nik string) (*PendudukResponse, error) {
	p, err := s.penduduk.FindByNIK(ctx, tenantID, nik)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errPendudukNotFound
		}
		return nil, err
	}
	resp := ToPendudukResponse(p, s.now())
	return &resp, nil
}

// ListPenduduk returns one page of residents
func (s *Service) ListPenduduk(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PendudukResponse, int64, error) {
	rows, err := s.penduduk.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.penduduk.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	now := s.now()
	out := make([]PendudukResponse, len(rows))
	for i := range rows {
		out[i] = ToPendudukResponse(&rows[i], now)
	}
	return out, total, nil
}

// DeletePenduduk removes a resident
func (s *Service) DeletePenduduk(ctx context.Context, tenantID, id uuid.UUID) error {
	p, err := s.findPenduduk(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.penduduk.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.refreshPopulation(ctx, tenantID, p.DusunID)
	return nil
}

// Stats summarizes the active population
func (s *Service) Stats(ctx context.Context, tenantID uuid.UUID) (*PopulationStatsResponse, error) {
	stats, err := s.penduduk.Stats(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	dusunCount, err := s.dusun.CountForTenant(ctx, tenantID, shared.Filter{})
	if err != nil {
		return nil, err
	}
	return &PopulationStatsResponse{
		Total:           stats.Total,
		ByGender:        stats.ByGender,
		ByDusun:         stats.ByDusun,
		ByMaritalStatus: stats.ByMaritalStatus,
		DusunCount:      dusunCount,
	}, nil
}

// refreshPopulation recounts the residents of a dusun. Failures are logged only.
func (s *Service) refreshPopulation(ctx context.Context, tenantID, dusunID uuid.UUID) {
	d, err := s.dusun.FindByIDForTenant(ctx, tenantID, dusunID)
	if err != nil {
		return
	}
	n, err := s.penduduk.CountByDusun(ctx, tenantID, dusunID)
	if err != nil {
		s.logger.Warn("Failed to count dusun residents", zap.String("dusun_id", dusunID.String()), zap.Error(err))
		return
	}
	d.PopulationCount = int(n)
	if err := s.dusun.Save(ctx, d); err != nil {
		s.logger.Warn("Failed to update dusun population", zap.String("dusun_id", dusunID.String()), zap.Error(err))
	}
}

func (s *Service) findPenduduk(ctx context.Context, tenantID, id uuid.UUID) (*reference.Penduduk, error) {
	p, err := s.penduduk.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errPendudukNotFound
		}
		return nil, err
	}
	return p, nil
}
