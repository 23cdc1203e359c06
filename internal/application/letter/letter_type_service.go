package letter

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/letter"
	"github.com/pulosarok/desa/internal/domain/shared"
	"go.uber.org/zap"
)

// LetterTypeService manages the letter types a village issues
type LetterTypeService struct {
	repo    letter.LetterTypeRepository
	letters letter.LetterRepository
	logger  *zap.Logger
}

// NewLetterTypeService creates a new LetterTypeService
func NewLetterTypeService(repo letter.LetterTypeRepository, letters letter.LetterRepository, logger *zap.Logger) *LetterTypeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LetterTypeService{repo: repo, letters: letters, logger: logger}
}

// Create adds a letter type
func (s *LetterTypeService) Create(ctx context.Context, tenantID uuid.UUID, req LetterTypeRequest) (*LetterTypeResponse, error) {
	lt, err := letter.NewLetterType(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, lt, req); err != nil {
		return nil, err
	}
	resp := ToLetterTypeResponse(lt)
	return &resp, nil
}

// Update replaces a letter type
func (s *LetterTypeService) Update(ctx context.Context, tenantID, id uuid.UUID, req LetterTypeRequest) (*LetterTypeResponse, error) {
	lt, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, lt, req); err != nil {
		return nil, err
	}
	resp := ToLetterTypeResponse(lt)
	return &resp, nil
}

func (s *LetterTypeService) apply(ctx context.Context, lt *letter.LetterType, req LetterTypeRequest) error {
	days := lt.ProcessingTimeDays
	if req.ProcessingTimeDays != nil {
		days = *req.ProcessingTimeDays
	}
	if err := lt.Update(req.Code, req.Name, req.Description, req.RequiredDocuments, days, req.FeeAmount); err != nil {
		return err
	}
	if req.IsActive != nil {
		lt.SetActive(*req.IsActive)
	}

	taken, err := s.repo.ExistsByCode(ctx, lt.TenantID, lt.Code, lt.ID)
	if err != nil {
		return fmt.Errorf("failed to check letter type code: %w", err)
	}
	if taken {
		return shared.NewDomainError("ALREADY_EXISTS", "Letter type code already exists")
	}
	return s.repo.Save(ctx, lt)
}

// GetByID returns one letter type
func (s *LetterTypeService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*LetterTypeResponse, error) {
	lt, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToLetterTypeResponse(lt)
	return &resp, nil
}

// List returns one page of letter types
func (s *LetterTypeService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]LetterTypeResponse, int64, error) {
	rows, err := s.repo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]LetterTypeResponse, len(rows))
	for i := range rows {
		out[i] = ToLetterTypeResponse(&rows[i])
	}
	return out, total, nil
}

// Delete removes a letter type that no letter uses
func (s *LetterTypeService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.find(ctx, tenantID, id); err != nil {
		return err
	}
	used, err := s.letters.ExistsForType(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if used {
		return shared.NewDomainError("LETTER_TYPE_IN_USE", "Letter type is used by existing letters; deactivate it instead")
	}
	return s.repo.DeleteForTenant(ctx, tenantID, id)
}

func (s *LetterTypeService) find(ctx context.Context, tenantID, id uuid.UUID) (*letter.LetterType, error) {
	lt, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Letter type not found")
		}
		return nil, err
	}
	return lt, nil
}
