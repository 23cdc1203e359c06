package beneficiary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/beneficiary"
	"github.com/pulosarok/desa/internal/domain/reference"
	"github.com/pulosarok/desa/internal/domain/shared"
	"go.uber.org/zap"
)

var (
	errCategoryNotFound    = shared.NewDomainError("NOT_FOUND", "Beneficiary category not found")
	errBeneficiaryNotFound = shared.NewDomainError("NOT_FOUND", "Beneficiary not found")
)

// RegistryService manages categories, enrolments and their verifications
type RegistryService struct {
	categories    beneficiary.CategoryRepository
	beneficiaries beneficiary.BeneficiaryRepository
	verifications beneficiary.VerificationRepository
	residents     reference.PendudukRepository
	logger        *zap.Logger
	now           func() time.Time
}

// NewRegistryService creates a new RegistryService
func NewRegistryService(
	categories beneficiary.CategoryRepository,
	beneficiaries beneficiary.BeneficiaryRepository,
	verifications beneficiary.VerificationRepository,
	residents reference.PendudukRepository,
	logger *zap.Logger,
) *RegistryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistryService{
		categories:    categories,
		beneficiaries: beneficiaries,
		verifications: verifications,
		residents:     residents,
		logger:        logger,
		now:           time.Now,
	}
}

// CreateCategory adds a category
func (s *RegistryService) CreateCategory(ctx context.Context, tenantID uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	c, err := beneficiary.NewCategory(tenantID, req.Name, req.Description, req.Criteria)
	if err != nil {
		return nil, err
	}
	return s.saveCategory(ctx, c, req)
}

// UpdateCategory replaces a category
func (s *RegistryService) UpdateCategory(ctx context.Context, tenantID, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	c, err := s.findCategory(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := c.Update(req.Name, req.Description, req.Criteria); err != nil {
		return nil, err
	}
	return s.saveCategory(ctx, c, req)
}

func (s *RegistryService) saveCategory(ctx context.Context, c *beneficiary.Category, req CategoryRequest) (*CategoryResponse, error) {
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	taken, err := s.categories.ExistsByName(ctx, c.TenantID, c.Name, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category name already exists")
	}
	if err := s.categories.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// GetCategory returns one category
func (s *RegistryService) GetCategory(ctx context.Context, tenantID, id uuid.UUID) (*CategoryResponse, error) {
	c, err := s.findCategory(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// ListCategories returns one page of categories
func (s *RegistryService) ListCategories(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CategoryResponse, int64, error) {
	return listPage(ctx, s.categories, tenantID, filter, ToCategoryResponse)
}

// DeleteCategory removes a category
func (s *RegistryService) DeleteCategory(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.findCategory(ctx, tenantID, id); err != nil {
		return err
	}
	return s.categories.DeleteForTenant(ctx, tenantID, id)
}

// Enroll registers a resident in a category. A resident holds at most one
// active enrolment per category.
func (s *RegistryService) Enroll(ctx context.Context, tenantID uuid.UUID, req BeneficiaryRequest) (*BeneficiaryResponse, error) {
	registered := s.now()
	if req.RegistrationDate != nil {
		registered = *req.RegistrationDate
	}
	b, err := beneficiary.NewBeneficiary(tenantID, req.PendudukID, req.CategoryID,
		beneficiary.EconomicStatus(req.EconomicStatus), req.FamilyMembersCount, registered)
	if err != nil {
		return nil, err
	}
	return s.saveBeneficiary(ctx, b, req)
}

// UpdateBeneficiary replaces an enrolment
func (s *RegistryService) UpdateBeneficiary(ctx context.Context, tenantID, id uuid.UUID, req BeneficiaryRequest) (*BeneficiaryResponse, error) {
	b, err := s.findBeneficiary(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	b.PendudukID = req.PendudukID
	b.CategoryID = req.CategoryID
	if req.RegistrationDate != nil {
		b.RegistrationDate = *req.RegistrationDate
	}
	return s.saveBeneficiary(ctx, b, req)
}

func (s *RegistryService) saveBeneficiary(ctx context.Context, b *beneficiary.Beneficiary, req BeneficiaryRequest) (*BeneficiaryResponse, error) {
	if err := b.SetHousehold(beneficiary.EconomicStatus(req.EconomicStatus), req.FamilyMembersCount, req.MonthlyIncome); err != nil {
		return nil, err
	}
	if req.Status != "" {
		if err := b.ChangeStatus(beneficiary.Status(req.Status)); err != nil {
			return nil, err
		}
	}
	b.HouseCondition = req.HouseCondition
	b.SpecialNeeds = req.SpecialNeeds
	b.Notes = req.Notes

	if _, err := s.residents.FindByIDForTenant(ctx, b.TenantID, b.PendudukID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("RESIDENT_NOT_FOUND", "Resident not found")
		}
		return nil, err
	}
	c, err := s.findCategory(ctx, b.TenantID, b.CategoryID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, shared.NewDomainError("CATEGORY_INACTIVE", "Category is not active")
	}
	if b.IsActive() {
		dup, err := s.beneficiaries.ExistsActive(ctx, b.TenantID, b.PendudukID, b.CategoryID, b.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check enrolment: %w", err)
		}
		if dup {
			return nil, shared.NewDomainError("ALREADY_ENROLLED", "Resident already has an active enrolment in this category")
		}
	}

	if err := s.beneficiaries.Save(ctx, b); err != nil {
		return nil, err
	}
	resp := ToBeneficiaryResponse(b)
	return &resp, nil
}

// GetBeneficiary returns one enrolment
func (s *RegistryService) GetBeneficiary(ctx context.Context, tenantID, id uuid.UUID) (*BeneficiaryResponse, error) {
	b, err := s.findBeneficiary(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToBeneficiaryResponse(b)
	return &resp, nil
}

// ListBeneficiaries returns one page of enrolments
func (s *RegistryService) ListBeneficiaries(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]BeneficiaryResponse, int64, error) {
	return listPage(ctx, s.beneficiaries, tenantID, filter, ToBeneficiaryResponse)
}

// DeleteBeneficiary removes an enrolment
func (s *RegistryService) DeleteBeneficiary(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.findBeneficiary(ctx, tenantID, id); err != nil {
		return err
	}
	return s.beneficiaries.DeleteForTenant(ctx, tenantID, id)
}

// CountActive counts active enrolments
func (s *RegistryService) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.beneficiaries.CountActive(ctx, tenantID)
}

// Verify records a field verification. A verified outcome stamps the
// beneficiary's verification date.
func (s *RegistryService) Verify(ctx context.Context, tenantID, beneficiaryID uuid.UUID, verifier uuid.UUID, req VerificationRequest) (*VerificationResponse, error) {
	b, err := s.findBeneficiary(ctx, tenantID, beneficiaryID)
	if err != nil {
		return nil, err
	}
	at := s.now()
	if req.VerificationDate != nil {
		at = *req.VerificationDate
	}
	v, err := beneficiary.NewVerification(b, beneficiary.VerificationStatus(req.Status), at, &verifier)
	if err != nil {
		return nil, err
	}
	if err := v.ScheduleNext(req.NextVerificationDate); err != nil {
		return nil, err
	}
	v.Notes = req.Notes
	v.DocumentsChecked = req.DocumentsChecked
	v.FieldVisitConducted = req.FieldVisitConducted

	if err := s.verifications.Save(ctx, v); err != nil {
		return nil, err
	}
	if v.Status == beneficiary.VerificationVerified {
		if err := s.beneficiaries.Save(ctx, b); err != nil {
			return nil, err
		}
	}
	s.logger.Info("Beneficiary verified",
		zap.String("beneficiary_id", b.ID.String()),
		zap.String("status", string(v.Status)))
	resp := ToVerificationResponse(v)
	return &resp, nil
}

// ListVerifications returns one page of verifications
func (s *RegistryService) ListVerifications(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]VerificationResponse, int64, error) {
	return listPage(ctx, s.verifications, tenantID, filter, ToVerificationResponse)
}

func (s *RegistryService) findCategory(ctx context.Context, tenantID, id uuid.UUID) (*beneficiary.Category, error) {
	c, err := s.categories.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errCategoryNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *RegistryService) findBeneficiary(ctx context.Context, tenantID, id uuid.UUID) (*beneficiary.Beneficiary, error) {
	b, err := s.beneficiaries.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errBeneficiaryNotFound
		}
		return nil, err
	}
	return b, nil
}

// listPage loads one page and the total count and maps each row
func listPage[T, R any](ctx context.Context, store shared.TenantStore[T], tenantID uuid.UUID, filter shared.Filter, to func(*T) R) ([]R, int64, error) {
	rows, err := store.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := store.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]R, len(rows))
	for i := range rows {
		out[i] = to(&rows[i])
	}
	return out, total, nil
}
