package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/beneficiary"
	"gorm.io/gorm"
)

// GormBeneficiaryCategoryRepository implements beneficiary.CategoryRepository using GORM
type GormBeneficiaryCategoryRepository struct {
	gormTenantStore[beneficiary.Category]
}

// NewGormBeneficiaryCategoryRepository creates a new GormBeneficiaryCategoryRepository
func NewGormBeneficiaryCategoryRepository(db *gorm.DB) *GormBeneficiaryCategoryRepository {
	return &GormBeneficiaryCategoryRepository{newTenantStore[beneficiary.Category](db, listSpec{
		searchColumns: []string{"name", "criteria"},
		sortFields:    sortFields("name"),
		filterColumns: columns("is_active"),
		defaultOrder:  "name ASC",
	})}
}

// ExistsByName checks whether another category uses name
func (r *GormBeneficiaryCategoryRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, tenantID, "LOWER(name) = LOWER(?) AND id <> ?", name, excludeID)
}

// GormBeneficiaryRepository implements beneficiary.BeneficiaryRepository using GORM
type GormBeneficiaryRepository struct {
	gormTenantStore[beneficiary.Beneficiary]
}

// NewGormBeneficiaryRepository creates a new GormBeneficiaryRepository
func NewGormBeneficiaryRepository(db *gorm.DB) *GormBeneficiaryRepository {
	return &GormBeneficiaryRepository{newTenantStore[beneficiary.Beneficiary](db, listSpec{
		searchColumns: []string{"notes", "house_condition"},
		sortFields:    sortFields("registration_date", "status", "economic_status", "family_members_count"),
		filterColumns: columns("penduduk_id", "category_id", "status", "economic_status", "registration_date"),
	})}
}

// ExistsActive reports whether the resident already has an active record in the category
func (r *GormBeneficiaryRepository) ExistsActive(ctx context.Context, tenantID, pendudukID, categoryID uuid.UUID, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, tenantID, "penduduk_id = ? AND category_id = ? AND status = ? AND id <> ?",
		pendudukID, categoryID, beneficiary.StatusActive, excludeID)
}

// CountActive counts active beneficiaries
func (r *GormBeneficiaryRepository) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var n int64
	err := r.scoped(ctx, tenantID).Where("status = ?", beneficiary.StatusActive).Count(&n).Error
	return n, err
}

// GormProgramRepository implements beneficiary.ProgramRepository using GORM
type GormProgramRepository struct {
	gormTenantStore[beneficiary.Program]
}

// NewGormProgramRepository creates a new GormProgramRepository
func NewGormProgramRepository(db *gorm.DB) *GormProgramRepository {
	return &GormProgramRepository{newTenantStore[beneficiary.Program](db, listSpec{
		searchColumns: []string{"name", "description"},
		sortFields:    sortFields("name", "start_date", "end_date", "total_budget"),
		filterColumns: columns("aid_type", "source", "is_active", "start_date", "end_date"),
	})}
}

// FindForUpdate loads the program with a row lock held until the transaction ends
func (r *GormProgramRepository) FindForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*beneficiary.Program, error) {
	var p beneficiary.Program
	if err := forUpdate(r.scoped(ctx, tenantID)).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// GormDistributionRepository implements beneficiary.DistributionRepository using GORM
type GormDistributionRepository struct {
	gormTenantStore[beneficiary.Distribution]
}

// NewGormDistributionRepository creates a new GormDistributionRepository
func NewGormDistributionRepository(db *gorm.DB) *GormDistributionRepository {
	return &GormDistributionRepository{newTenantStore[beneficiary.Distribution](db, listSpec{
		searchColumns: []string{"receipt_number", "notes"},
		sortFields:    sortFields("distribution_date", "amount_received", "status"),
		filterColumns: columns("aid_id", "beneficiary_id", "status", "distribution_date"),
	})}
}

// CommittedUsage sums approved and distributed amounts of a program
func (r *GormDistributionRepository) CommittedUsage(ctx context.Context, tenantID, programID uuid.UUID) (beneficiary.Usage, error) {
	var usage beneficiary.Usage
	row := r.scoped(ctx, tenantID).
		Select("COALESCE(SUM(amount_received), 0), COUNT(*)").
		Where("aid_id = ? AND status IN ?", programID, []beneficiary.DistributionStatus{
			beneficiary.DistributionApproved, beneficiary.DistributionDistributed,
		}).
		Row()
	if err := row.Scan(&usage.Amount, &usage.Count); err != nil {
		return beneficiary.Usage{}, err
	}
	return usage, nil
}

// CountDistributed counts payouts already handed over
func (r *GormDistributionRepository) CountDistributed(ctx context.Context, tenantID, programID uuid.UUID) (int64, error) {
	var n int64
	err := r.scoped(ctx, tenantID).
		Where("aid_id = ? AND status = ?", programID, beneficiary.DistributionDistributed).
		Count(&n).Error
	return n, err
}

// GormVerificationRepository implements beneficiary.VerificationRepository using GORM
type GormVerificationRepository struct {
	gormTenantStore[beneficiary.Verification]
}

// NewGormVerificationRepository creates a new GormVerificationRepository
func NewGormVerificationRepository(db *gorm.DB) *GormVerificationRepository {
	return &GormVerificationRepository{newTenantStore[beneficiary.Verification](db, listSpec{
		searchColumns: []string{"notes"},
		sortFields:    sortFields("verification_date", "status"),
		filterColumns: columns("beneficiary_id", "status", "verification_date"),
		defaultOrder:  "verification_date DESC",
	})}
}

var (
	_ beneficiary.CategoryRepository     = (*GormBeneficiaryCategoryRepository)(nil)
	_ beneficiary.BeneficiaryRepository  = (*GormBeneficiaryRepository)(nil)
	_ beneficiary.ProgramRepository      = (*GormProgramRepository)(nil)
	_ beneficiary.DistributionRepository = (*GormDistributionRepository)(nil)
	_ beneficiary.VerificationRepository = (*GormVerificationRepository)(nil)
)
