package beneficiary

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
)

// CategoryRepository defines persistence for categories
type CategoryRepository interface {
	shared.TenantStore[Category]
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
}

// BeneficiaryRepository defines persistence for beneficiaries
type BeneficiaryRepository interface {
	shared.TenantStore[Beneficiary]
	// ExistsActive reports whether the resident already has an active record in the category
	ExistsActive(ctx context.Context, tenantID, pendudukID, categoryID uuid.UUID, excludeID uuid.UUID) (bool, error)
	CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// ProgramRepository defines persistence for aid programs
type ProgramRepository interface {
	shared.TenantStore[Program]
	// FindForUpdate loads the program with a row lock held until the transaction ends
	FindForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Program, error)
}

// DistributionRepository defines persistence for distributions
type DistributionRepository interface {
	shared.TenantStore[Distribution]
	// CommittedUsage sums approved and distributed amounts of a program
	CommittedUsage(ctx context.Context, tenantID, programID uuid.UUID) (Usage, error)
	CountDistributed(ctx context.Context, tenantID, programID uuid.UUID) (int64, error)
}

// VerificationRepository defines persistence for verifications
type VerificationRepository interface {
	shared.TenantStore[Verification]
}
