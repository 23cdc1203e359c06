package reference

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
)

// DusunRepository defines persistence for dusun
type DusunRepository interface {
	shared.TenantStore[Dusun]
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID uuid.UUID) (bool, error)
}

// LorongRepository defines persistence for lorong
type LorongRepository interface {
	shared.TenantStore[Lorong]
	ExistsByCode(ctx context.Context, tenantID, dusunID uuid.UUID, code string, excludeID uuid.UUID) (bool, error)
}

// PendudukRepository defines persistence for residents
type PendudukRepository interface {
	shared.TenantStore[Penduduk]
	FindByNIK(ctx context.Context, tenantID uuid.UUID, nik string) (*Penduduk, error)
	ExistsByNIK(ctx context.Context, tenantID uuid.UUID, nik string, excludeID uuid.UUID) (bool, error)
	CountByDusun(ctx context.Context, tenantID, dusunID uuid.UUID) (int64, error)
	Stats(ctx context.Context, tenantID uuid.UUID) (*PopulationStats, error)
}

// PopulationStats summarizes active residents
type PopulationStats struct {
	Total           int64
	ByGender        map[string]int64
	ByDusun         map[string]int64
	ByMaritalStatus map[string]int64
}
