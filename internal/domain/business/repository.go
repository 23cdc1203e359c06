package business

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CategoryRepository defines persistence for business categories
type CategoryRepository interface {
	shared.TenantStore[Category]
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
}

// KoperasiRepository defines persistence for cooperatives
type KoperasiRepository interface {
	shared.TenantStore[Koperasi]
	StatusCounter
	ExistsByBadanHukum(ctx context.Context, tenantID uuid.UUID, nomor string, excludeID uuid.UUID) (bool, error)
}

// BUMGRepository defines persistence for village-owned enterprises
type BUMGRepository interface {
	shared.TenantStore[BUMG]
	StatusCounter
	ExistsByNomorSK(ctx context.Context, tenantID uuid.UUID, nomor string, excludeID uuid.UUID) (bool, error)
}

// UKMRepository defines persistence for small businesses
type UKMRepository interface {
	shared.TenantStore[UKM]
	StatusCounter
}

// AsetRepository defines persistence for assets
type AsetRepository interface {
	shared.TenantStore[Aset]
	ExistsByKode(ctx context.Context, tenantID uuid.UUID, kode string, excludeID uuid.UUID) (bool, error)
	ListAll(ctx context.Context, tenantID uuid.UUID) ([]Aset, error)
}

// LayananJasaRepository defines persistence for service listings
type LayananJasaRepository interface {
	shared.TenantStore[LayananJasa]
	StatusCounter
}

// StatusCounter counts a registry's rows per status
type StatusCounter interface {
	CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[Status]int64, error)
}

// Summary aggregates the registries for the dashboard
type Summary struct {
	Koperasi      map[Status]int64
	BUMG          map[Status]int64
	UKM           map[Status]int64
	LayananJasa   map[Status]int64
	AsetCount     int64
	AsetBookValue decimal.Decimal
}
