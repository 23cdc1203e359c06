package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/business"
	"gorm.io/gorm"
)

// statusCounts groups a registry by status
func statusCounts(q *gorm.DB) (map[business.Status]int64, error) {
	var rows []groupCount
	if err := q.Select("status AS label, COUNT(*) AS total").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := map[business.Status]int64{
		business.StatusActive:   0,
		business.StatusInactive: 0,
		business.StatusPending:  0,
	}
	for _, g := range rows {
		out[business.Status(g.Label)] = g.Total
	}
	return out, nil
}

// GormBusinessCategoryRepository implements business.CategoryRepository using GORM
type GormBusinessCategoryRepository struct {
	gormTenantStore[business.Category]
}

// NewGormBusinessCategoryRepository creates a new GormBusinessCategoryRepository
func NewGormBusinessCategoryRepository(db *gorm.DB) *GormBusinessCategoryRepository {
	return &GormBusinessCategoryRepository{newTenantStore[business.Category](db, listSpec{
		searchColumns: []string{"name"},
		sortFields:    sortFields("name"),
		filterColumns: columns("is_active"),
		defaultOrder:  "name ASC",
	})}
}

// ExistsByName checks whether another category uses name
func (r *GormBusinessCategoryRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, tenantID, "LOWER(name) = LOWER(?) AND id <> ?", name, excludeID)
}

// GormKoperasiRepository implements business.KoperasiRepository using GORM
type GormKoperasiRepository struct {
	gormTenantStore[business.Koperasi]
}

// NewGormKoperasiRepository creates a new GormKoperasiRepository
func NewGormKoperasiRepository(db *gorm.DB) *GormKoperasiRepository {
	return &GormKoperasiRepository{newTenantStore[business.Koperasi](db, listSpec{
		searchColumns: []string{"nama", "nomor_badan_hukum", "ketua", "jenis_usaha"},
		sortFields:    sortFields("nama", "tanggal_berdiri", "jumlah_anggota", "status"),
		filterColumns: columns("status", "category_id", "tanggal_berdiri"),
		defaultOrder:  "nama ASC",
	})}
}

// CountByStatus counts cooperatives per status
func (r *GormKoperasiRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[business.Status]int64, error) {
	return statusCounts(r.scoped(ctx, tenantID))
}

// ExistsByBadanHukum checks whether another cooperative uses the registration number
func (r *GormKoperasiRepository) ExistsByBadanHukum(ctx context.Context, tenantID uuid.UUID, nomor string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, tenantID, "nomor_badan_hukum = ? AND id <> ?", nomor, excludeID)
}

// GormBUMGRepository implements business.BUMGRepository using GORM
type GormBUMGRepository struct {
	gormTenantStore[business.BUMG]
}

// NewGormBUMGRepository creates a new GormBUMGRepository
func NewGormBUMGRepository(db *gorm.DB) *GormBUMGRepository {
	return &GormBUMGRepository{newTenantStore[business.BUMG](db, listSpec{
		searchColumns: []string{"nama", "nomor_sk", "direktur", "bidang_usaha"},
		sortFields:    sortFields("nama", "tanggal_sk", "status"),
		filterColumns: columns("status"),
		defaultOrder:  "nama ASC",
	})}
}

// CountByStatus counts enterprises per status
func (r *GormBUMGRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[business.Status]int64, error) {
	return statusCounts(r.scoped(ctx, tenantID))
}

// ExistsByNomorSK checks whether another enterprise uses the decree number
func (r *GormBUMGRepository) ExistsByNomorSK(ctx context.Context, tenantID uuid.UUID, nomor string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, tenantID, "nomor_sk = ? AND id <> ?", nomor, excludeID)
}

// GormUKMRepository implements business.UKMRepository using GORM
type GormUKMRepository struct {
	gormTenantStore[business.UKM]
}

// NewGormUKMRepository creates a new GormUKMRepository
func NewGormUKMRepository(db *gorm.DB) *GormUKMRepository {
	return &GormUKMRepository{newTenantStore[business.UKM](db, listSpec{
		searchColumns: []string{"nama_usaha", "pemilik", "jenis_usaha", "produk_utama"},
		sortFields:    sortFields("nama_usaha", "pemilik", "skala", "omzet_bulanan", "status"),
		filterColumns: columns("status", "skala", "category_id", "nik_pemilik"),
		defaultOrder:  "nama_usaha ASC",
	})}
}

// CountByStatus counts small businesses per status
func (r *GormUKMRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[business.Status]int64, error) {
	return statusCounts(r.scoped(ctx, tenantID))
}

// GormAsetRepository implements business.AsetRepository using GORM
type GormAsetRepository struct {
	gormTenantStore[business.Aset]
}

// NewGormAsetRepository creates a new GormAsetRepository
func NewGormAsetRepository(db *gorm.DB) *GormAsetRepository {
	return &GormAsetRepository{newTenantStore[business.Aset](db, listSpec{
		searchColumns: []string{"kode_aset", "nama_aset", "lokasi", "penanggung_jawab"},
		sortFields:    sortFields("kode_aset", "nama_aset", "nilai_perolehan", "tanggal_perolehan", "kondisi"),
		filterColumns: columns("kategori", "kondisi", "tanggal_perolehan"),
		defaultOrder:  "kode_aset ASC",
	})}
}

// ExistsByKode checks whether another asset uses the code
func (r *GormAsetRepository) ExistsByKode(ctx context.Context, tenantID uuid.UUID, kode string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, tenantID, "kode_aset = ? AND id <> ?", kode, excludeID)
}

// ListAll returns every asset of the tenant for book value reporting
func (r *GormAsetRepository) ListAll(ctx context.Context, tenantID uuid.UUID) ([]business.Aset, error) {
	var out []business.Aset
	err := r.scoped(ctx, tenantID).Order("kode_aset ASC").Find(&out).Error
	return out, err
}

// GormLayananJasaRepository implements business.LayananJasaRepository using GORM
type GormLayananJasaRepository struct {
	gormTenantStore[business.LayananJasa]
}

// NewGormLayananJasaRepository creates a new GormLayananJasaRepository
func NewGormLayananJasaRepository(db *gorm.DB) *GormLayananJasaRepository {
	return &GormLayananJasaRepository{newTenantStore[business.LayananJasa](db, listSpec{
		searchColumns: []string{"nama", "kategori", "penyedia", "area"},
		sortFields:    sortFields("nama", "harga_min", "rating", "status"),
		filterColumns: columns("status", "kategori"),
		defaultOrder:  "nama ASC",
	})}
}

// CountByStatus counts service listings per status
func (r *GormLayananJasaRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[business.Status]int64, error) {
	return statusCounts(r.scoped(ctx, tenantID))
}

var (
	_ business.CategoryRepository    = (*GormBusinessCategoryRepository)(nil)
	_ business.KoperasiRepository    = (*GormKoperasiRepository)(nil)
	_ business.BUMGRepository        = (*GormBUMGRepository)(nil)
	_ business.UKMRepository         = (*GormUKMRepository)(nil)
	_ business.AsetRepository        = (*GormAsetRepository)(nil)
	_ business.LayananJasaRepository = (*GormLayananJasaRepository)(nil)
)
