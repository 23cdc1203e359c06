package business

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/business"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory tenant store keyed by ID
type memStore[T any] struct {
	rows  map[uuid.UUID]T
	ident func(*T) (tenantID, id uuid.UUID)
}

func newMemStore[T any](ident func(*T) (uuid.UUID, uuid.UUID)) *memStore[T] {
	return &memStore[T]{rows: map[uuid.UUID]T{}, ident: ident}
}

func (m *memStore[T]) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*T, error) {
	row, ok := m.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if t, _ := m.ident(&row); t != tenantID {
		return nil, shared.ErrNotFound
	}
	return &row, nil
}

func (m *memStore[T]) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]T, error) {
	var out []T
	for _, row := range m.rows {
		if t, _ := m.ident(&row); t == tenantID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *memStore[T]) CountForTenant(ctx context.Context, tenantID uuid.UUID, f shared.Filter) (int64, error) {
	rows, _ := m.FindAllForTenant(ctx, tenantID, f)
	return int64(len(rows)), nil
}

func (m *memStore[T]) Save(_ context.Context, e *T) error {
	_, id := m.ident(e)
	m.rows[id] = *e
	return nil
}

func (m *memStore[T]) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := m.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	delete(m.rows, id)
	return nil
}

// exists reports whether another row of the tenant matches
func (m *memStore[T]) exists(tenantID, excludeID uuid.UUID, match func(*T) bool) bool {
	for _, row := range m.rows {
		t, id := m.ident(&row)
		if t == tenantID && id != excludeID && match(&row) {
			return true
		}
	}
	return false
}

func countStatus[T any](m *memStore[T], tenantID uuid.UUID, status func(*T) business.Status) map[business.Status]int64 {
	out := map[business.Status]int64{}
	for _, row := range m.rows {
		if t, _ := m.ident(&row); t == tenantID {
			out[status(&row)]++
		}
	}
	return out
}

type memCategories struct{ *memStore[business.Category] }

func (m memCategories) ExistsByName(_ context.Context, tenantID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	return m.exists(tenantID, excludeID, func(c *business.Category) bool { return c.Name == name }), nil
}

type memKoperasi struct{ *memStore[business.Koperasi] }

func (m memKoperasi) CountByStatus(_ context.Context, tenantID uuid.UUID) (map[business.Status]int64, error) {
	return countStatus(m.memStore, tenantID, func(k *business.Koperasi) business.Status { return k.Status }), nil
}

func (m memKoperasi) ExistsByBadanHukum(_ context.Context, tenantID uuid.UUID, nomor string, excludeID uuid.UUID) (bool, error) {
	return m.exists(tenantID, excludeID, func(k *business.Koperasi) bool { return k.NomorBadanHukum == nomor }), nil
}

type memBUMG struct{ *memStore[business.BUMG] }

func (m memBUMG) CountByStatus(_ context.Context, tenantID uuid.UUID) (map[business.Status]int64, error) {
	return countStatus(m.memStore, tenantID, func(b *business.BUMG) business.Status { return b.Status }), nil
}

func (m memBUMG) ExistsByNomorSK(_ context.Context, tenantID uuid.UUID, nomor string, excludeID uuid.UUID) (bool, error) {
	return m.exists(tenantID, excludeID, func(b *business.BUMG) bool { return b.NomorSK == nomor }), nil
}

type memUKM struct{ *memStore[business.UKM] }

func (m memUKM) CountByStatus(_ context.Context, tenantID uuid.UUID) (map[business.Status]int64, error) {
	return countStatus(m.memStore, tenantID, func(u *business.UKM) business.Status { return u.Status }), nil
}

type memAset struct{ *memStore[business.Aset] }

func (m memAset) ExistsByKode(_ context.Context, tenantID uuid.UUID, kode string, excludeID uuid.UUID) (bool, error) {
	return m.exists(tenantID, excludeID, func(a *business.Aset) bool { return a.KodeAset == kode }), nil
}

func (m memAset) ListAll(ctx context.Context, tenantID uuid.UUID) ([]business.Aset, error) {
	return m.FindAllForTenant(ctx, tenantID, shared.Filter{})
}

type memJasa struct {
	*memStore[business.LayananJasa]
}

func (m memJasa) CountByStatus(_ context.Context, tenantID uuid.UUID) (map[business.Status]int64, error) {
	return countStatus(m.memStore, tenantID, func(l *business.LayananJasa) business.Status { return l.Status }), nil
}

func newTestService() *Service {
	svc := NewService(Repositories{
		Categories:  memCategories{newMemStore(func(c *business.Category) (uuid.UUID, uuid.UUID) { return c.TenantID, c.ID })},
		Koperasi:    memKoperasi{newMemStore(func(k *business.Koperasi) (uuid.UUID, uuid.UUID) { return k.TenantID, k.ID })},
		BUMG:        memBUMG{newMemStore(func(b *business.BUMG) (uuid.UUID, uuid.UUID) { return b.TenantID, b.ID })},
		UKM:         memUKM{newMemStore(func(u *business.UKM) (uuid.UUID, uuid.UUID) { return u.TenantID, u.ID })},
		Aset:        memAset{newMemStore(func(a *business.Aset) (uuid.UUID, uuid.UUID) { return a.TenantID, a.ID })},
		LayananJasa: memJasa{newMemStore(func(l *business.LayananJasa) (uuid.UUID, uuid.UUID) { return l.TenantID, l.ID })},
	}, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC) }
	return svc
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, code, de.Code)
}

func TestKoperasiRegistry(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc := newTestService()

	req := KoperasiRequest{
		Nama:            "Koperasi Tani Makmur",
		NomorBadanHukum: "BH-123/2020",
		TanggalBerdiri:  time.Date(2020, 1, 10, 0, 0, 0, 0, time.UTC),
		JumlahAnggota:   40,
		ModalAwal:       decimal.NewFromInt(50_000_000),
	}
	created, err := svc.Koperasi.Create(ctx, tenantID, req)
	require.NoError(t, err)
	assert.Equal(t, "aktif", created.Status)
	assert.NotEqual(t, uuid.Nil, created.ID)

	_, err = svc.Koperasi.Create(ctx, tenantID, req)
	assertCode(t, err, "ALREADY_EXISTS")

	// the same number in another village is fine
	_, err = svc.Koperasi.Create(ctx, uuid.New(), req)
	require.NoError(t, err)

	req.Status = "pending"
	updated, err := svc.Koperasi.Update(ctx, tenantID, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "pending", updated.Status)

	missing := uuid.New()
	req.CategoryID = &missing
	_, err = svc.Koperasi.Update(ctx, tenantID, created.ID, req)
	assertCode(t, err, "INVALID_CATEGORY")

	list, total, err := svc.Koperasi.List(ctx, tenantID, shared.Filter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.EqualValues(t, 1, total)

	require.NoError(t, svc.Koperasi.Delete(ctx, tenantID, created.ID))
	_, err = svc.Koperasi.Get(ctx, tenantID, created.ID)
	assertCode(t, err, "NOT_FOUND")
}

func TestBUMGRegistry_PaidInCapital(t *testing.T) {
	svc := newTestService()
	_, err := svc.BUMG.Create(context.Background(), uuid.New(), BUMGRequest{
		Nama:         "BUMDes Sejahtera",
		NomorSK:      "SK-01/2021",
		TanggalSK:    time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC),
		ModalDasar:   decimal.NewFromInt(100),
		ModalDisetor: decimal.NewFromInt(150),
	})
	assertCode(t, err, "INVALID_CAPITAL")
}

func TestUKMRegistry_ValidatesOwnerNIK(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	tenantID := uuid.New()

	_, err := svc.UKM.Create(ctx, tenantID, UKMRequest{NamaUsaha: "Keripik", Pemilik: "Budi", NIKPemilik: "123"})
	assertCode(t, err, "INVALID_NIK")

	u, err := svc.UKM.Create(ctx, tenantID, UKMRequest{NamaUsaha: "Keripik", Pemilik: "Budi", NIKPemilik: "3201010101010001"})
	require.NoError(t, err)
	assert.Equal(t, "mikro", u.Skala)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc := newTestService()

	_, err := svc.Koperasi.Create(ctx, tenantID, KoperasiRequest{Nama: "A", NomorBadanHukum: "1", TanggalBerdiri: time.Now()})
	require.NoError(t, err)
	_, err = svc.Koperasi.Create(ctx, tenantID, KoperasiRequest{Nama: "B", NomorBadanHukum: "2", TanggalBerdiri: time.Now(), Status: "tidak_aktif"})
	require.NoError(t, err)

	land, err := svc.Aset.Create(ctx, tenantID, AsetRequest{
		KodeAset: "TNH-01", NamaAset: "Tanah Kas Desa", Kategori: "tanah",
		NilaiPerolehan: decimal.NewFromInt(200_000_000), TanggalPerolehan: time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, land.PenyusutanPerTahun.IsZero())

	car, err := svc.Aset.Create(ctx, tenantID, AsetRequest{
		KodeAset: "KND-01", NamaAset: "Ambulans", Kategori: "kendaraan", MasaManfaat: 8,
		NilaiPerolehan: decimal.NewFromInt(100_000_000), TanggalPerolehan: time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	// five full years by 2026-03-14
	assert.True(t, car.NilaiBuku.Equal(decimal.NewFromInt(37_500_000)), car.NilaiBuku.String())

	_, err = svc.Aset.Create(ctx, tenantID, AsetRequest{
		KodeAset: "KND-01", NamaAset: "Motor", Kategori: "kendaraan", MasaManfaat: 4,
		TanggalPerolehan: time.Now(),
	})
	assertCode(t, err, "ALREADY_EXISTS")

	sum, err := svc.Summary(ctx, tenantID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, sum.Koperasi["aktif"])
	assert.EqualValues(t, 1, sum.Koperasi["tidak_aktif"])
	assert.EqualValues(t, 2, sum.AsetCount)
	assert.True(t, sum.AsetBookValue.Equal(decimal.NewFromInt(237_500_000)), sum.AsetBookValue.String())

	totals, err := svc.Totals(ctx, tenantID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, totals["koperasi"])
	assert.EqualValues(t, 2, totals["aset"])
	assert.EqualValues(t, 0, totals["bumg"])
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc := newTestService()

	c, err := svc.CreateCategory(ctx, tenantID, CategoryRequest{Name: "Kuliner"})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, tenantID, CategoryRequest{Name: "Kuliner"})
	assertCode(t, err, "ALREADY_EXISTS")

	u, err := svc.UKM.Create(ctx, tenantID, UKMRequest{
		NamaUsaha: "Warung", Pemilik: "Sari", NIKPemilik: "3201010101010002", CategoryID: &c.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, &c.ID, u.CategoryID)
}
