package business

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/business"
	"github.com/shopspring/decimal"
)

// CategoryRequest creates or replaces a business category
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToCategoryResponse converts a category to its response
func ToCategoryResponse(c *business.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description, IsActive: c.IsActive, CreatedAt: c.CreatedAt}
}

// Meta carries the identity and timestamps of a registry entry
type Meta struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KoperasiRequest creates or replaces a cooperative
type KoperasiRequest struct {
	Nama            string          `json:"nama" binding:"required,max=200"`
	NomorBadanHukum string          `json:"nomor_badan_hukum" binding:"required,max=100"`
	TanggalBerdiri  time.Time       `json:"tanggal_berdiri" binding:"required"`
	Alamat          string          `json:"alamat"`
	Ketua           string          `json:"ketua" binding:"max=100"`
	Sekretaris      string          `json:"sekretaris" binding:"max=100"`
	Bendahara       string          `json:"bendahara" binding:"max=100"`
	JumlahAnggota   int             `json:"jumlah_anggota" binding:"min=0"`
	ModalAwal       decimal.Decimal `json:"modal_awal"`
	ModalSekarang   decimal.Decimal `json:"modal_sekarang"`
	JenisUsaha      string          `json:"jenis_usaha" binding:"max=100"`
	Telepon         string          `json:"telepon" binding:"max=20"`
	Email           string          `json:"email" binding:"omitempty,email"`
	Status          string          `json:"status" binding:"omitempty,oneof=aktif tidak_aktif pending"`
	Keterangan      string          `json:"keterangan"`
	CategoryID      *uuid.UUID      `json:"category_id"`
}

func (r KoperasiRequest) applyTo(k *business.Koperasi) {
	k.Nama = r.Nama
	k.NomorBadanHukum = r.NomorBadanHukum
	k.TanggalBerdiri = r.TanggalBerdiri
	k.Alamat = r.Alamat
	k.Ketua = r.Ketua
	k.Sekretaris = r.Sekretaris
	k.Bendahara = r.Bendahara
	k.JumlahAnggota = r.JumlahAnggota
	k.ModalAwal = r.ModalAwal
	k.ModalSekarang = r.ModalSekarang
	k.JenisUsaha = r.JenisUsaha
	k.Telepon = r.Telepon
	k.Email = r.Email
	k.Status = business.Status(r.Status)
	k.Keterangan = r.Keterangan
	k.CategoryID = r.CategoryID
}

// KoperasiResponse represents a cooperative in API responses
type KoperasiResponse struct {
	Meta
	KoperasiRequest
}

// ToKoperasiResponse converts a cooperative to its response
func ToKoperasiResponse(k *business.Koperasi) KoperasiResponse {
	return KoperasiResponse{
		Meta: Meta{ID: k.ID, CreatedAt: k.CreatedAt, UpdatedAt: k.UpdatedAt},
		KoperasiRequest: KoperasiRequest{
			Nama:            k.Nama,
			NomorBadanHukum: k.NomorBadanHukum,
			TanggalBerdiri:  k.TanggalBerdiri,
			Alamat:          k.Alamat,
			Ketua:           k.Ketua,
			Sekretaris:      k.Sekretaris,
			Bendahara:       k.Bendahara,
			JumlahAnggota:   k.JumlahAnggota,
			ModalAwal:       k.ModalAwal,
			ModalSekarang:   k.ModalSekarang,
			JenisUsaha:      k.JenisUsaha,
			Telepon:         k.Telepon,
			Email:           k.Email,
			Status:          string(k.Status),
			Keterangan:      k.Keterangan,
			CategoryID:      k.CategoryID,
		},
	}
}

// BUMGRequest creates or replaces a village-owned enterprise
type BUMGRequest struct {
	Nama         string          `json:"nama" binding:"required,max=200"`
	NomorSK      string          `json:"nomor_sk" binding:"required,max=100"`
	TanggalSK    time.Time       `json:"tanggal_sk" binding:"required"`
	Alamat       string          `json:"alamat"`
	Direktur     string          `json:"direktur" binding:"max=100"`
	Komisaris    string          `json:"komisaris" binding:"max=100"`
	ModalDasar   decimal.Decimal `json:"modal_dasar"`
	ModalDisetor decimal.Decimal `json:"modal_disetor"`
	BidangUsaha  string          `json:"bidang_usaha" binding:"max=200"`
	Telepon      string          `json:"telepon" binding:"max=20"`
	Email        string          `json:"email" binding:"omitempty,email"`
	Status       string          `json:"status" binding:"omitempty,oneof=aktif tidak_aktif pending"`
}

func (r BUMGRequest) applyTo(b *business.BUMG) {
	b.Nama = r.Nama
	b.NomorSK = r.NomorSK
	b.TanggalSK = r.TanggalSK
	b.Alamat = r.Alamat
	b.Direktur = r.Direktur
	b.Komisaris = r.Komisaris
	b.ModalDasar = r.ModalDasar
	b.ModalDisetor = r.ModalDisetor
	b.BidangUsaha = r.BidangUsaha
	b.Telepon = r.Telepon
	b.Email = r.Email
	b.Status = business.Status(r.Status)
}

// BUMGResponse represents a village-owned enterprise in API responses
type BUMGResponse struct {
	Meta
	BUMGRequest
}

// ToBUMGResponse converts an enterprise to its response
func ToBUMGResponse(b *business.BUMG) BUMGResponse {
	return BUMGResponse{
		Meta: Meta{ID: b.ID, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt},
		BUMGRequest: BUMGRequest{
			Nama:         b.Nama,
			NomorSK:      b.NomorSK,
			TanggalSK:    b.TanggalSK,
			Alamat:       b.Alamat,
			Direktur:     b.Direktur,
			Komisaris:    b.Komisaris,
			ModalDasar:   b.ModalDasar,
			ModalDisetor: b.ModalDisetor,
			BidangUsaha:  b.BidangUsaha,
			Telepon:      b.Telepon,
			Email:        b.Email,
			Status:       string(b.Status),
		},
	}
}

// UKMRequest creates or replaces a small business
type UKMRequest struct {
	NamaUsaha      string          `json:"nama_usaha" binding:"required,max=200"`
	Pemilik        string          `json:"pemilik" binding:"required,max=100"`
	NIKPemilik     string          `json:"nik_pemilik" binding:"required,nik"`
	AlamatUsaha    string          `json:"alamat_usaha"`
	JenisUsaha     string          `json:"jenis_usaha" binding:"max=100"`
	Skala          string          `json:"skala" binding:"omitempty,oneof=mikro kecil menengah"`
	ModalAwal      decimal.Decimal `json:"modal_awal"`
	OmzetBulanan   decimal.Decimal `json:"omzet_bulanan"`
	JumlahKaryawan int             `json:"jumlah_karyawan" binding:"min=0"`
	TanggalMulai   *time.Time      `json:"tanggal_mulai"`
	NomorIzin      string          `json:"nomor_izin" binding:"max=100"`
	Telepon        string          `json:"telepon" binding:"max=20"`
	ProdukUtama    string          `json:"produk_utama"`
	TargetPasar    string          `json:"target_pasar"`
	Status         string          `json:"status" binding:"omitempty,oneof=aktif tidak_aktif pending"`
	CategoryID     *uuid.UUID      `json:"category_id"`
}

func (r UKMRequest) applyTo(u *business.UKM) {
	u.NamaUsaha = r.NamaUsaha
	u.Pemilik = r.Pemilik
	u.NIKPemilik = r.NIKPemilik
	u.AlamatUsaha = r.AlamatUsaha
	u.JenisUsaha = r.JenisUsaha
	u.Skala = business.Scale(r.Skala)
	u.ModalAwal = r.ModalAwal
	u.OmzetBulanan = r.OmzetBulanan
	u.JumlahKaryawan = r.JumlahKaryawan
	u.TanggalMulai = r.TanggalMulai
	u.NomorIzin = r.NomorIzin
	u.Telepon = r.Telepon
	u.ProdukUtama = r.ProdukUtama
	u.TargetPasar = r.TargetPasar
	u.Status = business.Status(r.Status)
	u.CategoryID = r.CategoryID
}

// UKMResponse represents a small business in API responses
type UKMResponse struct {
	Meta
	UKMRequest
}

// ToUKMResponse converts a small business to its response
func ToUKMResponse(u *business.UKM) UKMResponse {
	return UKMResponse{
		Meta: Meta{ID: u.ID, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt},
		UKMRequest: UKMRequest{
			NamaUsaha:      u.NamaUsaha,
			Pemilik:        u.Pemilik,
			NIKPemilik:     u.NIKPemilik,
			AlamatUsaha:    u.AlamatUsaha,
			JenisUsaha:     u.JenisUsaha,
			Skala:          string(u.Skala),
			ModalAwal:      u.ModalAwal,
			OmzetBulanan:   u.OmzetBulanan,
			JumlahKaryawan: u.JumlahKaryawan,
			TanggalMulai:   u.TanggalMulai,
			NomorIzin:      u.NomorIzin,
			Telepon:        u.Telepon,
			ProdukUtama:    u.ProdukUtama,
			TargetPasar:    u.TargetPasar,
			Status:         string(u.Status),
			CategoryID:     u.CategoryID,
		},
	}
}

// AsetRequest creates or replaces an asset
type AsetRequest struct {
	KodeAset         string          `json:"kode_aset" binding:"required,max=50"`
	NamaAset         string          `json:"nama_aset" binding:"required,max=200"`
	Kategori         string          `json:"kategori" binding:"required,oneof=tanah bangunan kendaraan peralatan inventaris lainnya"`
	Deskripsi        string          `json:"deskripsi"`
	Lokasi           string          `json:"lokasi" binding:"max=200"`
	NilaiPerolehan   decimal.Decimal `json:"nilai_perolehan"`
	TanggalPerolehan time.Time       `json:"tanggal_perolehan" binding:"required"`
	Kondisi          string          `json:"kondisi" binding:"omitempty,oneof=baik rusak_ringan rusak_berat hilang"`
	MasaManfaat      int             `json:"masa_manfaat" binding:"min=0"`
	PenanggungJawab  string          `json:"penanggung_jawab" binding:"max=100"`
	NomorSertifikat  string          `json:"nomor_sertifikat" binding:"max=100"`
}

func (r AsetRequest) applyTo(a *business.Aset) {
	a.KodeAset = r.KodeAset
	a.NamaAset = r.NamaAset
	a.Kategori = business.AssetCategory(r.Kategori)
	a.Deskripsi = r.Deskripsi
	a.Lokasi = r.Lokasi
	a.NilaiPerolehan = r.NilaiPerolehan
	a.TanggalPerolehan = r.TanggalPerolehan
	a.Kondisi = business.Condition(r.Kondisi)
	a.MasaManfaat = r.MasaManfaat
	a.PenanggungJawab = r.PenanggungJawab
	a.NomorSertifikat = r.NomorSertifikat
}

// AsetResponse represents an asset with its depreciation in API responses
type AsetResponse struct {
	Meta
	AsetRequest
	PenyusutanPerTahun decimal.Decimal `json:"penyusutan_per_tahun"`
	NilaiBuku          decimal.Decimal `json:"nilai_buku"`
}

// ToAsetResponse converts an asset to its response, valued at the given date
func ToAsetResponse(a *business.Aset, at time.Time) AsetResponse {
	return AsetResponse{
		Meta: Meta{ID: a.ID, CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt},
		AsetRequest: AsetRequest{
			KodeAset:         a.KodeAset,
			NamaAset:         a.NamaAset,
			Kategori:         string(a.Kategori),
			Deskripsi:        a.Deskripsi,
			Lokasi:           a.Lokasi,
			NilaiPerolehan:   a.NilaiPerolehan,
			TanggalPerolehan: a.TanggalPerolehan,
			Kondisi:          string(a.Kondisi),
			MasaManfaat:      a.MasaManfaat,
			PenanggungJawab:  a.PenanggungJawab,
			NomorSertifikat:  a.NomorSertifikat,
		},
		PenyusutanPerTahun: a.AnnualDepreciation(),
		NilaiBuku:          a.BookValue(at),
	}
}

// LayananJasaRequest creates or replaces a service listing
type LayananJasaRequest struct {
	Nama        string          `json:"nama" binding:"required,max=200"`
	Kategori    string          `json:"kategori" binding:"max=100"`
	Deskripsi   string          `json:"deskripsi"`
	Penyedia    string          `json:"penyedia" binding:"required,max=100"`
	Telepon     string          `json:"telepon" binding:"max=20"`
	Alamat      string          `json:"alamat"`
	Pengalaman  string          `json:"pengalaman"`
	HargaMin    decimal.Decimal `json:"harga_min"`
	HargaMax    decimal.Decimal `json:"harga_max"`
	SatuanHarga string          `json:"satuan_harga" binding:"omitempty,oneof=per_jam per_hari per_minggu per_bulan per_proyek lainnya"`
	Area        string          `json:"area" binding:"max=200"`
	Status      string          `json:"status" binding:"omitempty,oneof=aktif tidak_aktif pending"`
	Rating      decimal.Decimal `json:"rating"`
}

func (r LayananJasaRequest) applyTo(l *business.LayananJasa) {
	l.Nama = r.Nama
	l.Kategori = r.Kategori
	l.Deskripsi = r.Deskripsi
	l.Penyedia = r.Penyedia
	l.Telepon = r.Telepon
	l.Alamat = r.Alamat
	l.Pengalaman = r.Pengalaman
	l.HargaMin = r.HargaMin
	l.HargaMax = r.HargaMax
	l.SatuanHarga = business.PriceUnit(r.SatuanHarga)
	l.Area = r.Area
	l.Status = business.Status(r.Status)
	l.Rating = r.Rating
}

// LayananJasaResponse represents a service listing in API responses
type LayananJasaResponse struct {
	Meta
	LayananJasaRequest
}

// ToLayananJasaResponse converts a listing to its response
func ToLayananJasaResponse(l *business.LayananJasa) LayananJasaResponse {
	return LayananJasaResponse{
		Meta: Meta{ID: l.ID, CreatedAt: l.CreatedAt, UpdatedAt: l.UpdatedAt},
		LayananJasaRequest: LayananJasaRequest{
			Nama:        l.Nama,
			Kategori:    l.Kategori,
			Deskripsi:   l.Deskripsi,
			Penyedia:    l.Penyedia,
			Telepon:     l.Telepon,
			Alamat:      l.Alamat,
			Pengalaman:  l.Pengalaman,
			HargaMin:    l.HargaMin,
			HargaMax:    l.HargaMax,
			SatuanHarga: string(l.SatuanHarga),
			Area:        l.Area,
			Status:      string(l.Status),
			Rating:      l.Rating,
		},
	}
}

// SummaryResponse aggregates the registries for the dashboard
type SummaryResponse struct {
	Koperasi      map[string]int64 `json:"koperasi"`
	BUMG          map[string]int64 `json:"bumg"`
	UKM           map[string]int64 `json:"ukm"`
	LayananJasa   map[string]int64 `json:"layanan_jasa"`
	AsetCount     int64            `json:"aset_count"`
	AsetBookValue decimal.Decimal  `json:"aset_book_value"`
}

func statusMap(m map[business.Status]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}
