package business

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status is the operating state shared by the registries
type Status string

const (
	StatusActive   Status = "aktif"
	StatusInactive Status = "tidak_aktif"
	StatusPending  Status = "pending"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive || s == StatusPending
}

func normalizeStatus(s Status) (Status, error) {
	if s == "" {
		return StatusActive, nil
	}
	if !s.IsValid() {
		return "", shared.NewDomainError("INVALID_STATUS", "Status must be aktif, tidak_aktif or pending")
	}
	return s, nil
}

func requireText(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" || len(value) > max {
		return "", shared.NewDomainError("INVALID_"+strings.ToUpper(field), strings.ReplaceAll(field, "_", " ")+" is required")
	}
	return value, nil
}

func nonNegative(field string, values ...decimal.Decimal) error {
	for _, v := range values {
		if v.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", field+" cannot be negative")
		}
	}
	return nil
}

// Category classifies businesses across registries
type Category struct {
	shared.TenantAggregateRoot
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
	IsActive    bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "business_categories"
}

// NewCategory creates an active business category
func NewCategory(tenantID uuid.UUID, name, description string) (*Category, error) {
	c := &Category{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID), IsActive: true}
	if err := c.Update(name, description); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the editable fields
func (c *Category) Update(name, description string) error {
	n, err := requireText("name", name, 100)
	if err != nil {
		return err
	}
	c.Name = n
	c.Description = description
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Koperasi is a village cooperative
type Koperasi struct {
	shared.TenantAggregateRoot
	Nama            string          `gorm:"type:varchar(200);not null"`
	NomorBadanHukum string          `gorm:"type:varchar(100);not null"`
	TanggalBerdiri  time.Time       `gorm:"type:date;not null"`
	Alamat          string          `gorm:"type:text"`
	Ketua           string          `gorm:"type:varchar(100)"`
	Sekretaris      string          `gorm:"type:varchar(100)"`
	Bendahara       string          `gorm:"type:varchar(100)"`
	JumlahAnggota   int             `gorm:"not null;default:0"`
	ModalAwal       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	ModalSekarang   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	JenisUsaha      string          `gorm:"type:varchar(100)"`
	Telepon         string          `gorm:"type:varchar(20)"`
	Email           string          `gorm:"type:varchar(200)"`
	Status          Status          `gorm:"type:varchar(20);not null;default:'aktif';index"`
	Keterangan      string          `gorm:"type:text"`
	CategoryID      *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Koperasi) TableName() string {
	return "koperasi"
}

// Validate checks the cooperative's invariants and normalizes its fields
func (k *Koperasi) Validate() error {
	var err error
	if k.Nama, err = requireText("nama", k.Nama, 200); err != nil {
		return err
	}
	if k.NomorBadanHukum, err = requireText("nomor_badan_hukum", k.NomorBadanHukum, 100); err != nil {
		return err
	}
	if k.JumlahAnggota < 0 {
		return shared.NewDomainError("INVALID_MEMBERS", "Member count cannot be negative")
	}
	if err = nonNegative("Capital", k.ModalAwal, k.ModalSekarang); err != nil {
		return err
	}
	k.Status, err = normalizeStatus(k.Status)
	return err
}

// BUMG is a village-owned enterprise
type BUMG struct {
	shared.TenantAggregateRoot
	Nama         string          `gorm:"type:varchar(200);not null"`
	NomorSK      string          `gorm:"column:nomor_sk;type:varchar(100);not null"`
	TanggalSK    time.Time       `gorm:"column:tanggal_sk;type:date;not null"`
	Alamat       string          `gorm:"type:text"`
	Direktur     string          `gorm:"type:varchar(100)"`
	Komisaris    string          `gorm:"type:varchar(100)"`
	ModalDasar   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	ModalDisetor decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	BidangUsaha  string          `gorm:"type:varchar(200)"`
	Telepon      string          `gorm:"type:varchar(20)"`
	Email        string          `gorm:"type:varchar(200)"`
	Status       Status          `gorm:"type:varchar(20);not null;default:'aktif';index"`
}

// TableName returns the table name for GORM
func (BUMG) TableName() string {
	return "bumg"
}

// Validate checks the enterprise's invariants; paid-in capital cannot exceed authorized capital
func (b *BUMG) Validate() error {
	var err error
	if b.Nama, err = requireText("nama", b.Nama, 200); err != nil {
		return err
	}
	if b.NomorSK, err = requireText("nomor_sk", b.NomorSK, 100); err != nil {
		return err
	}
	if err = nonNegative("Capital", b.ModalDasar, b.ModalDisetor); err != nil {
		return err
	}
	if b.ModalDisetor.GreaterThan(b.ModalDasar) {
		return shared.NewDomainError("INVALID_CAPITAL", "Paid-in capital cannot exceed authorized capital")
	}
	b.Status, err = normalizeStatus(b.Status)
	return err
}

// Scale is the size class of a small business
type Scale string

const (
	ScaleMicro  Scale = "mikro"
	ScaleSmall  Scale = "kecil"
	ScaleMedium Scale = "menengah"
)

var nikPattern = regexp.MustCompile(`^[0-9]{16}$`)

// UKM is a registered small or medium business
type UKM struct {
	shared.TenantAggregateRoot
	NamaUsaha      string          `gorm:"type:varchar(200);not null"`
	Pemilik        string          `gorm:"type:varchar(100);not null"`
	NIKPemilik     string          `gorm:"column:nik_pemilik;type:varchar(16);not null"`
	AlamatUsaha    string          `gorm:"type:text"`
	JenisUsaha     string          `gorm:"type:varchar(100)"`
	Skala          Scale           `gorm:"type:varchar(20);not null;default:'mikro'"`
	ModalAwal      decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	OmzetBulanan   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	JumlahKaryawan int             `gorm:"not null;default:0"`
	TanggalMulai   *time.Time      `gorm:"type:date"`
	NomorIzin      string          `gorm:"type:varchar(100)"`
	Telepon        string          `gorm:"type:varchar(20)"`
	ProdukUtama    string          `gorm:"type:text"`
	TargetPasar    string          `gorm:"type:text"`
	Status         Status          `gorm:"type:varchar(20);not null;default:'aktif';index"`
	CategoryID     *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (UKM) TableName() string {
	return "ukm"
}

// Validate checks the business's invariants
func (u *UKM) Validate() error {
	var err error
	if u.NamaUsaha, err = requireText("nama_usaha", u.NamaUsaha, 200); err != nil {
		return err
	}
	if u.Pemilik, err = requireText("pemilik", u.Pemilik, 100); err != nil {
		return err
	}
	if !nikPattern.MatchString(u.NIKPemilik) {
		return shared.NewDomainError("INVALID_NIK", "Owner NIK must be 16 digits")
	}
	if u.Skala == "" {
		u.Skala = ScaleMicro
	}
	if u.Skala != ScaleMicro && u.Skala != ScaleSmall && u.Skala != ScaleMedium {
		return shared.NewDomainError("INVALID_SCALE", "Scale must be mikro, kecil or menengah")
	}
	if u.JumlahKaryawan < 0 {
		return shared.NewDomainError("INVALID_EMPLOYEES", "Employee count cannot be negative")
	}
	if err = nonNegative("Capital and turnover", u.ModalAwal, u.OmzetBulanan); err != nil {
		return err
	}
	u.Status, err = normalizeStatus(u.Status)
	return err
}

// PriceUnit is how a service price is quoted
type PriceUnit string

const (
	PerHour    PriceUnit = "per_jam"
	PerDay     PriceUnit = "per_hari"
	PerWeek    PriceUnit = "per_minggu"
	PerMonth   PriceUnit = "per_bulan"
	PerProject PriceUnit = "per_proyek"
	PerOther   PriceUnit = "lainnya"
)

// LayananJasa is a local service provider listing
type LayananJasa struct {
	shared.TenantAggregateRoot
	Nama        string          `gorm:"type:varchar(200);not null"`
	Kategori    string          `gorm:"type:varchar(100)"`
	Deskripsi   string          `gorm:"type:text"`
	Penyedia    string          `gorm:"type:varchar(100);not null"`
	Telepon     string          `gorm:"type:varchar(20)"`
	Alamat      string          `gorm:"type:text"`
	Pengalaman  string          `gorm:"type:text"`
	HargaMin    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	HargaMax    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	SatuanHarga PriceUnit       `gorm:"type:varchar(20);not null;default:'per_proyek'"`
	Area        string          `gorm:"type:varchar(200)"`
	Status      Status          `gorm:"type:varchar(20);not null;default:'aktif';index"`
	Rating      decimal.Decimal `gorm:"type:decimal(3,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (LayananJasa) TableName() string {
	return "layanan_jasa"
}

// Validate checks the listing's invariants
func (l *LayananJasa) Validate() error {
	var err error
	if l.Nama, err = requireText("nama", l.Nama, 200); err != nil {
		return err
	}
	if l.Penyedia, err = requireText("penyedia", l.Penyedia, 100); err != nil {
		return err
	}
	if err = nonNegative("Price", l.HargaMin, l.HargaMax); err != nil {
		return err
	}
	if l.HargaMin.GreaterThan(l.HargaMax) {
		return shared.NewDomainError("INVALID_PRICE_RANGE", "Minimum price cannot exceed maximum price")
	}
	switch l.SatuanHarga {
	case "":
		l.SatuanHarga = PerProject
	case PerHour, PerDay, PerWeek, PerMonth, PerProject, PerOther:
	default:
		return shared.NewDomainError("INVALID_PRICE_UNIT", "Unknown price unit")
	}
	if l.Rating.IsNegative() || l.Rating.GreaterThan(decimal.NewFromInt(5)) {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 0 and 5")
	}
	l.Status, err = normalizeStatus(l.Status)
	return err
}
