package business

import (
	"time"

	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AssetCategory is the accounting class of a village asset
type AssetCategory string

const (
	AssetLand      AssetCategory = "tanah"
	AssetBuilding  AssetCategory = "bangunan"
	AssetVehicle   AssetCategory = "kendaraan"
	AssetEquipment AssetCategory = "peralatan"
	AssetInventory AssetCategory = "inventaris"
	AssetOther     AssetCategory = "lainnya"
)

// Condition is the physical state of an asset
type Condition string

const (
	ConditionGood        Condition = "baik"
	ConditionMinorDamage Condition = "rusak_ringan"
	ConditionMajorDamage Condition = "rusak_berat"
	ConditionLost        Condition = "hilang"
)

// Aset is a village-owned asset depreciated on a straight line
type Aset struct {
	shared.TenantAggregateRoot
	KodeAset         string          `gorm:"type:varchar(50);not null"`
	NamaAset         string          `gorm:"type:varchar(200);not null"`
	Kategori         AssetCategory   `gorm:"type:varchar(20);not null"`
	Deskripsi        string          `gorm:"type:text"`
	Lokasi           string          `gorm:"type:varchar(200)"`
	NilaiPerolehan   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	TanggalPerolehan time.Time       `gorm:"type:date;not null"`
	Kondisi          Condition       `gorm:"type:varchar(20);not null;default:'baik'"`
	MasaManfaat      int             `gorm:"not null;default:0"`
	PenanggungJawab  string          `gorm:"type:varchar(100)"`
	NomorSertifikat  string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (Aset) TableName() string {
	return "aset"
}

// Validate checks the asset's invariants. Land is not depreciated so needs no useful life.
func (a *Aset) Validate() error {
	var err error
	if a.KodeAset, err = requireText("kode_aset", a.KodeAset, 50); err != nil {
		return err
	}
	if a.NamaAset, err = requireText("nama_aset", a.NamaAset, 200); err != nil {
		return err
	}
	switch a.Kategori {
	case AssetLand, AssetBuilding, AssetVehicle, AssetEquipment, AssetInventory, AssetOther:
	default:
		return shared.NewDomainError("INVALID_CATEGORY", "Unknown asset category")
	}
	if a.Kondisi == "" {
		a.Kondisi = ConditionGood
	}
	switch a.Kondisi {
	case ConditionGood, ConditionMinorDamage, ConditionMajorDamage, ConditionLost:
	default:
		return shared.NewDomainError("INVALID_CONDITION", "Unknown asset condition")
	}
	if err = nonNegative("Acquisition value", a.NilaiPerolehan); err != nil {
		return err
	}
	if a.Kategori != AssetLand && a.MasaManfaat < 1 {
		return shared.NewDomainError("INVALID_USEFUL_LIFE", "Useful life must be at least one year")
	}
	if a.MasaManfaat < 0 {
		return shared.NewDomainError("INVALID_USEFUL_LIFE", "Useful life cannot be negative")
	}
	return nil
}

// AnnualDepreciation returns the straight-line depreciation per year. Land does not depreciate.
func (a *Aset) AnnualDepreciation() decimal.Decimal {
	if a.Kategori == AssetLand || a.MasaManfaat <= 0 {
		return decimal.Zero
	}
	return a.NilaiPerolehan.Div(decimal.NewFromInt(int64(a.MasaManfaat))).Round(2)
}

// BookValue returns the value at a date after subtracting depreciation for full
// years elapsed. Accumulated depreciation is rounded once, so the value reaches
// exactly zero at the end of the useful life.
func (a *Aset) BookValue(at time.Time) decimal.Decimal {
	years := fullYearsBetween(a.TanggalPerolehan, at)
	if years <= 0 || a.Kategori == AssetLand || a.MasaManfaat <= 0 {
		return a.NilaiPerolehan
	}
	if years >= a.MasaManfaat {
		return decimal.Zero
	}
	accumulated := a.NilaiPerolehan.Mul(decimal.NewFromInt(int64(years))).
		Div(decimal.NewFromInt(int64(a.MasaManfaat))).
		Round(2)
	return a.NilaiPerolehan.Sub(accumulated)
}

func fullYearsBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	years := to.Year() - from.Year()
	if to.Month() < from.Month() || (to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}
	return years
}
