package reference

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
)

// Gender follows the civil registry codes
type Gender string

const (
	GenderMale   Gender = "L"
	GenderFemale Gender = "P"
)

// MaritalStatus follows the civil registry codes
type MaritalStatus string

const (
	MaritalSingle   MaritalStatus = "BELUM_KAWIN"
	MaritalMarried  MaritalStatus = "KAWIN"
	MaritalDivorced MaritalStatus = "CERAI_HIDUP"
	MaritalWidowed  MaritalStatus = "CERAI_MATI"
)

// IsValid reports whether the status is a known code
func (m MaritalStatus) IsValid() bool {
	switch m {
	case MaritalSingle, MaritalMarried, MaritalDivorced, MaritalWidowed:
		return true
	}
	return false
}

var nikPattern = regexp.MustCompile(`^[0-9]{16}$`)

// ValidNIK reports whether s is a 16-digit national identity number
func ValidNIK(s string) bool {
	return nikPattern.MatchString(s)
}

// Penduduk is a registered resident of the village
type Penduduk struct {
	shared.TenantAggregateRoot
	NIK           string        `gorm:"column:nik;type:varchar(16);not null"`
	Name          string        `gorm:"type:varchar(200);not null;index"`
	Gender        Gender        `gorm:"type:varchar(1);not null"`
	BirthPlace    string        `gorm:"type:varchar(100)"`
	BirthDate     *time.Time    `gorm:"type:date"`
	Religion      string        `gorm:"type:varchar(50)"`
	Education     string        `gorm:"type:varchar(50)"`
	Occupation    string        `gorm:"type:varchar(100)"`
	MaritalStatus MaritalStatus `gorm:"type:varchar(20);not null;default:'BELUM_KAWIN'"`
	DusunID       uuid.UUID     `gorm:"type:uuid;not null;index"`
	LorongID      *uuid.UUID    `gorm:"type:uuid;index"`
	Address       string        `gorm:"type:text"`
	IsActive      bool          `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Penduduk) TableName() string {
	return "penduduk"
}

// PendudukDetails carries the optional civil-registry fields
type PendudukDetails struct {
	BirthPlace    string
	BirthDate     *time.Time
	Religion      string
	Education     string
	Occupation    string
	MaritalStatus MaritalStatus
	Address       string
}

// NewPenduduk registers a resident in a dusun
func NewPenduduk(tenantID uuid.UUID, nik, name string, gender Gender, dusunID uuid.UUID) (*Penduduk, error) {
	p := &Penduduk{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		MaritalStatus:       MaritalSingle,
		IsActive:            true,
	}
	if err := p.SetIdentity(nik, name, gender); err != nil {
		return nil, err
	}
	if dusunID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DUSUN", "Dusun is required")
	}
	p.DusunID = dusunID
	return p, nil
}

// SetIdentity sets NIK, name and gender
func (p *Penduduk) SetIdentity(nik, name string, gender Gender) error {
	nik = strings.TrimSpace(nik)
	name = strings.TrimSpace(name)
	if !ValidNIK(nik) {
		return shared.NewDomainError("INVALID_NIK", "NIK must be exactly 16 digits")
	}
	if name == "" || len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name must be 1 to 200 characters")
	}
	if gender != GenderMale && gender != GenderFemale {
		return shared.NewDomainError("INVALID_GENDER", "Gender must be L or P")
	}
	p.NIK = nik
	p.Name = name
	p.Gender = gender
	p.Touch()
	return nil
}

// SetDetails replaces the optional fields
func (p *Penduduk) SetDetails(d PendudukDetails) error {
	if d.MaritalStatus == "" {
		d.MaritalStatus = MaritalSingle
	}
	if !d.MaritalStatus.IsValid() {
		return shared.NewDomainError("INVALID_MARITAL_STATUS", "Unknown marital status")
	}
	if d.BirthDate != nil && d.BirthDate.After(time.Now()) {
		return shared.NewDomainError("INVALID_BIRTH_DATE", "Birth date cannot be in the future")
	}
	p.BirthPlace = d.BirthPlace
	p.BirthDate = d.BirthDate
	p.Religion = d.Religion
	p.Education = d.Education
	p.Occupation = d.Occupation
	p.MaritalStatus = d.MaritalStatus
	p.Address = d.Address
	p.Touch()
	p.IncrementVersion()
	return nil
}

// PlaceIn moves the resident to a dusun and optional lorong.
// The lorong, when given, must belong to the same dusun.
func (p *Penduduk) PlaceIn(dusunID uuid.UUID, lorong *Lorong) error {
	if dusunID == uuid.Nil {
		return shared.NewDomainError("INVALID_DUSUN", "Dusun is required")
	}
	if lorong != nil && lorong.DusunID != dusunID {
		return shared.NewDomainError("LORONG_DUSUN_MISMATCH", "Lorong does not belong to the selected dusun")
	}
	p.DusunID = dusunID
	if lorong != nil {
		id := lorong.ID
		p.LorongID = &id
	} else {
		p.LorongID = nil
	}
	p.Touch()
	return nil
}

// SetActive toggles the resident's active flag
func (p *Penduduk) SetActive(active bool) {
	p.IsActive = active
	p.Touch()
}

// AgeAt returns the resident's age in whole years, or -1 when the birth date is unknown
func (p *Penduduk) AgeAt(at time.Time) int {
	if p.BirthDate == nil {
		return -1
	}
	b := *p.BirthDate
	age := at.Year() - b.Year()
	if at.YearDay() < b.YearDay() {
		age--
	}
	return age
}

// MaskedName hides all but the first letter of each word, for public pages
func (p *Penduduk) MaskedName() string {
	return MaskName(p.Name)
}

// MaskName hides all but the first letter of each word
func MaskName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		r := []rune(w)
		if len(r) <= 1 {
			continue
		}
		words[i] = string(r[0]) + strings.Repeat("*", len(r)-1)
	}
	return strings.Join(words, " ")
}
