package reference

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Dusun is a hamlet, the top-level administrative subdivision of a village
type Dusun struct {
	shared.TenantAggregateRoot
	Code            string          `gorm:"type:varchar(20);not null"`
	Name            string          `gorm:"type:varchar(100);not null"`
	Description     string          `gorm:"type:text"`
	AreaSize        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PopulationCount int             `gorm:"not null;default:0"`
	IsActive        bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Dusun) TableName() string {
	return "dusun"
}

// NewDusun creates a new active dusun
func NewDusun(tenantID uuid.UUID, code, name string) (*Dusun, error) {
	d := &Dusun{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		IsActive:            true,
	}
	if err := d.Update(code, name, "", decimal.Zero); err != nil {
		return nil, err
	}
	return d, nil
}

// Update replaces the editable fields
func (d *Dusun) Update(code, name, description string, areaSize decimal.Decimal) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	name = strings.TrimSpace(name)
	if code == "" || len(code) > 20 {
		return shared.NewDomainError("INVALID_CODE", "Dusun code must be 1 to 20 characters")
	}
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Dusun name must be 1 to 100 characters")
	}
	if areaSize.IsNegative() {
		return shared.NewDomainError("INVALID_AREA", "Area size cannot be negative")
	}
	d.Code = code
	d.Name = name
	d.Description = description
	d.AreaSize = areaSize
	d.Touch()
	d.IncrementVersion()
	return nil
}

// SetActive toggles whether the dusun is in use
func (d *Dusun) SetActive(active bool) {
	d.IsActive = active
	d.Touch()
}

// Lorong is an alley or neighbourhood inside a dusun
type Lorong struct {
	shared.TenantAggregateRoot
	DusunID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_lorong_dusun_code,priority:1"`
	Code       string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_lorong_dusun_code,priority:2"`
	Name       string          `gorm:"type:varchar(100);not null"`
	Length     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	HouseCount int             `gorm:"not null;default:0"`
	IsActive   bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Lorong) TableName() string {
	return "lorong"
}

// NewLorong creates a new lorong inside the given dusun
func NewLorong(tenantID, dusunID uuid.UUID, code, name string) (*Lorong, error) {
	if dusunID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DUSUN", "Dusun is required")
	}
	l := &Lorong{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DusunID:             dusunID,
		IsActive:            true,
	}
	if err := l.Update(code, name, decimal.Zero, 0); err != nil {
		return nil, err
	}
	return l, nil
}

// Update replaces the editable fields
func (l *Lorong) Update(code, name string, length decimal.Decimal, houseCount int) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	name = strings.TrimSpace(name)
	if code == "" || len(code) > 20 {
		return shared.NewDomainError("INVALID_CODE", "Lorong code must be 1 to 20 characters")
	}
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Lorong name must be 1 to 100 characters")
	}
	if length.IsNegative() || houseCount < 0 {
		return shared.NewDomainError("INVALID_INPUT", "Length and house count cannot be negative")
	}
	l.Code = code
	l.Name = name
	l.Length = length
	l.HouseCount = houseCount
	l.Touch()
	l.IncrementVersion()
	return nil
}
