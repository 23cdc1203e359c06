package reference

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/reference"
	"github.com/shopspring/decimal"
)

// DusunRequest creates or replaces a dusun
type DusunRequest struct {
	Code        string          `json:"code" binding:"required,max=20"`
	Name        string          `json:"name" binding:"required,max=100"`
	Description string          `json:"description"`
	AreaSize    decimal.Decimal `json:"area_size"`
	IsActive    *bool           `json:"is_active"`
}

// DusunResponse represents a dusun in API responses
type DusunResponse struct {
	ID              uuid.UUID       `json:"id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	AreaSize        decimal.Decimal `json:"area_size"`
	PopulationCount int             `json:"population_count"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToDusunResponse converts a dusun to its response
func ToDusunResponse(d *reference.Dusun) DusunResponse {
	return DusunResponse{
		ID:              d.ID,
		Code:            d.Code,
		Name:            d.Name,
		Description:     d.Description,
		AreaSize:        d.AreaSize,
		PopulationCount: d.PopulationCount,
		IsActive:        d.IsActive,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// LorongRequest creates or replaces a lorong
type LorongRequest struct {
	DusunID    uuid.UUID       `json:"dusun_id" binding:"required"`
	Code       string          `json:"code" binding:"required,max=20"`
	Name       string          `json:"name" binding:"required,max=100"`
	Length     decimal.Decimal `json:"length"`
	HouseCount int             `json:"house_count" binding:"min=0"`
	IsActive   *bool           `json:"is_active"`
}

// LorongResponse represents a lorong in API responses
type LorongResponse struct {
	ID         uuid.UUID       `json:"id"`
	DusunID    uuid.UUID       `json:"dusun_id"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Length     decimal.Decimal `json:"length"`
	HouseCount int             `json:"house_count"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToLorongResponse converts a lorong to its response
func ToLorongResponse(l *reference.Lorong) LorongResponse {
	return LorongResponse{
		ID:         l.ID,
		DusunID:    l.DusunID,
		Code:       l.Code,
		Name:       l.Name,
		Length:     l.Length,
		HouseCount: l.HouseCount,
		IsActive:   l.IsActive,
		CreatedAt:  l.CreatedAt,
	}
}

// PendudukRequest creates or replaces a resident
type PendudukRequest struct {
	NIK           string     `json:"nik" binding:"required,nik"`
	Name          string     `json:"name" binding:"required,max=200"`
	Gender        string     `json:"gender" binding:"required,oneof=L P"`
	BirthPlace    string     `json:"birth_place" binding:"max=100"`
	BirthDate     *time.Time `json:"birth_date"`
	Religion      string     `json:"religion" binding:"max=50"`
	Education     string     `json:"education" binding:"max=50"`
	Occupation    string     `json:"occupation" binding:"max=100"`
	MaritalStatus string     `json:"marital_status" binding:"omitempty,oneof=BELUM_KAWIN KAWIN CERAI_HIDUP CERAI_MATI"`
	DusunID       uuid.UUID  `json:"dusun_id" binding:"required"`
	LorongID      *uuid.UUID `json:"lorong_id"`
	Address       string     `json:"address"`
	IsActive      *bool      `json:"is_active"`
}

// PendudukResponse represents a resident in API responses
type PendudukResponse struct {
	ID            uuid.UUID  `json:"id"`
	NIK           string     `json:"nik"`
	Name          string     `json:"name"`
	Gender        string     `json:"gender"`
	BirthPlace    string     `json:"birth_place"`
	BirthDate     *time.Time `json:"birth_date,omitempty"`
	Age           *int       `json:"age,omitempty"`
	Religion      string     `json:"religion"`
	Education     string     `json:"education"`
	Occupation    string     `json:"occupation"`
	MaritalStatus string     `json:"marital_status"`
	DusunID       uuid.UUID  `json:"dusun_id"`
	LorongID      *uuid.UUID `json:"lorong_id,omitempty"`
	Address       string     `json:"address"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToPendudukResponse converts a resident to its response. Age is computed at now.
func ToPendudukResponse(p *reference.Penduduk, now time.Time) PendudukResponse {
	resp := PendudukResponse{
		ID:            p.ID,
		NIK:           p.NIK,
		Name:          p.Name,
		Gender:        string(p.Gender),
		BirthPlace:    p.BirthPlace,
		BirthDate:     p.BirthDate,
		Religion:      p.Religion,
		Education:     p.Education,
		Occupation:    p.Occupation,
		MaritalStatus: string(p.MaritalStatus),
		DusunID:       p.DusunID,
		LorongID:      p.LorongID,
		Address:       p.Address,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
	}
	if age := p.AgeAt(now); age >= 0 {
		resp.Age = &age
	}
	return resp
}

// PopulationStatsResponse summarizes active residents
type PopulationStatsResponse struct {
	Total           int64            `json:"total"`
	ByGender        map[string]int64 `json:"by_gender"`
	ByDusun         map[string]int64 `json:"by_dusun"`
	ByMaritalStatus map[string]int64 `json:"by_marital_status"`
	DusunCount      int64            `json:"dusun_count"`
}
