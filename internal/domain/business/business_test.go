package business

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAset_Depreciation(t *testing.T) {
	acquired := time.Date(2020, time.June, 15, 0, 0, 0, 0, time.UTC)
	a := &Aset{
		KodeAset:         "KND-01",
		NamaAset:         "Ambulans Desa",
		Kategori:         AssetVehicle,
		NilaiPerolehan:   decimal.NewFromInt(100_000_000),
		TanggalPerolehan: acquired,
		MasaManfaat:      8,
	}
	require.NoError(t, a.Validate())
	assert.True(t, a.AnnualDepreciation().Equal(decimal.NewFromInt(12_500_000)))

	t.Run("no full year yet", func(t *testing.T) {
		v := a.BookValue(time.Date(2021, time.June, 14, 0, 0, 0, 0, time.UTC))
		assert.True(t, v.Equal(decimal.NewFromInt(100_000_000)))
	})

	t.Run("after three full years", func(t *testing.T) {
		v := a.BookValue(time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC))
		assert.True(t, v.Equal(decimal.NewFromInt(62_500_000)), v.String())
	})

	t.Run("never below zero", func(t *testing.T) {
		v := a.BookValue(time.Date(2040, time.January, 1, 0, 0, 0, 0, time.UTC))
		assert.True(t, v.IsZero())
	})

	t.Run("uneven split leaves no residual", func(t *testing.T) {
		b := &Aset{
			KodeAset:         "PRL-01",
			NamaAset:         "Pengeras Suara",
			Kategori:         AssetEquipment,
			NilaiPerolehan:   decimal.NewFromInt(100),
			TanggalPerolehan: acquired,
			MasaManfaat:      3,
		}
		require.NoError(t, b.Validate())
		cases := []struct {
			at   time.Time
			want string
		}{
			{time.Date(2021, time.June, 15, 0, 0, 0, 0, time.UTC), "66.67"},
			{time.Date(2022, time.June, 15, 0, 0, 0, 0, time.UTC), "33.33"},
			{time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC), "0"},
		}
		for _, tc := range cases {
			v := b.BookValue(tc.at)
			assert.True(t, v.Equal(decimal.RequireFromString(tc.want)), "%s: got %s", tc.at.Format("2006"), v.String())
		}
	})

	t.Run("land keeps its value", func(t *testing.T) {
		land := &Aset{
			KodeAset:         "TNH-01",
			NamaAset:         "Tanah Kantor Desa",
			Kategori:         AssetLand,
			NilaiPerolehan:   decimal.NewFromInt(500_000_000),
			TanggalPerolehan: acquired,
		}
		require.NoError(t, land.Validate())
		assert.True(t, land.AnnualDepreciation().IsZero())
		assert.True(t, land.BookValue(time.Now()).Equal(land.NilaiPerolehan))
	})

	t.Run("non-land requires useful life", func(t *testing.T) {
		b := *a
		b.MasaManfaat = 0
		assert.Error(t, b.Validate())
	})
}

func TestBUMG_Validate(t *testing.T) {
	b := &BUMG{
		Nama:         "BUMG Pulo Makmur",
		NomorSK:      "SK/01/2022",
		ModalDasar:   decimal.NewFromInt(100),
		ModalDisetor: decimal.NewFromInt(150),
	}
	err := b.Validate()
	require.Error(t, err)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_CAPITAL", de.Code)

	b.ModalDisetor = decimal.NewFromInt(100)
	require.NoError(t, b.Validate())
	assert.Equal(t, StatusActive, b.Status)
}

func TestUKM_Validate(t *testing.T) {
	u := &UKM{NamaUsaha: "Kerupuk Ikan", Pemilik: "Nurhayati", NIKPemilik: "123"}
	assert.Error(t, u.Validate())

	u.NIKPemilik = "1101010101010001"
	require.NoError(t, u.Validate())
	assert.Equal(t, ScaleMicro, u.Skala)

	u.Skala = Scale("raksasa")
	assert.Error(t, u.Validate())
}

func TestLayananJasa_Validate(t *testing.T) {
	l := &LayananJasa{
		Nama:     "Tukang Kayu",
		Penyedia: "Pak Hasan",
		HargaMin: decimal.NewFromInt(200),
		HargaMax: decimal.NewFromInt(100),
	}
	assert.Error(t, l.Validate())

	l.HargaMax = decimal.NewFromInt(300)
	require.NoError(t, l.Validate())
	assert.Equal(t, PerProject, l.SatuanHarga)

	l.Rating = decimal.NewFromFloat(5.5)
	assert.Error(t, l.Validate())
}

func TestKoperasi_Validate(t *testing.T) {
	k := &Koperasi{Nama: "KUD Sejahtera"}
	assert.Error(t, k.Validate())

	k.NomorBadanHukum = "BH/123"
	k.Status = StatusPending
	require.NoError(t, k.Validate())

	k.Status = Status("bubar")
	assert.Error(t, k.Validate())
}

func TestNewCategory(t *testing.T) {
	c, err := NewCategory(uuid.New(), "  Kuliner ", "")
	require.NoError(t, err)
	assert.Equal(t, "Kuliner", c.Name)

	_, err = NewCategory(uuid.New(), "", "")
	assert.Error(t, err)
}
