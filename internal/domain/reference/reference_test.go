package reference

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDusun(t *testing.T) {
	d, err := NewDusun(uuid.New(), " d01 ", "Dusun Mawar")
	require.NoError(t, err)
	assert.Equal(t, "D01", d.Code)
	assert.True(t, d.IsActive)

	_, err = NewDusun(uuid.New(), "", "Dusun Mawar")
	assert.Error(t, err)

	err = d.Update("D01", "Dusun Mawar", "", decimal.NewFromInt(-1))
	assert.Error(t, err)
}

func TestNewPenduduk(t *testing.T) {
	tenantID, dusunID := uuid.New(), uuid.New()

	t.Run("valid resident", func(t *testing.T) {
		p, err := NewPenduduk(tenantID, "1101010101010001", "Siti Aminah", GenderFemale, dusunID)
		require.NoError(t, err)
		assert.Equal(t, MaritalSingle, p.MaritalStatus)
		assert.True(t, p.IsActive)
	})

	t.Run("NIK must be 16 digits", func(t *testing.T) {
		for _, nik := range []string{"", "123", "110101010101000A", "11010101010100011"} {
			_, err := NewPenduduk(tenantID, nik, "Siti", GenderFemale, dusunID)
			assert.Error(t, err, nik)
		}
	})

	t.Run("gender must be L or P", func(t *testing.T) {
		_, err := NewPenduduk(tenantID, "1101010101010001", "Siti", Gender("X"), dusunID)
		assert.Error(t, err)
	})
}

func TestPenduduk_PlaceIn(t *testing.T) {
	tenantID := uuid.New()
	dusunA, dusunB := uuid.New(), uuid.New()
	p, err := NewPenduduk(tenantID, "1101010101010001", "Budi", GenderMale, dusunA)
	require.NoError(t, err)

	lorong, err := NewLorong(tenantID, dusunB, "L1", "Lorong Satu")
	require.NoError(t, err)

	err = p.PlaceIn(dusunA, lorong)
	assert.Error(t, err)

	require.NoError(t, p.PlaceIn(dusunB, lorong))
	require.NotNil(t, p.LorongID)
	assert.Equal(t, lorong.ID, *p.LorongID)
}

func TestPenduduk_AgeAt(t *testing.T) {
	birth := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
	p := &Penduduk{BirthDate: &birth}
	assert.Equal(t, 33, p.AgeAt(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 34, p.AgeAt(time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -1, (&Penduduk{}).AgeAt(time.Now()))
}

func TestMaskName(t *testing.T) {
	assert.Equal(t, "S*** A*****", MaskName("Siti Aminah"))
	assert.Equal(t, "A", MaskName("A"))
}
