package reference

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/reference"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDusunRepository is a mock implementation of reference.DusunRepository
type MockDusunRepository struct {
	mock.Mock
}

func (m *MockDusunRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*reference.Dusun, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reference.Dusun), args.Error(1)
}

func (m *MockDusunRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]reference.Dusun, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]reference.Dusun), args.Error(1)
}

func (m *MockDusunRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDusunRepository) Save(ctx context.Context, d *reference.Dusun) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDusunRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockDusunRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, code, excludeID)
	return args.Bool(0), args.Error(1)
}

// MockLorongRepository is a mock implementation of reference.LorongRepository
type MockLorongRepository struct {
	mock.Mock
}

func (m *MockLorongRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*reference.Lorong, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reference.Lorong), args.Error(1)
}

func (m *MockLorongRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]reference.Lorong, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]reference.Lorong), args.Error(1)
}

func (m *MockLorongRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLorongRepository) Save(ctx context.Context, l *reference.Lorong) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLorongRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockLorongRepository) ExistsByCode(ctx context.Context, tenantID, dusunID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, dusunID, code, excludeID)
	return args.Bool(0), args.Error(1)
}

// MockPendudukRepository is a mock implementation of reference.PendudukRepository
type MockPendudukRepository struct {
	mock.Mock
}

func (m *MockPendudukRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*reference.Penduduk, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reference.Penduduk), args.Error(1)
}

func (m *MockPendudukRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]reference.Penduduk, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]reference.Penduduk), args.Error(1)
}

func (m *MockPendudukRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPendudukRepository) Save(ctx context.Context, p *reference.Penduduk) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPendudukRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockPendudukRepository) FindByNIK(ctx context.Context, tenantID uuid.UUID, nik string) (*reference.Penduduk, error) {
	args := m.Called(ctx, tenantID, nik)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reference.Penduduk), args.Error(1)
}

func (m *MockPendudukRepository) ExistsByNIK(ctx context.Context, tenantID uuid.UUID, nik string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, nik, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPendudukRepository) CountByDusun(ctx context.Context, tenantID, dusunID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, dusunID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPendudukRepository) Stats(ctx context.Context, tenantID uuid.UUID) (*reference.PopulationStats, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reference.PopulationStats), args.Error(1)
}

func setupService() (*Service, *MockDusunRepository, *MockLorongRepository, *MockPendudukRepository) {
	dusun := new(MockDusunRepository)
	lorong := new(MockLorongRepository)
	penduduk := new(MockPendudukRepository)
	svc := NewService(dusun, lorong, penduduk, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC) }
	return svc, dusun, lorong, penduduk
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, code, de.Code)
}

func TestService_CreateDusun(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("normalizes code", func(t *testing.T) {
		svc, dusun, _, _ := setupService()
		dusun.On("ExistsByCode", ctx, tenantID, "D01", mock.Anything).Return(false, nil)
		dusun.On("Save", ctx, mock.AnythingOfType("*reference.Dusun")).Return(nil)

		resp, err := svc.CreateDusun(ctx, tenantID, DusunRequest{Code: " d01 ", Name: "Dusun Satu", AreaSize: decimal.NewFromFloat(12.5)})
		require.NoError(t, err)
		assert.Equal(t, "D01", resp.Code)
		assert.True(t, resp.AreaSize.Equal(decimal.NewFromFloat(12.5)))
		assert.True(t, resp.IsActive)
		dusun.AssertExpectations(t)
	})

	t.Run("duplicate code", func(t *testing.T) {
		svc, dusun, _, _ := setupService()
		dusun.On("ExistsByCode", ctx, tenantID, "D01", mock.Anything).Return(true, nil)

		_, err := svc.CreateDusun(ctx, tenantID, DusunRequest{Code: "D01", Name: "Dusun Satu"})
		assertCode(t, err, "ALREADY_EXISTS")
		dusun.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("negative area", func(t *testing.T) {
		svc, _, _, _ := setupService()
		_, err := svc.CreateDusun(ctx, tenantID, DusunRequest{Code: "D01", Name: "Dusun Satu", AreaSize: decimal.NewFromInt(-1)})
		assertCode(t, err, "INVALID_AREA")
	})
}

func TestService_DeleteDusun(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	d, err := reference.NewDusun(tenantID, "D01", "Dusun Satu")
	require.NoError(t, err)

	t.Run("rejects dusun with residents", func(t *testing.T) {
		svc, dusun, _, penduduk := setupService()
		dusun.On("FindByIDForTenant", ctx, tenantID, d.ID).Return(d, nil)
		penduduk.On("CountByDusun", ctx, tenantID, d.ID).Return(int64(3), nil)

		assertCode(t, svc.DeleteDusun(ctx, tenantID, d.ID), "HAS_RESIDENTS")
		dusun.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("deletes empty dusun", func(t *testing.T) {
		svc, dusun, _, penduduk := setupService()
		dusun.On("FindByIDForTenant", ctx, tenantID, d.ID).Return(d, nil)
		penduduk.On("CountByDusun", ctx, tenantID, d.ID).Return(int64(0), nil)
		dusun.On("DeleteForTenant", ctx, tenantID, d.ID).Return(nil)

		require.NoError(t, svc.DeleteDusun(ctx, tenantID, d.ID))
		dusun.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		svc, dusun, _, _ := setupService()
		id := uuid.New()
		dusun.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, shared.ErrNotFound)
		assert.ErrorIs(t, svc.DeleteDusun(ctx, tenantID, id), errDusunNotFound)
	})
}

func TestService_CreatePenduduk(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	d1, _ := reference.NewDusun(tenantID, "D01", "Dusun Satu")
	d2, _ := reference.NewDusun(tenantID, "D02", "Dusun Dua")
	lorongInD2, _ := reference.NewLorong(tenantID, d2.ID, "L01", "Lorong Mawar")
	birth := time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC)

	req := PendudukRequest{
		NIK:           "3201010101010001",
		Name:          "Siti Aminah",
		Gender:        "P",
		BirthDate:     &birth,
		MaritalStatus: "KAWIN",
		DusunID:       d1.ID,
	}

	t.Run("registers and refreshes population", func(t *testing.T) {
		svc, dusun, _, penduduk := setupService()
		dusun.On("FindByIDForTenant", ctx, tenantID, d1.ID).Return(d1, nil)
		penduduk.On("ExistsByNIK", ctx, tenantID, req.NIK, mock.Anything).Return(false, nil)
		penduduk.On("Save", ctx, mock.AnythingOfType("*reference.Penduduk")).Return(nil)
		penduduk.On("CountByDusun", ctx, tenantID, d1.ID).Return(int64(7), nil)
		dusun.On("Save", ctx, d1).Return(nil)

		resp, err := svc.CreatePenduduk(ctx, tenantID, req)
		require.NoError(t, err)
		assert.Equal(t, "KAWIN", resp.MaritalStatus)
		require.NotNil(t, resp.Age)
		assert.Equal(t, 35, *resp.Age)
		assert.Equal(t, 7, d1.PopulationCount)
		penduduk.AssertExpectations(t)
	})

	t.Run("lorong from another dusun", func(t *testing.T) {
		svc, dusun, lorong, _ := setupService()
		dusun.On("FindByIDForTenant", ctx, tenantID, d1.ID).Return(d1, nil)
		lorong.On("FindByIDForTenant", ctx, tenantID, lorongInD2.ID).Return(lorongInD2, nil)

		bad := req
		bad.LorongID = &lorongInD2.ID
		_, err := svc.CreatePenduduk(ctx, tenantID, bad)
		assertCode(t, err, "LORONG_DUSUN_MISMATCH")
	})

	t.Run("duplicate nik", func(t *testing.T) {
		svc, dusun, _, penduduk := setupService()
		dusun.On("FindByIDForTenant", ctx, tenantID, d1.ID).Return(d1, nil)
		penduduk.On("ExistsByNIK", ctx, tenantID, req.NIK, mock.Anything).Return(true, nil)

		_, err := svc.CreatePenduduk(ctx, tenantID, req)
		assertCode(t, err, "NIK_EXISTS")
	})

	t.Run("invalid nik", func(t *testing.T) {
		svc, _, _, _ := setupService()
		bad := req
		bad.NIK = "12345"
		_, err := svc.CreatePenduduk(ctx, tenantID, bad)
		assertCode(t, err, "INVALID_NIK")
	})
}

func TestService_Stats(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, dusun, _, penduduk := setupService()
	penduduk.On("Stats", ctx, tenantID).Return(&reference.PopulationStats{
		Total:    3,
		ByGender: map[string]int64{"L": 1, "P": 2},
	}, nil)
	dusun.On("CountForTenant", ctx, tenantID, shared.Filter{}).Return(int64(2), nil)

	stats, err := svc.Stats(ctx, tenantID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Total)
	assert.EqualValues(t, 2, stats.ByGender["P"])
	assert.EqualValues(t, 2, stats.DusunCount)
}
