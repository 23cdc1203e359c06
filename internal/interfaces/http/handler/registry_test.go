package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	businessapp "github.com/pulosarok/desa/internal/application/business"
	"github.com/pulosarok/desa/internal/domain/business"
	"github.com/pulosarok/desa/internal/infrastructure/persistence"
	"github.com/pulosarok/desa/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type registryTestEnv struct {
	router *gin.Engine
}

func newRegistryTestEnv(t *testing.T) *registryTestEnv {
	t.Helper()
	db := setupSQLite(t, &business.Category{}, &business.Koperasi{})
	svc := businessapp.NewService(businessapp.Repositories{
		Categories: persistence.NewGormBusinessCategoryRepository(db),
		Koperasi:   persistence.NewGormKoperasiRepository(db),
	}, zap.NewNop())

	h := NewRegistryHandler[businessapp.KoperasiRequest, businessapp.KoperasiResponse](svc.Koperasi, RegistryOptions{
		Filters:    []string{"status"},
		DateColumn: "tanggal_berdiri",
	})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h.RegisterRoutes(router.Group("/koperasi", withTenant(uuid.NewString())))
	return &registryTestEnv{router: router}
}

func (e *registryTestEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if body != nil {
		req = httptest.NewRequest(method, path, jsonBody(t, body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func koperasiRequest(nama, nomor string, berdiri time.Time) businessapp.KoperasiRequest {
	return businessapp.KoperasiRequest{
		Nama:            nama,
		NomorBadanHukum: nomor,
		TanggalBerdiri:  berdiri,
		JumlahAnggota:   40,
		ModalAwal:       decimal.NewFromInt(5_000_000),
		ModalSekarang:   decimal.NewFromInt(7_500_000),
	}
}

func TestRegistryHandler_CRUD(t *testing.T) {
	env := newRegistryTestEnv(t)

	w := env.do(t, http.MethodPost, "/koperasi", koperasiRequest("Koperasi Tani Makmur", "BH-001", time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data businessapp.KoperasiResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "aktif", created.Data.Status, "status defaults to aktif")
	id := created.Data.ID.String()

	t.Run("get", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/koperasi/"+id, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Koperasi Tani Makmur")
	})

	t.Run("duplicate legal entity number", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/koperasi", koperasiRequest("Koperasi Lain", "BH-001", time.Now()))
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeAlreadyExists, decodeResponse(t, w).Error.Code)
	})

	t.Run("binding errors", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/koperasi", map[string]any{"nama": "Tanpa Nomor"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update", func(t *testing.T) {
		req := koperasiRequest("Koperasi Tani Makmur", "BH-001", time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC))
		req.Status = "tidak_aktif"
		w := env.do(t, http.MethodPut, "/koperasi/"+id, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "tidak_aktif")
	})

	t.Run("delete", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/koperasi/"+id, nil)
		require.Equal(t, http.StatusNoContent, w.Code)
		w = env.do(t, http.MethodGet, "/koperasi/"+id, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRegistryHandler_ListFilters(t *testing.T) {
	env := newRegistryTestEnv(t)
	for i, year := range []int{2010, 2018, 2022} {
		req := koperasiRequest("Koperasi "+string(rune('A'+i)), "BH-10"+string(rune('0'+i)), time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC))
		if year == 2022 {
			req.Status = "pending"
		}
		w := env.do(t, http.MethodPost, "/koperasi", req)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	tests := []struct {
		name  string
		query string
		total int64
	}{
		{"all", "", 3},
		{"by status", "?status=pending", 1},
		{"founded from", "?from=2015-01-01", 2},
		{"founded range", "?from=2015-01-01&to=2020-12-31", 1},
		{"search", "?search=koperasi%20a", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/koperasi"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Meta)
			assert.Equal(t, tt.total, resp.Meta.Total)
		})
	}

	t.Run("malformed date", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/koperasi?from=01-01-2015", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
