package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appreference "github.com/pulosarok/desa/internal/application/reference"
	"github.com/pulosarok/desa/internal/domain/reference"
	"github.com/pulosarok/desa/internal/infrastructure/persistence"
	"github.com/pulosarok/desa/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type referenceTestEnv struct {
	router   *gin.Engine
	tenantID uuid.UUID
}

func newReferenceTestEnv(t *testing.T) *referenceTestEnv {
	t.Helper()
	db := setupSQLite(t, &reference.Dusun{}, &reference.Lorong{}, &reference.Penduduk{})
	service := appreference.NewService(
		persistence.NewGormDusunRepository(db),
		persistence.NewGormLorongRepository(db),
		persistence.NewGormPendudukRepository(db),
		zap.NewNop(),
	)
	h := NewReferenceHandler(service)
	tenantID := uuid.New()

	router := gin.New()
	rg := router.Group("/reference", withTenant(tenantID.String()))
	rg.POST("/dusun", h.CreateDusun)
	rg.GET("/dusun", h.ListDusun)
	rg.GET("/dusun/:id", h.GetDusun)
	rg.PUT("/dusun/:id", h.UpdateDusun)
	rg.DELETE("/dusun/:id", h.DeleteDusun)
	rg.POST("/penduduk", h.CreatePenduduk)
	rg.GET("/penduduk", h.ListPenduduk)
	rg.GET("/penduduk/stats", h.PopulationStats)
	rg.GET("/penduduk/nik/:nik", h.FindPendudukByNIK)
	rg.DELETE("/penduduk/:id", h.DeletePenduduk)

	return &referenceTestEnv{router: router, tenantID: tenantID}
}

func (e *referenceTestEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
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

func (e *referenceTestEnv) createDusun(t *testing.T, code, name string) appreference.DusunResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/reference/dusun", appreference.DusunRequest{Code: code, Name: name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Data appreference.DusunResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func TestReferenceHandler_DusunLifecycle(t *testing.T) {
	env := newReferenceTestEnv(t)

	d := env.createDusun(t, "D01", "Dusun Mawar")
	env.createDusun(t, "D02", "Dusun Melati")

	t.Run("duplicate code", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/reference/dusun", appreference.DusunRequest{Code: "D01", Name: "Lain"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeAlreadyExists, decodeResponse(t, w).Error.Code)
	})

	t.Run("search and paging", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/reference/dusun?search=mawar&page_size=5", nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(1), resp.Meta.Total)
		assert.Equal(t, 5, resp.Meta.PageSize)
	})

	t.Run("update", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/reference/dusun/"+d.ID.String(), appreference.DusunRequest{Code: "D01", Name: "Dusun Mawar Indah"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = env.do(t, http.MethodGet, "/reference/dusun/"+d.ID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Dusun Mawar Indah")
	})

	t.Run("malformed id", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/reference/dusun/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/reference/dusun/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestReferenceHandler_Penduduk(t *testing.T) {
	env := newReferenceTestEnv(t)
	d := env.createDusun(t, "D01", "Dusun Mawar")

	req := appreference.PendudukRequest{
		NIK:     "3201010101010001",
		Name:    "Siti Aminah",
		Gender:  "P",
		DusunID: d.ID,
	}

	t.Run("rejects a malformed NIK", func(t *testing.T) {
		bad := req
		bad.NIK = "12345"
		w := env.do(t, http.MethodPost, "/reference/penduduk", bad)
		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotEmpty(t, resp.Error.Details)
		assert.Equal(t, "nik", resp.Error.Details[0].Field)
	})

	w := env.do(t, http.MethodPost, "/reference/penduduk", req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data appreference.PendudukResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	t.Run("duplicate NIK", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/reference/penduduk", req)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "NIK_EXISTS", decodeResponse(t, w).Error.Code)
	})

	t.Run("find by NIK", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/reference/penduduk/nik/3201010101010001", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Siti Aminah")
	})

	t.Run("filter by gender", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/reference/penduduk?gender=L", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(0), decodeResponse(t, w).Meta.Total)
	})

	t.Run("stats", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/reference/penduduk/stats", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data appreference.PopulationStatsResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(1), resp.Data.Total)
		assert.Equal(t, int64(1), resp.Data.DusunCount)
	})

	t.Run("dusun with residents cannot be deleted", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/reference/dusun/"+d.ID.String(), nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("delete resident then dusun", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/reference/penduduk/"+created.Data.ID.String(), nil)
		require.Equal(t, http.StatusNoContent, w.Code)
		w = env.do(t, http.MethodDelete, "/reference/dusun/"+d.ID.String(), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
