package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository/memory"
	"github.com/medibook/booking-api/internal/service/directory"
)

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }

func setupRouter(t *testing.T) (*gin.Engine, *model.Provider, *model.Provider) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := memory.NewProviderRepository()
	ctx := context.Background()

	full := &model.Provider{
		Name:            "Dr. Marcus Webb",
		Category:        "Neurology",
		Role:            model.RoleProvider,
		Specialties:     pq.StringArray{"Migraine"},
		Rating:          ptrFloat(4.8),
		ReviewCount:     ptrInt(120),
		YearsExperience: ptrInt(12),
	}
	sparse := &model.Provider{
		Name:        "Dr. Emily Chen",
		Category:    "Pediatrician",
		Role:        model.RoleProvider,
		Specialties: pq.StringArray{"Child Care"},
	}
	require.NoError(t, repo.Create(ctx, full))
	require.NoError(t, repo.Create(ctx, sparse))

	r := gin.New()
	NewHandler(directory.NewService(repo)).RegisterRoutes(r.Group("/api/v1"))
	return r, full, sparse
}

type providerResponse struct {
	Status string        `json:"status"`
	Data   *ProviderView `json:"data"`
}

type providerListResponse struct {
	Status string          `json:"status"`
	Data   []*ProviderView `json:"data"`
}

func TestGetProviderPresentsOptionalFields(t *testing.T) {
	r, full, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/providers/"+full.ID.String(), nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp providerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "4.8", resp.Data.Rating)
	assert.Equal(t, 120, resp.Data.ReviewCount)
	assert.Equal(t, "12 years", resp.Data.Experience)
}

func TestGetProviderAppliesDisplayFallbacks(t *testing.T) {
	r, _, sparse := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/providers/"+sparse.ID.String(), nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp providerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "4.5", resp.Data.Rating)
	assert.Equal(t, "5+ years", resp.Data.Experience)
	assert.Equal(t, 0, resp.Data.ReviewCount)
}

func TestGetProviderUnknownID(t *testing.T) {
	r, _, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/providers/6f1f64ee-0000-4000-8000-000000000000", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListProvidersByCategory(t *testing.T) {
	r, _, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/providers?category=Neurology", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp providerListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Dr. Marcus Webb", resp.Data[0].Name)
}

func TestListProvidersSearch(t *testing.T) {
	r, _, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/providers?q=chen", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp providerListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Dr. Emily Chen", resp.Data[0].Name)
}
