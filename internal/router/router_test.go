package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/booking-api/internal/handler"
	"github.com/medibook/booking-api/internal/middleware"
	"github.com/medibook/booking-api/internal/repository/memory"
	authservice "github.com/medibook/booking-api/internal/service/auth"
	pkgauth "github.com/medibook/booking-api/pkg/auth"
	"github.com/medibook/booking-api/pkg/metrics"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	authSvc := authservice.NewService(memory.NewConsumerRepository(), pkgauth.Config{
		Secret:      "test-secret",
		ExpiryHours: 1,
	})

	r := NewRouter(middleware.NewAuthMiddleware(authSvc), handler.NewHandler(), Config{
		CORS: middleware.DefaultCORSConfig(),
	})
	r.Setup()
	return r
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestMetricsEndpointExposesDomainCounters(t *testing.T) {
	// The workflow counters go through promauto into the default registry;
	// the scrape endpoint has to surface them alongside the HTTP series.
	m := metrics.NewMetrics("medibook", "routertest")
	m.BookingsTotal.Inc()

	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "medibook_routertest_bookings_total 1")
}
