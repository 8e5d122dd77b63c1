package appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository/memory"
	"github.com/medibook/booking-api/internal/service/booking"
	"github.com/medibook/booking-api/internal/service/calendar"
	"github.com/medibook/booking-api/internal/service/directory"
	"github.com/medibook/booking-api/internal/service/ledger"
)

func setupRouter(t *testing.T) (*gin.Engine, *model.Provider) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	providers := memory.NewProviderRepository()
	provider := &model.Provider{
		Name:        "Dr. Emily Chen",
		Category:    "Pediatrician",
		Role:        model.RoleProvider,
		Specialties: pq.StringArray{"Child Care"},
	}
	require.NoError(t, providers.Create(ctx, provider))

	slots := memory.NewSlotRepository()
	for _, tc := range []struct {
		day  int
		time string
	}{
		{16, "10:00"},
		{17, "11:00"},
	} {
		require.NoError(t, slots.Create(ctx, &model.Slot{
			ProviderID: provider.ID,
			Day:        tc.day,
			StartTime:  tc.time,
			Status:     model.SlotOpen,
		}))
	}

	cal := calendar.NewService(slots)
	led := ledger.NewService(memory.NewAppointmentRepository(), cal, memory.NewOutboxRepository())
	bookingSvc := booking.NewService(directory.NewService(providers), cal, led, nil)

	r := gin.New()
	NewHandler(bookingSvc, led).RegisterRoutes(r.Group("/api/v1"))
	return r, provider
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

type appointmentResponse struct {
	Status  string             `json:"status"`
	Message string             `json:"message"`
	Data    *model.Appointment `json:"data"`
}

func bookBody(providerID string, day int, startTime string) map[string]interface{} {
	return map[string]interface{}{
		"provider_id":  providerID,
		"day":          day,
		"start_time":   startTime,
		"consumer_id":  "u1",
		"specialty":    "Child Care",
		"session_type": "video_session",
	}
}

func mustBook(t *testing.T, r *gin.Engine, provider *model.Provider) *model.Appointment {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/appointments", bookBody(provider.ID.String(), 16, "10:00"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp appointmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data)
	return resp.Data
}

func TestBookCreatesUnconfirmedAppointment(t *testing.T) {
	r, provider := setupRouter(t)

	appointment := mustBook(t, r, provider)
	assert.Equal(t, model.AppointmentStatusUnconfirmed, appointment.Status)
	assert.Equal(t, 16, appointment.Day)
	assert.Equal(t, "10:00", appointment.StartTime)
}

func TestBookTakenSlotIsConflict(t *testing.T) {
	r, provider := setupRouter(t)
	mustBook(t, r, provider)

	w := doJSON(t, r, http.MethodPost, "/api/v1/appointments", bookBody(provider.ID.String(), 16, "10:00"))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookUnofferedSpecialtyIsUnprocessable(t *testing.T) {
	r, provider := setupRouter(t)

	body := bookBody(provider.ID.String(), 16, "10:00")
	body["specialty"] = "Neurosurgery"

	w := doJSON(t, r, http.MethodPost, "/api/v1/appointments", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestBookValidationFailure(t *testing.T) {
	r, provider := setupRouter(t)

	body := bookBody(provider.ID.String(), 16, "10:00")
	body["session_type"] = "telepathy"

	w := doJSON(t, r, http.MethodPost, "/api/v1/appointments", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRescheduleEndpoint(t *testing.T) {
	r, provider := setupRouter(t)
	appointment := mustBook(t, r, provider)

	w := doJSON(t, r, http.MethodPost,
		fmt.Sprintf("/api/v1/appointments/%s/reschedule", appointment.ID),
		map[string]interface{}{"day": 17, "start_time": "11:00"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp appointmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.AppointmentStatusRescheduled, resp.Data.Status)
	assert.Equal(t, 17, resp.Data.Day)
}

func TestConfirmThenCancel(t *testing.T) {
	r, provider := setupRouter(t)
	appointment := mustBook(t, r, provider)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/appointments/%s/confirm", appointment.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/appointments/%s/cancel", appointment.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Cancelled is terminal; confirming again is a conflict.
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/appointments/%s/confirm", appointment.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetUnknownAppointment(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/appointments/2b1f64ee-0000-4000-8000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRequiresAFilter(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/appointments", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListForConsumer(t *testing.T) {
	r, provider := setupRouter(t)
	mustBook(t, r, provider)

	w := doJSON(t, r, http.MethodGet, "/api/v1/appointments?consumer_id=u1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []*model.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "u1", resp.Data[0].ConsumerID)
}
