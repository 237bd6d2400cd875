package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/residesk/amenity-booking-backend/internal/payment"
	"github.com/residesk/amenity-booking-backend/internal/reservation"
)

type fakeLifecycle struct {
	confirmed []string
	released  []string
	missing   string
}

func (f *fakeLifecycle) Confirm(_ context.Context, id string) error {
	if id == f.missing {
		return reservation.ErrNotFound
	}
	f.confirmed = append(f.confirmed, id)
	return nil
}

func (f *fakeLifecycle) Release(_ context.Context, id, reason string) error {
	if id == f.missing {
		return reservation.ErrNotFound
	}
	f.released = append(f.released, id)
	return nil
}

func newCallbackRouter(lifecycle payment.Lifecycle, token string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := payment.NewService(nil)
	svc.Bind(lifecycle)

	r := gin.New()
	RegisterRoutes(r.Group("/v1"), NewHandler(svc), RequireGatewayToken(token))
	return r
}

func postCallback(t *testing.T, r *gin.Engine, token, reservationID, outcome string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{
		"reservation_id": reservationID,
		"outcome":        outcome,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/payments/callback", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(GatewayTokenHeader, token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCallback(t *testing.T) {
	id := uuid.NewString()

	t.Run("Missing token is rejected", func(t *testing.T) {
		lifecycle := &fakeLifecycle{}
		r := newCallbackRouter(lifecycle, "secret")

		w := postCallback(t, r, "", id, "settled")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, lifecycle.confirmed)
	})

	t.Run("Wrong token is rejected", func(t *testing.T) {
		lifecycle := &fakeLifecycle{}
		r := newCallbackRouter(lifecycle, "secret")

		w := postCallback(t, r, "guess", id, "settled")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, lifecycle.confirmed)
	})

	t.Run("Settled confirms the reservation", func(t *testing.T) {
		lifecycle := &fakeLifecycle{}
		r := newCallbackRouter(lifecycle, "secret")

		w := postCallback(t, r, "secret", id, "settled")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, []string{id}, lifecycle.confirmed)
	})

	t.Run("Failed releases the hold", func(t *testing.T) {
		lifecycle := &fakeLifecycle{}
		r := newCallbackRouter(lifecycle, "secret")

		w := postCallback(t, r, "secret", id, "failed")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, []string{id}, lifecycle.released)
	})

	t.Run("Unknown outcome is a bad request", func(t *testing.T) {
		lifecycle := &fakeLifecycle{}
		r := newCallbackRouter(lifecycle, "secret")

		w := postCallback(t, r, "secret", id, "refunded")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown reservation is a 404", func(t *testing.T) {
		missing := uuid.NewString()
		lifecycle := &fakeLifecycle{missing: missing}
		r := newCallbackRouter(lifecycle, "secret")

		w := postCallback(t, r, "secret", missing, "settled")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
