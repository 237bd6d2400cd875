package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/residesk/amenity-booking-backend/internal/reservation"
)

type fakeGateway struct {
	lastReservationID string
	lastAmount        float64
	lastPurpose       Purpose
	err               error
}

func (f *fakeGateway) CreateIntent(_ context.Context, reservationID string, amount float64, purpose Purpose) (*Intent, error) {
	f.lastReservationID = reservationID
	f.lastAmount = amount
	f.lastPurpose = purpose
	if f.err != nil {
		return nil, f.err
	}
	return &Intent{ID: "pi_test", ReservationID: reservationID, Amount: amount, Purpose: purpose}, nil
}

type fakeLifecycle struct {
	confirmed []string
	released  map[string]string
}

func newFakeLifecycle() *fakeLifecycle {
	return &fakeLifecycle{released: map[string]string{}}
}

func (f *fakeLifecycle) Confirm(_ context.Context, id string) error {
	f.confirmed = append(f.confirmed, id)
	return nil
}

func (f *fakeLifecycle) Release(_ context.Context, id, reason string) error {
	f.released[id] = reason
	return nil
}

func TestOnReservationAdmitted(t *testing.T) {
	gateway := &fakeGateway{}
	svc := NewService(gateway)

	intentID, err := svc.OnReservationAdmitted(context.Background(), &reservation.Reservation{
		ID:   "resv-1",
		Cost: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_test", intentID)
	assert.Equal(t, "resv-1", gateway.lastReservationID)
	assert.Equal(t, 100.0, gateway.lastAmount)
	assert.Equal(t, PurposeReservation, gateway.lastPurpose)
}

func TestCreateDamageIntent(t *testing.T) {
	gateway := &fakeGateway{}
	svc := NewService(gateway)

	intentID, err := svc.CreateDamageIntent(context.Background(), "resv-1", 250)
	require.NoError(t, err)
	assert.Equal(t, "pi_test", intentID)
	assert.Equal(t, PurposeDamage, gateway.lastPurpose)
}

func TestHandleSettlement(t *testing.T) {
	t.Run("Settled confirms", func(t *testing.T) {
		lifecycle := newFakeLifecycle()
		svc := NewService(&fakeGateway{})
		svc.Bind(lifecycle)

		require.NoError(t, svc.HandleSettlement(context.Background(), "resv-1", OutcomeSettled))
		assert.Equal(t, []string{"resv-1"}, lifecycle.confirmed)
		assert.Empty(t, lifecycle.released)
	})

	t.Run("Failed and expired release the hold", func(t *testing.T) {
		for _, outcome := range []Outcome{OutcomeFailed, OutcomeExpired} {
			lifecycle := newFakeLifecycle()
			svc := NewService(&fakeGateway{})
			svc.Bind(lifecycle)

			require.NoError(t, svc.HandleSettlement(context.Background(), "resv-1", outcome))
			assert.Empty(t, lifecycle.confirmed)
			assert.Equal(t, "payment_failed", lifecycle.released["resv-1"])
		}
	})

	t.Run("Unknown outcome", func(t *testing.T) {
		svc := NewService(&fakeGateway{})
		svc.Bind(newFakeLifecycle())

		err := svc.HandleSettlement(context.Background(), "resv-1", Outcome("refunded"))
		assert.ErrorIs(t, err, ErrUnknownOutcome)
	})
}

func TestHTTPGateway(t *testing.T) {
	t.Run("Posts intent and decodes response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/intents", r.URL.Path)

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "resv-1", body["reservation_id"])

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(Intent{ID: "pi_http", ReservationID: "resv-1", Amount: 100})
		}))
		defer server.Close()

		gateway := NewHTTPGateway(server.URL, 2*time.Second)
		intent, err := gateway.CreateIntent(context.Background(), "resv-1", 100, PurposeReservation)
		require.NoError(t, err)
		assert.Equal(t, "pi_http", intent.ID)
	})

	t.Run("Non-2xx maps to gateway error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		gateway := NewHTTPGateway(server.URL, 2*time.Second)
		_, err := gateway.CreateIntent(context.Background(), "resv-1", 100, PurposeReservation)
		assert.ErrorIs(t, err, ErrGateway)
	})
}
