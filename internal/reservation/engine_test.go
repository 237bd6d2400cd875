package reservation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/residesk/amenity-booking-backend/internal/resource"
)

func testEngine(t *testing.T, now time.Time) *Engine {
	t.Helper()
	e := NewEngine(time.UTC, 3, true)
	e.now = func() time.Time { return now }
	return e
}

func testPool() *resource.Resource {
	return &resource.Resource{
		ID:         "res-pool",
		Name:       "Pool",
		HourlyRate: 100,
		OpensAt:    "08:00",
		ClosesAt:   "22:00",
		Active:     true,
	}
}

func at(day time.Time, hour, min int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, min, 0, 0, time.UTC)
}

func admissionKind(t *testing.T, err error) ErrorKind {
	t.Helper()
	var admErr *AdmissionError
	require.ErrorAs(t, err, &admErr)
	return admErr.Kind
}

func TestEngineAdmits(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	e := testEngine(t, now)
	day := now.AddDate(0, 0, 1)

	t.Run("Quotes cost from duration and hourly rate", func(t *testing.T) {
		v, err := e.Evaluate(AdmissionInput{
			Resource: testPool(),
			Start:    at(day, 18, 0),
			End:      at(day, 19, 0),
		})
		require.NoError(t, err)
		assert.Equal(t, 100.0, v.Cost)
		assert.Empty(t, v.Warnings)
	})

	t.Run("Fractional hours price proportionally", func(t *testing.T) {
		v, err := e.Evaluate(AdmissionInput{
			Resource: testPool(),
			Start:    at(day, 18, 0),
			End:      at(day, 19, 30),
		})
		require.NoError(t, err)
		assert.Equal(t, 150.0, v.Cost)
	})

	t.Run("Booking later today is allowed", func(t *testing.T) {
		// Now is 12:00; 10:00 today is in the past but still today.
		_, err := e.Evaluate(AdmissionInput{
			Resource: testPool(),
			Start:    at(now, 10, 0),
			End:      at(now, 11, 0),
		})
		require.NoError(t, err)
	})

	t.Run("Slot touching opening and closing time exactly", func(t *testing.T) {
		_, err := e.Evaluate(AdmissionInput{
			Resource: testPool(),
			Start:    at(day, 8, 0),
			End:      at(day, 22, 0),
		})
		require.NoError(t, err)
	})
}

func TestEngineRejects(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	e := testEngine(t, now)
	day := now.AddDate(0, 0, 1)

	t.Run("Start must be before end", func(t *testing.T) {
		_, err := e.Evaluate(AdmissionInput{
			Resource: testPool(),
			Start:    at(day, 19, 0),
			End:      at(day, 18, 0),
		})
		assert.ErrorIs(t, err, ErrInvalidTimeRange)

		_, err = e.Evaluate(AdmissionInput{
			Resource: testPool(),
			Start:    at(day, 18, 0),
			End:      at(day, 18, 0),
		})
		assert.ErrorIs(t, err, ErrInvalidTimeRange, "zero-length slot must be rejected")
	})

	t.Run("Inactive resource", func(t *testing.T) {
		pool := testPool()
		pool.Active = false
		_, err := e.Evaluate(AdmissionInput{
			Resource: pool,
			Start:    at(day, 18, 0),
			End:      at(day, 19, 0),
		})
		assert.Equal(t, KindResourceInactive, admissionKind(t, err))
	})

	t.Run("Past date", func(t *testing.T) {
		yesterday := now.AddDate(0, 0, -1)
		_, err := e.Evaluate(AdmissionInput{
			Resource: testPool(),
			Start:    at(yesterday, 18, 0),
			End:      at(yesterday, 19, 0),
		})
		assert.Equal(t, KindPastDate, admissionKind(t, err))
	})

	t.Run("Outside operating hours", func(t *testing.T) {
		// Starts before opening
		_, err := e.Evaluate(AdmissionInput{
			Resource: testPool(),
			Start:    at(day, 7, 0),
			End:      at(day, 9, 0),
		})
		assert.Equal(t, KindOutOfHours, admissionKind(t, err))

		// Ends after closing
		_, err = e.Evaluate(AdmissionInput{
			Resource: testPool(),
			Start:    at(day, 21, 0),
			End:      at(day, 23, 0),
		})
		assert.Equal(t, KindOutOfHours, admissionKind(t, err))

		// Crosses midnight
		_, err = e.Evaluate(AdmissionInput{
			Resource: testPool(),
			Start:    at(day, 21, 0),
			End:      at(day.AddDate(0, 0, 1), 9, 0),
		})
		assert.Equal(t, KindOutOfHours, admissionKind(t, err))

		// Ends seconds after closing
		_, err = e.Evaluate(AdmissionInput{
			Resource: testPool(),
			Start:    at(day, 21, 0),
			End:      at(day, 22, 0).Add(59 * time.Second),
		})
		assert.Equal(t, KindOutOfHours, admissionKind(t, err))

		// Starts seconds before opening
		_, err = e.Evaluate(AdmissionInput{
			Resource: testPool(),
			Start:    at(day, 8, 0).Add(-30 * time.Second),
			End:      at(day, 9, 0),
		})
		assert.Equal(t, KindOutOfHours, admissionKind(t, err))
	})
}

func TestEngineConflicts(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	e := testEngine(t, now)
	day := now.AddDate(0, 0, 1)

	held := &Reservation{
		ID:            "existing-1",
		RequesterName: "Alice",
		StartTime:     at(day, 18, 0),
		EndTime:       at(day, 19, 0),
		Status:        StatusConfirmed,
	}

	t.Run("Exact duplicate outranks overlap", func(t *testing.T) {
		_, err := e.Evaluate(AdmissionInput{
			Resource: testPool(),
			Start:    at(day, 18, 0),
			End:      at(day, 19, 0),
			Existing: []*Reservation{held},
		})

		var admErr *AdmissionError
		require.ErrorAs(t, err, &admErr)
		assert.Equal(t, KindDuplicate, admErr.Kind)
		require.NotNil(t, admErr.Conflict)
		assert.Equal(t, "existing-1", admErr.Conflict.ReservationID)
		assert.Equal(t, "Alice", admErr.Conflict.OwnerName)
	})

	t.Run("Partial overlap is a conflict", func(t *testing.T) {
		_, err := e.Evaluate(AdmissionInput{
			Resource: testPool(),
			Start:    at(day, 18, 30),
			End:      at(day, 19, 30),
			Existing: []*Reservation{held},
		})

		var admErr *AdmissionError
		require.ErrorAs(t, err, &admErr)
		assert.Equal(t, KindOverlap, admErr.Kind)
		require.NotNil(t, admErr.Conflict)
		assert.Equal(t, "existing-1", admErr.Conflict.ReservationID)
	})

	t.Run("Containing slot is a conflict", func(t *testing.T) {
		_, err := e.Evaluate(AdmissionInput{
			Resource: testPool(),
			Start:    at(day, 17, 0),
			End:      at(day, 20, 0),
			Existing: []*Reservation{held},
		})
		assert.Equal(t, KindOverlap, admissionKind(t, err))
	})

	t.Run("Back-to-back slots do not conflict", func(t *testing.T) {
		// Intervals are half-open: ending at 18:00 frees 18:00.
		_, err := e.Evaluate(AdmissionInput{
			Resource: testPool(),
			Start:    at(day, 19, 0),
			End:      at(day, 20, 0),
			Existing: []*Reservation{held},
		})
		require.NoError(t, err)

		_, err = e.Evaluate(AdmissionInput{
			Resource: testPool(),
			Start:    at(day, 17, 0),
			End:      at(day, 18, 0),
			Existing: []*Reservation{held},
		})
		require.NoError(t, err)
	})
}

func TestEngineQuota(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	e := testEngine(t, now)
	day := now.AddDate(0, 0, 1)

	t.Run("Third reservation of the month is admitted", func(t *testing.T) {
		_, err := e.Evaluate(AdmissionInput{
			Resource:   testPool(),
			Start:      at(day, 18, 0),
			End:        at(day, 19, 0),
			MonthCount: 2,
		})
		require.NoError(t, err)
	})

	t.Run("Fourth reservation of the month is rejected", func(t *testing.T) {
		_, err := e.Evaluate(AdmissionInput{
			Resource:   testPool(),
			Start:      at(day, 18, 0),
			End:        at(day, 19, 0),
			MonthCount: 3,
		})

		var admErr *AdmissionError
		require.ErrorAs(t, err, &admErr)
		assert.Equal(t, KindQuotaExceeded, admErr.Kind)
		assert.Equal(t, 3, admErr.Count)
	})

	t.Run("Privileged users bypass the quota", func(t *testing.T) {
		_, err := e.Evaluate(AdmissionInput{
			Resource:   testPool(),
			Privileged: true,
			Start:      at(day, 18, 0),
			End:        at(day, 19, 0),
			MonthCount: 10,
		})
		require.NoError(t, err)
	})

	t.Run("Exemption can be turned off", func(t *testing.T) {
		strict := NewEngine(time.UTC, 3, false)
		strict.now = e.now

		_, err := strict.Evaluate(AdmissionInput{
			Resource:   testPool(),
			Privileged: true,
			Start:      at(day, 18, 0),
			End:        at(day, 19, 0),
			MonthCount: 3,
		})
		assert.Equal(t, KindQuotaExceeded, admissionKind(t, err))
	})

	t.Run("Conflict check runs before quota", func(t *testing.T) {
		held := &Reservation{
			ID:        "existing-1",
			StartTime: at(day, 18, 0),
			EndTime:   at(day, 19, 0),
		}
		_, err := e.Evaluate(AdmissionInput{
			Resource:   testPool(),
			Start:      at(day, 18, 30),
			End:        at(day, 19, 30),
			Existing:   []*Reservation{held},
			MonthCount: 3,
		})
		assert.Equal(t, KindOverlap, admissionKind(t, err))
	})
}

func TestEngineSameDayWarning(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	e := testEngine(t, now)
	day := now.AddDate(0, 0, 1)

	v, err := e.Evaluate(AdmissionInput{
		Resource:   testPool(),
		Start:      at(day, 18, 0),
		End:        at(day, 19, 0),
		HasSameDay: true,
	})
	require.NoError(t, err, "same-day holds warn, never block")
	require.Len(t, v.Warnings, 1)
	assert.Contains(t, v.Warnings[0], "already have a reservation")
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCompleted, StatusCancelled, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestAdmissionErrorUnwrapping(t *testing.T) {
	err := rejectf(KindPastDate, "cannot reserve a date in the past")

	var admErr *AdmissionError
	require.True(t, errors.As(err, &admErr))
	assert.Equal(t, KindPastDate, admErr.Kind)
	assert.Equal(t, "cannot reserve a date in the past", err.Error())
}
