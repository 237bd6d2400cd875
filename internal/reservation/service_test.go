package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/residesk/amenity-booking-backend/internal/resource"
)

// fakeRepo implements Repository in memory. It is deliberately simple:
// the pgx repository is exercised by integration environments, the
// service logic by this fake.
type fakeRepo struct {
	byID       map[string]*Reservation
	nextID     int
	createErr  error
	hasSameDay bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]*Reservation{}}
}

func (f *fakeRepo) Create(_ context.Context, r *Reservation) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	r.ID = string(rune('a' + f.nextID - 1))
	r.CreatedAt = time.Now()
	clone := *r
	f.byID[r.ID] = &clone
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Reservation, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *r
	return &clone, nil
}

func (f *fakeRepo) List(_ context.Context, _ Filter) ([]*Reservation, int, error) {
	var out []*Reservation
	for _, r := range f.byID {
		out = append(out, r)
	}
	return out, len(out), nil
}

func (f *fakeRepo) ListForConflictCheck(_ context.Context, resourceID string, start, end time.Time) ([]*Reservation, error) {
	var out []*Reservation
	for _, r := range f.byID {
		if r.ResourceID != resourceID || r.Status == StatusCancelled {
			continue
		}
		if r.StartTime.Before(end) && r.EndTime.After(start) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountActiveInMonth(_ context.Context, requesterID string, monthStart, monthEnd time.Time) (int, error) {
	n := 0
	for _, r := range f.byID {
		if r.RequesterID != requesterID || r.Status == StatusCancelled {
			continue
		}
		if !r.StartTime.Before(monthStart) && r.StartTime.Before(monthEnd) {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) HasActiveBetween(_ context.Context, _ string, _, _ time.Time) (bool, error) {
	return f.hasSameDay, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id string, from []Status, to Status, reason *string) (bool, error) {
	r, ok := f.byID[id]
	if !ok {
		return false, nil
	}
	for _, s := range from {
		if r.Status == s {
			r.Status = to
			r.CancelReason = reason
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) SetPaymentIntent(_ context.Context, id, intentID string) error {
	r, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	r.PaymentIntentID = &intentID
	return nil
}

func (f *fakeRepo) ExpirePendingBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	reason := "hold_expired"
	for _, r := range f.byID {
		if r.Status == StatusPending && r.CreatedAt.Before(cutoff) {
			r.Status = StatusCancelled
			r.CancelReason = &reason
			n++
		}
	}
	return n, nil
}

// fakeTx runs the function directly; serialization semantics belong to
// the real TxManager.
type fakeTx struct{}

func (fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeCatalog struct {
	res *resource.Resource
}

func (f *fakeCatalog) GetByID(_ context.Context, id string) (*resource.Resource, error) {
	if f.res == nil || f.res.ID != id {
		return nil, resource.ErrNotFound
	}
	return f.res, nil
}

func (f *fakeCatalog) Create(context.Context, resource.CreateRequest) (*resource.Resource, error) {
	panic("not used")
}
func (f *fakeCatalog) List(context.Context, resource.Filter) ([]*resource.Resource, int, error) {
	panic("not used")
}
func (f *fakeCatalog) Update(context.Context, string, resource.UpdateRequest) (*resource.Resource, error) {
	panic("not used")
}
func (f *fakeCatalog) Deactivate(context.Context, string) (*resource.Resource, error) {
	panic("not used")
}
func (f *fakeCatalog) Activate(context.Context, string) (*resource.Resource, error) {
	panic("not used")
}

type fakeCoordinator struct {
	intentID string
	err      error
	calls    int
}

func (f *fakeCoordinator) OnReservationAdmitted(_ context.Context, _ *Reservation) (string, error) {
	f.calls++
	return f.intentID, f.err
}

func newTestService(repo *fakeRepo, coord Coordinator) Service {
	engine := NewEngine(time.UTC, 3, true)
	catalog := &fakeCatalog{res: &resource.Resource{
		ID:         "res-pool",
		Name:       "Pool",
		HourlyRate: 100,
		OpensAt:    "08:00",
		ClosesAt:   "22:00",
		Active:     true,
	}}
	return NewService(repo, catalog, fakeTx{}, engine, coord, nil, time.UTC)
}

func futureSlot(hour int) (time.Time, time.Time) {
	day := time.Now().UTC().AddDate(0, 0, 7)
	start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.UTC)
	return start, start.Add(time.Hour)
}

func TestServiceCreate(t *testing.T) {
	t.Run("Admitted reservation is pending with intent attached", func(t *testing.T) {
		repo := newFakeRepo()
		coord := &fakeCoordinator{intentID: "pi_123"}
		svc := newTestService(repo, coord)

		start, end := futureSlot(18)
		result, err := svc.Create(context.Background(), CreateRequest{
			RequesterID: "user-1",
			ResourceID:  "res-pool",
			Start:       start,
			End:         end,
		})
		require.NoError(t, err)

		assert.Equal(t, StatusPending, result.Reservation.Status)
		assert.Equal(t, 100.0, result.Reservation.Cost)
		require.NotNil(t, result.Reservation.PaymentIntentID)
		assert.Equal(t, "pi_123", *result.Reservation.PaymentIntentID)
		assert.Equal(t, 1, coord.calls)
	})

	t.Run("Unknown resource", func(t *testing.T) {
		svc := newTestService(newFakeRepo(), &fakeCoordinator{})

		start, end := futureSlot(18)
		_, err := svc.Create(context.Background(), CreateRequest{
			RequesterID: "user-1",
			ResourceID:  "res-missing",
			Start:       start,
			End:         end,
		})

		var admErr *AdmissionError
		require.ErrorAs(t, err, &admErr)
		assert.Equal(t, KindUnknownResource, admErr.Kind)
	})

	t.Run("Write-time race loss surfaces as overlap conflict", func(t *testing.T) {
		repo := newFakeRepo()
		repo.createErr = ErrSlotTaken
		svc := newTestService(repo, &fakeCoordinator{})

		start, end := futureSlot(18)
		_, err := svc.Create(context.Background(), CreateRequest{
			RequesterID: "user-1",
			ResourceID:  "res-pool",
			Start:       start,
			End:         end,
		})

		var admErr *AdmissionError
		require.ErrorAs(t, err, &admErr)
		assert.Equal(t, KindOverlap, admErr.Kind)
	})

	t.Run("Failed intent creation keeps the reservation pending", func(t *testing.T) {
		repo := newFakeRepo()
		coord := &fakeCoordinator{err: assert.AnError}
		svc := newTestService(repo, coord)

		start, end := futureSlot(18)
		result, err := svc.Create(context.Background(), CreateRequest{
			RequesterID: "user-1",
			ResourceID:  "res-pool",
			Start:       start,
			End:         end,
		})
		require.NoError(t, err, "intent failures must not lose the admitted slot")
		assert.Equal(t, StatusPending, result.Reservation.Status)
		assert.Nil(t, result.Reservation.PaymentIntentID)
	})

	t.Run("Same-day hold produces a warning", func(t *testing.T) {
		repo := newFakeRepo()
		repo.hasSameDay = true
		svc := newTestService(repo, &fakeCoordinator{})

		start, end := futureSlot(18)
		result, err := svc.Create(context.Background(), CreateRequest{
			RequesterID: "user-1",
			ResourceID:  "res-pool",
			Start:       start,
			End:         end,
		})
		require.NoError(t, err)
		require.Len(t, result.Warnings, 1)
	})

	t.Run("Quota rejection carries the count", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo, &fakeCoordinator{})
		for _, hour := range []int{9, 11, 13} {
			createAt(t, svc, "user-1", hour)
		}

		start, end := futureSlot(18)
		_, err := svc.Create(context.Background(), CreateRequest{
			RequesterID: "user-1",
			ResourceID:  "res-pool",
			Start:       start,
			End:         end,
		})

		var admErr *AdmissionError
		require.ErrorAs(t, err, &admErr)
		assert.Equal(t, KindQuotaExceeded, admErr.Kind)
		assert.Equal(t, 3, admErr.Count)
	})
}

func TestServiceQuotaFreedByCancellation(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeCoordinator{})

	first := createAt(t, svc, "user-1", 9)
	createAt(t, svc, "user-1", 11)
	createAt(t, svc, "user-1", 13)

	start, end := futureSlot(18)
	req := CreateRequest{
		RequesterID: "user-1",
		ResourceID:  "res-pool",
		Start:       start,
		End:         end,
	}

	_, err := svc.Create(context.Background(), req)
	var admErr *AdmissionError
	require.ErrorAs(t, err, &admErr)
	assert.Equal(t, KindQuotaExceeded, admErr.Kind)
	assert.Equal(t, 3, admErr.Count)

	_, err = svc.Cancel(context.Background(), first.ID, "plans changed", "user-1", false)
	require.NoError(t, err)

	result, err := svc.Create(context.Background(), req)
	require.NoError(t, err, "cancelling drops the month count below the cap")
	assert.Equal(t, StatusPending, result.Reservation.Status)
}

func createAt(t *testing.T, svc Service, requesterID string, hour int) *Reservation {
	t.Helper()
	start, end := futureSlot(hour)
	result, err := svc.Create(context.Background(), CreateRequest{
		RequesterID: requesterID,
		ResourceID:  "res-pool",
		Start:       start,
		End:         end,
	})
	require.NoError(t, err)
	return result.Reservation
}

func createPending(t *testing.T, svc Service) *Reservation {
	t.Helper()
	return createAt(t, svc, "user-1", 18)
}

func TestServiceLifecycle(t *testing.T) {
	t.Run("Confirm is idempotent", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo, &fakeCoordinator{})
		r := createPending(t, svc)

		require.NoError(t, svc.Confirm(context.Background(), r.ID))
		require.NoError(t, svc.Confirm(context.Background(), r.ID), "second confirm is a no-op")

		got, err := repo.GetByID(context.Background(), r.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, got.Status)
	})

	t.Run("Confirm after cancel is an invalid transition", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo, &fakeCoordinator{})
		r := createPending(t, svc)

		require.NoError(t, svc.Release(context.Background(), r.ID, "payment_failed"))
		err := svc.Confirm(context.Background(), r.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("Release records the reason and is idempotent", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo, &fakeCoordinator{})
		r := createPending(t, svc)

		require.NoError(t, svc.Release(context.Background(), r.ID, "payment_failed"))
		require.NoError(t, svc.Release(context.Background(), r.ID, "payment_failed"))

		got, err := repo.GetByID(context.Background(), r.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, got.Status)
		require.NotNil(t, got.CancelReason)
		assert.Equal(t, "payment_failed", *got.CancelReason)
	})

	t.Run("Release after completion is rejected", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo, &fakeCoordinator{})
		r := createPending(t, svc)

		require.NoError(t, svc.Confirm(context.Background(), r.ID))
		require.NoError(t, svc.Complete(context.Background(), r.ID))

		err := svc.Release(context.Background(), r.ID, "too late")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("Complete requires confirmed", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo, &fakeCoordinator{})
		r := createPending(t, svc)

		err := svc.Complete(context.Background(), r.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition, "pending cannot jump to completed")

		require.NoError(t, svc.Confirm(context.Background(), r.ID))
		require.NoError(t, svc.Complete(context.Background(), r.ID))
		require.NoError(t, svc.Complete(context.Background(), r.ID), "second complete is a no-op")
	})

	t.Run("Cancel checks ownership", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo, &fakeCoordinator{})
		r := createPending(t, svc)

		_, err := svc.Cancel(context.Background(), r.ID, "changed my mind", "someone-else", false)
		assert.ErrorIs(t, err, ErrPermissionDenied)

		got, err := svc.Cancel(context.Background(), r.ID, "changed my mind", "user-1", false)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, got.Status)
	})

	t.Run("Privileged users may cancel any reservation", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo, &fakeCoordinator{})
		r := createPending(t, svc)

		got, err := svc.Cancel(context.Background(), r.ID, "maintenance", "manager-1", true)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, got.Status)
	})

	t.Run("GetByID scopes residents to their own reservations", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo, &fakeCoordinator{})
		r := createPending(t, svc)

		_, err := svc.GetByID(context.Background(), r.ID, "someone-else", false)
		assert.ErrorIs(t, err, ErrPermissionDenied)

		_, err = svc.GetByID(context.Background(), r.ID, "someone-else", true)
		require.NoError(t, err)
	})
}

func TestServiceExpiry(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeCoordinator{})
	r := createPending(t, svc)

	// Advance the service clock past the TTL.
	svc.(*service).now = func() time.Time { return time.Now().Add(time.Hour) }

	n, err := svc.ExpirePendingOlderThan(context.Background(), 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)
	require.NotNil(t, got.CancelReason)
	assert.Equal(t, "hold_expired", *got.CancelReason)

	// Freed slot admits a new reservation.
	_ = createPending(t, svc)
}
