package reservation

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/residesk/amenity-booking-backend/internal/pkg/metrics"
	"github.com/residesk/amenity-booking-backend/internal/resource"
)

// TxManager runs a function inside a serializable transaction. Implemented
// by db.TxManager.
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Coordinator issues a payment intent for an admitted reservation. The
// gateway itself is an external collaborator.
type Coordinator interface {
	OnReservationAdmitted(ctx context.Context, r *Reservation) (intentID string, err error)
}

type CreateRequest struct {
	RequesterID string
	Privileged  bool
	ResourceID  string
	Start       time.Time
	End         time.Time
}

// CreateResult is a successful admission: the pending reservation and any
// advisory warnings for the caller to surface.
type CreateResult struct {
	Reservation *Reservation
	Warnings    []string
}

type Service interface {
	// Create evaluates admission and, if admitted, writes a pending
	// reservation. Evaluation and write happen in one serializable
	// transaction so concurrent writers cannot both succeed.
	Create(ctx context.Context, req CreateRequest) (*CreateResult, error)

	GetByID(ctx context.Context, id string, requesterID string, privileged bool) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)

	// Cancel is the user-facing cancellation with permission checks.
	Cancel(ctx context.Context, id, reason, requesterID string, privileged bool) (*Reservation, error)

	// Confirm moves pending to confirmed. Idempotent: confirming an
	// already-confirmed reservation is a no-op.
	Confirm(ctx context.Context, id string) error

	// Release cancels without permission checks; used by the payment
	// coordinator and the expiry sweep. Idempotent on cancelled rows.
	Release(ctx context.Context, id, reason string) error

	// Complete moves confirmed to completed (resource handed back).
	Complete(ctx context.Context, id string) error

	// ExpirePendingOlderThan releases stale pending holds so their slots
	// become bookable again. Safe to run concurrently and repeatedly.
	ExpirePendingOlderThan(ctx context.Context, ttl time.Duration) (int64, error)
}

type service struct {
	repo     Repository
	catalog  resource.Service
	tx       TxManager
	engine   *Engine
	payments Coordinator
	metrics  *metrics.Metrics
	loc      *time.Location
	now      func() time.Time
}

func NewService(
	repo Repository,
	catalog resource.Service,
	tx TxManager,
	engine *Engine,
	payments Coordinator,
	m *metrics.Metrics,
	loc *time.Location,
) Service {
	return &service{
		repo:     repo,
		catalog:  catalog,
		tx:       tx,
		engine:   engine,
		payments: payments,
		metrics:  m,
		loc:      loc,
		now:      time.Now,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	res, err := s.catalog.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			s.metrics.AdmissionResult(string(KindUnknownResource))
			return nil, rejectf(KindUnknownResource, "unknown resource")
		}
		return nil, err
	}

	var created *Reservation
	var verdict *Verdict

	err = s.tx.DoSerializable(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.ListForConflictCheck(txCtx, res.ID, req.Start, req.End)
		if err != nil {
			return err
		}

		monthStart, monthEnd := monthWindow(req.Start, s.loc)
		monthCount, err := s.repo.CountActiveInMonth(txCtx, req.RequesterID, monthStart, monthEnd)
		if err != nil {
			return err
		}

		dayStart := dateOf(req.Start, s.loc)
		hasSameDay, err := s.repo.HasActiveBetween(txCtx, req.RequesterID, dayStart, dayStart.AddDate(0, 0, 1))
		if err != nil {
			return err
		}

		v, err := s.engine.Evaluate(AdmissionInput{
			Resource:    res,
			RequesterID: req.RequesterID,
			Privileged:  req.Privileged,
			Start:       req.Start,
			End:         req.End,
			Existing:    existing,
			MonthCount:  monthCount,
			HasSameDay:  hasSameDay,
		})
		if err != nil {
			return err
		}

		r := &Reservation{
			ResourceID:  res.ID,
			RequesterID: req.RequesterID,
			StartTime:   req.Start,
			EndTime:     req.End,
			Cost:        v.Cost,
			Status:      StatusPending,
		}
		if err := s.repo.Create(txCtx, r); err != nil {
			return err
		}

		r.ResourceName = res.Name
		created, verdict = r, v
		return nil
	})
	if err != nil {
		err = s.mapRaceLoss(err)
		s.recordRejection(err)
		return nil, err
	}

	s.metrics.AdmissionResult("admitted")

	// The slot is held; issue the payment intent. A failure here is not
	// fatal: the reservation stays pending and the expiry sweep releases
	// it if payment never starts.
	if s.payments != nil {
		intentID, err := s.payments.OnReservationAdmitted(ctx, created)
		if err != nil {
			log.Printf("payment intent for reservation %s failed: %v", created.ID, err)
		} else if intentID != "" {
			if err := s.repo.SetPaymentIntent(ctx, created.ID, intentID); err != nil {
				log.Printf("storing payment intent for reservation %s failed: %v", created.ID, err)
			} else {
				created.PaymentIntentID = &intentID
			}
		}
	}

	return &CreateResult{Reservation: created, Warnings: verdict.Warnings}, nil
}

// mapRaceLoss converts write-time race losses into the same conflict error
// the read-time overlap check produces. The caller cannot tell, nor needs
// to, which check caught it.
func (s *service) mapRaceLoss(err error) error {
	if errors.Is(err, ErrSlotTaken) {
		return rejectf(KindOverlap, "the requested time overlaps an existing reservation")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.SerializationFailure {
		return rejectf(KindOverlap, "the requested time overlaps an existing reservation")
	}
	return err
}

func (s *service) recordRejection(err error) {
	var admErr *AdmissionError
	if errors.As(err, &admErr) {
		s.metrics.AdmissionResult(string(admErr.Kind))
		return
	}
	if errors.Is(err, ErrInvalidTimeRange) {
		s.metrics.AdmissionResult("invalid_time_range")
	}
}

func (s *service) GetByID(ctx context.Context, id string, requesterID string, privileged bool) (*Reservation, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !privileged && r.RequesterID != requesterID {
		return nil, ErrPermissionDenied
	}
	return r, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Cancel(ctx context.Context, id, reason, requesterID string, privileged bool) (*Reservation, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !privileged && r.RequesterID != requesterID {
		return nil, ErrPermissionDenied
	}

	if err := s.Release(ctx, id, reason); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *service) Confirm(ctx context.Context, id string) error {
	return s.transition(ctx, id, StatusConfirmed, nil)
}

func (s *service) Release(ctx context.Context, id, reason string) error {
	return s.transition(ctx, id, StatusCancelled, &reason)
}

func (s *service) Complete(ctx context.Context, id string) error {
	return s.transition(ctx, id, StatusCompleted, nil)
}

// transition moves a reservation into to. The guarded update misses when
// the row is not in an eligible state; a row already in the target state
// is a no-op so retried callbacks and sweeps stay idempotent.
func (s *service) transition(ctx context.Context, id string, to Status, reason *string) error {
	moved, err := s.repo.UpdateStatus(ctx, id, transitionsInto(to), to, reason)
	if err != nil {
		return err
	}
	if moved {
		return nil
	}

	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if r.Status == to {
		return nil
	}
	return ErrInvalidTransition
}

// transitionsInto lists the states Status.CanTransitionTo allows as
// sources for to.
func transitionsInto(to Status) []Status {
	var from []Status
	for _, st := range []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted} {
		if st.CanTransitionTo(to) {
			from = append(from, st)
		}
	}
	return from
}

func (s *service) ExpirePendingOlderThan(ctx context.Context, ttl time.Duration) (int64, error) {
	return s.repo.ExpirePendingBefore(ctx, s.now().Add(-ttl))
}

func monthWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}
