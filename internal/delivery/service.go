package delivery

import (
	"context"
	"fmt"

	"github.com/residesk/amenity-booking-backend/internal/reservation"
)

// IntentCreator issues secondary payment intents for damage surcharges.
type IntentCreator interface {
	CreateDamageIntent(ctx context.Context, reservationID string, amount float64) (string, error)
}

// Reservations is the slice of the reservation service the ledger needs:
// status lookups on open and completion on close.
type Reservations interface {
	GetByID(ctx context.Context, id string, requesterID string, privileged bool) (*reservation.Reservation, error)
	Complete(ctx context.Context, id string) error
}

type Service interface {
	// Open starts a ledger record for a confirmed reservation.
	Open(ctx context.Context, reservationID string, deliveryCost *float64, notes *string) (*Record, error)

	GetByReservationID(ctx context.Context, reservationID string) (*Record, error)

	// MarkDelivered records the hand-over. notApplicable marks resources
	// that need no physical delivery (e.g. card-access gyms).
	MarkDelivered(ctx context.Context, reservationID string, notApplicable bool, notes *string) (*Record, error)

	MarkDeliveryPaid(ctx context.Context, reservationID string) (*Record, error)

	// RecordDamage files a damage charge against the reservation and
	// issues a payment intent for it.
	RecordDamage(ctx context.Context, reservationID string, amount float64, description string) (*Record, error)

	// Close finalizes the record and completes the reservation. Fails if
	// hand-over is still pending or a damage charge has no intent.
	Close(ctx context.Context, reservationID string) (*Record, error)
}

type service struct {
	repo         Repository
	reservations Reservations
	intents      IntentCreator
}

func NewService(repo Repository, reservations Reservations, intents IntentCreator) Service {
	return &service{repo: repo, reservations: reservations, intents: intents}
}

func (s *service) Open(ctx context.Context, reservationID string, deliveryCost *float64, notes *string) (*Record, error) {
	res, err := s.reservations.GetByID(ctx, reservationID, "", true)
	if err != nil {
		return nil, err
	}
	if res.Status != reservation.StatusConfirmed {
		return nil, fmt.Errorf("%w: status is %q", ErrNotConfirmed, res.Status)
	}

	record := &Record{
		ReservationID: reservationID,
		State:         StatePending,
		DeliveryCost:  deliveryCost,
		Notes:         notes,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *service) GetByReservationID(ctx context.Context, reservationID string) (*Record, error) {
	return s.repo.GetByReservationID(ctx, reservationID)
}

func (s *service) MarkDelivered(ctx context.Context, reservationID string, notApplicable bool, notes *string) (*Record, error) {
	record, err := s.repo.GetByReservationID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if record.Closed() {
		return nil, ErrRecordClosed
	}

	record.State = StateDelivered
	if notApplicable {
		record.State = StateNotApplicable
	}
	if notes != nil {
		record.Notes = notes
	}
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *service) MarkDeliveryPaid(ctx context.Context, reservationID string) (*Record, error) {
	record, err := s.repo.GetByReservationID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if record.Closed() {
		return nil, ErrRecordClosed
	}

	record.DeliveryPaid = true
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *service) RecordDamage(ctx context.Context, reservationID string, amount float64, description string) (*Record, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if description == "" {
		return nil, ErrMissingDescription
	}

	record, err := s.repo.GetByReservationID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if record.Closed() {
		return nil, ErrRecordClosed
	}

	intentID, err := s.intents.CreateDamageIntent(ctx, reservationID, amount)
	if err != nil {
		return nil, fmt.Errorf("create damage intent failed: %w", err)
	}

	record.DamageAmount = &amount
	record.DamageDescription = &description
	record.DamagePaymentID = &intentID
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *service) Close(ctx context.Context, reservationID string) (*Record, error) {
	record, err := s.repo.GetByReservationID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if record.Closed() {
		return nil, ErrRecordClosed
	}
	if record.State == StatePending {
		return nil, ErrNotDelivered
	}
	if record.DamageAmount != nil && record.DamagePaymentID == nil {
		return nil, ErrDamageUnpaid
	}

	if err := s.reservations.Complete(ctx, reservationID); err != nil {
		return nil, err
	}
	if err := s.repo.Close(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}
