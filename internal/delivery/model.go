package delivery

import (
	"errors"
	"time"
)

// State tracks whether keys or equipment for a reservation have been
// handed over.
type State string

const (
	StatePending       State = "pending"
	StateDelivered     State = "delivered"
	StateNotApplicable State = "not_applicable"
)

// Record is the ledger entry tracking hand-over and damage for one
// reservation. At most one record exists per reservation.
type Record struct {
	ID                string
	ReservationID     string
	State             State
	DeliveryCost      *float64
	DeliveryPaid      bool
	Notes             *string
	DamageAmount      *float64
	DamageDescription *string
	DamagePaymentID   *string
	ClosedAt          *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Closed reports whether the record has been finalized.
func (r *Record) Closed() bool {
	return r.ClosedAt != nil
}

var (
	ErrNotFound           = errors.New("delivery record not found")
	ErrAlreadyOpen        = errors.New("delivery record already exists for this reservation")
	ErrRecordClosed       = errors.New("delivery record is closed")
	ErrNotDelivered       = errors.New("delivery record is still pending hand-over")
	ErrInvalidAmount      = errors.New("damage amount must be positive")
	ErrMissingDescription = errors.New("damage description is required")
	ErrDamageUnpaid       = errors.New("damage charge has no payment intent")
	ErrNotConfirmed       = errors.New("reservation is not confirmed")
)
