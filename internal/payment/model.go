package payment

import (
	"errors"
	"time"
)

var (
	ErrUnknownOutcome = errors.New("unknown settlement outcome")
	ErrGateway        = errors.New("payment gateway request failed")
)

// Outcome is the result the gateway reports for a payment intent.
type Outcome string

const (
	OutcomeSettled Outcome = "settled"
	OutcomeFailed  Outcome = "failed"
	OutcomeExpired Outcome = "expired"
)

// Purpose distinguishes the primary reservation charge from a damage
// surcharge raised by the delivery ledger.
type Purpose string

const (
	PurposeReservation Purpose = "reservation"
	PurposeDamage      Purpose = "damage"
)

// Intent is a pending charge held by the external gateway.
type Intent struct {
	ID            string    `json:"id"`
	ReservationID string    `json:"reservation_id"`
	Amount        float64   `json:"amount"`
	Purpose       Purpose   `json:"purpose"`
	CreatedAt     time.Time `json:"created_at"`
}
