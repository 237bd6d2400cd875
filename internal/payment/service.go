package payment

import (
	"context"
	"fmt"

	"github.com/residesk/amenity-booking-backend/internal/reservation"
)

// Lifecycle is the slice of the reservation service the coordinator drives
// on settlement callbacks.
type Lifecycle interface {
	Confirm(ctx context.Context, id string) error
	Release(ctx context.Context, id, reason string) error
}

// Service coordinates the external gateway with the reservation lifecycle:
// it issues intents for admitted reservations and applies settlement
// outcomes. It implements reservation.Coordinator.
type Service struct {
	gateway   Gateway
	lifecycle Lifecycle
}

func NewService(gateway Gateway) *Service {
	return &Service{gateway: gateway}
}

// Bind attaches the reservation lifecycle. Called once during startup;
// needed because the reservation service and the coordinator reference
// each other.
func (s *Service) Bind(lifecycle Lifecycle) {
	s.lifecycle = lifecycle
}

// OnReservationAdmitted issues a payment intent for a freshly admitted
// reservation.
func (s *Service) OnReservationAdmitted(ctx context.Context, r *reservation.Reservation) (string, error) {
	intent, err := s.gateway.CreateIntent(ctx, r.ID, r.Cost, PurposeReservation)
	if err != nil {
		return "", err
	}
	return intent.ID, nil
}

// CreateDamageIntent issues a secondary intent for a damage surcharge.
func (s *Service) CreateDamageIntent(ctx context.Context, reservationID string, amount float64) (string, error) {
	intent, err := s.gateway.CreateIntent(ctx, reservationID, amount, PurposeDamage)
	if err != nil {
		return "", err
	}
	return intent.ID, nil
}

// HandleSettlement applies a gateway callback to the reservation. Failed or
// expired payments release the hold so the slot becomes bookable again.
func (s *Service) HandleSettlement(ctx context.Context, reservationID string, outcome Outcome) error {
	switch outcome {
	case OutcomeSettled:
		return s.lifecycle.Confirm(ctx, reservationID)
	case OutcomeFailed, OutcomeExpired:
		return s.lifecycle.Release(ctx, reservationID, "payment_failed")
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutcome, outcome)
	}
}
