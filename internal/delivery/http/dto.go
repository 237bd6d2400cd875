package http

import (
	"time"

	"github.com/residesk/amenity-booking-backend/internal/delivery"
)

type OpenBody struct {
	DeliveryCost *float64 `json:"delivery_cost" binding:"omitempty,min=0"`
	Notes        *string  `json:"notes"`
}

type MarkDeliveredBody struct {
	NotApplicable bool    `json:"not_applicable"`
	Notes         *string `json:"notes"`
}

type DamageBody struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description" binding:"required"`
}

type Response struct {
	ID                string     `json:"id"`
	ReservationID     string     `json:"reservation_id"`
	State             string     `json:"state"`
	DeliveryCost      *float64   `json:"delivery_cost"`
	DeliveryPaid      bool       `json:"delivery_paid"`
	Notes             *string    `json:"notes"`
	DamageAmount      *float64   `json:"damage_amount"`
	DamageDescription *string    `json:"damage_description"`
	DamagePaymentID   *string    `json:"damage_payment_id"`
	ClosedAt          *time.Time `json:"closed_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func NewResponse(record *delivery.Record) Response {
	return Response{
		ID:                record.ID,
		ReservationID:     record.ReservationID,
		State:             string(record.State),
		DeliveryCost:      record.DeliveryCost,
		DeliveryPaid:      record.DeliveryPaid,
		Notes:             record.Notes,
		DamageAmount:      record.DamageAmount,
		DamageDescription: record.DamageDescription,
		DamagePaymentID:   record.DamagePaymentID,
		ClosedAt:          record.ClosedAt,
		CreatedAt:         record.CreatedAt,
		UpdatedAt:         record.UpdatedAt,
	}
}
