package http

import (
	"time"

	"github.com/residesk/amenity-booking-backend/internal/pkg/request"
	"github.com/residesk/amenity-booking-backend/internal/reservation"
	resHttp "github.com/residesk/amenity-booking-backend/internal/resource/http"
	userHttp "github.com/residesk/amenity-booking-backend/internal/user/http"
)

type CreateBody struct {
	ResourceID string    `json:"resource_id" binding:"required,uuid"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
}

type CancelBody struct {
	Reason string `json:"reason"`
}

type ListRequest struct {
	request.ListParams
	ResourceID    string     `form:"resource_id" binding:"omitempty,uuid"`
	Status        string     `form:"status" binding:"omitempty,oneof=pending confirmed cancelled completed"`
	RequesterID   string     `form:"requester_id" binding:"omitempty,uuid"`
	StartTimeFrom *time.Time `form:"start_time_from" time_format:"2006-01-02T15:04:05Z07:00"`
	StartTimeTo   *time.Time `form:"start_time_to" time_format:"2006-01-02T15:04:05Z07:00"`
}

type ReservationResponse struct {
	ID              string              `json:"id"`
	Resource        resHttp.ResourceTag `json:"resource"`
	Requester       userHttp.UserTag    `json:"requester"`
	StartTime       time.Time           `json:"start_time"`
	EndTime         time.Time           `json:"end_time"`
	Cost            float64             `json:"cost"`
	Status          string              `json:"status"`
	CancelReason    *string             `json:"cancel_reason,omitempty"`
	PaymentIntentID *string             `json:"payment_intent_id,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func NewReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:              r.ID,
		Resource:        resHttp.ResourceTag{ID: r.ResourceID, Name: r.ResourceName},
		Requester:       userHttp.UserTag{ID: r.RequesterID, Name: r.RequesterName},
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		Cost:            r.Cost,
		Status:          string(r.Status),
		CancelReason:    r.CancelReason,
		PaymentIntentID: r.PaymentIntentID,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// AdmissionResponse is the success payload of POST /reservations.
type AdmissionResponse struct {
	Admitted    bool                `json:"admitted"`
	Cost        float64             `json:"cost"`
	Warnings    []string            `json:"warnings"`
	Reservation ReservationResponse `json:"reservation"`
}

// ConflictResponse names the existing reservation that blocked a request.
type ConflictResponse struct {
	ReservationID string    `json:"reservation_id"`
	OwnerName     string    `json:"owner_name"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
}

// RejectionResponse is the failure payload of POST /reservations.
type RejectionResponse struct {
	Admitted  bool              `json:"admitted"`
	ErrorKind string            `json:"error_kind"`
	Message   string            `json:"message"`
	Count     *int              `json:"count,omitempty"`
	Conflict  *ConflictResponse `json:"conflict,omitempty"`
}

func NewRejectionResponse(e *reservation.AdmissionError) RejectionResponse {
	resp := RejectionResponse{
		Admitted:  false,
		ErrorKind: string(e.Kind),
		Message:   e.Message,
	}
	if e.Kind == reservation.KindQuotaExceeded {
		count := e.Count
		resp.Count = &count
	}
	if e.Conflict != nil {
		resp.Conflict = &ConflictResponse{
			ReservationID: e.Conflict.ReservationID,
			OwnerName:     e.Conflict.OwnerName,
			Start:         e.Conflict.Start,
			End:           e.Conflict.End,
		}
	}
	return resp
}
