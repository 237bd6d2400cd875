package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/residesk/amenity-booking-backend/internal/payment"
	"github.com/residesk/amenity-booking-backend/internal/reservation"
)

type CallbackBody struct {
	ReservationID string `json:"reservation_id" binding:"required,uuid"`
	Outcome       string `json:"outcome" binding:"required,oneof=settled failed expired"`
}

type Handler struct {
	service *payment.Service
}

func NewHandler(service *payment.Service) *Handler {
	return &Handler{service: service}
}

// Callback receives settlement notifications from the payment gateway.
func (h *Handler) Callback(c *gin.Context) {
	var body CallbackBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	err := h.service.HandleSettlement(c.Request.Context(), body.ReservationID, payment.Outcome(body.Outcome))
	if err != nil {
		switch {
		case errors.Is(err, reservation.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
		case errors.Is(err, reservation.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, payment.ErrUnknownOutcome):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to apply settlement"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
