package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/residesk/amenity-booking-backend/internal/delivery"
	"github.com/residesk/amenity-booking-backend/internal/reservation"
)

type Handler struct {
	service delivery.Service
}

func NewHandler(service delivery.Service) *Handler {
	return &Handler{service: service}
}

func reservationID(c *gin.Context) (string, bool) {
	id := c.Param("reservationId")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return "", false
	}
	return id, true
}

func writeServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, delivery.ErrNotFound), errors.Is(err, reservation.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, delivery.ErrAlreadyOpen),
		errors.Is(err, delivery.ErrRecordClosed),
		errors.Is(err, delivery.ErrNotDelivered),
		errors.Is(err, delivery.ErrDamageUnpaid),
		errors.Is(err, delivery.ErrNotConfirmed),
		errors.Is(err, reservation.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, delivery.ErrInvalidAmount),
		errors.Is(err, delivery.ErrMissingDescription):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func (h *Handler) Open(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	var body OpenBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	record, err := h.service.Open(c.Request.Context(), id, body.DeliveryCost, body.Notes)
	if err != nil {
		writeServiceError(c, err, "failed to open delivery record")
		return
	}
	c.JSON(http.StatusCreated, NewResponse(record))
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	record, err := h.service.GetByReservationID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "failed to get delivery record")
		return
	}
	c.JSON(http.StatusOK, NewResponse(record))
}

func (h *Handler) MarkDelivered(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	var body MarkDeliveredBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	record, err := h.service.MarkDelivered(c.Request.Context(), id, body.NotApplicable, body.Notes)
	if err != nil {
		writeServiceError(c, err, "failed to mark delivered")
		return
	}
	c.JSON(http.StatusOK, NewResponse(record))
}

func (h *Handler) MarkDeliveryPaid(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	record, err := h.service.MarkDeliveryPaid(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "failed to mark delivery paid")
		return
	}
	c.JSON(http.StatusOK, NewResponse(record))
}

func (h *Handler) RecordDamage(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	var body DamageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	record, err := h.service.RecordDamage(c.Request.Context(), id, body.Amount, body.Description)
	if err != nil {
		writeServiceError(c, err, "failed to record damage")
		return
	}
	c.JSON(http.StatusOK, NewResponse(record))
}

func (h *Handler) Close(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	record, err := h.service.Close(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "failed to close delivery record")
		return
	}
	c.JSON(http.StatusOK, NewResponse(record))
}
