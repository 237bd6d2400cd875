package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/residesk/amenity-booking-backend/internal/auth"
	"github.com/residesk/amenity-booking-backend/internal/pkg/response"
	"github.com/residesk/amenity-booking-backend/internal/reservation"
	"github.com/residesk/amenity-booking-backend/internal/user"
)

type Handler struct {
	service reservation.Service
}

func NewHandler(service reservation.Service) *Handler {
	return &Handler{service: service}
}

func isPrivileged(c *gin.Context) bool {
	return user.Role(auth.GetUserRole(c)).Privileged()
}

// rejectionStatus maps a rejected admission to its HTTP status code.
func rejectionStatus(kind reservation.ErrorKind) int {
	switch kind {
	case reservation.KindUnknownResource:
		return http.StatusNotFound
	case reservation.KindDuplicate, reservation.KindOverlap, reservation.KindQuotaExceeded:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	requesterID := auth.GetUserID(c)
	if requesterID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.Create(c.Request.Context(), reservation.CreateRequest{
		RequesterID: requesterID,
		Privileged:  isPrivileged(c),
		ResourceID:  body.ResourceID,
		Start:       body.StartTime,
		End:         body.EndTime,
	})
	if err != nil {
		var admErr *reservation.AdmissionError
		if errors.As(err, &admErr) {
			c.JSON(rejectionStatus(admErr.Kind), NewRejectionResponse(admErr))
			return
		}
		if errors.Is(err, reservation.ErrInvalidTimeRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create reservation"})
		return
	}

	warnings := result.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	c.JSON(http.StatusCreated, AdmissionResponse{
		Admitted:    true,
		Cost:        result.Reservation.Cost,
		Warnings:    warnings,
		Reservation: NewReservationResponse(result.Reservation),
	})
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), id, auth.GetUserID(c), isPrivileged(c))
	if err != nil {
		switch {
		case errors.Is(err, reservation.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
		case errors.Is(err, reservation.ErrPermissionDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get reservation"})
		}
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(r))
}

func (h *Handler) List(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	// Residents are forced to their own reservations; privileged callers
	// may see all or filter by requester.
	filterRequesterID := auth.GetUserID(c)
	if isPrivileged(c) {
		filterRequesterID = req.RequesterID // may be empty to show all
	}

	reservations, total, err := h.service.List(c.Request.Context(), reservation.Filter{
		RequesterID: filterRequesterID,
		ResourceID:  req.ResourceID,
		Status:      req.Status,
		From:        req.StartTimeFrom,
		To:          req.StartTimeTo,
		Page:        req.Page,
		PageSize:    req.PageSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reservations"})
		return
	}

	items := make([]ReservationResponse, len(reservations))
	for i, r := range reservations {
		items[i] = NewReservationResponse(r)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body CancelBody
	if err := c.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	reason := body.Reason
	if reason == "" {
		reason = "cancelled_by_user"
	}

	r, err := h.service.Cancel(c.Request.Context(), id, reason, auth.GetUserID(c), isPrivileged(c))
	if err != nil {
		switch {
		case errors.Is(err, reservation.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
		case errors.Is(err, reservation.ErrPermissionDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		case errors.Is(err, reservation.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel reservation"})
		}
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(r))
}
