package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/residesk/amenity-booking-backend/internal/pkg/response"
	"github.com/residesk/amenity-booking-backend/internal/resource"
)

type Handler struct {
	service resource.Service
}

func NewHandler(service resource.Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, resource.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
	case errors.Is(err, resource.ErrEmptyName),
		errors.Is(err, resource.ErrInvalidCapacity),
		errors.Is(err, resource.ErrNegativeRate),
		errors.Is(err, resource.ErrInvalidHours),
		errors.Is(err, resource.ErrInvalidClock):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	res, err := h.service.Create(c.Request.Context(), resource.CreateRequest{
		Name:        body.Name,
		Description: body.Description,
		Capacity:    body.Capacity,
		HourlyRate:  body.HourlyRate,
		OpensAt:     body.OpensAt,
		ClosesAt:    body.ClosesAt,
	})
	if err != nil {
		writeServiceError(c, err, "failed to create resource")
		return
	}

	c.JSON(http.StatusCreated, NewResponse(res))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	res, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "failed to get resource")
		return
	}

	c.JSON(http.StatusOK, NewResponse(res))
}

func (h *Handler) List(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	resources, total, err := h.service.List(c.Request.Context(), resource.Filter{
		ActiveOnly: req.ActiveOnly,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list resources"})
		return
	}

	items := make([]Response, len(resources))
	for i, res := range resources {
		items[i] = NewResponse(res)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := h.service.Update(c.Request.Context(), id, resource.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
		Capacity:    body.Capacity,
		HourlyRate:  body.HourlyRate,
		OpensAt:     body.OpensAt,
		ClosesAt:    body.ClosesAt,
	})
	if err != nil {
		writeServiceError(c, err, "failed to update resource")
		return
	}

	c.JSON(http.StatusOK, NewResponse(res))
}

func (h *Handler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *Handler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

func (h *Handler) setActive(c *gin.Context, active bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var res *resource.Resource
	var err error
	if active {
		res, err = h.service.Activate(c.Request.Context(), id)
	} else {
		res, err = h.service.Deactivate(c.Request.Context(), id)
	}
	if err != nil {
		writeServiceError(c, err, "failed to change resource state")
		return
	}

	c.JSON(http.StatusOK, NewResponse(res))
}
