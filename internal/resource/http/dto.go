package http

import (
	"time"

	"github.com/residesk/amenity-booking-backend/internal/pkg/request"
	"github.com/residesk/amenity-booking-backend/internal/resource"
)

type CreateBody struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Capacity    int     `json:"capacity" binding:"required,min=1"`
	HourlyRate  float64 `json:"hourly_rate" binding:"min=0"`
	OpensAt     string  `json:"opens_at" binding:"required"`
	ClosesAt    string  `json:"closes_at" binding:"required"`
}

type UpdateBody struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Capacity    *int     `json:"capacity" binding:"omitempty,min=1"`
	HourlyRate  *float64 `json:"hourly_rate" binding:"omitempty,min=0"`
	OpensAt     *string  `json:"opens_at"`
	ClosesAt    *string  `json:"closes_at"`
}

type ListRequest struct {
	request.ListParams
	ActiveOnly bool `form:"active_only"`
}

// ResourceTag is the minimal resource reference embedded in other responses.
type ResourceTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Response struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Capacity    int       `json:"capacity"`
	HourlyRate  float64   `json:"hourly_rate"`
	OpensAt     string    `json:"opens_at"`
	ClosesAt    string    `json:"closes_at"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewResponse(res *resource.Resource) Response {
	return Response{
		ID:          res.ID,
		Name:        res.Name,
		Description: res.Description,
		Capacity:    res.Capacity,
		HourlyRate:  res.HourlyRate,
		OpensAt:     res.OpensAt,
		ClosesAt:    res.ClosesAt,
		Active:      res.Active,
		CreatedAt:   res.CreatedAt,
		UpdatedAt:   res.UpdatedAt,
	}
}
