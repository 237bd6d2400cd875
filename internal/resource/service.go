package resource

import (
	"context"
	"strings"
)

type CreateRequest struct {
	Name        string
	Description *string
	Capacity    int
	HourlyRate  float64
	OpensAt     string
	ClosesAt    string
}

type UpdateRequest struct {
	Name        *string
	Description *string
	Capacity    *int
	HourlyRate  *float64
	OpensAt     *string
	ClosesAt    *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Resource, error)
	GetByID(ctx context.Context, id string) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Resource, error)
	Deactivate(ctx context.Context, id string) (*Resource, error)
	Activate(ctx context.Context, id string) (*Resource, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validateHours(opensAt, closesAt string) error {
	opens, err := ParseClock(opensAt)
	if err != nil {
		return err
	}
	closes, err := ParseClock(closesAt)
	if err != nil {
		return err
	}
	if opens >= closes {
		return ErrInvalidHours
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Resource, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if req.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if req.HourlyRate < 0 {
		return nil, ErrNegativeRate
	}
	if err := validateHours(req.OpensAt, req.ClosesAt); err != nil {
		return nil, err
	}

	res := &Resource{
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
		HourlyRate:  req.HourlyRate,
		OpensAt:     req.OpensAt,
		ClosesAt:    req.ClosesAt,
		Active:      true,
	}

	if err := s.repo.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Resource, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Resource, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		res.Name = *req.Name
	}
	if req.Description != nil {
		res.Description = req.Description
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, ErrInvalidCapacity
		}
		res.Capacity = *req.Capacity
	}
	if req.HourlyRate != nil {
		if *req.HourlyRate < 0 {
			return nil, ErrNegativeRate
		}
		res.HourlyRate = *req.HourlyRate
	}
	if req.OpensAt != nil {
		res.OpensAt = *req.OpensAt
	}
	if req.ClosesAt != nil {
		res.ClosesAt = *req.ClosesAt
	}
	if req.OpensAt != nil || req.ClosesAt != nil {
		if err := validateHours(res.OpensAt, res.ClosesAt); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Deactivate soft-deletes a resource: existing reservations keep their
// history, new admissions are rejected.
func (s *service) Deactivate(ctx context.Context, id string) (*Resource, error) {
	return s.setActive(ctx, id, false)
}

func (s *service) Activate(ctx context.Context, id string) (*Resource, error) {
	return s.setActive(ctx, id, true)
}

func (s *service) setActive(ctx context.Context, id string, active bool) (*Resource, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res.Active = active
	if err := s.repo.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}
