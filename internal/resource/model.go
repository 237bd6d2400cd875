package resource

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound        = errors.New("resource not found")
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrInvalidCapacity = errors.New("capacity must be positive")
	ErrNegativeRate    = errors.New("hourly rate cannot be negative")
	ErrInvalidHours    = errors.New("opening time must be before closing time")
	ErrInvalidClock    = errors.New("time of day must be in HH:MM format")
)

// Resource represents a bookable common area (e.g., Pool, Gym, Event Hall).
// Inactive resources admit no new reservations but retain history; resources
// are never hard-deleted while reservations reference them.
type Resource struct {
	ID          string // UUID
	Name        string
	Description *string
	Capacity    int
	HourlyRate  float64
	OpensAt     string // time of day, "HH:MM"
	ClosesAt    string // time of day, "HH:MM"
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OpensAtMinutes returns the opening time as minutes since midnight.
// The stored value is validated on write, so parsing cannot fail here.
func (r *Resource) OpensAtMinutes() int {
	m, _ := ParseClock(r.OpensAt)
	return m
}

// ClosesAtMinutes returns the closing time as minutes since midnight.
func (r *Resource) ClosesAtMinutes() int {
	m, _ := ParseClock(r.ClosesAt)
	return m
}

// ParseClock parses a "HH:MM" time of day into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Filter defines parameters for listing resources.
type Filter struct {
	ActiveOnly bool
	Page       int
	PageSize   int
}
