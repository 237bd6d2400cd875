package reservation

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound          = errors.New("reservation not found")
	ErrInvalidTimeRange  = errors.New("start time must be before end time")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInvalidTransition = errors.New("invalid reservation state transition")

	// ErrSlotTaken is returned by the repository when the write-time
	// constraint rejects an insert (another writer won the race).
	ErrSlotTaken = errors.New("time slot already reserved")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// CanTransitionTo reports whether the state machine allows moving from s
// to next. Cancelled and completed are terminal.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	}
	return false
}

// Reservation is a hold on a resource for a half-open interval
// [StartTime, EndTime). A reservation ending at 10:00 does not conflict
// with one starting at 10:00.
type Reservation struct {
	ID              string // UUID
	ResourceID      string
	ResourceName    string
	RequesterID     string
	RequesterName   string
	StartTime       time.Time
	EndTime         time.Time
	Cost            float64
	Status          Status
	CancelReason    *string
	PaymentIntentID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Filter defines parameters for listing reservations.
type Filter struct {
	RequesterID string
	ResourceID  string
	Status      string
	From        *time.Time
	To          *time.Time
	Page        int
	PageSize    int
}

// ErrorKind identifies the admission rule that rejected a request.
type ErrorKind string

const (
	KindUnknownResource  ErrorKind = "unknown_resource"
	KindResourceInactive ErrorKind = "resource_inactive"
	KindPastDate         ErrorKind = "past_date"
	KindOutOfHours       ErrorKind = "out_of_hours"
	KindDuplicate        ErrorKind = "duplicate_reservation"
	KindOverlap          ErrorKind = "overlap_conflict"
	KindQuotaExceeded    ErrorKind = "quota_exceeded"
)

// ConflictInfo describes the existing reservation that blocks a request.
type ConflictInfo struct {
	ReservationID string
	OwnerName     string
	Start         time.Time
	End           time.Time
}

// AdmissionError is a rejected admission. All kinds are recoverable by the
// caller; none are fatal to the process.
type AdmissionError struct {
	Kind     ErrorKind
	Message  string
	Conflict *ConflictInfo // set for duplicate and overlap rejections
	Count    int           // set for quota rejections
}

func (e *AdmissionError) Error() string {
	return e.Message
}

func rejectf(kind ErrorKind, format string, args ...any) *AdmissionError {
	return &AdmissionError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
