package reservation

import (
	"time"

	"github.com/residesk/amenity-booking-backend/internal/resource"
)

// AdmissionInput is the snapshot the engine decides on. All reads must come
// from the same transaction that will write the reservation, otherwise the
// decision is made on stale data.
type AdmissionInput struct {
	Resource    *resource.Resource
	RequesterID string
	Privileged  bool
	Start       time.Time
	End         time.Time

	// Existing holds the non-cancelled reservations for the resource that
	// intersect [Start, End).
	Existing []*Reservation
	// MonthCount is the requester's active reservation count in the
	// calendar month of Start.
	MonthCount int
	// HasSameDay reports whether the requester already holds an active
	// reservation on the same calendar date (any resource).
	HasSameDay bool
}

// Verdict is a successful admission: the quoted cost and any non-fatal
// warnings the caller may surface for confirmation.
type Verdict struct {
	Cost     float64
	Warnings []string
}

// Engine applies the admission rules in a fixed order; the first failing
// check wins. It holds policy only, no I/O, so every entry point shares one
// implementation of the rules.
type Engine struct {
	loc              *time.Location
	quotaCap         int
	exemptPrivileged bool
	now              func() time.Time
}

func NewEngine(loc *time.Location, quotaCap int, exemptPrivileged bool) *Engine {
	return &Engine{
		loc:              loc,
		quotaCap:         quotaCap,
		exemptPrivileged: exemptPrivileged,
		now:              time.Now,
	}
}

// Evaluate returns a verdict for the proposed reservation, or an
// AdmissionError naming the rejecting rule.
//
// Check order: time range, resource active, past date, operating hours,
// exact duplicate, overlap, quota. The same-day check is advisory and only
// adds a warning.
func (e *Engine) Evaluate(in AdmissionInput) (*Verdict, error) {
	if !in.Start.Before(in.End) {
		return nil, ErrInvalidTimeRange
	}

	if !in.Resource.Active {
		return nil, rejectf(KindResourceInactive, "%s is not accepting reservations", in.Resource.Name)
	}

	// Date-only comparison: booking later today is fine, booking yesterday
	// is not, regardless of the current time of day.
	today := dateOf(e.now(), e.loc)
	if dateOf(in.Start, e.loc).Before(today) {
		return nil, rejectf(KindPastDate, "cannot reserve a date in the past")
	}

	if err := e.checkOperatingHours(in); err != nil {
		return nil, err
	}

	// Exact duplicate outranks generic overlap: it usually indicates a
	// client retry or double submit, not a genuine scheduling conflict.
	for _, ex := range in.Existing {
		if ex.StartTime.Equal(in.Start) && ex.EndTime.Equal(in.End) {
			return nil, &AdmissionError{
				Kind:     KindDuplicate,
				Message:  "an identical reservation already exists",
				Conflict: conflictInfo(ex),
			}
		}
	}

	for _, ex := range in.Existing {
		if ex.StartTime.Before(in.End) && ex.EndTime.After(in.Start) {
			return nil, &AdmissionError{
				Kind:     KindOverlap,
				Message:  "the requested time overlaps an existing reservation",
				Conflict: conflictInfo(ex),
			}
		}
	}

	if !(in.Privileged && e.exemptPrivileged) && in.MonthCount >= e.quotaCap {
		return nil, &AdmissionError{
			Kind:    KindQuotaExceeded,
			Message: "monthly reservation limit reached",
			Count:   in.MonthCount,
		}
	}

	v := &Verdict{
		Cost: in.End.Sub(in.Start).Hours() * in.Resource.HourlyRate,
	}
	if in.HasSameDay {
		v.Warnings = append(v.Warnings, "you already have a reservation on this date")
	}

	return v, nil
}

func (e *Engine) checkOperatingHours(in AdmissionInput) error {
	start := in.Start.In(e.loc)
	end := in.End.In(e.loc)

	// Slots must fit within one operating day.
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	if sy != ey || sm != em || sd != ed {
		return rejectf(KindOutOfHours, "reservation must end by closing time (%s)", in.Resource.ClosesAt)
	}

	// Full-resolution comparison: a slot running even seconds past
	// closing is out of hours.
	dayStart := time.Date(sy, sm, sd, 0, 0, 0, 0, e.loc)
	opens := dayStart.Add(time.Duration(in.Resource.OpensAtMinutes()) * time.Minute)
	closes := dayStart.Add(time.Duration(in.Resource.ClosesAtMinutes()) * time.Minute)

	if start.Before(opens) {
		return rejectf(KindOutOfHours, "reservation starts before opening time (%s)", in.Resource.OpensAt)
	}
	if end.After(closes) {
		return rejectf(KindOutOfHours, "reservation must end by closing time (%s)", in.Resource.ClosesAt)
	}
	return nil
}

func conflictInfo(r *Reservation) *ConflictInfo {
	return &ConflictInfo{
		ReservationID: r.ID,
		OwnerName:     r.RequesterName,
		Start:         r.StartTime,
		End:           r.EndTime,
	}
}

func dateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
