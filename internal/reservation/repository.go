package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/residesk/amenity-booking-backend/internal/db"
)

type Repository interface {
	Create(ctx context.Context, r *Reservation) error
	GetByID(ctx context.Context, id string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)

	// ListForConflictCheck returns the non-cancelled reservations for the
	// resource intersecting [start, end), with their rows locked so the
	// admission decision and the subsequent insert see a consistent
	// snapshot. Must be called inside a transaction.
	ListForConflictCheck(ctx context.Context, resourceID string, start, end time.Time) ([]*Reservation, error)

	// CountActiveInMonth counts the requester's non-cancelled reservations
	// whose start falls within [monthStart, monthEnd).
	CountActiveInMonth(ctx context.Context, requesterID string, monthStart, monthEnd time.Time) (int, error)

	// HasActiveBetween reports whether the requester holds any non-cancelled
	// reservation starting within [from, to), on any resource.
	HasActiveBetween(ctx context.Context, requesterID string, from, to time.Time) (bool, error)

	// UpdateStatus moves the reservation from one of the given states to the
	// target state. Returns false when the reservation was in none of them.
	UpdateStatus(ctx context.Context, id string, from []Status, to Status, reason *string) (bool, error)

	SetPaymentIntent(ctx context.Context, id, intentID string) error

	// ExpirePendingBefore cancels pending reservations created before cutoff.
	// Idempotent: already-transitioned rows are simply not matched.
	ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, res *Reservation) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.reservations").
		Columns("resource_id", "requester_id", "start_time", "end_time", "cost", "status").
		Values(res.ResourceID, res.RequesterID, res.StartTime, res.EndTime, res.Cost, res.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create reservation query failed: %w", err)
	}

	err = db.QuerierFrom(ctx, r.pool).QueryRow(ctx, query, args...).
		Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrSlotTaken
		}
		return fmt.Errorf("create reservation failed: %w", err)
	}
	return nil
}

const reservationSelect = `
	SELECT r.id, r.resource_id, res.name, r.requester_id,
	       COALESCE(u.display_name, u.email),
	       r.start_time, r.end_time, r.cost, r.status, r.cancel_reason,
	       r.payment_intent_id, r.created_at, r.updated_at
	FROM public.reservations r
	JOIN public.resources res ON r.resource_id = res.id
	JOIN public.users u ON r.requester_id = u.id
`

func scanReservation(row pgx.Row) (*Reservation, error) {
	var res Reservation
	err := row.Scan(
		&res.ID, &res.ResourceID, &res.ResourceName, &res.RequesterID, &res.RequesterName,
		&res.StartTime, &res.EndTime, &res.Cost, &res.Status, &res.CancelReason,
		&res.PaymentIntentID, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan reservation failed: %w", err)
	}
	return &res, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	query := reservationSelect + " WHERE r.id = $1"
	return scanReservation(db.QuerierFrom(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *pgxRepository) ListForConflictCheck(ctx context.Context, resourceID string, start, end time.Time) ([]*Reservation, error) {
	// Half-open overlap predicate: existing.start < end AND existing.end > start.
	// FOR UPDATE OF r locks the matched reservation rows for the rest of
	// the transaction.
	query := reservationSelect + `
		WHERE r.resource_id = $1
		  AND r.status <> 'cancelled'
		  AND r.start_time < $2
		  AND r.end_time > $3
		FOR UPDATE OF r
	`

	rows, err := db.QuerierFrom(ctx, r.pool).Query(ctx, query, resourceID, end, start)
	if err != nil {
		return nil, fmt.Errorf("conflict check query failed: %w", err)
	}
	defer rows.Close()

	var result []*Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, res)
	}
	return result, nil
}

func (r *pgxRepository) CountActiveInMonth(ctx context.Context, requesterID string, monthStart, monthEnd time.Time) (int, error) {
	const query = `
		SELECT count(*)
		FROM public.reservations
		WHERE requester_id = $1
		  AND status <> 'cancelled'
		  AND start_time >= $2
		  AND start_time < $3
	`

	var count int
	err := db.QuerierFrom(ctx, r.pool).QueryRow(ctx, query, requesterID, monthStart, monthEnd).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active reservations failed: %w", err)
	}
	return count, nil
}

func (r *pgxRepository) HasActiveBetween(ctx context.Context, requesterID string, from, to time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1
			FROM public.reservations
			WHERE requester_id = $1
			  AND status <> 'cancelled'
			  AND start_time >= $2
			  AND start_time < $3
		)
	`

	var exists bool
	err := db.QuerierFrom(ctx, r.pool).QueryRow(ctx, query, requesterID, from, to).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("same-day reservation check failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"r.id", "r.resource_id", "res.name", "r.requester_id",
		"COALESCE(u.display_name, u.email)",
		"r.start_time", "r.end_time", "r.cost", "r.status", "r.cancel_reason",
		"r.payment_intent_id", "r.created_at", "r.updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.reservations r").
		Join("public.resources res ON r.resource_id = res.id").
		Join("public.users u ON r.requester_id = u.id")

	if filter.RequesterID != "" {
		query = query.Where(squirrel.Eq{"r.requester_id": filter.RequesterID})
	}
	if filter.ResourceID != "" {
		query = query.Where(squirrel.Eq{"r.resource_id": filter.ResourceID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"r.status": filter.Status})
	}
	// Date range filtering (intersection logic)
	if filter.From != nil {
		query = query.Where(squirrel.GtOrEq{"r.end_time": filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.LtOrEq{"r.start_time": filter.To})
	}

	query = query.OrderBy("r.start_time DESC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list reservations query failed: %w", err)
	}

	rows, err := db.QuerierFrom(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations failed: %w", err)
	}
	defer rows.Close()

	var reservations []*Reservation
	var total int

	for rows.Next() {
		var res Reservation
		if err := rows.Scan(
			&res.ID, &res.ResourceID, &res.ResourceName, &res.RequesterID, &res.RequesterName,
			&res.StartTime, &res.EndTime, &res.Cost, &res.Status, &res.CancelReason,
			&res.PaymentIntentID, &res.CreatedAt, &res.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan reservation failed: %w", err)
		}
		reservations = append(reservations, &res)
	}

	return reservations, total, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, from []Status, to Status, reason *string) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	update := psql.Update("public.reservations").
		Set("status", to).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "status": from})

	if reason != nil {
		update = update.Set("cancel_reason", *reason)
	}

	query, args, err := update.ToSql()
	if err != nil {
		return false, fmt.Errorf("build update status query failed: %w", err)
	}

	ct, err := db.QuerierFrom(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update reservation status failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgxRepository) SetPaymentIntent(ctx context.Context, id, intentID string) error {
	const query = `
		UPDATE public.reservations
		SET payment_intent_id = $1, updated_at = now()
		WHERE id = $2
	`

	ct, err := db.QuerierFrom(ctx, r.pool).Exec(ctx, query, intentID, id)
	if err != nil {
		return fmt.Errorf("set payment intent failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `
		UPDATE public.reservations
		SET status = 'cancelled', cancel_reason = 'hold_expired', updated_at = now()
		WHERE status = 'pending'
		  AND created_at < $1
	`

	ct, err := db.QuerierFrom(ctx, r.pool).Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("expire pending reservations failed: %w", err)
	}
	return ct.RowsAffected(), nil
}
