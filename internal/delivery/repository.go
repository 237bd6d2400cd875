package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/residesk/amenity-booking-backend/internal/db"
)

type Repository interface {
	Create(ctx context.Context, record *Record) error
	GetByReservationID(ctx context.Context, reservationID string) (*Record, error)
	Update(ctx context.Context, record *Record) error
	Close(ctx context.Context, record *Record) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const recordColumns = `
	id, reservation_id, state, delivery_cost, delivery_paid, notes,
	damage_amount, damage_description, damage_payment_id,
	closed_at, created_at, updated_at
`

func scanRecord(row pgx.Row, record *Record) error {
	return row.Scan(
		&record.ID, &record.ReservationID, &record.State,
		&record.DeliveryCost, &record.DeliveryPaid, &record.Notes,
		&record.DamageAmount, &record.DamageDescription, &record.DamagePaymentID,
		&record.ClosedAt, &record.CreatedAt, &record.UpdatedAt,
	)
}

func (r *pgxRepository) Create(ctx context.Context, record *Record) error {
	const query = `
		INSERT INTO public.delivery_records (reservation_id, state, delivery_cost, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, delivery_paid, created_at, updated_at
	`
	err := db.QuerierFrom(ctx, r.pool).QueryRow(
		ctx, query,
		record.ReservationID, record.State, record.DeliveryCost, record.Notes,
	).Scan(&record.ID, &record.DeliveryPaid, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrAlreadyOpen
		}
		return fmt.Errorf("create delivery record failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByReservationID(ctx context.Context, reservationID string) (*Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM public.delivery_records
		WHERE reservation_id = $1
	`
	row := db.QuerierFrom(ctx, r.pool).QueryRow(ctx, query, reservationID)

	var record Record
	if err := scanRecord(row, &record); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get delivery record failed: %w", err)
	}
	return &record, nil
}

func (r *pgxRepository) Update(ctx context.Context, record *Record) error {
	const query = `
		UPDATE public.delivery_records
		SET state = $2, delivery_cost = $3, delivery_paid = $4, notes = $5,
			damage_amount = $6, damage_description = $7, damage_payment_id = $8,
			updated_at = now()
		WHERE id = $1 AND closed_at IS NULL
		RETURNING updated_at
	`
	err := db.QuerierFrom(ctx, r.pool).QueryRow(
		ctx, query,
		record.ID, record.State, record.DeliveryCost, record.DeliveryPaid, record.Notes,
		record.DamageAmount, record.DamageDescription, record.DamagePaymentID,
	).Scan(&record.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrRecordClosed
		}
		return fmt.Errorf("update delivery record failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Close(ctx context.Context, record *Record) error {
	const query = `
		UPDATE public.delivery_records
		SET closed_at = now(), updated_at = now()
		WHERE id = $1 AND closed_at IS NULL
		RETURNING closed_at, updated_at
	`
	err := db.QuerierFrom(ctx, r.pool).QueryRow(ctx, query, record.ID).
		Scan(&record.ClosedAt, &record.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrRecordClosed
		}
		return fmt.Errorf("close delivery record failed: %w", err)
	}
	return nil
}
