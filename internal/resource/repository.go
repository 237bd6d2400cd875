package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/residesk/amenity-booking-backend/internal/db"
)

type Repository interface {
	Create(ctx context.Context, res *Resource) error
	GetByID(ctx context.Context, id string) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, int, error)
	Update(ctx context.Context, res *Resource) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, res *Resource) error {
	const query = `
		INSERT INTO public.resources (name, description, capacity, hourly_rate, opens_at, closes_at, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := db.QuerierFrom(ctx, r.pool).QueryRow(
		ctx, query,
		res.Name, res.Description, res.Capacity, res.HourlyRate, res.OpensAt, res.ClosesAt, res.Active,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create resource failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Resource, error) {
	const query = `
		SELECT id, name, description, capacity, hourly_rate, opens_at, closes_at, active, created_at, updated_at
		FROM public.resources
		WHERE id = $1
	`
	row := db.QuerierFrom(ctx, r.pool).QueryRow(ctx, query, id)

	var res Resource
	if err := row.Scan(
		&res.ID, &res.Name, &res.Description, &res.Capacity, &res.HourlyRate,
		&res.OpensAt, &res.ClosesAt, &res.Active, &res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get resource failed: %w", err)
	}
	return &res, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "name", "description", "capacity", "hourly_rate",
		"opens_at", "closes_at", "active", "created_at", "updated_at",
		"count(*) OVER() as total_count",
	).From("public.resources")

	if filter.ActiveOnly {
		query = query.Where(squirrel.Eq{"active": true})
	}

	query = query.OrderBy("name ASC")

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
		return nil, 0, fmt.Errorf("build list resources query failed: %w", err)
	}

	rows, err := db.QuerierFrom(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list resources failed: %w", err)
	}
	defer rows.Close()

	var result []*Resource
	var total int

	for rows.Next() {
		var res Resource
		if err := rows.Scan(
			&res.ID, &res.Name, &res.Description, &res.Capacity, &res.HourlyRate,
			&res.OpensAt, &res.ClosesAt, &res.Active, &res.CreatedAt, &res.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan resource failed: %w", err)
		}
		result = append(result, &res)
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, res *Resource) error {
	const query = `
		UPDATE public.resources
		SET name = $1, description = $2, capacity = $3, hourly_rate = $4,
		    opens_at = $5, closes_at = $6, active = $7, updated_at = now()
		WHERE id = $8
	`
	ct, err := db.QuerierFrom(ctx, r.pool).Exec(
		ctx, query,
		res.Name, res.Description, res.Capacity, res.HourlyRate,
		res.OpensAt, res.ClosesAt, res.Active, res.ID,
	)
	if err != nil {
		return fmt.Errorf("update resource failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
