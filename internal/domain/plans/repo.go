package plans

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) GetByID(ctx context.Context, id int64) (*Plan, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, duration_in_days, price, is_active
		FROM membership_plans WHERE id = $1
	`, id)

	var p Plan
	if err := row.Scan(&p.ID, &p.Name, &p.DurationInDays, &p.Price, &p.IsActive); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repo) ListActive(ctx context.Context) ([]Plan, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, duration_in_days, price, is_active
		FROM membership_plans
		WHERE is_active
		ORDER BY duration_in_days, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Plan
	for rows.Next() {
		var p Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.DurationInDays, &p.Price, &p.IsActive); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
