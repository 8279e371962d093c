package members

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("members: not found")

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const memberColumns = `id, first_name, last_name, email, phone, is_active,
	membership_plan_id, membership_start_date, membership_end_date, created_at, updated_at`

func scanMember(row pgx.Row) (*Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.Phone, &m.IsActive,
		&m.MembershipPlanID, &m.MembershipStartDate, &m.MembershipEndDate, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Member, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id)
	m, err := scanMember(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// Search matches active members by substring on name, email or phone.
func (r *Repo) Search(ctx context.Context, term string, limit int) ([]Member, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+memberColumns+`
		FROM members
		WHERE is_active
		  AND (first_name ILIKE '%' || $1 || '%'
		    OR last_name  ILIKE '%' || $1 || '%'
		    OR email      ILIKE '%' || $1 || '%'
		    OR phone      ILIKE '%' || $1 || '%')
		ORDER BY last_name, first_name
		LIMIT $2
	`, term, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// ListDueSoon returns active members whose membership expires inside
// [from, to], soonest-expiring first.
func (r *Repo) ListDueSoon(ctx context.Context, from, to time.Time) ([]Member, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+memberColumns+`
		FROM members
		WHERE is_active
		  AND membership_end_date IS NOT NULL
		  AND membership_end_date >= $1
		  AND membership_end_date <= $2
		ORDER BY membership_end_date
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// UpdateMembership persists the membership fields touched by a renewal.
func (r *Repo) UpdateMembership(ctx context.Context, m *Member) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE members
		SET membership_plan_id = $2,
		    membership_start_date = $3,
		    membership_end_date = $4,
		    is_active = $5,
		    updated_at = now()
		WHERE id = $1
	`, m.ID, m.MembershipPlanID, m.MembershipStartDate, m.MembershipEndDate, m.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
