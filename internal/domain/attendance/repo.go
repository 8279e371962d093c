package attendance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Insert(ctx context.Context, memberID int64, checkIn time.Time, notes string) (*Attendance, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO attendance (member_id, check_in_time, notes)
		VALUES ($1, $2, $3)
		RETURNING id, member_id, check_in_time, check_out_time, notes
	`, memberID, checkIn, notes)

	var a Attendance
	if err := row.Scan(&a.ID, &a.MemberID, &a.CheckInTime, &a.CheckOutTime, &a.Notes); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Attendance, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, member_id, check_in_time, check_out_time, notes
		FROM attendance WHERE id = $1
	`, id)

	var a Attendance
	if err := row.Scan(&a.ID, &a.MemberID, &a.CheckInTime, &a.CheckOutTime, &a.Notes); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// FindOpenByMember returns the member's open visit, if any.
func (r *Repo) FindOpenByMember(ctx context.Context, memberID int64) (*Attendance, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, member_id, check_in_time, check_out_time, notes
		FROM attendance
		WHERE member_id = $1 AND check_out_time IS NULL
		LIMIT 1
	`, memberID)

	var a Attendance
	if err := row.Scan(&a.ID, &a.MemberID, &a.CheckInTime, &a.CheckOutTime, &a.Notes); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Close stamps the check-out time. The guard keeps a closed visit closed
// even if two requests race.
func (r *Repo) Close(ctx context.Context, id int64, checkOut time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE attendance
		SET check_out_time = $2
		WHERE id = $1 AND check_out_time IS NULL
	`, id, checkOut)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyCheckedOut
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	return err
}

// List returns attendance entries newest first, narrowed by the filter.
func (r *Repo) List(ctx context.Context, f Filter) ([]Entry, error) {
	q := `
		SELECT a.id, a.member_id, a.check_in_time, a.check_out_time, a.notes,
		       m.first_name || ' ' || m.last_name
		FROM attendance a
		JOIN members m ON m.id = a.member_id`

	var conds []string
	var args []any
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("a.check_in_time::date >= $%d::date", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("a.check_in_time::date <= $%d::date", len(args)))
	}
	if f.MemberID != nil {
		args = append(args, *f.MemberID)
		conds = append(conds, fmt.Sprintf("a.member_id = $%d", len(args)))
	}
	if len(conds) > 0 {
		q += "\n\t\tWHERE " + strings.Join(conds, " AND ")
	}
	q += "\n\t\tORDER BY a.check_in_time DESC"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.MemberID, &e.CheckInTime, &e.CheckOutTime, &e.Notes, &e.MemberName); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
