package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Insert(ctx context.Context, p *Payment) (*Payment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO payments
		(member_id, amount, payment_date, method, status, transaction_reference, notes, membership_plan_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`, p.MemberID, p.Amount, p.PaymentDate, p.Method, p.Status, p.TransactionReference, p.Notes, p.MembershipPlanID)

	if err := row.Scan(&p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Payment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, member_id, amount, payment_date, method, status,
		       transaction_reference, notes, membership_plan_id
		FROM payments WHERE id = $1
	`, id)

	var p Payment
	err := row.Scan(&p.ID, &p.MemberID, &p.Amount, &p.PaymentDate, &p.Method, &p.Status,
		&p.TransactionReference, &p.Notes, &p.MembershipPlanID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repo) SetStatus(ctx context.Context, id int64, status Status) error {
	_, err := r.pool.Exec(ctx, `UPDATE payments SET status = $2 WHERE id = $1`, id, status)
	return err
}

const entrySelect = `
		SELECT p.id, p.member_id, p.amount, p.payment_date, p.method, p.status,
		       p.transaction_reference, p.notes, p.membership_plan_id,
		       m.first_name || ' ' || m.last_name,
		       COALESCE(mp.name, '')
		FROM payments p
		JOIN members m ON m.id = p.member_id
		LEFT JOIN membership_plans mp ON mp.id = p.membership_plan_id`

func scanEntries(rows pgx.Rows) ([]Entry, error) {
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		err := rows.Scan(&e.ID, &e.MemberID, &e.Amount, &e.PaymentDate, &e.Method, &e.Status,
			&e.TransactionReference, &e.Notes, &e.MembershipPlanID, &e.MemberName, &e.PlanName)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// List returns payments newest first, narrowed by the filter.
func (r *Repo) List(ctx context.Context, f Filter) ([]Entry, error) {
	q := entrySelect

	var conds []string
	var args []any
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("p.payment_date::date >= $%d::date", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("p.payment_date::date <= $%d::date", len(args)))
	}
	if f.MemberID != nil {
		args = append(args, *f.MemberID)
		conds = append(conds, fmt.Sprintf("p.member_id = $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		conds = append(conds, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if len(conds) > 0 {
		q += "\n\t\tWHERE " + strings.Join(conds, " AND ")
	}
	q += "\n\t\tORDER BY p.payment_date DESC"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

func (r *Repo) ListPending(ctx context.Context) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, entrySelect+`
		WHERE p.status = $1
		ORDER BY p.payment_date DESC
	`, StatusPending)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}
