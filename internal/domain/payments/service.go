package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gymdesk/gymdesk/internal/domain/members"
	"github.com/gymdesk/gymdesk/internal/domain/membership"
	"github.com/gymdesk/gymdesk/internal/domain/plans"
)

var (
	ErrNotFound      = errors.New("payments: not found")
	ErrInvalidAmount = errors.New("payments: amount must be greater than zero")
)

const dueSoonDays = 7

// Store is the payment persistence the service relies on.
type Store interface {
	Insert(ctx context.Context, p *Payment) (*Payment, error)
	GetByID(ctx context.Context, id int64) (*Payment, error)
	SetStatus(ctx context.Context, id int64, status Status) error
	List(ctx context.Context, f Filter) ([]Entry, error)
	ListPending(ctx context.Context) ([]Entry, error)
}

// MemberStore is the slice of the members repo the service needs.
type MemberStore interface {
	GetByID(ctx context.Context, id int64) (*members.Member, error)
	UpdateMembership(ctx context.Context, m *members.Member) error
	ListDueSoon(ctx context.Context, from, to time.Time) ([]members.Member, error)
}

// PlanStore is the slice of the plans repo the service needs.
type PlanStore interface {
	GetByID(ctx context.Context, id int64) (*plans.Plan, error)
}

type CreateInput struct {
	MemberID             int64
	Amount               float64
	Method               Method
	Status               Status
	MembershipPlanID     *int64
	TransactionReference string
	Notes                string
}

// Service is the payment workflow.
type Service interface {
	Create(ctx context.Context, in CreateInput) (*Payment, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (*Payment, error)
	List(ctx context.Context, f Filter) ([]Entry, error)
	ListPending(ctx context.Context) ([]Entry, error)
	DueMembers(ctx context.Context) ([]members.Member, error)
}

type service struct {
	store   Store
	members MemberStore
	plans   PlanStore
	log     *slog.Logger
	loc     *time.Location
	now     func() time.Time
}

func NewService(store Store, ms MemberStore, ps PlanStore, log *slog.Logger, loc *time.Location) Service {
	return &service{
		store:   store,
		members: ms,
		plans:   ps,
		log:     log,
		loc:     loc,
		now:     time.Now,
	}
}

// Create records the payment in whatever status it arrives in; pending
// payments are kept, not rejected. A completed payment that names a plan
// renews the member's membership on the spot.
func (s *service) Create(ctx context.Context, in CreateInput) (*Payment, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	p := &Payment{
		MemberID:             in.MemberID,
		Amount:               in.Amount,
		PaymentDate:          s.now().In(s.loc),
		Method:               in.Method,
		Status:               in.Status,
		TransactionReference: in.TransactionReference,
		Notes:                in.Notes,
		MembershipPlanID:     in.MembershipPlanID,
	}
	if _, err := s.store.Insert(ctx, p); err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}
	s.log.Info("payment recorded", "payment_id", p.ID, "member_id", p.MemberID, "status", p.Status)

	if p.Status == StatusCompleted && p.MembershipPlanID != nil {
		if err := s.renewMembership(ctx, p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// UpdateStatus moves a payment to a new status. Every transition into
// completed with a plan attached re-applies the renewal; a payment
// completed twice extends the membership twice.
func (s *service) UpdateStatus(ctx context.Context, id int64, status Status) (*Payment, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}

	if err := s.store.SetStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("set payment status: %w", err)
	}
	p.Status = status
	s.log.Info("payment status updated", "payment_id", id, "status", status)

	if status == StatusCompleted && p.MembershipPlanID != nil {
		if err := s.renewMembership(ctx, p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// renewMembership applies the plan to the member. When either side of
// the renewal fails to resolve the payment stays recorded and the
// renewal is skipped.
func (s *service) renewMembership(ctx context.Context, p *Payment) error {
	m, err := s.members.GetByID(ctx, p.MemberID)
	if err != nil {
		return fmt.Errorf("get member: %w", err)
	}
	plan, err := s.plans.GetByID(ctx, *p.MembershipPlanID)
	if err != nil {
		return fmt.Errorf("get plan: %w", err)
	}
	if m == nil || plan == nil {
		s.log.Warn("skipping renewal, member or plan missing",
			"payment_id", p.ID, "member_id", p.MemberID, "plan_id", *p.MembershipPlanID)
		return nil
	}

	membership.Renew(m, plan, s.now().In(s.loc))
	if err := s.members.UpdateMembership(ctx, m); err != nil {
		return fmt.Errorf("update membership: %w", err)
	}
	s.log.Info("membership renewed",
		"member_id", m.ID, "plan_id", plan.ID, "end_date", m.MembershipEndDate)
	return nil
}

func (s *service) List(ctx context.Context, f Filter) ([]Entry, error) {
	out, err := s.store.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return out, nil
}

func (s *service) ListPending(ctx context.Context) ([]Entry, error) {
	out, err := s.store.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending payments: %w", err)
	}
	return out, nil
}

// DueMembers lists active members whose membership runs out within the
// next week, soonest first.
func (s *service) DueMembers(ctx context.Context) ([]members.Member, error) {
	today := membership.StartOfDay(s.now().In(s.loc))
	out, err := s.members.ListDueSoon(ctx, today, today.AddDate(0, 0, dueSoonDays))
	if err != nil {
		return nil, fmt.Errorf("list due members: %w", err)
	}
	return out, nil
}
