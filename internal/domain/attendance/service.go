package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gymdesk/gymdesk/internal/domain/members"
	"github.com/gymdesk/gymdesk/internal/domain/membership"
)

var (
	ErrMemberNotFound     = errors.New("attendance: member not found")
	ErrMembershipInactive = errors.New("attendance: member does not have an active membership")
	ErrAlreadyCheckedIn   = errors.New("attendance: member is already checked in")
	ErrAlreadyCheckedOut  = errors.New("attendance: already checked out")
	ErrNotFound           = errors.New("attendance: not found")
	ErrEmptySearchTerm    = errors.New("attendance: search term is empty")
)

const searchLimit = 10

// Store is the attendance persistence the service relies on.
type Store interface {
	Insert(ctx context.Context, memberID int64, checkIn time.Time, notes string) (*Attendance, error)
	GetByID(ctx context.Context, id int64) (*Attendance, error)
	FindOpenByMember(ctx context.Context, memberID int64) (*Attendance, error)
	Close(ctx context.Context, id int64, checkOut time.Time) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter) ([]Entry, error)
}

// MemberStore is the slice of the members repo the service needs.
type MemberStore interface {
	GetByID(ctx context.Context, id int64) (*members.Member, error)
	Search(ctx context.Context, term string, limit int) ([]members.Member, error)
}

// Notifier surfaces a successful check-in to the front desk.
type Notifier interface {
	CheckedIn(name string, at time.Time)
}

// Service is the attendance workflow.
type Service interface {
	CheckIn(ctx context.Context, memberID int64, notes string) (*Attendance, error)
	CheckOut(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter) ([]Entry, error)
	ListToday(ctx context.Context) ([]Entry, error)
	SearchActiveMembers(ctx context.Context, term string) ([]MemberMatch, error)
}

type service struct {
	store    Store
	members  MemberStore
	notifier Notifier
	log      *slog.Logger
	loc      *time.Location
	now      func() time.Time
}

func NewService(store Store, ms MemberStore, n Notifier, log *slog.Logger, loc *time.Location) Service {
	return &service{
		store:    store,
		members:  ms,
		notifier: n,
		log:      log,
		loc:      loc,
		now:      time.Now,
	}
}

func (s *service) today() time.Time {
	return membership.StartOfDay(s.now().In(s.loc))
}

// CheckIn opens a visit for the member. A member with no end date on
// record is not treated as expired, matching the front-desk convention
// that only a known, past end date blocks entry.
func (s *service) CheckIn(ctx context.Context, memberID int64, notes string) (*Attendance, error) {
	m, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	if m == nil {
		return nil, ErrMemberNotFound
	}
	if !m.IsActive || (m.MembershipEndDate != nil && m.MembershipEndDate.Before(s.today())) {
		return nil, ErrMembershipInactive
	}

	open, err := s.store.FindOpenByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("find open visit: %w", err)
	}
	if open != nil {
		return nil, ErrAlreadyCheckedIn
	}

	a, err := s.store.Insert(ctx, memberID, s.now().In(s.loc), notes)
	if err != nil {
		return nil, fmt.Errorf("insert attendance: %w", err)
	}

	s.log.Info("member checked in", "member_id", memberID, "attendance_id", a.ID)
	s.notifier.CheckedIn(m.FullName(), a.CheckInTime)
	return a, nil
}

func (s *service) CheckOut(ctx context.Context, id int64) error {
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get attendance: %w", err)
	}
	if a == nil {
		return ErrNotFound
	}
	if a.CheckOutTime != nil {
		return ErrAlreadyCheckedOut
	}
	if err := s.store.Close(ctx, id, s.now().In(s.loc)); err != nil {
		if errors.Is(err, ErrAlreadyCheckedOut) {
			return err
		}
		return fmt.Errorf("close attendance: %w", err)
	}
	s.log.Info("member checked out", "attendance_id", id)
	return nil
}

// Delete removes a visit record. Deleting a missing record is a no-op.
func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	return nil
}

func (s *service) List(ctx context.Context, f Filter) ([]Entry, error) {
	out, err := s.store.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return out, nil
}

func (s *service) ListToday(ctx context.Context) ([]Entry, error) {
	today := s.today()
	return s.List(ctx, Filter{From: &today, To: &today})
}

func (s *service) SearchActiveMembers(ctx context.Context, term string) ([]MemberMatch, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrEmptySearchTerm
	}

	found, err := s.members.Search(ctx, term, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search members: %w", err)
	}

	today := s.today()
	out := make([]MemberMatch, 0, len(found))
	for i := range found {
		m := &found[i]
		out = append(out, MemberMatch{
			ID:                  m.ID,
			FullName:            m.FullName(),
			Email:               m.Email,
			MembershipEndDate:   m.MembershipEndDate,
			HasActiveMembership: m.HasActiveMembership(today),
		})
	}
	return out, nil
}
