package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymdesk/gymdesk/internal/domain/members"
)

var testNow = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

func day(offset int) time.Time {
	return time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

type fakeMemberStore struct {
	byID map[int64]*members.Member
	all  []members.Member
}

func (f *fakeMemberStore) GetByID(_ context.Context, id int64) (*members.Member, error) {
	return f.byID[id], nil
}

func (f *fakeMemberStore) Search(_ context.Context, term string, limit int) ([]members.Member, error) {
	if len(f.all) > limit {
		return f.all[:limit], nil
	}
	return f.all, nil
}

type fakeStore struct {
	byID    map[int64]*Attendance
	nextID  int64
	deleted []int64
	closed  map[int64]time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: map[int64]*Attendance{}, closed: map[int64]time.Time{}}
}

func (f *fakeStore) Insert(_ context.Context, memberID int64, checkIn time.Time, notes string) (*Attendance, error) {
	f.nextID++
	a := &Attendance{ID: f.nextID, MemberID: memberID, CheckInTime: checkIn, Notes: notes}
	f.byID[a.ID] = a
	return a, nil
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*Attendance, error) {
	return f.byID[id], nil
}

func (f *fakeStore) FindOpenByMember(_ context.Context, memberID int64) (*Attendance, error) {
	for _, a := range f.byID {
		if a.MemberID == memberID && a.CheckOutTime == nil {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) Close(_ context.Context, id int64, checkOut time.Time) error {
	a := f.byID[id]
	if a == nil || a.CheckOutTime != nil {
		return ErrAlreadyCheckedOut
	}
	a.CheckOutTime = &checkOut
	f.closed[id] = checkOut
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) error {
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) List(_ context.Context, _ Filter) ([]Entry, error) {
	return nil, nil
}

type fakeNotifier struct {
	names []string
	times []time.Time
}

func (f *fakeNotifier) CheckedIn(name string, at time.Time) {
	f.names = append(f.names, name)
	f.times = append(f.times, at)
}

func newTestService(store *fakeStore, ms *fakeMemberStore, n *fakeNotifier) *service {
	svc := NewService(store, ms, n, slog.Default(), time.UTC).(*service)
	svc.now = func() time.Time { return testNow }
	return svc
}

func activeMember(id int64, endOffset int) *members.Member {
	end := day(endOffset)
	return &members.Member{
		ID:                id,
		FirstName:         "Ana",
		LastName:          "Torres",
		IsActive:          true,
		MembershipEndDate: &end,
	}
}

func TestCheckInMemberNotFound(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeMemberStore{byID: map[int64]*members.Member{}}, &fakeNotifier{})

	_, err := svc.CheckIn(context.Background(), 42, "")

	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestCheckInInactiveMember(t *testing.T) {
	m := activeMember(1, 10)
	m.IsActive = false
	store := newFakeStore()
	svc := newTestService(store, &fakeMemberStore{byID: map[int64]*members.Member{1: m}}, &fakeNotifier{})

	_, err := svc.CheckIn(context.Background(), 1, "")

	assert.ErrorIs(t, err, ErrMembershipInactive)
	assert.Empty(t, store.byID)
}

func TestCheckInExpiredMembership(t *testing.T) {
	store := newFakeStore()
	ms := &fakeMemberStore{byID: map[int64]*members.Member{1: activeMember(1, -1)}}
	svc := newTestService(store, ms, &fakeNotifier{})

	_, err := svc.CheckIn(context.Background(), 1, "")

	assert.ErrorIs(t, err, ErrMembershipInactive)
	assert.Empty(t, store.byID)
}

func TestCheckInMembershipEndingTodayAllowed(t *testing.T) {
	ms := &fakeMemberStore{byID: map[int64]*members.Member{1: activeMember(1, 0)}}
	svc := newTestService(newFakeStore(), ms, &fakeNotifier{})

	_, err := svc.CheckIn(context.Background(), 1, "")

	assert.NoError(t, err)
}

func TestCheckInNoEndDateAllowed(t *testing.T) {
	// Only a known, past end date blocks entry.
	m := activeMember(1, 0)
	m.MembershipEndDate = nil
	ms := &fakeMemberStore{byID: map[int64]*members.Member{1: m}}
	svc := newTestService(newFakeStore(), ms, &fakeNotifier{})

	_, err := svc.CheckIn(context.Background(), 1, "")

	assert.NoError(t, err)
}

func TestCheckInAlreadyCheckedIn(t *testing.T) {
	store := newFakeStore()
	ms := &fakeMemberStore{byID: map[int64]*members.Member{1: activeMember(1, 10)}}
	svc := newTestService(store, ms, &fakeNotifier{})

	_, err := svc.CheckIn(context.Background(), 1, "")
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), 1, "")
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
	assert.Len(t, store.byID, 1)
}

func TestCheckInSuccess(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	ms := &fakeMemberStore{byID: map[int64]*members.Member{1: activeMember(1, 10)}}
	svc := newTestService(store, ms, notifier)

	a, err := svc.CheckIn(context.Background(), 1, "front desk")

	require.NoError(t, err)
	assert.Equal(t, int64(1), a.MemberID)
	assert.Equal(t, testNow, a.CheckInTime)
	assert.Nil(t, a.CheckOutTime)
	assert.Equal(t, "front desk", a.Notes)
	require.Len(t, notifier.names, 1)
	assert.Equal(t, "Ana Torres", notifier.names[0])
	assert.Equal(t, testNow, notifier.times[0])
}

func TestCheckOutNotFound(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeMemberStore{}, &fakeNotifier{})

	err := svc.CheckOut(context.Background(), 99)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckOutAlreadyCheckedOut(t *testing.T) {
	store := newFakeStore()
	closedAt := testNow.Add(-time.Hour)
	store.byID[5] = &Attendance{ID: 5, MemberID: 1, CheckInTime: testNow.Add(-2 * time.Hour), CheckOutTime: &closedAt}
	svc := newTestService(store, &fakeMemberStore{}, &fakeNotifier{})

	err := svc.CheckOut(context.Background(), 5)

	assert.ErrorIs(t, err, ErrAlreadyCheckedOut)
	assert.Equal(t, closedAt, *store.byID[5].CheckOutTime)
}

func TestCheckOutSuccess(t *testing.T) {
	store := newFakeStore()
	store.byID[5] = &Attendance{ID: 5, MemberID: 1, CheckInTime: testNow.Add(-time.Hour)}
	svc := newTestService(store, &fakeMemberStore{}, &fakeNotifier{})

	err := svc.CheckOut(context.Background(), 5)

	require.NoError(t, err)
	require.NotNil(t, store.byID[5].CheckOutTime)
	assert.Equal(t, testNow, *store.byID[5].CheckOutTime)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.byID[5] = &Attendance{ID: 5}
	svc := newTestService(store, &fakeMemberStore{}, &fakeNotifier{})

	require.NoError(t, svc.Delete(context.Background(), 5))
	require.NoError(t, svc.Delete(context.Background(), 5))
	assert.Empty(t, store.byID)
}

func TestSearchEmptyTerm(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeMemberStore{}, &fakeNotifier{})

	_, err := svc.SearchActiveMembers(context.Background(), "   ")

	assert.ErrorIs(t, err, ErrEmptySearchTerm)
}

func TestSearchTruncatesToTen(t *testing.T) {
	ms := &fakeMemberStore{}
	for i := 0; i < 11; i++ {
		m := activeMember(int64(i+1), 10)
		m.FirstName = fmt.Sprintf("Member%d", i+1)
		ms.all = append(ms.all, *m)
	}
	svc := newTestService(newFakeStore(), ms, &fakeNotifier{})

	matches, err := svc.SearchActiveMembers(context.Background(), "Member")

	require.NoError(t, err)
	assert.Len(t, matches, 10)
}

func TestSearchFlagsExpiredMembership(t *testing.T) {
	expired := *activeMember(1, -1)
	current := *activeMember(2, 5)
	ms := &fakeMemberStore{all: []members.Member{expired, current}}
	svc := newTestService(newFakeStore(), ms, &fakeNotifier{})

	matches, err := svc.SearchActiveMembers(context.Background(), "Torres")

	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.False(t, matches[0].HasActiveMembership)
	assert.True(t, matches[1].HasActiveMembership)
}
