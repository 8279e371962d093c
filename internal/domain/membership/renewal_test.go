package membership

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymdesk/gymdesk/internal/domain/members"
	"github.com/gymdesk/gymdesk/internal/domain/plans"
)

var now = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

func day(offset int) time.Time {
	return time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func plan30() *plans.Plan {
	return &plans.Plan{ID: 7, Name: "Monthly", DurationInDays: 30, Price: 29.90, IsActive: true}
}

func TestWindowNoPriorMembership(t *testing.T) {
	m := &members.Member{ID: 1}

	start, end := Window(m, plan30(), now)

	assert.Equal(t, day(0), start)
	assert.Equal(t, day(30), end)
}

func TestWindowExpiredMembershipStartsToday(t *testing.T) {
	expired := day(-1)
	m := &members.Member{ID: 1, MembershipEndDate: &expired}

	start, end := Window(m, plan30(), now)

	assert.Equal(t, day(0), start)
	assert.Equal(t, day(30), end)
}

func TestWindowEndingTodayStartsToday(t *testing.T) {
	// An end date equal to today is not "after today": no extension.
	endsToday := day(0)
	m := &members.Member{ID: 1, MembershipEndDate: &endsToday}

	start, end := Window(m, plan30(), now)

	assert.Equal(t, day(0), start)
	assert.Equal(t, day(30), end)
}

func TestWindowUnexpiredMembershipExtends(t *testing.T) {
	current := day(10)
	m := &members.Member{ID: 1, MembershipEndDate: &current}

	start, end := Window(m, plan30(), now)

	assert.Equal(t, day(10), start)
	assert.Equal(t, day(40), end)
}

func TestRenewAppliesPlanToMember(t *testing.T) {
	m := &members.Member{ID: 1, IsActive: false}
	p := plan30()

	Renew(m, p, now)

	require.NotNil(t, m.MembershipPlanID)
	assert.Equal(t, p.ID, *m.MembershipPlanID)
	require.NotNil(t, m.MembershipStartDate)
	assert.Equal(t, day(0), *m.MembershipStartDate)
	require.NotNil(t, m.MembershipEndDate)
	assert.Equal(t, day(30), *m.MembershipEndDate)
	assert.True(t, m.IsActive)
}

func TestStartOfDay(t *testing.T) {
	assert.Equal(t, day(0), StartOfDay(now))
	assert.Equal(t, day(0), StartOfDay(day(0)))
}
