// Package membership holds the pure renewal rules. No I/O here: callers
// fetch the member and plan, apply the rules, then persist.
package membership

import (
	"time"

	"github.com/gymdesk/gymdesk/internal/domain/members"
	"github.com/gymdesk/gymdesk/internal/domain/plans"
)

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Window computes the validity window a renewal would grant.
//
// Paying before expiry extends the remaining time: the new window starts
// where the current one ends. Paying after expiry (or with no membership
// at all) starts fresh from today — renewals never back-date.
func Window(m *members.Member, p *plans.Plan, now time.Time) (start, end time.Time) {
	today := StartOfDay(now)
	start = today
	if m.MembershipEndDate != nil && m.MembershipEndDate.After(today) {
		start = *m.MembershipEndDate
	}
	end = start.AddDate(0, 0, p.DurationInDays)
	return start, end
}

// Renew applies the plan to the member in place. The caller persists the
// result; member and plan must be non-nil.
func Renew(m *members.Member, p *plans.Plan, now time.Time) {
	start, end := Window(m, p, now)
	m.MembershipPlanID = &p.ID
	m.MembershipStartDate = &start
	m.MembershipEndDate = &end
	m.IsActive = true
}
