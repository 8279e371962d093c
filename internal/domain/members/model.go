package members

import "time"

type Member struct {
	ID                  int64      `json:"id"`
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	Email               string     `json:"email"`
	Phone               string     `json:"phone"`
	IsActive            bool       `json:"is_active"`
	MembershipPlanID    *int64     `json:"membership_plan_id,omitempty"`
	MembershipStartDate *time.Time `json:"membership_start_date,omitempty"`
	MembershipEndDate   *time.Time `json:"membership_end_date,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// HasActiveMembership reports whether the member holds an unexpired
// membership as of the given day (midnight). A member without an end
// date has nothing to expire and reports false.
func (m *Member) HasActiveMembership(today time.Time) bool {
	return m.MembershipEndDate != nil && !m.MembershipEndDate.Before(today)
}
