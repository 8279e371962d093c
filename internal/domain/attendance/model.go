package attendance

import "time"

type Attendance struct {
	ID           int64      `json:"id"`
	MemberID     int64      `json:"member_id"`
	CheckInTime  time.Time  `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"` // nil while the visit is still open
	Notes        string     `json:"notes,omitempty"`
}

// Entry is an attendance row joined with the member it belongs to,
// as listed on the attendance views.
type Entry struct {
	Attendance
	MemberName string `json:"member_name"`
}

// Filter narrows List results; fields combine with AND.
type Filter struct {
	From     *time.Time // check-in date >= From's date
	To       *time.Time // check-in date <= To's date
	MemberID *int64
}

// MemberMatch is one quick check-in search hit.
type MemberMatch struct {
	ID                  int64      `json:"id"`
	FullName            string     `json:"full_name"`
	Email               string     `json:"email"`
	MembershipEndDate   *time.Time `json:"membership_end_date,omitempty"`
	HasActiveMembership bool       `json:"has_active_membership"`
}
