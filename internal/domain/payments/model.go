package payments

import (
	"fmt"
	"time"
)

type Method string

const (
	MethodCash         Method = "cash"
	MethodCreditCard   Method = "credit_card"
	MethodDebitCard    Method = "debit_card"
	MethodBankTransfer Method = "bank_transfer"
	MethodOther        Method = "other"
)

func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodCash, MethodCreditCard, MethodDebitCard, MethodBankTransfer, MethodOther:
		return m, nil
	}
	return "", fmt.Errorf("payments: unknown method %q", s)
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusCompleted, StatusFailed, StatusRefunded, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("payments: unknown status %q", s)
}

type Payment struct {
	ID                   int64     `json:"id"`
	MemberID             int64     `json:"member_id"`
	Amount               float64   `json:"amount"`
	PaymentDate          time.Time `json:"payment_date"`
	Method               Method    `json:"method"`
	Status               Status    `json:"status"`
	TransactionReference string    `json:"transaction_reference,omitempty"`
	Notes                string    `json:"notes,omitempty"`
	MembershipPlanID     *int64    `json:"membership_plan_id,omitempty"`
}

// Entry is a payment joined with member and plan names for the listings.
type Entry struct {
	Payment
	MemberName string `json:"member_name"`
	PlanName   string `json:"plan_name,omitempty"`
}

// Filter narrows List results; fields combine with AND.
type Filter struct {
	From     *time.Time // payment date >= From's date
	To       *time.Time // payment date <= To's date
	MemberID *int64
	Status   *Status
}
