package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// LoanStatus – immutable value object
// ---------------------------------------------------------------------------

// LoanStatus represents the lifecycle stage of a vehicle loan.
type LoanStatus struct {
	value string
}

const (
	loanStatusActive = "ACTIVE"
	loanStatusClosed = "CLOSED"
)

var (
	LoanStatusActive = LoanStatus{value: loanStatusActive}
	LoanStatusClosed = LoanStatus{value: loanStatusClosed}
)

var validLoanStatuses = map[string]LoanStatus{
	loanStatusActive: LoanStatusActive,
	loanStatusClosed: LoanStatusClosed,
}

// NewLoanStatus creates a LoanStatus from a raw string.
func NewLoanStatus(s string) (LoanStatus, error) {
	v, ok := validLoanStatuses[s]
	if !ok {
		return LoanStatus{}, fmt.Errorf("invalid loan status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s LoanStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s LoanStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s LoanStatus) Equal(other LoanStatus) bool { return s.value == other.value }

// ---------------------------------------------------------------------------
// ActivityKind – immutable value object
// ---------------------------------------------------------------------------

// ActivityKind distinguishes ledger entries that earn from those that cost.
type ActivityKind struct {
	value string
}

const (
	activityKindEarning = "EARNING"
	activityKindExpense = "EXPENSE"
)

var (
	ActivityKindEarning = ActivityKind{value: activityKindEarning}
	ActivityKindExpense = ActivityKind{value: activityKindExpense}
)

var validActivityKinds = map[string]ActivityKind{
	activityKindEarning: ActivityKindEarning,
	activityKindExpense: ActivityKindExpense,
}

// NewActivityKind creates an ActivityKind from a raw string.
func NewActivityKind(s string) (ActivityKind, error) {
	v, ok := validActivityKinds[s]
	if !ok {
		return ActivityKind{}, fmt.Errorf("invalid activity kind: %q", s)
	}
	return v, nil
}

func (k ActivityKind) String() string { return k.value }

func (k ActivityKind) IsZero() bool { return k.value == "" }

func (k ActivityKind) Equal(other ActivityKind) bool { return k.value == other.value }
