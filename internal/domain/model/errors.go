package model

import "errors"

var (
	// ErrInvalidInput reports arguments rejected before any simulation runs.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNonConvergent reports an EMI that cannot amortize the balance: the
	// installment does not exceed accruing interest, or the balance is not
	// cleared within the loan tenure or the installment ceiling.
	ErrNonConvergent = errors.New("loan does not converge")

	// ErrLoanClosed is returned for mutations on a fully repaid loan.
	ErrLoanClosed = errors.New("loan is closed")

	// ErrNotFound is returned by repositories when an aggregate does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConcurrentModification is returned when a save loses an optimistic
	// locking race.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrActiveLoanExists is returned when a vehicle would carry two active
	// loans at once.
	ErrActiveLoanExists = errors.New("vehicle already has an active loan")
)
