package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MaxTenureMonths bounds schedule generation and remaining-tenure simulation.
const MaxTenureMonths = 360

var (
	hundred  = decimal.NewFromInt(100)
	twelve00 = decimal.NewFromInt(1200)
)

// LoanTerms are the inputs a schedule is generated from. They are treated as
// immutable once a schedule exists; a prepayment implicitly produces new
// terms (reduced principal, same rate and EMI).
type LoanTerms struct {
	FirstInstallmentDate time.Time
	Principal            decimal.Decimal
	AnnualRatePercent    decimal.Decimal
	EMI                  decimal.Decimal
	TenureMonths         int
}

// Validate rejects non-positive principal, EMI or tenure, a negative rate,
// a tenure above MaxTenureMonths and a missing first installment date.
// Amounts carry at most two decimal places and the rate at most four, the
// precision they are stored with.
func (t LoanTerms) Validate() error {
	switch {
	case !t.Principal.IsPositive():
		return fmt.Errorf("%w: principal must be positive", ErrInvalidInput)
	case !t.EMI.IsPositive():
		return fmt.Errorf("%w: emi must be positive", ErrInvalidInput)
	case t.AnnualRatePercent.IsNegative():
		return fmt.Errorf("%w: annual interest rate must not be negative", ErrInvalidInput)
	case !hasPlaces(t.Principal, moneyPlaces):
		return fmt.Errorf("%w: principal has more than %d decimal places", ErrInvalidInput, moneyPlaces)
	case !hasPlaces(t.EMI, moneyPlaces):
		return fmt.Errorf("%w: emi has more than %d decimal places", ErrInvalidInput, moneyPlaces)
	case !hasPlaces(t.AnnualRatePercent, ratePlaces):
		return fmt.Errorf("%w: annual interest rate has more than %d decimal places", ErrInvalidInput, ratePlaces)
	case t.TenureMonths <= 0:
		return fmt.Errorf("%w: tenure must be positive", ErrInvalidInput)
	case t.TenureMonths > MaxTenureMonths:
		return fmt.Errorf("%w: tenure exceeds %d months", ErrInvalidInput, MaxTenureMonths)
	case t.FirstInstallmentDate.IsZero():
		return fmt.Errorf("%w: first installment date is required", ErrInvalidInput)
	}
	return nil
}

const (
	moneyPlaces = 2
	ratePlaces  = 4
)

// hasPlaces reports whether d is representable with at most places decimal
// places. Trailing zeros do not count: 10.500 has two.
func hasPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// MonthlyRate returns annualRatePercent / 12 / 100.
func (t LoanTerms) MonthlyRate() decimal.Decimal {
	return monthlyRate(t.AnnualRatePercent)
}

func monthlyRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.Div(twelve00)
}

// AmortizationEntry is one installment of a schedule.
type AmortizationEntry struct {
	DueDate          time.Time
	PaidAt           *time.Time
	Interest         decimal.Decimal
	Principal        decimal.Decimal
	OutstandingAfter decimal.Decimal
	Month            int
	IsPaid           bool
}

// Installment is the amount due for the entry: interest plus principal.
func (e AmortizationEntry) Installment() decimal.Decimal {
	return e.Interest.Add(e.Principal)
}

// amortizeMonth applies one installment to the opening balance. Interest is
// rounded to cents, principal is capped at the opening balance and the
// closing balance never goes below zero.
func amortizeMonth(opening, emi, rate decimal.Decimal) (interest, principal, closing decimal.Decimal) {
	interest = opening.Mul(rate).Round(2)
	principal = decimal.Min(emi.Sub(interest), opening)
	if principal.IsNegative() {
		principal = decimal.Zero
	}
	closing = opening.Sub(principal)
	if closing.IsNegative() {
		closing = decimal.Zero
	}
	return interest, principal, closing
}

// checkConvergence returns ErrNonConvergent when the EMI does not exceed the
// interest accrued on the opening balance. Interest only shrinks as the
// balance falls, so passing this check once guarantees progress every month.
func checkConvergence(opening, emi, rate decimal.Decimal) error {
	interest := opening.Mul(rate).Round(2)
	if emi.LessThanOrEqual(interest) {
		return fmt.Errorf("%w: emi %s does not cover monthly interest %s", ErrNonConvergent, emi, interest)
	}
	return nil
}

// GenerateSchedule builds the month-by-month schedule for terms.
//
// Generation stops at the first month the balance reaches zero. An EMI that
// leaves a residual balance after terms.TenureMonths installments is
// ErrNonConvergent, so every accepted schedule ends at zero within its tenure
// and RemainingTenure agrees with it.
// Entries with Month <= alreadyPaidCount are seeded as paid on their due
// date; this is only meant for onboarding loans already being serviced.
func GenerateSchedule(terms LoanTerms, alreadyPaidCount int) (AmortizationSchedule, error) {
	if err := terms.Validate(); err != nil {
		return AmortizationSchedule{}, err
	}
	if alreadyPaidCount < 0 || alreadyPaidCount > terms.TenureMonths {
		return AmortizationSchedule{}, fmt.Errorf("%w: already paid count must be between 0 and tenure", ErrInvalidInput)
	}

	rate := terms.MonthlyRate()
	if err := checkConvergence(terms.Principal, terms.EMI, rate); err != nil {
		return AmortizationSchedule{}, err
	}

	entries := make([]AmortizationEntry, 0, terms.TenureMonths)
	outstanding := terms.Principal

	for month := 1; month <= terms.TenureMonths; month++ {
		interest, principal, closing := amortizeMonth(outstanding, terms.EMI, rate)
		if month == terms.TenureMonths && closing.IsPositive() {
			return AmortizationSchedule{}, fmt.Errorf("%w: balance %s not cleared within %d installments, %s left after the last",
				ErrNonConvergent, terms.Principal, terms.TenureMonths, closing)
		}

		entry := AmortizationEntry{
			Month:            month,
			DueDate:          addMonths(terms.FirstInstallmentDate, month-1),
			Interest:         interest,
			Principal:        principal,
			OutstandingAfter: closing,
		}
		if month <= alreadyPaidCount {
			paidAt := entry.DueDate
			entry.IsPaid = true
			entry.PaidAt = &paidAt
		}
		entries = append(entries, entry)

		outstanding = closing
		if !outstanding.IsPositive() {
			break
		}
	}

	return AmortizationSchedule{entries: entries}, nil
}

// addMonths adds n calendar months to t, clamping the day to the length of
// the target month (Jan 31 + 1 month = Feb 28/29).
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(first); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
