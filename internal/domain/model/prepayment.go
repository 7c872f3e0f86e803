package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PrepaymentResult previews the effect of a lump-sum prepayment. It is
// derived, never persisted on its own, and shown to the operator before the
// prepayment is confirmed.
type PrepaymentResult struct {
	Amount                decimal.Decimal
	CurrentOutstanding    decimal.Decimal
	NewOutstanding        decimal.Decimal
	InterestSavings       decimal.Decimal
	CurrentTenureMonths   int
	NewTenureMonths       int
	TenureReductionMonths int
}

// IsFullPayoff reports whether the prepayment clears the loan.
func (r PrepaymentResult) IsFullPayoff() bool {
	return r.NewOutstanding.IsZero()
}

// ApplyPrepayment computes the reduced balance, remaining tenures before and
// after, and the interest saved.
//
// The amount must be positive and must not exceed currentOutstanding; an
// amount equal to the balance is a full payoff. Interest savings use the
// identity total interest = installments paid - principal repaid on both
// sides rather than re-summing interest components.
func ApplyPrepayment(currentOutstanding, amount, emi, annualRatePercent decimal.Decimal) (PrepaymentResult, error) {
	switch {
	case !currentOutstanding.IsPositive():
		return PrepaymentResult{}, fmt.Errorf("%w: loan has no outstanding balance", ErrInvalidInput)
	case !amount.IsPositive():
		return PrepaymentResult{}, fmt.Errorf("%w: prepayment amount must be positive", ErrInvalidInput)
	case !hasPlaces(amount, moneyPlaces):
		return PrepaymentResult{}, fmt.Errorf("%w: prepayment amount has more than %d decimal places", ErrInvalidInput, moneyPlaces)
	case amount.GreaterThan(currentOutstanding):
		return PrepaymentResult{}, fmt.Errorf("%w: prepayment %s exceeds outstanding balance %s", ErrInvalidInput, amount, currentOutstanding)
	case !emi.IsPositive():
		return PrepaymentResult{}, fmt.Errorf("%w: emi must be positive", ErrInvalidInput)
	case annualRatePercent.IsNegative():
		return PrepaymentResult{}, fmt.Errorf("%w: annual interest rate must not be negative", ErrInvalidInput)
	}

	newOutstanding := currentOutstanding.Sub(amount)

	currentTenure, err := RemainingTenure(currentOutstanding, emi, annualRatePercent)
	if err != nil {
		return PrepaymentResult{}, err
	}
	newTenure, err := RemainingTenure(newOutstanding, emi, annualRatePercent)
	if err != nil {
		return PrepaymentResult{}, err
	}

	reduction := currentTenure - newTenure
	if reduction < 0 {
		reduction = 0
	}

	currentInterest := emi.Mul(decimal.NewFromInt(int64(currentTenure))).Sub(currentOutstanding)
	newInterest := emi.Mul(decimal.NewFromInt(int64(newTenure))).Sub(newOutstanding)
	savings := currentInterest.Sub(newInterest)
	if savings.IsNegative() {
		savings = decimal.Zero
	}

	return PrepaymentResult{
		Amount:                amount,
		CurrentOutstanding:    currentOutstanding,
		NewOutstanding:        newOutstanding,
		InterestSavings:       savings,
		CurrentTenureMonths:   currentTenure,
		NewTenureMonths:       newTenure,
		TenureReductionMonths: reduction,
	}, nil
}

// RemainingTenure counts the installments needed to clear outstanding at a
// constant EMI, using the same monthly step as GenerateSchedule. A zero
// balance needs no installments.
func RemainingTenure(outstanding, emi, annualRatePercent decimal.Decimal) (int, error) {
	if outstanding.IsNegative() {
		return 0, fmt.Errorf("%w: outstanding balance must not be negative", ErrInvalidInput)
	}
	if outstanding.IsZero() {
		return 0, nil
	}

	rate := monthlyRate(annualRatePercent)
	if err := checkConvergence(outstanding, emi, rate); err != nil {
		return 0, err
	}

	balance := outstanding
	for month := 1; month <= MaxTenureMonths; month++ {
		_, _, balance = amortizeMonth(balance, emi, rate)
		if !balance.IsPositive() {
			return month, nil
		}
	}
	return 0, fmt.Errorf("%w: balance %s not cleared within %d installments", ErrNonConvergent, outstanding, MaxTenureMonths)
}

// RebuildSchedule regenerates a schedule from month 1 for the balance left
// after a prepayment. The original due-date cadence is discarded: the first
// installment falls on anchor. A zero balance yields an empty schedule.
func RebuildSchedule(newOutstanding, emi, annualRatePercent decimal.Decimal, anchor time.Time) (AmortizationSchedule, error) {
	tenure, err := RemainingTenure(newOutstanding, emi, annualRatePercent)
	if err != nil {
		return AmortizationSchedule{}, err
	}
	if tenure == 0 {
		return AmortizationSchedule{}, nil
	}

	return GenerateSchedule(LoanTerms{
		FirstInstallmentDate: anchor,
		Principal:            newOutstanding,
		AnnualRatePercent:    annualRatePercent,
		EMI:                  emi,
		TenureMonths:         tenure,
	}, 0)
}

// NextAnchorDate returns the first due date of a rebuilt schedule: the
// configured EMI due day in the month after now (clamped to the month's
// length), or the same day next month when emiDueDay is not set.
func NextAnchorDate(now time.Time, emiDueDay int) time.Time {
	next := addMonths(startOfDay(now), 1)
	if emiDueDay < 1 || emiDueDay > 31 {
		return next
	}
	day := emiDueDay
	if last := daysIn(next); day > last {
		day = last
	}
	return time.Date(next.Year(), next.Month(), day, 0, 0, 0, 0, next.Location())
}
