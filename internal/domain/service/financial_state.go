package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/faiyaz92/pay-roll-sub001/internal/domain/model"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Projection inputs – domain service assembling a FinancialState
// ---------------------------------------------------------------------------

// DefaultAverageWindowMonths is the trailing window used for the default
// monthly earnings and expense assumptions.
const DefaultAverageWindowMonths = 6

var hundred = decimal.NewFromInt(100)

// TrailingAverages returns the average monthly earnings and operating
// expenses over the windowMonths preceding now. The divisor is shortened for
// vehicles onboarded inside the window so a new vehicle is not averaged over
// months it did not operate.
func TrailingAverages(activities []model.Activity, onboardedAt, now time.Time, windowMonths int) (earnings, expenses decimal.Decimal) {
	if windowMonths <= 0 {
		windowMonths = DefaultAverageWindowMonths
	}
	from := now.AddDate(0, -windowMonths, 0)

	months := windowMonths
	if !onboardedAt.IsZero() && onboardedAt.After(from) {
		from = onboardedAt
		months = wholeMonthsBetween(onboardedAt, now) + 1
		if months > windowMonths {
			months = windowMonths
		}
	}

	earnings, expenses = decimal.Zero, decimal.Zero
	for _, a := range activities {
		if a.OccurredAt.Before(from) || !a.OccurredAt.Before(now) {
			continue
		}
		switch {
		case a.Kind.Equal(valueobject.ActivityKindEarning):
			earnings = earnings.Add(a.Amount)
		case a.Kind.Equal(valueobject.ActivityKindExpense):
			expenses = expenses.Add(a.Amount)
		}
	}

	n := decimal.NewFromInt(int64(months))
	return earnings.Div(n).Round(2), expenses.Div(n).Round(2)
}

// DepreciatedValue applies the annual depreciation rate once for every whole
// year between onboardedAt and now, rounding to cents each year.
func DepreciatedValue(assetCost, ratePercent decimal.Decimal, onboardedAt, now time.Time) decimal.Decimal {
	value := assetCost
	factor := decimal.NewFromInt(1).Sub(ratePercent.Div(hundred))
	for years := wholeMonthsBetween(onboardedAt, now) / 12; years > 0; years-- {
		value = value.Mul(factor).Round(2)
	}
	return value
}

// BuildFinancialState assembles the projection starting point for a
// vehicle. loan is the current or most recent loan and may be nil for
// vehicles bought outright; it supplies the balance, EMI and rate carried
// forward. EMI paid and prepayments come from loanTotals, which covers every
// loan the vehicle has had, so a refinanced vehicle keeps its earlier
// repayments in its cost base.
func BuildFinancialState(
	loan *model.Loan,
	loanTotals model.LoanTotals,
	financials model.VehicleFinancials,
	totals model.LedgerTotals,
	recent []model.Activity,
	now time.Time,
	windowMonths int,
) model.FinancialState {
	avgEarnings, avgExpenses := TrailingAverages(recent, financials.OnboardedAt(), now, windowMonths)

	state := model.FinancialState{
		CumulativeEarnings:          totals.Earnings,
		CumulativeOperatingExpenses: totals.OperatingExpenses,
		CumulativeEMIPaid:           loanTotals.EMIPaid,
		OutstandingLoan:             decimal.Zero,
		CurrentAssetValue:           DepreciatedValue(financials.AssetCost(), financials.DepreciationRatePercent(), financials.OnboardedAt(), now),
		InitialInvestment:           financials.InitialInvestment(),
		TotalPrepayments:            loanTotals.Prepaid,
		AverageMonthlyEarnings:      avgEarnings,
		AverageMonthlyExpenses:      avgExpenses,
		EMI:                         decimal.Zero,
		AnnualRatePercent:           decimal.Zero,
		DepreciationRatePercent:     financials.DepreciationRatePercent(),
	}

	if loan != nil {
		state.OutstandingLoan = loan.OutstandingBalance()
		state.EMI = loan.Terms().EMI
		state.AnnualRatePercent = loan.Terms().AnnualRatePercent
	}
	return state
}

// wholeMonthsBetween counts complete calendar months from a to b.
func wholeMonthsBetween(a, b time.Time) int {
	if !b.After(a) {
		return 0
	}
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		months--
	}
	return months
}
