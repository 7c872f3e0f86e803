package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faiyaz92/pay-roll-sub001/internal/domain/model"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/valueobject"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func activity(t *testing.T, kind valueobject.ActivityKind, amount string, at time.Time) model.Activity {
	t.Helper()
	a, err := model.NewActivity("vehicle-1", kind, d(amount), "test", at)
	require.NoError(t, err)
	return a
}

func TestTrailingAverages(t *testing.T) {
	now := day(2024, time.July, 1)
	acts := []model.Activity{
		activity(t, valueobject.ActivityKindEarning, "30000", day(2024, time.June, 10)),
		activity(t, valueobject.ActivityKindEarning, "30000", day(2024, time.May, 10)),
		activity(t, valueobject.ActivityKindExpense, "6000", day(2024, time.April, 2)),
		// outside the window
		activity(t, valueobject.ActivityKindEarning, "99999", day(2023, time.December, 31)),
		activity(t, valueobject.ActivityKindExpense, "99999", day(2024, time.July, 1)),
	}

	earnings, expenses := TrailingAverages(acts, day(2022, time.January, 1), now, 6)
	assert.True(t, earnings.Equal(d("10000")), "earnings = %s", earnings)
	assert.True(t, expenses.Equal(d("1000")), "expenses = %s", expenses)
}

func TestTrailingAverages_RecentlyOnboarded(t *testing.T) {
	now := day(2024, time.July, 1)
	acts := []model.Activity{
		activity(t, valueobject.ActivityKindEarning, "20000", day(2024, time.May, 20)),
		activity(t, valueobject.ActivityKindEarning, "20000", day(2024, time.June, 20)),
	}

	// Onboarded May 15: one whole month elapsed, averaged over two.
	earnings, _ := TrailingAverages(acts, day(2024, time.May, 15), now, 6)
	assert.True(t, earnings.Equal(d("20000")), "earnings = %s", earnings)
}

func TestTrailingAverages_NoActivity(t *testing.T) {
	earnings, expenses := TrailingAverages(nil, time.Time{}, day(2024, time.July, 1), 0)
	assert.True(t, earnings.IsZero())
	assert.True(t, expenses.IsZero())
}

func TestDepreciatedValue(t *testing.T) {
	cost, rate := d("1000000"), d("10")
	onboarded := day(2021, time.March, 15)

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"before first anniversary", day(2022, time.March, 14), "1000000"},
		{"on first anniversary", day(2022, time.March, 15), "900000"},
		{"three years", day(2024, time.July, 1), "729000"},
		{"clock before onboarding", day(2020, time.January, 1), "1000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DepreciatedValue(cost, rate, onboarded, tt.now)
			assert.True(t, got.Equal(d(tt.want)), "got %s", got)
		})
	}
}

func TestBuildFinancialState(t *testing.T) {
	now := day(2024, time.July, 1)
	fin, err := model.NewVehicleFinancials("vehicle-1", d("200000"), d("1000000"), d("10"), day(2023, time.January, 1), now)
	require.NoError(t, err)

	terms := model.LoanTerms{
		FirstInstallmentDate: day(2023, time.February, 1),
		Principal:            d("800000"),
		AnnualRatePercent:    d("9"),
		EMI:                  d("20000"),
		TenureMonths:         60,
	}
	loan, err := model.NewLoan("vehicle-1", terms, 1, 3, day(2023, time.January, 1))
	require.NoError(t, err)

	totals := model.LedgerTotals{Earnings: d("500000"), OperatingExpenses: d("120000")}

	loanTotals := model.LoanTotals{EMIPaid: loan.EMIPaidToDate(), Prepaid: loan.TotalPrepaid(), Count: 1}

	state := BuildFinancialState(&loan, loanTotals, fin, totals, nil, now, 6)
	assert.True(t, state.CumulativeEarnings.Equal(d("500000")))
	assert.True(t, state.CumulativeEMIPaid.Equal(d("60000")))
	assert.True(t, state.OutstandingLoan.Equal(loan.OutstandingBalance()))
	assert.True(t, state.CurrentAssetValue.Equal(d("900000")))
	assert.True(t, state.EMI.Equal(d("20000")))
	assert.True(t, state.FixedInvestment().Equal(d("200000")))

	outright := BuildFinancialState(nil, model.LoanTotals{}, fin, totals, nil, now, 6)
	assert.True(t, outright.OutstandingLoan.IsZero())
	assert.True(t, outright.EMI.IsZero())
	assert.True(t, outright.CumulativeEMIPaid.IsZero())
}

func TestBuildFinancialState_RefinancedVehicle(t *testing.T) {
	now := day(2029, time.July, 1)
	fin, err := model.NewVehicleFinancials("vehicle-1", d("200000"), d("1000000"), d("10"), day(2023, time.January, 1), now)
	require.NoError(t, err)

	current, err := model.NewLoan("vehicle-1", model.LoanTerms{
		FirstInstallmentDate: day(2029, time.February, 1),
		Principal:            d("300000"),
		AnnualRatePercent:    d("10"),
		EMI:                  d("10000"),
		TenureMonths:         36,
	}, 1, 5, day(2029, time.January, 1))
	require.NoError(t, err)

	// 55 EMIs of 20000 and one 50000 prepayment on the closed first loan.
	loanTotals := model.LoanTotals{
		EMIPaid: d("1100000").Add(current.EMIPaidToDate()),
		Prepaid: d("50000"),
		Count:   2,
	}

	state := BuildFinancialState(&current, loanTotals, fin, model.LedgerTotals{}, nil, now, 6)
	assert.True(t, state.CumulativeEMIPaid.Equal(d("1150000")), "emi paid = %s", state.CumulativeEMIPaid)
	assert.True(t, state.TotalPrepayments.Equal(d("50000")))
	assert.True(t, state.FixedInvestment().Equal(d("250000")))
	assert.True(t, state.OutstandingLoan.Equal(current.OutstandingBalance()))
	assert.True(t, state.EMI.Equal(d("10000")))
}
