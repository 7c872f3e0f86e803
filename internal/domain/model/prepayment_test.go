package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPrepayment_Reference(t *testing.T) {
	result, err := ApplyPrepayment(d("300000"), d("100000"), d("11000"), d("8.5"))
	require.NoError(t, err)

	assert.True(t, result.NewOutstanding.Equal(d("200000")))
	assert.Equal(t, 31, result.CurrentTenureMonths)
	assert.Equal(t, 20, result.NewTenureMonths)
	assert.Equal(t, 11, result.TenureReductionMonths)
	// (31×11000 − 300000) − (20×11000 − 200000)
	assert.True(t, result.InterestSavings.Equal(d("21000")), "savings = %s", result.InterestSavings)
	assert.False(t, result.IsFullPayoff())
}

func TestApplyPrepayment_FullPayoff(t *testing.T) {
	result, err := ApplyPrepayment(d("300000"), d("300000"), d("11000"), d("8.5"))
	require.NoError(t, err)

	assert.True(t, result.NewOutstanding.IsZero())
	assert.Equal(t, 0, result.NewTenureMonths)
	assert.Equal(t, result.CurrentTenureMonths, result.TenureReductionMonths)
	assert.True(t, result.IsFullPayoff())
	assert.True(t, result.InterestSavings.IsPositive())
}

func TestApplyPrepayment_InvalidInput(t *testing.T) {
	tests := []struct {
		name                         string
		outstanding, amount, emi, rt string
	}{
		{"zero amount", "300000", "0", "11000", "8.5"},
		{"negative amount", "300000", "-10", "11000", "8.5"},
		{"exceeds outstanding", "300000", "300000.01", "11000", "8.5"},
		{"nothing outstanding", "0", "100", "11000", "8.5"},
		{"zero emi", "300000", "1000", "0", "8.5"},
		{"negative rate", "300000", "1000", "11000", "-1"},
		{"sub-cent amount", "300000", "1000.005", "11000", "8.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ApplyPrepayment(d(tt.outstanding), d(tt.amount), d(tt.emi), d(tt.rt))
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestApplyPrepayment_NonConvergent(t *testing.T) {
	_, err := ApplyPrepayment(d("500000"), d("1000"), d("3000"), d("8.5"))
	assert.ErrorIs(t, err, ErrNonConvergent)
}

func TestRemainingTenure(t *testing.T) {
	n, err := RemainingTenure(decimal.Zero, d("11000"), d("8.5"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = RemainingTenure(d("120000"), d("10000"), decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	// Converges month by month but needs more than 360 installments.
	_, err = RemainingTenure(d("2500000"), d("16700"), d("8"))
	assert.ErrorIs(t, err, ErrNonConvergent)
}

func TestRebuildSchedule_NoOpPrepaymentIsIdempotent(t *testing.T) {
	outstanding, emi, rate := d("300000"), d("11000"), d("8.5")
	anchor := date(2024, time.July, 5)

	tenure, err := RemainingTenure(outstanding, emi, rate)
	require.NoError(t, err)

	generated, err := GenerateSchedule(LoanTerms{
		FirstInstallmentDate: anchor,
		Principal:            outstanding,
		AnnualRatePercent:    rate,
		EMI:                  emi,
		TenureMonths:         tenure,
	}, 0)
	require.NoError(t, err)

	rebuilt, err := RebuildSchedule(outstanding, emi, rate, anchor)
	require.NoError(t, err)

	assert.Equal(t, generated.Len(), rebuilt.Len())
	assert.True(t, generated.TotalInterest().Equal(rebuilt.TotalInterest()))
}

func TestRebuildSchedule_RestartsFromMonthOne(t *testing.T) {
	anchor := date(2024, time.July, 5)
	rebuilt, err := RebuildSchedule(d("200000"), d("11000"), d("8.5"), anchor)
	require.NoError(t, err)

	assert.Equal(t, 20, rebuilt.Len())
	first, _ := rebuilt.Entry(1)
	assert.Equal(t, 1, first.Month)
	assert.Equal(t, anchor, first.DueDate)
	assert.Equal(t, 0, rebuilt.PaidCount())
	last, _ := rebuilt.Entry(20)
	assert.True(t, last.OutstandingAfter.IsZero())
}

func TestRebuildSchedule_ZeroBalanceIsEmpty(t *testing.T) {
	rebuilt, err := RebuildSchedule(decimal.Zero, d("11000"), d("8.5"), date(2024, time.July, 5))
	require.NoError(t, err)
	assert.True(t, rebuilt.IsEmpty())
}

func TestNextAnchorDate(t *testing.T) {
	tests := []struct {
		name   string
		now    time.Time
		dueDay int
		want   time.Time
	}{
		{"configured day", time.Date(2024, time.March, 18, 14, 30, 0, 0, time.UTC), 5, date(2024, time.April, 5)},
		{"clamped to month end", date(2024, time.January, 10), 31, date(2024, time.February, 29)},
		{"unset keeps day", date(2024, time.May, 20), 0, date(2024, time.June, 20)},
		{"unset clamps", date(2024, time.January, 31), 0, date(2024, time.February, 29)},
		{"year rollover", date(2024, time.December, 2), 7, date(2025, time.January, 7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextAnchorDate(tt.now, tt.dueDay))
		})
	}
}
