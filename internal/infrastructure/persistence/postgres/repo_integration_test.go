//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faiyaz92/pay-roll-sub001/internal/domain/model"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/valueobject"
	"github.com/faiyaz92/pay-roll-sub001/pkg/testutil"
)

var now = time.Date(2024, 3, 18, 10, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*LoanRepo, *FinancialsRepo) {
	t.Helper()
	pc := testutil.NewPostgresContainer(context.Background(), t)
	pc.ApplyMigrations(t, "migrations")
	return NewLoanRepo(pc.Pool), NewFinancialsRepo(pc.Pool)
}

func newLoan(t *testing.T) model.Loan {
	t.Helper()
	loan, err := model.NewLoan("vehicle-001", model.LoanTerms{
		Principal:            decimal.NewFromInt(500000),
		AnnualRatePercent:    decimal.RequireFromString("8.5"),
		EMI:                  decimal.NewFromInt(11000),
		TenureMonths:         60,
		FirstInstallmentDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	}, 5, 2, now)
	require.NoError(t, err)
	return loan
}

func TestLoanRepo_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, _ := setup(t)
	loan := newLoan(t)

	require.NoError(t, repo.Save(ctx, loan))

	got, err := repo.FindByID(ctx, loan.ID())
	require.NoError(t, err)
	assert.Equal(t, loan.VehicleID(), got.VehicleID())
	assert.Equal(t, 1, got.Version())
	assert.True(t, loan.OutstandingBalance().Equal(got.OutstandingBalance()))
	assert.Equal(t, loan.Schedule().Len(), got.Schedule().Len())
	assert.Equal(t, 2, got.Schedule().PaidCount())
	assert.Equal(t, loan.Terms().FirstInstallmentDate, got.Terms().FirstInstallmentDate)

	byVehicle, err := repo.FindByVehicleID(ctx, "vehicle-001")
	require.NoError(t, err)
	assert.Equal(t, loan.ID(), byVehicle.ID())
}

func TestLoanRepo_NotFound(t *testing.T) {
	repo, _ := setup(t)

	_, err := repo.FindByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = repo.FindByVehicleID(context.Background(), "nobody")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestLoanRepo_PrepaymentSwapsScheduleAndRecordsHistory(t *testing.T) {
	ctx := context.Background()
	repo, _ := setup(t)
	loan := newLoan(t)
	require.NoError(t, repo.Save(ctx, loan))

	stored, err := repo.FindByID(ctx, loan.ID())
	require.NoError(t, err)
	updated, result, err := stored.ApplyPrepayment(decimal.NewFromInt(100000), now)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, updated))

	got, err := repo.FindByID(ctx, loan.ID())
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version())
	assert.Equal(t, result.NewTenureMonths, got.Schedule().Len())
	assert.True(t, result.NewOutstanding.Equal(got.OutstandingBalance()))

	history, err := repo.ListByLoanID(ctx, loan.ID())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, result.Amount.Equal(history[0].Result.Amount))
	assert.True(t, result.CurrentOutstanding.Equal(history[0].Result.CurrentOutstanding))
	assert.Equal(t, result.TenureReductionMonths, history[0].Result.TenureReductionMonths)
	assert.Equal(t, result.CurrentTenureMonths, history[0].Result.CurrentTenureMonths)
}

func TestLoanRepo_StaleVersionRejected(t *testing.T) {
	ctx := context.Background()
	repo, _ := setup(t)
	loan := newLoan(t)
	require.NoError(t, repo.Save(ctx, loan))

	first, err := repo.FindByID(ctx, loan.ID())
	require.NoError(t, err)
	second := first

	paid, err := first.RecordInstallmentPayment(3, now)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, paid))

	stale, err := second.RecordInstallmentPayment(3, now)
	require.NoError(t, err)
	err = repo.Save(ctx, stale)
	assert.True(t, errors.Is(err, model.ErrConcurrentModification))
}

func TestLoanRepo_SecondActiveLoanRejected(t *testing.T) {
	ctx := context.Background()
	repo, _ := setup(t)
	require.NoError(t, repo.Save(ctx, newLoan(t)))

	err := repo.Save(ctx, newLoan(t))
	assert.ErrorIs(t, err, model.ErrActiveLoanExists)

	totals, err := repo.TotalsByVehicleID(ctx, "vehicle-001")
	require.NoError(t, err)
	assert.Equal(t, 1, totals.Count)
}

func TestLoanRepo_TotalsSpanClosedLoans(t *testing.T) {
	ctx := context.Background()
	repo, _ := setup(t)

	empty, err := repo.TotalsByVehicleID(ctx, "vehicle-001")
	require.NoError(t, err)
	assert.Zero(t, empty.Count)
	assert.True(t, empty.EMIPaid.IsZero())
	assert.True(t, empty.Prepaid.IsZero())

	first := newLoan(t)
	require.NoError(t, repo.Save(ctx, first))
	stored, err := repo.FindByID(ctx, first.ID())
	require.NoError(t, err)
	closed, _, err := stored.ApplyPrepayment(stored.OutstandingBalance(), now)
	require.NoError(t, err)
	require.True(t, closed.IsClosed())
	require.NoError(t, repo.Save(ctx, closed))

	second := newLoan(t)
	require.NoError(t, repo.Save(ctx, second), "a closed loan does not block a new one")

	totals, err := repo.TotalsByVehicleID(ctx, "vehicle-001")
	require.NoError(t, err)
	assert.Equal(t, 2, totals.Count)
	assert.True(t, totals.EMIPaid.Equal(first.EMIPaidToDate().Add(second.EMIPaidToDate())), "emi paid = %s", totals.EMIPaid)
	assert.True(t, totals.Prepaid.Equal(closed.TotalPrepaid()), "prepaid = %s", totals.Prepaid)
}

func TestFinancialsRepo_LedgerAndRecord(t *testing.T) {
	ctx := context.Background()
	_, repo := setup(t)

	_, err := repo.FindFinancials(ctx, "vehicle-001")
	assert.ErrorIs(t, err, model.ErrNotFound)

	f, err := model.NewVehicleFinancials("vehicle-001",
		decimal.NewFromInt(150000), decimal.NewFromInt(650000), decimal.NewFromInt(12),
		time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), now)
	require.NoError(t, err)
	require.NoError(t, repo.SaveFinancials(ctx, f))

	got, err := repo.FindFinancials(ctx, "vehicle-001")
	require.NoError(t, err)
	assert.True(t, f.AssetCost().Equal(got.AssetCost()))
	assert.Equal(t, f.OnboardedAt(), got.OnboardedAt())

	for _, a := range []struct {
		kind   valueobject.ActivityKind
		amount string
		at     time.Time
	}{
		{valueobject.ActivityKindEarning, "30000", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		{valueobject.ActivityKindEarning, "32000.50", time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)},
		{valueobject.ActivityKindExpense, "4500", time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)},
	} {
		act, err := model.NewActivity("vehicle-001", a.kind, decimal.RequireFromString(a.amount), "ops", a.at)
		require.NoError(t, err)
		require.NoError(t, repo.AppendActivity(ctx, act))
	}

	totals, err := repo.LedgerTotals(ctx, "vehicle-001")
	require.NoError(t, err)
	assert.Equal(t, "62000.5", totals.Earnings.String())
	assert.Equal(t, "4500", totals.OperatingExpenses.String())

	recent, err := repo.ActivitiesSince(ctx, "vehicle-001", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, valueobject.ActivityKindEarning, recent[0].Kind)

	empty, err := repo.LedgerTotals(ctx, "vehicle-002")
	require.NoError(t, err)
	assert.True(t, empty.Earnings.IsZero())
}
