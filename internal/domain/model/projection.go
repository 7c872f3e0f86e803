package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// MaxProjectionYears bounds the projection horizon.
	MaxProjectionYears = 30

	// SearchCeilingMonths bounds the break-even and loan-clearance searches.
	SearchCeilingMonths = 120
)

// FinancialState is the snapshot of a vehicle's finances a projection starts
// from. The caller is responsible for its internal consistency.
type FinancialState struct {
	CumulativeEarnings          decimal.Decimal
	CumulativeOperatingExpenses decimal.Decimal
	CumulativeEMIPaid           decimal.Decimal
	OutstandingLoan             decimal.Decimal
	CurrentAssetValue           decimal.Decimal
	// InitialInvestment is the owner's one-time capital outlay (down payment
	// and onboarding costs), not the financed amount.
	InitialInvestment       decimal.Decimal
	TotalPrepayments        decimal.Decimal
	AverageMonthlyEarnings  decimal.Decimal
	AverageMonthlyExpenses  decimal.Decimal
	EMI                     decimal.Decimal
	AnnualRatePercent       decimal.Decimal
	DepreciationRatePercent decimal.Decimal
}

// FixedInvestment is the invested capital returns are measured against.
// Operating expenses are excluded; they are netted into the total return.
func (s FinancialState) FixedInvestment() decimal.Decimal {
	return s.InitialInvestment.Add(s.TotalPrepayments)
}

// ProjectionParams are the what-if assumptions. Nil overrides fall back to
// the trailing averages and the contractual EMI carried in the state.
type ProjectionParams struct {
	AssumedMonthlyEarnings *decimal.Decimal
	AssumedMonthlyExpenses *decimal.Decimal
	IncreasedEMI           *decimal.Decimal
	Years                  int
	UseNetCashFlowForEMI   bool
}

// YearSummary is the simulated position at the end of a projected year.
type YearSummary struct {
	Earnings        decimal.Decimal
	TotalExpenses   decimal.Decimal
	AssetValue      decimal.Decimal
	OutstandingLoan decimal.Decimal
	TotalReturn     decimal.Decimal
	Year            int
}

// ProjectionSnapshot is the derived, never persisted result of Project.
type ProjectionSnapshot struct {
	MonthlyEarnings            decimal.Decimal
	MonthlyExpenses            decimal.Decimal
	EMIPayment                 decimal.Decimal
	ProjectedEarnings          decimal.Decimal
	ProjectedOperatingExpenses decimal.Decimal
	ProjectedTotalExpenses     decimal.Decimal
	ProjectedEMIPaid           decimal.Decimal
	ProjectedAssetValue        decimal.Decimal
	ProjectedOutstandingLoan   decimal.Decimal
	TotalReturn                decimal.Decimal
	FixedInvestment            decimal.Decimal
	ROIPercent                 decimal.Decimal
	ProfitLoss                 decimal.Decimal
	BreakEvenMonths            *int
	LoanClearanceMonths        *int
	Yearly                     []YearSummary
	Years                      int
}

type simulationState struct {
	earnings          decimal.Decimal
	operatingExpenses decimal.Decimal
	totalExpenses     decimal.Decimal
	emiPaid           decimal.Decimal
	outstanding       decimal.Decimal
	assetValue        decimal.Decimal
	month             int
}

type simulationParams struct {
	monthlyEarnings  decimal.Decimal
	monthlyExpenses  decimal.Decimal
	emiPayment       decimal.Decimal
	monthlyRate      decimal.Decimal
	depreciationRate decimal.Decimal
}

// totalReturn is earnings net of operating expenses and EMI paid, plus the
// equity held in the asset.
func (s simulationState) totalReturn() decimal.Decimal {
	return s.earnings.Sub(s.totalExpenses).Add(s.assetValue).Sub(s.outstanding)
}

// advanceOneMonth is the single per-month update shared by the projection
// and both searches. EMI counts as an expense only while the loan is
// outstanding; depreciation is applied every twelfth month.
func advanceOneMonth(s simulationState, p simulationParams) simulationState {
	s.month++
	s.earnings = s.earnings.Add(p.monthlyEarnings)
	s.operatingExpenses = s.operatingExpenses.Add(p.monthlyExpenses)
	s.totalExpenses = s.totalExpenses.Add(p.monthlyExpenses)

	if s.outstanding.IsPositive() {
		interest := s.outstanding.Mul(p.monthlyRate).Round(2)
		payment := decimal.Min(p.emiPayment, s.outstanding.Add(interest))
		s.outstanding = s.outstanding.Add(interest).Sub(payment)
		if s.outstanding.IsNegative() {
			s.outstanding = decimal.Zero
		}
		s.totalExpenses = s.totalExpenses.Add(payment)
		s.emiPaid = s.emiPaid.Add(payment)
	}

	if s.month%12 == 0 {
		s.assetValue = s.assetValue.Mul(decimal.NewFromInt(1).Sub(p.depreciationRate.Div(hundred))).Round(2)
	}
	return s
}

// Project simulates years×12 months forward from state.
func Project(state FinancialState, params ProjectionParams) (ProjectionSnapshot, error) {
	sp, err := resolveParams(state, params)
	if err != nil {
		return ProjectionSnapshot{}, err
	}

	start := simulationState{
		earnings:          state.CumulativeEarnings,
		operatingExpenses: state.CumulativeOperatingExpenses,
		totalExpenses:     state.CumulativeOperatingExpenses.Add(state.CumulativeEMIPaid),
		emiPaid:           state.CumulativeEMIPaid,
		outstanding:       state.OutstandingLoan,
		assetValue:        state.CurrentAssetValue,
	}

	s := start
	var yearly []YearSummary
	for m := 0; m < params.Years*12; m++ {
		s = advanceOneMonth(s, sp)
		if s.month%12 == 0 {
			yearly = append(yearly, YearSummary{
				Year:            s.month / 12,
				Earnings:        s.earnings,
				TotalExpenses:   s.totalExpenses,
				AssetValue:      s.assetValue,
				OutstandingLoan: s.outstanding,
				TotalReturn:     s.totalReturn(),
			})
		}
	}

	fixed := state.FixedInvestment()
	total := s.totalReturn()
	profit := total.Sub(fixed)

	return ProjectionSnapshot{
		Years:                      params.Years,
		MonthlyEarnings:            sp.monthlyEarnings,
		MonthlyExpenses:            sp.monthlyExpenses,
		EMIPayment:                 sp.emiPayment,
		ProjectedEarnings:          s.earnings,
		ProjectedOperatingExpenses: s.operatingExpenses,
		ProjectedTotalExpenses:     s.totalExpenses,
		ProjectedEMIPaid:           s.emiPaid,
		ProjectedAssetValue:        s.assetValue,
		ProjectedOutstandingLoan:   s.outstanding,
		TotalReturn:                total,
		FixedInvestment:            fixed,
		ROIPercent:                 ROI(total, fixed),
		ProfitLoss:                 profit,
		BreakEvenMonths:            breakEvenMonths(start, sp, fixed),
		LoanClearanceMonths:        loanClearanceMonths(start, sp),
		Yearly:                     yearly,
	}, nil
}

// ROI returns (totalReturn - fixedInvestment) / fixedInvestment × 100,
// rounded to two places, or zero when nothing has been invested.
func ROI(totalReturn, fixedInvestment decimal.Decimal) decimal.Decimal {
	if fixedInvestment.IsZero() {
		return decimal.Zero
	}
	return totalReturn.Sub(fixedInvestment).Div(fixedInvestment).Mul(hundred).Round(2)
}

func resolveParams(state FinancialState, params ProjectionParams) (simulationParams, error) {
	if params.Years < 0 || params.Years > MaxProjectionYears {
		return simulationParams{}, fmt.Errorf("%w: years must be between 0 and %d", ErrInvalidInput, MaxProjectionYears)
	}
	if state.OutstandingLoan.IsNegative() || state.AnnualRatePercent.IsNegative() || state.DepreciationRatePercent.IsNegative() {
		return simulationParams{}, fmt.Errorf("%w: outstanding loan and rates must not be negative", ErrInvalidInput)
	}
	if state.DepreciationRatePercent.GreaterThan(hundred) {
		return simulationParams{}, fmt.Errorf("%w: depreciation rate exceeds 100%%", ErrInvalidInput)
	}

	p := simulationParams{
		monthlyEarnings:  state.AverageMonthlyEarnings,
		monthlyExpenses:  state.AverageMonthlyExpenses,
		emiPayment:       state.EMI,
		monthlyRate:      monthlyRate(state.AnnualRatePercent),
		depreciationRate: state.DepreciationRatePercent,
	}
	overrides := []struct {
		value *decimal.Decimal
		name  string
	}{
		{params.AssumedMonthlyEarnings, "monthly earnings"},
		{params.AssumedMonthlyExpenses, "monthly expenses"},
		{params.IncreasedEMI, "increased emi"},
	}
	for _, o := range overrides {
		if o.value != nil && o.value.IsNegative() {
			return simulationParams{}, fmt.Errorf("%w: %s must not be negative", ErrInvalidInput, o.name)
		}
	}
	if params.AssumedMonthlyEarnings != nil {
		p.monthlyEarnings = *params.AssumedMonthlyEarnings
	}
	if params.AssumedMonthlyExpenses != nil {
		p.monthlyExpenses = *params.AssumedMonthlyExpenses
	}
	if params.IncreasedEMI != nil {
		p.emiPayment = *params.IncreasedEMI
	}
	if params.UseNetCashFlowForEMI {
		if surplus := p.monthlyEarnings.Sub(p.monthlyExpenses); surplus.IsPositive() {
			p.emiPayment = p.emiPayment.Add(surplus)
		}
	}

	if state.OutstandingLoan.IsPositive() {
		if err := checkConvergence(state.OutstandingLoan, p.emiPayment, p.monthlyRate); err != nil {
			return simulationParams{}, err
		}
	}
	return p, nil
}

func breakEvenMonths(start simulationState, p simulationParams, fixed decimal.Decimal) *int {
	s := start
	for m := 0; m <= SearchCeilingMonths; m++ {
		if m > 0 {
			s = advanceOneMonth(s, p)
		}
		if s.totalReturn().GreaterThanOrEqual(fixed) {
			return &m
		}
	}
	return nil
}

func loanClearanceMonths(start simulationState, p simulationParams) *int {
	s := start
	for m := 0; m <= SearchCeilingMonths; m++ {
		if m > 0 {
			s = advanceOneMonth(s, p)
		}
		if !s.outstanding.IsPositive() {
			return &m
		}
	}
	return nil
}
