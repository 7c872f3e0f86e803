package usecase

import (
	"fmt"
	"time"

	"github.com/faiyaz92/pay-roll-sub001/internal/application/dto"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/model"
)

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a %s date", model.ErrInvalidInput, field, dto.DateLayout)
	}
	return t, nil
}

func toEntryResponse(e model.AmortizationEntry) dto.AmortizationEntryResponse {
	return dto.AmortizationEntryResponse{
		Month:            e.Month,
		DueDate:          e.DueDate.Format(dto.DateLayout),
		Interest:         e.Interest,
		Principal:        e.Principal,
		Installment:      e.Installment(),
		OutstandingAfter: e.OutstandingAfter,
		IsPaid:           e.IsPaid,
		PaidAt:           e.PaidAt,
	}
}

func toEntryResponses(entries []model.AmortizationEntry) []dto.AmortizationEntryResponse {
	if len(entries) == 0 {
		return nil
	}
	out := make([]dto.AmortizationEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	return out
}

func toLoanResponse(loan model.Loan) dto.LoanResponse {
	terms := loan.Terms()
	resp := dto.LoanResponse{
		ID:                   loan.ID(),
		VehicleID:            loan.VehicleID(),
		Status:               loan.Status().String(),
		FirstInstallmentDate: terms.FirstInstallmentDate.Format(dto.DateLayout),
		OriginalPrincipal:    loan.OriginalPrincipal(),
		Principal:            terms.Principal,
		AnnualRatePercent:    terms.AnnualRatePercent,
		EMI:                  terms.EMI,
		TenureMonths:         terms.TenureMonths,
		EMIDueDay:            loan.EMIDueDay(),
		OutstandingBalance:   loan.OutstandingBalance(),
		TotalPrepaid:         loan.TotalPrepaid(),
		EMIPaidToDate:        loan.EMIPaidToDate(),
		TotalInterest:        loan.Schedule().TotalInterest(),
		Schedule:             toEntryResponses(loan.Schedule().Entries()),
		Version:              loan.Version(),
		CreatedAt:            loan.CreatedAt(),
		UpdatedAt:            loan.UpdatedAt(),
	}
	if next, ok := loan.NextDue(); ok {
		e := toEntryResponse(next)
		resp.NextDue = &e
	}
	return resp
}

func toPrepaymentResultResponse(r model.PrepaymentResult) dto.PrepaymentResultResponse {
	return dto.PrepaymentResultResponse{
		Amount:                r.Amount,
		CurrentOutstanding:    r.CurrentOutstanding,
		NewOutstanding:        r.NewOutstanding,
		InterestSavings:       r.InterestSavings,
		CurrentTenureMonths:   r.CurrentTenureMonths,
		NewTenureMonths:       r.NewTenureMonths,
		TenureReductionMonths: r.TenureReductionMonths,
		FullPayoff:            r.IsFullPayoff(),
	}
}

func toFinancialsResponse(f model.VehicleFinancials) dto.VehicleFinancialsResponse {
	return dto.VehicleFinancialsResponse{
		VehicleID:               f.VehicleID(),
		InitialInvestment:       f.InitialInvestment(),
		AssetCost:               f.AssetCost(),
		DepreciationRatePercent: f.DepreciationRatePercent(),
		OnboardedAt:             f.OnboardedAt().Format(dto.DateLayout),
		UpdatedAt:               f.UpdatedAt(),
	}
}

func toProjectionResponse(vehicleID string, s model.ProjectionSnapshot) dto.ProjectionResponse {
	resp := dto.ProjectionResponse{
		VehicleID:                  vehicleID,
		Years:                      s.Years,
		MonthlyEarnings:            s.MonthlyEarnings,
		MonthlyExpenses:            s.MonthlyExpenses,
		EMIPayment:                 s.EMIPayment,
		ProjectedEarnings:          s.ProjectedEarnings,
		ProjectedOperatingExpenses: s.ProjectedOperatingExpenses,
		ProjectedTotalExpenses:     s.ProjectedTotalExpenses,
		ProjectedEMIPaid:           s.ProjectedEMIPaid,
		ProjectedAssetValue:        s.ProjectedAssetValue,
		ProjectedOutstandingLoan:   s.ProjectedOutstandingLoan,
		TotalReturn:                s.TotalReturn,
		FixedInvestment:            s.FixedInvestment,
		ROIPercent:                 s.ROIPercent,
		ProfitLoss:                 s.ProfitLoss,
		BreakEvenMonths:            s.BreakEvenMonths,
		LoanClearanceMonths:        s.LoanClearanceMonths,
	}
	for _, y := range s.Yearly {
		resp.Yearly = append(resp.Yearly, dto.YearSummaryResponse{
			Year:            y.Year,
			Earnings:        y.Earnings,
			TotalExpenses:   y.TotalExpenses,
			AssetValue:      y.AssetValue,
			OutstandingLoan: y.OutstandingLoan,
			TotalReturn:     y.TotalReturn,
		})
	}
	return resp
}
