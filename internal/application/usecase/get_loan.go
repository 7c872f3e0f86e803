package usecase

import (
	"context"
	"fmt"

	"github.com/faiyaz92/pay-roll-sub001/internal/application/dto"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/model"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/port"
)

// GetLoanUseCase retrieves a loan with its schedule, overdue installments
// and prepayment history.
type GetLoanUseCase struct {
	loanRepo port.LoanRepository
	history  port.PrepaymentHistory
	clock    port.Clock
}

// NewGetLoanUseCase wires dependencies.
func NewGetLoanUseCase(loanRepo port.LoanRepository, history port.PrepaymentHistory, clock port.Clock) *GetLoanUseCase {
	return &GetLoanUseCase{loanRepo: loanRepo, history: history, clock: clock}
}

// Execute looks the loan up by ID, or by vehicle when no ID is given.
func (uc *GetLoanUseCase) Execute(
	ctx context.Context,
	req dto.GetLoanRequest,
) (dto.LoanResponse, error) {
	ctx, span := tracer.Start(ctx, "GetLoan")
	defer span.End()

	loan, err := uc.find(ctx, req)
	if err != nil {
		return dto.LoanResponse{}, fail(span, fmt.Errorf("find loan: %w", err))
	}

	records, err := uc.history.ListByLoanID(ctx, loan.ID())
	if err != nil {
		return dto.LoanResponse{}, fail(span, fmt.Errorf("list prepayments: %w", err))
	}

	resp := toLoanResponse(loan)
	resp.Overdue = toEntryResponses(loan.Overdue(uc.clock.Now()))
	for _, r := range records {
		resp.Prepayments = append(resp.Prepayments, dto.PrepaymentRecordResponse{
			ID:        r.ID,
			AppliedAt: r.AppliedAt,
			Result:    toPrepaymentResultResponse(r.Result),
		})
	}
	return resp, nil
}

func (uc *GetLoanUseCase) find(ctx context.Context, req dto.GetLoanRequest) (model.Loan, error) {
	switch {
	case req.LoanID != "":
		return uc.loanRepo.FindByID(ctx, req.LoanID)
	case req.VehicleID != "":
		return uc.loanRepo.FindByVehicleID(ctx, req.VehicleID)
	default:
		return model.Loan{}, fmt.Errorf("%w: loan ID or vehicle ID is required", model.ErrInvalidInput)
	}
}
