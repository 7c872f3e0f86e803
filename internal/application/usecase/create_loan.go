package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/faiyaz92/pay-roll-sub001/internal/application/dto"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/model"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/port"
)

// CreateLoanUseCase onboards a vehicle loan and generates its schedule.
type CreateLoanUseCase struct {
	loanRepo  port.LoanRepository
	publisher port.EventPublisher
	clock     port.Clock
}

// NewCreateLoanUseCase wires dependencies.
func NewCreateLoanUseCase(
	loanRepo port.LoanRepository,
	publisher port.EventPublisher,
	clock port.Clock,
) *CreateLoanUseCase {
	return &CreateLoanUseCase{
		loanRepo:  loanRepo,
		publisher: publisher,
		clock:     clock,
	}
}

// Execute validates the terms, generates the schedule and stores the loan.
func (uc *CreateLoanUseCase) Execute(
	ctx context.Context,
	req dto.CreateLoanRequest,
) (dto.LoanResponse, error) {
	ctx, span := tracer.Start(ctx, "CreateLoan", trace.WithAttributes(attribute.String("vehicle.id", req.VehicleID)))
	defer span.End()

	now := uc.clock.Now()

	// 1. Parse and validate terms.
	first, err := parseDate("first_installment_date", req.FirstInstallmentDate)
	if err != nil {
		return dto.LoanResponse{}, fail(span, err)
	}
	terms := model.LoanTerms{
		FirstInstallmentDate: first,
		Principal:            req.Principal,
		AnnualRatePercent:    req.AnnualRatePercent,
		EMI:                  req.EMI,
		TenureMonths:         req.TenureMonths,
	}

	// 2. One open loan per vehicle.
	existing, err := uc.loanRepo.FindByVehicleID(ctx, req.VehicleID)
	switch {
	case err == nil && !existing.IsClosed():
		return dto.LoanResponse{}, fail(span, fmt.Errorf("vehicle %s: %w", req.VehicleID, ErrActiveLoanExists))
	case err != nil && !errors.Is(err, model.ErrNotFound):
		return dto.LoanResponse{}, fail(span, fmt.Errorf("find vehicle loan: %w", err))
	}

	// 3. Create the aggregate (generates the schedule).
	loan, err := model.NewLoan(req.VehicleID, terms, req.EMIDueDay, req.AlreadyPaidInstallments, now)
	if err != nil {
		return dto.LoanResponse{}, fail(span, fmt.Errorf("create loan: %w", err))
	}

	// 4. Persist.
	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fail(span, fmt.Errorf("save loan: %w", err))
	}

	// 5. Publish events.
	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.LoanResponse{}, fail(span, fmt.Errorf("publish events: %w", err))
	}

	telemetry.schedulesGenerated.Add(ctx, 1)
	span.SetAttributes(attribute.String("loan.id", loan.ID()), attribute.Int("loan.installments", loan.Schedule().Len()))
	return toLoanResponse(loan), nil
}
