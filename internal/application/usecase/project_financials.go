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
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/service"
)

// ProjectFinancialsUseCase assembles a vehicle's current financial state
// and runs the multi-year simulator over it. Nothing is persisted.
type ProjectFinancialsUseCase struct {
	loanRepo       port.LoanRepository
	financialsRepo port.FinancialsRepository
	clock          port.Clock
	windowMonths   int
}

// NewProjectFinancialsUseCase wires dependencies. windowMonths is the
// trailing window for default earnings and expense assumptions.
func NewProjectFinancialsUseCase(
	loanRepo port.LoanRepository,
	financialsRepo port.FinancialsRepository,
	clock port.Clock,
	windowMonths int,
) *ProjectFinancialsUseCase {
	if windowMonths <= 0 {
		windowMonths = service.DefaultAverageWindowMonths
	}
	return &ProjectFinancialsUseCase{
		loanRepo:       loanRepo,
		financialsRepo: financialsRepo,
		clock:          clock,
		windowMonths:   windowMonths,
	}
}

// Execute returns the projection.
func (uc *ProjectFinancialsUseCase) Execute(
	ctx context.Context,
	req dto.ProjectFinancialsRequest,
) (dto.ProjectionResponse, error) {
	_, snapshot, err := uc.Simulate(ctx, req)
	if err != nil {
		return dto.ProjectionResponse{}, err
	}
	return toProjectionResponse(req.VehicleID, snapshot), nil
}

// Simulate returns the assembled starting state and the projection.
func (uc *ProjectFinancialsUseCase) Simulate(
	ctx context.Context,
	req dto.ProjectFinancialsRequest,
) (model.FinancialState, model.ProjectionSnapshot, error) {
	ctx, span := tracer.Start(ctx, "ProjectFinancials", trace.WithAttributes(
		attribute.String("vehicle.id", req.VehicleID),
		attribute.Int("projection.years", req.Years),
	))
	defer span.End()

	now := uc.clock.Now()

	// 1. Investment record.
	financials, err := uc.financialsRepo.FindFinancials(ctx, req.VehicleID)
	if err != nil {
		return model.FinancialState{}, model.ProjectionSnapshot{}, fail(span, fmt.Errorf("find financials: %w", err))
	}

	// 2. Loan, if the vehicle is financed, and repayments across all its loans.
	var loanPtr *model.Loan
	loan, err := uc.loanRepo.FindByVehicleID(ctx, req.VehicleID)
	switch {
	case err == nil:
		loanPtr = &loan
	case !errors.Is(err, model.ErrNotFound):
		return model.FinancialState{}, model.ProjectionSnapshot{}, fail(span, fmt.Errorf("find vehicle loan: %w", err))
	}
	loanTotals, err := uc.loanRepo.TotalsByVehicleID(ctx, req.VehicleID)
	if err != nil {
		return model.FinancialState{}, model.ProjectionSnapshot{}, fail(span, fmt.Errorf("loan totals: %w", err))
	}

	// 3. Ledger.
	totals, err := uc.financialsRepo.LedgerTotals(ctx, req.VehicleID)
	if err != nil {
		return model.FinancialState{}, model.ProjectionSnapshot{}, fail(span, fmt.Errorf("ledger totals: %w", err))
	}
	recent, err := uc.financialsRepo.ActivitiesSince(ctx, req.VehicleID, now.AddDate(0, -uc.windowMonths, 0))
	if err != nil {
		return model.FinancialState{}, model.ProjectionSnapshot{}, fail(span, fmt.Errorf("recent activity: %w", err))
	}

	// 4. Simulate.
	state := service.BuildFinancialState(loanPtr, loanTotals, financials, totals, recent, now, uc.windowMonths)
	snapshot, err := model.Project(state, model.ProjectionParams{
		Years:                  req.Years,
		AssumedMonthlyEarnings: req.AssumedMonthlyEarnings,
		AssumedMonthlyExpenses: req.AssumedMonthlyExpenses,
		IncreasedEMI:           req.IncreasedEMI,
		UseNetCashFlowForEMI:   req.UseNetCashFlowForEMI,
	})
	if err != nil {
		return model.FinancialState{}, model.ProjectionSnapshot{}, fail(span, fmt.Errorf("project: %w", err))
	}

	telemetry.projectionsRun.Add(ctx, 1)
	return state, snapshot, nil
}
