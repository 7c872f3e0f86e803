package usecase

import (
	"context"
	"fmt"

	"github.com/faiyaz92/pay-roll-sub001/internal/application/dto"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/port"
)

// ExportScheduleUseCase renders a loan's schedule as a workbook.
type ExportScheduleUseCase struct {
	loanRepo port.LoanRepository
	renderer port.WorkbookRenderer
}

// NewExportScheduleUseCase wires dependencies.
func NewExportScheduleUseCase(loanRepo port.LoanRepository, renderer port.WorkbookRenderer) *ExportScheduleUseCase {
	return &ExportScheduleUseCase{loanRepo: loanRepo, renderer: renderer}
}

// Execute returns the workbook bytes.
func (uc *ExportScheduleUseCase) Execute(ctx context.Context, loanID string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "ExportSchedule")
	defer span.End()

	loan, err := uc.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, fail(span, fmt.Errorf("find loan: %w", err))
	}
	out, err := uc.renderer.RenderSchedule(loan)
	if err != nil {
		return nil, fail(span, fmt.Errorf("render schedule: %w", err))
	}
	return out, nil
}

// ExportProjectionUseCase renders a projection as a workbook.
type ExportProjectionUseCase struct {
	projector *ProjectFinancialsUseCase
	renderer  port.WorkbookRenderer
}

// NewExportProjectionUseCase wires dependencies.
func NewExportProjectionUseCase(projector *ProjectFinancialsUseCase, renderer port.WorkbookRenderer) *ExportProjectionUseCase {
	return &ExportProjectionUseCase{projector: projector, renderer: renderer}
}

// Execute runs the projection and returns the workbook bytes.
func (uc *ExportProjectionUseCase) Execute(ctx context.Context, req dto.ProjectFinancialsRequest) ([]byte, error) {
	state, snapshot, err := uc.projector.Simulate(ctx, req)
	if err != nil {
		return nil, err
	}
	out, err := uc.renderer.RenderProjection(req.VehicleID, state, snapshot)
	if err != nil {
		return nil, fmt.Errorf("render projection: %w", err)
	}
	return out, nil
}
