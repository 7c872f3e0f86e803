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
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/valueobject"
)

// RegisterVehicleFinancialsUseCase creates or revises the investment and
// depreciation record of a vehicle.
type RegisterVehicleFinancialsUseCase struct {
	repo  port.FinancialsRepository
	clock port.Clock
}

// NewRegisterVehicleFinancialsUseCase wires dependencies.
func NewRegisterVehicleFinancialsUseCase(repo port.FinancialsRepository, clock port.Clock) *RegisterVehicleFinancialsUseCase {
	return &RegisterVehicleFinancialsUseCase{repo: repo, clock: clock}
}

// Execute upserts the record.
func (uc *RegisterVehicleFinancialsUseCase) Execute(
	ctx context.Context,
	req dto.RegisterVehicleFinancialsRequest,
) (dto.VehicleFinancialsResponse, error) {
	ctx, span := tracer.Start(ctx, "RegisterVehicleFinancials", trace.WithAttributes(attribute.String("vehicle.id", req.VehicleID)))
	defer span.End()

	now := uc.clock.Now()
	onboarded, err := parseDate("onboarded_at", req.OnboardedAt)
	if err != nil {
		return dto.VehicleFinancialsResponse{}, fail(span, err)
	}

	existing, err := uc.repo.FindFinancials(ctx, req.VehicleID)
	var f model.VehicleFinancials
	switch {
	case errors.Is(err, model.ErrNotFound):
		f, err = model.NewVehicleFinancials(req.VehicleID, req.InitialInvestment, req.AssetCost, req.DepreciationRatePercent, onboarded, now)
	case err != nil:
		return dto.VehicleFinancialsResponse{}, fail(span, fmt.Errorf("find financials: %w", err))
	default:
		f, err = existing.Revise(req.InitialInvestment, req.AssetCost, req.DepreciationRatePercent, onboarded, now)
	}
	if err != nil {
		return dto.VehicleFinancialsResponse{}, fail(span, fmt.Errorf("build financials: %w", err))
	}

	if err := uc.repo.SaveFinancials(ctx, f); err != nil {
		return dto.VehicleFinancialsResponse{}, fail(span, fmt.Errorf("save financials: %w", err))
	}
	return toFinancialsResponse(f), nil
}

// RecordActivityUseCase appends an earning or expense to a vehicle's ledger.
type RecordActivityUseCase struct {
	repo port.FinancialsRepository
}

// NewRecordActivityUseCase wires dependencies.
func NewRecordActivityUseCase(repo port.FinancialsRepository) *RecordActivityUseCase {
	return &RecordActivityUseCase{repo: repo}
}

// Execute validates and stores the entry.
func (uc *RecordActivityUseCase) Execute(
	ctx context.Context,
	req dto.RecordActivityRequest,
) (dto.ActivityResponse, error) {
	ctx, span := tracer.Start(ctx, "RecordActivity", trace.WithAttributes(attribute.String("vehicle.id", req.VehicleID)))
	defer span.End()

	kind, err := valueobject.NewActivityKind(req.Kind)
	if err != nil {
		return dto.ActivityResponse{}, fail(span, fmt.Errorf("%w: %v", model.ErrInvalidInput, err))
	}
	activity, err := model.NewActivity(req.VehicleID, kind, req.Amount, req.Category, req.OccurredAt)
	if err != nil {
		return dto.ActivityResponse{}, fail(span, fmt.Errorf("build activity: %w", err))
	}

	if err := uc.repo.AppendActivity(ctx, activity); err != nil {
		return dto.ActivityResponse{}, fail(span, fmt.Errorf("append activity: %w", err))
	}

	telemetry.activitiesRecorded.Add(ctx, 1)
	return dto.ActivityResponse{
		ID:        activity.ID,
		VehicleID: activity.VehicleID,
		Kind:      activity.Kind.String(),
	}, nil
}
