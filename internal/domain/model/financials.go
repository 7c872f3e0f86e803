package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/faiyaz92/pay-roll-sub001/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// VehicleFinancials
// ---------------------------------------------------------------------------

// VehicleFinancials records what the owner put into a vehicle and how the
// asset is depreciated. Earnings and expenses are kept in the activity
// ledger and aggregated on read.
type VehicleFinancials struct {
	onboardedAt             time.Time
	createdAt               time.Time
	updatedAt               time.Time
	vehicleID               string
	initialInvestment       decimal.Decimal
	assetCost               decimal.Decimal
	depreciationRatePercent decimal.Decimal
}

// NewVehicleFinancials validates and creates a financials record.
// initialInvestment is the owner's capital outlay (down payment plus
// onboarding costs); assetCost is the purchase price depreciation starts from.
func NewVehicleFinancials(
	vehicleID string,
	initialInvestment, assetCost, depreciationRatePercent decimal.Decimal,
	onboardedAt, now time.Time,
) (VehicleFinancials, error) {
	switch {
	case vehicleID == "":
		return VehicleFinancials{}, fmt.Errorf("%w: vehicle ID is required", ErrInvalidInput)
	case initialInvestment.IsNegative():
		return VehicleFinancials{}, fmt.Errorf("%w: initial investment must not be negative", ErrInvalidInput)
	case !assetCost.IsPositive():
		return VehicleFinancials{}, fmt.Errorf("%w: asset cost must be positive", ErrInvalidInput)
	case depreciationRatePercent.IsNegative() || depreciationRatePercent.GreaterThan(hundred):
		return VehicleFinancials{}, fmt.Errorf("%w: depreciation rate must be between 0 and 100", ErrInvalidInput)
	case !hasPlaces(initialInvestment, moneyPlaces) || !hasPlaces(assetCost, moneyPlaces):
		return VehicleFinancials{}, fmt.Errorf("%w: amounts have more than %d decimal places", ErrInvalidInput, moneyPlaces)
	case !hasPlaces(depreciationRatePercent, ratePlaces):
		return VehicleFinancials{}, fmt.Errorf("%w: depreciation rate has more than %d decimal places", ErrInvalidInput, ratePlaces)
	case onboardedAt.IsZero():
		return VehicleFinancials{}, fmt.Errorf("%w: onboarding date is required", ErrInvalidInput)
	case onboardedAt.After(now):
		return VehicleFinancials{}, fmt.Errorf("%w: onboarding date is in the future", ErrInvalidInput)
	}

	return VehicleFinancials{
		vehicleID:               vehicleID,
		initialInvestment:       initialInvestment,
		assetCost:               assetCost,
		depreciationRatePercent: depreciationRatePercent,
		onboardedAt:             onboardedAt,
		createdAt:               now,
		updatedAt:               now,
	}, nil
}

// ReconstructVehicleFinancials rebuilds a record from persistence.
func ReconstructVehicleFinancials(
	vehicleID string,
	initialInvestment, assetCost, depreciationRatePercent decimal.Decimal,
	onboardedAt, createdAt, updatedAt time.Time,
) VehicleFinancials {
	return VehicleFinancials{
		vehicleID:               vehicleID,
		initialInvestment:       initialInvestment,
		assetCost:               assetCost,
		depreciationRatePercent: depreciationRatePercent,
		onboardedAt:             onboardedAt,
		createdAt:               createdAt,
		updatedAt:               updatedAt,
	}
}

// Revise returns a copy with new values, keeping the creation time.
func (f VehicleFinancials) Revise(initialInvestment, assetCost, depreciationRatePercent decimal.Decimal, onboardedAt, now time.Time) (VehicleFinancials, error) {
	next, err := NewVehicleFinancials(f.vehicleID, initialInvestment, assetCost, depreciationRatePercent, onboardedAt, now)
	if err != nil {
		return f, err
	}
	next.createdAt = f.createdAt
	return next, nil
}

func (f VehicleFinancials) VehicleID() string                        { return f.vehicleID }
func (f VehicleFinancials) InitialInvestment() decimal.Decimal       { return f.initialInvestment }
func (f VehicleFinancials) AssetCost() decimal.Decimal               { return f.assetCost }
func (f VehicleFinancials) DepreciationRatePercent() decimal.Decimal { return f.depreciationRatePercent }
func (f VehicleFinancials) OnboardedAt() time.Time                   { return f.onboardedAt }
func (f VehicleFinancials) CreatedAt() time.Time                     { return f.createdAt }
func (f VehicleFinancials) UpdatedAt() time.Time                     { return f.updatedAt }

// ---------------------------------------------------------------------------
// Activity ledger
// ---------------------------------------------------------------------------

// Activity is one earning (rent, trip collection) or operating expense
// (fuel, insurance, maintenance) recorded against a vehicle.
type Activity struct {
	OccurredAt time.Time
	ID         string
	VehicleID  string
	Category   string
	Kind       valueobject.ActivityKind
	Amount     decimal.Decimal
}

// NewActivity validates and creates a ledger entry.
func NewActivity(vehicleID string, kind valueobject.ActivityKind, amount decimal.Decimal, category string, occurredAt time.Time) (Activity, error) {
	switch {
	case vehicleID == "":
		return Activity{}, fmt.Errorf("%w: vehicle ID is required", ErrInvalidInput)
	case kind.IsZero():
		return Activity{}, fmt.Errorf("%w: activity kind is required", ErrInvalidInput)
	case !amount.IsPositive():
		return Activity{}, fmt.Errorf("%w: activity amount must be positive", ErrInvalidInput)
	case !hasPlaces(amount, moneyPlaces):
		return Activity{}, fmt.Errorf("%w: activity amount has more than %d decimal places", ErrInvalidInput, moneyPlaces)
	case occurredAt.IsZero():
		return Activity{}, fmt.Errorf("%w: activity date is required", ErrInvalidInput)
	}
	return Activity{
		ID:         uuid.New().String(),
		VehicleID:  vehicleID,
		Kind:       kind,
		Amount:     amount,
		Category:   strings.TrimSpace(category),
		OccurredAt: occurredAt,
	}, nil
}

// LedgerTotals are cumulative activity sums for a vehicle.
type LedgerTotals struct {
	Earnings          decimal.Decimal
	OperatingExpenses decimal.Decimal
}
