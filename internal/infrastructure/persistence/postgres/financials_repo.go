package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/faiyaz92/pay-roll-sub001/internal/domain/model"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/valueobject"
	pkgpostgres "github.com/faiyaz92/pay-roll-sub001/pkg/postgres"
)

// FinancialsRepo implements port.FinancialsRepository.
type FinancialsRepo struct {
	db pkgpostgres.Querier
}

// NewFinancialsRepo creates a new PostgreSQL-backed financials repository.
func NewFinancialsRepo(db pkgpostgres.Querier) *FinancialsRepo {
	return &FinancialsRepo{db: db}
}

func (r *FinancialsRepo) SaveFinancials(ctx context.Context, f model.VehicleFinancials) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO vehicle_financials (
			vehicle_id, initial_investment, asset_cost, depreciation_rate_percent,
			onboarded_at, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (vehicle_id) DO UPDATE SET
			initial_investment        = EXCLUDED.initial_investment,
			asset_cost                = EXCLUDED.asset_cost,
			depreciation_rate_percent = EXCLUDED.depreciation_rate_percent,
			onboarded_at              = EXCLUDED.onboarded_at,
			updated_at                = EXCLUDED.updated_at`,
		f.VehicleID(), f.InitialInvestment(), f.AssetCost(), f.DepreciationRatePercent(),
		f.OnboardedAt(), f.CreatedAt(), f.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save vehicle financials: %w", err)
	}
	return nil
}

func (r *FinancialsRepo) FindFinancials(ctx context.Context, vehicleID string) (model.VehicleFinancials, error) {
	var (
		investment, cost, rate          decimal.Decimal
		onboarded, createdAt, updatedAt time.Time
	)
	err := r.db.QueryRow(ctx, `
		SELECT initial_investment, asset_cost, depreciation_rate_percent,
		       onboarded_at, created_at, updated_at
		FROM vehicle_financials
		WHERE vehicle_id = $1`, vehicleID,
	).Scan(&investment, &cost, &rate, &onboarded, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.VehicleFinancials{}, fmt.Errorf("vehicle financials %s: %w", vehicleID, model.ErrNotFound)
	}
	if err != nil {
		return model.VehicleFinancials{}, fmt.Errorf("query vehicle financials: %w", err)
	}
	return model.ReconstructVehicleFinancials(
		vehicleID, investment, cost, rate,
		dateOnly(onboarded), createdAt.UTC(), updatedAt.UTC(),
	), nil
}

func (r *FinancialsRepo) AppendActivity(ctx context.Context, a model.Activity) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO vehicle_activities (id, vehicle_id, kind, category, amount, occurred_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		a.ID, a.VehicleID, a.Kind.String(), a.Category, a.Amount, a.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	return nil
}

// LedgerTotals sums the whole ledger of a vehicle; an empty ledger is zero.
func (r *FinancialsRepo) LedgerTotals(ctx context.Context, vehicleID string) (model.LedgerTotals, error) {
	var totals model.LedgerTotals
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount) FILTER (WHERE kind = 'EARNING'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE kind = 'EXPENSE'), 0)
		FROM vehicle_activities
		WHERE vehicle_id = $1`, vehicleID,
	).Scan(&totals.Earnings, &totals.OperatingExpenses)
	if err != nil {
		return model.LedgerTotals{}, fmt.Errorf("sum activities: %w", err)
	}
	return totals, nil
}

// ActivitiesSince lists entries that occurred at or after since, oldest first.
func (r *FinancialsRepo) ActivitiesSince(ctx context.Context, vehicleID string, since time.Time) ([]model.Activity, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, kind, category, amount, occurred_at
		FROM vehicle_activities
		WHERE vehicle_id = $1 AND occurred_at >= $2
		ORDER BY occurred_at, id`, vehicleID, since)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	var out []model.Activity
	for rows.Next() {
		a := model.Activity{VehicleID: vehicleID}
		var kind string
		if err := rows.Scan(&a.ID, &kind, &a.Category, &a.Amount, &a.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		if a.Kind, err = valueobject.NewActivityKind(kind); err != nil {
			return nil, fmt.Errorf("activity %s: %w", a.ID, err)
		}
		a.OccurredAt = a.OccurredAt.UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}
