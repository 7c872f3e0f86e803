package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/faiyaz92/pay-roll-sub001/internal/domain/event"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/model"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/port"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/valueobject"
	pkgpostgres "github.com/faiyaz92/pay-roll-sub001/pkg/postgres"
)

// DB is satisfied by *pgxpool.Pool.
type DB interface {
	pkgpostgres.Querier
	pkgpostgres.TxBeginner
}

// LoanRepo implements port.LoanRepository and port.PrepaymentHistory.
type LoanRepo struct {
	db DB
}

// NewLoanRepo creates a new PostgreSQL-backed loan repository.
func NewLoanRepo(db DB) *LoanRepo {
	return &LoanRepo{db: db}
}

const loanColumns = `
	id, vehicle_id, status, principal, annual_rate_percent, emi,
	tenure_months, first_installment_date, emi_due_day,
	original_principal, outstanding_balance, total_prepaid, emi_paid_to_date,
	version, created_at, updated_at`

// Save upserts the loan row, replaces its schedule and records confirmed
// prepayments, all in one transaction. Readers never see a half-replaced
// schedule.
func (r *LoanRepo) Save(ctx context.Context, loan model.Loan) error {
	return pkgpostgres.WithTransaction(ctx, r.db, pkgpostgres.ReadCommitted, func(tx pgx.Tx) error {
		terms := loan.Terms()
		tag, err := tx.Exec(ctx, `
			INSERT INTO loans (`+loanColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
			ON CONFLICT (id) DO UPDATE SET
				status                 = EXCLUDED.status,
				principal              = EXCLUDED.principal,
				annual_rate_percent    = EXCLUDED.annual_rate_percent,
				emi                    = EXCLUDED.emi,
				tenure_months          = EXCLUDED.tenure_months,
				first_installment_date = EXCLUDED.first_installment_date,
				outstanding_balance    = EXCLUDED.outstanding_balance,
				total_prepaid          = EXCLUDED.total_prepaid,
				emi_paid_to_date       = EXCLUDED.emi_paid_to_date,
				version                = loans.version + 1,
				updated_at             = EXCLUDED.updated_at
			WHERE loans.version = $14`,
			loan.ID(), loan.VehicleID(), loan.Status().String(),
			terms.Principal, terms.AnnualRatePercent, terms.EMI,
			terms.TenureMonths, terms.FirstInstallmentDate, loan.EMIDueDay(),
			loan.OriginalPrincipal(), loan.OutstandingBalance(), loan.TotalPrepaid(), loan.EMIPaidToDate(),
			loan.Version(), loan.CreatedAt(), loan.UpdatedAt(),
		)
		if isUniqueViolation(err, activeLoanIndex) {
			return fmt.Errorf("vehicle %s: %w", loan.VehicleID(), model.ErrActiveLoanExists)
		}
		if err != nil {
			return fmt.Errorf("save loan: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("loan %s version %d: %w", loan.ID(), loan.Version(), model.ErrConcurrentModification)
		}

		if err := replaceSchedule(ctx, tx, loan.ID(), loan.Schedule()); err != nil {
			return err
		}
		return recordPrepayments(ctx, tx, loan.ID(), loan.DomainEvents())
	})
}

// activeLoanIndex is the partial unique index allowing one ACTIVE loan per
// vehicle.
const activeLoanIndex = "uq_loans_active_vehicle"

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}

func replaceSchedule(ctx context.Context, tx pgx.Tx, loanID string, schedule model.AmortizationSchedule) error {
	if _, err := tx.Exec(ctx, `DELETE FROM amortization_entries WHERE loan_id = $1`, loanID); err != nil {
		return fmt.Errorf("clear schedule: %w", err)
	}
	if schedule.IsEmpty() {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range schedule.Entries() {
		batch.Queue(`
			INSERT INTO amortization_entries
				(loan_id, month, due_date, interest, principal, outstanding_after, is_paid, paid_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			loanID, e.Month, e.DueDate, e.Interest, e.Principal, e.OutstandingAfter, e.IsPaid, e.PaidAt,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("save schedule: %w", err)
	}
	return nil
}

func recordPrepayments(ctx context.Context, tx pgx.Tx, loanID string, events []event.DomainEvent) error {
	for _, evt := range events {
		applied, ok := evt.(event.PrepaymentApplied)
		if !ok {
			continue
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO prepayments (
				id, loan_id, amount, previous_outstanding, new_outstanding, interest_savings,
				previous_tenure_months, new_tenure_months, tenure_reduction_months, applied_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
			ON CONFLICT (id) DO NOTHING`,
			applied.EventID(), loanID, applied.Amount,
			applied.NewOutstanding.Add(applied.Amount), applied.NewOutstanding, applied.InterestSavings,
			applied.NewTenureMonths+applied.TenureReductionMonths, applied.NewTenureMonths, applied.TenureReductionMonths,
			applied.OccurredAt(),
		)
		if err != nil {
			return fmt.Errorf("record prepayment %s: %w", applied.EventID(), err)
		}
	}
	return nil
}

// FindByID retrieves a loan and its amortization schedule by ID.
func (r *LoanRepo) FindByID(ctx context.Context, id string) (model.Loan, error) {
	return r.findOne(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, id)
}

// FindByVehicleID retrieves the most recently created loan of a vehicle.
func (r *LoanRepo) FindByVehicleID(ctx context.Context, vehicleID string) (model.Loan, error) {
	return r.findOne(ctx, `
		SELECT `+loanColumns+` FROM loans
		WHERE vehicle_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, vehicleID)
}

// TotalsByVehicleID sums EMI paid and prepayments over all loans of a
// vehicle.
func (r *LoanRepo) TotalsByVehicleID(ctx context.Context, vehicleID string) (model.LoanTotals, error) {
	var totals model.LoanTotals
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(emi_paid_to_date), 0), COALESCE(SUM(total_prepaid), 0), COUNT(*)
		FROM loans
		WHERE vehicle_id = $1`, vehicleID).Scan(&totals.EMIPaid, &totals.Prepaid, &totals.Count)
	if err != nil {
		return model.LoanTotals{}, fmt.Errorf("query loan totals: %w", err)
	}
	return totals, nil
}

// ListByLoanID returns confirmed prepayments, oldest first.
func (r *LoanRepo) ListByLoanID(ctx context.Context, loanID string) ([]port.PrepaymentRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, amount, previous_outstanding, new_outstanding, interest_savings,
		       previous_tenure_months, new_tenure_months, tenure_reduction_months, applied_at
		FROM prepayments
		WHERE loan_id = $1
		ORDER BY applied_at, id`, loanID)
	if err != nil {
		return nil, fmt.Errorf("query prepayments: %w", err)
	}
	defer rows.Close()

	var records []port.PrepaymentRecord
	for rows.Next() {
		rec := port.PrepaymentRecord{LoanID: loanID}
		res := &rec.Result
		if err := rows.Scan(
			&rec.ID, &res.Amount, &res.CurrentOutstanding, &res.NewOutstanding, &res.InterestSavings,
			&res.CurrentTenureMonths, &res.NewTenureMonths, &res.TenureReductionMonths, &rec.AppliedAt,
		); err != nil {
			return nil, fmt.Errorf("scan prepayment: %w", err)
		}
		rec.AppliedAt = rec.AppliedAt.UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *LoanRepo) findOne(ctx context.Context, query string, arg string) (model.Loan, error) {
	var (
		id, vehicleID, status                                  string
		terms                                                  model.LoanTerms
		emiDueDay, version                                     int
		originalPrincipal, outstanding, prepaid, emiPaidToDate decimal.Decimal
		createdAt, updatedAt                                   time.Time
	)
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&id, &vehicleID, &status,
		&terms.Principal, &terms.AnnualRatePercent, &terms.EMI,
		&terms.TenureMonths, &terms.FirstInstallmentDate, &emiDueDay,
		&originalPrincipal, &outstanding, &prepaid, &emiPaidToDate,
		&version, &createdAt, &updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Loan{}, fmt.Errorf("loan %s: %w", arg, model.ErrNotFound)
	}
	if err != nil {
		return model.Loan{}, fmt.Errorf("query loan: %w", err)
	}

	loanStatus, err := valueobject.NewLoanStatus(status)
	if err != nil {
		return model.Loan{}, fmt.Errorf("loan %s: %w", id, err)
	}
	schedule, err := r.loadSchedule(ctx, id)
	if err != nil {
		return model.Loan{}, err
	}

	terms.FirstInstallmentDate = dateOnly(terms.FirstInstallmentDate)
	return model.ReconstructLoan(
		id, vehicleID, terms, emiDueDay, loanStatus, schedule,
		originalPrincipal, outstanding, prepaid, emiPaidToDate,
		version, createdAt.UTC(), updatedAt.UTC(),
	), nil
}

func (r *LoanRepo) loadSchedule(ctx context.Context, loanID string) (model.AmortizationSchedule, error) {
	rows, err := r.db.Query(ctx, `
		SELECT month, due_date, interest, principal, outstanding_after, is_paid, paid_at
		FROM amortization_entries
		WHERE loan_id = $1
		ORDER BY month`, loanID)
	if err != nil {
		return model.AmortizationSchedule{}, fmt.Errorf("query schedule: %w", err)
	}
	defer rows.Close()

	var entries []model.AmortizationEntry
	for rows.Next() {
		var e model.AmortizationEntry
		if err := rows.Scan(&e.Month, &e.DueDate, &e.Interest, &e.Principal, &e.OutstandingAfter, &e.IsPaid, &e.PaidAt); err != nil {
			return model.AmortizationSchedule{}, fmt.Errorf("scan schedule entry: %w", err)
		}
		e.DueDate = dateOnly(e.DueDate)
		if e.PaidAt != nil {
			paid := e.PaidAt.UTC()
			e.PaidAt = &paid
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return model.AmortizationSchedule{}, fmt.Errorf("read schedule: %w", err)
	}
	return model.NewAmortizationSchedule(entries)
}
