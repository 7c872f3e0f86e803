package port

import (
	"context"
	"time"

	"github.com/faiyaz92/pay-roll-sub001/internal/domain/event"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// LoanRepository persists and retrieves vehicle loans with their schedules.
// Save replaces the stored schedule and records pending PrepaymentApplied
// events in the same transaction as the loan row. It fails with
// model.ErrConcurrentModification when the stored version moved on, and
// finders return model.ErrNotFound. Save fails with model.ErrActiveLoanExists
// when it would leave a vehicle with two active loans. TotalsByVehicleID sums
// every loan of the vehicle and is zero for a vehicle never financed.
type LoanRepository interface {
	Save(ctx context.Context, loan model.Loan) error
	FindByID(ctx context.Context, id string) (model.Loan, error)
	FindByVehicleID(ctx context.Context, vehicleID string) (model.Loan, error)
	TotalsByVehicleID(ctx context.Context, vehicleID string) (model.LoanTotals, error)
}

// PrepaymentRecord is the confirmed-prepayment history kept for audit.
type PrepaymentRecord struct {
	AppliedAt time.Time
	ID        string
	LoanID    string
	Result    model.PrepaymentResult
}

// PrepaymentHistory lists confirmed prepayments, oldest first.
type PrepaymentHistory interface {
	ListByLoanID(ctx context.Context, loanID string) ([]PrepaymentRecord, error)
}

// FinancialsRepository persists vehicle investment records and the activity
// ledger. FindFinancials returns model.ErrNotFound for unknown vehicles.
type FinancialsRepository interface {
	SaveFinancials(ctx context.Context, f model.VehicleFinancials) error
	FindFinancials(ctx context.Context, vehicleID string) (model.VehicleFinancials, error)
	AppendActivity(ctx context.Context, a model.Activity) error
	LedgerTotals(ctx context.Context, vehicleID string) (model.LedgerTotals, error)
	ActivitiesSince(ctx context.Context, vehicleID string, since time.Time) ([]model.Activity, error)
}

// ---------------------------------------------------------------------------
// Prepayment quotes
// ---------------------------------------------------------------------------

// PrepaymentQuote is a previewed prepayment awaiting confirmation. It pins
// the loan version and balance it was computed against.
type PrepaymentQuote struct {
	CreatedAt   time.Time
	ID          string
	LoanID      string
	Result      model.PrepaymentResult
	LoanVersion int
}

// QuoteStore holds prepayment quotes between preview and confirm. Get
// returns model.ErrNotFound for unknown or expired quotes.
type QuoteStore interface {
	Put(ctx context.Context, q PrepaymentQuote) error
	Get(ctx context.Context, id string) (PrepaymentQuote, error)
	Delete(ctx context.Context, id string) error
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// Export
// ---------------------------------------------------------------------------

// WorkbookRenderer renders schedules and projections as spreadsheet files.
type WorkbookRenderer interface {
	RenderSchedule(loan model.Loan) ([]byte, error)
	RenderProjection(vehicleID string, state model.FinancialState, snapshot model.ProjectionSnapshot) ([]byte, error)
}

// ---------------------------------------------------------------------------
// Clock
// ---------------------------------------------------------------------------

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}
