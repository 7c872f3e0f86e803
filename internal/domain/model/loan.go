package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/faiyaz92/pay-roll-sub001/internal/domain/event"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Loan aggregate root
// ---------------------------------------------------------------------------

// Loan is the financing attached to one vehicle. It is immutable: every
// transition returns a new copy carrying the events it raised.
//
// terms always describe the current schedule. After a prepayment they hold
// the reduced principal and the rebuilt cadence; originalPrincipal keeps the
// amount first financed.
type Loan struct {
	createdAt          time.Time
	updatedAt          time.Time
	id                 string
	vehicleID          string
	status             valueobject.LoanStatus
	terms              LoanTerms
	schedule           AmortizationSchedule
	originalPrincipal  decimal.Decimal
	outstandingBalance decimal.Decimal
	totalPrepaid       decimal.Decimal
	emiPaidToDate      decimal.Decimal
	domainEvents       []event.DomainEvent
	emiDueDay          int
	version            int
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewLoan onboards a vehicle loan and generates its schedule. alreadyPaidCount
// backdates the first installments as paid for vehicles already in service.
// emiDueDay is the day of month installments fall due on after a prepayment
// rebuild; zero keeps the cadence of the rebuild date.
func NewLoan(vehicleID string, terms LoanTerms, emiDueDay, alreadyPaidCount int, now time.Time) (Loan, error) {
	if vehicleID == "" {
		return Loan{}, fmt.Errorf("%w: vehicle ID is required", ErrInvalidInput)
	}
	if emiDueDay < 0 || emiDueDay > 31 {
		return Loan{}, fmt.Errorf("%w: emi due day must be between 0 and 31", ErrInvalidInput)
	}

	schedule, err := GenerateSchedule(terms, alreadyPaidCount)
	if err != nil {
		return Loan{}, err
	}

	id := uuid.New().String()
	loan := Loan{
		id:                 id,
		vehicleID:          vehicleID,
		terms:              terms,
		emiDueDay:          emiDueDay,
		status:             valueobject.LoanStatusActive,
		schedule:           schedule,
		originalPrincipal:  terms.Principal,
		outstandingBalance: schedule.OutstandingAfterPaid(terms.Principal),
		totalPrepaid:       decimal.Zero,
		emiPaidToDate:      schedule.PaidInstallments(),
		version:            1,
		createdAt:          now,
		updatedAt:          now,
	}

	loan.domainEvents = append(loan.domainEvents, event.NewLoanCreated(
		id, vehicleID, terms.Principal, terms.EMI, terms.AnnualRatePercent,
		terms.TenureMonths, schedule.Len(), terms.FirstInstallmentDate, now,
	))

	if !loan.outstandingBalance.IsPositive() {
		loan.status = valueobject.LoanStatusClosed
		loan.domainEvents = append(loan.domainEvents, event.NewLoanClosed(id, vehicleID, now))
	}

	return loan, nil
}

// ReconstructLoan rebuilds a Loan aggregate from persistence.
func ReconstructLoan(
	id, vehicleID string,
	terms LoanTerms,
	emiDueDay int,
	status valueobject.LoanStatus,
	schedule AmortizationSchedule,
	originalPrincipal, outstandingBalance, totalPrepaid, emiPaidToDate decimal.Decimal,
	version int,
	createdAt, updatedAt time.Time,
) Loan {
	return Loan{
		id:                 id,
		vehicleID:          vehicleID,
		terms:              terms,
		emiDueDay:          emiDueDay,
		status:             status,
		schedule:           schedule,
		originalPrincipal:  originalPrincipal,
		outstandingBalance: outstandingBalance,
		totalPrepaid:       totalPrepaid,
		emiPaidToDate:      emiPaidToDate,
		version:            version,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// RecordInstallmentPayment marks the given month paid. Only the earliest
// unpaid installment can be recorded; paying the last one closes the loan.
func (l Loan) RecordInstallmentPayment(month int, now time.Time) (Loan, error) {
	if l.IsClosed() {
		return l, ErrLoanClosed
	}

	schedule, err := l.schedule.MarkPaid(month, now)
	if err != nil {
		return l, err
	}
	entry, _ := schedule.Entry(month)

	next := l
	next.schedule = schedule
	next.outstandingBalance = entry.OutstandingAfter
	next.emiPaidToDate = l.emiPaidToDate.Add(entry.Installment())
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewInstallmentPaid(
		l.id, l.vehicleID, month, entry.Installment(), entry.OutstandingAfter, now,
	))

	if _, pending := schedule.NextUnpaid(); !pending || !next.outstandingBalance.IsPositive() {
		next.status = valueobject.LoanStatusClosed
		next.outstandingBalance = decimal.Zero
		next.domainEvents = append(next.domainEvents, event.NewLoanClosed(l.id, l.vehicleID, now))
	}

	return next, nil
}

// PreviewPrepayment computes the effect of a prepayment without changing
// the loan.
func (l Loan) PreviewPrepayment(amount decimal.Decimal) (PrepaymentResult, error) {
	if l.IsClosed() {
		return PrepaymentResult{}, ErrLoanClosed
	}
	return ApplyPrepayment(l.outstandingBalance, amount, l.terms.EMI, l.terms.AnnualRatePercent)
}

// ApplyPrepayment reduces the balance by amount and replaces the schedule
// with one rebuilt from month 1, anchored on the next EMI due date after now.
// A prepayment equal to the balance closes the loan with an empty schedule.
func (l Loan) ApplyPrepayment(amount decimal.Decimal, now time.Time) (Loan, PrepaymentResult, error) {
	result, err := l.PreviewPrepayment(amount)
	if err != nil {
		return l, PrepaymentResult{}, err
	}

	anchor := NextAnchorDate(now, l.emiDueDay)
	schedule, err := RebuildSchedule(result.NewOutstanding, l.terms.EMI, l.terms.AnnualRatePercent, anchor)
	if err != nil {
		return l, PrepaymentResult{}, err
	}

	next := l
	next.schedule = schedule
	next.terms = LoanTerms{
		FirstInstallmentDate: anchor,
		Principal:            result.NewOutstanding,
		AnnualRatePercent:    l.terms.AnnualRatePercent,
		EMI:                  l.terms.EMI,
		TenureMonths:         result.NewTenureMonths,
	}
	next.outstandingBalance = result.NewOutstanding
	next.totalPrepaid = l.totalPrepaid.Add(amount)
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewPrepaymentApplied(
		l.id, l.vehicleID, amount, result.NewOutstanding, result.InterestSavings,
		result.NewTenureMonths, result.TenureReductionMonths, now,
	))

	if result.IsFullPayoff() {
		next.status = valueobject.LoanStatusClosed
		next.domainEvents = append(next.domainEvents, event.NewLoanClosed(l.id, l.vehicleID, now))
	}

	return next, result, nil
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// Overdue returns the unpaid installments due before the day containing now.
func (l Loan) Overdue(now time.Time) []AmortizationEntry {
	return l.schedule.Overdue(now)
}

// NextDue returns the earliest unpaid installment.
func (l Loan) NextDue() (AmortizationEntry, bool) {
	return l.schedule.NextUnpaid()
}

// IsClosed reports whether the loan has been fully repaid.
func (l Loan) IsClosed() bool {
	return l.status.Equal(valueobject.LoanStatusClosed)
}

// LoanTotals are repayment sums across every loan a vehicle has carried,
// closed ones included.
type LoanTotals struct {
	EMIPaid decimal.Decimal
	Prepaid decimal.Decimal
	Count   int
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (l Loan) ID() string                          { return l.id }
func (l Loan) VehicleID() string                   { return l.vehicleID }
func (l Loan) Terms() LoanTerms                    { return l.terms }
func (l Loan) EMIDueDay() int                      { return l.emiDueDay }
func (l Loan) Status() valueobject.LoanStatus      { return l.status }
func (l Loan) Schedule() AmortizationSchedule      { return l.schedule }
func (l Loan) OriginalPrincipal() decimal.Decimal  { return l.originalPrincipal }
func (l Loan) OutstandingBalance() decimal.Decimal { return l.outstandingBalance }
func (l Loan) TotalPrepaid() decimal.Decimal       { return l.totalPrepaid }
func (l Loan) EMIPaidToDate() decimal.Decimal      { return l.emiPaidToDate }
func (l Loan) Version() int                        { return l.version }
func (l Loan) CreatedAt() time.Time                { return l.createdAt }
func (l Loan) UpdatedAt() time.Time                { return l.updatedAt }
func (l Loan) DomainEvents() []event.DomainEvent   { return l.domainEvents }

// ClearEvents returns a copy with an empty event list.
func (l Loan) ClearEvents() Loan {
	next := l
	next.domainEvents = nil
	return next
}

func copyEvents(in []event.DomainEvent) []event.DomainEvent {
	if in == nil {
		return nil
	}
	out := make([]event.DomainEvent, len(in))
	copy(out, in)
	return out
}
