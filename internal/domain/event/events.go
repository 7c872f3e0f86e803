package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/faiyaz92/pay-roll-sub001/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const aggregateLoan = "Loan"

// LoanCreated is raised when a vehicle loan and its schedule are onboarded.
type LoanCreated struct {
	FirstInstallmentDate time.Time `json:"first_installment_date"`
	events.BaseEvent
	VehicleID         string          `json:"vehicle_id"`
	Principal         decimal.Decimal `json:"principal"`
	EMI               decimal.Decimal `json:"emi"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	TenureMonths      int             `json:"tenure_months"`
	Installments      int             `json:"installments"`
}

func NewLoanCreated(
	loanID, vehicleID string,
	principal, emi, rate decimal.Decimal,
	tenureMonths, installments int,
	firstInstallment, now time.Time,
) LoanCreated {
	return LoanCreated{
		BaseEvent:            events.NewBaseEvent("fleet.loan.created", loanID, aggregateLoan, now),
		VehicleID:            vehicleID,
		Principal:            principal,
		EMI:                  emi,
		AnnualRatePercent:    rate,
		TenureMonths:         tenureMonths,
		Installments:         installments,
		FirstInstallmentDate: firstInstallment,
	}
}

// InstallmentPaid is raised when a scheduled installment is recorded as paid.
type InstallmentPaid struct {
	events.BaseEvent
	VehicleID          string          `json:"vehicle_id"`
	Amount             decimal.Decimal `json:"amount"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	Month              int             `json:"month"`
}

func NewInstallmentPaid(loanID, vehicleID string, month int, amount, outstanding decimal.Decimal, now time.Time) InstallmentPaid {
	return InstallmentPaid{
		BaseEvent:          events.NewBaseEvent("fleet.loan.installment_paid", loanID, aggregateLoan, now),
		VehicleID:          vehicleID,
		Month:              month,
		Amount:             amount,
		OutstandingBalance: outstanding,
	}
}

// PrepaymentApplied is raised when a confirmed prepayment rebuilds the schedule.
type PrepaymentApplied struct {
	events.BaseEvent
	VehicleID             string          `json:"vehicle_id"`
	Amount                decimal.Decimal `json:"amount"`
	NewOutstanding        decimal.Decimal `json:"new_outstanding"`
	InterestSavings       decimal.Decimal `json:"interest_savings"`
	NewTenureMonths       int             `json:"new_tenure_months"`
	TenureReductionMonths int             `json:"tenure_reduction_months"`
}

func NewPrepaymentApplied(
	loanID, vehicleID string,
	amount, newOutstanding, savings decimal.Decimal,
	newTenure, reduction int, now time.Time,
) PrepaymentApplied {
	return PrepaymentApplied{
		BaseEvent:             events.NewBaseEvent("fleet.loan.prepayment_applied", loanID, aggregateLoan, now),
		VehicleID:             vehicleID,
		Amount:                amount,
		NewOutstanding:        newOutstanding,
		InterestSavings:       savings,
		NewTenureMonths:       newTenure,
		TenureReductionMonths: reduction,
	}
}

// LoanClosed is raised when the outstanding balance reaches zero.
type LoanClosed struct {
	events.BaseEvent
	VehicleID string `json:"vehicle_id"`
}

func NewLoanClosed(loanID, vehicleID string, now time.Time) LoanClosed {
	return LoanClosed{
		BaseEvent: events.NewBaseEvent("fleet.loan.closed", loanID, aggregateLoan, now),
		VehicleID: vehicleID,
	}
}
