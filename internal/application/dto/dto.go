package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// CreateLoanRequest onboards a vehicle loan. FirstInstallmentDate uses
// DateLayout. AlreadyPaidInstallments backdates installments for vehicles
// already being serviced.
type CreateLoanRequest struct {
	VehicleID               string          `json:"vehicle_id"`
	Principal               decimal.Decimal `json:"principal"`
	AnnualRatePercent       decimal.Decimal `json:"annual_rate_percent"`
	EMI                     decimal.Decimal `json:"emi"`
	FirstInstallmentDate    string          `json:"first_installment_date"`
	TenureMonths            int             `json:"tenure_months"`
	EMIDueDay               int             `json:"emi_due_day"`
	AlreadyPaidInstallments int             `json:"already_paid_installments"`
}

// GetLoanRequest identifies a loan by ID or by vehicle.
type GetLoanRequest struct {
	LoanID    string `json:"loan_id,omitempty"`
	VehicleID string `json:"vehicle_id,omitempty"`
}

// RecordInstallmentPaymentRequest marks one installment paid.
type RecordInstallmentPaymentRequest struct {
	LoanID string `json:"loan_id"`
	Month  int    `json:"month"`
}

// PreviewPrepaymentRequest asks for a prepayment quote.
type PreviewPrepaymentRequest struct {
	LoanID string          `json:"loan_id"`
	Amount decimal.Decimal `json:"amount"`
}

// ConfirmPrepaymentRequest commits a previously issued quote.
type ConfirmPrepaymentRequest struct {
	QuoteID string `json:"quote_id"`
}

// RegisterVehicleFinancialsRequest creates or revises a vehicle's investment
// record. OnboardedAt uses DateLayout.
type RegisterVehicleFinancialsRequest struct {
	VehicleID               string          `json:"vehicle_id"`
	InitialInvestment       decimal.Decimal `json:"initial_investment"`
	AssetCost               decimal.Decimal `json:"asset_cost"`
	DepreciationRatePercent decimal.Decimal `json:"depreciation_rate_percent"`
	OnboardedAt             string          `json:"onboarded_at"`
}

// RecordActivityRequest appends an earning or expense to the ledger.
type RecordActivityRequest struct {
	OccurredAt time.Time       `json:"occurred_at"`
	VehicleID  string          `json:"vehicle_id"`
	Kind       string          `json:"kind"`
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
}

// ProjectFinancialsRequest runs a what-if projection. Nil overrides default
// to trailing averages and the contractual EMI.
type ProjectFinancialsRequest struct {
	VehicleID              string           `json:"vehicle_id"`
	AssumedMonthlyEarnings *decimal.Decimal `json:"assumed_monthly_earnings,omitempty"`
	AssumedMonthlyExpenses *decimal.Decimal `json:"assumed_monthly_expenses,omitempty"`
	IncreasedEMI           *decimal.Decimal `json:"increased_emi,omitempty"`
	Years                  int              `json:"years"`
	UseNetCashFlowForEMI   bool             `json:"use_net_cash_flow_for_emi"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// AmortizationEntryResponse represents a single schedule installment.
type AmortizationEntryResponse struct {
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	DueDate          string          `json:"due_date"`
	Interest         decimal.Decimal `json:"interest"`
	Principal        decimal.Decimal `json:"principal"`
	Installment      decimal.Decimal `json:"installment"`
	OutstandingAfter decimal.Decimal `json:"outstanding_after"`
	Month            int             `json:"month"`
	IsPaid           bool            `json:"is_paid"`
}

// LoanResponse is the external representation of a loan.
type LoanResponse struct {
	CreatedAt            time.Time                   `json:"created_at"`
	UpdatedAt            time.Time                   `json:"updated_at"`
	NextDue              *AmortizationEntryResponse  `json:"next_due,omitempty"`
	ID                   string                      `json:"id"`
	VehicleID            string                      `json:"vehicle_id"`
	Status               string                      `json:"status"`
	FirstInstallmentDate string                      `json:"first_installment_date"`
	OriginalPrincipal    decimal.Decimal             `json:"original_principal"`
	Principal            decimal.Decimal             `json:"principal"`
	AnnualRatePercent    decimal.Decimal             `json:"annual_rate_percent"`
	EMI                  decimal.Decimal             `json:"emi"`
	OutstandingBalance   decimal.Decimal             `json:"outstanding_balance"`
	TotalPrepaid         decimal.Decimal             `json:"total_prepaid"`
	EMIPaidToDate        decimal.Decimal             `json:"emi_paid_to_date"`
	TotalInterest        decimal.Decimal             `json:"total_interest"`
	Schedule             []AmortizationEntryResponse `json:"schedule,omitempty"`
	Overdue              []AmortizationEntryResponse `json:"overdue,omitempty"`
	Prepayments          []PrepaymentRecordResponse  `json:"prepayments,omitempty"`
	TenureMonths         int                         `json:"tenure_months"`
	EMIDueDay            int                         `json:"emi_due_day"`
	Version              int                         `json:"version"`
}

// InstallmentPaymentResponse reports the state after recording a payment.
type InstallmentPaymentResponse struct {
	LoanID             string          `json:"loan_id"`
	LoanStatus         string          `json:"loan_status"`
	AmountPaid         decimal.Decimal `json:"amount_paid"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	Month              int             `json:"month"`
}

// PrepaymentResultResponse is the effect of a prepayment.
type PrepaymentResultResponse struct {
	Amount                decimal.Decimal `json:"amount"`
	CurrentOutstanding    decimal.Decimal `json:"current_outstanding"`
	NewOutstanding        decimal.Decimal `json:"new_outstanding"`
	InterestSavings       decimal.Decimal `json:"interest_savings"`
	CurrentTenureMonths   int             `json:"current_tenure_months"`
	NewTenureMonths       int             `json:"new_tenure_months"`
	TenureReductionMonths int             `json:"tenure_reduction_months"`
	FullPayoff            bool            `json:"full_payoff"`
}

// PrepaymentRecordResponse is one confirmed prepayment.
type PrepaymentRecordResponse struct {
	AppliedAt time.Time                `json:"applied_at"`
	ID        string                   `json:"id"`
	Result    PrepaymentResultResponse `json:"result"`
}

// PrepaymentQuoteResponse is returned by a preview; QuoteID confirms it
// until ExpiresAt.
type PrepaymentQuoteResponse struct {
	ExpiresAt time.Time                `json:"expires_at"`
	QuoteID   string                   `json:"quote_id"`
	LoanID    string                   `json:"loan_id"`
	Result    PrepaymentResultResponse `json:"result"`
}

// ConfirmPrepaymentResponse carries the rebuilt loan.
type ConfirmPrepaymentResponse struct {
	Result PrepaymentResultResponse `json:"result"`
	Loan   LoanResponse             `json:"loan"`
}

// VehicleFinancialsResponse is the external representation of a vehicle's
// investment record.
type VehicleFinancialsResponse struct {
	UpdatedAt               time.Time       `json:"updated_at"`
	VehicleID               string          `json:"vehicle_id"`
	OnboardedAt             string          `json:"onboarded_at"`
	InitialInvestment       decimal.Decimal `json:"initial_investment"`
	AssetCost               decimal.Decimal `json:"asset_cost"`
	DepreciationRatePercent decimal.Decimal `json:"depreciation_rate_percent"`
}

// ActivityResponse acknowledges a ledger entry.
type ActivityResponse struct {
	ID        string `json:"id"`
	VehicleID string `json:"vehicle_id"`
	Kind      string `json:"kind"`
}

// YearSummaryResponse is the simulated position at a year end.
type YearSummaryResponse struct {
	Earnings        decimal.Decimal `json:"earnings"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	AssetValue      decimal.Decimal `json:"asset_value"`
	OutstandingLoan decimal.Decimal `json:"outstanding_loan"`
	TotalReturn     decimal.Decimal `json:"total_return"`
	Year            int             `json:"year"`
}

// ProjectionResponse is the external representation of a projection.
type ProjectionResponse struct {
	VehicleID                  string                `json:"vehicle_id"`
	MonthlyEarnings            decimal.Decimal       `json:"monthly_earnings"`
	MonthlyExpenses            decimal.Decimal       `json:"monthly_expenses"`
	EMIPayment                 decimal.Decimal       `json:"emi_payment"`
	ProjectedEarnings          decimal.Decimal       `json:"projected_earnings"`
	ProjectedOperatingExpenses decimal.Decimal       `json:"projected_operating_expenses"`
	ProjectedTotalExpenses     decimal.Decimal       `json:"projected_total_expenses"`
	ProjectedEMIPaid           decimal.Decimal       `json:"projected_emi_paid"`
	ProjectedAssetValue        decimal.Decimal       `json:"projected_asset_value"`
	ProjectedOutstandingLoan   decimal.Decimal       `json:"projected_outstanding_loan"`
	TotalReturn                decimal.Decimal       `json:"total_return"`
	FixedInvestment            decimal.Decimal       `json:"fixed_investment"`
	ROIPercent                 decimal.Decimal       `json:"roi_percent"`
	ProfitLoss                 decimal.Decimal       `json:"profit_loss"`
	BreakEvenMonths            *int                  `json:"break_even_months"`
	LoanClearanceMonths        *int                  `json:"loan_clearance_months"`
	Yearly                     []YearSummaryResponse `json:"yearly,omitempty"`
	Years                      int                   `json:"years"`
}
