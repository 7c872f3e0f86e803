package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/faiyaz92/pay-roll-sub001/internal/application/dto"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/port"
)

// RecordInstallmentPaymentUseCase marks the next scheduled installment paid.
type RecordInstallmentPaymentUseCase struct {
	loanRepo  port.LoanRepository
	publisher port.EventPublisher
	clock     port.Clock
}

// NewRecordInstallmentPaymentUseCase wires dependencies.
func NewRecordInstallmentPaymentUseCase(
	loanRepo port.LoanRepository,
	publisher port.EventPublisher,
	clock port.Clock,
) *RecordInstallmentPaymentUseCase {
	return &RecordInstallmentPaymentUseCase{
		loanRepo:  loanRepo,
		publisher: publisher,
		clock:     clock,
	}
}

// Execute records the payment and returns the new balance.
func (uc *RecordInstallmentPaymentUseCase) Execute(
	ctx context.Context,
	req dto.RecordInstallmentPaymentRequest,
) (dto.InstallmentPaymentResponse, error) {
	ctx, span := tracer.Start(ctx, "RecordInstallmentPayment", trace.WithAttributes(
		attribute.String("loan.id", req.LoanID),
		attribute.Int("installment.month", req.Month),
	))
	defer span.End()

	// 1. Retrieve the loan.
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.InstallmentPaymentResponse{}, fail(span, fmt.Errorf("find loan: %w", err))
	}

	// 2. Mark the installment paid.
	loan, err = loan.RecordInstallmentPayment(req.Month, uc.clock.Now())
	if err != nil {
		return dto.InstallmentPaymentResponse{}, fail(span, fmt.Errorf("record payment: %w", err))
	}
	entry, _ := loan.Schedule().Entry(req.Month)

	// 3. Persist updated loan.
	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.InstallmentPaymentResponse{}, fail(span, fmt.Errorf("save loan: %w", err))
	}

	// 4. Publish events.
	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.InstallmentPaymentResponse{}, fail(span, fmt.Errorf("publish events: %w", err))
	}

	telemetry.installmentsPaid.Add(ctx, 1)
	return dto.InstallmentPaymentResponse{
		LoanID:             loan.ID(),
		Month:              req.Month,
		AmountPaid:         entry.Installment(),
		OutstandingBalance: loan.OutstandingBalance(),
		LoanStatus:         loan.Status().String(),
	}, nil
}
