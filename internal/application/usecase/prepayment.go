package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/faiyaz92/pay-roll-sub001/internal/application/dto"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/model"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/port"
)

// ---------------------------------------------------------------------------
// Preview
// ---------------------------------------------------------------------------

// PreviewPrepaymentUseCase computes the effect of a prepayment and issues a
// short-lived quote the operator confirms in a second step.
type PreviewPrepaymentUseCase struct {
	loanRepo port.LoanRepository
	quotes   port.QuoteStore
	clock    port.Clock
	quoteTTL time.Duration
}

// NewPreviewPrepaymentUseCase wires dependencies. quoteTTL must match the
// expiry the quote store applies.
func NewPreviewPrepaymentUseCase(
	loanRepo port.LoanRepository,
	quotes port.QuoteStore,
	clock port.Clock,
	quoteTTL time.Duration,
) *PreviewPrepaymentUseCase {
	return &PreviewPrepaymentUseCase{
		loanRepo: loanRepo,
		quotes:   quotes,
		clock:    clock,
		quoteTTL: quoteTTL,
	}
}

// Execute returns the prepayment result and the quote that pins it.
func (uc *PreviewPrepaymentUseCase) Execute(
	ctx context.Context,
	req dto.PreviewPrepaymentRequest,
) (dto.PrepaymentQuoteResponse, error) {
	ctx, span := tracer.Start(ctx, "PreviewPrepayment", trace.WithAttributes(attribute.String("loan.id", req.LoanID)))
	defer span.End()

	now := uc.clock.Now()

	// 1. Retrieve the loan.
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.PrepaymentQuoteResponse{}, fail(span, fmt.Errorf("find loan: %w", err))
	}

	// 2. Simulate.
	result, err := loan.PreviewPrepayment(req.Amount)
	if err != nil {
		return dto.PrepaymentQuoteResponse{}, fail(span, fmt.Errorf("preview prepayment: %w", err))
	}

	// 3. Store the quote.
	quote := port.PrepaymentQuote{
		ID:          uuid.New().String(),
		LoanID:      loan.ID(),
		LoanVersion: loan.Version(),
		Result:      result,
		CreatedAt:   now,
	}
	if err := uc.quotes.Put(ctx, quote); err != nil {
		return dto.PrepaymentQuoteResponse{}, fail(span, fmt.Errorf("store quote: %w", err))
	}

	telemetry.prepaymentsPreviewed.Add(ctx, 1)
	return dto.PrepaymentQuoteResponse{
		QuoteID:   quote.ID,
		LoanID:    loan.ID(),
		ExpiresAt: now.Add(uc.quoteTTL),
		Result:    toPrepaymentResultResponse(result),
	}, nil
}

// ---------------------------------------------------------------------------
// Confirm
// ---------------------------------------------------------------------------

// ConfirmPrepaymentUseCase applies a quoted prepayment: the schedule is
// rebuilt from month 1 and swapped in one repository transaction.
type ConfirmPrepaymentUseCase struct {
	loanRepo  port.LoanRepository
	quotes    port.QuoteStore
	publisher port.EventPublisher
	clock     port.Clock
}

// NewConfirmPrepaymentUseCase wires dependencies.
func NewConfirmPrepaymentUseCase(
	loanRepo port.LoanRepository,
	quotes port.QuoteStore,
	publisher port.EventPublisher,
	clock port.Clock,
) *ConfirmPrepaymentUseCase {
	return &ConfirmPrepaymentUseCase{
		loanRepo:  loanRepo,
		quotes:    quotes,
		publisher: publisher,
		clock:     clock,
	}
}

// Execute commits the quote. It fails with ErrQuoteExpired for unknown
// quotes and ErrQuoteStale when the loan changed after the preview.
func (uc *ConfirmPrepaymentUseCase) Execute(
	ctx context.Context,
	req dto.ConfirmPrepaymentRequest,
) (dto.ConfirmPrepaymentResponse, error) {
	ctx, span := tracer.Start(ctx, "ConfirmPrepayment", trace.WithAttributes(attribute.String("quote.id", req.QuoteID)))
	defer span.End()

	// 1. Load the quote.
	quote, err := uc.quotes.Get(ctx, req.QuoteID)
	if errors.Is(err, model.ErrNotFound) {
		return dto.ConfirmPrepaymentResponse{}, fail(span, fmt.Errorf("quote %s: %w", req.QuoteID, ErrQuoteExpired))
	}
	if err != nil {
		return dto.ConfirmPrepaymentResponse{}, fail(span, fmt.Errorf("load quote: %w", err))
	}

	// 2. Retrieve the loan and check it is unchanged.
	loan, err := uc.loanRepo.FindByID(ctx, quote.LoanID)
	if err != nil {
		return dto.ConfirmPrepaymentResponse{}, fail(span, fmt.Errorf("find loan: %w", err))
	}
	if loan.Version() != quote.LoanVersion || !loan.OutstandingBalance().Equal(quote.Result.CurrentOutstanding) {
		return dto.ConfirmPrepaymentResponse{}, fail(span, fmt.Errorf("loan %s: %w", loan.ID(), ErrQuoteStale))
	}

	// 3. Rebuild the schedule.
	loan, result, err := loan.ApplyPrepayment(quote.Result.Amount, uc.clock.Now())
	if err != nil {
		return dto.ConfirmPrepaymentResponse{}, fail(span, fmt.Errorf("apply prepayment: %w", err))
	}

	// 4. Swap the schedule and record history atomically.
	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.ConfirmPrepaymentResponse{}, fail(span, fmt.Errorf("save loan: %w", err))
	}

	// 5. The quote is single use.
	if err := uc.quotes.Delete(ctx, quote.ID); err != nil {
		return dto.ConfirmPrepaymentResponse{}, fail(span, fmt.Errorf("delete quote: %w", err))
	}

	// 6. Publish events.
	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.ConfirmPrepaymentResponse{}, fail(span, fmt.Errorf("publish events: %w", err))
	}

	telemetry.prepaymentsConfirmed.Add(ctx, 1)
	if !loan.Schedule().IsEmpty() {
		telemetry.schedulesGenerated.Add(ctx, 1)
	}
	return dto.ConfirmPrepaymentResponse{
		Result: toPrepaymentResultResponse(result),
		Loan:   toLoanResponse(loan),
	}, nil
}
