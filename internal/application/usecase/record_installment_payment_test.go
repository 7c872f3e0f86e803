package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faiyaz92/pay-roll-sub001/internal/application/dto"
	"github.com/faiyaz92/pay-roll-sub001/internal/application/usecase"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/event"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/model"
)

func TestRecordInstallmentPayment_Execute(t *testing.T) {
	t.Run("marks the next installment paid", func(t *testing.T) {
		loan := activeLoan()
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Loan, error) {
				return loan, nil
			},
		}
		publisher := &mockEventPublisher{}
		uc := usecase.NewRecordInstallmentPaymentUseCase(loanRepo, publisher, fixedClock{testNow})

		resp, err := uc.Execute(context.Background(), dto.RecordInstallmentPaymentRequest{LoanID: loan.ID(), Month: 3})

		require.NoError(t, err)
		assert.Equal(t, 3, resp.Month)
		assert.True(t, d("11000").Equal(resp.AmountPaid))
		assert.True(t, d("477466.14").Equal(resp.OutstandingBalance))
		assert.Equal(t, "ACTIVE", resp.LoanStatus)

		require.Len(t, loanRepo.savedLoans, 1)
		assert.Equal(t, 3, loanRepo.savedLoans[0].Schedule().PaidCount())
		require.Len(t, publisher.publishedEvents, 1)
		assert.Equal(t, "fleet.loan.installment_paid", publisher.publishedEvents[0].EventType())
	})

	t.Run("rejects out of order payment", func(t *testing.T) {
		loan := activeLoan()
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Loan, error) {
				return loan, nil
			},
		}
		uc := usecase.NewRecordInstallmentPaymentUseCase(loanRepo, &mockEventPublisher{}, fixedClock{testNow})

		_, err := uc.Execute(context.Background(), dto.RecordInstallmentPaymentRequest{LoanID: loan.ID(), Month: 5})

		require.ErrorIs(t, err, model.ErrInvalidInput)
		assert.Contains(t, err.Error(), "record payment")
		assert.Empty(t, loanRepo.savedLoans)
	})

	t.Run("fails when loan not found", func(t *testing.T) {
		uc := usecase.NewRecordInstallmentPaymentUseCase(&mockLoanRepository{}, &mockEventPublisher{}, fixedClock{testNow})

		_, err := uc.Execute(context.Background(), dto.RecordInstallmentPaymentRequest{LoanID: "missing", Month: 1})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("fails when event publishing fails", func(t *testing.T) {
		loan := activeLoan()
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Loan, error) {
				return loan, nil
			},
		}
		publisher := &mockEventPublisher{
			publishFunc: func(ctx context.Context, events ...event.DomainEvent) error {
				return fmt.Errorf("broker down")
			},
		}
		uc := usecase.NewRecordInstallmentPaymentUseCase(loanRepo, publisher, fixedClock{testNow})

		_, err := uc.Execute(context.Background(), dto.RecordInstallmentPaymentRequest{LoanID: loan.ID(), Month: 3})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "publish events")
	})
}
