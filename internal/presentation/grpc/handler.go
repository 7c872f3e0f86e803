package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/faiyaz92/pay-roll-sub001/internal/application/dto"
	"github.com/faiyaz92/pay-roll-sub001/internal/application/usecase"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/model"
)

// Executor is the shape shared by every use case.
type Executor[Req, Resp any] interface {
	Execute(ctx context.Context, req Req) (Resp, error)
}

// UseCases groups the operations exposed over gRPC.
type UseCases struct {
	CreateLoan                Executor[dto.CreateLoanRequest, dto.LoanResponse]
	GetLoan                   Executor[dto.GetLoanRequest, dto.LoanResponse]
	RecordInstallmentPayment  Executor[dto.RecordInstallmentPaymentRequest, dto.InstallmentPaymentResponse]
	PreviewPrepayment         Executor[dto.PreviewPrepaymentRequest, dto.PrepaymentQuoteResponse]
	ConfirmPrepayment         Executor[dto.ConfirmPrepaymentRequest, dto.ConfirmPrepaymentResponse]
	RegisterVehicleFinancials Executor[dto.RegisterVehicleFinancialsRequest, dto.VehicleFinancialsResponse]
	RecordActivity            Executor[dto.RecordActivityRequest, dto.ActivityResponse]
	ProjectFinancials         Executor[dto.ProjectFinancialsRequest, dto.ProjectionResponse]
}

// FleetFinanceHandler implements FleetFinanceServiceServer on top of the
// application use cases.
type FleetFinanceHandler struct {
	UnimplementedFleetFinanceServiceServer
	uc     UseCases
	logger *slog.Logger
}

func NewFleetFinanceHandler(uc UseCases, logger *slog.Logger) *FleetFinanceHandler {
	return &FleetFinanceHandler{uc: uc, logger: logger}
}

func (h *FleetFinanceHandler) CreateLoan(ctx context.Context, req *dto.CreateLoanRequest) (*dto.LoanResponse, error) {
	return invoke(ctx, h, "CreateLoan", h.uc.CreateLoan, req)
}

func (h *FleetFinanceHandler) GetLoan(ctx context.Context, req *dto.GetLoanRequest) (*dto.LoanResponse, error) {
	return invoke(ctx, h, "GetLoan", h.uc.GetLoan, req)
}

func (h *FleetFinanceHandler) RecordInstallmentPayment(ctx context.Context, req *dto.RecordInstallmentPaymentRequest) (*dto.InstallmentPaymentResponse, error) {
	return invoke(ctx, h, "RecordInstallmentPayment", h.uc.RecordInstallmentPayment, req)
}

func (h *FleetFinanceHandler) PreviewPrepayment(ctx context.Context, req *dto.PreviewPrepaymentRequest) (*dto.PrepaymentQuoteResponse, error) {
	return invoke(ctx, h, "PreviewPrepayment", h.uc.PreviewPrepayment, req)
}

func (h *FleetFinanceHandler) ConfirmPrepayment(ctx context.Context, req *dto.ConfirmPrepaymentRequest) (*dto.ConfirmPrepaymentResponse, error) {
	return invoke(ctx, h, "ConfirmPrepayment", h.uc.ConfirmPrepayment, req)
}

func (h *FleetFinanceHandler) RegisterVehicleFinancials(ctx context.Context, req *dto.RegisterVehicleFinancialsRequest) (*dto.VehicleFinancialsResponse, error) {
	return invoke(ctx, h, "RegisterVehicleFinancials", h.uc.RegisterVehicleFinancials, req)
}

func (h *FleetFinanceHandler) RecordActivity(ctx context.Context, req *dto.RecordActivityRequest) (*dto.ActivityResponse, error) {
	return invoke(ctx, h, "RecordActivity", h.uc.RecordActivity, req)
}

func (h *FleetFinanceHandler) ProjectFinancials(ctx context.Context, req *dto.ProjectFinancialsRequest) (*dto.ProjectionResponse, error) {
	return invoke(ctx, h, "ProjectFinancials", h.uc.ProjectFinancials, req)
}

func invoke[Req, Resp any](ctx context.Context, h *FleetFinanceHandler, method string, uc Executor[Req, Resp], req *Req) (*Resp, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}
	resp, err := uc.Execute(ctx, *req)
	if err != nil {
		st := toStatus(err)
		if st.Code() == codes.Internal {
			h.logger.ErrorContext(ctx, "request failed", "method", method, "error", err)
		}
		return nil, st.Err()
	}
	return &resp, nil
}

// toStatus maps domain and application errors onto gRPC codes.
func toStatus(err error) *status.Status {
	var code codes.Code
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		code = codes.InvalidArgument
	case errors.Is(err, model.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, model.ErrNonConvergent),
		errors.Is(err, model.ErrLoanClosed),
		errors.Is(err, usecase.ErrQuoteExpired),
		errors.Is(err, usecase.ErrQuoteStale):
		code = codes.FailedPrecondition
	case errors.Is(err, usecase.ErrActiveLoanExists):
		code = codes.AlreadyExists
	case errors.Is(err, model.ErrConcurrentModification):
		code = codes.Aborted
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	default:
		return status.New(codes.Internal, "internal error")
	}
	return status.New(code, err.Error())
}
