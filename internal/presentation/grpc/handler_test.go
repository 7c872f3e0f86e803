package grpc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/faiyaz92/pay-roll-sub001/internal/application/dto"
	"github.com/faiyaz92/pay-roll-sub001/internal/application/usecase"
	"github.com/faiyaz92/pay-roll-sub001/internal/domain/model"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeExecutor[Req, Resp any] struct {
	fn func(ctx context.Context, req Req) (Resp, error)
}

func (f fakeExecutor[Req, Resp]) Execute(ctx context.Context, req Req) (Resp, error) {
	return f.fn(ctx, req)
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{fmt.Errorf("create loan: %w", model.ErrInvalidInput), codes.InvalidArgument},
		{fmt.Errorf("find loan: %w", model.ErrNotFound), codes.NotFound},
		{model.ErrNonConvergent, codes.FailedPrecondition},
		{model.ErrLoanClosed, codes.FailedPrecondition},
		{usecase.ErrQuoteExpired, codes.FailedPrecondition},
		{usecase.ErrQuoteStale, codes.FailedPrecondition},
		{usecase.ErrActiveLoanExists, codes.AlreadyExists},
		{fmt.Errorf("save loan: %w", model.ErrConcurrentModification), codes.Aborted},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{errors.New("connection refused"), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, toStatus(tt.err).Code())
		})
	}
}

func TestToStatus_InternalHidesDetail(t *testing.T) {
	st := toStatus(errors.New("password authentication failed for user fleet"))
	assert.Equal(t, "internal error", st.Message())
}

func TestHandler_GetLoan(t *testing.T) {
	h := NewFleetFinanceHandler(UseCases{
		GetLoan: fakeExecutor[dto.GetLoanRequest, dto.LoanResponse]{
			fn: func(_ context.Context, req dto.GetLoanRequest) (dto.LoanResponse, error) {
				if req.LoanID != "loan-1" {
					return dto.LoanResponse{}, model.ErrNotFound
				}
				return dto.LoanResponse{ID: "loan-1", VehicleID: "vehicle-001"}, nil
			},
		},
	}, discard)

	resp, err := h.GetLoan(context.Background(), &dto.GetLoanRequest{LoanID: "loan-1"})
	require.NoError(t, err)
	assert.Equal(t, "vehicle-001", resp.VehicleID)

	_, err = h.GetLoan(context.Background(), &dto.GetLoanRequest{LoanID: "missing"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = h.GetLoan(context.Background(), nil)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestServer_RoundTripOverJSONCodec(t *testing.T) {
	var got dto.PreviewPrepaymentRequest
	h := NewFleetFinanceHandler(UseCases{
		PreviewPrepayment: fakeExecutor[dto.PreviewPrepaymentRequest, dto.PrepaymentQuoteResponse]{
			fn: func(_ context.Context, req dto.PreviewPrepaymentRequest) (dto.PrepaymentQuoteResponse, error) {
				got = req
				return dto.PrepaymentQuoteResponse{
					QuoteID: "quote-1",
					LoanID:  req.LoanID,
					Result: dto.PrepaymentResultResponse{
						NewTenureMonths:       41,
						TenureReductionMonths: 13,
						InterestSavings:       decimal.NewFromInt(43000),
					},
				}, nil
			},
		},
	}, discard)

	srv, err := NewServer(h, discard, ServerOptions{})
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.ServeListener(lis) }()
	t.Cleanup(srv.GracefulStop)

	conn, err := grpclib.NewClient("passthrough:///bufnet",
		grpclib.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpclib.WithTransportCredentials(insecure.NewCredentials()),
		grpclib.WithDefaultCallOptions(grpclib.CallContentSubtype("json")),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	var resp dto.PrepaymentQuoteResponse
	err = conn.Invoke(context.Background(), "/"+ServiceName+"/PreviewPrepayment",
		&dto.PreviewPrepaymentRequest{LoanID: "loan-1", Amount: decimal.NewFromInt(100000)}, &resp)
	require.NoError(t, err)

	assert.Equal(t, "loan-1", got.LoanID)
	assert.True(t, decimal.NewFromInt(100000).Equal(got.Amount))
	assert.Equal(t, "quote-1", resp.QuoteID)
	assert.Equal(t, 13, resp.Result.TenureReductionMonths)
	assert.True(t, decimal.NewFromInt(43000).Equal(resp.Result.InterestSavings))

	err = conn.Invoke(context.Background(), "/"+ServiceName+"/CreateLoan", &dto.CreateLoanRequest{}, &dto.LoanResponse{})
	assert.Equal(t, codes.Internal, status.Code(err), "nil use case panics and is recovered")
}
