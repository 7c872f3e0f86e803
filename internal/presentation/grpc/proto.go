package grpc

// proto.go hand-writes the service descriptor for fleet.finance.v1. Messages
// are the application DTOs carried by the JSON codec registered in
// json_codec.go, so clients must call with content subtype "json".

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/faiyaz92/pay-roll-sub001/internal/application/dto"
)

const ServiceName = "fleet.finance.v1.FleetFinanceService"

// FleetFinanceServiceServer is the server API for FleetFinanceService.
type FleetFinanceServiceServer interface {
	CreateLoan(context.Context, *dto.CreateLoanRequest) (*dto.LoanResponse, error)
	GetLoan(context.Context, *dto.GetLoanRequest) (*dto.LoanResponse, error)
	RecordInstallmentPayment(context.Context, *dto.RecordInstallmentPaymentRequest) (*dto.InstallmentPaymentResponse, error)
	PreviewPrepayment(context.Context, *dto.PreviewPrepaymentRequest) (*dto.PrepaymentQuoteResponse, error)
	ConfirmPrepayment(context.Context, *dto.ConfirmPrepaymentRequest) (*dto.ConfirmPrepaymentResponse, error)
	RegisterVehicleFinancials(context.Context, *dto.RegisterVehicleFinancialsRequest) (*dto.VehicleFinancialsResponse, error)
	RecordActivity(context.Context, *dto.RecordActivityRequest) (*dto.ActivityResponse, error)
	ProjectFinancials(context.Context, *dto.ProjectFinancialsRequest) (*dto.ProjectionResponse, error)
	mustEmbedUnimplementedFleetFinanceServiceServer()
}

// UnimplementedFleetFinanceServiceServer provides forward-compatible default implementations.
type UnimplementedFleetFinanceServiceServer struct{}

func (UnimplementedFleetFinanceServiceServer) CreateLoan(context.Context, *dto.CreateLoanRequest) (*dto.LoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CreateLoan not implemented")
}
func (UnimplementedFleetFinanceServiceServer) GetLoan(context.Context, *dto.GetLoanRequest) (*dto.LoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetLoan not implemented")
}
func (UnimplementedFleetFinanceServiceServer) RecordInstallmentPayment(context.Context, *dto.RecordInstallmentPaymentRequest) (*dto.InstallmentPaymentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RecordInstallmentPayment not implemented")
}
func (UnimplementedFleetFinanceServiceServer) PreviewPrepayment(context.Context, *dto.PreviewPrepaymentRequest) (*dto.PrepaymentQuoteResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PreviewPrepayment not implemented")
}
func (UnimplementedFleetFinanceServiceServer) ConfirmPrepayment(context.Context, *dto.ConfirmPrepaymentRequest) (*dto.ConfirmPrepaymentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ConfirmPrepayment not implemented")
}
func (UnimplementedFleetFinanceServiceServer) RegisterVehicleFinancials(context.Context, *dto.RegisterVehicleFinancialsRequest) (*dto.VehicleFinancialsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RegisterVehicleFinancials not implemented")
}
func (UnimplementedFleetFinanceServiceServer) RecordActivity(context.Context, *dto.RecordActivityRequest) (*dto.ActivityResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RecordActivity not implemented")
}
func (UnimplementedFleetFinanceServiceServer) ProjectFinancials(context.Context, *dto.ProjectFinancialsRequest) (*dto.ProjectionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ProjectFinancials not implemented")
}
func (UnimplementedFleetFinanceServiceServer) mustEmbedUnimplementedFleetFinanceServiceServer() {}

// RegisterFleetFinanceServiceServer registers srv with the gRPC server.
func RegisterFleetFinanceServiceServer(s grpclib.ServiceRegistrar, srv FleetFinanceServiceServer) {
	s.RegisterService(&fleetFinanceServiceDesc, srv)
}

var fleetFinanceServiceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FleetFinanceServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "CreateLoan", Handler: unary("CreateLoan", FleetFinanceServiceServer.CreateLoan)},
		{MethodName: "GetLoan", Handler: unary("GetLoan", FleetFinanceServiceServer.GetLoan)},
		{MethodName: "RecordInstallmentPayment", Handler: unary("RecordInstallmentPayment", FleetFinanceServiceServer.RecordInstallmentPayment)},
		{MethodName: "PreviewPrepayment", Handler: unary("PreviewPrepayment", FleetFinanceServiceServer.PreviewPrepayment)},
		{MethodName: "ConfirmPrepayment", Handler: unary("ConfirmPrepayment", FleetFinanceServiceServer.ConfirmPrepayment)},
		{MethodName: "RegisterVehicleFinancials", Handler: unary("RegisterVehicleFinancials", FleetFinanceServiceServer.RegisterVehicleFinancials)},
		{MethodName: "RecordActivity", Handler: unary("RecordActivity", FleetFinanceServiceServer.RecordActivity)},
		{MethodName: "ProjectFinancials", Handler: unary("ProjectFinancials", FleetFinanceServiceServer.ProjectFinancials)},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "fleet/finance/v1/finance.proto",
}

// unary builds the method handler generated code would emit for one RPC.
func unary[Req, Resp any](
	method string,
	call func(FleetFinanceServiceServer, context.Context, *Req) (*Resp, error),
) grpclib.MethodHandler {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(FleetFinanceServiceServer), ctx, in)
		}
		info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(FleetFinanceServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
