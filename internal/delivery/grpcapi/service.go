package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// DealServiceName is the fully qualified gRPC service name. Messages are
// protobuf well-known types; deals travel as Struct values with the same
// field names as the HTTP API.
const DealServiceName = "safelink.deal.v1.DealService"

type DealServiceServer interface {
	CreateDeal(context.Context, *structpb.Struct) (*structpb.Struct, error)
	VerifyPayment(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetDeal(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ListDeals(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSummary(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	PreviewFees(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ConfirmReceipt(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	CancelDeal(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	OpenDispute(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResolveDisputeRefund(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ResolveDisputeRelease(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

func RegisterDealServiceServer(s grpc.ServiceRegistrar, srv DealServiceServer) {
	s.RegisterService(&DealServiceDesc, srv)
}

// unaryHandler builds a MethodDesc handler for a server method taking Req.
func unaryHandler[Req any, PReq interface {
	*Req
}](method string, call func(DealServiceServer, context.Context, PReq) (*structpb.Struct, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + DealServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := PReq(new(Req))
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DealServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DealServiceServer), ctx, req.(PReq))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var DealServiceDesc = grpc.ServiceDesc{
	ServiceName: DealServiceName,
	HandlerType: (*DealServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateDeal", Handler: unaryHandler[structpb.Struct]("CreateDeal", DealServiceServer.CreateDeal)},
		{MethodName: "VerifyPayment", Handler: unaryHandler[wrapperspb.StringValue]("VerifyPayment", DealServiceServer.VerifyPayment)},
		{MethodName: "GetDeal", Handler: unaryHandler[wrapperspb.StringValue]("GetDeal", DealServiceServer.GetDeal)},
		{MethodName: "ListDeals", Handler: unaryHandler[structpb.Struct]("ListDeals", DealServiceServer.ListDeals)},
		{MethodName: "GetSummary", Handler: unaryHandler[emptypb.Empty]("GetSummary", DealServiceServer.GetSummary)},
		{MethodName: "PreviewFees", Handler: unaryHandler[structpb.Struct]("PreviewFees", DealServiceServer.PreviewFees)},
		{MethodName: "ConfirmReceipt", Handler: unaryHandler[wrapperspb.StringValue]("ConfirmReceipt", DealServiceServer.ConfirmReceipt)},
		{MethodName: "CancelDeal", Handler: unaryHandler[wrapperspb.StringValue]("CancelDeal", DealServiceServer.CancelDeal)},
		{MethodName: "OpenDispute", Handler: unaryHandler[structpb.Struct]("OpenDispute", DealServiceServer.OpenDispute)},
		{MethodName: "ResolveDisputeRefund", Handler: unaryHandler[wrapperspb.StringValue]("ResolveDisputeRefund", DealServiceServer.ResolveDisputeRefund)},
		{MethodName: "ResolveDisputeRelease", Handler: unaryHandler[wrapperspb.StringValue]("ResolveDisputeRelease", DealServiceServer.ResolveDisputeRelease)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "safelink/deal/v1/deal_service",
}
