package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type DealServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewDealServiceClient(cc grpc.ClientConnInterface) *DealServiceClient {
	return &DealServiceClient{cc: cc}
}

func (c *DealServiceClient) invoke(ctx context.Context, method string, in any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+DealServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DealServiceClient) CreateDeal(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "CreateDeal", in, opts...)
}

func (c *DealServiceClient) VerifyPayment(ctx context.Context, reference string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "VerifyPayment", wrapperspb.String(reference), opts...)
}

func (c *DealServiceClient) GetDeal(ctx context.Context, dealID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetDeal", wrapperspb.String(dealID), opts...)
}

func (c *DealServiceClient) ListDeals(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ListDeals", in, opts...)
}

func (c *DealServiceClient) GetSummary(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetSummary", &emptypb.Empty{}, opts...)
}

func (c *DealServiceClient) PreviewFees(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "PreviewFees", in, opts...)
}

func (c *DealServiceClient) ConfirmReceipt(ctx context.Context, dealID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ConfirmReceipt", wrapperspb.String(dealID), opts...)
}

func (c *DealServiceClient) CancelDeal(ctx context.Context, dealID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "CancelDeal", wrapperspb.String(dealID), opts...)
}

func (c *DealServiceClient) OpenDispute(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "OpenDispute", in, opts...)
}

func (c *DealServiceClient) ResolveDisputeRefund(ctx context.Context, dealID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ResolveDisputeRefund", wrapperspb.String(dealID), opts...)
}

func (c *DealServiceClient) ResolveDisputeRelease(ctx context.Context, dealID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ResolveDisputeRelease", wrapperspb.String(dealID), opts...)
}
