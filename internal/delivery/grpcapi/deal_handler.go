package grpcapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/LavaJover/safelink-deal-service/internal/delivery/http/dto/deal/response"
	"github.com/LavaJover/safelink-deal-service/internal/domain"
	usecase "github.com/LavaJover/safelink-deal-service/internal/usecase/deal"
	dealdto "github.com/LavaJover/safelink-deal-service/internal/usecase/dto/deal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type DealHandler struct {
	uc usecase.DealUsecase
}

func NewDealHandler(uc usecase.DealUsecase) *DealHandler {
	return &DealHandler{uc: uc}
}

var _ DealServiceServer = (*DealHandler)(nil)

func (h *DealHandler) CreateDeal(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	out, err := h.uc.CreateDeal(ctx, &dealdto.CreateDealInput{
		ItemName:   stringField(r, "itemName"),
		Price:      priceField(r, "price"),
		SellerMoMo: stringField(r, "sellerMoMo"),
		BuyerEmail: stringField(r, "buyerEmail"),
	})
	if err != nil {
		return nil, toStatus(err)
	}

	resp := response.CreateDealResponse{
		Deal:            response.FromDomain(out.Deal),
		PaymentDisabled: out.PaymentDisabled,
	}
	if out.AuthorizationURL != "" {
		resp.AuthorizationURL = &out.AuthorizationURL
	}
	if out.PaymentError != "" {
		resp.PaymentError = &out.PaymentError
	}
	return toStruct(resp)
}

func (h *DealHandler) VerifyPayment(ctx context.Context, r *wrapperspb.StringValue) (*structpb.Struct, error) {
	deal, err := h.uc.VerifyPayment(ctx, r.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(response.DealEnvelope{Deal: response.FromDomain(deal)})
}

func (h *DealHandler) GetDeal(ctx context.Context, r *wrapperspb.StringValue) (*structpb.Struct, error) {
	deal, err := h.uc.GetDealByID(ctx, r.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(response.FromDomain(deal))
}

// ListDeals reads an optional "statuses" list from the request.
func (h *DealHandler) ListDeals(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	var statuses []string
	if v, ok := r.GetFields()["statuses"]; ok {
		for _, item := range v.GetListValue().GetValues() {
			if s := strings.TrimSpace(item.GetStringValue()); s != "" {
				statuses = append(statuses, s)
			}
		}
	}

	deals, err := h.uc.ListDeals(ctx, &dealdto.ListDealsInput{Statuses: statuses})
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(map[string]any{"deals": response.FromDomainList(deals)})
}

func (h *DealHandler) GetSummary(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	summary, err := h.uc.GetSummary(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(response.FromSummary(summary))
}

// PreviewFees reads "amount" (number or string) and "includeLevy".
func (h *DealHandler) PreviewFees(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	breakdown := h.uc.PreviewFees(&dealdto.FeePreviewInput{
		Amount:      priceField(r, "amount"),
		IncludeLevy: r.GetFields()["includeLevy"].GetBoolValue(),
	})
	return toStruct(response.FromFeeBreakdown(breakdown))
}

func (h *DealHandler) ConfirmReceipt(ctx context.Context, r *wrapperspb.StringValue) (*structpb.Struct, error) {
	return h.transition(ctx, r, h.uc.ConfirmReceipt)
}

func (h *DealHandler) CancelDeal(ctx context.Context, r *wrapperspb.StringValue) (*structpb.Struct, error) {
	return h.transition(ctx, r, h.uc.CancelDeal)
}

func (h *DealHandler) ResolveDisputeRefund(ctx context.Context, r *wrapperspb.StringValue) (*structpb.Struct, error) {
	return h.transition(ctx, r, h.uc.ResolveDisputeRefund)
}

func (h *DealHandler) ResolveDisputeRelease(ctx context.Context, r *wrapperspb.StringValue) (*structpb.Struct, error) {
	return h.transition(ctx, r, h.uc.ResolveDisputeRelease)
}

func (h *DealHandler) OpenDispute(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	deal, err := h.uc.OpenDispute(ctx, &dealdto.DisputeInput{
		DealID: stringField(r, "dealId"),
		Reason: stringField(r, "reason"),
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(response.DealEnvelope{Deal: response.FromDomain(deal)})
}

func (h *DealHandler) transition(ctx context.Context, r *wrapperspb.StringValue, op func(context.Context, string) (*domain.Deal, error)) (*structpb.Struct, error) {
	deal, err := op(ctx, r.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(response.DealEnvelope{Deal: response.FromDomain(deal)})
}

func stringField(s *structpb.Struct, name string) string {
	return s.GetFields()[name].GetStringValue()
}

// priceField accepts a number or a numeric string.
func priceField(s *structpb.Struct, name string) string {
	v, ok := s.GetFields()[name]
	if !ok {
		return ""
	}
	if _, isNumber := v.GetKind().(*structpb.Value_NumberValue); isNumber {
		return strconv.FormatFloat(v.GetNumberValue(), 'f', -1, 64)
	}
	return v.GetStringValue()
}

// toStruct converts a JSON-shaped response into a Struct.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to encode response")
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, status.Error(codes.Internal, "failed to encode response")
	}
	return out, nil
}

func toStatus(err error) error {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return status.Error(codes.InvalidArgument, validationErr.Error())
	case errors.Is(err, domain.ErrDealNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrPaymentNotSuccessful):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, domain.ErrGatewayUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	default:
		slog.Error("grpc request failed", "error", err)
		return status.Error(codes.Internal, "internal server error")
	}
}
