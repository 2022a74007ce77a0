package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/LavaJover/safelink-deal-service/internal/domain"
	dealdto "github.com/LavaJover/safelink-deal-service/internal/usecase/dto/deal"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const errAuthorizationURLMissing = "payment gateway did not return an authorization url"

func (uc *DefaultDealUsecase) CreateDeal(ctx context.Context, input *dealdto.CreateDealInput) (*dealdto.CreateDealOutput, error) {
	price, err := uc.validateCreateInput(input)
	if err != nil {
		uc.recordErrorMetrics("create", err)
		return nil, err
	}

	fees := domain.CalculateFees(price, uc.FeeRates, false)
	if fees.TotalToLock.GreaterThan(domain.MaxAmount) {
		err := &domain.ValidationError{Field: "price", Reason: "total with fees " + domain.ErrAmountTooLarge.Error()}
		uc.recordErrorMetrics("create", err)
		return nil, err
	}
	now := uc.now()
	id := uuid.New().String()

	deal := &domain.Deal{
		ID:            id,
		SchemaVersion: domain.DealSchemaVersion,
		ItemName:      input.ItemName,
		Price:         fees.Base,
		ServiceFee:    fees.ServiceFee,
		TotalToPay:    fees.TotalToLock,
		SellerMoMo:    input.SellerMoMo,
		BuyerEmail:    input.BuyerEmail,
		Status:        domain.StatusPendingPayment,
		Reference:     domain.ReferenceForID(id),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.DealRepo.CreateDeal(ctx, deal); err != nil {
		uc.recordErrorMetrics("create", err)
		return nil, fmt.Errorf("failed to persist deal: %w", err)
	}
	slog.Info("deal created", "deal_id", deal.ID, "reference", deal.Reference, "total", deal.TotalToPay.StringFixed(2))
	uc.recordDealCreatedMetrics(deal)
	uc.publishDealEvent(domain.EventDealCreated, deal)

	output := &dealdto.CreateDealOutput{Deal: deal}

	// The deal exists from here on; a gateway failure only disables payment.
	result, err := uc.Gateway.InitializePayment(ctx, domain.InitializePaymentRequest{
		Email:     deal.BuyerEmail,
		Amount:    deal.TotalToPay,
		Reference: deal.Reference,
		Metadata: map[string]string{
			"dealId":     deal.ID,
			"itemName":   deal.ItemName,
			"sellerMoMo": deal.SellerMoMo,
		},
	})
	switch {
	case err != nil:
		output.PaymentDisabled = true
		output.PaymentError = err.Error()
	case result == nil || result.AuthorizationURL == "":
		output.PaymentDisabled = true
		output.PaymentError = errAuthorizationURLMissing
	default:
		output.AuthorizationURL = result.AuthorizationURL
	}

	if output.PaymentDisabled {
		slog.Warn("payment initialization failed, returning deal without authorization url",
			"deal_id", deal.ID, "error", output.PaymentError)
		uc.recordGatewayInitFailure()
	}

	return output, nil
}

func (uc *DefaultDealUsecase) validateCreateInput(input *dealdto.CreateDealInput) (decimal.Decimal, error) {
	if input == nil {
		return decimal.Zero, &domain.ValidationError{Field: "request", Reason: "is empty"}
	}
	input.ItemName = strings.TrimSpace(input.ItemName)
	input.Price = strings.TrimSpace(input.Price)
	input.SellerMoMo = strings.TrimSpace(input.SellerMoMo)
	input.BuyerEmail = strings.TrimSpace(input.BuyerEmail)

	if err := uc.validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return decimal.Zero, &domain.ValidationError{Field: fieldName(fe.Field()), Reason: describeTag(fe)}
		}
		return decimal.Zero, &domain.ValidationError{Field: "request", Reason: err.Error()}
	}

	price, err := domain.ParseDecimalAmount(input.Price)
	if err != nil {
		return decimal.Zero, &domain.ValidationError{Field: "price", Reason: err.Error()}
	}
	price = price.Round(2)
	if !price.IsPositive() {
		return decimal.Zero, &domain.ValidationError{Field: "price", Reason: "must be greater than zero"}
	}

	return price, nil
}

func fieldName(structField string) string {
	switch structField {
	case "ItemName":
		return "itemName"
	case "Price":
		return "price"
	case "SellerMoMo":
		return "sellerMoMo"
	case "BuyerEmail":
		return "buyerEmail"
	case "Reason":
		return "reason"
	}
	return structField
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	}
	return "failed " + fe.Tag() + " check"
}
