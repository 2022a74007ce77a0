package mappers

import (
	"encoding/json"

	"github.com/LavaJover/safelink-deal-service/internal/domain"
	"github.com/LavaJover/safelink-deal-service/internal/infrastructure/postgres/models"
	"gorm.io/datatypes"
)

func ToDomainDeal(model *models.DealModel) *domain.Deal {
	deal := &domain.Deal{
		ID:               model.ID,
		SchemaVersion:    model.SchemaVersion,
		ItemName:         model.ItemName,
		Price:            model.Price,
		ServiceFee:       model.ServiceFee,
		TotalToPay:       model.TotalToPay,
		SellerMoMo:       model.SellerMoMo,
		BuyerEmail:       model.BuyerEmail,
		Status:           model.Status,
		Reference:        model.Reference,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
		PaidAt:           model.PaidAt,
		CompletedAt:      model.CompletedAt,
		CancelledAt:      model.CancelledAt,
		DisputedAt:       model.DisputedAt,
		PaymentReference: model.PaymentReference,
		DisputeReason:    model.DisputeReason,
		Resolution:       domain.DisputeResolution(model.Resolution),
	}
	if len(model.GatewayPayload) > 0 {
		deal.GatewayPayload = json.RawMessage(model.GatewayPayload)
	}
	return deal
}

func ToGORMDeal(deal *domain.Deal) *models.DealModel {
	return &models.DealModel{
		ID:               deal.ID,
		SchemaVersion:    deal.SchemaVersion,
		ItemName:         deal.ItemName,
		Price:            deal.Price,
		ServiceFee:       deal.ServiceFee,
		TotalToPay:       deal.TotalToPay,
		SellerMoMo:       deal.SellerMoMo,
		BuyerEmail:       deal.BuyerEmail,
		Status:           deal.Status,
		Reference:        deal.Reference,
		CreatedAt:        deal.CreatedAt,
		UpdatedAt:        deal.UpdatedAt,
		PaidAt:           deal.PaidAt,
		CompletedAt:      deal.CompletedAt,
		CancelledAt:      deal.CancelledAt,
		DisputedAt:       deal.DisputedAt,
		PaymentReference: deal.PaymentReference,
		GatewayPayload:   datatypes.JSON(deal.GatewayPayload),
		DisputeReason:    deal.DisputeReason,
		Resolution:       string(deal.Resolution),
	}
}

// ToGORMDealUpdates turns a patch into the column map for a partial update.
// Unset fields are left out so they keep their stored values.
func ToGORMDealUpdates(patch domain.DealPatch) map[string]interface{} {
	updates := map[string]interface{}{}
	if patch.Status != "" {
		updates["status"] = string(patch.Status)
	}
	if patch.PaidAt != nil {
		updates["paid_at"] = *patch.PaidAt
	}
	if patch.CompletedAt != nil {
		updates["completed_at"] = *patch.CompletedAt
	}
	if patch.CancelledAt != nil {
		updates["cancelled_at"] = *patch.CancelledAt
	}
	if patch.DisputedAt != nil {
		updates["disputed_at"] = *patch.DisputedAt
	}
	if patch.PaymentReference != "" {
		updates["payment_reference"] = patch.PaymentReference
	}
	if len(patch.GatewayPayload) > 0 {
		updates["gateway_payload"] = datatypes.JSON(patch.GatewayPayload)
	}
	if patch.DisputeReason != "" {
		updates["dispute_reason"] = patch.DisputeReason
	}
	if patch.Resolution != "" {
		updates["resolution"] = string(patch.Resolution)
	}
	if !patch.UpdatedAt.IsZero() {
		updates["updated_at"] = patch.UpdatedAt
	}
	return updates
}
