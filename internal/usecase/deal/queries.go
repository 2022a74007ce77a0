package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/LavaJover/safelink-deal-service/internal/domain"
	dealdto "github.com/LavaJover/safelink-deal-service/internal/usecase/dto/deal"
)

func (uc *DefaultDealUsecase) GetDealByID(ctx context.Context, dealID string) (*domain.Deal, error) {
	dealID = strings.TrimSpace(dealID)
	if dealID == "" {
		return nil, &domain.ValidationError{Field: "id", Reason: "is required"}
	}
	return uc.DealRepo.GetDealByID(ctx, dealID)
}

// ListDeals returns deals newest first, optionally restricted to some statuses.
func (uc *DefaultDealUsecase) ListDeals(ctx context.Context, input *dealdto.ListDealsInput) ([]*domain.Deal, error) {
	filter := domain.DealFilter{}
	if input != nil {
		for _, raw := range input.Statuses {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			status := domain.DealStatus(raw)
			if !status.Valid() {
				return nil, &domain.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", raw)}
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	return uc.DealRepo.ListDeals(ctx, filter)
}

// GetSummary computes the dashboard projection over every stored deal.
func (uc *DefaultDealUsecase) GetSummary(ctx context.Context) (*domain.DealSummary, error) {
	deals, err := uc.DealRepo.ListDeals(ctx, domain.DealFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	summary := domain.Summarize(deals)
	return &summary, nil
}

// PreviewFees runs the same calculator used at creation. Unparseable amounts
// preview as zero.
func (uc *DefaultDealUsecase) PreviewFees(input *dealdto.FeePreviewInput) domain.FeeBreakdown {
	if input == nil {
		return domain.CalculateFees(domain.ParseAmount(""), uc.FeeRates, false)
	}
	return domain.CalculateFees(domain.ParseAmount(input.Amount), uc.FeeRates, input.IncludeLevy)
}
