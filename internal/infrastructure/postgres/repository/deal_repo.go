package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/safelink-deal-service/internal/domain"
	"github.com/LavaJover/safelink-deal-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/safelink-deal-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DefaultDealRepository struct {
	DB *gorm.DB
}

func NewDefaultDealRepository(db *gorm.DB) *DefaultDealRepository {
	return &DefaultDealRepository{DB: db}
}

func (r *DefaultDealRepository) CreateDeal(ctx context.Context, deal *domain.Deal) error {
	dealModel := mappers.ToGORMDeal(deal)
	if err := r.DB.WithContext(ctx).Create(dealModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", domain.ErrConflict, deal.ID)
		}
		return err
	}
	return nil
}

func (r *DefaultDealRepository) GetDealByID(ctx context.Context, dealID string) (*domain.Deal, error) {
	if !isDealID(dealID) {
		return nil, domain.ErrDealNotFound
	}
	return r.first(ctx, "id = ?", dealID)
}

// isDealID reports whether id can exist in the uuid id column. Postgres
// rejects any other text with invalid_text_representation.
func isDealID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *DefaultDealRepository) GetDealByReference(ctx context.Context, reference string) (*domain.Deal, error) {
	return r.first(ctx, "reference = ?", reference)
}

func (r *DefaultDealRepository) first(ctx context.Context, query string, arg string) (*domain.Deal, error) {
	var deal models.DealModel
	if err := r.DB.WithContext(ctx).First(&deal, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDealNotFound
		}
		return nil, err
	}
	return mappers.ToDomainDeal(&deal), nil
}

func (r *DefaultDealRepository) ListDeals(ctx context.Context, filter domain.DealFilter) ([]*domain.Deal, error) {
	query := r.DB.WithContext(ctx).Model(&models.DealModel{})
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", statusStrings(filter.Statuses))
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var dealModels []models.DealModel
	order := "created_at DESC"
	if filter.OldestFirst {
		order = "created_at ASC"
	}
	if err := query.Order(order).Find(&dealModels).Error; err != nil {
		return nil, err
	}

	deals := make([]*domain.Deal, 0, len(dealModels))
	for i := range dealModels {
		deals = append(deals, mappers.ToDomainDeal(&dealModels[i]))
	}
	return deals, nil
}

// UpdateDeal applies the patch with a single conditional UPDATE. Zero rows
// affected means the deal is missing or no longer in an expected status.
func (r *DefaultDealRepository) UpdateDeal(ctx context.Context, dealID string, expected []domain.DealStatus, patch domain.DealPatch) (*domain.Deal, error) {
	if !isDealID(dealID) {
		return nil, domain.ErrDealNotFound
	}
	updates := mappers.ToGORMDealUpdates(patch)

	query := r.DB.WithContext(ctx).Model(&models.DealModel{}).Where("id = ?", dealID)
	if len(expected) > 0 {
		query = query.Where("status IN ?", statusStrings(expected))
	}

	if len(updates) == 0 {
		current, err := r.GetDealByID(ctx, dealID)
		if err != nil {
			return nil, err
		}
		if len(expected) > 0 && !hasStatus(expected, current.Status) {
			return nil, domain.ErrStatusMismatch
		}
		return current, nil
	}

	res := query.Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetDealByID(ctx, dealID); err != nil {
			return nil, err
		}
		return nil, domain.ErrStatusMismatch
	}

	return r.GetDealByID(ctx, dealID)
}

func hasStatus(statuses []domain.DealStatus, s domain.DealStatus) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

func statusStrings(statuses []domain.DealStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
