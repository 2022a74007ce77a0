package setup

import (
	usecase "github.com/LavaJover/safelink-deal-service/internal/usecase/deal"
)

type UseCases struct {
	DealUsecase usecase.DealUsecase
}

func InitializeUseCases(deps *Dependencies) *UseCases {
	return &UseCases{
		DealUsecase: usecase.NewDefaultDealUsecase(
			deps.DealRepo,
			deps.Gateway,
			deps.Publisher,
			deps.Metrics,
			deps.FeeRates,
		),
	}
}
