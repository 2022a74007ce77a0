package setup

import (
	"context"
	"errors"

	"github.com/LavaJover/safelink-deal-service/internal/domain"
)

// fanoutPublisher delivers each deal event to every publisher and reports
// the failures together.
type fanoutPublisher []domain.DealEventPublisher

func (f fanoutPublisher) PublishDealEvent(ctx context.Context, eventType domain.DealEventType, deal *domain.Deal) error {
	var errs []error
	for _, p := range f {
		if err := p.PublishDealEvent(ctx, eventType, deal); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
