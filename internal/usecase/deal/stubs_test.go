package usecase

import (
	"context"
	"sort"
	"sync"

	"github.com/LavaJover/safelink-deal-service/internal/domain"
)

// stubRepository is an in-memory DealRepository with the same conditional
// update contract as the real stores.
type stubRepository struct {
	mu    sync.Mutex
	deals map[string]domain.Deal

	createErr error
	listErr   error
	// beforeUpdate runs inside UpdateDeal before the status check, without the lock held.
	beforeUpdate func(dealID string)
}

func newStubRepository() *stubRepository {
	return &stubRepository{deals: make(map[string]domain.Deal)}
}

func (s *stubRepository) CreateDeal(ctx context.Context, deal *domain.Deal) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.deals[deal.ID]; ok {
		return domain.ErrConflict
	}
	s.deals[deal.ID] = *deal
	return nil
}

func (s *stubRepository) GetDealByID(ctx context.Context, dealID string) (*domain.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deals[dealID]
	if !ok {
		return nil, domain.ErrDealNotFound
	}
	return &d, nil
}

func (s *stubRepository) GetDealByReference(ctx context.Context, reference string) (*domain.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.deals {
		if d.Reference == reference {
			return &d, nil
		}
	}
	return nil, domain.ErrDealNotFound
}

func (s *stubRepository) ListDeals(ctx context.Context, filter domain.DealFilter) ([]*domain.Deal, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Deal, 0, len(s.deals))
	for _, d := range s.deals {
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, d.Status) {
			continue
		}
		if filter.CreatedBefore != nil && !d.CreatedAt.Before(*filter.CreatedBefore) {
			continue
		}
		d := d
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool {
		if filter.OldestFirst {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *stubRepository) UpdateDeal(ctx context.Context, dealID string, expected []domain.DealStatus, patch domain.DealPatch) (*domain.Deal, error) {
	if s.beforeUpdate != nil {
		s.beforeUpdate(dealID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deals[dealID]
	if !ok {
		return nil, domain.ErrDealNotFound
	}
	if len(expected) > 0 && !containsStatus(expected, d.Status) {
		return nil, domain.ErrStatusMismatch
	}
	d = patch.Apply(d)
	s.deals[dealID] = d
	return &d, nil
}

func (s *stubRepository) put(d domain.Deal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deals[d.ID] = d
}

func (s *stubRepository) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deals)
}

func containsStatus(list []domain.DealStatus, s domain.DealStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type stubGateway struct {
	mu          sync.Mutex
	verifyCalls int

	InitializeFunc func(ctx context.Context, req domain.InitializePaymentRequest) (*domain.InitializePaymentResult, error)
	VerifyFunc     func(ctx context.Context, reference string) (*domain.VerifyPaymentResult, error)
}

func (g *stubGateway) InitializePayment(ctx context.Context, req domain.InitializePaymentRequest) (*domain.InitializePaymentResult, error) {
	if g.InitializeFunc != nil {
		return g.InitializeFunc(ctx, req)
	}
	return &domain.InitializePaymentResult{AuthorizationURL: "https://checkout.example/" + req.Reference}, nil
}

func (g *stubGateway) VerifyPayment(ctx context.Context, reference string) (*domain.VerifyPaymentResult, error) {
	g.mu.Lock()
	g.verifyCalls++
	g.mu.Unlock()
	if g.VerifyFunc != nil {
		return g.VerifyFunc(ctx, reference)
	}
	return nil, domain.ErrGatewayUnavailable
}

func (g *stubGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.verifyCalls
}

type publishedEvent struct {
	Type   domain.DealEventType
	DealID string
	Status domain.DealStatus
}

type stubPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *stubPublisher) PublishDealEvent(ctx context.Context, eventType domain.DealEventType, deal *domain.Deal) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, DealID: deal.ID, Status: deal.Status})
	return p.err
}

func (p *stubPublisher) has(eventType domain.DealEventType, dealID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.events {
		if e.Type == eventType && e.DealID == dealID {
			return true
		}
	}
	return false
}
