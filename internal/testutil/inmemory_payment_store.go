package testutil

import (
	"context"

	"github.com/invoflow/invoflow/internal/domain/payment"
	"github.com/invoflow/invoflow/internal/types"
	"github.com/samber/lo"
)

// InMemoryPaymentStore implements payment.Repository
type InMemoryPaymentStore struct {
	*InMemoryStore[*payment.Payment]
}

// NewInMemoryPaymentStore creates a new in-memory payment store
func NewInMemoryPaymentStore() *InMemoryPaymentStore {
	return &InMemoryPaymentStore{
		InMemoryStore: NewInMemoryStore[*payment.Payment](),
	}
}

func copyPayment(p *payment.Payment) *payment.Payment {
	if p == nil {
		return nil
	}
	cp := *p
	if p.GatewayChargeID != nil {
		cp.GatewayChargeID = lo.ToPtr(*p.GatewayChargeID)
	}
	if p.Metadata != nil {
		cp.Metadata = make(types.Metadata, len(p.Metadata))
		for k, v := range p.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}

func (s *InMemoryPaymentStore) Create(ctx context.Context, p *payment.Payment) error {
	return s.InMemoryStore.Create(ctx, p.ID, copyPayment(p))
}

func (s *InMemoryPaymentStore) Get(ctx context.Context, id string) (*payment.Payment, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return copyPayment(p), nil
}

func paymentFilterFn(ctx context.Context, p *payment.Payment, filter interface{}) bool {
	f, ok := filter.(*types.PaymentFilter)
	if !ok || f == nil {
		return true
	}
	if f.InvoiceID != "" && p.InvoiceID != f.InvoiceID {
		return false
	}
	if f.ClientID != "" && p.ClientID != f.ClientID {
		return false
	}
	return true
}

func paymentSortFn(i, j *payment.Payment) bool {
	if i.RecordedAt.Time().Equal(j.RecordedAt.Time()) {
		return i.ID < j.ID
	}
	return j.RecordedAt.Before(i.RecordedAt)
}

func (s *InMemoryPaymentStore) List(ctx context.Context, filter *types.PaymentFilter) ([]*payment.Payment, error) {
	items, err := s.InMemoryStore.List(ctx, filter, paymentFilterFn, paymentSortFn)
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(p *payment.Payment, _ int) *payment.Payment {
		return copyPayment(p)
	}), nil
}

func (s *InMemoryPaymentStore) Count(ctx context.Context, filter *types.PaymentFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, paymentFilterFn)
}
