package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/invoflow/invoflow/internal/domain/invoice"
	"github.com/invoflow/invoflow/internal/types"
	"github.com/samber/lo"
)

// InMemoryInvoiceStore implements invoice.Repository
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]

	mu        sync.Mutex
	sequences map[string]int64
}

// NewInMemoryInvoiceStore creates a new in-memory invoice store
func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
		sequences:     make(map[string]int64),
	}
}

func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	if inv == nil {
		return nil
	}

	cp := *inv
	if inv.BillingPeriodStart != nil {
		cp.BillingPeriodStart = lo.ToPtr(*inv.BillingPeriodStart)
	}
	if inv.BillingPeriodEnd != nil {
		cp.BillingPeriodEnd = lo.ToPtr(*inv.BillingPeriodEnd)
	}
	if inv.PaidAmount != nil {
		cp.PaidAmount = lo.ToPtr(*inv.PaidAmount)
	}
	if inv.PaymentDifference != nil {
		cp.PaymentDifference = lo.ToPtr(*inv.PaymentDifference)
	}
	if inv.Metadata != nil {
		cp.Metadata = make(types.Metadata, len(inv.Metadata))
		for k, v := range inv.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	return s.InMemoryStore.Create(ctx, inv.ID, copyInvoice(inv))
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return copyInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	return s.InMemoryStore.Update(ctx, inv.ID, copyInvoice(inv))
}

func invoiceFilterFn(ctx context.Context, inv *invoice.Invoice, filter interface{}) bool {
	f, ok := filter.(*types.InvoiceFilter)
	if !ok || f == nil {
		return true
	}
	if f.ClientID != "" && inv.ClientID != f.ClientID {
		return false
	}
	if len(f.Statuses) > 0 && !lo.Contains(f.Statuses, inv.Status) {
		return false
	}
	return true
}

func invoiceSortFn(i, j *invoice.Invoice) bool {
	if i.CreatedAt.Equal(j.CreatedAt) {
		return i.ID < j.ID
	}
	return i.CreatedAt.After(j.CreatedAt)
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	items, err := s.InMemoryStore.List(ctx, filter, invoiceFilterFn, invoiceSortFn)
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(inv *invoice.Invoice, _ int) *invoice.Invoice {
		return copyInvoice(inv)
	}), nil
}

func (s *InMemoryInvoiceStore) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, invoiceFilterFn)
}

func (s *InMemoryInvoiceStore) NextInvoiceNumber(ctx context.Context, yearMonth string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := fmt.Sprintf("%s:%s", types.GetTenantID(ctx), yearMonth)
	s.sequences[key]++
	return invoice.FormatInvoiceNumber(yearMonth, s.sequences[key]), nil
}

// Clear removes all invoices and resets sequences
func (s *InMemoryInvoiceStore) Clear() {
	s.InMemoryStore.Clear()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequences = make(map[string]int64)
}
