package testutil

import (
	"context"
	"sync"

	"github.com/invoflow/invoflow/internal/domain/settings"
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/invoflow/invoflow/internal/types"
	"github.com/samber/lo"
)

// InMemorySettingsStore implements settings.Repository, one document per tenant
type InMemorySettingsStore struct {
	mu       sync.RWMutex
	byTenant map[string]*settings.InvoiceSettings
}

// NewInMemorySettingsStore creates a new in-memory settings store
func NewInMemorySettingsStore() *InMemorySettingsStore {
	return &InMemorySettingsStore{
		byTenant: make(map[string]*settings.InvoiceSettings),
	}
}

func copySettings(s *settings.InvoiceSettings) *settings.InvoiceSettings {
	if s == nil {
		return nil
	}
	cp := *s
	if s.ClosingDay != nil {
		cp.ClosingDay = lo.ToPtr(*s.ClosingDay)
	}
	if s.IssueDay != nil {
		cp.IssueDay = lo.ToPtr(*s.IssueDay)
	}
	if s.DueDateDays != nil {
		cp.DueDateDays = lo.ToPtr(*s.DueDateDays)
	}
	if s.DueDateDay != nil {
		cp.DueDateDay = lo.ToPtr(*s.DueDateDay)
	}
	return &cp
}

func (s *InMemorySettingsStore) Get(ctx context.Context) (*settings.InvoiceSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, exists := s.byTenant[types.GetTenantID(ctx)]
	if !exists {
		return nil, ierr.NewError("invoice settings not found").
			WithHint("The tenant has not saved invoice settings yet").
			Mark(ierr.ErrNotFound)
	}
	return copySettings(stored), nil
}

func (s *InMemorySettingsStore) Save(ctx context.Context, cfg *settings.InvoiceSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byTenant[types.GetTenantID(ctx)] = copySettings(cfg)
	return nil
}

// Clear removes all settings documents
func (s *InMemorySettingsStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byTenant = make(map[string]*settings.InvoiceSettings)
}
