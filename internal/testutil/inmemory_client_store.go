package testutil

import (
	"context"

	"github.com/invoflow/invoflow/internal/domain/client"
	ierr "github.com/invoflow/invoflow/internal/errors"
	"github.com/samber/lo"
)

// InMemoryClientStore implements client.Repository
type InMemoryClientStore struct {
	*InMemoryStore[*client.Client]

	// UpdateVersionedErr, when set, fails every versioned write until
	// cleared, simulating a ledger store outage
	UpdateVersionedErr error
}

// NewInMemoryClientStore creates a new in-memory client store
func NewInMemoryClientStore() *InMemoryClientStore {
	return &InMemoryClientStore{
		InMemoryStore: NewInMemoryStore[*client.Client](),
	}
}

func copyClient(c *client.Client) *client.Client {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

func (s *InMemoryClientStore) Create(ctx context.Context, c *client.Client) error {
	return s.InMemoryStore.Create(ctx, c.ID, copyClient(c))
}

func (s *InMemoryClientStore) Get(ctx context.Context, id string) (*client.Client, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return copyClient(c), nil
}

func (s *InMemoryClientStore) Update(ctx context.Context, c *client.Client) error {
	return s.InMemoryStore.Update(ctx, c.ID, copyClient(c))
}

func (s *InMemoryClientStore) UpdateVersioned(ctx context.Context, c *client.Client) error {
	if s.UpdateVersionedErr != nil {
		return s.UpdateVersionedErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.items[c.ID]
	if !exists {
		return ierr.NewError("client not found").
			WithHintf("No client with id %s", c.ID).
			Mark(ierr.ErrNotFound)
	}
	if current.Version != c.Version {
		return ierr.NewError("client version mismatch").
			WithHint("The client was modified concurrently, re-read and retry").
			WithReportableDetails(map[string]any{
				"client_id":        c.ID,
				"expected_version": c.Version,
				"stored_version":   current.Version,
			}).
			Mark(ierr.ErrVersionConflict)
	}

	cp := copyClient(c)
	cp.Version++
	s.items[c.ID] = cp
	c.Version = cp.Version
	return nil
}

// Clear resets the store and any injected fault
func (s *InMemoryClientStore) Clear() {
	s.UpdateVersionedErr = nil
	s.InMemoryStore.Clear()
}

func (s *InMemoryClientStore) List(ctx context.Context) ([]*client.Client, error) {
	items, err := s.InMemoryStore.List(ctx, nil, nil, func(i, j *client.Client) bool {
		return i.Name < j.Name
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(c *client.Client, _ int) *client.Client {
		return copyClient(c)
	}), nil
}
