package testutil

import (
	"context"
	"sync"

	"github.com/invoflow/invoflow/internal/gateway"
	"github.com/invoflow/invoflow/internal/types"
)

// MockGateway implements gateway.Gateway, recording charges and returning
// a configurable outcome
type MockGateway struct {
	mu       sync.Mutex
	requests []*gateway.ChargeRequest

	// ChargeErr, when set, is returned by every Charge call
	ChargeErr error
}

// NewMockGateway creates a gateway stub that succeeds by default
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (g *MockGateway) Charge(ctx context.Context, req *gateway.ChargeRequest) (*gateway.ChargeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.requests = append(g.requests, req)
	if g.ChargeErr != nil {
		return nil, g.ChargeErr
	}
	return &gateway.ChargeResult{
		ChargeID: types.GenerateUUIDWithPrefix("ch"),
	}, nil
}

// Requests returns all charge requests received so far
func (g *MockGateway) Requests() []*gateway.ChargeRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*gateway.ChargeRequest, len(g.requests))
	copy(out, g.requests)
	return out
}

// Clear drops recorded requests and resets the configured outcome
func (g *MockGateway) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = nil
	g.ChargeErr = nil
}
