package payment

import (
	"context"

	"github.com/invoflow/invoflow/internal/types"
)

// Repository defines the interface for payment persistence operations
type Repository interface {
	// Create stores a new payment record
	Create(ctx context.Context, payment *Payment) error

	// Get retrieves a payment by ID
	Get(ctx context.Context, id string) (*Payment, error)

	// List retrieves payments based on filter criteria
	List(ctx context.Context, filter *types.PaymentFilter) ([]*Payment, error)

	// Count returns the total count of payments based on filter criteria
	Count(ctx context.Context, filter *types.PaymentFilter) (int, error)
}
