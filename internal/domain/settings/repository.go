package settings

import "context"

// Repository defines the interface for invoice settings persistence.
// A tenant has at most one settings document.
type Repository interface {
	// Get retrieves the tenant's invoice settings
	Get(ctx context.Context) (*InvoiceSettings, error)

	// Save creates or replaces the tenant's invoice settings
	Save(ctx context.Context, settings *InvoiceSettings) error
}
