package client

import "context"

// Repository defines the interface for client persistence operations
type Repository interface {
	// Create creates a new client
	Create(ctx context.Context, client *Client) error

	// Get retrieves a client by ID
	Get(ctx context.Context, id string) (*Client, error)

	// Update replaces a client document unconditionally
	Update(ctx context.Context, client *Client) error

	// UpdateVersioned replaces a client document only if its stored version
	// still matches client.Version; on success the version is advanced.
	// A mismatch returns a version conflict error so the caller can re-read
	// and retry its read-modify-write.
	UpdateVersioned(ctx context.Context, client *Client) error

	// List retrieves all clients of the tenant
	List(ctx context.Context) ([]*Client, error)
}
