package types

// Status is a type for the lifecycle status of a persisted resource.
// Soft-deleted resources keep their documents but are excluded from queries.
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)
