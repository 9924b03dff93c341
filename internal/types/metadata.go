package types

// Metadata is a map of key-value pairs attached to a resource
type Metadata map[string]string
