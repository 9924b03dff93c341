package types

import (
	"time"

	ierr "github.com/invoflow/invoflow/internal/errors"
)

// Timestamp is the single canonical representation for persisted instants.
// All values are normalized to UTC on construction; the persistence layer
// converts to and from the store's native representation exactly once,
// here, instead of branching on value shapes at every call site.
type Timestamp struct {
	t time.Time
}

// NewTimestamp builds a Timestamp from a time.Time, normalizing to UTC
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t: t.UTC()}
}

// TimestampNow returns the current instant
func TimestampNow() Timestamp {
	return Timestamp{t: time.Now().UTC()}
}

// ParseTimestamp parses an RFC3339 string, the store's wire format
func ParseTimestamp(s string) (Timestamp, error) {
	if s == "" {
		return Timestamp{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Timestamp{}, ierr.WithError(err).
			WithHintf("Timestamp must be RFC3339, got %q", s).
			Mark(ierr.ErrValidation)
	}
	return NewTimestamp(t), nil
}

func (ts Timestamp) Time() time.Time {
	return ts.t
}

func (ts Timestamp) IsZero() bool {
	return ts.t.IsZero()
}

func (ts Timestamp) Before(other Timestamp) bool {
	return ts.t.Before(other.t)
}

func (ts Timestamp) String() string {
	if ts.IsZero() {
		return ""
	}
	return ts.t.Format(time.RFC3339Nano)
}

// MarshalJSON encodes the timestamp as an RFC3339 string
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return ts.t.MarshalJSON()
}

// UnmarshalJSON decodes an RFC3339 string or null
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*ts = Timestamp{}
		return nil
	}
	var t time.Time
	if err := t.UnmarshalJSON(data); err != nil {
		return err
	}
	*ts = NewTimestamp(t)
	return nil
}
