package audit

import "context"

// Store persists archived audit events. Implementations must tolerate
// repeated appends of the same event ID (the worker retries on transient
// failure).
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByCase(ctx context.Context, caseID string) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

// Publisher mirrors archived events to a downstream stream for compliance
// consumers. Optional; a nil publisher means store-only archival.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}
