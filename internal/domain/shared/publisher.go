package shared

// EventPublisher delivers domain events to external consumers. Publishing
// is best effort: ledger writes must not fail because a broker is down, so
// callers log and continue on error.
type EventPublisher interface {
	Publish(topic string, event any) error
}
