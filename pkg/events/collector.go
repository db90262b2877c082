package events

// EventCollector is embedded in aggregates to buffer domain events raised
// during state transitions until the application layer publishes them.
type EventCollector struct {
	pending []DomainEvent
}

// Record buffers one or more events in the order they were raised.
func (c *EventCollector) Record(evts ...DomainEvent) {
	c.pending = append(c.pending, evts...)
}

// Pending returns the number of buffered events.
func (c *EventCollector) Pending() int {
	return len(c.pending)
}

// Drain returns the buffered events and empties the buffer.
func (c *EventCollector) Drain() []DomainEvent {
	drained := c.pending
	c.pending = nil
	if drained == nil {
		return []DomainEvent{}
	}
	return drained
}
