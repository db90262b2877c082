package model

// Outcome is the result of one evidence lookup: either a value, or an
// explicit unavailable marker carrying the reason. An available outcome with
// an empty payload means "checked, nothing found".
type Outcome[T any] struct {
	value  T
	reason string
	ok     bool
}

// Available wraps evidence that was successfully retrieved.
func Available[T any](value T) Outcome[T] {
	return Outcome[T]{value: value, ok: true}
}

// Unavailable records that evidence could not be retrieved.
func Unavailable[T any](reason string) Outcome[T] {
	if reason == "" {
		reason = "unavailable"
	}
	return Outcome[T]{reason: reason}
}

// Get returns the evidence and whether it is available.
func (o Outcome[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsAvailable reports whether the lookup produced evidence.
func (o Outcome[T]) IsAvailable() bool {
	return o.ok
}

// Reason explains why the evidence is unavailable. Empty when available.
func (o Outcome[T]) Reason() string {
	return o.reason
}
