package weighing

import "fmt"

// ValidationError reports a malformed or missing user-supplied field, or a
// weight-ordering invariant violation. No state is mutated when one of these
// is returned; the caller re-prompts.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NotFoundError reports that the referenced pending weighing no longer
// exists. Losing a concurrent close race surfaces as this, never as a
// duplicate ticket.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("pending weighing %d not found (it may already have been closed)", e.ID)
}

// StoreError reports that the durable store was unreachable or a transaction
// failed to commit. No partial effects remain; the caller may retry.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store failure during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
