package pricing

import "fmt"

// ValidationError reports an input that fails the pricing preconditions.
// It is returned before any amount is computed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
