package models

import "fmt"

// ValidationError reports malformed input to a mutating call, such as a
// missing required field or an unsupported type value. Callers surface it
// to the user and must not retry automatically.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
