package model

import "fmt"

// ValidationError reports missing or invalid local input, detected before any
// external call is made
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
