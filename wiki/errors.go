package wiki

import "fmt"

// MalformedResponseError indicates the API response decoded as JSON but
// did not have the shape this client consumes. It is not recovered from:
// the caller sees the exact field that was missing or ambiguous.
type MalformedResponseError struct {
	Field  string
	Reason string
}

func (e *MalformedResponseError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("malformed API response: %s (%s)", e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed API response: missing %s", e.Field)
}
