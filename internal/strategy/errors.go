package strategy

import "fmt"

// ParseError indicates the model's schedule response could not be parsed
// or failed schema validation. Callers are expected to fall back to the
// deterministic schedule rather than retrying the model.
type ParseError struct {
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse strategy response: %s", e.Reason)
}
