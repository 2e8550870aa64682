package cli

import (
	"errors"
	"fmt"
)

// DriftError signals that a check-mode run found drift between desired
// and remote state. It maps to its own exit code so CI pipelines can
// distinguish "drift found" from "run failed".
type DriftError struct {
	// Count is the number of resources that would change.
	Count int
}

// Error implements the error interface for DriftError.
func (e *DriftError) Error() string {
	if e.Count == 1 {
		return "1 resource would change"
	}
	return fmt.Sprintf("%d resources would change", e.Count)
}

// IsDrift checks if an error is or wraps a DriftError.
func IsDrift(err error) bool {
	var driftErr *DriftError
	return errors.As(err, &driftErr)
}
