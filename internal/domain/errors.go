package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCustomerNotFound aborts the request with no partial response.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrMissingCustomerID rejects a request before any data load.
	ErrMissingCustomerID = errors.New("customer_id is required")

	// ErrExplanationUnavailable marks a failed, timed-out or empty
	// explanation call. Recovered locally via the template fallback, never
	// surfaced to the caller.
	ErrExplanationUnavailable = errors.New("explanation unavailable")
)

// InvalidPlanDataError marks a catalog entry whose rate fields do not match
// its declared structure. The plan is excluded from processing with a
// diagnostic log; it never fails the request.
type InvalidPlanDataError struct {
	PlanID string
	Reason string
}

func (e *InvalidPlanDataError) Error() string {
	return fmt.Sprintf("invalid plan data for %s: %s", e.PlanID, e.Reason)
}
