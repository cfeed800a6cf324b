package provision

import "fmt"

// ProviderAPIError reports a cloud API call that failed and could not be
// reconciled against existing resources. Retrying the identical request
// cannot succeed; the operator has to fix the underlying cause (token,
// quota, parameters).
type ProviderAPIError struct {
	Op  string
	Err error
}

func (e *ProviderAPIError) Error() string {
	return fmt.Sprintf("provider API error during %s: %v", e.Op, e.Err)
}

func (e *ProviderAPIError) Unwrap() error {
	return e.Err
}

// UnreachableError reports that the reachability budget was exhausted
// without a single successful authenticated session.
type UnreachableError struct {
	Addr     string
	Attempts int
	Err      error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("host %s unreachable after %d attempts; inspect the server in the provider console: %v",
		e.Addr, e.Attempts, e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}
