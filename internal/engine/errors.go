package engine

import "fmt"

// StatusError is a completed call that did not return 200.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Body)
}

// LookupError is a failed subsidiary read. It never aborts a command.
type LookupError struct {
	URL string
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %s failed: %v", e.URL, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// DispatchError is a failed primary call. Lookups that failed earlier in
// the same invocation are carried along so both show up in the result.
type DispatchError struct {
	Command string
	Err     error
	Lookups []*LookupError
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }
