package search

import "fmt"

// TransportError is returned when the API can't be reached or answers with
// a non-2xx status. Status is 0 for network failures.
type TransportError struct {
	Status int
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	return fmt.Sprintf("request failed (%d): %s", e.Status, e.Body)
}

func (e *TransportError) Unwrap() error { return e.Err }
