
package crawler

import "fmt"

// TransportError reports a network failure (Status 0) or a non-success
// HTTP status for URL.
type TransportError struct {
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: http status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: http status %d: %v", e.URL, e.Status, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
