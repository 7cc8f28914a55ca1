package llm

import "fmt"

// RemoteServiceError reports a failed round trip: a non-2xx status with the
// full response body, or a transport failure (Status 0) such as a timeout.
type RemoteServiceError struct {
	Status int
	Body   string
	Err    error
}

func (e *RemoteServiceError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("messages request failed: %v", e.Err)
	}
	return fmt.Sprintf("messages API returned %d: %s", e.Status, e.Body)
}

func (e *RemoteServiceError) Unwrap() error { return e.Err }

// MalformedResponseError reports a 2xx response whose body does not carry
// the generated text where the protocol puts it.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed messages response: %s: %v", e.Reason, e.Err)
	}
	return "malformed messages response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
