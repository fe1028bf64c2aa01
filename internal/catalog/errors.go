package catalog

import "fmt"

// FetchKind says which stage of a model-list fetch failed.
type FetchKind int

const (
	// FetchTransport covers request construction, connection and body read failures.
	FetchTransport FetchKind = iota
	// FetchStatus is a response with a non-2xx status.
	FetchStatus
	// FetchMalformed is a 2xx response whose body is not a model list.
	FetchMalformed
)

func (k FetchKind) String() string {
	switch k {
	case FetchTransport:
		return "transport"
	case FetchStatus:
		return "status"
	case FetchMalformed:
		return "malformed-response"
	default:
		return fmt.Sprintf("FetchKind(%d)", int(k))
	}
}

// FetchError reports a failed model-list fetch. Kind is kept for logging; the
// user-facing message is the same for every kind.
type FetchError struct {
	ServerURL  string
	Kind       FetchKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("could not fetch models from %s: %v", e.ServerURL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// UserMessage is the short notification shown for any fetch failure.
func (e *FetchError) UserMessage() string {
	return fmt.Sprintf("Could not fetch models from %s", e.ServerURL)
}
