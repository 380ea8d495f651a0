package fetcher

import "fmt"

// ErrorKind classifies a fetch failure.
//
// Design decision: We use an explicit kind enumeration rather than
// sentinel errors because callers need to report which stage of the
// request failed (connecting vs. a server rejection) and the status code
// is only meaningful for one of them.
type ErrorKind int

const (
	// KindTransport covers timeouts, DNS failures, connection resets and
	// every other failure that prevented a response from arriving.
	KindTransport ErrorKind = iota

	// KindStatus means a response arrived with a non-2xx status code.
	KindStatus
)

// String returns the human-readable kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	default:
		return "unknown"
	}
}

// Error is the failure type returned by all fetcher operations.
// Use errors.As to recover it and inspect the kind.
type Error struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// URL is the request URL.
	URL string

	// StatusCode is the HTTP status for KindStatus errors, zero otherwise.
	StatusCode int

	// Err is the underlying cause for KindTransport errors, nil otherwise.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
}

// Unwrap returns the underlying transport error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// statusError builds a KindStatus error.
func statusError(url string, code int) *Error {
	return &Error{Kind: KindStatus, URL: url, StatusCode: code}
}

// transportError builds a KindTransport error.
func transportError(url string, err error) *Error {
	return &Error{Kind: KindTransport, URL: url, Err: err}
}
