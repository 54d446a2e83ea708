// Package errs defines the error kinds the analysis pipeline reports and how
// they surface to callers.
package errs

import "fmt"

// Kind categorizes pipeline errors for HTTP status mapping.
type Kind int

const (
	// Unknown represents an unclassified error (HTTP 500).
	Unknown Kind = iota
	// InvalidURL indicates the submitted URL was malformed or unsupported (HTTP 400).
	InvalidURL
	// Unreachable indicates the target could not be fetched (HTTP 502).
	Unreachable
	// Timeout indicates the target did not answer within the fetch timeout (HTTP 504).
	Timeout
	// ParseFailed indicates the body could not be read as HTML. Recovered locally.
	ParseFailed
	// DomainLookupFailed indicates the WHOIS lookup failed. Recovered locally.
	DomainLookupFailed
	// ProbeFailed indicates the HTTPS upgrade probe failed. Recovered locally.
	ProbeFailed
)

func (k Kind) String() string {
	switch k {
	case InvalidURL:
		return "invalid_url"
	case Unreachable:
		return "unreachable"
	case Timeout:
		return "timeout"
	case ParseFailed:
		return "parse_failed"
	case DomainLookupFailed:
		return "domain_lookup_failed"
	case ProbeFailed:
		return "probe_failed"
	default:
		return "unknown"
	}
}

// AppError carries a category, the offending request field (if any), a user
// message and the original cause.
type AppError struct {
	Kind    Kind
	Field   string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Fatal reports whether an error of this kind aborts the whole analysis.
func (k Kind) Fatal() bool {
	switch k {
	case InvalidURL, Unreachable, Timeout, Unknown:
		return true
	}
	return false
}
