package client

// Outcome classifies how a lookup ended.
type Outcome string

const (
	// OutcomeOK means a payload was returned.
	OutcomeOK Outcome = "ok"

	// OutcomeNotFound means upstream confirmed the resource does not exist (404),
	// or the season collection was empty.
	OutcomeNotFound Outcome = "not_found"

	// OutcomeUnconfigured means no API key was supplied.
	OutcomeUnconfigured Outcome = "unconfigured"

	// OutcomeRateLimited represents 429 and 403 answers (request budget spent).
	OutcomeRateLimited Outcome = "rate_limited"

	// OutcomeTransportFailure represents other non-2xx answers and network errors.
	OutcomeTransportFailure Outcome = "transport_failure"

	// OutcomeCancelled means the caller's context ended first.
	OutcomeCancelled Outcome = "cancelled"

	// OutcomeTimedOut means the per-call deadline elapsed.
	OutcomeTimedOut Outcome = "timed_out"

	// OutcomeDecodeFailure means a 2xx body did not match the expected shape.
	OutcomeDecodeFailure Outcome = "decode_failure"
)

// Sentinel returns the error matching the outcome, nil for OutcomeOK.
func (o Outcome) Sentinel() error {
	switch o {
	case OutcomeNotFound:
		return ErrNotFound
	case OutcomeUnconfigured:
		return ErrUnconfigured
	case OutcomeRateLimited:
		return ErrRateLimited
	case OutcomeTransportFailure:
		return ErrTransport
	case OutcomeCancelled:
		return ErrCancelled
	case OutcomeTimedOut:
		return ErrTimedOut
	case OutcomeDecodeFailure:
		return ErrDecode
	default:
		return nil
	}
}

// Unavailable reports whether the outcome says nothing about the resource
// itself, as opposed to OK and NotFound.
func (o Outcome) Unavailable() bool {
	return o != OutcomeOK && o != OutcomeNotFound
}

// Result is the outcome of a lookup. Value is set only for OutcomeOK.
//
// Value may be shared with the response cache and other callers: do not
// modify it, Clone it first.
type Result[T any] struct {
	Value   *T
	Outcome Outcome

	// StatusCode is the upstream HTTP status, 0 when no response was read.
	StatusCode int

	// Message is the upstream error message for rate-limited answers.
	Message string

	// Err wraps the outcome's sentinel error, nil for OutcomeOK.
	Err error

	// Cached is true when the result was served without a network call.
	Cached bool
}

// OK reports whether a payload is available.
func (r Result[T]) OK() bool {
	return r.Outcome == OutcomeOK && r.Value != nil
}

// NotFound reports whether the resource was confirmed absent.
func (r Result[T]) NotFound() bool {
	return r.Outcome == OutcomeNotFound
}
