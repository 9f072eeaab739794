package surf

import "errors"

// Failure taxonomy. Clients wrap transport outcomes in one of the upstream
// errors; the orchestrator reacts to the client's final verdict and only ever
// surfaces ErrUnknownLocation or ErrForecastUnavailable to callers.
var (
	// ErrUnknownLocation means the beach name resolved to nothing. Bad input,
	// never retried.
	ErrUnknownLocation = errors.New("unknown beach")

	// ErrForecastUnavailable means marine data could not be obtained, so no
	// usable report can be produced.
	ErrForecastUnavailable = errors.New("surf forecast unavailable")

	// ErrUpstreamUnavailable is a transient network or server failure,
	// retried with backoff inside the client before being promoted.
	ErrUpstreamUnavailable = errors.New("upstream provider unavailable")

	// ErrUpstreamRateLimited is a provider quota rejection, retried after a
	// delay inside the client.
	ErrUpstreamRateLimited = errors.New("upstream provider rate limited")

	// ErrUpstreamDataMalformed means the provider responded but the payload
	// did not parse. Fatal for that source; parse errors are not retried.
	ErrUpstreamDataMalformed = errors.New("upstream response malformed")

	// ErrNoTideStation means no tide station covers the coordinate. The
	// report degrades to an empty tide series rather than failing.
	ErrNoTideStation = errors.New("no tide station near location")
)
