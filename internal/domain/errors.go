package domain

import "errors"

// Domain errors.
var (
	// ErrUpstreamAuth is returned when the Twitch token exchange fails or
	// the token response lacks an access token.
	ErrUpstreamAuth = errors.New("upstream token exchange failed")

	// ErrUpstreamProtocol is returned when the GQL call fails at the
	// transport or HTTP level.
	ErrUpstreamProtocol = errors.New("upstream query failed")

	// ErrUpstreamShape is returned when the GQL response succeeded but a
	// required field is missing: deleted clip, private clip, or schema drift.
	ErrUpstreamShape = errors.New("unexpected upstream response shape")

	// ErrUpstreamShorten is returned when the URL shortening call fails.
	ErrUpstreamShorten = errors.New("url shortening failed")
)

// ResolveError wraps an error with clip resolution context.
type ResolveError struct {
	Slug string
	Op   string
	Err  error
}

func (e *ResolveError) Error() string {
	if e.Slug != "" {
		return e.Op + " [" + e.Slug + "]: " + e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// NewResolveError creates a new ResolveError.
func NewResolveError(slug, op string, err error) *ResolveError {
	return &ResolveError{
		Slug: slug,
		Op:   op,
		Err:  err,
	}
}
