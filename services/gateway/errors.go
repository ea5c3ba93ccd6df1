package gateway

import "errors"

// Error kinds surfaced by the gateway core. Handlers map these onto HTTP
// status codes; everything else is treated as a transient broker failure.
var (
	// ErrNotFound indicates a named stream or consumer does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a durable consumer already exists with an
	// incompatible configuration
	ErrConflict = errors.New("consumer exists with conflicting configuration")

	// ErrBadRequest indicates invalid input: out-of-range, missing required,
	// or contradictory options
	ErrBadRequest = errors.New("invalid request")

	// ErrNoStream indicates no stream covers the publish subject
	ErrNoStream = errors.New("no stream covers subject")
)
