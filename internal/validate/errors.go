package validate

import "errors"

// ErrMalformedFacts reports a unit whose facts violate the model's contract
// (cyclic enclosing chain, unknown kind). It indicates a front-end bug.
var ErrMalformedFacts = errors.New("malformed element facts")
