package rules

import "errors"

var (
	// ErrCyclicEnclosing is the panic value (wrapped) for an enclosing chain that loops.
	ErrCyclicEnclosing = errors.New("cyclic enclosing chain")
	// ErrUnknownKind is the panic value (wrapped) for a tag or element kind outside the table.
	ErrUnknownKind = errors.New("unknown tag or element kind")
)
