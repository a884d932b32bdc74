package lframe

import "errors"

// Error kinds. Every error returned by this package wraps exactly one of these,
// so callers may branch with errors.Is.
var (
	// ErrIndex reports a label that does not exist or a position outside [-size, size).
	ErrIndex = errors.New("index error")
	// ErrSize reports a collection whose length does not match its target.
	ErrSize = errors.New("size mismatch")
	// ErrArgument reports malformed construction arguments.
	ErrArgument = errors.New("invalid argument")
	// ErrType reports an element operation that is not defined for the operand types.
	ErrType = errors.New("unsupported type")
	// ErrArithmetic reports an arithmetic failure such as integer division by zero.
	ErrArithmetic = errors.New("arithmetic error")
)
