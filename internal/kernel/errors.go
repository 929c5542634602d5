package kernel

import (
	"errors"
	"fmt"

	"github.com/arrayd-io/arrayd/internal/dtype"
)

// Sentinel error kinds surfaced by the dispatch front-end. Handlers match
// with errors.Is; the wrapped message carries the wire template.
var (
	ErrUnsupportedOperator        = errors.New("unsupported operator")
	ErrUnsupportedTypeCombination = errors.New("unsupported type combination")
	ErrUnsupportedResultType      = errors.New("unsupported result type for operator")
	ErrNegativeExponent           = errors.New("negative exponent")
	ErrRotationWithoutWidth       = errors.New("rotation without width")
	ErrShapeMismatch              = errors.New("shape mismatch")
	ErrMaxBitsMismatch            = errors.New("max_bits mismatch")
)

// opError pairs a sentinel kind with a preformatted wire message, so the
// message text stays exactly on template while errors.Is still matches
// the kind.
type opError struct {
	kind error
	msg  string
}

func (e *opError) Error() string {
	return e.msg
}

func (e *opError) Unwrap() error {
	return e.kind
}

// notImplemented reports that a kernel refused the (lt, op, rt) triple:
// the pair is recognized, but no specialization produces a legal result
// type for this operator.
func notImplemented(routine string, lt dtype.DType, op string, rt dtype.DType) error {
	return &opError{
		kind: ErrUnsupportedResultType,
		msg:  fmt.Sprintf("%s: not implemented for (%s, %s, %s)", routine, lt, op, rt),
	}
}

// unrecognizedTypes builds the canonical bad-pair error for a routine.
func unrecognizedTypes(routine string, lt, rt dtype.DType) error {
	return &opError{
		kind: ErrUnsupportedTypeCombination,
		msg:  fmt.Sprintf("%s: unrecognized type (%s, %s)", routine, lt, rt),
	}
}

// negativeExponent builds the canonical negative-exponent error for a
// base type.
func negativeExponent(base dtype.DType) error {
	return &opError{
		kind: ErrNegativeExponent,
		msg:  fmt.Sprintf("attempt to exponentiate base of type %s to negative exponent", base),
	}
}
