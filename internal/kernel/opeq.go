package kernel

import (
	"fmt"

	"github.com/arrayd-io/arrayd/internal/array"
	"github.com/arrayd-io/arrayd/internal/dtype"
	"github.com/arrayd-io/arrayd/internal/parallel"
)

// OpEqVV evaluates `l op= r` in place over two arrays of matching shape.
// The assignment is legal only when the promoted type of (lt, op, rt)
// equals the left operand's type, so no widening result is silently
// truncated back into l.
func OpEqVV(l, r *array.Array, op string, cfg parallel.Config) error {
	const routine = "opeqvv"
	if !l.Shape().Equal(r.Shape()) {
		return fmt.Errorf("%w: %s: %s vs %s",
			ErrShapeMismatch, routine, l.Shape(), r.Shape())
	}
	return dispatchOpEq(routine, l, arrOperand(r), op, cfg)
}

// OpEqVS evaluates `l op= s` in place with a scalar right operand.
func OpEqVS(l *array.Array, s array.Scalar, op string, cfg parallel.Config) error {
	return dispatchOpEq("opeqvs", l, scOperand(s), op, cfg)
}

func dispatchOpEq(routine string, l *array.Array, r operand, op string, cfg parallel.Config) error {
	base, ok := BaseOp(op)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedOperator, op)
	}
	lt, rt := l.DType(), r.dt()

	if lt == dtype.BigInt {
		if base == "**" && hasNegative(r) {
			return negativeExponent(lt)
		}
		if !binOpBig(l, arrOperand(l), r, base, l.MaxBits(), cfg) {
			return notImplemented(routine, lt, op, rt)
		}
		return nil
	}
	if rt == dtype.BigInt {
		// A big-integer right operand always promotes past a
		// fixed-width left side.
		return notImplemented(routine, lt, op, rt)
	}

	et := resultType(base, lt, rt)
	if et == dtype.Undef {
		return unrecognizedTypes(routine, lt, rt)
	}
	if et != lt {
		return notImplemented(routine, lt, op, rt)
	}
	if base == "**" && et.Kind() == dtype.KindInteger && !mixedSignedness(lt, rt) && hasNegative(r) {
		return negativeExponent(lt)
	}
	if !binOpNumeric(l, arrOperand(l), r, base, cfg) {
		return notImplemented(routine, lt, op, rt)
	}
	return nil
}
