package kernel

import (
	"fmt"

	"github.com/arrayd-io/arrayd/internal/array"
	"github.com/arrayd-io/arrayd/internal/dtype"
	"github.com/arrayd-io/arrayd/internal/parallel"
)

// BinOpVV evaluates `l op r` over two arrays of matching shape and returns
// a freshly allocated result array of the promoted element type.
func BinOpVV(l, r *array.Array, op string, cfg parallel.Config) (*array.Array, error) {
	const routine = "binopvv"
	if !IsValidOperator(op) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOperator, op)
	}
	if !l.Shape().Equal(r.Shape()) {
		return nil, fmt.Errorf("%w: %s: %s vs %s",
			ErrShapeMismatch, routine, l.Shape(), r.Shape())
	}
	return dispatchBinOp(routine, arrOperand(l), arrOperand(r), op, l.Shape(), cfg)
}

// BinOpVS evaluates `l op s` between an array and a scalar.
func BinOpVS(l *array.Array, s array.Scalar, op string, cfg parallel.Config) (*array.Array, error) {
	const routine = "binopvs"
	if !IsValidOperator(op) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOperator, op)
	}
	return dispatchBinOp(routine, arrOperand(l), scOperand(s), op, l.Shape(), cfg)
}

// BinOpSV evaluates `s op r` between a scalar and an array.
func BinOpSV(s array.Scalar, r *array.Array, op string, cfg parallel.Config) (*array.Array, error) {
	const routine = "binopsv"
	if !IsValidOperator(op) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOperator, op)
	}
	return dispatchBinOp(routine, scOperand(s), arrOperand(r), op, r.Shape(), cfg)
}

// dispatchBinOp allocates the result array for one binary operation and
// routes to the kernel family the operand pair belongs to. All
// precondition errors surface here, before any lane is written.
func dispatchBinOp(routine string, l, r operand, op string, shape array.Shape, cfg parallel.Config) (*array.Array, error) {
	lt, rt := l.dt(), r.dt()

	if CategoryOf(op) == CatComparison {
		out, err := array.New(shape, dtype.Bool)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", routine, err)
		}
		var ok bool
		if lt == dtype.BigInt || rt == dtype.BigInt {
			ok = binOpBigCmp(out.AsBool(), l, r, op, cfg)
		} else {
			ok = binOpCompare(out.AsBool(), l, r, op, cfg)
		}
		if !ok {
			return nil, notImplemented(routine, lt, op, rt)
		}
		return out, nil
	}

	if lt == dtype.BigInt || rt == dtype.BigInt {
		return dispatchBigOp(routine, l, r, op, shape, cfg)
	}

	et := resultType(op, lt, rt)
	if et == dtype.Undef {
		return nil, unrecognizedTypes(routine, lt, rt)
	}

	if op == "**" && et.Kind() == dtype.KindInteger && !mixedSignedness(lt, rt) && hasNegative(r) {
		return nil, negativeExponent(lt)
	}

	out, err := array.New(shape, et)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", routine, err)
	}
	if !binOpNumeric(out, l, r, op, cfg) {
		return nil, notImplemented(routine, lt, op, rt)
	}
	return out, nil
}

// resultType picks the promoted element type for a non-bigint, non-
// comparison operation.
func resultType(op string, lt, rt dtype.DType) dtype.DType {
	switch CategoryOf(op) {
	case CatTrueDivision:
		return dtype.Div(lt, rt)
	case CatFancyArithmetic, CatBitwiseShift:
		return dtype.CommonSpecial(lt, rt, true)
	default:
		return dtype.Common(lt, rt)
	}
}

// dispatchBigOp handles the big-integer kernel family: result allocation
// with width-cap propagation, the rotation and exponent pre-passes, and
// the kernel call.
func dispatchBigOp(routine string, l, r operand, op string, shape array.Shape, cfg parallel.Config) (*array.Array, error) {
	lt, rt := l.dt(), r.dt()

	maxBits, err := resolveMaxBits(routine, l, r)
	if err != nil {
		return nil, err
	}
	hasCap := maxBits >= 0

	if CategoryOf(op) == CatBitwiseRot && !hasCap {
		return nil, fmt.Errorf("%w: %s: rotation of a bigint array requires max_bits",
			ErrRotationWithoutWidth, routine)
	}
	if op == "**" && hasNegative(r) {
		return nil, negativeExponent(lt)
	}

	out, err := array.NewBigInt(shape, maxBits)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", routine, err)
	}
	if !binOpBig(out, l, r, op, maxBits, cfg) {
		return nil, notImplemented(routine, lt, op, rt)
	}
	return out, nil
}

// resolveMaxBits propagates the width cap of the big-integer operands:
// the capped operand's width binds, and two capped operands must agree.
func resolveMaxBits(routine string, l, r operand) (int, error) {
	lBits, rBits := -1, -1
	if !l.isScalar() && l.arr.DType() == dtype.BigInt {
		lBits = l.arr.MaxBits()
	}
	if !r.isScalar() && r.arr.DType() == dtype.BigInt {
		rBits = r.arr.MaxBits()
	}
	switch {
	case lBits >= 0 && rBits >= 0:
		if lBits != rBits {
			return 0, fmt.Errorf("%w: %s: %d vs %d",
				ErrMaxBitsMismatch, routine, lBits, rBits)
		}
		return lBits, nil
	case lBits >= 0:
		return lBits, nil
	default:
		return rBits, nil
	}
}
