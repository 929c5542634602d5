package kernel

import (
	"fmt"

	"github.com/arrayd-io/arrayd/internal/array"
	"github.com/arrayd-io/arrayd/internal/dtype"
	"github.com/arrayd-io/arrayd/internal/parallel"
)

// Bound is one clip limit: either an array of the clipped array's dtype
// and shape, or a scalar that is cast to that dtype.
type Bound struct {
	arr *array.Array
	sc  array.Scalar
}

// ArrayBound wraps an array-valued clip limit.
func ArrayBound(a *array.Array) Bound {
	return Bound{arr: a}
}

// ScalarBound wraps a scalar-valued clip limit.
func ScalarBound(s array.Scalar) Bound {
	return Bound{sc: s}
}

func (b Bound) operand() operand {
	if b.arr != nil {
		return arrOperand(b.arr)
	}
	return scOperand(b.sc)
}

// Clip returns a new array of a's dtype and shape with every element
// clamped into [min, max]. Each limit may be a scalar or an array; the
// four variants share one kernel body through the lane accessors.
// Supported element types: fixed-width integers, float64, and bool.
func Clip(a *array.Array, min, max Bound, cfg parallel.Config) (*array.Array, error) {
	const routine = "clip"

	for _, b := range []Bound{min, max} {
		if b.arr == nil {
			continue
		}
		if !b.arr.Shape().Equal(a.Shape()) {
			return nil, fmt.Errorf("%w: %s: %s vs %s",
				ErrShapeMismatch, routine, a.Shape(), b.arr.Shape())
		}
		if b.arr.DType() != a.DType() {
			return nil, notImplemented(routine, a.DType(), "clip", b.arr.DType())
		}
	}

	out, err := array.New(a.Shape(), a.DType())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", routine, err)
	}

	lo, hi := min.operand(), max.operand()
	var ok bool
	switch a.DType() {
	case dtype.Uint8:
		ok = clipLanes(out.AsUint8(), a.AsUint8(), lo, hi, cfg)
	case dtype.Uint16:
		ok = clipLanes(out.AsUint16(), a.AsUint16(), lo, hi, cfg)
	case dtype.Uint32:
		ok = clipLanes(out.AsUint32(), a.AsUint32(), lo, hi, cfg)
	case dtype.Uint64:
		ok = clipLanes(out.AsUint64(), a.AsUint64(), lo, hi, cfg)
	case dtype.Int8:
		ok = clipLanes(out.AsInt8(), a.AsInt8(), lo, hi, cfg)
	case dtype.Int16:
		ok = clipLanes(out.AsInt16(), a.AsInt16(), lo, hi, cfg)
	case dtype.Int32:
		ok = clipLanes(out.AsInt32(), a.AsInt32(), lo, hi, cfg)
	case dtype.Int64:
		ok = clipLanes(out.AsInt64(), a.AsInt64(), lo, hi, cfg)
	case dtype.Float64:
		ok = clipLanes(out.AsFloat64(), a.AsFloat64(), lo, hi, cfg)
	case dtype.Bool:
		ok = clipBool(out.AsBool(), a.AsBool(), lo, hi, cfg)
	default:
		return nil, notImplemented(routine, a.DType(), "clip", a.DType())
	}
	if !ok {
		return nil, unrecognizedTypes(routine, a.DType(), boundType(min, max))
	}
	return out, nil
}

func boundType(min, max Bound) dtype.DType {
	if min.arr != nil {
		return min.arr.DType()
	}
	if min.sc.DT != dtype.Undef {
		return min.sc.DT
	}
	if max.arr != nil {
		return max.arr.DType()
	}
	return max.sc.DT
}

// clipLane reads one clip limit in the clipped array's element type.
// Scalars of any real kind are cast; arrays were already checked to match.
func clipLane[E RealElem](o operand) (func(i int) E, bool) {
	if o.isScalar() {
		switch o.sc.DT.Kind() {
		case dtype.KindInteger, dtype.KindFloat, dtype.KindBool:
			v := E(o.sc.AsReal())
			if o.sc.DT.Kind() == dtype.KindInteger {
				if o.sc.DT.IsUnsigned() {
					v = E(o.sc.AsUint())
				} else {
					v = E(o.sc.AsInt())
				}
			}
			return func(int) E { return v }, true
		default:
			return nil, false
		}
	}
	if f, ok := intLane[int64](o); ok && o.arr.DType().Kind() == dtype.KindInteger && !o.arr.DType().IsUnsigned() {
		return func(i int) E { return E(f(i)) }, true
	}
	if f, ok := intLane[uint64](o); ok && o.arr.DType().IsUnsigned() {
		return func(i int) E { return E(f(i)) }, true
	}
	if f, ok := realLane[float64](o); ok {
		return func(i int) E { return E(f(i)) }, true
	}
	return nil, false
}

func clipLanes[E RealElem](dst, src []E, lo, hi operand, cfg parallel.Config) bool {
	lof, lok := clipLane[E](lo)
	hif, hok := clipLane[E](hi)
	if !lok || !hok {
		return false
	}
	parallel.For(len(dst), func(i int) {
		v := src[i]
		if low := lof(i); v < low {
			v = low
		}
		if high := hif(i); v > high {
			v = high
		}
		dst[i] = v
	}, cfg)
	return true
}

func clipBool(dst, src []bool, lo, hi operand, cfg parallel.Config) bool {
	lof, lok := clipLane[uint8](lo)
	hif, hok := clipLane[uint8](hi)
	if !lok || !hok {
		return false
	}
	parallel.For(len(dst), func(i int) {
		var v uint8
		if src[i] {
			v = 1
		}
		if low := lof(i); v < low {
			v = low
		}
		if high := hif(i); v > high {
			v = high
		}
		dst[i] = v != 0
	}, cfg)
	return true
}
