// Package kernel implements the elementwise binary-operation kernels and
// the dispatch front-end that routes a (left type, operator, right type)
// request to a concrete specialization.
//
// Dispatch is two-level, in the manner of the cpu backend this package
// grew out of: the front-end switches once on the promoted result type to
// pick a monomorphic kernel instantiation, and each operand is read
// through a lane accessor that switches once on the operand's dtype. No
// per-lane type decisions remain inside the hot loops.
package kernel

import (
	"math/big"

	"github.com/arrayd-io/arrayd/internal/array"
	"github.com/arrayd-io/arrayd/internal/dtype"
)

// IntElem constrains a kernel to fixed-width integer lanes.
type IntElem interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// FloatElem constrains a kernel to float lanes.
type FloatElem interface {
	~float32 | ~float64
}

// RealElem constrains a kernel to non-complex numeric lanes.
type RealElem interface {
	IntElem | FloatElem
}

// ComplexElem constrains a kernel to complex lanes.
type ComplexElem interface {
	~complex64 | ~complex128
}

// operand is one side of a binary operation: either an array or a
// loop-invariant scalar. Scalar lanes read the same value at every index,
// which is how the vs/sv variants share the vv kernel bodies.
type operand struct {
	arr *array.Array
	sc  array.Scalar
}

func arrOperand(a *array.Array) operand {
	return operand{arr: a}
}

func scOperand(s array.Scalar) operand {
	return operand{sc: s}
}

func (o operand) isScalar() bool {
	return o.arr == nil
}

func (o operand) dt() dtype.DType {
	if o.arr != nil {
		return o.arr.DType()
	}
	return o.sc.DT
}

// intLane returns a lane reader converting o's elements to the integer
// type E. Supported source kinds: integer and bool.
func intLane[E IntElem](o operand) (func(i int) E, bool) {
	if o.isScalar() {
		switch o.sc.DT.Kind() {
		case dtype.KindInteger:
			if o.sc.DT.IsUnsigned() {
				v := E(o.sc.AsUint())
				return func(int) E { return v }, true
			}
			v := E(o.sc.AsInt())
			return func(int) E { return v }, true
		case dtype.KindBool:
			var v E
			if o.sc.AsBool() {
				v = 1
			}
			return func(int) E { return v }, true
		default:
			return nil, false
		}
	}

	switch o.arr.DType() {
	case dtype.Uint8:
		src := o.arr.AsUint8()
		return func(i int) E { return E(src[i]) }, true
	case dtype.Uint16:
		src := o.arr.AsUint16()
		return func(i int) E { return E(src[i]) }, true
	case dtype.Uint32:
		src := o.arr.AsUint32()
		return func(i int) E { return E(src[i]) }, true
	case dtype.Uint64:
		src := o.arr.AsUint64()
		return func(i int) E { return E(src[i]) }, true
	case dtype.Int8:
		src := o.arr.AsInt8()
		return func(i int) E { return E(src[i]) }, true
	case dtype.Int16:
		src := o.arr.AsInt16()
		return func(i int) E { return E(src[i]) }, true
	case dtype.Int32:
		src := o.arr.AsInt32()
		return func(i int) E { return E(src[i]) }, true
	case dtype.Int64:
		src := o.arr.AsInt64()
		return func(i int) E { return E(src[i]) }, true
	case dtype.Bool:
		src := o.arr.AsBool()
		return func(i int) E {
			if src[i] {
				return 1
			}
			return 0
		}, true
	default:
		return nil, false
	}
}

// realLane returns a lane reader converting o's elements to the float
// type E. Supported source kinds: integer, bool, float.
func realLane[E FloatElem](o operand) (func(i int) E, bool) {
	if o.isScalar() {
		switch o.sc.DT.Kind() {
		case dtype.KindInteger, dtype.KindFloat, dtype.KindBool:
			v := E(o.sc.AsReal())
			return func(int) E { return v }, true
		default:
			return nil, false
		}
	}

	switch o.arr.DType() {
	case dtype.Float32:
		src := o.arr.AsFloat32()
		return func(i int) E { return E(src[i]) }, true
	case dtype.Float64:
		src := o.arr.AsFloat64()
		return func(i int) E { return E(src[i]) }, true
	case dtype.Uint8:
		src := o.arr.AsUint8()
		return func(i int) E { return E(src[i]) }, true
	case dtype.Uint16:
		src := o.arr.AsUint16()
		return func(i int) E { return E(src[i]) }, true
	case dtype.Uint32:
		src := o.arr.AsUint32()
		return func(i int) E { return E(src[i]) }, true
	case dtype.Uint64:
		src := o.arr.AsUint64()
		return func(i int) E { return E(src[i]) }, true
	case dtype.Int8:
		src := o.arr.AsInt8()
		return func(i int) E { return E(src[i]) }, true
	case dtype.Int16:
		src := o.arr.AsInt16()
		return func(i int) E { return E(src[i]) }, true
	case dtype.Int32:
		src := o.arr.AsInt32()
		return func(i int) E { return E(src[i]) }, true
	case dtype.Int64:
		src := o.arr.AsInt64()
		return func(i int) E { return E(src[i]) }, true
	case dtype.Bool:
		src := o.arr.AsBool()
		return func(i int) E {
			if src[i] {
				return 1
			}
			return 0
		}, true
	default:
		return nil, false
	}
}

// complexLane returns a lane reader converting o's elements to the complex
// type E. Any numeric or bool source is supported.
func complexLane[E ComplexElem](o operand) (func(i int) E, bool) {
	if o.isScalar() {
		if o.sc.DT.Kind() == dtype.KindOther {
			return nil, false
		}
		v := E(o.sc.AsComplex())
		return func(int) E { return v }, true
	}

	switch o.arr.DType() {
	case dtype.Complex64:
		src := o.arr.AsComplex64()
		return func(i int) E { return E(src[i]) }, true
	case dtype.Complex128:
		src := o.arr.AsComplex128()
		return func(i int) E { return E(src[i]) }, true
	default:
		rf, ok := realLane[float64](o)
		if !ok {
			return nil, false
		}
		return func(i int) E { return E(complex(rf(i), 0)) }, true
	}
}

// realPartLane returns a float64 lane reader: the real part for complex
// operands, the widened value for everything else numeric. Comparisons on
// complex arrays consider only the real parts.
func realPartLane(o operand) (func(i int) float64, bool) {
	if !o.isScalar() {
		switch o.arr.DType() {
		case dtype.Complex64:
			src := o.arr.AsComplex64()
			return func(i int) float64 { return float64(real(src[i])) }, true
		case dtype.Complex128:
			src := o.arr.AsComplex128()
			return func(i int) float64 { return real(src[i]) }, true
		}
	} else if o.sc.DT.Kind() == dtype.KindComplex {
		v := real(o.sc.AsComplex())
		return func(int) float64 { return v }, true
	}
	return realLane[float64](o)
}

// boolLane returns a lane reader over a boolean operand.
func boolLane(o operand) (func(i int) bool, bool) {
	if o.isScalar() {
		if o.sc.DT != dtype.Bool {
			return nil, false
		}
		v := o.sc.AsBool()
		return func(int) bool { return v }, true
	}
	if o.arr.DType() != dtype.Bool {
		return nil, false
	}
	src := o.arr.AsBool()
	return func(i int) bool { return src[i] }, true
}

// shiftLane returns shift amounts as int64. Out-of-range amounts are
// clamped by the shift kernels themselves.
func shiftLane(o operand) (func(i int) int64, bool) {
	return intLane[int64](o)
}

// bigLane returns a lane reader yielding a *big.Int per lane. Fixed-width
// sources fill the caller's per-task scratch value; big-integer sources
// return the lane itself. The returned value must not be mutated.
func bigLane(o operand) (func(i int, scratch *big.Int) *big.Int, bool) {
	if o.isScalar() {
		switch {
		case o.sc.DT == dtype.BigInt:
			v := o.sc.AsBigInt()
			return func(int, *big.Int) *big.Int { return v }, true
		case o.sc.DT.Kind() == dtype.KindInteger && o.sc.DT.IsUnsigned():
			u := o.sc.AsUint()
			return func(_ int, scratch *big.Int) *big.Int {
				return scratch.SetUint64(u)
			}, true
		case o.sc.DT.Kind() == dtype.KindInteger:
			v := o.sc.AsInt()
			return func(_ int, scratch *big.Int) *big.Int {
				return scratch.SetInt64(v)
			}, true
		case o.sc.DT.Kind() == dtype.KindBool:
			var v int64
			if o.sc.AsBool() {
				v = 1
			}
			return func(_ int, scratch *big.Int) *big.Int {
				return scratch.SetInt64(v)
			}, true
		default:
			return nil, false
		}
	}

	switch o.arr.DType() {
	case dtype.BigInt:
		src := o.arr.AsBigInt()
		return func(i int, _ *big.Int) *big.Int { return src[i] }, true
	case dtype.Uint8, dtype.Uint16, dtype.Uint32, dtype.Uint64:
		uf, ok := intLane[uint64](o)
		if !ok {
			return nil, false
		}
		return func(i int, scratch *big.Int) *big.Int {
			return scratch.SetUint64(uf(i))
		}, true
	case dtype.Int8, dtype.Int16, dtype.Int32, dtype.Int64, dtype.Bool:
		sf, ok := intLane[int64](o)
		if !ok {
			return nil, false
		}
		return func(i int, scratch *big.Int) *big.Int {
			return scratch.SetInt64(sf(i))
		}, true
	default:
		return nil, false
	}
}

// hasNegative reports whether any lane of o is negative. Used by the
// negative-exponent pre-pass so the error surfaces before any output lane
// is written.
func hasNegative(o operand) bool {
	if o.isScalar() {
		switch {
		case o.sc.DT == dtype.BigInt:
			return o.sc.AsBigInt().Sign() < 0
		case o.sc.DT.IsSigned():
			return o.sc.AsInt() < 0
		default:
			return false
		}
	}

	switch o.arr.DType() {
	case dtype.BigInt:
		for _, z := range o.arr.AsBigInt() {
			if z.Sign() < 0 {
				return true
			}
		}
	case dtype.Int8, dtype.Int16, dtype.Int32, dtype.Int64:
		sf, _ := intLane[int64](o)
		for i := 0; i < o.arr.NumElements(); i++ {
			if sf(i) < 0 {
				return true
			}
		}
	}
	return false
}
