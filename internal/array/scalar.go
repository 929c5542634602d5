package array

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/arrayd-io/arrayd/internal/dtype"
)

// Scalar is a tagged union carrying one parsed scalar operand. Exactly one
// variant is populated, named by DT's kind: signed integers in I, unsigned
// in U, floats in F, bools in B, big integers in Big. Complex scalars are
// carried in C.
type Scalar struct {
	DT  dtype.DType
	I   int64
	U   uint64
	F   float64
	C   complex128
	B   bool
	Big *big.Int
}

// ParseScalar converts a request literal to a Scalar of the given dtype.
func ParseScalar(value string, dt dtype.DType) (Scalar, error) {
	s := Scalar{DT: dt}
	switch dt.Kind() {
	case dtype.KindInteger:
		if dt.IsUnsigned() {
			u, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return Scalar{}, fmt.Errorf("parse scalar %q as %s: %w", value, dt, err)
			}
			s.U = u
			return s, nil
		}
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return Scalar{}, fmt.Errorf("parse scalar %q as %s: %w", value, dt, err)
		}
		s.I = i
		return s, nil
	case dtype.KindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return Scalar{}, fmt.Errorf("parse scalar %q as %s: %w", value, dt, err)
		}
		s.F = f
		return s, nil
	case dtype.KindComplex:
		c, err := strconv.ParseComplex(value, 128)
		if err != nil {
			return Scalar{}, fmt.Errorf("parse scalar %q as %s: %w", value, dt, err)
		}
		s.C = c
		return s, nil
	case dtype.KindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return Scalar{}, fmt.Errorf("parse scalar %q as %s: %w", value, dt, err)
		}
		s.B = b
		return s, nil
	default:
		if dt == dtype.BigInt {
			z, ok := new(big.Int).SetString(value, 10)
			if !ok {
				return Scalar{}, fmt.Errorf("parse scalar %q as bigint", value)
			}
			s.Big = z
			return s, nil
		}
		return Scalar{}, fmt.Errorf("unsupported scalar dtype %s", dt)
	}
}

// AsInt returns the scalar as a signed integer.
func (s Scalar) AsInt() int64 {
	switch s.DT.Kind() {
	case dtype.KindInteger:
		if s.DT.IsUnsigned() {
			return int64(s.U)
		}
		return s.I
	case dtype.KindFloat:
		return int64(s.F)
	case dtype.KindBool:
		if s.B {
			return 1
		}
		return 0
	default:
		if s.DT == dtype.BigInt && s.Big != nil {
			return s.Big.Int64()
		}
		return 0
	}
}

// AsUint returns the scalar as an unsigned integer.
func (s Scalar) AsUint() uint64 {
	switch s.DT.Kind() {
	case dtype.KindInteger:
		if s.DT.IsUnsigned() {
			return s.U
		}
		return uint64(s.I)
	case dtype.KindFloat:
		return uint64(s.F)
	case dtype.KindBool:
		if s.B {
			return 1
		}
		return 0
	default:
		if s.DT == dtype.BigInt && s.Big != nil {
			return s.Big.Uint64()
		}
		return 0
	}
}

// AsReal returns the scalar as a float64.
func (s Scalar) AsReal() float64 {
	switch s.DT.Kind() {
	case dtype.KindInteger:
		if s.DT.IsUnsigned() {
			return float64(s.U)
		}
		return float64(s.I)
	case dtype.KindFloat:
		return s.F
	case dtype.KindBool:
		if s.B {
			return 1
		}
		return 0
	default:
		if s.DT == dtype.BigInt && s.Big != nil {
			f, _ := new(big.Float).SetInt(s.Big).Float64()
			return f
		}
		return 0
	}
}

// AsComplex returns the scalar as a complex128.
func (s Scalar) AsComplex() complex128 {
	if s.DT.Kind() == dtype.KindComplex {
		return s.C
	}
	return complex(s.AsReal(), 0)
}

// AsBool returns the scalar as a bool.
func (s Scalar) AsBool() bool {
	if s.DT.Kind() == dtype.KindBool {
		return s.B
	}
	return s.AsReal() != 0
}

// AsBigInt returns the scalar as a big integer. The result is freshly
// allocated for non-bigint scalars and shared for bigint ones.
func (s Scalar) AsBigInt() *big.Int {
	switch s.DT.Kind() {
	case dtype.KindInteger:
		if s.DT.IsUnsigned() {
			return new(big.Int).SetUint64(s.U)
		}
		return big.NewInt(s.I)
	case dtype.KindBool:
		if s.B {
			return big.NewInt(1)
		}
		return big.NewInt(0)
	default:
		if s.DT == dtype.BigInt && s.Big != nil {
			return s.Big
		}
		return big.NewInt(int64(s.AsReal()))
	}
}
