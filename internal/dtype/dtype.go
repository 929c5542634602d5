// Package dtype defines the element-type catalog and the NumPy-compatible
// type-promotion rules used by every kernel in the server.
package dtype

// DType identifies the element type of an array.
type DType int

// The closed element-type catalog.
const (
	Undef DType = iota
	Uint8
	Uint16
	Uint32
	Uint64
	Int8
	Int16
	Int32
	Int64
	Float32
	Float64
	Complex64
	Complex128
	Bool
	BigInt
	Str
)

// Kind partitions the catalog into promotion families.
type Kind int

// Scalar kinds.
const (
	KindOther Kind = iota
	KindInteger
	KindFloat
	KindComplex
	KindBool
)

// Size returns the in-memory byte footprint of one element.
// BigInt reports a nominal estimate; Str and Undef report 0.
func (dt DType) Size() int {
	switch dt {
	case Uint8, Int8, Bool:
		return 1
	case Uint16, Int16:
		return 2
	case Uint32, Int32, Float32:
		return 4
	case Uint64, Int64, Float64, Complex64:
		return 8
	case Complex128:
		return 16
	case BigInt:
		return 16
	default:
		return 0
	}
}

// Kind classifies the dtype for promotion purposes.
func (dt DType) Kind() Kind {
	switch dt {
	case Uint8, Uint16, Uint32, Uint64, Int8, Int16, Int32, Int64:
		return KindInteger
	case Float32, Float64:
		return KindFloat
	case Complex64, Complex128:
		return KindComplex
	case Bool:
		return KindBool
	default:
		return KindOther
	}
}

// IsSigned reports whether dt is a signed fixed-width integer.
func (dt DType) IsSigned() bool {
	switch dt {
	case Int8, Int16, Int32, Int64:
		return true
	default:
		return false
	}
}

// IsUnsigned reports whether dt is an unsigned fixed-width integer.
func (dt DType) IsUnsigned() bool {
	switch dt {
	case Uint8, Uint16, Uint32, Uint64:
		return true
	default:
		return false
	}
}

// String returns the NumPy-style name for the dtype.
func (dt DType) String() string {
	switch dt {
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Complex64:
		return "complex64"
	case Complex128:
		return "complex128"
	case Bool:
		return "bool"
	case BigInt:
		return "bigint"
	case Str:
		return "str"
	default:
		return "undef"
	}
}

// FromString parses a NumPy-style dtype name. Unknown names map to Undef.
func FromString(s string) DType {
	switch s {
	case "uint8":
		return Uint8
	case "uint16":
		return Uint16
	case "uint32":
		return Uint32
	case "uint64":
		return Uint64
	case "int8":
		return Int8
	case "int16":
		return Int16
	case "int32":
		return Int32
	case "int64":
		return Int64
	case "float32":
		return Float32
	case "float64":
		return Float64
	case "complex64":
		return Complex64
	case "complex128":
		return Complex128
	case "bool":
		return Bool
	case "bigint":
		return BigInt
	case "str":
		return Str
	default:
		return Undef
	}
}

// Max returns the operand with the greater byte size, the left one on a tie.
func Max(a, b DType) DType {
	if b.Size() > a.Size() {
		return b
	}
	return a
}
