// Package array provides the server-side array representation: a flat
// element buffer with a single element type, a fixed shape, and, for
// big-integer arrays, an optional bit-width cap.
package array

import (
	"fmt"
	"math/big"
	"unsafe"

	"github.com/arrayd-io/arrayd/internal/dtype"
)

// Array is the low-level array representation. Fixed-width element types
// share one byte buffer reinterpreted through typed views; big-integer and
// string arrays carry their own slices because their elements own storage.
type Array struct {
	data    []byte
	big     []*big.Int
	strs    []string
	shape   Shape
	dt      dtype.DType
	maxBits int // Big-integer width cap; -1 means unbounded.
}

// New creates an Array with the given shape and element type. Fixed-width
// buffers are zeroed; big-integer lanes are initialized to zero values.
func New(shape Shape, dt dtype.DType) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if dt == dtype.Undef {
		return nil, fmt.Errorf("cannot create array of undefined dtype")
	}

	n := shape.NumElements()
	a := &Array{
		shape:   shape.Clone(),
		dt:      dt,
		maxBits: -1,
	}
	switch dt {
	case dtype.BigInt:
		a.big = make([]*big.Int, n)
		for i := range a.big {
			a.big[i] = new(big.Int)
		}
	case dtype.Str:
		a.strs = make([]string, n)
	default:
		a.data = make([]byte, n*dt.Size())
	}
	return a, nil
}

// NewBigInt creates a big-integer Array with the given width cap
// (-1 for unbounded).
func NewBigInt(shape Shape, maxBits int) (*Array, error) {
	a, err := New(shape, dtype.BigInt)
	if err != nil {
		return nil, err
	}
	a.maxBits = maxBits
	return a, nil
}

// Shape returns the array's shape.
func (a *Array) Shape() Shape {
	return a.shape
}

// DType returns the array's element type.
func (a *Array) DType() dtype.DType {
	return a.dt
}

// NumElements returns the number of elements.
func (a *Array) NumElements() int {
	return a.shape.NumElements()
}

// MaxBits returns the big-integer width cap, or -1 when unbounded or the
// array is not a big-integer array.
func (a *Array) MaxBits() int {
	if a.dt != dtype.BigInt {
		return -1
	}
	return a.maxBits
}

// Data returns the raw byte buffer of a fixed-width array.
func (a *Array) Data() []byte {
	return a.data
}

func (a *Array) view(want dtype.DType) []byte {
	if a.dt != want {
		panic(fmt.Sprintf("array dtype is %s, not %s", a.dt, want))
	}
	return a.data
}

// AsUint8 interprets the data as []uint8.
// Panics if the array's dtype is not Uint8.
func (a *Array) AsUint8() []uint8 {
	return a.view(dtype.Uint8) // Already []byte = []uint8
}

// AsUint16 interprets the data as []uint16.
func (a *Array) AsUint16() []uint16 {
	data := a.view(dtype.Uint16)
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*uint16)(unsafe.Pointer(&data[0])), a.NumElements())
}

// AsUint32 interprets the data as []uint32.
func (a *Array) AsUint32() []uint32 {
	data := a.view(dtype.Uint32)
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), a.NumElements())
}

// AsUint64 interprets the data as []uint64.
func (a *Array) AsUint64() []uint64 {
	data := a.view(dtype.Uint64)
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*uint64)(unsafe.Pointer(&data[0])), a.NumElements())
}

// AsInt8 interprets the data as []int8.
func (a *Array) AsInt8() []int8 {
	data := a.view(dtype.Int8)
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*int8)(unsafe.Pointer(&data[0])), a.NumElements())
}

// AsInt16 interprets the data as []int16.
func (a *Array) AsInt16() []int16 {
	data := a.view(dtype.Int16)
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*int16)(unsafe.Pointer(&data[0])), a.NumElements())
}

// AsInt32 interprets the data as []int32.
func (a *Array) AsInt32() []int32 {
	data := a.view(dtype.Int32)
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*int32)(unsafe.Pointer(&data[0])), a.NumElements())
}

// AsInt64 interprets the data as []int64.
func (a *Array) AsInt64() []int64 {
	data := a.view(dtype.Int64)
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*int64)(unsafe.Pointer(&data[0])), a.NumElements())
}

// AsFloat32 interprets the data as []float32.
func (a *Array) AsFloat32() []float32 {
	data := a.view(dtype.Float32)
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), a.NumElements())
}

// AsFloat64 interprets the data as []float64.
func (a *Array) AsFloat64() []float64 {
	data := a.view(dtype.Float64)
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&data[0])), a.NumElements())
}

// AsComplex64 interprets the data as []complex64.
func (a *Array) AsComplex64() []complex64 {
	data := a.view(dtype.Complex64)
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*complex64)(unsafe.Pointer(&data[0])), a.NumElements())
}

// AsComplex128 interprets the data as []complex128.
func (a *Array) AsComplex128() []complex128 {
	data := a.view(dtype.Complex128)
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*complex128)(unsafe.Pointer(&data[0])), a.NumElements())
}

// AsBool interprets the data as []bool.
func (a *Array) AsBool() []bool {
	data := a.view(dtype.Bool)
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*bool)(unsafe.Pointer(&data[0])), a.NumElements())
}

// AsBigInt returns the big-integer lanes. The elements own their digit
// storage; kernels mutate them in place and never copy lane-by-lane.
func (a *Array) AsBigInt() []*big.Int {
	if a.dt != dtype.BigInt {
		panic(fmt.Sprintf("array dtype is %s, not bigint", a.dt))
	}
	return a.big
}

// AsStr returns the string lanes.
func (a *Array) AsStr() []string {
	if a.dt != dtype.Str {
		panic(fmt.Sprintf("array dtype is %s, not str", a.dt))
	}
	return a.strs
}
