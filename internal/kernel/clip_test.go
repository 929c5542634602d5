package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrayd-io/arrayd/internal/array"
	"github.com/arrayd-io/arrayd/internal/dtype"
)

func scalar(t *testing.T, value string, dt dtype.DType) array.Scalar {
	t.Helper()
	s, err := array.ParseScalar(value, dt)
	require.NoError(t, err)
	return s
}

func TestClipScalarScalar(t *testing.T) {
	a := int64Array(t, 3, -2, 0)

	out, err := Clip(a, ScalarBound(scalar(t, "0", dtype.Int64)),
		ScalarBound(scalar(t, "2", dtype.Int64)), seqCfg)
	require.NoError(t, err)
	assert.Equal(t, dtype.Int64, out.DType())
	assert.Equal(t, []int64{2, 0, 0}, out.AsInt64())
	// The input is untouched.
	assert.Equal(t, []int64{3, -2, 0}, a.AsInt64())
}

func TestClipScalarCast(t *testing.T) {
	// Float bounds are cast to the array's element type first.
	a := int64Array(t, 9, 1)

	out, err := Clip(a, ScalarBound(scalar(t, "1.9", dtype.Float64)),
		ScalarBound(scalar(t, "5.2", dtype.Float64)), seqCfg)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 1}, out.AsInt64())
}

func TestClipArrayBounds(t *testing.T) {
	a := int64Array(t, 1, 5, 9)
	lo := int64Array(t, 2, 2, 2)
	hi := int64Array(t, 8, 8, 8)

	out, err := Clip(a, ArrayBound(lo), ArrayBound(hi), seqCfg)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5, 8}, out.AsInt64())
}

func TestClipMixedBounds(t *testing.T) {
	a := int64Array(t, 1, 5, 9)
	lo := int64Array(t, 0, 6, 0)

	out, err := Clip(a, ArrayBound(lo), ScalarBound(scalar(t, "7", dtype.Int64)), seqCfg)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 6, 7}, out.AsInt64())

	out, err = Clip(a, ScalarBound(scalar(t, "4", dtype.Int64)), ArrayBound(lo), seqCfg)
	require.NoError(t, err)
	// The maximum binds after the minimum.
	assert.Equal(t, []int64{0, 5, 0}, out.AsInt64())
}

func TestClipFloat64(t *testing.T) {
	a := float64Array(t, -1.5, 0.5, 2.5)

	out, err := Clip(a, ScalarBound(scalar(t, "0", dtype.Float64)),
		ScalarBound(scalar(t, "1", dtype.Float64)), seqCfg)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 1}, out.AsFloat64())
}

func TestClipUnsigned(t *testing.T) {
	a := uint64Array(t, 1, 100, 7)

	out, err := Clip(a, ScalarBound(scalar(t, "5", dtype.Uint64)),
		ScalarBound(scalar(t, "50", dtype.Uint64)), seqCfg)
	require.NoError(t, err)
	assert.Equal(t, []uint64{5, 50, 7}, out.AsUint64())
}

func TestClipBool(t *testing.T) {
	a := boolArray(t, true, false)

	out, err := Clip(a, ScalarBound(scalar(t, "false", dtype.Bool)),
		ScalarBound(scalar(t, "true", dtype.Bool)), seqCfg)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, out.AsBool())

	out, err = Clip(a, ScalarBound(scalar(t, "true", dtype.Bool)),
		ScalarBound(scalar(t, "true", dtype.Bool)), seqCfg)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true}, out.AsBool())
}

func TestClipShapeMismatch(t *testing.T) {
	a := int64Array(t, 1, 2, 3)
	lo := int64Array(t, 0, 0)

	_, err := Clip(a, ArrayBound(lo), ScalarBound(scalar(t, "9", dtype.Int64)), seqCfg)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestClipDTypeMismatchArrayBound(t *testing.T) {
	a := int64Array(t, 1, 2, 3)
	lo := float64Array(t, 0, 0, 0)

	_, err := Clip(a, ArrayBound(lo), ScalarBound(scalar(t, "9", dtype.Int64)), seqCfg)
	assert.ErrorIs(t, err, ErrUnsupportedResultType)
}

func TestClipUnsupportedDType(t *testing.T) {
	a := complex128Array(t, complex(1, 1))

	_, err := Clip(a, ScalarBound(scalar(t, "0", dtype.Int64)),
		ScalarBound(scalar(t, "1", dtype.Int64)), seqCfg)
	assert.ErrorIs(t, err, ErrUnsupportedResultType)
}
