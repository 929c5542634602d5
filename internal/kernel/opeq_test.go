package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrayd-io/arrayd/internal/array"
	"github.com/arrayd-io/arrayd/internal/dtype"
)

func TestOpEqVV(t *testing.T) {
	a := int64Array(t, 1, 2, 3)
	b := int64Array(t, 10, 20, 30)

	require.NoError(t, OpEqVV(a, b, "+=", seqCfg))
	assert.Equal(t, []int64{11, 22, 33}, a.AsInt64())

	require.NoError(t, OpEqVV(a, b, "*=", seqCfg))
	assert.Equal(t, []int64{110, 440, 990}, a.AsInt64())
}

func TestOpEqWideningRejected(t *testing.T) {
	a := int64Array(t, 1)
	b := uint64Array(t, 2)

	// Int64 += UInt64 promotes to real and would truncate back.
	err := OpEqVV(a, b, "+=", seqCfg)
	assert.ErrorIs(t, err, ErrUnsupportedResultType)
	assert.Equal(t, []int64{1}, a.AsInt64())
}

func TestOpEqDivideOnFloat(t *testing.T) {
	a := float64Array(t, 1, 3)
	b := int64Array(t, 2, 4)

	require.NoError(t, OpEqVV(a, b, "/=", seqCfg))
	assert.Equal(t, []float64{0.5, 0.75}, a.AsFloat64())
}

func TestOpEqDivideOnIntRejected(t *testing.T) {
	a := int64Array(t, 4)
	b := int64Array(t, 2)

	err := OpEqVV(a, b, "/=", seqCfg)
	assert.ErrorIs(t, err, ErrUnsupportedResultType)
}

func TestOpEqNegativeExponent(t *testing.T) {
	a := int64Array(t, 7)
	b := int64Array(t, -2)

	err := OpEqVV(a, b, "**=", seqCfg)
	assert.ErrorIs(t, err, ErrNegativeExponent)
	assert.Equal(t, []int64{7}, a.AsInt64())
}

func TestOpEqBoolLogic(t *testing.T) {
	a := boolArray(t, true, false)
	b := boolArray(t, false, false)

	require.NoError(t, OpEqVV(a, b, "|=", seqCfg))
	assert.Equal(t, []bool{true, false}, a.AsBool())
}

func TestOpEqBoolPlusRejected(t *testing.T) {
	a := boolArray(t, true)
	b := boolArray(t, true)

	err := OpEqVV(a, b, "+=", seqCfg)
	assert.ErrorIs(t, err, ErrUnsupportedResultType)
}

func TestOpEqVS(t *testing.T) {
	a := int64Array(t, 1, 2, 3)
	s, err := array.ParseScalar("5", dtype.Int64)
	require.NoError(t, err)

	require.NoError(t, OpEqVS(a, s, "-=", seqCfg))
	assert.Equal(t, []int64{-4, -3, -2}, a.AsInt64())

	require.NoError(t, OpEqVS(a, s, "<<=", seqCfg))
	assert.Equal(t, []int64{-128, -96, -64}, a.AsInt64())
}

func TestOpEqShapeMismatch(t *testing.T) {
	a := int64Array(t, 1, 2)
	b := int64Array(t, 1, 2, 3)

	err := OpEqVV(a, b, "+=", seqCfg)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestOpEqBadOperator(t *testing.T) {
	a := int64Array(t, 1)

	err := OpEqVV(a, a, "==", seqCfg)
	assert.ErrorIs(t, err, ErrUnsupportedOperator)
}

func TestOpEqBigint(t *testing.T) {
	a := bigIntArray(t, 4, 10)
	b := bigIntArray(t, -1, 7)

	require.NoError(t, OpEqVV(a, b, "+=", seqCfg))
	assert.Equal(t, []int64{1}, bigVals(a))
}

func TestOpEqBigintScalar(t *testing.T) {
	a := bigIntArray(t, -1, 5)
	s, err := array.ParseScalar("3", dtype.Int64)
	require.NoError(t, err)

	require.NoError(t, OpEqVS(a, s, "**=", seqCfg))
	assert.Equal(t, []int64{125}, bigVals(a))
}

func TestOpEqBigintRHSRejected(t *testing.T) {
	a := int64Array(t, 1)
	b := bigIntArray(t, -1, 2)

	err := OpEqVV(a, b, "+=", seqCfg)
	assert.ErrorIs(t, err, ErrUnsupportedResultType)
}
