package kernel

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrayd-io/arrayd/internal/array"
	"github.com/arrayd-io/arrayd/internal/dtype"
)

func bigIntArray(t *testing.T, maxBits int, vals ...int64) *array.Array {
	t.Helper()
	a, err := array.NewBigInt(array.Shape{len(vals)}, maxBits)
	require.NoError(t, err)
	for i, v := range vals {
		a.AsBigInt()[i].SetInt64(v)
	}
	return a
}

func bigVals(a *array.Array) []int64 {
	out := make([]int64, a.NumElements())
	for i, z := range a.AsBigInt() {
		out[i] = z.Int64()
	}
	return out
}

func TestBigAddWraps(t *testing.T) {
	a := bigIntArray(t, 4, 10)
	b := bigIntArray(t, -1, 7)

	out, err := BinOpVV(a, b, "+", seqCfg)
	require.NoError(t, err)
	assert.Equal(t, dtype.BigInt, out.DType())
	assert.Equal(t, 4, out.MaxBits())
	// 17 mod 16 = 1.
	assert.Equal(t, []int64{1}, bigVals(out))
}

func TestBigUnboundedAdd(t *testing.T) {
	a := bigIntArray(t, -1, 10)
	b := bigIntArray(t, -1, 7)

	out, err := BinOpVV(a, b, "+", seqCfg)
	require.NoError(t, err)
	assert.Equal(t, -1, out.MaxBits())
	assert.Equal(t, []int64{17}, bigVals(out))
}

func TestBigSubWrapsNegative(t *testing.T) {
	a := bigIntArray(t, 4, 3)
	b := bigIntArray(t, -1, 5)

	out, err := BinOpVV(a, b, "-", seqCfg)
	require.NoError(t, err)
	// -2 mod 16 = 14.
	assert.Equal(t, []int64{14}, bigVals(out))
}

func TestBigMixedWithInt(t *testing.T) {
	a := bigIntArray(t, -1, 10, 20)
	b := int64Array(t, 3, 4)

	out, err := BinOpVV(a, b, "*", seqCfg)
	require.NoError(t, err)
	assert.Equal(t, []int64{30, 80}, bigVals(out))

	// Symmetric: int on the left widens into the result.
	out, err = BinOpVV(b, a, "+", seqCfg)
	require.NoError(t, err)
	assert.Equal(t, []int64{13, 24}, bigVals(out))
}

func TestBigRejectsFloat(t *testing.T) {
	a := bigIntArray(t, -1, 1)
	b := float64Array(t, 1.5)

	_, err := BinOpVV(a, b, "+", seqCfg)
	assert.ErrorIs(t, err, ErrUnsupportedResultType)
}

func TestBigMaxBitsMismatch(t *testing.T) {
	a := bigIntArray(t, 4, 1)
	b := bigIntArray(t, 8, 1)

	_, err := BinOpVV(a, b, "+", seqCfg)
	assert.ErrorIs(t, err, ErrMaxBitsMismatch)
}

func TestBigMaxBitsInherited(t *testing.T) {
	a := bigIntArray(t, 8, 200)
	b := bigIntArray(t, -1, 100)

	out, err := BinOpVV(a, b, "+", seqCfg)
	require.NoError(t, err)
	assert.Equal(t, 8, out.MaxBits())
	// 300 mod 256 = 44.
	assert.Equal(t, []int64{44}, bigVals(out))
}

func TestBigShift(t *testing.T) {
	a := bigIntArray(t, 8, 3, 3, 3)
	b := int64Array(t, 2, 8, 1)

	out, err := BinOpVV(a, b, "<<", seqCfg)
	require.NoError(t, err)
	// A shift of at least maxBits zeroes the lane.
	assert.Equal(t, []int64{12, 0, 6}, bigVals(out))

	out, err = BinOpVV(a, b, ">>", seqCfg)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 0, 1}, bigVals(out))
}

func TestBigShiftUnboundedMasksNothing(t *testing.T) {
	a := bigIntArray(t, -1, 1)
	b := int64Array(t, 100)

	out, err := BinOpVV(a, b, "<<", seqCfg)
	require.NoError(t, err)
	want := new(big.Int).Lsh(big.NewInt(1), 100)
	assert.Equal(t, 0, out.AsBigInt()[0].Cmp(want))
}

func TestBigRotationRoundTrip(t *testing.T) {
	const k = 5
	a := bigIntArray(t, k, 11, 30, 7)
	s := int64Array(t, 2, 7, 3)

	left, err := BinOpVV(a, s, "<<<", seqCfg)
	require.NoError(t, err)
	back, err := BinOpVV(left, s, ">>>", seqCfg)
	require.NoError(t, err)
	assert.Equal(t, []int64{11, 30, 7}, bigVals(back))
}

func TestBigRotationValue(t *testing.T) {
	// 4 bits: 0b1001 <<< 1 = 0b0011.
	a := bigIntArray(t, 4, 9)
	s := int64Array(t, 1)

	out, err := BinOpVV(a, s, "<<<", seqCfg)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, bigVals(out))

	// And back: 0b0011 >>> 1 = 0b1001.
	back, err := BinOpVV(out, s, ">>>", seqCfg)
	require.NoError(t, err)
	assert.Equal(t, []int64{9}, bigVals(back))
}

func TestBigRotationWithoutWidthFails(t *testing.T) {
	a := bigIntArray(t, -1, 9)
	s := int64Array(t, 1)

	_, err := BinOpVV(a, s, "<<<", seqCfg)
	assert.ErrorIs(t, err, ErrRotationWithoutWidth)
}

func TestBigFancy(t *testing.T) {
	a := bigIntArray(t, -1, 17, 17, -17)
	b := int64Array(t, 5, 0, 5)

	q, err := BinOpVV(a, b, "//", seqCfg)
	require.NoError(t, err)
	// Floored division; zero divisors produce zero lanes.
	assert.Equal(t, []int64{3, 0, -4}, bigVals(q))

	m, err := BinOpVV(a, b, "%", seqCfg)
	require.NoError(t, err)
	// Floored modulo never goes negative for a positive divisor.
	assert.Equal(t, []int64{2, 0, 3}, bigVals(m))
}

func TestBigPow(t *testing.T) {
	a := bigIntArray(t, -1, 2, 3)
	b := int64Array(t, 10, 4)

	out, err := BinOpVV(a, b, "**", seqCfg)
	require.NoError(t, err)
	assert.Equal(t, []int64{1024, 81}, bigVals(out))
}

func TestBigPowModUnderCap(t *testing.T) {
	a := bigIntArray(t, 4, 3)
	b := int64Array(t, 5)

	out, err := BinOpVV(a, b, "**", seqCfg)
	require.NoError(t, err)
	// 243 mod 16 = 3.
	assert.Equal(t, []int64{3}, bigVals(out))
}

func TestBigPowNegativeExponent(t *testing.T) {
	a := bigIntArray(t, -1, 2)
	b := int64Array(t, -1)

	_, err := BinOpVV(a, b, "**", seqCfg)
	assert.ErrorIs(t, err, ErrNegativeExponent)
}

func TestBigWrapRange(t *testing.T) {
	const k = 6
	bound := big.NewInt(1 << k)
	a := bigIntArray(t, k, 63, 17, 42)
	b := int64Array(t, 9, 55, 13)

	for _, op := range []string{"+", "-", "*", "**"} {
		out, err := BinOpVV(a, b, op, seqCfg)
		require.NoError(t, err, op)
		for i, z := range out.AsBigInt() {
			assert.True(t, z.Sign() >= 0 && z.Cmp(bound) < 0,
				"%s lane %d = %v out of [0, 2^%d)", op, i, z, k)
		}
	}
}

func TestBigTrueDivision(t *testing.T) {
	a := bigIntArray(t, -1, 10)
	b := bigIntArray(t, -1, 4)

	out, err := BinOpVV(a, b, "/", seqCfg)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, bigVals(out))

	// True division beside a fixed-width operand is not a legal
	// bigint specialization.
	c := int64Array(t, 4)
	_, err = BinOpVV(a, c, "/", seqCfg)
	assert.ErrorIs(t, err, ErrUnsupportedResultType)
}

func TestBigLogic(t *testing.T) {
	a := bigIntArray(t, -1, 0b1100)
	b := bigIntArray(t, -1, 0b1010)

	or, err := BinOpVV(a, b, "|", seqCfg)
	require.NoError(t, err)
	assert.Equal(t, []int64{0b1110}, bigVals(or))

	and, err := BinOpVV(a, b, "&", seqCfg)
	require.NoError(t, err)
	assert.Equal(t, []int64{0b1000}, bigVals(and))

	xor, err := BinOpVV(a, b, "^", seqCfg)
	require.NoError(t, err)
	assert.Equal(t, []int64{0b0110}, bigVals(xor))
}

func TestBigComparison(t *testing.T) {
	a := bigIntArray(t, -1, 1, 5, 9)
	b := int64Array(t, 2, 5, 3)

	lt, err := BinOpVV(a, b, "<", seqCfg)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, false}, lt.AsBool())

	eq, err := BinOpVV(a, b, "==", seqCfg)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, false}, eq.AsBool())
}

func TestBigScalarOps(t *testing.T) {
	a := bigIntArray(t, 4, 10)
	s, err := array.ParseScalar("7", dtype.BigInt)
	require.NoError(t, err)

	out, err := BinOpVS(a, s, "+", seqCfg)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, bigVals(out))

	// Scalar-array: the scalar is broadcast as the left operand.
	out, err = BinOpSV(s, a, "-", seqCfg)
	require.NoError(t, err)
	// 7 - 10 = -3, masked to 13.
	assert.Equal(t, []int64{13}, bigVals(out))
}
