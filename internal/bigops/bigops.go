// Package bigops wraps math/big with the in-place operation surface the
// big-integer kernels need. Every function except Mask mutates z and
// reuses its digit storage rather than allocating a fresh result value;
// Mask builds and returns a new value.
package bigops

import "math/big"

// one backs mask construction; it is never mutated.
var one = big.NewInt(1)

// Mask returns (1 << maxBits) - 1, the wrap-around mask for a width cap.
func Mask(maxBits int) *big.Int {
	m := new(big.Int).Lsh(one, uint(maxBits))
	return m.Sub(m, one)
}

// MaskEq reduces z modulo 2^maxBits via the precomputed mask.
func MaskEq(z, mask *big.Int) {
	z.And(z, mask)
}

// AddEq sets z = z + x.
func AddEq(z, x *big.Int) {
	z.Add(z, x)
}

// SubEq sets z = z - x.
func SubEq(z, x *big.Int) {
	z.Sub(z, x)
}

// MulEq sets z = z * x.
func MulEq(z, x *big.Int) {
	z.Mul(z, x)
}

// QuoEq sets z = z / x, truncated toward zero. A zero divisor sets z to 0.
func QuoEq(z, x *big.Int) {
	if x.Sign() == 0 {
		z.SetInt64(0)
		return
	}
	z.Quo(z, x)
}

// FloorDivEq sets z = floor(z / x). A zero divisor sets z to 0.
func FloorDivEq(z, x *big.Int) {
	if x.Sign() == 0 {
		z.SetInt64(0)
		return
	}
	var r big.Int
	z.QuoRem(z, x, &r)
	if r.Sign() != 0 && r.Sign() != x.Sign() {
		z.Sub(z, one)
	}
}

// ModEq sets z = z mod x with a floored (Python-style) result, never
// negative for positive x. A zero divisor sets z to 0.
func ModEq(z, x *big.Int) {
	if x.Sign() == 0 {
		z.SetInt64(0)
		return
	}
	z.Rem(z, x)
	if z.Sign() != 0 && z.Sign() != x.Sign() {
		z.Add(z, x)
	}
}

// AndEq sets z = z & x.
func AndEq(z, x *big.Int) {
	z.And(z, x)
}

// OrEq sets z = z | x.
func OrEq(z, x *big.Int) {
	z.Or(z, x)
}

// XorEq sets z = z ^ x.
func XorEq(z, x *big.Int) {
	z.Xor(z, x)
}

// LeftShiftEq sets z = z << n.
func LeftShiftEq(z *big.Int, n uint) {
	z.Lsh(z, n)
}

// RightShiftEq sets z = z >> n. For the non-negative values the kernels
// produce this is a logical shift.
func RightShiftEq(z *big.Int, n uint) {
	z.Rsh(z, n)
}

// PowEq sets z = z ** exp for exp >= 0.
func PowEq(z, exp *big.Int) {
	z.Exp(z, exp, nil)
}

// PowMod sets z = z ** exp (mod m). Used under a width cap where
// m = 2^maxBits; math/big computes this without materializing the full
// power.
func PowMod(z, exp, m *big.Int) {
	z.Exp(z, exp, m)
}
