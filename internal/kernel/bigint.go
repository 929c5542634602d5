package kernel

import (
	"math/big"

	"github.com/arrayd-io/arrayd/internal/array"
	"github.com/arrayd-io/arrayd/internal/bigops"
	"github.com/arrayd-io/arrayd/internal/dtype"
	"github.com/arrayd-io/arrayd/internal/parallel"
)

// bigCompatible reports whether a dtype may appear beside a big-integer
// operand: big integers, fixed-width integers, and bools. Reals and
// complexes never mix with big integers.
func bigCompatible(dt dtype.DType) bool {
	return dt == dtype.BigInt || dt.Kind() == dtype.KindInteger || dt == dtype.Bool
}

// bigIntOnly reports whether dt is a fixed-width integer or big integer.
func bigIntOnly(dt dtype.DType) bool {
	return dt == dtype.BigInt || dt.Kind() == dtype.KindInteger
}

// initBigOut copies l into out, widening fixed-width lanes to big
// integers. All subsequent kernel writes mutate out in place. When out
// already aliases l (compound assignment) the copy is skipped.
func initBigOut(out *array.Array, l operand, cfg parallel.Config) bool {
	if !l.isScalar() && l.arr == out {
		return true
	}
	dst := out.AsBigInt()
	lf, ok := bigLane(l)
	if !ok {
		return false
	}
	parallel.ForChunks(len(dst), func(start, end int) {
		var scratch big.Int
		for i := start; i < end; i++ {
			dst[i].Set(lf(i, &scratch))
		}
	}, cfg)
	return true
}

// binOpBig evaluates op over l and r into the big-integer array out,
// reducing every result modulo 2^maxBits when maxBits is non-negative.
// It returns false when the operand pair is not a legal specialization.
// Negative exponents and rotation without a width cap are screened by the
// dispatcher before any lane is written.
func binOpBig(out *array.Array, l, r operand, op string, maxBits int, cfg parallel.Config) bool {
	lt, rt := l.dt(), r.dt()
	if lt.Kind() == dtype.KindFloat || lt.Kind() == dtype.KindComplex ||
		rt.Kind() == dtype.KindFloat || rt.Kind() == dtype.KindComplex {
		return false
	}

	hasCap := maxBits >= 0
	var mask *big.Int
	if hasCap {
		mask = bigops.Mask(maxBits)
	}

	dst := out.AsBigInt()

	switch CategoryOf(op) {
	case CatBitwiseLogic:
		if lt != dtype.BigInt || rt != dtype.BigInt {
			return false
		}
		rf, ok := bigLane(r)
		if !ok || !initBigOut(out, l, cfg) {
			return false
		}
		var apply func(z, x *big.Int)
		switch op {
		case "|":
			apply = bigops.OrEq
		case "&":
			apply = bigops.AndEq
		case "^":
			apply = bigops.XorEq
		}
		parallel.ForChunks(len(dst), func(start, end int) {
			var scratch big.Int
			for i := start; i < end; i++ {
				apply(dst[i], rf(i, &scratch))
				if hasCap {
					bigops.MaskEq(dst[i], mask)
				}
			}
		}, cfg)
		return true

	case CatTrueDivision:
		if lt != dtype.BigInt || rt != dtype.BigInt {
			return false
		}
		rf, ok := bigLane(r)
		if !ok || !initBigOut(out, l, cfg) {
			return false
		}
		parallel.ForChunks(len(dst), func(start, end int) {
			var scratch big.Int
			for i := start; i < end; i++ {
				bigops.QuoEq(dst[i], rf(i, &scratch))
				if hasCap {
					bigops.MaskEq(dst[i], mask)
				}
			}
		}, cfg)
		return true

	case CatBitwiseShift:
		if lt != dtype.BigInt || !bigIntOnly(rt) {
			return false
		}
		sf, ok := bigShiftLane(r)
		if !ok || !initBigOut(out, l, cfg) {
			return false
		}
		left := op == "<<"
		if r.isScalar() {
			s, fits := sf(0)
			parallel.ForChunks(len(dst), func(start, end int) {
				for i := start; i < end; i++ {
					applyBigShift(dst[i], s, fits, left, hasCap, maxBits, mask)
				}
			}, cfg)
			return true
		}
		parallel.ForChunks(len(dst), func(start, end int) {
			for i := start; i < end; i++ {
				s, fits := sf(i)
				applyBigShift(dst[i], s, fits, left, hasCap, maxBits, mask)
			}
		}, cfg)
		return true

	case CatBitwiseRot:
		if lt != dtype.BigInt || !bigIntOnly(rt) {
			return false
		}
		if !hasCap {
			// The dispatcher refuses rotations without a width before
			// reaching the kernel.
			return false
		}
		sf, ok := bigShiftLane(r)
		if !ok || !initBigOut(out, l, cfg) {
			return false
		}
		w := int64(maxBits)
		rotOne := func(z *big.Int, s int64, lo, hi *big.Int) {
			s = ((s % w) + w) % w
			if op == ">>>" {
				s = (w - s) % w
			}
			lo.Lsh(z, uint(s))
			hi.Rsh(z, uint(w-s))
			z.Or(lo, hi)
			bigops.MaskEq(z, mask)
		}
		if r.isScalar() {
			// The modded rotation amount hoists out of the loop.
			s, fits := sf(0)
			if !fits {
				return false
			}
			parallel.ForChunks(len(dst), func(start, end int) {
				var lo, hi big.Int
				for i := start; i < end; i++ {
					rotOne(dst[i], s, &lo, &hi)
				}
			}, cfg)
			return true
		}
		parallel.ForChunks(len(dst), func(start, end int) {
			var lo, hi big.Int
			for i := start; i < end; i++ {
				s, fits := sf(i)
				if !fits {
					dst[i].SetInt64(0)
					continue
				}
				rotOne(dst[i], s, &lo, &hi)
			}
		}, cfg)
		return true

	case CatFancyArithmetic:
		if lt != dtype.BigInt || !bigIntOnly(rt) {
			return false
		}
		rf, ok := bigLane(r)
		if !ok || !initBigOut(out, l, cfg) {
			return false
		}
		switch op {
		case "//":
			parallel.ForChunks(len(dst), func(start, end int) {
				var scratch big.Int
				for i := start; i < end; i++ {
					bigops.FloorDivEq(dst[i], rf(i, &scratch))
					if hasCap {
						bigops.MaskEq(dst[i], mask)
					}
				}
			}, cfg)
		case "%":
			parallel.ForChunks(len(dst), func(start, end int) {
				var scratch big.Int
				for i := start; i < end; i++ {
					bigops.ModEq(dst[i], rf(i, &scratch))
					if hasCap {
						bigops.MaskEq(dst[i], mask)
					}
				}
			}, cfg)
		case "**":
			if hasCap {
				modulus := new(big.Int).Add(mask, big.NewInt(1))
				parallel.ForChunks(len(dst), func(start, end int) {
					var scratch big.Int
					for i := start; i < end; i++ {
						bigops.PowMod(dst[i], rf(i, &scratch), modulus)
					}
				}, cfg)
			} else {
				parallel.ForChunks(len(dst), func(start, end int) {
					var scratch big.Int
					for i := start; i < end; i++ {
						bigops.PowEq(dst[i], rf(i, &scratch))
					}
				}, cfg)
			}
		}
		return true

	case CatBasicArithmetic:
		if !(lt == dtype.BigInt && bigCompatible(rt)) &&
			!(rt == dtype.BigInt && bigCompatible(lt)) {
			return false
		}
		rf, ok := bigLane(r)
		if !ok || !initBigOut(out, l, cfg) {
			return false
		}
		var apply func(z, x *big.Int)
		switch op {
		case "+":
			apply = bigops.AddEq
		case "-":
			apply = bigops.SubEq
		case "*":
			apply = bigops.MulEq
		}
		parallel.ForChunks(len(dst), func(start, end int) {
			var scratch big.Int
			for i := start; i < end; i++ {
				apply(dst[i], rf(i, &scratch))
				if hasCap {
					bigops.MaskEq(dst[i], mask)
				}
			}
		}, cfg)
		return true

	default:
		return false
	}
}

// bigShiftLane yields shift amounts from a big-compatible operand as
// int64, with a flag reporting whether the lane value fits. A big-integer
// amount too wide for int64 is out of range for any practical shift.
func bigShiftLane(o operand) (func(i int) (int64, bool), bool) {
	if o.dt() == dtype.BigInt {
		if o.isScalar() {
			v := o.sc.AsBigInt()
			s, fits := v.Int64(), v.IsInt64()
			return func(int) (int64, bool) { return s, fits }, true
		}
		src := o.arr.AsBigInt()
		return func(i int) (int64, bool) { return src[i].Int64(), src[i].IsInt64() }, true
	}
	sf, ok := shiftLane(o)
	if !ok {
		return nil, false
	}
	return func(i int) (int64, bool) { return sf(i), true }, true
}

// applyBigShift applies one shift lane in place with the width-cap rules:
// an amount that is negative, unrepresentable, or at least maxBits under a
// cap zeroes the lane.
func applyBigShift(z *big.Int, s int64, fits, left, hasCap bool, maxBits int, mask *big.Int) {
	if !fits || s < 0 || (hasCap && s >= int64(maxBits)) {
		z.SetInt64(0)
		return
	}
	if left {
		bigops.LeftShiftEq(z, uint(s))
	} else {
		bigops.RightShiftEq(z, uint(s))
	}
	if hasCap {
		bigops.MaskEq(z, mask)
	}
}

// binOpBigCmp evaluates a comparison over big-compatible operands into a
// boolean result buffer. No masking applies to comparisons.
func binOpBigCmp(dst []bool, l, r operand, op string, cfg parallel.Config) bool {
	lt, rt := l.dt(), r.dt()
	if !bigCompatible(lt) || !bigCompatible(rt) {
		return false
	}
	lf, lok := bigLane(l)
	rf, rok := bigLane(r)
	if !lok || !rok {
		return false
	}

	var keep func(c int) bool
	switch op {
	case "==":
		keep = func(c int) bool { return c == 0 }
	case "!=":
		keep = func(c int) bool { return c != 0 }
	case "<":
		keep = func(c int) bool { return c < 0 }
	case ">":
		keep = func(c int) bool { return c > 0 }
	case "<=":
		keep = func(c int) bool { return c <= 0 }
	case ">=":
		keep = func(c int) bool { return c >= 0 }
	default:
		return false
	}

	parallel.ForChunks(len(dst), func(start, end int) {
		var ls, rs big.Int
		for i := start; i < end; i++ {
			dst[i] = keep(lf(i, &ls).Cmp(rf(i, &rs)))
		}
	}, cfg)
	return true
}
