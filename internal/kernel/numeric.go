package kernel

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/arrayd-io/arrayd/internal/array"
	"github.com/arrayd-io/arrayd/internal/dtype"
	"github.com/arrayd-io/arrayd/internal/parallel"
)

// binOpNumeric evaluates op over l and r into out, whose element type must
// be the promoted type for the operator. It returns false when the
// (lt, rt, et, op) quadruple is not a legal specialization; the caller
// converts that into a type error.
func binOpNumeric(out *array.Array, l, r operand, op string, cfg parallel.Config) bool {
	et := out.DType()
	switch et {
	case dtype.Uint8:
		return binOpInt(out.AsUint8(), et, l, r, op, cfg)
	case dtype.Uint16:
		return binOpInt(out.AsUint16(), et, l, r, op, cfg)
	case dtype.Uint32:
		return binOpInt(out.AsUint32(), et, l, r, op, cfg)
	case dtype.Uint64:
		return binOpInt(out.AsUint64(), et, l, r, op, cfg)
	case dtype.Int8:
		return binOpInt(out.AsInt8(), et, l, r, op, cfg)
	case dtype.Int16:
		return binOpInt(out.AsInt16(), et, l, r, op, cfg)
	case dtype.Int32:
		return binOpInt(out.AsInt32(), et, l, r, op, cfg)
	case dtype.Int64:
		return binOpInt(out.AsInt64(), et, l, r, op, cfg)
	case dtype.Float32:
		return binOpFloat(out.AsFloat32(), et, l, r, op, cfg)
	case dtype.Float64:
		return binOpFloat(out.AsFloat64(), et, l, r, op, cfg)
	case dtype.Complex64:
		return binOpComplex(out.AsComplex64(), et, l, r, op, cfg)
	case dtype.Complex128:
		return binOpComplex(out.AsComplex128(), et, l, r, op, cfg)
	case dtype.Bool:
		return binOpBoolLogic(out.AsBool(), l, r, op, cfg)
	default:
		return false
	}
}

// mixedSignedness reports whether both types are fixed-width integers of
// opposite signedness. Floor-division and modulo on such pairs run
// through the real-valued helpers; exponentiation is rejected.
func mixedSignedness(lt, rt dtype.DType) bool {
	return lt.Kind() == dtype.KindInteger && rt.Kind() == dtype.KindInteger &&
		lt.IsSigned() != rt.IsSigned()
}

// binOpInt evaluates op into an integer result buffer.
func binOpInt[E IntElem](dst []E, et dtype.DType, l, r operand, op string, cfg parallel.Config) bool {
	lt, rt := l.dt(), r.dt()

	switch CategoryOf(op) {
	case CatBitwiseLogic:
		if et != dtype.Common(lt, rt) {
			return false
		}
		lf, lok := intLane[E](l)
		rf, rok := intLane[E](r)
		if !lok || !rok {
			return false
		}
		switch op {
		case "|":
			parallel.For(len(dst), func(i int) { dst[i] = lf(i) | rf(i) }, cfg)
		case "&":
			parallel.For(len(dst), func(i int) { dst[i] = lf(i) & rf(i) }, cfg)
		case "^":
			parallel.For(len(dst), func(i int) { dst[i] = lf(i) ^ rf(i) }, cfg)
		}
		return true

	case CatBitwiseShift:
		if et != dtype.CommonSpecial(lt, rt, true) {
			return false
		}
		lf, lok := intLane[E](l)
		sf, sok := shiftLane(r)
		if !lok || !sok {
			return false
		}
		if r.isScalar() {
			// The per-lane range guard hoists out of the loop for a
			// scalar shift amount.
			s := sf(0)
			if s < 0 || s >= 64 {
				parallel.For(len(dst), func(i int) { dst[i] = 0 }, cfg)
				return true
			}
			switch op {
			case "<<":
				parallel.For(len(dst), func(i int) { dst[i] = lf(i) << s }, cfg)
			case ">>":
				parallel.For(len(dst), func(i int) { dst[i] = lf(i) >> s }, cfg)
			}
			return true
		}
		switch op {
		case "<<":
			parallel.For(len(dst), func(i int) {
				if s := sf(i); s >= 0 && s < 64 {
					dst[i] = lf(i) << s
				} else {
					dst[i] = 0
				}
			}, cfg)
		case ">>":
			parallel.For(len(dst), func(i int) {
				if s := sf(i); s >= 0 && s < 64 {
					dst[i] = lf(i) >> s
				} else {
					dst[i] = 0
				}
			}, cfg)
		}
		return true

	case CatBitwiseRot:
		if et != dtype.Common(lt, rt) {
			return false
		}
		if lt.Kind() != dtype.KindInteger || rt.Kind() != dtype.KindInteger {
			return false
		}
		lf, lok := intLane[E](l)
		sf, sok := shiftLane(r)
		if !lok || !sok {
			return false
		}
		switch op {
		case "<<<":
			parallel.For(len(dst), func(i int) { dst[i] = rotLeft(lf(i), sf(i)) }, cfg)
		case ">>>":
			parallel.For(len(dst), func(i int) { dst[i] = rotRight(lf(i), sf(i)) }, cfg)
		}
		return true

	case CatBasicArithmetic:
		if et != dtype.Common(lt, rt) {
			return false
		}
		lf, lok := intLane[E](l)
		rf, rok := intLane[E](r)
		if !lok || !rok {
			return false
		}
		switch op {
		case "+":
			parallel.For(len(dst), func(i int) { dst[i] = lf(i) + rf(i) }, cfg)
		case "-":
			parallel.For(len(dst), func(i int) { dst[i] = lf(i) - rf(i) }, cfg)
		case "*":
			parallel.For(len(dst), func(i int) { dst[i] = lf(i) * rf(i) }, cfg)
		}
		return true

	case CatFancyArithmetic:
		if et != dtype.CommonSpecial(lt, rt, true) {
			return false
		}
		if mixedSignedness(lt, rt) {
			// Signed/unsigned pairs divide in real arithmetic and cast
			// back; exponentiation has no well-defined result here.
			lf, lok := realLane[float64](l)
			rf, rok := realLane[float64](r)
			if !lok || !rok {
				return false
			}
			switch op {
			case "//":
				parallel.For(len(dst), func(i int) {
					if d := rf(i); d != 0 {
						dst[i] = E(floorDiv(lf(i), d))
					} else {
						dst[i] = 0
					}
				}, cfg)
			case "%":
				parallel.For(len(dst), func(i int) {
					if d := rf(i); d != 0 {
						dst[i] = E(modReal(lf(i), d))
					} else {
						dst[i] = 0
					}
				}, cfg)
			default:
				return false
			}
			return true
		}
		lf, lok := intLane[E](l)
		rf, rok := intLane[E](r)
		if !lok || !rok {
			return false
		}
		switch op {
		case "//":
			parallel.For(len(dst), func(i int) {
				if d := rf(i); d != 0 {
					dst[i] = lf(i) / d
				} else {
					dst[i] = 0
				}
			}, cfg)
		case "%":
			parallel.For(len(dst), func(i int) {
				if d := rf(i); d != 0 {
					dst[i] = lf(i) % d
				} else {
					dst[i] = 0
				}
			}, cfg)
		case "**":
			sf, sok := shiftLane(r)
			if !sok {
				return false
			}
			parallel.For(len(dst), func(i int) { dst[i] = powInt(lf(i), sf(i)) }, cfg)
		}
		return true

	default:
		// True division never yields an integer result type.
		return false
	}
}

// binOpFloat evaluates op into a float result buffer. Mixed
// signed/unsigned integer pairs whose promotion widens to real also land
// here.
func binOpFloat[E FloatElem](dst []E, et dtype.DType, l, r operand, op string, cfg parallel.Config) bool {
	lt, rt := l.dt(), r.dt()

	switch CategoryOf(op) {
	case CatBasicArithmetic:
		if et != dtype.Common(lt, rt) {
			return false
		}
		lf, lok := realLane[E](l)
		rf, rok := realLane[E](r)
		if !lok || !rok {
			return false
		}
		switch op {
		case "+":
			parallel.For(len(dst), func(i int) { dst[i] = lf(i) + rf(i) }, cfg)
		case "-":
			parallel.For(len(dst), func(i int) { dst[i] = lf(i) - rf(i) }, cfg)
		case "*":
			parallel.For(len(dst), func(i int) { dst[i] = lf(i) * rf(i) }, cfg)
		}
		return true

	case CatFancyArithmetic:
		if et != dtype.CommonSpecial(lt, rt, true) {
			return false
		}
		if op == "**" && mixedSignedness(lt, rt) {
			return false
		}
		lf, lok := realLane[float64](l)
		rf, rok := realLane[float64](r)
		if !lok || !rok {
			return false
		}
		switch op {
		case "//":
			parallel.For(len(dst), func(i int) { dst[i] = E(floorDiv(lf(i), rf(i))) }, cfg)
		case "%":
			parallel.For(len(dst), func(i int) { dst[i] = E(modReal(lf(i), rf(i))) }, cfg)
		case "**":
			parallel.For(len(dst), func(i int) { dst[i] = E(math.Pow(lf(i), rf(i))) }, cfg)
		}
		return true

	case CatTrueDivision:
		if et != dtype.Div(lt, rt) {
			return false
		}
		lf, lok := realLane[E](l)
		rf, rok := realLane[E](r)
		if !lok || !rok {
			return false
		}
		parallel.For(len(dst), func(i int) { dst[i] = lf(i) / rf(i) }, cfg)
		return true

	default:
		return false
	}
}

// binOpComplex evaluates op into a complex result buffer.
func binOpComplex[E ComplexElem](dst []E, et dtype.DType, l, r operand, op string, cfg parallel.Config) bool {
	lt, rt := l.dt(), r.dt()

	switch CategoryOf(op) {
	case CatBasicArithmetic:
		if et != dtype.Common(lt, rt) {
			return false
		}
		lf, lok := complexLane[E](l)
		rf, rok := complexLane[E](r)
		if !lok || !rok {
			return false
		}
		switch op {
		case "+":
			parallel.For(len(dst), func(i int) { dst[i] = lf(i) + rf(i) }, cfg)
		case "-":
			parallel.For(len(dst), func(i int) { dst[i] = lf(i) - rf(i) }, cfg)
		case "*":
			parallel.For(len(dst), func(i int) { dst[i] = lf(i) * rf(i) }, cfg)
		}
		return true

	case CatFancyArithmetic:
		// Floor-division and modulo are undefined over the complex
		// plane; only exponentiation survives.
		if op != "**" {
			return false
		}
		if et != dtype.CommonSpecial(lt, rt, true) {
			return false
		}
		lf, lok := complexLane[complex128](l)
		rf, rok := complexLane[complex128](r)
		if !lok || !rok {
			return false
		}
		parallel.For(len(dst), func(i int) { dst[i] = E(cmplx.Pow(lf(i), rf(i))) }, cfg)
		return true

	case CatTrueDivision:
		if et != dtype.Div(lt, rt) {
			return false
		}
		lf, lok := complexLane[E](l)
		rf, rok := complexLane[E](r)
		if !lok || !rok {
			return false
		}
		parallel.For(len(dst), func(i int) { dst[i] = lf(i) / rf(i) }, cfg)
		return true

	default:
		return false
	}
}

// binOpBoolLogic evaluates `| & ^` over a pair of boolean operands.
// Basic arithmetic on two booleans is rejected; clients route it through
// the logic operators instead.
func binOpBoolLogic(dst []bool, l, r operand, op string, cfg parallel.Config) bool {
	if l.dt() != dtype.Bool || r.dt() != dtype.Bool {
		return false
	}
	if CategoryOf(op) != CatBitwiseLogic {
		return false
	}
	lf, lok := boolLane(l)
	rf, rok := boolLane(r)
	if !lok || !rok {
		return false
	}
	switch op {
	case "|":
		parallel.For(len(dst), func(i int) { dst[i] = lf(i) || rf(i) }, cfg)
	case "&":
		parallel.For(len(dst), func(i int) { dst[i] = lf(i) && rf(i) }, cfg)
	case "^":
		parallel.For(len(dst), func(i int) { dst[i] = lf(i) != rf(i) }, cfg)
	default:
		panic(fmt.Sprintf("binOpBoolLogic: unreachable operator %q", op))
	}
	return true
}
