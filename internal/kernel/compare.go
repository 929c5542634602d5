package kernel

import (
	"github.com/arrayd-io/arrayd/internal/dtype"
	"github.com/arrayd-io/arrayd/internal/parallel"
)

// binOpCompare evaluates a comparison operator into a boolean result
// buffer. The comparison domain is the promoted type of the operand pair:
// complex operands compare real parts only, a real beside an integer or
// bool widens the other side to real, and same-kind pairs compare in
// place.
func binOpCompare(dst []bool, l, r operand, op string, cfg parallel.Config) bool {
	lt, rt := l.dt(), r.dt()
	if lt.Kind() == dtype.KindOther || rt.Kind() == dtype.KindOther {
		return false
	}

	if lt.Kind() == dtype.KindComplex || rt.Kind() == dtype.KindComplex {
		lf, lok := realPartLane(l)
		rf, rok := realPartLane(r)
		if !lok || !rok {
			return false
		}
		return cmpLanes(dst, lf, rf, op, cfg)
	}

	ct := dtype.Common(lt, rt)
	switch {
	case ct.Kind() == dtype.KindFloat:
		lf, lok := realLane[float64](l)
		rf, rok := realLane[float64](r)
		if !lok || !rok {
			return false
		}
		return cmpLanes(dst, lf, rf, op, cfg)
	case ct.IsUnsigned():
		lf, lok := intLane[uint64](l)
		rf, rok := intLane[uint64](r)
		if !lok || !rok {
			return false
		}
		return cmpLanes(dst, lf, rf, op, cfg)
	case ct.IsSigned():
		lf, lok := intLane[int64](l)
		rf, rok := intLane[int64](r)
		if !lok || !rok {
			return false
		}
		return cmpLanes(dst, lf, rf, op, cfg)
	case ct == dtype.Bool:
		// false orders before true.
		lf, lok := intLane[uint8](l)
		rf, rok := intLane[uint8](r)
		if !lok || !rok {
			return false
		}
		return cmpLanes(dst, lf, rf, op, cfg)
	default:
		return false
	}
}

// cmpLanes applies one comparison operator over a pair of lane readers in
// an ordered domain.
func cmpLanes[E RealElem](dst []bool, lf, rf func(int) E, op string, cfg parallel.Config) bool {
	switch op {
	case "==":
		parallel.For(len(dst), func(i int) { dst[i] = lf(i) == rf(i) }, cfg)
	case "!=":
		parallel.For(len(dst), func(i int) { dst[i] = lf(i) != rf(i) }, cfg)
	case "<":
		parallel.For(len(dst), func(i int) { dst[i] = lf(i) < rf(i) }, cfg)
	case ">":
		parallel.For(len(dst), func(i int) { dst[i] = lf(i) > rf(i) }, cfg)
	case "<=":
		parallel.For(len(dst), func(i int) { dst[i] = lf(i) <= rf(i) }, cfg)
	case ">=":
		parallel.For(len(dst), func(i int) { dst[i] = lf(i) >= rf(i) }, cfg)
	default:
		return false
	}
	return true
}
