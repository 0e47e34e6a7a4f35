package glexpr

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/soypat/gluniform/glreact"
)

// Eval evaluates reduction records in creation order and returns the value
// of the root record. Reactive terms are read from terms at call time.
// Eval allocates scratch space on every call; [Cell] reuses its own.
func Eval[T Number](recs []Reduction[T], terms *glreact.Registry[T]) T {
	if len(recs) == 0 {
		return 0
	}
	ev := newEvaluator[T](len(recs))
	return ev.eval(recs, terms)
}

// evaluator holds the scratch values of each record and the floating point
// operations appropriate for the element type.
type evaluator[T Number] struct {
	vals []T
	ops  floatOps[T]
}

func newEvaluator[T Number](n int) evaluator[T] {
	return evaluator[T]{vals: make([]T, n), ops: floatOpsFor[T]()}
}

func (ev *evaluator[T]) eval(recs []Reduction[T], terms *glreact.Registry[T]) T {
	vals := ev.vals[:len(recs)]
	integral := ev.ops.integral
	for i, r := range recs {
		var v T
		switch r.Prod {
		case ProdIdent:
			v = r.Value
			if r.Term >= 0 {
				v = terms.Value(r.Term)
			}
		case ProdAdd:
			v = vals[r.Left] + vals[r.Right]
		case ProdSub:
			v = vals[r.Left] - vals[r.Right]
		case ProdMul:
			v = vals[r.Left] * vals[r.Right]
		case ProdDiv:
			den := vals[r.Right]
			if integral && den == 0 {
				v = 0 // Integer division by zero has no value; avoid the runtime panic.
			} else {
				v = vals[r.Left] / den
			}
		case ProdPow:
			v = ev.ops.pow(vals[r.Left], vals[r.Right])
		case ProdParen, ProdPos:
			v = vals[r.Left]
		case ProdNeg:
			v = -vals[r.Left]
		case ProdFunc:
			v = ev.ops.apply(r.Func, vals[r.Left])
		}
		vals[i] = v
	}
	return vals[len(vals)-1]
}

// floatOps are the operations computed in floating point and cast back to T.
type floatOps[T Number] struct {
	integral bool
	pow      func(x, y T) T
	apply    func(f Func, x T) T
}

// floatOpsFor selects float32 math for float element types and float64 math
// for integer types, which keeps every int32 and uint32 exactly representable.
func floatOpsFor[T Number]() floatOps[T] {
	if !isIntegral[T]() {
		return floatOps[T]{
			pow: func(x, y T) T { return T(math32.Pow(float32(x), float32(y))) },
			apply: func(f Func, x T) T {
				return T(apply32(f, float32(x)))
			},
		}
	}
	signed := isSigned[T]()
	toFloat := func(x T) float64 {
		if signed {
			return float64(x)
		}
		return float64(uint32(x))
	}
	return floatOps[T]{
		integral: true,
		pow: func(x, y T) T {
			return fromFloat64[T](math.Pow(toFloat(x), toFloat(y)))
		},
		apply: func(f Func, x T) T {
			return fromFloat64[T](apply64(f, toFloat(x)))
		},
	}
}

func apply32(f Func, x float32) float32 {
	switch f {
	case FuncSin:
		return math32.Sin(x)
	case FuncCos:
		return math32.Cos(x)
	case FuncTan:
		return math32.Tan(x)
	case FuncAsin:
		return math32.Asin(x)
	case FuncAcos:
		return math32.Acos(x)
	case FuncAtan:
		return math32.Atan(x)
	}
	return math32.NaN()
}

func apply64(f Func, x float64) float64 {
	switch f {
	case FuncSin:
		return math.Sin(x)
	case FuncCos:
		return math.Cos(x)
	case FuncTan:
		return math.Tan(x)
	case FuncAsin:
		return math.Asin(x)
	case FuncAcos:
		return math.Acos(x)
	case FuncAtan:
		return math.Atan(x)
	}
	return math.NaN()
}

// fromFloat64 converts f to T truncating toward zero. For integer types NaN,
// infinities and values outside the int64 range become 0, and negative
// values wrap when T is unsigned.
func fromFloat64[T Number](f float64) T {
	if !isIntegral[T]() {
		return T(f)
	}
	if math.IsNaN(f) || f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0
	}
	return T(int64(f))
}

// isIntegral reports whether T is an integer type.
func isIntegral[T Number]() bool {
	half := 0.5
	return T(half) == 0
}

// isSigned reports whether T can hold negative values.
func isSigned[T Number]() bool {
	var z T
	z--
	return z < 0
}
