// Package analyzer implements Acacia's semantic analyzer / evaluator: name
// resolution through the lexical scope stack, two-world (runtime /
// compile-time) type checking, compile-time constant evaluation, entity
// template MRO computation, and lowering of runtime expressions to
// intermediate operations (spec.md §4.3, §4.6, §4.5).
package analyzer

import (
	"fmt"

	"github.com/acaciamc/acacia/pkg/diag"
	"github.com/acaciamc/acacia/pkg/types"
	"github.com/acaciamc/acacia/pkg/util/source"
)

// Value is a fully-evaluated compile-time value (spec.md §4.6 "Compile-time
// constant evaluator"). Exactly one of the typed fields is meaningful,
// selected by Type.Kind().
type Value struct {
	Type   types.Type
	Int    int32
	Bool   bool
	Float  float64
	String string
	List   []Value
	// Map is represented as parallel slices rather than a Go map because
	// Acacia map keys need not be Go-hashable (e.g. a struct key), and
	// insertion order matters for for-in unrolling (spec.md §4.3 "for over
	// compile-time iterables").
	MapKeys   []Value
	MapValues []Value
	Fields    map[string]Value
}

// IntValue constructs an Int-typed compile-time value.
func IntValue(v int32) Value { return Value{Type: types.Int, Int: v} }

// BoolValue constructs a Bool-typed compile-time value.
func BoolValue(v bool) Value { return Value{Type: types.Bool, Bool: v} }

// Equal reports whether two compile-time values of the same type are equal,
// used both by comparison-chain evaluation and by map-key lookup (spec.md
// §4.6 "unhashable map key -> invalidmapkey").
func (v Value) Equal(o Value) bool {
	if !v.Type.Equals(o.Type) {
		return false
	}

	switch v.Type.Kind() {
	case types.KindInt:
		return v.Int == o.Int
	case types.KindBool:
		return v.Bool == o.Bool
	case types.KindFloat:
		return v.Float == o.Float
	case types.KindString:
		return v.String == o.String
	default:
		return false
	}
}

// Hashable reports whether this value may serve as a map key (spec.md §4.6
// "invalidmapkey"): only Int, Bool, and String are.
func (v Value) Hashable() bool {
	switch v.Type.Kind() {
	case types.KindInt, types.KindBool, types.KindString:
		return true
	default:
		return false
	}
}

// ConstEval evaluates compile-time arithmetic, comparisons, and
// list/map/slice operations (spec.md §4.6).
type ConstEval struct {
	file *source.File
}

// NewConstEval constructs a ConstEval reporting diagnostics against file.
func NewConstEval(file *source.File) *ConstEval {
	return &ConstEval{file}
}

// Arith evaluates an integer arithmetic operation, reporting overflow and
// division/modulo by zero as constarithmetic (spec.md §4.6). Only + - * / %
// are supported; there is no power operator, so no negative-exponent check
// is made.
func (c *ConstEval) Arith(span source.Span, op string, a, b int32) (int32, *diag.Error) {
	wide := int64(a)
	other := int64(b)
	var result int64

	switch op {
	case "+":
		result = wide + other
	case "-":
		result = wide - other
	case "*":
		result = wide * other
	case "/":
		if b == 0 {
			return 0, diag.New(c.file, span, diag.ConstArithmetic, "division by zero")
		}

		result = wide / other
	case "%":
		if b == 0 {
			return 0, diag.New(c.file, span, diag.ConstArithmetic, "modulo by zero")
		}

		result = wide % other
	default:
		panic(fmt.Sprintf("analyzer: unknown arithmetic operator %q", op))
	}

	if result < -(1<<31) || result > (1<<31)-1 {
		return 0, diag.New(c.file, span, diag.ConstArithmetic, "integer overflow in constant expression")
	}

	return int32(result), nil
}

// ListIndex resolves a compile-time list index, checking bounds (spec.md
// §4.6 "Out-of-range list index -> listindexoutofbounds").
func (c *ConstEval) ListIndex(span source.Span, list []Value, index int32) (Value, *diag.Error) {
	i := int(index)
	if i < 0 {
		i += len(list)
	}

	if i < 0 || i >= len(list) {
		return Value{}, diag.New(c.file, span, diag.ListIndexOutOfBounds,
			"list index %d out of bounds for length %d", index, len(list))
	}

	return list[i], nil
}

// ListSlice resolves a compile-time list slice `list[start:end]`.
func (c *ConstEval) ListSlice(list []Value, start, end int32) []Value {
	lo, hi := clampSlice(len(list), start, end)
	out := make([]Value, hi-lo)
	copy(out, list[lo:hi])

	return out
}

func clampSlice(n int, start, end int32) (int, int) {
	lo, hi := int(start), int(end)
	if lo < 0 {
		lo += n
	}

	if hi < 0 {
		hi += n
	}

	lo = max(0, min(lo, n))
	hi = max(lo, min(hi, n))

	return lo, hi
}

// MapGet resolves a compile-time map lookup, failing with *mapkeynotfound*
// if absent and *invalidmapkey* if key is not hashable (spec.md §4.6).
func (c *ConstEval) MapGet(span source.Span, keys, values []Value, key Value) (Value, *diag.Error) {
	if !key.Hashable() {
		return Value{}, diag.New(c.file, span, diag.InvalidMapKey, "type %s is not a valid map key", key.Type)
	}

	for i, k := range keys {
		if k.Equal(key) {
			return values[i], nil
		}
	}

	return Value{}, diag.New(c.file, span, diag.MapKeyNotFound, "key not found in map")
}

// ListRepeat implements `list * n`, requiring n to be a literal integer
// (spec.md §4.6 "list multiplication factor must be a literal integer").
func (c *ConstEval) ListRepeat(span source.Span, list []Value, n int32, literal bool) ([]Value, *diag.Error) {
	if !literal {
		return nil, diag.New(c.file, span, diag.ListMultimesNonLiteral, "list repetition factor must be a literal integer")
	}

	if n < 0 {
		n = 0
	}

	out := make([]Value, 0, len(list)*int(n))
	for i := int32(0); i < n; i++ {
		out = append(out, list...)
	}

	return out, nil
}
