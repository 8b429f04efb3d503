// Package interp executes a type-checked basic-block program. The
// execution model is a single-threaded fetch/decode/apply loop over an
// explicit call stack; Bril-level recursion never touches the host
// stack, so the recursion-depth limit is precise and host-independent.
package interp

import (
	"math"
	"strconv"

	"github.com/goril-lang/goril/pkg/bril"
)

// ValueKind tags a runtime value.
type ValueKind int

const (
	// IntValue is a 64-bit signed integer.
	IntValue ValueKind = iota
	// BoolValue is a boolean.
	BoolValue
	// FloatValue is an IEEE 754 double.
	FloatValue
	// PtrValue is a heap pointer.
	PtrValue
)

// Pointer is a runtime pointer value: an allocation identity, the
// pointee type, and an element offset. It is pure data, not a native
// address, so liveness and bounds checks are plain lookups.
type Pointer struct {
	ID     int64
	Type   *bril.Type
	Offset int64
}

// Value is one Bril runtime value. Exactly the field selected by Kind
// is meaningful.
type Value struct {
	Kind  ValueKind
	Int   int64
	Bool  bool
	Float float64
	Ptr   Pointer
}

// Constructors for each value kind.
func IntVal(i int64) Value     { return Value{Kind: IntValue, Int: i} }
func BoolVal(b bool) Value     { return Value{Kind: BoolValue, Bool: b} }
func FloatVal(f float64) Value { return Value{Kind: FloatValue, Float: f} }
func PtrVal(p Pointer) Value   { return Value{Kind: PtrValue, Ptr: p} }

// String renders the value in its canonical printed form: integers in
// base 10, booleans as true/false, floats with a fixed 17-digit
// fractional representation (NaN, Infinity and -Infinity spelled out).
// Pointers render a debug form; print refuses them before formatting.
func (v Value) String() string {
	switch v.Kind {
	case IntValue:
		return strconv.FormatInt(v.Int, 10)
	case BoolValue:
		return strconv.FormatBool(v.Bool)
	case FloatValue:
		return formatFloat(v.Float)
	case PtrValue:
		return "ptr " + v.Ptr.Type.String() + "@" + strconv.FormatInt(v.Ptr.ID, 10) + "+" + strconv.FormatInt(v.Ptr.Offset, 10)
	default:
		return "<invalid value>"
	}
}

// formatFloat produces the canonical textual form of a float.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	default:
		return strconv.FormatFloat(f, 'f', 17, 64)
	}
}

// zeroValue returns the fresh-cell value for an element type.
func zeroValue(t *bril.Type) Value {
	switch t.Kind {
	case bril.IntKind:
		return IntVal(0)
	case bril.BoolKind:
		return BoolVal(false)
	case bril.FloatKind:
		return FloatVal(0)
	default:
		return PtrVal(Pointer{Type: t.Elem})
	}
}
