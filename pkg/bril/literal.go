package bril

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// LiteralKind identifies the shape of a constant's literal token.
type LiteralKind int

const (
	// IntLit is an integer literal token.
	IntLit LiteralKind = iota
	// BoolLit is a boolean literal token.
	BoolLit
	// FloatLit is a floating-point literal token.
	FloatLit
)

// Literal is the value attached to a const instruction. An integer token
// under a float-typed const is legal (JSON does not distinguish 2 from
// 2.0), so the declared type decides the runtime kind; AsFloat performs
// that widening.
type Literal struct {
	Kind  LiteralKind
	Int   int64
	Bool  bool
	Float float64
}

// AsFloat returns the literal's value as a float64. Integer literals are
// widened; calling it on a bool literal is a bug in the caller.
func (l *Literal) AsFloat() float64 {
	if l.Kind == IntLit {
		return float64(l.Int)
	}
	return l.Float
}

// String renders the literal as it would appear in Bril text form.
func (l *Literal) String() string {
	switch l.Kind {
	case IntLit:
		return strconv.FormatInt(l.Int, 10)
	case BoolLit:
		return strconv.FormatBool(l.Bool)
	case FloatLit:
		return strconv.FormatFloat(l.Float, 'g', -1, 64)
	default:
		return fmt.Sprintf("<unknown literal kind %d>", l.Kind)
	}
}

// UnmarshalJSON decodes a constant literal. Number tokens without a
// fraction or exponent become integer literals; the rest become floats.
func (l *Literal) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		l.Kind = BoolLit
		l.Bool = b
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("malformed literal: %s", data)
	}
	s := num.String()
	if !strings.ContainsAny(s, ".eE") {
		i, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			l.Kind = IntLit
			l.Int = i
			return nil
		}
	}
	f, err := num.Float64()
	if err != nil {
		return fmt.Errorf("malformed numeric literal: %s", s)
	}
	l.Kind = FloatLit
	l.Float = f
	return nil
}

// MarshalJSON encodes the literal back to its JSON token.
func (l *Literal) MarshalJSON() ([]byte, error) {
	switch l.Kind {
	case IntLit:
		return json.Marshal(l.Int)
	case BoolLit:
		return json.Marshal(l.Bool)
	case FloatLit:
		return json.Marshal(l.Float)
	default:
		return nil, fmt.Errorf("unknown literal kind %d", l.Kind)
	}
}
