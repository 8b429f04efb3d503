// Package bril defines the abstract Bril intermediate representation.
// This package is the foundation that the block builder, type checker and
// interpreter all depend on. A Program in this package is the flat,
// already-parsed form handed over by a surface loader; it carries no
// control-flow structure yet.
package bril

import (
	"encoding/json"
	"fmt"
)

// TypeKind identifies one of the closed set of Bril type constructors.
type TypeKind int

const (
	// IntKind is the 64-bit signed integer type.
	IntKind TypeKind = iota
	// BoolKind is the boolean type.
	BoolKind
	// FloatKind is the IEEE 754 double type.
	FloatKind
	// PtrKind is a pointer to a sequence of cells of some element type.
	PtrKind
)

// Type is a Bril type: one of the scalar kinds, or a pointer to another
// Type. Types are immutable and built bottom-up, so no cycles can occur.
// Elem is non-nil exactly when Kind is PtrKind.
type Type struct {
	Kind TypeKind
	Elem *Type
}

// Convenience constructors for the scalar types and pointers.
var (
	IntType   = &Type{Kind: IntKind}
	BoolType  = &Type{Kind: BoolKind}
	FloatType = &Type{Kind: FloatKind}
)

// PtrTo returns the pointer type whose pointee is elem.
func PtrTo(elem *Type) *Type {
	return &Type{Kind: PtrKind, Elem: elem}
}

// Equal reports structural equality of two types. Either side may be nil
// (the absent type, used for missing return types); two nils are equal.
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == nil && other == nil
	}
	if t.Kind != other.Kind {
		return false
	}
	if t.Kind == PtrKind {
		return t.Elem.Equal(other.Elem)
	}
	return true
}

// String renders the type in Bril's textual form, e.g. "int" or "ptr<bool>".
func (t *Type) String() string {
	if t == nil {
		return "<none>"
	}
	switch t.Kind {
	case IntKind:
		return "int"
	case BoolKind:
		return "bool"
	case FloatKind:
		return "float"
	case PtrKind:
		return fmt.Sprintf("ptr<%s>", t.Elem)
	default:
		return fmt.Sprintf("<unknown kind %d>", t.Kind)
	}
}

// UnmarshalJSON decodes the Bril JSON type encoding: scalar types are
// strings ("int", "bool", "float"), pointer types are one-key objects
// ({"ptr": <type>}).
func (t *Type) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		switch name {
		case "int":
			t.Kind = IntKind
		case "bool":
			t.Kind = BoolKind
		case "float":
			t.Kind = FloatKind
		default:
			return fmt.Errorf("unknown type %q", name)
		}
		t.Elem = nil
		return nil
	}

	var obj map[string]*Type
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("malformed type: %s", data)
	}
	elem, ok := obj["ptr"]
	if !ok || len(obj) != 1 {
		return fmt.Errorf("malformed parameterized type: %s", data)
	}
	t.Kind = PtrKind
	t.Elem = elem
	return nil
}

// MarshalJSON encodes the type in the same form UnmarshalJSON accepts.
func (t *Type) MarshalJSON() ([]byte, error) {
	switch t.Kind {
	case IntKind, BoolKind, FloatKind:
		return json.Marshal(t.String())
	case PtrKind:
		return json.Marshal(map[string]*Type{"ptr": t.Elem})
	default:
		return nil, fmt.Errorf("unknown type kind %d", t.Kind)
	}
}
