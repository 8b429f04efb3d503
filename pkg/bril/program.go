package bril

import (
	"encoding/json"
	"fmt"
	"io"
)

// InstrKind classifies an instruction into one of the four shapes the
// language defines.
type InstrKind int

const (
	// ConstantInstr binds a literal to a destination.
	ConstantInstr InstrKind = iota
	// ValueInstr computes a value and binds it to a destination.
	ValueInstr
	// EffectInstr performs an effect and binds nothing.
	EffectInstr
	// LabelInstr is a named program point; it is never executed.
	LabelInstr
)

// Instruction is one flat Bril instruction. Exactly one shape applies:
// a label carries only Label; a const carries Dest, Type and Value; a
// value operation carries Op, Dest and Type; an effect operation carries
// Op and no Dest. Args, Funcs and Labels are references by name.
type Instruction struct {
	Op     Opcode   `json:"op,omitempty"`
	Dest   string   `json:"dest,omitempty"`
	Type   *Type    `json:"type,omitempty"`
	Args   []string `json:"args,omitempty"`
	Funcs  []string `json:"funcs,omitempty"`
	Labels []string `json:"labels,omitempty"`
	Value  *Literal `json:"value,omitempty"`
	Label  string   `json:"label,omitempty"`
}

// Kind classifies the instruction.
func (i *Instruction) Kind() InstrKind {
	switch {
	case i.Label != "":
		return LabelInstr
	case i.Op == Const:
		return ConstantInstr
	case i.Dest != "":
		return ValueInstr
	default:
		return EffectInstr
	}
}

// IsTerminator reports whether the instruction unconditionally ends a
// basic block.
func (i *Instruction) IsTerminator() bool {
	switch i.Op {
	case Jmp, Br, Ret:
		return true
	default:
		return false
	}
}

// String renders the instruction roughly in Bril text form, for error
// messages and debug logging.
func (i *Instruction) String() string {
	switch i.Kind() {
	case LabelInstr:
		return "." + i.Label
	case ConstantInstr:
		return fmt.Sprintf("%s: %s = const %s", i.Dest, i.Type, i.Value)
	case ValueInstr:
		return fmt.Sprintf("%s: %s = %s %v", i.Dest, i.Type, i.Op, i.Args)
	default:
		return fmt.Sprintf("%s %v", i.Op, i.Args)
	}
}

// Param is one named, typed function parameter.
type Param struct {
	Name string `json:"name"`
	Type *Type  `json:"type"`
}

// Function is a flat Bril function: an ordered instruction list with a
// signature. Type is nil for functions that return nothing.
type Function struct {
	Name   string        `json:"name"`
	Args   []Param       `json:"args,omitempty"`
	Type   *Type         `json:"type,omitempty"`
	Instrs []Instruction `json:"instrs"`
}

// Program is a whole abstract Bril program.
type Program struct {
	Functions []*Function `json:"functions"`
}

// LoadProgram decodes a JSON-encoded Bril program from r. This is surface glue:
// nothing downstream of this package ever reads raw bytes itself.
func LoadProgram(r io.Reader) (*Program, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var prog Program
	if err := dec.Decode(&prog); err != nil {
		return nil, fmt.Errorf("failed to decode program: %w", err)
	}
	return &prog, nil
}

// Encode writes the program as JSON to w.
func (p *Program) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
