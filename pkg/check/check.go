// Package check statically verifies a basic-block program. Every
// defining instruction in Bril carries an explicit type, so checking is
// a single top-to-bottom pass per function that records each variable's
// declared type and compares uses against it. No inference, no fixpoint.
package check

import (
	"github.com/goril-lang/goril/pkg/bril"
	"github.com/goril-lang/goril/pkg/block"
)

// Check verifies the whole program and returns nil, or the first
// *TypeError found. The program is never mutated: re-checking an
// accepted program always accepts it again.
func Check(prog *block.Program) error {
	main, ok := prog.Funcs[block.Main]
	if !ok {
		return newFuncError(block.Main, "no main function defined")
	}
	if main.ReturnType != nil {
		return newFuncError(block.Main, "main must not return a value, declared %s", main.ReturnType)
	}

	for _, name := range prog.Order {
		if err := checkFunction(prog, prog.Funcs[name]); err != nil {
			return err
		}
	}
	return nil
}

// checkFunction runs the single checking pass over one function.
func checkFunction(prog *block.Program, fn *block.Function) error {
	env := make(map[string]*bril.Type, len(fn.Params))
	for _, p := range fn.Params {
		env[p.Name] = p.Type
	}

	for bi := range fn.Blocks {
		for ii := range fn.Blocks[bi].Instrs {
			c := &checker{prog: prog, fn: fn, env: env, blk: bi, idx: ii}
			if err := c.instruction(&fn.Blocks[bi].Instrs[ii]); err != nil {
				return err
			}
		}
	}

	// A function that returns a value must not let control fall off the
	// end: every block without successors has to end in ret. This also
	// rejects the empty-body case.
	if fn.ReturnType != nil {
		for bi := range fn.Blocks {
			b := &fn.Blocks[bi]
			if len(b.Succs) > 0 {
				continue
			}
			if len(b.Instrs) == 0 || b.Instrs[len(b.Instrs)-1].Op != bril.Ret {
				return newInstrError(fn.Name, bi, len(b.Instrs)-1,
					"control reaches end of @%s without returning a %s", fn.Name, fn.ReturnType)
			}
		}
	}
	return nil
}

// checker carries the location context for one instruction so the error
// helpers stay short.
type checker struct {
	prog *block.Program
	fn   *block.Function
	env  map[string]*bril.Type
	blk  int
	idx  int
}

func (c *checker) errorf(format string, args ...any) error {
	return newInstrError(c.fn.Name, c.blk, c.idx, format, args...)
}

// arg returns the recorded type of a named argument, or an error when
// the name has no definition yet.
func (c *checker) arg(name string) (*bril.Type, error) {
	t, ok := c.env[name]
	if !ok {
		return nil, c.errorf("undefined variable %s", name)
	}
	return t, nil
}

// define records dest's declared type. A redefinition must carry the
// identical type; there is no implicit widening.
func (c *checker) define(dest string, t *bril.Type) error {
	if prev, ok := c.env[dest]; ok && !prev.Equal(t) {
		return c.errorf("cannot redefine %s as %s, first defined as %s", dest, t, prev)
	}
	c.env[dest] = t
	return nil
}

// shape enforces the fixed arity of an opcode's argument, function and
// label reference lists.
func (c *checker) shape(instr *bril.Instruction, args, funcs, labels int) error {
	if len(instr.Args) != args {
		return c.errorf("%s expects %d arguments, got %d", instr.Op, args, len(instr.Args))
	}
	if len(instr.Funcs) != funcs {
		return c.errorf("%s expects %d function references, got %d", instr.Op, funcs, len(instr.Funcs))
	}
	if len(instr.Labels) != labels {
		return c.errorf("%s expects %d labels, got %d", instr.Op, labels, len(instr.Labels))
	}
	return nil
}

// operands checks each argument against an expected type, in order.
func (c *checker) operands(instr *bril.Instruction, want ...*bril.Type) error {
	for i, name := range instr.Args {
		got, err := c.arg(name)
		if err != nil {
			return err
		}
		if !got.Equal(want[i]) {
			return c.errorf("%s argument %s has type %s, expected %s", instr.Op, name, got, want[i])
		}
	}
	return nil
}

// result checks the instruction's declared type against what the opcode
// produces and records the destination.
func (c *checker) result(instr *bril.Instruction, produced *bril.Type) error {
	if instr.Dest == "" {
		return c.errorf("%s must name a destination", instr.Op)
	}
	if !instr.Type.Equal(produced) {
		return c.errorf("%s produces %s, but destination %s is declared %s", instr.Op, produced, instr.Dest, instr.Type)
	}
	return c.define(instr.Dest, instr.Type)
}

// labels re-verifies that every referenced label resolves. The builder
// already guarantees this for jmp/br; the lookup here is cheap.
func (c *checker) labels(instr *bril.Instruction) error {
	for _, l := range instr.Labels {
		if _, ok := c.fn.LabelIndex[l]; !ok {
			return c.errorf("%s targets undefined label .%s", instr.Op, l)
		}
	}
	return nil
}

// instruction dispatches over the closed opcode set.
func (c *checker) instruction(instr *bril.Instruction) error {
	switch instr.Op {
	case bril.Const:
		return c.constant(instr)

	case bril.Add, bril.Sub, bril.Mul, bril.Div:
		return c.binary(instr, bril.IntType, bril.IntType)
	case bril.Eq, bril.Lt, bril.Gt, bril.Le, bril.Ge:
		return c.binary(instr, bril.IntType, bril.BoolType)
	case bril.Fadd, bril.Fsub, bril.Fmul, bril.Fdiv:
		return c.binary(instr, bril.FloatType, bril.FloatType)
	case bril.Feq, bril.Flt, bril.Fgt, bril.Fle, bril.Fge:
		return c.binary(instr, bril.FloatType, bril.BoolType)
	case bril.And, bril.Or:
		return c.binary(instr, bril.BoolType, bril.BoolType)

	case bril.Not:
		if err := c.shape(instr, 1, 0, 0); err != nil {
			return err
		}
		if err := c.operands(instr, bril.BoolType); err != nil {
			return err
		}
		return c.result(instr, bril.BoolType)

	case bril.Id:
		if err := c.shape(instr, 1, 0, 0); err != nil {
			return err
		}
		got, err := c.arg(instr.Args[0])
		if err != nil {
			return err
		}
		return c.result(instr, got)

	case bril.Jmp:
		if err := c.shape(instr, 0, 0, 1); err != nil {
			return err
		}
		return c.labels(instr)

	case bril.Br:
		if err := c.shape(instr, 1, 0, 2); err != nil {
			return err
		}
		if err := c.operands(instr, bril.BoolType); err != nil {
			return err
		}
		return c.labels(instr)

	case bril.Call:
		return c.call(instr)

	case bril.Ret:
		return c.ret(instr)

	case bril.Print:
		for _, name := range instr.Args {
			if _, err := c.arg(name); err != nil {
				return err
			}
		}
		return nil

	case bril.Nop:
		return nil

	case bril.Alloc:
		if err := c.shape(instr, 1, 0, 0); err != nil {
			return err
		}
		if err := c.operands(instr, bril.IntType); err != nil {
			return err
		}
		if instr.Type == nil || instr.Type.Kind != bril.PtrKind {
			return c.errorf("alloc destination must be a pointer type, declared %s", instr.Type)
		}
		return c.define(instr.Dest, instr.Type)

	case bril.Free:
		if err := c.shape(instr, 1, 0, 0); err != nil {
			return err
		}
		t, err := c.arg(instr.Args[0])
		if err != nil {
			return err
		}
		if t.Kind != bril.PtrKind {
			return c.errorf("free argument %s has type %s, expected a pointer", instr.Args[0], t)
		}
		return nil

	case bril.Store:
		return c.store(instr)

	case bril.Load:
		if err := c.shape(instr, 1, 0, 0); err != nil {
			return err
		}
		t, err := c.arg(instr.Args[0])
		if err != nil {
			return err
		}
		if t.Kind != bril.PtrKind {
			return c.errorf("load argument %s has type %s, expected a pointer", instr.Args[0], t)
		}
		return c.result(instr, t.Elem)

	case bril.PtrAdd:
		if err := c.shape(instr, 2, 0, 0); err != nil {
			return err
		}
		t, err := c.arg(instr.Args[0])
		if err != nil {
			return err
		}
		if t.Kind != bril.PtrKind {
			return c.errorf("ptradd argument %s has type %s, expected a pointer", instr.Args[0], t)
		}
		if err := c.operands(instr, t, bril.IntType); err != nil {
			return err
		}
		return c.result(instr, t)

	default:
		return c.errorf("unknown opcode %s", instr.Op)
	}
}

// constant checks a const instruction's literal against its declared type.
func (c *checker) constant(instr *bril.Instruction) error {
	if instr.Dest == "" || instr.Type == nil || instr.Value == nil {
		return c.errorf("const must carry a destination, a type and a value")
	}
	lit := instr.Value
	ok := false
	switch instr.Type.Kind {
	case bril.IntKind:
		ok = lit.Kind == bril.IntLit
	case bril.BoolKind:
		ok = lit.Kind == bril.BoolLit
	case bril.FloatKind:
		// An integer token is a valid float literal; JSON cannot tell
		// 2 from 2.0.
		ok = lit.Kind == bril.FloatLit || lit.Kind == bril.IntLit
	}
	if !ok {
		return c.errorf("const literal %s does not fit declared type %s", lit, instr.Type)
	}
	return c.define(instr.Dest, instr.Type)
}

// binary checks the shared two-operand shape: both operands of type
// operand, result of type produced.
func (c *checker) binary(instr *bril.Instruction, operand, produced *bril.Type) error {
	if err := c.shape(instr, 2, 0, 0); err != nil {
		return err
	}
	if err := c.operands(instr, operand, operand); err != nil {
		return err
	}
	return c.result(instr, produced)
}

// call checks a call site against the callee's declared signature.
func (c *checker) call(instr *bril.Instruction) error {
	if len(instr.Funcs) != 1 {
		return c.errorf("call expects exactly 1 function reference, got %d", len(instr.Funcs))
	}
	callee, ok := c.prog.Funcs[instr.Funcs[0]]
	if !ok {
		return c.errorf("call to undefined function @%s", instr.Funcs[0])
	}
	if len(instr.Args) != len(callee.Params) {
		return c.errorf("call to @%s expects %d arguments, got %d", callee.Name, len(callee.Params), len(instr.Args))
	}
	for i, name := range instr.Args {
		got, err := c.arg(name)
		if err != nil {
			return err
		}
		if !got.Equal(callee.Params[i].Type) {
			return c.errorf("call to @%s: argument %s has type %s, parameter %s is declared %s",
				callee.Name, name, got, callee.Params[i].Name, callee.Params[i].Type)
		}
	}
	if instr.Dest == "" {
		if callee.ReturnType != nil {
			return c.errorf("call to @%s discards its %s result", callee.Name, callee.ReturnType)
		}
		return nil
	}
	if callee.ReturnType == nil {
		return c.errorf("call to @%s used as a value, but @%s returns nothing", callee.Name, callee.Name)
	}
	return c.result(instr, callee.ReturnType)
}

// ret checks a return against the enclosing function's return type.
func (c *checker) ret(instr *bril.Instruction) error {
	if c.fn.ReturnType == nil {
		if len(instr.Args) != 0 {
			return c.errorf("@%s returns nothing, but ret carries a value", c.fn.Name)
		}
		return nil
	}
	if len(instr.Args) != 1 {
		return c.errorf("@%s must return a %s, but ret carries %d values", c.fn.Name, c.fn.ReturnType, len(instr.Args))
	}
	return c.operands(instr, c.fn.ReturnType)
}

// store checks a store's pointer/value pair.
func (c *checker) store(instr *bril.Instruction) error {
	if err := c.shape(instr, 2, 0, 0); err != nil {
		return err
	}
	t, err := c.arg(instr.Args[0])
	if err != nil {
		return err
	}
	if t.Kind != bril.PtrKind {
		return c.errorf("store argument %s has type %s, expected a pointer", instr.Args[0], t)
	}
	return c.operands(instr, t, t.Elem)
}
