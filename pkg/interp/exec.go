package interp

import (
	"fmt"
	"strings"

	"github.com/goril-lang/goril/pkg/bril"
)

// execute drives the fetch/decode/apply loop. One instruction pointer
// (block index + offset) is active per frame; only the innermost frame
// runs. Control-flow opcodes are handled here because they move the
// instruction pointer or reshape the stack; everything else goes through
// step, which leaves the pointer to be advanced afterwards.
func (in *Interp) execute(entry *frame) error {
	stack := make([]*frame, 0, 64)
	stack = append(stack, entry)

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		blk := &top.fn.Blocks[top.blk]

		if top.pc >= len(blk.Instrs) {
			if len(blk.Succs) == 1 {
				// Fall through to the next block in program order.
				top.blk = blk.Succs[0]
				top.pc = 0
				continue
			}
			// Implicit end of function: return nothing.
			var err error
			stack, err = in.popFrame(stack, nil)
			if err != nil {
				return err
			}
			continue
		}

		instr := &blk.Instrs[top.pc]
		in.count++

		switch instr.Op {
		case bril.Jmp:
			top.blk = top.fn.LabelIndex[instr.Labels[0]]
			top.pc = 0

		case bril.Br:
			cond, err := in.lookup(top, instr.Args[0])
			if err != nil {
				return err
			}
			target := instr.Labels[0]
			if !cond.Bool {
				target = instr.Labels[1]
			}
			top.blk = top.fn.LabelIndex[target]
			top.pc = 0

		case bril.Call:
			next, err := in.call(stack, top, instr)
			if err != nil {
				return err
			}
			stack = next

		case bril.Ret:
			var val *Value
			if len(instr.Args) == 1 {
				v, err := in.lookup(top, instr.Args[0])
				if err != nil {
					return err
				}
				val = &v
			}
			var err error
			stack, err = in.popFrame(stack, val)
			if err != nil {
				return err
			}

		default:
			if err := in.step(top, instr); err != nil {
				return err
			}
			top.pc++
		}
	}
	return nil
}

// call pushes a fresh frame for the callee, binding its parameters to
// the evaluated arguments. The caller's instruction pointer is advanced
// first so it resumes after the call site.
func (in *Interp) call(stack []*frame, top *frame, instr *bril.Instruction) ([]*frame, error) {
	if len(stack) >= in.maxDepth {
		return nil, NewStackOverflowError(in.maxDepth)
	}
	callee := in.prog.Funcs[instr.Funcs[0]]
	env := make(map[string]Value, len(callee.Params))
	for i, p := range callee.Params {
		v, err := in.lookup(top, instr.Args[i])
		if err != nil {
			return nil, err
		}
		env[p.Name] = v
	}
	top.pc++
	in.log.Debug("Frame pushed", "function", callee.Name, "depth", len(stack)+1)
	return append(stack, &frame{fn: callee, env: env, dest: instr.Dest}), nil
}

// popFrame ends the innermost activation. When the call site expects a
// value, the returned value is bound in the caller's environment; the
// caller resumes at its stored instruction pointer.
func (in *Interp) popFrame(stack []*frame, val *Value) ([]*frame, error) {
	done := stack[len(stack)-1]
	stack = stack[:len(stack)-1]
	if done.dest != "" {
		if val == nil {
			return nil, NewRuntimeError(ErrorMissingReturn, "@%s returned no value", done.fn.Name)
		}
		stack[len(stack)-1].env[done.dest] = *val
	}
	return stack, nil
}

// lookup reads a variable from the frame's environment. The checker
// guarantees definitions precede uses, so a miss here means the program
// bypassed checking.
func (in *Interp) lookup(f *frame, name string) (Value, error) {
	v, ok := f.env[name]
	if !ok {
		return Value{}, NewRuntimeError(ErrorUndefinedVar, "undefined variable %s", name)
	}
	return v, nil
}

// step applies one non-control instruction: evaluate arguments in the
// current environment, apply the opcode, bind the destination if any.
func (in *Interp) step(f *frame, instr *bril.Instruction) error {
	switch instr.Op {
	case bril.Const:
		switch instr.Type.Kind {
		case bril.IntKind:
			f.env[instr.Dest] = IntVal(instr.Value.Int)
		case bril.BoolKind:
			f.env[instr.Dest] = BoolVal(instr.Value.Bool)
		case bril.FloatKind:
			f.env[instr.Dest] = FloatVal(instr.Value.AsFloat())
		}
		return nil

	case bril.Add, bril.Sub, bril.Mul, bril.Div:
		a, b, err := in.pair(f, instr)
		if err != nil {
			return err
		}
		var r int64
		switch instr.Op {
		case bril.Add:
			r = a.Int + b.Int
		case bril.Sub:
			r = a.Int - b.Int
		case bril.Mul:
			r = a.Int * b.Int
		case bril.Div:
			if b.Int == 0 {
				return NewDivisionByZeroError("division")
			}
			r = a.Int / b.Int
		}
		f.env[instr.Dest] = IntVal(r)
		return nil

	case bril.Eq, bril.Lt, bril.Gt, bril.Le, bril.Ge:
		a, b, err := in.pair(f, instr)
		if err != nil {
			return err
		}
		var r bool
		switch instr.Op {
		case bril.Eq:
			r = a.Int == b.Int
		case bril.Lt:
			r = a.Int < b.Int
		case bril.Gt:
			r = a.Int > b.Int
		case bril.Le:
			r = a.Int <= b.Int
		case bril.Ge:
			r = a.Int >= b.Int
		}
		f.env[instr.Dest] = BoolVal(r)
		return nil

	case bril.Fadd, bril.Fsub, bril.Fmul, bril.Fdiv:
		a, b, err := in.pair(f, instr)
		if err != nil {
			return err
		}
		var r float64
		switch instr.Op {
		case bril.Fadd:
			r = a.Float + b.Float
		case bril.Fsub:
			r = a.Float - b.Float
		case bril.Fmul:
			r = a.Float * b.Float
		case bril.Fdiv:
			// IEEE semantics: dividing by zero yields an infinity or
			// NaN, never an error.
			r = a.Float / b.Float
		}
		f.env[instr.Dest] = FloatVal(r)
		return nil

	case bril.Feq, bril.Flt, bril.Fgt, bril.Fle, bril.Fge:
		a, b, err := in.pair(f, instr)
		if err != nil {
			return err
		}
		var r bool
		switch instr.Op {
		case bril.Feq:
			r = a.Float == b.Float
		case bril.Flt:
			r = a.Float < b.Float
		case bril.Fgt:
			r = a.Float > b.Float
		case bril.Fle:
			r = a.Float <= b.Float
		case bril.Fge:
			r = a.Float >= b.Float
		}
		f.env[instr.Dest] = BoolVal(r)
		return nil

	case bril.Not:
		a, err := in.lookup(f, instr.Args[0])
		if err != nil {
			return err
		}
		f.env[instr.Dest] = BoolVal(!a.Bool)
		return nil

	case bril.And, bril.Or:
		a, b, err := in.pair(f, instr)
		if err != nil {
			return err
		}
		if instr.Op == bril.And {
			f.env[instr.Dest] = BoolVal(a.Bool && b.Bool)
		} else {
			f.env[instr.Dest] = BoolVal(a.Bool || b.Bool)
		}
		return nil

	case bril.Id:
		a, err := in.lookup(f, instr.Args[0])
		if err != nil {
			return err
		}
		f.env[instr.Dest] = a
		return nil

	case bril.Print:
		return in.print(f, instr)

	case bril.Nop:
		return nil

	case bril.Alloc:
		n, err := in.lookup(f, instr.Args[0])
		if err != nil {
			return err
		}
		p, err := in.heap.Alloc(n.Int, instr.Type.Elem)
		if err != nil {
			return err
		}
		f.env[instr.Dest] = PtrVal(p)
		return nil

	case bril.Free:
		p, err := in.lookup(f, instr.Args[0])
		if err != nil {
			return err
		}
		return in.heap.Free(p.Ptr)

	case bril.Store:
		p, err := in.lookup(f, instr.Args[0])
		if err != nil {
			return err
		}
		v, err := in.lookup(f, instr.Args[1])
		if err != nil {
			return err
		}
		return in.heap.Store(p.Ptr, v)

	case bril.Load:
		p, err := in.lookup(f, instr.Args[0])
		if err != nil {
			return err
		}
		v, err := in.heap.Load(p.Ptr)
		if err != nil {
			return err
		}
		f.env[instr.Dest] = v
		return nil

	case bril.PtrAdd:
		p, err := in.lookup(f, instr.Args[0])
		if err != nil {
			return err
		}
		k, err := in.lookup(f, instr.Args[1])
		if err != nil {
			return err
		}
		// No bounds check here; only dereference validates the offset.
		moved := p.Ptr
		moved.Offset += k.Int
		f.env[instr.Dest] = PtrVal(moved)
		return nil

	default:
		return NewRuntimeError(ErrorUnknownOpcode, "unknown opcode %s", instr.Op)
	}
}

// pair evaluates the two arguments of a binary operation.
func (in *Interp) pair(f *frame, instr *bril.Instruction) (Value, Value, error) {
	a, err := in.lookup(f, instr.Args[0])
	if err != nil {
		return Value{}, Value{}, err
	}
	b, err := in.lookup(f, instr.Args[1])
	if err != nil {
		return Value{}, Value{}, err
	}
	return a, b, nil
}

// print writes the arguments' canonical forms to the output sink,
// space-separated with a trailing newline. Pointers are not printable.
func (in *Interp) print(f *frame, instr *bril.Instruction) error {
	parts := make([]string, len(instr.Args))
	for i, name := range instr.Args {
		v, err := in.lookup(f, name)
		if err != nil {
			return err
		}
		if v.Kind == PtrValue {
			return NewRuntimeError(ErrorPrintPointer, "cannot print pointer %s", name)
		}
		parts[i] = v.String()
	}
	if _, err := fmt.Fprintln(in.out, strings.Join(parts, " ")); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
