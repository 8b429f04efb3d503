// Package block restructures flat Bril functions into basic-block form.
// A Program built here is immutable afterwards: the type checker and the
// interpreter both consume it read-only. Building is purely structural;
// it never consults types and never executes anything.
package block

import (
	"github.com/goril-lang/goril/pkg/bril"
)

// Block is a maximal straight-line run of non-label instructions.
// Control enters only at the first instruction and leaves only at the
// last. Succs holds successor block indices within the same function:
// the targets of a jmp/br terminator, the next block in program order
// for fall-through, or nothing after a ret or at end of function.
type Block struct {
	// Label is the label that introduced this block, or "" for the
	// entry block and blocks opened by a preceding terminator.
	Label  string
	Instrs []bril.Instruction
	Succs  []int
}

// Function is one function in basic-block form. LabelIndex maps each
// label name to the index of the block it introduces; labels are block
// aliases, not instructions.
type Function struct {
	Name       string
	Params     []bril.Param
	ReturnType *bril.Type
	Blocks     []Block
	LabelIndex map[string]int
}

// Program maps function names to their basic-block form. Order preserves
// the input declaration order so iteration stays deterministic.
type Program struct {
	Funcs map[string]*Function
	Order []string
}

// Main is the required entry function name.
const Main = "main"

// BuildProgram converts an abstract program to basic-block form. It
// fails with a *BuildError if any jump or branch references a label that
// is never defined in its function.
func BuildProgram(prog *bril.Program) (*Program, error) {
	out := &Program{
		Funcs: make(map[string]*Function, len(prog.Functions)),
		Order: make([]string, 0, len(prog.Functions)),
	}
	for _, fn := range prog.Functions {
		built, err := buildFunction(fn)
		if err != nil {
			return nil, err
		}
		out.Funcs[fn.Name] = built
		out.Order = append(out.Order, fn.Name)
	}
	return out, nil
}

// buildFunction slices one flat instruction list into blocks and resolves
// successor edges.
func buildFunction(fn *bril.Function) (*Function, error) {
	out := &Function{
		Name:       fn.Name,
		Params:     fn.Args,
		ReturnType: fn.Type,
		LabelIndex: make(map[string]int),
	}

	cur := Block{}
	curOpen := true // the entry block exists even if it stays empty

	flush := func() {
		out.Blocks = append(out.Blocks, cur)
		cur = Block{}
		curOpen = false
	}

	for _, instr := range fn.Instrs {
		if instr.Kind() == bril.LabelInstr {
			// A label introduces a block boundary. An open block that
			// holds nothing and has no label of its own simply adopts
			// the label; otherwise the label opens a fresh block.
			if curOpen && len(cur.Instrs) == 0 && cur.Label == "" && len(out.Blocks) == 0 {
				cur.Label = instr.Label
			} else {
				if curOpen {
					flush()
				}
				cur = Block{Label: instr.Label}
				curOpen = true
			}
			out.LabelIndex[instr.Label] = len(out.Blocks)
			continue
		}

		if !curOpen {
			cur = Block{}
			curOpen = true
		}
		cur.Instrs = append(cur.Instrs, instr)
		if instr.IsTerminator() {
			flush()
		}
	}
	if curOpen {
		flush()
	}

	if err := resolveSuccs(out); err != nil {
		return nil, err
	}
	return out, nil
}

// resolveSuccs fills in each block's successor indices from its
// terminator, or from program order when it falls through.
func resolveSuccs(fn *Function) error {
	for i := range fn.Blocks {
		b := &fn.Blocks[i]
		var last *bril.Instruction
		if n := len(b.Instrs); n > 0 {
			last = &b.Instrs[n-1]
		}

		switch {
		case last != nil && (last.Op == bril.Jmp || last.Op == bril.Br):
			for _, label := range last.Labels {
				target, ok := fn.LabelIndex[label]
				if !ok {
					return NewBuildError(fn.Name, label)
				}
				b.Succs = append(b.Succs, target)
			}
		case last != nil && last.Op == bril.Ret:
			// No successors.
		default:
			if i+1 < len(fn.Blocks) {
				b.Succs = []int{i + 1}
			}
		}
	}
	return nil
}
