package check

import "fmt"

// TypeError reports the first static mismatch found while checking a
// program. Block and Instr locate the offending instruction inside the
// named function; both are -1 for function-level failures such as a bad
// signature or a missing main.
type TypeError struct {
	Func    string
	Block   int
	Instr   int
	Message string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	if e.Block < 0 {
		return fmt.Sprintf("type error in @%s: %s", e.Func, e.Message)
	}
	return fmt.Sprintf("type error in @%s (block %d, instruction %d): %s", e.Func, e.Block, e.Instr, e.Message)
}

// newFuncError creates a function-level TypeError.
func newFuncError(fn, format string, args ...any) *TypeError {
	return &TypeError{Func: fn, Block: -1, Instr: -1, Message: fmt.Sprintf(format, args...)}
}

// newInstrError creates a TypeError pinned to one instruction.
func newInstrError(fn string, blk, idx int, format string, args ...any) *TypeError {
	return &TypeError{Func: fn, Block: blk, Instr: idx, Message: fmt.Sprintf(format, args...)}
}
