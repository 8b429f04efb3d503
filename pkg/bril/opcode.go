package bril

// Opcode names one operation of the Bril instruction set. The set is
// closed by the language definition; the checker and the interpreter
// both dispatch over it with exhaustive switches.
type Opcode string

// The core instruction set, plus the floating-point and memory extensions.
const (
	// Const binds a literal value to a destination.
	Const Opcode = "const"

	// Integer arithmetic. Div traps on a zero divisor.
	Add Opcode = "add"
	Sub Opcode = "sub"
	Mul Opcode = "mul"
	Div Opcode = "div"

	// Integer comparison; all produce bool.
	Eq Opcode = "eq"
	Lt Opcode = "lt"
	Gt Opcode = "gt"
	Le Opcode = "le"
	Ge Opcode = "ge"

	// Boolean logic.
	Not Opcode = "not"
	And Opcode = "and"
	Or  Opcode = "or"

	// Floating-point arithmetic; IEEE semantics, no trapping.
	Fadd Opcode = "fadd"
	Fsub Opcode = "fsub"
	Fmul Opcode = "fmul"
	Fdiv Opcode = "fdiv"

	// Floating-point comparison; all produce bool.
	Feq Opcode = "feq"
	Flt Opcode = "flt"
	Fgt Opcode = "fgt"
	Fle Opcode = "fle"
	Fge Opcode = "fge"

	// Control flow.
	Jmp  Opcode = "jmp"
	Br   Opcode = "br"
	Call Opcode = "call"
	Ret  Opcode = "ret"

	// Misc.
	Id    Opcode = "id"
	Print Opcode = "print"
	Nop   Opcode = "nop"

	// Memory extension.
	Alloc  Opcode = "alloc"
	Free   Opcode = "free"
	Store  Opcode = "store"
	Load   Opcode = "load"
	PtrAdd Opcode = "ptradd"
)
