package interp

import (
	"io"
	"log/slog"
	"strconv"

	"github.com/goril-lang/goril/pkg/block"
	"github.com/goril-lang/goril/pkg/bril"
	"github.com/goril-lang/goril/pkg/logger"
)

// DefaultMaxStackDepth is the call stack depth limit unless overridden.
const DefaultMaxStackDepth = 1000

// Interp executes a type-checked basic-block program. The program is
// read-only; the heap and call stack are created fresh for every Run
// and discarded at its end, so one Interp can run repeatedly with
// identical results.
type Interp struct {
	prog     *block.Program
	out      io.Writer
	maxDepth int
	log      *slog.Logger

	heap  *Heap
	count int64
}

// New creates an interpreter for prog that writes print output to out.
func New(prog *block.Program, out io.Writer) *Interp {
	return &Interp{
		prog:     prog,
		out:      out,
		maxDepth: DefaultMaxStackDepth,
		log:      logger.Get(),
	}
}

// SetMaxStackDepth overrides the call stack depth limit. Values below 1
// are ignored.
func (in *Interp) SetMaxStackDepth(n int) {
	if n >= 1 {
		in.maxDepth = n
	}
}

// frame is one function activation: its environment plus the resume
// point. dest names the caller variable that receives this activation's
// return value, or "" when the call site expects none.
type frame struct {
	fn   *block.Function
	env  map[string]Value
	blk  int
	pc   int
	dest string
}

// Run interprets the program starting at main, with args parsed against
// main's declared parameter types. It returns the dynamic instruction
// count: every instruction fetched and executed counts, control flow
// included; labels and implicit fall-through never do.
func (in *Interp) Run(args []string) (int64, error) {
	main, ok := in.prog.Funcs[block.Main]
	if !ok {
		return 0, NewRuntimeError(ErrorBadMainArgs, "no main function defined")
	}
	env, err := parseMainArgs(main.Params, args)
	if err != nil {
		return 0, err
	}

	in.heap = NewHeap()
	in.count = 0
	in.log.Debug("Execution started", "args", args)

	runErr := in.execute(&frame{fn: main, env: env})
	if runErr != nil {
		return in.count, runErr
	}
	in.log.Debug("Execution finished", "dyn_inst", in.count)
	return in.count, nil
}

// parseMainArgs converts the command-line argument strings into main's
// parameter environment. A count mismatch or an unparsable value is a
// runtime error, as is a pointer-typed parameter (nothing could supply
// one).
func parseMainArgs(params []bril.Param, args []string) (map[string]Value, error) {
	if len(args) != len(params) {
		return nil, NewRuntimeError(ErrorBadMainArgs, "main expects %d arguments, got %d", len(params), len(args))
	}
	env := make(map[string]Value, len(params))
	for i, p := range params {
		switch p.Type.Kind {
		case bril.IntKind:
			v, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				return nil, NewRuntimeError(ErrorBadMainArgs, "argument %s: %q is not an int", p.Name, args[i])
			}
			env[p.Name] = IntVal(v)
		case bril.BoolKind:
			switch args[i] {
			case "true":
				env[p.Name] = BoolVal(true)
			case "false":
				env[p.Name] = BoolVal(false)
			default:
				return nil, NewRuntimeError(ErrorBadMainArgs, "argument %s: %q is not a bool", p.Name, args[i])
			}
		case bril.FloatKind:
			v, err := strconv.ParseFloat(args[i], 64)
			if err != nil {
				return nil, NewRuntimeError(ErrorBadMainArgs, "argument %s: %q is not a float", p.Name, args[i])
			}
			env[p.Name] = FloatVal(v)
		default:
			return nil, NewRuntimeError(ErrorBadMainArgs, "argument %s: main cannot take a %s parameter", p.Name, p.Type)
		}
	}
	return env, nil
}
