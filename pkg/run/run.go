// Package run wires the three stages together: basic-block construction,
// type checking, and interpretation. Each stage short-circuits the whole
// pipeline on its first error, and the three error kinds stay
// distinguishable for the caller via errors.As.
package run

import (
	"fmt"
	"io"

	"github.com/goril-lang/goril/pkg/block"
	"github.com/goril-lang/goril/pkg/bril"
	"github.com/goril-lang/goril/pkg/check"
	"github.com/goril-lang/goril/pkg/interp"
	"github.com/goril-lang/goril/pkg/logger"
)

// Options selects what one run does.
type Options struct {
	// Args are the string arguments handed to main.
	Args []string
	// Profile asks for the dynamic instruction count.
	Profile bool
	// CheckOnly stops after a successful type check.
	CheckOnly bool
	// MaxStackDepth overrides the call stack limit when positive.
	MaxStackDepth int
}

// Result describes a successful run. DynInst is meaningful only when
// Profiled is set.
type Result struct {
	DynInst  int64
	Profiled bool
}

// Run takes an abstract program through build, check and (unless
// CheckOnly) execution, writing print output to out as it happens.
func Run(prog *bril.Program, out io.Writer, opts Options) (*Result, error) {
	log := logger.Get()

	bbprog, err := block.BuildProgram(prog)
	if err != nil {
		return nil, fmt.Errorf("failed to build basic blocks: %w", err)
	}
	log.Debug("Basic blocks built", "functions", len(bbprog.Funcs))

	if err := check.Check(bbprog); err != nil {
		return nil, fmt.Errorf("type check failed: %w", err)
	}
	log.Debug("Type check passed")

	if opts.CheckOnly {
		return &Result{}, nil
	}

	it := interp.New(bbprog, out)
	if opts.MaxStackDepth > 0 {
		it.SetMaxStackDepth(opts.MaxStackDepth)
	}
	count, err := it.Run(opts.Args)
	if err != nil {
		return nil, fmt.Errorf("execution failed: %w", err)
	}
	return &Result{DynInst: count, Profiled: opts.Profile}, nil
}
