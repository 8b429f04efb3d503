package run

import (
	"bytes"
	"errors"
	"testing"

	"github.com/goril-lang/goril/pkg/block"
	"github.com/goril-lang/goril/pkg/bril"
	"github.com/goril-lang/goril/pkg/check"
	"github.com/goril-lang/goril/pkg/interp"
)

func constInt(dest string, v int64) bril.Instruction {
	return bril.Instruction{Op: bril.Const, Dest: dest, Type: bril.IntType, Value: &bril.Literal{Kind: bril.IntLit, Int: v}}
}

func addPrintProgram() *bril.Program {
	return &bril.Program{Functions: []*bril.Function{{
		Name: "main",
		Instrs: []bril.Instruction{
			constInt("a", 3),
			constInt("b", 4),
			{Op: bril.Add, Dest: "sum", Type: bril.IntType, Args: []string{"a", "b"}},
			{Op: bril.Print, Args: []string{"sum"}},
		},
	}}}
}

func TestRunExecutes(t *testing.T) {
	var out bytes.Buffer
	result, err := Run(addPrintProgram(), &out, Options{Profile: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "7\n" {
		t.Errorf("expected output %q, got %q", "7\n", out.String())
	}
	if !result.Profiled || result.DynInst != 4 {
		t.Errorf("expected a profiled count of 4, got %+v", result)
	}
}

func TestRunCheckOnlySkipsExecution(t *testing.T) {
	var out bytes.Buffer
	result, err := Run(addPrintProgram(), &out, Options{CheckOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("check-only must not execute, got output %q", out.String())
	}
	if result.Profiled {
		t.Error("check-only cannot produce a profile")
	}
}

func TestRunErrorKindsStayDistinguishable(t *testing.T) {
	t.Run("build error", func(t *testing.T) {
		prog := &bril.Program{Functions: []*bril.Function{{
			Name:   "main",
			Instrs: []bril.Instruction{{Op: bril.Jmp, Labels: []string{"nowhere"}}},
		}}}
		var out bytes.Buffer
		_, err := Run(prog, &out, Options{})
		var buildErr *block.BuildError
		if !errors.As(err, &buildErr) {
			t.Fatalf("expected a wrapped *block.BuildError, got %v", err)
		}
	})

	t.Run("type error", func(t *testing.T) {
		prog := &bril.Program{Functions: []*bril.Function{{
			Name:   "main",
			Instrs: []bril.Instruction{{Op: bril.Add, Dest: "x", Type: bril.IntType, Args: []string{"a", "b"}}},
		}}}
		var out bytes.Buffer
		_, err := Run(prog, &out, Options{})
		var typeErr *check.TypeError
		if !errors.As(err, &typeErr) {
			t.Fatalf("expected a wrapped *check.TypeError, got %v", err)
		}
	})

	t.Run("runtime error", func(t *testing.T) {
		prog := &bril.Program{Functions: []*bril.Function{{
			Name: "main",
			Instrs: []bril.Instruction{
				constInt("a", 1),
				constInt("z", 0),
				{Op: bril.Div, Dest: "q", Type: bril.IntType, Args: []string{"a", "z"}},
			},
		}}}
		var out bytes.Buffer
		_, err := Run(prog, &out, Options{})
		var runtimeErr *interp.RuntimeError
		if !errors.As(err, &runtimeErr) {
			t.Fatalf("expected a wrapped *interp.RuntimeError, got %v", err)
		}
	})
}

func TestRunTypeErrorBlocksExecution(t *testing.T) {
	// The bad call is reached only at runtime, but the checker must stop
	// the pipeline before anything executes.
	prog := &bril.Program{Functions: []*bril.Function{
		{
			Name: "main",
			Instrs: []bril.Instruction{
				constInt("a", 1),
				{Op: bril.Print, Args: []string{"a"}},
				{Op: bril.Call, Funcs: []string{"f"}, Args: []string{"a"}},
			},
		},
		{
			Name: "f",
			Args: []bril.Param{{Name: "b", Type: bril.BoolType}},
		},
	}}
	var out bytes.Buffer
	_, err := Run(prog, &out, Options{})
	if err == nil {
		t.Fatal("expected a type error")
	}
	if out.Len() != 0 {
		t.Errorf("nothing may execute when checking fails, got output %q", out.String())
	}
}

func TestRunStackDepthOption(t *testing.T) {
	prog := &bril.Program{Functions: []*bril.Function{
		{
			Name: "main",
			Instrs: []bril.Instruction{
				{Op: bril.Call, Funcs: []string{"spin"}},
			},
		},
		{
			Name: "spin",
			Instrs: []bril.Instruction{
				{Op: bril.Call, Funcs: []string{"spin"}},
			},
		},
	}}
	var out bytes.Buffer
	_, err := Run(prog, &out, Options{MaxStackDepth: 10})
	var runtimeErr *interp.RuntimeError
	if !errors.As(err, &runtimeErr) {
		t.Fatalf("expected a stack overflow, got %v", err)
	}
	if runtimeErr.Kind != interp.ErrorStackOverflow {
		t.Errorf("expected %s, got %s", interp.ErrorStackOverflow, runtimeErr.Kind)
	}
}
