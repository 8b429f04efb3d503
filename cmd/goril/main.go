package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goril-lang/goril/pkg/block"
	"github.com/goril-lang/goril/pkg/bril"
	"github.com/goril-lang/goril/pkg/check"
	"github.com/goril-lang/goril/pkg/cli"
	"github.com/goril-lang/goril/pkg/interp"
	"github.com/goril-lang/goril/pkg/logger"
	"github.com/goril-lang/goril/pkg/run"
)

// Exit codes per failure kind, so scripts can tell the stages apart.
const (
	exitUsage   = 1
	exitBuild   = 2
	exitType    = 3
	exitRuntime = 4
)

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	config, err := cli.ParseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}
	if config.ShowHelp {
		cli.PrintHelp()
		return 0
	}

	if err := logger.Init(config.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}

	var input io.Reader = os.Stdin
	if config.Path != "-" {
		f, err := os.Open(config.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitUsage
		}
		defer f.Close()
		input = f
	}

	prog, err := bril.LoadProgram(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}

	result, err := run.Run(prog, os.Stdout, run.Options{
		Args:      config.Args,
		Profile:   config.Profile,
		CheckOnly: config.CheckOnly,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCode(err)
	}

	if result.Profiled {
		fmt.Fprintf(os.Stderr, "total_dyn_inst: %d\n", result.DynInst)
	}
	return 0
}

// exitCode maps a pipeline failure to its stage's exit code.
func exitCode(err error) int {
	var buildErr *block.BuildError
	var typeErr *check.TypeError
	var runtimeErr *interp.RuntimeError
	switch {
	case errors.As(err, &buildErr):
		return exitBuild
	case errors.As(err, &typeErr):
		return exitType
	case errors.As(err, &runtimeErr):
		return exitRuntime
	default:
		return exitUsage
	}
}
