// Command wasm2swf cross-compiles a WebAssembly binary into ActionScript
// Bytecode embedded in a loadable Flash SWF movie (or a raw ABC blob), per
// §6 "EXTERNAL INTERFACES" of this project's design.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/brion/wasm2swf/internal/assemble"
	"github.com/brion/wasm2swf/internal/container"
	"github.com/brion/wasm2swf/internal/ir"
	"github.com/brion/wasm2swf/internal/trace"
	"github.com/brion/wasm2swf/internal/wasmread"
	"github.com/brion/wasm2swf/internal/watdump"
)

// className names the single class this compiler synthesizes from a Wasm
// module (§4.3 "Module Assembler"); wrapperClassName names the optional
// --sprite Sprite subclass wrapping it.
const (
	className        = "Instance"
	wrapperClassName = "Wrapper"
)

func main() {
	os.Exit(doMain(os.Stdout, os.Stderr))
}

// doMain is separated out for the purpose of unit testing.
func doMain(stdOut, stdErr io.Writer) int {
	flag.CommandLine.SetOutput(stdErr)

	var help bool
	flag.BoolVar(&help, "help", false, "Prints usage.")

	var output string
	flag.StringVar(&output, "o", "", "Output `.swf` or `.abc` path (extension-dispatched).")
	flag.StringVar(&output, "output", "", "Output `.swf` or `.abc` path (extension-dispatched).")

	var sprite bool
	flag.BoolVar(&sprite, "sprite", false, "Emit a Wrapper Sprite subclass and register it as the SymbolClass.")

	var debug bool
	flag.BoolVar(&debug, "debug", false, "Emit debugfile/debugline at each expression.")

	var doTrace bool
	flag.BoolVar(&doTrace, "trace", false, "Enables lowering trace instrumentation.")

	var traceFuncs bool
	flag.BoolVar(&traceFuncs, "trace-funcs", false, "Traces function entry/exit only, not every expression.")

	var traceOnly string
	flag.StringVar(&traceOnly, "trace-only", "", "Comma-separated list of function names to trace, excluding all others.")

	var traceExclude string
	flag.StringVar(&traceExclude, "trace-exclude", "", "Comma-separated list of function names to exclude from tracing.")

	var saveWat string
	flag.StringVar(&saveWat, "save-wat", "", "Dump the decoded module as Wasm-text-flavored output alongside the compiled output.")

	flag.Parse()

	if help {
		printUsage(stdErr)
		return 0
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(stdErr, "expected exactly one positional argument: the input .wasm path")
		printUsage(stdErr)
		return 1
	}

	if output == "" {
		fmt.Fprintln(stdErr, "missing required -o/--output path")
		printUsage(stdErr)
		return 1
	}

	opt := trace.Options{
		Debug:        debug,
		Trace:        doTrace,
		TraceFuncs:   traceFuncs,
		TraceOnly:    trace.ParseList(traceOnly),
		TraceExclude: trace.ParseList(traceExclude),
	}
	if debug || doTrace || traceFuncs {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(stdErr, "error starting trace logger: %v\n", err)
			return 1
		}
		trace.SetLogger(l)
	}

	wasmPath := flag.Arg(0)
	wasmBytes, err := os.ReadFile(wasmPath)
	if err != nil {
		fmt.Fprintf(stdErr, "error reading wasm binary: %v\n", err)
		return 1
	}

	mod, err := wasmread.Decode(wasmBytes)
	if err != nil {
		fmt.Fprintf(stdErr, "error decoding wasm binary: %v\n", err)
		return 1
	}

	if saveWat != "" {
		if err := writeWat(saveWat, mod); err != nil {
			fmt.Fprintf(stdErr, "error writing --save-wat output: %v\n", err)
			return 1
		}
	}

	a := assemble.NewAssembler(mod, opt)
	if err := a.Assemble(); err != nil {
		fmt.Fprintf(stdErr, "error lowering wasm module: %v\n", err)
		return 1
	}

	wrapper := ""
	symbolClass := className
	if sprite {
		wrapper = wrapperClassName
		symbolClass = wrapperClassName
	}
	abcBytes, err := container.BuildABCFile(className, a.Trts, a.IInit, a.CInit, wrapper)
	if err != nil {
		fmt.Fprintf(stdErr, "error assembling ABC file: %v\n", err)
		return 1
	}

	out := abcBytes
	if strings.EqualFold(filepath.Ext(output), ".swf") {
		out, err = container.BuildSWF(abcBytes, container.SWFOptions{Sprite: symbolClass})
		if err != nil {
			fmt.Fprintf(stdErr, "error building swf: %v\n", err)
			return 1
		}
	}

	if err := os.WriteFile(output, out, 0o644); err != nil {
		fmt.Fprintf(stdErr, "error writing output: %v\n", err)
		return 1
	}

	return 0
}

func writeWat(path string, mod *ir.Module) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return watdump.WriteModule(f, mod)
}

func printUsage(stdErr io.Writer) {
	fmt.Fprintln(stdErr, "wasm2swf")
	fmt.Fprintln(stdErr)
	fmt.Fprintln(stdErr, "Usage:\n  wasm2swf <options> <path to wasm file>")
	fmt.Fprintln(stdErr)
	fmt.Fprintln(stdErr, "Options:")
	flag.PrintDefaults()
}
