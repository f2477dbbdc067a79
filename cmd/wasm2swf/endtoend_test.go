package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brion/wasm2swf/api"
	"github.com/brion/wasm2swf/internal/abc"
	"github.com/brion/wasm2swf/internal/assemble"
	"github.com/brion/wasm2swf/internal/container"
	"github.com/brion/wasm2swf/internal/ir"
	"github.com/brion/wasm2swf/internal/trace"
)

// disasmFunc runs the reader-shaped module through the lowerer and assembler
// and returns the disassembled body of the named function's method trait.
// There is no AVM2 VM in this project's dependency graph (a Non-goal), so
// these end-to-end scenarios assert on the emitted instruction shape rather
// than on an executed result.
func disasmFunc(t *testing.T, mod *ir.Module, funcName string) (string, *assemble.Assembler) {
	t.Helper()
	a := assemble.NewAssembler(mod, trace.Options{})
	require.NoError(t, a.Assemble())
	trait := findTrait(t, a, "func$"+funcName)
	return abc.Disassemble(trait.Method), a
}

func findTrait(t *testing.T, a *assemble.Assembler, name string) abc.Trait {
	t.Helper()
	for _, tr := range a.Trts.All() {
		if tr.Name == name {
			return tr
		}
	}
	t.Fatalf("no trait named %q", name)
	return abc.Trait{}
}

// Scenario 1: sample_add_i32/f32/f64 each add their two parameters and
// return the sum (§8 "sample.wasm").
func TestEndToEndSampleAdd(t *testing.T) {
	for _, tc := range []struct {
		name string
		typ  api.ValueType
	}{
		{"sample_add_i32", api.ValueTypeI32},
		{"sample_add_f32", api.ValueTypeF32},
		{"sample_add_f64", api.ValueTypeF64},
	} {
		mod := &ir.Module{
			Functions: []*ir.Function{{
				Name:   tc.name,
				Params: []api.ValueType{tc.typ, tc.typ},
				Result: tc.typ,
				Body: &ir.Return{Value: &ir.Binary{
					Op:    ir.OpAdd,
					Left:  &ir.LocalGet{Index: 0, Typ: tc.typ},
					Right: &ir.LocalGet{Index: 1, Typ: tc.typ},
					Typ:   tc.typ,
				}},
			}},
		}
		out, _ := disasmFunc(t, mod, tc.name)
		require.Contains(t, out, "add")
		require.Contains(t, out, "returnvalue")
	}
}

// Scenario 2: memory_grow(1) calls the memory_grow helper, and
// memory_size() calls memory_size — the two runtime helpers §4.3 wires up
// to keep domainMemory and wasm$memory in sync on growth.
func TestEndToEndMemoryGrowth(t *testing.T) {
	mod := &ir.Module{
		Functions: []*ir.Function{{
			Name:   "grow_then_size",
			Result: api.ValueTypeI32,
			Body: &ir.Block{Name: "L0", Children: []ir.Expr{
				&ir.Drop{Value: &ir.Host{Op: ir.HostMemoryGrow, Argument: &ir.Const{Typ: api.ValueTypeI32, I32: 1}}},
				&ir.Return{Value: &ir.Host{Op: ir.HostMemorySize}},
			}},
		}},
	}
	mod.Memory.InitialPages = 256
	out, _ := disasmFunc(t, mod, "grow_then_size")
	require.Contains(t, out, `"memory_grow"`)
	require.Contains(t, out, `"memory_size"`)
}

// Scenario 3: an indirect call through a side-effecting target (a local.tee
// bumping a counter) evaluates operands and target exactly once each, left
// to right, via the temporary-stashing path in emitCallIndirect (§4.1.6).
func TestEndToEndIndirectCallSideEffectingTarget(t *testing.T) {
	counterBump := &ir.LocalSet{
		Index: 2,
		IsTee: true,
		Typ:   api.ValueTypeI32,
		Value: &ir.Binary{Op: ir.OpAdd, Left: &ir.LocalGet{Index: 2, Typ: api.ValueTypeI32}, Right: &ir.Const{Typ: api.ValueTypeI32, I32: 1}, Typ: api.ValueTypeI32},
	}
	mod := &ir.Module{
		Functions: []*ir.Function{{
			Name:   "call_through_table",
			Params: []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
			Locals: []api.ValueType{api.ValueTypeI32},
			Result: api.ValueTypeI32,
			Body: &ir.Return{Value: &ir.CallIndirect{
				Target:     counterBump,
				Operands:   []ir.Expr{&ir.LocalGet{Index: 0, Typ: api.ValueTypeI32}, &ir.LocalGet{Index: 1, Typ: api.ValueTypeI32}},
				ResultType: api.ValueTypeI32,
			}},
		}},
	}
	mod.Table.Segments = []ir.TableSegment{{Offset: 0, FunctionNames: nil}}
	out, _ := disasmFunc(t, mod, "call_through_table")
	setlocalIdx := strings.Index(out, "setlocal")
	callIdx := strings.Index(out, "call ")
	require.NotEqual(t, -1, setlocalIdx)
	require.NotEqual(t, -1, callIdx)
	require.Less(t, setlocalIdx, callIdx, "side-effecting target must be evaluated into a temporary before the call opcode")
}

// Scenario 4: a data segment [byteOffset=16, bytes="hello"] is installed by
// the instance initializer, reattaching domainMemory so later li8 reads
// succeed.
func TestEndToEndDataSegmentInit(t *testing.T) {
	mod := &ir.Module{
		Functions: []*ir.Function{{Name: "noop", Result: api.ValueTypeNone, Body: &ir.Return{}}},
	}
	mod.Memory.InitialPages = 1
	mod.Memory.Segments = []ir.MemorySegment{{ByteOffset: 16, Bytes: []byte("hello")}}

	a := assemble.NewAssembler(mod, trace.Options{})
	require.NoError(t, a.Assemble())
	out := abc.Disassemble(a.IInit)
	require.Contains(t, out, `"memory_init"`)
	require.Contains(t, out, " 16\n")
	require.Contains(t, out, `"hello"`)
	require.Equal(t, 0, a.IInit.StackDepth(), "instance init must leave the stack balanced")
}

// Scenario 5: an unsigned comparison (0xFFFFFFFF < 1u) lowers through the
// convert_u framing that makes AVM2's signed compare behave unsigned.
func TestEndToEndUnsignedComparison(t *testing.T) {
	mod := &ir.Module{
		Functions: []*ir.Function{{
			Name:   "unsigned_lt",
			Result: api.ValueTypeI32,
			Body: &ir.Return{Value: &ir.Binary{
				Op:    ir.OpLtU,
				Left:  &ir.Const{Typ: api.ValueTypeI32, I32: -1}, // 0xFFFFFFFF
				Right: &ir.Const{Typ: api.ValueTypeI32, I32: 1},
				Typ:   api.ValueTypeI32,
			}},
		}},
	}
	out, _ := disasmFunc(t, mod, "unsigned_lt")
	require.Contains(t, out, "convert_u")
	require.Contains(t, out, "convert_i")
}

// Scenario 6: a function whose entire body is Unreachable throws an Error
// at runtime (§4.1.1).
func TestEndToEndUnreachableThrows(t *testing.T) {
	mod := &ir.Module{
		Functions: []*ir.Function{{
			Name:   "always_traps",
			Result: api.ValueTypeNone,
			Body:   &ir.Unreachable{},
		}},
	}
	out, _ := disasmFunc(t, mod, "always_traps")
	require.Contains(t, out, "findpropstrict")
	require.Contains(t, out, `"Error"`)
	require.Contains(t, out, `"unreachable"`)
	require.Contains(t, out, "throw")
}

// A minimal smoke test that the whole reader-less pipeline (hand-built IR
// straight into the assembler and container) produces a loadable SWF byte
// stream, exercising the same wiring cmd/wasm2swf's doMain uses.
func TestEndToEndProducesSWFBytes(t *testing.T) {
	mod := &ir.Module{
		Functions: []*ir.Function{{Name: "main", Result: api.ValueTypeNone, Body: &ir.Return{}}},
		Exports:   []ir.Export{{Name: "main", Kind: api.ExternTypeFunc, Target: "main"}},
	}
	a := assemble.NewAssembler(mod, trace.Options{})
	require.NoError(t, a.Assemble())

	abcBytes, err := container.BuildABCFile(className, a.Trts, a.IInit, a.CInit, "")
	require.NoError(t, err)
	require.NotEmpty(t, abcBytes)

	swfBytes, err := container.BuildSWF(abcBytes, container.SWFOptions{Sprite: className})
	require.NoError(t, err)
	require.Equal(t, "FWS", string(swfBytes[:3]))
}
