package watdump

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brion/wasm2swf/api"
	"github.com/brion/wasm2swf/internal/ir"
)

func TestWriteModuleRendersAddFunction(t *testing.T) {
	mod := &ir.Module{
		Functions: []*ir.Function{{
			Name:   "add",
			Params: []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
			Result: api.ValueTypeI32,
			Body: &ir.Block{Name: "L0", Children: []ir.Expr{
				&ir.Return{Value: &ir.Binary{
					Op:    ir.OpAdd,
					Left:  &ir.LocalGet{Index: 0, Typ: api.ValueTypeI32},
					Right: &ir.LocalGet{Index: 1, Typ: api.ValueTypeI32},
					Typ:   api.ValueTypeI32,
				}},
			}},
		}},
	}

	var b strings.Builder
	require.NoError(t, WriteModule(&b, mod))
	out := b.String()

	require.Contains(t, out, "(func $add")
	require.Contains(t, out, "(param $0 i32)")
	require.Contains(t, out, "(result i32)")
	require.Contains(t, out, "(return (binary.add (local.get 0) (local.get 1)))")
}

func TestWriteModuleRendersImportedFunction(t *testing.T) {
	mod := &ir.Module{
		Functions: []*ir.Function{{Name: "log", Module: "env", Base: "log", Imported: true, Result: api.ValueTypeNone}},
	}
	var b strings.Builder
	require.NoError(t, WriteModule(&b, mod))
	require.Contains(t, b.String(), `(func $log (import "env" "log"))`)
}

func TestWriteModuleRendersUnreachableAndNop(t *testing.T) {
	mod := &ir.Module{
		Functions: []*ir.Function{
			{Name: "trap", Result: api.ValueTypeNone, Body: &ir.Unreachable{}},
			{Name: "noop", Result: api.ValueTypeNone, Body: &ir.Nop{}},
		},
	}
	var b strings.Builder
	require.NoError(t, WriteModule(&b, mod))
	out := b.String()
	require.Contains(t, out, "(unreachable)")
	require.Contains(t, out, "(nop)")
}

func TestWriteModuleRendersMemoryGlobalsImportsExports(t *testing.T) {
	mod := &ir.Module{
		Globals: []*ir.Global{{Name: "g0", Typ: api.ValueTypeI32, Mutable: true, Init: &ir.Const{Typ: api.ValueTypeI32, I32: 7}}},
		Imports: []ir.Import{{Module: "env", Base: "f", Kind: api.ExternTypeFunc}},
		Exports: []ir.Export{{Name: "main", Kind: api.ExternTypeFunc, Target: "main"}},
		Functions: []*ir.Function{{
			Name: "main", Result: api.ValueTypeNone,
			Body: &ir.Return{},
		}},
	}
	mod.Memory.InitialPages = 2
	mod.Memory.Segments = []ir.MemorySegment{{ByteOffset: 0, Bytes: []byte("hi")}}
	mod.Table.Segments = []ir.TableSegment{{Offset: 0, FunctionNames: []string{"main"}}}

	var b strings.Builder
	require.NoError(t, WriteModule(&b, mod))
	out := b.String()

	require.Contains(t, out, "(memory 2)")
	require.Contains(t, out, `(global $g0 (mut i32) (i32.const 7))`)
	require.Contains(t, out, `(import "env" "f" (func))`)
	require.Contains(t, out, `(export "main" (func main))`)
	require.Contains(t, out, "(elem (i32.const 0) $main)")
	require.Contains(t, out, "(data (i32.const 0) 2 bytes)")
}

func TestWriteModuleRendersIfWithElseAndBranches(t *testing.T) {
	mod := &ir.Module{
		Functions: []*ir.Function{{
			Name: "branchy", Params: []api.ValueType{api.ValueTypeI32}, Result: api.ValueTypeNone,
			Body: &ir.Block{Name: "L0", Children: []ir.Expr{
				&ir.If{
					Cond: &ir.LocalGet{Index: 0, Typ: api.ValueTypeI32},
					Then: &ir.Block{Children: []ir.Expr{&ir.Break{Name: "L0"}}},
					Else: &ir.Block{Children: []ir.Expr{&ir.Break{Name: "L0", Cond: &ir.LocalGet{Index: 0, Typ: api.ValueTypeI32}}}},
				},
			}},
		}},
	}
	var b strings.Builder
	require.NoError(t, WriteModule(&b, mod))
	out := b.String()
	require.Contains(t, out, "(if (local.get 0)")
	require.Contains(t, out, "(then")
	require.Contains(t, out, "(else")
	require.Contains(t, out, "(br $L0)")
	require.Contains(t, out, "(br_if $L0 (local.get 0))")
}
