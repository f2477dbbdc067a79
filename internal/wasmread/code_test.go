package wasmread

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brion/wasm2swf/api"
	"github.com/brion/wasm2swf/internal/ir"
)

// TestDecodeFunctionBodyIfTargetedByBranchGetsWrappedInBlock exercises the
// one case an If node has no label field of its own: a br that targets the
// if's own scope must cause the decoder to wrap the If in a named Block so
// the lowerer has somewhere to attach the label.
func TestDecodeFunctionBodyIfTargetedByBranchGetsWrappedInBlock(t *testing.T) {
	body := []byte{
		0x00,             // no local groups
		opLocalGet, 0x00, // push param 0 (the condition)
		opIf, binEmpty,
		opBr, 0x00, // br 0, targeting the if's own scope
		opEnd, // closes if
		opEnd, // closes function
	}
	fn := &ir.Function{Name: "f", Params: []api.ValueType{api.ValueTypeI32}, Result: api.ValueTypeNone}

	require.NoError(t, decodeFunctionBody(body, fn, signatureTables{}))

	outer, ok := fn.Body.(*ir.Block)
	require.True(t, ok)
	require.Len(t, outer.Children, 1)

	wrapped, ok := outer.Children[0].(*ir.Block)
	require.True(t, ok, "a branch-targeted if must be wrapped in a named Block")
	require.NotEmpty(t, wrapped.Name)
	require.Len(t, wrapped.Children, 1)

	ifNode, ok := wrapped.Children[0].(*ir.If)
	require.True(t, ok)
	_, ok = ifNode.Cond.(*ir.LocalGet)
	require.True(t, ok)

	thenBlk, ok := ifNode.Then.(*ir.Block)
	require.True(t, ok)
	require.Len(t, thenBlk.Children, 1)
	brk, ok := thenBlk.Children[0].(*ir.Break)
	require.True(t, ok)
	require.Equal(t, wrapped.Name, brk.Name)
}

// TestDecodeFunctionBodyIfNotTargetedStaysUnwrapped is the counterpart: an
// if with no branch into its own scope is emitted bare, not wrapped.
func TestDecodeFunctionBodyIfNotTargetedStaysUnwrapped(t *testing.T) {
	body := []byte{
		0x00,
		opLocalGet, 0x00,
		opIf, binEmpty,
		opNop,
		opEnd,
		opEnd,
	}
	fn := &ir.Function{Name: "f", Params: []api.ValueType{api.ValueTypeI32}, Result: api.ValueTypeNone}

	require.NoError(t, decodeFunctionBody(body, fn, signatureTables{}))

	outer := fn.Body.(*ir.Block)
	require.Len(t, outer.Children, 1)
	_, ok := outer.Children[0].(*ir.If)
	require.True(t, ok, "an untargeted if must not be wrapped in a Block")
}

// TestDecodeFunctionBodyLoopWithBrIf builds a trivial counting loop and
// checks the reconstructed Loop/Break-with-condition shape.
func TestDecodeFunctionBodyLoopWithBrIf(t *testing.T) {
	body := []byte{
		0x00,
		opLoop, binEmpty,
		opLocalGet, 0x00,
		opBrIf, 0x00, // conditional branch back to the loop's own top
		opEnd, // closes loop
		opEnd, // closes function
	}
	fn := &ir.Function{Name: "f", Params: []api.ValueType{api.ValueTypeI32}, Result: api.ValueTypeNone}

	require.NoError(t, decodeFunctionBody(body, fn, signatureTables{}))

	outer := fn.Body.(*ir.Block)
	require.Len(t, outer.Children, 1)
	loop, ok := outer.Children[0].(*ir.Loop)
	require.True(t, ok)

	loopBody, ok := loop.Body.(*ir.Block)
	require.True(t, ok)
	require.Len(t, loopBody.Children, 1)
	brk, ok := loopBody.Children[0].(*ir.Break)
	require.True(t, ok)
	require.Equal(t, loop.Name, brk.Name)
	require.NotNil(t, brk.Cond)
}

// TestDecodeFunctionBodyRejectsMultiValueStack confirms the single-trailing-
// value precondition: an instruction sequence leaving two values on a
// scope's operand stack is rejected rather than silently dropped.
func TestDecodeFunctionBodyRejectsMultiValueStack(t *testing.T) {
	body := []byte{
		0x00,
		opI32Const, 0x01,
		opI32Const, 0x02,
		opEnd,
	}
	fn := &ir.Function{Name: "f", Result: api.ValueTypeI32}
	err := decodeFunctionBody(body, fn, signatureTables{})
	require.Error(t, err)
}

// TestDecodeFunctionBodyCallIndirectResolvesSignature checks call_indirect
// decoding pops target then operands, in reverse stack order, and resolves
// the declared function type's result.
func TestDecodeFunctionBodyCallIndirectResolvesSignature(t *testing.T) {
	body := []byte{
		0x00,
		opLocalGet, 0x00, // arg
		opLocalGet, 0x01, // table index (the call target)
		opCallIndirect, 0x00, 0x00, // type index 0, table index 0 (reserved)
		opEnd,
	}
	sig := signatureTables{types: []funcType{{params: []api.ValueType{api.ValueTypeI32}, results: []api.ValueType{api.ValueTypeI32}}}}
	fn := &ir.Function{Name: "f", Params: []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, Result: api.ValueTypeI32}

	require.NoError(t, decodeFunctionBody(body, fn, sig))
	outer := fn.Body.(*ir.Block)
	ret := outer.Children[0].(*ir.Return)
	ci, ok := ret.Value.(*ir.CallIndirect)
	require.True(t, ok)
	require.Len(t, ci.Operands, 1)
	target, ok := ci.Target.(*ir.LocalGet)
	require.True(t, ok)
	require.EqualValues(t, 1, target.Index)
}
