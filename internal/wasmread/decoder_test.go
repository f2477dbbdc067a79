package wasmread

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brion/wasm2swf/api"
	"github.com/brion/wasm2swf/internal/ir"
)

// encodeU32 LEB128-encodes an unsigned value, the same shape reader.varU32
// decodes (section sizes, vector counts, indices).
func encodeU32(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}

// encodeI32 LEB128-encodes a signed value (i32.const payloads, offset exprs).
func encodeI32(v int32) []byte {
	var out []byte
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			more = false
		} else {
			b |= 0x80
		}
		out = append(out, b)
	}
	return out
}

func encodeName(s string) []byte {
	return append(encodeU32(uint32(len(s))), []byte(s)...)
}

func section(id SectionID, body []byte) []byte {
	return append([]byte{byte(id)}, append(encodeU32(uint32(len(body))), body...)...)
}

// minimalModule assembles a full binary from a magic/version header plus an
// ordered list of already-section-wrapped bodies.
func minimalModule(sections ...[]byte) []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	for _, s := range sections {
		out = append(out, s...)
	}
	return out
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, err := Decode([]byte{0x00, 0x01, 0x02, 0x03, 0x01, 0x00, 0x00, 0x00})
	require.Error(t, err)
}

func TestDecodeRejectsUnsupportedVersion(t *testing.T) {
	_, err := Decode([]byte{0x00, 0x61, 0x73, 0x6d, 0x02, 0x00, 0x00, 0x00})
	require.Error(t, err)
}

// TestDecodeMinimalFunctionWithExport builds a module with one type, one
// defined function (i32, i32) -> i32 returning the sum of its params, and an
// export, then checks Decode reconstructs the expected IR shape end to end.
func TestDecodeMinimalFunctionWithExport(t *testing.T) {
	typeSec := section(SectionIDType, append(encodeU32(1),
		append([]byte{funcTypeForm},
			append(append(encodeU32(2), binI32, binI32), append(encodeU32(1), binI32)...)...)...))

	funcSec := section(SectionIDFunction, append(encodeU32(1), encodeU32(0)...))

	body := append(encodeU32(0), // no local groups
		opLocalGet, 0x00,
		opLocalGet, 0x01,
		opI32Add,
		opEnd,
	)
	codeSec := section(SectionIDCode, append(encodeU32(1), append(encodeU32(uint32(len(body))), body...)...))

	exportSec := section(SectionIDExport, append(encodeU32(1),
		append(encodeName("add"), append([]byte{byte(api.ExternTypeFunc)}, encodeU32(0)...)...)...))

	mod, err := Decode(minimalModule(typeSec, funcSec, exportSec, codeSec))
	require.NoError(t, err)
	require.Len(t, mod.Functions, 1)

	fn := mod.Functions[0]
	require.Equal(t, []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, fn.Params)
	require.Equal(t, api.ValueTypeI32, fn.Result)

	blk, ok := fn.Body.(*ir.Block)
	require.True(t, ok)
	require.Len(t, blk.Children, 1)
	ret, ok := blk.Children[0].(*ir.Return)
	require.True(t, ok)
	bin, ok := ret.Value.(*ir.Binary)
	require.True(t, ok)
	require.Equal(t, ir.OpAdd, bin.Op)

	require.Len(t, mod.Exports, 1)
	require.Equal(t, "add", mod.Exports[0].Name)
	require.Equal(t, fn.Name, mod.Exports[0].Target)
}

func TestDecodeRejectsMultipleTables(t *testing.T) {
	limitsBytes := append([]byte{0x00}, encodeU32(0)...)
	tableSec := section(SectionIDTable, append(encodeU32(2),
		append(append([]byte{binFuncRef}, limitsBytes...), append([]byte{binFuncRef}, limitsBytes...)...)...))

	_, err := Decode(minimalModule(tableSec))
	require.Error(t, err)
	var pe *PreconditionError
	require.ErrorAs(t, err, &pe)
}

func TestDecodeRejectsImportedTable(t *testing.T) {
	imp := append(encodeName("env"), encodeName("t")...)
	imp = append(imp, byte(api.ExternTypeTable), binFuncRef, 0x00)
	imp = append(imp, encodeU32(0)...)
	importSec := section(SectionIDImport, append(encodeU32(1), imp...))

	_, err := Decode(minimalModule(importSec))
	require.Error(t, err)
	var pe *PreconditionError
	require.ErrorAs(t, err, &pe)
}

func TestDecodeDataSegmentAndMemory(t *testing.T) {
	memSec := section(SectionIDMemory, append(encodeU32(1), append([]byte{0x00}, encodeU32(1)...)...))

	offsetExpr := append([]byte{opI32Const}, append(encodeI32(16), opEnd)...)
	dataBody := append(encodeU32(0), offsetExpr...) // memory index 0
	dataBody = append(dataBody, append(encodeU32(5), []byte("hello")...)...)
	dataSec := section(SectionIDData, append(encodeU32(1), dataBody...))

	mod, err := Decode(minimalModule(memSec, dataSec))
	require.NoError(t, err)
	require.EqualValues(t, 1, mod.Memory.InitialPages)
	require.Len(t, mod.Memory.Segments, 1)
	require.EqualValues(t, 16, mod.Memory.Segments[0].ByteOffset)
	require.Equal(t, "hello", string(mod.Memory.Segments[0].Bytes))
}

func TestDecodeNameSectionAssignsFunctionNames(t *testing.T) {
	typeSec := section(SectionIDType, append(encodeU32(1),
		append([]byte{funcTypeForm}, append(encodeU32(0), encodeU32(0)...)...)...))
	funcSec := section(SectionIDFunction, append(encodeU32(1), encodeU32(0)...))
	body := append(encodeU32(0), opEnd)
	codeSec := section(SectionIDCode, append(encodeU32(1), append(encodeU32(uint32(len(body))), body...)...))

	funcNamePayload := append(encodeU32(1), append(encodeU32(0), encodeName("hello")...)...)
	nameBody := append([]byte{nameSubsectionFunction},
		append(encodeU32(uint32(len(funcNamePayload))), funcNamePayload...)...)
	customBody := append(encodeName("name"), nameBody...)
	customSec := section(SectionIDCustom, customBody)

	mod, err := Decode(minimalModule(typeSec, funcSec, customSec, codeSec))
	require.NoError(t, err)
	require.Len(t, mod.Functions, 1)
	require.Equal(t, "hello", mod.Functions[0].Name)
}
