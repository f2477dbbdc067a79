package wasmread

import (
	"encoding/binary"
	"fmt"

	"github.com/brion/wasm2swf/api"
	"github.com/brion/wasm2swf/internal/ir"
)

const binaryVersion = 1

var magic = [4]byte{0x00, 0x61, 0x73, 0x6d}

// Decode parses a binary Wasm module into this project's IR. It assumes the
// input has already been through flatten/i64-lowering/optimize and enforces
// the preconditions that assumption implies: a single linear memory, a
// single function table addressed by 32-bit index, function and global
// imports only (an imported table or memory would leave wasm$table/
// wasm$memory disconnected from the actual imported object, since those are
// always locally constructed by the instance initializer), and i64 nowhere
// a value type is declared.
func Decode(data []byte) (*ir.Module, error) {
	r := &reader{buf: data}
	hdr, err := r.bytes(8)
	if err != nil {
		return nil, fmt.Errorf("wasmread: %w", err)
	}
	if hdr[0] != magic[0] || hdr[1] != magic[1] || hdr[2] != magic[2] || hdr[3] != magic[3] {
		return nil, fmt.Errorf("wasmread: not a wasm binary (bad magic number)")
	}
	if v := binary.LittleEndian.Uint32(hdr[4:8]); v != binaryVersion {
		return nil, fmt.Errorf("wasmread: unsupported binary version %d", v)
	}

	var (
		types        []funcType
		imports      []rawImport
		definedTypes []uint32
		tableCount   int
		memPages     []uint32
		globals      []rawGlobal
		exports      []rawExport
		elements     []rawElement
		codeBodies   [][]byte
		dataSegs     []ir.MemorySegment
		funcNames    = map[uint32]string{}
	)

	for !r.done() {
		idByte, err := r.byte()
		if err != nil {
			return nil, fmt.Errorf("wasmread: section id: %w", err)
		}
		id := SectionID(idByte)
		size, err := r.varU32()
		if err != nil {
			return nil, fmt.Errorf("wasmread: %s section size: %w", SectionIDName(id), err)
		}
		body, err := r.bytes(int(size))
		if err != nil {
			return nil, fmt.Errorf("wasmread: %s section body: %w", SectionIDName(id), err)
		}
		sr := &reader{buf: body}

		switch id {
		case SectionIDCustom:
			name, nerr := sr.name()
			if nerr != nil {
				return nil, fmt.Errorf("wasmread: custom section name: %w", nerr)
			}
			if name == "name" {
				funcNames, err = decodeNameSection(body[sr.pos:])
			}
		case SectionIDType:
			types, err = decodeTypeSection(sr)
		case SectionIDImport:
			imports, err = decodeImportSection(sr)
		case SectionIDFunction:
			definedTypes, err = decodeFunctionSection(sr)
		case SectionIDTable:
			tableCount, err = decodeTableSection(sr)
		case SectionIDMemory:
			memPages, err = decodeMemorySection(sr)
		case SectionIDGlobal:
			globals, err = decodeGlobalSection(sr)
		case SectionIDExport:
			exports, err = decodeExportSection(sr)
		case SectionIDStart:
			_, err = sr.varU32()
		case SectionIDElement:
			elements, err = decodeElementSection(sr)
		case SectionIDCode:
			codeBodies, err = decodeCodeSection(sr)
		case SectionIDData:
			dataSegs, err = decodeDataSection(sr)
		default:
			err = fmt.Errorf("unrecognized section id %d", idByte)
		}
		if err != nil {
			return nil, err
		}
	}

	if tableCount > 1 {
		return nil, newPreconditionError("module declares %d tables, only 0 or 1 is supported", tableCount)
	}
	if len(memPages) > 1 {
		return nil, newPreconditionError("module declares %d memories, only 0 or 1 is supported", len(memPages))
	}
	if len(definedTypes) != len(codeBodies) {
		return nil, fmt.Errorf("wasmread: function section declares %d functions but code section has %d bodies", len(definedTypes), len(codeBodies))
	}

	for i, imp := range imports {
		if imp.kind == api.ExternTypeTable || imp.kind == api.ExternTypeMemory {
			return nil, newPreconditionError("import %d (%s.%s): imported %s is not supported", i, imp.module, imp.field, api.ExternTypeName(imp.kind))
		}
	}

	mod := &ir.Module{}

	// Function index space: imported functions first, then defined ones.
	var allFuncNames []string
	var allFuncTypeIdx []uint32
	nextFuncIdx := uint32(0)

	for _, imp := range imports {
		if imp.kind != api.ExternTypeFunc {
			continue
		}
		name := funcNameFor(funcNames, nextFuncIdx)
		if int(imp.typeIdx) >= len(types) {
			return nil, fmt.Errorf("wasmread: import %s.%s: type index %d out of range", imp.module, imp.field, imp.typeIdx)
		}
		ft := types[imp.typeIdx]
		result, rerr := ft.result()
		if rerr != nil {
			return nil, fmt.Errorf("wasmread: import %s.%s: %w", imp.module, imp.field, rerr)
		}
		mod.Functions = append(mod.Functions, &ir.Function{
			Name:     name,
			Module:   imp.module,
			Base:     imp.field,
			Imported: true,
			Params:   ft.params,
			Result:   result,
		})
		allFuncNames = append(allFuncNames, name)
		allFuncTypeIdx = append(allFuncTypeIdx, imp.typeIdx)
		mod.Imports = append(mod.Imports, ir.Import{Module: imp.module, Base: imp.field, Kind: imp.kind, FunctionName: name})
		nextFuncIdx++
	}
	for _, imp := range imports {
		if imp.kind == api.ExternTypeGlobal {
			mod.Imports = append(mod.Imports, ir.Import{Module: imp.module, Base: imp.field, Kind: imp.kind})
		}
	}

	definedFuncStart := nextFuncIdx
	for j, typeIdx := range definedTypes {
		name := funcNameFor(funcNames, nextFuncIdx)
		if int(typeIdx) >= len(types) {
			return nil, fmt.Errorf("wasmread: function %d: type index %d out of range", j, typeIdx)
		}
		ft := types[typeIdx]
		result, rerr := ft.result()
		if rerr != nil {
			return nil, fmt.Errorf("wasmread: function %q: %w", name, rerr)
		}
		fn := &ir.Function{Name: name, Params: ft.params, Result: result}
		mod.Functions = append(mod.Functions, fn)
		allFuncNames = append(allFuncNames, name)
		allFuncTypeIdx = append(allFuncTypeIdx, typeIdx)
		nextFuncIdx++
	}

	// Global index space: imported globals first, then defined ones. Only
	// defined globals are kept in mod.Globals (§3's constant-initializer
	// list); imported globals are visible to code decoding via the name
	// table below but never gain a populated value (DESIGN.md open
	// question).
	var allGlobalNames []string
	var allGlobalTypes []api.ValueType
	nextGlobalIdx := uint32(0)
	for _, imp := range imports {
		if imp.kind != api.ExternTypeGlobal {
			continue
		}
		name := fmt.Sprintf("g%d", nextGlobalIdx)
		allGlobalNames = append(allGlobalNames, name)
		allGlobalTypes = append(allGlobalTypes, imp.globalType)
		nextGlobalIdx++
	}
	for _, g := range globals {
		name := fmt.Sprintf("g%d", nextGlobalIdx)
		allGlobalNames = append(allGlobalNames, name)
		allGlobalTypes = append(allGlobalTypes, g.typ)
		mod.Globals = append(mod.Globals, &ir.Global{Name: name, Typ: g.typ, Mutable: g.mutable, Init: g.init})
		nextGlobalIdx++
	}

	sig := signatureTables{
		funcNames:   allFuncNames,
		funcTypeIdx: allFuncTypeIdx,
		types:       types,
		globalNames: allGlobalNames,
		globalTypes: allGlobalTypes,
	}

	// Decode bodies for the defined functions only, positionally matched to
	// the function section and code section.
	for j, body := range codeBodies {
		fn := mod.Functions[int(definedFuncStart)+j]
		if err := decodeFunctionBody(body, fn, sig); err != nil {
			return nil, err
		}
	}

	if len(memPages) == 1 {
		mod.Memory.InitialPages = memPages[0]
	}
	mod.Memory.Segments = dataSegs

	for _, el := range elements {
		names := make([]string, len(el.funcIdx))
		for i, idx := range el.funcIdx {
			if int(idx) >= len(allFuncNames) {
				return nil, fmt.Errorf("wasmread: element segment: function index %d out of range", idx)
			}
			names[i] = allFuncNames[idx]
		}
		mod.Table.Segments = append(mod.Table.Segments, ir.TableSegment{Offset: el.offset, FunctionNames: names})
	}

	for i, exp := range exports {
		out := ir.Export{Name: exp.name, Kind: exp.kind}
		switch exp.kind {
		case api.ExternTypeFunc:
			if int(exp.index) >= len(allFuncNames) {
				return nil, fmt.Errorf("wasmread: export %d (%s): function index %d out of range", i, exp.name, exp.index)
			}
			out.Target = allFuncNames[exp.index]
		case api.ExternTypeGlobal:
			if int(exp.index) >= len(allGlobalNames) {
				return nil, fmt.Errorf("wasmread: export %d (%s): global index %d out of range", i, exp.name, exp.index)
			}
			if exp.index < nextGlobalIdx-uint32(len(globals)) {
				return nil, newPreconditionError("export %q: exporting an imported global is not supported", exp.name)
			}
			out.Target = allGlobalNames[exp.index]
		case api.ExternTypeMemory, api.ExternTypeTable:
			// no target name: the single memory/table is unambiguous.
		default:
			return nil, fmt.Errorf("wasmread: export %d (%s): unrecognized kind %#x", i, exp.name, exp.kind)
		}
		mod.Exports = append(mod.Exports, out)
	}

	return mod, nil
}

func funcNameFor(names map[uint32]string, idx uint32) string {
	if n, ok := names[idx]; ok && n != "" {
		return n
	}
	return fmt.Sprintf("f%d", idx)
}
