package assemble

import (
	"github.com/brion/wasm2swf/api"
	"github.com/brion/wasm2swf/internal/abc"
	"github.com/brion/wasm2swf/internal/ir"
)

// synthesizeInstanceInit builds the instance initializer (§4.3): coerce the
// receiver via constructsuper, assign every global's constant initializer,
// construct the backing memory ByteArray and attach it as domain memory,
// run memory_init once per data segment, populate the function table from
// table segments, copy imports from the constructor's imports object into
// their slots, and build the exports object.
func (a *Assembler) synthesizeInstanceInit() *abc.MethodBuilder {
	b := abc.NewMethodBuilder(1) // local1 = imports object

	b.EmitGetLocal(0)
	b.EmitConstructSuper(0)

	for _, g := range a.mod.Globals {
		b.EmitGetLocal(0)
		emitConstValue(b, g.Init)
		b.EmitSetProperty(a.globalTraits[g.Name])
	}

	b.EmitGetLocal(0)
	b.EmitFindPropStrict("ByteArray")
	b.EmitConstruct(0)
	b.EmitSetProperty(traitMemory)

	b.EmitGetLocal(0)
	b.EmitGetProperty(traitMemory)
	b.EmitPushInt(int32(a.mod.Memory.InitialPages * pageSize))
	b.EmitSetProperty("length")

	reattachDomainMemory(b)

	for _, seg := range a.mod.Memory.Segments {
		b.EmitGetLocal(0)
		b.EmitPushInt(int32(seg.ByteOffset))
		b.EmitPushString(bytesToLatin1(seg.Bytes))
		b.EmitCallProperty(helperMemoryInit, 2, true)
	}

	b.EmitGetLocal(0)
	b.EmitFindPropStrict("Array")
	b.EmitConstruct(0)
	b.EmitSetProperty(traitTable)

	for _, seg := range a.mod.Table.Segments {
		for i, fnName := range seg.FunctionNames {
			b.EmitGetLocal(0)
			b.EmitGetProperty(traitTable)
			b.EmitPushInt(int32(seg.Offset) + int32(i))
			b.EmitGetLocal(0)
			trait, _ := a.CallTarget(fnName)
			b.EmitGetProperty(trait)
			b.EmitSetProperty("")
		}
	}

	for _, imp := range a.mod.Imports {
		b.EmitGetLocal(0)
		b.EmitGetLocal(1)
		b.EmitGetProperty(imp.Module)
		b.EmitGetProperty(imp.Base)
		b.EmitSetProperty(a.importTraits[imp.Module+"$"+imp.Base])
	}

	b.EmitGetLocal(0)
	for _, exp := range a.mod.Exports {
		b.EmitPushString(exp.Name)
		b.EmitGetLocal(0)
		b.EmitGetProperty(a.exportTrait(exp))
	}
	b.EmitNewObject(len(a.mod.Exports))
	b.EmitSetProperty(traitExports)

	b.EmitReturnVoid()
	return b
}

// synthesizeClassInit builds the (empty) class initializer (§4.3 "Class
// initializer: empty").
func synthesizeClassInit() *abc.MethodBuilder {
	b := abc.NewMethodBuilder(0)
	b.EmitReturnVoid()
	return b
}

// exportTrait resolves the instance-trait name backing an export (§6
// "Exports object shape").
func (a *Assembler) exportTrait(exp ir.Export) string {
	switch exp.Kind {
	case api.ExternTypeFunc:
		trait, _ := a.CallTarget(exp.Target)
		return trait
	case api.ExternTypeGlobal:
		return a.globalTraits[exp.Target]
	case api.ExternTypeMemory:
		return traitMemory
	case api.ExternTypeTable:
		return traitTable
	}
	return ""
}

// emitConstValue pushes a global's constant initializer value (§3 "must be
// non-nil").
func emitConstValue(b *abc.MethodBuilder, c *ir.Const) {
	switch {
	case c.IsNaN:
		b.EmitPushNaN()
	case c.Typ == api.ValueTypeI32:
		b.EmitPushInt(c.I32)
	default:
		b.EmitPushDouble(c.F64)
	}
}

// bytesToLatin1 packs a data segment's bytes as a string with one Unicode
// character per byte, code point equal to the byte value (§4.3
// "Data-segment encoding").
func bytesToLatin1(data []byte) string {
	r := make([]rune, len(data))
	for i, bt := range data {
		r[i] = rune(bt)
	}
	return string(r)
}
