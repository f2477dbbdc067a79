// Package assemble implements §4.3: the module-level assembler that turns
// internal/ir.Module metadata into a synthesized ABC class. It owns the
// single InstanceTraits table (memory, table, globals, imports, and one
// Method trait per defined function) and implements internal/lower.Env so
// the expression lowerer can discover and reference those traits lazily
// (§9 "Globals discovered lazily").
package assemble

import (
	"fmt"

	"github.com/brion/wasm2swf/api"
	"github.com/brion/wasm2swf/internal/abc"
	"github.com/brion/wasm2swf/internal/ir"
	"github.com/brion/wasm2swf/internal/lower"
	"github.com/brion/wasm2swf/internal/trace"
)

// Runtime helper trait names (§4.1.3, §4.1.7, §4.3): these are Method
// traits this package synthesizes directly in AVM2 opcodes, never lowered
// from Wasm IR.
const (
	helperClz32      = "clz32"
	helperMemorySize = "memory_size"
	helperMemoryGrow = "memory_grow"
	helperMemoryInit = "memory_init"
	traitMemory      = "wasm$memory"
	traitTable       = "wasm$table"
	traitExports     = "exports"
	pageSize         = 65536
)

// Assembler builds one synthesized ABC class's instance traits table from a
// Wasm module's metadata, implementing lower.Env for the expression lowerer.
type Assembler struct {
	mod  *ir.Module
	opt  trace.Options
	Trts *abc.InstanceTraits

	// IInit and CInit are populated by Assemble: the instance and class
	// initializer method bodies (§4.3), which internal/container emits as
	// instance_info.iinit/class_info.cinit rather than as trait entries.
	IInit *abc.MethodBuilder
	CInit *abc.MethodBuilder

	globalTraits map[string]string
	importTraits map[string]string
	callTraits   map[string]string
	callResults  map[string]api.ValueType
}

// NewAssembler prepares trait registrations that must exist before any
// function body is lowered: the memory and table slots, one slot per Wasm
// import, and the call-target table for every defined and imported
// function.
func NewAssembler(mod *ir.Module, opt trace.Options) *Assembler {
	a := &Assembler{
		mod:          mod,
		opt:          opt,
		Trts:         abc.NewInstanceTraits(),
		globalTraits: make(map[string]string),
		importTraits: make(map[string]string),
		callTraits:   make(map[string]string),
		callResults:  make(map[string]api.ValueType),
	}
	a.Trts.AddSlot(traitMemory, abc.SlotObject, "flash.utils.ByteArray")
	a.Trts.AddSlot(traitTable, abc.SlotObject, "Array")
	a.Trts.AddSlot(traitExports, abc.SlotObject, "Object")

	for _, imp := range mod.Imports {
		key := imp.Module + "$" + imp.Base
		name := "import$" + imp.Module + "$" + imp.Base
		a.importTraits[key] = name
		switch imp.Kind {
		case api.ExternTypeFunc:
			a.Trts.AddSlot(name, abc.SlotFunction, "")
			a.callTraits[imp.FunctionName] = name
		case api.ExternTypeGlobal:
			a.Trts.AddSlot(name, abc.SlotObject, "Object")
		default:
			a.Trts.AddSlot(name, abc.SlotObject, "Object")
		}
	}
	for _, fn := range mod.Functions {
		if fn.Imported {
			continue
		}
		name := "func$" + fn.Name
		a.callTraits[fn.Name] = name
		a.callResults[fn.Name] = fn.Result
	}
	// Module-defined globals are registered eagerly too: the instance
	// initializer must assign every global's constant initializer
	// regardless of whether any function body ever references it (§9
	// "Globals discovered lazily" -- lazy discovery covers the lowerer's
	// view, not the assembler's).
	for _, g := range mod.Globals {
		a.RegisterGlobal(g.Name, g.Typ)
	}
	return a
}

// --- lower.Env ---

// RegisterGlobal implements lower.Env: adds a Slot trait for a global the
// first time it is registered and returns the existing one afterwards (§9).
// NewAssembler already registers every global in mod.Globals, so only a
// global outside that list (an imported one) is added here on first use.
func (a *Assembler) RegisterGlobal(name string, typ api.ValueType) string {
	if trait, ok := a.globalTraits[name]; ok {
		return trait
	}
	trait := "global$" + name
	a.globalTraits[name] = trait
	a.Trts.AddSlot(trait, slotTypeFor(typ), "")
	return trait
}

// RegisterImport implements lower.Env. Besides genuine Wasm imports (already
// registered eagerly in NewAssembler), this also backs the wasm2js scratch
// helpers the numeric lowerer's f32/f64 bit-reinterpretation path uses
// (DESIGN.md open question c): a pseudo-module name, registered lazily the
// same way a real import would be.
func (a *Assembler) RegisterImport(module, base string) string {
	key := module + "$" + base
	if trait, ok := a.importTraits[key]; ok {
		return trait
	}
	trait := "import$" + module + "$" + base
	a.importTraits[key] = trait
	a.Trts.AddSlot(trait, abc.SlotObject, "Object")
	return trait
}

// CallTarget implements lower.Env.
func (a *Assembler) CallTarget(name string) (string, api.ValueType) {
	return a.callTraits[name], a.callResults[name]
}

// TableTraitName implements lower.Env.
func (a *Assembler) TableTraitName() string { return traitTable }

// MemorySizeHelper/MemoryGrowHelper/Clz32Helper implement lower.Env.
func (a *Assembler) MemorySizeHelper() string { return helperMemorySize }
func (a *Assembler) MemoryGrowHelper() string { return helperMemoryGrow }
func (a *Assembler) Clz32Helper() string      { return helperClz32 }

// slotTypeFor maps a Wasm value type to the Slot trait type that represents
// it (§3, §4.3).
func slotTypeFor(typ api.ValueType) abc.SlotType {
	if api.IsFloat(typ) {
		return abc.SlotNumber
	}
	return abc.SlotInt
}

func slotTypesFor(types []api.ValueType) []abc.SlotType {
	out := make([]abc.SlotType, len(types))
	for i, t := range types {
		out[i] = slotTypeFor(t)
	}
	return out
}

// resultSlotType maps a function's declared result, with ValueTypeNone
// meaning void (represented here by the zero SlotType, which
// internal/container serializes as the "*" type).
func resultSlotType(typ api.ValueType) abc.SlotType {
	if typ == api.ValueTypeNone {
		return 0
	}
	return slotTypeFor(typ)
}

// Assemble lowers every defined function and registers the runtime helpers,
// producing the complete instance traits table (§4.3). It is the single
// entry point cmd/wasm2swf calls after parsing.
func (a *Assembler) Assemble() error {
	a.Trts.AddMethod(helperClz32, synthesizeClz32(), []abc.SlotType{abc.SlotInt}, abc.SlotInt)
	a.Trts.AddMethod(helperMemorySize, synthesizeMemorySize(), nil, abc.SlotInt)
	a.Trts.AddMethod(helperMemoryGrow, synthesizeMemoryGrow(), []abc.SlotType{abc.SlotInt}, abc.SlotInt)
	a.Trts.AddMethod(helperMemoryInit, synthesizeMemoryInit(), []abc.SlotType{abc.SlotInt, abc.SlotObject}, 0)

	for _, fn := range a.mod.Functions {
		if fn.Imported {
			continue
		}
		mb, err := lower.LowerFunction(a, fn, a.opt)
		if err != nil {
			return fmt.Errorf("assemble: function %q: %w", fn.Name, err)
		}
		a.Trts.AddMethod(a.callTraits[fn.Name], mb, slotTypesFor(fn.Params), resultSlotType(fn.Result))
	}

	a.IInit = a.synthesizeInstanceInit()
	a.CInit = synthesizeClassInit()
	return nil
}
