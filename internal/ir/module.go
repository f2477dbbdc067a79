// Package ir implements §3's data model: the Wasm expression tree, function,
// and module metadata that internal/lower and internal/assemble consume.
package ir

import "github.com/brion/wasm2swf/api"

// Function is a Wasm function (§3 "Wasm function (input)").
type Function struct {
	Name string

	// Module and Base are set only for imported functions.
	Module, Base string
	Imported     bool

	Params     []api.ValueType
	Result     api.ValueType // ValueTypeNone if the function returns void
	Locals     []api.ValueType // appended after Params; zero-initialized
	Body       Expr            // nil for imported functions
}

// NumParamsAndLocals returns the count of AVM2 locals this function needs
// beyond the receiver (index 0): one per Wasm local index, parameters first.
func (f *Function) NumParamsAndLocals() int {
	return len(f.Params) + len(f.Locals)
}

// LocalType returns the declared type of Wasm local index i (0-based,
// parameters first).
func (f *Function) LocalType(i uint32) api.ValueType {
	if int(i) < len(f.Params) {
		return f.Params[i]
	}
	return f.Locals[int(i)-len(f.Params)]
}

// Global is a Wasm global (§3 "Module metadata").
type Global struct {
	Name       string
	Typ        api.ValueType
	Mutable    bool
	Init       *Const // constant initializer; must be non-nil (§7 Malformed IR)
}

// MemorySegment is a data segment (§3).
type MemorySegment struct {
	ByteOffset uint32
	Bytes      []byte
}

// TableSegment is a function-table segment (§3).
type TableSegment struct {
	Offset        uint32
	FunctionNames []string
}

// Import is a Wasm import (§3 "Module metadata").
type Import struct {
	Module, Base string
	Kind         api.ExternType
	// FunctionName is set when Kind == ExternTypeFunc; it is the name under
	// which the corresponding Function appears in Module.Functions.
	FunctionName string
}

// Export is a Wasm export (§3 "Module metadata", §6 "Exports object shape").
type Export struct {
	Name   string
	Kind   api.ExternType
	Target string // name of the function/global, or empty for memory/table
}

// Module is the full Wasm module metadata the assembler needs (§3, §4.3).
type Module struct {
	Functions []*Function
	Globals   []*Global
	Memory    struct {
		InitialPages uint32 // 0 if absent
		Segments     []MemorySegment
	}
	Table struct {
		Segments []TableSegment
	}
	Imports []Import
	Exports []Export
}

// FunctionByName returns the function named name, or nil.
func (m *Module) FunctionByName(name string) *Function {
	for _, f := range m.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// GlobalByName returns the global named name, or nil.
func (m *Module) GlobalByName(name string) *Global {
	for _, g := range m.Globals {
		if g.Name == name {
			return g
		}
	}
	return nil
}
