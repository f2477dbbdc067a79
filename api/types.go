// Package api holds the small set of value-type and external-kind
// constants shared between the lowering engine, the module assembler, and
// the Wasm reader.
package api

import "fmt"

// ValueType describes the declared type of a Wasm expression or local, as
// narrowed to the subset this compiler's core handles: none (void), i32,
// f32, and f64. i64 is expected to already be lowered to i32 pairs by an
// upstream pass and never appears here.
type ValueType = byte

const (
	// ValueTypeNone marks an expression or a function result that produces
	// no value (AVM2 avm(none) = void).
	ValueTypeNone ValueType = 0x00
	// ValueTypeI32 is a 32-bit integer (AVM2 avm(i32) = int).
	ValueTypeI32 ValueType = 0x7f
	// ValueTypeF32 is a 32-bit floating point number (AVM2 avm(f32) = Number).
	ValueTypeF32 ValueType = 0x7d
	// ValueTypeF64 is a 64-bit floating point number (AVM2 avm(f64) = Number).
	ValueTypeF64 ValueType = 0x7c
)

// ValueTypeName returns the Wasm text-format name of t, or t's hex value
// (e.g. "0x7e") if t is not one of the constants above.
func ValueTypeName(t ValueType) string {
	switch t {
	case ValueTypeNone:
		return "none"
	case ValueTypeI32:
		return "i32"
	case ValueTypeF32:
		return "f32"
	case ValueTypeF64:
		return "f64"
	}
	return fmt.Sprintf("%#x", t)
}

// IsFloat reports whether t collapses to AVM2 Number.
func IsFloat(t ValueType) bool {
	return t == ValueTypeF32 || t == ValueTypeF64
}

// ExternType classifies an import or export.
type ExternType = byte

const (
	ExternTypeFunc   ExternType = 0x00
	ExternTypeTable  ExternType = 0x01
	ExternTypeMemory ExternType = 0x02
	ExternTypeGlobal ExternType = 0x03
)

// ExternTypeName returns the Wasm text-format field name of et.
func ExternTypeName(et ExternType) string {
	switch et {
	case ExternTypeFunc:
		return "func"
	case ExternTypeTable:
		return "table"
	case ExternTypeMemory:
		return "memory"
	case ExternTypeGlobal:
		return "global"
	}
	return fmt.Sprintf("%#x", et)
}
