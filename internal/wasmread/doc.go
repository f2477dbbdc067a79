// Package wasmread decodes a binary Wasm module into internal/ir's data
// model. It covers exactly the sections this core's lowering engine needs
// (type, import, function, table, memory, global, export, element, code,
// data) and assumes every upstream pass the lowering engine requires
// (legalize-js-interface, flatten, i64-lowering, optimize) has already run
// against the input binary -- this package never performs those passes
// itself.
//
// Since there is no earlier stage to enforce that assumption here, Decode
// checks what it cheaply can -- single linear memory, a function table
// indexed by 32-bit integers, and no i64 anywhere a value type is declared
// (locals, params, results, globals) -- and returns a *PreconditionError
// instead of silently emitting IR the lowerer would later reject with a less
// specific LoweringError. An i64.const in an init expression is rejected as
// an unsupported opcode with a plain error, not a *PreconditionError.
package wasmread

import "fmt"

// PreconditionError reports an input binary that violates one of this
// package's cheaply-checkable preconditions rather than a malformed or
// truncated binary (those are plain wrapped errors from Decode instead).
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("wasmread: precondition violated: %s", e.Reason)
}

func newPreconditionError(format string, args ...any) error {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}
