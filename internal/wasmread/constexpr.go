package wasmread

import (
	"fmt"
	"math"

	"github.com/brion/wasm2swf/api"
	"github.com/brion/wasm2swf/internal/ir"
)

// decodeOffsetExpr reads a constant i32 init expression (§6 binary format
// offset expr) terminated by end (0x0B), as used by element and data
// segments. Every other expression shape -- including a global.get of an
// imported constant, which real-world Wasm allows here -- is rejected:
// nothing downstream of this reader resolves a non-literal segment offset.
func decodeOffsetExpr(r *reader) (uint32, error) {
	op, err := r.byte()
	if err != nil {
		return 0, fmt.Errorf("wasmread: offset expr opcode: %w", err)
	}
	if op != opI32Const {
		return 0, fmt.Errorf("wasmread: offset expr: unsupported opcode %#x, only i32.const is accepted", op)
	}
	v, err := r.varI32()
	if err != nil {
		return 0, fmt.Errorf("wasmread: offset expr value: %w", err)
	}
	end, err := r.byte()
	if err != nil {
		return 0, fmt.Errorf("wasmread: offset expr terminator: %w", err)
	}
	if end != opEnd {
		return 0, fmt.Errorf("wasmread: offset expr: expected end, got %#x", end)
	}
	return uint32(v), nil
}

// decodeGlobalInitExpr reads a global's constant initializer (§3 "Global
// {... init}", must be non-nil): a single typed const instruction followed
// by end.
func decodeGlobalInitExpr(r *reader, declared api.ValueType) (*ir.Const, error) {
	op, err := r.byte()
	if err != nil {
		return nil, fmt.Errorf("wasmread: global init opcode: %w", err)
	}
	var c ir.Const
	switch op {
	case opI32Const:
		v, err := r.varI32()
		if err != nil {
			return nil, fmt.Errorf("wasmread: global init i32 value: %w", err)
		}
		c = ir.Const{Typ: api.ValueTypeI32, I32: v}
	case opF32Const:
		v, err := r.f32()
		if err != nil {
			return nil, fmt.Errorf("wasmread: global init f32 value: %w", err)
		}
		c = ir.Const{Typ: api.ValueTypeF32, F64: float64(v), IsNaN: math.IsNaN(float64(v))}
	case opF64Const:
		v, err := r.f64()
		if err != nil {
			return nil, fmt.Errorf("wasmread: global init f64 value: %w", err)
		}
		c = ir.Const{Typ: api.ValueTypeF64, F64: v, IsNaN: math.IsNaN(v)}
	default:
		return nil, fmt.Errorf("wasmread: global init: unsupported opcode %#x", op)
	}
	if c.Typ != declared {
		return nil, fmt.Errorf("wasmread: global init type %s does not match declared type %s",
			api.ValueTypeName(c.Typ), api.ValueTypeName(declared))
	}
	end, err := r.byte()
	if err != nil {
		return nil, fmt.Errorf("wasmread: global init terminator: %w", err)
	}
	if end != opEnd {
		return nil, fmt.Errorf("wasmread: global init: expected end, got %#x", end)
	}
	return &c, nil
}
