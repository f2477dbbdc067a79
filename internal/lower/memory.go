package lower

import (
	"github.com/brion/wasm2swf/api"
	"github.com/brion/wasm2swf/internal/abc"
	"github.com/brion/wasm2swf/internal/ir"
)

// storeOp names the domain-memory ("Alchemy") store opcode for each
// width/type combination (§4.1.4).
func storeOp(width ir.LoadWidth, typ api.ValueType) (abc.Op, bool) {
	if api.IsFloat(typ) {
		if width == ir.Width32 {
			return abc.OpSF32, true
		}
		return abc.OpSF64, true
	}
	switch width {
	case ir.Width8:
		return abc.OpSI8, true
	case ir.Width16:
		return abc.OpSI16, true
	case ir.Width32:
		return abc.OpSI32, true
	}
	return 0, false
}

// emitAddress pushes ptr+offset onto the stack: ptr is emitted as is, then a
// nonzero static offset is added with pushint+add_i (a zero offset adds
// nothing). The pointer's own shape is not inspected.
func (l *Lowerer) emitAddress(ptr ir.Expr, offset uint32) error {
	if err := l.Emit(ptr); err != nil {
		return err
	}
	if offset != 0 {
		l.b.EmitPushInt(int32(offset))
		l.b.EmitBinary(abc.OpAddI)
	}
	return nil
}

// emitLoad implements §4.1.4 Load {ptr, offset, width, signed?}: domain
// memory li8/li16/li32/lf32/lf64, with byte-family loads sign-extended via a
// trailing sxi8/sxi16 when signed.
func (l *Lowerer) emitLoad(n *ir.Load) error {
	if err := l.emitAddress(n.Ptr, n.Offset); err != nil {
		return err
	}
	if api.IsFloat(n.Typ) {
		if n.Width == ir.Width32 {
			l.b.EmitUnary(abc.OpLF32)
		} else {
			l.b.EmitUnary(abc.OpLF64)
		}
		return nil
	}
	switch n.Width {
	case ir.Width8:
		l.b.EmitUnary(abc.OpLI8)
		if n.IsSigned {
			l.b.EmitUnary(abc.OpSxI8)
		}
	case ir.Width16:
		l.b.EmitUnary(abc.OpLI16)
		if n.IsSigned {
			l.b.EmitUnary(abc.OpSxI16)
		}
	case ir.Width32:
		l.b.EmitUnary(abc.OpLI32)
	default:
		return l.errorf(ErrUnsupportedConstruct, "load-width")
	}
	return nil
}

// sideEffectFree reports whether emitting n can never observe or alter
// memory/global/local state beyond its own operands (§4.1.4's ordering
// predicate): pure enough that reordering its evaluation relative to a
// sibling expression is unobservable.
func sideEffectFree(n ir.Expr) bool {
	switch v := n.(type) {
	case *ir.Const, *ir.LocalGet, *ir.Nop:
		return true
	case *ir.Unary:
		return sideEffectFree(v.Operand)
	case *ir.Binary:
		return sideEffectFree(v.Left) && sideEffectFree(v.Right)
	case *ir.Select:
		return sideEffectFree(v.IfTrue) && sideEffectFree(v.IfFalse) && sideEffectFree(v.Cond)
	}
	return false
}

// emitStore implements §4.1.4 Store {ptr, offset, value, width}. Wasm
// evaluates ptr then value; AVM2's si*/sf* opcodes expect value then
// pointer. The fast path only applies when both ptr and value are
// side-effect free, since then the two orders are observationally
// identical. Otherwise ptr's address is captured in a temporary local first
// so Wasm's evaluation order (ptr, then value) is preserved while still
// emitting the AVM2 value-then-pointer argument shape.
func (l *Lowerer) emitStore(n *ir.Store) error {
	op, ok := storeOp(n.Width, n.Typ)
	if !ok {
		return l.errorf(ErrUnsupportedConstruct, "store-width")
	}
	if sideEffectFree(n.Ptr) && sideEffectFree(n.Value) {
		if err := l.Emit(n.Value); err != nil {
			return err
		}
		if err := l.emitAddress(n.Ptr, n.Offset); err != nil {
			return err
		}
		l.b.EmitSimple(op, -2)
		return nil
	}

	// ptr or value has effects, so ptr must run before value per Wasm's
	// left-to-right order: stash the computed address in a scratch local,
	// then reload it after value is pushed.
	if err := l.emitAddress(n.Ptr, n.Offset); err != nil {
		return err
	}
	tmp := l.b.AcquireTemp()
	l.b.EmitSetLocal(tmp)
	if err := l.Emit(n.Value); err != nil {
		l.b.ReleaseTemp(tmp)
		return err
	}
	l.b.EmitGetLocal(tmp)
	l.b.EmitSimple(op, -2)
	l.b.ReleaseTemp(tmp)
	return nil
}
