package lower

import (
	"github.com/brion/wasm2swf/api"
	"github.com/brion/wasm2swf/internal/ir"
)

// localIncDecDelta recognizes the `local.set $k (i32.add (local.get $k)
// (i32.const ±1))` shape (and its `i32.sub ... (i32.const 1)` spelling)
// §4.1.5 folds to a single inclocal_i/declocal_i, and reports the signed
// delta (+1 or -1) when n matches it, or 0 otherwise.
func localIncDecDelta(n *ir.LocalSet) int {
	bin, ok := n.Value.(*ir.Binary)
	if !ok || n.Typ != api.ValueTypeI32 {
		return 0
	}
	if bin.Op != ir.OpAdd && bin.Op != ir.OpSub {
		return 0
	}
	get, ok := bin.Left.(*ir.LocalGet)
	if !ok || get.Index != n.Index {
		return 0
	}
	c, ok := bin.Right.(*ir.Const)
	if !ok || c.Typ != api.ValueTypeI32 {
		return 0
	}
	switch {
	case bin.Op == ir.OpAdd && c.I32 == 1:
		return 1
	case bin.Op == ir.OpAdd && c.I32 == -1, bin.Op == ir.OpSub && c.I32 == 1:
		return -1
	}
	return 0
}

// emitLocalSet implements §4.1.5 LocalSet {index, value, tee?}: the
// inclocal_i/declocal_i peephole for non-tee ±1 updates, otherwise a plain
// setlocal (with a leading dup for tee, which must leave the stored value on
// the stack).
func (l *Lowerer) emitLocalSet(n *ir.LocalSet) error {
	slot := localSlot(n.Index)
	if !n.IsTee {
		if d := localIncDecDelta(n); d == 1 {
			l.b.EmitIncLocalI(slot)
			return nil
		} else if d == -1 {
			l.b.EmitDecLocalI(slot)
			return nil
		}
	}
	if err := l.Emit(n.Value); err != nil {
		return err
	}
	if n.IsTee {
		l.b.EmitDup()
	}
	l.b.EmitSetLocal(slot)
	return nil
}

// emitGlobalGet implements §4.1.5 GlobalGet: lazily register the global's
// Slot trait with the module assembler, then read it off the instance
// (local 0 is the receiver in every method §3 establishes).
func (l *Lowerer) emitGlobalGet(n *ir.GlobalGet) error {
	trait := l.env.RegisterGlobal(n.Name, n.Typ)
	l.b.EmitGetLocal(0)
	l.b.EmitGetProperty(trait)
	return nil
}

// emitGlobalSet implements §4.1.5 GlobalSet.
func (l *Lowerer) emitGlobalSet(n *ir.GlobalSet) error {
	trait := l.env.RegisterGlobal(n.Name, n.Value.Type())
	l.b.EmitGetLocal(0)
	if err := l.Emit(n.Value); err != nil {
		return err
	}
	l.b.EmitSetProperty(trait)
	return nil
}
