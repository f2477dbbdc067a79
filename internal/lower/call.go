package lower

import (
	"github.com/brion/wasm2swf/api"
	"github.com/brion/wasm2swf/internal/ir"
)

// emitCall implements §4.1.6 Call {target, operands, resultType}: a direct
// call resolves statically to a trait name, so operand evaluation order
// never interacts with target resolution.
func (l *Lowerer) emitCall(n *ir.Call) error {
	trait, _ := l.env.CallTarget(n.Target)
	l.b.EmitGetLocal(0)
	for _, op := range n.Operands {
		if err := l.Emit(op); err != nil {
			return err
		}
	}
	l.b.EmitCallProperty(trait, len(n.Operands), n.ResultType == api.ValueTypeNone)
	return nil
}

// emitTableFetch pushes the function value at index (emitted here) onto the
// stack: the table array, then the index, then a late-bound getproperty.
func (l *Lowerer) emitTableFetch(index ir.Expr) error {
	l.b.EmitGetLocal(0)
	l.b.EmitGetProperty(l.env.TableTraitName())
	if err := l.Emit(index); err != nil {
		return err
	}
	l.b.EmitGetProperty("")
	return nil
}

// emitCallIndirect implements §4.1.6 CallIndirect {target, operands,
// resultType}. Wasm evaluates operands left to right and the table index
// last; AVM2's generic `call` opcode needs the function reference pushed
// before the receiver and arguments. The fast path only applies when target
// and every operand are side-effect free, since only then are the two
// orders observationally identical; otherwise the operands are stashed in
// temporaries first so Wasm's evaluation order is preserved while still
// producing AVM2's function-first shape (§4.1.6, mirrors the Store
// reordering in memory.go).
func (l *Lowerer) emitCallIndirect(n *ir.CallIndirect) error {
	fastPath := sideEffectFree(n.Target)
	for _, op := range n.Operands {
		fastPath = fastPath && sideEffectFree(op)
	}
	if fastPath {
		if err := l.emitTableFetch(n.Target); err != nil {
			return err
		}
		l.b.EmitGetLocal(0)
		for _, op := range n.Operands {
			if err := l.Emit(op); err != nil {
				return err
			}
		}
		l.b.EmitCall(len(n.Operands))
		return nil
	}

	temps := make([]int, len(n.Operands))
	for i, op := range n.Operands {
		if err := l.Emit(op); err != nil {
			return err
		}
		temps[i] = l.b.AcquireTemp()
		l.b.EmitSetLocal(temps[i])
	}
	if err := l.emitTableFetch(n.Target); err != nil {
		return err
	}
	l.b.EmitGetLocal(0)
	for _, t := range temps {
		l.b.EmitGetLocal(t)
	}
	l.b.EmitCall(len(n.Operands))
	for i := len(temps) - 1; i >= 0; i-- {
		l.b.ReleaseTemp(temps[i])
	}
	return nil
}
