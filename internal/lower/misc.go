package lower

import (
	"github.com/brion/wasm2swf/internal/abc"
	"github.com/brion/wasm2swf/internal/ir"
)

// emitSelect implements §4.1.7 Select {ifTrue, ifFalse, cond}. Wasm's select
// always evaluates both arms (unlike `if`), so both are lowered eagerly into
// temporaries and the condition only picks which temporary is read back.
func (l *Lowerer) emitSelect(n *ir.Select) error {
	entryDepth := l.b.StackDepth()

	if err := l.Emit(n.IfTrue); err != nil {
		return err
	}
	tTrue := l.b.AcquireTemp()
	l.b.EmitSetLocal(tTrue)

	if err := l.Emit(n.IfFalse); err != nil {
		return err
	}
	tFalse := l.b.AcquireTemp()
	l.b.EmitSetLocal(tFalse)

	if err := l.Emit(n.Cond); err != nil {
		return err
	}
	falseLabel := l.b.PushLabel("")
	end := l.b.PushLabel("")
	l.b.EmitConditionalJump(abc.OpIfFalse, falseLabel, 1)
	l.b.EmitGetLocal(tTrue)
	l.b.EmitJump(end)
	l.b.Bind(falseLabel)
	l.b.EmitGetLocal(tFalse)
	l.b.Bind(end)
	l.b.SyncStackDepth(entryDepth + 1)
	l.b.PopLabel()
	l.b.PopLabel()

	l.b.ReleaseTemp(tFalse)
	l.b.ReleaseTemp(tTrue)
	return nil
}

// emitHost implements §4.1.7 Host {MemorySize | MemoryGrow}: both are calls
// to runtime helpers the module assembler wires up (§4.3).
func (l *Lowerer) emitHost(n *ir.Host) error {
	switch n.Op {
	case ir.HostMemorySize:
		l.b.EmitGetLocal(0)
		l.b.EmitCallProperty(l.env.MemorySizeHelper(), 0, false)
		return nil
	case ir.HostMemoryGrow:
		l.b.EmitGetLocal(0)
		if err := l.Emit(n.Argument); err != nil {
			return err
		}
		l.b.EmitCallProperty(l.env.MemoryGrowHelper(), 1, false)
		return nil
	}
	return l.errorf(ErrUnsupportedConstruct, "host-op")
}
