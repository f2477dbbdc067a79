package lower

import (
	"github.com/brion/wasm2swf/api"
	"github.com/brion/wasm2swf/internal/abc"
	"github.com/brion/wasm2swf/internal/ir"
)

// emitBlock implements §4.1.1 Block {name, children}: push a fresh label,
// emit each child in order, bind the label only if it was ever used, pop.
func (l *Lowerer) emitBlock(n *ir.Block) error {
	label := l.b.PushLabel(n.Name)
	for _, child := range n.Children {
		if err := l.Emit(child); err != nil {
			return err
		}
	}
	if label.Used() {
		l.b.Bind(label)
	}
	l.b.PopLabel()
	return nil
}

// emitLoop implements §4.1.1 Loop {name, body}: push a label, bind it at
// entry (branches to it are back-edges), emit the body, pop.
func (l *Lowerer) emitLoop(n *ir.Loop) error {
	label := l.b.PushLabel(n.Name)
	l.b.Bind(label)
	if err := l.Emit(n.Body); err != nil {
		return err
	}
	l.b.PopLabel()
	return nil
}

// emitIf implements §4.1.1 If {cond, then, else?}.
func (l *Lowerer) emitIf(n *ir.If) error {
	ifEnd := l.b.PushLabel("")
	if err := l.emitConditionForIf(n.Cond, ifEnd); err != nil {
		return err
	}
	if err := l.Emit(n.Then); err != nil {
		return err
	}
	if n.Else != nil {
		elseEnd := l.b.PushLabel("")
		l.b.EmitJump(elseEnd)
		l.b.Bind(ifEnd)
		if err := l.Emit(n.Else); err != nil {
			return err
		}
		l.b.Bind(elseEnd)
		l.b.PopLabel()
	} else {
		l.b.Bind(ifEnd)
	}
	l.b.PopLabel()
	return nil
}

// emitBreak implements §4.1.1 Break {name, cond?, value?}.
func (l *Lowerer) emitBreak(n *ir.Break) error {
	if n.Value != nil {
		return l.errorf(ErrMalformedIR, "break-with-value")
	}
	target, ok := l.b.FindLabel(n.Name)
	if !ok {
		return l.errorf(ErrMalformedIR, "unbound-label:"+n.Name)
	}
	if n.Cond != nil {
		return l.emitConditionForBr(n.Cond, target)
	}
	l.b.EmitJump(target)
	return nil
}

// emitSwitch implements §4.1.1 Switch {cond, names[], defaultName}.
func (l *Lowerer) emitSwitch(n *ir.Switch) error {
	if err := l.Emit(n.Cond); err != nil {
		return err
	}
	def, ok := l.b.FindLabel(n.DefaultName)
	if !ok {
		return l.errorf(ErrMalformedIR, "unbound-label:"+n.DefaultName)
	}
	cases := make([]*abc.Label, len(n.Names))
	for i, name := range n.Names {
		target, ok := l.b.FindLabel(name)
		if !ok {
			return l.errorf(ErrMalformedIR, "unbound-label:"+name)
		}
		cases[i] = target
	}
	l.b.EmitLookupSwitch(def, cases)
	return nil
}

// emitReturn implements §4.1.1 Return {value?}.
func (l *Lowerer) emitReturn(n *ir.Return) error {
	if n.Value != nil && l.fn.Result != api.ValueTypeNone {
		if err := l.Emit(n.Value); err != nil {
			return err
		}
		l.b.EmitReturnValue()
		return nil
	}
	l.b.EmitReturnVoid()
	return nil
}

// emitUnreachable implements §4.1.1 Unreachable: throw new Error("unreachable").
func (l *Lowerer) emitUnreachable() error {
	l.b.EmitFindPropStrict("Error")
	l.b.EmitPushString("unreachable")
	l.b.EmitConstruct(1)
	l.b.EmitThrow()
	return nil
}
