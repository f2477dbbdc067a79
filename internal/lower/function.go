package lower

import (
	"github.com/brion/wasm2swf/api"
	"github.com/brion/wasm2swf/internal/abc"
	"github.com/brion/wasm2swf/internal/ir"
	"github.com/brion/wasm2swf/internal/trace"
	"go.uber.org/zap"
)

// LowerFunction implements §4.2: build the AVM2 method body for one defined
// Wasm function (imported functions are wired directly by internal/assemble
// and never reach here). AVM2 locals 1..NumParamsAndLocals are pre-bound to
// the Wasm parameters (by the method's own typed signature) and locals (by
// the zero-initialization this emits); local 0 is the receiver every Emit
// call in this package assumes.
func LowerFunction(env Env, fn *ir.Function, opt trace.Options) (*abc.MethodBuilder, error) {
	b := abc.NewMethodBuilder(fn.NumParamsAndLocals())

	if opt.Debug {
		b.EmitDebugFile(fn.Name)
		b.EmitDebugLine(1)
	}
	if opt.Enabled(fn.Name) {
		trace.Logger().Debug("lower: function entry", zap.String("func", fn.Name))
	}

	zeroInitLocals(b, fn)

	l := New(env, b, fn, opt)
	if fn.Body != nil {
		if err := l.Emit(fn.Body); err != nil {
			return nil, err
		}
	}

	// A defensive trailing return for void functions whose body does not
	// itself end in an explicit Return (§3 invariant: every path leaves the
	// operand stack empty at this point, so this is always safe to append).
	if fn.Result == api.ValueTypeNone {
		b.EmitReturnVoid()
	}
	if opt.Enabled(fn.Name) {
		trace.Logger().Debug("lower: function exit", zap.String("func", fn.Name))
	}

	if b.LabelStackDepth() != 0 {
		return nil, newError(ErrInternalInvariant, fn.Name, "unbalanced label stack at function exit")
	}
	return b, nil
}

// zeroInitLocals emits the AVM2 local-slot initialization for Wasm's
// implicit "locals start at zero" rule (§3). Parameters need no
// initialization: the method's own typed signature binds them.
func zeroInitLocals(b *abc.MethodBuilder, fn *ir.Function) {
	for i, typ := range fn.Locals {
		slot := localSlot(uint32(len(fn.Params) + i))
		switch {
		case api.IsFloat(typ):
			b.EmitPushDouble(0)
		default:
			b.EmitPushInt(0)
		}
		b.EmitSetLocal(slot)
	}
}
