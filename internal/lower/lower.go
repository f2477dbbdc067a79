// Package lower implements §4.1 (the expression lowerer) and §4.2 (the
// function lowerer): the recursive structural translator from internal/ir's
// Wasm expression tree to an internal/abc.MethodBuilder instruction stream.
package lower

import (
	"go.uber.org/zap"

	"github.com/brion/wasm2swf/api"
	"github.com/brion/wasm2swf/internal/abc"
	"github.com/brion/wasm2swf/internal/ir"
	"github.com/brion/wasm2swf/internal/trace"
)

// Env is the module-level collaborator the expression lowerer needs:
// everything that is shared across functions and discovered lazily (§9
// "Globals discovered lazily"). internal/assemble.Assembler implements it.
type Env interface {
	// RegisterGlobal ensures a Slot trait for name exists and returns its
	// trait name ("global$<name>").
	RegisterGlobal(name string, typ api.ValueType) string

	// RegisterImport ensures a Slot trait for the (module, base) import
	// exists and returns its trait name ("import$<module>$<base>"). Used
	// both for genuine Wasm imports and the wasm2js scratch helpers (§4.1.3,
	// DESIGN.md open question c).
	RegisterImport(module, base string) string

	// CallTarget resolves a direct-call target name to the trait it should
	// invoke (a defined function's "func$<name>" or an imported function's
	// import slot) plus its declared result type.
	CallTarget(wasmFunctionName string) (traitName string, resultType api.ValueType)

	// TableTraitName is the "wasm$table" slot name.
	TableTraitName() string

	// MemorySizeHelper/MemoryGrowHelper name the two runtime helpers §4.1.7
	// Host nodes call.
	MemorySizeHelper() string
	MemoryGrowHelper() string

	// Clz32Helper names the clz32 runtime helper §4.1.3's Clz unary uses.
	Clz32Helper() string
}

// Lowerer translates one Wasm function body into a MethodBuilder's
// instruction stream.
type Lowerer struct {
	env Env
	b   *abc.MethodBuilder
	fn  *ir.Function
	opt trace.Options
}

// New returns a Lowerer for fn, emitting into b.
func New(env Env, b *abc.MethodBuilder, fn *ir.Function, opt trace.Options) *Lowerer {
	return &Lowerer{env: env, b: b, fn: fn, opt: opt}
}

func (l *Lowerer) errorf(class ErrorClass, construct string) error {
	return newError(class, l.fn.Name, construct)
}

// localSlot returns the AVM2 local index for Wasm local k (§3 invariant:
// "Wasm local k is emitted as AVM2 local k+1").
func localSlot(k uint32) int { return int(k) + 1 }

// Emit lowers node, appending instructions to l.b that leave exactly the
// declared number of values (§3 invariant) on the operand stack. This is
// the single recursive entry point §4.1 calls emit(node).
func (l *Lowerer) Emit(node ir.Expr) error {
	// Under --debug every expression gets a debugline whose line number is
	// its 1-based position in the method's instruction stream.
	if l.opt.Debug {
		l.b.EmitDebugLine(len(l.b.Instrs) + 1)
	}
	if l.opt.Trace && l.opt.Enabled(l.fn.Name) {
		trace.Logger().Debug("lower", zap.String("func", l.fn.Name), zap.String("kind", node.Kind().String()))
	}
	switch n := node.(type) {
	case *ir.Block:
		return l.emitBlock(n)
	case *ir.Loop:
		return l.emitLoop(n)
	case *ir.If:
		return l.emitIf(n)
	case *ir.Break:
		return l.emitBreak(n)
	case *ir.Switch:
		return l.emitSwitch(n)
	case *ir.Return:
		return l.emitReturn(n)
	case *ir.Nop:
		l.b.EmitSimple(abc.OpNop, 0)
		return nil
	case *ir.Unreachable:
		return l.emitUnreachable()
	case *ir.Const:
		return l.emitConst(n)
	case *ir.Unary:
		return l.emitUnary(n)
	case *ir.Binary:
		return l.emitBinary(n)
	case *ir.Load:
		return l.emitLoad(n)
	case *ir.Store:
		return l.emitStore(n)
	case *ir.LocalGet:
		l.b.EmitGetLocal(localSlot(n.Index))
		return nil
	case *ir.LocalSet:
		return l.emitLocalSet(n)
	case *ir.GlobalGet:
		return l.emitGlobalGet(n)
	case *ir.GlobalSet:
		return l.emitGlobalSet(n)
	case *ir.Call:
		return l.emitCall(n)
	case *ir.CallIndirect:
		return l.emitCallIndirect(n)
	case *ir.Select:
		return l.emitSelect(n)
	case *ir.Drop:
		if err := l.Emit(n.Value); err != nil {
			return err
		}
		l.b.EmitPop()
		return nil
	case *ir.Host:
		return l.emitHost(n)
	}
	return l.errorf(ErrUnsupportedConstruct, node.Kind().String())
}
