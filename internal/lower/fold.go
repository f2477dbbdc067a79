package lower

import (
	"github.com/brion/wasm2swf/internal/abc"
	"github.com/brion/wasm2swf/internal/ir"
)

// comparatorOps returns the direct (branch when op holds) and inverse
// (branch when op does not hold) AVM2 conditional-jump opcodes for a
// compare BinaryOp, plus whether it needs the convert_u framing (§4.1.2
// table).
func comparatorOps(op ir.BinaryOp) (direct, inverse abc.Op, unsigned bool, ok bool) {
	switch op {
	case ir.OpEq:
		return abc.OpIfEq, abc.OpIfNe, false, true
	case ir.OpNe:
		return abc.OpIfNe, abc.OpIfEq, false, true
	case ir.OpLtS, ir.OpLtF:
		return abc.OpIfLt, abc.OpIfGe, false, true
	case ir.OpLeS, ir.OpLeF:
		return abc.OpIfLe, abc.OpIfGt, false, true
	case ir.OpGtS, ir.OpGtF:
		return abc.OpIfGt, abc.OpIfLe, false, true
	case ir.OpGeS, ir.OpGeF:
		return abc.OpIfGe, abc.OpIfLt, false, true
	case ir.OpLtU:
		return abc.OpIfLt, abc.OpIfGe, true, true
	case ir.OpLeU:
		return abc.OpIfLe, abc.OpIfGt, true, true
	case ir.OpGtU:
		return abc.OpIfGt, abc.OpIfLe, true, true
	case ir.OpGeU:
		return abc.OpIfGe, abc.OpIfLt, true, true
	}
	return 0, 0, false, false
}

// emitConditionForIf implements the `if` row of §4.1.2: branch to ifEnd when
// cond is false.
func (l *Lowerer) emitConditionForIf(cond ir.Expr, ifEnd *abc.Label) error {
	return l.emitFoldedCondition(cond, ifEnd, true)
}

// emitConditionForBr implements the `br` row of §4.1.2: branch to target
// when cond is true.
func (l *Lowerer) emitConditionForBr(cond ir.Expr, target *abc.Label) error {
	return l.emitFoldedCondition(cond, target, false)
}

// emitFoldedCondition is the peephole described in §4.1.2: it avoids
// materializing a boolean int where the condition's shape lets a direct
// AVM2 comparator or truthiness test substitute for it. branchWhenFalse
// selects the `if` framing (true) or the `br` framing (false).
func (l *Lowerer) emitFoldedCondition(cond ir.Expr, target *abc.Label, branchWhenFalse bool) error {
	if bin, isBin := cond.(*ir.Binary); isBin {
		if direct, inverse, unsigned, ok := comparatorOps(bin.Op); ok {
			if err := l.Emit(bin.Left); err != nil {
				return err
			}
			if unsigned {
				l.b.EmitUnary(abc.OpConvertU)
			}
			if err := l.Emit(bin.Right); err != nil {
				return err
			}
			if unsigned {
				l.b.EmitUnary(abc.OpConvertU)
			}
			op := direct
			if branchWhenFalse {
				op = inverse
			}
			l.b.EmitConditionalJump(op, target, 2)
			return nil
		}
	}
	if un, isUn := cond.(*ir.Unary); isUn && un.Op == ir.OpEqZ {
		if err := l.Emit(un.Operand); err != nil {
			return err
		}
		op := abc.OpIfTrue
		if !branchWhenFalse {
			op = abc.OpIfFalse
		}
		l.b.EmitConditionalJump(op, target, 1)
		return nil
	}
	if err := l.Emit(cond); err != nil {
		return err
	}
	op := abc.OpIfFalse
	if !branchWhenFalse {
		op = abc.OpIfTrue
	}
	l.b.EmitConditionalJump(op, target, 1)
	return nil
}
