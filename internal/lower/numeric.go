package lower

import (
	"github.com/brion/wasm2swf/api"
	"github.com/brion/wasm2swf/internal/abc"
	"github.com/brion/wasm2swf/internal/ir"
)

// emitConst implements §4.1.3 "Constants".
func (l *Lowerer) emitConst(n *ir.Const) error {
	if n.IsNaN {
		l.b.EmitPushNaN()
		return nil
	}
	switch n.Typ {
	case api.ValueTypeI32:
		l.b.EmitPushInt(n.I32)
	case api.ValueTypeF32, api.ValueTypeF64:
		l.b.EmitPushDouble(n.F64)
	default:
		return l.errorf(ErrUnsupportedConstruct, "const:"+api.ValueTypeName(n.Typ))
	}
	return nil
}

// mathUnary names the Math method for a float unary op, or "" if op isn't one.
func mathUnary(op ir.UnaryOp) string {
	switch op {
	case ir.OpAbs:
		return "abs"
	case ir.OpCeil:
		return "ceil"
	case ir.OpFloor:
		return "floor"
	case ir.OpSqrt:
		return "sqrt"
	}
	return ""
}

// mathBinary names the Math method for a float binary op, or "" if op isn't one.
func mathBinary(op ir.BinaryOp) string {
	switch op {
	case ir.OpMin:
		return "min"
	case ir.OpMax:
		return "max"
	}
	return ""
}

// emitUnary implements §4.1.3's unary operator table.
func (l *Lowerer) emitUnary(n *ir.Unary) error {
	switch n.Op {
	case ir.OpEqZ:
		if err := l.Emit(n.Operand); err != nil {
			return err
		}
		l.b.EmitPushInt(0)
		l.b.EmitBinary(abc.OpStrictEquals)
		l.b.EmitUnary(abc.OpConvertI)
		return nil
	case ir.OpClz:
		l.b.EmitGetLocal(0)
		if err := l.Emit(n.Operand); err != nil {
			return err
		}
		l.b.EmitCallProperty(l.env.Clz32Helper(), 1, false)
		return nil
	case ir.OpNeg:
		if err := l.Emit(n.Operand); err != nil {
			return err
		}
		l.b.EmitUnary(abc.OpNegate)
		return nil
	case ir.OpAbs, ir.OpCeil, ir.OpFloor, ir.OpSqrt:
		name := mathUnary(n.Op)
		l.b.EmitGetLex("Math")
		if err := l.Emit(n.Operand); err != nil {
			return err
		}
		l.b.EmitCallProperty(name, 1, false)
		return nil
	case ir.OpTruncS:
		if err := l.Emit(n.Operand); err != nil {
			return err
		}
		l.b.EmitUnary(abc.OpConvertI)
		return nil
	case ir.OpTruncU:
		if err := l.Emit(n.Operand); err != nil {
			return err
		}
		l.b.EmitUnary(abc.OpConvertU)
		l.b.EmitUnary(abc.OpConvertI)
		return nil
	case ir.OpConvertS:
		if err := l.Emit(n.Operand); err != nil {
			return err
		}
		l.b.EmitUnary(abc.OpConvertD)
		return nil
	case ir.OpConvertU:
		if err := l.Emit(n.Operand); err != nil {
			return err
		}
		l.b.EmitUnary(abc.OpConvertU)
		l.b.EmitUnary(abc.OpConvertD)
		return nil
	case ir.OpPromote:
		// f32 -> f64 is a nop on the AVM2 stack: both collapse to Number.
		return l.Emit(n.Operand)
	case ir.OpDemote:
		return l.emitScratchRoundTrip(n.Operand, l.env.RegisterImport("wasm2js", "scratch_store_f64"), l.env.RegisterImport("wasm2js", "scratch_load_f32"))
	case ir.OpReinterpretF32ToI32:
		return l.emitScratchRoundTrip(n.Operand, l.env.RegisterImport("wasm2js", "scratch_store_f32"), l.env.RegisterImport("wasm2js", "scratch_load_i32"))
	case ir.OpReinterpretI32ToF32:
		return l.emitScratchRoundTrip(n.Operand, l.env.RegisterImport("wasm2js", "scratch_store_i32"), l.env.RegisterImport("wasm2js", "scratch_load_f32"))
	}
	return l.errorf(ErrUnsupportedConstruct, "unary-op")
}

// emitScratchRoundTrip implements the store-then-load pattern §4.1.3 and §9
// describe for f32/f64 demotion and int/float reinterpretation: both sides
// are host-provided imports operating on one shared scratch slot.
func (l *Lowerer) emitScratchRoundTrip(operand ir.Expr, storeSlot, loadSlot string) error {
	l.b.EmitGetLocal(0)
	if err := l.Emit(operand); err != nil {
		return err
	}
	l.b.EmitCallProperty(storeSlot, 1, true)
	l.b.EmitGetLocal(0)
	l.b.EmitCallProperty(loadSlot, 0, false)
	return nil
}

var i32BinaryOps = map[ir.BinaryOp]abc.Op{
	ir.OpAdd: abc.OpAddI, ir.OpSub: abc.OpSubtractI, ir.OpMul: abc.OpMultiplyI,
	ir.OpAnd: abc.OpBitAnd, ir.OpOr: abc.OpBitOr, ir.OpXor: abc.OpBitXor,
	ir.OpShl: abc.OpLShift, ir.OpShrS: abc.OpRShift,
}

var floatBinaryOps = map[ir.BinaryOp]abc.Op{
	ir.OpAdd: abc.OpAdd, ir.OpSub: abc.OpSubtract, ir.OpMul: abc.OpMultiply, ir.OpDivF: abc.OpDivide,
}

var compareOps = map[ir.BinaryOp]abc.Op{
	ir.OpLtS: abc.OpLessThan, ir.OpLtU: abc.OpLessThan, ir.OpLtF: abc.OpLessThan,
	ir.OpLeS: abc.OpLessEquals, ir.OpLeU: abc.OpLessEquals, ir.OpLeF: abc.OpLessEquals,
	ir.OpGtS: abc.OpGreaterThan, ir.OpGtU: abc.OpGreaterThan, ir.OpGtF: abc.OpGreaterThan,
	ir.OpGeS: abc.OpGreaterEquals, ir.OpGeU: abc.OpGreaterEquals, ir.OpGeF: abc.OpGreaterEquals,
}

// emitBinary implements §4.1.3's binary operator table (i32 arithmetic with
// unsigned/shift handling, float arithmetic via the native add/subtract/
// multiply/divide opcodes with min/max via Math, and comparisons).
func (l *Lowerer) emitBinary(n *ir.Binary) error {
	if n.Op.IsCompare() {
		return l.emitStandaloneCompare(n)
	}
	if name := mathBinary(n.Op); name != "" {
		l.b.EmitGetLex("Math")
		if err := l.Emit(n.Left); err != nil {
			return err
		}
		if err := l.Emit(n.Right); err != nil {
			return err
		}
		l.b.EmitCallProperty(name, 2, false)
		return nil
	}
	if n.Op == ir.OpDivF {
		if err := l.Emit(n.Left); err != nil {
			return err
		}
		if err := l.Emit(n.Right); err != nil {
			return err
		}
		l.b.EmitBinary(floatBinaryOps[n.Op])
		return nil
	}
	if api.IsFloat(n.Typ) {
		op, ok := floatBinaryOps[n.Op]
		if !ok {
			return l.errorf(ErrUnsupportedConstruct, "float-binary-op")
		}
		if err := l.Emit(n.Left); err != nil {
			return err
		}
		if err := l.Emit(n.Right); err != nil {
			return err
		}
		l.b.EmitBinary(op)
		return nil
	}

	switch n.Op {
	case ir.OpShrU:
		if err := l.Emit(n.Left); err != nil {
			return err
		}
		if err := l.Emit(n.Right); err != nil {
			return err
		}
		l.b.EmitBinary(abc.OpURShift)
		l.b.EmitUnary(abc.OpConvertI)
		return nil
	case ir.OpDivS, ir.OpRemS:
		if err := l.Emit(n.Left); err != nil {
			return err
		}
		if err := l.Emit(n.Right); err != nil {
			return err
		}
		op := abc.OpDivide
		if n.Op == ir.OpRemS {
			op = abc.OpModulo
		}
		l.b.EmitBinary(op)
		l.b.EmitUnary(abc.OpConvertI)
		return nil
	case ir.OpDivU, ir.OpRemU:
		if err := l.Emit(n.Left); err != nil {
			return err
		}
		l.b.EmitUnary(abc.OpConvertU)
		if err := l.Emit(n.Right); err != nil {
			return err
		}
		l.b.EmitUnary(abc.OpConvertU)
		op := abc.OpDivide
		if n.Op == ir.OpRemU {
			op = abc.OpModulo
		}
		l.b.EmitBinary(op)
		l.b.EmitUnary(abc.OpConvertU)
		l.b.EmitUnary(abc.OpConvertI)
		return nil
	}

	op, ok := i32BinaryOps[n.Op]
	if !ok {
		return l.errorf(ErrUnsupportedConstruct, "i32-binary-op")
	}
	if err := l.Emit(n.Left); err != nil {
		return err
	}
	if err := l.Emit(n.Right); err != nil {
		return err
	}
	l.b.EmitBinary(op)
	return nil
}

// emitStandaloneCompare implements the un-folded comparison path of §4.1.3
// ("Comparisons produce AVM2 Boolean, then convert_i ... Eq/Ne use
// strictequals"), used whenever a comparison is not the direct condition of
// an if/br (§4.1.2 handles that peephole separately).
func (l *Lowerer) emitStandaloneCompare(n *ir.Binary) error {
	unsigned := n.Op.IsUnsignedCompare()
	if err := l.Emit(n.Left); err != nil {
		return err
	}
	if unsigned {
		l.b.EmitUnary(abc.OpConvertU)
	}
	if err := l.Emit(n.Right); err != nil {
		return err
	}
	if unsigned {
		l.b.EmitUnary(abc.OpConvertU)
	}
	switch n.Op {
	case ir.OpEq:
		l.b.EmitBinary(abc.OpStrictEquals)
	case ir.OpNe:
		l.b.EmitBinary(abc.OpStrictEquals)
		l.b.EmitUnary(abc.OpNot)
	default:
		op, ok := compareOps[n.Op]
		if !ok {
			return l.errorf(ErrUnsupportedConstruct, "compare-op")
		}
		l.b.EmitBinary(op)
	}
	l.b.EmitUnary(abc.OpConvertI)
	return nil
}
