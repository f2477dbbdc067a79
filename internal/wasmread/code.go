package wasmread

import (
	"fmt"
	"math"

	"github.com/brion/wasm2swf/api"
	"github.com/brion/wasm2swf/internal/ir"
)

// signatureTables is the part of module decode state the code-section
// decoder needs to resolve call targets, global references, and local
// types while reconstructing one function's expression tree.
type signatureTables struct {
	funcNames   []string
	funcTypeIdx []uint32
	types       []funcType
	globalNames []string
	globalTypes []api.ValueType
}

func (s signatureTables) funcSignature(idx uint32) (string, funcType, error) {
	if int(idx) >= len(s.funcNames) {
		return "", funcType{}, fmt.Errorf("function index %d out of range", idx)
	}
	return s.funcNames[idx], s.types[s.funcTypeIdx[idx]], nil
}

func (s signatureTables) globalSignature(idx uint32) (string, api.ValueType, error) {
	if int(idx) >= len(s.globalNames) {
		return "", 0, fmt.Errorf("global index %d out of range", idx)
	}
	return s.globalNames[idx], s.globalTypes[idx], nil
}

// labelScope tracks one open block/loop/if while decoding a function body,
// converting Wasm's relative branch depths into this project's named-label
// scheme. used is only consulted for ifScope: block/loop carry their
// synthetic name on the IR node regardless, but If has no name field of its
// own, so an if that is actually targeted by a branch must be wrapped in a
// Block that does.
type labelScope struct {
	name string
	kind byte // scopeBlock, scopeLoop, scopeIf, scopeFunc
	used bool
}

const (
	scopeBlock byte = iota
	scopeLoop
	scopeIf
	scopeFunc
)

type funcDecoder struct {
	sig    signatureTables
	fn     *ir.Function
	labels []labelScope
	seq    int
}

func (c *funcDecoder) pushLabel(kind byte) int {
	name := fmt.Sprintf("L%d", c.seq)
	c.seq++
	c.labels = append(c.labels, labelScope{name: name, kind: kind})
	return len(c.labels) - 1
}

func (c *funcDecoder) popLabel() labelScope {
	l := c.labels[len(c.labels)-1]
	c.labels = c.labels[:len(c.labels)-1]
	return l
}

func (c *funcDecoder) labelAt(depth uint32) (string, error) {
	idx := len(c.labels) - 1 - int(depth)
	if idx < 0 {
		return "", fmt.Errorf("branch depth %d exceeds %d enclosing scopes", depth, len(c.labels))
	}
	c.labels[idx].used = true
	return c.labels[idx].name, nil
}

// wrapSeq builds the single Expr a Loop body, If arm, or function body
// needs from a flat statement list, matching the Block{Name, Children}
// shape the lowerer already knows how to emit as a plain sequence when the
// name is never referenced.
func wrapSeq(name string, children []ir.Expr) ir.Expr {
	return &ir.Block{Name: name, Children: children}
}

// decodeFunctionBody parses one code-section entry's locals declarations
// and instruction stream into fn.Locals/fn.Body.
func decodeFunctionBody(body []byte, fn *ir.Function, sig signatureTables) error {
	r := &reader{buf: body}

	localGroups, err := r.varU32()
	if err != nil {
		return fmt.Errorf("wasmread: function %q: locals group count: %w", fn.Name, err)
	}
	var locals []api.ValueType
	for i := uint32(0); i < localGroups; i++ {
		n, err := r.varU32()
		if err != nil {
			return fmt.Errorf("wasmread: function %q: locals group %d count: %w", fn.Name, i, err)
		}
		vtb, err := r.byte()
		if err != nil {
			return fmt.Errorf("wasmread: function %q: locals group %d type: %w", fn.Name, i, err)
		}
		vt, err := decodeValueType(vtb)
		if err != nil {
			return fmt.Errorf("wasmread: function %q: locals group %d: %w", fn.Name, i, err)
		}
		for j := uint32(0); j < n; j++ {
			locals = append(locals, vt)
		}
	}
	fn.Locals = locals

	c := &funcDecoder{sig: sig, fn: fn}
	c.pushLabel(scopeFunc)
	children, trailing, term, err := c.decodeBody(r)
	if err != nil {
		return fmt.Errorf("wasmread: function %q: %w", fn.Name, err)
	}
	if term != opEnd {
		return fmt.Errorf("wasmread: function %q: expected end, got else at top level", fn.Name)
	}
	top := c.popLabel()

	if trailing != nil {
		if fn.Result == api.ValueTypeNone {
			return fmt.Errorf("wasmread: function %q: leaves a value on the stack but has no result type", fn.Name)
		}
		children = append(children, &ir.Return{Value: trailing})
	} else if fn.Result != api.ValueTypeNone {
		if !endsInReturn(children) {
			return fmt.Errorf("wasmread: function %q: falls off the end without producing its %s result", fn.Name, api.ValueTypeName(fn.Result))
		}
	}

	fn.Body = wrapSeq(top.name, children)
	return nil
}

// endsInReturn reports whether the last statement of a function's top-level
// body is already an explicit Return: a non-void function that leaves no
// value on the stack at its end must end this way.
func endsInReturn(children []ir.Expr) bool {
	if len(children) == 0 {
		return false
	}
	_, ok := children[len(children)-1].(*ir.Return)
	return ok
}

// decodeBody decodes instructions into statement children plus at most one
// trailing value left on this scope's local operand stack, stopping at the
// next else or end byte (reported via term).
func (c *funcDecoder) decodeBody(r *reader) (children []ir.Expr, trailing ir.Expr, term byte, err error) {
	var stack []ir.Expr

	pop := func() (ir.Expr, error) {
		if len(stack) == 0 {
			return nil, fmt.Errorf("operand stack underflow")
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, nil
	}
	popN := func(n int) ([]ir.Expr, error) {
		if len(stack) < n {
			return nil, fmt.Errorf("operand stack underflow: need %d, have %d", n, len(stack))
		}
		out := append([]ir.Expr(nil), stack[len(stack)-n:]...)
		stack = stack[:len(stack)-n]
		return out, nil
	}
	push := func(e ir.Expr) { stack = append(stack, e) }
	stmt := func(e ir.Expr) { children = append(children, e) }

	for {
		op, rerr := r.byte()
		if rerr != nil {
			return nil, nil, 0, rerr
		}
		switch op {
		case opEnd, opElse:
			if len(stack) > 1 {
				return nil, nil, 0, fmt.Errorf("%d values left on the stack, at most 1 supported", len(stack))
			}
			if len(stack) == 1 {
				trailing = stack[0]
			}
			return children, trailing, op, nil

		case opNop:
			// no-op: nothing to append.

		case opUnreachable:
			stmt(&ir.Unreachable{})

		case opBlock:
			bt, berr := r.byte()
			if berr != nil {
				return nil, nil, 0, berr
			}
			if bt != binEmpty {
				return nil, nil, 0, newPreconditionError("block declares a non-void result type")
			}
			c.pushLabel(scopeBlock)
			kids, tr, bterm, berr2 := c.decodeBody(r)
			if berr2 != nil {
				return nil, nil, 0, berr2
			}
			if bterm != opEnd {
				return nil, nil, 0, fmt.Errorf("block closed by else instead of end")
			}
			if tr != nil {
				return nil, nil, 0, newPreconditionError("block leaves a value on the stack")
			}
			scope := c.popLabel()
			stmt(&ir.Block{Name: scope.name, Children: kids})

		case opLoop:
			bt, berr := r.byte()
			if berr != nil {
				return nil, nil, 0, berr
			}
			if bt != binEmpty {
				return nil, nil, 0, newPreconditionError("loop declares a non-void result type")
			}
			c.pushLabel(scopeLoop)
			kids, tr, bterm, berr2 := c.decodeBody(r)
			if berr2 != nil {
				return nil, nil, 0, berr2
			}
			if bterm != opEnd {
				return nil, nil, 0, fmt.Errorf("loop closed by else instead of end")
			}
			if tr != nil {
				return nil, nil, 0, newPreconditionError("loop leaves a value on the stack")
			}
			scope := c.popLabel()
			stmt(&ir.Loop{Name: scope.name, Body: wrapSeq("", kids)})

		case opIf:
			bt, berr := r.byte()
			if berr != nil {
				return nil, nil, 0, berr
			}
			if bt != binEmpty {
				return nil, nil, 0, newPreconditionError("if declares a non-void result type")
			}
			cond, perr := pop()
			if perr != nil {
				return nil, nil, 0, perr
			}
			c.pushLabel(scopeIf)
			thenKids, thenTr, thenTerm, terr := c.decodeBody(r)
			if terr != nil {
				return nil, nil, 0, terr
			}
			if thenTr != nil {
				return nil, nil, 0, newPreconditionError("if-then leaves a value on the stack")
			}
			var elseExpr ir.Expr
			if thenTerm == opElse {
				elseKids, elseTr, elseTerm, eerr := c.decodeBody(r)
				if eerr != nil {
					return nil, nil, 0, eerr
				}
				if elseTerm != opEnd {
					return nil, nil, 0, fmt.Errorf("if-else closed by else instead of end")
				}
				if elseTr != nil {
					return nil, nil, 0, newPreconditionError("if-else leaves a value on the stack")
				}
				elseExpr = wrapSeq("", elseKids)
			}
			scope := c.popLabel()
			ifNode := &ir.If{Cond: cond, Then: wrapSeq("", thenKids), Else: elseExpr}
			if scope.used {
				stmt(&ir.Block{Name: scope.name, Children: []ir.Expr{ifNode}})
			} else {
				stmt(ifNode)
			}

		case opBr:
			depth, derr := r.varU32()
			if derr != nil {
				return nil, nil, 0, derr
			}
			name, lerr := c.labelAt(depth)
			if lerr != nil {
				return nil, nil, 0, lerr
			}
			stmt(&ir.Break{Name: name})

		case opBrIf:
			depth, derr := r.varU32()
			if derr != nil {
				return nil, nil, 0, derr
			}
			name, lerr := c.labelAt(depth)
			if lerr != nil {
				return nil, nil, 0, lerr
			}
			cond, perr := pop()
			if perr != nil {
				return nil, nil, 0, perr
			}
			stmt(&ir.Break{Name: name, Cond: cond})

		case opBrTable:
			n, nerr := r.varU32()
			if nerr != nil {
				return nil, nil, 0, nerr
			}
			names := make([]string, n)
			for i := range names {
				d, derr := r.varU32()
				if derr != nil {
					return nil, nil, 0, derr
				}
				names[i], err = c.labelAt(d)
				if err != nil {
					return nil, nil, 0, err
				}
			}
			defDepth, derr := r.varU32()
			if derr != nil {
				return nil, nil, 0, derr
			}
			defName, lerr := c.labelAt(defDepth)
			if lerr != nil {
				return nil, nil, 0, lerr
			}
			cond, perr := pop()
			if perr != nil {
				return nil, nil, 0, perr
			}
			stmt(&ir.Switch{Cond: cond, Names: names, DefaultName: defName})

		case opReturn:
			if c.fn.Result == api.ValueTypeNone {
				stmt(&ir.Return{})
				break
			}
			v, perr := pop()
			if perr != nil {
				return nil, nil, 0, perr
			}
			stmt(&ir.Return{Value: v})

		case opCall:
			idx, ierr := r.varU32()
			if ierr != nil {
				return nil, nil, 0, ierr
			}
			name, ft, serr := c.sig.funcSignature(idx)
			if serr != nil {
				return nil, nil, 0, serr
			}
			ops, perr := popN(len(ft.params))
			if perr != nil {
				return nil, nil, 0, perr
			}
			result, rerr := ft.result()
			if rerr != nil {
				return nil, nil, 0, rerr
			}
			call := &ir.Call{Target: name, Operands: ops, ResultType: result}
			if result == api.ValueTypeNone {
				stmt(call)
			} else {
				push(call)
			}

		case opCallIndirect:
			typeIdx, terr := r.varU32()
			if terr != nil {
				return nil, nil, 0, terr
			}
			if int(typeIdx) >= len(c.sig.types) {
				return nil, nil, 0, fmt.Errorf("call_indirect type index %d out of range", typeIdx)
			}
			reserved, rerr := r.varU32()
			if rerr != nil {
				return nil, nil, 0, rerr
			}
			if reserved != 0 {
				return nil, nil, 0, newPreconditionError("call_indirect: only table index 0 is supported")
			}
			target, perr := pop()
			if perr != nil {
				return nil, nil, 0, perr
			}
			ft := c.sig.types[typeIdx]
			ops, perr2 := popN(len(ft.params))
			if perr2 != nil {
				return nil, nil, 0, perr2
			}
			result, rerr2 := ft.result()
			if rerr2 != nil {
				return nil, nil, 0, rerr2
			}
			ci := &ir.CallIndirect{Target: target, Operands: ops, ResultType: result}
			if result == api.ValueTypeNone {
				stmt(ci)
			} else {
				push(ci)
			}

		case opDrop:
			v, perr := pop()
			if perr != nil {
				return nil, nil, 0, perr
			}
			stmt(&ir.Drop{Value: v})

		case opSelect:
			vals, perr := popN(3)
			if perr != nil {
				return nil, nil, 0, perr
			}
			ifTrue, ifFalse, cond := vals[0], vals[1], vals[2]
			push(&ir.Select{IfTrue: ifTrue, IfFalse: ifFalse, Cond: cond, Typ: ifTrue.Type()})

		case opLocalGet:
			idx, ierr := r.varU32()
			if ierr != nil {
				return nil, nil, 0, ierr
			}
			push(&ir.LocalGet{Index: idx, Typ: c.fn.LocalType(idx)})

		case opLocalSet:
			idx, ierr := r.varU32()
			if ierr != nil {
				return nil, nil, 0, ierr
			}
			v, perr := pop()
			if perr != nil {
				return nil, nil, 0, perr
			}
			stmt(&ir.LocalSet{Index: idx, Value: v, Typ: v.Type()})

		case opLocalTee:
			idx, ierr := r.varU32()
			if ierr != nil {
				return nil, nil, 0, ierr
			}
			v, perr := pop()
			if perr != nil {
				return nil, nil, 0, perr
			}
			push(&ir.LocalSet{Index: idx, Value: v, IsTee: true, Typ: v.Type()})

		case opGlobalGet:
			idx, ierr := r.varU32()
			if ierr != nil {
				return nil, nil, 0, ierr
			}
			name, typ, serr := c.sig.globalSignature(idx)
			if serr != nil {
				return nil, nil, 0, serr
			}
			push(&ir.GlobalGet{Name: name, Typ: typ})

		case opGlobalSet:
			idx, ierr := r.varU32()
			if ierr != nil {
				return nil, nil, 0, ierr
			}
			name, _, serr := c.sig.globalSignature(idx)
			if serr != nil {
				return nil, nil, 0, serr
			}
			v, perr := pop()
			if perr != nil {
				return nil, nil, 0, perr
			}
			stmt(&ir.GlobalSet{Name: name, Value: v})

		case opI32Load, opF32Load, opF64Load, opI32Load8S, opI32Load8U, opI32Load16S, opI32Load16U:
			_, aerr := r.varU32() // align hint, unused
			if aerr != nil {
				return nil, nil, 0, aerr
			}
			offset, oerr := r.varU32()
			if oerr != nil {
				return nil, nil, 0, oerr
			}
			ptr, perr := pop()
			if perr != nil {
				return nil, nil, 0, perr
			}
			typ, width, signed := loadShape(op)
			push(&ir.Load{Ptr: ptr, Offset: offset, Width: width, Typ: typ, IsSigned: signed})

		case opI32Store, opF32Store, opF64Store, opI32Store8, opI32Store16:
			_, aerr := r.varU32()
			if aerr != nil {
				return nil, nil, 0, aerr
			}
			offset, oerr := r.varU32()
			if oerr != nil {
				return nil, nil, 0, oerr
			}
			value, perr := pop()
			if perr != nil {
				return nil, nil, 0, perr
			}
			ptr, perr2 := pop()
			if perr2 != nil {
				return nil, nil, 0, perr2
			}
			typ, width := storeShape(op)
			stmt(&ir.Store{Ptr: ptr, Offset: offset, Value: value, Width: width, Typ: typ})

		case opMemorySize:
			reserved, rerr := r.byte()
			if rerr != nil {
				return nil, nil, 0, rerr
			}
			if reserved != 0 {
				return nil, nil, 0, fmt.Errorf("memory.size: reserved byte must be 0")
			}
			push(&ir.Host{Op: ir.HostMemorySize})

		case opMemoryGrow:
			reserved, rerr := r.byte()
			if rerr != nil {
				return nil, nil, 0, rerr
			}
			if reserved != 0 {
				return nil, nil, 0, fmt.Errorf("memory.grow: reserved byte must be 0")
			}
			arg, perr := pop()
			if perr != nil {
				return nil, nil, 0, perr
			}
			push(&ir.Host{Op: ir.HostMemoryGrow, Argument: arg})

		case opI32Const:
			v, verr := r.varI32()
			if verr != nil {
				return nil, nil, 0, verr
			}
			push(&ir.Const{Typ: api.ValueTypeI32, I32: v})

		case opF32Const:
			v, verr := r.f32()
			if verr != nil {
				return nil, nil, 0, verr
			}
			push(&ir.Const{Typ: api.ValueTypeF32, F64: float64(v), IsNaN: math.IsNaN(float64(v))})

		case opF64Const:
			v, verr := r.f64()
			if verr != nil {
				return nil, nil, 0, verr
			}
			push(&ir.Const{Typ: api.ValueTypeF64, F64: v, IsNaN: math.IsNaN(v)})

		default:
			if handled, perr := c.decodeNumericOp(op, pop, popN, push); perr != nil {
				return nil, nil, 0, perr
			} else if !handled {
				return nil, nil, 0, fmt.Errorf("unsupported opcode %#x", op)
			}
		}
	}
}

func loadShape(op byte) (typ api.ValueType, width ir.LoadWidth, signed bool) {
	switch op {
	case opI32Load:
		return api.ValueTypeI32, ir.Width32, false
	case opF32Load:
		return api.ValueTypeF32, ir.Width32, false
	case opF64Load:
		return api.ValueTypeF64, ir.Width64, false
	case opI32Load8S:
		return api.ValueTypeI32, ir.Width8, true
	case opI32Load8U:
		return api.ValueTypeI32, ir.Width8, false
	case opI32Load16S:
		return api.ValueTypeI32, ir.Width16, true
	case opI32Load16U:
		return api.ValueTypeI32, ir.Width16, false
	}
	panic("unreachable")
}

func storeShape(op byte) (typ api.ValueType, width ir.LoadWidth) {
	switch op {
	case opI32Store:
		return api.ValueTypeI32, ir.Width32
	case opF32Store:
		return api.ValueTypeF32, ir.Width32
	case opF64Store:
		return api.ValueTypeF64, ir.Width64
	case opI32Store8:
		return api.ValueTypeI32, ir.Width8
	case opI32Store16:
		return api.ValueTypeI32, ir.Width16
	}
	panic("unreachable")
}

// decodeNumericOp handles every remaining comparison/arithmetic/conversion
// opcode (§4.1.3's unary and binary operator tables), returning handled=false
// for anything this core does not accept.
func (c *funcDecoder) decodeNumericOp(op byte, pop func() (ir.Expr, error), popN func(int) ([]ir.Expr, error), push func(ir.Expr)) (bool, error) {
	if u, typ, ok := unaryOpFor(op); ok {
		v, err := pop()
		if err != nil {
			return true, err
		}
		push(&ir.Unary{Op: u, Operand: v, Typ: typ})
		return true, nil
	}
	if b, typ, ok := binaryOpFor(op); ok {
		vals, err := popN(2)
		if err != nil {
			return true, err
		}
		push(&ir.Binary{Op: b, Left: vals[0], Right: vals[1], Typ: typ})
		return true, nil
	}
	return false, nil
}

// unaryOpFor maps a unary opcode to its ir.UnaryOp and the type the result
// (per ir.Unary's doc comment) carries.
func unaryOpFor(op byte) (ir.UnaryOp, api.ValueType, bool) {
	switch op {
	case opI32Eqz:
		return ir.OpEqZ, api.ValueTypeI32, true
	case opI32Clz:
		return ir.OpClz, api.ValueTypeI32, true
	case opF32Neg:
		return ir.OpNeg, api.ValueTypeF32, true
	case opF64Neg:
		return ir.OpNeg, api.ValueTypeF64, true
	case opF32Abs:
		return ir.OpAbs, api.ValueTypeF32, true
	case opF64Abs:
		return ir.OpAbs, api.ValueTypeF64, true
	case opF32Ceil:
		return ir.OpCeil, api.ValueTypeF32, true
	case opF64Ceil:
		return ir.OpCeil, api.ValueTypeF64, true
	case opF32Floor:
		return ir.OpFloor, api.ValueTypeF32, true
	case opF64Floor:
		return ir.OpFloor, api.ValueTypeF64, true
	case opF32Sqrt:
		return ir.OpSqrt, api.ValueTypeF32, true
	case opF64Sqrt:
		return ir.OpSqrt, api.ValueTypeF64, true
	case opI32TruncF32S:
		return ir.OpTruncS, api.ValueTypeI32, true
	case opI32TruncF32U:
		return ir.OpTruncU, api.ValueTypeI32, true
	case opI32TruncF64S:
		return ir.OpTruncS, api.ValueTypeI32, true
	case opI32TruncF64U:
		return ir.OpTruncU, api.ValueTypeI32, true
	case opF32ConvertI32S:
		return ir.OpConvertS, api.ValueTypeF32, true
	case opF32ConvertI32U:
		return ir.OpConvertU, api.ValueTypeF32, true
	case opF64ConvertI32S:
		return ir.OpConvertS, api.ValueTypeF64, true
	case opF64ConvertI32U:
		return ir.OpConvertU, api.ValueTypeF64, true
	case opF64PromoteF32:
		return ir.OpPromote, api.ValueTypeF64, true
	case opF32DemoteF64:
		return ir.OpDemote, api.ValueTypeF32, true
	case opI32ReinterpretF32:
		return ir.OpReinterpretF32ToI32, api.ValueTypeI32, true
	case opF32ReinterpretI32:
		return ir.OpReinterpretI32ToF32, api.ValueTypeF32, true
	}
	return 0, 0, false
}

// binaryOpFor maps a binary opcode to its ir.BinaryOp and the operand/result
// type ir.Binary.Typ should carry for it (result type for comparisons,
// operand type otherwise, per ir.Binary's doc comment).
func binaryOpFor(op byte) (ir.BinaryOp, api.ValueType, bool) {
	switch op {
	case opI32Add:
		return ir.OpAdd, api.ValueTypeI32, true
	case opI32Sub:
		return ir.OpSub, api.ValueTypeI32, true
	case opI32Mul:
		return ir.OpMul, api.ValueTypeI32, true
	case opI32DivS:
		return ir.OpDivS, api.ValueTypeI32, true
	case opI32DivU:
		return ir.OpDivU, api.ValueTypeI32, true
	case opI32RemS:
		return ir.OpRemS, api.ValueTypeI32, true
	case opI32RemU:
		return ir.OpRemU, api.ValueTypeI32, true
	case opI32And:
		return ir.OpAnd, api.ValueTypeI32, true
	case opI32Or:
		return ir.OpOr, api.ValueTypeI32, true
	case opI32Xor:
		return ir.OpXor, api.ValueTypeI32, true
	case opI32Shl:
		return ir.OpShl, api.ValueTypeI32, true
	case opI32ShrS:
		return ir.OpShrS, api.ValueTypeI32, true
	case opI32ShrU:
		return ir.OpShrU, api.ValueTypeI32, true

	case opF32Add:
		return ir.OpAdd, api.ValueTypeF32, true
	case opF64Add:
		return ir.OpAdd, api.ValueTypeF64, true
	case opF32Sub:
		return ir.OpSub, api.ValueTypeF32, true
	case opF64Sub:
		return ir.OpSub, api.ValueTypeF64, true
	case opF32Mul:
		return ir.OpMul, api.ValueTypeF32, true
	case opF64Mul:
		return ir.OpMul, api.ValueTypeF64, true
	case opF32Div:
		return ir.OpDivF, api.ValueTypeF32, true
	case opF64Div:
		return ir.OpDivF, api.ValueTypeF64, true
	case opF32Min:
		return ir.OpMin, api.ValueTypeF32, true
	case opF64Min:
		return ir.OpMin, api.ValueTypeF64, true
	case opF32Max:
		return ir.OpMax, api.ValueTypeF32, true
	case opF64Max:
		return ir.OpMax, api.ValueTypeF64, true

	case opI32Eq:
		return ir.OpEq, api.ValueTypeI32, true
	case opI32Ne:
		return ir.OpNe, api.ValueTypeI32, true
	case opI32LtS:
		return ir.OpLtS, api.ValueTypeI32, true
	case opI32LtU:
		return ir.OpLtU, api.ValueTypeI32, true
	case opI32GtS:
		return ir.OpGtS, api.ValueTypeI32, true
	case opI32GtU:
		return ir.OpGtU, api.ValueTypeI32, true
	case opI32LeS:
		return ir.OpLeS, api.ValueTypeI32, true
	case opI32LeU:
		return ir.OpLeU, api.ValueTypeI32, true
	case opI32GeS:
		return ir.OpGeS, api.ValueTypeI32, true
	case opI32GeU:
		return ir.OpGeU, api.ValueTypeI32, true

	case opF32Eq:
		return ir.OpEq, api.ValueTypeI32, true
	case opF64Eq:
		return ir.OpEq, api.ValueTypeI32, true
	case opF32Ne:
		return ir.OpNe, api.ValueTypeI32, true
	case opF64Ne:
		return ir.OpNe, api.ValueTypeI32, true
	case opF32Lt:
		return ir.OpLtF, api.ValueTypeI32, true
	case opF64Lt:
		return ir.OpLtF, api.ValueTypeI32, true
	case opF32Gt:
		return ir.OpGtF, api.ValueTypeI32, true
	case opF64Gt:
		return ir.OpGtF, api.ValueTypeI32, true
	case opF32Le:
		return ir.OpLeF, api.ValueTypeI32, true
	case opF64Le:
		return ir.OpLeF, api.ValueTypeI32, true
	case opF32Ge:
		return ir.OpGeF, api.ValueTypeI32, true
	case opF64Ge:
		return ir.OpGeF, api.ValueTypeI32, true
	}
	return 0, 0, false
}
