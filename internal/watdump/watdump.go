// Package watdump renders a decoded internal/ir.Module as readable
// WebAssembly-text-flavored output for the --save-wat CLI flag (§6). It is
// a debugging aid, not a conformant WAT emitter: mnemonics and structure
// follow the WAT surface syntax closely enough to be readable, but the
// synthetic block/loop names this project's reader assigns are printed
// verbatim rather than re-derived as WAT's own relative depth numbers.
package watdump

import (
	"fmt"
	"io"
	"strings"

	"github.com/brion/wasm2swf/api"
	"github.com/brion/wasm2swf/internal/ir"
)

// WriteModule writes a textual dump of mod to w.
func WriteModule(w io.Writer, mod *ir.Module) error {
	b := &strings.Builder{}
	b.WriteString("(module\n")
	if mod.Memory.InitialPages > 0 || len(mod.Memory.Segments) > 0 {
		fmt.Fprintf(b, "  (memory %d)\n", mod.Memory.InitialPages)
	}
	for _, g := range mod.Globals {
		mut := ""
		if g.Mutable {
			mut = "mut "
		}
		fmt.Fprintf(b, "  (global $%s (%s%s) (%s))\n", g.Name, mut, api.ValueTypeName(g.Typ), constText(g.Init))
	}
	for _, imp := range mod.Imports {
		fmt.Fprintf(b, "  (import %q %q (%s))\n", imp.Module, imp.Base, api.ExternTypeName(imp.Kind))
	}
	for _, seg := range mod.Table.Segments {
		fmt.Fprintf(b, "  (elem (i32.const %d) %s)\n", seg.Offset, strings.Join(quoteAll(seg.FunctionNames), " "))
	}
	for _, seg := range mod.Memory.Segments {
		fmt.Fprintf(b, "  (data (i32.const %d) %d bytes)\n", seg.ByteOffset, len(seg.Bytes))
	}
	for _, exp := range mod.Exports {
		fmt.Fprintf(b, "  (export %q (%s %s))\n", exp.Name, api.ExternTypeName(exp.Kind), exp.Target)
	}
	for _, fn := range mod.Functions {
		writeFunction(b, fn)
	}
	b.WriteString(")\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("$%s", s)
	}
	return out
}

func constText(c *ir.Const) string {
	if c == nil {
		return ""
	}
	switch c.Typ {
	case api.ValueTypeI32:
		return fmt.Sprintf("i32.const %d", c.I32)
	case api.ValueTypeF32:
		return fmt.Sprintf("f32.const %g", c.F64)
	default:
		return fmt.Sprintf("f64.const %g", c.F64)
	}
}

var unaryOpNames = map[ir.UnaryOp]string{
	ir.OpEqZ: "eqz", ir.OpClz: "clz", ir.OpNeg: "neg", ir.OpAbs: "abs",
	ir.OpCeil: "ceil", ir.OpFloor: "floor", ir.OpSqrt: "sqrt",
	ir.OpTruncS: "trunc_s", ir.OpTruncU: "trunc_u",
	ir.OpConvertS: "convert_s", ir.OpConvertU: "convert_u",
	ir.OpPromote: "promote", ir.OpDemote: "demote",
	ir.OpReinterpretF32ToI32: "reinterpret_f32_i32", ir.OpReinterpretI32ToF32: "reinterpret_i32_f32",
}

func unaryOpName(op ir.UnaryOp) string {
	if n, ok := unaryOpNames[op]; ok {
		return "unary." + n
	}
	return "unary.?"
}

var binaryOpNames = map[ir.BinaryOp]string{
	ir.OpAdd: "add", ir.OpSub: "sub", ir.OpMul: "mul",
	ir.OpDivS: "div_s", ir.OpDivU: "div_u", ir.OpDivF: "div",
	ir.OpRemS: "rem_s", ir.OpRemU: "rem_u",
	ir.OpAnd: "and", ir.OpOr: "or", ir.OpXor: "xor",
	ir.OpShl: "shl", ir.OpShrS: "shr_s", ir.OpShrU: "shr_u",
	ir.OpMin: "min", ir.OpMax: "max",
	ir.OpEq: "eq", ir.OpNe: "ne",
	ir.OpLtS: "lt_s", ir.OpLtU: "lt_u", ir.OpLtF: "lt",
	ir.OpLeS: "le_s", ir.OpLeU: "le_u", ir.OpLeF: "le",
	ir.OpGtS: "gt_s", ir.OpGtU: "gt_u", ir.OpGtF: "gt",
	ir.OpGeS: "ge_s", ir.OpGeU: "ge_u", ir.OpGeF: "ge",
}

func binaryOpName(op ir.BinaryOp) string {
	if n, ok := binaryOpNames[op]; ok {
		return "binary." + n
	}
	return "binary.?"
}

func writeFunction(b *strings.Builder, fn *ir.Function) {
	if fn.Imported {
		fmt.Fprintf(b, "  (func $%s (import %q %q))\n", fn.Name, fn.Module, fn.Base)
		return
	}
	fmt.Fprintf(b, "  (func $%s", fn.Name)
	for i, p := range fn.Params {
		fmt.Fprintf(b, " (param $%d %s)", i, api.ValueTypeName(p))
	}
	if fn.Result != api.ValueTypeNone {
		fmt.Fprintf(b, " (result %s)", api.ValueTypeName(fn.Result))
	}
	b.WriteString("\n")
	for i, l := range fn.Locals {
		fmt.Fprintf(b, "    (local $%d %s)\n", len(fn.Params)+i, api.ValueTypeName(l))
	}
	writeExpr(b, fn.Body, 2)
	b.WriteString("  )\n")
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

// writeExpr renders one Expr node, and for statement-sequence nodes
// (Block), each child on its own line at depth.
func writeExpr(b *strings.Builder, e ir.Expr, depth int) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ir.Block:
		for _, c := range n.Children {
			indent(b, depth)
			writeExprInline(b, c, depth)
			b.WriteString("\n")
		}
	default:
		indent(b, depth)
		writeExprInline(b, e, depth)
		b.WriteString("\n")
	}
}

// writeExprInline renders a single non-Block expression as one (possibly
// multi-line, for nested control flow) s-expression.
func writeExprInline(b *strings.Builder, e ir.Expr, depth int) {
	switch n := e.(type) {
	case *ir.Block:
		fmt.Fprintf(b, "(block $%s\n", n.Name)
		writeExpr(b, n, depth+1)
		indent(b, depth)
		b.WriteString(")")
	case *ir.Loop:
		fmt.Fprintf(b, "(loop $%s\n", n.Name)
		writeExpr(b, n.Body, depth+1)
		indent(b, depth)
		b.WriteString(")")
	case *ir.If:
		b.WriteString("(if ")
		writeExprInline(b, n.Cond, depth)
		b.WriteString("\n")
		indent(b, depth)
		b.WriteString("(then\n")
		writeExpr(b, n.Then, depth+1)
		indent(b, depth)
		b.WriteString(")")
		if n.Else != nil {
			b.WriteString("\n")
			indent(b, depth)
			b.WriteString("(else\n")
			writeExpr(b, n.Else, depth+1)
			indent(b, depth)
			b.WriteString(")")
		}
		b.WriteString(")")
	case *ir.Break:
		if n.Cond != nil {
			b.WriteString("(br_if $")
			b.WriteString(n.Name)
			b.WriteString(" ")
			writeExprInline(b, n.Cond, depth)
			b.WriteString(")")
		} else {
			fmt.Fprintf(b, "(br $%s)", n.Name)
		}
	case *ir.Switch:
		fmt.Fprintf(b, "(br_table %s $%s ", strings.Join(quoteAll(n.Names), " "), n.DefaultName)
		writeExprInline(b, n.Cond, depth)
		b.WriteString(")")
	case *ir.Return:
		if n.Value != nil {
			b.WriteString("(return ")
			writeExprInline(b, n.Value, depth)
			b.WriteString(")")
		} else {
			b.WriteString("(return)")
		}
	case *ir.Call:
		fmt.Fprintf(b, "(call $%s", n.Target)
		for _, op := range n.Operands {
			b.WriteString(" ")
			writeExprInline(b, op, depth)
		}
		b.WriteString(")")
	case *ir.CallIndirect:
		b.WriteString("(call_indirect")
		for _, op := range n.Operands {
			b.WriteString(" ")
			writeExprInline(b, op, depth)
		}
		b.WriteString(" ")
		writeExprInline(b, n.Target, depth)
		b.WriteString(")")
	case *ir.LocalGet:
		fmt.Fprintf(b, "(local.get %d)", n.Index)
	case *ir.LocalSet:
		op := "local.set"
		if n.IsTee {
			op = "local.tee"
		}
		fmt.Fprintf(b, "(%s %d ", op, n.Index)
		writeExprInline(b, n.Value, depth)
		b.WriteString(")")
	case *ir.GlobalGet:
		fmt.Fprintf(b, "(global.get $%s)", n.Name)
	case *ir.GlobalSet:
		fmt.Fprintf(b, "(global.set $%s ", n.Name)
		writeExprInline(b, n.Value, depth)
		b.WriteString(")")
	case *ir.Load:
		fmt.Fprintf(b, "(%s.load offset=%d ", api.ValueTypeName(n.Typ), n.Offset)
		writeExprInline(b, n.Ptr, depth)
		b.WriteString(")")
	case *ir.Store:
		fmt.Fprintf(b, "(%s.store offset=%d ", api.ValueTypeName(n.Typ), n.Offset)
		writeExprInline(b, n.Ptr, depth)
		b.WriteString(" ")
		writeExprInline(b, n.Value, depth)
		b.WriteString(")")
	case *ir.Const:
		b.WriteString("(")
		b.WriteString(constText(n))
		b.WriteString(")")
	case *ir.Unary:
		fmt.Fprintf(b, "(%s ", unaryOpName(n.Op))
		writeExprInline(b, n.Operand, depth)
		b.WriteString(")")
	case *ir.Binary:
		fmt.Fprintf(b, "(%s ", binaryOpName(n.Op))
		writeExprInline(b, n.Left, depth)
		b.WriteString(" ")
		writeExprInline(b, n.Right, depth)
		b.WriteString(")")
	case *ir.Select:
		b.WriteString("(select ")
		writeExprInline(b, n.IfTrue, depth)
		b.WriteString(" ")
		writeExprInline(b, n.IfFalse, depth)
		b.WriteString(" ")
		writeExprInline(b, n.Cond, depth)
		b.WriteString(")")
	case *ir.Drop:
		b.WriteString("(drop ")
		writeExprInline(b, n.Value, depth)
		b.WriteString(")")
	case *ir.Host:
		if n.Op == ir.HostMemoryGrow {
			b.WriteString("(memory.grow ")
			writeExprInline(b, n.Argument, depth)
			b.WriteString(")")
		} else {
			b.WriteString("(memory.size)")
		}
	case *ir.Nop:
		b.WriteString("(nop)")
	case *ir.Unreachable:
		b.WriteString("(unreachable)")
	default:
		fmt.Fprintf(b, "(unknown %s)", e.Kind())
	}
}
