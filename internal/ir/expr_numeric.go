package ir

import "github.com/brion/wasm2swf/api"

// GlobalGet corresponds to §4.1.5.
type GlobalGet struct {
	Name string
	Typ  api.ValueType
}

func (g *GlobalGet) Kind() Kind          { return KindGlobalGet }
func (g *GlobalGet) Type() api.ValueType { return g.Typ }

// GlobalSet corresponds to §4.1.5.
type GlobalSet struct {
	Name  string
	Value Expr
}

func (*GlobalSet) Kind() Kind          { return KindGlobalSet }
func (*GlobalSet) Type() api.ValueType { return api.ValueTypeNone }

// Load corresponds to §4.1.4 Load {ptr, offset, bytes, type, isSigned}.
type Load struct {
	Ptr      Expr
	Offset   uint32
	Width    LoadWidth
	Typ      api.ValueType // result type: i32 or f32/f64
	IsSigned bool          // only meaningful for i32 sub-word loads
}

func (l *Load) Kind() Kind          { return KindLoad }
func (l *Load) Type() api.ValueType { return l.Typ }

// Store corresponds to §4.1.4 Store {ptr, offset, value}.
type Store struct {
	Ptr    Expr
	Offset uint32
	Value  Expr
	Width  LoadWidth
	Typ    api.ValueType // type of Value, selects si32 vs sf32/sf64
}

func (*Store) Kind() Kind          { return KindStore }
func (*Store) Type() api.ValueType { return api.ValueTypeNone }

// Const corresponds to §4.1.3 Constants. I32 values are carried as int32;
// float values as float64 (f32 payloads are still exact in a float64).
type Const struct {
	Typ    api.ValueType
	I32    int32
	F64    float64
	IsNaN  bool // forces the pushnan opcode regardless of F64's bit pattern
}

func (c *Const) Kind() Kind          { return KindConst }
func (c *Const) Type() api.ValueType { return c.Typ }

// Unary corresponds to §4.1.3 unary numeric/conversion operators.
type Unary struct {
	Op      UnaryOp
	Operand Expr
	Typ     api.ValueType // result type
}

func (u *Unary) Kind() Kind          { return KindUnary }
func (u *Unary) Type() api.ValueType { return u.Typ }

// Binary corresponds to §4.1.3 binary numeric/comparison operators.
type Binary struct {
	Op          BinaryOp
	Left, Right Expr
	Typ         api.ValueType // result type (i32 for compares, operand type otherwise)
}

func (b *Binary) Kind() Kind          { return KindBinary }
func (b *Binary) Type() api.ValueType { return b.Typ }

// Select corresponds to §4.1.7 Select {ifTrue, ifFalse, cond}.
type Select struct {
	IfTrue, IfFalse, Cond Expr
	Typ                   api.ValueType
}

func (s *Select) Kind() Kind          { return KindSelect }
func (s *Select) Type() api.ValueType { return s.Typ }

// Drop corresponds to §4.1.7 Drop.
type Drop struct {
	Value Expr
}

func (*Drop) Kind() Kind          { return KindDrop }
func (*Drop) Type() api.ValueType { return api.ValueTypeNone }

// Return corresponds to §4.1.1 Return {value?}.
type Return struct {
	Value Expr // nil if the function result is none
}

func (*Return) Kind() Kind          { return KindReturn }
func (*Return) Type() api.ValueType { return api.ValueTypeNone }

// Host corresponds to §4.1.7 Host {MemorySize | MemoryGrow}.
type Host struct {
	Op       HostOp
	Argument Expr // MemoryGrow's page-count operand; nil for MemorySize
}

func (h *Host) Kind() Kind { return KindHost }
func (h *Host) Type() api.ValueType {
	return api.ValueTypeI32
}

// Nop corresponds to §4.1.1 Nop.
type Nop struct{}

func (Nop) Kind() Kind          { return KindNop }
func (Nop) Type() api.ValueType { return api.ValueTypeNone }

// Unreachable corresponds to §4.1.1 Unreachable.
type Unreachable struct{}

func (Unreachable) Kind() Kind          { return KindUnreachable }
func (Unreachable) Type() api.ValueType { return api.ValueTypeNone }
