package ir

import "github.com/brion/wasm2swf/api"

// Kind tags the concrete type of an Expr node, mirroring §3's "tagged tree
// node with kind ∈ {...}".
type Kind byte

const (
	KindBlock Kind = iota + 1
	KindIf
	KindLoop
	KindBreak
	KindSwitch
	KindCall
	KindCallIndirect
	KindLocalGet
	KindLocalSet
	KindGlobalGet
	KindGlobalSet
	KindLoad
	KindStore
	KindConst
	KindUnary
	KindBinary
	KindSelect
	KindDrop
	KindReturn
	KindHost
	KindNop
	KindUnreachable
)

func (k Kind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindIf:
		return "if"
	case KindLoop:
		return "loop"
	case KindBreak:
		return "break"
	case KindSwitch:
		return "switch"
	case KindCall:
		return "call"
	case KindCallIndirect:
		return "call_indirect"
	case KindLocalGet:
		return "local.get"
	case KindLocalSet:
		return "local.set"
	case KindGlobalGet:
		return "global.get"
	case KindGlobalSet:
		return "global.set"
	case KindLoad:
		return "load"
	case KindStore:
		return "store"
	case KindConst:
		return "const"
	case KindUnary:
		return "unary"
	case KindBinary:
		return "binary"
	case KindSelect:
		return "select"
	case KindDrop:
		return "drop"
	case KindReturn:
		return "return"
	case KindHost:
		return "host"
	case KindNop:
		return "nop"
	case KindUnreachable:
		return "unreachable"
	}
	return "unknown"
}

// Expr is a node of the Wasm expression tree (§3). Every Expr reports its
// own Kind and its declared Wasm type; concrete lowering logic type-switches
// on the Kind to recover the payload struct.
type Expr interface {
	Kind() Kind
	Type() api.ValueType
}

// Block corresponds to §4.1.1 Block {name, children}.
type Block struct {
	Name     string
	Children []Expr
}

func (*Block) Kind() Kind          { return KindBlock }
func (*Block) Type() api.ValueType { return api.ValueTypeNone }

// If corresponds to §4.1.1 If {cond, then, else?}.
type If struct {
	Cond Expr
	Then Expr
	Else Expr // nil if absent
}

func (*If) Kind() Kind          { return KindIf }
func (*If) Type() api.ValueType { return api.ValueTypeNone }

// Loop corresponds to §4.1.1 Loop {name, body}.
type Loop struct {
	Name string
	Body Expr
}

func (*Loop) Kind() Kind          { return KindLoop }
func (*Loop) Type() api.ValueType { return api.ValueTypeNone }

// Break corresponds to §4.1.1 Break {name, cond?, value?}. Value is carried
// only so the lowerer can detect and reject it (§4.1.1, §9 open question b);
// it must always be nil for input this core accepts.
type Break struct {
	Name  string
	Cond  Expr // nil if unconditional
	Value Expr // must be nil; present only to make the violation detectable
}

func (*Break) Kind() Kind          { return KindBreak }
func (*Break) Type() api.ValueType { return api.ValueTypeNone }

// Switch corresponds to §4.1.1 Switch {cond, names[], defaultName}.
type Switch struct {
	Cond        Expr
	Names       []string
	DefaultName string
}

func (*Switch) Kind() Kind          { return KindSwitch }
func (*Switch) Type() api.ValueType { return api.ValueTypeNone }

// Call is a direct call (§4.1.6).
type Call struct {
	Target     string // Wasm function name
	Operands   []Expr
	ResultType api.ValueType // ValueTypeNone if the callee returns void
}

func (c *Call) Kind() Kind          { return KindCall }
func (c *Call) Type() api.ValueType { return c.ResultType }

// CallIndirect is an indirect call through the function table (§4.1.6).
type CallIndirect struct {
	Target     Expr // i32 index into the table
	Operands   []Expr
	ResultType api.ValueType
}

func (c *CallIndirect) Kind() Kind          { return KindCallIndirect }
func (c *CallIndirect) Type() api.ValueType { return c.ResultType }

// LocalGet corresponds to §4.1.5 LocalGet k.
type LocalGet struct {
	Index uint32
	Typ   api.ValueType
}

func (l *LocalGet) Kind() Kind          { return KindLocalGet }
func (l *LocalGet) Type() api.ValueType { return l.Typ }

// LocalSet corresponds to §4.1.5 LocalSet {k, value, isTee}.
type LocalSet struct {
	Index uint32
	Value Expr
	IsTee bool
	Typ   api.ValueType // type of Value / of the tee result
}

func (l *LocalSet) Kind() Kind { return KindLocalSet }
func (l *LocalSet) Type() api.ValueType {
	if l.IsTee {
		return l.Typ
	}
	return api.ValueTypeNone
}
