package wasmread

// Wasm instruction opcodes this reader accepts (§6 binary format), limited
// to the MVP subset minus the operations this core's lowering engine never
// sees: rotate, popcnt, ctz, copysign, float-rounding trunc/nearest, and
// every i64 opcode.
const (
	opUnreachable = 0x00
	opNop         = 0x01
	opBlock       = 0x02
	opLoop        = 0x03
	opIf          = 0x04
	opElse        = 0x05
	opEnd         = 0x0B
	opBr          = 0x0C
	opBrIf        = 0x0D
	opBrTable     = 0x0E
	opReturn      = 0x0F
	opCall        = 0x10
	opCallIndirect = 0x11

	opDrop   = 0x1A
	opSelect = 0x1B

	opLocalGet  = 0x20
	opLocalSet  = 0x21
	opLocalTee  = 0x22
	opGlobalGet = 0x23
	opGlobalSet = 0x24

	opI32Load    = 0x28
	opF32Load    = 0x2A
	opF64Load    = 0x2B
	opI32Load8S  = 0x2C
	opI32Load8U  = 0x2D
	opI32Load16S = 0x2E
	opI32Load16U = 0x2F

	opI32Store   = 0x36
	opF32Store   = 0x38
	opF64Store   = 0x39
	opI32Store8  = 0x3A
	opI32Store16 = 0x3B

	opMemorySize = 0x3F
	opMemoryGrow = 0x40

	opI32Const = 0x41
	opF32Const = 0x43
	opF64Const = 0x44

	opI32Eqz = 0x45
	opI32Eq  = 0x46
	opI32Ne  = 0x47
	opI32LtS = 0x48
	opI32LtU = 0x49
	opI32GtS = 0x4A
	opI32GtU = 0x4B
	opI32LeS = 0x4C
	opI32LeU = 0x4D
	opI32GeS = 0x4E
	opI32GeU = 0x4F

	opF32Eq = 0x5B
	opF32Ne = 0x5C
	opF32Lt = 0x5D
	opF32Gt = 0x5E
	opF32Le = 0x5F
	opF32Ge = 0x60
	opF64Eq = 0x61
	opF64Ne = 0x62
	opF64Lt = 0x63
	opF64Gt = 0x64
	opF64Le = 0x65
	opF64Ge = 0x66

	opI32Clz = 0x67

	opI32Add = 0x6A
	opI32Sub = 0x6B
	opI32Mul = 0x6C
	opI32DivS = 0x6D
	opI32DivU = 0x6E
	opI32RemS = 0x6F
	opI32RemU = 0x70
	opI32And  = 0x71
	opI32Or   = 0x72
	opI32Xor  = 0x73
	opI32Shl  = 0x74
	opI32ShrS = 0x75
	opI32ShrU = 0x76

	opF32Abs   = 0x8B
	opF32Neg   = 0x8C
	opF32Ceil  = 0x8D
	opF32Floor = 0x8E
	opF32Sqrt  = 0x91
	opF32Add   = 0x92
	opF32Sub   = 0x93
	opF32Mul   = 0x94
	opF32Div   = 0x95
	opF32Min   = 0x96
	opF32Max   = 0x97

	opF64Abs   = 0x99
	opF64Neg   = 0x9A
	opF64Ceil  = 0x9B
	opF64Floor = 0x9C
	opF64Sqrt  = 0x9F
	opF64Add   = 0xA0
	opF64Sub   = 0xA1
	opF64Mul   = 0xA2
	opF64Div   = 0xA3
	opF64Min   = 0xA4
	opF64Max   = 0xA5

	opI32TruncF32S = 0xA8
	opI32TruncF32U = 0xA9
	opI32TruncF64S = 0xAA
	opI32TruncF64U = 0xAB

	opF32ConvertI32S = 0xB2
	opF32ConvertI32U = 0xB3
	opF32DemoteF64   = 0xB6
	opF64ConvertI32S = 0xB7
	opF64ConvertI32U = 0xB8
	opF64PromoteF32  = 0xBB

	opI32ReinterpretF32 = 0xBC
	opF32ReinterpretI32 = 0xBE
)
