package assemble

import "github.com/brion/wasm2swf/internal/abc"

// reattachDomainMemory emits `ApplicationDomain.currentDomain.domainMemory =
// this.memory;` (§4.3 "domain-memory reattachment"): every li8/si32/... the
// expression lowerer emits addresses whatever ByteArray is currently
// attached to the active application domain, so the memory slot must be
// re-attached after it is created or resized.
func reattachDomainMemory(b *abc.MethodBuilder) {
	b.EmitGetLex("ApplicationDomain")
	b.EmitGetProperty("currentDomain")
	b.EmitGetLocal(0)
	b.EmitGetProperty(traitMemory)
	b.EmitSetProperty("domainMemory")
}

// synthesizeClz32 builds the count-leading-zeros helper (§4.3): binary
// search over shift widths {16, 8, 4, 2, 1}, narrowing x into its top bit
// and accumulating the zero count n.
func synthesizeClz32() *abc.MethodBuilder {
	b := abc.NewMethodBuilder(2) // local1 = x, local2 = n

	zeroCase := b.PushLabel("")
	b.PopLabel()

	b.EmitGetLocal(1)
	b.EmitPushInt(0)
	b.EmitConditionalJump(abc.OpIfEq, zeroCase, 2)

	b.EmitPushInt(0)
	b.EmitSetLocal(2)

	for _, shift := range []int32{16, 8, 4, 2, 1} {
		skip := b.PushLabel("")
		b.PopLabel()

		// topMask covers the top `shift` bits; testing it against x avoids an
		// arithmetic compare against 2^31, which does not fit AVM2's signed
		// int constant range.
		topMask := int32(-(int64(1) << uint(32-shift)))
		b.EmitGetLocal(1)
		b.EmitPushInt(topMask)
		b.EmitBinary(abc.OpBitAnd)
		b.EmitPushInt(0)
		b.EmitConditionalJump(abc.OpIfNe, skip, 2)

		b.EmitGetLocal(2)
		b.EmitPushInt(shift)
		b.EmitBinary(abc.OpAddI)
		b.EmitSetLocal(2)
		b.EmitGetLocal(1)
		b.EmitPushInt(shift)
		b.EmitBinary(abc.OpLShift)
		b.EmitSetLocal(1)

		b.Bind(skip)
	}

	done := b.PushLabel("")
	b.PopLabel()
	b.EmitGetLocal(2)
	b.EmitJump(done)

	b.SyncStackDepth(0) // zeroCase is reached only from the ifeq above, at depth 0
	b.Bind(zeroCase)
	b.EmitPushInt(32)

	b.Bind(done)
	b.EmitReturnValue()
	return b
}

// synthesizeMemorySize builds the memory.size helper: current page count is
// the domain memory ByteArray's length divided by the 64KiB page size
// (§4.1.7 Host MemorySize).
func synthesizeMemorySize() *abc.MethodBuilder {
	b := abc.NewMethodBuilder(0)
	b.EmitGetLocal(0)
	b.EmitGetProperty(traitMemory)
	b.EmitGetProperty("length")
	b.EmitPushInt(16)
	b.EmitBinary(abc.OpURShift)
	b.EmitReturnValue()
	return b
}

// synthesizeMemoryGrow builds the memory.grow helper (§4.1.7 Host
// MemoryGrow): grows the ByteArray by delta pages, reattaches domain
// memory, and returns the previous page count (Wasm's memory.grow result).
func synthesizeMemoryGrow() *abc.MethodBuilder {
	b := abc.NewMethodBuilder(1) // local1 = delta

	// local2 = old page count
	b.EmitGetLocal(0)
	b.EmitGetProperty(traitMemory)
	b.EmitGetProperty("length")
	b.EmitPushInt(16)
	b.EmitBinary(abc.OpURShift)
	old := b.AcquireTemp()
	b.EmitSetLocal(old)

	// memory.length = (old + delta) * pageSize
	b.EmitGetLocal(0)
	b.EmitGetProperty(traitMemory)
	b.EmitGetLocal(old)
	b.EmitGetLocal(1)
	b.EmitBinary(abc.OpAddI)
	b.EmitPushInt(pageSize)
	b.EmitBinary(abc.OpMultiplyI)
	b.EmitSetProperty("length")

	reattachDomainMemory(b)

	b.EmitGetLocal(old)
	b.ReleaseTemp(old)
	b.EmitReturnValue()
	return b
}

// synthesizeMemoryInit builds memory_init(byteOffset:int, data:String):void
// (§4.3): writes each data character's code point into memory at
// byteOffset+i via si8, for i in [0, data.length). The instance initializer
// calls this once per data segment, with each segment's bytes packed as a
// string constant (one Unicode character per byte, §4.3 "Data-segment
// encoding") -- the only portable channel the ABC constant pool offers for
// a byte blob.
func synthesizeMemoryInit() *abc.MethodBuilder {
	b := abc.NewMethodBuilder(2) // local1 = byteOffset, local2 = data

	i := b.AcquireTemp()
	b.EmitPushInt(0)
	b.EmitSetLocal(i)

	loopStart := b.PushLabel("")
	loopEnd := b.PushLabel("")
	b.PopLabel()
	b.PopLabel()

	b.Bind(loopStart)
	b.EmitGetLocal(i)
	b.EmitGetLocal(2)
	b.EmitGetProperty("length")
	b.EmitBinary(abc.OpLessThan)
	b.EmitConditionalJump(abc.OpIfFalse, loopEnd, 1)

	b.EmitGetLocal(2)
	b.EmitGetLocal(i)
	b.EmitCallProperty("charCodeAt", 1, false)
	b.EmitGetLocal(1)
	b.EmitGetLocal(i)
	b.EmitBinary(abc.OpAddI)
	b.EmitSimple(abc.OpSI8, -2)

	b.EmitIncLocalI(i)
	b.EmitJump(loopStart)

	b.Bind(loopEnd)
	b.ReleaseTemp(i)
	b.EmitReturnVoid()
	return b
}
