package abc

import (
	"fmt"
	"strings"
)

// Disassemble renders mb's instruction stream as one mnemonic per line, for
// tests that want to assert on emitted shape (opcode sequence, operand
// values, branch targets) without decoding the serialized ABC bytes a
// method_body_info record would carry. It is a debugging/testing aid, not
// part of the ABC encoding pipeline itself: no AVM2 VM is part of this
// project, so inspecting the pre-encoding instruction list is as close to
// "running" a method body as these tests get.
func Disassemble(mb *MethodBuilder) string {
	var b strings.Builder
	for i, ins := range mb.Instrs {
		fmt.Fprintf(&b, "%3d: %s", i, ins.Op)
		switch {
		case ins.Target != nil:
			fmt.Fprintf(&b, " %s", labelText(ins.Target))
		case ins.Default != nil:
			fmt.Fprintf(&b, " default=%s", labelText(ins.Default))
			for _, c := range ins.Cases {
				fmt.Fprintf(&b, " case=%s", labelText(c))
			}
		case ins.Name != "":
			fmt.Fprintf(&b, " %q", ins.Name)
		case ins.Op == OpPushDouble:
			fmt.Fprintf(&b, " %g", ins.Double)
		}
		if ins.ArgCount != 0 {
			fmt.Fprintf(&b, " argc=%d", ins.ArgCount)
		}
		if ins.Name == "" && ins.Target == nil && ins.Default == nil && (ins.Int != 0 || isIntOperand(ins.Op)) {
			fmt.Fprintf(&b, " %d", ins.Int)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func labelText(l *Label) string {
	if l.Name != "" {
		return "$" + l.Name
	}
	return fmt.Sprintf("L%d", l.index)
}

// isIntOperand reports whether op's Int field is a meaningful immediate
// (local index, byte offset, pushed literal) worth printing even when it
// happens to be zero, as opposed to an op that never uses Int at all.
func isIntOperand(op Op) bool {
	switch op {
	case OpPushInt, OpPushByte, OpGetLocal, OpSetLocal, OpIncLocal, OpDecLocal,
		OpIncLocalI, OpDecLocalI, OpNewClass, OpNewObject, OpNewArray, OpDebugLine:
		return true
	default:
		return false
	}
}
