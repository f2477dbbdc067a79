package wasmread

import (
	"fmt"

	"github.com/brion/wasm2swf/api"
	"github.com/brion/wasm2swf/internal/ir"
)

// rawGlobal is one defined global section entry, before a name has been
// assigned (§6 binary format global section).
type rawGlobal struct {
	typ     api.ValueType
	mutable bool
	init    *ir.Const
}

func decodeGlobalSection(r *reader) ([]rawGlobal, error) {
	count, err := r.varU32()
	if err != nil {
		return nil, fmt.Errorf("wasmread: global section count: %w", err)
	}
	out := make([]rawGlobal, count)
	for i := range out {
		vt, err := r.byte()
		if err != nil {
			return nil, fmt.Errorf("wasmread: global %d value type: %w", i, err)
		}
		typ, err := decodeValueType(vt)
		if err != nil {
			return nil, fmt.Errorf("wasmread: global %d: %w", i, err)
		}
		mut, err := r.byte()
		if err != nil {
			return nil, fmt.Errorf("wasmread: global %d mutability: %w", i, err)
		}
		init, err := decodeGlobalInitExpr(r, typ)
		if err != nil {
			return nil, fmt.Errorf("wasmread: global %d init: %w", i, err)
		}
		out[i] = rawGlobal{typ: typ, mutable: mut != 0, init: init}
	}
	return out, nil
}
