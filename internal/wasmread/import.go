package wasmread

import (
	"fmt"

	"github.com/brion/wasm2swf/api"
)

// Wasm's import/export kind bytes match api.ExternType's values exactly
// (§6 binary format external_kind), so no translation table is needed.

// rawImport carries every field an import entry might declare; only the
// fields relevant to its own kind are populated.
type rawImport struct {
	module, field string
	kind          api.ExternType
	typeIdx       uint32
	tableLimits   limits
	memLimits     limits
	globalType    api.ValueType
	globalMutable bool
}

func decodeImportSection(r *reader) ([]rawImport, error) {
	count, err := r.varU32()
	if err != nil {
		return nil, fmt.Errorf("wasmread: import section count: %w", err)
	}
	out := make([]rawImport, count)
	for i := range out {
		mod, err := r.name()
		if err != nil {
			return nil, fmt.Errorf("wasmread: import %d module name: %w", i, err)
		}
		field, err := r.name()
		if err != nil {
			return nil, fmt.Errorf("wasmread: import %d field name: %w", i, err)
		}
		kind, err := r.byte()
		if err != nil {
			return nil, fmt.Errorf("wasmread: import %d kind: %w", i, err)
		}
		imp := rawImport{module: mod, field: field, kind: kind}
		switch kind {
		case api.ExternTypeFunc:
			imp.typeIdx, err = r.varU32()
		case api.ExternTypeTable:
			var elemType byte
			elemType, err = r.byte()
			if err == nil && elemType != binFuncRef {
				return nil, fmt.Errorf("wasmread: import %d: unsupported table element type %#x", i, elemType)
			}
			if err == nil {
				imp.tableLimits, err = decodeLimits(r)
			}
		case api.ExternTypeMemory:
			imp.memLimits, err = decodeLimits(r)
		case api.ExternTypeGlobal:
			var vt byte
			vt, err = r.byte()
			if err == nil {
				imp.globalType, err = decodeValueType(vt)
			}
			if err == nil {
				var mut byte
				mut, err = r.byte()
				imp.globalMutable = mut != 0
			}
		default:
			return nil, fmt.Errorf("wasmread: import %d: unrecognized kind %#x", i, kind)
		}
		if err != nil {
			return nil, fmt.Errorf("wasmread: import %d (%s.%s): %w", i, mod, field, err)
		}
		out[i] = imp
	}
	return out, nil
}
