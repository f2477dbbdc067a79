package wasmread

import (
	"fmt"

	"github.com/brion/wasm2swf/api"
)

const funcTypeForm = 0x60

// funcType is one entry of the type section: a function signature. This
// core only ever sees a single result value (or none), matching
// ir.Function.Result's shape rather than the multi-value proposal's result
// vector.
type funcType struct {
	params  []api.ValueType
	results []api.ValueType
}

func (t funcType) result() (api.ValueType, error) {
	switch len(t.results) {
	case 0:
		return api.ValueTypeNone, nil
	case 1:
		return t.results[0], nil
	default:
		return 0, newPreconditionError("function type declares %d results; only 0 or 1 is supported", len(t.results))
	}
}

// decodeTypeSection reads the vector of function types (§6 binary format
// type section).
func decodeTypeSection(r *reader) ([]funcType, error) {
	count, err := r.varU32()
	if err != nil {
		return nil, fmt.Errorf("wasmread: type section count: %w", err)
	}
	out := make([]funcType, count)
	for i := range out {
		form, err := r.byte()
		if err != nil {
			return nil, fmt.Errorf("wasmread: type %d form: %w", i, err)
		}
		if form != funcTypeForm {
			return nil, fmt.Errorf("wasmread: type %d: unsupported type form %#x", i, form)
		}
		params, err := decodeValueTypeVector(r)
		if err != nil {
			return nil, fmt.Errorf("wasmread: type %d params: %w", i, err)
		}
		results, err := decodeValueTypeVector(r)
		if err != nil {
			return nil, fmt.Errorf("wasmread: type %d results: %w", i, err)
		}
		out[i] = funcType{params: params, results: results}
	}
	return out, nil
}

func decodeValueTypeVector(r *reader) ([]api.ValueType, error) {
	n, err := r.varU32()
	if err != nil {
		return nil, err
	}
	out := make([]api.ValueType, n)
	for i := range out {
		b, err := r.byte()
		if err != nil {
			return nil, err
		}
		vt, err := decodeValueType(b)
		if err != nil {
			return nil, err
		}
		out[i] = vt
	}
	return out, nil
}
