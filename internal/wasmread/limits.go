package wasmread

import "fmt"

// limits decodes a Wasm "limits" record: a flags byte (bit 0 set means a
// maximum follows) then a minimum, and optionally a maximum, both
// varuint32. Table and memory sections and table/memory imports all share
// this shape.
type limits struct {
	min    uint32
	max    uint32
	hasMax bool
}

func decodeLimits(r *reader) (limits, error) {
	flags, err := r.byte()
	if err != nil {
		return limits{}, fmt.Errorf("wasmread: limits flags: %w", err)
	}
	min, err := r.varU32()
	if err != nil {
		return limits{}, fmt.Errorf("wasmread: limits min: %w", err)
	}
	l := limits{min: min}
	if flags&0x01 != 0 {
		max, err := r.varU32()
		if err != nil {
			return limits{}, fmt.Errorf("wasmread: limits max: %w", err)
		}
		l.max = max
		l.hasMax = true
	}
	return l, nil
}
