package wasmread

import "fmt"

const nameSubsectionFunction = 1

// decodeNameSection reads the "name" custom section's function-names
// subsection, giving defined/imported functions their real names instead
// of the synthetic f<index> fallback. Any other subsection (module name,
// local names) is skipped rather than parsed: nothing downstream needs
// them.
func decodeNameSection(data []byte) (map[uint32]string, error) {
	r := &reader{buf: data}
	names := make(map[uint32]string)
	for !r.done() {
		id, err := r.byte()
		if err != nil {
			return nil, fmt.Errorf("wasmread: name subsection id: %w", err)
		}
		size, err := r.varU32()
		if err != nil {
			return nil, fmt.Errorf("wasmread: name subsection size: %w", err)
		}
		body, err := r.bytes(int(size))
		if err != nil {
			return nil, fmt.Errorf("wasmread: name subsection body: %w", err)
		}
		if id != nameSubsectionFunction {
			continue
		}
		sr := &reader{buf: body}
		count, err := sr.varU32()
		if err != nil {
			return nil, fmt.Errorf("wasmread: function name count: %w", err)
		}
		for i := uint32(0); i < count; i++ {
			idx, err := sr.varU32()
			if err != nil {
				return nil, fmt.Errorf("wasmread: function name %d index: %w", i, err)
			}
			name, err := sr.name()
			if err != nil {
				return nil, fmt.Errorf("wasmread: function name %d: %w", i, err)
			}
			names[idx] = name
		}
	}
	return names, nil
}
