package container

// constantPool accumulates the ABC constant pool entries a method body or
// trait can reference by index: ints, uints, doubles, strings, namespaces,
// and multinames (QName and the late-bound MultinameL form §4.1.6
// CallIndirect needs for runtime property names). Index 0 in every ABC pool
// is reserved ("*"/undefined/empty); entries proper start at 1, matching
// the format's own convention rather than this package's choice.
type constantPool struct {
	ints        []int32
	intIndex    map[int32]uint32
	uints       []uint32
	uintIndex   map[uint32]uint32
	doubles     []float64
	doubleIndex map[float64]uint32
	strings     []string
	stringIndex map[string]uint32

	namespaces     []string // package name per namespace entry; "" is the public namespace
	namespaceIndex map[string]uint32

	multinames []multiname
}

// multiname is either a QName (Name != "", bound to a namespace) or a
// MultinameL (Name == "", late-bound -- the actual name is supplied on the
// operand stack at the call site).
type multiname struct {
	Name      string
	NSIdx     uint32
	LateBound bool
}

func newConstantPool() *constantPool {
	return &constantPool{
		intIndex:    make(map[int32]uint32),
		uintIndex:   make(map[uint32]uint32),
		doubleIndex: make(map[float64]uint32),
		stringIndex: make(map[string]uint32),
		namespaceIndex: make(map[string]uint32),
	}
}

func (p *constantPool) addInt(v int32) uint32 {
	if idx, ok := p.intIndex[v]; ok {
		return idx
	}
	p.ints = append(p.ints, v)
	idx := uint32(len(p.ints))
	p.intIndex[v] = idx
	return idx
}

func (p *constantPool) addUint(v uint32) uint32 {
	if idx, ok := p.uintIndex[v]; ok {
		return idx
	}
	p.uints = append(p.uints, v)
	idx := uint32(len(p.uints))
	p.uintIndex[v] = idx
	return idx
}

func (p *constantPool) addDouble(v float64) uint32 {
	if idx, ok := p.doubleIndex[v]; ok {
		return idx
	}
	p.doubles = append(p.doubles, v)
	idx := uint32(len(p.doubles))
	p.doubleIndex[v] = idx
	return idx
}

func (p *constantPool) addString(s string) uint32 {
	if idx, ok := p.stringIndex[s]; ok {
		return idx
	}
	p.strings = append(p.strings, s)
	idx := uint32(len(p.strings))
	p.stringIndex[s] = idx
	return idx
}

// publicNamespace returns the index of the public ("") package namespace,
// the only one this compiler's output ever needs -- every synthesized
// member lives in the class's own public API surface.
func (p *constantPool) publicNamespace() uint32 {
	if idx, ok := p.namespaceIndex[""]; ok {
		return idx
	}
	p.namespaces = append(p.namespaces, "")
	idx := uint32(len(p.namespaces))
	p.namespaceIndex[""] = idx
	return idx
}

// qname returns the multiname pool index for a public-namespace QName,
// interning by name.
func (p *constantPool) qname(name string) uint32 {
	ns := p.publicNamespace()
	for i, m := range p.multinames {
		if !m.LateBound && m.Name == name && m.NSIdx == ns {
			return uint32(i + 1)
		}
	}
	p.multinames = append(p.multinames, multiname{Name: name, NSIdx: ns})
	return uint32(len(p.multinames))
}

// runtimeMultiname returns the shared MultinameL pool index used for every
// late-bound property access (§4.1.6 "name == '' means the property name
// itself is on the stack").
func (p *constantPool) runtimeMultiname() uint32 {
	for i, m := range p.multinames {
		if m.LateBound {
			return uint32(i + 1)
		}
	}
	p.multinames = append(p.multinames, multiname{LateBound: true, NSIdx: p.publicNamespace()})
	return uint32(len(p.multinames))
}

// write serializes the full constant_pool record (§ABC file format:
// int_pool, uint_pool, double_pool, string_pool, namespace_pool,
// ns_set_pool (empty -- none of our multinames use namespace sets),
// multiname_pool), each pool prefixed by its entry count plus one.
func (p *constantPool) write(w *byteWriter) {
	// Namespace and multiname names live in the string pool too; register
	// them before the string pool itself is serialized so their indices are
	// already stable by the time the string section is written.
	nsNameIdx := make([]uint32, len(p.namespaces))
	for i, name := range p.namespaces {
		nsNameIdx[i] = p.addString(name)
	}
	mnNameIdx := make([]uint32, len(p.multinames))
	for i, m := range p.multinames {
		if !m.LateBound {
			mnNameIdx[i] = p.addString(m.Name)
		}
	}

	w.u30(uint32(len(p.ints)) + 1)
	for _, v := range p.ints {
		w.s32(v)
	}
	w.u30(uint32(len(p.uints)) + 1)
	for _, v := range p.uints {
		w.u30(v)
	}
	w.u30(uint32(len(p.doubles)) + 1)
	for _, v := range p.doubles {
		w.d64(v)
	}
	w.u30(uint32(len(p.strings)) + 1)
	for _, s := range p.strings {
		w.utf8String(s)
	}

	const namespaceKindPackage = 0x16
	w.u30(uint32(len(p.namespaces)) + 1)
	for _, idx := range nsNameIdx {
		w.byte(namespaceKindPackage)
		w.u30(idx)
	}

	w.u30(1) // empty ns_set_pool (index 0 reserved, no ns_set entries used)

	const (
		multinameKindQName      = 0x07
		multinameKindMultinameL = 0x1b
	)
	w.u30(uint32(len(p.multinames)) + 1)
	for i, m := range p.multinames {
		if m.LateBound {
			w.byte(multinameKindMultinameL)
			w.u30(0) // ns_set index 0: resolved entirely at runtime
			continue
		}
		w.byte(multinameKindQName)
		w.u30(m.NSIdx)
		w.u30(mnNameIdx[i])
	}
}
