package abc

// Label is a mutable jump-target symbol (§3 "Label"). It is created when a
// structured construct is entered, may be referenced by branches before or
// after it is bound, and is bound at most once.
type Label struct {
	// Name is the Wasm source block/loop name, if any; purely diagnostic.
	Name string

	used  bool
	bound bool
	// index is the position of the marker instruction emitted at the bind
	// site, within the owning MethodBuilder's instruction stream.
	index int
}

// Used reports whether any branch has targeted this label.
func (l *Label) Used() bool { return l.used }

// Bound reports whether Bind has already been called on this label.
func (l *Label) Bound() bool { return l.bound }

// Index returns the bound label's position in the owning MethodBuilder's
// Instrs slice (the index of its OpLabel marker). Callers must only call
// this after Bind; it backs internal/container's two-pass offset
// resolution, which needs to map a label back to a concrete stream
// position rather than just a before/after ordering.
func (l *Label) Index() int { return l.index }
